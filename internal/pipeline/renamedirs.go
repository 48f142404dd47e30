package pipeline

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/backmassage/samplenorm/internal/config"
	"github.com/backmassage/samplenorm/internal/logging"
	"github.com/backmassage/samplenorm/internal/naming"
	"github.com/backmassage/samplenorm/internal/report"
)

// RenameDirectories is Phase 1: every directory under the target (excluding
// the target itself) is renamed to its normalized name, deepest first so a
// child is renamed while its original parent path is still valid. Failures
// are logged and skipped; the phase always runs to completion. Returns the
// number of renames performed (or previewed, in dry-run mode).
func RenameDirectories(cfg *config.Config, log *logging.Logger, rep *report.Report) int {
	log.Info("Phase 1: Renaming directories...")
	rep.BeginDirPhase()

	renamed := 0
	dirs, err := collectDirs(cfg.TargetDir)
	if err != nil {
		log.Error("Directory enumeration failed: %v", err)
		rep.EndDirPhase(renamed)
		return renamed
	}

	for _, dir := range dirs {
		// An ancestor rename would only move this path if ancestors were
		// processed first; deepest-first ordering prevents that. The
		// existence check still guards against anything else touching the
		// tree mid-run.
		if _, err := os.Lstat(dir); err != nil {
			continue
		}

		name := filepath.Base(dir)
		newName := naming.Normalize(name)
		if newName == name {
			continue
		}

		newPath := filepath.Join(filepath.Dir(dir), newName)
		rel := relTo(cfg.TargetDir, dir)

		log.Info("  %s -> %s", rel, newName)
		rep.DirRename(rel, newName)

		if cfg.DryRun {
			renamed++
			continue
		}

		if collided(dir, newPath) {
			err := errors.New("target name already exists")
			log.Error("  Skipped %s: %v", rel, err)
			rep.DirError(rel, err)
			continue
		}

		if err := os.Rename(dir, newPath); err != nil {
			log.Error("  Skipped %s: %v", rel, err)
			rep.DirError(rel, err)
			continue
		}
		renamed++
	}

	log.Info("  Renamed %d directories", renamed)
	rep.EndDirPhase(renamed)
	return renamed
}

// collectDirs enumerates every directory strictly below root, deepest
// first. Equal depths are ordered lexicographically for determinism.
func collectDirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sep := string(filepath.Separator)
	sort.Slice(dirs, func(i, j int) bool {
		di := strings.Count(dirs[i], sep)
		dj := strings.Count(dirs[j], sep)
		if di != dj {
			return di > dj
		}
		return dirs[i] < dirs[j]
	})
	return dirs, nil
}

// collided reports whether newPath is already taken by a different file.
// On case-insensitive filesystems a case-only rename resolves to the same
// file; that is not a collision.
func collided(oldPath, newPath string) bool {
	newInfo, err := os.Lstat(newPath)
	if err != nil {
		return false
	}
	oldInfo, err := os.Lstat(oldPath)
	if err != nil {
		return false
	}
	return !os.SameFile(oldInfo, newInfo)
}

// relTo returns path relative to root, falling back to the absolute path
// when it cannot be derived.
func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
