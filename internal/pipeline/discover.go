package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/backmassage/samplenorm/internal/config"
)

// Candidate audio file extensions (lowercase, with leading dot).
var audioExtensions = map[string]bool{
	".wav":  true,
	".aif":  true,
	".aiff": true,
	".mp3":  true,
	".flac": true,
}

// Files the run itself owns inside the target folder.
var reservedNames = map[string]bool{
	config.ReportFileName: true,
	config.LockFileName:   true,
}

// Discover walks root, collects files with audio extensions
// (case-insensitive), excludes the run's own report and lock files, and
// returns the paths sorted lexicographically. The full list is materialized
// before any processing starts; callers must re-check existence at point of
// use since earlier steps can invalidate later entries.
func Discover(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if reservedNames[d.Name()] {
			return nil
		}
		if audioExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
