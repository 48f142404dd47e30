// Package report writes the persisted run report (processing_log.txt) into
// the target folder: a header, a directory-rename section, a per-file
// section, and a final summary block. The console logger is separate; the
// report is the durable record of what the run did (or would do).
package report

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

const rule = 60

// Report appends structured sections to the run report file. Methods never
// return errors; a report write failure must not abort the run, so write
// errors surface once, on Close.
type Report struct {
	f    *os.File
	w    *bufio.Writer
	path string
}

// Create truncates and opens the report file at path and writes the header.
// mode is "DRY RUN" or "LIVE".
func Create(path, mode, runID, target string, fileCount int) (*Report, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	r := &Report{f: f, w: bufio.NewWriter(f), path: path}

	fmt.Fprintf(r.w, "Audio Processing Log - %s\n", mode)
	fmt.Fprintln(r.w, strings.Repeat("=", rule))
	fmt.Fprintf(r.w, "Run ID: %s\n", runID)
	fmt.Fprintf(r.w, "Target: %s\n", target)
	fmt.Fprintf(r.w, "Files found: %d\n", fileCount)
	return r, nil
}

// Path returns the report file location.
func (r *Report) Path() string {
	return r.path
}

// BeginDirPhase opens the directory-renaming section.
func (r *Report) BeginDirPhase() {
	fmt.Fprintf(r.w, "\n=== PHASE 1: DIRECTORY RENAMING ===\n\n")
}

// DirRename records one directory rename (or would-rename in preview mode).
func (r *Report) DirRename(oldRel, newName string) {
	fmt.Fprintf(r.w, "Rename: %s -> %s\n", oldRel, newName)
}

// DirError records a failed directory rename; the directory keeps its name.
func (r *Report) DirError(oldRel string, err error) {
	fmt.Fprintf(r.w, "  ERROR: Could not rename %s: %v\n", oldRel, err)
}

// EndDirPhase closes the directory section with the rename count.
func (r *Report) EndDirPhase(renamed int) {
	fmt.Fprintf(r.w, "\nRenamed %d directories\n", renamed)
}

// BeginFilePhase opens the per-file section with the candidate count.
func (r *Report) BeginFilePhase(found int) {
	fmt.Fprintf(r.w, "\n=== PHASE 2: AUDIO FILE PROCESSING ===\n\n")
	fmt.Fprintf(r.w, "Found %d audio files\n\n", found)
}

// FileStart records the sequence-indexed header line for one candidate.
// Files needing no action get no lines at all.
func (r *Report) FileStart(index, total int, rel string) {
	fmt.Fprintf(r.w, "[%d/%d] Processing: %s\n", index, total, rel)
}

// FileWould records the preview-mode outcome, e.g. "rename, convert".
func (r *Report) FileWould(actions, finalName string) {
	fmt.Fprintf(r.w, "  Would %s to: %s\n", actions, finalName)
}

// FileSuccess records an applied outcome, e.g. verb "Converted".
func (r *Report) FileSuccess(verb, finalName string) {
	fmt.Fprintf(r.w, "  SUCCESS: %s to %s\n", verb, finalName)
}

// FileError records a per-file failure; the run continues.
func (r *Report) FileError(err error) {
	fmt.Fprintf(r.w, "  ERROR: %v\n", err)
}

// Summary writes the final counter block.
func (r *Report) Summary(processed, total, converted, renamed, failed int) {
	fmt.Fprintf(r.w, "\nSummary:\n")
	fmt.Fprintf(r.w, "  Processed: %d/%d\n", processed, total)
	fmt.Fprintf(r.w, "  Converted: %d\n", converted)
	fmt.Fprintf(r.w, "  Renamed: %d\n", renamed)
	fmt.Fprintf(r.w, "  Failed: %d\n", failed)
}

// Close flushes and closes the report file.
func (r *Report) Close() error {
	flushErr := r.w.Flush()
	closeErr := r.f.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
