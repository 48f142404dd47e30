package pipeline

// RunStats tracks aggregate counters across a run. A file that was both
// renamed and converted counts toward Renamed and Converted, but toward
// Processed only once.
type RunStats struct {
	Total       int // Candidates discovered.
	Current     int // 1-based index of the file being processed.
	DirsRenamed int
	Processed   int // Files with at least one applied action.
	Renamed     int
	Converted   int
	Failed      int

	TotalInputBytes  int64
	TotalOutputBytes int64
}

// SpaceSaved returns the aggregate byte difference between the original
// files and their replacements. Positive means the tree shrank.
func (s *RunStats) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}
