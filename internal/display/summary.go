package display

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
)

// SummaryCounts holds the final run counters for table rendering.
type SummaryCounts struct {
	Total     int
	Processed int
	Renamed   int
	Converted int
	Failed    int
}

// RenderSummary renders the final counters as a bordered table string.
func RenderSummary(c SummaryCounts) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Counter", "Value"})
	tw.AppendRows([]table.Row{
		{"Candidates", strconv.Itoa(c.Total)},
		{"Processed", strconv.Itoa(c.Processed)},
		{"Renamed", strconv.Itoa(c.Renamed)},
		{"Converted", strconv.Itoa(c.Converted)},
		{"Failed", strconv.Itoa(c.Failed)},
	})
	return tw.Render()
}
