// Package ui renders tables and interactive prompts for the CLI.
package ui

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"musicgenie/internal/textutil"
	"musicgenie/internal/youtube"
)

// Alignment selects column alignment for RenderTable.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// RenderTable renders a rounded-style table with per-column alignment.
func RenderTable(headers []string, rows [][]string, aligns []Alignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == AlignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// CandidateTable renders search results for selection. Unknown durations
// and view counts render as "?" via the shared formatters.
func CandidateTable(candidates []youtube.Candidate) string {
	rows := make([][]string, 0, len(candidates))
	for i, c := range candidates {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.Title,
			c.Uploader,
			textutil.FormatDuration(c.Duration),
			textutil.FormatCount(c.Views),
		})
	}
	return RenderTable(
		[]string{"#", "Title", "Uploader", "Duration", "Views"},
		rows,
		[]Alignment{AlignRight, AlignLeft, AlignLeft, AlignRight, AlignRight},
	)
}
