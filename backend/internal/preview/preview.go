// Package preview renders tables and stage summaries for the terminal.
package preview

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/JustUsingaWebsite/weedops/backend/internal/types"
)

type Options struct {
	// Limit caps the rendered rows; 0 renders every row.
	Limit int
}

// Table renders data with a 1-based row number column.
func Table(data types.TableData, opts Options) string {
	t := newWriter()

	if data.HasHeader {
		header := table.Row{""}
		for _, h := range data.Header {
			header = append(header, h)
		}
		t.AppendHeader(header)
	}

	rows := data.Rows
	if opts.Limit > 0 && len(rows) > opts.Limit {
		rows = rows[:opts.Limit]
	}
	for i, r := range rows {
		row := table.Row{i + 1}
		for _, c := range r {
			row = append(row, c)
		}
		t.AppendRow(row)
	}
	if hidden := len(data.Rows) - len(rows); hidden > 0 {
		t.AppendFooter(table.Row{"", fmt.Sprintf("%d more rows", hidden)})
	}
	return t.Render()
}

// Summaries renders one line per filter stage.
func Summaries(sums []types.StageSummary) string {
	t := newWriter()
	t.AppendHeader(table.Row{"stage", "processed", "kept", "dropped", "skipped", "blank", "coerced", "degenerate"})
	for _, s := range sums {
		t.AppendRow(table.Row{s.Stage, s.Processed, s.Kept, s.Dropped, s.SkippedCells, s.BlankCells, s.Coerced, s.Degenerate})
	}
	return t.Render()
}

func newWriter() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Format = table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	}
	t.Style().Options.DrawBorder = false
	t.SuppressTrailingSpaces()
	return t
}
