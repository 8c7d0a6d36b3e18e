package csvops

import (
	"strconv"
	"strings"

	"github.com/JustUsingaWebsite/weedops/backend/internal/types"
	"github.com/JustUsingaWebsite/weedops/backend/internal/utils"
)

// Table is an ordered set of rows aligned to a header. Filters never mutate a
// Table; they return a new one.
type Table struct {
	header []string
	rows   [][]string
}

// LoadOptions controls ingest normalization.
type LoadOptions struct {
	TrimSpaces bool `json:"trim_spaces" yaml:"trim_spaces" mapstructure:"trim_spaces"` // trim + collapse whitespace in every cell
}

// Load builds a Table from a header row and data rows. Rows without any
// content are dropped.
func Load(header []string, rows [][]string) *Table {
	return LoadWith(header, rows, LoadOptions{})
}

// LoadWith is Load with ingest normalization.
func LoadWith(header []string, rows [][]string, opts LoadOptions) *Table {
	t := &Table{
		header: append([]string(nil), header...),
		rows:   make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		if isEmptyRow(r) {
			continue
		}
		// copy row to avoid aliasing
		rowCopy := append([]string(nil), r...)
		if opts.TrimSpaces {
			for i, c := range rowCopy {
				rowCopy[i] = utils.WhitespaceTrimmer(c)
			}
		}
		t.rows = append(t.rows, rowCopy)
	}
	return t
}

func isEmptyRow(r []string) bool {
	for _, c := range r {
		if !utils.IsBlank(c) {
			return false
		}
	}
	return true
}

// ExportOptions controls Export.
type ExportOptions struct {
	IncludeHeader bool `json:"include_header" yaml:"include_header" mapstructure:"include_header"`
}

// Export returns the rows ready for a delimited writer, in table order.
// The header row is emitted only when requested.
func Export(t *Table, opts ExportOptions) [][]string {
	out := make([][]string, 0, len(t.rows)+1)
	if opts.IncludeHeader {
		out = append(out, append([]string(nil), t.header...))
	}
	for _, r := range t.rows {
		out = append(out, append([]string(nil), r...))
	}
	return out
}

// Data returns the serializable form of the table.
func (t *Table) Data() types.TableData {
	return types.TableData{
		HasHeader: true,
		Header:    t.Header(),
		Rows:      Export(t, ExportOptions{}),
	}
}

func (t *Table) Header() []string { return append([]string(nil), t.header...) }
func (t *Table) Len() int         { return len(t.rows) }

// Row returns a copy of row i.
func (t *Table) Row(i int) []string { return append([]string(nil), t.rows[i]...) }

// Rows returns a copy of all rows.
func (t *Table) Rows() [][]string { return Export(t, ExportOptions{}) }

// Deduplicate drops rows whose whole cell sequence equals an earlier row.
// The first occurrence wins and the order of survivors is kept.
func (t *Table) Deduplicate() *Table {
	seen := make(map[string]struct{}, len(t.rows))
	out := &Table{header: t.header, rows: make([][]string, 0, len(t.rows))}
	for _, r := range t.rows {
		key := rowKey(r)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.rows = append(out.rows, r)
	}
	return out
}

// rowKey length-prefixes every cell so that ["a,b"] and ["a","b"] differ.
func rowKey(r []string) string {
	var b strings.Builder
	for _, c := range r {
		b.WriteString(strconv.Itoa(len(c)))
		b.WriteByte(':')
		b.WriteString(c)
	}
	return b.String()
}

// cell returns row[idx] or "" when the row is shorter than the header.
func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

// keepIf builds the deduplicated table of rows accepted by keep. On error the
// partial result is discarded.
func (t *Table) keepIf(keep func(row []string) (bool, error)) (*Table, error) {
	out := &Table{header: t.header, rows: make([][]string, 0, len(t.rows))}
	for _, r := range t.rows {
		ok, err := keep(r)
		if err != nil {
			return nil, err
		}
		if ok {
			out.rows = append(out.rows, r)
		}
	}
	return out.Deduplicate(), nil
}
