package csvops

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/JustUsingaWebsite/weedops/backend/internal/dateformat"
	"github.com/JustUsingaWebsite/weedops/backend/internal/utils"
	"github.com/JustUsingaWebsite/weedops/backend/internal/weederr"
)

// --- Sort modes / options ---

type SortMode string
type SortOrder string

const (
	SortAlpha   SortMode = "alphabetical"
	SortNumeric SortMode = "numeric"
	SortDate    SortMode = "date"

	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

type SortOptions struct {
	Mode            SortMode        `json:"mode" yaml:"mode" mapstructure:"mode"`
	Order           SortOrder       `json:"order" yaml:"order" mapstructure:"order"`
	CaseInsensitive bool            `json:"case_insensitive" yaml:"case_insensitive" mapstructure:"case_insensitive"`
	DateFormat      dateformat.Spec `json:"-" yaml:"-" mapstructure:"-"` // required for SortDate
}

func tryParseFloat(s string) (float64, bool) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if clean == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Sort orders the rows by the first selected column. The sort is stable and
// cells that do not parse under the mode go last in either order.
func (t *Table) Sort(sel Selector, opts SortOptions) (*Table, error) {
	if err := sel.check(t); err != nil {
		return t, err
	}
	idx := sel.indexes[0]
	if opts.Mode == "" {
		opts.Mode = SortAlpha
	}
	if opts.Order == "" {
		opts.Order = OrderAsc
	}
	switch opts.Mode {
	case SortAlpha, SortNumeric:
	case SortDate:
		if opts.DateFormat.IsZero() {
			return t, weederr.Config("date_format", "", "date sort needs a date format")
		}
	default:
		return t, weederr.Config("sort_mode", string(opts.Mode), "use alphabetical, numeric or date")
	}
	if opts.Order != OrderAsc && opts.Order != OrderDesc {
		return t, weederr.Config("sort_order", string(opts.Order), "use asc or desc")
	}

	// comparator uses extracted sort value per row
	type rowWrap struct {
		row      []string
		alphaKey string
		numKey   float64
		dateKey  time.Time
		ok       bool
	}

	wrapped := make([]rowWrap, 0, len(t.rows))
	for _, r := range t.rows {
		w := rowWrap{row: r, ok: true}
		c := strings.TrimSpace(cell(r, idx))
		switch opts.Mode {
		case SortAlpha:
			w.alphaKey = utils.Normalize(c, false, opts.CaseInsensitive)
		case SortNumeric:
			w.numKey, w.ok = tryParseFloat(c)
		case SortDate:
			d, err := opts.DateFormat.Parse(c)
			w.dateKey, w.ok = d, err == nil
		}
		wrapped = append(wrapped, w)
	}

	asc := opts.Order == OrderAsc
	sort.SliceStable(wrapped, func(i, j int) bool {
		a, b := wrapped[i], wrapped[j]
		if a.ok != b.ok {
			return a.ok
		}
		if !a.ok {
			return false
		}
		switch opts.Mode {
		case SortNumeric:
			if a.numKey == b.numKey {
				return false
			}
			return (a.numKey < b.numKey) == asc
		case SortDate:
			if a.dateKey.Equal(b.dateKey) {
				return false
			}
			return a.dateKey.Before(b.dateKey) == asc
		default:
			if a.alphaKey == b.alphaKey {
				return false
			}
			return (a.alphaKey < b.alphaKey) == asc
		}
	})

	out := &Table{header: t.header, rows: make([][]string, 0, len(wrapped))}
	for _, w := range wrapped {
		out.rows = append(out.rows, w.row)
	}
	return out, nil
}
