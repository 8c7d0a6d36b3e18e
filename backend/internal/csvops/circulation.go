package csvops

import (
	"strings"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/JustUsingaWebsite/weedops/backend/internal/dateformat"
	"github.com/JustUsingaWebsite/weedops/backend/internal/types"
	"github.com/JustUsingaWebsite/weedops/backend/internal/utils"
	"github.com/JustUsingaWebsite/weedops/backend/internal/weederr"
)

// CoercionPolicy decides how circulation cells that are not whole numbers are read.
type CoercionPolicy string

const (
	// Permissive reads unparseable or negative counts as 0 and counts them.
	Permissive CoercionPolicy = "permissive"
	// Strict fails the stage on the first unparseable or negative count.
	Strict CoercionPolicy = "strict"
)

// ParseCoercionPolicy maps an option value; "" means permissive.
func ParseCoercionPolicy(s string) (CoercionPolicy, error) {
	switch CoercionPolicy(s) {
	case "", Permissive:
		return Permissive, nil
	case Strict:
		return Strict, nil
	}
	return "", weederr.Config("coercion", s, "use permissive or strict")
}

// Pairing decides which circulation column is averaged against which date column.
type Pairing string

const (
	// Cartesian combines every circulation column with every date column.
	Cartesian Pairing = "cartesian"
	// Positional pairs the i-th circulation column with the i-th date column.
	Positional Pairing = "positional"
)

func ParsePairing(s string) (Pairing, error) {
	switch Pairing(s) {
	case "", Cartesian:
		return Cartesian, nil
	case Positional:
		return Positional, nil
	}
	return "", weederr.Config("pairing", s, "use cartesian or positional")
}

type CirculationOptions struct {
	Coercion CoercionPolicy `json:"coercion" yaml:"coercion" mapstructure:"coercion"`
	Logger   *zap.Logger    `json:"-" yaml:"-" mapstructure:"-"`
}

type AverageOptions struct {
	Coercion     CoercionPolicy   `json:"coercion" yaml:"coercion" mapstructure:"coercion"`
	OnParseError ParseErrorPolicy `json:"on_parse_error" yaml:"on_parse_error" mapstructure:"on_parse_error"`
	Pairing      Pairing          `json:"pairing" yaml:"pairing" mapstructure:"pairing"`
	// Now supplies the current year; time.Now when nil.
	Now    func() time.Time `json:"-" yaml:"-" mapstructure:"-"`
	Logger *zap.Logger      `json:"-" yaml:"-" mapstructure:"-"`
}

// CoerceCount reads a circulation cell. Blank cells are 0. Thousands
// separators and surrounding space are ignored. coerced is true when a
// non-blank cell was read as 0 under the permissive policy.
func CoerceCount(text string, policy CoercionPolicy) (n int, coerced bool, err error) {
	s := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if s == "" {
		return 0, false, nil
	}
	digits := strings.TrimPrefix(s, "+")
	// leading zeros would otherwise select octal in cast
	if utils.DigitsOnly(digits) {
		digits = strings.TrimLeft(digits, "0")
		if digits == "" {
			digits = "0"
		}
		v, castErr := cast.ToIntE(digits)
		if castErr == nil {
			return v, false, nil
		}
		err = castErr
	}
	if policy == Strict {
		return 0, false, weederr.Parse("circulation", text, err)
	}
	return 0, true, nil
}

type countReader struct {
	policy CoercionPolicy
	log    *zap.Logger
	sum    *types.StageSummary
}

func newCountReader(policy CoercionPolicy, log *zap.Logger, sum *types.StageSummary) (*countReader, error) {
	p, err := ParseCoercionPolicy(string(policy))
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &countReader{policy: p, log: log, sum: sum}, nil
}

func (c *countReader) read(text, column string) (int, error) {
	n, coerced, err := CoerceCount(text, c.policy)
	if err != nil {
		return 0, err
	}
	if coerced {
		c.sum.Coerced++
		c.log.Debug("circulation read as 0",
			zap.String("column", column),
			zap.String("value", text))
	}
	return n, nil
}

// FilterMinCirculation keeps rows where at least one selected count is at most
// minimum.
func (t *Table) FilterMinCirculation(sel Selector, minimum int, opts CirculationOptions) (*Table, types.StageSummary, error) {
	start := time.Now()
	sum := types.StageSummary{Stage: "circulation_absolute", Processed: t.Len()}
	if err := sel.check(t); err != nil {
		return t, sum, err
	}
	if minimum < 0 {
		return t, sum, weederr.Config("minimum", cast.ToString(minimum), "minimum must not be negative")
	}
	counts, err := newCountReader(opts.Coercion, opts.Logger, &sum)
	if err != nil {
		return t, sum, err
	}

	out, err := t.keepIf(func(row []string) (bool, error) {
		keep := false
		for _, idx := range sel.indexes {
			n, err := counts.read(cell(row, idx), t.header[idx])
			if err != nil {
				return false, err
			}
			if n <= minimum {
				keep = true
			}
		}
		return keep, nil
	})
	if err != nil {
		return t, sum, err
	}
	return out, finish(sum, out, start), nil
}

type columnPair struct{ circ, date int }

// CheckPairing reports whether the date columns can be paired with the
// circulation columns under the given rule.
func CheckPairing(circ, dates Selector, pairing Pairing) error {
	if pairing == Positional && len(circ.indexes) != len(dates.indexes) {
		return weederr.Config("pairing", string(pairing), "positional pairing needs as many date columns as circulation columns")
	}
	return nil
}

func pairColumns(circ, dates Selector, pairing Pairing) ([]columnPair, error) {
	p, err := ParsePairing(string(pairing))
	if err != nil {
		return nil, err
	}
	if err := CheckPairing(circ, dates, p); err != nil {
		return nil, err
	}
	var pairs []columnPair
	if p == Positional {
		for i := range circ.indexes {
			pairs = append(pairs, columnPair{circ.indexes[i], dates.indexes[i]})
		}
		return pairs, nil
	}
	for _, c := range circ.indexes {
		for _, d := range dates.indexes {
			pairs = append(pairs, columnPair{c, d})
		}
	}
	return pairs, nil
}

// FilterAvgCirculation keeps rows where, for at least one (circulation, date)
// column pair, count / years-since-acquisition (floored) is at most
// minimumPerYear. Pairs whose acquisition year is not before the current year
// have no computable age and are left out.
func (t *Table) FilterAvgCirculation(circ, dates Selector, spec dateformat.Spec, minimumPerYear int, opts AverageOptions) (*Table, types.StageSummary, error) {
	start := time.Now()
	sum := types.StageSummary{Stage: "circulation_average", Processed: t.Len()}
	if err := circ.check(t); err != nil {
		return t, sum, err
	}
	if err := dates.check(t); err != nil {
		return t, sum, err
	}
	if minimumPerYear < 0 {
		return t, sum, weederr.Config("minimum_per_year", cast.ToString(minimumPerYear), "minimum must not be negative")
	}
	pairs, err := pairColumns(circ, dates, opts.Pairing)
	if err != nil {
		return t, sum, err
	}
	counts, err := newCountReader(opts.Coercion, opts.Logger, &sum)
	if err != nil {
		return t, sum, err
	}
	reader, err := newDateReader(spec, opts.OnParseError, opts.Logger, &sum)
	if err != nil {
		return t, sum, err
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	currentYear := now().Year()
	log := reader.log

	out, err := t.keepIf(func(row []string) (bool, error) {
		keep := false
		for _, p := range pairs {
			acquired, ok, err := reader.read(cell(row, p.date), t.header[p.date])
			if err != nil {
				return false, err
			}
			if !ok {
				continue
			}
			years := currentYear - acquired.Year()
			if years <= 0 {
				sum.Degenerate++
				log.Debug("acquisition year not before current year",
					zap.Error(weederr.Degenerate(t.header[p.date], cell(row, p.date), "no elapsed years")),
					zap.Int("current_year", currentYear))
				continue
			}
			n, err := counts.read(cell(row, p.circ), t.header[p.circ])
			if err != nil {
				return false, err
			}
			if floorDiv(n, years) <= minimumPerYear {
				keep = true
			}
		}
		return keep, nil
	})
	if err != nil {
		return t, sum, err
	}
	return out, finish(sum, out, start), nil
}

// floorDiv is integer division rounding toward negative infinity; b > 0.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}
