package csvops

import (
	"time"

	"go.uber.org/zap"

	"github.com/JustUsingaWebsite/weedops/backend/internal/dateformat"
	"github.com/JustUsingaWebsite/weedops/backend/internal/types"
	"github.com/JustUsingaWebsite/weedops/backend/internal/utils"
	"github.com/JustUsingaWebsite/weedops/backend/internal/weederr"
)

// ParseErrorPolicy decides what a date stage does with a cell that does not
// fit the configured layout.
type ParseErrorPolicy string

const (
	// SkipCell leaves the cell out of consideration; the row can still be kept
	// through another selected column. Skips are counted and logged.
	SkipCell ParseErrorPolicy = "skip"
	// AbortStage fails the stage with the parse error; the input table is kept.
	AbortStage ParseErrorPolicy = "abort"
)

// ParseParseErrorPolicy maps an option value; "" means skip.
func ParseParseErrorPolicy(s string) (ParseErrorPolicy, error) {
	switch ParseErrorPolicy(s) {
	case "", SkipCell:
		return SkipCell, nil
	case AbortStage:
		return AbortStage, nil
	}
	return "", weederr.Config("on_parse_error", s, "use skip or abort")
}

type DateOptions struct {
	OnParseError ParseErrorPolicy `json:"on_parse_error" yaml:"on_parse_error" mapstructure:"on_parse_error"`
	Logger       *zap.Logger      `json:"-" yaml:"-" mapstructure:"-"`
}

// dateReader applies the parse error policy to single cells.
type dateReader struct {
	spec   dateformat.Spec
	policy ParseErrorPolicy
	log    *zap.Logger
	sum    *types.StageSummary
}

func newDateReader(spec dateformat.Spec, policy ParseErrorPolicy, log *zap.Logger, sum *types.StageSummary) (*dateReader, error) {
	if spec.IsZero() {
		return nil, weederr.Config("date_format", "", "date format not configured")
	}
	p, err := ParseParseErrorPolicy(string(policy))
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &dateReader{spec: spec, policy: p, log: log, sum: sum}, nil
}

// read returns ok=false when the cell is blank or skipped.
func (d *dateReader) read(text string, column string) (time.Time, bool, error) {
	if utils.IsBlank(text) {
		d.sum.BlankCells++
		return time.Time{}, false, nil
	}
	t, err := d.spec.Parse(text)
	if err == nil {
		return t, true, nil
	}
	if d.policy == AbortStage {
		return time.Time{}, false, err
	}
	d.sum.SkippedCells++
	d.log.Debug("skipping unparseable date",
		zap.String("column", column),
		zap.String("value", text),
		zap.String("layout", d.spec.Layout()))
	return time.Time{}, false, nil
}

// FilterBeforeDate keeps rows where at least one selected cell parses to a date
// strictly before threshold. Blank cells never qualify.
func (t *Table) FilterBeforeDate(sel Selector, spec dateformat.Spec, threshold time.Time, opts DateOptions) (*Table, types.StageSummary, error) {
	start := time.Now()
	sum := types.StageSummary{Stage: "date", Processed: t.Len()}
	if err := sel.check(t); err != nil {
		return t, sum, err
	}
	reader, err := newDateReader(spec, opts.OnParseError, opts.Logger, &sum)
	if err != nil {
		return t, sum, err
	}
	y, m, d := threshold.Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	out, err := t.keepIf(func(row []string) (bool, error) {
		// every selected cell is read so that skips are counted and aborts are
		// not hidden by an earlier match
		keep := false
		for _, idx := range sel.indexes {
			when, ok, err := reader.read(cell(row, idx), t.header[idx])
			if err != nil {
				return false, err
			}
			if ok && when.Before(cutoff) {
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
