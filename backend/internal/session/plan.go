package session

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/JustUsingaWebsite/weedops/backend/internal/csvops"
	"github.com/JustUsingaWebsite/weedops/backend/internal/dateformat"
	"github.com/JustUsingaWebsite/weedops/backend/internal/types"
	"github.com/JustUsingaWebsite/weedops/backend/internal/weederr"
)

const PlanVersion = 1

type StageKind string

const (
	StageDate                StageKind = "date"
	StageCirculationAbsolute StageKind = "circulation_absolute"
	StageCirculationAverage  StageKind = "circulation_average"
)

// Plan is the record of the validated answers of one session. Replaying it
// against the same input produces the same candidate list without prompting.
type Plan struct {
	Version    int            `yaml:"version"`
	ID         string         `yaml:"id,omitempty"` // run that recorded the plan
	Source     Source         `yaml:"source,omitempty"`
	Collection CollectionStep `yaml:"collection"`
	Criteria   Criteria       `yaml:"criteria"`
	Stages     []Stage        `yaml:"stages"`
	Output     string         `yaml:"output,omitempty"`
}

// Source describes how the input file was read. The session leaves it empty;
// callers that know the file fill it in.
type Source struct {
	Path      string `yaml:"path,omitempty"`
	Separator string `yaml:"separator,omitempty"`
	Sheet     string `yaml:"sheet,omitempty"`
}

type CollectionStep struct {
	Columns []int               `yaml:"columns"`
	Pattern string              `yaml:"pattern"`
	Match   csvops.MatchOptions `yaml:"match"`
}

// Stage is one filter step. Column numbers are 1-based as the user typed them.
type Stage struct {
	Kind         StageKind               `yaml:"kind"`
	Columns      []int                   `yaml:"columns"`
	DateColumns  []int                   `yaml:"date_columns,omitempty"`
	DateFormat   *dateformat.Options     `yaml:"date_format,omitempty"`
	Before       string                  `yaml:"before,omitempty"`
	Minimum      int                     `yaml:"minimum"`
	OnParseError csvops.ParseErrorPolicy `yaml:"on_parse_error,omitempty"`
	Coercion     csvops.CoercionPolicy   `yaml:"coercion,omitempty"`
	Pairing      csvops.Pairing          `yaml:"pairing,omitempty"`
}

// SavePlan writes p as YAML.
func SavePlan(path string, p Plan) error {
	raw, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return weederr.IO(path, err)
	}
	return nil
}

// LoadPlan reads a plan written by SavePlan.
func LoadPlan(path string) (Plan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, weederr.IO(path, err)
	}
	var p Plan
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Plan{}, weederr.Wrap(err, weederr.KindConfig, "failed to parse plan "+path)
	}
	if p.Version != PlanVersion {
		return Plan{}, weederr.Config("version", fmt.Sprint(p.Version), fmt.Sprintf("unsupported plan version, want %d", PlanVersion))
	}
	return p, nil
}

// ApplyOptions carries what a plan does not record.
type ApplyOptions struct {
	Now    func() time.Time
	Logger *zap.Logger
}

// ApplyPlan replays p against t. Every error is returned as is; nothing is re-asked.
func ApplyPlan(t *csvops.Table, p Plan, opts ApplyOptions) (*csvops.Table, []types.StageSummary, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	header := t.Header()
	var summaries []types.StageSummary

	sel, err := csvops.ResolveColumns(p.Collection.Columns, header)
	if err != nil {
		return nil, nil, err
	}
	m, err := csvops.NewMatcher(p.Collection.Pattern, p.Collection.Match)
	if err != nil {
		return nil, nil, err
	}
	cur, sum, err := t.FilterMatching(sel, m)
	if err != nil {
		return nil, nil, err
	}
	summaries = append(summaries, sum)

	for i, st := range p.Stages {
		next, sum, err := applyStage(cur, st, header, opts.Now, log)
		if err != nil {
			return nil, summaries, fmt.Errorf("stage %d (%s): %w", i+1, st.Kind, err)
		}
		log.Info("plan stage applied",
			zap.String("stage", sum.Stage),
			zap.Int("kept", sum.Kept),
			zap.Int("dropped", sum.Dropped))
		summaries = append(summaries, sum)
		cur = next
	}
	return cur, summaries, nil
}

func applyStage(t *csvops.Table, st Stage, header []string, now func() time.Time, log *zap.Logger) (*csvops.Table, types.StageSummary, error) {
	sel, err := csvops.ResolveColumns(st.Columns, header)
	if err != nil {
		return nil, types.StageSummary{}, err
	}
	spec, err := st.dateSpec()
	if err != nil {
		return nil, types.StageSummary{}, err
	}

	switch st.Kind {
	case StageDate:
		before, err := dateformat.ParseISODate(st.Before)
		if err != nil {
			return nil, types.StageSummary{}, err
		}
		return t.FilterBeforeDate(sel, spec, before, csvops.DateOptions{
			OnParseError: st.OnParseError,
			Logger:       log,
		})
	case StageCirculationAbsolute:
		return t.FilterMinCirculation(sel, st.Minimum, csvops.CirculationOptions{
			Coercion: st.Coercion,
			Logger:   log,
		})
	case StageCirculationAverage:
		dates, err := csvops.ResolveColumns(st.DateColumns, header)
		if err != nil {
			return nil, types.StageSummary{}, err
		}
		return t.FilterAvgCirculation(sel, dates, spec, st.Minimum, csvops.AverageOptions{
			Coercion:     st.Coercion,
			OnParseError: st.OnParseError,
			Pairing:      st.Pairing,
			Now:          now,
			Logger:       log,
		})
	}
	return nil, types.StageSummary{}, weederr.Config("kind", string(st.Kind), "unknown stage kind")
}

func (st Stage) dateSpec() (dateformat.Spec, error) {
	if st.DateFormat == nil {
		if st.Kind == StageCirculationAbsolute {
			return dateformat.Spec{}, nil
		}
		return dateformat.Spec{}, weederr.Config("date_format", "", "stage needs a date format")
	}
	return st.DateFormat.Build()
}
