// Package session drives the question-and-answer flow that turns a loaded
// catalog export into a list of weeding candidates.
package session

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/JustUsingaWebsite/weedops/backend/internal/csvops"
	"github.com/JustUsingaWebsite/weedops/backend/internal/dateformat"
	"github.com/JustUsingaWebsite/weedops/backend/internal/types"
	"github.com/JustUsingaWebsite/weedops/backend/internal/weederr"
)

// ErrExited is returned when the user answers "exit".
var ErrExited = errors.New("session exited")

// Prompter is the user-facing side of a session.
type Prompter interface {
	Ask(q Question) (string, error)
	Notify(msg string)
}

// Writer persists the final candidate table under the name the user chose.
type Writer interface {
	WriteTable(name string, t *csvops.Table) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(name string, t *csvops.Table) error

func (f WriterFunc) WriteTable(name string, t *csvops.Table) error { return f(name, t) }

type State string

const (
	StateLoaded             State = "loaded"
	StateCollectionSelected State = "collection_selected"
	StateCriteriaChosen     State = "criteria_chosen"
	StateDateFiltered       State = "date_filtered"
	StateCircFiltered       State = "circulation_filtered"
	StateBothFiltered       State = "both_filtered"
	StateWritten            State = "written"
	StateExited             State = "exited"
)

// Options holds the policies applied to every stage of a session.
type Options struct {
	Match        csvops.MatchOptions
	OnParseError csvops.ParseErrorPolicy
	Coercion     csvops.CoercionPolicy
	Pairing      csvops.Pairing
	Now          func() time.Time
	Logger       *zap.Logger
}

// Session holds the working table of one weeding run. It is not safe for
// concurrent use.
type Session struct {
	prompter Prompter
	writer   Writer
	opts     Options
	log      *zap.Logger

	table     *csvops.Table
	state     State
	plan      Plan
	summaries []types.StageSummary
}

func New(t *csvops.Table, p Prompter, w Writer, opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		prompter: p,
		writer:   w,
		opts:     opts,
		log:      log.Named("session"),
		table:    t,
		state:    StateLoaded,
		plan:     Plan{Version: PlanVersion},
	}
}

func (s *Session) State() State         { return s.state }
func (s *Session) Table() *csvops.Table { return s.table }

func (s *Session) Summaries() []types.StageSummary {
	return append([]types.StageSummary(nil), s.summaries...)
}

// Plan returns the answers recorded so far.
func (s *Session) Plan() Plan {
	p := s.plan
	p.Stages = append([]Stage(nil), s.plan.Stages...)
	return p
}

// Run asks every question in order and writes the result. It returns
// ErrExited when the user leaves early.
func (s *Session) Run() error {
	err := s.run()
	if errors.Is(err, ErrExited) {
		s.state = StateExited
		s.log.Info("session exited by user")
	}
	return err
}

func (s *Session) run() error {
	if err := s.SelectCollection(); err != nil {
		return err
	}
	c, err := s.ChooseCriteria()
	if err != nil {
		return err
	}
	switch c {
	case CriteriaDate:
		err = s.FilterByDate()
	case CriteriaCirculation:
		err = s.FilterByCirculation()
	case CriteriaBoth:
		if err = s.FilterByDate(); err == nil {
			err = s.FilterByCirculation()
		}
	}
	if err != nil {
		return err
	}
	return s.WriteCandidates()
}

func (s *Session) expect(op string, allowed ...State) error {
	for _, st := range allowed {
		if s.state == st {
			return nil
		}
	}
	return fmt.Errorf("session: %s is not allowed in state %s", op, s.state)
}

// ask repeats q until parse accepts the answer. Config errors are shown to
// the user; anything else ends the question.
func ask[T any](s *Session, q Question, parse func(string) (T, error)) (T, error) {
	for {
		answer, err := s.prompter.Ask(q)
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(answer)
		if err == nil {
			return v, nil
		}
		if !weederr.IsKind(err, weederr.KindConfig) {
			var zero T
			return zero, err
		}
		s.log.Debug("answer rejected", zap.String("question", q.Key), zap.Error(err))
		s.prompter.Notify(rejection(err))
	}
}

func rejection(err error) string {
	var werr *weederr.Error
	if errors.As(err, &werr) && werr.Message != "" {
		return werr.Message + ", please try again."
	}
	return err.Error()
}

// askColumns re-asks until the answer names valid columns and, when check is
// set, check accepts them.
func (s *Session) askColumns(key, text string, check func(csvops.Selector) error) (csvops.Selector, error) {
	header := s.table.Header()
	sel, err := ask(s, columnQuestion(key, text, header), func(answer string) (csvops.Selector, error) {
		if IsExit(answer) {
			return csvops.Selector{}, ErrExited
		}
		sel, err := csvops.SelectColumns(answer, header)
		if err == nil && check != nil {
			err = check(sel)
		}
		return sel, err
	})
	if err == nil {
		s.log.Debug("columns selected", zap.String("question", key), zap.Strings("columns", sel.Names()))
	}
	return sel, err
}

// askDateFormat asks the five layout questions, re-asking each on its own.
func (s *Session) askDateFormat() (dateformat.Spec, error) {
	month, err := ask(s, monthQuestion, dateformat.ParseMonthStyle)
	if err != nil {
		return dateformat.Spec{}, err
	}
	day, err := ask(s, dayQuestion, dateformat.ParseDayStyle)
	if err != nil {
		return dateformat.Spec{}, err
	}
	year, err := ask(s, yearQuestion, dateformat.ParseYearStyle)
	if err != nil {
		return dateformat.Spec{}, err
	}
	sep, err := ask(s, separatorQuestion, dateformat.ParseSeparator)
	if err != nil {
		return dateformat.Spec{}, err
	}
	order, err := ask(s, orderQuestion, dateformat.ParseOrder)
	if err != nil {
		return dateformat.Spec{}, err
	}
	return dateformat.Build(month, day, year, sep, order)
}

// SelectCollection narrows the table to rows whose chosen columns match the
// collection pattern.
func (s *Session) SelectCollection() error {
	if err := s.expect("select collection", StateLoaded); err != nil {
		return err
	}
	sel, err := s.askColumns("collection.columns", "Which column has collection names in it?", nil)
	if err != nil {
		return err
	}
	m, err := ask(s, Question{
		Key:  "collection.pattern",
		Text: "What collection do you want to weed?",
		Hint: "Type the collection name as it appears in the call number, e.g. JFIC.",
	}, func(answer string) (csvops.Matcher, error) {
		pattern, err := parsePattern(answer)
		if err != nil {
			return csvops.Matcher{}, err
		}
		return csvops.NewMatcher(pattern, s.opts.Match)
	})
	if err != nil {
		return err
	}

	out, sum, err := s.table.FilterMatching(sel, m)
	if err != nil {
		return err
	}
	s.commit(out, sum)
	s.plan.Collection = CollectionStep{Columns: sel.Numbers(), Pattern: m.Pattern(), Match: m.Options()}
	s.state = StateCollectionSelected
	return nil
}

func (s *Session) ChooseCriteria() (Criteria, error) {
	if err := s.expect("choose criteria", StateCollectionSelected); err != nil {
		return "", err
	}
	c, err := ask(s, criteriaQuestion, parseCriteria)
	if err != nil {
		return "", err
	}
	s.plan.Criteria = c
	s.state = StateCriteriaChosen
	return c, nil
}

// FilterByDate keeps rows with a selected date strictly before the threshold.
// A parse error under the abort policy restarts the stage.
func (s *Session) FilterByDate() error {
	if err := s.expect("filter by date", StateCriteriaChosen); err != nil {
		return err
	}
	for {
		sel, err := s.askColumns("date.columns", "Which column(s) have the dates you want to use?", nil)
		if err != nil {
			return err
		}
		spec, err := s.askDateFormat()
		if err != nil {
			return err
		}
		before, err := ask(s, thresholdQuestion, parseThreshold)
		if err != nil {
			return err
		}

		out, sum, err := s.table.FilterBeforeDate(sel, spec, before, csvops.DateOptions{
			OnParseError: s.opts.OnParseError,
			Logger:       s.log,
		})
		if weederr.IsKind(err, weederr.KindParse) {
			s.restart("date", err)
			continue
		}
		if err != nil {
			return err
		}

		s.commit(out, sum)
		opts := spec.Options()
		s.plan.Stages = append(s.plan.Stages, Stage{
			Kind:         StageDate,
			Columns:      sel.Numbers(),
			DateFormat:   &opts,
			Before:       before.Format(dateformat.ISOLayout),
			OnParseError: s.opts.OnParseError,
		})
		s.state = StateDateFiltered
		return nil
	}
}

// FilterByCirculation keeps rows at or under a circulation minimum, either
// absolute or averaged per year since acquisition.
func (s *Session) FilterByCirculation() error {
	if err := s.expect("filter by circulation", StateCriteriaChosen, StateDateFiltered); err != nil {
		return err
	}
	for {
		stage, err := s.circulationStage()
		if weederr.IsKind(err, weederr.KindParse) {
			s.restart("circulation", err)
			continue
		}
		if err != nil {
			return err
		}
		s.plan.Stages = append(s.plan.Stages, stage)
		if s.state == StateDateFiltered {
			s.state = StateBothFiltered
		} else {
			s.state = StateCircFiltered
		}
		return nil
	}
}

func (s *Session) circulationStage() (Stage, error) {
	sel, err := s.askColumns("circulation.columns", "Which column(s) have the circulation information you want to use?", nil)
	if err != nil {
		return Stage{}, err
	}
	mode, err := ask(s, circulationModeQuestion, parseCirculationMode)
	if err != nil {
		return Stage{}, err
	}

	if mode == CirculationAbsolute {
		minimum, err := ask(s, Question{
			Key:  "circulation.minimum",
			Text: "What is the minimum number of circulations?",
		}, parseMinimum("minimum"))
		if err != nil {
			return Stage{}, err
		}
		out, sum, err := s.table.FilterMinCirculation(sel, minimum, csvops.CirculationOptions{
			Coercion: s.opts.Coercion,
			Logger:   s.log,
		})
		if err != nil {
			return Stage{}, err
		}
		s.commit(out, sum)
		return Stage{
			Kind:     StageCirculationAbsolute,
			Columns:  sel.Numbers(),
			Minimum:  minimum,
			Coercion: s.opts.Coercion,
		}, nil
	}

	minimum, err := ask(s, Question{
		Key:  "circulation.minimum_per_year",
		Text: "What is the minimum number of circulations per year?",
	}, parseMinimum("minimum_per_year"))
	if err != nil {
		return Stage{}, err
	}
	dates, err := s.askColumns("circulation.date_columns", "Which column has the date the item first appeared?", func(dates csvops.Selector) error {
		return csvops.CheckPairing(sel, dates, s.opts.Pairing)
	})
	if err != nil {
		return Stage{}, err
	}
	spec, err := s.askDateFormat()
	if err != nil {
		return Stage{}, err
	}
	out, sum, err := s.table.FilterAvgCirculation(sel, dates, spec, minimum, csvops.AverageOptions{
		Coercion:     s.opts.Coercion,
		OnParseError: s.opts.OnParseError,
		Pairing:      s.opts.Pairing,
		Now:          s.opts.Now,
		Logger:       s.log,
	})
	if err != nil {
		return Stage{}, err
	}
	s.commit(out, sum)
	opts := spec.Options()
	return Stage{
		Kind:         StageCirculationAverage,
		Columns:      sel.Numbers(),
		DateColumns:  dates.Numbers(),
		DateFormat:   &opts,
		Minimum:      minimum,
		OnParseError: s.opts.OnParseError,
		Coercion:     s.opts.Coercion,
		Pairing:      s.opts.Pairing,
	}, nil
}

// WriteCandidates asks for a file name until the writer accepts it.
func (s *Session) WriteCandidates() error {
	if err := s.expect("write candidates", StateCriteriaChosen, StateDateFiltered, StateCircFiltered, StateBothFiltered); err != nil {
		return err
	}
	for {
		name, err := ask(s, outputQuestion, parseOutputName)
		if err != nil {
			return err
		}
		err = s.writer.WriteTable(name, s.table)
		if weederr.IsKind(err, weederr.KindIO) {
			s.log.Warn("write failed", zap.String("name", name), zap.Error(err))
			s.prompter.Notify("That file could not be written. Check that the folder exists and try another name.")
			continue
		}
		if err != nil {
			return err
		}
		s.plan.Output = name
		s.state = StateWritten
		s.log.Info("candidates written", zap.String("name", name), zap.Int("rows", s.table.Len()))
		return nil
	}
}

func (s *Session) commit(out *csvops.Table, sum types.StageSummary) {
	s.table = out
	s.summaries = append(s.summaries, sum)
	s.log.Info("stage finished",
		zap.String("stage", sum.Stage),
		zap.Int("processed", sum.Processed),
		zap.Int("kept", sum.Kept),
		zap.Int("skipped_cells", sum.SkippedCells),
		zap.Int("coerced", sum.Coerced),
		zap.Int("degenerate", sum.Degenerate))
}

func (s *Session) restart(stage string, err error) {
	s.log.Warn("stage restarted", zap.String("stage", stage), zap.Error(err))
	s.prompter.Notify(fmt.Sprintf("%v. Check the column and date format and try again.", err))
}
