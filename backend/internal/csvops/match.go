package csvops

import (
	"fmt"
	"regexp"
	"time"

	"github.com/JustUsingaWebsite/weedops/backend/internal/types"
	"github.com/JustUsingaWebsite/weedops/backend/internal/weederr"
)

type MatchMode string

const (
	// MatchRegex searches the cell for the pattern as a regular expression.
	// "YA" also matches "PLAYAWAY".
	MatchRegex     MatchMode = "regex"
	MatchSubstring MatchMode = "substring" // literal substring
	MatchExact     MatchMode = "exact"     // whole cell
)

// MatchOptions configures collection matching. The zero value is a
// case-sensitive regex search.
type MatchOptions struct {
	Mode            MatchMode `json:"mode" yaml:"mode" mapstructure:"mode"`
	CaseInsensitive bool      `json:"case_insensitive" yaml:"case_insensitive" mapstructure:"case_insensitive"`
}

// Matcher is a compiled collection pattern.
type Matcher struct {
	pattern string
	opts    MatchOptions
	re      *regexp.Regexp
}

// ParseMatchMode maps an option value to a MatchMode; "" means regex.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(s) {
	case "", MatchRegex:
		return MatchRegex, nil
	case MatchSubstring, MatchExact:
		return MatchMode(s), nil
	}
	return "", weederr.Config("match_mode", s, "use regex, substring or exact")
}

// NewMatcher compiles pattern for the given mode.
func NewMatcher(pattern string, opts MatchOptions) (Matcher, error) {
	mode, err := ParseMatchMode(string(opts.Mode))
	if err != nil {
		return Matcher{}, err
	}
	opts.Mode = mode

	pat := pattern
	switch mode {
	case MatchSubstring:
		pat = regexp.QuoteMeta(pattern)
	case MatchExact:
		pat = "^(?:" + regexp.QuoteMeta(pattern) + ")$"
	}
	if opts.CaseInsensitive {
		pat = "(?i)" + pat
	}
	re, err := regexp.Compile(pat)
	if err != nil {
		return Matcher{}, weederr.Config("pattern", pattern, fmt.Sprintf("invalid regular expression: %v", err))
	}
	return Matcher{pattern: pattern, opts: opts, re: re}, nil
}

func (m Matcher) Pattern() string       { return m.pattern }
func (m Matcher) Options() MatchOptions { return m.opts }

// Match reports whether a non-empty cell matches.
func (m Matcher) Match(cell string) bool {
	return cell != "" && m.re.MatchString(cell)
}

// FilterMatching keeps rows where at least one selected cell is non-empty and
// matches.
func (t *Table) FilterMatching(sel Selector, m Matcher) (*Table, types.StageSummary, error) {
	start := time.Now()
	sum := types.StageSummary{Stage: "collection", Processed: t.Len()}
	if err := sel.check(t); err != nil {
		return t, sum, err
	}
	if m.re == nil {
		return t, sum, weederr.Config("pattern", "", "matcher not compiled")
	}

	out, err := t.keepIf(func(row []string) (bool, error) {
		for _, idx := range sel.indexes {
			if m.Match(cell(row, idx)) {
				return true, nil
			}
		}
		return false, nil
	})
	if err != nil {
		return t, sum, err
	}
	return out, finish(sum, out, start), nil
}

func finish(sum types.StageSummary, out *Table, start time.Time) types.StageSummary {
	sum.Kept = out.Len()
	sum.Dropped = sum.Processed - sum.Kept
	sum.DurationMS = time.Since(start).Milliseconds()
	return sum
}
