// Package dateformat turns a user's description of a date layout (how the month,
// day and year are written, the separator and the ordering) into an immutable
// Spec that parses and compares cell text.
package dateformat

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/JustUsingaWebsite/weedops/backend/internal/weederr"
)

type MonthStyle string
type DayStyle string
type YearStyle string
type Order string

const (
	MonthNumeric     MonthStyle = "numeric"     // 01 or 1
	MonthAbbreviated MonthStyle = "abbreviated" // Jan
	MonthFull        MonthStyle = "full"        // January

	DayPadded   DayStyle = "padded"   // 01
	DayUnpadded DayStyle = "unpadded" // 1

	YearTwoDigit  YearStyle = "2digit" // 99, 15
	YearFourDigit YearStyle = "4digit" // 2015, 1980

	OrderYMD Order = "ymd"
	OrderYDM Order = "ydm"
	OrderMDY Order = "mdy"
	OrderDMY Order = "dmy"
)

// ISOLayout is the layout of comparison dates typed by the user.
const ISOLayout = "2006-01-02"

// Options is the serializable form of a Spec.
type Options struct {
	Month     MonthStyle `json:"month" yaml:"month" mapstructure:"month"`
	Day       DayStyle   `json:"day" yaml:"day" mapstructure:"day"`
	Year      YearStyle  `json:"year" yaml:"year" mapstructure:"year"`
	Separator string     `json:"separator" yaml:"separator" mapstructure:"separator"`
	Order     Order      `json:"order" yaml:"order" mapstructure:"order"`
}

// Build validates the options and composes the layout.
func (o Options) Build() (Spec, error) {
	return Build(o.Month, o.Day, o.Year, o.Separator, o.Order)
}

// Spec is a validated date layout. The zero value is not usable; use Build.
type Spec struct {
	opts   Options
	layout string
}

// Comparison is the outcome of Spec.Compare.
type Comparison int

const (
	Before Comparison = iota
	OnOrAfter
)

func (c Comparison) String() string {
	if c == Before {
		return "before"
	}
	return "on_or_after"
}

// Build validates every field and composes the Go time layout. Any unknown
// choice is a config error naming the field.
func Build(month MonthStyle, day DayStyle, year YearStyle, separator string, order Order) (Spec, error) {
	var m, d, y string
	switch month {
	case MonthNumeric:
		m = "1"
	case MonthAbbreviated:
		m = "Jan"
	case MonthFull:
		m = "January"
	default:
		return Spec{}, weederr.Config("month", string(month), "unknown month representation")
	}

	// both day answers parse the same way: "2" accepts 1 and 01
	switch day {
	case DayPadded, DayUnpadded:
		d = "2"
	default:
		return Spec{}, weederr.Config("day", string(day), "unknown day representation")
	}

	switch year {
	case YearTwoDigit:
		y = "06"
	case YearFourDigit:
		y = "2006"
	default:
		return Spec{}, weederr.Config("year", string(year), "unknown year representation")
	}

	if err := validateSeparator(separator); err != nil {
		return Spec{}, err
	}

	var parts []string
	switch order {
	case OrderYMD:
		parts = []string{y, m, d}
	case OrderYDM:
		parts = []string{y, d, m}
	case OrderMDY:
		parts = []string{m, d, y}
	case OrderDMY:
		parts = []string{d, m, y}
	default:
		return Spec{}, weederr.Config("order", string(order), "unknown date ordering")
	}

	return Spec{
		opts: Options{
			Month:     month,
			Day:       day,
			Year:      year,
			Separator: separator,
			Order:     order,
		},
		layout: strings.Join(parts, separator),
	}, nil
}

// letters, digits and '_' carry meaning inside a Go layout
func validateSeparator(sep string) error {
	if utf8.RuneCountInString(sep) != 1 {
		return weederr.Config("separator", sep, "separator must be exactly one character")
	}
	r, _ := utf8.DecodeRuneInString(sep)
	if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
		return weederr.Config("separator", sep, "separator cannot be a letter, digit or underscore")
	}
	return nil
}

func (s Spec) Options() Options { return s.opts }
func (s Spec) Layout() string   { return s.layout }
func (s Spec) IsZero() bool     { return s.layout == "" }

// Parse reads text with the composed layout. Failure carries the offending text.
func (s Spec) Parse(text string) (time.Time, error) {
	if s.IsZero() {
		return time.Time{}, weederr.Config("date_format", "", "date format not configured")
	}
	t, err := time.Parse(s.layout, strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, weederr.Parse("date", text, err)
	}
	return t, nil
}

// Compare parses text and reports whether it falls strictly before other.
// Parse errors are returned, never folded into OnOrAfter.
func (s Spec) Compare(text string, other time.Time) (Comparison, error) {
	t, err := s.Parse(text)
	if err != nil {
		return OnOrAfter, err
	}
	if t.Before(truncateDay(other)) {
		return Before, nil
	}
	return OnOrAfter, nil
}

// ParseISODate reads a YYYY-MM-DD comparison date.
func ParseISODate(text string) (time.Time, error) {
	t, err := time.Parse(ISOLayout, strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, weederr.Config("comparison_date", text, "use yyyy-mm-dd")
	}
	return t, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
