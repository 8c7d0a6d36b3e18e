package session

import (
	"strings"
	"time"

	"github.com/JustUsingaWebsite/weedops/backend/internal/csvops"
	"github.com/JustUsingaWebsite/weedops/backend/internal/dateformat"
	"github.com/JustUsingaWebsite/weedops/backend/internal/types"
	"github.com/JustUsingaWebsite/weedops/backend/internal/utils"
	"github.com/JustUsingaWebsite/weedops/backend/internal/weederr"
)

// Question is one prompt handed to the Prompter.
type Question struct {
	Key     string         // stable identifier, e.g. "date.columns"
	Text    string         // the question itself
	Choices []types.Choice // numbered menu, may be empty
	Hint    string         // shown after the menu
}

// Criteria is the answer to "what would you like to use to build a weeding list".
type Criteria string

const (
	CriteriaDate        Criteria = "date"
	CriteriaCirculation Criteria = "circulation"
	CriteriaBoth        Criteria = "both"
)

// CirculationMode is the answer to "how do you want to compare this data".
type CirculationMode string

const (
	CirculationAbsolute CirculationMode = "absolute"
	CirculationAverage  CirculationMode = "average"
)

// IsExit reports whether the user asked to leave.
func IsExit(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), "exit")
}

func parseCriteria(answer string) (Criteria, error) {
	if IsExit(answer) {
		return "", ErrExited
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "1", "dates", "date", "age":
		return CriteriaDate, nil
	case "2", "circulation":
		return CriteriaCirculation, nil
	case "3", "both":
		return CriteriaBoth, nil
	}
	return "", weederr.Config("criteria", answer, "I don't understand that")
}

func parseCirculationMode(answer string) (CirculationMode, error) {
	if IsExit(answer) {
		return "", ErrExited
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "1", "absolute":
		return CirculationAbsolute, nil
	case "2", "average":
		return CirculationAverage, nil
	}
	return "", weederr.Config("circulation_mode", answer, "I didn't understand that")
}

func parseMinimum(field string) func(string) (int, error) {
	return func(answer string) (int, error) {
		a := strings.TrimSpace(answer)
		if !utils.DigitsOnly(a) {
			return 0, weederr.Config(field, answer, "enter a whole number, 0 or more")
		}
		n, _, err := csvops.CoerceCount(a, csvops.Strict)
		if err != nil {
			return 0, weederr.Config(field, answer, "number is too large")
		}
		return n, nil
	}
}

func parsePattern(answer string) (string, error) {
	if IsExit(answer) {
		return "", ErrExited
	}
	return strings.TrimSpace(answer), nil
}

func parseOutputName(answer string) (string, error) {
	name := strings.TrimSpace(answer)
	if name == "" {
		return "", weederr.Config("output", answer, "type a file name")
	}
	return name, nil
}

func parseThreshold(answer string) (time.Time, error) {
	return dateformat.ParseISODate(answer)
}

func columnQuestion(key, text string, header []string) Question {
	return Question{
		Key:     key,
		Text:    text,
		Choices: csvops.HeaderChoices(header),
		Hint:    "Separate multiple columns with commas",
	}
}

var (
	criteriaQuestion = Question{
		Key:  "criteria",
		Text: "What would you like to use to build a weeding list?",
		Choices: []types.Choice{
			{Key: "1", Label: "Dates / Age"},
			{Key: "2", Label: "Circulation"},
			{Key: "3", Label: "Both"},
		},
		Hint: "Type the number or the name you would like to use. Type EXIT to exit.",
	}
	circulationModeQuestion = Question{
		Key:  "circulation.mode",
		Text: "How do you want to compare this data?",
		Choices: []types.Choice{
			{Key: "1", Label: "Absolute - if circulation is less than or equal to the minimum number of circulations, it is a weed candidate."},
			{Key: "2", Label: "Average - if circulation per year is less than or equal to the minimum number of circulations per year, it is a weed candidate."},
		},
		Hint: "Please enter the number, absolute, or average.",
	}
	monthQuestion = Question{
		Key:  "date_format.month",
		Text: "In your file, is January represented as:",
		Choices: []types.Choice{
			{Key: "1", Label: "A number (i.e. 01 or 1)"},
			{Key: "2", Label: "Jan"},
			{Key: "3", Label: "January"},
		},
		Hint: "Enter the number of the option",
	}
	dayQuestion = Question{
		Key:     "date_format.day",
		Text:    "In your file, is the first day of a month represented as:",
		Choices: []types.Choice{{Key: "1", Label: "01"}, {Key: "2", Label: "1"}},
		Hint:    "Enter the number of the option",
	}
	yearQuestion = Question{
		Key:  "date_format.year",
		Text: "In your file, are years represented with:",
		Choices: []types.Choice{
			{Key: "1", Label: "2 digits (e.g. 99, 15)"},
			{Key: "2", Label: "4 digits (e.g. 2015, 1980)"},
		},
	}
	separatorQuestion = Question{
		Key:  "date_format.separator",
		Text: "In your file, what character separates the day, month, and year?",
		Hint: "e.g. / or -",
	}
	orderQuestion = Question{
		Key:  "date_format.order",
		Text: "In your file, how are your dates ordered?",
		Choices: []types.Choice{
			{Key: "1", Label: "Year-Month-Day"},
			{Key: "2", Label: "Year-Day-Month"},
			{Key: "3", Label: "Month-Day-Year"},
			{Key: "4", Label: "Day-Month-Year"},
		},
	}
	thresholdQuestion = Question{
		Key:  "date.before",
		Text: "Keep items before what date?",
		Hint: "Please use yyyy-mm-dd formatting.",
	}
	outputQuestion = Question{
		Key:  "output",
		Text: "What name would you like your file to have?",
	}
)
