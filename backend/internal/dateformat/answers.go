package dateformat

import (
	"strings"

	"github.com/JustUsingaWebsite/weedops/backend/internal/weederr"
)

// The answer parsers accept the menu number or the option's name, case-insensitively.

func ParseMonthStyle(answer string) (MonthStyle, error) {
	switch normalize(answer) {
	case "1", "number", "numeric":
		return MonthNumeric, nil
	case "2", "jan", "abbreviated":
		return MonthAbbreviated, nil
	case "3", "january", "full":
		return MonthFull, nil
	}
	return "", weederr.Config("month", answer, "choose 1, 2 or 3")
}

func ParseDayStyle(answer string) (DayStyle, error) {
	switch normalize(answer) {
	case "1", "01", "padded":
		return DayPadded, nil
	case "2", "unpadded":
		return DayUnpadded, nil
	}
	return "", weederr.Config("day", answer, "choose 1 or 2")
}

func ParseYearStyle(answer string) (YearStyle, error) {
	switch normalize(answer) {
	case "1", "2 digits", "2digit", "yy":
		return YearTwoDigit, nil
	case "2", "4 digits", "4digit", "yyyy":
		return YearFourDigit, nil
	}
	return "", weederr.Config("year", answer, "choose 1 or 2")
}

func ParseOrder(answer string) (Order, error) {
	switch normalize(answer) {
	case "1", "year-month-day", "ymd":
		return OrderYMD, nil
	case "2", "year-day-month", "ydm":
		return OrderYDM, nil
	case "3", "month-day-year", "mdy":
		return OrderMDY, nil
	case "4", "day-month-year", "dmy":
		return OrderDMY, nil
	}
	return "", weederr.Config("order", answer, "choose 1, 2, 3 or 4")
}

func normalize(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// ParseSeparator accepts the answer untrimmed: a space is a valid separator.
func ParseSeparator(answer string) (string, error) {
	if err := validateSeparator(answer); err != nil {
		return "", err
	}
	return answer, nil
}
