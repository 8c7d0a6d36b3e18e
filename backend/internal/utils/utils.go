package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// WhitespaceTrimmer removes leading/trailing whitespace and collapses internal whitespace.
func WhitespaceTrimmer(s string) string {
	// strings.Fields will collapse all whitespace runs into single spaces
	parts := strings.Fields(s)
	return strings.Join(parts, " ")
}

// Normalize applies trimming and case normalization according to flags.
func Normalize(val string, trim bool, caseInsensitive bool) string {
	if trim {
		val = WhitespaceTrimmer(val)
	}
	if caseInsensitive {
		val = strings.ToLower(val)
	}
	return val
}

// IsBlank reports whether a cell has no visible content.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ParseIndexList splits a comma-separated answer such as "1, 3" into integers.
// Numbers are returned as typed; range checks are left to the caller.
func ParseIndexList(s string) ([]int, error) {
	if IsBlank(s) {
		return nil, errors.New("no column numbers given")
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%q is not a column number", p)
		}
		out = append(out, n)
	}
	return out, nil
}

// DigitsOnly reports whether s is a non-empty run of ASCII digits.
func DigitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Separator maps a typed separator answer to the delimiter rune. "\t" and
// "tab" mean a tab character.
func Separator(answer string) (rune, error) {
	switch strings.ToLower(answer) {
	case `\t`, "tab":
		return '\t', nil
	case "":
		return ',', nil
	}
	r := []rune(answer)
	if len(r) != 1 {
		return 0, fmt.Errorf("separator %q must be a single character", answer)
	}
	if r[0] == '"' || r[0] == '\r' || r[0] == '\n' {
		return 0, fmt.Errorf("separator %q cannot be used", answer)
	}
	return r[0], nil
}
