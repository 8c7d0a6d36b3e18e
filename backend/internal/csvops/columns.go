package csvops

import (
	"slices"
	"strconv"

	"github.com/JustUsingaWebsite/weedops/backend/internal/types"
	"github.com/JustUsingaWebsite/weedops/backend/internal/utils"
	"github.com/JustUsingaWebsite/weedops/backend/internal/weederr"
)

// Selector is a validated, order-preserving list of 0-based column indexes,
// tied to the header it was validated against. Duplicates are kept.
type Selector struct {
	indexes []int
	header  []string
}

// ParseSelection reads a comma-separated list of 1-based column numbers.
func ParseSelection(answer string) ([]int, error) {
	nums, err := utils.ParseIndexList(answer)
	if err != nil {
		return nil, weederr.Config("columns", answer, err.Error())
	}
	return nums, nil
}

// ResolveColumns converts 1-based column numbers into a Selector over header.
// Any number outside [1, len(header)] is a config error.
func ResolveColumns(raw []int, header []string) (Selector, error) {
	if len(raw) == 0 {
		return Selector{}, weederr.Config("columns", "", "choose at least one column")
	}
	indexes := make([]int, 0, len(raw))
	for _, n := range raw {
		idx := n - 1
		if idx < 0 || idx >= len(header) {
			return Selector{}, weederr.Config("columns", strconv.Itoa(n), "column number out of range")
		}
		indexes = append(indexes, idx)
	}
	return Selector{indexes: indexes, header: append([]string(nil), header...)}, nil
}

// SelectColumns parses and resolves a typed answer in one step.
func SelectColumns(answer string, header []string) (Selector, error) {
	raw, err := ParseSelection(answer)
	if err != nil {
		return Selector{}, err
	}
	return ResolveColumns(raw, header)
}

func (s Selector) Indexes() []int   { return append([]int(nil), s.indexes...) }
func (s Selector) Header() []string { return append([]string(nil), s.header...) }
func (s Selector) IsZero() bool     { return len(s.indexes) == 0 }

// Numbers returns the 1-based column numbers, as typed by the user.
func (s Selector) Numbers() []int {
	out := make([]int, len(s.indexes))
	for i, idx := range s.indexes {
		out[i] = idx + 1
	}
	return out
}

// Names returns the header names of the selected columns.
func (s Selector) Names() []string {
	out := make([]string, len(s.indexes))
	for i, idx := range s.indexes {
		out[i] = s.header[idx]
	}
	return out
}

// check rejects a selector validated against another header set.
func (s Selector) check(t *Table) error {
	if s.IsZero() {
		return weederr.Config("columns", "", "no columns selected")
	}
	if !slices.Equal(s.header, t.header) {
		return weederr.Config("columns", "", "selection was made for a different header")
	}
	return nil
}

// HeaderChoices numbers the header entries 1-based for a column menu. Empty
// header entries keep their number but are not listed.
func HeaderChoices(header []string) []types.Choice {
	out := make([]types.Choice, 0, len(header))
	for i, h := range header {
		if utils.IsBlank(h) {
			continue
		}
		out = append(out, types.Choice{Key: strconv.Itoa(i + 1), Label: h})
	}
	return out
}
