package csvops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustUsingaWebsite/weedops/backend/internal/types"
	"github.com/JustUsingaWebsite/weedops/backend/internal/weederr"
)

var catalogHeader = []string{"Title", "CallNo", "LastCirc", "Circs", "Acquired"}

func catalog() *Table {
	return Load(catalogHeader, [][]string{
		{"A", "JFIC A", "2010-01-01", "3", "2015-04-01"},
		{"B", "YA B", "2021-06-15", "40", "2020-01-01"},
		{"C", "JFIC C", "2012-09-30", "0", "2001-01-01"},
		{"D", "PLAYAWAY D", "2019-02-11", "12", "2018-05-05"},
		{"E", "J 398 E", "", "n/a", ""},
	})
}

func TestLoadDropsEmptyRowsAndCopies(t *testing.T) {
	rows := [][]string{
		{"A", "JFIC A", "2010-01-01"},
		{},
		{"", "  ", ""},
		{"B", "YA B", "2021-06-15"},
	}
	tbl := Load([]string{"Title", "CallNo", "LastCirc"}, rows)

	require.Equal(t, 2, tbl.Len())
	rows[0][0] = "changed"
	assert.Equal(t, "A", tbl.Row(0)[0])

	got := tbl.Rows()
	got[1][0] = "changed"
	assert.Equal(t, "B", tbl.Row(1)[0])
}

func TestLoadWithTrimSpaces(t *testing.T) {
	tbl := LoadWith([]string{"Title"}, [][]string{{"  The   Hobbit "}}, LoadOptions{TrimSpaces: true})
	assert.Equal(t, []string{"The Hobbit"}, tbl.Row(0))
}

func TestExportRoundTrip(t *testing.T) {
	header := []string{"Title", "CallNo", "LastCirc"}
	rows := [][]string{
		{"A", "JFIC A", "2010-01-01"},
		{"B", "YA B"},
		{"A", "JFIC A", "2010-01-01"},
	}
	tbl := Load(header, rows)

	assert.Equal(t, rows, Export(tbl, ExportOptions{}))

	withHeader := Export(tbl, ExportOptions{IncludeHeader: true})
	require.Len(t, withHeader, 4)
	assert.Equal(t, header, withHeader[0])
}

func TestData(t *testing.T) {
	data := catalog().Data()
	assert.Equal(t, types.TableData{HasHeader: true, Header: catalogHeader, Rows: catalog().Rows()}, data)
}

func TestDeduplicate(t *testing.T) {
	tbl := Load([]string{"a", "b"}, [][]string{
		{"1", "2"},
		{"1", "2"},
		{"1,2"},
		{"1", "2", ""},
		{"3", "4"},
		{"1", "2"},
	})

	once := tbl.Deduplicate()
	assert.Equal(t, [][]string{{"1", "2"}, {"1,2"}, {"1", "2", ""}, {"3", "4"}}, once.Rows())
	assert.Equal(t, once.Rows(), once.Deduplicate().Rows(), "dedup is idempotent")
	assert.Equal(t, 6, tbl.Len(), "input untouched")
}

func TestResolveColumns(t *testing.T) {
	sel, err := ResolveColumns([]int{2, 2, 5}, catalogHeader)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 4}, sel.Indexes())
	assert.Equal(t, []int{2, 2, 5}, sel.Numbers())
	assert.Equal(t, []string{"CallNo", "CallNo", "Acquired"}, sel.Names())

	_, err = ResolveColumns([]int{7}, catalogHeader)
	assert.True(t, weederr.IsKind(err, weederr.KindConfig))
	_, err = ResolveColumns([]int{0}, catalogHeader)
	assert.True(t, weederr.IsKind(err, weederr.KindConfig))
	_, err = ResolveColumns(nil, catalogHeader)
	assert.True(t, weederr.IsKind(err, weederr.KindConfig))
}

func TestOutOfRangeLeavesPriorStateUnchanged(t *testing.T) {
	tbl := catalog()
	prior, err := SelectColumns("2", tbl.Header())
	require.NoError(t, err)

	sel := prior
	next, err := SelectColumns("7", tbl.Header())
	if err == nil {
		sel = next
	}

	assert.True(t, weederr.IsKind(err, weederr.KindConfig))
	assert.Equal(t, prior, sel)
	assert.Equal(t, 5, tbl.Len())
}

func TestSelectColumnsRejectsGarbage(t *testing.T) {
	_, err := SelectColumns("two", catalogHeader)
	assert.True(t, weederr.IsKind(err, weederr.KindConfig))
}

func TestSelectorFromOtherHeaderIsRejected(t *testing.T) {
	sel, err := ResolveColumns([]int{1}, []string{"Other"})
	require.NoError(t, err)
	m, err := NewMatcher("A", MatchOptions{})
	require.NoError(t, err)

	tbl := catalog()
	out, _, err := tbl.FilterMatching(sel, m)
	assert.True(t, weederr.IsKind(err, weederr.KindConfig))
	assert.Same(t, tbl, out)
}

func TestHeaderChoicesSkipEmptyHeaders(t *testing.T) {
	choices := HeaderChoices([]string{"Title", "", "Circs"})
	assert.Equal(t, []types.Choice{{Key: "1", Label: "Title"}, {Key: "3", Label: "Circs"}}, choices)
}
