package preview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JustUsingaWebsite/weedops/backend/internal/types"
)

func data() types.TableData {
	return types.TableData{
		HasHeader: true,
		Header:    []string{"Title", "CallNo"},
		Rows: [][]string{
			{"Charlotte's Web", "JFIC WHI"},
			{"Holes", "JFIC SAC"},
			{"Wonder", "JFIC PAL"},
		},
	}
}

func TestTable(t *testing.T) {
	out := Table(data(), Options{})
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "CallNo")
	assert.Contains(t, out, "Charlotte's Web")
	assert.Contains(t, out, "JFIC PAL")
	assert.NotContains(t, out, "more rows")

	for _, line := range strings.Split(out, "\n") {
		assert.Equal(t, strings.TrimRight(line, " "), line)
	}
}

func TestTableLimit(t *testing.T) {
	out := Table(data(), Options{Limit: 1})
	assert.Contains(t, out, "Charlotte's Web")
	assert.NotContains(t, out, "Wonder")
	assert.Contains(t, out, "2 more rows")
}

func TestTableWithoutHeader(t *testing.T) {
	d := data()
	d.HasHeader = false
	out := Table(d, Options{})
	assert.NotContains(t, out, "Title")
	assert.Contains(t, out, "Holes")
}

func TestSummaries(t *testing.T) {
	out := Summaries([]types.StageSummary{
		{Stage: "collection", Processed: 5, Kept: 3, Dropped: 2},
		{Stage: "circulation_absolute", Processed: 3, Kept: 2, Dropped: 1, Coerced: 1},
	})
	assert.Contains(t, out, "circulation_absolute")
	assert.Contains(t, out, "coerced")
}
