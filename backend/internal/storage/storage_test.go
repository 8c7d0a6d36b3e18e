package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustUsingaWebsite/weedops/backend/internal/types"
	"github.com/JustUsingaWebsite/weedops/backend/internal/weederr"
)

func sample() types.TableData {
	return types.TableData{
		HasHeader: true,
		Header:    []string{"Title", "CallNo", "LastCirc"},
		Rows: [][]string{
			{"A", "JFIC A", "2010-01-01"},
			{"B, the sequel", "YA B", "2021-06-15"},
		},
	}
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatXLSX, DetectFormat("catalog.XLSX"))
	assert.Equal(t, FormatJSON, DetectFormat("out/table.json"))
	assert.Equal(t, FormatCSV, DetectFormat("catalog.tsv"))
	assert.Equal(t, FormatCSV, DetectFormat("catalog"))
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	for _, name := range []string{"out.csv", "out.tsv", "out.xlsx", "out.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Write(ctx, path, sample(), WriteOptions{}))

			got, err := Read(ctx, path, ReadOptions{})
			require.NoError(t, err)
			assert.Equal(t, sample(), got)
		})
	}
}

func TestReadSemicolonCSVWithBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.txt")
	content := "\ufeffTitle;Circs\nA;3\n;\nB;\"1;2\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := Read(context.Background(), path, ReadOptions{Separator: ';'})
	require.NoError(t, err)
	assert.Equal(t, []string{"Title", "Circs"}, got.Header)
	assert.Equal(t, [][]string{{"A", "3"}, {"", ""}, {"B", "1;2"}}, got.Rows)
}

func TestWriteWithoutHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	data := sample()
	data.HasHeader = false
	require.NoError(t, Write(context.Background(), path, data, WriteOptions{}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A,JFIC A,2010-01-01\n\"B, the sequel\",YA B,2021-06-15\n", string(raw))
}

func TestWriteJSONWithoutHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	data := sample()
	data.HasHeader = false
	require.NoError(t, Write(context.Background(), path, data, WriteOptions{}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Title")

	got, err := Read(context.Background(), path, ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "JFIC A", "2010-01-01"}, got.Header)
	assert.Equal(t, [][]string{{"B, the sequel", "YA B", "2021-06-15"}}, got.Rows)
}

func TestReadJSONWithoutHeaderField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"rows":[["Title"],["A"]]}`), 0o644))

	got, err := Read(context.Background(), path, ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Title"}, got.Header)
	assert.Equal(t, [][]string{{"A"}}, got.Rows)
}

func TestReadErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	_, err := Read(ctx, filepath.Join(dir, "missing.csv"), ReadOptions{})
	assert.True(t, weederr.IsKind(err, weederr.KindIO))

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = Read(ctx, empty, ReadOptions{})
	assert.True(t, weederr.IsKind(err, weederr.KindParse))
	assert.False(t, weederr.IsKind(err, weederr.KindIO))
	assert.ErrorIs(t, err, errEmpty)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"rows": [`), 0o644))
	_, err = Read(ctx, broken, ReadOptions{})
	assert.True(t, weederr.IsKind(err, weederr.KindParse))
	assert.False(t, weederr.IsKind(err, weederr.KindIO))

	notWorkbook := filepath.Join(dir, "catalog.xlsx")
	require.NoError(t, os.WriteFile(notWorkbook, []byte("Title,CallNo\n"), 0o644))
	_, err = Read(ctx, notWorkbook, ReadOptions{})
	assert.True(t, weederr.IsKind(err, weederr.KindParse))

	_, err = Read(ctx, filepath.Join(dir, "missing.xlsx"), ReadOptions{})
	assert.True(t, weederr.IsKind(err, weederr.KindIO))

	_, err = Read(ctx, empty, ReadOptions{Format: "parquet"})
	assert.True(t, weederr.IsKind(err, weederr.KindConfig))

	err = Write(ctx, filepath.Join(dir, "no", "such", "dir.csv"), sample(), WriteOptions{})
	assert.True(t, weederr.IsKind(err, weederr.KindIO))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = Read(cancelled, empty, ReadOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, weederr.IsKind(err, weederr.KindIO))
}
