// Package storage reads and writes tables as delimited text, XLSX workbooks
// or JSON documents. The first row of a delimited or XLSX file is its header.
package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/JustUsingaWebsite/weedops/backend/internal/types"
	"github.com/JustUsingaWebsite/weedops/backend/internal/weederr"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// DetectFormat picks the format from the file extension; anything unknown is
// delimited text.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".json":
		return FormatJSON
	default:
		return FormatCSV
	}
}

type ReadOptions struct {
	Format    Format // detected from the path when empty
	Separator rune   // delimited text only; ',' or '\t' for .tsv when zero
	Sheet     string // xlsx only; first sheet when empty
}

type WriteOptions struct {
	Format    Format
	Separator rune
	Sheet     string // xlsx only; "Candidates" when empty
}

// Read loads a table file. The returned data always has a header.
func Read(ctx context.Context, path string, opts ReadOptions) (types.TableData, error) {
	if err := ctx.Err(); err != nil {
		return types.TableData{}, err
	}
	format := opts.Format
	if format == "" {
		format = DetectFormat(path)
	}

	var (
		data types.TableData
		err  error
	)
	switch format {
	case FormatXLSX:
		data, err = readXLSX(path, opts.Sheet)
	case FormatJSON:
		data, err = readJSON(path)
	case FormatCSV:
		data, err = readCSV(ctx, path, separatorFor(path, opts.Separator))
	default:
		return types.TableData{}, weederr.Config("format", string(format), "use csv, xlsx or json")
	}
	switch {
	case err == nil:
		return data, nil
	case ctx.Err() != nil && errors.Is(err, ctx.Err()), weederr.IsKind(err, weederr.KindParse):
		return types.TableData{}, err
	default:
		return types.TableData{}, weederr.IO(path, err)
	}
}

// Write stores data at path. The header is written only when data.HasHeader.
func Write(ctx context.Context, path string, data types.TableData, opts WriteOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	format := opts.Format
	if format == "" {
		format = DetectFormat(path)
	}

	var err error
	switch format {
	case FormatXLSX:
		err = writeXLSX(path, data, opts.Sheet)
	case FormatJSON:
		err = writeJSON(path, data)
	case FormatCSV:
		err = writeCSV(ctx, path, data, separatorFor(path, opts.Separator))
	default:
		return weederr.Config("format", string(format), "use csv, xlsx or json")
	}
	if err != nil {
		return weederr.IO(path, err)
	}
	return nil
}

func separatorFor(path string, sep rune) rune {
	if sep != 0 {
		return sep
	}
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	return ','
}

// records returns the header plus rows, or only the rows when HasHeader is false.
func records(data types.TableData) [][]string {
	out := make([][]string, 0, len(data.Rows)+1)
	if data.HasHeader {
		out = append(out, data.Header)
	}
	return append(out, data.Rows...)
}

// malformed marks a file that opened but does not hold a readable table.
func malformed(path string, err error) error {
	return weederr.Parse("path", path, err)
}

func splitHeader(path string, rows [][]string) (types.TableData, error) {
	if len(rows) == 0 {
		return types.TableData{}, malformed(path, errEmpty)
	}
	header := append([]string(nil), rows[0]...)
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return types.TableData{HasHeader: true, Header: header, Rows: rows[1:]}, nil
}
