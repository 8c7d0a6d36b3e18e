package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/JustUsingaWebsite/weedops/backend/internal/types"
)

var errEmpty = errors.New("file is empty")

func readCSV(ctx context.Context, path string, sep rune) (types.TableData, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.TableData{}, fmt.Errorf("failed to open CSV: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return types.TableData{}, err
		}
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return types.TableData{}, malformed(path, err)
			}
			return types.TableData{}, fmt.Errorf("failed to read CSV: %w", err)
		}
		rows = append(rows, rec)
	}
	return splitHeader(path, rows)
}

func writeCSV(ctx context.Context, path string, data types.TableData, sep rune) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV: %w", err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	w.Comma = sep
	for _, rec := range records(data) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return out.Close()
}
