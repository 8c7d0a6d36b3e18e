package storage

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/xuri/excelize/v2"

	"github.com/JustUsingaWebsite/weedops/backend/internal/types"
)

const defaultSheet = "Candidates"

func readXLSX(path, sheet string) (types.TableData, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return types.TableData{}, fmt.Errorf("failed to open workbook: %w", err)
		}
		return types.TableData{}, malformed(path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return types.TableData{}, malformed(path, errors.New("workbook has no sheets"))
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return types.TableData{}, malformed(path, fmt.Errorf("failed to read sheet %s: %w", sheet, err))
	}
	return splitHeader(path, rows)
}

func writeXLSX(path string, data types.TableData, sheet string) error {
	if sheet == "" {
		sheet = defaultSheet
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	for i, rec := range records(data) {
		row := rec
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
