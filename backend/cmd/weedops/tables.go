package main

import (
	"context"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/JustUsingaWebsite/weedops/backend/internal/csvops"
	"github.com/JustUsingaWebsite/weedops/backend/internal/dateformat"
	"github.com/JustUsingaWebsite/weedops/backend/internal/storage"
	"github.com/JustUsingaWebsite/weedops/backend/internal/types"
	"github.com/JustUsingaWebsite/weedops/backend/internal/utils"
	"github.com/JustUsingaWebsite/weedops/backend/internal/weederr"
)

// sortFlags orders the written candidates. An empty column list keeps the
// order of the input file.
type sortFlags struct {
	columns         string
	mode            string
	order           string
	caseInsensitive bool
}

func (a *app) readTable(ctx context.Context, path string) (*csvops.Table, error) {
	data, err := storage.Read(ctx, path, storage.ReadOptions{
		Separator: a.cfg.InputSeparator(),
		Sheet:     a.cfg.Input.Sheet,
	})
	if err != nil {
		return nil, err
	}
	t := csvops.LoadWith(data.Header, data.Rows, csvops.LoadOptions{TrimSpaces: a.cfg.Input.TrimSpaces})
	a.log.Info("table loaded",
		zap.String("path", path),
		zap.Int("columns", len(data.Header)),
		zap.Int("rows", t.Len()))
	return t, nil
}

func (a *app) writeTable(ctx context.Context, path string, t *csvops.Table, sf sortFlags) error {
	if sf.columns != "" {
		sel, err := csvops.SelectColumns(sf.columns, t.Header())
		if err != nil {
			return err
		}
		opts := csvops.SortOptions{
			Mode:            csvops.SortMode(sf.mode),
			Order:           csvops.SortOrder(sf.order),
			CaseInsensitive: sf.caseInsensitive,
		}
		if opts.Mode == csvops.SortDate {
			// date sorting on the command line reads yyyy-mm-dd cells
			opts.DateFormat, err = dateformat.Build(dateformat.MonthNumeric, dateformat.DayPadded, dateformat.YearFourDigit, "-", dateformat.OrderYMD)
			if err != nil {
				return err
			}
		}
		t, err = t.Sort(sel, opts)
		if err != nil {
			return err
		}
	}

	rows := csvops.Export(t, csvops.ExportOptions{})
	data := types.TableData{HasHeader: a.cfg.Output.WithHeader, Header: t.Header(), Rows: rows}
	err := storage.Write(ctx, path, data, storage.WriteOptions{
		Separator: a.cfg.OutputSeparator(),
		Sheet:     a.cfg.Output.Sheet,
	})
	if err != nil {
		return err
	}
	a.log.Info("table written", zap.String("path", path), zap.Int("rows", len(rows)))
	return nil
}

// validate catches bad sort flags before any question is asked.
func (sf sortFlags) validate() error {
	if sf.columns == "" {
		return nil
	}
	nums, err := utils.ParseIndexList(sf.columns)
	if err != nil {
		return weederr.Config("sort-by", sf.columns, err.Error())
	}
	if len(nums) != 1 {
		return weederr.Config("sort-by", sf.columns, "sort by exactly one column")
	}
	switch csvops.SortMode(sf.mode) {
	case csvops.SortAlpha, csvops.SortNumeric, csvops.SortDate:
	default:
		return weederr.Config("sort-mode", sf.mode, "use alphabetical, numeric or date")
	}
	switch csvops.SortOrder(sf.order) {
	case csvops.OrderAsc, csvops.OrderDesc:
	default:
		return weederr.Config("sort-order", sf.order, "use asc or desc")
	}
	return nil
}

func (sf *sortFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&sf.columns, "sort-by", "", "Column number to sort the written candidates by, e.g. 2 (default: input order)")
	fs.StringVar(&sf.mode, "sort-mode", string(csvops.SortAlpha), "How sort keys compare (alphabetical, numeric, date as yyyy-mm-dd)")
	fs.StringVar(&sf.order, "sort-order", string(csvops.OrderAsc), "Sort direction (asc, desc)")
	fs.BoolVar(&sf.caseInsensitive, "sort-ignore-case", false, "Ignore case when sorting alphabetically")
}
