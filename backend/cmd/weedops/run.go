package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JustUsingaWebsite/weedops/backend/internal/csvops"
	"github.com/JustUsingaWebsite/weedops/backend/internal/preview"
	"github.com/JustUsingaWebsite/weedops/backend/internal/session"
	"github.com/JustUsingaWebsite/weedops/backend/internal/weederr"
)

var inputQuestion = session.Question{
	Key:  "input",
	Text: "What is the name of the file you want to weed?",
	Hint: "Type the path to a .csv, .tsv, .xlsx or .json export. Type EXIT to exit.",
}

func newRunCmd(a *app) *cobra.Command {
	var savePlan string
	var sf sortFlags

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Build a weeding list by answering questions",
		Long: `Run loads a catalog export and asks which collection to weed, which
columns hold dates and circulation counts, and what thresholds to apply.
Type EXIT at most questions to leave without writing anything.

Example:
  weedops run catalog.csv --save-plan jfic.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sf.validate(); err != nil {
				return err
			}
			ctx := cmd.Context()
			term := session.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout(), a.cfg.Color)

			path, t, err := a.loadInteractive(ctx, term, args)
			if err != nil {
				return err
			}
			pol, err := a.cfg.Policies()
			if err != nil {
				return err
			}

			s := session.New(t, term, session.WriterFunc(func(name string, out *csvops.Table) error {
				return a.writeTable(ctx, name, out, sf)
			}), session.Options{
				Match:        pol.Match,
				OnParseError: pol.OnParseError,
				Coercion:     pol.Coercion,
				Pairing:      pol.Pairing,
				Logger:       a.log,
			})
			if err := s.Run(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), preview.Summaries(s.Summaries()))

			if savePlan == "" {
				return nil
			}
			plan := s.Plan()
			plan.ID = a.runID
			plan.Source = session.Source{Path: path, Separator: a.cfg.Input.Separator, Sheet: a.cfg.Input.Sheet}
			if err := session.SavePlan(savePlan, plan); err != nil {
				return err
			}
			a.log.Info("plan saved", zap.String("path", savePlan))
			return nil
		},
	}
	cmd.Flags().StringVar(&savePlan, "save-plan", "", "Write the answers to a YAML plan that the apply command can replay")
	sf.register(cmd.Flags())
	return cmd
}

// loadInteractive reads the file named on the command line, or asks for one
// until it can be read.
func (a *app) loadInteractive(ctx context.Context, p session.Prompter, args []string) (string, *csvops.Table, error) {
	if len(args) == 1 {
		t, err := a.readTable(ctx, args[0])
		return args[0], t, err
	}
	for {
		answer, err := p.Ask(inputQuestion)
		if err != nil {
			return "", nil, err
		}
		if session.IsExit(answer) {
			return "", nil, session.ErrExited
		}
		path := strings.TrimSpace(answer)
		t, err := a.readTable(ctx, path)
		if weederr.IsKind(err, weederr.KindIO) {
			a.log.Debug("input not readable", zap.String("path", path), zap.Error(err))
			p.Notify("That file could not be opened. Check the name and try again.")
			continue
		}
		if weederr.IsKind(err, weederr.KindParse) {
			a.log.Debug("input not a table", zap.String("path", path), zap.Error(err))
			p.Notify("That file opened but could not be read as a table. Check the format and try again.")
			continue
		}
		if err != nil {
			return "", nil, err
		}
		return path, t, nil
	}
}
