package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JustUsingaWebsite/weedops/backend/internal/preview"
	"github.com/JustUsingaWebsite/weedops/backend/internal/session"
	"github.com/JustUsingaWebsite/weedops/backend/internal/utils"
	"github.com/JustUsingaWebsite/weedops/backend/internal/weederr"
)

func newApplyCmd(a *app) *cobra.Command {
	var planFile, input, output string
	var limit int
	var sf sortFlags

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Replay a saved plan without asking questions",
		Long: `Apply runs the answers recorded by "weedops run --save-plan" against a
catalog export. The input and output default to the ones in the plan. With
--output -, the candidates are printed instead of written.

Example:
  weedops apply --plan jfic.yaml --input catalog-2025.csv --output jfic-2025.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sf.validate(); err != nil {
				return err
			}
			plan, err := session.LoadPlan(planFile)
			if err != nil {
				return err
			}
			if input == "" {
				input = plan.Source.Path
			}
			if output == "" {
				output = plan.Output
			}
			if input == "" || output == "" {
				return weederr.Config("plan", planFile, "plan has no input or output; pass --input and --output")
			}
			if a.cfg.Input.Separator == "" && plan.Source.Separator != "" {
				if _, err := utils.Separator(plan.Source.Separator); err != nil {
					return weederr.Config("separator", plan.Source.Separator, err.Error())
				}
				a.cfg.Input.Separator = plan.Source.Separator
			}
			if a.cfg.Input.Sheet == "" {
				a.cfg.Input.Sheet = plan.Source.Sheet
			}

			ctx := cmd.Context()
			t, err := a.readTable(ctx, input)
			if err != nil {
				return err
			}
			out, sums, err := session.ApplyPlan(t, plan, session.ApplyOptions{Logger: a.log})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output == "-" {
				fmt.Fprintln(w, preview.Table(out.Data(), preview.Options{Limit: limit}))
			} else if err := a.writeTable(ctx, output, out, sf); err != nil {
				return err
			}
			fmt.Fprintln(w, preview.Summaries(sums))
			a.log.Info("plan applied", zap.String("plan", planFile), zap.String("plan_id", plan.ID), zap.String("input", input), zap.String("output", output))
			return nil
		},
	}
	cmd.Flags().StringVarP(&planFile, "plan", "p", "", "Path to a plan written by run --save-plan (required)")
	cmd.Flags().StringVarP(&input, "input", "i", "", "Catalog export to filter (default: the plan's source)")
	cmd.Flags().StringVarP(&output, "output", "o", "", `File to write the candidates to, or "-" to print them (default: the plan's output)`)
	cmd.Flags().IntVar(&limit, "limit", 20, "Rows to print with --output -; 0 prints every row")
	_ = cmd.MarkFlagRequired("plan")
	sf.register(cmd.Flags())
	return cmd
}
