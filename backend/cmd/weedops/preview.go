package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JustUsingaWebsite/weedops/backend/internal/csvops"
	"github.com/JustUsingaWebsite/weedops/backend/internal/preview"
)

func newPreviewCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Show the first rows of a catalog export with numbered columns",
		Long: `Preview prints the header and the first rows of a file the way weedops
reads it, so the column numbers asked for by run are easy to find.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.readTable(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, c := range csvops.HeaderChoices(t.Header()) {
				fmt.Fprintf(w, "%s. %s\n", c.Key, c.Label)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, preview.Table(t.Data(), preview.Options{Limit: limit}))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Rows to show; 0 shows every row")
	return cmd
}
