package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/JustUsingaWebsite/weedops/backend/internal/config"
	"github.com/JustUsingaWebsite/weedops/backend/internal/logger"
	"github.com/JustUsingaWebsite/weedops/backend/internal/session"
)

var version = "0.1.0"

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	v     *viper.Viper
	cfg   config.Config
	log   *zap.Logger
	runID string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	_ = logger.Sync()
	if errors.Is(err, session.ErrExited) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}
	var configFile string

	root := &cobra.Command{
		Use:   "weedops",
		Short: "weedops - build weeding candidate lists from library catalog exports",
		Long: `weedops filters a catalog export down to the items worth reviewing for weeding.
It asks which collection to look at, then narrows it by last activity date,
by circulation counts, or both, and writes the candidates to a new file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, configFile)
			if err != nil {
				return err
			}
			if err := logger.Init(cfg.Log); err != nil {
				return err
			}
			a.cfg = cfg
			a.runID = uuid.NewString()
			a.log = logger.With(zap.String("command", cmd.Name()), zap.String("run_id", a.runID))
			a.log.Debug("configuration loaded", zap.String("config_file", a.v.ConfigFileUsed()))
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Path to a weedops.yaml config file (default: ./weedops.yaml or ~/.config/weedops/weedops.yaml)")
	pf.String("log-level", "warn", "Log level (debug, info, warn, error)")
	pf.String("log-format", "console", "Log encoding (console, json)")
	pf.String("separator", "", `Input field separator, e.g. ";" or "tab" (default: from the file extension)`)
	pf.String("sheet", "", "Worksheet to read from .xlsx input (default: the first sheet)")
	pf.Bool("trim", false, "Trim surrounding whitespace from every cell on load")
	pf.Bool("with-header", true, "Write the header row to the output file")
	pf.String("on-parse-error", "skip", "What a date stage does with a cell that does not fit the date format (skip, abort)")
	pf.String("coercion", "permissive", "How non-numeric circulation cells are read (permissive, strict)")
	pf.String("pairing", "cartesian", "How circulation columns pair with date columns when averaging (cartesian, positional)")
	pf.String("match-mode", "regex", "How the collection pattern is matched (regex, substring, exact)")
	pf.Bool("ignore-case", false, "Match the collection pattern case-insensitively")
	pf.Bool("color", false, "Highlight notices in the terminal")

	for key, flag := range map[string]string{
		"log.level":              "log-level",
		"log.encoding":           "log-format",
		"input.separator":        "separator",
		"input.sheet":            "sheet",
		"input.trim_spaces":      "trim",
		"output.with_header":     "with-header",
		"on_parse_error":         "on-parse-error",
		"coercion":               "coercion",
		"pairing":                "pairing",
		"match.mode":             "match-mode",
		"match.case_insensitive": "ignore-case",
		"color":                  "color",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		newRunCmd(a),
		newApplyCmd(a),
		newPreviewCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, args []string) {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "weedops v%s\n", version)
				fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
				fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			},
		},
	)
	return root
}
