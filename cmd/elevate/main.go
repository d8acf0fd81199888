// Command elevate runs flood elevation analyses from the command line.
//
// Usage:
//
//	elevate evaluate --analysis coastal.yaml [--table hazus.xlsx] [--workers 8] [--annual] [--json]
//	elevate curve --table flood_depth_damage.csv --id 105 [--from -4 --to 16 --step 1]
//	elevate cost --area 1500 --height 2 --height 4
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/flood-elevation-service/internal/domain"
	"github.com/couchcryptid/flood-elevation-service/internal/hazus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	logLevel string
	logger   *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "elevate",
		Short: "Price flood elevation heights against sea-level rise scenarios.",
		Long: `elevate evaluates how much raising a structure costs up front and how much
flood damage it avoids, across sea-level rise scenarios and evaluation years.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.logLevel)
		},
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	root.AddCommand(
		newEvaluateCmd(opts),
		newCurveCmd(),
		newCostCmd(),
	)
	return root
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// openCurves loads a damage table, or returns nil when path is empty.
func openCurves(path, sheet string) (domain.CurveSource, error) {
	if path == "" {
		return nil, nil
	}
	table, err := hazus.Open(path, sheet)
	if err != nil {
		return nil, fmt.Errorf("load damage table: %w", err)
	}
	return table, nil
}
