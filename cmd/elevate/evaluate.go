package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/couchcryptid/flood-elevation-service/internal/analysis"
	"github.com/couchcryptid/flood-elevation-service/internal/domain"
	"github.com/couchcryptid/flood-elevation-service/internal/search"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

type evaluateOptions struct {
	analysisPath string
	tablePath    string
	tableSheet   string
	workers      int
	annual       bool
	asJSON       bool
	gridPoints   int
}

func newEvaluateCmd(root *rootOptions) *cobra.Command {
	opts := &evaluateOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate every height of an analysis file under every scenario.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := analysis.Load(opts.analysisPath)
			if err != nil {
				return err
			}
			if opts.annual {
				req.IncludeAnnual = true
			}

			curves, err := openCurves(opts.tablePath, opts.tableSheet)
			if err != nil {
				return err
			}

			cfg, scenarios, err := req.Build(cmd.Context(), curves)
			if err != nil {
				return err
			}
			cfg.Grid = domain.Grid{Points: opts.gridPoints, MinP: domain.DefaultGrid.MinP, MaxP: domain.DefaultGrid.MaxP}
			if err := cfg.Grid.Validate(); err != nil {
				return err
			}

			start := time.Now()
			outcomes, err := search.Sweep(cmd.Context(), cfg, scenarios, req.Heights, search.Options{
				Workers:       opts.workers,
				IncludeAnnual: req.IncludeAnnual,
			})
			if err != nil {
				return err
			}
			root.logger.Info("sweep complete", "request_id", req.ID, "outcomes", len(outcomes), "duration", time.Since(start))

			result := domain.NewEvaluationResult(req.ID, outcomes, search.Summarize(outcomes, req.Heights))
			if opts.asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			return printResult(cmd.OutOrStdout(), result)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.analysisPath, "analysis", "", "analysis file (.yaml, .toml or .json)")
	f.StringVar(&opts.tablePath, "table", "", "HAZUS depth-damage table (.csv or .xlsx) for damage_curve_id lookups")
	f.StringVar(&opts.tableSheet, "sheet", "", "worksheet name for .xlsx tables (default first sheet)")
	f.IntVar(&opts.workers, "workers", 0, "concurrent evaluations (default number of CPUs)")
	f.BoolVar(&opts.annual, "annual", false, "include the per-year damage breakdown")
	f.BoolVar(&opts.asJSON, "json", false, "print the result as JSON")
	f.IntVar(&opts.gridPoints, "grid-points", domain.DefaultGrid.Points, "exceedance-probability grid points for EAD")
	_ = cmd.MarkFlagRequired("analysis")

	return cmd
}

func printResult(w io.Writer, result domain.EvaluationResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(w, "Evaluation %s (%s)\n\n", result.RequestID, result.EvaluatedAt.Format(time.RFC3339))
	fmt.Fprintln(tw, "scenario\theight_ft\tinvestment\texpected_damage\ttotal_cost\t")
	for _, o := range result.Outcomes {
		if o.Error != "" {
			fmt.Fprintf(tw, "%s\t%.2f\t-\t-\t%s\t\n", o.ScenarioID, o.RaiseHeightFt, o.Error)
			continue
		}
		fmt.Fprintf(tw, "%s\t%.2f\t%.0f\t%.0f\t%.0f\t\n", o.ScenarioID, o.RaiseHeightFt, o.Investment, o.ExpectedDamage, o.TotalCost)
		for _, a := range o.Annual {
			fmt.Fprintf(tw, "  %d\tslr %.2f\tead %.0f\tx %.4f\t%.0f\t\n", a.Year, a.SLR, a.EAD, a.DiscountFactor, a.Discounted)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nBy height:")
	fmt.Fprintln(tw, "height_ft\tscenarios\tmean_total\tstddev\tmin\tmax\t")
	for _, s := range result.Summaries {
		fmt.Fprintf(tw, "%.2f\t%d\t%.0f\t%.0f\t%.0f\t%.0f\t\n",
			s.RaiseHeightFt, s.Scenarios, s.MeanTotalCost, s.StdDevTotalCost, s.MinTotalCost, s.MaxTotalCost)
	}
	return tw.Flush()
}
