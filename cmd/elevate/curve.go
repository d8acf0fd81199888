package main

import (
	"errors"
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/couchcryptid/flood-elevation-service/internal/hazus"
	"github.com/spf13/cobra"
)

func newCurveCmd() *cobra.Command {
	var (
		tablePath string
		sheet     string
		id        string
		from      float64
		to        float64
		step      float64
	)

	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Print a damage function from a HAZUS table, sampled over a depth range.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if step <= 0 || to < from {
				return errors.New("need --step > 0 and --to >= --from")
			}

			table, err := hazus.Open(tablePath, sheet)
			if err != nil {
				return err
			}
			curve, err := table.DamageCurve(cmd.Context(), id)
			if err != nil {
				return err
			}
			entry, _ := table.Entry(id)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "DmgFnId %s  %s  %s\n", entry.ID, entry.Occupancy, entry.Description)
			if entry.Source != "" {
				fmt.Fprintf(out, "Source: %s\n", entry.Source)
			}
			fmt.Fprintln(out)

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "depth_ft\tdamage_pct\t")
			n := int(math.Floor((to-from)/step+1e-9)) + 1
			for i := range n {
				d := from + float64(i)*step
				fmt.Fprintf(tw, "%.2f\t%.2f\t\n", d, curve.Evaluate(d))
			}
			return tw.Flush()
		},
	}

	f := cmd.Flags()
	f.StringVar(&tablePath, "table", "", "HAZUS depth-damage table (.csv or .xlsx)")
	f.StringVar(&sheet, "sheet", "", "worksheet name for .xlsx tables")
	f.StringVar(&id, "id", "", "damage function ID (DmgFnId)")
	f.Float64Var(&from, "from", -4, "first depth (ft)")
	f.Float64Var(&to, "to", 16, "last depth (ft)")
	f.Float64Var(&step, "step", 1, "depth step (ft)")
	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
