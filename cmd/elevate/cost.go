package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/couchcryptid/flood-elevation-service/internal/domain"
	"github.com/spf13/cobra"
)

func newCostCmd() *cobra.Command {
	var (
		area    float64
		heights []float64
	)

	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Print the up-front cost of raising a structure to each height.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if area <= 0 {
				return errors.New("--area must be positive")
			}
			s := &domain.Structure{Area: area}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "height_ft\trate_per_sqft\tcost\t")
			for _, h := range heights {
				cost, err := domain.ElevationCost(s, h)
				if err != nil {
					return err
				}
				rate := 0.0
				if cost > 0 {
					rate, _ = domain.CostRate(h)
				}
				fmt.Fprintf(tw, "%.2f\t%.2f\t%.0f\t\n", h, rate, cost)
			}
			return tw.Flush()
		},
	}

	f := cmd.Flags()
	f.Float64Var(&area, "area", 0, "floor area (sq ft)")
	f.Float64SliceVar(&heights, "height", []float64{0, 2, 4, 6, 8, 10, 12, 14}, "raise heights (ft), repeatable")
	_ = cmd.MarkFlagRequired("area")

	return cmd
}
