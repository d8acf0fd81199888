package search

import (
	"github.com/couchcryptid/flood-elevation-service/internal/domain"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summarize reduces sweep outcomes to one HeightSummary per entry of heights.
// outcomes must be in the order Sweep returns them. Failed pairings are counted in
// Failed and left out of the statistics.
func Summarize(outcomes []domain.PolicyOutcome, heights []float64) []domain.HeightSummary {
	if len(heights) == 0 {
		return nil
	}

	out := make([]domain.HeightSummary, len(heights))
	for j, h := range heights {
		var investments, damages, totals []float64
		failed := 0
		for slot := j; slot < len(outcomes); slot += len(heights) {
			o := outcomes[slot]
			if o.Error != "" {
				failed++
				continue
			}
			investments = append(investments, o.Investment)
			damages = append(damages, o.ExpectedDamage)
			totals = append(totals, o.TotalCost)
		}

		s := domain.HeightSummary{
			RaiseHeightFt: h,
			Scenarios:     len(totals),
			Failed:        failed,
		}
		if len(totals) > 0 {
			s.MeanInvestment = stat.Mean(investments, nil)
			s.MeanExpectedDamage = stat.Mean(damages, nil)
			s.MeanTotalCost = stat.Mean(totals, nil)
			s.MinTotalCost = floats.Min(totals)
			s.MaxTotalCost = floats.Max(totals)
		}
		if len(totals) > 1 {
			s.StdDevTotalCost = stat.StdDev(totals, nil)
		}
		out[j] = s
	}
	return out
}
