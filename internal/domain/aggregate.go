package domain

import (
	"math"
	"slices"
)

// Scenario is one state of the world: an SLR offset (ft) per evaluation year and
// an annual discount rate.
type Scenario struct {
	SLR          []float64
	DiscountRate float64
}

// EvaluationConfig is shared read-only across every policy evaluated for one
// structure. A zero Grid means DefaultGrid.
type EvaluationConfig struct {
	Structure *Structure
	Years     []int
	Hazard    HazardDistribution
	Grid      Grid
}

func (c EvaluationConfig) grid() Grid {
	if c.Grid.IsZero() {
		return DefaultGrid
	}
	return c.Grid
}

// AnnualDamage is one year's contribution to the present-value damage.
type AnnualDamage struct {
	Year           int     `json:"year"`
	SLR            float64 `json:"slr_ft"`
	EAD            float64 `json:"ead"`
	DiscountFactor float64 `json:"discount_factor"`
	Discounted     float64 `json:"discounted"`
}

// AnnualDamages evaluates EAD for every year of cfg under sc and discounts each
// to the earliest evaluation year.
func AnnualDamages(cfg EvaluationConfig, sc Scenario, deltaFt float64) ([]AnnualDamage, error) {
	if len(sc.SLR) != len(cfg.Years) {
		return nil, &LengthMismatchError{Years: len(cfg.Years), Trajectory: len(sc.SLR)}
	}
	if len(cfg.Years) == 0 {
		return nil, nil
	}

	g := cfg.grid()
	base := slices.Min(cfg.Years)
	out := make([]AnnualDamage, len(cfg.Years))
	for i, year := range cfg.Years {
		ead := g.ExpectedAnnualDamage(cfg.Structure, deltaFt, sc.SLR[i], cfg.Hazard)
		factor := 1 / math.Pow(1+sc.DiscountRate, float64(year-base))
		out[i] = AnnualDamage{
			Year:           year,
			SLR:            sc.SLR[i],
			EAD:            ead,
			DiscountFactor: factor,
			Discounted:     ead * factor,
		}
	}
	return out, nil
}

// NPVExpectedDamage returns the discounted sum of expected annual damages over
// the evaluation years.
func NPVExpectedDamage(cfg EvaluationConfig, sc Scenario, deltaFt float64) (float64, error) {
	annual, err := AnnualDamages(cfg, sc, deltaFt)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, a := range annual {
		total += a.Discounted
	}
	return total, nil
}
