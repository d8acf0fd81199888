package domain

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// Grid is the exceedance-probability grid the EAD integral is evaluated on.
// It is fixed per deployment so results stay comparable across evaluations.
type Grid struct {
	Points int     `json:"points"`
	MinP   float64 `json:"min_p"`
	MaxP   float64 `json:"max_p"`
}

// DefaultGrid samples 1000 exceedance probabilities on [0.0001, 0.9999].
var DefaultGrid = Grid{Points: 1000, MinP: 0.0001, MaxP: 0.9999}

// IsZero reports whether g is unset.
func (g Grid) IsZero() bool {
	return g == Grid{}
}

// Validate checks that g has at least two points strictly inside (0, 1).
func (g Grid) Validate() error {
	if g.Points < 2 {
		return fmt.Errorf("grid needs at least 2 points, got %d", g.Points)
	}
	if !(g.MinP > 0 && g.MinP < g.MaxP && g.MaxP < 1) {
		return fmt.Errorf("grid bounds must satisfy 0 < min_p < max_p < 1, got [%g, %g]", g.MinP, g.MaxP)
	}
	return nil
}

// Probabilities returns the uniformly spaced exceedance probabilities, ascending.
func (g Grid) Probabilities() []float64 {
	return floats.Span(make([]float64, g.Points), g.MinP, g.MaxP)
}

// ExpectedAnnualDamage computes EAD in USD for s raised by deltaFt under slrFt of
// sea-level rise, using DefaultGrid.
func ExpectedAnnualDamage(s *Structure, deltaFt, slrFt float64, dist HazardDistribution) float64 {
	return DefaultGrid.ExpectedAnnualDamage(s, deltaFt, slrFt, dist)
}

// ExpectedAnnualDamage integrates damage over exceedance probability with the
// trapezoidal rule. Stages are drawn from the upper tail first, so the stage
// falls as p rises.
func (g Grid) ExpectedAnnualDamage(s *Structure, deltaFt, slrFt float64, dist HazardDistribution) float64 {
	p := g.Probabilities()
	damages := make([]float64, len(p))
	offset := slrFt - s.HeightAboveGauge - deltaFt
	for i, pi := range p {
		depth := dist.Quantile(1-pi) + offset
		damages[i] = s.Curve.Evaluate(depth) / 100 * s.Value
	}
	return integrate.Trapezoidal(p, damages)
}
