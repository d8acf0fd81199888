package domain

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// CurvePoint is one (depth, damage) control point of a damage curve.
type CurvePoint struct {
	DepthFt       float64 `json:"depth_ft"`
	DamagePercent float64 `json:"damage_percent"`
}

// DamageCurve maps flood depth at a structure (ft) to damage as a percentage of
// structure value. Between control points the curve is linear; outside them it
// holds the nearest endpoint value.
type DamageCurve struct {
	depths  []float64
	damages []float64
	fit     interp.PiecewiseLinear
}

// NewDamageCurve builds a curve from parallel depth and damage sequences. The
// input may be unsorted; duplicate depths are rejected rather than tie-broken.
func NewDamageCurve(depths, damages []float64) (*DamageCurve, error) {
	if len(depths) != len(damages) {
		return nil, fmt.Errorf("%w: %d depths, %d damages", ErrCurveLengthMismatch, len(depths), len(damages))
	}
	if len(depths) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(depths))
	}

	points := make([]CurvePoint, len(depths))
	for i := range depths {
		if !isFinite(depths[i]) || !isFinite(damages[i]) {
			return nil, fmt.Errorf("%w: point %d (%g, %g)", ErrNonFiniteValue, i, depths[i], damages[i])
		}
		points[i] = CurvePoint{DepthFt: depths[i], DamagePercent: damages[i]}
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].DepthFt < points[j].DepthFt })

	c := &DamageCurve{
		depths:  make([]float64, len(points)),
		damages: make([]float64, len(points)),
	}
	for i, p := range points {
		if i > 0 && p.DepthFt == points[i-1].DepthFt {
			return nil, fmt.Errorf("%w: %g ft", ErrDuplicateDepth, p.DepthFt)
		}
		c.depths[i] = p.DepthFt
		c.damages[i] = p.DamagePercent
	}

	if err := c.fit.Fit(c.depths, c.damages); err != nil {
		return nil, fmt.Errorf("fit damage curve: %w", err)
	}
	return c, nil
}

// Evaluate returns the damage percentage at depthFt.
func (c *DamageCurve) Evaluate(depthFt float64) float64 {
	// Clamp so values beyond the calibrated range stay flat.
	lo, hi := c.depths[0], c.depths[len(c.depths)-1]
	switch {
	case depthFt <= lo:
		return c.damages[0]
	case depthFt >= hi:
		return c.damages[len(c.damages)-1]
	}
	return c.fit.Predict(depthFt)
}

// Points returns a copy of the sorted control points.
func (c *DamageCurve) Points() []CurvePoint {
	out := make([]CurvePoint, len(c.depths))
	for i := range c.depths {
		out[i] = CurvePoint{DepthFt: c.depths[i], DamagePercent: c.damages[i]}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
