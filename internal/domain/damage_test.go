package domain

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testDepths  = []float64{0, 5, 10, 15}
	testDamages = []float64{0, 25, 60, 100}
)

func TestNewDamageCurve(t *testing.T) {
	t.Run("sorts unsorted input", func(t *testing.T) {
		c, err := NewDamageCurve([]float64{10, 0, 15, 5}, []float64{60, 0, 100, 25})
		require.NoError(t, err)

		want := []CurvePoint{
			{DepthFt: 0, DamagePercent: 0},
			{DepthFt: 5, DamagePercent: 25},
			{DepthFt: 10, DamagePercent: 60},
			{DepthFt: 15, DamagePercent: 100},
		}
		if diff := cmp.Diff(want, c.Points()); diff != "" {
			t.Errorf("Points() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("negative depths", func(t *testing.T) {
		c, err := NewDamageCurve([]float64{-2, -1, 0, 1}, []float64{0, 0, 2.5, 13.4})
		require.NoError(t, err)
		assert.InDelta(t, 1.25, c.Evaluate(-0.5), 1e-12)
	})

	tests := []struct {
		name    string
		depths  []float64
		damages []float64
		wantErr error
	}{
		{"length mismatch", []float64{0, 1, 2}, []float64{0, 1}, ErrCurveLengthMismatch},
		{"single point", []float64{0}, []float64{0}, ErrTooFewPoints},
		{"empty", nil, nil, ErrTooFewPoints},
		{"duplicate depth", []float64{0, 5, 5}, []float64{0, 20, 30}, ErrDuplicateDepth},
		{"NaN damage", []float64{0, 5}, []float64{0, math.NaN()}, ErrNonFiniteValue},
		{"infinite depth", []float64{0, math.Inf(1)}, []float64{0, 10}, ErrNonFiniteValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDamageCurve(tt.depths, tt.damages)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDamageCurve_Evaluate(t *testing.T) {
	c, err := NewDamageCurve(testDepths, testDamages)
	require.NoError(t, err)

	tests := []struct {
		name  string
		depth float64
		want  float64
	}{
		{"far below minimum", -100, 0},
		{"just below minimum", -0.001, 0},
		{"at minimum", 0, 0},
		{"interior", 2.5, 12.5},
		{"second segment", 7.5, 42.5},
		{"control point", 10, 60},
		{"at maximum", 15, 100},
		{"above maximum", 15.001, 100},
		{"far above maximum", 1e6, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, c.Evaluate(tt.depth), 1e-9)
		})
	}
}

func TestDamageCurve_FlatExtrapolation(t *testing.T) {
	c, err := NewDamageCurve([]float64{-1, 2, 8}, []float64{5, 30, 70})
	require.NoError(t, err)

	for _, d := range []float64{-1, -1.5, -10, -1e9} {
		assert.Equal(t, 5.0, c.Evaluate(d), "depth %g", d)
	}
	for _, d := range []float64{8, 8.5, 100, 1e9} {
		assert.Equal(t, 70.0, c.Evaluate(d), "depth %g", d)
	}
}

func TestDamageCurve_PointsIsCopy(t *testing.T) {
	c, err := NewDamageCurve(testDepths, testDamages)
	require.NoError(t, err)

	pts := c.Points()
	pts[0].DamagePercent = 99
	assert.Equal(t, 0.0, c.Evaluate(-1))
}
