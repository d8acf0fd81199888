package search

import (
	"context"
	"math"
	"testing"

	"github.com/couchcryptid/flood-elevation-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outcome(scenario string, h, investment, damage float64) domain.PolicyOutcome {
	return domain.PolicyOutcome{
		ScenarioID:    scenario,
		RaiseHeightFt: h,
		Outcome: domain.Outcome{
			Investment:     investment,
			ExpectedDamage: damage,
			TotalCost:      investment + damage,
		},
	}
}

func TestSummarize(t *testing.T) {
	heights := []float64{0, 5}
	outcomes := []domain.PolicyOutcome{
		outcome("a", 0, 0, 100),
		outcome("a", 5, 50, 10),
		outcome("b", 0, 0, 300),
		{ScenarioID: "b", RaiseHeightFt: 5, Error: "boom"},
		outcome("c", 0, 0, 200),
		outcome("c", 5, 50, 30),
	}

	got := Summarize(outcomes, heights)
	require.Len(t, got, 2)

	zero := got[0]
	assert.Equal(t, 0.0, zero.RaiseHeightFt)
	assert.Equal(t, 3, zero.Scenarios)
	assert.Equal(t, 0, zero.Failed)
	assert.InDelta(t, 200, zero.MeanTotalCost, 1e-9)
	assert.InDelta(t, 200, zero.MeanExpectedDamage, 1e-9)
	assert.Equal(t, 0.0, zero.MeanInvestment)
	assert.InDelta(t, 100, zero.StdDevTotalCost, 1e-9)
	assert.Equal(t, 100.0, zero.MinTotalCost)
	assert.Equal(t, 300.0, zero.MaxTotalCost)

	five := got[1]
	assert.Equal(t, 2, five.Scenarios)
	assert.Equal(t, 1, five.Failed)
	assert.InDelta(t, 70, five.MeanTotalCost, 1e-9)
	assert.Equal(t, 60.0, five.MinTotalCost)
	assert.Equal(t, 80.0, five.MaxTotalCost)
}

func TestSummarize_Degenerate(t *testing.T) {
	t.Run("no heights", func(t *testing.T) {
		assert.Nil(t, Summarize(nil, nil))
	})

	t.Run("single scenario has zero spread", func(t *testing.T) {
		got := Summarize([]domain.PolicyOutcome{outcome("a", 2, 10, 5)}, []float64{2})
		require.Len(t, got, 1)
		assert.Equal(t, 15.0, got[0].MeanTotalCost)
		assert.Equal(t, 0.0, got[0].StdDevTotalCost)
		assert.False(t, math.IsNaN(got[0].StdDevTotalCost))
	})

	t.Run("all failed", func(t *testing.T) {
		got := Summarize([]domain.PolicyOutcome{{RaiseHeightFt: 20, Error: "invalid"}}, []float64{20})
		require.Len(t, got, 1)
		assert.Equal(t, 0, got[0].Scenarios)
		assert.Equal(t, 1, got[0].Failed)
		assert.Zero(t, got[0].MeanTotalCost)
	})
}

func TestSummarize_FromSweep(t *testing.T) {
	heights := []float64{0, 20}
	outcomes, err := Sweep(context.Background(), testConfig(t), testScenarios(), heights, Options{})
	require.NoError(t, err)

	got := Summarize(outcomes, heights)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].Scenarios)
	assert.Equal(t, 1, got[0].Failed)
	assert.Equal(t, 0, got[1].Scenarios)
	assert.Equal(t, 3, got[1].Failed)
	assert.LessOrEqual(t, got[0].MinTotalCost, got[0].MeanTotalCost)
	assert.LessOrEqual(t, got[0].MeanTotalCost, got[0].MaxTotalCost)
}
