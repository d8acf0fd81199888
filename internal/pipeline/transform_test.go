package pipeline_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/couchcryptid/flood-elevation-service/internal/domain"
	"github.com/couchcryptid/flood-elevation-service/internal/observability"
	"github.com/couchcryptid/flood-elevation-service/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inlineRequest = `{
	"id": "req-inline",
	"structure": {
		"value": 300000,
		"area": 1500,
		"height_above_gauge": 3,
		"damage_curve": {"depths": [0, 5, 10, 15], "damages": [0, 25, 60, 100]}
	},
	"years": [2025, 2030],
	"hazard": {"family": "gev", "location": 5, "scale": 1.5, "shape": 0.1},
	"scenarios": [
		{"id": "low", "slr": [0.5, 1.0], "discount_rate": 0.03},
		{"id": "high", "slr": [1.0, 2.0], "discount_rate": 0.03}
	],
	"heights": [0, 4, 20]
}`

const tableRequest = `{
	"id": "req-table",
	"structure": {"value": 250000, "area": 1000, "height_above_gauge": 2, "damage_curve_id": "105"},
	"years": [2025],
	"hazard": {"family": "gumbel", "location": 3, "scale": 1},
	"scenarios": [{"id": "s", "slr": [0.5], "discount_rate": 0.02}],
	"heights": [0, 2]
}`

type curveMap map[string]*domain.DamageCurve

func (m curveMap) DamageCurve(_ context.Context, id string) (*domain.DamageCurve, error) {
	c, ok := m[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCurveNotFound, id)
	}
	return c, nil
}

var testGrid = domain.Grid{Points: 200, MinP: 0.0001, MaxP: 0.9999}

func TestEvaluationTransformer_InlineCurve(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	tr := pipeline.NewEvaluationTransformer(nil, testGrid, 2, slog.Default(), metrics)

	result, err := tr.Transform(context.Background(), domain.RawMessage{Value: []byte(inlineRequest)})
	require.NoError(t, err)

	assert.Equal(t, "req-inline", result.RequestID)
	assert.NotEmpty(t, result.EvaluationID)
	require.Len(t, result.Outcomes, 6)
	require.Len(t, result.Summaries, 3)

	// 20 ft is outside the cost model and fails per pairing, not per request.
	for _, o := range result.Outcomes {
		if o.RaiseHeightFt == 20 {
			assert.NotEmpty(t, o.Error)
		} else {
			assert.Empty(t, o.Error)
		}
	}
	assert.Equal(t, 2, result.Summaries[2].Failed)

	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.PolicyEvaluations.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.PolicyEvaluations.WithLabelValues("error")))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.SweepDuration))
}

func TestEvaluationTransformer_CurveSource(t *testing.T) {
	curve, err := domain.NewDamageCurve([]float64{0, 2, 4, 8}, []float64{0, 20, 40, 70})
	require.NoError(t, err)

	tr := pipeline.NewEvaluationTransformer(curveMap{"105": curve}, testGrid, 1, slog.Default(), observability.NewMetricsForTesting())

	result, err := tr.Transform(context.Background(), domain.RawMessage{Value: []byte(tableRequest)})
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 2)
	assert.Greater(t, result.Outcomes[0].ExpectedDamage, result.Outcomes[1].ExpectedDamage)
}

func TestEvaluationTransformer_InvalidRequests(t *testing.T) {
	tests := []struct {
		name    string
		curves  domain.CurveSource
		payload string
	}{
		{"malformed JSON", nil, "{not json"},
		{"curve ID without table", nil, tableRequest},
		{"unknown curve ID", curveMap{}, tableRequest},
		{"no heights", nil, `{"structure":{"value":1,"area":1,"damage_curve":{"depths":[0,1],"damages":[0,1]}},"years":[2025],"hazard":{"family":"gumbel","location":1,"scale":1},"scenarios":[{"slr":[0],"discount_rate":0}],"heights":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := pipeline.NewEvaluationTransformer(tt.curves, testGrid, 1, slog.Default(), observability.NewMetricsForTesting())
			_, err := tr.Transform(context.Background(), domain.RawMessage{Value: []byte(tt.payload)})
			require.ErrorIs(t, err, domain.ErrInvalidRequest)
		})
	}
}

func TestEvaluationTransformer_GridIsApplied(t *testing.T) {
	coarse := pipeline.NewEvaluationTransformer(nil, domain.Grid{Points: 10, MinP: 0.01, MaxP: 0.99}, 1, slog.Default(), observability.NewMetricsForTesting())
	fine := pipeline.NewEvaluationTransformer(nil, testGrid, 1, slog.Default(), observability.NewMetricsForTesting())

	raw := domain.RawMessage{Value: []byte(inlineRequest)}
	a, err := coarse.Transform(context.Background(), raw)
	require.NoError(t, err)
	b, err := fine.Transform(context.Background(), raw)
	require.NoError(t, err)

	assert.NotEqual(t, a.Outcomes[0].ExpectedDamage, b.Outcomes[0].ExpectedDamage)
}

func TestEvaluationTransformer_CancelledContext(t *testing.T) {
	tr := pipeline.NewEvaluationTransformer(nil, testGrid, 1, slog.Default(), observability.NewMetricsForTesting())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.Transform(ctx, domain.RawMessage{Value: []byte(inlineRequest)})
	require.ErrorIs(t, err, context.Canceled)
}
