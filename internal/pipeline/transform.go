package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/flood-elevation-service/internal/domain"
	"github.com/couchcryptid/flood-elevation-service/internal/observability"
	"github.com/couchcryptid/flood-elevation-service/internal/search"
)

// EvaluationTransformer implements Transformer by sweeping every requested height
// across every scenario of a request.
type EvaluationTransformer struct {
	curves  domain.CurveSource
	grid    domain.Grid
	workers int
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewEvaluationTransformer creates an EvaluationTransformer. curves may be nil,
// in which case requests must carry their damage curve inline. grid is applied to
// every request so results from one deployment stay comparable.
func NewEvaluationTransformer(curves domain.CurveSource, grid domain.Grid, workers int, logger *slog.Logger, metrics *observability.Metrics) *EvaluationTransformer {
	return &EvaluationTransformer{
		curves:  curves,
		grid:    grid,
		workers: workers,
		logger:  logger,
		metrics: metrics,
	}
}

func (t *EvaluationTransformer) Transform(ctx context.Context, raw domain.RawMessage) (domain.EvaluationResult, error) {
	req, err := domain.ParseRequest(raw)
	if err != nil {
		return domain.EvaluationResult{}, err
	}
	return t.Evaluate(ctx, req)
}

// Evaluate validates req, sweeps it and stamps the result.
func (t *EvaluationTransformer) Evaluate(ctx context.Context, req domain.EvaluationRequest) (domain.EvaluationResult, error) {
	cfg, scenarios, err := req.Build(ctx, t.curves)
	if err != nil {
		return domain.EvaluationResult{}, err
	}
	cfg.Grid = t.grid

	start := time.Now()
	outcomes, err := search.Sweep(ctx, cfg, scenarios, req.Heights, search.Options{
		Workers:       t.workers,
		IncludeAnnual: req.IncludeAnnual,
	})
	if err != nil {
		return domain.EvaluationResult{}, err
	}
	t.metrics.SweepDuration.Observe(time.Since(start).Seconds())

	failed := 0
	for _, o := range outcomes {
		if o.Error != "" {
			failed++
		}
	}
	t.metrics.PolicyEvaluations.WithLabelValues("success").Add(float64(len(outcomes) - failed))
	t.metrics.PolicyEvaluations.WithLabelValues("error").Add(float64(failed))

	t.logger.Debug("request evaluated",
		"request_id", req.ID,
		"scenarios", len(scenarios),
		"heights", len(req.Heights),
		"failed", failed,
		"duration", time.Since(start),
	)

	return domain.NewEvaluationResult(req.ID, outcomes, search.Summarize(outcomes, req.Heights)), nil
}
