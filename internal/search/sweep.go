// Package search prices candidate elevation heights across SLR scenarios.
//
// It does not choose a height. Callers rank the outcomes and summaries however
// their decision framework requires.
package search

import (
	"context"
	"fmt"
	"runtime"

	"github.com/couchcryptid/flood-elevation-service/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("floodrisk.search")

// Options tunes a sweep.
type Options struct {
	// Workers bounds concurrent evaluations. Zero means runtime.NumCPU().
	Workers int

	// IncludeAnnual attaches the per-year damage breakdown to each outcome.
	IncludeAnnual bool

	// Tracer overrides the package tracer, mainly for tests.
	Tracer trace.Tracer
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

// Sweep evaluates every height under every scenario. Outcomes are returned in
// scenario-major order: outcome i*len(heights)+j is scenarios[i] with heights[j],
// regardless of worker count.
//
// A pairing that violates a contract of the risk model is reported on its outcome
// and does not stop the sweep. Only context cancellation aborts.
func Sweep(ctx context.Context, cfg domain.EvaluationConfig, scenarios []domain.NamedScenario, heights []float64, opts Options) ([]domain.PolicyOutcome, error) {
	t := opts.Tracer
	if t == nil {
		t = tracer
	}
	workers := opts.workers()

	ctx, span := t.Start(ctx, "search.Sweep",
		trace.WithAttributes(
			attribute.Int("sweep.scenarios", len(scenarios)),
			attribute.Int("sweep.heights", len(heights)),
			attribute.Int("sweep.workers", workers),
		),
	)
	defer span.End()

	sim := Simulator(cfg)
	out := make([]domain.PolicyOutcome, len(scenarios)*len(heights))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

schedule:
	for i, sc := range scenarios {
		for j, h := range heights {
			if gctx.Err() != nil {
				break schedule
			}
			slot := i*len(heights) + j
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				if opts.IncludeAnnual {
					out[slot] = evaluateWithAnnual(cfg, sc, h)
				} else {
					o, err := sim(nil, sc.Scenario, domain.Policy{RaiseHeightFt: h})
					out[slot] = newOutcome(sc.ID, h, o, err)
				}
				return nil
			})
		}
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sweep aborted")
		return nil, fmt.Errorf("sweep: %w", err)
	}

	span.SetAttributes(attribute.Int("sweep.failed", countFailed(out)))
	span.SetStatus(codes.Ok, "")
	return out, nil
}

// evaluateWithAnnual prices one pairing and keeps the yearly breakdown. The
// expected damage is the sum of the discounted years, same as NPVExpectedDamage.
func evaluateWithAnnual(cfg domain.EvaluationConfig, sc domain.NamedScenario, h float64) domain.PolicyOutcome {
	investment, err := domain.ElevationCost(cfg.Structure, h)
	if err != nil {
		return newOutcome(sc.ID, h, domain.Outcome{}, err)
	}
	annual, err := domain.AnnualDamages(cfg, sc.Scenario, h)
	if err != nil {
		return newOutcome(sc.ID, h, domain.Outcome{}, err)
	}
	var damage float64
	for _, a := range annual {
		damage += a.Discounted
	}
	po := newOutcome(sc.ID, h, domain.Outcome{
		Investment:     investment,
		ExpectedDamage: damage,
		TotalCost:      investment + damage,
	}, nil)
	po.Annual = annual
	return po
}

func newOutcome(scenarioID string, h float64, o domain.Outcome, err error) domain.PolicyOutcome {
	po := domain.PolicyOutcome{
		ScenarioID:    scenarioID,
		RaiseHeightFt: h,
	}
	if err != nil {
		po.Error = err.Error()
		return po
	}
	po.Outcome = o
	return po
}

func countFailed(outcomes []domain.PolicyOutcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Error != "" {
			n++
		}
	}
	return n
}
