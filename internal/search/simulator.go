package search

import (
	"math/rand/v2"

	"github.com/couchcryptid/flood-elevation-service/internal/domain"
)

// SimFunc is the calling convention decision frameworks use to evaluate a policy
// under a scenario. The random source is part of that convention only.
type SimFunc func(rng *rand.Rand, sc domain.Scenario, p domain.Policy) (domain.Outcome, error)

// Simulator adapts domain.Evaluate to SimFunc. The risk model is deterministic, so
// rng is ignored and may be nil.
func Simulator(cfg domain.EvaluationConfig) SimFunc {
	return func(_ *rand.Rand, sc domain.Scenario, p domain.Policy) (domain.Outcome, error) {
		return domain.Evaluate(cfg, sc, p)
	}
}
