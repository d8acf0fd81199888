package domain

// Policy is a candidate adaptation: raise the structure by RaiseHeightFt.
type Policy struct {
	RaiseHeightFt float64
}

// Outcome is the cost of one policy under one scenario, in USD.
type Outcome struct {
	Investment     float64 `json:"investment"`
	ExpectedDamage float64 `json:"expected_damage"`
	TotalCost      float64 `json:"total_cost"`
}

// Evaluate prices p under sc: the up-front elevation cost plus the present value
// of expected flood damage over cfg.Years. It is deterministic and safe to call
// concurrently with the same cfg.
func Evaluate(cfg EvaluationConfig, sc Scenario, p Policy) (Outcome, error) {
	investment, err := ElevationCost(cfg.Structure, p.RaiseHeightFt)
	if err != nil {
		return Outcome{}, err
	}
	damage, err := NPVExpectedDamage(cfg, sc, p.RaiseHeightFt)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Investment:     investment,
		ExpectedDamage: damage,
		TotalCost:      investment + damage,
	}, nil
}
