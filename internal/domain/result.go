package domain

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// PolicyOutcome is the evaluation of one height under one scenario. When the
// pairing violates a contract (e.g. a height outside the cost model), Error is
// set and the numbers are zero.
type PolicyOutcome struct {
	ScenarioID    string  `json:"scenario_id"`
	RaiseHeightFt float64 `json:"raise_height_ft"`
	Outcome
	Annual []AnnualDamage `json:"annual,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// HeightSummary describes the spread of total cost across scenarios for one
// candidate height. Failed pairings are counted but excluded from the statistics.
type HeightSummary struct {
	RaiseHeightFt      float64 `json:"raise_height_ft"`
	Scenarios          int     `json:"scenarios"`
	Failed             int     `json:"failed,omitempty"`
	MeanInvestment     float64 `json:"mean_investment"`
	MeanExpectedDamage float64 `json:"mean_expected_damage"`
	MeanTotalCost      float64 `json:"mean_total_cost"`
	StdDevTotalCost    float64 `json:"stddev_total_cost"`
	MinTotalCost       float64 `json:"min_total_cost"`
	MaxTotalCost       float64 `json:"max_total_cost"`
}

// EvaluationResult is the response to an EvaluationRequest.
type EvaluationResult struct {
	RequestID    string          `json:"request_id"`
	EvaluationID string          `json:"evaluation_id"`
	EvaluatedAt  time.Time       `json:"evaluated_at"`
	Outcomes     []PolicyOutcome `json:"outcomes"`
	Summaries    []HeightSummary `json:"summaries"`
}

// NewEvaluationResult stamps outcomes with a fresh evaluation ID and the current time.
func NewEvaluationResult(requestID string, outcomes []PolicyOutcome, summaries []HeightSummary) EvaluationResult {
	return EvaluationResult{
		RequestID:    requestID,
		EvaluationID: uuid.NewString(),
		EvaluatedAt:  clock.Now().UTC(),
		Outcomes:     outcomes,
		Summaries:    summaries,
	}
}

// SerializeResult marshals a result into an OutputMessage keyed by request ID.
func SerializeResult(result EvaluationResult) (OutputMessage, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return OutputMessage{}, fmt.Errorf("serialize evaluation result: %w", err)
	}
	return OutputMessage{
		Key:   []byte(result.RequestID),
		Value: data,
		Headers: map[string]string{
			"request_id":   result.RequestID,
			"evaluated_at": result.EvaluatedAt.Format(time.RFC3339),
		},
	}, nil
}
