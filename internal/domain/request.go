package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

// EvaluationRequest asks for every candidate height to be priced under every
// scenario for one structure. It is the payload of the source topic, the body of
// POST /v1/evaluations and the schema of CLI analysis files.
type EvaluationRequest struct {
	ID            string         `json:"id,omitempty" yaml:"id" toml:"id"`
	Structure     StructureSpec  `json:"structure" yaml:"structure" toml:"structure"`
	Years         []int          `json:"years" yaml:"years" toml:"years"`
	Hazard        HazardSpec     `json:"hazard" yaml:"hazard" toml:"hazard"`
	Scenarios     []ScenarioSpec `json:"scenarios" yaml:"scenarios" toml:"scenarios"`
	Heights       []float64      `json:"heights" yaml:"heights" toml:"heights"`
	IncludeAnnual bool           `json:"include_annual,omitempty" yaml:"include_annual" toml:"include_annual"`
}

// StructureSpec describes the structure. Exactly one of DamageCurve (inline
// points) or DamageCurveID (a damage table reference) must be set.
type StructureSpec struct {
	Value            float64    `json:"value" yaml:"value" toml:"value"`
	Area             float64    `json:"area" yaml:"area" toml:"area"`
	HeightAboveGauge float64    `json:"height_above_gauge" yaml:"height_above_gauge" toml:"height_above_gauge"`
	DamageCurve      *CurveSpec `json:"damage_curve,omitempty" yaml:"damage_curve,omitempty" toml:"damage_curve,omitempty"`
	DamageCurveID    string     `json:"damage_curve_id,omitempty" yaml:"damage_curve_id,omitempty" toml:"damage_curve_id,omitempty"`
}

// CurveSpec holds raw damage curve data: depths in ft, damages in percent.
type CurveSpec struct {
	Depths  []float64 `json:"depths" yaml:"depths" toml:"depths"`
	Damages []float64 `json:"damages" yaml:"damages" toml:"damages"`
}

// ScenarioSpec is one SLR trajectory with its discount rate.
type ScenarioSpec struct {
	ID           string    `json:"id,omitempty" yaml:"id" toml:"id"`
	SLR          []float64 `json:"slr" yaml:"slr" toml:"slr"`
	DiscountRate float64   `json:"discount_rate" yaml:"discount_rate" toml:"discount_rate"`
}

// NamedScenario pairs a Scenario with the identifier it is reported under.
type NamedScenario struct {
	ID string
	Scenario
}

// ParseRequest deserializes a RawMessage into an EvaluationRequest. A request
// without an ID gets one derived from its payload.
func ParseRequest(raw RawMessage) (EvaluationRequest, error) {
	var req EvaluationRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return EvaluationRequest{}, fmt.Errorf("%w: parse request: %w", ErrInvalidRequest, err)
	}
	if req.ID == "" {
		req.ID = generateID(raw.Value)
	}
	return req, nil
}

// generateID derives a deterministic ID so replays of the same payload produce
// the same result key.
func generateID(payload []byte) string {
	hash := sha256.Sum256(payload)
	return "eval-" + hex.EncodeToString(hash[:8])
}

// Build validates the request and turns it into the core's inputs. curves may be
// nil when the request carries its damage curve inline.
func (r EvaluationRequest) Build(ctx context.Context, curves CurveSource) (EvaluationConfig, []NamedScenario, error) {
	structure, err := r.Structure.build(ctx, curves)
	if err != nil {
		return EvaluationConfig{}, nil, invalid(err)
	}
	if err := validateYears(r.Years); err != nil {
		return EvaluationConfig{}, nil, invalid(err)
	}
	hazard, err := r.Hazard.Distribution()
	if err != nil {
		return EvaluationConfig{}, nil, invalid(err)
	}
	if len(r.Heights) == 0 {
		return EvaluationConfig{}, nil, invalid(errors.New("at least one height is required"))
	}
	for _, h := range r.Heights {
		if !isFinite(h) {
			return EvaluationConfig{}, nil, invalid(fmt.Errorf("height: %w", ErrNonFiniteValue))
		}
	}
	scenarios, err := r.buildScenarios()
	if err != nil {
		return EvaluationConfig{}, nil, invalid(err)
	}

	cfg := EvaluationConfig{
		Structure: structure,
		Years:     append([]int(nil), r.Years...),
		Hazard:    hazard,
	}
	return cfg, scenarios, nil
}

func (s StructureSpec) build(ctx context.Context, curves CurveSource) (*Structure, error) {
	switch {
	case s.DamageCurve != nil && s.DamageCurveID != "":
		return nil, errors.New("structure sets both damage_curve and damage_curve_id")
	case s.DamageCurve != nil:
		return NewStructure(s.DamageCurve.Depths, s.DamageCurve.Damages, s.Value, s.Area, s.HeightAboveGauge)
	case s.DamageCurveID == "":
		return nil, errors.New("structure needs damage_curve or damage_curve_id")
	case curves == nil:
		return nil, fmt.Errorf("damage curve %q requested but no damage table is configured", s.DamageCurveID)
	}

	curve, err := curves.DamageCurve(ctx, s.DamageCurveID)
	if err != nil {
		return nil, err
	}
	return NewStructureWithCurve(curve, s.Value, s.Area, s.HeightAboveGauge)
}

func (r EvaluationRequest) buildScenarios() ([]NamedScenario, error) {
	if len(r.Scenarios) == 0 {
		return nil, errors.New("at least one scenario is required")
	}
	out := make([]NamedScenario, len(r.Scenarios))
	for i, sc := range r.Scenarios {
		id := sc.ID
		if id == "" {
			id = fmt.Sprintf("scenario-%d", i)
		}
		if !isFinite(sc.DiscountRate) || sc.DiscountRate < 0 {
			return nil, fmt.Errorf("scenario %s: discount rate must be non-negative, got %g", id, sc.DiscountRate)
		}
		for _, v := range sc.SLR {
			if !isFinite(v) {
				return nil, fmt.Errorf("scenario %s: slr: %w", id, ErrNonFiniteValue)
			}
		}
		out[i] = NamedScenario{
			ID:       id,
			Scenario: Scenario{SLR: append([]float64(nil), sc.SLR...), DiscountRate: sc.DiscountRate},
		}
	}
	return out, nil
}

// validateYears requires a non-empty, strictly ascending year sequence.
func validateYears(years []int) error {
	if len(years) == 0 {
		return errors.New("at least one evaluation year is required")
	}
	for i := 1; i < len(years); i++ {
		if years[i] <= years[i-1] {
			return fmt.Errorf("years must be strictly ascending: %d follows %d", years[i], years[i-1])
		}
	}
	return nil
}

func invalid(err error) error {
	if errors.Is(err, ErrInvalidRequest) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
}
