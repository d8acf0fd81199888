package domain

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// HazardDistribution is a flood-stage distribution relative to the gauge datum.
// The integrator only needs its inverse CDF; gonum's distuv types satisfy it.
type HazardDistribution interface {
	Quantile(p float64) float64
}

// GEV is the generalized extreme value distribution commonly fit to annual
// maximum storm surge. Shape > 0 gives the heavy-tailed (Fréchet) family.
type GEV struct {
	Location float64
	Scale    float64
	Shape    float64
}

// Quantile returns the stage with non-exceedance probability p.
func (g GEV) Quantile(p float64) float64 {
	if p < 0 || p > 1 {
		panic("gev: quantile out of bounds")
	}
	y := -math.Log(p)
	if math.Abs(g.Shape) < 1e-12 {
		return g.Location - g.Scale*math.Log(y)
	}
	return g.Location + g.Scale/g.Shape*(math.Pow(y, -g.Shape)-1)
}

// Hazard distribution families accepted in a HazardSpec.
const (
	FamilyGEV       = "gev"
	FamilyGumbel    = "gumbel"
	FamilyNormal    = "normal"
	FamilyLogNormal = "lognormal"
)

// HazardSpec describes a hazard distribution by family and parameters. Scale is
// sigma for normal and lognormal, beta for gumbel. Shape is used by gev only.
type HazardSpec struct {
	Family   string  `json:"family" yaml:"family" toml:"family"`
	Location float64 `json:"location" yaml:"location" toml:"location"`
	Scale    float64 `json:"scale" yaml:"scale" toml:"scale"`
	Shape    float64 `json:"shape,omitempty" yaml:"shape,omitempty" toml:"shape,omitempty"`
}

// Distribution builds the described distribution. A zero scale is allowed and
// degrades to a point mass at the location.
func (h HazardSpec) Distribution() (HazardDistribution, error) {
	if !isFinite(h.Location) || !isFinite(h.Scale) || !isFinite(h.Shape) {
		return nil, fmt.Errorf("hazard parameters: %w", ErrNonFiniteValue)
	}
	if h.Scale < 0 {
		return nil, fmt.Errorf("hazard scale must be non-negative, got %g", h.Scale)
	}

	switch strings.ToLower(strings.TrimSpace(h.Family)) {
	case FamilyGEV:
		return GEV{Location: h.Location, Scale: h.Scale, Shape: h.Shape}, nil
	case FamilyGumbel:
		return distuv.GumbelRight{Mu: h.Location, Beta: h.Scale}, nil
	case FamilyNormal:
		return distuv.Normal{Mu: h.Location, Sigma: h.Scale}, nil
	case FamilyLogNormal:
		return distuv.LogNormal{Mu: h.Location, Sigma: h.Scale}, nil
	default:
		return nil, fmt.Errorf("unknown hazard family %q", h.Family)
	}
}
