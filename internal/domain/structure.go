package domain

import "fmt"

// Structure is the analysis target: its replacement value (USD), floor area
// (ft²), height of the first floor above the gauge datum (ft, may be negative)
// and its depth-damage curve.
type Structure struct {
	Value            float64
	Area             float64
	HeightAboveGauge float64
	Curve            *DamageCurve
}

// NewStructure builds a Structure and its damage curve from raw curve data.
func NewStructure(depths, damages []float64, value, area, heightAboveGauge float64) (*Structure, error) {
	curve, err := NewDamageCurve(depths, damages)
	if err != nil {
		return nil, err
	}
	return NewStructureWithCurve(curve, value, area, heightAboveGauge)
}

// NewStructureWithCurve builds a Structure around an already constructed curve,
// e.g. one shared from a damage table cache.
func NewStructureWithCurve(curve *DamageCurve, value, area, heightAboveGauge float64) (*Structure, error) {
	if curve == nil {
		return nil, fmt.Errorf("%w: missing damage curve", ErrInvalidStructure)
	}
	if !isFinite(value) || value <= 0 {
		return nil, fmt.Errorf("%w: value must be positive, got %g", ErrInvalidStructure, value)
	}
	if !isFinite(area) || area <= 0 {
		return nil, fmt.Errorf("%w: area must be positive, got %g", ErrInvalidStructure, area)
	}
	if !isFinite(heightAboveGauge) {
		return nil, fmt.Errorf("%w: height above gauge %g", ErrNonFiniteValue, heightAboveGauge)
	}
	return &Structure{
		Value:            value,
		Area:             area,
		HeightAboveGauge: heightAboveGauge,
		Curve:            curve,
	}, nil
}
