package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTooFewPoints is returned when a damage curve has fewer than two control points.
	ErrTooFewPoints = errors.New("damage curve needs at least two points")

	// ErrDuplicateDepth is returned when two control points share a depth.
	ErrDuplicateDepth = errors.New("duplicate depth in damage curve")

	// ErrCurveLengthMismatch is returned when depth and damage sequences differ in length.
	ErrCurveLengthMismatch = errors.New("depths and damages differ in length")

	// ErrNonFiniteValue is returned for NaN or infinite inputs.
	ErrNonFiniteValue = errors.New("value is not finite")

	// ErrInvalidStructure is returned for non-positive structure value or area.
	ErrInvalidStructure = errors.New("invalid structure")

	// ErrInvalidRequest wraps every validation failure of an evaluation request.
	ErrInvalidRequest = errors.New("invalid evaluation request")

	// ErrCurveNotFound is returned by a CurveSource that has no curve for an ID.
	ErrCurveNotFound = errors.New("damage curve not found")
)

// InvalidElevationError reports a raise height outside the range the cost model covers.
type InvalidElevationError struct {
	Height float64
}

func (e *InvalidElevationError) Error() string {
	return fmt.Sprintf("invalid elevation %g ft: must be within [%g, %g]", e.Height, MinElevationFt, MaxElevationFt)
}

// OutOfRangeError reports a height outside the elevation cost curve's domain.
type OutOfRangeError struct {
	Height float64
	Min    float64
	Max    float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("height %g ft outside cost curve domain [%g, %g]", e.Height, e.Min, e.Max)
}

// LengthMismatchError reports an SLR trajectory that does not line up with the evaluation years.
type LengthMismatchError struct {
	Years      int
	Trajectory int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("slr trajectory has %d entries for %d evaluation years", e.Trajectory, e.Years)
}
