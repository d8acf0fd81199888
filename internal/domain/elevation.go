package domain

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/interp"
)

const (
	// MinElevationFt and MaxElevationFt bound the raise heights the cost model covers.
	MinElevationFt = 0.0
	MaxElevationFt = 14.0

	// ZeroElevationTolerance is how close to zero a raise height must be to count
	// as "no construction".
	ZeroElevationTolerance = 1e-9
)

// Itemized one-time costs owed whenever any elevation work happens, in USD.
const (
	engineeringFee       = 10000.0
	permitFee            = 300.0
	planReviewFee        = 470.0
	utilityReconnectCost = 4300.0
	demolitionCost       = 2175.0
	mobilizationCost     = 3500.0

	// BaselineFee is the fixed cost of any non-zero elevation.
	BaselineFee = engineeringFee + permitFee + planReviewFee + utilityReconnectCost + demolitionCost + mobilizationCost
)

var (
	costThresholdsFt = []float64{0, 5, 8.5, 12, 14}
	costRatesPerSqFt = []float64{80.36, 82.5, 86.25, 103.75, 113.75}
)

// costCurve is built on first use and shared read-only by every caller.
var costCurve = sync.OnceValue(func() *interp.PiecewiseLinear {
	var pl interp.PiecewiseLinear
	if err := pl.Fit(costThresholdsFt, costRatesPerSqFt); err != nil {
		panic("elevation cost curve: " + err.Error())
	}
	return &pl
})

// CostRate returns the per-square-foot construction cost of raising a structure
// by heightFt. Heights outside [0, 14] ft are not priced.
func CostRate(heightFt float64) (float64, error) {
	if math.IsNaN(heightFt) || heightFt < MinElevationFt || heightFt > MaxElevationFt {
		return 0, &OutOfRangeError{Height: heightFt, Min: MinElevationFt, Max: MaxElevationFt}
	}
	return costCurve().Predict(heightFt), nil
}

// ElevationCost returns the one-time cost of raising s by deltaFt. A zero raise
// costs nothing; any other raise pays BaselineFee plus the area-scaled rate.
func ElevationCost(s *Structure, deltaFt float64) (float64, error) {
	if math.Abs(deltaFt) <= ZeroElevationTolerance {
		return 0, nil
	}
	if math.IsNaN(deltaFt) || deltaFt < MinElevationFt || deltaFt > MaxElevationFt {
		return 0, &InvalidElevationError{Height: deltaFt}
	}
	rate, err := CostRate(deltaFt)
	if err != nil {
		return 0, err
	}
	return BaselineFee + s.Area*rate, nil
}
