// Package domain models coastal flood risk to a single structure and the cost of
// elevating it.
//
// # Risk Model
//
// Four pieces compose into one number per candidate raise height:
//
//	DamageCurve       depth at the structure (ft)  →  damage (% of value)
//	CostRate          raise height (ft)            →  construction cost (USD/ft²)
//	ExpectedAnnualDamage                           →  USD per year
//	NPVExpectedDamage                              →  USD, discounted to the base year
//
// [Evaluate] combines them: total cost = elevation investment + present value of
// expected damage over the evaluation years.
//
// # Depth Conventions
//
// Flood stage is measured against the gauge datum. Net depth at the structure is
//
//	stage + slr − height_above_gauge − raise
//
// so negative depths mean the water stays below the first floor. Damage curves are
// calibrated over a finite depth range and hold their endpoint values outside it.
//
// # Expected Annual Damage
//
// EAD integrates damage over exceedance probability on a fixed grid (see
// [DefaultGrid]). The stage at exceedance probability p is the hazard quantile at
// 1 − p. The grid never changes between calls, so identical inputs give
// bit-identical outputs.
//
// # Elevation Cost
//
// Any non-zero raise pays [BaselineFee] (engineering, permits, plan review,
// utility reconnection, demolition, mobilization) plus floor area times a rate
// interpolated from the cost table. A raise of zero costs nothing. Heights outside
// [MinElevationFt, MaxElevationFt] are contract violations, never clamped.
//
// # HAZUS Depth-Damage Tables
//
// Depth columns are named ftNN for NN feet above the first floor and ftNNm for NN
// feet below it. Cells holding "NA" mark depths with no data. See [ParseDamageRow].
//
// # ID Generation
//
// Requests without an ID get a deterministic SHA-256 prefix of their payload, so a
// replayed request lands on the same result key. See [generateID].
package domain
