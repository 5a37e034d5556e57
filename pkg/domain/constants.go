// Package domain holds numeric constants and float helpers shared by the
// flow network model and the solver.
package domain

import "math"

// Mathematical constants used throughout flow computations.
const (
	// Epsilon is the tolerance for floating-point comparisons.
	// Capacities smaller than Epsilon are considered zero.
	Epsilon = 1e-9

	// Infinity represents an unreachable distance or unlimited capacity.
	Infinity = math.MaxFloat64
)

// FloatEquals compares two float64 values within Epsilon.
func FloatEquals(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// IsZero reports whether a value is zero within Epsilon.
func IsZero(v float64) bool {
	return math.Abs(v) < Epsilon
}

// IsPositive reports whether a value is strictly positive within Epsilon.
func IsPositive(v float64) bool {
	return v > Epsilon
}

// Min returns the minimum of two float64 values.
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two float64 values.
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
