package math

import "math"

// Wrap reduces a into [0, period). Negative inputs wrap from the top, so
// Wrap(-0.1, 2π) is 2π-0.1. A remainder that rounds up to period after the
// sign fix maps to 0. Wrap is idempotent for finite input.
func Wrap(a, period float64) float64 {
	a = math.Mod(a, period)
	if a < 0 {
		a += period
	}
	if a >= period {
		a = 0
	}
	return a
}
