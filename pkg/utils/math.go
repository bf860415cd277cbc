package utils

import "math"

// NormalizeL2 returns v normalized to unit L2 norm.
// If the norm is zero, v is returned unchanged (never a division by zero).
func NormalizeL2(v []float64) []float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return v
	}
	norm := 1.0 / math.Sqrt(sum)
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x * norm
	}
	return out
}

// Magnitude returns the L2 norm of v.
func Magnitude(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// RoundHalfAwayFromZero rounds x to the given number of decimal places,
// with ties rounded away from zero (0.5 -> 1, -0.5 -> -1).
func RoundHalfAwayFromZero(x float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	if x >= 0 {
		return math.Floor(x*scale+0.5) / scale
	}
	return math.Ceil(x*scale-0.5) / scale
}
