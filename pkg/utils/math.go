package utils

import "math"

// Fraction returns the part of v above the whole number below it
func Fraction(v float64) float64 {
	return v - math.Floor(v)
}

// CeilAbove rounds v up to the next whole number only when its fraction
// exceeds threshold; otherwise it rounds down.
func CeilAbove(v, threshold float64) float64 {
	if Fraction(v) > threshold {
		return math.Ceil(v)
	}
	return math.Floor(v)
}
