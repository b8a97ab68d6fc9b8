package util

import "math"

func FloatPointer(f float64) *float64 {
	return &f
}

// FiniteOrNil drops NaN and infinities so they serialize as null.
func FiniteOrNil(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
