package utils

import "math"

// RoundDecimal rounds a float64 value to the specified number of decimal
// places. For example, RoundDecimal(3.14159, 2) returns 3.14.
func RoundDecimal(value float64, decimals int) float64 {
	pow := 1.0
	for i := 0; i < decimals; i++ {
		pow *= 10
	}

	return float64(int(value*pow+0.5)) / pow
}

// CeilInt64 rounds up to the nearest integer. Used when converting fitted
// coefficients to accounting units, where rounding down would produce a
// cost model that under-estimates measured cost.
func CeilInt64(value float64) int64 {
	return int64(math.Ceil(value))
}
