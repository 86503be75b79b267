package utils

import "math"

// RoundFloat rounds a float64 to the specified number of decimal places.
func RoundFloat(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// PercentOf returns pct percent of amount, rounded to cents.
func PercentOf(amount, pct float64) float64 {
	return RoundFloat(amount*pct/100, 2)
}
