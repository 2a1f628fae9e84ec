package utils

import "math"

// Round2 rounds to 2 decimal places. All monetary fields pass through here
// before they are persisted or compared.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
