package core

import "math"

// RoundScore rounds a relevance score to six decimal places, the fixed
// precision carried in caller-facing payloads.
func RoundScore(s float64) float64 {
	return math.Round(s*1e6) / 1e6
}
