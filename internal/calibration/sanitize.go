package calibration

import "math"

// Sanitize replaces every NaN and ±Inf cell in the matrix with 0, in place.
// Returns the number of replaced cells. Extraction degeneracies (e.g. a
// division by a zero day span) are recovered here deterministically rather
// than surfaced as errors; no non-finite value may reach the scaler or the
// regressor.
func Sanitize(x [][]float64) int {
	replaced := 0
	for _, row := range x {
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				row[j] = 0
				replaced++
			}
		}
	}
	return replaced
}
