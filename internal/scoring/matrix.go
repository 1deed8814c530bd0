package scoring

import (
	"math"

	"defi-credit-lab/internal/domain"
)

// BuildMatrix converts wallet feature records into a row-per-wallet matrix in
// canonical column order. NaN and Inf values are sanitized to 0 so downstream
// fitting never sees non-finite input.
func BuildMatrix(features []*domain.WalletFeatures) [][]float64 {
	matrix := make([][]float64, len(features))
	for i, f := range features {
		row := f.Vector()
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				row[j] = 0
			}
		}
		matrix[i] = row
	}
	return matrix
}
