package scoring

import "sort"

// ScalerParams holds per-column robust scaling parameters fitted on a
// population matrix: value' = (value - median) / IQR. Columns with zero IQR
// keep unit scale so constant features center to 0 instead of dividing by 0.
type ScalerParams struct {
	Median []float64
	IQR    []float64
}

// FitRobustScaler computes per-column medians and interquartile ranges.
func FitRobustScaler(matrix [][]float64) *ScalerParams {
	if len(matrix) == 0 {
		return &ScalerParams{}
	}

	cols := len(matrix[0])
	params := &ScalerParams{
		Median: make([]float64, cols),
		IQR:    make([]float64, cols),
	}

	column := make([]float64, len(matrix))
	for j := 0; j < cols; j++ {
		for i := range matrix {
			column[i] = matrix[i][j]
		}
		sort.Float64s(column)

		params.Median[j] = columnPercentile(column, 0.50)
		iqr := columnPercentile(column, 0.75) - columnPercentile(column, 0.25)
		if iqr == 0 {
			iqr = 1
		}
		params.IQR[j] = iqr
	}

	return params
}

// Transform applies the fitted scaling to a matrix, returning a new matrix.
func (p *ScalerParams) Transform(matrix [][]float64) [][]float64 {
	scaled := make([][]float64, len(matrix))
	for i, row := range matrix {
		out := make([]float64, len(row))
		for j, v := range row {
			out[j] = (v - p.Median[j]) / p.IQR[j]
		}
		scaled[i] = out
	}
	return scaled
}

// columnPercentile uses linear interpolation over a pre-sorted column.
func columnPercentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
