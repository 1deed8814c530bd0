package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFitRobustScaler(t *testing.T) {
	matrix := [][]float64{
		{1, 10},
		{2, 10},
		{3, 10},
		{4, 10},
		{5, 10},
	}

	params := FitRobustScaler(matrix)
	require.Len(t, params.Median, 2)

	require.InDelta(t, 3, params.Median[0], 1e-9)
	require.InDelta(t, 2, params.IQR[0], 1e-9) // p75=4, p25=2

	// Constant column: median 10, IQR falls back to unit scale.
	require.InDelta(t, 10, params.Median[1], 1e-9)
	require.InDelta(t, 1, params.IQR[1], 1e-9)

	scaled := params.Transform(matrix)
	require.InDelta(t, -1, scaled[0][0], 1e-9)
	require.InDelta(t, 0, scaled[2][0], 1e-9)
	require.InDelta(t, 1, scaled[4][0], 1e-9)
	for i := range scaled {
		require.InDelta(t, 0, scaled[i][1], 1e-9)
	}
}

func TestFitRobustScalerEmpty(t *testing.T) {
	params := FitRobustScaler(nil)
	require.Empty(t, params.Median)
	require.Empty(t, params.Transform(nil))
}

func TestTransformDoesNotMutateInput(t *testing.T) {
	matrix := [][]float64{{1, 2}, {3, 4}}
	params := FitRobustScaler(matrix)
	_ = params.Transform(matrix)
	require.Equal(t, [][]float64{{1, 2}, {3, 4}}, matrix)
}

func TestColumnPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	require.InDelta(t, 1.75, columnPercentile(sorted, 0.25), 1e-9)
	require.InDelta(t, 2.5, columnPercentile(sorted, 0.50), 1e-9)
	require.InDelta(t, 4, columnPercentile(sorted, 1.0), 1e-9)
	require.Equal(t, 0.0, columnPercentile(nil, 0.5))
	require.False(t, math.IsNaN(columnPercentile([]float64{7}, 0.99)))
}
