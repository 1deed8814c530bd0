package scoring

import "sort"

// NormalizeScores maps risk-adjusted scores onto [0, 1000]. Outliers are
// clipped to the configured quantiles, the clipped range is rescaled
// linearly, and base-score overrides then bound wallets whose unnormalized
// base score was extreme: a very low base caps the final score, a very high
// base floors it. An all-identical batch lands on 500.
func NormalizeScores(adjusted, baseScores []float64, opts Options) []float64 {
	n := len(adjusted)
	if n == 0 {
		return nil
	}

	sorted := make([]float64, n)
	copy(sorted, adjusted)
	sort.Float64s(sorted)

	lo := columnPercentile(sorted, opts.LowerQuantile)
	hi := columnPercentile(sorted, opts.UpperQuantile)

	clipped := make([]float64, n)
	minScore := hi
	maxScore := lo
	for i, v := range adjusted {
		c := clip(v, lo, hi)
		clipped[i] = c
		if c < minScore {
			minScore = c
		}
		if c > maxScore {
			maxScore = c
		}
	}

	final := make([]float64, n)
	for i, c := range clipped {
		score := 500.0
		if maxScore > minScore {
			score = 1000 * (c - minScore) / (maxScore - minScore)
		}

		if baseScores[i] < opts.LowBaseThreshold {
			score = min(score, opts.LowScoreCap)
		} else if baseScores[i] > opts.HighBaseThreshold {
			score = max(score, opts.HighScoreFloor)
		}

		final[i] = clip(score, 0, 1000)
	}

	return final
}
