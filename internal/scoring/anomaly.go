package scoring

import (
	"math"
	"sort"
)

// DetectAnomalies flags the contamination fraction of wallets whose scaled
// feature vectors lie farthest from the population center. The scaled matrix
// is already median-centered, so the Euclidean norm of a row is its robust
// distance from typical behavior. Exactly floor(contamination * n) wallets
// are flagged; distance ties break on wallet order so the result is stable.
func DetectAnomalies(scaled [][]float64, wallets []string, contamination float64) []bool {
	flags := make([]bool, len(scaled))

	flagged := int(math.Floor(contamination * float64(len(scaled))))
	if flagged <= 0 {
		return flags
	}

	type ranked struct {
		index    int
		distance float64
	}
	ranks := make([]ranked, len(scaled))
	for i, row := range scaled {
		ranks[i] = ranked{index: i, distance: euclideanNorm(row)}
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].distance != ranks[j].distance {
			return ranks[i].distance > ranks[j].distance
		}
		return wallets[ranks[i].index] < wallets[ranks[j].index]
	})

	for _, r := range ranks[:flagged] {
		flags[r.index] = true
	}
	return flags
}

func euclideanNorm(row []float64) float64 {
	sum := 0.0
	for _, v := range row {
		sum += v * v
	}
	return math.Sqrt(sum)
}
