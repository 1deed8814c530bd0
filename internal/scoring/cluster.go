package scoring

import (
	"math"
	"math/rand"
)

const maxKMeansIterations = 100

// ClusterWallets partitions scaled feature vectors into k behavioral
// clusters with seeded k-means++ so assignments are reproducible. k is
// reduced to the population size when the batch is smaller than k. Returns
// one cluster index per row.
func ClusterWallets(scaled [][]float64, k int, seed int64) []int {
	n := len(scaled)
	if n == 0 {
		return nil
	}
	if k > n {
		k = n
	}
	if k < 1 {
		k = 1
	}

	rng := rand.New(rand.NewSource(seed))
	centroids := seedCentroids(scaled, k, rng)
	assignments := make([]int, n)

	for iter := 0; iter < maxKMeansIterations; iter++ {
		changed := false
		for i, row := range scaled {
			best := nearestCentroid(row, centroids)
			if best != assignments[i] {
				assignments[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		recomputeCentroids(scaled, assignments, centroids, rng)
	}

	return assignments
}

// seedCentroids picks k initial centroids with the k-means++ strategy: the
// first uniformly, each following one with probability proportional to its
// squared distance from the nearest chosen centroid.
func seedCentroids(scaled [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(scaled)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, copyRow(scaled[rng.Intn(n)]))

	distances := make([]float64, n)
	for len(centroids) < k {
		total := 0.0
		for i, row := range scaled {
			d := math.Inf(1)
			for _, c := range centroids {
				if sq := squaredDistance(row, c); sq < d {
					d = sq
				}
			}
			distances[i] = d
			total += d
		}

		if total == 0 {
			// All remaining points coincide with a centroid.
			centroids = append(centroids, copyRow(scaled[rng.Intn(n)]))
			continue
		}

		target := rng.Float64() * total
		chosen := n - 1
		cumulative := 0.0
		for i, d := range distances {
			cumulative += d
			if cumulative >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, copyRow(scaled[chosen]))
	}

	return centroids
}

// recomputeCentroids moves each centroid to the mean of its members. An
// empty cluster is reseeded to the point farthest from its nearest centroid
// so k is preserved.
func recomputeCentroids(scaled [][]float64, assignments []int, centroids [][]float64, rng *rand.Rand) {
	dims := len(scaled[0])
	counts := make([]int, len(centroids))
	sums := make([][]float64, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, dims)
	}

	for i, row := range scaled {
		c := assignments[i]
		counts[c]++
		for j, v := range row {
			sums[c][j] += v
		}
	}

	for c := range centroids {
		if counts[c] == 0 {
			centroids[c] = copyRow(farthestPoint(scaled, centroids))
			continue
		}
		for j := range centroids[c] {
			centroids[c][j] = sums[c][j] / float64(counts[c])
		}
	}
}

func nearestCentroid(row []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := squaredDistance(row, centroid); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func farthestPoint(scaled [][]float64, centroids [][]float64) []float64 {
	bestIdx := 0
	bestDist := -1.0
	for i, row := range scaled {
		d := math.Inf(1)
		for _, c := range centroids {
			if sq := squaredDistance(row, c); sq < d {
				d = sq
			}
		}
		if d > bestDist {
			bestDist = d
			bestIdx = i
		}
	}
	return scaled[bestIdx]
}

func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

func copyRow(row []float64) []float64 {
	out := make([]float64, len(row))
	copy(out, row)
	return out
}
