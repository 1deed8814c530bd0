package scoring

import "defi-credit-lab/internal/domain"

// Adjustment is the result of the risk-adjustment stage: base scores after
// anomaly and cluster multipliers, plus the flags and assignments that
// produced them.
type Adjustment struct {
	Scores             []float64
	AnomalyFlags       []bool
	ClusterAssignments []int
	ClusterMultipliers []float64 // indexed by cluster
}

// AdjustScores applies risk multipliers to base scores. Anomalous wallets
// are discounted first, then each wallet picks up its cluster's multiplier:
// clusters with high mean liquidation frequency are discounted, clusters
// that barely liquidate get a premium.
func AdjustScores(features []*domain.WalletFeatures, baseScores []float64, scaled [][]float64, opts Options) *Adjustment {
	wallets := make([]string, len(features))
	for i, f := range features {
		wallets[i] = f.WalletAddress
	}

	adj := &Adjustment{
		Scores:       make([]float64, len(baseScores)),
		AnomalyFlags: DetectAnomalies(scaled, wallets, opts.Contamination),
	}
	copy(adj.Scores, baseScores)

	for i, flagged := range adj.AnomalyFlags {
		if flagged {
			adj.Scores[i] *= opts.AnomalyMultiplier
		}
	}

	adj.ClusterAssignments = ClusterWallets(scaled, opts.Clusters, opts.Seed)
	adj.ClusterMultipliers = clusterMultipliers(features, adj.ClusterAssignments, opts)

	for i, c := range adj.ClusterAssignments {
		adj.Scores[i] *= adj.ClusterMultipliers[c]
	}

	return adj
}

// clusterMultipliers derives one multiplier per cluster from the mean
// liquidation frequency of its members.
func clusterMultipliers(features []*domain.WalletFeatures, assignments []int, opts Options) []float64 {
	clusters := 0
	for _, c := range assignments {
		if c+1 > clusters {
			clusters = c + 1
		}
	}

	sums := make([]float64, clusters)
	counts := make([]int, clusters)
	for i, c := range assignments {
		sums[c] += features[i].LiquidationFrequency
		counts[c]++
	}

	multipliers := make([]float64, clusters)
	for c := range multipliers {
		multipliers[c] = 1.0
		if counts[c] == 0 {
			continue
		}
		mean := sums[c] / float64(counts[c])
		switch {
		case mean > opts.RiskyLiquidationMean:
			multipliers[c] = opts.RiskyClusterMultiplier
		case mean < opts.SafeLiquidationMean:
			multipliers[c] = opts.SafeClusterMultiplier
		}
	}

	return multipliers
}
