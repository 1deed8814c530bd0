// Package scoring turns per-wallet feature vectors into credit scores on a
// 0-1000 scale. Scoring is population-relative: scaler parameters, anomaly
// flags, cluster assignments and the final normalization are all fitted on
// the full batch, so a wallet's score depends on the cohort it is scored
// with. All stages are deterministic for a given input and seed.
package scoring

// Options controls the scoring stages. Zero value is not usable; start from
// DefaultOptions.
type Options struct {
	// Contamination is the fraction of wallets flagged as anomalous,
	// rounded down to a whole count.
	Contamination float64 `yaml:"contamination"`

	// Clusters is the target number of behavioral clusters. Reduced to the
	// wallet count when the population is smaller.
	Clusters int `yaml:"clusters"`

	// Seed drives cluster centroid initialization.
	Seed int64 `yaml:"seed"`

	// AnomalyMultiplier is applied to the base score of flagged wallets.
	AnomalyMultiplier float64 `yaml:"anomaly_multiplier"`

	// RiskyClusterMultiplier is applied to members of clusters whose mean
	// liquidation frequency exceeds RiskyLiquidationMean.
	RiskyClusterMultiplier float64 `yaml:"risky_cluster_multiplier"`
	RiskyLiquidationMean   float64 `yaml:"risky_liquidation_mean"`

	// SafeClusterMultiplier is applied to members of clusters whose mean
	// liquidation frequency is below SafeLiquidationMean.
	SafeClusterMultiplier float64 `yaml:"safe_cluster_multiplier"`
	SafeLiquidationMean   float64 `yaml:"safe_liquidation_mean"`

	// LowerQuantile and UpperQuantile clip outliers before rescaling the
	// risk-adjusted scores onto [0, 1000].
	LowerQuantile float64 `yaml:"lower_quantile"`
	UpperQuantile float64 `yaml:"upper_quantile"`

	// Base-score overrides: wallets with a base score below
	// LowBaseThreshold are capped at LowScoreCap; above HighBaseThreshold
	// they are floored at HighScoreFloor.
	LowBaseThreshold  float64 `yaml:"low_base_threshold"`
	LowScoreCap       float64 `yaml:"low_score_cap"`
	HighBaseThreshold float64 `yaml:"high_base_threshold"`
	HighScoreFloor    float64 `yaml:"high_score_floor"`
}

// DefaultOptions returns the production scoring configuration.
func DefaultOptions() Options {
	return Options{
		Contamination:          0.1,
		Clusters:               5,
		Seed:                   42,
		AnomalyMultiplier:      0.7,
		RiskyClusterMultiplier: 0.8,
		RiskyLiquidationMean:   0.1,
		SafeClusterMultiplier:  1.1,
		SafeLiquidationMean:    0.01,
		LowerQuantile:          0.01,
		UpperQuantile:          0.99,
		LowBaseThreshold:       200,
		LowScoreCap:            300,
		HighBaseThreshold:      800,
		HighScoreFloor:         700,
	}
}
