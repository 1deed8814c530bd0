package scoring

import "defi-credit-lab/internal/domain"

// featureWeights maps canonical feature names to their contribution in the
// weighted base score. Positive weights reward the trait, negative weights
// penalize it. Weighted features are scaled population-relative before the
// weight is applied, so the magnitudes are comparable across features.
var featureWeights = map[string]float64{
	// Repayment behavior dominates.
	"repay_consistency_score": 0.15,
	"liquidation_frequency":   -0.10,
	"has_liquidations":        -0.10,

	// Activity and engagement.
	"total_volume":            0.08,
	"tenure_days":             0.07,
	"total_transactions":      0.05,
	"activity_consistency_cv": -0.05,

	// Sophistication.
	"action_diversity_score":       0.08,
	"gas_optimization_score":       0.07,
	"transaction_complexity_score": 0.05,

	// Risk-taking.
	"leverage_ratio":          -0.05,
	"position_size_variance":  -0.05,
	"asset_concentration_hhi": -0.05,

	// Automation.
	"bot_like_regularity": -0.05,
}

// weightVector expands featureWeights into a dense slice indexed by
// canonical feature column.
func weightVector() []float64 {
	weights := make([]float64, domain.FeatureCount)
	for name, w := range featureWeights {
		if idx := domain.FeatureIndex(name); idx >= 0 {
			weights[idx] = w
		}
	}
	return weights
}
