package scoring

import (
	"math"

	"defi-credit-lab/internal/domain"
)

const (
	baseScoreCenter = 500.0
	scaledClipLimit = 3.0
	weightScale     = 100.0
)

// BaseScores computes the weighted base score for every wallet. Scores start
// at 500, move by weight * clip(scaled value, -3, 3) * 100 per weighted
// feature, and finish with heuristic bonuses computed on the raw features.
// The scaler is fitted on the batch and returned for reuse by the anomaly
// and cluster stages.
func BaseScores(features []*domain.WalletFeatures) ([]float64, *ScalerParams, [][]float64) {
	matrix := BuildMatrix(features)
	params := FitRobustScaler(matrix)
	scaled := params.Transform(matrix)

	// Summed in canonical column order so the float accumulation is
	// identical run to run.
	weights := weightVector()

	scores := make([]float64, len(features))
	for i, f := range features {
		score := baseScoreCenter
		for idx, weight := range weights {
			if weight == 0 {
				continue
			}
			v := clip(scaled[i][idx], -scaledClipLimit, scaledClipLimit)
			score += weight * v * weightScale
		}
		scores[i] = score + heuristicBonus(f)
	}

	return scores, params, scaled
}

// heuristicBonus applies absolute adjustments that the relative scaling
// cannot express: long tenure, sustained activity, full repayment,
// liquidations and bot-like cadence.
func heuristicBonus(f *domain.WalletFeatures) float64 {
	bonus := 0.0

	switch {
	case f.TenureDays > 365:
		bonus += 50
	case f.TenureDays > 180:
		bonus += 25
	}

	switch {
	case f.TotalTransactions > 50:
		bonus += 30
	case f.TotalTransactions > 20:
		bonus += 15
	}

	switch {
	case f.UniqueAssets > 5:
		bonus += 20
	case f.UniqueAssets > 3:
		bonus += 10
	}

	if f.RepayRatio >= 1.0 && f.BorrowCount > 0 {
		bonus += 40
	}

	if f.LiquidationCount > 0 {
		bonus -= float64(f.LiquidationCount) * 30
	}

	if f.BotLikeRegularity > 0.7 {
		bonus -= 100
	}

	return bonus
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
