package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"

	"defi-credit-lab/internal/domain"
)

func TestHeuristicBonus(t *testing.T) {
	cases := []struct {
		name string
		f    domain.WalletFeatures
		want float64
	}{
		{"empty wallet", domain.WalletFeatures{}, 0},
		{"long tenure", domain.WalletFeatures{TenureDays: 400}, 50},
		{"medium tenure", domain.WalletFeatures{TenureDays: 200}, 25},
		{"active", domain.WalletFeatures{TotalTransactions: 60}, 30},
		{"moderately active", domain.WalletFeatures{TotalTransactions: 25}, 15},
		{"diversified", domain.WalletFeatures{UniqueAssets: 6}, 20},
		{"full repayment", domain.WalletFeatures{RepayRatio: 1.2, BorrowCount: 3}, 40},
		{"full ratio without borrows", domain.WalletFeatures{RepayRatio: 1.0}, 0},
		{"liquidated twice", domain.WalletFeatures{LiquidationCount: 2}, -60},
		{"bot-like", domain.WalletFeatures{BotLikeRegularity: 0.9}, -100},
		{
			"compound",
			domain.WalletFeatures{TenureDays: 400, TotalTransactions: 60, LiquidationCount: 1},
			50 + 30 - 30,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.InDelta(t, tc.want, heuristicBonus(&tc.f), 1e-9)
		})
	}
}

func TestBaseScoresCentered(t *testing.T) {
	// Identical wallets scale to all-zero vectors: every score is exactly
	// the 500 center (no bonuses trigger).
	features := []*domain.WalletFeatures{
		{WalletAddress: "0xa", TotalTransactions: 5, TotalVolume: 100},
		{WalletAddress: "0xb", TotalTransactions: 5, TotalVolume: 100},
		{WalletAddress: "0xc", TotalTransactions: 5, TotalVolume: 100},
	}

	scores, params, scaled := BaseScores(features)
	require.Len(t, scores, 3)
	require.Len(t, params.Median, domain.FeatureCount)
	require.Len(t, scaled, 3)
	for _, s := range scores {
		require.InDelta(t, 500, s, 1e-9)
	}
}

func TestBaseScoresRankRepayment(t *testing.T) {
	good := &domain.WalletFeatures{
		WalletAddress:         "0xgood",
		TotalTransactions:     10,
		RepayConsistencyScore: 1.0,
		RepayRatio:            1.0,
		BorrowCount:           2,
	}
	bad := &domain.WalletFeatures{
		WalletAddress:        "0xbad",
		TotalTransactions:    10,
		LiquidationCount:     3,
		LiquidationFrequency: 0.3,
		HasLiquidations:      true,
	}
	mid := &domain.WalletFeatures{
		WalletAddress:         "0xmid",
		TotalTransactions:     10,
		RepayConsistencyScore: 0.5,
	}

	scores, _, _ := BaseScores([]*domain.WalletFeatures{good, bad, mid})
	require.Greater(t, scores[0], scores[2], "full repayer should beat partial repayer")
	require.Greater(t, scores[2], scores[1], "partial repayer should beat liquidated wallet")
}

func TestWeightVectorMatchesTable(t *testing.T) {
	weights := weightVector()
	require.Len(t, weights, domain.FeatureCount)

	nonZero := 0
	for _, w := range weights {
		if w != 0 {
			nonZero++
		}
	}
	require.Equal(t, len(featureWeights), nonZero)

	require.InDelta(t, 0.15, weights[domain.FeatureIndex("repay_consistency_score")], 1e-9)
	require.InDelta(t, -0.10, weights[domain.FeatureIndex("liquidation_frequency")], 1e-9)
}
