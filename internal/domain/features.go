package domain

import "fmt"

// WalletFeatures is the fixed-width behavioral feature vector for a single
// wallet, computed from its full transaction history. Every numeric field is
// finite: extraction substitutes 0 (or a documented default) for any
// undefined ratio, so NaN/Inf never leaves the extractor.
// Corresponds to the wallet_features table in ClickHouse.
type WalletFeatures struct {
	WalletAddress string

	// Basic transaction statistics.
	TotalTransactions     int
	TotalVolume           float64
	AvgTransactionSize    float64
	MedianTransactionSize float64
	MaxTransactionSize    float64
	MinTransactionSize    float64
	TransactionStd        float64
	UniqueAssets          int
	TotalGasUsed          int64
	AvgGasPerTx           float64

	// Financial behavior.
	DepositCount          int
	BorrowCount           int
	RepayCount            int
	RedeemCount           int
	LiquidationCount      int
	DepositVolume         float64
	BorrowVolume          float64
	RepayVolume           float64
	RedeemVolume          float64
	NetDepositVolume      float64
	LeverageRatio         float64 // borrow volume / deposit volume, 0 if no deposits
	RepayRatio            float64 // repay volume / borrow volume, 0 if no borrows
	AssetConcentrationHHI float64 // sum of squared per-asset volume shares
	AvgPositionSize       float64

	// Risk indicators.
	LiquidationFrequency   float64
	LiquidationVolumeRatio float64
	HasLiquidations        bool
	RepayConsistencyScore  float64 // 1.0 no borrows, 0.0 borrows without repays
	PositionSizeVariance   float64
	MaxSinglePositionRatio float64

	// Temporal behavior.
	TenureDays               int
	ActivityFrequency        float64 // tx count / max(tenure days, 1)
	ActivityConsistencyCV    float64 // CV of per-day transaction counts
	AvgTimeBetweenTxHours    float64
	MedianTimeBetweenTxHours float64
	WeekendActivityRatio     float64
	DaysActive               int
	MaxInactiveDays          int // longest cumulative inactivity streak

	// Network / technical behavior.
	GasEfficiencyScore         float64 // mean amount-per-gas
	GasOptimizationScore       float64 // max(0, 1 - CV of gas), 0.5 if no gas
	ActionDiversityScore       float64 // distinct actions / 5
	BotLikeRegularity          float64 // max(0, 1 - 2*CV of tx gaps)
	UniqueGasPrices            int
	TransactionComplexityScore float64
}

// featureNames is the canonical column order for the feature matrix and the
// wallet_features table. Vector, FeaturesFromVector and the ClickHouse store
// all depend on this order.
var featureNames = []string{
	"total_transactions",
	"total_volume",
	"avg_transaction_size",
	"median_transaction_size",
	"max_transaction_size",
	"min_transaction_size",
	"transaction_std",
	"unique_assets",
	"total_gas_used",
	"avg_gas_per_tx",
	"deposit_count",
	"borrow_count",
	"repay_count",
	"redeem_count",
	"liquidation_count",
	"deposit_volume",
	"borrow_volume",
	"repay_volume",
	"redeem_volume",
	"net_deposit_volume",
	"leverage_ratio",
	"repay_ratio",
	"asset_concentration_hhi",
	"avg_position_size",
	"liquidation_frequency",
	"liquidation_volume_ratio",
	"has_liquidations",
	"repay_consistency_score",
	"position_size_variance",
	"max_single_position_ratio",
	"tenure_days",
	"activity_frequency",
	"activity_consistency_cv",
	"avg_time_between_tx_hours",
	"median_time_between_tx_hours",
	"weekend_activity_ratio",
	"days_active",
	"max_inactive_days",
	"gas_efficiency_score",
	"gas_optimization_score",
	"action_diversity_score",
	"bot_like_regularity",
	"unique_gas_prices",
	"transaction_complexity_score",
}

// FeatureCount is the width of the feature vector.
var FeatureCount = len(featureNames)

// FeatureNames returns the canonical feature column names in matrix order.
func FeatureNames() []string {
	names := make([]string, len(featureNames))
	copy(names, featureNames)
	return names
}

// FeatureIndex maps a feature name to its column in the canonical order.
// Returns -1 for unknown names.
func FeatureIndex(name string) int {
	for i, n := range featureNames {
		if n == name {
			return i
		}
	}
	return -1
}

// Vector returns the feature values in canonical column order.
func (f *WalletFeatures) Vector() []float64 {
	hasLiq := 0.0
	if f.HasLiquidations {
		hasLiq = 1.0
	}
	return []float64{
		float64(f.TotalTransactions),
		f.TotalVolume,
		f.AvgTransactionSize,
		f.MedianTransactionSize,
		f.MaxTransactionSize,
		f.MinTransactionSize,
		f.TransactionStd,
		float64(f.UniqueAssets),
		float64(f.TotalGasUsed),
		f.AvgGasPerTx,
		float64(f.DepositCount),
		float64(f.BorrowCount),
		float64(f.RepayCount),
		float64(f.RedeemCount),
		float64(f.LiquidationCount),
		f.DepositVolume,
		f.BorrowVolume,
		f.RepayVolume,
		f.RedeemVolume,
		f.NetDepositVolume,
		f.LeverageRatio,
		f.RepayRatio,
		f.AssetConcentrationHHI,
		f.AvgPositionSize,
		f.LiquidationFrequency,
		f.LiquidationVolumeRatio,
		hasLiq,
		f.RepayConsistencyScore,
		f.PositionSizeVariance,
		f.MaxSinglePositionRatio,
		float64(f.TenureDays),
		f.ActivityFrequency,
		f.ActivityConsistencyCV,
		f.AvgTimeBetweenTxHours,
		f.MedianTimeBetweenTxHours,
		f.WeekendActivityRatio,
		float64(f.DaysActive),
		float64(f.MaxInactiveDays),
		f.GasEfficiencyScore,
		f.GasOptimizationScore,
		f.ActionDiversityScore,
		f.BotLikeRegularity,
		float64(f.UniqueGasPrices),
		f.TransactionComplexityScore,
	}
}

// FeaturesFromVector reconstructs a WalletFeatures from a canonical-order
// vector, inverting Vector.
func FeaturesFromVector(wallet string, v []float64) (*WalletFeatures, error) {
	if len(v) != len(featureNames) {
		return nil, fmt.Errorf("feature vector has %d values, want %d", len(v), len(featureNames))
	}
	return &WalletFeatures{
		WalletAddress:              wallet,
		TotalTransactions:          int(v[0]),
		TotalVolume:                v[1],
		AvgTransactionSize:         v[2],
		MedianTransactionSize:      v[3],
		MaxTransactionSize:         v[4],
		MinTransactionSize:         v[5],
		TransactionStd:             v[6],
		UniqueAssets:               int(v[7]),
		TotalGasUsed:               int64(v[8]),
		AvgGasPerTx:                v[9],
		DepositCount:               int(v[10]),
		BorrowCount:                int(v[11]),
		RepayCount:                 int(v[12]),
		RedeemCount:                int(v[13]),
		LiquidationCount:           int(v[14]),
		DepositVolume:              v[15],
		BorrowVolume:               v[16],
		RepayVolume:                v[17],
		RedeemVolume:               v[18],
		NetDepositVolume:           v[19],
		LeverageRatio:              v[20],
		RepayRatio:                 v[21],
		AssetConcentrationHHI:      v[22],
		AvgPositionSize:            v[23],
		LiquidationFrequency:       v[24],
		LiquidationVolumeRatio:     v[25],
		HasLiquidations:            v[26] != 0,
		RepayConsistencyScore:      v[27],
		PositionSizeVariance:       v[28],
		MaxSinglePositionRatio:     v[29],
		TenureDays:                 int(v[30]),
		ActivityFrequency:          v[31],
		ActivityConsistencyCV:      v[32],
		AvgTimeBetweenTxHours:      v[33],
		MedianTimeBetweenTxHours:   v[34],
		WeekendActivityRatio:       v[35],
		DaysActive:                 int(v[36]),
		MaxInactiveDays:            int(v[37]),
		GasEfficiencyScore:         v[38],
		GasOptimizationScore:       v[39],
		ActionDiversityScore:       v[40],
		BotLikeRegularity:          v[41],
		UniqueGasPrices:            int(v[42]),
		TransactionComplexityScore: v[43],
	}, nil
}
