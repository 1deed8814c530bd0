package domain

// ScoreRecord holds the scoring output for a single wallet. One record per
// wallet per run; runs never merge.
// Corresponds to the wallet_scores table in PostgreSQL.
type ScoreRecord struct {
	WalletAddress     string
	BaseScore         float64 // weighted score centered at 500, unbounded
	RiskAdjustedScore float64 // base score after anomaly/cluster multipliers
	CreditScore       float64 // final bounded score in [0, 1000]
	ScoreCategory     string
	CreatedAt         int64 // record creation timestamp (ms)
}

// Score category labels. Bands are contiguous and exhaustive over [0, 1000].
const (
	CategoryExcellent = "Excellent (900-1000)"
	CategoryGood      = "Good (700-899)"
	CategoryFair      = "Fair (500-699)"
	CategoryPoor      = "Poor (300-499)"
	CategoryVeryPoor  = "Very Poor (0-299)"
)

// CategorizeScore maps a credit score to its category band.
func CategorizeScore(score float64) string {
	switch {
	case score >= 900:
		return CategoryExcellent
	case score >= 700:
		return CategoryGood
	case score >= 500:
		return CategoryFair
	case score >= 300:
		return CategoryPoor
	default:
		return CategoryVeryPoor
	}
}
