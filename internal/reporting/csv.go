// Package reporting renders scoring output as CSV and markdown analysis
// reports.
package reporting

import (
	"fmt"
	"strings"

	"defi-credit-lab/internal/domain"
)

// ScoreRow is one CSV output row: the score record joined with the feature
// columns consumers ask about first.
type ScoreRow struct {
	WalletAddress         string
	CreditScore           float64
	ScoreCategory         string
	BaseScore             float64
	RiskAdjustedScore     float64
	TotalTransactions     int
	TotalVolume           float64
	TenureDays            int
	LiquidationCount      int
	RepayConsistencyScore float64
}

// BuildScoreRows joins score records with their feature vectors. Scores
// without features keep zero feature columns.
func BuildScoreRows(scores []*domain.ScoreRecord, features []*domain.WalletFeatures) []ScoreRow {
	byWallet := make(map[string]*domain.WalletFeatures, len(features))
	for _, f := range features {
		byWallet[f.WalletAddress] = f
	}

	rows := make([]ScoreRow, len(scores))
	for i, r := range scores {
		row := ScoreRow{
			WalletAddress:     r.WalletAddress,
			CreditScore:       r.CreditScore,
			ScoreCategory:     r.ScoreCategory,
			BaseScore:         r.BaseScore,
			RiskAdjustedScore: r.RiskAdjustedScore,
		}
		if f, ok := byWallet[r.WalletAddress]; ok {
			row.TotalTransactions = f.TotalTransactions
			row.TotalVolume = f.TotalVolume
			row.TenureDays = f.TenureDays
			row.LiquidationCount = f.LiquidationCount
			row.RepayConsistencyScore = f.RepayConsistencyScore
		}
		rows[i] = row
	}
	return rows
}

// RenderScoresCSV renders score rows as a CSV string. Categories contain
// parentheses and spaces but no commas or quotes, so plain joining is safe.
func RenderScoresCSV(rows []ScoreRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("wallet_address,credit_score,score_category,base_score,risk_adjusted_score,")
	sb.WriteString("total_transactions,total_volume,tenure_days,liquidation_count,repay_consistency_score\n")

	// Rows
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%.1f,%s,%.2f,%.2f,%d,%.2f,%d,%d,%.4f\n",
			r.WalletAddress,
			r.CreditScore,
			r.ScoreCategory,
			r.BaseScore,
			r.RiskAdjustedScore,
			r.TotalTransactions,
			r.TotalVolume,
			r.TenureDays,
			r.LiquidationCount,
			r.RepayConsistencyScore,
		))
	}

	return sb.String()
}
