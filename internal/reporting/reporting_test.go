package reporting

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"defi-credit-lab/internal/domain"
)

func sampleScores() []*domain.ScoreRecord {
	return []*domain.ScoreRecord{
		{WalletAddress: "0xa", CreditScore: 950, ScoreCategory: domain.CategoryExcellent, BaseScore: 820, RiskAdjustedScore: 900},
		{WalletAddress: "0xb", CreditScore: 720, ScoreCategory: domain.CategoryGood, BaseScore: 640, RiskAdjustedScore: 700},
		{WalletAddress: "0xc", CreditScore: 510, ScoreCategory: domain.CategoryFair, BaseScore: 520, RiskAdjustedScore: 510},
		{WalletAddress: "0xd", CreditScore: 150, ScoreCategory: domain.CategoryVeryPoor, BaseScore: 180, RiskAdjustedScore: 140},
	}
}

func sampleFeatures() []*domain.WalletFeatures {
	return []*domain.WalletFeatures{
		{WalletAddress: "0xa", TotalTransactions: 120, TotalVolume: 50000, TenureDays: 400, RepayConsistencyScore: 1.0},
		{WalletAddress: "0xb", TotalTransactions: 40, TotalVolume: 9000, TenureDays: 200, RepayConsistencyScore: 0.95},
		{WalletAddress: "0xc", TotalTransactions: 10, TotalVolume: 800, TenureDays: 90, RepayConsistencyScore: 0.6},
		{WalletAddress: "0xd", TotalTransactions: 3, TotalVolume: 100, TenureDays: 10, LiquidationCount: 2, RepayConsistencyScore: 0.0},
	}
}

func TestBuildScoreRows(t *testing.T) {
	rows := BuildScoreRows(sampleScores(), sampleFeatures())
	require.Len(t, rows, 4)

	require.Equal(t, "0xa", rows[0].WalletAddress)
	require.Equal(t, 950.0, rows[0].CreditScore)
	require.Equal(t, 120, rows[0].TotalTransactions)
	require.Equal(t, 400, rows[0].TenureDays)
	require.Equal(t, 2, rows[3].LiquidationCount)
}

func TestBuildScoreRowsMissingFeatures(t *testing.T) {
	rows := BuildScoreRows(sampleScores(), nil)
	require.Len(t, rows, 4)
	require.Zero(t, rows[0].TotalTransactions)
	require.Equal(t, 950.0, rows[0].CreditScore)
}

func TestRenderScoresCSV(t *testing.T) {
	csv := RenderScoresCSV(BuildScoreRows(sampleScores(), sampleFeatures()))

	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
	require.Len(t, lines, 5)
	require.Equal(t,
		"wallet_address,credit_score,score_category,base_score,risk_adjusted_score,"+
			"total_transactions,total_volume,tenure_days,liquidation_count,repay_consistency_score",
		lines[0])
	require.True(t, strings.HasPrefix(lines[1], "0xa,950.0,Excellent (900-1000),820.00,900.00,120,50000.00,400,"))
}

func TestBuildReport(t *testing.T) {
	r := BuildReport(sampleScores(), sampleFeatures(), "abc123def456", 1700000000000)

	require.Equal(t, 4, r.TotalWallets)
	require.Equal(t, "abc123def456", r.RunVersion)
	require.InDelta(t, (950+720+510+150)/4.0, r.MeanScore, 1e-9)
	require.InDelta(t, 615, r.MedianScore, 1e-9)
	require.Equal(t, 1, r.CategoryCounts[domain.CategoryExcellent])
	require.Equal(t, 1, r.CategoryCounts[domain.CategoryVeryPoor])

	// Distribution buckets: 150 -> 100-199, 510 -> 500-599, 720 -> 700-799, 950 -> 900-1000.
	byLabel := make(map[string]int)
	for _, rc := range r.Distribution {
		byLabel[rc.Label] = rc.Count
	}
	require.Equal(t, 1, byLabel["100-199"])
	require.Equal(t, 1, byLabel["500-599"])
	require.Equal(t, 1, byLabel["700-799"])
	require.Equal(t, 1, byLabel["900-1000"])
	require.Equal(t, 0, byLabel["0-99"])

	require.NotNil(t, r.LowSegment)
	require.Equal(t, 1, r.LowSegment.Count)
	require.InDelta(t, 25, r.LowSegment.Percentage, 1e-9)
	require.InDelta(t, 2, r.LowSegment.AvgLiquidations, 1e-9)
	require.Contains(t, r.LowSegment.Factors, "High liquidation frequency")
	require.Contains(t, r.LowSegment.Factors, "Limited transaction history")

	require.NotNil(t, r.HighSegment)
	require.Equal(t, 2, r.HighSegment.Count)
	require.Contains(t, r.HighSegment.Factors, "Consistent repayment behavior")
	require.Contains(t, r.HighSegment.Factors, "Long-term protocol engagement")
	require.Contains(t, r.HighSegment.Factors, "High transaction volumes")
}

func TestBuildReportEmpty(t *testing.T) {
	r := BuildReport(nil, nil, "", 0)
	require.Equal(t, 0, r.TotalWallets)
	require.Nil(t, r.LowSegment)
	require.Nil(t, r.HighSegment)
}

func TestRenderMarkdown(t *testing.T) {
	r := BuildReport(sampleScores(), sampleFeatures(), "abc123def456", 1700000000000)
	md := RenderMarkdown(r)

	require.True(t, strings.HasPrefix(md, "# DeFi Credit Score Analysis\n"))
	require.Contains(t, md, "Run version: `abc123def456`")
	require.Contains(t, md, "## Score Distribution Overview")
	require.Contains(t, md, "| 900-1000 | 1 |")
	require.Contains(t, md, "## Low-Scoring Wallet Analysis (Score < 400)")
	require.Contains(t, md, "## High-Scoring Wallet Analysis (Score >= 700)")
	require.Contains(t, md, "- High liquidation frequency")
}

func TestRenderMarkdownEmptySegments(t *testing.T) {
	scores := []*domain.ScoreRecord{
		{WalletAddress: "0xa", CreditScore: 500, ScoreCategory: domain.CategoryFair},
	}
	md := RenderMarkdown(BuildReport(scores, nil, "", 1700000000000))
	require.Contains(t, md, "No wallets in this segment.")
}
