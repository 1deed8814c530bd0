package reporting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"defi-credit-lab/internal/domain"
)

// RenderMarkdown renders the analysis report as a markdown document.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# DeFi Credit Score Analysis\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n",
		time.UnixMilli(r.GeneratedAt).UTC().Format("2006-01-02 15:04:05 UTC")))
	if r.RunVersion != "" {
		sb.WriteString(fmt.Sprintf("Run version: `%s`\n\n", r.RunVersion))
	}

	sb.WriteString("## Executive Summary\n\n")
	sb.WriteString(fmt.Sprintf(
		"This analysis covers %d scored wallets. Scores range across [0, 1000] with a mean of %.1f and a median of %.1f.\n\n",
		r.TotalWallets, r.MeanScore, r.MedianScore))

	sb.WriteString("## Score Distribution Overview\n\n")
	sb.WriteString("### Key Statistics\n\n")
	sb.WriteString(fmt.Sprintf("- Total wallets: %d\n", r.TotalWallets))
	sb.WriteString(fmt.Sprintf("- Mean score: %.1f\n", r.MeanScore))
	sb.WriteString(fmt.Sprintf("- Median score: %.1f\n", r.MedianScore))
	sb.WriteString(fmt.Sprintf("- Standard deviation: %.1f\n\n", r.StdScore))

	sb.WriteString("### Percentile Breakdown\n\n")
	for _, p := range []string{"10th", "25th", "75th", "90th"} {
		sb.WriteString(fmt.Sprintf("- %s percentile: %.1f\n", p, r.Percentiles[p]))
	}
	sb.WriteString("\n")

	sb.WriteString("### Score Range Distribution\n\n")
	sb.WriteString("| Range | Wallets |\n|-------|--------|\n")
	for _, rc := range r.Distribution {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", rc.Label, rc.Count))
	}
	sb.WriteString("\n")

	sb.WriteString("### Category Breakdown\n\n")
	for _, category := range []string{
		domain.CategoryExcellent, domain.CategoryGood, domain.CategoryFair,
		domain.CategoryPoor, domain.CategoryVeryPoor,
	} {
		if count, ok := r.CategoryCounts[category]; ok {
			sb.WriteString(fmt.Sprintf("- %s: %d\n", category, count))
		}
	}
	sb.WriteString("\n")

	writeSegment(&sb, "Low-Scoring Wallet Analysis (Score < 400)", r.LowSegment, "Common Risk Factors")
	writeSegment(&sb, "High-Scoring Wallet Analysis (Score >= 700)", r.HighSegment, "Success Factors")

	sb.WriteString("## Methodology\n\n")
	sb.WriteString("Scores combine a weighted behavioral base score (centered at 500) with ")
	sb.WriteString("anomaly and cluster risk multipliers, then rescale onto [0, 1000] with ")
	sb.WriteString("percentile clipping. Scoring is population-relative: a wallet's score ")
	sb.WriteString("depends on the cohort it is scored with.\n")

	return sb.String()
}

func writeSegment(sb *strings.Builder, title string, seg *SegmentAnalysis, factorTitle string) {
	sb.WriteString("## " + title + "\n\n")
	if seg == nil {
		sb.WriteString("No wallets in this segment.\n\n")
		return
	}

	sb.WriteString("### Overview\n\n")
	sb.WriteString(fmt.Sprintf("- Wallets: %d (%.1f%% of population)\n", seg.Count, seg.Percentage))
	sb.WriteString(fmt.Sprintf("- Average score: %.1f\n\n", seg.AvgScore))

	sb.WriteString("### Behavioral Characteristics\n\n")
	sb.WriteString(fmt.Sprintf("- Average liquidations: %.2f\n", seg.AvgLiquidations))
	sb.WriteString(fmt.Sprintf("- Average repay consistency: %.2f\n", seg.AvgRepayConsistency))
	sb.WriteString(fmt.Sprintf("- Average transactions: %.1f\n", seg.AvgTransactions))
	sb.WriteString(fmt.Sprintf("- Average volume: %.2f\n", seg.AvgVolume))
	sb.WriteString(fmt.Sprintf("- Average tenure: %.1f days\n\n", seg.AvgTenureDays))

	if len(seg.Factors) > 0 {
		sb.WriteString("### " + factorTitle + "\n\n")
		factors := make([]string, len(seg.Factors))
		copy(factors, seg.Factors)
		sort.Strings(factors)
		for _, f := range factors {
			sb.WriteString("- " + f + "\n")
		}
		sb.WriteString("\n")
	}
}
