package reporting

import (
	"math"
	"sort"

	"defi-credit-lab/internal/domain"
)

// Report is the full analysis of one scoring run.
type Report struct {
	GeneratedAt int64 // ms
	RunVersion  string

	TotalWallets int
	MeanScore    float64
	MedianScore  float64
	StdScore     float64
	Percentiles  map[string]float64 // "10th", "25th", "75th", "90th"

	// Distribution holds wallet counts per 100-point score range,
	// ordered low to high.
	Distribution []RangeCount

	CategoryCounts map[string]int

	LowSegment  *SegmentAnalysis // credit score < 400
	HighSegment *SegmentAnalysis // credit score >= 700
}

// RangeCount pairs a score range label with its wallet count.
type RangeCount struct {
	Label string // e.g. "300-399"
	Count int
}

// SegmentAnalysis describes the behavioral profile of a score segment.
type SegmentAnalysis struct {
	Count               int
	Percentage          float64
	AvgScore            float64
	AvgLiquidations     float64
	AvgRepayConsistency float64
	AvgTransactions     float64
	AvgVolume           float64
	AvgTenureDays       float64
	Factors             []string
}

const (
	lowScoreThreshold  = 400.0
	highScoreThreshold = 700.0
)

// BuildReport assembles the analysis for one run's scores and features.
func BuildReport(scores []*domain.ScoreRecord, features []*domain.WalletFeatures, runVersion string, generatedAt int64) *Report {
	r := &Report{
		GeneratedAt:    generatedAt,
		RunVersion:     runVersion,
		TotalWallets:   len(scores),
		Percentiles:    make(map[string]float64),
		CategoryCounts: make(map[string]int),
	}
	if len(scores) == 0 {
		return r
	}

	values := make([]float64, len(scores))
	for i, s := range scores {
		values[i] = s.CreditScore
		r.CategoryCounts[s.ScoreCategory]++
	}

	r.MeanScore = meanOf(values)
	r.StdScore = stddevOf(values)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	r.MedianScore = percentileOf(sorted, 0.50)
	r.Percentiles["10th"] = percentileOf(sorted, 0.10)
	r.Percentiles["25th"] = percentileOf(sorted, 0.25)
	r.Percentiles["75th"] = percentileOf(sorted, 0.75)
	r.Percentiles["90th"] = percentileOf(sorted, 0.90)

	r.Distribution = scoreDistribution(values)

	byWallet := make(map[string]*domain.WalletFeatures, len(features))
	for _, f := range features {
		byWallet[f.WalletAddress] = f
	}
	r.LowSegment = analyzeSegment(scores, byWallet, func(s float64) bool { return s < lowScoreThreshold }, riskFactors)
	r.HighSegment = analyzeSegment(scores, byWallet, func(s float64) bool { return s >= highScoreThreshold }, successFactors)

	return r
}

// scoreDistribution buckets scores into 100-point ranges over [0, 1000].
func scoreDistribution(values []float64) []RangeCount {
	labels := []string{
		"0-99", "100-199", "200-299", "300-399", "400-499",
		"500-599", "600-699", "700-799", "800-899", "900-1000",
	}
	counts := make([]int, len(labels))
	for _, v := range values {
		bucket := int(v / 100)
		if bucket >= len(labels) {
			bucket = len(labels) - 1
		}
		counts[bucket]++
	}

	out := make([]RangeCount, len(labels))
	for i, label := range labels {
		out[i] = RangeCount{Label: label, Count: counts[i]}
	}
	return out
}

// analyzeSegment profiles the wallets matching the score predicate.
// Returns nil when the segment is empty.
func analyzeSegment(scores []*domain.ScoreRecord, byWallet map[string]*domain.WalletFeatures, match func(float64) bool, factorsFn func(*SegmentAnalysis) []string) *SegmentAnalysis {
	seg := &SegmentAnalysis{}
	var scoreSum float64

	for _, s := range scores {
		if !match(s.CreditScore) {
			continue
		}
		seg.Count++
		scoreSum += s.CreditScore

		if f, ok := byWallet[s.WalletAddress]; ok {
			seg.AvgLiquidations += float64(f.LiquidationCount)
			seg.AvgRepayConsistency += f.RepayConsistencyScore
			seg.AvgTransactions += float64(f.TotalTransactions)
			seg.AvgVolume += f.TotalVolume
			seg.AvgTenureDays += float64(f.TenureDays)
		}
	}

	if seg.Count == 0 {
		return nil
	}

	n := float64(seg.Count)
	seg.Percentage = n / float64(len(scores)) * 100
	seg.AvgScore = scoreSum / n
	seg.AvgLiquidations /= n
	seg.AvgRepayConsistency /= n
	seg.AvgTransactions /= n
	seg.AvgVolume /= n
	seg.AvgTenureDays /= n
	seg.Factors = factorsFn(seg)

	return seg
}

// riskFactors names the common traits of a low-scoring segment.
func riskFactors(seg *SegmentAnalysis) []string {
	var factors []string
	if seg.AvgLiquidations > 0.5 {
		factors = append(factors, "High liquidation frequency")
	}
	if seg.AvgRepayConsistency < 0.8 {
		factors = append(factors, "Poor repayment consistency")
	}
	if seg.AvgTransactions < 5 {
		factors = append(factors, "Limited transaction history")
	}
	if seg.AvgTenureDays < 30 {
		factors = append(factors, "Short protocol tenure")
	}
	return factors
}

// successFactors names the common traits of a high-scoring segment.
func successFactors(seg *SegmentAnalysis) []string {
	var factors []string
	if seg.AvgLiquidations < 0.1 {
		factors = append(factors, "Excellent liquidation avoidance")
	}
	if seg.AvgRepayConsistency > 0.9 {
		factors = append(factors, "Consistent repayment behavior")
	}
	if seg.AvgTransactions > 20 {
		factors = append(factors, "Extensive transaction history")
	}
	if seg.AvgTenureDays > 180 {
		factors = append(factors, "Long-term protocol engagement")
	}
	if seg.AvgVolume > 10000 {
		factors = append(factors, "High transaction volumes")
	}
	return factors
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddevOf(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	m := meanOf(values)
	sumSq := 0.0
	for _, v := range values {
		diff := v - m
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// percentileOf uses linear interpolation. sorted must be pre-sorted ASC.
func percentileOf(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
