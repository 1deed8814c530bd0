// Package features derives per-wallet behavioral feature vectors from
// lending-protocol transaction histories.
package features

import (
	"context"
	"math"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"defi-credit-lab/internal/domain"
)

const msPerDay = int64(24 * 60 * 60 * 1000)

// Extract computes one feature vector per distinct wallet address.
// Wallets are processed in parallel; the result is ordered by wallet address
// ascending so downstream population-level fitting is deterministic.
func Extract(ctx context.Context, txs []*domain.Transaction) ([]*domain.WalletFeatures, error) {
	byWallet := make(map[string][]*domain.Transaction)
	for _, tx := range txs {
		byWallet[tx.WalletAddress] = append(byWallet[tx.WalletAddress], tx)
	}

	wallets := make([]string, 0, len(byWallet))
	for w := range byWallet {
		wallets = append(wallets, w)
	}
	sort.Strings(wallets)

	results := make([]*domain.WalletFeatures, len(wallets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, wallet := range wallets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = extractWallet(wallet, byWallet[wallet])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// extractWallet computes the full feature vector for a single wallet.
func extractWallet(wallet string, txs []*domain.Transaction) *domain.WalletFeatures {
	f := &domain.WalletFeatures{WalletAddress: wallet}

	fillBasic(f, txs)
	fillFinancial(f, txs)
	fillRisk(f, txs)
	fillTemporal(f, txs)
	fillNetwork(f, txs)

	return f
}

// fillBasic computes transaction size and gas statistics.
func fillBasic(f *domain.WalletFeatures, txs []*domain.Transaction) {
	amounts := make([]float64, len(txs))
	gas := make([]float64, len(txs))
	assets := make(map[string]struct{})
	maxAmount := math.Inf(-1)
	minAmount := math.Inf(1)

	for i, tx := range txs {
		amounts[i] = tx.Amount
		gas[i] = float64(tx.GasUsed)
		assets[tx.Asset] = struct{}{}
		f.TotalVolume += tx.Amount
		f.TotalGasUsed += tx.GasUsed
		if tx.Amount > maxAmount {
			maxAmount = tx.Amount
		}
		if tx.Amount < minAmount {
			minAmount = tx.Amount
		}
	}

	f.TotalTransactions = len(txs)
	f.AvgTransactionSize = mean(amounts)
	f.MedianTransactionSize = median(amounts)
	f.MaxTransactionSize = finite(maxAmount)
	f.MinTransactionSize = finite(minAmount)
	f.TransactionStd = stddev(amounts)
	f.UniqueAssets = len(assets)
	f.AvgGasPerTx = mean(gas)
}

// fillFinancial computes per-action counts/volumes and concentration ratios.
func fillFinancial(f *domain.WalletFeatures, txs []*domain.Transaction) {
	assetVolumes := make(map[string]float64)

	for _, tx := range txs {
		assetVolumes[tx.Asset] += tx.Amount

		switch tx.Action {
		case domain.ActionDeposit:
			f.DepositCount++
			f.DepositVolume += tx.Amount
		case domain.ActionBorrow:
			f.BorrowCount++
			f.BorrowVolume += tx.Amount
		case domain.ActionRepay:
			f.RepayCount++
			f.RepayVolume += tx.Amount
		case domain.ActionRedeem:
			f.RedeemCount++
			f.RedeemVolume += tx.Amount
		case domain.ActionLiquidation:
			f.LiquidationCount++
		}
	}

	f.NetDepositVolume = f.DepositVolume - f.RedeemVolume
	if f.DepositVolume > 0 {
		f.LeverageRatio = f.BorrowVolume / f.DepositVolume
	}
	if f.BorrowVolume > 0 {
		f.RepayRatio = f.RepayVolume / f.BorrowVolume
	}
	f.AssetConcentrationHHI = assetConcentration(assetVolumes)

	positions := assetPositionSizes(assetVolumes)
	f.AvgPositionSize = mean(positions)
}

// fillRisk computes liquidation exposure and repayment discipline indicators.
func fillRisk(f *domain.WalletFeatures, txs []*domain.Transaction) {
	var liquidationVolume float64
	for _, tx := range txs {
		if tx.Action == domain.ActionLiquidation {
			liquidationVolume += tx.Amount
		}
	}

	if len(txs) > 0 {
		f.LiquidationFrequency = float64(f.LiquidationCount) / float64(len(txs))
	}
	if f.TotalVolume > 0 {
		f.LiquidationVolumeRatio = liquidationVolume / f.TotalVolume
	}
	f.HasLiquidations = f.LiquidationCount > 0
	f.RepayConsistencyScore = repayConsistency(f)

	assetVolumes := make(map[string]float64)
	for _, tx := range txs {
		assetVolumes[tx.Asset] += tx.Amount
	}
	positions := assetPositionSizes(assetVolumes)
	f.PositionSizeVariance = variance(positions)

	if f.TotalVolume > 0 {
		maxPosition := 0.0
		for _, v := range positions {
			if v > maxPosition {
				maxPosition = v
			}
		}
		f.MaxSinglePositionRatio = maxPosition / f.TotalVolume
	}
}

// repayConsistency scores repayment discipline:
// 1.0 when the wallet never borrowed (no obligation), 0.0 when it borrowed
// but never repaid, otherwise min(1, repay volume / borrow volume).
func repayConsistency(f *domain.WalletFeatures) float64 {
	if f.BorrowCount == 0 {
		return 1.0
	}
	if f.RepayCount == 0 {
		return 0.0
	}
	if f.BorrowVolume <= 0 {
		return 1.0
	}
	return math.Min(1.0, f.RepayVolume/f.BorrowVolume)
}

// fillTemporal computes tenure, activity cadence and inactivity streaks.
// Transactions without a timestamp contribute to counts but not to any
// time-based statistic.
func fillTemporal(f *domain.WalletFeatures, txs []*domain.Transaction) {
	timestamps := sortedTimestamps(txs)

	if len(timestamps) >= 2 {
		f.TenureDays = int((timestamps[len(timestamps)-1] - timestamps[0]) / msPerDay)
	}

	tenure := f.TenureDays
	if tenure < 1 {
		tenure = 1
	}
	f.ActivityFrequency = float64(len(txs)) / float64(tenure)

	dayCounts := make(map[int64]int)
	weekendTxs := 0
	for _, ts := range timestamps {
		dayCounts[ts/msPerDay]++
		wd := time.UnixMilli(ts).UTC().Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			weekendTxs++
		}
	}

	counts := make([]float64, 0, len(dayCounts))
	for _, c := range dayCounts {
		counts = append(counts, float64(c))
	}
	f.ActivityConsistencyCV = coefficientOfVariation(counts)
	f.DaysActive = len(dayCounts)
	if len(txs) > 0 {
		f.WeekendActivityRatio = float64(weekendTxs) / float64(len(txs))
	}

	gaps := interTxGapsSeconds(timestamps)
	if len(gaps) > 0 {
		f.AvgTimeBetweenTxHours = mean(gaps) / 3600
		f.MedianTimeBetweenTxHours = median(gaps) / 3600
	}

	f.MaxInactiveDays = maxInactivePeriod(dayCounts)
}

// maxInactivePeriod returns the longest cumulative inactivity streak in days.
// Walking consecutive active dates, day gaps accumulate into a running streak
// which resets to zero whenever two active dates are adjacent; the result is
// the maximum streak observed, not the largest single gap.
func maxInactivePeriod(dayCounts map[int64]int) int {
	if len(dayCounts) <= 1 {
		return 0
	}

	days := make([]int64, 0, len(dayCounts))
	for d := range dayCounts {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	maxGap := 0
	currentGap := 0
	for i := 1; i < len(days); i++ {
		gapDays := int(days[i]-days[i-1]) - 1
		if gapDays > 0 {
			currentGap += gapDays
			if currentGap > maxGap {
				maxGap = currentGap
			}
		} else {
			currentGap = 0
		}
	}

	return maxGap
}

// fillNetwork computes gas efficiency and automation indicators.
func fillNetwork(f *domain.WalletFeatures, txs []*domain.Transaction) {
	if f.TotalGasUsed > 0 {
		efficiencies := make([]float64, 0, len(txs))
		for _, tx := range txs {
			if tx.GasUsed > 0 {
				efficiencies = append(efficiencies, tx.Amount/float64(tx.GasUsed))
			} else {
				efficiencies = append(efficiencies, 0)
			}
		}
		f.GasEfficiencyScore = mean(efficiencies)
	}

	f.GasOptimizationScore = gasOptimization(f, txs)

	actions := make(map[string]struct{})
	gasValues := make(map[int64]struct{})
	for _, tx := range txs {
		actions[tx.Action] = struct{}{}
		gasValues[tx.GasUsed] = struct{}{}
	}
	f.ActionDiversityScore = float64(len(actions)) / float64(domain.CoreActionCount)
	f.UniqueGasPrices = len(gasValues)

	f.BotLikeRegularity = botRegularity(txs)
	f.TransactionComplexityScore = complexityScore(f, txs)
}

// gasOptimization scores gas usage consistency: max(0, 1 - CV of gas used),
// defaulting to 0.5 when no gas was recorded at all.
func gasOptimization(f *domain.WalletFeatures, txs []*domain.Transaction) float64 {
	if f.TotalGasUsed == 0 {
		return 0.5
	}

	gas := make([]float64, len(txs))
	for i, tx := range txs {
		gas[i] = float64(tx.GasUsed)
	}

	gasCV := 1.0
	if m := mean(gas); m > 0 {
		gasCV = stddev(gas) / m
	}
	return math.Max(0, 1-gasCV)
}

// botRegularity scores how machine-like the transaction spacing is.
// Requires at least 3 transactions; low variance in inter-transaction gaps
// (CV near 0) scores near 1.
func botRegularity(txs []*domain.Transaction) float64 {
	if len(txs) < 3 {
		return 0
	}

	gaps := interTxGapsSeconds(sortedTimestamps(txs))
	if len(gaps) == 0 {
		return 0
	}

	gapCV := 1.0
	if m := mean(gaps); m > 0 {
		gapCV = stddev(gaps) / m
	}
	return math.Max(0, 1-gapCV*2)
}

// complexityScore averages three normalized variety components:
// action variety, asset variety (1 whenever any asset is present) and
// amount variety (1 - CV of amounts, floored at 0).
func complexityScore(f *domain.WalletFeatures, txs []*domain.Transaction) float64 {
	actionVariety := f.ActionDiversityScore

	assetVariety := 0.0
	if f.UniqueAssets > 0 {
		assetVariety = 1.0
	}

	amountVariety := 0.0
	if f.AvgTransactionSize > 0 {
		amounts := make([]float64, len(txs))
		for i, tx := range txs {
			amounts[i] = tx.Amount
		}
		amountVariety = 1 - stddev(amounts)/f.AvgTransactionSize
	}

	return (actionVariety + assetVariety + math.Max(0, amountVariety)) / 3
}

// assetConcentration computes the Herfindahl-Hirschman Index over per-asset
// volume shares. 1.0 means all volume sits in a single asset.
func assetConcentration(assetVolumes map[string]float64) float64 {
	total := 0.0
	for _, v := range assetVolumes {
		total += v
	}
	if total == 0 {
		return 0
	}

	hhi := 0.0
	for _, v := range assetVolumes {
		share := v / total
		hhi += share * share
	}
	return hhi
}

// assetPositionSizes returns per-asset summed volumes as a slice.
func assetPositionSizes(assetVolumes map[string]float64) []float64 {
	positions := make([]float64, 0, len(assetVolumes))
	for _, v := range assetVolumes {
		positions = append(positions, v)
	}
	return positions
}

// sortedTimestamps returns the non-zero timestamps of txs in ascending order.
func sortedTimestamps(txs []*domain.Transaction) []int64 {
	timestamps := make([]int64, 0, len(txs))
	for _, tx := range txs {
		if tx.Timestamp > 0 {
			timestamps = append(timestamps, tx.Timestamp)
		}
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })
	return timestamps
}

// interTxGapsSeconds returns gaps between consecutive timestamps in seconds.
func interTxGapsSeconds(timestamps []int64) []float64 {
	if len(timestamps) < 2 {
		return nil
	}
	gaps := make([]float64, 0, len(timestamps)-1)
	for i := 1; i < len(timestamps); i++ {
		gaps = append(gaps, float64(timestamps[i]-timestamps[i-1])/1000)
	}
	return gaps
}
