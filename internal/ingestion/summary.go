package ingestion

import (
	"sort"

	"defi-credit-lab/internal/domain"
)

// DataSummary describes a loaded transaction batch before scoring.
type DataSummary struct {
	TotalTransactions int
	UniqueWallets     int
	UniqueAssets      int
	StartTimestamp    int64 // ms, 0 when no transaction carries a timestamp
	EndTimestamp      int64 // ms
	TotalUSDVolume    float64
	AvgTransactionUSD float64
	ActionCounts      map[string]int
	TopAssets         []AssetCount // by transaction count DESC, capped at 10
}

// AssetCount pairs an asset symbol with its transaction count.
type AssetCount struct {
	Asset string
	Count int
}

const topAssetLimit = 10

// Summarize computes batch statistics over loaded transactions.
func Summarize(txs []*domain.Transaction) *DataSummary {
	s := &DataSummary{
		TotalTransactions: len(txs),
		ActionCounts:      make(map[string]int),
	}
	if len(txs) == 0 {
		return s
	}

	wallets := make(map[string]struct{})
	assetCounts := make(map[string]int)

	for _, tx := range txs {
		wallets[tx.WalletAddress] = struct{}{}
		assetCounts[tx.Asset]++
		s.ActionCounts[tx.Action]++
		s.TotalUSDVolume += tx.USDValue

		if tx.Timestamp > 0 {
			if s.StartTimestamp == 0 || tx.Timestamp < s.StartTimestamp {
				s.StartTimestamp = tx.Timestamp
			}
			if tx.Timestamp > s.EndTimestamp {
				s.EndTimestamp = tx.Timestamp
			}
		}
	}

	s.UniqueWallets = len(wallets)
	s.UniqueAssets = len(assetCounts)
	s.AvgTransactionUSD = s.TotalUSDVolume / float64(len(txs))

	s.TopAssets = make([]AssetCount, 0, len(assetCounts))
	for asset, count := range assetCounts {
		s.TopAssets = append(s.TopAssets, AssetCount{Asset: asset, Count: count})
	}
	sort.Slice(s.TopAssets, func(i, j int) bool {
		if s.TopAssets[i].Count != s.TopAssets[j].Count {
			return s.TopAssets[i].Count > s.TopAssets[j].Count
		}
		return s.TopAssets[i].Asset < s.TopAssets[j].Asset
	})
	if len(s.TopAssets) > topAssetLimit {
		s.TopAssets = s.TopAssets[:topAssetLimit]
	}

	return s
}
