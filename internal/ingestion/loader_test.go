package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"defi-credit-lab/internal/domain"
)

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFileTransforms(t *testing.T) {
	path := writeInput(t, `[
		{
			"userWallet": "0xABCdef",
			"txHash": "0xhash1",
			"action": "Deposit",
			"timestamp": 1700000000,
			"blockNumber": 18000000,
			"actionData": {
				"amount": "2500000000",
				"assetSymbol": "USDC",
				"assetPriceUSD": "0.9998"
			}
		}
	]`)

	l := &Loader{}
	txs, err := l.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, txs, 1)

	tx := txs[0]
	require.Equal(t, "0xabcdef", tx.WalletAddress, "wallet must be lowercased")
	require.Equal(t, "0xhash1", tx.TxHash)
	require.Equal(t, domain.ActionDeposit, tx.Action, "action must be lowercased")
	require.Equal(t, "USDC", tx.Asset)
	require.InDelta(t, 2500, tx.Amount, 1e-9)
	require.InDelta(t, 2500*0.9998, tx.USDValue, 1e-9)
	require.Equal(t, int64(150000), tx.GasUsed)
	require.Equal(t, int64(1700000000000), tx.Timestamp, "seconds become milliseconds")
	require.Equal(t, int64(18000000), tx.BlockNumber)
	require.NotZero(t, tx.CreatedAt)
}

func TestLoadFileSkipsMissingWallet(t *testing.T) {
	path := writeInput(t, `[
		{"userWallet": "", "action": "deposit", "actionData": {"amount": "1000000"}},
		{"userWallet": "0xaaa", "action": "borrow", "actionData": {"amount": "1000000"}}
	]`)

	l := &Loader{}
	txs, err := l.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, 1, l.Skipped)
	require.Equal(t, "0xaaa", txs[0].WalletAddress)
}

func TestLoadFileDegradedFields(t *testing.T) {
	path := writeInput(t, `[
		{
			"userWallet": "0xaaa",
			"action": "",
			"actionData": {"amount": "not-a-number", "assetSymbol": "", "assetPriceUSD": ""}
		}
	]`)

	l := &Loader{}
	txs, err := l.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, txs, 1)

	tx := txs[0]
	require.Equal(t, domain.ActionUnknown, tx.Action)
	require.Equal(t, "UNKNOWN", tx.Asset)
	require.Zero(t, tx.Amount, "unparsable amount degrades to 0, record kept")
	require.Zero(t, tx.USDValue)
	require.Zero(t, tx.Timestamp)
	require.Equal(t, int64(150000), tx.GasUsed, "unknown actions get the default estimate")
}

func TestLoadFileErrors(t *testing.T) {
	l := &Loader{}

	_, err := l.LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	path := writeInput(t, `{not json`)
	_, err = l.LoadFile(path)
	require.Error(t, err)
}

func TestSummarize(t *testing.T) {
	txs := []*domain.Transaction{
		{WalletAddress: "0xa", Asset: "USDC", Action: domain.ActionDeposit, USDValue: 100, Timestamp: 2000},
		{WalletAddress: "0xa", Asset: "USDC", Action: domain.ActionBorrow, USDValue: 50, Timestamp: 1000},
		{WalletAddress: "0xb", Asset: "DAI", Action: domain.ActionDeposit, USDValue: 30, Timestamp: 3000},
	}

	s := Summarize(txs)
	require.Equal(t, 3, s.TotalTransactions)
	require.Equal(t, 2, s.UniqueWallets)
	require.Equal(t, 2, s.UniqueAssets)
	require.Equal(t, int64(1000), s.StartTimestamp)
	require.Equal(t, int64(3000), s.EndTimestamp)
	require.InDelta(t, 180, s.TotalUSDVolume, 1e-9)
	require.InDelta(t, 60, s.AvgTransactionUSD, 1e-9)
	require.Equal(t, 2, s.ActionCounts[domain.ActionDeposit])
	require.Equal(t, 1, s.ActionCounts[domain.ActionBorrow])
	require.Equal(t, AssetCount{Asset: "USDC", Count: 2}, s.TopAssets[0])
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	require.Equal(t, 0, s.TotalTransactions)
	require.Zero(t, s.TotalUSDVolume)
	require.Empty(t, s.TopAssets)
}
