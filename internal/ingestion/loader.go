// Package ingestion loads lending-protocol transaction exports and
// transforms them into domain transactions.
package ingestion

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"defi-credit-lab/internal/domain"
)

// amountShift converts raw integer token amounts to protocol units.
const amountShift = -6

// rawTransaction mirrors the export JSON layout.
type rawTransaction struct {
	UserWallet  string  `json:"userWallet"`
	TxHash      string  `json:"txHash"`
	Action      string  `json:"action"`
	Timestamp   int64   `json:"timestamp"` // Unix seconds
	BlockNumber int64   `json:"blockNumber"`
	ActionData  rawData `json:"actionData"`
}

type rawData struct {
	Amount        string `json:"amount"`
	AssetSymbol   string `json:"assetSymbol"`
	AssetPriceUSD string `json:"assetPriceUSD"`
}

// Loader transforms raw transaction exports. Skipped counts how many records
// were dropped for missing a wallet address.
type Loader struct {
	Verbose bool

	Skipped int
}

// LoadFile reads a JSON export and transforms every record. Records without
// a wallet address are skipped with a warning; a file that yields zero
// transactions is the caller's problem to reject.
func (l *Loader) LoadFile(path string) ([]*domain.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}

	var raw []rawTransaction
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse input file: %w", err)
	}

	if l.Verbose {
		log.Printf("[ingestion] loaded %d raw transactions from %s", len(raw), path)
	}

	now := time.Now().UnixMilli()
	txs := make([]*domain.Transaction, 0, len(raw))
	for i, r := range raw {
		tx := l.transform(&r, now)
		if tx == nil {
			log.Printf("[ingestion] skipping record %d: missing wallet address", i)
			l.Skipped++
			continue
		}
		txs = append(txs, tx)
	}

	if l.Verbose {
		log.Printf("[ingestion] transformed %d transactions (%d skipped)", len(txs), l.Skipped)
	}

	return txs, nil
}

// transform converts one raw record. Returns nil when the record has no
// wallet address. Unparsable amounts degrade to 0 rather than dropping the
// transaction.
func (l *Loader) transform(r *rawTransaction, createdAt int64) *domain.Transaction {
	wallet := strings.ToLower(strings.TrimSpace(r.UserWallet))
	if wallet == "" {
		return nil
	}

	action := strings.ToLower(r.Action)
	if action == "" {
		action = domain.ActionUnknown
	}

	asset := r.ActionData.AssetSymbol
	if asset == "" {
		asset = "UNKNOWN"
	}

	amount := parseAmount(r.ActionData.Amount)
	usdValue := 0.0
	if price, err := decimal.NewFromString(r.ActionData.AssetPriceUSD); err == nil {
		usdValue, _ = amount.Mul(price).Float64()
	}

	var timestampMs int64
	if r.Timestamp > 0 {
		timestampMs = r.Timestamp * 1000
	}

	amountF, _ := amount.Float64()
	return &domain.Transaction{
		WalletAddress: wallet,
		TxHash:        r.TxHash,
		Action:        action,
		Asset:         asset,
		Amount:        amountF,
		USDValue:      usdValue,
		GasUsed:       domain.EstimateGas(action),
		Timestamp:     timestampMs,
		BlockNumber:   r.BlockNumber,
		CreatedAt:     createdAt,
	}
}

// parseAmount converts the raw integer amount string into protocol units.
// Unparsable amounts become 0.
func parseAmount(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d.Shift(amountShift)
}
