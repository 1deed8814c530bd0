package domain

// Transaction represents a single lending-protocol transaction for a wallet.
// Corresponds to the transactions table in PostgreSQL.
type Transaction struct {
	ID            int64   // BIGSERIAL primary key
	WalletAddress string  // lowercased wallet identifier
	TxHash        string  // protocol transaction hash
	Action        string  // one of the Action* constants
	Asset         string  // asset symbol, "UNKNOWN" if absent
	Amount        float64 // decimal-adjusted protocol units
	USDValue      float64 // amount * asset price, 0 if price unavailable
	GasUsed       int64   // observed or estimated gas for the action
	Timestamp     int64   // Unix timestamp in milliseconds, 0 if absent
	BlockNumber   int64   // chain block number
	CreatedAt     int64   // record creation timestamp (ms)
}

// Action vocabulary for lending-protocol transactions.
const (
	ActionDeposit     = "deposit"
	ActionBorrow      = "borrow"
	ActionRepay       = "repay"
	ActionRedeem      = "redeemunderlying"
	ActionLiquidation = "liquidationcall"
	ActionWithdraw    = "withdraw"
	ActionFlashloan   = "flashloan"
	ActionUnknown     = "unknown"
)

// CoreActionCount is the size of the core action vocabulary used for
// diversity normalization (deposit, borrow, repay, redeem, liquidation).
const CoreActionCount = 5

// gasEstimates maps action types to heuristic gas usage when gas was not
// directly observed on-chain.
var gasEstimates = map[string]int64{
	ActionDeposit:     150000,
	ActionBorrow:      180000,
	ActionRepay:       160000,
	ActionRedeem:      170000,
	ActionLiquidation: 220000,
	ActionWithdraw:    170000,
	ActionFlashloan:   200000,
}

// defaultGasEstimate is used for actions outside the known vocabulary.
const defaultGasEstimate = 150000

// EstimateGas returns the heuristic gas usage for an action type.
func EstimateGas(action string) int64 {
	if gas, ok := gasEstimates[action]; ok {
		return gas
	}
	return defaultGasEstimate
}
