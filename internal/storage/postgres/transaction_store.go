package postgres

import (
	"context"
	"fmt"

	"defi-credit-lab/internal/domain"
	"defi-credit-lab/internal/storage"
)

// TransactionStore implements storage.TransactionStore using PostgreSQL.
type TransactionStore struct {
	pool *Pool
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(pool *Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

const insertTransactionQuery = `
	INSERT INTO transactions (
		wallet_address, tx_hash, action, asset, amount, usd_value,
		gas_used, timestamp, block_number, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

// InsertBulk adds multiple transactions atomically. Fails entire batch on any duplicate.
func (s *TransactionStore) InsertBulk(ctx context.Context, txs []*domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	dbTx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback(ctx)

	for _, tx := range txs {
		if tx == nil || tx.WalletAddress == "" {
			return storage.ErrInvalidInput
		}
		_, err := dbTx.Exec(ctx, insertTransactionQuery,
			tx.WalletAddress,
			tx.TxHash,
			tx.Action,
			tx.Asset,
			tx.Amount,
			tx.USDValue,
			tx.GasUsed,
			tx.Timestamp,
			tx.BlockNumber,
			tx.CreatedAt,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert transaction in bulk: %w", err)
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

const selectTransactionColumns = `
	SELECT id, wallet_address, tx_hash, action, asset, amount, usd_value,
	       gas_used, timestamp, block_number, created_at
	FROM transactions
`

// GetAll retrieves every transaction, ordered by wallet ASC, timestamp ASC.
func (s *TransactionStore) GetAll(ctx context.Context) ([]*domain.Transaction, error) {
	query := selectTransactionColumns + ` ORDER BY wallet_address ASC, timestamp ASC, tx_hash ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetByWallet retrieves all transactions for a wallet, ordered by timestamp ASC.
func (s *TransactionStore) GetByWallet(ctx context.Context, wallet string) ([]*domain.Transaction, error) {
	query := selectTransactionColumns + ` WHERE wallet_address = $1 ORDER BY timestamp ASC, tx_hash ASC`

	rows, err := s.pool.Query(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("query transactions by wallet: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// Count returns the number of stored transactions.
func (s *TransactionStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return count, nil
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanTransactions(rows pgxRows) ([]*domain.Transaction, error) {
	var result []*domain.Transaction
	for rows.Next() {
		tx := &domain.Transaction{}
		err := rows.Scan(
			&tx.ID,
			&tx.WalletAddress,
			&tx.TxHash,
			&tx.Action,
			&tx.Asset,
			&tx.Amount,
			&tx.USDValue,
			&tx.GasUsed,
			&tx.Timestamp,
			&tx.BlockNumber,
			&tx.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		result = append(result, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return result, nil
}
