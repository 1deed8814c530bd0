package storage

import (
	"context"

	"defi-credit-lab/internal/domain"
)

// TransactionStore provides access to transactions storage.
type TransactionStore interface {
	// InsertBulk adds multiple transactions atomically. Fails the entire
	// batch on any duplicate (wallet_address, tx_hash, action, timestamp).
	InsertBulk(ctx context.Context, txs []*domain.Transaction) error

	// GetAll retrieves every transaction, ordered by wallet ASC, timestamp ASC.
	GetAll(ctx context.Context) ([]*domain.Transaction, error)

	// GetByWallet retrieves all transactions for a wallet, ordered by timestamp ASC.
	GetByWallet(ctx context.Context, wallet string) ([]*domain.Transaction, error)

	// Count returns the number of stored transactions.
	Count(ctx context.Context) (int64, error)
}

// FeatureStore provides access to wallet_features storage.
type FeatureStore interface {
	// PutBulk upserts feature vectors, replacing any existing vector for
	// the same wallet. Features are recomputed whole each run.
	PutBulk(ctx context.Context, features []*domain.WalletFeatures) error

	// GetAll retrieves every feature vector, ordered by wallet ASC.
	GetAll(ctx context.Context) ([]*domain.WalletFeatures, error)

	// GetByWallet retrieves the feature vector for a wallet. Returns
	// ErrNotFound if the wallet has never been scored.
	GetByWallet(ctx context.Context, wallet string) (*domain.WalletFeatures, error)
}

// ScoreStore provides access to wallet_scores storage.
type ScoreStore interface {
	// PutBulk upserts score records, replacing any existing record for the
	// same wallet. A rerun on identical input must leave stored scores
	// unchanged.
	PutBulk(ctx context.Context, scores []*domain.ScoreRecord) error

	// GetAll retrieves every score record, ordered by wallet ASC.
	GetAll(ctx context.Context) ([]*domain.ScoreRecord, error)

	// GetByWallet retrieves the score record for a wallet. Returns
	// ErrNotFound if the wallet has never been scored.
	GetByWallet(ctx context.Context, wallet string) (*domain.ScoreRecord, error)
}
