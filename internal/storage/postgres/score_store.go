package postgres

import (
	"context"
	"fmt"

	"defi-credit-lab/internal/domain"
	"defi-credit-lab/internal/storage"
)

// ScoreStore implements storage.ScoreStore using PostgreSQL.
type ScoreStore struct {
	pool *Pool
}

// NewScoreStore creates a new ScoreStore.
func NewScoreStore(pool *Pool) *ScoreStore {
	return &ScoreStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ScoreStore = (*ScoreStore)(nil)

const upsertScoreQuery = `
	INSERT INTO wallet_scores (
		wallet_address, base_score, risk_adjusted_score, credit_score,
		score_category, created_at
	) VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (wallet_address) DO UPDATE SET
		base_score = EXCLUDED.base_score,
		risk_adjusted_score = EXCLUDED.risk_adjusted_score,
		credit_score = EXCLUDED.credit_score,
		score_category = EXCLUDED.score_category,
		created_at = EXCLUDED.created_at
`

// PutBulk upserts score records atomically, replacing any existing record
// per wallet.
func (s *ScoreStore) PutBulk(ctx context.Context, scores []*domain.ScoreRecord) error {
	if len(scores) == 0 {
		return nil
	}

	dbTx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback(ctx)

	for _, r := range scores {
		if r == nil || r.WalletAddress == "" {
			return storage.ErrInvalidInput
		}
		_, err := dbTx.Exec(ctx, upsertScoreQuery,
			r.WalletAddress,
			r.BaseScore,
			r.RiskAdjustedScore,
			r.CreditScore,
			r.ScoreCategory,
			r.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("upsert score: %w", err)
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

const selectScoreColumns = `
	SELECT wallet_address, base_score, risk_adjusted_score, credit_score,
	       score_category, created_at
	FROM wallet_scores
`

// GetAll retrieves every score record, ordered by wallet ASC.
func (s *ScoreStore) GetAll(ctx context.Context) ([]*domain.ScoreRecord, error) {
	rows, err := s.pool.Query(ctx, selectScoreColumns+` ORDER BY wallet_address ASC`)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var result []*domain.ScoreRecord
	for rows.Next() {
		r := &domain.ScoreRecord{}
		err := rows.Scan(
			&r.WalletAddress,
			&r.BaseScore,
			&r.RiskAdjustedScore,
			&r.CreditScore,
			&r.ScoreCategory,
			&r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}
	return result, nil
}

// GetByWallet retrieves the score record for a wallet.
func (s *ScoreStore) GetByWallet(ctx context.Context, wallet string) (*domain.ScoreRecord, error) {
	r := &domain.ScoreRecord{}
	err := s.pool.QueryRow(ctx, selectScoreColumns+` WHERE wallet_address = $1`, wallet).Scan(
		&r.WalletAddress,
		&r.BaseScore,
		&r.RiskAdjustedScore,
		&r.CreditScore,
		&r.ScoreCategory,
		&r.CreatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get score by wallet: %w", err)
	}
	return r, nil
}
