package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"defi-credit-lab/internal/domain"
	"defi-credit-lab/internal/storage"
)

func TestScoreStoreUpsert(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewScoreStore(pool)

	require.NoError(t, store.PutBulk(ctx, []*domain.ScoreRecord{
		{
			WalletAddress:     "0xaaa",
			BaseScore:         520,
			RiskAdjustedScore: 520,
			CreditScore:       610,
			ScoreCategory:     domain.CategoryFair,
			CreatedAt:         1700000000000,
		},
		{
			WalletAddress:     "0xbbb",
			BaseScore:         710,
			RiskAdjustedScore: 781,
			CreditScore:       920,
			ScoreCategory:     domain.CategoryExcellent,
			CreatedAt:         1700000000000,
		},
	}))

	// Rerun overwrites in place instead of duplicating.
	require.NoError(t, store.PutBulk(ctx, []*domain.ScoreRecord{
		{
			WalletAddress:     "0xaaa",
			BaseScore:         300,
			RiskAdjustedScore: 210,
			CreditScore:       250,
			ScoreCategory:     domain.CategoryVeryPoor,
			CreatedAt:         1700000100000,
		},
	}))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "0xaaa", all[0].WalletAddress)
	require.Equal(t, 250.0, all[0].CreditScore)
	require.Equal(t, domain.CategoryVeryPoor, all[0].ScoreCategory)

	r, err := store.GetByWallet(ctx, "0xbbb")
	require.NoError(t, err)
	require.Equal(t, 920.0, r.CreditScore)

	_, err = store.GetByWallet(ctx, "0xmissing")
	require.True(t, errors.Is(err, storage.ErrNotFound))
}
