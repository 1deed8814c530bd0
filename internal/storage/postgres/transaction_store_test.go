package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"defi-credit-lab/internal/domain"
	"defi-credit-lab/internal/storage"
)

func TestTransactionStoreRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTransactionStore(pool)

	txs := []*domain.Transaction{
		{
			WalletAddress: "0xbbb",
			TxHash:        "hash1",
			Action:        domain.ActionDeposit,
			Asset:         "USDC",
			Amount:        1000.5,
			USDValue:      1000.5,
			GasUsed:       150000,
			Timestamp:     1700000000000,
			BlockNumber:   18000000,
			CreatedAt:     1700000001000,
		},
		{
			WalletAddress: "0xaaa",
			TxHash:        "hash2",
			Action:        domain.ActionBorrow,
			Asset:         "DAI",
			Amount:        250,
			GasUsed:       180000,
			Timestamp:     1700000100000,
		},
		{
			WalletAddress: "0xaaa",
			TxHash:        "hash3",
			Action:        domain.ActionRepay,
			Asset:         "DAI",
			Amount:        250,
			GasUsed:       160000,
			Timestamp:     1700000200000,
		},
	}
	require.NoError(t, store.InsertBulk(ctx, txs))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "0xaaa", all[0].WalletAddress)
	require.Equal(t, "hash2", all[0].TxHash)
	require.Equal(t, "0xbbb", all[2].WalletAddress)
	require.Equal(t, 1000.5, all[2].Amount)
	require.NotZero(t, all[2].ID)

	byWallet, err := store.GetByWallet(ctx, "0xaaa")
	require.NoError(t, err)
	require.Len(t, byWallet, 2)
	require.Equal(t, domain.ActionBorrow, byWallet[0].Action)
	require.Equal(t, domain.ActionRepay, byWallet[1].Action)
}

func TestTransactionStoreDuplicateRollsBack(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTransactionStore(pool)

	first := &domain.Transaction{
		WalletAddress: "0xaaa",
		TxHash:        "hash1",
		Action:        domain.ActionDeposit,
		Asset:         "USDC",
		Timestamp:     1700000000000,
	}
	require.NoError(t, store.InsertBulk(ctx, []*domain.Transaction{first}))

	// Batch containing a duplicate fails whole; the fresh row must not land.
	err := store.InsertBulk(ctx, []*domain.Transaction{
		{
			WalletAddress: "0xccc",
			TxHash:        "hash9",
			Action:        domain.ActionDeposit,
			Asset:         "USDC",
			Timestamp:     1700000000000,
		},
		first,
	})
	require.True(t, errors.Is(err, storage.ErrDuplicateKey))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}
