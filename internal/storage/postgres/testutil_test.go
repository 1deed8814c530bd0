package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL container for testing and applies the
// embedded schema. Returns a cleanup function that must be called after
// tests complete.
func setupTestDB(t *testing.T) (*Pool, func()) {
	t.Helper()

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err, "failed to create pool")

	applySchema(t, ctx, pool)

	cleanup := func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

// applySchema creates the tables directly; the test package cannot import
// internal/storage/migrations without a dependency cycle, so it carries the
// same DDL inline.
func applySchema(t *testing.T, ctx context.Context, pool *Pool) {
	t.Helper()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			id              BIGSERIAL PRIMARY KEY,
			wallet_address  TEXT             NOT NULL,
			tx_hash         TEXT             NOT NULL DEFAULT '',
			action          TEXT             NOT NULL,
			asset           TEXT             NOT NULL DEFAULT 'UNKNOWN',
			amount          DOUBLE PRECISION NOT NULL DEFAULT 0,
			usd_value       DOUBLE PRECISION NOT NULL DEFAULT 0,
			gas_used        BIGINT           NOT NULL DEFAULT 0,
			timestamp       BIGINT           NOT NULL DEFAULT 0,
			block_number    BIGINT           NOT NULL DEFAULT 0,
			created_at      BIGINT           NOT NULL DEFAULT 0,
			UNIQUE (wallet_address, tx_hash, action, timestamp)
		)`,
		`CREATE TABLE IF NOT EXISTS wallet_scores (
			wallet_address      TEXT             PRIMARY KEY,
			base_score          DOUBLE PRECISION NOT NULL,
			risk_adjusted_score DOUBLE PRECISION NOT NULL,
			credit_score        DOUBLE PRECISION NOT NULL,
			score_category      TEXT             NOT NULL,
			created_at          BIGINT           NOT NULL DEFAULT 0
		)`,
	}

	for _, stmt := range stmts {
		_, err := pool.Exec(ctx, stmt)
		require.NoError(t, err, "failed to apply schema")
	}
}
