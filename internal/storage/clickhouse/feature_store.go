package clickhouse

import (
	"context"
	"fmt"
	"strings"

	"defi-credit-lab/internal/domain"
	"defi-credit-lab/internal/storage"
)

// FeatureStore implements storage.FeatureStore using ClickHouse.
//
// wallet_features is a ReplacingMergeTree keyed by wallet_address: PutBulk is
// a plain insert and reads use FINAL, so the latest row per wallet wins
// without explicit updates.
type FeatureStore struct {
	conn *Conn
}

// NewFeatureStore creates a new FeatureStore.
func NewFeatureStore(conn *Conn) *FeatureStore {
	return &FeatureStore{conn: conn}
}

// Compile-time interface check.
var _ storage.FeatureStore = (*FeatureStore)(nil)

// featureColumns is the wallet_features column list after wallet_address,
// in canonical vector order.
var featureColumns = strings.Join(domain.FeatureNames(), ", ")

// PutBulk upserts feature vectors, replacing any existing vector per wallet.
func (s *FeatureStore) PutBulk(ctx context.Context, features []*domain.WalletFeatures) error {
	if len(features) == 0 {
		return nil
	}
	for _, f := range features {
		if f == nil || f.WalletAddress == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, fmt.Sprintf(
		"INSERT INTO wallet_features (wallet_address, %s)", featureColumns,
	))
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, f := range features {
		values := make([]any, 0, domain.FeatureCount+1)
		values = append(values, f.WalletAddress)
		for _, v := range f.Vector() {
			values = append(values, v)
		}
		if err := batch.Append(values...); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetAll retrieves every feature vector, ordered by wallet ASC.
func (s *FeatureStore) GetAll(ctx context.Context) ([]*domain.WalletFeatures, error) {
	query := fmt.Sprintf(
		"SELECT wallet_address, %s FROM wallet_features FINAL ORDER BY wallet_address ASC",
		featureColumns,
	)

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query wallet features: %w", err)
	}
	defer rows.Close()

	var result []*domain.WalletFeatures
	for rows.Next() {
		f, err := scanFeatures(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet features: %w", err)
	}
	return result, nil
}

// GetByWallet retrieves the feature vector for a wallet.
func (s *FeatureStore) GetByWallet(ctx context.Context, wallet string) (*domain.WalletFeatures, error) {
	query := fmt.Sprintf(
		"SELECT wallet_address, %s FROM wallet_features FINAL WHERE wallet_address = ?",
		featureColumns,
	)

	rows, err := s.conn.Query(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("query wallet features by wallet: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate wallet features: %w", err)
		}
		return nil, storage.ErrNotFound
	}
	return scanFeatures(rows)
}

// rowScanner is the subset of driver.Rows used by scanFeatures.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeatures(rows rowScanner) (*domain.WalletFeatures, error) {
	var wallet string
	vector := make([]float64, domain.FeatureCount)

	dest := make([]any, 0, domain.FeatureCount+1)
	dest = append(dest, &wallet)
	for i := range vector {
		dest = append(dest, &vector[i])
	}

	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan wallet features: %w", err)
	}

	f, err := domain.FeaturesFromVector(wallet, vector)
	if err != nil {
		return nil, fmt.Errorf("decode wallet features: %w", err)
	}
	return f, nil
}
