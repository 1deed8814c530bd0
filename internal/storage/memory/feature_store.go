package memory

import (
	"context"
	"sort"
	"sync"

	"defi-credit-lab/internal/domain"
	"defi-credit-lab/internal/storage"
)

// FeatureStore is an in-memory implementation of storage.FeatureStore.
type FeatureStore struct {
	mu   sync.RWMutex
	data map[string]*domain.WalletFeatures // keyed by wallet address
}

// NewFeatureStore creates a new in-memory feature store.
func NewFeatureStore() *FeatureStore {
	return &FeatureStore{
		data: make(map[string]*domain.WalletFeatures),
	}
}

// PutBulk upserts feature vectors, replacing any existing vector per wallet.
func (s *FeatureStore) PutBulk(_ context.Context, features []*domain.WalletFeatures) error {
	if len(features) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range features {
		if f == nil || f.WalletAddress == "" {
			return storage.ErrInvalidInput
		}
	}
	for _, f := range features {
		copy := *f
		s.data[f.WalletAddress] = &copy
	}

	return nil
}

// GetAll retrieves every feature vector, ordered by wallet ASC.
func (s *FeatureStore) GetAll(_ context.Context) ([]*domain.WalletFeatures, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.WalletFeatures, 0, len(s.data))
	for _, f := range s.data {
		copy := *f
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].WalletAddress < result[j].WalletAddress
	})
	return result, nil
}

// GetByWallet retrieves the feature vector for a wallet.
func (s *FeatureStore) GetByWallet(_ context.Context, wallet string) (*domain.WalletFeatures, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, exists := s.data[wallet]
	if !exists {
		return nil, storage.ErrNotFound
	}
	copy := *f
	return &copy, nil
}
