package memory

import (
	"context"
	"sort"
	"sync"

	"defi-credit-lab/internal/domain"
	"defi-credit-lab/internal/storage"
)

// ScoreStore is an in-memory implementation of storage.ScoreStore.
type ScoreStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ScoreRecord // keyed by wallet address
}

// NewScoreStore creates a new in-memory score store.
func NewScoreStore() *ScoreStore {
	return &ScoreStore{
		data: make(map[string]*domain.ScoreRecord),
	}
}

// PutBulk upserts score records, replacing any existing record per wallet.
func (s *ScoreStore) PutBulk(_ context.Context, scores []*domain.ScoreRecord) error {
	if len(scores) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range scores {
		if r == nil || r.WalletAddress == "" {
			return storage.ErrInvalidInput
		}
	}
	for _, r := range scores {
		copy := *r
		s.data[r.WalletAddress] = &copy
	}

	return nil
}

// GetAll retrieves every score record, ordered by wallet ASC.
func (s *ScoreStore) GetAll(_ context.Context) ([]*domain.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.ScoreRecord, 0, len(s.data))
	for _, r := range s.data {
		copy := *r
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].WalletAddress < result[j].WalletAddress
	})
	return result, nil
}

// GetByWallet retrieves the score record for a wallet.
func (s *ScoreStore) GetByWallet(_ context.Context, wallet string) (*domain.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[wallet]
	if !exists {
		return nil, storage.ErrNotFound
	}
	copy := *r
	return &copy, nil
}
