// Package memory provides in-memory store implementations used by tests and
// single-shot pipeline runs that do not need durable storage.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"defi-credit-lab/internal/domain"
	"defi-credit-lab/internal/storage"
)

// TransactionStore is an in-memory implementation of storage.TransactionStore.
type TransactionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Transaction // keyed by composite key
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		data: make(map[string]*domain.Transaction),
	}
}

// txKey generates a unique key for a transaction.
func txKey(tx *domain.Transaction) string {
	return fmt.Sprintf("%s|%s|%s|%d", tx.WalletAddress, tx.TxHash, tx.Action, tx.Timestamp)
}

// InsertBulk adds multiple transactions atomically. Fails entire batch on any duplicate.
func (s *TransactionStore) InsertBulk(_ context.Context, txs []*domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(txs))

	for _, tx := range txs {
		if tx == nil || tx.WalletAddress == "" {
			return storage.ErrInvalidInput
		}
		key := txKey(tx)

		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, tx := range txs {
		copy := *tx
		s.data[txKey(tx)] = &copy
	}

	return nil
}

// GetAll retrieves every transaction, ordered by wallet ASC, timestamp ASC.
func (s *TransactionStore) GetAll(_ context.Context) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Transaction, 0, len(s.data))
	for _, tx := range s.data {
		copy := *tx
		result = append(result, &copy)
	}

	sortTransactions(result)
	return result, nil
}

// GetByWallet retrieves all transactions for a wallet, ordered by timestamp ASC.
func (s *TransactionStore) GetByWallet(_ context.Context, wallet string) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Transaction
	for _, tx := range s.data {
		if tx.WalletAddress == wallet {
			copy := *tx
			result = append(result, &copy)
		}
	}

	sortTransactions(result)
	return result, nil
}

// Count returns the number of stored transactions.
func (s *TransactionStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.data)), nil
}

func sortTransactions(txs []*domain.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if txs[i].WalletAddress != txs[j].WalletAddress {
			return txs[i].WalletAddress < txs[j].WalletAddress
		}
		if txs[i].Timestamp != txs[j].Timestamp {
			return txs[i].Timestamp < txs[j].Timestamp
		}
		return txs[i].TxHash < txs[j].TxHash
	})
}
