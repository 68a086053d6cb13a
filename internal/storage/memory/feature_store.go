package memory

import (
	"context"
	"sort"
	"sync"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/storage"
)

// FeatureStore is an in-memory implementation of storage.FeatureStore.
type FeatureStore struct {
	mu   sync.RWMutex
	data map[string]*domain.WalletFeatureVector // keyed by wallet_id
}

// NewFeatureStore creates a new in-memory feature store.
func NewFeatureStore() *FeatureStore {
	return &FeatureStore{
		data: make(map[string]*domain.WalletFeatureVector),
	}
}

// Compile-time interface check.
var _ storage.FeatureStore = (*FeatureStore)(nil)

// InsertBulk adds feature vectors. Fails the entire batch on any duplicate.
func (s *FeatureStore) InsertBulk(_ context.Context, vectors []*domain.WalletFeatureVector) error {
	if len(vectors) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(vectors))
	for _, f := range vectors {
		if f == nil || f.WalletID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[f.WalletID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[f.WalletID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[f.WalletID] = struct{}{}
	}

	for _, f := range vectors {
		copy := *f
		s.data[f.WalletID] = &copy
	}
	return nil
}

// GetAll retrieves all vectors, ordered by wallet_id ASC.
func (s *FeatureStore) GetAll(_ context.Context) ([]*domain.WalletFeatureVector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.WalletFeatureVector, 0, len(s.data))
	for _, f := range s.data {
		copy := *f
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].WalletID < result[j].WalletID
	})
	return result, nil
}

// GetByWallet retrieves one wallet's vector. Returns ErrNotFound if not exists.
func (s *FeatureStore) GetByWallet(_ context.Context, walletID string) (*domain.WalletFeatureVector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, exists := s.data[walletID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	copy := *f
	return &copy, nil
}
