package memory

import (
	"context"
	"sort"
	"sync"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/storage"
)

// ScoreStore is an in-memory implementation of storage.ScoreStore.
type ScoreStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ScoreRecord // keyed by wallet_id
}

// NewScoreStore creates a new in-memory score store.
func NewScoreStore() *ScoreStore {
	return &ScoreStore{
		data: make(map[string]*domain.ScoreRecord),
	}
}

// Compile-time interface check.
var _ storage.ScoreStore = (*ScoreStore)(nil)

// InsertBulk adds score records atomically. Fails the entire batch on any
// duplicate; no partial score table is ever stored.
func (s *ScoreStore) InsertBulk(_ context.Context, records []*domain.ScoreRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r == nil || r.WalletID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[r.WalletID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[r.WalletID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[r.WalletID] = struct{}{}
	}

	for _, r := range records {
		copy := *r
		s.data[r.WalletID] = &copy
	}
	return nil
}

// GetAll retrieves all records, ordered by wallet_id ASC.
func (s *ScoreStore) GetAll(_ context.Context) ([]*domain.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.ScoreRecord, 0, len(s.data))
	for _, r := range s.data {
		copy := *r
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].WalletID < result[j].WalletID
	})
	return result, nil
}

// GetByWallet retrieves one wallet's record. Returns ErrNotFound if not exists.
func (s *ScoreStore) GetByWallet(_ context.Context, walletID string) (*domain.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[walletID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	copy := *r
	return &copy, nil
}
