// Package memory provides in-memory store implementations, used as the
// pipeline default and in tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/storage"
)

// EventStore is an in-memory implementation of storage.EventStore.
type EventStore struct {
	mu     sync.RWMutex
	events []*domain.LedgerEvent
}

// NewEventStore creates a new in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{}
}

// Compile-time interface check.
var _ storage.EventStore = (*EventStore)(nil)

// InsertBulk adds a batch of normalized events.
func (s *EventStore) InsertBulk(_ context.Context, events []*domain.LedgerEvent) error {
	for _, e := range events {
		if e == nil || e.WalletID == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range events {
		copy := *e
		s.events = append(s.events, &copy)
	}
	return nil
}

// GetAll retrieves the whole event table, ordered by (wallet_id, timestamp).
func (s *EventStore) GetAll(_ context.Context) ([]*domain.LedgerEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.LedgerEvent, 0, len(s.events))
	for _, e := range s.events {
		copy := *e
		result = append(result, &copy)
	}
	sortEvents(result)
	return result, nil
}

// GetByWallet retrieves one wallet's events, ordered by timestamp ASC.
func (s *EventStore) GetByWallet(_ context.Context, walletID string) ([]*domain.LedgerEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.LedgerEvent
	for _, e := range s.events {
		if e.WalletID == walletID {
			copy := *e
			result = append(result, &copy)
		}
	}
	sortEvents(result)
	return result, nil
}

func sortEvents(events []*domain.LedgerEvent) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].WalletID != events[j].WalletID {
			return events[i].WalletID < events[j].WalletID
		}
		return events[i].Timestamp < events[j].Timestamp
	})
}
