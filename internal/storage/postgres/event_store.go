package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/storage"
)

// EventStore implements storage.EventStore using PostgreSQL.
type EventStore struct {
	pool *Pool
}

// NewEventStore creates a new EventStore.
func NewEventStore(pool *Pool) *EventStore {
	return &EventStore{pool: pool}
}

// Compile-time interface check.
var _ storage.EventStore = (*EventStore)(nil)

const insertEventQuery = `
	INSERT INTO ledger_events (wallet_id, event_timestamp, action, asset, value)
	VALUES ($1, $2, $3, $4, $5)
`

// InsertBulk adds a batch of normalized events atomically.
func (s *EventStore) InsertBulk(ctx context.Context, events []*domain.LedgerEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range events {
		if e == nil || e.WalletID == "" {
			return storage.ErrInvalidInput
		}
		if _, err := tx.Exec(ctx, insertEventQuery,
			e.WalletID, e.Timestamp, string(e.Action), e.Asset, e.Value,
		); err != nil {
			return fmt.Errorf("insert event in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetAll retrieves the whole event table, ordered by (wallet_id, timestamp).
func (s *EventStore) GetAll(ctx context.Context) ([]*domain.LedgerEvent, error) {
	query := `
		SELECT wallet_id, event_timestamp, action, asset, value
		FROM ledger_events
		ORDER BY wallet_id ASC, event_timestamp ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetByWallet retrieves one wallet's events, ordered by timestamp ASC.
func (s *EventStore) GetByWallet(ctx context.Context, walletID string) ([]*domain.LedgerEvent, error) {
	query := `
		SELECT wallet_id, event_timestamp, action, asset, value
		FROM ledger_events
		WHERE wallet_id = $1
		ORDER BY event_timestamp ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("get events by wallet: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows pgx.Rows) ([]*domain.LedgerEvent, error) {
	var events []*domain.LedgerEvent
	for rows.Next() {
		var e domain.LedgerEvent
		var action string
		if err := rows.Scan(&e.WalletID, &e.Timestamp, &action, &e.Asset, &e.Value); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Action = domain.ActionKind(action)
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
