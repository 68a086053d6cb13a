package storage

import (
	"context"

	"wallet-credit-lab/internal/domain"
)

// EventStore provides access to the normalized ledger_events table.
// The table is append-only and assumed de-duplicated upstream.
type EventStore interface {
	// InsertBulk adds a batch of normalized events.
	InsertBulk(ctx context.Context, events []*domain.LedgerEvent) error

	// GetAll retrieves the whole event table, ordered by
	// (wallet_id ASC, timestamp ASC).
	GetAll(ctx context.Context) ([]*domain.LedgerEvent, error)

	// GetByWallet retrieves one wallet's events, ordered by timestamp ASC.
	GetByWallet(ctx context.Context, walletID string) ([]*domain.LedgerEvent, error)
}

// FeatureStore provides access to the wallet_features analytics table.
type FeatureStore interface {
	// InsertBulk adds feature vectors. Returns ErrDuplicateKey if a
	// wallet_id already has a vector.
	InsertBulk(ctx context.Context, vectors []*domain.WalletFeatureVector) error

	// GetAll retrieves all vectors, ordered by wallet_id ASC.
	GetAll(ctx context.Context) ([]*domain.WalletFeatureVector, error)

	// GetByWallet retrieves one wallet's vector. Returns ErrNotFound if
	// not exists.
	GetByWallet(ctx context.Context, walletID string) (*domain.WalletFeatureVector, error)
}

// ScoreStore provides access to the wallet_scores table.
type ScoreStore interface {
	// InsertBulk adds score records atomically. Returns ErrDuplicateKey
	// if a wallet_id already has a record; fails the entire batch.
	InsertBulk(ctx context.Context, records []*domain.ScoreRecord) error

	// GetAll retrieves all records, ordered by wallet_id ASC.
	GetAll(ctx context.Context) ([]*domain.ScoreRecord, error)

	// GetByWallet retrieves one wallet's record. Returns ErrNotFound if
	// not exists.
	GetByWallet(ctx context.Context, walletID string) (*domain.ScoreRecord, error)
}
