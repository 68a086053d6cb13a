package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/storage"
	"wallet-credit-lab/internal/storage/postgres"
)

func TestEventStore_InsertBulkAndGetAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewEventStore(pool)

	events := []*domain.LedgerEvent{
		{WalletID: "wallet-b", Timestamp: 2000, Action: domain.ActionDeposit, Asset: "usdc", Value: 10.5},
		{WalletID: "wallet-a", Timestamp: 3000, Action: domain.ActionBorrow, Asset: "usdc", Value: 5},
		{WalletID: "wallet-a", Timestamp: 1000, Action: domain.ActionLiquidation, Asset: "dai", Value: 0},
	}
	require.NoError(t, store.InsertBulk(ctx, events))

	got, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Ordered by (wallet_id, timestamp).
	assert.Equal(t, "wallet-a", got[0].WalletID)
	assert.Equal(t, int64(1000), got[0].Timestamp)
	assert.Equal(t, domain.ActionLiquidation, got[0].Action)
	assert.Equal(t, "wallet-a", got[1].WalletID)
	assert.Equal(t, "wallet-b", got[2].WalletID)
	assert.Equal(t, 10.5, got[2].Value)
}

func TestEventStore_GetByWallet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewEventStore(pool)

	require.NoError(t, store.InsertBulk(ctx, []*domain.LedgerEvent{
		{WalletID: "wallet-a", Timestamp: 2000, Action: domain.ActionRepay, Asset: "usdc", Value: 1},
		{WalletID: "wallet-b", Timestamp: 1000, Action: domain.ActionDeposit, Asset: "usdc", Value: 2},
		{WalletID: "wallet-a", Timestamp: 1000, Action: domain.ActionBorrow, Asset: "usdc", Value: 3},
	}))

	got, err := store.GetByWallet(ctx, "wallet-a")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.ActionBorrow, got[0].Action)
	assert.Equal(t, domain.ActionRepay, got[1].Action)

	empty, err := store.GetByWallet(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestEventStore_InvalidInputAborts(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewEventStore(pool)

	err := store.InsertBulk(ctx, []*domain.LedgerEvent{
		{WalletID: "wallet-a", Timestamp: 1000, Action: domain.ActionDeposit, Asset: "usdc"},
		{WalletID: "", Timestamp: 2000, Action: domain.ActionDeposit, Asset: "usdc"},
	})
	require.ErrorIs(t, err, storage.ErrInvalidInput)

	// The transaction rolled back; nothing from the batch persisted.
	got, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEventStore_EmptyBatchIsNoop(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewEventStore(pool)

	require.NoError(t, store.InsertBulk(ctx, nil))

	got, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
