package memory

import (
	"context"
	"errors"
	"testing"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/storage"
)

func TestScoreStore_InsertAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewScoreStore()

	records := []*domain.ScoreRecord{
		{WalletID: "wallet-b", BaseScore: 500, CreditScore: 480},
		{WalletID: "wallet-a", BaseScore: 640, CreditScore: 712},
	}
	if err := store.InsertBulk(ctx, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 records, got %d", len(all))
	}
	// Ordered by wallet_id ASC.
	if all[0].WalletID != "wallet-a" || all[1].WalletID != "wallet-b" {
		t.Errorf("records not ordered: %s, %s", all[0].WalletID, all[1].WalletID)
	}

	one, err := store.GetByWallet(ctx, "wallet-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if one.CreditScore != 712 {
		t.Errorf("expected credit score 712, got %d", one.CreditScore)
	}
}

func TestScoreStore_NotFound(t *testing.T) {
	store := NewScoreStore()
	_, err := store.GetByWallet(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestScoreStore_RejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := NewScoreStore()

	if err := store.InsertBulk(ctx, []*domain.ScoreRecord{
		{WalletID: "a", BaseScore: 500, CreditScore: 500},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Re-publishing the same wallet fails the whole batch.
	err := store.InsertBulk(ctx, []*domain.ScoreRecord{
		{WalletID: "b", BaseScore: 400, CreditScore: 400},
		{WalletID: "a", BaseScore: 600, CreditScore: 600},
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	// The failed batch stored nothing, including its non-duplicate rows.
	if _, err := store.GetByWallet(ctx, "b"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected wallet b absent after failed batch, got %v", err)
	}
}

func TestScoreStore_RejectsIntraBatchDuplicates(t *testing.T) {
	store := NewScoreStore()

	err := store.InsertBulk(context.Background(), []*domain.ScoreRecord{
		{WalletID: "a", BaseScore: 500, CreditScore: 500},
		{WalletID: "a", BaseScore: 600, CreditScore: 600},
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey for intra-batch duplicate, got %v", err)
	}
}
