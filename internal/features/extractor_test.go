package features

import (
	"context"
	"errors"
	"testing"

	"wallet-credit-lab/internal/domain"
)

func TestExtract_EmptyTable(t *testing.T) {
	x := NewExtractor(1)
	_, err := x.Extract(context.Background(), nil)
	if !errors.Is(err, ErrNoEvents) {
		t.Errorf("expected ErrNoEvents, got %v", err)
	}
}

func TestExtract_OneVectorPerWallet(t *testing.T) {
	events := []*domain.LedgerEvent{
		event("wallet-b", 1000, domain.ActionDeposit, "usdc", 1),
		event("wallet-a", 2000, domain.ActionBorrow, "usdc", 2),
		event("wallet-a", 3000, domain.ActionRepay, "usdc", 2),
		event("wallet-c", 4000, domain.ActionDeposit, "dai", 3),
	}

	vectors, err := NewExtractor(4).Extract(context.Background(), events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vectors) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vectors))
	}
	// Output is ordered by wallet id ASC.
	want := []string{"wallet-a", "wallet-b", "wallet-c"}
	for i, id := range want {
		if vectors[i].WalletID != id {
			t.Errorf("vector %d wallet = %s, want %s", i, vectors[i].WalletID, id)
		}
	}
	if vectors[0].TxCount != 2 {
		t.Errorf("expected wallet-a TxCount 2, got %d", vectors[0].TxCount)
	}
}

func TestExtract_WorkerCountInvariant(t *testing.T) {
	// The batch result must not depend on the degree of parallelism.
	var events []*domain.LedgerEvent
	for w := 0; w < 10; w++ {
		wallet := string(rune('a' + w))
		for i := 0; i < 5; i++ {
			events = append(events, event(wallet, int64(1000*w+i*100), domain.ActionDeposit, "usdc", float64(i)))
		}
	}

	serial, err := NewExtractor(1).Extract(context.Background(), events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parallel, err := NewExtractor(8).Extract(context.Background(), events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(serial) != len(parallel) {
		t.Fatalf("vector counts differ: %d vs %d", len(serial), len(parallel))
	}
	for i := range serial {
		if *serial[i] != *parallel[i] {
			t.Errorf("vector %d differs across worker counts: %+v vs %+v", i, serial[i], parallel[i])
		}
	}
}

func TestExtract_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events := []*domain.LedgerEvent{
		event("w", 1000, domain.ActionDeposit, "usdc", 1),
	}
	_, err := NewExtractor(1).Extract(ctx, events)
	if err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
}

func TestPartition_GroupsByWallet(t *testing.T) {
	events := []*domain.LedgerEvent{
		event("a", 1000, domain.ActionDeposit, "usdc", 1),
		event("b", 2000, domain.ActionDeposit, "usdc", 1),
		event("a", 3000, domain.ActionBorrow, "usdc", 1),
	}

	parts := Partition(events)
	if len(parts) != 2 {
		t.Fatalf("expected 2 partitions, got %d", len(parts))
	}
	if len(parts["a"]) != 2 || len(parts["b"]) != 1 {
		t.Errorf("partition sizes = a:%d b:%d, want a:2 b:1", len(parts["a"]), len(parts["b"]))
	}
}
