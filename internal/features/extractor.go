// Package features derives one fixed feature vector per wallet from the
// normalized event table. Computation per wallet is side-effect-free and
// depends only on that wallet's own events, so the extractor fans out
// across wallets.
package features

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"wallet-credit-lab/internal/domain"
)

// ErrNoEvents is returned when extraction is attempted on an empty table.
var ErrNoEvents = errors.New("no events to extract features from")

// Extractor computes wallet feature vectors from a normalized event table.
type Extractor struct {
	workers int
}

// NewExtractor creates an extractor. workers <= 0 selects GOMAXPROCS.
func NewExtractor(workers int) *Extractor {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Extractor{workers: workers}
}

// Partition groups events by wallet id. Each wallet owns a read-only slice
// of its events; no events are shared across partitions.
func Partition(events []*domain.LedgerEvent) map[string][]*domain.LedgerEvent {
	byWallet := make(map[string][]*domain.LedgerEvent)
	for _, e := range events {
		byWallet[e.WalletID] = append(byWallet[e.WalletID], e)
	}
	return byWallet
}

// Extract computes one feature vector per distinct wallet. The result is
// ordered by wallet id ASC so identical inputs produce identical batches.
func (x *Extractor) Extract(ctx context.Context, events []*domain.LedgerEvent) ([]*domain.WalletFeatureVector, error) {
	if len(events) == 0 {
		return nil, ErrNoEvents
	}

	partitions := Partition(events)

	walletIDs := make([]string, 0, len(partitions))
	for id, part := range partitions {
		if len(part) == 0 {
			// Structurally impossible for a map built by Partition;
			// fatal precondition violation rather than a silent skip.
			return nil, fmt.Errorf("wallet %s: empty partition", id)
		}
		walletIDs = append(walletIDs, id)
	}
	sort.Strings(walletIDs)

	vectors := make([]*domain.WalletFeatureVector, len(walletIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(x.workers)
	for i, id := range walletIDs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			vectors[i] = computeWallet(id, partitions[id])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return vectors, nil
}
