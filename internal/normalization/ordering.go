package normalization

import (
	"sort"

	"wallet-credit-lab/internal/domain"
)

// SortEvents orders events by (wallet_id ASC, timestamp ASC, action ASC,
// asset ASC). Order of appearance in the raw log carries no meaning, so a
// total order over the event fields gives deterministic downstream output.
func SortEvents(events []*domain.LedgerEvent) {
	sort.Slice(events, func(i, j int) bool {
		return compareEvents(events[i], events[j]) < 0
	})
}

// compareEvents returns:
//   - negative if a < b
//   - zero if a == b
//   - positive if a > b
func compareEvents(a, b *domain.LedgerEvent) int {
	if a.WalletID != b.WalletID {
		if a.WalletID < b.WalletID {
			return -1
		}
		return 1
	}
	if a.Timestamp != b.Timestamp {
		if a.Timestamp < b.Timestamp {
			return -1
		}
		return 1
	}
	if a.Action != b.Action {
		if a.Action < b.Action {
			return -1
		}
		return 1
	}
	if a.Asset != b.Asset {
		if a.Asset < b.Asset {
			return -1
		}
		return 1
	}
	return 0
}
