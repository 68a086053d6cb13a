package domain

import "time"

// ActionKind is the category of a ledger event.
type ActionKind string

const (
	ActionDeposit     ActionKind = "deposit"
	ActionBorrow      ActionKind = "borrow"
	ActionRepay       ActionKind = "repay"
	ActionRedeem      ActionKind = "redeem"
	ActionLiquidation ActionKind = "liquidation"
	ActionOther       ActionKind = "other"
)

// ActionKinds lists all kinds in canonical order.
var ActionKinds = []ActionKind{
	ActionDeposit,
	ActionBorrow,
	ActionRepay,
	ActionRedeem,
	ActionLiquidation,
	ActionOther,
}

// LedgerEvent represents one normalized per-wallet financial action.
// Immutable once produced by the normalizer.
type LedgerEvent struct {
	WalletID  string     // account the event belongs to
	Timestamp int64      // Unix timestamp in seconds
	Action    ActionKind // canonical action kind (lower-cased by normalizer)
	Asset     string     // asset symbol, lower-cased by normalizer
	Value     float64    // amount; 0 when missing or unparseable
}

// Hour returns the event's wall-clock hour [0,24).
// Timezone policy is fixed to UTC by the normalizer.
func (e *LedgerEvent) Hour() int {
	return time.Unix(e.Timestamp, 0).UTC().Hour()
}
