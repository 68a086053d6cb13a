// Package normalization turns the raw ledger snapshot into the flat,
// immutable event table consumed by feature extraction.
//
// Timezone policy: wall-clock hours downstream are derived in UTC. The
// normalizer is the single place where this policy is fixed.
package normalization

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"wallet-credit-lab/internal/domain"
)

// ErrEmptyInput is returned when the raw snapshot contains no records.
var ErrEmptyInput = errors.New("empty event table")

// RawRecord mirrors one entry of the raw ledger JSON. The nested actionData
// shape follows the protocol export format.
type RawRecord struct {
	UserWallet string `json:"userWallet"`
	Timestamp  int64  `json:"timestamp"`
	Action     string `json:"action"`
	ActionData struct {
		Amount      string `json:"amount"`
		AssetSymbol string `json:"assetSymbol"`
	} `json:"actionData"`
}

// Normalize converts raw records into normalized ledger events:
// actions and assets are lower-cased, protocol action labels are mapped onto
// canonical kinds, and missing or unparseable amounts become 0.
// Records with an empty wallet id are rejected as a precondition violation.
func Normalize(records []RawRecord) ([]*domain.LedgerEvent, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	events := make([]*domain.LedgerEvent, 0, len(records))
	for i, r := range records {
		wallet := strings.TrimSpace(r.UserWallet)
		if wallet == "" {
			return nil, fmt.Errorf("record %d: missing wallet id", i)
		}
		events = append(events, &domain.LedgerEvent{
			WalletID:  wallet,
			Timestamp: r.Timestamp,
			Action:    canonicalAction(r.Action),
			Asset:     strings.ToLower(strings.TrimSpace(r.ActionData.AssetSymbol)),
			Value:     parseAmount(r.ActionData.Amount),
		})
	}

	SortEvents(events)
	return events, nil
}

// canonicalAction maps a raw action label onto a canonical kind.
// Raw protocol logs use "redeemunderlying" and "liquidationcall" for the
// redeem and liquidation kinds. Unknown labels become ActionOther.
func canonicalAction(raw string) domain.ActionKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "deposit":
		return domain.ActionDeposit
	case "borrow":
		return domain.ActionBorrow
	case "repay":
		return domain.ActionRepay
	case "redeem", "redeemunderlying":
		return domain.ActionRedeem
	case "liquidation", "liquidationcall":
		return domain.ActionLiquidation
	default:
		return domain.ActionOther
	}
}

// parseAmount coerces a raw amount string to a non-negative finite value.
// Missing, unparseable, non-finite and negative amounts all become 0.
func parseAmount(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
