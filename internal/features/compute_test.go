package features

import (
	"math"
	"testing"

	"wallet-credit-lab/internal/domain"
)

func event(wallet string, ts int64, action domain.ActionKind, asset string, value float64) *domain.LedgerEvent {
	return &domain.LedgerEvent{WalletID: wallet, Timestamp: ts, Action: action, Asset: asset, Value: value}
}

func TestComputeWallet_SingleEvent(t *testing.T) {
	// One event → every gap-based statistic is zero, not NaN.
	events := []*domain.LedgerEvent{
		event("w", 1700000000, domain.ActionDeposit, "usdc", 10),
	}

	f := computeWallet("w", events)

	if f.TxCount != 1 {
		t.Errorf("expected TxCount 1, got %d", f.TxCount)
	}
	if f.DaysActive != 0 {
		t.Errorf("expected DaysActive 0, got %f", f.DaysActive)
	}
	if f.TxFrequencyStd != 0 {
		t.Errorf("expected TxFrequencyStd 0, got %f", f.TxFrequencyStd)
	}
	if f.ValueStd != 0 {
		t.Errorf("expected ValueStd 0, got %f", f.ValueStd)
	}
	if f.BotLikelihood != 0 {
		t.Errorf("expected BotLikelihood 0, got %d", f.BotLikelihood)
	}
	if f.DepositRatio != 1.0 {
		t.Errorf("expected DepositRatio 1.0, got %f", f.DepositRatio)
	}
	if f.AvgTxValue != 10 || f.TotalValue != 10 {
		t.Errorf("expected avg/total 10/10, got %f/%f", f.AvgTxValue, f.TotalValue)
	}
}

func TestComputeWallet_ActionRatiosSumToOne(t *testing.T) {
	events := []*domain.LedgerEvent{
		event("w", 1000, domain.ActionDeposit, "usdc", 1),
		event("w", 2000, domain.ActionBorrow, "usdc", 1),
		event("w", 3000, domain.ActionRepay, "usdc", 1),
		event("w", 4000, domain.ActionRedeem, "dai", 1),
		event("w", 5000, domain.ActionLiquidation, "dai", 1),
		event("w", 6000, domain.ActionOther, "dai", 1),
	}

	f := computeWallet("w", events)

	sum := 0.0
	for _, kind := range domain.ActionKinds {
		sum += f.ActionRatio(kind)
	}
	if math.Abs(sum-1.0) > 1e-12 {
		t.Errorf("expected ratios to sum to 1, got %f", sum)
	}
	if f.UniqueAssets != 2 {
		t.Errorf("expected 2 unique assets, got %d", f.UniqueAssets)
	}
	if f.LiquidationCount != 1 {
		t.Errorf("expected LiquidationCount 1, got %d", f.LiquidationCount)
	}
}

func TestComputeWallet_UnsortedTimestamps(t *testing.T) {
	// Gap statistics must come from sorted timestamps regardless of input order.
	sorted := []*domain.LedgerEvent{
		event("w", 1000, domain.ActionDeposit, "usdc", 1),
		event("w", 2000, domain.ActionDeposit, "usdc", 2),
		event("w", 4000, domain.ActionDeposit, "usdc", 3),
	}
	shuffled := []*domain.LedgerEvent{sorted[2], sorted[0], sorted[1]}

	a := computeWallet("w", sorted)
	b := computeWallet("w", shuffled)

	if a.TxFrequencyStd != b.TxFrequencyStd {
		t.Errorf("TxFrequencyStd differs by input order: %f vs %f", a.TxFrequencyStd, b.TxFrequencyStd)
	}
	if a.DaysActive != b.DaysActive {
		t.Errorf("DaysActive differs by input order: %f vs %f", a.DaysActive, b.DaysActive)
	}
	// Span is 3000 seconds.
	want := 3000.0 / 86400.0
	if math.Abs(a.DaysActive-want) > 1e-12 {
		t.Errorf("expected DaysActive %f, got %f", want, a.DaysActive)
	}
	// Gaps are 1000 and 2000; population std = 500.
	if math.Abs(a.TxFrequencyStd-500) > 1e-9 {
		t.Errorf("expected TxFrequencyStd 500, got %f", a.TxFrequencyStd)
	}
}

func TestComputeWallet_BotCadence(t *testing.T) {
	// 12 events 30s apart → 11 gaps with mean 30 < 60 → flagged.
	var fast []*domain.LedgerEvent
	for i := 0; i < 12; i++ {
		fast = append(fast, event("w", 1000+int64(i)*30, domain.ActionDeposit, "usdc", 1))
	}
	if f := computeWallet("w", fast); f.BotLikelihood != 1 {
		t.Errorf("expected bot flag for 12 events 30s apart, got %d", f.BotLikelihood)
	}

	// Same cadence but only 11 events → exactly 10 gaps, under the minimum.
	if f := computeWallet("w", fast[:11]); f.BotLikelihood != 0 {
		t.Errorf("expected no bot flag with only 10 gaps, got %d", f.BotLikelihood)
	}

	// 12 events 60s apart → mean gap not under 60 → not flagged.
	var slow []*domain.LedgerEvent
	for i := 0; i < 12; i++ {
		slow = append(slow, event("w", 1000+int64(i)*60, domain.ActionDeposit, "usdc", 1))
	}
	if f := computeWallet("w", slow); f.BotLikelihood != 0 {
		t.Errorf("expected no bot flag for 60s cadence, got %d", f.BotLikelihood)
	}
}

func TestComputeWallet_HourBuckets(t *testing.T) {
	// 2021-01-01 00:00 UTC = 1609459200. Hours are derived in UTC.
	base := int64(1609459200)
	events := []*domain.LedgerEvent{
		event("w", base+3*3600, domain.ActionDeposit, "usdc", 1),  // 03:00 → night
		event("w", base+23*3600, domain.ActionDeposit, "usdc", 1), // 23:00 → night
		event("w", base+12*3600, domain.ActionDeposit, "usdc", 1), // 12:00 → workhour
		event("w", base+9*3600, domain.ActionDeposit, "usdc", 1),  // 09:00 → workhour
		event("w", base+17*3600, domain.ActionDeposit, "usdc", 1), // 17:00 → workhour
		event("w", base+20*3600, domain.ActionDeposit, "usdc", 1), // 20:00 → neither
	}

	f := computeWallet("w", events)

	if math.Abs(f.NightTxRatio-2.0/6.0) > 1e-12 {
		t.Errorf("expected NightTxRatio 2/6, got %f", f.NightTxRatio)
	}
	if math.Abs(f.WorkhourTxRatio-3.0/6.0) > 1e-12 {
		t.Errorf("expected WorkhourTxRatio 3/6, got %f", f.WorkhourTxRatio)
	}
}

func TestComputeWallet_ValueStats(t *testing.T) {
	events := []*domain.LedgerEvent{
		event("w", 1000, domain.ActionDeposit, "usdc", 2),
		event("w", 2000, domain.ActionDeposit, "usdc", 4),
		event("w", 3000, domain.ActionDeposit, "usdc", 6),
	}

	f := computeWallet("w", events)

	if f.AvgTxValue != 4 {
		t.Errorf("expected AvgTxValue 4, got %f", f.AvgTxValue)
	}
	if f.TotalValue != 12 {
		t.Errorf("expected TotalValue 12, got %f", f.TotalValue)
	}
	// Population std of {2,4,6} = sqrt(8/3).
	want := math.Sqrt(8.0 / 3.0)
	if math.Abs(f.ValueStd-want) > 1e-12 {
		t.Errorf("expected ValueStd %f, got %f", want, f.ValueStd)
	}
}
