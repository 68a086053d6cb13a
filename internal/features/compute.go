package features

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"wallet-credit-lab/internal/domain"
)

// Bot cadence heuristic: flagged when more than botMinGaps inter-event gaps
// exist and their mean is under botMeanGapSeconds.
const (
	botMinGaps        = 10
	botMeanGapSeconds = 60.0
)

// computeWallet calculates the full feature vector for a single wallet.
// Pure function of that wallet's own events; events may arrive in any order.
func computeWallet(walletID string, events []*domain.LedgerEvent) *domain.WalletFeatureVector {
	n := len(events)

	// Sorted timestamps drive every gap-based statistic.
	timestamps := make([]float64, n)
	for i, e := range events {
		timestamps[i] = float64(e.Timestamp)
	}
	sort.Float64s(timestamps)

	gaps := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		gaps = append(gaps, timestamps[i]-timestamps[i-1])
	}

	daysActive := 0.0
	if n > 1 {
		daysActive = (timestamps[n-1] - timestamps[0]) / 86400.0
	}

	freqStd := 0.0
	if len(gaps) > 1 {
		freqStd = stat.PopStdDev(gaps, nil)
	}

	bot := 0
	if len(gaps) > botMinGaps && stat.Mean(gaps, nil) < botMeanGapSeconds {
		bot = 1
	}

	// Action counts, hour buckets, value stats and asset cardinality in a
	// single pass.
	counts := make(map[domain.ActionKind]int, len(domain.ActionKinds))
	assets := make(map[string]struct{})
	values := make([]float64, n)
	night := 0
	work := 0
	for i, e := range events {
		counts[e.Action]++
		assets[e.Asset] = struct{}{}
		values[i] = e.Value
		h := e.Hour()
		if h < 6 || h > 22 {
			night++
		}
		if h >= 9 && h <= 17 {
			work++
		}
	}

	total := float64(n)
	ratio := func(kind domain.ActionKind) float64 {
		return float64(counts[kind]) / total
	}

	valueStd := 0.0
	if n > 1 {
		valueStd = stat.PopStdDev(values, nil)
	}

	return &domain.WalletFeatureVector{
		WalletID: walletID,

		TxCount:        n,
		UniqueAssets:   len(assets),
		DaysActive:     daysActive,
		TxFrequencyStd: freqStd,

		DepositRatio:     ratio(domain.ActionDeposit),
		BorrowRatio:      ratio(domain.ActionBorrow),
		RepayRatio:       ratio(domain.ActionRepay),
		RedeemRatio:      ratio(domain.ActionRedeem),
		LiquidationRatio: ratio(domain.ActionLiquidation),
		OtherRatio:       ratio(domain.ActionOther),

		LiquidationCount: counts[domain.ActionLiquidation],

		AvgTxValue: stat.Mean(values, nil),
		ValueStd:   valueStd,
		TotalValue: sum(values),

		NightTxRatio:    float64(night) / total,
		WorkhourTxRatio: float64(work) / total,

		BotLikelihood: bot,
	}
}

func sum(xs []float64) float64 {
	s := 0.0
	for _, x := range xs {
		s += x
	}
	return s
}
