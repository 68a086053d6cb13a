package explain

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"wallet-credit-lab/internal/domain"
)

// DistributionSummary describes the published score distribution.
type DistributionSummary struct {
	Count  int
	Mean   float64
	Stddev float64
	Min    int
	P25    float64
	Median float64
	P75    float64
	Max    int
}

// SummarizeScores computes the credit-score distribution summary.
func SummarizeScores(records []*domain.ScoreRecord) DistributionSummary {
	n := len(records)
	if n == 0 {
		return DistributionSummary{}
	}

	scores := make([]float64, n)
	for i, r := range records {
		scores[i] = float64(r.CreditScore)
	}
	sort.Float64s(scores)

	s := DistributionSummary{
		Count:  n,
		Mean:   stat.Mean(scores, nil),
		Min:    int(scores[0]),
		P25:    stat.Quantile(0.25, stat.LinInterp, scores, nil),
		Median: stat.Quantile(0.5, stat.LinInterp, scores, nil),
		P75:    stat.Quantile(0.75, stat.LinInterp, scores, nil),
		Max:    int(scores[n-1]),
	}
	if n > 1 {
		s.Stddev = stat.StdDev(scores, nil)
	}
	return s
}

// Interpretation bands for published scores, highest first.
var bands = []struct {
	min   int
	label string
}{
	{800, "Excellent (responsible, consistent repayments)"},
	{600, "Good (reliable users)"},
	{400, "Average (some risk factors)"},
	{200, "Risky (irregular patterns)"},
	{0, "High risk (liquidations/bot-like)"},
}

// InterpretScore maps a credit score onto its interpretation band.
func InterpretScore(score int) string {
	for _, b := range bands {
		if score >= b.min {
			return b.label
		}
	}
	return bands[len(bands)-1].label
}
