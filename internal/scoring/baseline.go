package scoring

import (
	"math"

	"wallet-credit-lab/internal/domain"
)

const baseScoreMidpoint = 500

// BaseScore computes the heuristic baseline score for one wallet, clipped to
// [domain.BaseScoreMin, domain.BaseScoreMax]. Total function of the feature
// vector: every input yields a finite in-range integer.
func BaseScore(f *domain.WalletFeatureVector, rules RiskRules) int {
	score := float64(baseScoreMidpoint) +
		rules.RepaymentReward*f.RepayRatio +
		rules.LongevityReward*f.DaysActive +
		rules.DepositBonus*f.DepositRatio +
		rules.BorrowPenalty*f.BorrowRatio +
		rules.LiquidationPenalty*float64(f.LiquidationCount) +
		rules.BotPenalty*float64(f.BotLikelihood)

	if f.TxFrequencyStd < rules.HighFrequencyStdSeconds {
		score += rules.HighFrequencyPenalty
	}

	return clipRound(score, domain.BaseScoreMin, domain.BaseScoreMax)
}

// BaseScoreBatch computes baseline scores for a feature vector batch,
// aligned index-for-index with the input.
func BaseScoreBatch(vectors []*domain.WalletFeatureVector, rules RiskRules) []int {
	scores := make([]int, len(vectors))
	for i, f := range vectors {
		scores[i] = BaseScore(f, rules)
	}
	return scores
}

// clipRound clamps v to [lo, hi] and rounds to the nearest integer.
// NaN collapses to lo so degenerate inputs still yield an in-range score.
func clipRound(v float64, lo, hi int) int {
	if math.IsNaN(v) {
		return lo
	}
	if v < float64(lo) {
		return lo
	}
	if v > float64(hi) {
		return hi
	}
	return int(math.Round(v))
}
