// Package scoring produces the heuristic baseline score: a fixed, clipped
// weighted-rule combination of a wallet's feature vector. The baseline is a
// training target for calibration, not the published score.
package scoring

// RiskRules is the immutable risk-rule weight table. Pass it by value; there
// is no module-level mutable state, so alternative rule tables can be swapped
// in for tests or re-tuning.
type RiskRules struct {
	RepaymentReward      float64 // applied to repay_ratio
	LongevityReward      float64 // per day active
	DepositBonus         float64 // applied to deposit_ratio
	BorrowPenalty        float64 // applied to borrow_ratio
	LiquidationPenalty   float64 // per liquidation event
	HighFrequencyPenalty float64 // applied when tx_frequency_std < HighFrequencyStdSeconds
	BotPenalty           float64 // applied to bot_likelihood

	// HighFrequencyStdSeconds is the gap-stddev threshold below which the
	// high-frequency penalty applies.
	HighFrequencyStdSeconds float64
}

// DefaultRules returns the production risk-rule weights.
func DefaultRules() RiskRules {
	return RiskRules{
		RepaymentReward:      300,
		LongevityReward:      2,
		DepositBonus:         50,
		BorrowPenalty:        -30,
		LiquidationPenalty:   -200,
		HighFrequencyPenalty: -150,
		BotPenalty:           -100,

		HighFrequencyStdSeconds: 60,
	}
}
