package domain

// Baseline and published score bounds.
const (
	BaseScoreMin = 300
	BaseScoreMax = 700

	CreditScoreMin = 0
	CreditScoreMax = 1000
)

// ScoreRecord is the published per-wallet scoring result. BaseScore is the
// heuristic training target only; CreditScore is the calibrated model output.
// The two ranges are intentionally independent: the calibrated score is never
// re-clipped to the baseline's [300,700] range.
type ScoreRecord struct {
	WalletID    string
	BaseScore   int // in [BaseScoreMin, BaseScoreMax]
	CreditScore int // in [CreditScoreMin, CreditScoreMax]
}
