package domain

// WalletFeatureVector holds the fixed per-wallet feature set derived from
// that wallet's own events only. Exactly one vector exists per distinct
// wallet in the batch. Corresponds to the wallet_features analytics table.
type WalletFeatureVector struct {
	WalletID string

	TxCount      int     // number of events, >= 1
	UniqueAssets int     // distinct asset symbols, >= 1
	DaysActive   float64 // span between first and last event in days; 0 for one event

	// TxFrequencyStd is the population standard deviation of inter-event
	// gaps in seconds, computed over sorted timestamps. 0 with fewer
	// than 2 gaps.
	TxFrequencyStd float64

	// Action ratios: fraction of this wallet's events per kind.
	// Sums to 1 over all kinds.
	DepositRatio     float64
	BorrowRatio      float64
	RepayRatio       float64
	RedeemRatio      float64
	LiquidationRatio float64
	OtherRatio       float64

	LiquidationCount int // raw count of liquidation events

	AvgTxValue float64
	ValueStd   float64 // population std; 0 for a single event
	TotalValue float64

	NightTxRatio    float64 // hour in [0,6) or (22,24)
	WorkhourTxRatio float64 // hour in [9,17]

	// BotLikelihood is 1 iff more than 10 inter-event gaps exist and
	// their mean is under 60 seconds, else 0.
	BotLikelihood int
}

// featureColumns is the canonical feature column order. The feature matrix,
// the persisted feature table and attribution output all share it.
var featureColumns = []string{
	"tx_count",
	"unique_assets",
	"days_active",
	"tx_frequency_std",
	"deposit_ratio",
	"borrow_ratio",
	"repay_ratio",
	"redeem_ratio",
	"liquidation_ratio",
	"other_ratio",
	"liquidation_count",
	"avg_tx_value",
	"value_std",
	"total_value",
	"night_tx_ratio",
	"workhour_tx_ratio",
	"bot_likelihood",
}

// FeatureColumns returns the canonical feature column names, excluding the
// wallet identifier and both score columns.
func FeatureColumns() []string {
	cols := make([]string, len(featureColumns))
	copy(cols, featureColumns)
	return cols
}

// Row returns the feature values in FeatureColumns order.
func (f *WalletFeatureVector) Row() []float64 {
	return []float64{
		float64(f.TxCount),
		float64(f.UniqueAssets),
		f.DaysActive,
		f.TxFrequencyStd,
		f.DepositRatio,
		f.BorrowRatio,
		f.RepayRatio,
		f.RedeemRatio,
		f.LiquidationRatio,
		f.OtherRatio,
		float64(f.LiquidationCount),
		f.AvgTxValue,
		f.ValueStd,
		f.TotalValue,
		f.NightTxRatio,
		f.WorkhourTxRatio,
		float64(f.BotLikelihood),
	}
}

// ActionRatio returns the ratio for a single kind.
func (f *WalletFeatureVector) ActionRatio(kind ActionKind) float64 {
	switch kind {
	case ActionDeposit:
		return f.DepositRatio
	case ActionBorrow:
		return f.BorrowRatio
	case ActionRepay:
		return f.RepayRatio
	case ActionRedeem:
		return f.RedeemRatio
	case ActionLiquidation:
		return f.LiquidationRatio
	default:
		return f.OtherRatio
	}
}
