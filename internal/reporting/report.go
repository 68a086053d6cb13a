// Package reporting renders the scoring run's output files: the score and
// feature CSVs, the attribution CSV and the markdown score report.
package reporting

import (
	"time"

	"wallet-credit-lab/internal/explain"
)

// Report is the renderable summary of one scoring run.
type Report struct {
	GeneratedAt time.Time

	// Dataset summary
	TotalEvents    int
	TotalWallets   int
	DateRangeStart int64 // Unix seconds; 0 when unknown
	DateRangeEnd   int64

	// Non-finite feature cells replaced before scaling
	SanitizedCells int

	Distribution explain.DistributionSummary
	Attribution  []explain.FeatureAttribution

	// Highest and lowest scored wallets (wallet id + credit score)
	TopWallets    []ScoreRow
	BottomWallets []ScoreRow

	// Reproducibility metadata
	DataVersion   string // short hash over the score table
	ReplayCommand string
}

// ScoreRow is one row of the published score table.
type ScoreRow struct {
	WalletID    string
	CreditScore int
}
