package reporting

import (
	"fmt"
	"strconv"
	"strings"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/explain"
)

// RenderScoresCSV renders the published score table: one row per wallet,
// no duplicates.
func RenderScoresCSV(records []*domain.ScoreRecord) string {
	var sb strings.Builder
	sb.WriteString("wallet_id,credit_score\n")
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("%s,%d\n", r.WalletID, r.CreditScore))
	}
	return sb.String()
}

// RenderFeaturesCSV renders the feature table consumed by the explainability
// step: wallet_id plus all feature columns, row-aligned with the score table.
func RenderFeaturesCSV(vectors []*domain.WalletFeatureVector) string {
	var sb strings.Builder
	sb.WriteString("wallet_id," + strings.Join(domain.FeatureColumns(), ",") + "\n")
	for _, f := range vectors {
		sb.WriteString(f.WalletID)
		for _, v := range f.Row() {
			sb.WriteString(fmt.Sprintf(",%.6f", v))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderAttributionCSV renders the global feature-attribution table.
func RenderAttributionCSV(rows []explain.FeatureAttribution) string {
	var sb strings.Builder
	sb.WriteString("feature,importance\n")
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%.6f\n", r.Feature, r.Importance))
	}
	return sb.String()
}

// ParseFeaturesCSV reads a feature table previously written by
// RenderFeaturesCSV. The header must match the canonical column order.
func ParseFeaturesCSV(data string) ([]*domain.WalletFeatureVector, error) {
	lines := strings.Split(strings.TrimSpace(data), "\n")
	if len(lines) < 1 {
		return nil, fmt.Errorf("parse features: empty input")
	}

	wantHeader := "wallet_id," + strings.Join(domain.FeatureColumns(), ",")
	if lines[0] != wantHeader {
		return nil, fmt.Errorf("parse features: unexpected header %q", lines[0])
	}

	numCols := len(domain.FeatureColumns())
	vectors := make([]*domain.WalletFeatureVector, 0, len(lines)-1)
	for lineNo, line := range lines[1:] {
		fields := strings.Split(line, ",")
		if len(fields) != numCols+1 {
			return nil, fmt.Errorf("parse features: line %d has %d fields, want %d", lineNo+2, len(fields), numCols+1)
		}
		row := make([]float64, numCols)
		for j, raw := range fields[1:] {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("parse features: line %d column %d: %w", lineNo+2, j+2, err)
			}
			row[j] = v
		}
		vectors = append(vectors, vectorFromRow(fields[0], row))
	}
	return vectors, nil
}

// vectorFromRow rebuilds a feature vector from values in FeatureColumns order.
func vectorFromRow(walletID string, row []float64) *domain.WalletFeatureVector {
	return &domain.WalletFeatureVector{
		WalletID: walletID,

		TxCount:        int(row[0]),
		UniqueAssets:   int(row[1]),
		DaysActive:     row[2],
		TxFrequencyStd: row[3],

		DepositRatio:     row[4],
		BorrowRatio:      row[5],
		RepayRatio:       row[6],
		RedeemRatio:      row[7],
		LiquidationRatio: row[8],
		OtherRatio:       row[9],

		LiquidationCount: int(row[10]),

		AvgTxValue: row[11],
		ValueStd:   row[12],
		TotalValue: row[13],

		NightTxRatio:    row[14],
		WorkhourTxRatio: row[15],

		BotLikelihood: int(row[16]),
	}
}
