// Package explain derives feature attribution for a calibrated model: which
// behavioral signals drove each score. It consumes the fitted model, the
// fitted scaler and the feature table, and never refits either artifact.
package explain

import (
	"fmt"
	"sort"

	"wallet-credit-lab/internal/calibration"
	"wallet-credit-lab/internal/calibration/gbt"
	"wallet-credit-lab/internal/domain"
)

// FeatureAttribution is one row of the global attribution table.
type FeatureAttribution struct {
	Feature    string
	Importance float64 // normalized split gain, sums to 1 across features
}

// WalletDriver names the features that pushed one wallet's score hardest,
// strongest absolute contribution first.
type WalletDriver struct {
	WalletID string
	Features []FeatureContribution
}

// FeatureContribution is a signed per-wallet feature effect on the raw
// model output (pre-clip score points).
type FeatureContribution struct {
	Feature      string
	Contribution float64
}

// Reporter computes attribution from the fitted artifacts.
type Reporter struct {
	model  *gbt.Model
	scaler *calibration.RobustScaler
}

// NewReporter wraps the fitted artifacts. Both are read-only.
func NewReporter(model *gbt.Model, scaler *calibration.RobustScaler) *Reporter {
	return &Reporter{model: model, scaler: scaler}
}

// GlobalAttribution returns per-feature importance sorted descending, with
// feature name ASC as tie-break for deterministic output.
func (r *Reporter) GlobalAttribution() ([]FeatureAttribution, error) {
	names := domain.FeatureColumns()
	if len(names) != r.model.NumFeatures {
		return nil, fmt.Errorf("explain: model has %d features, table has %d", r.model.NumFeatures, len(names))
	}

	importances := r.model.FeatureImportances()
	rows := make([]FeatureAttribution, len(names))
	for i, name := range names {
		rows[i] = FeatureAttribution{Feature: name, Importance: importances[i]}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Importance != rows[j].Importance {
			return rows[i].Importance > rows[j].Importance
		}
		return rows[i].Feature < rows[j].Feature
	})
	return rows, nil
}

// WalletDrivers returns the topN contributing features per wallet. The
// feature table must be row-aligned with the score table produced by the
// same calibration run.
func (r *Reporter) WalletDrivers(vectors []*domain.WalletFeatureVector, topN int) ([]WalletDriver, error) {
	names := domain.FeatureColumns()
	drivers := make([]WalletDriver, 0, len(vectors))

	for _, f := range vectors {
		row := f.Row()
		calibration.Sanitize([][]float64{row})
		scaled, err := r.scaler.TransformRow(row)
		if err != nil {
			return nil, fmt.Errorf("wallet %s: %w", f.WalletID, err)
		}
		_, contribs, err := r.model.Contributions(scaled)
		if err != nil {
			return nil, fmt.Errorf("wallet %s: %w", f.WalletID, err)
		}

		all := make([]FeatureContribution, len(names))
		for i, name := range names {
			all[i] = FeatureContribution{Feature: name, Contribution: contribs[i]}
		}
		sort.Slice(all, func(i, j int) bool {
			ai, aj := abs(all[i].Contribution), abs(all[j].Contribution)
			if ai != aj {
				return ai > aj
			}
			return all[i].Feature < all[j].Feature
		})
		if topN > 0 && topN < len(all) {
			all = all[:topN]
		}
		drivers = append(drivers, WalletDriver{WalletID: f.WalletID, Features: all})
	}

	return drivers, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
