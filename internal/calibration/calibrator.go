// Package calibration turns heuristic baseline scores into the published
// credit score: it sanitizes the feature matrix, fits a robust scaler, fits
// a gradient-boosted regressor against the baseline, and clips the rounded
// predictions to the published range. The fitted scaler and model are
// retained as immutable artifacts for the explainability step.
package calibration

import (
	"errors"
	"fmt"
	"math"

	"wallet-credit-lab/internal/calibration/gbt"
	"wallet-credit-lab/internal/domain"
)

// ErrInsufficientData is returned when the batch is too small to fit a
// regression: fewer than 2 wallets, or no feature columns.
var ErrInsufficientData = errors.New("calibration: insufficient data to fit regression")

// ModelFitError wraps an underlying numerical failure of scaling or fitting.
// The whole batch run aborts; no partial score table is published.
type ModelFitError struct {
	Stage string // "scale" or "fit"
	Err   error
}

func (e *ModelFitError) Error() string {
	return fmt.Sprintf("calibration: %s failed: %v", e.Stage, e.Err)
}

func (e *ModelFitError) Unwrap() error { return e.Err }

// Result is the output of one calibration run.
type Result struct {
	Records []*domain.ScoreRecord // one per wallet, aligned with the input batch
	Scaler  *RobustScaler
	Model   *gbt.Model

	// SanitizedCells counts non-finite feature cells replaced with 0
	// before scaling.
	SanitizedCells int
}

// Calibrate fits the two-stage model and produces the published scores.
// vectors and baseScores must be aligned index-for-index. Order is fixed:
// sanitize, fit scaler, transform, fit regressor, predict, clip — reordering
// would change the learned target distribution.
func Calibrate(vectors []*domain.WalletFeatureVector, baseScores []int, params gbt.Params) (*Result, error) {
	if len(vectors) < 2 {
		return nil, ErrInsufficientData
	}
	if len(vectors) != len(baseScores) {
		return nil, fmt.Errorf("calibration: %d vectors but %d base scores", len(vectors), len(baseScores))
	}
	if len(domain.FeatureColumns()) == 0 {
		return nil, ErrInsufficientData
	}

	x := FeatureMatrix(vectors)
	sanitized := Sanitize(x)

	scaler, err := FitRobustScaler(x)
	if err != nil {
		return nil, &ModelFitError{Stage: "scale", Err: err}
	}
	scaled, err := scaler.Transform(x)
	if err != nil {
		return nil, &ModelFitError{Stage: "scale", Err: err}
	}

	y := make([]float64, len(baseScores))
	for i, s := range baseScores {
		y[i] = float64(s)
	}

	model, err := gbt.Fit(scaled, y, params)
	if err != nil {
		if errors.Is(err, gbt.ErrTooFewSamples) || errors.Is(err, gbt.ErrNoFeatures) {
			return nil, ErrInsufficientData
		}
		return nil, &ModelFitError{Stage: "fit", Err: err}
	}

	predictions, err := model.PredictBatch(scaled)
	if err != nil {
		return nil, &ModelFitError{Stage: "fit", Err: err}
	}

	records := make([]*domain.ScoreRecord, len(vectors))
	for i, f := range vectors {
		records[i] = &domain.ScoreRecord{
			WalletID:    f.WalletID,
			BaseScore:   baseScores[i],
			CreditScore: clipCredit(predictions[i]),
		}
	}

	return &Result{
		Records:        records,
		Scaler:         scaler,
		Model:          model,
		SanitizedCells: sanitized,
	}, nil
}

// FeatureMatrix builds the feature matrix in domain.FeatureColumns order,
// aligned row-for-row with the input batch. Identifiers and score columns
// are excluded by construction.
func FeatureMatrix(vectors []*domain.WalletFeatureVector) [][]float64 {
	x := make([][]float64, len(vectors))
	for i, f := range vectors {
		x[i] = f.Row()
	}
	return x
}

// clipCredit rounds and clamps a raw prediction to the published range.
// Full-range clip, independent of the baseline's [300,700] training range.
func clipCredit(v float64) int {
	if math.IsNaN(v) {
		return domain.CreditScoreMin
	}
	if v < domain.CreditScoreMin {
		return domain.CreditScoreMin
	}
	if v > domain.CreditScoreMax {
		return domain.CreditScoreMax
	}
	return int(math.Round(v))
}
