package calibration

import (
	"errors"
	"math"
	"testing"

	"wallet-credit-lab/internal/calibration/gbt"
	"wallet-credit-lab/internal/domain"
)

func testParams() gbt.Params {
	p := gbt.DefaultParams()
	p.NumTrees = 50
	return p
}

// testBatch builds a feature batch with enough spread for the scaler and
// the regressor to have something to learn.
func testBatch(n int) ([]*domain.WalletFeatureVector, []int) {
	vectors := make([]*domain.WalletFeatureVector, n)
	baseScores := make([]int, n)
	for i := 0; i < n; i++ {
		vectors[i] = &domain.WalletFeatureVector{
			WalletID:       string(rune('a' + i)),
			TxCount:        i + 1,
			UniqueAssets:   1,
			DaysActive:     float64(i) * 10,
			TxFrequencyStd: 3600,
			RepayRatio:     float64(i) / float64(n),
			DepositRatio:   1 - float64(i)/float64(n),
			AvgTxValue:     float64(i) * 100,
			TotalValue:     float64(i) * 100 * float64(i+1),
		}
		baseScores[i] = 350 + i*35
	}
	return vectors, baseScores
}

func TestCalibrate_InsufficientData(t *testing.T) {
	vectors, baseScores := testBatch(1)
	_, err := Calibrate(vectors, baseScores, testParams())
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData for 1 wallet, got %v", err)
	}
}

func TestCalibrate_AlignmentMismatch(t *testing.T) {
	vectors, _ := testBatch(3)
	_, err := Calibrate(vectors, []int{500}, testParams())
	if err == nil {
		t.Fatal("expected error for vector/score misalignment, got nil")
	}
}

func TestCalibrate_ScoresInPublishedRange(t *testing.T) {
	vectors, baseScores := testBatch(10)

	result, err := Calibrate(vectors, baseScores, testParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Records) != 10 {
		t.Fatalf("expected 10 records, got %d", len(result.Records))
	}

	for i, r := range result.Records {
		if r.WalletID != vectors[i].WalletID {
			t.Errorf("record %d wallet = %s, want %s", i, r.WalletID, vectors[i].WalletID)
		}
		if r.BaseScore != baseScores[i] {
			t.Errorf("record %d base score = %d, want %d", i, r.BaseScore, baseScores[i])
		}
		if r.CreditScore < domain.CreditScoreMin || r.CreditScore > domain.CreditScoreMax {
			t.Errorf("record %d credit score %d out of [%d, %d]",
				i, r.CreditScore, domain.CreditScoreMin, domain.CreditScoreMax)
		}
	}
}

func TestCalibrate_TracksBaseline(t *testing.T) {
	// With a full-size deterministic ensemble the calibrated scores should
	// land close to their training targets.
	vectors, baseScores := testBatch(10)

	result, err := Calibrate(vectors, baseScores, gbt.DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The leaf-size floor keeps the ensemble from interpolating every
	// target exactly; half the inter-target gap bounds the residual.
	for i, r := range result.Records {
		if math.Abs(float64(r.CreditScore-baseScores[i])) > 25 {
			t.Errorf("wallet %s: credit %d too far from baseline %d",
				r.WalletID, r.CreditScore, baseScores[i])
		}
	}
	// Baseline ordering is preserved.
	for i := 1; i < len(result.Records); i++ {
		if result.Records[i].CreditScore < result.Records[i-1].CreditScore {
			t.Errorf("ordering inverted at %d: %d then %d",
				i, result.Records[i-1].CreditScore, result.Records[i].CreditScore)
		}
	}
}

func TestCalibrate_Deterministic(t *testing.T) {
	vectors, baseScores := testBatch(8)

	a, err := Calibrate(vectors, baseScores, testParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Calibrate(vectors, baseScores, testParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range a.Records {
		if a.Records[i].CreditScore != b.Records[i].CreditScore {
			t.Errorf("wallet %s: scores differ across identical runs: %d vs %d",
				a.Records[i].WalletID, a.Records[i].CreditScore, b.Records[i].CreditScore)
		}
	}
}

func TestCalibrate_SanitizesNonFiniteCells(t *testing.T) {
	vectors, baseScores := testBatch(5)
	vectors[0].DaysActive = math.NaN()
	vectors[1].AvgTxValue = math.Inf(1)
	vectors[2].ValueStd = math.Inf(-1)

	result, err := Calibrate(vectors, baseScores, testParams())
	if err != nil {
		t.Fatalf("expected degenerate cells to be recovered, got error: %v", err)
	}
	if result.SanitizedCells != 3 {
		t.Errorf("expected 3 sanitized cells, got %d", result.SanitizedCells)
	}
	for _, r := range result.Records {
		if r.CreditScore < domain.CreditScoreMin || r.CreditScore > domain.CreditScoreMax {
			t.Errorf("wallet %s: score %d out of range after sanitation", r.WalletID, r.CreditScore)
		}
	}
}

func TestCalibrate_RetainsArtifacts(t *testing.T) {
	vectors, baseScores := testBatch(6)

	result, err := Calibrate(vectors, baseScores, testParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Model == nil || result.Scaler == nil {
		t.Fatal("expected fitted model and scaler to be retained")
	}
	if result.Model.NumFeatures != len(domain.FeatureColumns()) {
		t.Errorf("model has %d features, want %d", result.Model.NumFeatures, len(domain.FeatureColumns()))
	}
	if len(result.Scaler.Center) != len(domain.FeatureColumns()) {
		t.Errorf("scaler has %d columns, want %d", len(result.Scaler.Center), len(domain.FeatureColumns()))
	}
}

func TestSanitize_CountsReplacedCells(t *testing.T) {
	x := [][]float64{
		{1, math.NaN(), 3},
		{math.Inf(1), 5, math.Inf(-1)},
	}

	replaced := Sanitize(x)
	if replaced != 3 {
		t.Errorf("expected 3 replaced cells, got %d", replaced)
	}
	for i, row := range x {
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("cell (%d,%d) still non-finite: %f", i, j, v)
			}
		}
	}
	if x[0][0] != 1 || x[1][1] != 5 {
		t.Errorf("finite cells were modified: %v", x)
	}

	if Sanitize(x) != 0 {
		t.Error("second pass should replace nothing")
	}
}
