package calibration

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// RobustScaler centers on the per-column median and scales by the
// interquartile range, so outlier transaction values do not dominate the
// scaling parameters. Immutable once fitted; the fitted parameters are an
// artifact reused at explanation time and must never be refit on new data
// without retraining the model.
type RobustScaler struct {
	Center []float64 `json:"center"` // per-column median
	Scale  []float64 `json:"scale"`  // per-column IQR; 1 where IQR is 0
}

// FitRobustScaler fits scaling parameters on a rectangular feature matrix.
// Columns with zero interquartile range keep unit scale.
func FitRobustScaler(x [][]float64) (*RobustScaler, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("fit scaler: empty matrix")
	}
	numCols := len(x[0])
	if numCols == 0 {
		return nil, fmt.Errorf("fit scaler: no feature columns")
	}

	s := &RobustScaler{
		Center: make([]float64, numCols),
		Scale:  make([]float64, numCols),
	}

	column := make([]float64, len(x))
	for j := 0; j < numCols; j++ {
		for i, row := range x {
			if len(row) != numCols {
				return nil, fmt.Errorf("fit scaler: row %d has %d columns, want %d", i, len(row), numCols)
			}
			column[i] = row[j]
		}
		sort.Float64s(column)

		s.Center[j] = stat.Quantile(0.5, stat.LinInterp, column, nil)
		iqr := stat.Quantile(0.75, stat.LinInterp, column, nil) -
			stat.Quantile(0.25, stat.LinInterp, column, nil)
		if iqr == 0 {
			iqr = 1
		}
		s.Scale[j] = iqr
	}

	return s, nil
}

// Transform returns a scaled copy of the matrix. The input is not modified.
func (s *RobustScaler) Transform(x [][]float64) ([][]float64, error) {
	out := make([][]float64, len(x))
	for i, row := range x {
		scaled, err := s.TransformRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = scaled
	}
	return out, nil
}

// TransformRow scales a single feature row.
func (s *RobustScaler) TransformRow(row []float64) ([]float64, error) {
	if len(row) != len(s.Center) {
		return nil, fmt.Errorf("scaler: row has %d columns, want %d", len(row), len(s.Center))
	}
	scaled := make([]float64, len(row))
	for j, v := range row {
		scaled[j] = (v - s.Center[j]) / s.Scale[j]
	}
	return scaled, nil
}
