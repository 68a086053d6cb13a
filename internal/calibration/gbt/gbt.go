// Package gbt implements gradient-boosted regression trees: squared-error
// gradient boosting with exact greedy splits, shrinkage and optional seeded
// row subsampling. Fitting is deterministic for a fixed seed, and fitted
// models serialize to JSON for reuse without refitting.
package gbt

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// Params are the boosting hyperparameters.
type Params struct {
	NumTrees       int     `json:"num_trees"`
	LearningRate   float64 `json:"learning_rate"`
	MaxDepth       int     `json:"max_depth"`
	MinLeafSamples int     `json:"min_leaf_samples"`
	Subsample      float64 `json:"subsample"` // fraction of rows per tree, (0,1]
	Seed           int64   `json:"seed"`
}

// DefaultParams returns the production hyperparameters: a large ensemble
// with a small learning rate and a fixed seed.
func DefaultParams() Params {
	return Params{
		NumTrees:       500,
		LearningRate:   0.05,
		MaxDepth:       3,
		MinLeafSamples: 2,
		Subsample:      1.0,
		Seed:           42,
	}
}

// Model is a fitted ensemble. Immutable after Fit; safe for concurrent
// read-only use.
type Model struct {
	BasePrediction float64 `json:"base_prediction"`
	LearningRate   float64 `json:"learning_rate"`
	NumFeatures    int     `json:"num_features"`
	Trees          []*Tree `json:"trees"`
}

var (
	// ErrTooFewSamples is returned when fewer than 2 samples are provided.
	ErrTooFewSamples = errors.New("gbt: need at least 2 samples")

	// ErrNoFeatures is returned when the feature matrix has no columns.
	ErrNoFeatures = errors.New("gbt: feature matrix has no columns")
)

// Fit trains an ensemble on x against y. x must be rectangular and fully
// finite; non-finite cells are the caller's responsibility to sanitize
// before fitting.
func Fit(x [][]float64, y []float64, p Params) (*Model, error) {
	if len(x) < 2 {
		return nil, ErrTooFewSamples
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("gbt: %d rows but %d targets", len(x), len(y))
	}
	numFeatures := len(x[0])
	if numFeatures == 0 {
		return nil, ErrNoFeatures
	}
	for i, row := range x {
		if len(row) != numFeatures {
			return nil, fmt.Errorf("gbt: row %d has %d features, want %d", i, len(row), numFeatures)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("gbt: non-finite value at row %d column %d", i, j)
			}
		}
	}
	if p.NumTrees <= 0 || p.LearningRate <= 0 || p.MaxDepth <= 0 {
		return nil, fmt.Errorf("gbt: invalid params %+v", p)
	}
	if p.MinLeafSamples < 1 {
		p.MinLeafSamples = 1
	}
	if p.Subsample <= 0 || p.Subsample > 1 {
		p.Subsample = 1
	}

	base := 0.0
	for _, v := range y {
		base += v
	}
	base /= float64(len(y))

	model := &Model{
		BasePrediction: base,
		LearningRate:   p.LearningRate,
		NumFeatures:    numFeatures,
		Trees:          make([]*Tree, 0, p.NumTrees),
	}

	predictions := make([]float64, len(y))
	for i := range predictions {
		predictions[i] = base
	}

	residuals := make([]float64, len(y))
	rng := rand.New(rand.NewSource(p.Seed))
	allRows := make([]int, len(y))
	for i := range allRows {
		allRows[i] = i
	}

	for t := 0; t < p.NumTrees; t++ {
		for i := range y {
			residuals[i] = y[i] - predictions[i]
		}

		rows := allRows
		if p.Subsample < 1 {
			rows = sampleRows(rng, len(y), p.Subsample)
		}

		builder := &treeBuilder{
			x:              x,
			y:              residuals,
			maxDepth:       p.MaxDepth,
			minLeafSamples: p.MinLeafSamples,
		}
		tree := &Tree{Root: builder.build(rows, 0)}
		model.Trees = append(model.Trees, tree)

		for i, row := range x {
			predictions[i] += p.LearningRate * tree.predict(row)
		}
	}

	return model, nil
}

// sampleRows draws a deterministic subsample of row indices without
// replacement, in ascending order.
func sampleRows(rng *rand.Rand, n int, fraction float64) []int {
	k := int(math.Round(fraction * float64(n)))
	if k < 2 {
		k = 2
	}
	perm := rng.Perm(n)[:k]
	rows := make([]int, k)
	copy(rows, perm)
	sortInts(rows)
	return rows
}

func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j] < xs[j-1]; j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
}

// Predict returns the model output for one sample.
func (m *Model) Predict(x []float64) (float64, error) {
	if len(x) != m.NumFeatures {
		return 0, fmt.Errorf("gbt: sample has %d features, want %d", len(x), m.NumFeatures)
	}
	out := m.BasePrediction
	for _, t := range m.Trees {
		out += m.LearningRate * t.predict(x)
	}
	return out, nil
}

// PredictBatch returns model outputs aligned index-for-index with x.
func (m *Model) PredictBatch(x [][]float64) ([]float64, error) {
	out := make([]float64, len(x))
	for i, row := range x {
		v, err := m.Predict(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// FeatureImportances returns per-feature split gains summed over the
// ensemble, normalized to sum to 1. All-zero when no splits were made.
func (m *Model) FeatureImportances() []float64 {
	gains := make([]float64, m.NumFeatures)
	for _, t := range m.Trees {
		accumulateGains(t.Root, gains)
	}
	total := 0.0
	for _, g := range gains {
		total += g
	}
	if total > 0 {
		for i := range gains {
			gains[i] /= total
		}
	}
	return gains
}

func accumulateGains(n *Node, gains []float64) {
	if n == nil || n.IsLeaf() {
		return
	}
	gains[n.Feature] += n.Gain
	accumulateGains(n.Left, gains)
	accumulateGains(n.Right, gains)
}

// Contributions decomposes one prediction into a bias term plus per-feature
// contributions: each split's change in expected value is attributed to the
// split feature. bias + sum(contribs) equals Predict(x).
func (m *Model) Contributions(x []float64) (bias float64, contribs []float64, err error) {
	if len(x) != m.NumFeatures {
		return 0, nil, fmt.Errorf("gbt: sample has %d features, want %d", len(x), m.NumFeatures)
	}
	bias = m.BasePrediction
	contribs = make([]float64, m.NumFeatures)
	for _, t := range m.Trees {
		n := t.Root
		bias += m.LearningRate * n.Value
		for !n.IsLeaf() {
			child := n.Right
			if x[n.Feature] <= n.Threshold {
				child = n.Left
			}
			contribs[n.Feature] += m.LearningRate * (child.Value - n.Value)
			n = child
		}
	}
	return bias, contribs, nil
}
