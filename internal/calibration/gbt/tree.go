package gbt

import "sort"

// Node is one node of a regression tree. Feature == -1 marks a leaf.
// Value holds the mean target of the samples that reached the node, for
// internal nodes as well as leaves, so prediction paths can be decomposed
// into per-feature contributions.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Value     float64 `json:"value"`
	Gain      float64 `json:"gain,omitempty"`
	Left      *Node   `json:"left,omitempty"`
	Right     *Node   `json:"right,omitempty"`
}

// IsLeaf reports whether the node is terminal.
func (n *Node) IsLeaf() bool {
	return n.Feature < 0
}

// Tree is a single regression tree fit to residuals.
type Tree struct {
	Root *Node `json:"root"`
}

// predict walks the tree for one sample.
func (t *Tree) predict(x []float64) float64 {
	n := t.Root
	for !n.IsLeaf() {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

// treeBuilder grows a tree with exact greedy squared-error splits.
type treeBuilder struct {
	x              [][]float64
	y              []float64
	maxDepth       int
	minLeafSamples int
}

// split describes the best candidate split of a node.
type split struct {
	feature   int
	threshold float64
	gain      float64
	left      []int
	right     []int
}

func (b *treeBuilder) build(indices []int, depth int) *Node {
	node := &Node{
		Feature: -1,
		Value:   meanAt(b.y, indices),
	}

	if depth >= b.maxDepth || len(indices) < 2*b.minLeafSamples {
		return node
	}

	s := b.bestSplit(indices)
	if s == nil {
		return node
	}

	node.Feature = s.feature
	node.Threshold = s.threshold
	node.Gain = s.gain
	node.Left = b.build(s.left, depth+1)
	node.Right = b.build(s.right, depth+1)
	return node
}

// bestSplit scans every feature for the squared-error-reducing split with
// the highest gain. Ties resolve to the lowest feature index, then the
// lowest threshold, keeping tree construction deterministic.
func (b *treeBuilder) bestSplit(indices []int) *split {
	const minGain = 1e-12

	var total, totalSq float64
	for _, i := range indices {
		total += b.y[i]
		totalSq += b.y[i] * b.y[i]
	}
	n := float64(len(indices))
	parentSSE := totalSq - total*total/n

	var best *split
	numFeatures := len(b.x[indices[0]])

	order := make([]int, len(indices))
	for f := 0; f < numFeatures; f++ {
		copy(order, indices)
		sort.SliceStable(order, func(a, c int) bool {
			return b.x[order[a]][f] < b.x[order[c]][f]
		})

		var leftSum, leftSq float64
		for pos := 0; pos < len(order)-1; pos++ {
			i := order[pos]
			leftSum += b.y[i]
			leftSq += b.y[i] * b.y[i]

			cur, next := b.x[i][f], b.x[order[pos+1]][f]
			if cur == next {
				continue
			}

			nl := float64(pos + 1)
			nr := n - nl
			if int(nl) < b.minLeafSamples || int(nr) < b.minLeafSamples {
				continue
			}

			rightSum := total - leftSum
			rightSq := totalSq - leftSq
			childSSE := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			gain := parentSSE - childSSE
			if gain <= minGain {
				continue
			}

			threshold := cur + (next-cur)/2
			if best == nil || gain > best.gain ||
				(gain == best.gain && (f < best.feature ||
					(f == best.feature && threshold < best.threshold))) {
				best = &split{feature: f, threshold: threshold, gain: gain}
			}
		}
	}

	if best == nil {
		return nil
	}

	for _, i := range indices {
		if b.x[i][best.feature] <= best.threshold {
			best.left = append(best.left, i)
		} else {
			best.right = append(best.right, i)
		}
	}
	return best
}

func meanAt(y []float64, indices []int) float64 {
	s := 0.0
	for _, i := range indices {
		s += y[i]
	}
	return s / float64(len(indices))
}
