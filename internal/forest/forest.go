// Package forest implements a random-forest regressor: bootstrap-sampled
// trees with greedy variance-reduction splits and mean-leaf prediction.
// Training is deterministic for a fixed seed.
package forest

import (
	"encoding/gob"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
)

// Config holds the forest hyperparameters.
type Config struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	// SplitFeatures is the number of candidate features per split;
	// 0 means max(1, p/3), the usual regression default.
	SplitFeatures int
	Seed          int64
}

// Node is one decision-tree node. Leaves have Feature == -1.
type Node struct {
	Feature   int
	Threshold float64
	Left      *Node
	Right     *Node
	Value     float64
}

// Forest is a fitted model. Features records the column names the model was
// trained on, in matrix order.
type Forest struct {
	Roots    []*Node
	Features []string
	Config   Config
}

// Fit trains a forest on the feature matrix x (rows x features) against y.
func Fit(x [][]float64, y []float64, features []string, cfg Config) (*Forest, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, fmt.Errorf("training data mismatch: %d feature rows, %d targets", len(x), len(y))
	}
	p := len(x[0])
	if p == 0 {
		return nil, fmt.Errorf("no feature columns")
	}
	for i, row := range x {
		if len(row) != p {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), p)
		}
	}
	if cfg.Trees <= 0 {
		cfg.Trees = 100
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 12
	}
	if cfg.MinSamplesSplit <= 0 {
		cfg.MinSamplesSplit = 2
	}
	if cfg.SplitFeatures <= 0 {
		cfg.SplitFeatures = p / 3
		if cfg.SplitFeatures < 1 {
			cfg.SplitFeatures = 1
		}
	}

	f := &Forest{Roots: make([]*Node, cfg.Trees), Features: features, Config: cfg}
	rnd := rand.New(rand.NewSource(cfg.Seed))
	n := len(y)
	for t := 0; t < cfg.Trees; t++ {
		// Bootstrap sample with replacement.
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rnd.Intn(n)
		}
		xs, ys := subset(x, y, idx)
		f.Roots[t] = buildTree(xs, ys, cfg.MaxDepth, cfg.MinSamplesSplit, cfg.SplitFeatures, rnd)
	}
	return f, nil
}

// PredictRow averages the trees' predictions for one feature row.
func (f *Forest) PredictRow(row []float64) float64 {
	sum := 0.0
	for _, root := range f.Roots {
		sum += predictTree(root, row)
	}
	return sum / float64(len(f.Roots))
}

// Predict maps PredictRow over a feature matrix.
func (f *Forest) Predict(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = f.PredictRow(row)
	}
	return out
}

// Save writes the fitted model to path with gob encoding.
func (f *Forest) Save(path string) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create model file: %w", err)
	}
	defer fh.Close()
	if err := gob.NewEncoder(fh).Encode(f); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	return nil
}

// Load reads a model written by Save.
func Load(path string) (*Forest, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model file: %w", err)
	}
	defer fh.Close()
	var f Forest
	if err := gob.NewDecoder(fh).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return &f, nil
}

// RMSE is the root mean squared error between two equal-length vectors.
func RMSE(yTrue, yPred []float64) float64 {
	n := len(yTrue)
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := range yTrue {
		d := yTrue[i] - yPred[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}

func buildTree(x [][]float64, y []float64, depth, minSplit, nFeatures int, rnd *rand.Rand) *Node {
	if len(y) <= minSplit || depth == 0 {
		return &Node{Feature: -1, Value: mean(y)}
	}
	n := len(y)
	p := len(x[0])

	feats := featureSubset(p, nFeatures, rnd)
	bestFeat := -1
	bestThresh := 0.0
	bestScore := math.Inf(1)
	var bestLeft, bestRight []int

	for _, f := range feats {
		thresholds := candidateThresholds(x, f)
		for _, thr := range thresholds {
			var left, right []int
			for i := 0; i < n; i++ {
				if x[i][f] <= thr {
					left = append(left, i)
				} else {
					right = append(right, i)
				}
			}
			if len(left) == 0 || len(right) == 0 {
				continue
			}
			score := weightedVariance(y, left) + weightedVariance(y, right)
			if score < bestScore {
				bestScore = score
				bestFeat = f
				bestThresh = thr
				bestLeft = left
				bestRight = right
			}
		}
	}

	if bestFeat == -1 {
		return &Node{Feature: -1, Value: mean(y)}
	}
	xl, yl := subset(x, y, bestLeft)
	xr, yr := subset(x, y, bestRight)
	return &Node{
		Feature:   bestFeat,
		Threshold: bestThresh,
		Left:      buildTree(xl, yl, depth-1, minSplit, nFeatures, rnd),
		Right:     buildTree(xr, yr, depth-1, minSplit, nFeatures, rnd),
	}
}

// candidateThresholds returns midpoints between consecutive unique values of
// feature f.
func candidateThresholds(x [][]float64, f int) []float64 {
	seen := make(map[float64]struct{}, len(x))
	for i := range x {
		seen[x[i][f]] = struct{}{}
	}
	if len(seen) < 2 {
		return nil
	}
	unique := make([]float64, 0, len(seen))
	for v := range seen {
		unique = append(unique, v)
	}
	sort.Float64s(unique)
	out := make([]float64, len(unique)-1)
	for i := 0; i < len(unique)-1; i++ {
		out[i] = (unique[i] + unique[i+1]) / 2
	}
	return out
}

func predictTree(n *Node, row []float64) float64 {
	if n.Feature == -1 || n.Left == nil || n.Right == nil {
		return n.Value
	}
	if row[n.Feature] <= n.Threshold {
		return predictTree(n.Left, row)
	}
	return predictTree(n.Right, row)
}

func featureSubset(p, k int, rnd *rand.Rand) []int {
	if k >= p {
		out := make([]int, p)
		for i := range out {
			out[i] = i
		}
		return out
	}
	return rnd.Perm(p)[:k]
}

func subset(x [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	xs := make([][]float64, len(idx))
	ys := make([]float64, len(idx))
	for i, j := range idx {
		xs[i] = x[j]
		ys[i] = y[j]
	}
	return xs, ys
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func weightedVariance(y []float64, idx []int) float64 {
	if len(idx) <= 1 {
		return 0
	}
	m := 0.0
	for _, i := range idx {
		m += y[i]
	}
	m /= float64(len(idx))
	s := 0.0
	for _, i := range idx {
		d := y[i] - m
		s += d * d
	}
	return s // n * variance
}
