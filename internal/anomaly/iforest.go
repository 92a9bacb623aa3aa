package anomaly

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// IsolationForest isolates anomalies by random axis-aligned splits; points
// that separate from the rest in few splits score high. Path lengths follow
// the Liu/Ting/Zhou formulation with the usual c(n) normalization.
type IsolationForest struct {
	trees         int
	sampleSize    int
	contamination float64
	seed          int64

	forest       []*isoNode
	scaler       Scaler
	threshold    float64
	fittedSample int
	trained      bool
}

type isoNode struct {
	splitCol int
	splitVal float64
	left     *isoNode
	right    *isoNode
	size     int // leaf population, 0 for internal nodes
}

func NewIsolationForest(contamination float64) *IsolationForest {
	return &IsolationForest{
		trees:         100,
		sampleSize:    256,
		contamination: contamination,
		seed:          42,
	}
}

func (f *IsolationForest) Fit(X [][]float64) error {
	if len(X) == 0 {
		return ErrNoData
	}
	scaled := f.scaler.FitTransform(X)

	rng := rand.New(rand.NewSource(f.seed))
	sample := f.sampleSize
	if sample > len(scaled) {
		sample = len(scaled)
	}
	f.fittedSample = sample
	maxDepth := int(math.Ceil(math.Log2(float64(sample))))

	f.forest = make([]*isoNode, f.trees)
	for t := 0; t < f.trees; t++ {
		idx := rng.Perm(len(scaled))[:sample]
		sub := make([][]float64, sample)
		for i, k := range idx {
			sub[i] = scaled[k]
		}
		f.forest[t] = buildIsoTree(sub, 0, maxDepth, rng)
	}
	f.trained = true

	// Threshold at the contamination quantile of training scores, so roughly
	// that share of the training window is flagged.
	scores, err := f.Scores(X)
	if err != nil {
		return err
	}
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)
	f.threshold = stat.Quantile(1-f.contamination, stat.Empirical, sorted, nil)
	return nil
}

func buildIsoTree(X [][]float64, depth, maxDepth int, rng *rand.Rand) *isoNode {
	if len(X) <= 1 || depth >= maxDepth {
		return &isoNode{size: len(X)}
	}
	col := rng.Intn(len(X[0]))
	lo, hi := X[0][col], X[0][col]
	for _, row := range X {
		if row[col] < lo {
			lo = row[col]
		}
		if row[col] > hi {
			hi = row[col]
		}
	}
	if lo == hi {
		return &isoNode{size: len(X)}
	}
	split := lo + rng.Float64()*(hi-lo)
	var left, right [][]float64
	for _, row := range X {
		if row[col] < split {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}
	return &isoNode{
		splitCol: col,
		splitVal: split,
		left:     buildIsoTree(left, depth+1, maxDepth, rng),
		right:    buildIsoTree(right, depth+1, maxDepth, rng),
	}
}

func pathLength(n *isoNode, x []float64, depth float64) float64 {
	if n.left == nil && n.right == nil {
		return depth + avgPathLength(n.size)
	}
	if x[n.splitCol] < n.splitVal {
		return pathLength(n.left, x, depth+1)
	}
	return pathLength(n.right, x, depth+1)
}

// avgPathLength is c(n), the expected path length of an unsuccessful BST
// search over n points.
func avgPathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	h := math.Log(float64(n-1)) + 0.5772156649 // harmonic approximation
	return 2*h - 2*float64(n-1)/float64(n)
}

func (f *IsolationForest) Scores(X [][]float64) ([]float64, error) {
	if !f.trained {
		return nil, ErrNotTrained
	}
	scaled := f.scaler.Transform(X)
	c := avgPathLength(f.sampleSizeUsed())
	out := make([]float64, len(scaled))
	for i, x := range scaled {
		sum := 0.0
		for _, tree := range f.forest {
			sum += pathLength(tree, x, 0)
		}
		mean := sum / float64(len(f.forest))
		out[i] = math.Pow(2, -mean/c)
	}
	return out, nil
}

func (f *IsolationForest) sampleSizeUsed() int {
	if f.fittedSample < 2 {
		return 2
	}
	return f.fittedSample
}

func (f *IsolationForest) Predict(X [][]float64) ([]bool, error) {
	scores, err := f.Scores(X)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(scores))
	for i, s := range scores {
		out[i] = s > f.threshold
	}
	return out, nil
}

// Threshold exposes the fitted score cutoff, mainly for diagnostics.
func (f *IsolationForest) Threshold() float64 { return f.threshold }
