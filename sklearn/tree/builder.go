package tree

import (
	"context"

	"github.com/unixpickle/essentials"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/treeboost/core/interval"
	"github.com/YuminosukeSato/treeboost/pkg/errors"
	"github.com/YuminosukeSato/treeboost/pkg/log"
	"github.com/YuminosukeSato/treeboost/sklearn/tree/criterion"
	"github.com/YuminosukeSato/treeboost/sklearn/tree/splitter"
)

// DefaultMinimumInformationGain is the smallest gain that turns a node into a split.
const DefaultMinimumInformationGain = 1e-6

// unlimitedDepth stands in for "no depth limit" in estimator parameters.
const unlimitedDepth = 2000

// BuilderConfig controls tree growth.
type BuilderConfig struct {
	// MaxDepth is the maximum depth of a leaf. Must be positive.
	MaxDepth int

	// MinimumSplitSize is the minimum number of samples in each child.
	MinimumSplitSize int

	// MinSamplesSplit is the minimum number of samples a node needs to be split.
	MinSamplesSplit int

	// MinimumInformationGain is the smallest gain accepted for a split.
	MinimumInformationGain float64

	// Metric scores node impurity. Defaults to Gini for classification and
	// Variance for regression.
	Metric criterion.EntropyMetric

	Task Task

	// Workers bounds the per-feature search fan-out and prediction
	// parallelism. 0 uses GOMAXPROCS, 1 searches features sequentially.
	Workers int

	Logger log.Logger
}

// Builder grows decision trees.
type Builder struct {
	cfg      BuilderConfig
	searcher splitter.Searcher
	logger   log.Logger
}

// NewBuilder validates cfg and returns a Builder.
func NewBuilder(cfg BuilderConfig) (*Builder, error) {
	if cfg.MaxDepth <= 0 {
		return nil, errors.NewTreeDepthExceededError(cfg.MaxDepth)
	}
	if cfg.MinimumSplitSize <= 0 {
		return nil, errors.NewInvalidArgumentError("minimumSplitSize", "must be larger than 0", cfg.MinimumSplitSize)
	}
	if cfg.MinimumInformationGain < 0 {
		return nil, errors.NewInvalidArgumentError("minimumInformationGain", "must not be negative", cfg.MinimumInformationGain)
	}
	if cfg.Workers < 0 {
		cfg.Workers = 0
	}
	if cfg.Metric == nil {
		if cfg.Task == Regression {
			cfg.Metric = criterion.Variance{}
		} else {
			cfg.Metric = criterion.Gini{}
		}
	}
	searcher, err := splitter.NewLinearSearcher(cfg.MinimumSplitSize)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.GetLoggerWithName("tree.builder")
	}
	return &Builder{cfg: cfg, searcher: searcher, logger: logger}, nil
}

// Config returns the validated configuration.
func (b *Builder) Config() BuilderConfig {
	return b.cfg
}

// workItem is a node waiting to be grown.
type workItem struct {
	node  int
	iv    interval.Interval
	depth int
}

// arena holds the per-tree buffers shared by every node. indices is the
// permutation of sample indices; a node owns indices[iv]. The per-feature
// buffers are filled over a node's range before that feature is searched.
type arena struct {
	indices []int

	columns [][]float64
	targets []float64
	weights []float64

	sorted        [][]int
	featureValues [][]float64
	targetValues  [][]float64
	weightValues  [][]float64

	nodeTargets []float64
	nodeWeights []float64
}

// Build grows a tree on X (rows are samples) and targets. An empty weights
// slice means every sample has weight 1.
func (b *Builder) Build(X mat.Matrix, targets, weights []float64) (*Tree, error) {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "Builder.Build")
	}
	if len(targets) != rows {
		return nil, errors.NewDimensionMismatchError("Builder.Build", rows, len(targets), 0)
	}
	weighted := len(weights) > 0
	if weighted && len(weights) != rows {
		return nil, errors.NewDimensionMismatchError("Builder.Build", rows, len(weights), 0)
	}

	a := newArena(X, targets, weights)
	t := &Tree{
		task:        b.cfg.Task,
		nFeatures:   cols,
		importances: make([]float64, cols),
		workers:     b.cfg.Workers,
	}

	var classIndex map[float64]int
	if b.cfg.Task == Classification {
		t.classes = uniqueSorted(targets)
		classIndex = make(map[float64]int, len(t.classes))
		for i, c := range t.classes {
			classIndex[c] = i
		}
	}

	t.nodes = append(t.nodes, Node{})
	stack := []workItem{{node: 0, iv: interval.Interval{FromInclusive: 0, ToExclusive: rows}}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		a.loadNode(item.iv)
		node, err := b.summarize(a, item, t.classes, classIndex)
		if err != nil {
			return nil, err
		}
		if item.depth > t.depth {
			t.depth = item.depth
		}

		best := splitter.NoSplit()
		if b.splittable(a, item) {
			best, err = b.search(a, item.iv, node.Impurity)
			if err != nil {
				return nil, err
			}
		}

		if !best.Found() || best.BestInformationGain < b.cfg.MinimumInformationGain {
			node.Feature = -1
			t.nodes[item.node] = node
			t.leaves++
			continue
		}

		f := best.BestFeatureSplit.FeatureIndex
		from, to := item.iv.FromInclusive, item.iv.ToExclusive
		copy(a.indices[from:to], a.sorted[f][from:to])
		t.importances[f] += best.BestInformationGain * node.Weight

		node.Feature = f
		node.Threshold = best.BestFeatureSplit.Threshold
		node.Left = len(t.nodes)
		node.Right = node.Left + 1
		t.nodes[item.node] = node
		t.nodes = append(t.nodes, Node{}, Node{})

		stack = append(stack,
			workItem{node: node.Right, iv: best.RightIntervalEntropy.Interval, depth: item.depth + 1},
			workItem{node: node.Left, iv: best.LeftIntervalEntropy.Interval, depth: item.depth + 1},
		)
	}

	if b.logger.Enabled(context.Background(), log.LevelDebug) {
		b.logger.Debug("tree built",
			log.SamplesKey, rows,
			log.FeaturesKey, cols,
			log.TreeDepthKey, t.depth,
			log.TreeNodesKey, len(t.nodes),
			log.TreeLeavesKey, t.leaves,
		)
	}
	return t, nil
}

// splittable applies the stopping rules that do not need a search.
func (b *Builder) splittable(a *arena, item workItem) bool {
	n := item.iv.Length()
	if n < 2*b.cfg.MinimumSplitSize || n < b.cfg.MinSamplesSplit {
		return false
	}
	if item.depth >= b.cfg.MaxDepth {
		return false
	}
	ys := a.nodeTargets[item.iv.FromInclusive:item.iv.ToExclusive]
	for _, y := range ys[1:] {
		if y != ys[0] {
			return true
		}
	}
	return false
}

// search runs the splitter on every feature and folds the results in
// feature order so ties go to the lowest feature index.
func (b *Builder) search(a *arena, iv interval.Interval, parentEntropy float64) (splitter.FindSplitResult, error) {
	nFeatures := len(a.columns)
	best := splitter.NoSplit()

	if b.cfg.Workers == 1 {
		for f := 0; f < nFeatures; f++ {
			a.loadFeature(f, iv)
			var err error
			best, err = b.searcher.FindBestSplit(best, f, a.featureValues[f], a.targetValues[f],
				a.featureWeights(f), b.cfg.Metric, iv, parentEntropy)
			if err != nil {
				return best, err
			}
		}
		return best, nil
	}

	results := make([]splitter.FindSplitResult, nFeatures)
	errs := make([]error, nFeatures)
	essentials.ConcurrentMap(b.cfg.Workers, nFeatures, func(f int) {
		a.loadFeature(f, iv)
		results[f], errs[f] = b.searcher.FindBestSplit(splitter.NoSplit(), f, a.featureValues[f], a.targetValues[f],
			a.featureWeights(f), b.cfg.Metric, iv, parentEntropy)
	})
	for f, res := range results {
		if errs[f] != nil {
			return best, errs[f]
		}
		if res.BestInformationGain > best.BestInformationGain {
			best = res
		}
	}
	return best, nil
}

// summarize computes the impurity, weight and prediction of a node.
func (b *Builder) summarize(a *arena, item workItem, classes []float64, classIndex map[float64]int) (Node, error) {
	iv := item.iv
	ys := a.nodeTargets[iv.FromInclusive:iv.ToExclusive]
	var ws []float64
	if a.nodeWeights != nil {
		ws = a.nodeWeights[iv.FromInclusive:iv.ToExclusive]
	}

	impurity, err := b.cfg.Metric.WeightedEntropy(a.nodeTargets, a.nodeWeights, iv)
	if err != nil {
		return Node{}, err
	}

	node := Node{
		Feature:  -1,
		Left:     -1,
		Right:    -1,
		Impurity: impurity,
		Samples:  len(ys),
		Depth:    item.depth,
	}
	if ws == nil {
		node.Weight = float64(len(ys))
	} else {
		for _, w := range ws {
			node.Weight += w
		}
	}

	if b.cfg.Task == Regression {
		node.Value = stat.Mean(ys, ws)
		return node, nil
	}

	probs := make([]float64, len(classes))
	for i, y := range ys {
		w := 1.0
		if ws != nil {
			w = ws[i]
		}
		probs[classIndex[y]] += w
	}
	best := 0
	for c := range probs {
		if node.Weight > 0 {
			probs[c] /= node.Weight
		}
		if probs[c] > probs[best] {
			best = c
		}
	}
	node.Probabilities = probs
	node.Value = classes[best]
	return node, nil
}

func newArena(X mat.Matrix, targets, weights []float64) *arena {
	rows, cols := X.Dims()
	a := &arena{
		indices:       make([]int, rows),
		columns:       make([][]float64, cols),
		targets:       targets,
		sorted:        make([][]int, cols),
		featureValues: make([][]float64, cols),
		targetValues:  make([][]float64, cols),
		nodeTargets:   make([]float64, rows),
	}
	if len(weights) > 0 {
		a.weights = weights
		a.weightValues = make([][]float64, cols)
		a.nodeWeights = make([]float64, rows)
	}
	for i := range a.indices {
		a.indices[i] = i
	}
	for f := 0; f < cols; f++ {
		a.columns[f] = mat.Col(nil, f, X)
		a.sorted[f] = make([]int, rows)
		a.featureValues[f] = make([]float64, rows)
		a.targetValues[f] = make([]float64, rows)
		if a.weightValues != nil {
			a.weightValues[f] = make([]float64, rows)
		}
	}
	return a
}

// loadNode gathers the node's targets and weights in arena order.
func (a *arena) loadNode(iv interval.Interval) {
	for k := iv.FromInclusive; k < iv.ToExclusive; k++ {
		i := a.indices[k]
		a.nodeTargets[k] = a.targets[i]
		if a.nodeWeights != nil {
			a.nodeWeights[k] = a.weights[i]
		}
	}
}

// loadFeature stable-sorts the node's indices by feature f and fills the
// feature's buffers over iv. Each feature only touches its own buffers.
func (a *arena) loadFeature(f int, iv interval.Interval) {
	from, to := iv.FromInclusive, iv.ToExclusive
	idx := a.sorted[f][from:to]
	copy(idx, a.indices[from:to])
	column := a.columns[f]
	slices.SortStableFunc(idx, func(x, y int) bool {
		return column[x] < column[y]
	})
	for k, i := range idx {
		a.featureValues[f][from+k] = column[i]
		a.targetValues[f][from+k] = a.targets[i]
		if a.weightValues != nil {
			a.weightValues[f][from+k] = a.weights[i]
		}
	}
}

func (a *arena) featureWeights(f int) []float64 {
	if a.weightValues == nil {
		return nil
	}
	return a.weightValues[f]
}

func uniqueSorted(values []float64) []float64 {
	out := append([]float64(nil), values...)
	slices.Sort(out)
	return slices.Compact(out)
}
