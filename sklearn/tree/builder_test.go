package tree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/treeboost/pkg/errors"
	"github.com/YuminosukeSato/treeboost/pkg/log"
	"github.com/YuminosukeSato/treeboost/sklearn/tree/criterion"
)

func newTestBuilder(t *testing.T, cfg BuilderConfig) *Builder {
	t.Helper()
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = 10
	}
	if cfg.MinimumSplitSize == 0 {
		cfg.MinimumSplitSize = 1
	}
	b, err := NewBuilder(cfg)
	require.NoError(t, err)
	return b
}

func TestNewBuilder_Validation(t *testing.T) {
	_, err := NewBuilder(BuilderConfig{MaxDepth: 0, MinimumSplitSize: 1})
	var depthErr *errors.TreeDepthExceededError
	require.True(t, errors.As(err, &depthErr), "got %v", err)
	assert.Equal(t, 0, depthErr.MaxDepth)

	_, err = NewBuilder(BuilderConfig{MaxDepth: -3, MinimumSplitSize: 1})
	assert.True(t, errors.As(err, &depthErr))

	_, err = NewBuilder(BuilderConfig{MaxDepth: 3, MinimumSplitSize: 0})
	var argErr *errors.InvalidArgumentError
	assert.True(t, errors.As(err, &argErr))

	_, err = NewBuilder(BuilderConfig{MaxDepth: 3, MinimumSplitSize: 1, MinimumInformationGain: -1})
	assert.True(t, errors.As(err, &argErr))
}

func TestNewBuilder_DefaultMetric(t *testing.T) {
	b := newTestBuilder(t, BuilderConfig{Task: Classification})
	assert.Equal(t, "gini", b.Config().Metric.Name())

	b = newTestBuilder(t, BuilderConfig{Task: Regression})
	assert.Equal(t, "variance", b.Config().Metric.Name())
}

func TestBuilder_IdenticalTargetsGiveSingleLeaf(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		0, 1,
		1, 0,
		2, 5,
		3, 2,
	})
	b := newTestBuilder(t, BuilderConfig{Task: Classification})

	tr, err := b.Build(X, []float64{1, 1, 1, 1}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, tr.NodeCount())
	assert.Equal(t, 1, tr.LeafCount())
	assert.Equal(t, 0, tr.Depth())
	assert.Equal(t, []float64{0, 0}, tr.FeatureImportances())

	preds, err := tr.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1, 1}, preds)
}

func TestBuilder_Regression(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{1, 2, 3, 4, 5, 6})
	y := []float64{1, 1, 1, 5, 5, 5}
	b := newTestBuilder(t, BuilderConfig{Task: Regression})

	tr, err := b.Build(X, y, nil)
	require.NoError(t, err)

	root := tr.Nodes()[0]
	require.False(t, root.IsLeaf())
	assert.Equal(t, 0, root.Feature)
	assert.InDelta(t, 3.5, root.Threshold, 1e-12)
	assert.InDelta(t, 4.0, root.Impurity, 1e-12)
	assert.Equal(t, 3, tr.NodeCount())
	assert.Equal(t, 2, tr.LeafCount())
	assert.Equal(t, 1, tr.Depth())

	preds, err := tr.Predict(mat.NewDense(2, 1, []float64{2, 5}))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 5}, preds, 1e-12)

	_, err = tr.PredictProbability(X)
	assert.Error(t, err)
}

func TestBuilder_WeightedLeafDistribution(t *testing.T) {
	// 特徴量が一定なので分割候補はなく、根が葉になる
	X := mat.NewDense(3, 1, []float64{0, 0, 0})
	y := []float64{0, 1, 1}
	b := newTestBuilder(t, BuilderConfig{Task: Classification})

	tr, err := b.Build(X, y, []float64{3, 1, 1})
	require.NoError(t, err)
	require.Equal(t, 1, tr.NodeCount())
	leaf := tr.Nodes()[0]
	assert.InDeltaSlice(t, []float64{0.6, 0.4}, leaf.Probabilities, 1e-12)
	assert.Equal(t, 0.0, leaf.Value)
	assert.InDelta(t, 5.0, leaf.Weight, 1e-12)

	tr, err = b.Build(X, y, nil)
	require.NoError(t, err)
	leaf = tr.Nodes()[0]
	assert.InDeltaSlice(t, []float64{1.0 / 3, 2.0 / 3}, leaf.Probabilities, 1e-12)
	assert.Equal(t, 1.0, leaf.Value)
}

func TestBuilder_ArgMaxTieGoesToLowestLabel(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{0, 0, 0, 0})
	b := newTestBuilder(t, BuilderConfig{Task: Classification})

	tr, err := b.Build(X, []float64{2, 1, 2, 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, tr.Nodes()[0].Value)
	assert.Equal(t, []float64{1, 2}, tr.Classes())
}

func TestBuilder_MaxDepth(t *testing.T) {
	X := mat.NewDense(8, 1, []float64{0, 1, 2, 3, 4, 5, 6, 7})
	y := []float64{0, 1, 0, 1, 0, 1, 0, 1}
	b := newTestBuilder(t, BuilderConfig{Task: Classification, MaxDepth: 1})

	tr, err := b.Build(X, y, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, tr.Depth(), 1)
	for _, n := range tr.Nodes() {
		if n.Depth == 1 {
			assert.True(t, n.IsLeaf())
		}
	}
}

func TestBuilder_ParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	rows, cols := 300, 5
	X := mat.NewDense(rows, cols, nil)
	y := make([]float64, rows)
	w := make([]float64, rows)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			X.Set(i, j, float64(rng.Intn(20)))
		}
		if X.At(i, 0)+X.At(i, 3) > 20 {
			y[i] = 1
		}
		if rng.Float64() < 0.1 {
			y[i] = 1 - y[i]
		}
		w[i] = 0.5 + rng.Float64()
	}

	for _, metric := range []criterion.EntropyMetric{criterion.Gini{}, criterion.Entropy{}} {
		seq := newTestBuilder(t, BuilderConfig{Task: Classification, Metric: metric, Workers: 1, MaxDepth: 6})
		par := newTestBuilder(t, BuilderConfig{Task: Classification, Metric: metric, Workers: 4, MaxDepth: 6})

		a, err := seq.Build(X, y, w)
		require.NoError(t, err)
		b, err := par.Build(X, y, w)
		require.NoError(t, err)

		assert.Equal(t, a.Nodes(), b.Nodes(), metric.Name())
		assert.Equal(t, a.FeatureImportances(), b.FeatureImportances(), metric.Name())
	}
}

func TestBuilder_InputErrors(t *testing.T) {
	b := newTestBuilder(t, BuilderConfig{Task: Classification})

	_, err := b.Build(&mat.Dense{}, nil, nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	var dimErr *errors.DimensionMismatchError
	_, err = b.Build(X, []float64{0, 1}, nil)
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 3, dimErr.Expected)
	assert.Equal(t, 2, dimErr.Got)

	_, err = b.Build(X, []float64{0, 1, 1}, []float64{1, 1})
	assert.True(t, errors.As(err, &dimErr))
}

func TestTree_PredictionErrors(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{0, 0, 1, 1, 2, 2, 3, 3})
	b := newTestBuilder(t, BuilderConfig{Task: Classification})
	tr, err := b.Build(X, []float64{0, 0, 1, 1}, nil)
	require.NoError(t, err)

	var dimErr *errors.DimensionMismatchError
	_, err = tr.Predict(mat.NewDense(1, 3, nil))
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 1, dimErr.Axis)

	leaves, err := tr.Apply(X)
	require.NoError(t, err)
	for _, idx := range leaves {
		assert.True(t, tr.Nodes()[idx].IsLeaf())
	}
	assert.NotEqual(t, leaves[0], leaves[3])
}

func TestTree_LargeInputUsesParallelRows(t *testing.T) {
	rows := 1000
	X := mat.NewDense(rows, 1, nil)
	y := make([]float64, rows)
	for i := 0; i < rows; i++ {
		X.Set(i, 0, float64(i))
		if i >= rows/2 {
			y[i] = 1
		}
	}
	b := newTestBuilder(t, BuilderConfig{Task: Classification, Workers: 4})
	tr, err := b.Build(X, y, nil)
	require.NoError(t, err)

	preds, err := tr.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, y, preds)

	probs, err := tr.PredictProbability(X)
	require.NoError(t, err)
	r, c := probs.Dims()
	assert.Equal(t, rows, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 1.0, probs.At(rows-1, 1))
}

func TestBuilder_LogsSummaryAtDebug(t *testing.T) {
	logger := log.NewTestLogger(log.LevelDebug)
	b := newTestBuilder(t, BuilderConfig{Task: Classification, Logger: logger})

	_, err := b.Build(mat.NewDense(4, 1, []float64{0, 1, 2, 3}), []float64{0, 0, 1, 1}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, logger.CountMessage("tree built"))
	assert.True(t, logger.ContainsField(log.TreeLeavesKey, float64(2)))
}
