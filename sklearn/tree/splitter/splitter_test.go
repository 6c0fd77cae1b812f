package splitter

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/treeboost/core/interval"
	"github.com/YuminosukeSato/treeboost/pkg/errors"
	"github.com/YuminosukeSato/treeboost/sklearn/tree/criterion"
)

func parentEntropy(t *testing.T, m criterion.EntropyMetric, targets, weights []float64, iv interval.Interval) float64 {
	t.Helper()
	e, err := m.WeightedEntropy(targets, weights, iv)
	require.NoError(t, err)
	return e
}

func TestNewLinearSearcherRejectsNonPositive(t *testing.T) {
	for _, size := range []int{0, -3} {
		_, err := NewLinearSearcher(size)
		var argErr *errors.InvalidArgumentError
		assert.True(t, errors.As(err, &argErr), "size %d", size)
	}
}

func TestFindBestSplitSimple(t *testing.T) {
	s, err := NewLinearSearcher(1)
	require.NoError(t, err)

	feature := []float64{1, 2, 3, 4}
	targets := []float64{0, 0, 1, 1}
	iv := interval.Must(0, 4)
	m := criterion.Gini{}

	res, err := s.FindBestSplit(NoSplit(), 0, feature, targets, nil, m, iv, parentEntropy(t, m, targets, nil, iv))
	require.NoError(t, err)

	assert.True(t, res.Found())
	assert.Equal(t, 2.5, res.BestFeatureSplit.Threshold)
	assert.Equal(t, 0, res.BestFeatureSplit.FeatureIndex)
	assert.Equal(t, 2, res.BestSplitIndex)
	assert.InDelta(t, 0.5, res.BestInformationGain, 1e-12)
	assert.Equal(t, interval.Must(0, 2), res.LeftIntervalEntropy.Interval)
	assert.Equal(t, interval.Must(2, 4), res.RightIntervalEntropy.Interval)
	assert.Equal(t, 0.0, res.LeftIntervalEntropy.Entropy)
	assert.Equal(t, 0.0, res.RightIntervalEntropy.Entropy)
}

func TestFirstMaximalCutWins(t *testing.T) {
	s, err := NewLinearSearcher(1)
	require.NoError(t, err)

	// cuts at 1 and 3 have the same gain
	feature := []float64{1, 2, 3, 4}
	targets := []float64{0, 1, 1, 0}
	iv := interval.Must(0, 4)
	m := criterion.Gini{}

	res, err := s.FindBestSplit(NoSplit(), 2, feature, targets, nil, m, iv, parentEntropy(t, m, targets, nil, iv))
	require.NoError(t, err)
	assert.Equal(t, 1, res.BestSplitIndex)
	assert.Equal(t, 1.5, res.BestFeatureSplit.Threshold)
	assert.Equal(t, 2, res.BestFeatureSplit.FeatureIndex)
}

func TestNoCandidateInsideTargetRun(t *testing.T) {
	s, err := NewLinearSearcher(1)
	require.NoError(t, err)

	// the target changes only where the feature value repeats
	feature := []float64{1, 2, 2, 3}
	targets := []float64{0, 0, 1, 1}
	iv := interval.Must(0, 4)
	m := criterion.Gini{}

	res, err := s.FindBestSplit(NoSplit(), 0, feature, targets, nil, m, iv, parentEntropy(t, m, targets, nil, iv))
	require.NoError(t, err)
	assert.False(t, res.Found())
	assert.Equal(t, NoSplit(), res)
}

func TestMinimumSplitSizeRejectsCuts(t *testing.T) {
	s, err := NewLinearSearcher(2)
	require.NoError(t, err)

	feature := []float64{1, 2, 3, 4}
	targets := []float64{0, 1, 0, 1}
	iv := interval.Must(0, 4)
	m := criterion.Gini{}

	// only the middle cut is large enough and it gains nothing
	res, err := s.FindBestSplit(NoSplit(), 0, feature, targets, nil, m, iv, parentEntropy(t, m, targets, nil, iv))
	require.NoError(t, err)
	assert.False(t, res.Found())
}

func TestIncomingBestIsKept(t *testing.T) {
	s, err := NewLinearSearcher(1)
	require.NoError(t, err)

	incoming := FindSplitResult{
		BestSplitIndex:      3,
		BestInformationGain: 0.9,
		BestFeatureSplit:    FeatureSplit{Threshold: 7, FeatureIndex: 0},
	}
	feature := []float64{1, 2, 3, 4}
	targets := []float64{0, 0, 1, 1}
	iv := interval.Must(0, 4)
	m := criterion.Gini{}

	res, err := s.FindBestSplit(incoming, 1, feature, targets, nil, m, iv, parentEntropy(t, m, targets, nil, iv))
	require.NoError(t, err)
	assert.Equal(t, incoming, res)
}

func TestSubIntervalUsesAbsoluteIndices(t *testing.T) {
	s, err := NewLinearSearcher(1)
	require.NoError(t, err)

	feature := []float64{9, 9, 1, 2, 3, 4, 0}
	targets := []float64{5, 5, 0, 0, 1, 1, 5}
	iv := interval.Must(2, 6)
	m := criterion.Entropy{}

	res, err := s.FindBestSplit(NoSplit(), 0, feature, targets, nil, m, iv, parentEntropy(t, m, targets, nil, iv))
	require.NoError(t, err)
	assert.Equal(t, 4, res.BestSplitIndex)
	assert.Equal(t, 2.5, res.BestFeatureSplit.Threshold)
	assert.InDelta(t, 1.0, res.BestInformationGain, 1e-12)
}

func TestConstantWeightsMatchUnweighted(t *testing.T) {
	s, err := NewLinearSearcher(1)
	require.NoError(t, err)

	feature := []float64{0.5, 1, 1.5, 2, 3, 3.5, 4, 6}
	targets := []float64{0, 0, 1, 0, 1, 1, 2, 2}
	iv := interval.Must(0, len(feature))

	for _, m := range []criterion.EntropyMetric{criterion.Gini{}, criterion.Entropy{}, criterion.Variance{}} {
		unweighted, err := s.FindBestSplit(NoSplit(), 0, feature, targets, nil, m, iv, parentEntropy(t, m, targets, nil, iv))
		require.NoError(t, err)

		for _, c := range []float64{0.125, 3} {
			weights := make([]float64, len(feature))
			for i := range weights {
				weights[i] = c
			}
			weighted, err := s.FindBestSplit(NoSplit(), 0, feature, targets, weights, m, iv, parentEntropy(t, m, targets, weights, iv))
			require.NoError(t, err)

			assert.Equal(t, unweighted.BestSplitIndex, weighted.BestSplitIndex, m.Name())
			assert.Equal(t, unweighted.BestFeatureSplit, weighted.BestFeatureSplit, m.Name())
			assert.InDelta(t, unweighted.BestInformationGain, weighted.BestInformationGain, 1e-12, m.Name())
		}
	}
}

func TestWeightsShiftTheSplit(t *testing.T) {
	s, err := NewLinearSearcher(1)
	require.NoError(t, err)

	feature := []float64{1, 2, 3, 4}
	targets := []float64{0, 1, 1, 0}
	iv := interval.Must(0, 4)
	m := criterion.Gini{}

	// heavy last sample makes isolating it the better cut
	weights := []float64{0.1, 0.2, 0.2, 0.5}
	res, err := s.FindBestSplit(NoSplit(), 0, feature, targets, weights, m, iv, parentEntropy(t, m, targets, weights, iv))
	require.NoError(t, err)
	assert.Equal(t, 3, res.BestSplitIndex)
	assert.Equal(t, 3.5, res.BestFeatureSplit.Threshold)
}

func TestRandomSplitsRespectMinimumSizeAndAreDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := criterion.Entropy{}

	for trial := 0; trial < 50; trial++ {
		n := 5 + rng.Intn(30)
		minSize := 1 + rng.Intn(4)
		s, err := NewLinearSearcher(minSize)
		require.NoError(t, err)

		type row struct{ x, y float64 }
		rows := make([]row, n)
		for i := range rows {
			rows[i] = row{x: float64(rng.Intn(10)), y: float64(rng.Intn(3))}
		}
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].x < rows[j].x })
		feature := make([]float64, n)
		targets := make([]float64, n)
		for i, r := range rows {
			feature[i], targets[i] = r.x, r.y
		}
		iv := interval.Must(0, n)
		pe := parentEntropy(t, m, targets, nil, iv)

		first, err := s.FindBestSplit(NoSplit(), 0, feature, targets, nil, m, iv, pe)
		require.NoError(t, err)
		second, err := s.FindBestSplit(NoSplit(), 0, feature, targets, nil, m, iv, pe)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		if first.Found() {
			left := first.BestSplitIndex - iv.FromInclusive
			right := iv.ToExclusive - first.BestSplitIndex
			assert.GreaterOrEqual(t, left, minSize)
			assert.GreaterOrEqual(t, right, minSize)
			assert.Less(t, feature[first.BestSplitIndex-1], first.BestFeatureSplit.Threshold)
			assert.Greater(t, feature[first.BestSplitIndex], first.BestFeatureSplit.Threshold)
		}
	}
}

func TestInvalidInputs(t *testing.T) {
	s, err := NewLinearSearcher(1)
	require.NoError(t, err)
	m := criterion.Gini{}

	_, err = s.FindBestSplit(NoSplit(), 0, []float64{1, 2}, []float64{0, 1}, nil, m, interval.Must(1, 1), 0)
	var ivErr *errors.InvalidIntervalError
	assert.True(t, errors.As(err, &ivErr))

	_, err = s.FindBestSplit(NoSplit(), 0, []float64{1, 2}, []float64{0}, nil, m, interval.Must(0, 2), 0)
	assert.Error(t, err)
}
