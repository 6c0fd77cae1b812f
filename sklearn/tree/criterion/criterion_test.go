package criterion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/treeboost/core/interval"
	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

var allMetrics = []EntropyMetric{Gini{}, Entropy{}, Variance{}}

func TestKnownValues(t *testing.T) {
	targets := []float64{0, 0, 1, 1}
	iv := interval.Must(0, 4)

	gini, err := Gini{}.Entropy(targets, iv)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, gini, 1e-12)

	ent, err := Entropy{}.Entropy(targets, iv)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ent, 1e-12)

	variance, err := Variance{}.Entropy(targets, iv)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, variance, 1e-12)

	// three classes, uniform
	ent, err = Entropy{}.Entropy([]float64{1, 2, 3}, interval.Must(0, 3))
	require.NoError(t, err)
	assert.InDelta(t, math.Log2(3), ent, 1e-12)
}

func TestSingleValueIsZero(t *testing.T) {
	targets := []float64{5, 3, 3, 3, 3, 9}
	iv := interval.Must(1, 5)
	weights := []float64{1, 0.1, 0.7, 0.2, 3, 1}

	for _, m := range allMetrics {
		t.Run(m.Name(), func(t *testing.T) {
			v, err := m.Entropy(targets, iv)
			require.NoError(t, err)
			assert.Equal(t, 0.0, v)

			v, err = m.WeightedEntropy(targets, weights, iv)
			require.NoError(t, err)
			assert.Equal(t, 0.0, v)
		})
	}
}

func TestPermutationSymmetry(t *testing.T) {
	a := []float64{0, 1, 2, 1, 0, 2, 2}
	b := []float64{2, 2, 1, 0, 0, 1, 2}
	iv := interval.Must(0, len(a))

	for _, m := range allMetrics {
		t.Run(m.Name(), func(t *testing.T) {
			va, err := m.Entropy(a, iv)
			require.NoError(t, err)
			vb, err := m.Entropy(b, iv)
			require.NoError(t, err)
			assert.InDelta(t, va, vb, 1e-12)
		})
	}
}

func TestConstantWeightsMatchUnweighted(t *testing.T) {
	targets := []float64{0, 1, 1, 2, 0, 1, 3, 3}
	iv := interval.Must(1, 7)

	for _, m := range allMetrics {
		for _, c := range []float64{0.01, 1, 7.5} {
			weights := make([]float64, len(targets))
			for i := range weights {
				weights[i] = c
			}
			unweighted, err := m.Entropy(targets, iv)
			require.NoError(t, err)
			weighted, err := m.WeightedEntropy(targets, weights, iv)
			require.NoError(t, err)
			assert.InDelta(t, unweighted, weighted, 1e-12, "%s with weight %v", m.Name(), c)
		}
	}
}

func TestEmptyWeightsMeansUnweighted(t *testing.T) {
	targets := []float64{0, 1, 1, 0, 1}
	iv := interval.Must(0, 5)
	for _, m := range allMetrics {
		a, err := m.Entropy(targets, iv)
		require.NoError(t, err)
		b, err := m.WeightedEntropy(targets, []float64{}, iv)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestWeightedGini(t *testing.T) {
	// class 0 carries 3/4 of the mass
	v, err := Gini{}.WeightedEntropy([]float64{0, 1}, []float64{3, 1}, interval.Must(0, 2))
	require.NoError(t, err)
	assert.InDelta(t, 1-(0.75*0.75+0.25*0.25), v, 1e-12)
}

func TestInvalidInterval(t *testing.T) {
	targets := []float64{0, 1, 1}
	for _, m := range allMetrics {
		_, err := m.Entropy(targets, interval.Must(1, 1))
		var ivErr *errors.InvalidIntervalError
		assert.True(t, errors.As(err, &ivErr), "%s should reject empty interval", m.Name())

		_, err = m.Entropy(targets, interval.Must(0, 4))
		assert.Error(t, err, "%s should reject interval past the buffer", m.Name())

		_, err = m.WeightedEntropy(targets, []float64{1, 1}, interval.Must(0, 3))
		assert.Error(t, err, "%s should reject short weights", m.Name())
	}
}

func TestByName(t *testing.T) {
	for name, want := range map[string]string{
		"gini":     "gini",
		"entropy":  "entropy",
		"variance": "variance",
		"mse":      "variance",
	} {
		m, err := ByName(name)
		require.NoError(t, err)
		assert.Equal(t, want, m.Name())
	}

	_, err := ByName("hellinger")
	var argErr *errors.InvalidArgumentError
	assert.True(t, errors.As(err, &argErr))
}
