package ensemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
)

func TestBoostState_NextDoesNotAlias(t *testing.T) {
	s := newBoostState(4)
	assert.Equal(t, 0, s.round)
	assert.Equal(t, []float64{0.25, 0.25, 0.25, 0.25}, s.weights)

	next := s.next(normalize([]float64{1, 1, 1, 5}))
	assert.Equal(t, 1, next.round)
	assert.Equal(t, 0.25, s.weights[3])
	assert.InDelta(t, 0.625, next.weights[3], 1e-15)
}

func TestNormalize_ClampsToEpsilon(t *testing.T) {
	w := normalize([]float64{1e-20, 0, 3, 1})

	assert.InDelta(t, 1.0, floats.Sum(w), 1e-12)
	assert.Equal(t, Epsilon, w[0])
	assert.Equal(t, Epsilon, w[1])
	assert.InDelta(t, 0.75-2*Epsilon, w[2], 1e-15)
	assert.InDelta(t, 0.25, w[3], 1e-15)
}
