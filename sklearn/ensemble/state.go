package ensemble

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/treeboost/core/model"
	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

// Epsilon is the smallest sample weight. Weights are lifted to it after every
// round so no sample drops out of later rounds.
const Epsilon = 1e-10

// errorTolerance absorbs rounding in the weighted error sum, so a weak model
// exactly at the stopping threshold is discarded whatever the sample count.
const errorTolerance = 1e-12

// RoundInfo describes one recorded boosting round.
type RoundInfo struct {
	// Round is the 0-based index of the round.
	Round int

	// Error is the weighted error of the round's weak model.
	Error float64

	// Alpha is the vote weight given to the weak model.
	Alpha float64

	// EnsembleError is the training error of the ensemble after this round:
	// the misclassification rate for classification, the mean squared error
	// for regression.
	EnsembleError float64

	// Weights are the normalized sample weights for the next round. Only set
	// for callbacks; the learning curve stored on a model omits them.
	Weights []float64
}

// RoundCallback observes a recorded round. Returning false stops boosting
// after that round.
type RoundCallback func(info RoundInfo) bool

// boostState is the per-round state of a boosting run. Each round receives a
// state and produces the next one; weights are never shared between states.
type boostState struct {
	round   int
	weights []float64
}

func newBoostState(n int) boostState {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}
	return boostState{round: 0, weights: w}
}

// next returns the state of the following round with the given weights.
func (s boostState) next(weights []float64) boostState {
	return boostState{round: s.round + 1, weights: weights}
}

// normalize rescales w in place to sum to 1 and lifts every entry to at least
// Epsilon. The mass added by lifting is taken from the largest entry so the
// sum stays 1.
func normalize(w []float64) []float64 {
	floats.Scale(1/floats.Sum(w), w)

	added := 0.0
	for i, v := range w {
		if v < Epsilon {
			added += Epsilon - v
			w[i] = Epsilon
		}
	}
	if added > 0 {
		w[floats.MaxIdx(w)] -= added
	}
	return w
}

// validateInput checks the training data before any round runs.
func validateInput(op string, X mat.Matrix, y []float64) (int, int, error) {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return 0, 0, errors.NewInvalidArgumentError("X", "must contain at least one observation and one feature", rows)
	}
	if len(y) != rows {
		return 0, 0, errors.NewDimensionMismatchError(op, rows, len(y), 0)
	}
	if err := errors.CheckMatrix(op, X, rows, cols, 0); err != nil {
		return 0, 0, err
	}
	if err := errors.CheckNumericalStability(op, y, 0); err != nil {
		return 0, 0, err
	}
	return rows, cols, nil
}

// predictWeak runs one weak model on X and checks the result length.
func predictWeak(learner string, round int, m model.WeakModel, X mat.Matrix, rows int) ([]float64, error) {
	preds, err := m.Predict(X)
	if err != nil {
		return nil, errors.NewWeakLearnerFitError(learner, round, err)
	}
	if len(preds) != rows {
		return nil, errors.NewWeakLearnerFitError(learner, round,
			errors.NewDimensionMismatchError(learner+".predict", rows, len(preds), 0))
	}
	return preds, nil
}
