// Package model defines the capability interfaces shared by the tree
// learners, the boosting learners and the sklearn-style estimators.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// WeakLearner trains a model on weighted samples. An empty weight slice means
// every sample has weight 1. Implementations must not retain or modify y or w.
type WeakLearner interface {
	Fit(X mat.Matrix, y, w []float64) (WeakModel, error)
}

// WeakModel is a trained model producing one prediction per row of X.
type WeakModel interface {
	Predict(X mat.Matrix) ([]float64, error)
}

// ProbabilisticModel is a classification model that also reports a
// distribution over Classes for every row. Column j of the result is the
// probability of Classes()[j].
type ProbabilisticModel interface {
	WeakModel
	PredictProbability(X mat.Matrix) (*mat.Dense, error)
	Classes() []float64
}

// ImportanceReporter exposes per-feature importances, normalized to sum to 1
// when any feature was used.
type ImportanceReporter interface {
	FeatureImportances() []float64
}

// WeakLearnerFunc adapts a function to the WeakLearner interface.
type WeakLearnerFunc func(X mat.Matrix, y, w []float64) (WeakModel, error)

// Fit calls f(X, y, w).
func (f WeakLearnerFunc) Fit(X mat.Matrix, y, w []float64) (WeakModel, error) {
	return f(X, y, w)
}
