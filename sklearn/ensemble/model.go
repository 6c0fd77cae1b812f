package ensemble

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/treeboost/core/model"
	"github.com/YuminosukeSato/treeboost/metrics"
	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

// ensemble is the part shared by both trained models: the recorded weak
// models with their vote weights and errors. It is never modified after the
// learner returns it.
type ensemble struct {
	models    []model.WeakModel
	alphas    []float64
	errs      []float64
	curve     []RoundInfo
	nFeatures int
}

func (e *ensemble) record(m model.WeakModel, info RoundInfo) {
	e.models = append(e.models, m)
	e.alphas = append(e.alphas, info.Alpha)
	e.errs = append(e.errs, info.Error)
	info.Weights = nil
	e.curve = append(e.curve, info)
}

// Rounds returns the number of recorded rounds.
func (e *ensemble) Rounds() int {
	return len(e.models)
}

// Models returns the recorded weak models in round order.
func (e *ensemble) Models() []model.WeakModel {
	return append([]model.WeakModel(nil), e.models...)
}

// ModelWeights returns the vote weight (alpha) of every round.
func (e *ensemble) ModelWeights() []float64 {
	return append([]float64(nil), e.alphas...)
}

// ModelErrors returns the weighted error of every round.
func (e *ensemble) ModelErrors() []float64 {
	return append([]float64(nil), e.errs...)
}

// LearningCurve returns the per-round errors and vote weights.
func (e *ensemble) LearningCurve() []RoundInfo {
	return append([]RoundInfo(nil), e.curve...)
}

// FeatureImportances returns the alpha-weighted sum of the weak models'
// importances, normalized to sum to 1. Weak models that do not report
// importances are skipped.
func (e *ensemble) FeatureImportances() []float64 {
	out := make([]float64, e.nFeatures)
	for t, m := range e.models {
		r, ok := m.(model.ImportanceReporter)
		if !ok {
			continue
		}
		imp := r.FeatureImportances()
		if len(imp) != e.nFeatures {
			continue
		}
		floats.AddScaled(out, e.alphas[t], imp)
	}
	if total := floats.Sum(out); total > 0 {
		floats.Scale(1/total, out)
	}
	return out
}

func (e *ensemble) checkInput(op string, X mat.Matrix) (int, error) {
	rows, cols := X.Dims()
	if cols != e.nFeatures {
		return 0, errors.NewDimensionMismatchError(op, e.nFeatures, cols, 1)
	}
	return rows, nil
}

// ClassificationEnsembleModel is a trained SAMME ensemble.
type ClassificationEnsembleModel struct {
	ensemble
	classes    []float64
	classIndex map[float64]int
}

var _ model.ProbabilisticModel = (*ClassificationEnsembleModel)(nil)

// Classes returns the sorted class labels seen during training.
func (m *ClassificationEnsembleModel) Classes() []float64 {
	return append([]float64(nil), m.classes...)
}

// votes sums the vote weight each class receives for every row of X.
// Predictions outside the training classes cast no vote.
func (m *ClassificationEnsembleModel) votes(op string, X mat.Matrix) (*mat.Dense, error) {
	rows, err := m.checkInput(op, X)
	if err != nil {
		return nil, err
	}
	votes := mat.NewDense(rows, len(m.classes), nil)
	for t, wm := range m.models {
		preds, err := wm.Predict(X)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: round %d", op, t)
		}
		if len(preds) != rows {
			return nil, errors.NewDimensionMismatchError(op, rows, len(preds), 0)
		}
		for i, p := range preds {
			if c, ok := m.classIndex[p]; ok {
				votes.Set(i, c, votes.At(i, c)+m.alphas[t])
			}
		}
	}
	return votes, nil
}

// Predict returns, for every row of X, the class with the largest vote. Ties
// go to the lowest class label.
func (m *ClassificationEnsembleModel) Predict(X mat.Matrix) ([]float64, error) {
	votes, err := m.votes("ClassificationEnsembleModel.Predict", X)
	if err != nil {
		return nil, err
	}
	rows, _ := votes.Dims()
	out := make([]float64, rows)
	for i := range out {
		out[i] = m.classes[argMax(votes.RawRowView(i))]
	}
	return out, nil
}

// PredictProbability returns the vote share of every class, one row per
// observation. Columns follow Classes().
func (m *ClassificationEnsembleModel) PredictProbability(X mat.Matrix) (*mat.Dense, error) {
	votes, err := m.votes("ClassificationEnsembleModel.PredictProbability", X)
	if err != nil {
		return nil, err
	}
	if total := floats.Sum(m.alphas); total > 0 {
		votes.Scale(1/total, votes)
	}
	return votes, nil
}

// Score returns the accuracy of the ensemble on (X, y).
func (m *ClassificationEnsembleModel) Score(X mat.Matrix, y []float64) (float64, error) {
	preds, err := m.Predict(X)
	if err != nil {
		return 0, err
	}
	if len(y) != len(preds) {
		return 0, errors.NewDimensionMismatchError("ClassificationEnsembleModel.Score", len(preds), len(y), 0)
	}
	if len(y) == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, "ClassificationEnsembleModel.Score")
	}
	return metrics.Accuracy(mat.NewVecDense(len(y), y), mat.NewVecDense(len(preds), preds))
}

// RegressionEnsembleModel is a trained AdaBoost.R2 ensemble.
type RegressionEnsembleModel struct {
	ensemble
	loss Loss
}

var _ model.WeakModel = (*RegressionEnsembleModel)(nil)

// Loss returns the loss the ensemble was trained with.
func (m *RegressionEnsembleModel) Loss() Loss {
	return m.loss
}

// Predict returns the alpha-weighted mean of the weak models' predictions.
func (m *RegressionEnsembleModel) Predict(X mat.Matrix) ([]float64, error) {
	rows, err := m.checkInput("RegressionEnsembleModel.Predict", X)
	if err != nil {
		return nil, err
	}
	out := make([]float64, rows)
	for t, wm := range m.models {
		preds, err := wm.Predict(X)
		if err != nil {
			return nil, errors.Wrapf(err, "RegressionEnsembleModel.Predict: round %d", t)
		}
		if len(preds) != rows {
			return nil, errors.NewDimensionMismatchError("RegressionEnsembleModel.Predict", rows, len(preds), 0)
		}
		floats.AddScaled(out, m.alphas[t], preds)
	}
	if total := floats.Sum(m.alphas); total > 0 {
		floats.Scale(1/total, out)
	}
	return out, nil
}

// Score returns the coefficient of determination R² of the ensemble on (X, y).
func (m *RegressionEnsembleModel) Score(X mat.Matrix, y []float64) (float64, error) {
	preds, err := m.Predict(X)
	if err != nil {
		return 0, err
	}
	if len(y) != len(preds) {
		return 0, errors.NewDimensionMismatchError("RegressionEnsembleModel.Score", len(preds), len(y), 0)
	}
	if len(y) == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, "RegressionEnsembleModel.Score")
	}
	return metrics.R2Score(mat.NewVecDense(len(y), y), mat.NewVecDense(len(preds), preds))
}

// argMax returns the index of the first largest value.
func argMax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
