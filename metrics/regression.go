// Package metrics scores predictions against targets: accuracy and
// misclassification rate for classifiers, mean squared error and R² for
// regressors. Boosting uses them for its per-round training error and the
// models use them in Score.
package metrics

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

// checkPair は入力ベクトルを検証し、長さを返す
func checkPair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, op)
	}
	if yPred.Len() != yTrue.Len() {
		return 0, errors.NewDimensionMismatchError(op, yTrue.Len(), yPred.Len(), 0)
	}
	return yTrue.Len(), nil
}

// columnVectors turns two n×1 matrices into vectors.
func columnVectors(op string, yTrue, yPred mat.Matrix) (*mat.VecDense, *mat.VecDense, error) {
	rows, cols := yTrue.Dims()
	if rows == 0 || cols == 0 {
		return nil, nil, errors.Wrap(errors.ErrEmptyData, op)
	}
	if r, c := yPred.Dims(); r != rows || c != cols {
		return nil, nil, errors.NewDimensionMismatchError(op, rows, r, 0)
	}
	if cols != 1 {
		return nil, nil, errors.NewInvalidArgumentError("y", "must be a column vector (n×1 matrix)", cols)
	}
	return mat.NewVecDense(rows, mat.Col(nil, 0, yTrue)), mat.NewVecDense(rows, mat.Col(nil, 0, yPred)), nil
}

// residuals returns yTrue - yPred.
func residuals(yTrue, yPred *mat.VecDense) *mat.VecDense {
	var r mat.VecDense
	r.SubVec(yTrue, yPred)
	return &r
}

// MSE は平均二乗誤差を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	r := residuals(yTrue, yPred)
	return mat.Dot(r, r) / float64(n), nil
}

// R2Score is the coefficient of determination 1 - RSS/TSS. A constant yTrue
// has no total variance; the result is then an UndefinedMetricWarning.
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// TSS は母分散 × n
	targets := mat.Col(nil, 0, yTrue)
	tss := stat.PopVariance(targets, nil) * float64(n)
	if tss == 0 {
		return 0, errors.WithStack(errors.NewUndefinedMetricWarning("R2Score", "no variance in yTrue", 0))
	}
	r := residuals(yTrue, yPred)
	return 1 - mat.Dot(r, r)/tss, nil
}

// R2ScoreMatrix は n×1 の行列に対して R² を計算する
func R2ScoreMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := columnVectors("R2ScoreMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return R2Score(t, p)
}
