// Package tree implements decision tree induction: a builder growing binary
// trees over an index arena, a weak-learner facade used by boosting, and
// scikit-learn style DecisionTreeClassifier and DecisionTreeRegressor.
package tree

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/treeboost/core/model"
	"github.com/YuminosukeSato/treeboost/metrics"
	"github.com/YuminosukeSato/treeboost/pkg/errors"
	"github.com/YuminosukeSato/treeboost/pkg/log"
)

// DecisionTreeClassifier は決定木による分類器
type DecisionTreeClassifier struct {
	params

	state *model.StateManager
	tree  *Tree

	// 学習後の属性
	classes_   []float64
	nClasses_  int
	nFeatures_ int
}

var (
	_ model.Classifier      = (*DecisionTreeClassifier)(nil)
	_ model.ParameterGetter = (*DecisionTreeClassifier)(nil)
	_ model.ParameterSetter = (*DecisionTreeClassifier)(nil)
)

// NewDecisionTreeClassifier は新しい DecisionTreeClassifier を作成する
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	p := defaultParams(Classification)
	for _, opt := range opts {
		opt(&p)
	}
	return &DecisionTreeClassifier{
		params: p,
		state:  model.NewStateManager("DecisionTreeClassifier"),
	}
}

// Fit は X (n×m) と y (n×1) で決定木を学習する
func (dt *DecisionTreeClassifier) Fit(X, y mat.Matrix) (err error) {
	return dt.FitWeighted(X, y, nil)
}

// FitWeighted fits on weighted samples. Class distributions, impurities and
// split ratios all use the summed weights; an empty w weighs every sample 1.
func (dt *DecisionTreeClassifier) FitWeighted(X, y mat.Matrix, w []float64) (err error) {
	defer errors.Recover(&err, "DecisionTreeClassifier.Fit")

	targets, err := targetColumn("DecisionTreeClassifier.Fit", X, y)
	if err != nil {
		return err
	}
	cfg, err := dt.builderConfig(Classification)
	if err != nil {
		return err
	}
	if cfg.Logger == nil {
		cfg.Logger = log.GetLoggerWithName("tree.classifier")
	}
	b, err := NewBuilder(cfg)
	if err != nil {
		return err
	}
	t, err := b.Build(X, targets, w)
	if err != nil {
		return err
	}

	rows, cols := X.Dims()
	dt.tree = t
	dt.classes_ = t.Classes()
	dt.nClasses_ = len(dt.classes_)
	dt.nFeatures_ = cols
	dt.state.MarkFitted(cols)

	cfg.Logger.Debug("decision tree fitted",
		log.ModelNameKey, "DecisionTreeClassifier",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, rows,
		log.ClassesKey, dt.nClasses_,
	)
	return nil
}

// Predict は各サンプルのクラスラベルを n×1 の行列で返す
func (dt *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := dt.check("Predict", X); err != nil {
		return nil, err
	}
	preds, err := dt.tree.Predict(X)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(len(preds), 1, preds), nil
}

// PredictProba は各クラスの確率を返す（列はクラスラベルの昇順）
func (dt *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := dt.check("PredictProba", X); err != nil {
		return nil, err
	}
	return dt.tree.PredictProbability(X)
}

// Score は正解率を返す。予測に失敗した場合は 0 を返す
func (dt *DecisionTreeClassifier) Score(X, y mat.Matrix) float64 {
	pred, err := dt.Predict(X)
	if err != nil {
		return 0
	}
	acc, err := metrics.AccuracyMatrix(y, pred)
	if err != nil {
		return 0
	}
	return acc
}

// GetFeatureImportances は正規化された特徴量重要度を返す
func (dt *DecisionTreeClassifier) GetFeatureImportances() []float64 {
	if dt.tree == nil {
		return nil
	}
	return dt.tree.FeatureImportances()
}

// GetDepth は木の深さを返す
func (dt *DecisionTreeClassifier) GetDepth() int {
	if dt.tree == nil {
		return 0
	}
	return dt.tree.Depth()
}

// GetNLeaves は葉の数を返す
func (dt *DecisionTreeClassifier) GetNLeaves() int {
	if dt.tree == nil {
		return 0
	}
	return dt.tree.LeafCount()
}

// Classes は学習時に見たクラスラベルを返す
func (dt *DecisionTreeClassifier) Classes() []float64 {
	return append([]float64(nil), dt.classes_...)
}

// Tree は学習済みの木を返す。未学習の場合は nil
func (dt *DecisionTreeClassifier) Tree() *Tree {
	return dt.tree
}

func (dt *DecisionTreeClassifier) check(method string, X mat.Matrix) error {
	if err := dt.state.RequireFitted(method); err != nil {
		return err
	}
	_, cols := X.Dims()
	return dt.state.RequireFeatures("DecisionTreeClassifier."+method, cols)
}

// targetColumn は y を検証し、1 列目をスライスとして取り出す
func targetColumn(op string, X, y mat.Matrix) ([]float64, error) {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, op)
	}
	yRows, yCols := y.Dims()
	if yRows != rows {
		return nil, errors.NewDimensionMismatchError(op, rows, yRows, 0)
	}
	if yCols != 1 {
		return nil, errors.NewInvalidArgumentError("y", "must be a column vector (n×1 matrix)", yCols)
	}
	if err := errors.CheckMatrix(op, X, rows, cols, 0); err != nil {
		return nil, err
	}
	targets := mat.Col(nil, 0, y)
	if err := errors.CheckNumericalStability(op, targets, 0); err != nil {
		return nil, err
	}
	return targets, nil
}
