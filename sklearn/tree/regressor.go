package tree

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/treeboost/core/model"
	"github.com/YuminosukeSato/treeboost/metrics"
	"github.com/YuminosukeSato/treeboost/pkg/errors"
	"github.com/YuminosukeSato/treeboost/pkg/log"
)

// DecisionTreeRegressor は決定木による回帰器
type DecisionTreeRegressor struct {
	params

	state *model.StateManager
	tree  *Tree

	nFeatures_ int
}

var (
	_ model.Regressor       = (*DecisionTreeRegressor)(nil)
	_ model.ParameterGetter = (*DecisionTreeRegressor)(nil)
	_ model.ParameterSetter = (*DecisionTreeRegressor)(nil)
)

// NewDecisionTreeRegressor は新しい DecisionTreeRegressor を作成する
func NewDecisionTreeRegressor(opts ...Option) *DecisionTreeRegressor {
	p := defaultParams(Regression)
	for _, opt := range opts {
		opt(&p)
	}
	return &DecisionTreeRegressor{
		params: p,
		state:  model.NewStateManager("DecisionTreeRegressor"),
	}
}

// Fit は X (n×m) と y (n×1) で回帰木を学習する
func (dt *DecisionTreeRegressor) Fit(X, y mat.Matrix) (err error) {
	return dt.FitWeighted(X, y, nil)
}

// FitWeighted はサンプル重み付きで回帰木を学習する。w が空なら重みなし
func (dt *DecisionTreeRegressor) FitWeighted(X, y mat.Matrix, w []float64) (err error) {
	defer errors.Recover(&err, "DecisionTreeRegressor.Fit")

	targets, err := targetColumn("DecisionTreeRegressor.Fit", X, y)
	if err != nil {
		return err
	}
	cfg, err := dt.builderConfig(Regression)
	if err != nil {
		return err
	}
	if cfg.Logger == nil {
		cfg.Logger = log.GetLoggerWithName("tree.regressor")
	}
	b, err := NewBuilder(cfg)
	if err != nil {
		return err
	}
	t, err := b.Build(X, targets, w)
	if err != nil {
		return err
	}

	_, cols := X.Dims()
	dt.tree = t
	dt.nFeatures_ = cols
	dt.state.MarkFitted(cols)
	return nil
}

// Predict は各サンプルの予測値を n×1 の行列で返す
func (dt *DecisionTreeRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := dt.state.RequireFitted("Predict"); err != nil {
		return nil, err
	}
	_, cols := X.Dims()
	if err := dt.state.RequireFeatures("DecisionTreeRegressor.Predict", cols); err != nil {
		return nil, err
	}
	preds, err := dt.tree.Predict(X)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(len(preds), 1, preds), nil
}

// Score は決定係数 R² を返す。予測に失敗した場合は 0 を返す
func (dt *DecisionTreeRegressor) Score(X, y mat.Matrix) float64 {
	pred, err := dt.Predict(X)
	if err != nil {
		return 0
	}
	r2, err := metrics.R2ScoreMatrix(y, pred)
	if err != nil {
		var undefined *errors.UndefinedMetricWarning
		if errors.As(err, &undefined) {
			errors.Warn(undefined)
		}
		return 0
	}
	return r2
}

// GetFeatureImportances は正規化された特徴量重要度を返す
func (dt *DecisionTreeRegressor) GetFeatureImportances() []float64 {
	if dt.tree == nil {
		return nil
	}
	return dt.tree.FeatureImportances()
}

// GetDepth は木の深さを返す
func (dt *DecisionTreeRegressor) GetDepth() int {
	if dt.tree == nil {
		return 0
	}
	return dt.tree.Depth()
}

// GetNLeaves は葉の数を返す
func (dt *DecisionTreeRegressor) GetNLeaves() int {
	if dt.tree == nil {
		return 0
	}
	return dt.tree.LeafCount()
}

// Tree は学習済みの木を返す。未学習の場合は nil
func (dt *DecisionTreeRegressor) Tree() *Tree {
	return dt.tree
}
