package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う（n×1 の行列）
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Estimator は教師あり学習モデルの基本インターフェース
type Estimator interface {
	Fitter
	Predictor
}

// Classifier は scikit-learn 互換の分類器
type Classifier interface {
	Estimator

	// PredictProba は各クラスの確率を予測する（列はクラスラベルの昇順）
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Score は正解率を返す
	Score(X, y mat.Matrix) float64
}

// Regressor は scikit-learn 互換の回帰器
type Regressor interface {
	Estimator

	// Score は決定係数 R² を返す
	Score(X, y mat.Matrix) float64
}

// ParameterGetter はハイパーパラメータを公開するモデル
type ParameterGetter interface {
	GetParams() map[string]interface{}
}

// ParameterSetter はハイパーパラメータの変更を許すモデル
type ParameterSetter interface {
	SetParams(params map[string]interface{}) error
}
