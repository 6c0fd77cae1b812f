// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// 決定木の構築とブースティングで発生する失敗を型付きエラーとして表現し、
// cockroachdb/errors によるスタックトレースと zerolog による構造化出力を備えます。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("treeboost-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nil を渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// EarlyStoppingWarning はブースティングが予定ラウンド数より前に停止した場合の警告です。
// 弱学習器の重み付き誤差が閾値に達したことを示し、エラーではありません。
type EarlyStoppingWarning struct {
	Learner        string
	Round          int
	RoundsPlanned  int
	WeightedError  float64
	ErrorThreshold float64
}

func (w *EarlyStoppingWarning) Error() string {
	return fmt.Sprintf("%s stopped at round %d of %d: weighted error %.6g reached threshold %.6g",
		w.Learner, w.Round, w.RoundsPlanned, w.WeightedError, w.ErrorThreshold)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *EarlyStoppingWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("learner", w.Learner).
		Int("round", w.Round).
		Int("rounds_planned", w.RoundsPlanned).
		Float64("weighted_error", w.WeightedError).
		Float64("error_threshold", w.ErrorThreshold).
		Str("type", "EarlyStoppingWarning")
}

// NewEarlyStoppingWarning は新しいEarlyStoppingWarningを作成します。
func NewEarlyStoppingWarning(learner string, round, planned int, weightedError, threshold float64) *EarlyStoppingWarning {
	return &EarlyStoppingWarning{
		Learner:        learner,
		Round:          round,
		RoundsPlanned:  planned,
		WeightedError:  weightedError,
		ErrorThreshold: threshold,
	}
}

// UndefinedMetricWarning は評価指標が計算できない場合に発生する警告です。
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64 // この条件で返される値
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

// NewUndefinedMetricWarning は新しいUndefinedMetricWarningを作成します。
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で `Predict` を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("treeboost: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionMismatchError は観測値・目的変数・重みの長さが一致しない場合のエラーです。
type DimensionMismatchError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("treeboost: %s: dimension mismatch on axis %d (%s). Expected %d, got %d",
		e.Op, e.Axis, axisName(e.Axis), e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName(e.Axis)).
		Str("type", "DimensionMismatchError")
}

// NewDimensionMismatchError は新しいDimensionMismatchErrorを作成し、スタックトレースを付与します。
func NewDimensionMismatchError(op string, expected, got, axis int) error {
	err := &DimensionMismatchError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

func axisName(axis int) string {
	if axis == 0 {
		return "rows"
	}
	return "features"
}

// InvalidArgumentError はコンストラクタやオプションに不正な値が渡された場合のエラーです。
// 例えば、最小分割サイズやラウンド数が0以下の場合など。
type InvalidArgumentError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("treeboost: invalid argument '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InvalidArgumentError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "InvalidArgumentError")
}

// NewInvalidArgumentError は新しいInvalidArgumentErrorを作成し、スタックトレースを付与します。
func NewInvalidArgumentError(param, reason string, value interface{}) error {
	err := &InvalidArgumentError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// InvalidIntervalError は不正な区間、または空の区間が渡された場合のエラーです。
type InvalidIntervalError struct {
	FromInclusive int
	ToExclusive   int
	Reason        string
}

func (e *InvalidIntervalError) Error() string {
	return fmt.Sprintf("treeboost: invalid interval [%d, %d): %s", e.FromInclusive, e.ToExclusive, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InvalidIntervalError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("from_inclusive", e.FromInclusive).
		Int("to_exclusive", e.ToExclusive).
		Str("reason", e.Reason).
		Str("type", "InvalidIntervalError")
}

// NewInvalidIntervalError は新しいInvalidIntervalErrorを作成し、スタックトレースを付与します。
func NewInvalidIntervalError(from, to int, reason string) error {
	err := &InvalidIntervalError{FromInclusive: from, ToExclusive: to, Reason: reason}
	return errors.WithStack(err)
}

// TreeDepthExceededError は呼び出し側が指定した最大深さ自体が不正（0以下）な場合のエラーです。
// 深さ制限による葉の生成は正常な終端であり、このエラーにはなりません。
type TreeDepthExceededError struct {
	MaxDepth int
}

func (e *TreeDepthExceededError) Error() string {
	return fmt.Sprintf("treeboost: maximum tree depth must be positive (got: %d)", e.MaxDepth)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *TreeDepthExceededError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("max_depth", e.MaxDepth).
		Str("type", "TreeDepthExceededError")
}

// NewTreeDepthExceededError は新しいTreeDepthExceededErrorを作成し、スタックトレースを付与します。
func NewTreeDepthExceededError(maxDepth int) error {
	return errors.WithStack(&TreeDepthExceededError{MaxDepth: maxDepth})
}

// WeakLearnerFitError はあるラウンドで弱学習器の学習が失敗した場合のエラーです。
// ブースティング全体を中断させます。
type WeakLearnerFitError struct {
	Learner string
	Round   int
	Err     error
}

func (e *WeakLearnerFitError) Error() string {
	return fmt.Sprintf("treeboost: %s: weak learner fit failed at round %d: %v", e.Learner, e.Round, e.Err)
}

func (e *WeakLearnerFitError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *WeakLearnerFitError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("learner", e.Learner).
		Int("round", e.Round).
		AnErr("cause", e.Err).
		Str("type", "WeakLearnerFitError")
}

// NewWeakLearnerFitError は新しいWeakLearnerFitErrorを作成し、スタックトレースを付与します。
func NewWeakLearnerFitError(learner string, round int, err error) error {
	return errors.WithStack(&WeakLearnerFitError{Learner: learner, Round: round, Err: err})
}

// UnableToLearnError は使用可能なラウンドが1つも完了しなかった場合のエラーです。
type UnableToLearnError struct {
	Learner string
	Reason  string
}

func (e *UnableToLearnError) Error() string {
	return fmt.Sprintf("treeboost: %s: unable to learn: %s", e.Learner, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *UnableToLearnError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("learner", e.Learner).
		Str("reason", e.Reason).
		Str("type", "UnableToLearnError")
}

// NewUnableToLearnError は新しいUnableToLearnErrorを作成し、スタックトレースを付与します。
func NewUnableToLearnError(learner, reason string) error {
	return errors.WithStack(&UnableToLearnError{Learner: learner, Reason: reason})
}

// NumericalInstabilityError は数値計算が不安定になった場合のエラーです。
// NaN、Inf などを検出します。
type NumericalInstabilityError struct {
	Operation string                 // 発生した操作（例: "vote_weight", "sample_weights"）
	Values    []float64              // 問題のある値
	Context   map[string]interface{} // デバッグ用の追加コンテキスト情報
	Iteration int                    // 発生したイテレーション番号
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("treeboost: numerical instability detected in %s at iteration %d. Values: [%s]",
		e.Operation, e.Iteration, valStr)
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation string, values []float64, iteration int) error {
	err := &NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Iteration: iteration,
		Context:   make(map[string]interface{}),
	}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")
)
