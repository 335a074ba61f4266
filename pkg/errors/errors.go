// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// ソルバーが返すエラーはすべてスタックトレース付きで、errors.Is で判定できる
// センチネル（ErrInvalidDimension など）がマークされています。
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
		log.Printf("regreg-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
// これにより、ConvergenceWarningなどのカスタム警告の処理方法を制御できます。
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
// zerologが利用可能な場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
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
//	センチネル
//
// ===========================================================================

var (
	// ErrInvalidDimension は初期点や入力ベクトルの長さが問題の次元と一致しない場合にマークされます。
	ErrInvalidDimension = errors.New("invalid dimension")

	// ErrNonFiniteIterate は反復中に係数が NaN / Inf になった場合にマークされます。
	ErrNonFiniteIterate = errors.New("non-finite iterate")

	// ErrBacktrackExhausted はバックトラッキングが上限回数内に Lipschitz 定数を見つけられなかった場合にマークされます。
	ErrBacktrackExhausted = errors.New("backtracking exhausted")

	// ErrObjectivePanic は目的関数（勾配・近接写像）の評価中に panic が起きた場合にマークされます。
	ErrObjectivePanic = errors.New("objective panicked")

	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = errors.New("empty data")
)

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// ConvergenceWarning は最適化アルゴリズムが収束しなかった場合に発生する警告です。
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
	Message    string
}

func (w *ConvergenceWarning) Error() string {
	if w.Message != "" {
		return fmt.Sprintf("%s failed to converge after %d iterations: %s", w.Algorithm, w.Iterations, w.Message)
	}
	return fmt.Sprintf("%s failed to converge after %d iterations. Consider increasing max_iterations or the tolerance.", w.Algorithm, w.Iterations)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Str("message", w.Message).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning は新しいConvergenceWarningを作成します。
func NewConvergenceWarning(algorithm string, iterations int, message string) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, Message: message}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// NotFittedError は推定器が未学習の状態で結果を参照した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("regreg: %s: this estimator is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
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

// DimensionError はベクトルや行列の次元が期待値と異なる場合のエラーです。
// 返されるエラーには ErrInvalidDimension がマークされます。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows / vector length, 1 for columns
}

func (e *DimensionError) Error() string {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("regreg: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.Mark(errors.WithStack(err), ErrInvalidDimension)
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("regreg: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("regreg: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// NewEmptyDataError は空の入力に対する ValueError を作成します。
// 返されるエラーには ErrEmptyData がマークされます。
func NewEmptyDataError(op string) error {
	err := &ValueError{Op: op, Message: "empty data"}
	return errors.Mark(errors.WithStack(err), ErrEmptyData)
}

// NumericalInstabilityError は反復値が NaN や Inf になった場合のエラーです。
// 返されるエラーには ErrNonFiniteIterate がマークされます。
type NumericalInstabilityError struct {
	Operation string    // 発生した操作（例: "fista.iterate", "fista.lipschitz"）
	Values    []float64 // 問題のある値
	Iteration int       // 発生したイテレーション番号
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
	return fmt.Sprintf("regreg: numerical instability detected in %s at iteration %d. Values: [%s]",
		e.Operation, e.Iteration, valStr)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NumericalInstabilityError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Operation).
		Int("iteration", e.Iteration).
		Floats64("values", e.Values).
		Str("type", "NumericalInstabilityError")
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation string, values []float64, iteration int) error {
	err := &NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Iteration: iteration,
	}
	return errors.Mark(errors.WithStack(err), ErrNonFiniteIterate)
}

// BacktrackExhaustedError はバックトラッキングが十分減少条件を満たす L を見つけられなかった場合のエラーです。
// 返されるエラーには ErrBacktrackExhausted がマークされます。
type BacktrackExhaustedError struct {
	Iteration     int
	Backtracks    int
	LastLipschitz float64
}

func (e *BacktrackExhaustedError) Error() string {
	return fmt.Sprintf("regreg: backtracking failed at iteration %d after %d doublings (last L=%.6g)",
		e.Iteration, e.Backtracks, e.LastLipschitz)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *BacktrackExhaustedError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("iteration", e.Iteration).
		Int("backtracks", e.Backtracks).
		Float64("lipschitz", e.LastLipschitz).
		Str("type", "BacktrackExhaustedError")
}

// NewBacktrackExhaustedError は新しいBacktrackExhaustedErrorを作成します。
func NewBacktrackExhaustedError(iteration, backtracks int, lastL float64) error {
	err := &BacktrackExhaustedError{Iteration: iteration, Backtracks: backtracks, LastLipschitz: lastL}
	return errors.Mark(errors.WithStack(err), ErrBacktrackExhausted)
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

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}
