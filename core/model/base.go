package model

// EstimatorState はモデルの学習状態を表す
type EstimatorState int

const (
	// NotFitted はモデルが未学習の状態
	NotFitted EstimatorState = iota
	// Fitted は少なくとも一度 Fit が成功した状態
	Fitted
)

func (s EstimatorState) String() string {
	if s == Fitted {
		return "fitted"
	}
	return "not_fitted"
}

// BaseEstimator は全ての推定器に埋め込む学習状態と学習回数の管理部
type BaseEstimator struct {
	state EstimatorState
	fits  int
}

// IsFitted はモデルが学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted はモデルを学習済み状態に設定し、学習回数を数える
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
	e.fits++
}

// State は現在の学習状態を返す
func (e *BaseEstimator) State() EstimatorState {
	return e.state
}

// FitCount は成功した Fit の回数を返す（ウォームスタートの判定に使う）
func (e *BaseEstimator) FitCount() int {
	return e.fits
}

// Reset はモデルを初期状態にリセットする
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
	e.fits = 0
}
