// Package model は推定器が共有する状態管理とインターフェースを提供する
package model

// Estimator は学習状態を持つモデルのインターフェース
type Estimator interface {
	// IsFitted は Fit が成功済みかどうかを返す
	IsFitted() bool
	// Reset は学習結果を破棄する
	Reset()
}

// CoefficientModel は係数ベクトルを出力するモデルのインターフェース
type CoefficientModel interface {
	Estimator
	// Coefs は学習済み係数のコピーを返す（未学習なら nil）
	Coefs() []float64
	// Output は係数と目的関数値を返す
	Output() ([]float64, float64, error)
}
