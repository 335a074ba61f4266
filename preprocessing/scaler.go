// Package preprocessing は設計行列の列を標準化し、標準化後の空間で推定した係数を
// 元のスケールに戻すための前処理を提供する
package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/regreg/core/model"
	"github.com/YuminosukeSato/regreg/core/parallel"
	"github.com/YuminosukeSato/regreg/pkg/errors"
)

// 列数がこの値を超えると列ごとの統計量を並列に計算する
const parallelColumnThreshold = 64

// StandardScaler は各列を平均0、標準偏差1に変換する
// ℓ1 罰則は係数のスケールに依存するため、罰則を掛ける前に列を揃える用途を想定している
type StandardScaler struct {
	model.BaseEstimator

	// Mean は各特徴量の平均値
	Mean []float64
	// Scale は各特徴量の標準偏差（定数列では 1）
	Scale []float64
	// NFeatures は特徴量の数
	NFeatures int

	WithMean bool
	WithStd  bool
}

// NewStandardScaler は新しいStandardScalerを作成する
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	xs, err := scaler.FitTransform(X)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{WithMean: withMean, WithStd: withStd}
}

// Fit は列ごとの平均と標準偏差（母標準偏差）を計算する
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewEmptyDataError("StandardScaler.Fit")
	}

	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	parallel.ParallelizeWithThreshold(c, parallelColumnThreshold, func(start, end int) {
		col := make([]float64, r)
		for j := start; j < end; j++ {
			mat.Col(col, j, X)
			mean, std := stat.PopMeanStdDev(col, nil)
			if s.WithMean {
				s.Mean[j] = mean
			}
			s.Scale[j] = 1
			if s.WithStd && std >= 1e-8 {
				// 平均を引かない場合も分散は平均まわりで測る
				s.Scale[j] = std
			}
		}
	})

	s.SetFitted()
	return nil
}

// Transform は学習済みの統計情報を使ってデータを標準化する
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}
	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.Transform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, X)
	return result, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// UnscaleCoefficients は標準化後の設計行列で推定した係数を元の列スケールに戻す
// 切片に当たる量 Σ β_j·mean_j / scale_j も返す（予測値は X·β − offset）
func (s *StandardScaler) UnscaleCoefficients(beta []float64) ([]float64, float64, error) {
	if !s.IsFitted() {
		return nil, 0, errors.NewNotFittedError("StandardScaler", "UnscaleCoefficients")
	}
	if len(beta) != s.NFeatures {
		return nil, 0, errors.NewDimensionError("StandardScaler.UnscaleCoefficients", s.NFeatures, len(beta), 0)
	}
	out := make([]float64, len(beta))
	var offset float64
	for j, b := range beta {
		out[j] = b / s.Scale[j]
		offset += out[j] * s.Mean[j]
	}
	if math.IsNaN(offset) {
		return nil, 0, errors.NewNumericalInstabilityError("StandardScaler.UnscaleCoefficients", []float64{offset}, 0)
	}
	return out, offset, nil
}
