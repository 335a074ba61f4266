// Package metrics は係数ベクトルや予測値の比較に使う指標を提供する
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/regreg/pkg/errors"
)

func check(op string, a, b []float64) error {
	if len(a) == 0 {
		return errors.NewEmptyDataError(op)
	}
	if len(b) != len(a) {
		return errors.NewDimensionError(op, len(a), len(b), 0)
	}
	return nil
}

// AbsDiffSum は Σ|a − b| を計算する
func AbsDiffSum(a, b []float64) (float64, error) {
	if err := check("AbsDiffSum", a, b); err != nil {
		return 0, err
	}
	return floats.Distance(a, b, 1), nil
}

// RelativeL1Difference は Σ|a − b| / Σ|a| を計算する
// 二つのソルバーの出力を比べるときの基準。a がゼロベクトルなら b もゼロの場合のみ 0、それ以外は +Inf。
func RelativeL1Difference(a, b []float64) (float64, error) {
	diff, err := AbsDiffSum(a, b)
	if err != nil {
		return 0, errors.Wrap(err, "RelativeL1Difference")
	}
	norm := floats.Norm(a, 1)
	if norm == 0 {
		if diff == 0 {
			return 0, nil
		}
		return math.Inf(1), nil
	}
	return diff / norm, nil
}

// MaxAbsDiff は max|a − b| を計算する
func MaxAbsDiff(a, b []float64) (float64, error) {
	if err := check("MaxAbsDiff", a, b); err != nil {
		return 0, err
	}
	return floats.Distance(a, b, math.Inf(1)), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred []float64) (float64, error) {
	if err := check("MAE", yTrue, yPred); err != nil {
		return 0, err
	}
	return floats.Distance(yTrue, yPred, 1) / float64(len(yTrue)), nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred []float64) (float64, error) {
	if err := check("MSE", yTrue, yPred); err != nil {
		return 0, err
	}
	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := range yTrue {
		diff := yTrue[i] - yPred[i]
		sum += diff * diff
	}
	return sum / float64(len(yTrue)), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred []float64) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// Support は |β_i| > thr となる添字を返す（スパース解の比較用）
func Support(beta []float64, thr float64) []int {
	var idx []int
	for i, b := range beta {
		if math.Abs(b) > thr {
			idx = append(idx, i)
		}
	}
	return idx
}
