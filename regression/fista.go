// Package regression provides stateful estimators on top of the fista solver.
package regression

import (
	"math"
	"time"

	"github.com/YuminosukeSato/regreg/core/model"
	"github.com/YuminosukeSato/regreg/fista"
	"github.com/YuminosukeSato/regreg/penalty"
	"github.com/YuminosukeSato/regreg/pkg/errors"
	"github.com/YuminosukeSato/regreg/pkg/log"
)

var _ model.CoefficientModel = (*FISTA)(nil)

// FISTA は目的関数を保持し、繰り返し Fit できる推定器
//
// 最初の Fit はゼロベクトルから、2回目以降は前回の係数からウォームスタートする。
// 一つの FISTA を複数のゴルーチンから同時に使ってはいけない。
type FISTA struct {
	model.BaseEstimator

	obj    fista.Objective
	cfg    fista.Config
	coefs  []float64
	result *fista.Result
}

// NewFISTA は obj を解く推定器を作成する。opts は全ての Fit に適用される。
func NewFISTA(obj fista.Objective, opts ...fista.Option) *FISTA {
	return &FISTA{
		obj: obj,
		cfg: fista.NewConfig(opts...),
	}
}

// Objective は推定対象の目的関数を返す
func (f *FISTA) Objective() fista.Objective { return f.obj }

// Config は Fit に渡される基本設定を返す
func (f *FISTA) Config() fista.Config { return f.cfg }

// Fit はソルバーを実行する。opts はこの呼び出しだけに適用される。
// 目的関数内の panic はエラーに変換される。
func (f *FISTA) Fit(opts ...fista.Option) (err error) {
	cfg := f.cfg.With(opts...)
	logger := cfg.Logger
	if logger == nil {
		logger = log.GetLogger()
	}
	logger = logger.With(log.ModelNameKey, "FISTA", log.OperationKey, log.OperationFit)

	defer func() {
		if errors.Is(err, errors.ErrObjectivePanic) {
			logger.Error("objective panicked", err, log.ErrorCodeKey, log.ErrorObjectivePanic)
		}
	}()
	defer errors.Recover(&err, "FISTA.Fit")

	if f.obj == nil {
		return errors.NewValueError("FISTA.Fit", "objective must not be nil")
	}

	var x0 []float64
	if f.IsFitted() {
		x0 = f.coefs
	}
	logger.Debug("fit started",
		log.FeaturesKey, f.obj.Dimension(),
		log.ToleranceKey, cfg.Tol,
		"warm_start", x0 != nil,
	)

	start := time.Now()
	res, err := fista.Fit(f.obj, cfg.With(fista.WithLogger(logger)), x0)
	if err != nil {
		if inner := proxError(f.obj); inner != nil {
			err = errors.Wrapf(err, "proximal map failed: %v", inner)
		}
		return err
	}

	f.coefs = res.Coefficients
	f.result = res
	f.SetFitted()

	logger.Debug("fit completed",
		log.StatusKey, res.Status.String(),
		log.IterationKey, res.Iterations,
		log.DurationMsKey, time.Since(start).Milliseconds(),
		"fit_count", f.FitCount(),
	)
	return nil
}

// Output は係数と目的関数値を返す。目的関数が値を報告できない場合、値は NaN。
func (f *FISTA) Output() ([]float64, float64, error) {
	if !f.IsFitted() {
		return nil, 0, errors.NewNotFittedError("FISTA", "Output")
	}
	value := math.NaN()
	if v, ok := f.result.ObjectiveValue(); ok {
		value = v
	}
	return f.Coefs(), value, nil
}

// Coefs は学習済み係数のコピーを返す（未学習なら nil）
func (f *FISTA) Coefs() []float64 {
	if !f.IsFitted() {
		return nil
	}
	return append([]float64(nil), f.coefs...)
}

// Result は直近の Fit の結果を返す（未学習なら nil）
func (f *FISTA) Result() *fista.Result {
	return f.result
}

// Reset は学習結果を破棄し、次の Fit をゼロから始めさせる
func (f *FISTA) Reset() {
	f.BaseEstimator.Reset()
	f.coefs = nil
	f.result = nil
}

// proxError は反復的に近接写像を計算するペナルティが最後に失敗した理由を取り出す
func proxError(obj fista.Objective) error {
	holder, ok := obj.(interface{ Penalty() penalty.Prox })
	if !ok {
		return nil
	}
	if r, ok := holder.Penalty().(interface{ Err() error }); ok {
		return r.Err()
	}
	return nil
}
