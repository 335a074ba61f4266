// Package regreg solves regularized regression problems of the form
//
//	minimize F(β) = f(β) + g(β)
//
// where f is convex and smooth and g is convex with a cheap proximal map, using
// the fast iterative shrinkage-thresholding algorithm (FISTA).
//
// # Quick Start
//
// Here's a fused lasso fit of a noisy signal y:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/regreg/core/linop"
//	    "github.com/YuminosukeSato/regreg/fista"
//	    "github.com/YuminosukeSato/regreg/problem"
//	)
//
//	func main() {
//	    y := []float64{0.1, -0.2, 6.1, 5.8, 6.3, 0.2, -0.1}
//	    d, _ := linop.FirstDifference(len(y))
//
//	    dual, err := problem.NewSignalDual(d, y, 2)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    res, err := fista.Fit(dual, fista.NewConfig(fista.WithTol(1e-10)), nil)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(dual.Primal(res.Coefficients))
//	}
//
// # Packages
//
//   - fista: the solver, its configuration and iteration callbacks
//   - smooth: differentiable terms (linear, ridge, quadratic forms, least squares)
//   - penalty: proximal maps (lasso, non-negative lasso, ℓ∞ ball, generalized lasso)
//   - problem: composite objectives and the lasso / graph-net / fused-lasso families
//   - regression: a stateful estimator with warm starts
//   - laplacian: graph Laplacians from gonum graphs, dense and sparse
//   - reference: derivative-free minimisers for checking results
//   - compare: concurrent side-by-side fits of two formulations
//   - metrics: coefficient comparison metrics
//   - preprocessing: column standardization of design matrices
//   - core/linop: dense and sparse linear operators and eigenvalue bounds
//   - core/model: estimator state shared by stateful models
//   - core/parallel: parallel processing utilities
//
// # Dense and Sparse Data
//
// Every matrix enters through linop.Operator. A gonum mat.Matrix is wrapped
// with linop.NewDense; sparse data uses linop.CSR, whose row products are
// parallelised automatically for large matrices. The solver never inspects
// the representation.
//
// # Errors and Logging
//
// Errors carry stack traces and are classified with errors.Is against the
// sentinels of pkg/errors (ErrInvalidDimension, ErrNonFiniteIterate,
// ErrBacktrackExhausted). Non-convergence is not an error: the result reports
// Converged=false and a ConvergenceWarning is logged. Logging goes through
// pkg/log, backed by zerolog.
package regreg
