package linop

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regreg/core/parallel"
	"github.com/YuminosukeSato/regreg/pkg/errors"
)

// 行数がこの値を超えると Apply は行チャンクごとに並列化する
const parallelRowThreshold = 2048

// CSR is a compressed sparse row matrix. It implements both Operator and
// mat.Matrix, so it can be handed to gonum routines that accept a mat.Matrix.
type CSR struct {
	rows, cols int
	indptr     []int
	indices    []int
	data       []float64
}

var (
	_ Operator   = (*CSR)(nil)
	_ mat.Matrix = (*CSR)(nil)
)

// NewCSR builds a CSR matrix from raw arrays. Column indices must be strictly
// increasing within each row. The slices are used directly, not copied.
func NewCSR(rows, cols int, indptr, indices []int, data []float64) (*CSR, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.NewValueError("linop.NewCSR", fmt.Sprintf("invalid shape %dx%d", rows, cols))
	}
	if len(indptr) != rows+1 {
		return nil, errors.NewDimensionError("linop.NewCSR", rows+1, len(indptr), 0)
	}
	if len(indices) != len(data) {
		return nil, errors.NewDimensionError("linop.NewCSR", len(indices), len(data), 0)
	}
	if indptr[0] != 0 || indptr[rows] != len(data) {
		return nil, errors.NewValueError("linop.NewCSR", "indptr must start at 0 and end at nnz")
	}
	for i := 0; i < rows; i++ {
		if indptr[i] > indptr[i+1] {
			return nil, errors.NewValueError("linop.NewCSR", fmt.Sprintf("indptr decreases at row %d", i))
		}
		prev := -1
		for k := indptr[i]; k < indptr[i+1]; k++ {
			j := indices[k]
			if j < 0 || j >= cols {
				return nil, errors.NewValueError("linop.NewCSR", fmt.Sprintf("column index %d out of range in row %d", j, i))
			}
			if j <= prev {
				return nil, errors.NewValueError("linop.NewCSR", fmt.Sprintf("column indices not strictly increasing in row %d", i))
			}
			prev = j
		}
	}
	return &CSR{rows: rows, cols: cols, indptr: indptr, indices: indices, data: data}, nil
}

// CSRFromDense converts m to CSR, dropping exact zeros.
func CSRFromDense(m mat.Matrix) (*CSR, error) {
	r, c := m.Dims()
	b := NewTripletBuilder(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); v != 0 {
				b.Add(i, j, v)
			}
		}
	}
	return b.ToCSR()
}

// FirstDifference returns the (n-1)×n difference matrix D with
// (Dβ)_i = β_{i+1} - β_i, the penalty operator of the fused lasso.
func FirstDifference(n int) (*CSR, error) {
	if n < 2 {
		return nil, errors.NewValidationError("n", "first difference needs at least 2 points", n)
	}
	rows := n - 1
	indptr := make([]int, rows+1)
	indices := make([]int, 0, 2*rows)
	data := make([]float64, 0, 2*rows)
	for i := 0; i < rows; i++ {
		indices = append(indices, i, i+1)
		data = append(data, -1, 1)
		indptr[i+1] = len(data)
	}
	return NewCSR(rows, n, indptr, indices, data)
}

// Dims implements Operator and mat.Matrix.
func (s *CSR) Dims() (int, int) { return s.rows, s.cols }

// NNZ returns the number of stored entries.
func (s *CSR) NNZ() int { return len(s.data) }

// At implements mat.Matrix.
func (s *CSR) At(i, j int) float64 {
	if i < 0 || i >= s.rows || j < 0 || j >= s.cols {
		panic(mat.ErrIndexOutOfRange)
	}
	lo, hi := s.indptr[i], s.indptr[i+1]
	k := lo + sort.SearchInts(s.indices[lo:hi], j)
	if k < hi && s.indices[k] == j {
		return s.data[k]
	}
	return 0
}

// T implements mat.Matrix.
func (s *CSR) T() mat.Matrix { return mat.Transpose{Matrix: s} }

// Apply implements Operator. Rows are independent, so large matrices are
// split across goroutines.
func (s *CSR) Apply(dst, x []float64) {
	if len(x) != s.cols || len(dst) != s.rows {
		panic(mat.ErrShape)
	}
	parallel.ParallelizeWithThreshold(s.rows, parallelRowThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			var sum float64
			for k := s.indptr[i]; k < s.indptr[i+1]; k++ {
				sum += s.data[k] * x[s.indices[k]]
			}
			dst[i] = sum
		}
	})
}

// ApplyTranspose implements Operator.
func (s *CSR) ApplyTranspose(dst, y []float64) {
	if len(y) != s.rows || len(dst) != s.cols {
		panic(mat.ErrShape)
	}
	for j := range dst {
		dst[j] = 0
	}
	for i := 0; i < s.rows; i++ {
		yi := y[i]
		if yi == 0 {
			continue
		}
		for k := s.indptr[i]; k < s.indptr[i+1]; k++ {
			dst[s.indices[k]] += s.data[k] * yi
		}
	}
}

// ToDense returns a dense copy.
func (s *CSR) ToDense() *mat.Dense {
	d := mat.NewDense(s.rows, s.cols, nil)
	for i := 0; i < s.rows; i++ {
		for k := s.indptr[i]; k < s.indptr[i+1]; k++ {
			d.Set(i, s.indices[k], s.data[k])
		}
	}
	return d
}
