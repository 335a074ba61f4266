package linop

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

type triplet struct {
	i, j int
	v    float64
}

// TripletBuilder accumulates (row, col, value) entries in any order and
// converts them to CSR. Repeated coordinates are summed.
type TripletBuilder struct {
	rows, cols int
	entries    []triplet
}

// NewTripletBuilder returns an empty builder for a rows×cols matrix.
func NewTripletBuilder(rows, cols int) *TripletBuilder {
	return &TripletBuilder{rows: rows, cols: cols}
}

// Add records A[i,j] += v. It panics with mat.ErrIndexOutOfRange for
// coordinates outside the matrix.
func (b *TripletBuilder) Add(i, j int, v float64) {
	if i < 0 || i >= b.rows || j < 0 || j >= b.cols {
		panic(mat.ErrIndexOutOfRange)
	}
	b.entries = append(b.entries, triplet{i: i, j: j, v: v})
}

// ToCSR sorts, sums duplicates and drops entries that cancel to zero.
func (b *TripletBuilder) ToCSR() (*CSR, error) {
	entries := make([]triplet, len(b.entries))
	copy(entries, b.entries)
	sort.Slice(entries, func(a, c int) bool {
		if entries[a].i != entries[c].i {
			return entries[a].i < entries[c].i
		}
		return entries[a].j < entries[c].j
	})

	indptr := make([]int, b.rows+1)
	indices := make([]int, 0, len(entries))
	data := make([]float64, 0, len(entries))
	for k := 0; k < len(entries); {
		e := entries[k]
		sum := 0.0
		for k < len(entries) && entries[k].i == e.i && entries[k].j == e.j {
			sum += entries[k].v
			k++
		}
		if sum == 0 {
			continue
		}
		indices = append(indices, e.j)
		data = append(data, sum)
		indptr[e.i+1]++
	}
	for i := 0; i < b.rows; i++ {
		indptr[i+1] += indptr[i]
	}
	return NewCSR(b.rows, b.cols, indptr, indices, data)
}
