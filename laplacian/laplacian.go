// Package laplacian builds graph Laplacians L = Deg − A from gonum graphs, in
// dense and sparse form. Rows follow ascending node ID; the returned ID slice
// maps row i back to its node.
package laplacian

import (
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regreg/core/linop"
	"github.com/YuminosukeSato/regreg/pkg/errors"
)

// edge is one undirected edge in row indices.
type edge struct {
	i, j int
	w    float64
}

// structure is a graph flattened to row indices.
type structure struct {
	ids    []int64
	edges  []edge
	degree []float64
}

// collect returns the sorted node IDs, every edge once and the weighted
// degrees. Self loops are dropped: they cancel in Deg − A.
func collect(g graph.Undirected) (*structure, error) {
	if g == nil {
		return nil, errors.NewValueError("laplacian", "graph must not be nil")
	}
	ids := make([]int64, 0, g.Nodes().Len())
	for nodes := g.Nodes(); nodes.Next(); {
		ids = append(ids, nodes.Node().ID())
	}
	if len(ids) == 0 {
		return nil, errors.NewValueError("laplacian", "graph has no nodes")
	}
	slices.Sort(ids)
	index := make(map[int64]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	weighted, _ := g.(graph.Weighted)
	st := &structure{ids: ids, degree: make([]float64, len(ids))}
	for i, uid := range ids {
		for to := g.From(uid); to.Next(); {
			vid := to.Node().ID()
			j := index[vid]
			if j <= i {
				continue
			}
			w := 1.0
			if weighted != nil {
				if wt, ok := weighted.Weight(uid, vid); ok {
					w = wt
				}
			}
			if w < 0 {
				return nil, errors.NewValidationError("weight", "edge weights must be non-negative", w)
			}
			st.edges = append(st.edges, edge{i: i, j: j, w: w})
			st.degree[i] += w
			st.degree[j] += w
		}
	}
	return st, nil
}

// Dense returns the Laplacian of g as a symmetric dense matrix.
func Dense(g graph.Undirected) (*mat.SymDense, []int64, error) {
	st, err := collect(g)
	if err != nil {
		return nil, nil, err
	}
	l := mat.NewSymDense(len(st.ids), nil)
	for i, d := range st.degree {
		l.SetSym(i, i, d)
	}
	for _, e := range st.edges {
		l.SetSym(e.i, e.j, -e.w)
	}
	return l, st.ids, nil
}

// Sparse returns the Laplacian of g in CSR form, entry-wise identical to Dense.
func Sparse(g graph.Undirected) (*linop.CSR, []int64, error) {
	st, err := collect(g)
	if err != nil {
		return nil, nil, err
	}
	b := linop.NewTripletBuilder(len(st.ids), len(st.ids))
	for i, d := range st.degree {
		b.Add(i, i, d)
	}
	for _, e := range st.edges {
		b.Add(e.i, e.j, -e.w)
		b.Add(e.j, e.i, -e.w)
	}
	csr, err := b.ToCSR()
	if err != nil {
		return nil, nil, err
	}
	return csr, st.ids, nil
}
