package laplacian

import (
	"gonum.org/v1/gonum/graph/simple"

	"github.com/YuminosukeSato/regreg/pkg/errors"
)

// Lattice returns the rows×cols grid graph with 4-neighbour edges, the usual
// adjacency for image-like coefficient layouts. Node rows·c+col sits at (row, col).
func Lattice(rows, cols int) (*simple.UndirectedGraph, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.NewValidationError("shape", "rows and cols must be positive", [2]int{rows, cols})
	}
	g := simple.NewUndirectedGraph()
	for id := int64(0); id < int64(rows*cols); id++ {
		g.AddNode(simple.Node(id))
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			id := int64(r*cols + c)
			if c+1 < cols {
				g.SetEdge(g.NewEdge(simple.Node(id), simple.Node(id+1)))
			}
			if r+1 < rows {
				g.SetEdge(g.NewEdge(simple.Node(id), simple.Node(id+int64(cols))))
			}
		}
	}
	return g, nil
}
