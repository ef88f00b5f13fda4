package graph

import "gonum.org/v1/gonum/mat"

// AdjacencyMatrix returns the n×n symmetric 0/1 adjacency matrix.
func (g *Graph) AdjacencyMatrix() *mat.SymDense {
	n := g.numVerts
	a := mat.NewSymDense(n, nil)
	for e := range g.edges {
		a.SetSym(e.V, e.W, 1)
	}
	return a
}

// Laplacian returns the n×n graph Laplacian D - A, where D is the diagonal
// degree matrix and A the adjacency matrix.
func (g *Graph) Laplacian() *mat.SymDense {
	n := g.numVerts
	l := mat.NewSymDense(n, nil)
	for e := range g.edges {
		l.SetSym(e.V, e.W, -1)
		l.SetSym(e.V, e.V, l.At(e.V, e.V)+1)
		l.SetSym(e.W, e.W, l.At(e.W, e.W)+1)
	}
	return l
}
