package graph

import (
	"sort"

	"github.com/matzehuels/psdrank/pkg/errors"
)

// errInvalidVertexSet wraps vertex-set validation failures.
func errInvalidVertexSet(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidGraph, format, args...)
}

// Reachable returns the sorted set of vertices reachable from i by a
// breadth-first search, including i itself.
func (g *Graph) Reachable(i int) ([]int, error) {
	if err := g.checkVert(i); err != nil {
		return nil, err
	}
	return g.reachable(i), nil
}

// reachable is the unchecked BFS used by the component machinery.
func (g *Graph) reachable(i int) []int {
	seen := make([]bool, g.numVerts)
	seen[i] = true
	frontier := []int{i}
	for len(frontier) > 0 {
		var next []int
		for _, v := range frontier {
			for _, w := range g.neighbors(v) {
				if !seen[w] {
					seen[w] = true
					next = append(next, w)
				}
			}
		}
		frontier = next
	}
	var out []int
	for v, ok := range seen {
		if ok {
			out = append(out, v)
		}
	}
	return out
}

// ComponentIndices returns the vertex-index sets of the connected components.
// Each set is sorted; the sets are ordered by their smallest vertex. As a side
// effect the cached connectivity flag is refreshed.
func (g *Graph) ComponentIndices() [][]int {
	var components [][]int
	seen := make([]bool, g.numVerts)
	for i := 0; i < g.numVerts; i++ {
		if seen[i] {
			continue
		}
		comp := g.reachable(i)
		for _, v := range comp {
			seen[v] = true
		}
		components = append(components, comp)
	}
	if len(components) == 1 {
		g.conn = connTrue
	} else {
		g.conn = connFalse
	}
	return components
}

// Components returns each connected component as its own graph, with vertices
// relabeled 0..len-1 in sorted original order. Component graphs are marked
// connected so downstream predicates skip the BFS recheck.
func (g *Graph) Components() []*Graph {
	indices := g.ComponentIndices()
	components := make([]*Graph, 0, len(indices))
	for _, verts := range indices {
		h := g.inducedSubgraph(verts)
		h.conn = connTrue
		components = append(components, h)
	}
	return components
}

// IsConnected reports whether the graph is connected, computing and caching
// the answer on first use. A single-vertex graph is connected.
func (g *Graph) IsConnected() bool {
	if g.numVerts == 1 {
		return true
	}
	if g.conn == connUnknown {
		g.ComponentIndices()
	}
	return g.conn == connTrue
}

// InducedSubgraph returns the subgraph induced by the given vertices,
// relabeled 0..len-1 in the order of the sorted vertex list.
func (g *Graph) InducedSubgraph(verts []int) (*Graph, error) {
	if len(verts) == 0 {
		return nil, errInvalidVertexSet("induced subgraph needs at least one vertex")
	}
	seen := make(map[int]bool, len(verts))
	for _, v := range verts {
		if err := g.checkVert(v); err != nil {
			return nil, err
		}
		if seen[v] {
			return nil, errInvalidVertexSet("duplicate vertex %d in induced subgraph", v)
		}
		seen[v] = true
	}
	return g.inducedSubgraph(verts), nil
}

// inducedSubgraph builds the induced subgraph without validation.
func (g *Graph) inducedSubgraph(verts []int) *Graph {
	sorted := append([]int(nil), verts...)
	sort.Ints(sorted)
	h, _ := New(len(sorted))
	for a := 0; a < len(sorted); a++ {
		for b := a + 1; b < len(sorted); b++ {
			if g.HasEdge(sorted[a], sorted[b]) {
				_ = h.AddEdge(a, b)
			}
		}
	}
	return h
}

// IsCutVertex reports whether removing vertex i disconnects the graph.
// Vertices of degree < 2 and graphs with fewer than three vertices never
// qualify.
func (g *Graph) IsCutVertex(i int) bool {
	if g.numVerts < 3 {
		return false
	}
	if g.Degree(i) < 2 {
		return false
	}
	h := g.Clone()
	_ = h.RemoveVertex(i)
	return !h.IsConnected()
}

// CutVertex returns the smallest-index cut vertex and true, or (0, false)
// if the graph has none.
func (g *Graph) CutVertex() (int, bool) {
	for i := 0; i < g.numVerts; i++ {
		if g.IsCutVertex(i) {
			return i, true
		}
	}
	return 0, false
}

// CutVertices returns all cut vertices in ascending order.
func (g *Graph) CutVertices() []int {
	var cuts []int
	for i := 0; i < g.numVerts; i++ {
		if g.IsCutVertex(i) {
			cuts = append(cuts, i)
		}
	}
	return cuts
}

// InducedCoverFromCutVertex builds a proper induced cover from the first cut
// vertex: one induced subgraph per component of G minus the cut vertex, each
// extended by the cut vertex itself, so any two cover members intersect in
// exactly that vertex. If the graph has no cut vertex the cover is the graph
// itself. Cover members are marked connected.
func (g *Graph) InducedCoverFromCutVertex() []*Graph {
	cut, ok := g.CutVertex()
	if !ok {
		return []*Graph{g}
	}

	h := g.Clone()
	_ = h.RemoveVertex(cut)
	var cover []*Graph
	for _, comp := range h.ComponentIndices() {
		verts := make([]int, 0, len(comp)+1)
		for _, v := range comp {
			// Undo the renumbering caused by removing the cut vertex.
			if v >= cut {
				v++
			}
			verts = append(verts, v)
		}
		verts = append(verts, cut)
		piece := g.inducedSubgraph(verts)
		piece.conn = connTrue
		cover = append(cover, piece)
	}
	return cover
}
