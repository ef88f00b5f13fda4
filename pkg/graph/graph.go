package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/psdrank/pkg/errors"
)

// connFlag is the cached tri-state connectivity of a Graph.
type connFlag int8

const (
	connUnknown connFlag = iota
	connTrue
	connFalse
)

// Edge is an unordered pair of distinct vertex indices.
// The constructor normalizes endpoints so that V < W, making equality
// independent of endpoint order.
type Edge struct {
	V int // smaller endpoint
	W int // larger endpoint
}

// NewEdge creates a normalized edge between i and j.
// Returns ErrCodeInvalidEdge for self-loops or negative endpoints.
func NewEdge(i, j int) (Edge, error) {
	if i == j {
		return Edge{}, errors.New(errors.ErrCodeInvalidEdge, "self-loop at vertex %d", i)
	}
	if i < 0 || j < 0 {
		return Edge{}, errors.New(errors.ErrCodeInvalidEdge, "negative endpoint in edge (%d, %d)", i, j)
	}
	if i > j {
		i, j = j, i
	}
	return Edge{V: i, W: j}, nil
}

// String returns the edge as "{i, j}".
func (e Edge) String() string {
	return fmt.Sprintf("{%d, %d}", e.V, e.W)
}

// Graph is a simple undirected graph on vertices 0..n-1.
//
// The zero value is not usable - use New or NewFromEdges.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	numVerts int
	edges    map[Edge]struct{}
	conn     connFlag

	knownMSR    int
	hasKnownMSR bool
}

// New creates an edgeless graph on n vertices.
// Returns ErrCodeInvalidGraph if n < 1.
func New(n int) (*Graph, error) {
	if n < 1 {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "graph must have a positive number of vertices, got %d", n)
	}
	return &Graph{
		numVerts: n,
		edges:    make(map[Edge]struct{}),
	}, nil
}

// NewFromEdges creates a graph on n vertices with the given edge list.
// Duplicate pairs collapse to a single edge. Returns a validation error for
// self-loops or out-of-range endpoints.
func NewFromEdges(n int, edges [][2]int) (*Graph, error) {
	g, err := New(n)
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Clone returns an independent copy of the graph.
// The cached connectivity flag and known-msr annotation carry over.
func (g *Graph) Clone() *Graph {
	edges := make(map[Edge]struct{}, len(g.edges))
	for e := range g.edges {
		edges[e] = struct{}{}
	}
	return &Graph{
		numVerts:    g.numVerts,
		edges:       edges,
		conn:        g.conn,
		knownMSR:    g.knownMSR,
		hasKnownMSR: g.hasKnownMSR,
	}
}

// NumVerts returns the number of vertices.
func (g *Graph) NumVerts() int { return g.numVerts }

// NumEdges returns the number of edges.
func (g *Graph) NumEdges() int { return len(g.edges) }

// Edges returns all edges sorted by (V, W) for deterministic iteration.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, len(g.edges))
	for e := range g.edges {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(a, b int) bool {
		if edges[a].V != edges[b].V {
			return edges[a].V < edges[b].V
		}
		return edges[a].W < edges[b].W
	})
	return edges
}

// SetKnownMSR attaches an externally supplied reference value to the graph.
// The value is carried through Clone but never consulted by the bound engine;
// it exists for catalog tooling to compare computed bounds against.
func (g *Graph) SetKnownMSR(v int) {
	g.knownMSR = v
	g.hasKnownMSR = true
}

// KnownMSR returns the reference value and whether one was set.
func (g *Graph) KnownMSR() (int, bool) {
	return g.knownMSR, g.hasKnownMSR
}

// checkVert validates a vertex index.
func (g *Graph) checkVert(i int) error {
	if i < 0 || i >= g.numVerts {
		return errors.New(errors.ErrCodeIndexOutOfRange, "vertex index %d out of range [0, %d)", i, g.numVerts)
	}
	return nil
}

// AddEdge adds the edge {i, j}. Adding an existing edge is a no-op.
// Returns ErrCodeInvalidEdge for self-loops and ErrCodeIndexOutOfRange for
// endpoints outside 0..n-1. Invalidates cached connectivity.
func (g *Graph) AddEdge(i, j int) error {
	if err := g.checkVert(i); err != nil {
		return err
	}
	if err := g.checkVert(j); err != nil {
		return err
	}
	e, err := NewEdge(i, j)
	if err != nil {
		return err
	}
	g.edges[e] = struct{}{}
	g.conn = connUnknown
	return nil
}

// RemoveEdge removes the edge {i, j} if present; removing a missing edge is a
// no-op. Returns ErrCodeIndexOutOfRange for endpoints outside 0..n-1.
// Invalidates cached connectivity.
func (g *Graph) RemoveEdge(i, j int) error {
	if err := g.checkVert(i); err != nil {
		return err
	}
	if err := g.checkVert(j); err != nil {
		return err
	}
	e, err := NewEdge(i, j)
	if err != nil {
		return err
	}
	delete(g.edges, e)
	g.conn = connUnknown
	return nil
}

// HasEdge reports whether {i, j} is an edge.
// Returns false for i == j or out-of-range indices.
func (g *Graph) HasEdge(i, j int) bool {
	if i == j || i < 0 || j < 0 || i >= g.numVerts || j >= g.numVerts {
		return false
	}
	if i > j {
		i, j = j, i
	}
	_, ok := g.edges[Edge{V: i, W: j}]
	return ok
}

// RemoveVertex deletes vertex i and renumbers all higher indices down by one.
// The cached connectivity flag is invalidated; callers that can prove the
// remainder stays connected should follow up with MarkConnected(true) to skip
// the recheck. Returns ErrCodeInvalidGraph when the graph has fewer than two
// vertices and ErrCodeIndexOutOfRange for an invalid index.
func (g *Graph) RemoveVertex(i int) error {
	if g.numVerts < 2 {
		return errors.New(errors.ErrCodeInvalidGraph, "cannot remove a vertex from a graph with fewer than two vertices")
	}
	if err := g.checkVert(i); err != nil {
		return err
	}
	edges := make(map[Edge]struct{}, len(g.edges))
	for e := range g.edges {
		if e.V == i || e.W == i {
			continue
		}
		v, w := e.V, e.W
		if v > i {
			v--
		}
		if w > i {
			w--
		}
		edges[Edge{V: v, W: w}] = struct{}{}
	}
	g.edges = edges
	g.numVerts--
	g.conn = connUnknown
	return nil
}

// AddVertex appends one isolated vertex with index n, growing the graph to
// n+1 vertices. Connectivity is invalidated (the new vertex is isolated).
func (g *Graph) AddVertex() {
	g.numVerts++
	g.conn = connUnknown
}

// MarkConnected records an externally proven connectivity fact, bypassing the
// next BFS recheck. Use only when the fact is certain; a wrong mark corrupts
// every predicate built on connectivity.
func (g *Graph) MarkConnected(connected bool) {
	if connected {
		g.conn = connTrue
	} else {
		g.conn = connFalse
	}
}

// neighbors returns the neighbor set of i. Internal: assumes i is valid.
func (g *Graph) neighbors(i int) []int {
	var ns []int
	for j := 0; j < g.numVerts; j++ {
		if g.HasEdge(i, j) {
			ns = append(ns, j)
		}
	}
	return ns
}

// Neighbors returns the sorted neighbor set of vertex i.
func (g *Graph) Neighbors(i int) ([]int, error) {
	if err := g.checkVert(i); err != nil {
		return nil, err
	}
	return g.neighbors(i), nil
}

// Degree returns the degree of vertex i, or 0 for an out-of-range index.
func (g *Graph) Degree(i int) int {
	if i < 0 || i >= g.numVerts {
		return 0
	}
	deg := 0
	for e := range g.edges {
		if e.V == i || e.W == i {
			deg++
		}
	}
	return deg
}

// IsolatedCount returns the number of degree-zero vertices.
func (g *Graph) IsolatedCount() int {
	count := 0
	for i := 0; i < g.numVerts; i++ {
		if g.Degree(i) == 0 {
			count++
		}
	}
	return count
}

// Permute returns a relabeled copy where vertex i maps to perm[i].
// Returns ErrCodeInvalidPermutation unless perm is a bijection on 0..n-1.
func (g *Graph) Permute(perm []int) (*Graph, error) {
	if len(perm) != g.numVerts {
		return nil, errors.New(errors.ErrCodeInvalidPermutation, "permutation has %d entries, want %d", len(perm), g.numVerts)
	}
	seen := make([]bool, g.numVerts)
	for _, p := range perm {
		if p < 0 || p >= g.numVerts || seen[p] {
			return nil, errors.New(errors.ErrCodeInvalidPermutation, "permutation is not a bijection on 0..%d", g.numVerts-1)
		}
		seen[p] = true
	}
	h, _ := New(g.numVerts)
	for e := range g.edges {
		// Valid by construction: perm is a bijection on valid indices.
		_ = h.AddEdge(perm[e.V], perm[e.W])
	}
	return h, nil
}

// String returns a multi-line description listing the edge set.
func (g *Graph) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nNumber of edges: %d\nEdges:", g.ID(), len(g.edges))
	for _, e := range g.Edges() {
		fmt.Fprintf(&b, "\n\t%s", e)
	}
	return b.String()
}
