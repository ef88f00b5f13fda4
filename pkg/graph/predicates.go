package graph

// Classification predicates, all decided by O(n) combinatorial counts rather
// than search. Connectivity is the one cached quantity they rely on.

// IsEmpty reports whether the graph has no edges.
func (g *Graph) IsEmpty() bool {
	return len(g.edges) == 0
}

// IsComplete reports whether every vertex is adjacent to every other vertex.
func (g *Graph) IsComplete() bool {
	return len(g.edges) == choose2(g.numVerts)
}

// IsTree reports whether the graph is connected with exactly n-1 edges.
func (g *Graph) IsTree() bool {
	if !g.IsConnected() {
		return false
	}
	return len(g.edges) == g.numVerts-1
}

// IsRegular reports whether every vertex has degree k.
func (g *Graph) IsRegular(k int) bool {
	for i := 0; i < g.numVerts; i++ {
		if g.Degree(i) != k {
			return false
		}
	}
	return true
}

// IsCycle reports whether the graph is a single cycle: connected and 2-regular.
func (g *Graph) IsCycle() bool {
	if !g.IsConnected() {
		return false
	}
	return g.IsRegular(2)
}

// Vertex tests used by the reduction engine.

// IsPendant reports whether vertex i has degree one.
func (g *Graph) IsPendant(i int) bool {
	return g.Degree(i) == 1
}

// IsSubdivided reports whether vertex i has exactly two neighbors that are
// not adjacent to each other. Contracting such a vertex is the inverse of an
// edge subdivision.
func (g *Graph) IsSubdivided(i int) bool {
	if g.Degree(i) != 2 {
		return false
	}
	ns := g.neighbors(i)
	return !g.HasEdge(ns[0], ns[1])
}

// IsRedundant reports whether vertex i is adjacent to every other vertex.
func (g *Graph) IsRedundant(i int) bool {
	return g.Degree(i) == g.numVerts-1
}

// AreDuplicatePair reports whether i and j are adjacent and have identical
// neighborhoods outside each other.
func (g *Graph) AreDuplicatePair(i, j int) bool {
	if !g.HasEdge(i, j) {
		return false
	}
	for v := 0; v < g.numVerts; v++ {
		if v == i || v == j {
			continue
		}
		if g.HasEdge(i, v) != g.HasEdge(j, v) {
			return false
		}
	}
	return true
}

// NeighborhoodIsClique reports whether the neighbors of vertex i are pairwise
// adjacent, i.e. i together with its neighborhood forms a clique.
func (g *Graph) NeighborhoodIsClique(i int) bool {
	ns := g.neighbors(i)
	for a := 0; a < len(ns); a++ {
		for b := a + 1; b < len(ns); b++ {
			if !g.HasEdge(ns[a], ns[b]) {
				return false
			}
		}
	}
	return true
}
