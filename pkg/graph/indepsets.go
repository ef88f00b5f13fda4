package graph

import (
	"math/bits"
	"sort"
)

// IsIndependentSet reports whether no two vertices in verts are adjacent.
// An empty set is independent.
func (g *Graph) IsIndependentSet(verts []int) bool {
	for a := 0; a < len(verts); a++ {
		for b := a + 1; b < len(verts); b++ {
			if g.HasEdge(verts[a], verts[b]) {
				return false
			}
		}
	}
	return true
}

// MaximalIndependentSet returns a maximal (not necessarily maximum)
// independent set, grown greedily by repeatedly taking a remaining vertex of
// minimum degree and discarding its neighbors. O(n^2), suitable at any size.
func (g *Graph) MaximalIndependentSet() []int {
	candidates := make(map[int]bool, g.numVerts)
	for i := 0; i < g.numVerts; i++ {
		candidates[i] = true
	}

	var indep []int
	for len(candidates) > 0 {
		best := -1
		for v := range candidates {
			if best == -1 || g.Degree(v) < g.Degree(best) || (g.Degree(v) == g.Degree(best) && v < best) {
				best = v
			}
		}
		indep = append(indep, best)
		delete(candidates, best)
		for _, w := range g.neighbors(best) {
			delete(candidates, w)
		}
	}
	sort.Ints(indep)
	return indep
}

// MaximumIndependentSet returns a maximum independent set by exhaustive
// subset search. The search walks all 2^n subsets and is intended only for
// the small graphs the bound engine operates on.
func (g *Graph) MaximumIndependentSet() []int {
	var best []int
	n := g.numVerts
	for mask := uint64(1<<uint(n)) - 1; mask > 0; mask-- {
		size := bits.OnesCount64(mask)
		if size <= len(best) {
			continue
		}
		cand := subsetFromMask(mask, n)
		if g.IsIndependentSet(cand) {
			best = cand
		}
	}
	return best
}

// IndependentSets returns every nonempty independent set, 2^n subset search.
// The result is unsorted by size; callers order it as needed.
func (g *Graph) IndependentSets() [][]int {
	var sets [][]int
	n := g.numVerts
	for mask := uint64(1<<uint(n)) - 1; mask > 0; mask-- {
		cand := subsetFromMask(mask, n)
		if g.IsIndependentSet(cand) {
			sets = append(sets, cand)
		}
	}
	return sets
}

// subsetFromMask expands a bitmask into the sorted vertex subset it encodes,
// with bit 0 denoting vertex 0.
func subsetFromMask(mask uint64, n int) []int {
	var verts []int
	for i := 0; i < n; i++ {
		if mask&(1<<uint(i)) != 0 {
			verts = append(verts, i)
		}
	}
	return verts
}
