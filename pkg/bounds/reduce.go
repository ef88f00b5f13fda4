package bounds

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/psdrank/pkg/errors"
	"github.com/matzehuels/psdrank/pkg/graph"
)

// Reduce shrinks a connected graph by eliminating vertices with a known
// effect on the invariant:
//
//  1. pendant vertices (degree one) - invariant drops by 1 per removal
//  2. subdivided vertices (degree two, non-adjacent neighbors) - contracting
//     drops the invariant by 1
//  3. redundant vertices (adjacent to all others) - invariant unchanged; if a
//     removal disconnects the remainder the loop halts so the caller can
//     re-dispatch the components
//  4. one vertex of each adjacent duplicate pair - invariant unchanged
//
// Rules are tried in that order; any success restarts the loop from rule 1.
// The loop also stops once the graph is disconnected, has fewer than three
// vertices, or is complete, a tree, or a cycle - shapes the dispatcher
// classifies directly.
//
// The input is never mutated. Returns the reduced graph, the invariant offset
// (reduced value + offset = original value), and the number of vertices
// removed. Every successful rule strictly shrinks the graph, so termination
// is guaranteed.
func Reduce(g *graph.Graph, logger *log.Logger) (*graph.Graph, int, int, error) {
	if !g.IsConnected() {
		return nil, 0, 0, errors.New(errors.ErrCodeInvalidGraph, "reduction requires a connected graph")
	}

	h := g.Clone()
	offset := 0
	deletions := 0

	updated := true
	for updated {
		if reductionDone(h) {
			break
		}

		var removed int
		updated, removed = removePendants(h)
		offset += removed
		deletions += removed
		if reductionDone(h) {
			break
		}

		if !updated {
			updated, removed = removeSubdivisions(h)
			offset += removed
			deletions += removed
			if reductionDone(h) {
				break
			}
		}

		if !updated {
			updated, removed = removeRedundant(h)
			deletions += removed
			if reductionDone(h) {
				break
			}
		}

		if !updated {
			updated, removed = removeDuplicatePairs(h)
			deletions += removed
		}
	}

	if deletions > 0 {
		logger.Debug("reduction complete", "removed", deletions, "offset", offset)
	}
	return h, offset, deletions, nil
}

// reductionDone reports whether the graph has reached a shape the dispatcher
// handles directly.
func reductionDone(g *graph.Graph) bool {
	if !g.IsConnected() {
		return true
	}
	if g.NumVerts() < 3 || g.IsComplete() || g.IsTree() {
		return true
	}
	return g.IsCycle()
}

// removePendants deletes every pendant vertex, scanning high to low so
// renumbering never skips a candidate.
func removePendants(g *graph.Graph) (bool, int) {
	updated := false
	removed := 0
	for i := g.NumVerts() - 1; i >= 0 && g.NumVerts() > 2; i-- {
		if g.IsPendant(i) {
			_ = g.RemoveVertex(i)
			g.MarkConnected(true)
			updated = true
			removed++
		}
	}
	return updated, removed
}

// removeSubdivisions contracts every subdivided vertex: join its two
// neighbors, then drop the vertex. The edge must go in before the removal so
// the neighbor indices are still valid.
func removeSubdivisions(g *graph.Graph) (bool, int) {
	updated := false
	removed := 0
	for i := g.NumVerts() - 1; i >= 0 && g.NumVerts() > 2; i-- {
		if g.IsSubdivided(i) {
			ns, _ := g.Neighbors(i)
			_ = g.AddEdge(ns[0], ns[1])
			_ = g.RemoveVertex(i)
			g.MarkConnected(true)
			updated = true
			removed++
		}
	}
	return updated, removed
}

// removeRedundant deletes vertices adjacent to every other vertex. Removal
// can disconnect the remainder; the scan stops there and lets the caller
// re-dispatch.
func removeRedundant(g *graph.Graph) (bool, int) {
	updated := false
	removed := 0
	for i := g.NumVerts() - 1; i >= 0 && g.NumVerts() > 2; i-- {
		if g.IsRedundant(i) {
			_ = g.RemoveVertex(i)
			updated = true
			removed++
			if !g.IsConnected() {
				return updated, removed
			}
		}
	}
	return updated, removed
}

// removeDuplicatePairs deletes one vertex of each adjacent pair with
// identical neighborhoods.
func removeDuplicatePairs(g *graph.Graph) (bool, int) {
	updated := false
	removed := 0
	for i := g.NumVerts() - 1; i >= 0 && g.NumVerts() > 2; i-- {
		for j := i - 1; j >= 0 && g.NumVerts() > 2; j-- {
			if g.AreDuplicatePair(i, j) {
				_ = g.RemoveVertex(j)
				g.MarkConnected(true)
				updated = true
				removed++
				// Removing j slid i down by one.
				i--
			}
		}
	}
	return updated, removed
}
