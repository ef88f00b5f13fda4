package bounds

import (
	"context"
	"sort"

	"github.com/matzehuels/psdrank/pkg/errors"
	"github.com/matzehuels/psdrank/pkg/graph"
)

// cutVertexCover decomposes at a cut vertex. The cover members pairwise
// intersect in exactly the cut vertex, which makes the invariant an exact sum
// across the cover, not just a bound.
func (e *engine) cutVertexCover(ctx context.Context, g *graph.Graph, bc *Context) error {
	cover := g.InducedCoverFromCutVertex()
	if len(cover) < 2 {
		return nil
	}
	e.logger.Debug("cut vertex found", "cover_size", len(cover), "depth", bc.Depth)

	lo, hi := 0, 0
	for _, piece := range cover {
		w, err := e.dimBounds(ctx, piece, bc.Depth)
		if err != nil {
			return err
		}
		lo += w.DLo
		hi += w.DHi
	}
	bc.Update(lo, hi)
	return nil
}

// inducedSubgraphLower takes the maximum lower bound over all one-vertex
// deletions; any induced subgraph lower-bounds the whole graph.
func (e *engine) inducedSubgraphLower(ctx context.Context, g *graph.Graph, bc *Context) error {
	lo := 0
	for i := 0; i < g.NumVerts(); i++ {
		h := g.Clone()
		if err := h.RemoveVertex(i); err != nil {
			return err
		}
		w, err := e.dimBounds(ctx, h, bc.Depth)
		if err != nil {
			return err
		}
		if w.DLo > lo {
			lo = w.DLo
		}
		if lo >= bc.DHi {
			break
		}
	}
	bc.UpdateLower(lo)
	return nil
}

// cliqueUpper bounds from above via vertices whose neighborhood is a clique:
// the clique and the rest form a proper induced cover, so removing the vertex
// costs at most one dimension.
func (e *engine) cliqueUpper(ctx context.Context, g *graph.Graph, bc *Context) error {
	hi := g.NumVerts()
	for i := 0; i < g.NumVerts(); i++ {
		if !g.NeighborhoodIsClique(i) {
			continue
		}
		h := g.Clone()
		if err := h.RemoveVertex(i); err != nil {
			return err
		}
		w, err := e.dimBounds(ctx, h, bc.Depth)
		if err != nil {
			return err
		}
		if w.DHi+1 < hi {
			hi = w.DHi + 1
		}
		if bc.DLo >= hi {
			break
		}
	}
	bc.UpdateUpper(hi)
	return nil
}

// edgeAddition recurses on every one-edge denser graph. One edge changes the
// invariant by at most 1, so the children's aggregated window widens by one
// on each side. Vertices are relabeled by descending degree first so the
// scan reaches the dense region early.
func (e *engine) edgeAddition(ctx context.Context, g *graph.Graph, bc *Context) error {
	h, err := permuteByDegree(g, true)
	if err != nil {
		return err
	}

	n := h.NumVerts()
	lo, hi := bc.DLo, bc.DHi
	loEdges, hiEdges := 0, n
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if h.HasEdge(i, j) {
				continue
			}
			k := h.Clone()
			if err := k.AddEdge(i, j); err != nil {
				return err
			}
			w, err := e.dimBounds(ctx, k, bc.Depth)
			if err != nil {
				return err
			}
			loEdges = max(loEdges, w.DLo)
			hiEdges = min(hiEdges, w.DHi)
			lo = max(lo, loEdges-1)
			hi = min(hi, hiEdges+1)
			if lo >= hi {
				bc.Update(lo, hi)
				return nil
			}
		}
	}
	bc.Update(lo, hi)
	return nil
}

// edgeRemoval is the symmetric dual of edgeAddition, restricted to removals
// that keep the graph connected. The two must never both be enabled; see
// ValidateStrategies.
func (e *engine) edgeRemoval(ctx context.Context, g *graph.Graph, bc *Context) error {
	h, err := permuteByDegree(g, false)
	if err != nil {
		return err
	}

	n := h.NumVerts()
	lo, hi := bc.DLo, bc.DHi
	loEdges, hiEdges := 0, n
	for _, edge := range h.Edges() {
		k := h.Clone()
		if err := k.RemoveEdge(edge.V, edge.W); err != nil {
			return err
		}
		if !k.IsConnected() {
			continue
		}
		w, err := e.dimBounds(ctx, k, bc.Depth)
		if err != nil {
			return err
		}
		loEdges = max(loEdges, w.DLo)
		hiEdges = min(hiEdges, w.DHi)
		lo = max(lo, loEdges-1)
		hi = min(hi, hiEdges+1)
		if lo >= hi {
			bc.Update(lo, hi)
			return nil
		}
	}
	bc.Update(lo, hi)
	return nil
}

// sdpUpper folds in the relaxation oracle's all-positive rank estimate.
// Unstable solves are diagnostics, not failures: the estimate is dropped.
func (e *engine) sdpUpper(ctx context.Context, g *graph.Graph, bc *Context) error {
	rank, err := e.solver.UpperBound(ctx, g)
	if err != nil {
		return e.skipSolverError(err, "sdp-upper")
	}
	e.applyOracleUpper(rank, bc)
	return nil
}

// sdpSignedSimple folds in the one-edge-sign-flip search.
func (e *engine) sdpSignedSimple(ctx context.Context, g *graph.Graph, bc *Context) error {
	rank, err := e.solver.SignedSimple(ctx, g, bc.DLo)
	if err != nil {
		return e.skipSolverError(err, "sdp-signed-simple")
	}
	e.applyOracleUpper(rank, bc)
	return nil
}

// sdpSignedExhaustive folds in the full sign search.
func (e *engine) sdpSignedExhaustive(ctx context.Context, g *graph.Graph, bc *Context) error {
	rank, err := e.solver.SignedExhaustive(ctx, g, bc.DLo)
	if err != nil {
		return e.skipSolverError(err, "sdp-signed-exhaustive")
	}
	e.applyOracleUpper(rank, bc)
	return nil
}

// sdpSignedCycle folds in the sign search restricted to induced even cycles.
func (e *engine) sdpSignedCycle(ctx context.Context, g *graph.Graph, bc *Context) error {
	rank, err := e.solver.SignedCycle(ctx, g, bc.DLo)
	if err != nil {
		return e.skipSolverError(err, "sdp-signed-cycle")
	}
	e.applyOracleUpper(rank, bc)
	return nil
}

// applyOracleUpper folds a numeric rank estimate into the frame. An estimate
// below the certified lower bound clamps to it: the lower bound is proven,
// so a smaller estimate only certifies tightness, never an inversion.
func (e *engine) applyOracleUpper(rank int, bc *Context) {
	if rank < bc.DLo {
		e.logger.Debug("oracle estimate below certified lower bound", "estimate", rank, "d_lo", bc.DLo)
		rank = bc.DLo
	}
	bc.UpdateUpper(rank)
}

// skipSolverError swallows recoverable oracle outcomes (instability, size
// gates) and propagates everything else.
func (e *engine) skipSolverError(err error, strategy string) error {
	if errors.Is(err, errors.ErrCodeSolverUnstable) || errors.Is(err, errors.ErrCodeUnsupported) {
		e.logger.Debug("oracle estimate dropped", "strategy", strategy, "reason", err)
		return nil
	}
	return err
}

// permuteByDegree relabels vertices ordered by degree, descending or
// ascending. The invariant is isomorphism-invariant, so the relabeling only
// changes scan order.
func permuteByDegree(g *graph.Graph, descending bool) (*graph.Graph, error) {
	n := g.NumVerts()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if descending {
			return g.Degree(order[a]) > g.Degree(order[b])
		}
		return g.Degree(order[a]) < g.Degree(order[b])
	})
	perm := make([]int, n)
	for pos, v := range order {
		perm[v] = pos
	}
	return g.Permute(perm)
}
