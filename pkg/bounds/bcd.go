package bounds

import (
	"context"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/psdrank/pkg/graph"
)

// Bridge-correction decomposition (BCD). An independent set R of size m
// contributes m dimensions outright; the correction number xi measures how
// much the rest of the graph adds beyond what R's shared-neighbor pattern
// already explains, giving the lower bound dim(G) >= m + xi.

// maxOptionalEdges gates the 2^k enumeration over ambiguous bridge edges.
const maxOptionalEdges = 16

// bcdUpperMaxVerts gates the BCD upper-bound heuristic. The construction is
// unreliable past six vertices and the intended general behavior is unknown,
// so the gate stays hard rather than tunable.
const bcdUpperMaxVerts = 6

// bcdLower applies BCD to one maximum independent set.
func (e *engine) bcdLower(ctx context.Context, g *graph.Graph, bc *Context) error {
	return e.bcdBounds(ctx, g, g.MaximumIndependentSet(), bc)
}

// bcdLowerExhaustive applies BCD to every independent set, largest first,
// stopping once the window closes.
func (e *engine) bcdLowerExhaustive(ctx context.Context, g *graph.Graph, bc *Context) error {
	sets := g.IndependentSets()
	sort.SliceStable(sets, func(a, b int) bool {
		return len(sets[a]) > len(sets[b])
	})
	for _, indep := range sets {
		if err := e.bcdBounds(ctx, g, indep, bc); err != nil {
			return err
		}
		if bc.Tight() || bc.Inconsistent() {
			return nil
		}
	}
	return nil
}

// bcdBounds folds one independent set's decomposition into the frame. When
// the upper bound exceeds the set size by at most one, the lower bound is
// simultaneously certified as the upper bound.
func (e *engine) bcdBounds(ctx context.Context, g *graph.Graph, indep []int, bc *Context) error {
	m := len(indep)
	xi, err := e.correctionNumber(ctx, g, indep, bc)
	if err != nil {
		return err
	}
	bc.UpdateLower(m + xi)
	if bc.DHi-m <= 1 {
		bc.UpdateUpper(m + xi)
	}
	return nil
}

// correctionNumber computes xi for the independent set R.
//
// The target graph is the induced subgraph on the complement of R. The
// bridge matrix counts, for each complement-vertex pair, the neighbors they
// share inside R; its Gram matrix classifies pairs as bridged once (forced
// edge), bridged multiply (ambiguous), or unbridged. The correction graph
// collects the mismatches between target and forced-bridge adjacency, and
// the optional graph the ambiguous pairs. With no ambiguity xi is the
// correction graph's recursive lower bound net of isolated vertices;
// otherwise every fixing of the optional edges is enumerated and the minimum
// taken, exiting early at zero.
func (e *engine) correctionNumber(ctx context.Context, g *graph.Graph, indep []int, bc *Context) (int, error) {
	n := g.NumVerts()
	m := len(indep)
	b := n - m
	if b < 1 {
		return 0, nil
	}

	inIndep := make(map[int]bool, m)
	for _, v := range indep {
		inIndep[v] = true
	}
	rest := make([]int, 0, b)
	for v := 0; v < n; v++ {
		if !inIndep[v] {
			rest = append(rest, v)
		}
	}

	target, err := g.InducedSubgraph(rest)
	if err != nil {
		return 0, err
	}

	// Gram matrix of the bridge pattern: entry (i, j) counts the members of
	// R adjacent to both rest[i] and rest[j].
	bridge := mat.NewDense(m, b, nil)
	for i, r := range indep {
		for j, v := range rest {
			if g.HasEdge(r, v) {
				bridge.Set(i, j, 1)
			}
		}
	}
	var gram mat.Dense
	gram.Mul(bridge.T(), bridge)

	forced, err := graph.New(b)
	if err != nil {
		return 0, err
	}
	optional, err := graph.New(b)
	if err != nil {
		return 0, err
	}
	for i := 0; i < b; i++ {
		for j := i + 1; j < b; j++ {
			switch c := gram.At(i, j); {
			case c == 1:
				_ = forced.AddEdge(i, j)
			case c > 1:
				_ = optional.AddEdge(i, j)
			}
		}
	}

	correction, err := graph.New(b)
	if err != nil {
		return 0, err
	}
	for i := 0; i < b; i++ {
		for j := i + 1; j < b; j++ {
			t, f := target.HasEdge(i, j), forced.HasEdge(i, j)
			switch {
			case t && f:
				_ = optional.AddEdge(i, j)
			case t != f:
				_ = correction.AddEdge(i, j)
			}
		}
	}

	numOpt := optional.NumEdges()
	if numOpt == 0 {
		w, err := e.dimBounds(ctx, correction, bc.Depth)
		if err != nil {
			return 0, err
		}
		return w.DLo - correction.IsolatedCount(), nil
	}
	if numOpt > maxOptionalEdges {
		e.logger.Warn("skipping ambiguous-edge enumeration", "optional_edges", numOpt, "gate", maxOptionalEdges)
		return 0, nil
	}

	// Enumerate every fixing of the ambiguous edges; xi is capped by the
	// frame's upper bound from the start.
	optEdges := optional.Edges()
	xi := bc.DHi - m
	for mask := uint64(0); mask < 1<<uint(numOpt); mask++ {
		fixed := correction.Clone()
		for i, edge := range optEdges {
			if mask&(1<<uint(i)) != 0 {
				_ = fixed.AddEdge(edge.V, edge.W)
			}
		}
		w, err := e.dimBounds(ctx, fixed, bc.Depth)
		if err != nil {
			return 0, err
		}
		if cand := w.DLo - fixed.IsolatedCount(); cand < xi {
			xi = cand
		}
		if xi <= 0 {
			break
		}
	}
	if xi < 0 {
		xi = 0
	}
	return xi, nil
}

// bcdUpper treats the graph as the target of a larger decomposition: a
// discovered clique collapses onto a fresh hub vertex, and the hub graph's
// upper bound minus one bounds the original.
func (e *engine) bcdUpper(ctx context.Context, g *graph.Graph, bc *Context) error {
	n := g.NumVerts()
	if n > bcdUpperMaxVerts {
		return nil
	}

	hi := n
	for i := 0; i < n; i++ {
		ns, err := g.Neighbors(i)
		if err != nil {
			return err
		}

		// Greedy clique discovery around i.
		clique := []int{i}
		for _, j := range ns {
			inClique := true
			for _, k := range clique {
				if !g.HasEdge(j, k) {
					inClique = false
					break
				}
			}
			if inClique {
				clique = append(clique, j)
			}
		}
		if len(clique) <= 2 {
			continue
		}

		h := g.Clone()
		h.AddVertex()
		for _, p := range clique {
			if err := h.AddEdge(p, n); err != nil {
				return err
			}
		}
		for a := 0; a < len(clique); a++ {
			for b := a + 1; b < len(clique); b++ {
				if err := h.RemoveEdge(clique[a], clique[b]); err != nil {
					return err
				}
			}
		}

		w, err := e.dimBounds(ctx, h, bc.Depth)
		if err != nil {
			return err
		}
		if w.DHi-1 < hi {
			hi = w.DHi - 1
		}
		if hi <= bc.DLo {
			break
		}
	}
	bc.UpdateUpper(hi)
	return nil
}
