package sdp

import (
	"math/bits"
	"sort"

	"github.com/matzehuels/psdrank/pkg/errors"
	"github.com/matzehuels/psdrank/pkg/graph"
)

// maxCycleSearchVerts bounds the subset enumeration behind the induced-cycle
// edge discovery.
const maxCycleSearchVerts = 16

// InducedEvenCycleEdges returns the edges lying on some induced cycle of even
// length, sorted. Discovery enumerates vertex subsets of even size at least
// four and keeps those whose induced subgraph is a single cycle.
func InducedEvenCycleEdges(g *graph.Graph) ([]graph.Edge, error) {
	n := g.NumVerts()
	if n > maxCycleSearchVerts {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"induced-cycle discovery requires at most %d vertices, got %d", maxCycleSearchVerts, n)
	}

	onCycle := make(map[graph.Edge]struct{})
	for mask := uint64(1); mask < 1<<uint(n); mask++ {
		size := bits.OnesCount64(mask)
		if size < 4 || size%2 != 0 {
			continue
		}
		verts := make([]int, 0, size)
		for i := 0; i < n; i++ {
			if mask&(1<<uint(i)) != 0 {
				verts = append(verts, i)
			}
		}
		sub, err := g.InducedSubgraph(verts)
		if err != nil {
			return nil, err
		}
		if !sub.IsCycle() {
			continue
		}
		// Map the cycle's edges back to the original labels; the induced
		// subgraph relabels along the sorted vertex list.
		for _, e := range sub.Edges() {
			orig, err := graph.NewEdge(verts[e.V], verts[e.W])
			if err != nil {
				return nil, err
			}
			onCycle[orig] = struct{}{}
		}
	}

	out := make([]graph.Edge, 0, len(onCycle))
	for e := range onCycle {
		out = append(out, e)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].V != out[b].V {
			return out[a].V < out[b].V
		}
		return out[a].W < out[b].W
	})
	return out, nil
}
