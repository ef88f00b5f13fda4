package sdp

import (
	"context"

	"github.com/matzehuels/psdrank/pkg/errors"
	"github.com/matzehuels/psdrank/pkg/graph"
)

// maxSearchEdges bounds the exhaustive and cycle-restricted sign searches,
// which enumerate 2^k patterns over k searched edges.
const maxSearchEdges = 12

// SignedSimple searches one-edge sign flips: for each edge, one solve with
// that edge negative and every other edge positive. The search stops at the
// first estimate at or below dLo and returns the best estimate found.
// Unstable solves are skipped; if every solve is unstable the last diagnostic
// is returned.
func (s *Solver) SignedSimple(ctx context.Context, g *graph.Graph, dLo int) (int, error) {
	edges := g.Edges()
	best := -1
	var lastErr error
	for _, flip := range edges {
		if err := ctx.Err(); err != nil {
			return 0, errors.Wrap(errors.ErrCodeInternal, err, "signed search canceled")
		}
		signs := make(map[graph.Edge]float64, len(edges))
		for _, e := range edges {
			signs[e] = 1
		}
		signs[flip] = -1

		rank, err := s.SolveSigned(ctx, g, signs)
		if err != nil {
			if errors.Is(err, errors.ErrCodeSolverUnstable) {
				lastErr = err
				continue
			}
			return 0, err
		}
		if best < 0 || rank < best {
			best = rank
		}
		if best <= dLo {
			return best, nil
		}
	}
	if best < 0 {
		return 0, lastErr
	}
	return best, nil
}

// SignedExhaustive searches every sign pattern over all edges, 2^m solves for
// m edges, stopping at the first estimate at or below dLo.
// Returns ErrCodeUnsupported when the edge count exceeds the search gate.
func (s *Solver) SignedExhaustive(ctx context.Context, g *graph.Graph, dLo int) (int, error) {
	return s.searchSigns(ctx, g, g.Edges(), dLo)
}

// SignedCycle restricts the sign search to edges lying on some induced even
// cycle, the edges whose sign actually affects the relaxation's tightness.
// Returns ErrCodeUnsupported when no such edge exists or the count exceeds
// the search gate.
func (s *Solver) SignedCycle(ctx context.Context, g *graph.Graph, dLo int) (int, error) {
	searched, err := InducedEvenCycleEdges(g)
	if err != nil {
		return 0, err
	}
	if len(searched) == 0 {
		return 0, errors.New(errors.ErrCodeUnsupported, "no edge lies on an induced even cycle")
	}
	return s.searchSigns(ctx, g, searched, dLo)
}

// searchSigns enumerates all sign patterns over the searched edges, keeping
// every other edge positive.
func (s *Solver) searchSigns(ctx context.Context, g *graph.Graph, searched []graph.Edge, dLo int) (int, error) {
	if len(searched) > maxSearchEdges {
		return 0, errors.New(errors.ErrCodeUnsupported,
			"sign search over %d edges exceeds the %d-edge gate", len(searched), maxSearchEdges)
	}

	edges := g.Edges()
	best := -1
	var lastErr error
	for mask := uint64(0); mask < 1<<uint(len(searched)); mask++ {
		if err := ctx.Err(); err != nil {
			return 0, errors.Wrap(errors.ErrCodeInternal, err, "signed search canceled")
		}
		signs := make(map[graph.Edge]float64, len(edges))
		for _, e := range edges {
			signs[e] = 1
		}
		for i, e := range searched {
			if mask&(1<<uint(i)) != 0 {
				signs[e] = -1
			}
		}

		rank, err := s.SolveSigned(ctx, g, signs)
		if err != nil {
			if errors.Is(err, errors.ErrCodeSolverUnstable) {
				lastErr = err
				continue
			}
			return 0, err
		}
		if best < 0 || rank < best {
			best = rank
		}
		if best <= dLo {
			return best, nil
		}
	}
	if best < 0 {
		return 0, lastErr
	}
	return best, nil
}
