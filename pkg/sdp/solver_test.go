package sdp

import (
	"context"
	"testing"

	"github.com/matzehuels/psdrank/pkg/errors"
	"github.com/matzehuels/psdrank/pkg/graph"
)

func completeGraph(t *testing.T, n int) *graph.Graph {
	t.Helper()
	var edges [][2]int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			edges = append(edges, [2]int{i, j})
		}
	}
	return mustGraph(t, n, edges)
}

func TestUpperBoundRange(t *testing.T) {
	// The estimate is a relaxation artifact, but it is always the rank of an
	// n x n matrix with at least one nonzero entry.
	ctx := context.Background()
	s := NewSolver()

	tests := []struct {
		name  string
		graph *graph.Graph
	}{
		{"K2", completeGraph(t, 2)},
		{"K4", completeGraph(t, 4)},
		{"path 4", mustGraph(t, 4, [][2]int{{0, 1}, {1, 2}, {2, 3}})},
		{"C5", cycleGraph(t, 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rank, err := s.UpperBound(ctx, tt.graph)
			if err != nil {
				t.Fatalf("UpperBound error: %v", err)
			}
			n := tt.graph.NumVerts()
			if rank < 1 || rank > n {
				t.Errorf("UpperBound = %d, want in [1, %d]", rank, n)
			}
		})
	}
}

func TestUpperBoundDeterministic(t *testing.T) {
	ctx := context.Background()
	s := NewSolver()
	g := cycleGraph(t, 5)

	a, err := s.UpperBound(ctx, g)
	if err != nil {
		t.Fatalf("UpperBound error: %v", err)
	}
	b, err := s.UpperBound(ctx, g)
	if err != nil {
		t.Fatalf("UpperBound error: %v", err)
	}
	if a != b {
		t.Errorf("UpperBound not deterministic: %d vs %d", a, b)
	}
}

func TestSolveSignedRejectsBadSign(t *testing.T) {
	ctx := context.Background()
	s := NewSolver()
	g := mustGraph(t, 3, [][2]int{{0, 1}, {1, 2}})

	e, _ := graph.NewEdge(0, 1)
	signs := map[graph.Edge]float64{e: 0.5}
	if _, err := s.SolveSigned(ctx, g, signs); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("SolveSigned error = %v, want INVALID_CONFIG", err)
	}
}

func TestSolveSignedCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewSolver()
	if _, err := s.UpperBound(ctx, completeGraph(t, 3)); err == nil {
		t.Error("UpperBound succeeded with canceled context")
	}
}

func TestSignedExhaustiveGate(t *testing.T) {
	ctx := context.Background()
	s := NewSolver()
	// K6 has 15 edges, above the search gate.
	if _, err := s.SignedExhaustive(ctx, completeGraph(t, 6), 0); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("SignedExhaustive error = %v, want UNSUPPORTED", err)
	}
}

func TestSignedCycleRequiresEvenCycle(t *testing.T) {
	ctx := context.Background()
	s := NewSolver()
	// A triangle has no induced even cycle to search.
	if _, err := s.SignedCycle(ctx, completeGraph(t, 3), 0); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("SignedCycle error = %v, want UNSUPPORTED", err)
	}
}

func TestSignedSimpleBoundedByLower(t *testing.T) {
	// With dLo at the vertex count the search can never improve past it, so
	// it must run to completion and return a rank in range.
	ctx := context.Background()
	s := NewSolver()
	g := cycleGraph(t, 4)

	rank, err := s.SignedSimple(ctx, g, 0)
	if err != nil {
		t.Fatalf("SignedSimple error: %v", err)
	}
	if rank < 1 || rank > g.NumVerts() {
		t.Errorf("SignedSimple = %d, want in [1, %d]", rank, g.NumVerts())
	}
}
