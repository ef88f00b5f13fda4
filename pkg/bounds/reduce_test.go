package bounds

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/psdrank/pkg/graph"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func mustGraph(t *testing.T, n int, edges [][2]int) *graph.Graph {
	t.Helper()
	g, err := graph.NewFromEdges(n, edges)
	if err != nil {
		t.Fatalf("NewFromEdges error: %v", err)
	}
	return g
}

func pathGraph(t *testing.T, n int) *graph.Graph {
	t.Helper()
	var edges [][2]int
	for i := 0; i < n-1; i++ {
		edges = append(edges, [2]int{i, i + 1})
	}
	return mustGraph(t, n, edges)
}

func cycleGraph(t *testing.T, n int) *graph.Graph {
	t.Helper()
	var edges [][2]int
	for i := 0; i < n; i++ {
		edges = append(edges, [2]int{i, (i + 1) % n})
	}
	return mustGraph(t, n, edges)
}

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

// houseGraph is the 5-cycle 0-1-2-3-4 with the chord {1, 4}.
func houseGraph(t *testing.T) *graph.Graph {
	t.Helper()
	return mustGraph(t, 5, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 0}, {1, 4}})
}

func TestReduceRequiresConnected(t *testing.T) {
	g := mustGraph(t, 4, [][2]int{{0, 1}, {2, 3}})
	if _, _, _, err := Reduce(g, testLogger()); err == nil {
		t.Error("Reduce accepted a disconnected graph")
	}
}

func TestReduceLeavesClassifiedShapesAlone(t *testing.T) {
	// Trees, cycles, and complete graphs are stopping shapes: the loop exits
	// before touching them.
	tests := []struct {
		name  string
		graph *graph.Graph
	}{
		{"path", pathGraph(t, 5)},
		{"cycle", cycleGraph(t, 6)},
		{"complete", completeGraph(t, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, offset, deletions, err := Reduce(tt.graph, testLogger())
			if err != nil {
				t.Fatalf("Reduce error: %v", err)
			}
			if deletions != 0 || offset != 0 {
				t.Errorf("Reduce = %d deletions, offset %d, want 0 and 0", deletions, offset)
			}
			if h.NumVerts() != tt.graph.NumVerts() {
				t.Errorf("Reduce changed vertex count to %d", h.NumVerts())
			}
		})
	}
}

func TestReducePendantChain(t *testing.T) {
	// C5 with a pendant hanging off vertex 0: the pendant goes, the cycle
	// stays.
	g := mustGraph(t, 6, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 0}, {0, 5}})
	h, offset, deletions, err := Reduce(g, testLogger())
	if err != nil {
		t.Fatalf("Reduce error: %v", err)
	}
	if deletions != 1 || offset != 1 {
		t.Errorf("Reduce = %d deletions, offset %d, want 1 and 1", deletions, offset)
	}
	if !h.IsCycle() || h.NumVerts() != 5 {
		t.Errorf("reduced graph is not the 5-cycle: %v", h)
	}
}

func TestReduceIdempotent(t *testing.T) {
	g := mustGraph(t, 6, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 0}, {0, 5}})
	h, _, _, err := Reduce(g, testLogger())
	if err != nil {
		t.Fatalf("Reduce error: %v", err)
	}
	h2, offset, deletions, err := Reduce(h, testLogger())
	if err != nil {
		t.Fatalf("second Reduce error: %v", err)
	}
	if deletions != 0 || offset != 0 {
		t.Errorf("second Reduce = %d deletions, offset %d, want 0 and 0", deletions, offset)
	}
	ha, _ := h.Hash()
	hb, _ := h2.Hash()
	if ha != hb {
		t.Error("second Reduce changed the graph")
	}
}

func TestReduceHouse(t *testing.T) {
	// The house contracts its subdivided roof vertex, then redundant-vertex
	// removal eats the rest until the remainder disconnects.
	h, offset, deletions, err := Reduce(houseGraph(t), testLogger())
	if err != nil {
		t.Fatalf("Reduce error: %v", err)
	}
	if offset != 1 {
		t.Errorf("offset = %d, want 1", offset)
	}
	if deletions != 3 {
		t.Errorf("deletions = %d, want 3", deletions)
	}
	if h.NumVerts() != 2 || !h.IsEmpty() {
		t.Errorf("reduced graph = %v, want two isolated vertices", h)
	}
}

func TestReduceDuplicatePair(t *testing.T) {
	// K4 plus a pendant: the pendant goes first, leaving K4, a stopping
	// shape.
	g := mustGraph(t, 5, [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}, {3, 4}})
	h, offset, deletions, err := Reduce(g, testLogger())
	if err != nil {
		t.Fatalf("Reduce error: %v", err)
	}
	if deletions != 1 || offset != 1 {
		t.Errorf("Reduce = %d deletions, offset %d, want 1 and 1", deletions, offset)
	}
	if !h.IsComplete() || h.NumVerts() != 4 {
		t.Errorf("reduced graph is not K4: %v", h)
	}
}
