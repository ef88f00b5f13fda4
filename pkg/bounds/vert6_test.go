package bounds

import (
	"context"
	"testing"

	"github.com/matzehuels/psdrank/pkg/graph"
)

// completeWithout builds the complete graph on n vertices minus the given
// edges.
func completeWithout(t *testing.T, n int, missing [][2]int) *graph.Graph {
	t.Helper()
	g := completeGraph(t, n)
	for _, e := range missing {
		if err := g.RemoveEdge(e[0], e[1]); err != nil {
			t.Fatalf("RemoveEdge(%d, %d) error: %v", e[0], e[1], err)
		}
	}
	return g
}

func minRankWindow(t *testing.T, g *graph.Graph) Window {
	t.Helper()
	w, err := ComputeMinRank(context.Background(), g, Options{Logger: testLogger()})
	if err != nil {
		t.Fatalf("ComputeMinRank error: %v", err)
	}
	return w
}

// Spot checks against the tabulated minimum semidefinite ranks of connected
// six-vertex graphs, sampled across the full edge-count range from the
// complete graph down to trees.
func TestComputeKnownSixVertexRanks(t *testing.T) {
	tests := []struct {
		name  string
		graph *graph.Graph
		want  int
	}{
		{"complete", completeGraph(t, 6), 1},
		{"complete minus one edge", completeWithout(t, 6, [][2]int{{0, 1}}), 2},
		{"complete minus two edges at one vertex", completeWithout(t, 6, [][2]int{{0, 2}, {0, 4}}), 2},
		{"complete minus two disjoint edges", completeWithout(t, 6, [][2]int{{0, 2}, {3, 5}}), 2},
		{"complete minus a claw", completeWithout(t, 6, [][2]int{{0, 2}, {0, 3}, {0, 4}}), 2},
		{"complete minus a triangle", completeWithout(t, 6, [][2]int{{0, 2}, {2, 4}, {0, 4}}), 3},
		{"two dominating vertices over a path", mustGraph(t, 6, [][2]int{
			{0, 1}, {0, 2}, {0, 3}, {0, 4}, {0, 5},
			{1, 2}, {1, 3}, {1, 4}, {1, 5},
			{2, 3}, {3, 4}, {4, 5},
		}), 3},
		{"wheel with two chords", mustGraph(t, 6, [][2]int{
			{0, 1}, {1, 2}, {2, 3}, {3, 4}, {0, 4},
			{0, 5}, {1, 5}, {2, 5}, {3, 5}, {4, 5},
			{0, 2}, {1, 3},
		}), 2},
		{"complete K5 with a pendant", mustGraph(t, 6, [][2]int{
			{0, 1}, {0, 2}, {0, 3}, {0, 4},
			{1, 2}, {1, 3}, {1, 4},
			{2, 3}, {2, 4}, {3, 4},
			{0, 5},
		}), 2},
		{"subdivided near-complete block", mustGraph(t, 6, [][2]int{
			{0, 1}, {0, 2},
			{1, 3}, {1, 4}, {1, 5},
			{2, 3}, {2, 4}, {2, 5},
			{3, 4}, {4, 5},
		}), 3},
		{"two dominating vertices over disjoint edges", mustGraph(t, 6, [][2]int{
			{0, 1}, {0, 2}, {0, 3}, {0, 4}, {0, 5},
			{1, 2}, {1, 3}, {1, 4}, {1, 5},
			{2, 3}, {4, 5},
		}), 2},
		{"star with two leaf edges", mustGraph(t, 6, [][2]int{
			{0, 5}, {1, 5}, {2, 5}, {3, 5}, {4, 5},
			{0, 1}, {2, 3},
		}), 3},
		{"spider tree", mustGraph(t, 6, [][2]int{
			{0, 1}, {1, 2}, {2, 3}, {3, 4}, {1, 5},
		}), 5},
		{"path", pathGraph(t, 6), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := minRankWindow(t, tt.graph)
			if got.DLo != tt.want || got.DHi != tt.want {
				t.Errorf("window = [%d, %d], want exactly %d", got.DLo, got.DHi, tt.want)
			}
		})
	}
}

// The octahedron K_{2,2,2} has minimum semidefinite rank 2. On it the
// correction-number search never drops below 3, the relaxation oracle
// confirms 3 from above, and the engine certifies a tight window one above
// the known value. The tabulation's accuracy accounting records this class
// of graph as the engine's known inexact case.
func TestComputeOctahedronOverestimatesRank(t *testing.T) {
	g := cycleGraph(t, 6)
	for _, e := range [][2]int{{0, 2}, {2, 4}, {0, 4}, {1, 3}, {3, 5}, {1, 5}} {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("AddEdge(%d, %d) error: %v", e[0], e[1], err)
		}
	}

	got := minRankWindow(t, g)
	if got.DLo != 3 || got.DHi != 3 {
		t.Errorf("window = [%d, %d], want [3, 3]", got.DLo, got.DHi)
	}
}
