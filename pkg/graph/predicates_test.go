package graph

import "testing"

func TestClassPredicates(t *testing.T) {
	tests := []struct {
		name     string
		graph    *Graph
		empty    bool
		complete bool
		tree     bool
		cycle    bool
	}{
		{"edgeless 5", mustGraph(t, 5, nil), true, false, false, false},
		{"K4", completeGraph(t, 4), false, true, false, false},
		{"K2", completeGraph(t, 2), false, true, true, false},
		{"path 4", pathGraph(t, 4), false, false, true, false},
		{"cycle 5", cycleGraph(t, 5), false, false, false, true},
		{"triangle", completeGraph(t, 3), false, true, false, true},
		{"disconnected", mustGraph(t, 4, [][2]int{{0, 1}, {2, 3}}), false, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.graph.IsEmpty(); got != tt.empty {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.empty)
			}
			if got := tt.graph.IsComplete(); got != tt.complete {
				t.Errorf("IsComplete() = %v, want %v", got, tt.complete)
			}
			if got := tt.graph.IsTree(); got != tt.tree {
				t.Errorf("IsTree() = %v, want %v", got, tt.tree)
			}
			if got := tt.graph.IsCycle(); got != tt.cycle {
				t.Errorf("IsCycle() = %v, want %v", got, tt.cycle)
			}
		})
	}
}

func TestIsRegular(t *testing.T) {
	if !cycleGraph(t, 6).IsRegular(2) {
		t.Error("cycle not 2-regular")
	}
	if pathGraph(t, 4).IsRegular(2) {
		t.Error("path reported 2-regular")
	}
}

func TestVertexPredicates(t *testing.T) {
	// Paw: triangle 1-2-3 with pendant 0 attached at 1.
	g := mustGraph(t, 4, [][2]int{{0, 1}, {1, 2}, {1, 3}, {2, 3}})

	if !g.IsPendant(0) {
		t.Error("IsPendant(0) = false, want true")
	}
	if g.IsPendant(1) {
		t.Error("IsPendant(1) = true, want false")
	}

	// Vertex 2 has neighbors {1, 3} which are adjacent, so it is not
	// subdivided; on a path the middle vertex is.
	if g.IsSubdivided(2) {
		t.Error("IsSubdivided(2) = true for triangle corner")
	}
	p := pathGraph(t, 3)
	if !p.IsSubdivided(1) {
		t.Error("IsSubdivided(1) = false for path midpoint")
	}

	if !completeGraph(t, 4).IsRedundant(2) {
		t.Error("IsRedundant = false in K4")
	}
	if g.IsRedundant(0) {
		t.Error("IsRedundant(0) = true for pendant")
	}
}

func TestAreDuplicatePair(t *testing.T) {
	// In K4 every adjacent pair is a duplicate pair.
	k := completeGraph(t, 4)
	if !k.AreDuplicatePair(0, 3) {
		t.Error("AreDuplicatePair(0, 3) = false in K4")
	}

	// Diamond: K4 minus edge {0, 3}. Vertices 1 and 2 are duplicates, 0 and 1
	// are not.
	d := mustGraph(t, 4, [][2]int{{0, 1}, {0, 2}, {1, 2}, {1, 3}, {2, 3}})
	if !d.AreDuplicatePair(1, 2) {
		t.Error("AreDuplicatePair(1, 2) = false in diamond")
	}
	if d.AreDuplicatePair(0, 1) {
		t.Error("AreDuplicatePair(0, 1) = true in diamond")
	}
	if d.AreDuplicatePair(0, 3) {
		t.Error("AreDuplicatePair(0, 3) = true for non-adjacent pair")
	}
}

func TestNeighborhoodIsClique(t *testing.T) {
	// Paw again: vertex 0's single neighbor is trivially a clique, vertex 1's
	// neighborhood {0, 2, 3} is not.
	g := mustGraph(t, 4, [][2]int{{0, 1}, {1, 2}, {1, 3}, {2, 3}})
	if !g.NeighborhoodIsClique(0) {
		t.Error("NeighborhoodIsClique(0) = false")
	}
	if g.NeighborhoodIsClique(1) {
		t.Error("NeighborhoodIsClique(1) = true")
	}
	if !g.NeighborhoodIsClique(2) {
		t.Error("NeighborhoodIsClique(2) = false")
	}
}
