package graph

import (
	"reflect"
	"testing"
)

func TestIsIndependentSet(t *testing.T) {
	g := cycleGraph(t, 5)
	tests := []struct {
		verts []int
		want  bool
	}{
		{nil, true},
		{[]int{0}, true},
		{[]int{0, 2}, true},
		{[]int{0, 2, 4}, false}, // 4 and 0 are adjacent on the cycle
		{[]int{1, 3}, true},
		{[]int{0, 1}, false},
	}
	for _, tt := range tests {
		if got := g.IsIndependentSet(tt.verts); got != tt.want {
			t.Errorf("IsIndependentSet(%v) = %v, want %v", tt.verts, got, tt.want)
		}
	}
}

func TestMaximalIndependentSet(t *testing.T) {
	// Star: greedy takes a leaf first (minimum degree), then the remaining
	// leaves, never the center.
	g := mustGraph(t, 5, [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}})
	got := g.MaximalIndependentSet()
	want := []int{1, 2, 3, 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MaximalIndependentSet() = %v, want %v", got, want)
	}
	if !g.IsIndependentSet(got) {
		t.Errorf("MaximalIndependentSet() = %v is not independent", got)
	}
}

func TestMaximumIndependentSet(t *testing.T) {
	tests := []struct {
		name  string
		graph *Graph
		size  int
	}{
		{"C5", cycleGraph(t, 5), 2},
		{"C6", cycleGraph(t, 6), 3},
		{"K4", completeGraph(t, 4), 1},
		{"path 5", pathGraph(t, 5), 3},
		{"edgeless", mustGraph(t, 4, nil), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.graph.MaximumIndependentSet()
			if len(got) != tt.size {
				t.Errorf("MaximumIndependentSet() = %v (size %d), want size %d", got, len(got), tt.size)
			}
			if !tt.graph.IsIndependentSet(got) {
				t.Errorf("MaximumIndependentSet() = %v is not independent", got)
			}
		})
	}
}

func TestIndependentSets(t *testing.T) {
	// Triangle: only the three singletons are independent.
	g := completeGraph(t, 3)
	got := g.IndependentSets()
	if len(got) != 3 {
		t.Fatalf("IndependentSets() returned %d sets, want 3", len(got))
	}
	for _, s := range got {
		if len(s) != 1 {
			t.Errorf("IndependentSets() contains non-singleton %v in a triangle", s)
		}
	}
}
