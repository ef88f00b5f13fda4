package graph

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/psdrank/pkg/errors"
)

func TestWriteReadRoundTrip(t *testing.T) {
	g := mustGraph(t, 5, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 0}, {1, 4}})
	g.SetKnownMSR(3)

	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if got.NumVerts() != g.NumVerts() {
		t.Errorf("NumVerts() = %d, want %d", got.NumVerts(), g.NumVerts())
	}
	wantHash, _ := g.Hash()
	gotHash, _ := got.Hash()
	if gotHash != wantHash {
		t.Errorf("round trip hash = %d, want %d", gotHash, wantHash)
	}
	if known, ok := got.KnownMSR(); !ok || known != 3 {
		t.Errorf("round trip KnownMSR = %d, %v, want 3, true", known, ok)
	}
}

func TestMarshalIsDeterministic(t *testing.T) {
	g := mustGraph(t, 4, [][2]int{{2, 3}, {0, 1}, {1, 3}})
	a, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	b, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("Marshal output differs between calls")
	}
	if !strings.Contains(string(a), `"num_verts": 4`) {
		t.Errorf("Marshal output missing num_verts field:\n%s", a)
	}
}

func TestReadRejectsInvalidRecord(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"self loop", `{"num_verts": 3, "edges": [[1, 1]]}`},
		{"out of range", `{"num_verts": 3, "edges": [[0, 5]]}`},
		{"zero vertices", `{"num_verts": 0, "edges": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.json)); err == nil {
				t.Error("Read succeeded on invalid record")
			}
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	g := cycleGraph(t, 6)
	path := filepath.Join(dir, Filename(g))
	if err := WriteFile(g, path); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if got.NumEdges() != 6 || got.NumVerts() != 6 {
		t.Errorf("loaded graph = %d vertices %d edges, want 6 and 6", got.NumVerts(), got.NumEdges())
	}
}

func TestReadFileNotFound(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.graph"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestReadDirFiltersByVertexCount(t *testing.T) {
	dir := t.TempDir()
	graphs := []*Graph{cycleGraph(t, 4), cycleGraph(t, 5), pathGraph(t, 5)}
	for _, g := range graphs {
		if err := WriteFile(g, filepath.Join(dir, Filename(g))); err != nil {
			t.Fatalf("WriteFile error: %v", err)
		}
	}

	all, err := ReadDir(dir, 0)
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ReadDir(dir, 0) loaded %d graphs, want 3", len(all))
	}

	five, err := ReadDir(dir, 5)
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	if len(five) != 2 {
		t.Errorf("ReadDir(dir, 5) loaded %d graphs, want 2", len(five))
	}
	for _, g := range five {
		if g.NumVerts() != 5 {
			t.Errorf("filtered load returned graph on %d vertices", g.NumVerts())
		}
	}
}
