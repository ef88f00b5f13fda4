package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/psdrank/pkg/errors"
)

// FileExt is the filename extension for persisted graph records.
const FileExt = ".graph"

// Record is the on-disk JSON form of a graph: a vertex count, an edge list of
// integer pairs, and an optional reference rank from the literature.
type Record struct {
	NumVerts int      `json:"num_verts"`
	Edges    [][2]int `json:"edges"`
	KnownMSR *int     `json:"known_msr,omitempty"`
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// Marshal converts a graph to JSON bytes.
// Edges are sorted for deterministic output.
func Marshal(g *Graph) ([]byte, error) {
	return json.MarshalIndent(toRecord(g), "", "  ")
}

// Write writes a graph as JSON to an io.Writer.
// Use Marshal for in-memory serialization or WriteFile for files.
func Write(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toRecord(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes a graph to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(g, f)
}

// Filename returns the default persistence filename for a graph:
// its ID plus the ".graph" extension.
func Filename(g *Graph) string {
	return g.ID() + FileExt
}

// Read decodes a JSON graph record from an io.Reader.
// Returns validation errors for malformed records.
func Read(r io.Reader) (*Graph, error) {
	var rec Record
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return fromRecord(rec)
}

// ReadFile reads a JSON file and returns the decoded graph.
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// ReadDir loads every ".graph" file in a directory, sorted by filename.
// When numVerts > 0, only files whose name starts with "n<numVerts>" load.
func ReadDir(dir string, numVerts int) ([]*Graph, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var graphs []*Graph
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FileExt) {
			continue
		}
		if numVerts > 0 && !strings.HasPrefix(entry.Name(), fmt.Sprintf("n%dk", numVerts)) {
			continue
		}
		g, err := ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", entry.Name(), err)
		}
		graphs = append(graphs, g)
	}
	return graphs, nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func toRecord(g *Graph) Record {
	edges := make([][2]int, 0, g.NumEdges())
	for _, e := range g.Edges() {
		edges = append(edges, [2]int{e.V, e.W})
	}
	rec := Record{NumVerts: g.NumVerts(), Edges: edges}
	if known, ok := g.KnownMSR(); ok {
		rec.KnownMSR = &known
	}
	return rec
}

func fromRecord(rec Record) (*Graph, error) {
	g, err := NewFromEdges(rec.NumVerts, rec.Edges)
	if err != nil {
		return nil, err
	}
	if rec.KnownMSR != nil {
		g.SetKnownMSR(*rec.KnownMSR)
	}
	return g, nil
}
