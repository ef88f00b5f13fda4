// Package store persists certified bound windows keyed by isomorphism class.
//
// A stored entry is a window [DLo, DHi] bracketing the true value for every
// graph in the class. Writes are monotonic: an incoming window replaces the
// stored one only when it tightens one side without loosening the other, so a
// stored window never gets worse regardless of write order.
//
// Keys are derived from the canonical hash, which is gated by vertex count.
// Graphs above the gate silently bypass persistence through the LoadBounds and
// SaveBounds helpers; the computation itself is unaffected.
package store

import (
	"context"
	"fmt"

	"github.com/matzehuels/psdrank/pkg/errors"
	"github.com/matzehuels/psdrank/pkg/graph"
	"github.com/matzehuels/psdrank/pkg/observability"
)

// Entry is a persisted bound window.
type Entry struct {
	DLo int `json:"d_lo" bson:"d_lo"`
	DHi int `json:"d_hi" bson:"d_hi"`
}

// Valid reports whether the window is well-formed: 0 <= DLo <= DHi.
func (e Entry) Valid() bool {
	return e.DLo >= 0 && e.DLo <= e.DHi
}

// Improves reports whether in may replace stored under the monotonic rule:
// strictly tighter on at least one side and no looser on the other.
func Improves(stored, in Entry) bool {
	if in.DLo > stored.DLo && in.DHi <= stored.DHi {
		return true
	}
	return in.DLo >= stored.DLo && in.DHi < stored.DHi
}

// merge resolves an incoming entry against the stored state.
// Returns the entry to persist and whether a write is needed.
func merge(stored Entry, hadStored bool, in Entry) (Entry, bool) {
	if !hadStored {
		return in, true
	}
	if Improves(stored, in) {
		return in, true
	}
	return stored, false
}

// Store is a keyed bound-window persistence backend.
//
// Save applies the monotonic merge against the currently stored entry and
// reports whether anything was written. Implementations make the
// read-merge-write atomic with respect to concurrent savers.
type Store interface {
	// Load retrieves the entry for key, reporting a miss with (Entry{}, false, nil).
	Load(ctx context.Context, key string) (Entry, bool, error)

	// Save merges the entry into the stored state for key.
	// Invalid entries are rejected with an error.
	Save(ctx context.Context, key string, e Entry) (bool, error)

	// Close releases backend resources.
	Close() error
}

// Key returns the persistence key for a graph's isomorphism class:
// "bounds:n<verts>:e<edges>:<canonical hash>". Fails for graphs above the
// canonicalization gate.
func Key(g *graph.Graph) (string, error) {
	h, err := g.CanonicalHash()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("bounds:n%d:e%d:%d", g.NumVerts(), g.NumEdges(), h), nil
}

// keyOrSkip computes the store key, reporting ok=false when the graph is above
// the canonicalization gate and must bypass persistence.
func keyOrSkip(g *graph.Graph) (string, bool, error) {
	key, err := Key(g)
	if err != nil {
		if errors.Is(err, errors.ErrCodeCanonTooLarge) || errors.Is(err, errors.ErrCodeUnsupported) {
			return "", false, nil
		}
		return "", false, err
	}
	return key, true, nil
}

// LoadBounds looks up the stored window for a graph's isomorphism class.
// Graphs above the canonicalization gate always miss.
func LoadBounds(ctx context.Context, s Store, g *graph.Graph) (Entry, bool, error) {
	key, ok, err := keyOrSkip(g)
	if err != nil || !ok {
		return Entry{}, false, err
	}
	e, hit, err := s.Load(ctx, key)
	if err != nil {
		return Entry{}, false, err
	}
	if hit {
		observability.Store().OnHit(ctx, key)
	} else {
		observability.Store().OnMiss(ctx, key)
	}
	return e, hit, nil
}

// SaveBounds merges a computed window into the store under the graph's
// isomorphism key. Graphs above the canonicalization gate are skipped without
// error.
func SaveBounds(ctx context.Context, s Store, g *graph.Graph, e Entry) error {
	if !e.Valid() {
		return errors.New(errors.ErrCodeInternal, "refusing to persist invalid window [%d, %d]", e.DLo, e.DHi)
	}
	key, ok, err := keyOrSkip(g)
	if err != nil || !ok {
		return err
	}
	wrote, err := s.Save(ctx, key, e)
	if err != nil {
		return err
	}
	if wrote {
		observability.Store().OnSave(ctx, key, e.DLo, e.DHi)
	}
	return nil
}
