package graph

import (
	"testing"

	"github.com/matzehuels/psdrank/pkg/errors"
)

func TestBitPos(t *testing.T) {
	// On four vertices the six pairs occupy positions 0..5 in lexicographic
	// order of (i, j).
	wantOrder := [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	for pos, pair := range wantOrder {
		if got := bitPos(4, pair[0], pair[1]); got != pos {
			t.Errorf("bitPos(4, %d, %d) = %d, want %d", pair[0], pair[1], got, pos)
		}
	}
}

func TestHashSingleEdgeMSBFirst(t *testing.T) {
	// Pair (0, 1) sits at position 0, the most significant of C(n,2) bits.
	g := mustGraph(t, 4, [][2]int{{0, 1}})
	h, err := g.Hash()
	if err != nil {
		t.Fatalf("Hash() error: %v", err)
	}
	if want := uint64(1 << 5); h != want {
		t.Errorf("Hash() = %d, want %d", h, want)
	}
}

func TestHashCompleteGraph(t *testing.T) {
	g := completeGraph(t, 4)
	h, err := g.Hash()
	if err != nil {
		t.Fatalf("Hash() error: %v", err)
	}
	if want := uint64(1<<6) - 1; h != want {
		t.Errorf("Hash() = %d, want %d", h, want)
	}
}

func TestHashRoundTripAllFiveVertexGraphs(t *testing.T) {
	// Every graph on five vertices is one of 2^10 hashes; build and re-hash
	// each.
	for h := uint64(0); h < 1<<10; h++ {
		g, err := BuildFromHash(5, h)
		if err != nil {
			t.Fatalf("BuildFromHash(5, %d) error: %v", h, err)
		}
		got, err := g.Hash()
		if err != nil {
			t.Fatalf("Hash() error for %d: %v", h, err)
		}
		if got != h {
			t.Fatalf("round trip: Hash(BuildFromHash(5, %d)) = %d", h, got)
		}
	}
}

func TestBuildFromHashRejectsOutOfRange(t *testing.T) {
	if _, err := BuildFromHash(3, 8); !errors.Is(err, errors.ErrCodeInvalidHash) {
		t.Errorf("BuildFromHash(3, 8) error = %v, want INVALID_HASH", err)
	}
}

func TestHashGate(t *testing.T) {
	g := mustGraph(t, MaxHashVerts+1, nil)
	if _, err := g.Hash(); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Hash() on %d vertices error = %v, want UNSUPPORTED", MaxHashVerts+1, err)
	}
	if _, err := BuildFromHash(MaxHashVerts+1, 0); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("BuildFromHash on %d vertices error = %v, want UNSUPPORTED", MaxHashVerts+1, err)
	}
}

func TestID(t *testing.T) {
	g := mustGraph(t, 4, [][2]int{{0, 1}})
	if got, want := g.ID(), "n4k32"; got != want {
		t.Errorf("ID() = %q, want %q", got, want)
	}

	big := mustGraph(t, 12, [][2]int{{0, 1}, {1, 2}})
	if got, want := big.ID(), "n12e2"; got != want {
		t.Errorf("ID() = %q, want %q", got, want)
	}
}

func TestCanonicalHashIsomorphismInvariant(t *testing.T) {
	// The house graph under several relabelings always canonicalizes to the
	// same key.
	g := mustGraph(t, 5, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 0}, {1, 4}})
	want, err := g.CanonicalHash()
	if err != nil {
		t.Fatalf("CanonicalHash() error: %v", err)
	}

	perms := [][]int{
		{4, 3, 2, 1, 0},
		{1, 2, 3, 4, 0},
		{2, 0, 4, 1, 3},
	}
	for _, perm := range perms {
		h, err := g.Permute(perm)
		if err != nil {
			t.Fatalf("Permute(%v) error: %v", perm, err)
		}
		got, err := h.CanonicalHash()
		if err != nil {
			t.Fatalf("CanonicalHash() error: %v", err)
		}
		if got != want {
			t.Errorf("CanonicalHash under %v = %d, want %d", perm, got, want)
		}
	}
}

func TestCanonicalHashSeparatesClasses(t *testing.T) {
	path := pathGraph(t, 4)
	star := mustGraph(t, 4, [][2]int{{0, 1}, {0, 2}, {0, 3}})
	hp, err := path.CanonicalHash()
	if err != nil {
		t.Fatalf("CanonicalHash(path) error: %v", err)
	}
	hs, err := star.CanonicalHash()
	if err != nil {
		t.Fatalf("CanonicalHash(star) error: %v", err)
	}
	if hp == hs {
		t.Errorf("path and star canonicalize to the same hash %d", hp)
	}
}

func TestCanonicalHashGate(t *testing.T) {
	g := mustGraph(t, MaxCanonVerts+1, nil)
	if _, err := g.CanonicalHash(); !errors.Is(err, errors.ErrCodeCanonTooLarge) {
		t.Errorf("CanonicalHash() on %d vertices error = %v, want CANON_TOO_LARGE", MaxCanonVerts+1, err)
	}
}
