package graph

import (
	"fmt"

	"github.com/matzehuels/psdrank/pkg/errors"
)

// Size gates for the hash encoding and canonicalization.
//
// The hash packs C(n,2) bits into a uint64, so C(n,2) must stay below 64:
// C(11,2) = 55 fits, C(12,2) = 66 does not. Canonicalization additionally
// walks all n! relabelings, which is only feasible for small n.
const (
	// MaxHashVerts is the largest vertex count whose edge bitstring fits in a uint64.
	MaxHashVerts = 11

	// MaxCanonVerts is the largest vertex count accepted by CanonicalHash.
	// 9! = 362880 permutations is the practical ceiling for the exhaustive
	// minimum-hash search.
	MaxCanonVerts = 9
)

// bitPos maps the unordered pair (i, j), i < j, on n vertices to its fixed
// position in the length-C(n,2) bitstring. Position 0 is the most significant
// bit, so pair (0,1) occupies the highest bit of the encoding.
func bitPos(n, i, j int) int {
	return j - 1 + (i*(2*n-3-i))/2
}

// choose2 returns C(n,2).
func choose2(n int) int {
	return n * (n - 1) / 2
}

// Hash returns the graph's permutation-sensitive integer encoding.
// Two graphs on the same vertex count have equal hashes exactly when they
// have identical edge sets under the identity labeling.
// Returns ErrCodeUnsupported when n > MaxHashVerts.
func (g *Graph) Hash() (uint64, error) {
	n := g.numVerts
	if n > MaxHashVerts {
		return 0, errors.New(errors.ErrCodeUnsupported, "hash encoding requires at most %d vertices, got %d", MaxHashVerts, n)
	}
	bits := choose2(n)
	var h uint64
	for e := range g.edges {
		h |= 1 << uint(bits-1-bitPos(n, e.V, e.W))
	}
	return h, nil
}

// ID returns a printable identifier for the graph: "n<verts>k<hash>" when the
// hash encoding applies, otherwise "n<verts>e<edges>". Intended for filenames
// and log lines, not as an isomorphism key.
func (g *Graph) ID() string {
	if h, err := g.Hash(); err == nil {
		return fmt.Sprintf("n%dk%d", g.numVerts, h)
	}
	return fmt.Sprintf("n%de%d", g.numVerts, len(g.edges))
}

// BuildFromHash creates the graph on n vertices whose encoding equals h.
// Returns ErrCodeInvalidHash when h is outside [0, 2^C(n,2)), and
// ErrCodeUnsupported when n > MaxHashVerts.
func BuildFromHash(n int, h uint64) (*Graph, error) {
	if n > MaxHashVerts {
		return nil, errors.New(errors.ErrCodeUnsupported, "hash encoding requires at most %d vertices, got %d", MaxHashVerts, n)
	}
	g, err := New(n)
	if err != nil {
		return nil, err
	}
	bits := choose2(n)
	if bits < 64 && h >= 1<<uint(bits) {
		return nil, errors.New(errors.ErrCodeInvalidHash, "hash %d out of range [0, 2^%d)", h, bits)
	}
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			if h&(1<<uint(bits-1-bitPos(n, i, j))) != 0 {
				// Indices are in range by construction.
				_ = g.AddEdge(i, j)
			}
		}
	}
	return g, nil
}

// CanonicalHash returns the minimum hash over all n! vertex relabelings: the
// isomorphism-class representative used as the bound-store key. Two graphs
// are isomorphic exactly when their canonical hashes agree.
//
// The search is factorial in n and is therefore hard-gated: graphs with more
// than MaxCanonVerts vertices yield ErrCodeCanonTooLarge instead of an
// open-ended computation. Callers that only need a best-effort key (the bound
// store) skip persistence above the gate.
func (g *Graph) CanonicalHash() (uint64, error) {
	n := g.numVerts
	if n > MaxCanonVerts {
		return 0, errors.New(errors.ErrCodeCanonTooLarge, "canonicalization requires at most %d vertices, got %d", MaxCanonVerts, n)
	}

	// Identity labeling first, then improve over the remaining permutations.
	minHash, err := g.Hash()
	if err != nil {
		return 0, err
	}

	// Heap's algorithm, iterating in place instead of materializing all n!
	// permutations.
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	state := make([]int, n)
	for i := 0; i < n; {
		if state[i] < i {
			if i&1 == 0 {
				perm[0], perm[i] = perm[i], perm[0]
			} else {
				perm[state[i]], perm[i] = perm[i], perm[state[i]]
			}
			if h := g.hashUnderPerm(perm); h < minHash {
				minHash = h
			}
			state[i]++
			i = 0
		} else {
			state[i] = 0
			i++
		}
	}
	return minHash, nil
}

// hashUnderPerm computes the hash of the relabeled graph without allocating
// the relabeled copy. Internal: assumes perm is a valid bijection and the
// vertex count passed the hash gate.
func (g *Graph) hashUnderPerm(perm []int) uint64 {
	n := g.numVerts
	bits := choose2(n)
	var h uint64
	for e := range g.edges {
		i, j := perm[e.V], perm[e.W]
		if i > j {
			i, j = j, i
		}
		h |= 1 << uint(bits-1-bitPos(n, i, j))
	}
	return h
}
