// Package graph implements the simple undirected graph model used by the
// bound engine.
//
// A Graph has a fixed vertex count n with vertices contiguously indexed
// 0..n-1 and a set of unordered edges. Removing a vertex renumbers all higher
// indices down by one, so the contiguity invariant always holds. Connectivity
// is cached and invalidated on any structural change.
//
// # Mutation discipline
//
// Graph methods mutate in place. Algorithms that must not corrupt their
// caller's view call Clone first; the bound engine clones at every mutation
// boundary so sibling recursion branches never observe each other's edits.
//
// # Hash encoding
//
// Each unordered pair (i, j) with i < j maps to a fixed bit position in a
// length-C(n,2) bitstring; interpreting the bitstring as an integer gives the
// graph's hash. The canonical hash is the minimum over all n! relabelings and
// serves as an isomorphism-class key. Both are explicitly size-gated: the
// plain hash requires n <= MaxHashVerts to fit in a uint64, and
// canonicalization requires n <= MaxCanonVerts to keep the factorial search
// feasible.
//
// # Persistence
//
// Graphs serialize to a JSON record {num_verts, edges} with filenames derived
// from the hash identifier. See WriteFile, ReadFile, and ReadDir.
package graph
