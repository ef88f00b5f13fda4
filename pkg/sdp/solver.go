// Package sdp estimates representation ranks through a convex relaxation.
//
// The nonconvex sparsity constraint "X_ij != 0 on edges" is relaxed to
// "s_ij * X_ij >= epsilon" for a fixed sign pattern s, which together with
// positive semidefiniteness and trace minimization yields a low-rank matrix
// matching the graph's pattern. The trace objective is a convex surrogate for
// rank, so the estimated rank is an upper bound up to solver accuracy.
//
// The relaxation feasible set is a proper subset of the true sparsity
// constraints: for some graphs (the 4-cycle among them) the all-positive sign
// pattern overestimates the rank, which is what the signed searches exist to
// repair.
package sdp

import (
	"context"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/psdrank/pkg/errors"
	"github.com/matzehuels/psdrank/pkg/graph"
	"github.com/matzehuels/psdrank/pkg/observability"
)

// Solver runs the relaxation with fixed numeric parameters.
type Solver struct {
	// Tol is the relative singular-value cutoff for the rank estimate.
	Tol float64

	// MaxIter bounds the projection iterations of a single solve.
	MaxIter int

	// ConvTol stops the iteration once successive iterates differ by less
	// than this in Frobenius norm.
	ConvTol float64
}

// NewSolver returns a solver with the default parameters.
func NewSolver() *Solver {
	return &Solver{
		Tol:     1e-4,
		MaxIter: 500,
		ConvTol: 1e-9,
	}
}

// epsilon is the minimum magnitude imposed on edge entries.
// Scaling with 1/sqrt(n) keeps the solution norm of larger graphs comparable.
func epsilon(n int) float64 {
	return 0.01 / math.Sqrt(float64(n))
}

// UpperBound estimates the rank of a positive-semidefinite matrix matching
// the graph's sparsity pattern with all-positive edge entries.
// Returns ErrCodeSolverUnstable when the solution fails its sanity check.
func (s *Solver) UpperBound(ctx context.Context, g *graph.Graph) (int, error) {
	signs := make(map[graph.Edge]float64, g.NumEdges())
	for _, e := range g.Edges() {
		signs[e] = 1
	}
	return s.SolveSigned(ctx, g, signs)
}

// SolveSigned estimates the rank under an explicit edge sign pattern.
// Every edge of the graph must appear in signs with value +1 or -1.
func (s *Solver) SolveSigned(ctx context.Context, g *graph.Graph, signs map[graph.Edge]float64) (int, error) {
	n := g.NumVerts()
	if n < 1 {
		return 0, errors.New(errors.ErrCodeInvalidGraph, "solve requires at least one vertex")
	}
	for _, e := range g.Edges() {
		if v := signs[e]; v != 1 && v != -1 {
			return 0, errors.New(errors.ErrCodeInvalidConfig, "edge %s has sign %v, want +1 or -1", e, v)
		}
	}

	start := time.Now()
	x, err := s.solve(ctx, g, signs)
	if err != nil {
		return 0, err
	}
	if err := s.sanityCheck(ctx, g, signs, x); err != nil {
		return 0, err
	}

	rank := s.rank(x)
	observability.Solver().OnSolve(ctx, n, rank, time.Since(start))
	return rank, nil
}

// solve runs alternating projections between the sparsity pattern and the
// positive-semidefinite cone, with eigenvalue soft-thresholding standing in
// for the trace objective.
func (s *Solver) solve(ctx context.Context, g *graph.Graph, signs map[graph.Edge]float64) (*mat.SymDense, error) {
	n := g.NumVerts()
	eps := epsilon(n)

	// The shrink step decays geometrically: early iterations flatten small
	// eigenvalues aggressively, late iterations restore exact feasibility so
	// the projections settle below the convergence tolerance.
	shrink := eps / 10
	const decay = 0.97

	// Start from the signed pattern itself with a diagonal loading large
	// enough that the first PSD projection does not wipe the edge entries.
	x := mat.NewSymDense(n, nil)
	for e, sign := range signs {
		x.SetSym(e.V, e.W, sign*eps)
	}
	for i := 0; i < n; i++ {
		x.SetSym(i, i, eps*float64(g.Degree(i)+1))
	}

	prev := mat.NewSymDense(n, nil)
	for iter := 0; iter < s.MaxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "solve canceled")
		}
		prev.CopySym(x)

		s.projectPattern(g, signs, x, eps)
		if err := s.projectPSDShrink(x, shrink); err != nil {
			return nil, err
		}
		shrink *= decay

		if frobDiff(x, prev) < s.ConvTol {
			break
		}
	}

	// Final pattern projection so the returned matrix satisfies the sparsity
	// constraints exactly.
	s.projectPattern(g, signs, x, eps)
	return x, nil
}

// projectPattern enforces the sparsity constraints in place: non-edge entries
// are zeroed and edge entries are pushed to at least eps in their sign's
// direction.
func (s *Solver) projectPattern(g *graph.Graph, signs map[graph.Edge]float64, x *mat.SymDense, eps float64) {
	n := g.NumVerts()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if !g.HasEdge(i, j) {
				x.SetSym(i, j, 0)
				continue
			}
			e, _ := graph.NewEdge(i, j)
			sign := signs[e]
			if sign*x.At(i, j) < eps {
				x.SetSym(i, j, sign*eps)
			}
		}
		if x.At(i, i) < 0 {
			x.SetSym(i, i, 0)
		}
	}
}

// projectPSDShrink replaces x with its nearest positive-semidefinite matrix
// after subtracting shrink from every eigenvalue, which drives small
// eigenvalues to zero the way trace minimization does.
func (s *Solver) projectPSDShrink(x *mat.SymDense, shrink float64) error {
	var es mat.EigenSym
	if !es.Factorize(x, true) {
		return errors.New(errors.ErrCodeSolverUnstable, "eigendecomposition failed")
	}
	vals := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	n := len(vals)
	for i, v := range vals {
		vals[i] = math.Max(v-shrink, 0)
	}

	// X = V diag(vals) V^T
	scaled := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			scaled.Set(i, j, vecs.At(i, j)*vals[j])
		}
	}
	var out mat.Dense
	out.Mul(scaled, vecs.T())
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			x.SetSym(i, j, (out.At(i, j)+out.At(j, i))/2)
		}
	}
	return nil
}

// sanityCheck validates the solution against its own constraints: solution
// norm in the expected range and edge entries respecting the sign pattern.
// Violations surface as ErrCodeSolverUnstable diagnostics.
func (s *Solver) sanityCheck(ctx context.Context, g *graph.Graph, signs map[graph.Edge]float64, x *mat.SymDense) error {
	n := g.NumVerts()
	norm := mat.Norm(x, 2)
	if norm > 1 {
		observability.Solver().OnUnstable(ctx, n, norm)
		return errors.New(errors.ErrCodeSolverUnstable, "solution norm %.4f exceeds 1, suboptimal solve likely", norm)
	}
	eps := epsilon(n)
	for e, sign := range signs {
		if sign*x.At(e.V, e.W) < eps/2 {
			observability.Solver().OnUnstable(ctx, n, norm)
			return errors.New(errors.ErrCodeSolverUnstable, "edge %s violates its sign constraint", e)
		}
	}
	return nil
}

// rank counts singular values above the relative tolerance.
func (s *Solver) rank(x *mat.SymDense) int {
	var svd mat.SVD
	if !svd.Factorize(x, mat.SVDNone) {
		// A factorization failure on a finite matrix does not occur in
		// practice; fall back to full rank.
		n, _ := x.Dims()
		return n
	}
	sigma := svd.Values(nil)
	if len(sigma) == 0 || sigma[0] == 0 {
		return 0
	}
	rank := 0
	for _, v := range sigma {
		if v > s.Tol*sigma[0] {
			rank++
		}
	}
	return rank
}

// frobDiff returns the Frobenius norm of a - b.
func frobDiff(a, b *mat.SymDense) float64 {
	n, _ := a.Dims()
	sum := 0.0
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			d := a.At(i, j) - b.At(i, j)
			if i == j {
				sum += d * d
			} else {
				sum += 2 * d * d
			}
		}
	}
	return math.Sqrt(sum)
}
