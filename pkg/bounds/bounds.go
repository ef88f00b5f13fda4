// Package bounds implements the recursive bound-computation engine.
//
// The engine brackets dim(G), the minimum dimension of a faithful orthogonal
// representation in which no vertex receives the zero vector; subtracting the
// isolated-vertex count gives the minimum semidefinite rank msr(G). Each
// recursion level classifies the graph, reduces it, consults the bound store,
// and then runs a configured pipeline of tightening strategies, exiting the
// moment the window closes. A window that inverts (lower above upper) is an
// internal inconsistency and aborts the whole computation: no partial result
// is trusted past that point.
package bounds

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/psdrank/pkg/errors"
	"github.com/matzehuels/psdrank/pkg/graph"
	"github.com/matzehuels/psdrank/pkg/observability"
	"github.com/matzehuels/psdrank/pkg/sdp"
	"github.com/matzehuels/psdrank/pkg/store"
)

// Window is a certified bound pair: DLo <= true value <= DHi.
// When DLo == DHi the value is exact.
type Window struct {
	DLo int
	DHi int
}

// Tight reports whether the window pins the exact value.
func (w Window) Tight() bool {
	return w.DLo == w.DHi
}

// Options configures a bound computation.
type Options struct {
	// LoadFromStore and SaveToStore toggle bound-store consultation.
	LoadFromStore bool
	SaveToStore   bool

	// MaxDepth is the recursion budget; 0 means 10x the vertex count.
	MaxDepth int

	// Strategies is the pipeline order; empty means DefaultStrategies.
	Strategies []Strategy

	// Store persists windows across runs; nil disables persistence.
	Store store.Store

	// Solver is the relaxation oracle; nil uses the default parameters.
	Solver *sdp.Solver

	// Logger receives diagnostics; nil discards them.
	Logger *log.Logger
}

// DefaultOptions returns options with store consultation enabled and all
// other settings at their defaults.
func DefaultOptions() Options {
	return Options{LoadFromStore: true, SaveToStore: true}
}

// Context tracks the bound state of one recursion level.
type Context struct {
	DLo   int
	DHi   int
	Depth int
}

// UpdateLower raises the lower bound if the new one is larger.
func (c *Context) UpdateLower(d int) {
	if d > c.DLo {
		c.DLo = d
	}
}

// UpdateUpper lowers the upper bound if the new one is smaller.
func (c *Context) UpdateUpper(d int) {
	if d < c.DHi {
		c.DHi = d
	}
}

// Update applies both bounds.
func (c *Context) Update(lo, hi int) {
	c.UpdateLower(lo)
	c.UpdateUpper(hi)
}

// Tight reports whether the window has closed.
func (c *Context) Tight() bool {
	return c.DLo == c.DHi
}

// Inconsistent reports whether the window has inverted.
func (c *Context) Inconsistent() bool {
	return c.DLo > c.DHi
}

// Window returns the current bound pair.
func (c *Context) Window() Window {
	return Window{DLo: c.DLo, DHi: c.DHi}
}

// engine carries the per-computation configuration through the recursion.
type engine struct {
	st         store.Store
	solver     *sdp.Solver
	logger     *log.Logger
	strategies []Strategy
	maxDepth   int
	load       bool
	save       bool
}

func newEngine(numVerts int, opts Options) *engine {
	e := &engine{
		st:         opts.Store,
		solver:     opts.Solver,
		logger:     opts.Logger,
		strategies: opts.Strategies,
		maxDepth:   opts.MaxDepth,
		load:       opts.LoadFromStore,
		save:       opts.SaveToStore,
	}
	if e.st == nil {
		e.st = store.NewNullStore()
	}
	if e.solver == nil {
		e.solver = sdp.NewSolver()
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	if len(e.strategies) == 0 {
		e.strategies = DefaultStrategies()
	}
	if e.maxDepth <= 0 {
		e.maxDepth = 10 * numVerts
	}
	return e
}

// Compute returns certified bounds on dim(G).
//
// Postcondition: 0 <= DLo <= DHi <= n. A tight window is exact. The error is
// non-nil only for invalid input, a store failure, cancellation, or an
// internal inconsistency; loose-but-valid windows are returned without error.
func Compute(ctx context.Context, g *graph.Graph, opts Options) (Window, error) {
	if g == nil || g.NumVerts() < 1 {
		return Window{}, errors.New(errors.ErrCodeInvalidGraph, "computation requires a graph with at least one vertex")
	}
	e := newEngine(g.NumVerts(), opts)
	if err := ValidateStrategies(e.strategies); err != nil {
		return Window{}, err
	}

	start := time.Now()
	observability.Bounds().OnComputeStart(ctx, g.ID(), g.NumVerts())
	w, err := e.dimBounds(ctx, g, 0)
	observability.Bounds().OnComputeComplete(ctx, g.ID(), w.DLo, w.DHi, time.Since(start), err)
	if err != nil {
		return Window{}, err
	}
	if w.DLo < 0 || w.DLo > w.DHi || w.DHi > g.NumVerts() {
		return Window{}, errors.New(errors.ErrCodeInternalInconsistency,
			"final window [%d, %d] outside [0, %d]", w.DLo, w.DHi, g.NumVerts())
	}
	return w, nil
}

// ComputeMinRank returns certified bounds on msr(G), which is dim(G) minus
// the number of isolated vertices.
func ComputeMinRank(ctx context.Context, g *graph.Graph, opts Options) (Window, error) {
	w, err := Compute(ctx, g, opts)
	if err != nil {
		return Window{}, err
	}
	iso := g.IsolatedCount()
	return Window{DLo: w.DLo - iso, DHi: w.DHi - iso}, nil
}

// dimBounds is one level of the recursive dispatcher. parentDepth is the
// caller's depth; the level itself runs at parentDepth+1.
func (e *engine) dimBounds(ctx context.Context, g *graph.Graph, parentDepth int) (Window, error) {
	if err := ctx.Err(); err != nil {
		return Window{}, errors.Wrap(errors.ErrCodeInternal, err, "computation canceled")
	}

	n := g.NumVerts()
	bc := &Context{DLo: 0, DHi: n, Depth: parentDepth + 1}

	// The single global circuit breaker against recursion blow-up: past the
	// budget this level degrades to loose bounds instead of recursing on.
	if bc.Depth > e.maxDepth {
		e.logger.Warn("recursion budget exceeded, returning loose bounds",
			"depth", bc.Depth, "max_depth", e.maxDepth, "code", errors.ErrCodeRecursionBudget)
		observability.Bounds().OnDepthExceeded(ctx, bc.Depth, e.maxDepth)
		return bc.Window(), nil
	}

	// Cheap classification handles the shapes with known exact values.
	done, err := e.classify(ctx, g, bc)
	if err != nil {
		return Window{}, err
	}
	if done || bc.Tight() {
		return bc.Window(), e.consistent(bc, "classification")
	}

	// Reduce, then re-derive the frame relative to the reduced graph. All
	// subsequent store and strategy work speaks about the reduced graph; the
	// offset is added back on exit so store entries stay self-consistent.
	g, offset, err := e.reduceFrame(ctx, g, bc)
	if err != nil {
		return Window{}, err
	}
	if bc.Tight() {
		return shifted(bc, offset), nil
	}

	// Stored window from an earlier run, if any.
	loaded := store.Entry{DLo: 0, DHi: g.NumVerts()}
	if e.load {
		entry, hit, err := store.LoadBounds(ctx, e.st, g)
		if err != nil {
			return Window{}, err
		}
		if hit {
			loaded = entry
			bc.Update(entry.DLo, entry.DHi)
			if err := e.consistent(bc, "store lookup"); err != nil {
				return Window{}, err
			}
			if bc.Tight() {
				return shifted(bc, offset), nil
			}
		}
	}

	// Strategy pipeline with early exit on a closed window.
	for _, s := range e.strategies {
		observability.Bounds().OnStrategyStart(ctx, string(s), bc.Depth)
		before := bc.Window()
		err := e.runStrategy(ctx, s, g, bc)
		observability.Bounds().OnStrategyComplete(ctx, string(s), bc.Depth, bc.Window() != before)
		if err != nil {
			return Window{}, err
		}
		if err := e.consistent(bc, string(s)); err != nil {
			return Window{}, err
		}
		if bc.Tight() {
			break
		}
	}

	if err := e.persist(ctx, g, bc, loaded); err != nil {
		return Window{}, err
	}
	return shifted(bc, offset), nil
}

// classify applies the exact-value special cases: empty, complete,
// disconnected (sum over components), tree, cycle. For a connected graph
// that matches nothing it records the generic window [1, n-1] and reports
// not done.
func (e *engine) classify(ctx context.Context, g *graph.Graph, bc *Context) (bool, error) {
	n := g.NumVerts()

	if g.IsEmpty() {
		bc.Update(n, n)
		return true, nil
	}
	if g.IsComplete() {
		bc.Update(1, 1)
		return true, nil
	}

	if !g.IsConnected() {
		// The one point where independent subproblems combine by addition.
		lo, hi := 0, 0
		for _, comp := range g.Components() {
			w, err := e.dimBounds(ctx, comp, bc.Depth)
			if err != nil {
				return false, err
			}
			lo += w.DLo
			hi += w.DHi
		}
		bc.Update(lo, hi)
		return true, nil
	}

	bc.Update(1, n-1)
	if g.IsTree() {
		bc.Update(n-1, n-1)
		return true, nil
	}
	if g.IsCycle() {
		bc.Update(n-2, n-2)
		return true, nil
	}
	return false, nil
}

// reduceFrame runs the reduction engine and rebases the frame onto the
// reduced graph. Returns the graph the rest of the level should work on and
// the invariant offset to add back on exit.
func (e *engine) reduceFrame(ctx context.Context, g *graph.Graph, bc *Context) (*graph.Graph, int, error) {
	h, offset, deletions, err := Reduce(g, e.logger)
	if err != nil {
		return nil, 0, err
	}
	if deletions < 0 {
		// Unreachable defect check: a rule that adds vertices would corrupt
		// every offset derived from it.
		return nil, 0, errors.New(errors.ErrCodeInternalInconsistency, "reduction reported %d deletions", deletions)
	}
	if deletions == 0 {
		return g, 0, nil
	}

	// Translate the pre-reduction window to the reduced graph, clamped to
	// its valid range, then fold in the reduced graph's classification.
	nh := h.NumVerts()
	rebased := &Context{DLo: 0, DHi: nh, Depth: bc.Depth}
	rebased.Update(bc.DLo-offset, bc.DHi-offset)
	if rebased.DHi < rebased.DLo {
		return nil, 0, errors.New(errors.ErrCodeInternalInconsistency,
			"rebased window [%d, %d] after reduction", rebased.DLo, rebased.DHi)
	}
	if _, err := e.classify(ctx, h, rebased); err != nil {
		return nil, 0, err
	}
	*bc = *rebased
	return h, offset, e.consistent(bc, "reduction")
}

// runStrategy dispatches one pipeline entry.
func (e *engine) runStrategy(ctx context.Context, s Strategy, g *graph.Graph, bc *Context) error {
	switch s {
	case StrategyCutVert:
		return e.cutVertexCover(ctx, g, bc)
	case StrategyInducedSubgraph:
		return e.inducedSubgraphLower(ctx, g, bc)
	case StrategyCliqueUpper:
		return e.cliqueUpper(ctx, g, bc)
	case StrategySDPUpper:
		return e.sdpUpper(ctx, g, bc)
	case StrategyEdgeAddition:
		return e.edgeAddition(ctx, g, bc)
	case StrategyEdgeRemoval:
		return e.edgeRemoval(ctx, g, bc)
	case StrategyBCDLower:
		return e.bcdLower(ctx, g, bc)
	case StrategyBCDLowerExhaustive:
		return e.bcdLowerExhaustive(ctx, g, bc)
	case StrategySDPSignedCycle:
		return e.sdpSignedCycle(ctx, g, bc)
	case StrategySDPSignedSimple:
		return e.sdpSignedSimple(ctx, g, bc)
	case StrategySDPSignedExhaustive:
		return e.sdpSignedExhaustive(ctx, g, bc)
	case StrategyBCDUpper:
		return e.bcdUpper(ctx, g, bc)
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown strategy %q", s)
	}
}

// persist writes the level's window back to the store when it improves on
// what was loaded.
func (e *engine) persist(ctx context.Context, g *graph.Graph, bc *Context, loaded store.Entry) error {
	if !e.save {
		return nil
	}
	if !store.Improves(loaded, store.Entry{DLo: bc.DLo, DHi: bc.DHi}) {
		return nil
	}
	return store.SaveBounds(ctx, e.st, g, store.Entry{DLo: bc.DLo, DHi: bc.DHi})
}

// consistent converts an inverted window into the fatal inconsistency error.
func (e *engine) consistent(bc *Context, stage string) error {
	if bc.Inconsistent() {
		e.logger.Error("bound window inverted", "stage", stage, "d_lo", bc.DLo, "d_hi", bc.DHi)
		return errors.New(errors.ErrCodeInternalInconsistency,
			"lower bound %d above upper bound %d after %s", bc.DLo, bc.DHi, stage)
	}
	return nil
}

// shifted returns the level's window translated back to the pre-reduction
// graph.
func shifted(bc *Context, offset int) Window {
	return Window{DLo: bc.DLo + offset, DHi: bc.DHi + offset}
}
