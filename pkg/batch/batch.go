// Package batch runs bound computations for many graphs on a worker pool.
//
// Jobs are independent: each graph gets its own recursion, identified by a
// fresh job ID, and a failure in one job never aborts the rest. Results arrive
// in completion order, not submission order.
package batch

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/psdrank/pkg/bounds"
	"github.com/matzehuels/psdrank/pkg/errors"
	"github.com/matzehuels/psdrank/pkg/graph"
)

// Result is the outcome of one batch job.
type Result struct {
	// JobID uniquely identifies the job within the run.
	JobID uuid.UUID

	// Index is the graph's position in the submitted slice.
	Index int

	// Name labels the graph in output, the source filename for directory
	// runs and the graph ID otherwise.
	Name string

	// Window holds the computed bounds when Err is nil.
	Window bounds.Window

	// Duration is the wall time the computation took.
	Duration time.Duration

	// Err is the job's own failure, if any.
	Err error
}

// Options configures a batch run.
type Options struct {
	// Workers is the pool size; 0 means runtime.NumCPU().
	Workers int

	// Bounds configures each job's computation.
	Bounds bounds.Options

	// Progress, when non-nil, is called after every completed job with the
	// completion count so far. Calls are serialized.
	Progress func(done, total int, r Result)
}

type job struct {
	index int
	name  string
	graph *graph.Graph
}

// Run computes bounds for every graph concurrently. Per-graph failures are
// reported in the corresponding Result; the returned error is non-nil only
// for an empty input or a canceled context.
func Run(ctx context.Context, graphs []*graph.Graph, opts Options) ([]Result, error) {
	jobs := make([]job, len(graphs))
	for i, g := range graphs {
		name := ""
		if g != nil {
			name = g.ID()
		}
		jobs[i] = job{index: i, name: name, graph: g}
	}
	return run(ctx, jobs, opts)
}

// RunDir computes bounds for every ".graph" file in dir. When numVerts is
// positive only graphs of that order load. Results carry the source filename.
func RunDir(ctx context.Context, dir string, numVerts int, opts Options) ([]Result, error) {
	graphs, err := graph.ReadDir(dir, numVerts)
	if err != nil {
		return nil, err
	}
	jobs := make([]job, len(graphs))
	for i, g := range graphs {
		jobs[i] = job{index: i, name: graph.Filename(g), graph: g}
	}
	return run(ctx, jobs, opts)
}

func run(ctx context.Context, jobs []job, opts Options) ([]Result, error) {
	total := len(jobs)
	if total == 0 {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "batch run requires at least one graph")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "batch run canceled")
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > total {
		workers = total
	}

	queue := make(chan job, total)
	results := make(chan Result, total)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				results <- compute(ctx, j, opts.Bounds)
			}
		}()
	}
	for _, j := range jobs {
		queue <- j
	}
	close(queue)

	out := make([]Result, 0, total)
	for done := 1; done <= total; done++ {
		select {
		case r := <-results:
			out = append(out, r)
			if opts.Progress != nil {
				opts.Progress(done, total, r)
			}
		case <-ctx.Done():
			// Workers notice the cancellation through their own computations;
			// drop whatever is still in flight.
			go func() {
				for range results {
				}
			}()
			wg.Wait()
			close(results)
			return nil, errors.Wrap(errors.ErrCodeInternal, ctx.Err(), "batch run canceled")
		}
	}
	wg.Wait()
	close(results)
	return out, nil
}

func compute(ctx context.Context, j job, opts bounds.Options) Result {
	r := Result{JobID: uuid.New(), Index: j.index, Name: j.name}
	start := time.Now()
	r.Window, r.Err = bounds.Compute(ctx, j.graph, opts)
	r.Duration = time.Since(start)
	return r
}
