package cli

import (
	"context"
	"encoding/json"
	"os"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/psdrank/pkg/batch"
)

// batchOpts holds the command-line flags for the batch command.
type batchOpts struct {
	workers  int  // worker pool size (0 = all CPUs)
	numVerts int  // restrict to graphs of this order (0 = all)
	quiet    bool // suppress the progress UI
	jsonOut  bool // emit JSON lines instead of styled output
}

// batchCommand creates the parallel directory-run command.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		sf         storeFlags
		opts       batchOpts
		configPath string
		maxDepth   int
	)

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Compute bounds for every .graph file in a directory",
		Long: `Compute certified rank bounds for every .graph file in a directory on a
worker pool, with a live progress display.

Examples:
  psdrank batch graphs/
  psdrank batch --num-verts 6 --workers 4 graphs/
  psdrank batch --json graphs/ > results.jsonl`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			st, err := c.newStore(ctx, sf)
			if err != nil {
				return err
			}
			defer st.Close()

			boundsOpts, err := c.boundsOptions(configPath, maxDepth, st)
			if err != nil {
				return err
			}
			runOpts := batch.Options{Workers: opts.workers, Bounds: boundsOpts}

			var results []batch.Result
			if opts.quiet || opts.jsonOut {
				results, err = c.runQuiet(ctx, args[0], opts.numVerts, runOpts)
			} else {
				results, err = c.runWithProgress(ctx, args[0], opts.numVerts, runOpts)
			}
			if err != nil {
				return err
			}

			sort.Slice(results, func(a, b int) bool { return results[a].Index < results[b].Index })
			if opts.jsonOut {
				return writeJSONResults(results)
			}
			printResults(results)
			return nil
		},
	}

	sf.register(cmd)
	cmd.Flags().StringVar(&configPath, "config", "", "TOML strategy pipeline configuration")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "recursion budget (default 10x vertex count)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "worker pool size (default: all CPUs)")
	cmd.Flags().IntVar(&opts.numVerts, "num-verts", 0, "only run graphs with this many vertices")
	cmd.Flags().BoolVar(&opts.quiet, "quiet", false, "disable the progress display")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "write results as JSON lines to stdout")

	return cmd
}

// runQuiet runs the batch with log-line progress only.
func (c *CLI) runQuiet(ctx context.Context, dir string, numVerts int, opts batch.Options) ([]batch.Result, error) {
	prog := newProgress(c.Logger)
	opts.Progress = func(done, total int, r batch.Result) {
		if r.Err != nil {
			c.Logger.Warn("job failed", "graph", r.Name, "err", r.Err)
			return
		}
		c.Logger.Debug("job finished", "graph", r.Name,
			"window", formatWindow(r.Window.DLo, r.Window.DHi), "done", done, "total", total)
	}
	results, err := batch.RunDir(ctx, dir, numVerts, opts)
	if err != nil {
		return nil, err
	}
	prog.done("Batch finished")
	return results, nil
}

// runWithProgress runs the batch behind the bubbletea progress model.
func (c *CLI) runWithProgress(ctx context.Context, dir string, numVerts int, opts batch.Options) ([]batch.Result, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newBatchModel(cancel), tea.WithOutput(os.Stderr))

	opts.Progress = func(done, total int, r batch.Result) {
		p.Send(jobMsg{done: done, total: total, result: r})
	}
	go func() {
		results, err := batch.RunDir(runCtx, dir, numVerts, opts)
		p.Send(runDoneMsg{results: results, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m := final.(batchModel)
	return m.results, m.err
}

// printResults prints the per-graph summary lines.
func printResults(results []batch.Result) {
	tight, failed := 0, 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			printError("%s: %v", r.Name, r.Err)
			continue
		}
		if r.Window.Tight() {
			tight++
		}
		printWindow(r.Name, r.Window.DLo, r.Window.DHi)
	}
	printSuccess("%d graphs · %d exact · %d failed", len(results), tight, failed)
}

// jsonResult is the JSON-lines output form of one batch result.
type jsonResult struct {
	JobID  string `json:"job_id"`
	Name   string `json:"name"`
	DLo    int    `json:"d_lo"`
	DHi    int    `json:"d_hi"`
	Tight  bool   `json:"tight"`
	Millis int64  `json:"duration_ms"`
	Error  string `json:"error,omitempty"`
}

// writeJSONResults writes one JSON object per result to stdout.
func writeJSONResults(results []batch.Result) error {
	enc := json.NewEncoder(os.Stdout)
	for _, r := range results {
		out := jsonResult{
			JobID:  r.JobID.String(),
			Name:   r.Name,
			DLo:    r.Window.DLo,
			DHi:    r.Window.DHi,
			Tight:  r.Window.Tight(),
			Millis: r.Duration.Milliseconds(),
		}
		if r.Err != nil {
			out.Error = r.Err.Error()
		}
		if err := enc.Encode(out); err != nil {
			return err
		}
	}
	return nil
}
