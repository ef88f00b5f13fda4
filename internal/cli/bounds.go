package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/psdrank/pkg/bounds"
	"github.com/matzehuels/psdrank/pkg/graph"
)

// boundsCommand creates the single-graph bounds command.
func (c *CLI) boundsCommand() *cobra.Command {
	var (
		sf         storeFlags
		configPath string
		maxDepth   int
	)

	cmd := &cobra.Command{
		Use:   "bounds <file.graph>",
		Short: "Compute certified rank bounds for one graph",
		Long: `Compute certified lower and upper bounds on the minimum semidefinite rank
of the graph stored in a .graph JSON file.

Examples:
  psdrank bounds n5k352.graph
  psdrank bounds --no-cache --max-depth 40 n5k352.graph
  psdrank bounds --config strategies.toml --store redis --redis-url redis://localhost n5k352.graph`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			g, err := graph.ReadFile(args[0])
			if err != nil {
				return err
			}

			st, err := c.newStore(ctx, sf)
			if err != nil {
				return err
			}
			defer st.Close()

			opts, err := c.boundsOptions(configPath, maxDepth, st)
			if err != nil {
				return err
			}

			spin := newSpinner(ctx, fmt.Sprintf("computing bounds for %s", g.ID()))
			spin.Start()
			start := time.Now()
			w, err := bounds.Compute(ctx, g, opts)
			elapsed := time.Since(start)
			spin.Stop()
			if err != nil {
				return err
			}

			iso := g.IsolatedCount()
			printSuccess("%s resolved in %s", g.ID(), elapsed.Round(time.Millisecond))
			printDetail("%d vertices · %d edges · %d isolated", g.NumVerts(), g.NumEdges(), iso)
			printWindow("dim", w.DLo, w.DHi)
			printWindow("msr", w.DLo-iso, w.DHi-iso)

			if known, ok := g.KnownMSR(); ok {
				if w.DLo-iso <= known && known <= w.DHi-iso {
					printDetail("reference msr %d confirmed", known)
				} else {
					printWarning("reference msr %d outside computed window %s", known, formatWindow(w.DLo-iso, w.DHi-iso))
				}
			}
			return nil
		},
	}

	sf.register(cmd)
	cmd.Flags().StringVar(&configPath, "config", "", "TOML strategy pipeline configuration")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "recursion budget (default 10x vertex count)")

	return cmd
}
