package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/psdrank/pkg/errors"
	"github.com/matzehuels/psdrank/pkg/graph"
)

// hashCommand creates the hash inspection command, a debug helper for the
// store's isomorphism-keyed lookup.
func (c *CLI) hashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <file.graph>",
		Short: "Print a graph's edge hash and canonical hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadFile(args[0])
			if err != nil {
				return err
			}

			h, err := g.Hash()
			if err != nil {
				return err
			}
			printKeyValue("id", g.ID())
			printKeyValue("vertices", fmt.Sprintf("%d", g.NumVerts()))
			printKeyValue("edges", fmt.Sprintf("%d", g.NumEdges()))
			printKeyValue("hash", fmt.Sprintf("%d", h))

			canon, err := g.CanonicalHash()
			switch {
			case errors.Is(err, errors.ErrCodeCanonTooLarge):
				printDetail("canonical hash skipped: %v", err)
			case err != nil:
				return err
			default:
				printKeyValue("canonical", fmt.Sprintf("%d", canon))
			}
			return nil
		},
	}
}
