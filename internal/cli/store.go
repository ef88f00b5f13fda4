package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/psdrank/pkg/store"
)

// storeCommand creates the bound store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the local bound store",
	}

	cmd.AddCommand(c.storeClearCommand())
	cmd.AddCommand(c.storePathCommand())

	return cmd
}

// storeClearCommand creates the "store clear" subcommand.
func (c *CLI) storeClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all locally stored bound entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := storeDir()
			if err != nil {
				return fmt.Errorf("get store dir: %w", err)
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Store is empty")
				return nil
			}

			fs, err := store.NewFileStore(dir)
			if err != nil {
				return err
			}
			defer fs.Close()

			count, err := fs.Clear()
			if err != nil {
				return err
			}
			printSuccess("Cleared %d stored entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// storePathCommand creates the "store path" subcommand.
func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the bound store directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := storeDir()
			if err != nil {
				return fmt.Errorf("get store dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
