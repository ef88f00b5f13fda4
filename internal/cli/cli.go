// Package cli implements the psdrank command-line interface.
//
// This package provides commands for computing certified bounds on the
// minimum semidefinite rank of graphs, running batches of graph files in
// parallel, inspecting graph hashes, and managing the bound store. The CLI is
// built using cobra and supports verbose logging via the charmbracelet/log
// library.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/psdrank/pkg/bounds"
	"github.com/matzehuels/psdrank/pkg/buildinfo"
	"github.com/matzehuels/psdrank/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "psdrank"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "psdrank",
		Short:        "Psdrank computes certified minimum semidefinite rank bounds",
		Long:         `Psdrank brackets the minimum semidefinite rank of simple undirected graphs between certified lower and upper bounds, using graph reductions, decompositions, combinatorial search, and a semidefinite relaxation oracle.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.boundsCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.hashCommand())
	root.AddCommand(c.storeCommand())

	return root
}

// =============================================================================
// Store Factory
// =============================================================================

// storeFlags holds the store-selection flags shared by bounds and batch.
type storeFlags struct {
	noCache  bool
	backend  string
	redisURL string
	mongoURI string
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the bound store")
	cmd.Flags().StringVar(&f.backend, "store", "file", "bound store backend (file|redis|mongo|null)")
	cmd.Flags().StringVar(&f.redisURL, "redis-url", "", "redis connection URL for --store=redis")
	cmd.Flags().StringVar(&f.mongoURI, "mongo-uri", "", "mongo connection URI for --store=mongo")
}

// newStore opens the bound store selected by the flags. A missing store
// directory degrades to the null store rather than failing the command.
func (c *CLI) newStore(ctx context.Context, f storeFlags) (store.Store, error) {
	if f.noCache {
		return store.NewNullStore(), nil
	}
	cfg := store.Config{
		Backend:  f.backend,
		RedisURL: f.redisURL,
		MongoURI: f.mongoURI,
	}
	if cfg.Backend == "" || cfg.Backend == "file" {
		dir, err := storeDir()
		if err != nil {
			c.Logger.Warn("bound store disabled", "err", err)
			return store.NewNullStore(), nil
		}
		cfg.Dir = dir
	}
	return store.Open(ctx, cfg)
}

// =============================================================================
// Paths
// =============================================================================

// storeDir returns the bound store directory using XDG standard
// (~/.cache/psdrank/).
func storeDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// boundsOptions assembles computation options from the shared flags, an
// optional TOML config file, and an opened store.
func (c *CLI) boundsOptions(configPath string, maxDepth int, st store.Store) (bounds.Options, error) {
	opts := bounds.DefaultOptions()
	opts.Logger = c.Logger
	opts.Store = st
	if configPath != "" {
		cfg, err := bounds.LoadConfig(configPath)
		if err != nil {
			return bounds.Options{}, err
		}
		opts = cfg.Apply(opts)
	}
	if maxDepth > 0 {
		opts.MaxDepth = maxDepth
	}
	return opts, nil
}

// =============================================================================
// Progress
// =============================================================================

// progress tracks the start time of an operation and logs completion with
// elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
