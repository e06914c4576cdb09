// Package cli implements the blockshuffle command-line interface.
//
// The commands slice an image into a grid of blocks and write the result of
// the block table operations back to disk or to the terminal:
//   - rebuild: slice and reassemble an image unchanged
//   - scramble: write a shuffled rendition
//   - unscramble: shuffle, then converge with a chosen strategy
//   - mosaic: write the blocks spaced apart
//   - cycles: draw the cycle structure of a shuffle as SVG or DOT
//   - play: animate scrambling and resolving in the terminal
//   - config: print the effective configuration
//
// Settings come from a TOML file (see internal/config) and are overridden
// by flags. All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockshuffle/internal/config"
	"github.com/matzehuels/blockshuffle/pkg/blocks"
	"github.com/matzehuels/blockshuffle/pkg/cache"
	"github.com/matzehuels/blockshuffle/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "blockshuffle"

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
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the configuration file and registers the logging hooks.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.useLogger(c.Logger)
	return nil
}

// useLogger routes observability events to l.
func (c *CLI) useLogger(l *log.Logger) {
	hooks := logHooks{logger: l}
	observability.SetConvergenceHooks(hooks)
	observability.SetImageHooks(hooks)
}

// =============================================================================
// Cache
// =============================================================================

// newCache opens the diagram cache, or a NullCache when disabled or when
// no cache directory is available.
func newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NullCache{}
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NullCache{}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NullCache{}
	}
	return fc
}

// cacheDir returns the cache directory using XDG standard (~/.cache/blockshuffle/).
func cacheDir() (string, error) {
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
// Image I/O
// =============================================================================

// openTable decodes path and slices it into a cols×rows table.
func openTable(ctx context.Context, path string, cols, rows int) (*blocks.Table[*image.NRGBA], error) {
	start := time.Now()
	t, err := blocks.Open(path, cols, rows)
	n := 0
	if t != nil {
		n = t.Size
	}
	observability.Image().OnOpen(ctx, path, n, time.Since(start), err)
	return t, err
}

// decodeImage decodes path without slicing it.
func decodeImage(ctx context.Context, path string) (image.Image, error) {
	start := time.Now()
	img, err := blocks.Decode(path)
	observability.Image().OnOpen(ctx, path, 0, time.Since(start), err)
	return img, err
}

// saveImage runs save for path, reporting the outcome to the image hooks.
func saveImage(ctx context.Context, path string, save func(string) error) error {
	start := time.Now()
	err := save(path)
	observability.Image().OnSave(ctx, path, time.Since(start), err)
	return err
}

// =============================================================================
// Flags
// =============================================================================

// gridOpts holds the slicing flags shared by the image commands.
type gridOpts struct {
	cols, rows int
	seed       uint64
}

func (o *gridOpts) register(cmd *cobra.Command, withSeed bool) {
	def := config.Default()
	cmd.Flags().IntVar(&o.cols, "cols", def.Grid.Cols, "blocks per row")
	cmd.Flags().IntVar(&o.rows, "rows", def.Grid.Rows, "blocks per column")
	if withSeed {
		cmd.Flags().Uint64Var(&o.seed, "seed", def.Shuffle.Seed, "shuffle seed (0 picks a random one)")
	}
}

// apply fills every flag the user did not set from cfg.
func (o *gridOpts) apply(cmd *cobra.Command, cfg config.Config) {
	if !cmd.Flags().Changed("cols") {
		o.cols = cfg.Grid.Cols
	}
	if !cmd.Flags().Changed("rows") {
		o.rows = cfg.Grid.Rows
	}
	if !cmd.Flags().Changed("seed") {
		o.seed = cfg.Shuffle.Seed
	}
}

// outputFlag registers the required --output flag.
func outputFlag(cmd *cobra.Command, out *string, usage string) {
	cmd.Flags().StringVarP(out, "output", "o", "", usage)
	_ = cmd.MarkFlagRequired("output")
}
