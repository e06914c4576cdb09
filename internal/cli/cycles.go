package cli

import (
	"cmp"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockshuffle/pkg/cache"
	"github.com/matzehuels/blockshuffle/pkg/errors"
	"github.com/matzehuels/blockshuffle/pkg/shuffle"
)

// cyclesOpts holds the command-line flags for the cycles command.
type cyclesOpts struct {
	grid    gridOpts
	output  string // .svg or .dot
	noCache bool
}

// cyclesCommand draws the cycle decomposition of a shuffle.
func (c *CLI) cyclesCommand() *cobra.Command {
	var opts cyclesOpts

	cmd := &cobra.Command{
		Use:   "cycles IMAGE",
		Short: "Draw the permutation cycles of a shuffled image",
		Long: `Shuffle the blocks of an image and draw how the blocks move: every cycle
becomes a cluster of slots labeled col,row with an edge from each slot to the
slot that holds its block. Blocks that stay in place are left out.

The output format follows the extension: .svg renders with Graphviz, .dot
writes the Graphviz source.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.grid.apply(cmd, c.Config)
			return c.runCycles(cmd.Context(), args[0], opts)
		},
	}

	opts.grid.register(cmd, true)
	outputFlag(cmd, &opts.output, "output diagram (.svg or .dot)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "always render with Graphviz")

	return cmd
}

func (c *CLI) runCycles(ctx context.Context, path string, opts cyclesOpts) error {
	ext := strings.ToLower(filepath.Ext(opts.output))
	if ext != ".svg" && ext != ".dot" {
		return errors.New(errors.ErrCodeInvalidPath, "unsupported diagram format %q (use .svg or .dot)", ext)
	}

	t, err := openTable(ctx, path, opts.grid.cols, opts.grid.rows)
	if err != nil {
		return err
	}
	derived := shuffle.Scramble(t, shuffle.NewRand(opts.grid.seed))
	cycles := shuffle.Cycles(t, derived)
	labels := shuffle.GridLabels(t.Size, t.Cols)

	dot := shuffle.ToDOT(cycles, labels)
	data := []byte(dot)
	if ext == ".svg" {
		if data, err = c.renderSVG(ctx, cycles, labels, dot, opts.noCache); err != nil {
			return err
		}
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeImageSave, err, "can not write diagram: %s", opts.output)
	}

	printSuccess("Drew %d cycles", len(cycles))
	if len(cycles) == 0 {
		printWarning("the shuffle left every block in place")
	} else {
		printTable([]string{"Length", "Cycles"}, cycleHistogram(cycles, t.Size))
	}
	printFile(opts.output)
	return nil
}

// cycleHistogram counts cycles per length, longest first. Fixed points are
// reported as length 1.
func cycleHistogram(cycles [][]int, size int) [][]string {
	counts := map[int]int{}
	moved := 0
	for _, cyc := range cycles {
		counts[len(cyc)]++
		moved += len(cyc)
	}
	if fixed := size - moved; fixed > 0 {
		counts[1] = fixed
	}

	lengths := make([]int, 0, len(counts))
	for l := range counts {
		lengths = append(lengths, l)
	}
	slices.SortFunc(lengths, func(a, b int) int { return cmp.Compare(b, a) })

	rows := make([][]string, len(lengths))
	for i, l := range lengths {
		rows[i] = []string{strconv.Itoa(l), strconv.Itoa(counts[l])}
	}
	return rows
}

// svgTTL bounds how long rendered diagrams are kept.
const svgTTL = 30 * 24 * time.Hour

// renderSVG renders cycles through Graphviz, reusing an earlier rendering of
// the same DOT source when the cache has one. Cache failures only cost the
// cache.
func (c *CLI) renderSVG(ctx context.Context, cycles [][]int, labels []string, dot string, noCache bool) ([]byte, error) {
	store := newCache(noCache)
	defer store.Close()

	key := cache.Key("svg", dot)
	if data, hit, err := store.Get(ctx, key); err != nil {
		c.Logger.Warn("diagram cache read failed", "err", err)
	} else if hit {
		c.Logger.Debug("diagram cache hit", "key", key[:12])
		return data, nil
	}

	spinner := newSpinner(ctx, "Rendering cycle diagram...")
	spinner.Start()
	data, err := shuffle.RenderSVG(ctx, cycles, labels)
	spinner.Stop()
	if err != nil {
		return nil, err
	}
	if err := store.Set(ctx, key, data, svgTTL); err != nil {
		c.Logger.Warn("diagram cache write failed", "err", err)
	}
	return data, nil
}
