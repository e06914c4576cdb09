package cli

import (
	"context"
	"fmt"
	"image"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockshuffle/internal/config"
	"github.com/matzehuels/blockshuffle/pkg/blocks"
	"github.com/matzehuels/blockshuffle/pkg/errors"
	"github.com/matzehuels/blockshuffle/pkg/observability"
	"github.com/matzehuels/blockshuffle/pkg/shuffle"
)

type imageTable = blocks.Table[*image.NRGBA]

// strategyFull resolves every cycle in a single call.
const strategyFull = "full"

// unscrambleStrategies lists the strategies accepted by --strategy.
var unscrambleStrategies = append([]string{strategyFull}, config.Strategies...)

// stepFunc is one call of an incremental convergence strategy.
type stepFunc func(canonical, derived *imageTable, rng *rand.Rand) (bool, *imageTable)

var stepFuncs = map[string]stepFunc{
	strategyFull: func(canonical, derived *imageTable, _ *rand.Rand) (bool, *imageTable) {
		return shuffle.Unscramble(canonical, derived)
	},
	config.ResolveRandom: shuffle.UnscrambleRandom[*image.NRGBA],
	config.ResolvePair:   shuffle.ScrambleOne[*image.NRGBA],
}

// scrambleOpts holds the command-line flags for the scramble command.
type scrambleOpts struct {
	grid   gridOpts
	output string
}

// scrambleCommand writes a shuffled rendition of an image.
func (c *CLI) scrambleCommand() *cobra.Command {
	var opts scrambleOpts

	cmd := &cobra.Command{
		Use:   "scramble IMAGE",
		Short: "Shuffle the blocks of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.grid.apply(cmd, c.Config)
			return c.runScramble(cmd.Context(), args[0], opts)
		},
	}

	opts.grid.register(cmd, true)
	outputFlag(cmd, &opts.output, "output image (png, jpg, gif, bmp, tiff)")

	return cmd
}

func (c *CLI) runScramble(ctx context.Context, path string, opts scrambleOpts) error {
	if err := errors.ValidateOutputPath(opts.output); err != nil {
		return err
	}

	t, err := openTable(ctx, path, opts.grid.cols, opts.grid.rows)
	if err != nil {
		return err
	}
	derived := shuffle.Scramble(t, shuffle.NewRand(opts.grid.seed))
	img := blocks.Reconstruct(derived)
	if err := saveImage(ctx, opts.output, func(p string) error { return blocks.Save(img, p) }); err != nil {
		return err
	}

	printSuccess("Scrambled %s", path)
	printStats(
		fmt.Sprintf("%d/%d misplaced", len(shuffle.Mismatches(t, derived)), t.Size),
		fmt.Sprintf("%d cycles", len(shuffle.Cycles(t, derived))),
	)
	printFile(opts.output)
	return nil
}

// unscrambleOpts holds the command-line flags for the unscramble command.
type unscrambleOpts struct {
	grid     gridOpts
	output   string
	strategy string
}

// unscrambleCommand scrambles an image and converges it back.
func (c *CLI) unscrambleCommand() *cobra.Command {
	opts := unscrambleOpts{strategy: strategyFull}

	cmd := &cobra.Command{
		Use:   "unscramble IMAGE",
		Short: "Shuffle an image and resolve it with a convergence strategy",
		Long: `Shuffle the blocks of an image, then call the chosen strategy until it
reports the table resolved, and write the result.

Strategies:
  full    resolve every cycle in one call
  random  reshuffle the misplaced blocks each call
  pair    place one misplaced block per call
  sweep   resolve one slot per step`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(unscrambleStrategies, opts.strategy) {
				return errors.New(errors.ErrCodeInvalidInput, "unknown strategy %q (use %s)", opts.strategy, strings.Join(unscrambleStrategies, ", "))
			}
			opts.grid.apply(cmd, c.Config)
			return c.runUnscramble(cmd.Context(), args[0], opts)
		},
	}

	opts.grid.register(cmd, true)
	outputFlag(cmd, &opts.output, "output image (png, jpg, gif, bmp, tiff)")
	cmd.Flags().StringVar(&opts.strategy, "strategy", opts.strategy, "convergence strategy: "+strings.Join(unscrambleStrategies, ", "))

	return cmd
}

func (c *CLI) runUnscramble(ctx context.Context, path string, opts unscrambleOpts) error {
	if err := errors.ValidateOutputPath(opts.output); err != nil {
		return err
	}

	t, err := openTable(ctx, path, opts.grid.cols, opts.grid.rows)
	if err != nil {
		return err
	}
	rng := shuffle.NewRand(opts.grid.seed)
	derived := shuffle.Scramble(t, rng)
	initial := len(shuffle.Mismatches(t, derived))

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, "Resolving...")
	spinner.Start()
	calls, final, err := c.converge(ctx, opts.strategy, t, derived, rng, func(wrong int) {
		spinner.SetMessage("Resolving... %d misplaced", wrong)
	})
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Resolved %d blocks in %d calls", t.Size, calls))

	img := blocks.Reconstruct(final)
	if err := saveImage(ctx, opts.output, func(p string) error { return blocks.Save(img, p) }); err != nil {
		return err
	}

	printSuccess("Unscrambled %s", path)
	printTable(
		[]string{"Strategy", "Blocks", "Misplaced", "Calls"},
		[][]string{{opts.strategy, strconv.Itoa(t.Size), strconv.Itoa(initial), strconv.Itoa(calls)}},
	)
	printFile(opts.output)
	return nil
}

// converge drives strategy from derived until the table is resolved and
// returns the number of calls made. progress receives the misplaced count
// after every call.
func (c *CLI) converge(ctx context.Context, strategy string, canonical, derived *imageTable, rng *rand.Rand, progress func(int)) (int, *imageTable, error) {
	hooks := observability.Convergence()
	current := derived

	if strategy == config.ResolveSweep {
		calls := 0
		for flag, next := range shuffle.GenUnscramble(canonical, derived, c.Config.Shuffle.Checkpoint) {
			if err := ctx.Err(); err != nil {
				return calls, current, err
			}
			calls++
			current = next
			if flag {
				c.Logger.Debug("sweep checkpoint", "slot", calls-1)
			}
			wrong := len(shuffle.Mismatches(canonical, current))
			hooks.OnStep(ctx, strategy, wrong, false)
			progress(wrong)
		}
		return calls, current, nil
	}

	step := stepFuncs[strategy]
	for calls := 1; ; calls++ {
		if err := ctx.Err(); err != nil {
			return calls - 1, current, err
		}
		done, next := step(canonical, current, rng)
		current = next
		wrong := len(shuffle.Mismatches(canonical, current))
		hooks.OnStep(ctx, strategy, wrong, done)
		progress(wrong)
		if done {
			return calls, current, nil
		}
	}
}
