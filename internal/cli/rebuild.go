package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockshuffle/pkg/blocks"
	"github.com/matzehuels/blockshuffle/pkg/errors"
)

// rebuildOpts holds the command-line flags for the rebuild command.
type rebuildOpts struct {
	grid   gridOpts
	output string // output image path, format from extension
}

// rebuildCommand slices an image and reassembles it unchanged.
func (c *CLI) rebuildCommand() *cobra.Command {
	var opts rebuildOpts

	cmd := &cobra.Command{
		Use:   "rebuild IMAGE",
		Short: "Slice an image into blocks and reassemble it",
		Long: `Slice an image into a cols×rows grid and paint every block back at its
place. Remainder pixels that do not fill a whole block are dropped, so the
output shows exactly what the other commands work with.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.grid.apply(cmd, c.Config)
			return c.runRebuild(cmd.Context(), args[0], opts)
		},
	}

	opts.grid.register(cmd, false)
	outputFlag(cmd, &opts.output, "output image (png, jpg, gif, bmp, tiff)")

	return cmd
}

func (c *CLI) runRebuild(ctx context.Context, path string, opts rebuildOpts) error {
	if err := errors.ValidateOutputPath(opts.output); err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	t, err := openTable(ctx, path, opts.grid.cols, opts.grid.rows)
	if err != nil {
		return err
	}
	img := blocks.Reconstruct(t)
	if err := saveImage(ctx, opts.output, func(p string) error { return blocks.Save(img, p) }); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rebuilt %d blocks", t.Size))

	printSuccess("Rebuilt %s", path)
	printStats(gridFacts(t)...)
	printFile(opts.output)
	return nil
}

// gridFacts describes how an image was sliced.
func gridFacts[P comparable](t *blocks.Table[P]) []string {
	facts := []string{
		fmt.Sprintf("%dx%d grid", t.Cols, t.Rows),
		fmt.Sprintf("%dx%d px blocks", t.BlockW, t.BlockH),
		t.Mode,
	}
	if dw, dh := t.Width-t.Cols*t.BlockW, t.Height-t.Rows*t.BlockH; dw > 0 || dh > 0 {
		facts = append(facts, fmt.Sprintf("%dx%d px dropped", dw, dh))
	}
	return facts
}
