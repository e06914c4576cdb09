package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockshuffle/internal/config"
	"github.com/matzehuels/blockshuffle/pkg/blocks"
	"github.com/matzehuels/blockshuffle/pkg/errors"
	"github.com/matzehuels/blockshuffle/pkg/shuffle"
)

// mosaicOpts holds the command-line flags for the mosaic command.
type mosaicOpts struct {
	grid     gridOpts
	output   string
	dx, dy   int  // spacing between blocks in pixels
	scramble bool // shuffle the blocks before spacing them
}

// mosaicCommand writes the blocks of an image spaced apart.
func (c *CLI) mosaicCommand() *cobra.Command {
	var opts mosaicOpts
	def := config.Default()

	cmd := &cobra.Command{
		Use:   "mosaic IMAGE",
		Short: "Write the blocks of an image with gaps between them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.grid.apply(cmd, c.Config)
			if !cmd.Flags().Changed("dx") {
				opts.dx = c.Config.Mosaic.DX
			}
			if !cmd.Flags().Changed("dy") {
				opts.dy = c.Config.Mosaic.DY
			}
			return c.runMosaic(cmd.Context(), args[0], opts)
		},
	}

	opts.grid.register(cmd, true)
	outputFlag(cmd, &opts.output, "output image (png, jpg, gif, bmp, tiff)")
	cmd.Flags().IntVar(&opts.dx, "dx", def.Mosaic.DX, "horizontal gap in pixels")
	cmd.Flags().IntVar(&opts.dy, "dy", def.Mosaic.DY, "vertical gap in pixels")
	cmd.Flags().BoolVar(&opts.scramble, "scramble", false, "shuffle the blocks first")

	return cmd
}

func (c *CLI) runMosaic(ctx context.Context, path string, opts mosaicOpts) error {
	if err := errors.ValidateOutputPath(opts.output); err != nil {
		return err
	}
	if err := errors.ValidateSpacing(opts.dx, opts.dy); err != nil {
		return err
	}

	t, err := openTable(ctx, path, opts.grid.cols, opts.grid.rows)
	if err != nil {
		return err
	}
	if opts.scramble {
		t = shuffle.Scramble(t, shuffle.NewRand(opts.grid.seed))
	}
	m, err := blocks.Mosaic(t, opts.dx, opts.dy)
	if err != nil {
		return err
	}
	if err := saveImage(ctx, opts.output, func(p string) error { return blocks.MosaicSave(m, p) }); err != nil {
		return err
	}

	size := blocks.MosaicSize(m)
	printSuccess("Mosaic of %s", path)
	printStats(append(gridFacts(m), fmt.Sprintf("%dx%d px canvas", size.X, size.Y))...)
	printFile(opts.output)
	return nil
}
