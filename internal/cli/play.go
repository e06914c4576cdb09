package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockshuffle/internal/config"
	"github.com/matzehuels/blockshuffle/internal/player"
	"github.com/matzehuels/blockshuffle/pkg/errors"
)

// playOpts holds the command-line flags for the play command.
type playOpts struct {
	grid    gridOpts
	dx, dy  int
	fps     int
	pause   time.Duration
	resolve string
	logFile string // the terminal is taken over, so logs go here or nowhere
}

// playCommand animates an image in the terminal.
func (c *CLI) playCommand() *cobra.Command {
	def := config.Default()
	opts := playOpts{fps: def.Play.FPS, pause: def.Play.Pause, resolve: def.Play.Resolve}

	cmd := &cobra.Command{
		Use:   "play IMAGE",
		Short: "Animate scrambling and resolving an image in the terminal",
		Long: `Fit an image to the terminal, shuffle its blocks and resolve them one
strategy call per frame. Once resolved, the picture holds for --pause, then
blocks are swapped pair by pair until none is left in place, and the cycle
starts over.

Keys: r rescramble, q quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.grid.apply(cmd, c.Config)
			if !cmd.Flags().Changed("fps") {
				opts.fps = c.Config.Play.FPS
			}
			if !cmd.Flags().Changed("pause") {
				opts.pause = c.Config.Play.Pause
			}
			if !cmd.Flags().Changed("resolve") {
				opts.resolve = c.Config.Play.Resolve
			}
			return c.runPlay(cmd.Context(), args[0], opts)
		},
	}

	opts.grid.register(cmd, true)
	cmd.Flags().IntVar(&opts.dx, "dx", 0, "horizontal gap between blocks in pixels")
	cmd.Flags().IntVar(&opts.dy, "dy", 0, "vertical gap between blocks in pixels")
	cmd.Flags().IntVar(&opts.fps, "fps", opts.fps, "frames per second")
	cmd.Flags().DurationVar(&opts.pause, "pause", opts.pause, "hold time between phases")
	cmd.Flags().StringVar(&opts.resolve, "resolve", opts.resolve, "resolve strategy: random, pair, sweep")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write logs to this file while playing")

	return cmd
}

func (c *CLI) runPlay(ctx context.Context, path string, opts playOpts) error {
	bg, err := config.ParseColor(c.Config.Play.Background)
	if err != nil {
		return err
	}
	img, err := decodeImage(ctx, path)
	if err != nil {
		return err
	}

	var w io.Writer = io.Discard
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "can not open log file: %s", opts.logFile)
		}
		defer f.Close()
		w = f
	}
	logger := newLogger(w, c.Logger.GetLevel())
	c.useLogger(logger)
	defer c.useLogger(c.Logger)

	s, err := player.New(img, player.Options{
		Cols:       opts.grid.cols,
		Rows:       opts.grid.rows,
		DX:         opts.dx,
		DY:         opts.dy,
		FPS:        opts.fps,
		Pause:      opts.pause,
		Resolve:    opts.resolve,
		Seed:       opts.grid.seed,
		Checkpoint: c.Config.Shuffle.Checkpoint,
		Background: bg,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Run(ctx); err != nil {
		return err
	}
	printSuccess("Played %d rounds", s.Rounds())
	printStats(fmt.Sprintf("%d strategy calls", s.Steps()), "session "+s.ID[:8])
	return nil
}
