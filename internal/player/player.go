// Package player animates block tables in the terminal.
//
// A Session owns one bubbletea program. The program slices the source image
// to fit the terminal, scrambles it, and then loops through three phases:
// RESOLVING calls the configured convergence strategy once per frame until
// the table reports done, PAUSED holds the picture, and STEPPING perturbs
// one pair of resolved blocks per frame until nothing is left to perturb.
//
// Pauses are tea.Tick timers tagged with a generation number. Every phase
// change bumps the generation, so a timer that fires after the user
// restarted or quit is ignored and key input is never blocked.
package player

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/blockshuffle/internal/config"
	"github.com/matzehuels/blockshuffle/pkg/errors"
	"github.com/matzehuels/blockshuffle/pkg/shuffle"
)

// Options configures a Session.
type Options struct {
	Cols, Rows int
	// DX and DY space the blocks apart on screen.
	DX, DY     int
	FPS        int
	Pause      time.Duration
	Resolve    string
	Seed       uint64
	Checkpoint int
	Background color.NRGBA
	Logger     *log.Logger
}

// Session is one animation run. Create it with New, drive it with Run and
// release it with Close.
type Session struct {
	ID string

	opts   Options
	logger *log.Logger
	model  *model
	closed bool
}

// New validates opts and prepares a session for src.
func New(src image.Image, opts Options) (*Session, error) {
	if src == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no source image")
	}
	if opts.Cols <= 0 || opts.Rows <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "grid must be positive, got %dx%d", opts.Cols, opts.Rows)
	}
	if err := errors.ValidateSpacing(opts.DX, opts.DY); err != nil {
		return nil, err
	}
	if opts.FPS <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "fps must be positive, got %d", opts.FPS)
	}
	if opts.Pause < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "pause must not be negative, got %s", opts.Pause)
	}
	if !slices.Contains(config.Strategies, opts.Resolve) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown resolve strategy %q (use %s)", opts.Resolve, strings.Join(config.Strategies, ", "))
	}

	id := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.With("session", id[:8])

	s := &Session{ID: id, opts: opts, logger: logger}
	rng := shuffle.NewRand(opts.Seed)
	s.model = &model{
		ctx:    context.Background(),
		src:    src,
		opts:   opts,
		logger: logger,
		rng:    rng,
		res:    newResolver(opts.Resolve, rng, opts.Checkpoint, logger),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth), progress.WithoutPercentage()),
		help:   help.New(),
	}
	logger.Debug("session created", "grid", gridString(opts.Cols, opts.Rows), "resolve", opts.Resolve, "fps", opts.FPS)
	return s, nil
}

// Run shows the animation until the user quits or ctx is canceled.
// Extra program options are appended after the defaults.
func (s *Session) Run(ctx context.Context, opts ...tea.ProgramOption) error {
	if s.closed {
		return errors.New(errors.ErrCodeInvalidInput, "session %s is closed", s.ID)
	}
	s.model.ctx = ctx

	popts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(s.model, popts...).Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "terminal program failed")
	}
	return nil
}

// Rounds returns how many scrambled tables were fully resolved.
func (s *Session) Rounds() int { return s.model.rounds }

// Steps returns the number of strategy calls made so far.
func (s *Session) Steps() int { return s.model.total }

// Close stops any pending sweep and logs the session summary.
// It is safe to call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.model.res.reset(nil)
	s.logger.Debug("session closed", "rounds", s.model.rounds, "steps", s.model.total)
	return nil
}

func gridString(cols, rows int) string {
	return fmt.Sprintf("%dx%d", cols, rows)
}
