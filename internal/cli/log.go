package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blockshuffle/pkg/errors"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Resolved 64 blocks (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logHooks forwards observability events to a logger at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnStep(_ context.Context, strategy string, mismatches int, done bool) {
	h.logger.Debug("step", "strategy", strategy, "misplaced", mismatches, "done", done)
}

func (h logHooks) OnPhase(_ context.Context, from, to string) {
	h.logger.Debug("phase", "from", from, "to", to)
}

func (h logHooks) OnOpen(_ context.Context, path string, blocks int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("open failed", "path", path, "err", errors.UserMessage(err))
		return
	}
	h.logger.Debug("opened", "path", path, "blocks", blocks, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnSave(_ context.Context, path string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("save failed", "path", path, "err", errors.UserMessage(err))
		return
	}
	h.logger.Debug("saved", "path", path, "took", d.Round(time.Millisecond))
}
