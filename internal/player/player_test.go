package player

import (
	"image/color"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/blockshuffle/internal/config"
	"github.com/matzehuels/blockshuffle/pkg/errors"
	"github.com/matzehuels/blockshuffle/pkg/shuffle"
)

func testOptions(resolve string) Options {
	return Options{
		Cols:       4,
		Rows:       4,
		FPS:        30,
		Pause:      time.Second,
		Resolve:    resolve,
		Seed:       7,
		Checkpoint: -1,
		Background: color.NRGBA{A: 0xff},
		Logger:     log.New(io.Discard),
	}
}

func newSession(t *testing.T, opts Options) *Session {
	t.Helper()
	s, err := New(imaging.New(64, 64, color.NRGBA{R: 200, G: 80, B: 40, A: 0xff}), opts)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// send delivers msg and returns the resulting command.
func send(m *model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

// tickUntil feeds current ticks until phase p is reached.
func tickUntil(t *testing.T, m *model, p Phase, limit int) {
	t.Helper()
	for i := 0; i < limit; i++ {
		if m.phase == p {
			return
		}
		send(m, tickMsg{gen: m.gen})
	}
	if m.phase != p {
		t.Fatalf("phase = %s after %d ticks, want %s", m.phase, limit, p)
	}
}

func TestNewValidation(t *testing.T) {
	src := imaging.New(8, 8, color.NRGBA{A: 0xff})
	tests := []struct {
		name string
		mod  func(*Options)
		code errors.Code
	}{
		{"grid", func(o *Options) { o.Cols = 0 }, errors.ErrCodeInvalidGrid},
		{"spacing", func(o *Options) { o.DX = -1 }, errors.ErrCodeInvalidGrid},
		{"fps", func(o *Options) { o.FPS = 0 }, errors.ErrCodeInvalidInput},
		{"pause", func(o *Options) { o.Pause = -time.Second }, errors.ErrCodeInvalidInput},
		{"strategy", func(o *Options) { o.Resolve = "bogo" }, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(config.ResolveRandom)
			tt.mod(&opts)
			if _, err := New(src, opts); !errors.Is(err, tt.code) {
				t.Errorf("New() error = %v, want %s", err, tt.code)
			}
		})
	}

	if _, err := New(nil, testOptions(config.ResolveRandom)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("New(nil) error = %v, want INVALID_INPUT", err)
	}
}

func TestSessionID(t *testing.T) {
	a := newSession(t, testOptions(config.ResolveRandom))
	b := newSession(t, testOptions(config.ResolveRandom))
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("session IDs %q and %q should be unique and non-empty", a.ID, b.ID)
	}
}

func TestLayoutStartsPaused(t *testing.T) {
	s := newSession(t, testOptions(config.ResolveRandom))
	m := s.model

	if cmd := send(m, tea.WindowSizeMsg{Width: 40, Height: 21}); cmd == nil {
		t.Fatal("layout should schedule the intro tick")
	}
	if m.phase != PhasePaused || m.resume != PhaseResolving {
		t.Fatalf("phase = %s resume = %s, want paused then resolving", m.phase, m.resume)
	}
	if m.frame.W != 40 || m.frame.H != 40 {
		t.Errorf("frame = %dx%d, want 40x40", m.frame.W, m.frame.H)
	}
	if m.canonical.BlockW != 10 || m.canonical.BlockH != 10 {
		t.Errorf("block = %dx%d, want 10x10", m.canonical.BlockW, m.canonical.BlockH)
	}
	if !m.current.DerivedFrom(m.canonical) {
		t.Error("scrambled table should derive from the canonical table")
	}
}

func TestPhaseCycle(t *testing.T) {
	for _, resolve := range config.Strategies {
		t.Run(resolve, func(t *testing.T) {
			s := newSession(t, testOptions(resolve))
			m := s.model
			send(m, tea.WindowSizeMsg{Width: 40, Height: 21})

			tickUntil(t, m, PhaseResolving, 1)
			tickUntil(t, m, PhasePaused, 1000)
			if m.resume != PhaseStepping {
				t.Fatalf("resume = %s, want stepping", m.resume)
			}
			if !shuffle.Resolved(m.canonical, m.current) {
				t.Fatal("table should be resolved when resolving ends")
			}
			if s.Rounds() != 1 {
				t.Errorf("Rounds() = %d, want 1", s.Rounds())
			}

			send(m, tickMsg{gen: m.gen})
			if m.phase != PhaseStepping {
				t.Fatalf("phase = %s, want stepping", m.phase)
			}
			tickUntil(t, m, PhasePaused, 100)
			if m.resume != PhaseResolving {
				t.Errorf("resume = %s, want resolving", m.resume)
			}
			if wrong := len(shuffle.Mismatches(m.canonical, m.current)); wrong < m.canonical.Size-1 {
				t.Errorf("stepping left %d misplaced blocks, want at least %d", wrong, m.canonical.Size-1)
			}
		})
	}
}

func TestStaleTickIgnored(t *testing.T) {
	s := newSession(t, testOptions(config.ResolvePair))
	m := s.model
	send(m, tea.WindowSizeMsg{Width: 40, Height: 21})

	stale := m.gen
	send(m, tickMsg{gen: stale})
	if m.phase != PhaseResolving {
		t.Fatalf("phase = %s, want resolving", m.phase)
	}

	before := m.current
	if cmd := send(m, tickMsg{gen: stale}); cmd != nil {
		t.Error("stale tick should not schedule anything")
	}
	if m.current != before || m.phase != PhaseResolving {
		t.Error("stale tick should not change state")
	}
}

func TestRestartInvalidatesPause(t *testing.T) {
	s := newSession(t, testOptions(config.ResolveRandom))
	m := s.model
	send(m, tea.WindowSizeMsg{Width: 40, Height: 21})
	pending := m.gen

	send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if m.gen == pending {
		t.Fatal("restart should bump the generation")
	}
	send(m, tickMsg{gen: pending})
	if m.phase != PhasePaused {
		t.Errorf("phase = %s, the old intro tick should be ignored", m.phase)
	}
}

func TestQuitKeys(t *testing.T) {
	s := newSession(t, testOptions(config.ResolveRandom))
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		cmd := send(s.model, key)
		if cmd == nil {
			t.Fatalf("%s should quit", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s should return tea.Quit", key)
		}
	}
}

func TestSweepCheckpointPauses(t *testing.T) {
	opts := testOptions(config.ResolveSweep)
	opts.Checkpoint = 0
	s := newSession(t, opts)
	m := s.model
	send(m, tea.WindowSizeMsg{Width: 40, Height: 21})
	tickUntil(t, m, PhaseResolving, 1)

	send(m, tickMsg{gen: m.gen})
	if m.phase != PhasePaused || m.resume != PhaseResolving {
		t.Errorf("phase = %s resume = %s, the checkpoint should pause and resume resolving", m.phase, m.resume)
	}
}

func TestTerminalTooSmall(t *testing.T) {
	s := newSession(t, testOptions(config.ResolveRandom))
	m := s.model
	if cmd := send(m, tea.WindowSizeMsg{Width: 3, Height: 2}); cmd != nil {
		t.Error("failed layout should not schedule ticks")
	}
	if m.phase != PhaseIdle {
		t.Errorf("phase = %s, want idle", m.phase)
	}
	if !strings.Contains(m.View(), "terminal too small") {
		t.Errorf("View() = %q", m.View())
	}

	send(m, tea.WindowSizeMsg{Width: 40, Height: 21})
	if m.err != nil || m.frame == nil {
		t.Error("a large enough resize should recover")
	}
}

func TestView(t *testing.T) {
	opts := testOptions(config.ResolveRandom)
	opts.DX, opts.DY = 2, 2
	s := newSession(t, opts)
	m := s.model

	if !strings.Contains(m.View(), "waiting") {
		t.Errorf("View() before layout = %q", m.View())
	}

	send(m, tea.WindowSizeMsg{Width: 40, Height: 21})
	view := m.View()
	lines := strings.Split(view, "\n")
	if len(lines) != 21 {
		t.Errorf("View() has %d lines, want 21", len(lines))
	}
	if !strings.Contains(lines[len(lines)-1], "paused") {
		t.Errorf("status line = %q", lines[len(lines)-1])
	}
}

func TestCloseIdempotent(t *testing.T) {
	s := newSession(t, testOptions(config.ResolveSweep))
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if err := s.Run(t.Context()); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Run() after Close = %v, want INVALID_INPUT", err)
	}
}
