package player

import (
	"context"
	"fmt"
	"image"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/blockshuffle/pkg/blocks"
	"github.com/matzehuels/blockshuffle/pkg/errors"
	"github.com/matzehuels/blockshuffle/pkg/observability"
	"github.com/matzehuels/blockshuffle/pkg/shuffle"
	"github.com/matzehuels/blockshuffle/pkg/surface"
)

// Phase is the animation state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseResolving
	PhasePaused
	PhaseStepping
)

func (p Phase) String() string {
	switch p {
	case PhaseResolving:
		return "resolving"
	case PhasePaused:
		return "paused"
	case PhaseStepping:
		return "stepping"
	default:
		return "idle"
	}
}

// introPause is how long the freshly scrambled table is shown.
const introPause = time.Second

// statusRows is the number of terminal rows below the picture.
const statusRows = 1

var (
	stylePhase = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	styleCount = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	styleHelp  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("167"))
)

// barWidth is the width of the resolved-fraction bar in the status line.
const barWidth = 20

type keyMap struct {
	Restart key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rescramble")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Restart, k.Quit}
}

// tickMsg advances the animation if gen is still current.
type tickMsg struct{ gen int }

type model struct {
	ctx    context.Context
	src    image.Image
	opts   Options
	logger *log.Logger
	rng    *rand.Rand
	res    *resolver

	canonical *table
	current   *table
	frame     *surface.Frame
	offset    image.Point
	width     int

	phase  Phase
	resume Phase
	gen    int
	steps  int
	total  int
	rounds int
	err    error

	bar  progress.Model
	help help.Model
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Restart):
			if m.canonical != nil {
				return m, m.restart()
			}
		}
	case tea.WindowSizeMsg:
		return m, m.layout(msg.Width, msg.Height)
	case tickMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		return m, m.advance()
	}
	return m, nil
}

// layout rebuilds the tables for a w×h cell terminal and restarts the
// animation. Each cell shows two pixel rows.
func (m *model) layout(w, h int) tea.Cmd {
	m.width = w
	fw, fh := w, 2*(h-statusRows)
	gapW, gapH := (m.opts.Cols-1)*m.opts.DX, (m.opts.Rows-1)*m.opts.DY
	if fw-gapW < m.opts.Cols || fh-gapH < m.opts.Rows {
		m.fail(errors.New(errors.ErrCodeInvalidInput, "terminal too small for a %dx%d grid", m.opts.Cols, m.opts.Rows))
		return nil
	}

	img := blocks.Fit(m.src, fw-gapW, fh-gapH)
	t, err := blocks.Build(img, m.opts.Cols, m.opts.Rows)
	if err != nil {
		m.fail(err)
		return nil
	}
	canonical, err := surface.Convert(t)
	if err != nil {
		m.fail(err)
		return nil
	}
	spaced, err := blocks.Mosaic(canonical, m.opts.DX, m.opts.DY)
	if err != nil {
		m.fail(err)
		return nil
	}

	size := blocks.MosaicSize(spaced)
	m.err = nil
	m.canonical = canonical
	m.offset = image.Pt((fw-size.X)/2, (fh-size.Y)/2)
	m.frame = surface.NewFrame(fw, fh, m.opts.Background)
	m.logger.Debug("layout", "cells", fmt.Sprintf("%dx%d", w, h), "block", fmt.Sprintf("%dx%d", canonical.BlockW, canonical.BlockH))
	return m.restart()
}

func (m *model) fail(err error) {
	m.err = err
	m.canonical, m.current, m.frame = nil, nil, nil
	m.res.reset(nil)
	m.enter(PhaseIdle)
	m.logger.Warn("layout failed", "err", errors.UserMessage(err))
}

// restart scrambles the canonical table and shows it before resolving.
func (m *model) restart() tea.Cmd {
	m.res.reset(m.canonical)
	m.current = shuffle.Scramble(m.canonical, m.rng)
	m.steps = 0
	return m.pause(introPause, PhaseResolving)
}

// enter switches phase and invalidates pending ticks.
func (m *model) enter(p Phase) {
	from := m.phase
	m.phase = p
	m.gen++
	if from != p {
		observability.Convergence().OnPhase(m.ctx, from.String(), p.String())
	}
}

func (m *model) pause(d time.Duration, then Phase) tea.Cmd {
	m.enter(PhasePaused)
	m.resume = then
	return m.tick(d)
}

func (m *model) tick(d time.Duration) tea.Cmd {
	gen := m.gen
	return tea.Tick(d, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func (m *model) frameDelay() time.Duration {
	return time.Second / time.Duration(m.opts.FPS)
}

func (m *model) advance() tea.Cmd {
	switch m.phase {
	case PhasePaused:
		m.enter(m.resume)
		return m.tick(m.frameDelay())

	case PhaseResolving:
		done, next, flagged := m.res.step(m.current)
		m.current = next
		m.steps++
		m.total++
		observability.Convergence().OnStep(m.ctx, m.res.name, len(shuffle.Mismatches(m.canonical, next)), done)
		if done {
			m.rounds++
			m.logger.Debug("resolved", "steps", m.steps, "round", m.rounds)
			return m.pause(m.opts.Pause, PhaseStepping)
		}
		if flagged {
			return m.pause(m.opts.Pause, PhaseResolving)
		}
		return m.tick(m.frameDelay())

	case PhaseStepping:
		done, next := shuffle.PerturbOne(m.canonical, m.current, m.rng)
		m.current = next
		if done {
			m.steps = 0
			return m.pause(m.opts.Pause, PhaseResolving)
		}
		return m.tick(m.frameDelay())
	}
	return nil
}

func (m *model) View() string {
	if m.err != nil {
		return styleError.Render("✗ "+errors.UserMessage(m.err)) + "\n" + styleHelp.Render("resize the terminal or press q to quit")
	}
	if m.frame == nil || m.current == nil {
		return styleHelp.Render("waiting for terminal size...")
	}

	shown := m.current
	if m.opts.DX > 0 || m.opts.DY > 0 {
		if spaced, err := blocks.Mosaic(m.current, m.opts.DX, m.opts.DY); err == nil {
			shown = spaced
		}
	}
	m.frame.Clear()
	m.frame.Blit(shown, m.offset)

	var b strings.Builder
	b.WriteString(m.frame.Render())
	b.WriteString("\n")
	b.WriteString(m.status())
	return b.String()
}

func (m *model) status() string {
	wrong := len(shuffle.Mismatches(m.canonical, m.current))
	parts := []string{
		stylePhase.Render(m.phase.String()),
		m.bar.ViewAs(1 - float64(wrong)/float64(m.canonical.Size)),
		styleCount.Render(fmt.Sprintf("%d/%d misplaced", wrong, m.canonical.Size)),
		styleCount.Render(fmt.Sprintf("step %d", m.steps)),
		m.help.ShortHelpView(keys.ShortHelp()),
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(strings.Join(parts, styleHelp.Render("  ")))
}
