package tui

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/omnisum/internal/client"
	apperrors "github.com/agbru/omnisum/internal/errors"
	"github.com/agbru/omnisum/internal/metrics"
	"github.com/agbru/omnisum/internal/orchestration"
	"github.com/agbru/omnisum/internal/sysmon"
)

// tickInterval refreshes the live timers and the resource sample.
const tickInterval = 500 * time.Millisecond

// Options wires the dashboard to its collaborators.
type Options struct {
	// Starter launches runs.
	Starter Starter
	// Board receives the slots of every run.
	Board *orchestration.Board
	// File is the initial input. Without it the dashboard waits for Files.
	File string
	// Files, when set, starts a run for every path it reports.
	Files FileSource
	// Version is shown in the header.
	Version string
	// Load reads an input file. client.LoadArtifact by default.
	Load func(path string) (*client.Artifact, error)
}

// Model is the root bubbletea model of the dashboard.
type Model struct {
	header HeaderModel
	footer FooterModel
	keymap KeyMap

	run      orchestration.RunID
	slots    []orchestration.Slot
	done     bool
	quitting bool

	width  int
	height int

	ctx      context.Context
	cancel   context.CancelFunc
	ref      *programRef
	opts     Options
	file     string
	now      func() time.Time
	exitCode int
}

// NewModel creates a dashboard model and subscribes it to the board.
func NewModel(parentCtx context.Context, opts Options) Model {
	if opts.Load == nil {
		opts.Load = client.LoadArtifact
	}
	if opts.Board == nil {
		opts.Board = orchestration.NewBoard()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	keymap := DefaultKeyMap()
	m := Model{
		header:   NewHeaderModel(opts.Version),
		footer:   NewFooterModel(keymap),
		keymap:   keymap,
		ctx:      ctx,
		cancel:   cancel,
		ref:      &programRef{},
		opts:     opts,
		file:     opts.File,
		now:      time.Now,
		exitCode: apperrors.ExitSuccess,
	}
	attachBoard(opts.Board, m.ref)
	return m
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(), watchContextCmd(m.ctx), watchFilesCmd(m.ctx, m.opts.Files)}
	if m.file != "" {
		cmds = append(cmds, m.startRun())
	}
	return tea.Batch(cmds...)
}

func (m Model) startRun() tea.Cmd {
	return startRunCmd(m.ctx, m.ref, m.opts.Starter, m.opts.Board, m.opts.Load, m.file)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetWidth(m.width)
		m.footer.SetWidth(m.width)
		return m, nil

	case BoardMsg:
		m.applyEvent(msg.Event)
		return m, nil

	case RunStartedMsg:
		m.footer.SetError(nil)
		m.header.SetFile(msg.File)
		return m, nil

	case RunErrorMsg:
		m.footer.SetError(msg.Err)
		return m, nil

	case RunDoneMsg:
		if msg.Run == m.run {
			m.done = true
			m.header.SetDone()
		}
		return m, nil

	case FileMsg:
		m.file = msg.Path
		return m, tea.Batch(m.startRun(), watchFilesCmd(m.ctx, m.opts.Files))

	case TickMsg:
		return m, tea.Batch(sampleStatsCmd(), tickCmd())

	case StatsMsg:
		m.footer.SetStats(msg)
		return m, nil

	case ContextCancelledMsg:
		if m.quitting {
			return m, nil
		}
		if errors.Is(msg.Err, context.DeadlineExceeded) {
			m.exitCode = apperrors.ExitErrorTimeout
		} else {
			m.exitCode = apperrors.ExitErrorCanceled
		}
		return m, tea.Quit
	}

	return m, nil
}

// applyEvent mirrors a board change. Resolutions of another run are dropped.
func (m *Model) applyEvent(ev orchestration.Event) {
	switch ev.Kind {
	case orchestration.EventReset:
		m.run = ev.Run
		m.slots = ev.Slots
		m.done = false
		m.header.StartRun(ev.Run)
	case orchestration.EventResolved:
		if ev.Run != m.run {
			return
		}
		pending := 0
		for i := range m.slots {
			if m.slots[i].Key == ev.Slot.Key && !m.slots[i].Status.Terminal() {
				m.slots[i] = ev.Slot
			}
			if !m.slots[i].Status.Terminal() {
				pending++
			}
		}
		if pending == 0 {
			m.done = true
			m.header.SetDone()
		}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Rerun):
		m.footer.SetError(nil)
		return m, m.startRun()
	}
	return m, nil
}

// Run returns the identifier of the run on screen.
func (m Model) Run() orchestration.RunID { return m.run }

// Slots returns the slots on screen.
func (m Model) Slots() []orchestration.Slot { return m.slots }

// ExitCode is the cancellation code when the context ended, otherwise
// ExitErrorEndpoints when every slot of the last run failed.
func (m Model) ExitCode() int {
	if m.exitCode != apperrors.ExitSuccess {
		return m.exitCode
	}
	if len(m.slots) == 0 {
		return apperrors.ExitSuccess
	}
	for _, s := range m.slots {
		if s.Status != orchestration.StatusFailed {
			return apperrors.ExitSuccess
		}
	}
	return apperrors.ExitErrorEndpoints
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	var body string
	switch {
	case len(m.slots) > 0:
		body = renderSlots(m.slots, m.width, m.now())
		if m.done {
			body += "\n\n" + dimStyle.Render("  All models settled. Press r to rerun.")
		}
	case m.opts.Files != nil:
		body = dimStyle.Render("  Waiting for a new file in the watched directory...")
	default:
		body = dimStyle.Render("  Starting...")
	}

	header := m.header.View()
	footer := m.footer.View()
	bodyHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// Run is the public entry point of the dashboard. It runs the bubbletea
// program until the user quits or ctx ends and returns the exit code.
func Run(ctx context.Context, opts Options) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, opts)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	// Inject the program reference before running so the board can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}
	if m, ok := finalModel.(Model); ok {
		return m.ExitCode()
	}
	return apperrors.ExitSuccess
}

// tickCmd returns a command that sends a TickMsg after tickInterval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleStatsCmd reads system and runtime stats.
func sampleStatsCmd() tea.Cmd {
	return func() tea.Msg {
		heap := metrics.ReadHeap()
		return StatsMsg{
			System:     sysmon.Sample(),
			HeapAlloc:  heap.Alloc,
			Goroutines: runtime.NumGoroutine(),
		}
	}
}
