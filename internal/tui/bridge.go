package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/omnisum/internal/client"
	"github.com/agbru/omnisum/internal/orchestration"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the board listener and run watchers can send
// messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe). It is a no-op
// until a program is set.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// Starter launches a fan-out run. *orchestration.Orchestrator implements it.
type Starter interface {
	Start(ctx context.Context, artifact *client.Artifact, c orchestration.Container) (*orchestration.Run, error)
}

// FileSource reports new input files. *watcher.Watcher implements it.
type FileSource interface {
	Files() <-chan string
}

// attachBoard forwards every board change to the program.
func attachBoard(board *orchestration.Board, ref *programRef) {
	board.OnChange(func(ev orchestration.Event) {
		ref.Send(BoardMsg{Event: ev})
	})
}

// startRunCmd loads the file and starts a run that supersedes any run in
// flight. Completion is reported through ref once every slot has settled.
func startRunCmd(ctx context.Context, ref *programRef, starter Starter, board *orchestration.Board, load func(string) (*client.Artifact, error), path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return RunErrorMsg{Err: errNoFile}
		}
		artifact, err := load(path)
		if err != nil {
			return RunErrorMsg{Err: err}
		}
		run, err := starter.Start(ctx, artifact, board)
		if err != nil {
			return RunErrorMsg{Err: err}
		}
		go func() {
			select {
			case <-run.Done():
				ref.Send(RunDoneMsg{Run: run.ID})
			case <-ctx.Done():
			}
		}()
		return RunStartedMsg{Run: run.ID, File: artifact.Name}
	}
}

// watchFilesCmd waits for the next file from src.
func watchFilesCmd(ctx context.Context, src FileSource) tea.Cmd {
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case path := <-src.Files():
			return FileMsg{Path: path}
		case <-ctx.Done():
			return nil
		}
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
