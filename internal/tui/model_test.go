package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/omnisum/internal/errors"
	"github.com/agbru/omnisum/internal/orchestration"
)

func newTestModel(t *testing.T, d fakeDispatcher, file string) Model {
	t.Helper()
	m := NewModel(context.Background(), Options{
		Starter: orchestration.New(d, testEndpoints()),
		File:    file,
		Load:    loadFake,
		Version: "v1.0.0",
	})
	t.Cleanup(m.cancel)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func pendingSlots(run orchestration.RunID) []orchestration.Slot {
	now := time.Now()
	return []orchestration.Slot{
		{Run: run, Key: "blip", Name: "BLIP", Status: orchestration.StatusPending, StartedAt: now},
		{Run: run, Key: "gemini", Name: "Gemini", Status: orchestration.StatusPending, StartedAt: now},
	}
}

func resolved(run orchestration.RunID, key, name string, status orchestration.Status, text string) BoardMsg {
	return BoardMsg{Event: orchestration.Event{
		Kind: orchestration.EventResolved,
		Run:  run,
		Slot: orchestration.Slot{Run: run, Key: key, Name: name, Status: status, Text: text, Elapsed: time.Second},
	}}
}

func TestModel_AppliesBoardEvents(t *testing.T) {
	m := newTestModel(t, fakeDispatcher{}, "cat.jpg")

	m, _ = update(t, m, BoardMsg{Event: orchestration.Event{Kind: orchestration.EventReset, Run: 1, Slots: pendingSlots(1)}})
	if m.Run() != 1 || len(m.Slots()) != 2 {
		t.Fatalf("run = %d, slots = %d", m.Run(), len(m.Slots()))
	}
	view := m.View()
	for _, want := range []string{"Run #1", "BLIP", "Gemini", "Pending"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m, _ = update(t, m, resolved(1, "gemini", "Gemini", orchestration.StatusSucceeded, "a cat on a mat"))
	if got := m.Slots()[1]; got.Status != orchestration.StatusSucceeded || got.Text != "a cat on a mat" {
		t.Errorf("gemini slot = %+v", got)
	}
	if m.Slots()[0].Status != orchestration.StatusPending {
		t.Error("blip slot must stay pending")
	}
	if !strings.Contains(m.View(), "a cat on a mat") {
		t.Error("view does not show the result")
	}
}

func TestModel_DropsStaleResolutions(t *testing.T) {
	m := newTestModel(t, fakeDispatcher{}, "cat.jpg")
	m, _ = update(t, m, BoardMsg{Event: orchestration.Event{Kind: orchestration.EventReset, Run: 1, Slots: pendingSlots(1)}})
	m, _ = update(t, m, BoardMsg{Event: orchestration.Event{Kind: orchestration.EventReset, Run: 2, Slots: pendingSlots(2)}})

	m, _ = update(t, m, resolved(1, "blip", "BLIP", orchestration.StatusSucceeded, "late"))
	for _, s := range m.Slots() {
		if s.Status != orchestration.StatusPending {
			t.Errorf("slot %s = %v after a stale resolution", s.Key, s.Status)
		}
	}
}

func TestModel_RerunStartsNewRun(t *testing.T) {
	m := newTestModel(t, fakeDispatcher{text: "ok"}, "cat.jpg")

	for want := orchestration.RunID(1); want <= 2; want++ {
		var cmd tea.Cmd
		m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
		if cmd == nil {
			t.Fatal("rerun returned no command")
		}
		msg := cmd()
		started, ok := msg.(RunStartedMsg)
		if !ok || started.Run != want {
			t.Fatalf("msg = %#v, want run %d", msg, want)
		}
		m, _ = update(t, m, msg)
	}
	if m.opts.Board.Run() != 2 {
		t.Errorf("board run = %d, want 2", m.opts.Board.Run())
	}
}

func TestModel_QuitKey(t *testing.T) {
	m := newTestModel(t, fakeDispatcher{}, "cat.jpg")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.ctx.Err() == nil {
		t.Error("quit must cancel the model context")
	}

	// The context watcher fires after quitting; it must not turn a quit into
	// a cancellation.
	m, _ = update(t, m, ContextCancelledMsg{Err: context.Canceled})
	if got := m.ExitCode(); got != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want %d", got, apperrors.ExitSuccess)
	}
}

func TestModel_ContextCancelled(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{context.Canceled, apperrors.ExitErrorCanceled},
		{context.DeadlineExceeded, apperrors.ExitErrorTimeout},
	}
	for _, tt := range tests {
		m := newTestModel(t, fakeDispatcher{}, "cat.jpg")
		m, cmd := update(t, m, ContextCancelledMsg{Err: tt.err})
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if got := m.ExitCode(); got != tt.want {
			t.Errorf("%v: exit code = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestModel_ExitCodeAllFailed(t *testing.T) {
	m := newTestModel(t, fakeDispatcher{}, "cat.jpg")
	m, _ = update(t, m, BoardMsg{Event: orchestration.Event{Kind: orchestration.EventReset, Run: 1, Slots: pendingSlots(1)}})
	m, _ = update(t, m, resolved(1, "blip", "BLIP", orchestration.StatusFailed, ""))
	if got := m.ExitCode(); got != apperrors.ExitSuccess {
		t.Errorf("exit code with a pending slot = %d", got)
	}
	m, _ = update(t, m, resolved(1, "gemini", "Gemini", orchestration.StatusFailed, ""))
	if got := m.ExitCode(); got != apperrors.ExitErrorEndpoints {
		t.Errorf("exit code = %d, want %d", got, apperrors.ExitErrorEndpoints)
	}
}

func TestModel_FileMsgStartsRunOnNewFile(t *testing.T) {
	src := make(chanSource, 1)
	m := NewModel(context.Background(), Options{
		Starter: orchestration.New(fakeDispatcher{text: "ok"}, testEndpoints()),
		Files:   src,
		Load:    loadFake,
	})
	defer m.cancel()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 20})
	if !strings.Contains(m.View(), "Waiting for a new file") {
		t.Error("watch mode should say it is waiting")
	}

	m, cmd := update(t, m, FileMsg{Path: "/in/dog.png"})
	if cmd == nil {
		t.Fatal("FileMsg returned no command")
	}
	if m.file != "/in/dog.png" {
		t.Errorf("file = %q", m.file)
	}
}

func TestModel_RunErrorShownInFooter(t *testing.T) {
	m := newTestModel(t, fakeDispatcher{}, "")
	m, _ = update(t, m, RunErrorMsg{Err: errors.New("backend unreachable")})
	if !strings.Contains(m.View(), "backend unreachable") {
		t.Error("footer does not show the error")
	}
	m, _ = update(t, m, RunStartedMsg{Run: 1, File: "x.png"})
	if strings.Contains(m.View(), "backend unreachable") {
		t.Error("error should clear when a run starts")
	}
}

func TestModel_RunDoneFreezesTimer(t *testing.T) {
	m := newTestModel(t, fakeDispatcher{}, "cat.jpg")
	m, _ = update(t, m, BoardMsg{Event: orchestration.Event{Kind: orchestration.EventReset, Run: 3, Slots: pendingSlots(3)}})
	m, _ = update(t, m, RunDoneMsg{Run: 2})
	if m.done {
		t.Error("done for a stale run")
	}
	m, _ = update(t, m, RunDoneMsg{Run: 3})
	if !m.done {
		t.Error("run 3 should be done")
	}
	if !strings.Contains(m.View(), "All models settled") {
		t.Error("a settled run should say so")
	}
	first := m.header.Elapsed()
	time.Sleep(5 * time.Millisecond)
	if m.header.Elapsed() != first {
		t.Error("elapsed time should be frozen once the run is done")
	}
}

func TestModel_StatsInFooter(t *testing.T) {
	m := newTestModel(t, fakeDispatcher{}, "cat.jpg")
	m, _ = update(t, m, StatsMsg{HeapAlloc: 2048})
	view := m.View()
	for _, want := range []string{"CPU", "MEM", "2.0 KiB", "r rerun", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("footer missing %q", want)
		}
	}
}
