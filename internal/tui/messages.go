package tui

import (
	"time"

	apperrors "github.com/agbru/omnisum/internal/errors"
	"github.com/agbru/omnisum/internal/orchestration"
	"github.com/agbru/omnisum/internal/sysmon"
)

var errNoFile error = apperrors.MissingInputError{Reason: "no file selected: pass --file or drop one in the watched directory"}

// BoardMsg carries a board change.
type BoardMsg struct {
	Event orchestration.Event
}

// RunStartedMsg reports that a run was dispatched.
type RunStartedMsg struct {
	Run  orchestration.RunID
	File string
}

// RunDoneMsg reports that every slot of a run has settled.
type RunDoneMsg struct {
	Run orchestration.RunID
}

// RunErrorMsg reports a run that could not start.
type RunErrorMsg struct {
	Err error
}

// FileMsg reports a new file in the watched directory.
type FileMsg struct {
	Path string
}

// TickMsg drives the live elapsed timers and resource sampling.
type TickMsg time.Time

// StatsMsg carries a resource sample.
type StatsMsg struct {
	System     sysmon.Stats
	HeapAlloc  uint64
	Goroutines int
}

// ContextCancelledMsg reports that the parent context ended.
type ContextCancelledMsg struct {
	Err error
}
