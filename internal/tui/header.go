package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/omnisum/internal/format"
	"github.com/agbru/omnisum/internal/orchestration"
)

// HeaderModel renders the top bar: title, run number, input and elapsed time.
type HeaderModel struct {
	version   string
	run       orchestration.RunID
	file      string
	startTime time.Time
	endTime   time.Time
	width     int
	now       func() time.Time
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{version: version, now: time.Now}
}

// StartRun restarts the elapsed timer for run.
func (h *HeaderModel) StartRun(run orchestration.RunID) {
	h.run = run
	h.startTime = h.now()
	h.endTime = time.Time{}
}

// SetFile records the input shown in the header.
func (h *HeaderModel) SetFile(name string) { h.file = name }

// SetDone freezes the elapsed timer.
func (h *HeaderModel) SetDone() {
	if h.endTime.IsZero() {
		h.endTime = h.now()
	}
}

// Elapsed returns the duration of the current run.
func (h HeaderModel) Elapsed() time.Duration {
	if h.startTime.IsZero() {
		return 0
	}
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return h.now().Sub(h.startTime)
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "omnisum"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := dimStyle.Render(" | ")

	row := titleStyle.Render(titleText)
	if h.run == 0 {
		row += pipe + dimStyle.Render("No run yet")
	} else {
		row += pipe + titleStyle.Render(fmt.Sprintf("Run #%d", h.run))
		if h.file != "" {
			row += pipe + slotTextStyle.Render(h.file)
		}
		row += pipe + elapsedStyle.Render("Elapsed: "+format.FormatExecutionDuration(h.Elapsed()))
	}

	gap := max(h.width-2-lipgloss.Width(row), 0)
	return headerStyle.Width(h.width).Render(row + spaces(gap))
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
