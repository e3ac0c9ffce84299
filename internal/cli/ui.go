package cli

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// SpinnerRefreshRate is the spinner animation interval.
const SpinnerRefreshRate = 120 * time.Millisecond

// Spinner abstracts the terminal spinner shown while slots are pending so
// the line printer can be tested without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the animation and clears its line.
	Stop()
	// UpdateSuffix sets the text displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts *spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], SpinnerRefreshRate, options...)
	return &realSpinner{s}
}

// NewSpinner returns a spinner drawing on out. Callers only create one when
// out is a terminal.
func NewSpinner(out io.Writer) Spinner {
	return newSpinner(spinner.WithWriter(out), spinner.WithHiddenCursor(true))
}
