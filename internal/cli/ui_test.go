package cli

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/omnisum/internal/ui"
)

func TestMain(m *testing.M) {
	ui.SetColor(false)
	os.Exit(m.Run())
}

// MockSpinner records the calls made by the line printer.
type MockSpinner struct {
	starts   int
	stops    int
	suffixes []string
}

func (m *MockSpinner) Start() { m.starts++ }

func (m *MockSpinner) Stop() { m.stops++ }

func (m *MockSpinner) UpdateSuffix(suffix string) { m.suffixes = append(m.suffixes, suffix) }

func TestRealSpinner(t *testing.T) {
	t.Parallel()
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(&bytes.Buffer{}))
	rs := &realSpinner{s}

	// Just verify these methods don't panic
	rs.Start()
	rs.UpdateSuffix(" test")
	rs.Stop()
}

func TestNewSpinnerUsesFactory(t *testing.T) {
	original := newSpinner
	defer func() { newSpinner = original }()

	mock := &MockSpinner{}
	var gotOptions int
	newSpinner = func(options ...spinner.Option) Spinner {
		gotOptions = len(options)
		return mock
	}

	if got := NewSpinner(&bytes.Buffer{}); got != mock {
		t.Fatalf("NewSpinner returned %T, want the factory's spinner", got)
	}
	if gotOptions == 0 {
		t.Error("NewSpinner should pass its writer option")
	}
}
