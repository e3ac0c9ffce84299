package ui

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Theme holds the ANSI sequences used by line-mode output. Every field is
// empty in the colorless theme so callers can concatenate unconditionally.
type Theme struct {
	Name      string
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Bold      string
	Reset     string
}

// TUITheme is the lipgloss palette of the dashboard.
type TUITheme struct {
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
}

// xterm 256-color indexes shared by both renderers.
const (
	colorAccent  = 208
	colorDim     = 245
	colorSuccess = 114
	colorWarning = 214
	colorError   = 203
	colorText    = 253
)

func fg(code int) string { return fmt.Sprintf("\033[38;5;%dm", code) }

func tc(code int) lipgloss.TerminalColor { return lipgloss.ANSIColor(code) }

var (
	// ColorTheme is used when stdout is a color-capable terminal.
	ColorTheme = Theme{
		Name:      "color",
		Primary:   fg(colorAccent),
		Secondary: fg(colorDim),
		Success:   fg(colorSuccess),
		Warning:   fg(colorWarning),
		Error:     fg(colorError),
		Bold:      "\033[1m",
		Reset:     "\033[0m",
	}

	// NoColorTheme emits no escape codes at all.
	NoColorTheme = Theme{Name: "none"}

	// ColorTUITheme is the default dashboard palette.
	ColorTUITheme = TUITheme{
		Text:    tc(colorText),
		Border:  tc(colorAccent),
		Accent:  tc(colorAccent),
		Success: tc(colorSuccess),
		Warning: tc(colorWarning),
		Error:   tc(colorError),
		Dim:     tc(colorDim),
	}

	// NoColorTUITheme renders with the terminal's default colors.
	NoColorTUITheme = TUITheme{
		Text: lipgloss.NoColor{}, Border: lipgloss.NoColor{}, Accent: lipgloss.NoColor{},
		Success: lipgloss.NoColor{}, Warning: lipgloss.NoColor{}, Error: lipgloss.NoColor{},
		Dim: lipgloss.NoColor{},
	}
)

var (
	mu      sync.RWMutex
	colored = true
)

// GetCurrentTheme returns the active line theme.
func GetCurrentTheme() Theme {
	mu.RLock()
	defer mu.RUnlock()
	if colored {
		return ColorTheme
	}
	return NoColorTheme
}

// GetCurrentTUITheme returns the dashboard palette matching the line theme.
func GetCurrentTUITheme() TUITheme {
	mu.RLock()
	defer mu.RUnlock()
	if colored {
		return ColorTUITheme
	}
	return NoColorTUITheme
}

// SetColor switches both palettes on or off and returns the previous state.
func SetColor(on bool) (was bool) {
	mu.Lock()
	defer mu.Unlock()
	was, colored = colored, on
	return was
}

// InitTheme enables color only when out is a terminal, noColor is unset and
// the NO_COLOR environment variable (https://no-color.org/) is absent.
func InitTheme(noColor bool, out *os.File) {
	SetColor(!noColor && ColorEnabled(out))
}

// ColorEnabled reports whether colored output to f makes sense.
func ColorEnabled(f *os.File) bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return IsTerminal(f)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}
