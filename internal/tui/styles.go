package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/omnisum/internal/ui"
)

// Style variables for the dashboard.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle         lipgloss.Style
	headerStyle        lipgloss.Style
	titleStyle         lipgloss.Style
	dimStyle           lipgloss.Style
	elapsedStyle       lipgloss.Style
	slotNameStyle      lipgloss.Style
	slotTextStyle      lipgloss.Style
	statusPendingStyle lipgloss.Style
	statusSuccessStyle lipgloss.Style
	statusEmptyStyle   lipgloss.Style
	statusErrorStyle   lipgloss.Style
	footerKeyStyle     lipgloss.Style
	footerDescStyle    lipgloss.Style
	statValueStyle     lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text).
		Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	dimStyle = lipgloss.NewStyle().Foreground(t.Dim)

	elapsedStyle = lipgloss.NewStyle().Foreground(t.Accent)

	slotNameStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Text)

	slotTextStyle = lipgloss.NewStyle().Foreground(t.Text)

	statusPendingStyle = lipgloss.NewStyle().Foreground(t.Dim)

	statusSuccessStyle = lipgloss.NewStyle().
		Foreground(t.Success).
		Bold(true)

	statusEmptyStyle = lipgloss.NewStyle().
		Foreground(t.Warning).
		Bold(true)

	statusErrorStyle = lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)

	footerKeyStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	footerDescStyle = lipgloss.NewStyle().Foreground(t.Dim)

	statValueStyle = lipgloss.NewStyle().Foreground(t.Accent)
}
