package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/omnisum/internal/format"
	"github.com/agbru/omnisum/internal/orchestration"
)

// slotStatus returns the styled status label of s. Pending slots show the
// time since their run started.
func slotStatus(s orchestration.Slot, now time.Time) string {
	switch s.Status {
	case orchestration.StatusSucceeded:
		return statusSuccessStyle.Render("Done") + dimStyle.Render(" "+format.FormatSeconds(s.Elapsed))
	case orchestration.StatusEmpty:
		return statusEmptyStyle.Render("Empty") + dimStyle.Render(" "+format.FormatSeconds(s.Elapsed))
	case orchestration.StatusFailed:
		return statusErrorStyle.Render("Failed") + dimStyle.Render(" "+format.FormatSeconds(s.Elapsed))
	default:
		return statusPendingStyle.Render("Pending " + format.FormatSeconds(now.Sub(s.StartedAt)))
	}
}

// slotBody returns the text shown inside the panel of s.
func slotBody(s orchestration.Slot) string {
	switch s.Status {
	case orchestration.StatusSucceeded:
		return slotTextStyle.Render(s.Text)
	case orchestration.StatusEmpty:
		return statusEmptyStyle.Render(orchestration.NoSummaryText)
	case orchestration.StatusFailed:
		if s.Err != nil {
			return statusErrorStyle.Render(s.Err.Error())
		}
		return statusErrorStyle.Render("request failed")
	default:
		return dimStyle.Render("Waiting for a response...")
	}
}

// renderSlot renders one bordered panel of the given outer width.
func renderSlot(s orchestration.Slot, width int, now time.Time) string {
	inner := max(width-4, 10)
	title := slotNameStyle.Render(s.Name)
	status := slotStatus(s, now)
	gap := max(inner-lipgloss.Width(title)-lipgloss.Width(status), 1)
	body := lipgloss.NewStyle().Width(inner).Render(slotBody(s))
	return panelStyle.Width(width - 2).Render(title + spaces(gap) + status + "\n" + body)
}

// renderSlots stacks the panels of every slot, in dispatch order.
func renderSlots(slots []orchestration.Slot, width int, now time.Time) string {
	panels := make([]string, len(slots))
	for i, s := range slots {
		panels[i] = renderSlot(s, width, now)
	}
	return strings.Join(panels, "\n")
}
