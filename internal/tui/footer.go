package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/omnisum/internal/format"
)

// FooterModel renders key hints, the last error and resource usage.
type FooterModel struct {
	keys  KeyMap
	stats StatsMsg
	err   error
	width int
}

// NewFooterModel creates a footer showing keys.
func NewFooterModel(keys KeyMap) FooterModel {
	return FooterModel{keys: keys}
}

// SetStats stores the latest resource sample.
func (f *FooterModel) SetStats(s StatsMsg) { f.stats = s }

// SetError shows err until the next successful run start. nil clears it.
func (f *FooterModel) SetError(err error) { f.err = err }

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) { f.width = w }

// View renders the footer.
func (f FooterModel) View() string {
	var keys []string
	for _, b := range f.keys.bindings() {
		h := b.Help()
		keys = append(keys, footerKeyStyle.Render(h.Key)+" "+footerDescStyle.Render(h.Desc))
	}
	left := strings.Join(keys, "  ")
	if f.err != nil {
		left += "  " + statusErrorStyle.Render(f.err.Error())
	}

	right := fmt.Sprintf("%s %s  %s %s  %s %s  %s %s",
		footerDescStyle.Render("CPU"), statValueStyle.Render(fmt.Sprintf("%.1f%%", f.stats.System.CPUPercent)),
		footerDescStyle.Render("MEM"), statValueStyle.Render(fmt.Sprintf("%.1f%%", f.stats.System.MemPercent)),
		footerDescStyle.Render("RSS"), statValueStyle.Render(format.FormatBytes(f.stats.System.ProcRSS)),
		footerDescStyle.Render("Heap"), statValueStyle.Render(format.FormatBytes(f.stats.HeapAlloc)),
	)

	gap := max(f.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + spaces(gap) + right
}
