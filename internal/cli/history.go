package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/omnisum/internal/client"
	"github.com/agbru/omnisum/internal/ui"
)

// DisplayHistory prints the text summary history, newest first as the
// backend returns it.
func DisplayHistory(out io.Writer, entries []client.TextHistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No text summaries yet.")
		return
	}
	th := ui.GetCurrentTheme()
	for i, e := range entries {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s#%d%s %s%s%s\n", th.Bold, e.ID, th.Reset, th.Secondary, e.Timestamp, th.Reset)
		fmt.Fprintf(out, "  Text:   %s\n", truncate(e.Text, 80))
		if e.ShortSummary != "" {
			fmt.Fprintf(out, "  Short:  %s\n", e.ShortSummary)
		}
		if e.PointsSummary != "" {
			fmt.Fprintf(out, "  Points:\n")
			for _, line := range strings.Split(e.PointsSummary, "\n") {
				fmt.Fprintf(out, "    %s\n", line)
			}
		}
	}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
