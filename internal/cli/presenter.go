package cli

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/agbru/omnisum/internal/format"
	"github.com/agbru/omnisum/internal/orchestration"
	"github.com/agbru/omnisum/internal/ui"
)

// PendingText is shown for a slot whose request is in flight.
const PendingText = "Pending..."

// FormatSlotLine renders one slot as a plain result line:
//
//	BLIP Model: a dog on a beach (1.23 seconds)
//	Gemini Model Error: Gemini request failed with status 500: overloaded (0.40 seconds)
//	ViT-GPT Model: No summary generated. (0.10 seconds)
//	GIT Model: Pending...
func FormatSlotLine(s orchestration.Slot) string {
	return formatSlot(s, ui.NoColorTheme)
}

func formatSlot(s orchestration.Slot, th ui.Theme) string {
	switch s.Status {
	case orchestration.StatusPending:
		return fmt.Sprintf("%s%s Model:%s %s%s%s", th.Bold, s.Name, th.Reset, th.Secondary, PendingText, th.Reset)
	case orchestration.StatusFailed:
		msg := "unknown error"
		if s.Err != nil {
			msg = s.Err.Error()
		}
		return fmt.Sprintf("%s%s Model Error:%s %s %s(%s)%s",
			th.Error, s.Name, th.Reset, msg, th.Secondary, format.FormatSeconds(s.Elapsed), th.Reset)
	case orchestration.StatusEmpty:
		return fmt.Sprintf("%s%s Model:%s %s %s(%s)%s",
			th.Warning, s.Name, th.Reset, orchestration.NoSummaryText, th.Secondary, format.FormatSeconds(s.Elapsed), th.Reset)
	default:
		return fmt.Sprintf("%s%s Model:%s %s %s(%s)%s",
			th.Success, s.Name, th.Reset, s.Text, th.Secondary, format.FormatSeconds(s.Elapsed), th.Reset)
	}
}

// LinePrinter renders board events as lines: every pending slot when a run
// starts, then one line per transition in arrival order. Register Handle
// with Board.OnChange; the board serializes calls.
type LinePrinter struct {
	out     io.Writer
	quiet   bool
	spinner Spinner
	pending int
}

// NewLinePrinter returns a printer writing to out. spin may be nil. In quiet
// mode pending lines and the spinner are skipped.
func NewLinePrinter(out io.Writer, spin Spinner, quiet bool) *LinePrinter {
	if quiet {
		spin = nil
	}
	return &LinePrinter{out: out, quiet: quiet, spinner: spin}
}

// Handle prints the lines for ev.
func (p *LinePrinter) Handle(ev orchestration.Event) {
	th := ui.GetCurrentTheme()
	switch ev.Kind {
	case orchestration.EventReset:
		p.stopSpinner()
		p.pending = len(ev.Slots)
		if !p.quiet {
			fmt.Fprintf(p.out, "%sRun %d%s: sending to %d model(s)\n", th.Primary, ev.Run, th.Reset, len(ev.Slots))
			for _, s := range ev.Slots {
				fmt.Fprintln(p.out, formatSlot(s, th))
			}
		}
	case orchestration.EventResolved:
		p.stopSpinner()
		if p.pending > 0 {
			p.pending--
		}
		fmt.Fprintln(p.out, formatSlot(ev.Slot, th))
	}
	p.startSpinner()
}

func (p *LinePrinter) startSpinner() {
	if p.spinner == nil || p.pending == 0 {
		return
	}
	p.spinner.UpdateSuffix(fmt.Sprintf(" Waiting for %d model(s)...", p.pending))
	p.spinner.Start()
}

func (p *LinePrinter) stopSpinner() {
	if p.spinner != nil {
		p.spinner.Stop()
	}
}

// Close stops the spinner.
func (p *LinePrinter) Close() { p.stopSpinner() }

// PrintSummaryTable writes the model, duration and status of every slot as a
// table. Padding is computed on visible widths so colors do not break the
// alignment.
func PrintSummaryTable(out io.Writer, slots []orchestration.Slot) {
	th := ui.GetCurrentTheme()
	fmt.Fprintf(out, "\n--- Run Summary ---\n")

	nameWidth, durWidth := len("Model"), len("Duration")
	durations := make([]string, len(slots))
	for i, s := range slots {
		nameWidth = max(nameWidth, utf8.RuneCountInString(s.Name))
		durations[i] = "-"
		if s.Status.Terminal() {
			durations[i] = format.FormatExecutionDuration(s.Elapsed)
		}
		durWidth = max(durWidth, utf8.RuneCountInString(durations[i]))
	}

	fmt.Fprintf(out, "%sModel%s%s   %sDuration%s%s   %sStatus%s\n",
		th.Bold, th.Reset, padRight("", nameWidth-len("Model")),
		th.Bold, th.Reset, padRight("", durWidth-len("Duration")),
		th.Bold, th.Reset)

	for i, s := range slots {
		var status string
		switch s.Status {
		case orchestration.StatusSucceeded:
			status = th.Success + "Success" + th.Reset
		case orchestration.StatusEmpty:
			status = th.Warning + "Empty" + th.Reset
		case orchestration.StatusFailed:
			status = fmt.Sprintf("%sFailure (%v)%s", th.Error, s.Err, th.Reset)
		default:
			status = th.Secondary + "Pending" + th.Reset
		}
		fmt.Fprintf(out, "%s%s   %s%s   %s\n",
			s.Name, padRight("", nameWidth-utf8.RuneCountInString(s.Name)),
			durations[i], padRight("", durWidth-utf8.RuneCountInString(durations[i])),
			status)
	}
}

// padRight returns s followed by length spaces.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + strings.Repeat(" ", length)
}
