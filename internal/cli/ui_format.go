// Caption formatting for the caption task.

package cli

import (
	"fmt"
	"io"
	"strings"
)

// MaxCaptions caps the number of caption options shown.
const MaxCaptions = 10

// captionPreamble marks the model's instruction line echoed back with the
// captions.
const captionPreamble = "choose the caption"

// FormatCaptions splits the raw caption answer into options. Blank lines and
// the echoed instruction line are dropped, and at most MaxCaptions remain.
func FormatCaptions(raw string) []string {
	var captions []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(strings.ToLower(line), captionPreamble) {
			continue
		}
		captions = append(captions, line)
		if len(captions) == MaxCaptions {
			break
		}
	}
	return captions
}

// DisplayCaptions prints captions as numbered options.
func DisplayCaptions(out io.Writer, captions []string) {
	if len(captions) == 0 {
		fmt.Fprintln(out, "No captions generated.")
		return
	}
	for i, c := range captions {
		fmt.Fprintf(out, "Option %d: %s\n", i+1, c)
	}
}
