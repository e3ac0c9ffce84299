package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/omnisum/internal/client"
	"github.com/agbru/omnisum/internal/endpoint"
	"github.com/agbru/omnisum/internal/format"
	"github.com/agbru/omnisum/internal/ui"
)

// PrintExecutionConfig displays the backend, the input and the selected
// models of a fan-out run.
func PrintExecutionConfig(out io.Writer, baseURL string, artifact *client.Artifact, eps []endpoint.Endpoint) {
	th := ui.GetCurrentTheme()
	names := make([]string, len(eps))
	for i, ep := range eps {
		names[i] = ep.Name
	}
	fmt.Fprintf(out, "%s--- Execution Configuration ---%s\n", th.Bold, th.Reset)
	fmt.Fprintf(out, "Backend: %s%s%s\n", th.Primary, baseURL, th.Reset)
	if artifact != nil {
		fmt.Fprintf(out, "Input:   %s (%s, %s)\n", artifact.Name, artifact.ContentType, format.FormatBytes(uint64(artifact.Size())))
	}
	fmt.Fprintf(out, "Models:  %s\n\n", strings.Join(names, ", "))
}
