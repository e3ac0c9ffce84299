// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     Examples: [DisplayResult], [DisplayCaptions], [DisplayHistory].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatSlotLine], [FormatCaptions].
//
//   - Write* functions write data to files on the filesystem.
//     They create missing parent directories.
//     Examples: [WriteResultsToFile], [WriteKeyframes].

package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agbru/omnisum/internal/orchestration"
	"github.com/agbru/omnisum/internal/ui"
)

// DisplayResult prints a labelled result. Multi-line text is indented under
// the label. In quiet mode only the text is printed.
func DisplayResult(out io.Writer, label, text string, quiet bool) {
	if quiet {
		fmt.Fprintln(out, text)
		return
	}
	th := ui.GetCurrentTheme()
	if !strings.Contains(text, "\n") {
		fmt.Fprintf(out, "%s%s:%s %s\n", th.Bold, label, th.Reset, text)
		return
	}
	fmt.Fprintf(out, "%s%s:%s\n", th.Bold, label, th.Reset)
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		fmt.Fprintf(out, "  %s\n", line)
	}
}

// DisplaySaved confirms that a file was written.
func DisplaySaved(out io.Writer, path string, quiet bool) {
	if quiet {
		return
	}
	th := ui.GetCurrentTheme()
	fmt.Fprintf(out, "%sSaved to:%s %s\n", th.Success, th.Reset, path)
}

func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return nil
}

// WriteResultsToFile writes the slots of a run to path, one result line per
// slot after a short header. Nothing is written when path is empty.
func WriteResultsToFile(path, artifact string, run orchestration.RunID, slots []orchestration.Slot) error {
	if path == "" {
		return nil
	}
	if err := ensureParent(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "# omnisum results\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# File: %s\n", artifact)
	fmt.Fprintf(file, "# Run: %d\n\n", run)
	for _, s := range slots {
		fmt.Fprintln(file, FormatSlotLine(s))
	}
	return file.Close()
}

// WriteTextToFile writes text to path followed by a newline.
func WriteTextToFile(path, text string) error {
	if err := ensureParent(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(strings.TrimRight(text, "\n")+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// CreateOutputFile creates path for a download, with its parent directories.
func CreateOutputFile(path string) (*os.File, error) {
	if err := ensureParent(path); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// WriteKeyframes stores each frame in dir as keyframe_NN with an extension
// matching its content, and returns the written paths.
func WriteKeyframes(dir string, frames [][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create keyframe directory: %w", err)
	}
	paths := make([]string, 0, len(frames))
	for i, frame := range frames {
		path := filepath.Join(dir, fmt.Sprintf("keyframe_%02d%s", i+1, imageExtension(frame)))
		if err := os.WriteFile(path, frame, 0o644); err != nil {
			return paths, fmt.Errorf("failed to write keyframe %d: %w", i+1, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func imageExtension(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ".bin"
}
