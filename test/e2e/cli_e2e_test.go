package e2e

import (
	"errors"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/agbru/omnisum/internal/stub"
)

// buildBinary compiles cmd/omnisum into a temporary directory.
func buildBinary(t *testing.T) string {
	t.Helper()
	binName := "omnisum"
	if runtime.GOOS == "windows" {
		binName = "omnisum.exe"
	}
	binPath := filepath.Join(t.TempDir(), binName)

	// go test runs in test/e2e; the build runs from the module root.
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/omnisum")
	cmd.Dir = "../.."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to build omnisum: %v", err)
	}
	return binPath
}

// TestCLI_E2E runs the built binary against the stub backend.
func TestCLI_E2E(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	binPath := buildBinary(t)

	backend := stub.New(nil)
	backend.Set("/git_summarize", stub.Behavior{Status: 500})
	srv := httptest.NewServer(backend.Handler())
	defer srv.Close()

	dir := t.TempDir()
	img := filepath.Join(dir, "cat.jpg")
	if err := os.WriteFile(img, []byte{0xFF, 0xD8, 0xFF, 0xE0, 'J', 'F', 'I', 'F'}, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		args     []string
		wantOut  string // substring match (case-insensitive)
		wantCode int
	}{
		{
			name:     "Fanout",
			args:     []string{"--base-url", srv.URL, img},
			wantOut:  "BLIP Model: BLIP summary of cat.jpg",
			wantCode: 0,
		},
		{
			name:     "Failure Stays In Its Slot",
			args:     []string{"--base-url", srv.URL, "--models", "blip,git", img},
			wantOut:  "GIT Model Error:",
			wantCode: 0,
		},
		{
			name:     "Every Model Failed",
			args:     []string{"--base-url", srv.URL, "--models", "git", "-q", img},
			wantOut:  "failed",
			wantCode: 3,
		},
		{
			name:     "Missing File",
			args:     []string{"--base-url", srv.URL},
			wantOut:  "missing input",
			wantCode: 5,
		},
		{
			name:     "Caption Task",
			args:     []string{"--base-url", srv.URL, "--task", "caption", img},
			wantOut:  "Option 1:",
			wantCode: 0,
		},
		{
			name:     "Unknown Task",
			args:     []string{"--task", "paint"},
			wantOut:  "unknown task",
			wantCode: 4,
		},
		{
			name:     "Help",
			args:     []string{"--help"},
			wantOut:  "usage",
			wantCode: 0,
		},
		{
			name:     "Version Flag",
			args:     []string{"--version"},
			wantOut:  "omnisum",
			wantCode: 0,
		},
		{
			name:     "Completion",
			args:     []string{"--completion", "fish"},
			wantOut:  "complete -c",
			wantCode: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binPath, tt.args...)
			cmd.Env = append(os.Environ(), "NO_COLOR=1")
			cmd.Dir = dir
			output, err := cmd.CombinedOutput()
			outStr := string(output)

			code := 0
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			} else if err != nil {
				t.Fatalf("running omnisum: %v", err)
			}
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d\nOutput: %s", code, tt.wantCode, outStr)
			}
			if !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
				t.Errorf("Output missing expected string.\nExpected: %q\nGot:\n%s", tt.wantOut, outStr)
			}
		})
	}
}
