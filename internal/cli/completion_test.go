package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()
	models := []string{"blip", "gemini"}
	tests := []struct {
		shell    string
		contains []string
	}{
		{"bash", []string{"complete -F _omnisum_completions omnisum", "--task|-t)", `models="all blip gemini"`, "compgen -d"}},
		{"zsh", []string{"#compdef omnisum", "models=(all blip gemini)", "'--watch[Directory to watch for new files]:dir:_directories'"}},
		{"fish", []string{"complete -c omnisum -s t -l task", "-l models -d 'Endpoints of a fanout run' -xa 'all blip gemini'"}},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			if err := GenerateCompletion(&out, tt.shell, models); err != nil {
				t.Fatalf("GenerateCompletion: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out.String(), want) {
					t.Errorf("%s script missing %q", tt.shell, want)
				}
			}
		})
	}
}

func TestGenerateCompletionUnsupportedShell(t *testing.T) {
	t.Parallel()
	if err := GenerateCompletion(&bytes.Buffer{}, "powershell", nil); err == nil {
		t.Error("expected error for unsupported shell")
	}
}

func TestExecutionConfig(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	PrintExecutionConfig(&out, "http://127.0.0.1:5000", nil, nil)
	if !strings.Contains(out.String(), "Backend: http://127.0.0.1:5000") {
		t.Errorf("got %q", out.String())
	}
}
