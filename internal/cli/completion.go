package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/omnisum/internal/config"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// Every shell script is generated from flagRegistry.
type FlagCompletion struct {
	Long      string   // long flag name without "--" (e.g., "task")
	Short     string   // short flag without "-" (e.g., "t")
	Help      string   // description text
	Values    []string // suggested completion values (nil = boolean/no suggestions)
	ValueName string   // label for the value in zsh (e.g., "duration")
	IsFile    bool     // the flag takes a file path
	IsDir     bool     // the flag takes a directory
	IsModel   bool     // values come from the endpoint registry
}

// flagRegistry is the central list of all CLI flags for completion generation.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Long: "task", Short: "t", Help: "Task to run", Values: config.Tasks, ValueName: "task"},
	{Long: "base-url", Help: "Backend root URL", ValueName: "url"},
	{Long: "models", Help: "Endpoints of a fanout run", IsModel: true, ValueName: "model"},
	{Long: "endpoints", Help: "YAML endpoints file", IsFile: true, ValueName: "file"},
	{Long: "file", Short: "f", Help: "Input image, video or PDF", IsFile: true, ValueName: "file"},
	{Long: "images", Help: "Story images", IsFile: true, ValueName: "files"},
	{Long: "text", Help: "Input text", ValueName: "text"},
	{Long: "question", Help: "Question to ask", ValueName: "question"},
	{Long: "summary-type", Help: "Text summary type", Values: []string{"short", "points", "both"}, ValueName: "type"},
	{Long: "id", Help: "History entry id", ValueName: "id"},
	{Long: "output", Short: "o", Help: "Output path", IsFile: true, ValueName: "file"},
	{Long: "timeout", Help: "Per-request timeout", Values: []string{"30s", "1m", "2m", "5m"}, ValueName: "duration"},
	{Long: "tui", Help: "Interactive dashboard"},
	{Long: "watch", Help: "Directory to watch for new files", IsDir: true, ValueName: "dir"},
	{Long: "metrics-addr", Help: "Prometheus metrics address", ValueName: "addr"},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error", "disabled"}, ValueName: "level"},
	{Long: "quiet", Short: "q", Help: "Print results only"},
	{Long: "verbose", Short: "v", Help: "Print the run summary"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "completion", Help: "Generate completion script", Values: config.CompletionShells, ValueName: "shell"},
}

// GenerateCompletion writes the completion script for shell to out. models
// are offered as values of --models.
func GenerateCompletion(out io.Writer, shell string, models []string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion(models)
	case "zsh":
		script = zshCompletion(models)
	case "fish":
		script = fishCompletion(models)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: %s)", shell, strings.Join(config.CompletionShells, ", "))
	}
	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

func flagNames(f FlagCompletion) []string {
	var names []string
	if f.Long != "" {
		names = append(names, "--"+f.Long)
	}
	if f.Short != "" {
		names = append(names, "-"+f.Short)
	}
	return names
}

func bashCompletion(models []string) string {
	var opts []string
	var cases strings.Builder
	for _, f := range flagRegistry {
		names := flagNames(f)
		opts = append(opts, names...)

		var body string
		switch {
		case f.IsModel:
			body = `COMPREPLY=( $(compgen -W "${models}" -- "${cur}") )`
		case f.IsDir:
			body = `COMPREPLY=( $(compgen -d -- "${cur}") )`
		case f.IsFile:
			body = `COMPREPLY=( $(compgen -f -- "${cur}") )`
		case len(f.Values) > 0:
			body = fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(f.Values, " "))
		default:
			continue
		}
		fmt.Fprintf(&cases, "        %s)\n            %s\n            return 0\n            ;;\n", strings.Join(names, "|"), body)
	}

	return fmt.Sprintf(`# Bash completion script for omnisum
# Add this to your ~/.bashrc or ~/.bash_completion

_omnisum_completions() {
    local cur prev opts models
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%s"
    models="all %s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
    COMPREPLY=( $(compgen -f -- "${cur}") )
}

complete -F _omnisum_completions omnisum
`, strings.Join(opts, " "), strings.Join(models, " "), cases.String())
}

func zshCompletion(models []string) string {
	args := make([]string, 0, len(flagRegistry)+1)
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}
	args = append(args, "        '*:file:_files'")

	return fmt.Sprintf(`#compdef omnisum

# Zsh completion script for omnisum
# Add this to your ~/.zshrc or place in $fpath

_omnisum() {
    local -a models
    models=(all %s)

    _arguments -s \
%s
}

_omnisum "$@"
`, strings.Join(models, " "), strings.Join(args, " \\\n"))
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	var valueSuffix string
	switch {
	case f.IsModel:
		valueSuffix = fmt.Sprintf(":%s:($models)", f.ValueName)
	case f.IsDir:
		valueSuffix = fmt.Sprintf(":%s:_directories", f.ValueName)
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case len(f.Values) > 0:
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Long != "" && f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
}

func fishCompletion(models []string) string {
	lines := []string{
		"# Fish completion script for omnisum",
		"# Add this to ~/.config/fish/completions/omnisum.fish",
		"",
	}
	for _, f := range flagRegistry {
		lines = append(lines, fishCompleteLine(f, models))
	}
	return strings.Join(lines, "\n") + "\n"
}

// fishCompleteLine formats a single FlagCompletion as a fish complete command.
func fishCompleteLine(f FlagCompletion, models []string) string {
	parts := []string{"complete -c omnisum"}
	if f.Short != "" {
		parts = append(parts, "-s "+f.Short)
	}
	if f.Long != "" {
		parts = append(parts, "-l "+f.Long)
	}
	parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))

	switch {
	case f.IsModel:
		parts = append(parts, fmt.Sprintf("-xa 'all %s'", strings.Join(models, " ")))
	case f.IsDir:
		parts = append(parts, "-xa '(__fish_complete_directories)'")
	case f.IsFile:
		parts = append(parts, "-rF")
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case f.ValueName != "":
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}
