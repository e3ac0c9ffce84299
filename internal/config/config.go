// Package config parses command-line flags, environment variables and the
// optional .env file into an AppConfig.
package config

import (
	"flag"
	"fmt"
	"io"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/agbru/omnisum/internal/client"
	"github.com/agbru/omnisum/internal/endpoint"
	apperrors "github.com/agbru/omnisum/internal/errors"
	"github.com/agbru/omnisum/internal/logging"
)

// EnvPrefix prefixes every environment variable read by the application.
const EnvPrefix = "OMNISUM_"

// Task names accepted by --task.
const (
	TaskFanout        = "fanout"
	TaskCaption       = "caption"
	TaskAsk           = "ask"
	TaskText          = "text"
	TaskPDF           = "pdf"
	TaskPDFAsk        = "pdf-ask"
	TaskCreatePDF     = "create-pdf"
	TaskTTS           = "tts"
	TaskVideo         = "video"
	TaskNotes         = "notes"
	TaskStory         = "story"
	TaskLive          = "live"
	TaskHistory       = "history"
	TaskHistoryDelete = "history-delete"
)

// Tasks lists every task in help order.
var Tasks = []string{
	TaskFanout, TaskCaption, TaskAsk, TaskText, TaskPDF, TaskPDFAsk,
	TaskCreatePDF, TaskTTS, TaskVideo, TaskNotes, TaskStory, TaskLive,
	TaskHistory, TaskHistoryDelete,
}

// CompletionShells lists the shells --completion supports.
var CompletionShells = []string{"bash", "zsh", "fish"}

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Task selects what the run does.
	Task string
	// BaseURL is the root URL of the backend.
	BaseURL string
	// Models is "all" or a comma-separated list of endpoint keys.
	Models string
	// EndpointsFile is an optional YAML file replacing the built-in endpoints.
	EndpointsFile string
	// File is the input artifact (image, video or PDF).
	File string
	// Images are the story inputs, up to four.
	Images []string
	// Text is the input of the text and create-pdf tasks.
	Text string
	// Question is asked about the image or the uploaded PDF.
	Question string
	// SummaryType is short, points or both.
	SummaryType string
	// ID addresses a text history entry.
	ID int64
	// OutputFile receives results, downloads or keyframes.
	OutputFile string
	// Timeout bounds each HTTP request.
	Timeout time.Duration
	// TUI enables the interactive dashboard.
	TUI bool
	// WatchDir starts a dashboard run for each new file in the directory.
	WatchDir string
	// MetricsAddr, when set, exposes Prometheus metrics on that address.
	MetricsAddr string
	// LogLevel filters diagnostic logs on stderr.
	LogLevel string
	// Quiet prints results only.
	Quiet bool
	// Verbose prints the summary table and request details.
	Verbose bool
	// NoColor disables colored output.
	NoColor bool
	// Completion prints the completion script for the given shell and exits.
	Completion string
}

// Default values.
const (
	DefaultTask        = TaskFanout
	DefaultModels      = "all"
	DefaultSummaryType = client.SummaryShort
	DefaultLogLevel    = "warn"
)

// stringList is a flag.Value collecting a comma-separated list.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*s = append(*s, part)
		}
	}
	return nil
}

// ParseConfig parses args (without the program name) into an AppConfig.
//
// Precedence is: command-line flags, then OMNISUM_* environment variables,
// then the .env file, then defaults. A leading positional argument is taken
// as --file when that flag is not set.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	fs.Usage = func() { printUsage(fs, programName) }

	config := AppConfig{}
	images := stringList{}
	fs.StringVar(&config.Task, "task", DefaultTask, "Task to run: "+strings.Join(Tasks, ", ")+".")
	fs.StringVar(&config.Task, "t", DefaultTask, "Shorthand for --task.")
	fs.StringVar(&config.BaseURL, "base-url", client.DefaultBaseURL, "Root URL of the summarization backend.")
	fs.StringVar(&config.Models, "models", DefaultModels, "Endpoints of a fanout run: 'all' or a comma-separated list of keys.")
	fs.StringVar(&config.EndpointsFile, "endpoints", "", "YAML file declaring the inference endpoints.")
	fs.StringVar(&config.File, "file", "", "Input image, video or PDF.")
	fs.StringVar(&config.File, "f", "", "Shorthand for --file.")
	fs.Var(&images, "images", "Story images, comma-separated or repeated (up to 4).")
	fs.StringVar(&config.Text, "text", "", "Input text for the text and create-pdf tasks.")
	fs.StringVar(&config.Question, "question", "", "Question for the ask and pdf-ask tasks.")
	fs.StringVar(&config.SummaryType, "summary-type", DefaultSummaryType, "Text summary type: short, points or both.")
	fs.Int64Var(&config.ID, "id", 0, "History entry id for history-delete.")
	fs.StringVar(&config.OutputFile, "output", "", "Write results, downloads or keyframes to this path.")
	fs.StringVar(&config.OutputFile, "o", "", "Shorthand for --output.")
	fs.DurationVar(&config.Timeout, "timeout", client.DefaultTimeout, "Per-request timeout (e.g., 30s, 2m).")
	fs.BoolVar(&config.TUI, "tui", false, "Show the interactive dashboard for fanout runs.")
	fs.StringVar(&config.WatchDir, "watch", "", "Start a dashboard run for every new file in this directory.")
	fs.StringVar(&config.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g., :9090).")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warn, error or disabled.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print results only.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Print the run summary table and request details.")
	fs.BoolVar(&config.Verbose, "v", false, "Shorthand for --verbose.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&config.Completion, "completion", "", "Print a completion script: "+strings.Join(CompletionShells, ", ")+".")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	config.Images = images
	if config.File == "" && fs.NArg() > 0 {
		config.File = fs.Arg(0)
	}

	if err := LoadEnvFile(); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		return AppConfig{}, err
	}
	applyEnvOverrides(&config, fs)

	config.Task = strings.ToLower(strings.TrimSpace(config.Task))
	config.SummaryType = strings.ToLower(strings.TrimSpace(config.SummaryType))
	if err := config.Validate(); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		return AppConfig{}, err
	}
	return config, nil
}

// Validate checks the semantic consistency of the configuration.
func (c AppConfig) Validate() error {
	if c.Completion != "" {
		if !slices.Contains(CompletionShells, c.Completion) {
			return apperrors.ValidationError{Field: "completion",
				Message: fmt.Sprintf("unsupported shell %q (want %s)", c.Completion, strings.Join(CompletionShells, ", "))}
		}
		return nil
	}
	if !slices.Contains(Tasks, c.Task) {
		return apperrors.NewConfigError("unknown task %q (available: %s)", c.Task, strings.Join(Tasks, ", "))
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperrors.ValidationError{Field: "base-url", Message: fmt.Sprintf("%q is not an http(s) URL", c.BaseURL)}
	}
	if c.Timeout <= 0 {
		return apperrors.ValidationError{Field: "timeout", Message: "must be greater than zero"}
	}
	switch c.SummaryType {
	case client.SummaryShort, client.SummaryPoints, client.SummaryBoth:
	default:
		return apperrors.ValidationError{Field: "summary-type", Message: fmt.Sprintf("%q is not one of short, points, both", c.SummaryType)}
	}
	if len(c.Images) > client.StoryImages {
		return apperrors.ValidationError{Field: "images", Message: fmt.Sprintf("at most %d images, got %d", client.StoryImages, len(c.Images))}
	}
	if c.WatchDir != "" && !c.TUI {
		return apperrors.NewConfigError("--watch requires --tui")
	}
	if c.TUI && c.Task != TaskFanout {
		return apperrors.NewConfigError("--tui only applies to the %s task", TaskFanout)
	}
	if c.Quiet && c.Verbose {
		return apperrors.NewConfigError("--quiet and --verbose are mutually exclusive")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return apperrors.ValidationError{Field: "log-level", Message: err.Error()}
	}
	return nil
}

// Registry returns the endpoints file registry, or the built-in one.
func (c AppConfig) Registry() (*endpoint.Registry, error) {
	if c.EndpointsFile == "" {
		return endpoint.DefaultRegistry(), nil
	}
	reg, err := endpoint.LoadFile(c.EndpointsFile)
	if err != nil {
		return nil, apperrors.NewConfigError("%v", err)
	}
	return reg, nil
}

// Endpoints resolves Models against the registry.
func (c AppConfig) Endpoints() ([]endpoint.Endpoint, error) {
	reg, err := c.Registry()
	if err != nil {
		return nil, err
	}
	eps, err := reg.Select(c.Models)
	if err != nil {
		return nil, apperrors.ValidationError{Field: "models", Message: err.Error()}
	}
	return eps, nil
}

func printUsage(fs *flag.FlagSet, programName string) {
	out := fs.Output()
	fmt.Fprintf(out, "Usage: %s [flags] [file]\n\n", programName)
	fmt.Fprintf(out, "Sends an image, video, PDF or text to the summarization backend.\n\n")
	fmt.Fprintf(out, "Tasks:\n  %s\n\n", strings.Join(Tasks, ", "))
	fmt.Fprintf(out, "Flags:\n")
	fs.PrintDefaults()
	fmt.Fprintf(out, "\nEnvironment variables use the %s prefix (e.g., %sBASE_URL) and may be\nset in a .env file (%sENV_FILE overrides its path).\n", EnvPrefix, EnvPrefix, EnvPrefix)
}
