package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/omnisum/internal/cli"
	"github.com/agbru/omnisum/internal/client"
	"github.com/agbru/omnisum/internal/config"
	apperrors "github.com/agbru/omnisum/internal/errors"
	"github.com/agbru/omnisum/internal/logging"
	"github.com/agbru/omnisum/internal/metrics"
	"github.com/agbru/omnisum/internal/orchestration"
	"github.com/agbru/omnisum/internal/server"
	"github.com/agbru/omnisum/internal/ui"
)

// Application represents the omnisum application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	Logger    logging.Logger

	clientOpts []client.Option
	isTTY      func() bool
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithLogger replaces the console logger built from --log-level.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// WithClientOptions adds options to the backend client.
func WithClientOptions(opts ...client.Option) AppOption {
	return func(a *Application) { a.clientOpts = append(a.clientOpts, opts...) }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	programName := "omnisum"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	app := &Application{
		Config:    cfg,
		ErrWriter: errWriter,
		isTTY:     func() bool { return ui.IsTerminal(os.Stdout) },
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.Logger == nil {
		// Validate has already accepted the level.
		level, _ := logging.ParseLevel(cfg.LogLevel)
		app.Logger = logging.NewConsoleLogger(errWriter, "omnisum", level, cfg.NoColor)
	}
	return app, nil
}

// Run executes the configured task and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	ui.InitTheme(a.Config.NoColor, os.Stdout)

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	var observer orchestration.Observer = orchestration.NullObserver{}
	if a.Config.MetricsAddr != "" {
		collector := metrics.NewCollector()
		observer = collector
		a.startMetricsServer(ctx, collector)
	}

	c, err := a.newClient()
	if err != nil {
		return apperrors.HandleError(apperrors.NewConfigError("%v", err), a.ErrWriter)
	}

	if a.Config.Task == config.TaskFanout {
		if a.Config.TUI {
			return a.runTUI(ctx, c, observer)
		}
		return a.runFanout(ctx, out, c, observer)
	}
	return a.runTask(ctx, out, c)
}

func (a *Application) newClient() (*client.Client, error) {
	opts := []client.Option{client.WithTimeout(a.Config.Timeout), client.WithLogger(a.Logger)}
	return client.New(a.Config.BaseURL, append(opts, a.clientOpts...)...)
}

// startMetricsServer serves /metrics until ctx ends. A bind failure is
// logged and does not stop the task.
func (a *Application) startMetricsServer(ctx context.Context, collector *metrics.Collector) {
	srv := server.New(a.Config.MetricsAddr, collector, a.Logger)
	go func() {
		if err := srv.ListenAndServe(ctx, nil); err != nil {
			a.Logger.Error("metrics server failed", err, logging.String("addr", a.Config.MetricsAddr))
		}
	}()
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	reg, err := a.Config.Registry()
	if err != nil {
		return apperrors.HandleError(err, a.ErrWriter)
	}
	if err := cli.GenerateCompletion(out, a.Config.Completion, reg.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
