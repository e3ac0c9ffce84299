package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/agbru/omnisum/internal/cli"
	"github.com/agbru/omnisum/internal/client"
	apperrors "github.com/agbru/omnisum/internal/errors"
	"github.com/agbru/omnisum/internal/logging"
	"github.com/agbru/omnisum/internal/orchestration"
	"github.com/agbru/omnisum/internal/tui"
	"github.com/agbru/omnisum/internal/watcher"
)

// runFanout sends the input file to every selected endpoint and prints each
// slot as it settles.
func (a *Application) runFanout(ctx context.Context, out io.Writer, c *client.Client, obs orchestration.Observer) int {
	eps, err := a.Config.Endpoints()
	if err != nil {
		return apperrors.HandleError(err, a.ErrWriter)
	}
	artifact, err := a.loadFile("file")
	if err != nil {
		return apperrors.HandleError(err, a.ErrWriter)
	}

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(out, c.BaseURL(), artifact, eps)
	}

	var spin cli.Spinner
	if !a.Config.Quiet && a.isTTY() {
		spin = cli.NewSpinner(os.Stdout)
	}
	printer := cli.NewLinePrinter(out, spin, a.Config.Quiet)
	defer printer.Close()

	board := orchestration.NewBoard()
	board.OnChange(printer.Handle)

	orch := orchestration.New(c, eps,
		orchestration.WithLogger(a.Logger),
		orchestration.WithObserver(obs),
	)
	if _, err := orch.Execute(ctx, artifact, board); err != nil {
		return apperrors.HandleError(err, a.ErrWriter)
	}
	printer.Close()

	slots := board.Snapshot()
	if !a.Config.Quiet {
		fmt.Fprintln(out)
		cli.PrintSummaryTable(out, slots)
	}
	if a.Config.OutputFile != "" {
		if err := cli.WriteResultsToFile(a.Config.OutputFile, artifact.Name, board.Run(), slots); err != nil {
			return apperrors.HandleError(err, a.ErrWriter)
		}
		cli.DisplaySaved(out, a.Config.OutputFile, a.Config.Quiet)
	}

	if err := ctx.Err(); err != nil {
		return apperrors.HandleError(err, a.ErrWriter)
	}
	if allFailed(slots) {
		fmt.Fprintf(a.ErrWriter, "Status: Failure. All %d model(s) failed.\n", len(slots))
		return apperrors.ExitErrorEndpoints
	}
	return apperrors.ExitSuccess
}

// allFailed reports whether every slot failed. Empty answers do not count as
// failures.
func allFailed(slots []orchestration.Slot) bool {
	if len(slots) == 0 {
		return false
	}
	for _, s := range slots {
		if s.Status != orchestration.StatusFailed {
			return false
		}
	}
	return true
}

// runTUI launches the interactive dashboard, optionally fed by a directory
// watcher.
func (a *Application) runTUI(ctx context.Context, c *client.Client, obs orchestration.Observer) int {
	eps, err := a.Config.Endpoints()
	if err != nil {
		return apperrors.HandleError(err, a.ErrWriter)
	}
	if a.Config.File == "" && a.Config.WatchDir == "" {
		return apperrors.HandleError(apperrors.MissingInputError{Reason: "no file given (use --file or --watch)"}, a.ErrWriter)
	}

	// Log lines would tear the alternate screen.
	logger := logging.Discard
	orch := orchestration.New(c, eps,
		orchestration.WithLogger(logger),
		orchestration.WithObserver(obs),
	)
	opts := tui.Options{
		Starter: orch,
		File:    a.Config.File,
		Version: Version,
	}
	if a.Config.WatchDir != "" {
		w, err := watcher.New(a.Config.WatchDir, watcher.WithLogger(logger))
		if err != nil {
			return apperrors.HandleError(apperrors.NewConfigError("--watch: %v", err), a.ErrWriter)
		}
		defer w.Close()
		opts.Files = w
	}
	return tui.Run(ctx, opts)
}

// loadFile reads --file. A missing flag or an unreadable file is a missing
// input.
func (a *Application) loadFile(what string) (*client.Artifact, error) {
	if a.Config.File == "" {
		return nil, apperrors.MissingInputError{Reason: fmt.Sprintf("no %s given (use --file)", what)}
	}
	artifact, err := client.LoadArtifact(a.Config.File)
	if err != nil {
		return nil, apperrors.MissingInputError{Reason: err.Error()}
	}
	if artifact.Empty() {
		return nil, apperrors.MissingInputError{Reason: fmt.Sprintf("%s is empty", a.Config.File)}
	}
	return artifact, nil
}
