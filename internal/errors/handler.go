package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ExitCodeFor maps an error to the process exit code that best describes it.
// A nil error maps to ExitSuccess.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		configErr     ConfigError
		validationErr ValidationError
		inputErr      MissingInputError
		timeoutErr    TimeoutError
	)
	switch {
	case errors.As(err, &configErr), errors.As(err, &validationErr):
		return ExitErrorConfig
	case errors.As(err, &inputErr):
		return ExitErrorInput
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	}
	return ExitErrorGeneric
}

// HandleError writes a one-line description of err to out and returns the
// matching exit code. It is the single place where task errors reach the user.
func HandleError(err error, out io.Writer) int {
	if err == nil {
		return ExitSuccess
	}
	code := ExitCodeFor(err)
	switch code {
	case ExitErrorTimeout:
		fmt.Fprintf(out, "Status: Failure (Timeout). %v\n", err)
	case ExitErrorCanceled:
		fmt.Fprintf(out, "Status: Canceled.\n")
	case ExitErrorInput:
		fmt.Fprintf(out, "%v\n", err)
	default:
		fmt.Fprintf(out, "Status: Failure. %v\n", err)
	}
	return code
}
