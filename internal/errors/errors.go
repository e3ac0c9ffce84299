package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Process exit codes.
const (
	ExitSuccess        = 0
	ExitErrorGeneric   = 1
	ExitErrorTimeout   = 2
	ExitErrorEndpoints = 3 // every endpoint of a fan-out run failed
	ExitErrorConfig    = 4
	ExitErrorInput     = 5 // no artifact to send
	ExitErrorCanceled  = 130
)

// ConfigError reports bad flags, environment values or endpoint files.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError formats a ConfigError.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// MissingInputError is returned when a run is triggered without an artifact.
// It is user-correctable and is surfaced to the user before any request is
// issued.
type MissingInputError struct {
	Reason string
}

func (e MissingInputError) Error() string {
	if e.Reason == "" {
		return "missing input: please select a file first"
	}
	return "missing input: " + e.Reason
}

// MissingContainerError is returned when a run has nowhere to render its
// slots. It indicates a wiring bug rather than a user mistake.
type MissingContainerError struct{}

func (MissingContainerError) Error() string {
	return "result container not found"
}

// EndpointTransportError records a failed request to a single endpoint: a
// non-2xx status, a network error or an undecodable body. It is rendered in
// that endpoint's slot only.
type EndpointTransportError struct {
	Endpoint   string
	StatusCode int // 0 when no response was received
	Cause      error
}

func (e EndpointTransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed with status %d: %v", e.Endpoint, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s request failed: %v", e.Endpoint, e.Cause)
}

func (e EndpointTransportError) Unwrap() error { return e.Cause }

// EmptyResultWarning reports that an endpoint answered successfully but did
// not produce any usable text. It is a soft failure.
type EmptyResultWarning struct {
	Endpoint string
}

func (e EmptyResultWarning) Error() string {
	return fmt.Sprintf("%s returned no result", e.Endpoint)
}

// TimeoutError reports a single-endpoint task that exceeded --timeout.
type TimeoutError struct {
	Operation string
	Limit     time.Duration
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError names the configuration field that failed a check.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// WrapError prefixes err with a formatted message, keeping it reachable by
// errors.Is and errors.As. A nil err stays nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err stems from a canceled or expired context.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
