package client

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// HTTPError is returned for any non-2xx answer.
type HTTPError struct {
	Op         string
	StatusCode int
	// Message is the backend's "error" field, or the status text when the
	// body does not carry one.
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
}

// DecodeError is returned when a 2xx body is not the expected JSON.
type DecodeError struct {
	Op    string
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decoding response: %v", e.Op, e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

func newHTTPError(op string, status int, body []byte) *HTTPError {
	var payload struct {
		Error string `json:"error"`
	}
	msg := http.StatusText(status)
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}
	return &HTTPError{Op: op, StatusCode: status, Message: msg}
}
