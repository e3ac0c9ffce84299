//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

package orchestration

import (
	"context"
	"time"

	"github.com/agbru/omnisum/internal/client"
	"github.com/agbru/omnisum/internal/endpoint"
)

// RunID identifies one fan-out run. The first run of an orchestrator is 1.
type RunID uint64

// Status is the state of one endpoint's slot.
type Status int

const (
	// StatusPending means the request is in flight.
	StatusPending Status = iota
	// StatusSucceeded means the endpoint returned a non-empty result.
	StatusSucceeded
	// StatusEmpty means the endpoint answered without a result.
	StatusEmpty
	// StatusFailed means the request failed.
	StatusFailed
)

// String returns the lower-case status name.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether s is a final state.
func (s Status) Terminal() bool { return s != StatusPending }

// NoSummaryText is shown for an endpoint that returned an empty result.
const NoSummaryText = "No summary generated."

// Outcome is the result of one dispatch.
type Outcome struct {
	Run      RunID
	Endpoint endpoint.Endpoint
	Status   Status
	// Text is the result text, or NoSummaryText for StatusEmpty.
	Text string
	// Err is an apperrors.EndpointTransportError for StatusFailed and an
	// apperrors.EmptyResultWarning for StatusEmpty.
	Err     error
	Elapsed time.Duration
}

// Dispatcher sends the artifact to one endpoint. An empty result with a nil
// error means the endpoint produced nothing. *client.Client implements it.
type Dispatcher interface {
	Infer(ctx context.Context, ep endpoint.Endpoint, artifact *client.Artifact) (string, error)
}

// Container holds the slots of the current run.
type Container interface {
	// Reset discards every slot and creates one pending slot per endpoint
	// for run. It must return only once all slots exist. It returns false,
	// and changes nothing, when run is not newer than the current run.
	Reset(run RunID, endpoints []endpoint.Endpoint) bool
	// Resolve replaces the slot of o.Endpoint with its outcome. It returns
	// false, and changes nothing, when o belongs to another run or the slot
	// is unknown or already terminal.
	Resolve(o Outcome) bool
}

// Observer is notified of run and dispatch lifecycle events. Calls arrive
// from dispatch goroutines concurrently.
type Observer interface {
	RunStarted(run RunID, endpoints int)
	DispatchStarted(ep endpoint.Endpoint)
	DispatchFinished(ep endpoint.Endpoint, status Status, elapsed time.Duration)
}

// NullObserver ignores every event.
type NullObserver struct{}

func (NullObserver) RunStarted(RunID, int)                                     {}
func (NullObserver) DispatchStarted(endpoint.Endpoint)                         {}
func (NullObserver) DispatchFinished(endpoint.Endpoint, Status, time.Duration) {}
