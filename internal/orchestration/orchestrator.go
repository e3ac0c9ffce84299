package orchestration

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/omnisum/internal/client"
	"github.com/agbru/omnisum/internal/endpoint"
	apperrors "github.com/agbru/omnisum/internal/errors"
	"github.com/agbru/omnisum/internal/logging"
)

const tracerName = "github.com/agbru/omnisum/internal/orchestration"

// Orchestrator runs fan-out requests over a fixed set of endpoints.
// It is safe for concurrent use; each Start allocates a new run.
type Orchestrator struct {
	dispatcher Dispatcher
	endpoints  []endpoint.Endpoint
	logger     logging.Logger
	observer   Observer
	tracer     trace.Tracer
	now        func() time.Time
	seq        atomic.Uint64
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithObserver sets the lifecycle observer.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) { o.observer = obs }
}

// WithTracer sets the tracer. The global provider's tracer is used otherwise.
func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) { o.tracer = t }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New returns an orchestrator dispatching to eps through d.
func New(d Dispatcher, eps []endpoint.Endpoint, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		dispatcher: d,
		endpoints:  append([]endpoint.Endpoint(nil), eps...),
		logger:     logging.Discard,
		observer:   NullObserver{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	return o
}

// Endpoints returns the endpoints every run targets, in dispatch order.
func (o *Orchestrator) Endpoints() []endpoint.Endpoint {
	return append([]endpoint.Endpoint(nil), o.endpoints...)
}

// Run is one in-flight fan-out.
type Run struct {
	ID       RunID
	outcomes []Outcome
	done     chan struct{}
}

// Done is closed once every slot of the run has left the pending state.
func (r *Run) Done() <-chan struct{} { return r.done }

// Wait blocks until the run completes and returns the outcomes in dispatch
// order.
func (r *Run) Wait() []Outcome {
	<-r.done
	return r.outcomes
}

// Start validates its inputs, resets the container for a new run and
// dispatches the artifact to every endpoint concurrently. It returns as soon
// as all requests are issued; outcomes reach the container as they arrive.
//
// A nil or empty artifact yields apperrors.MissingInputError and a nil
// container yields apperrors.MissingContainerError. In both cases no request
// is sent and the container is left untouched.
func (o *Orchestrator) Start(ctx context.Context, artifact *client.Artifact, c Container) (*Run, error) {
	if artifact.Empty() {
		o.logger.Debug("run rejected: no artifact")
		return nil, apperrors.MissingInputError{}
	}
	if c == nil {
		err := apperrors.MissingContainerError{}
		o.logger.Error("run rejected", err)
		return nil, err
	}

	run := &Run{
		ID:       RunID(o.seq.Add(1)),
		outcomes: make([]Outcome, len(o.endpoints)),
		done:     make(chan struct{}),
	}
	ctx, span := o.tracer.Start(ctx, "omnisum.run", trace.WithAttributes(
		attribute.Int64("omnisum.run", int64(run.ID)),
		attribute.Int("omnisum.endpoints", len(o.endpoints)),
		attribute.String("omnisum.artifact", artifact.Name),
		attribute.Int("omnisum.artifact_bytes", artifact.Size()),
	))

	started := o.now()
	if !c.Reset(run.ID, o.Endpoints()) {
		o.logger.Debug("run superseded before dispatch", logging.Uint64("run", uint64(run.ID)))
	}
	o.observer.RunStarted(run.ID, len(o.endpoints))
	o.logger.Info("run started",
		logging.Uint64("run", uint64(run.ID)),
		logging.Int("endpoints", len(o.endpoints)),
		logging.String("artifact", artifact.Name),
	)

	// No shared cancellation: a failing endpoint must not cut the others short.
	var g errgroup.Group
	for i, ep := range o.endpoints {
		g.Go(func() error {
			out := o.dispatch(ctx, run.ID, ep, artifact)
			run.outcomes[i] = out
			if !c.Resolve(out) {
				o.logger.Debug("outcome discarded",
					logging.Uint64("run", uint64(run.ID)),
					logging.String("endpoint", ep.Name),
				)
			}
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		span.End()
		o.logger.Info("run finished",
			logging.Uint64("run", uint64(run.ID)),
			logging.Float64("seconds", o.now().Sub(started).Seconds()),
		)
		close(run.done)
	}()
	return run, nil
}

// Execute is Start followed by Wait.
func (o *Orchestrator) Execute(ctx context.Context, artifact *client.Artifact, c Container) ([]Outcome, error) {
	run, err := o.Start(ctx, artifact, c)
	if err != nil {
		return nil, err
	}
	return run.Wait(), nil
}

func (o *Orchestrator) dispatch(ctx context.Context, run RunID, ep endpoint.Endpoint, artifact *client.Artifact) Outcome {
	ctx, span := o.tracer.Start(ctx, "omnisum.dispatch", trace.WithAttributes(
		attribute.String("omnisum.endpoint", ep.Name),
		attribute.String("omnisum.path", ep.Path),
	))
	defer span.End()

	o.observer.DispatchStarted(ep)
	start := o.now()
	text, err := o.dispatcher.Infer(ctx, ep, artifact)
	out := classify(run, ep, text, err, o.now().Sub(start))
	o.observer.DispatchFinished(ep, out.Status, out.Elapsed)

	span.SetAttributes(attribute.String("omnisum.status", out.Status.String()))
	fields := []logging.Field{
		logging.Uint64("run", uint64(run)),
		logging.String("endpoint", ep.Name),
		logging.String("status", out.Status.String()),
		logging.Float64("seconds", out.Elapsed.Seconds()),
	}
	if out.Status == StatusFailed {
		span.RecordError(out.Err)
		span.SetStatus(codes.Error, out.Err.Error())
		o.logger.Error("dispatch failed", out.Err, fields...)
	} else {
		o.logger.Debug("dispatch finished", fields...)
	}
	return out
}

// classify turns a dispatcher answer into an Outcome.
func classify(run RunID, ep endpoint.Endpoint, text string, err error, elapsed time.Duration) Outcome {
	if elapsed < 0 {
		elapsed = 0
	}
	out := Outcome{Run: run, Endpoint: ep, Elapsed: elapsed}
	switch {
	case err != nil:
		out.Status = StatusFailed
		transportErr := apperrors.EndpointTransportError{Endpoint: ep.Name, Cause: err}
		var httpErr *client.HTTPError
		if errors.As(err, &httpErr) {
			transportErr.StatusCode = httpErr.StatusCode
			transportErr.Cause = backendMessage{httpErr}
		}
		out.Err = transportErr
	case text == "":
		out.Status = StatusEmpty
		out.Text = NoSummaryText
		out.Err = apperrors.EmptyResultWarning{Endpoint: ep.Name}
	default:
		out.Status = StatusSucceeded
		out.Text = text
	}
	return out
}

// backendMessage reduces an HTTP error to the backend's own message, the
// status code being reported by the enclosing EndpointTransportError.
type backendMessage struct{ err *client.HTTPError }

func (b backendMessage) Error() string { return b.err.Message }
func (b backendMessage) Unwrap() error { return b.err }
