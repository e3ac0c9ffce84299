package orchestration_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/agbru/omnisum/internal/client"
	"github.com/agbru/omnisum/internal/endpoint"
	apperrors "github.com/agbru/omnisum/internal/errors"
	"github.com/agbru/omnisum/internal/orchestration"
	"github.com/agbru/omnisum/internal/orchestration/mocks"
	"github.com/agbru/omnisum/internal/stub"
)

var (
	epA = endpoint.Endpoint{Name: "Alpha", Path: "/alpha"}
	epB = endpoint.Endpoint{Name: "Beta", Path: "/beta"}
)

func image(name string) *client.Artifact {
	return client.NewArtifact(name, "image/png", []byte{0x89, 'P', 'N', 'G'})
}

type answer struct {
	text string
	err  error
}

// scriptedDispatcher answers per endpoint key. An endpoint with a gate
// blocks until the gate is closed or the context ends.
type scriptedDispatcher struct {
	mu      sync.Mutex
	answers map[string]answer
	gates   map[string]chan struct{}
	calls   atomic.Int32
	onCall  func(ep endpoint.Endpoint, a *client.Artifact)
}

func newScripted() *scriptedDispatcher {
	return &scriptedDispatcher{answers: make(map[string]answer), gates: make(map[string]chan struct{})}
}

func (d *scriptedDispatcher) answer(ep endpoint.Endpoint, text string, err error) *scriptedDispatcher {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.answers[ep.Key()] = answer{text: text, err: err}
	return d
}

func (d *scriptedDispatcher) gate(ep endpoint.Endpoint) chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	ch := make(chan struct{})
	d.gates[ep.Key()] = ch
	return ch
}

func (d *scriptedDispatcher) Infer(ctx context.Context, ep endpoint.Endpoint, a *client.Artifact) (string, error) {
	d.calls.Add(1)
	if d.onCall != nil {
		d.onCall(ep, a)
	}
	d.mu.Lock()
	gate := d.gates[ep.Key()]
	ans := d.answers[ep.Key()]
	d.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return ans.text, ans.err
}

func TestStartRejectsMissingArtifact(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	dispatcher := mocks.NewMockDispatcher(ctrl)
	container := mocks.NewMockContainer(ctrl)
	// No expectations: any call on either mock fails the test.

	o := orchestration.New(dispatcher, []endpoint.Endpoint{epA, epB})
	for _, a := range []*client.Artifact{nil, client.NewArtifact("empty.png", "image/png", nil)} {
		run, err := o.Start(context.Background(), a, container)
		var missing apperrors.MissingInputError
		if !errors.As(err, &missing) {
			t.Fatalf("expected MissingInputError, got %v", err)
		}
		if run != nil {
			t.Error("no run may be returned")
		}
	}
}

func TestStartRejectsNilContainer(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	dispatcher := mocks.NewMockDispatcher(ctrl)

	o := orchestration.New(dispatcher, []endpoint.Endpoint{epA})
	_, err := o.Start(context.Background(), image("cat.png"), nil)
	var missing apperrors.MissingContainerError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingContainerError, got %v", err)
	}
}

func TestPendingSlotsExistBeforeDispatch(t *testing.T) {
	t.Parallel()
	eps := endpoint.DefaultRegistry().All()
	board := orchestration.NewBoard()
	d := newScripted()
	var violations atomic.Int32
	d.onCall = func(endpoint.Endpoint, *client.Artifact) {
		if len(board.Snapshot()) != len(eps) || board.Run() == 0 {
			violations.Add(1)
		}
	}
	for _, ep := range eps {
		d.answer(ep, ep.Name+" says hi", nil)
	}

	outcomes, err := orchestration.New(d, eps).Execute(context.Background(), image("cat.png"), board)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if violations.Load() != 0 {
		t.Errorf("%d dispatches started before every slot existed", violations.Load())
	}
	if len(outcomes) != len(eps) || int(d.calls.Load()) != len(eps) {
		t.Fatalf("expected %d outcomes and calls, got %d and %d", len(eps), len(outcomes), d.calls.Load())
	}
	for i, out := range outcomes {
		if out.Endpoint.Key() != eps[i].Key() {
			t.Errorf("outcome %d is for %s, want dispatch order %s", i, out.Endpoint.Name, eps[i].Name)
		}
	}
}

func TestResetCalledBeforeResolve(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	container := mocks.NewMockContainer(ctrl)
	d := newScripted().answer(epA, "a", nil).answer(epB, "b", nil)

	reset := container.EXPECT().Reset(orchestration.RunID(1), []endpoint.Endpoint{epA, epB}).Return(true).Times(1)
	container.EXPECT().Resolve(gomock.Any()).Return(true).Times(2).After(reset)

	if _, err := orchestration.New(d, []endpoint.Endpoint{epA, epB}).Execute(context.Background(), image("cat.png"), container); err != nil {
		t.Fatalf("Execute: %v", err)
	}
}

func TestSuccessfulResultIsShownVerbatim(t *testing.T) {
	t.Parallel()
	board := orchestration.NewBoard()
	d := newScripted().answer(epA, "concise summary text", nil)

	outcomes, err := orchestration.New(d, []endpoint.Endpoint{epA}).Execute(context.Background(), image("cat.png"), board)
	if err != nil {
		t.Fatal(err)
	}
	slot, ok := board.Get(epA.Key())
	if !ok {
		t.Fatal("slot missing")
	}
	if slot.Status != orchestration.StatusSucceeded || slot.Text != "concise summary text" {
		t.Errorf("slot = %+v", slot)
	}
	if slot.Elapsed < 0 || outcomes[0].Elapsed != slot.Elapsed {
		t.Errorf("elapsed = %v, outcome elapsed = %v", slot.Elapsed, outcomes[0].Elapsed)
	}
}

func TestEmptyResultIsSoftFailure(t *testing.T) {
	t.Parallel()
	board := orchestration.NewBoard()
	d := newScripted().answer(epA, "", nil)

	if _, err := orchestration.New(d, []endpoint.Endpoint{epA}).Execute(context.Background(), image("cat.png"), board); err != nil {
		t.Fatal(err)
	}
	slot, _ := board.Get(epA.Key())
	if slot.Status != orchestration.StatusEmpty || slot.Text != orchestration.NoSummaryText {
		t.Errorf("slot = %+v", slot)
	}
	var warn apperrors.EmptyResultWarning
	if !errors.As(slot.Err, &warn) || warn.Endpoint != "Alpha" {
		t.Errorf("expected EmptyResultWarning for Alpha, got %v", slot.Err)
	}
}

func TestServerErrorStaysInItsSlot(t *testing.T) {
	t.Parallel()
	backend := stub.New(endpoint.DefaultRegistry())
	backend.Set("/blip_summarize", stub.Behavior{Status: 500})
	srv := httptest.NewServer(backend.Handler())
	defer srv.Close()
	c, err := client.New(srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	board := orchestration.NewBoard()
	eps := endpoint.DefaultRegistry().All()
	if _, err := orchestration.New(c, eps).Execute(context.Background(), image("cat.png"), board); err != nil {
		t.Fatal(err)
	}

	for _, slot := range board.Snapshot() {
		if slot.Key == "blip" {
			if slot.Status != orchestration.StatusFailed {
				t.Fatalf("BLIP slot = %+v", slot)
			}
			var transportErr apperrors.EndpointTransportError
			if !errors.As(slot.Err, &transportErr) || transportErr.Endpoint != "BLIP" || transportErr.StatusCode != 500 {
				t.Errorf("expected a BLIP transport error with status 500, got %v", slot.Err)
			}
			var httpErr *client.HTTPError
			if !errors.As(slot.Err, &httpErr) {
				t.Error("the HTTP error must stay reachable through the chain")
			}
			if got := slot.Err.Error(); got != "BLIP request failed with status 500: stub failure" {
				t.Errorf("message = %q", got)
			}
			continue
		}
		if slot.Status != orchestration.StatusSucceeded {
			t.Errorf("%s should be unaffected, got %+v", slot.Name, slot)
		}
	}
}

func TestNetworkErrorFailsSlot(t *testing.T) {
	t.Parallel()
	board := orchestration.NewBoard()
	d := newScripted().answer(epA, "", errors.New("connection refused")).answer(epB, "fine", nil)

	if _, err := orchestration.New(d, []endpoint.Endpoint{epA, epB}).Execute(context.Background(), image("cat.png"), board); err != nil {
		t.Fatal(err)
	}
	a, _ := board.Get(epA.Key())
	b, _ := board.Get(epB.Key())
	if a.Status != orchestration.StatusFailed || a.Err.Error() != "Alpha request failed: connection refused" {
		t.Errorf("alpha = %+v", a)
	}
	if b.Status != orchestration.StatusSucceeded {
		t.Errorf("beta = %+v", b)
	}
}

func TestReverseCompletionOrder(t *testing.T) {
	t.Parallel()
	board := orchestration.NewBoard()
	d := newScripted().answer(epA, "from alpha", nil).answer(epB, "from beta", nil)
	gateA, gateB := d.gate(epA), d.gate(epB)

	resolved := make(chan string, 2)
	board.OnChange(func(ev orchestration.Event) {
		if ev.Kind == orchestration.EventResolved {
			resolved <- ev.Slot.Key
		}
	})

	run, err := orchestration.New(d, []endpoint.Endpoint{epA, epB}).Start(context.Background(), image("cat.png"), board)
	if err != nil {
		t.Fatal(err)
	}
	close(gateB)
	if got := <-resolved; got != epB.Key() {
		t.Fatalf("first resolution = %s, want %s", got, epB.Key())
	}
	close(gateA)
	if got := <-resolved; got != epA.Key() {
		t.Fatalf("second resolution = %s, want %s", got, epA.Key())
	}
	run.Wait()

	a, _ := board.Get(epA.Key())
	b, _ := board.Get(epB.Key())
	if a.Text != "from alpha" || b.Text != "from beta" {
		t.Errorf("slots crossed: alpha=%q beta=%q", a.Text, b.Text)
	}
}

func TestSecondRunSupersedesFirst(t *testing.T) {
	t.Parallel()
	board := orchestration.NewBoard()
	release := make(chan struct{})
	d := &runAwareDispatcher{release: release}
	o := orchestration.New(d, []endpoint.Endpoint{epA, epB})

	first, err := o.Start(context.Background(), image("first.png"), board)
	if err != nil {
		t.Fatal(err)
	}
	second, err := o.Start(context.Background(), image("second.png"), board)
	if err != nil {
		t.Fatal(err)
	}
	if second.ID <= first.ID {
		t.Fatalf("run ids must increase: %d then %d", first.ID, second.ID)
	}
	second.Wait()

	close(release)
	first.Wait()

	if board.Run() != second.ID {
		t.Fatalf("board shows run %d, want %d", board.Run(), second.ID)
	}
	for _, slot := range board.Snapshot() {
		if slot.Run != second.ID || slot.Text != "second.png" {
			t.Errorf("stale completion leaked into %s: %+v", slot.Name, slot)
		}
	}
}

// runAwareDispatcher holds every "first.png" request until release closes.
type runAwareDispatcher struct {
	release chan struct{}
}

func (d *runAwareDispatcher) Infer(ctx context.Context, _ endpoint.Endpoint, a *client.Artifact) (string, error) {
	if a.Name == "first.png" {
		<-d.release
	}
	return a.Name, nil
}

func TestSlowEndpointIsNotCancelled(t *testing.T) {
	t.Parallel()
	board := orchestration.NewBoard()
	d := newScripted().answer(epA, "", errors.New("boom")).answer(epB, "late but fine", nil)
	gateB := d.gate(epB)

	run, err := orchestration.New(d, []endpoint.Endpoint{epA, epB}).Start(context.Background(), image("cat.png"), board)
	if err != nil {
		t.Fatal(err)
	}
	deadline := time.After(2 * time.Second)
	for {
		if s, _ := board.Get(epA.Key()); s.Status.Terminal() {
			break
		}
		select {
		case <-deadline:
			t.Fatal("alpha never resolved")
		case <-time.After(5 * time.Millisecond):
		}
	}
	close(gateB)
	outcomes := run.Wait()
	if outcomes[1].Status != orchestration.StatusSucceeded {
		t.Errorf("beta must finish after alpha's failure, got %+v", outcomes[1])
	}
}

func TestObserverSeesLifecycle(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	obs := mocks.NewMockObserver(ctrl)
	obs.EXPECT().RunStarted(orchestration.RunID(1), 2).Times(1)
	obs.EXPECT().DispatchStarted(gomock.Any()).Times(2)
	obs.EXPECT().DispatchFinished(epA, orchestration.StatusSucceeded, gomock.Any()).Times(1)
	obs.EXPECT().DispatchFinished(epB, orchestration.StatusFailed, gomock.Any()).Times(1)

	d := newScripted().answer(epA, "ok", nil).answer(epB, "", errors.New("down"))
	o := orchestration.New(d, []endpoint.Endpoint{epA, epB}, orchestration.WithObserver(obs))
	if _, err := o.Execute(context.Background(), image("cat.png"), orchestration.NewBoard()); err != nil {
		t.Fatal(err)
	}
}

func TestElapsedUsesInjectedClock(t *testing.T) {
	t.Parallel()
	var tick atomic.Int64
	clock := func() time.Time {
		return time.Unix(0, 0).Add(time.Duration(tick.Add(1)) * 250 * time.Millisecond)
	}
	d := newScripted().answer(epA, "ok", nil)
	outcomes, err := orchestration.New(d, []endpoint.Endpoint{epA}, orchestration.WithClock(clock)).
		Execute(context.Background(), image("cat.png"), orchestration.NewBoard())
	if err != nil {
		t.Fatal(err)
	}
	if outcomes[0].Elapsed != 250*time.Millisecond {
		t.Errorf("elapsed = %v, want 250ms", outcomes[0].Elapsed)
	}
}

// lateResetBoard holds the reset of run 1 until run 2 has reset the board.
type lateResetBoard struct {
	*orchestration.Board
	secondReset chan struct{}
}

func (b *lateResetBoard) Reset(run orchestration.RunID, eps []endpoint.Endpoint) bool {
	if run == 1 {
		<-b.secondReset
		return b.Board.Reset(run, eps)
	}
	ok := b.Board.Reset(run, eps)
	close(b.secondReset)
	return ok
}

func TestOverlappingStartsKeepNewestRun(t *testing.T) {
	t.Parallel()
	board := &lateResetBoard{Board: orchestration.NewBoard(), secondReset: make(chan struct{})}
	d := newScripted().answer(epA, "a", nil).answer(epB, "b", nil)
	o := orchestration.New(d, []endpoint.Endpoint{epA, epB})

	runs := make(chan *orchestration.Run, 2)
	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			run, err := o.Start(context.Background(), image("cat.png"), board)
			if err != nil {
				t.Error(err)
				return
			}
			runs <- run
		}()
	}
	wg.Wait()
	close(runs)
	for run := range runs {
		run.Wait()
	}

	if got := board.Run(); got != 2 {
		t.Fatalf("board shows run %d after run 2 reset it", got)
	}
	for _, s := range board.Snapshot() {
		if s.Run != 2 || s.Status != orchestration.StatusSucceeded {
			t.Errorf("slot %s = run %d %v, want run 2 succeeded", s.Name, s.Run, s.Status)
		}
	}
}
