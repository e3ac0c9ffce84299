package orchestration

import (
	"sync"
	"time"

	"github.com/agbru/omnisum/internal/endpoint"
)

// Slot is the display state of one endpoint within a run.
type Slot struct {
	Run       RunID
	Key       string
	Name      string
	Status    Status
	Text      string
	Err       error
	Elapsed   time.Duration
	StartedAt time.Time
}

// EventKind distinguishes board notifications.
type EventKind int

const (
	// EventReset is sent when a new run replaced every slot.
	EventReset EventKind = iota
	// EventResolved is sent when one slot reached a terminal state.
	EventResolved
)

// Event describes one board change. Slots holds the full board after a
// reset; Slot holds the transitioned slot after a resolve.
type Event struct {
	Kind  EventKind
	Run   RunID
	Slot  Slot
	Slots []Slot
}

// Board is the in-memory Container shared by the line CLI and the
// dashboard. Slots are looked up by endpoint key and kept in dispatch order.
type Board struct {
	// notify serializes listener calls and keeps them in transition order.
	notify sync.Mutex

	mu       sync.RWMutex
	run      RunID
	order    []string
	slots    map[string]*Slot
	listener func(Event)
	now      func() time.Time
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{slots: make(map[string]*Slot), now: time.Now}
}

// OnChange registers fn to be called after every reset and every accepted
// resolve. Calls are serialized. fn may read the board but must not modify
// it.
func (b *Board) OnChange(fn func(Event)) {
	b.notify.Lock()
	defer b.notify.Unlock()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listener = fn
}

// Reset implements Container. A run that is not newer than the one on the
// board is refused, so overlapping starts always leave the newest run shown.
func (b *Board) Reset(run RunID, eps []endpoint.Endpoint) bool {
	b.notify.Lock()
	defer b.notify.Unlock()

	b.mu.Lock()
	if run <= b.run {
		b.mu.Unlock()
		return false
	}
	now := b.now()
	b.run = run
	b.order = make([]string, 0, len(eps))
	b.slots = make(map[string]*Slot, len(eps))
	for _, ep := range eps {
		key := ep.Key()
		b.order = append(b.order, key)
		b.slots[key] = &Slot{Run: run, Key: key, Name: ep.Name, Status: StatusPending, StartedAt: now}
	}
	listener := b.listener
	snapshot := b.snapshotLocked()
	b.mu.Unlock()

	if listener != nil {
		listener(Event{Kind: EventReset, Run: run, Slots: snapshot})
	}
	return true
}

// Resolve implements Container.
func (b *Board) Resolve(o Outcome) bool {
	b.notify.Lock()
	defer b.notify.Unlock()

	b.mu.Lock()
	if o.Run != b.run {
		b.mu.Unlock()
		return false
	}
	slot, ok := b.slots[o.Endpoint.Key()]
	if !ok || slot.Status.Terminal() || !o.Status.Terminal() {
		b.mu.Unlock()
		return false
	}
	slot.Status = o.Status
	slot.Text = o.Text
	slot.Err = o.Err
	slot.Elapsed = o.Elapsed
	resolved := *slot
	listener := b.listener
	b.mu.Unlock()

	if listener != nil {
		listener(Event{Kind: EventResolved, Run: o.Run, Slot: resolved})
	}
	return true
}

// Run returns the identifier of the run the board currently shows.
func (b *Board) Run() RunID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.run
}

// Get returns the slot stored under key.
func (b *Board) Get(key string) (Slot, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.slots[key]
	if !ok {
		return Slot{}, false
	}
	return *s, true
}

// Snapshot returns a copy of every slot in dispatch order.
func (b *Board) Snapshot() []Slot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshotLocked()
}

// Pending returns the number of slots still in flight.
func (b *Board) Pending() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, s := range b.slots {
		if s.Status == StatusPending {
			n++
		}
	}
	return n
}

func (b *Board) snapshotLocked() []Slot {
	out := make([]Slot, 0, len(b.order))
	for _, key := range b.order {
		out = append(out, *b.slots[key])
	}
	return out
}
