package harness

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mistial-dev/deathnote/element"
)

// RecordedEvent is one captured event construction.
type RecordedEvent struct {
	ID     uuid.UUID
	Type   string
	Detail any
}

// Recorder captures events in construction order. Safe for concurrent
// use; the zero value is ready.
type Recorder struct {
	mu     sync.Mutex
	events []RecordedEvent
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(typ string, detail any) element.Event {
	ev := RecordedEvent{ID: uuid.New(), Type: typ, Detail: detail}
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	return &inertEvent{rec: ev}
}

// Events returns a copy of the captured events, oldest first.
func (r *Recorder) Events() []RecordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RecordedEvent(nil), r.events...)
}

// Len reports how many events have been captured.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Reset discards the captured events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// inertEvent is the event handed back to code under test. Cancellation
// is a no-op so dispatch paths cannot alter recorder state.
type inertEvent struct {
	rec RecordedEvent
}

func (e *inertEvent) Type() string           { return e.rec.Type }
func (e *inertEvent) Detail() any            { return e.rec.Detail }
func (e *inertEvent) PreventDefault()        {}
func (e *inertEvent) StopPropagation()       {}
func (e *inertEvent) DefaultPrevented() bool { return false }
