package device

import "sync"

// Event is a lightweight completion event. It is created once, then reused
// across launches with Reset/Record/Wait. Events carry no timing information.
type Event struct {
	mu sync.Mutex
	ch chan struct{}
}

// NewEvent creates an unarmed event.
func NewEvent() *Event {
	return &Event{}
}

// Reset arms the event for the next launch.
func (e *Event) Reset() {
	e.mu.Lock()
	e.ch = make(chan struct{})
	e.mu.Unlock()
}

// Record enqueues the event's completion on the stream, after all previously
// submitted work.
func (e *Event) Record(s *Stream) {
	s.Submit(e.complete)
}

func (e *Event) complete() {
	e.mu.Lock()
	ch := e.ch
	e.ch = nil
	e.mu.Unlock()
	if ch != nil {
		close(ch)
	}
}

// Wait blocks until the event completes. Waiting on an unarmed or already
// completed event returns immediately.
func (e *Event) Wait() {
	e.mu.Lock()
	ch := e.ch
	e.mu.Unlock()
	if ch != nil {
		<-ch
	}
}
