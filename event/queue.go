package event

import "sync"

// Queue buffers posted events and delivers them to listeners in posting order.
//
// Post is safe for concurrent use. Listen and Dispatch are meant to be called
// from the frame thread; handlers never run concurrently with each other.
type Queue struct {
	mu       sync.Mutex
	pending  []Event
	handlers map[Type][]Handler
}

// Ensure Queue implements Source and Dispatcher.
var (
	_ Source     = (*Queue)(nil)
	_ Dispatcher = (*Queue)(nil)
)

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		pending:  make([]Event, 0, 32),
		handlers: make(map[Type][]Handler),
	}
}

// Listen registers h for events of type t.
// Handlers for the same type run in registration order.
func (q *Queue) Listen(t Type, h Handler) {
	if h == nil {
		return
	}
	q.mu.Lock()
	q.handlers[t] = append(q.handlers[t], h)
	q.mu.Unlock()
}

// Post appends ev to the pending buffer. It never blocks on handlers.
func (q *Queue) Post(ev Event) {
	q.mu.Lock()
	q.pending = append(q.pending, ev)
	q.mu.Unlock()
}

// Len returns the number of events waiting for Dispatch.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Dispatch delivers every event pending at the time of the call.
// Events posted by handlers during Dispatch are kept for the next call.
func (q *Queue) Dispatch() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = make([]Event, 0, cap(batch))
	q.mu.Unlock()

	for _, ev := range batch {
		q.mu.Lock()
		hs := q.handlers[ev.Type]
		q.mu.Unlock()
		for _, h := range hs {
			h(ev)
		}
	}
	return len(batch)
}
