// Package loop schedules frame callbacks, either on a fixed-period timer or
// on a host's per-frame callback.
//
// At most one callback is in flight at any time. A timer tick that arrives
// while the previous callback is still running is dropped, not queued.
package loop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/ggview"
)

// Errors returned by Start.
var (
	// ErrRunning is returned when Start is called on a running loop.
	ErrRunning = errors.New("loop: already running")

	// ErrNoScheduler is returned when neither a frame rate nor a requester
	// was configured.
	ErrNoScheduler = errors.New("loop: no fps and no frame requester configured")

	// ErrInvalidFPS is returned when the frame rate is too high to give a
	// positive tick period.
	ErrInvalidFPS = errors.New("loop: fps too high for a positive tick period")
)

// Callback is invoked once per frame with the time since the previous
// frame and the time since the loop was created.
type Callback func(dt, elapsed time.Duration)

// FrameID identifies a pending host frame request.
type FrameID uint64

// Requester is a host that calls back once on its next frame, like a
// display's vsync callback. RequestFrame must return before fn runs.
type Requester interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

// handleKind tells Stop how to cancel the pending callback.
type handleKind int

const (
	handleInterval handleKind = iota + 1
	handleRequest
)

type handle struct {
	kind   handleKind
	cancel context.CancelFunc // handleInterval
	done   chan struct{}      // handleInterval: closed when the goroutine exits
	id     FrameID            // handleRequest
	stop   func() bool        // handleRequest: detaches the parent-context hook
}

// Option configures a Loop.
type Option func(*Loop)

// WithFPS runs the loop on a fixed-period timer of fps ticks per second.
func WithFPS(fps int) Option {
	return func(l *Loop) {
		l.fps = fps
	}
}

// WithRequester runs the loop on a host's per-frame callbacks. It is used
// when no fps is configured.
func WithRequester(r Requester) Option {
	return func(l *Loop) {
		l.requester = r
	}
}

// WithClock replaces time.Now, for tests and replays.
func WithClock(now func() time.Time) Option {
	return func(l *Loop) {
		l.now = now
	}
}

// Loop drives a Callback at frame rate.
type Loop struct {
	cb        Callback
	fps       int
	requester Requester
	now       func() time.Time

	start    time.Time
	inFlight atomic.Bool
	cbMu     sync.Mutex // held while the callback runs

	mu     sync.Mutex
	last   time.Time
	handle *handle
	done   chan struct{} // of the most recent interval run
	frames uint64
}

// New creates a stopped loop.
func New(cb Callback, opts ...Option) *Loop {
	l := &Loop{cb: cb, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	l.start = l.now()
	return l
}

// Start begins scheduling. Cancelling ctx stops the loop like Stop.
func (l *Loop) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.handle != nil {
		return ErrRunning
	}
	l.last = l.now()

	switch {
	case l.fps > 0:
		period := time.Second / time.Duration(l.fps)
		if period <= 0 {
			return ErrInvalidFPS
		}
		runCtx, cancel := context.WithCancel(ctx)
		h := &handle{kind: handleInterval, cancel: cancel, done: make(chan struct{})}
		l.handle = h
		l.done = h.done
		go l.runInterval(runCtx, h, period)
	case l.requester != nil:
		h := &handle{kind: handleRequest}
		l.handle = h
		h.stop = context.AfterFunc(ctx, func() { l.stopHandle(h) })
		h.id = l.requester.RequestFrame(func() { l.onRequestedFrame(h) })
	default:
		return ErrNoScheduler
	}
	return nil
}

// Stop cancels the pending callback. A callback already running is not
// interrupted; use Wait to block until it returns. Stopping a loop that is
// not running logs a warning and changes nothing.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.handle == nil {
		ggview.Logger().Warn("loop: tried to stop a loop that was not running")
		return
	}
	l.cancelLocked()
}

// Wait blocks until the interval goroutine of the last run has exited and
// no callback is running. Call it after Stop or after cancelling the
// context passed to Start. Wait must not be called from the callback.
func (l *Loop) Wait() {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	if done != nil {
		<-done
	}
	l.cbMu.Lock()
	//nolint:staticcheck // empty critical section waits out a running callback
	l.cbMu.Unlock()
}

// Running reports whether a callback is scheduled.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.handle != nil
}

// Frames returns the number of callbacks run so far.
func (l *Loop) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

func (l *Loop) cancelLocked() {
	h := l.handle
	switch h.kind {
	case handleInterval:
		h.cancel()
	case handleRequest:
		l.requester.CancelFrame(h.id)
		if h.stop != nil {
			h.stop()
		}
	default:
		ggview.Logger().Warn("loop: invalid handle kind, nothing cancelled", "kind", int(h.kind))
	}
	l.handle = nil
}

// stopHandle stops the loop if h is still the active handle.
func (l *Loop) stopHandle(h *handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.handle == h {
		l.cancelLocked()
	}
}

func (l *Loop) runInterval(ctx context.Context, h *handle, period time.Duration) {
	defer close(h.done)
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	defer l.stopHandle(h)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			l.tick(h)
		}
	}
}

func (l *Loop) onRequestedFrame(h *handle) {
	l.mu.Lock()
	active := l.handle == h
	l.mu.Unlock()
	if !active {
		return
	}

	l.tick(h)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.handle == h {
		h.id = l.requester.RequestFrame(func() { l.onRequestedFrame(h) })
	}
}

// tick runs the callback unless one is already running or h is no longer
// the active handle.
func (l *Loop) tick(h *handle) {
	if !l.inFlight.CompareAndSwap(false, true) {
		ggview.Logger().Debug("loop: frame still running, tick dropped")
		return
	}
	defer l.inFlight.Store(false)

	l.cbMu.Lock()
	defer l.cbMu.Unlock()

	l.mu.Lock()
	if l.handle != h {
		l.mu.Unlock()
		return
	}
	now := l.now()
	dt := now.Sub(l.last)
	l.last = now
	l.frames++
	l.mu.Unlock()

	if l.cb != nil {
		l.cb(dt, now.Sub(l.start))
	}
}
