package scheduler

import (
	"sync"
	"sync/atomic"
	"time"
)

// FrameInterval is the fallback frame period used when no display-synced
// frame source exists (~60 Hz).
const FrameInterval = 16 * time.Millisecond

// debugLog is set by platform-specific code
var debugLog func(args ...interface{})

// SetDebugLog sets the debug logging function
func SetDebugLog(fn func(args ...interface{})) {
	debugLog = fn
}

// Slot holds the latest pending payload of one kind of work. Writers
// overwrite whatever is pending; the reader takes and clears it.
type Slot[T any] struct {
	mu      sync.Mutex
	value   T
	pending bool
}

// Put replaces the pending payload
func (s *Slot[T]) Put(v T) {
	s.mu.Lock()
	s.value = v
	s.pending = true
	s.mu.Unlock()
}

// Take returns the pending payload and clears the slot. ok is false when
// nothing was pending.
func (s *Slot[T]) Take() (v T, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok = s.value, s.pending
	var zero T
	s.value = zero
	s.pending = false
	return v, ok
}

// Pending reports whether a payload is waiting
func (s *Slot[T]) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Clock schedules frame callbacks
type Clock interface {
	// Next arranges for fn to run once on the next frame and returns a
	// function that cancels the request if it has not fired yet.
	Next(fn func()) (cancel func())
}

// TimerClock fires frames on a fixed interval
type TimerClock struct {
	Interval time.Duration
}

// Next implements Clock
func (c TimerClock) Next(fn func()) func() {
	interval := c.Interval
	if interval <= 0 {
		interval = FrameInterval
	}
	t := time.AfterFunc(interval, fn)
	return func() { t.Stop() }
}

// Loop invokes a frame callback once per clock frame until stopped
type Loop struct {
	clock Clock
	frame func()

	mu      sync.Mutex
	running bool
	cancel  func()

	frames atomic.Uint64
}

// NewLoop creates a loop; it does nothing until Start is called
func NewLoop(clock Clock, frame func()) *Loop {
	if clock == nil {
		clock = DefaultClock()
	}
	return &Loop{
		clock: clock,
		frame: frame,
	}
}

// Start begins requesting frames. Starting a running loop is a no-op.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		if debugLog != nil {
			debugLog("[Scheduler] Loop already running")
		}
		return
	}

	l.running = true
	l.cancel = l.clock.Next(l.tick)
	if debugLog != nil {
		debugLog("[Scheduler] Loop started")
	}
}

// Stop cancels the pending frame. Once Stop returns no further frame
// callback runs. Stop is idempotent and must not be called from inside the
// frame callback.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return
	}

	l.running = false
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	if debugLog != nil {
		debugLog("[Scheduler] Loop stopped after", l.frames.Load(), "frames")
	}
}

// IsRunning returns whether the loop is requesting frames
func (l *Loop) IsRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Frames returns how many frame callbacks have run
func (l *Loop) Frames() uint64 {
	return l.frames.Load()
}

func (l *Loop) tick() {
	l.mu.Lock()
	defer l.mu.Unlock()

	// A frame that was already in flight when Stop ran
	if !l.running {
		return
	}

	if l.frame != nil {
		l.frame()
	}
	l.frames.Add(1)
	l.cancel = l.clock.Next(l.tick)
}
