package scheduler

import "sync"

// ManualClock only fires frames when Advance is called. It lets tests drive
// a Loop deterministically.
type ManualClock struct {
	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]func()
}

// NewManualClock creates a manual clock with nothing scheduled
func NewManualClock() *ManualClock {
	return &ManualClock{pending: make(map[uint64]func())}
}

// Next implements Clock
func (c *ManualClock) Next(fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.pending[id] = fn

	return func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}
}

// Advance fires every callback that was scheduled before the call and
// returns how many ran. Callbacks scheduled while advancing wait for the
// next Advance.
func (c *ManualClock) Advance() int {
	c.mu.Lock()
	due := c.pending
	c.pending = make(map[uint64]func())
	c.mu.Unlock()

	for _, fn := range due {
		fn()
	}
	return len(due)
}

// Pending returns how many callbacks are waiting
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
