//go:build js && wasm

package scheduler

import "syscall/js"

// RAFClock schedules frames with window.requestAnimationFrame
type RAFClock struct {
	window js.Value
}

// NewRAFClock returns a display-synced clock, or a TimerClock when the
// page has no requestAnimationFrame.
func NewRAFClock() Clock {
	window := js.Global().Get("window")
	if !window.Truthy() || !window.Get("requestAnimationFrame").Truthy() {
		if debugLog != nil {
			debugLog("[Scheduler] requestAnimationFrame unavailable, using timer")
		}
		return TimerClock{Interval: FrameInterval}
	}
	return &RAFClock{window: window}
}

// DefaultClock returns the frame source for the current platform
func DefaultClock() Clock {
	return NewRAFClock()
}

// Next implements Clock
func (c *RAFClock) Next(fn func()) func() {
	var cb js.Func
	released := false
	release := func() {
		if !released {
			released = true
			cb.Release()
		}
	}

	cb = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		release()
		fn()
		return nil
	})
	id := c.window.Call("requestAnimationFrame", cb)

	return func() {
		if released {
			return
		}
		c.window.Call("cancelAnimationFrame", id)
		release()
	}
}
