//go:build !js || !wasm

package scheduler

// DefaultClock returns the frame source for the current platform: a fixed
// interval timer outside the browser.
func DefaultClock() Clock {
	return TimerClock{Interval: FrameInterval}
}
