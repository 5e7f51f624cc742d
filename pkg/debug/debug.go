// Package debug routes the debug hooks of the menu packages to a log sink:
// the browser console under js/wasm and the standard logger elsewhere.
package debug

import (
	"github.com/recera/piemenu/pkg/canvas"
	"github.com/recera/piemenu/pkg/gesture"
	"github.com/recera/piemenu/pkg/scheduler"
)

// EnableLogging enables debug logging for the scheduler, canvas and
// gesture packages
func EnableLogging() {
	install(Log)
}

// DisableLogging silences every debug hook
func DisableLogging() {
	install(nil)
}

func install(logFn func(args ...interface{})) {
	scheduler.SetDebugLog(logFn)
	canvas.SetDebugLog(logFn)
	gesture.SetDebugLog(logFn)
}
