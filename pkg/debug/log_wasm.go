//go:build js && wasm
// +build js,wasm

package debug

import (
	"fmt"
	"syscall/js"
)

// Log logs a message to the console
func Log(args ...interface{}) {
	js.Global().Get("console").Call("log", jsArgs(args)...)
}

// Logf logs a formatted message to the console
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	js.Global().Get("console").Call("log", msg)
}

// jsArgs keeps values the console understands and stringifies the rest
func jsArgs(args []interface{}) []interface{} {
	out := make([]interface{}, len(args))
	for i, a := range args {
		switch a.(type) {
		case string, bool, int, int64, uint64, float64, nil:
			out[i] = a
		default:
			out[i] = fmt.Sprint(a)
		}
	}
	return out
}
