//go:build !js || !wasm

package debug

import (
	"fmt"
	"log"
)

// Log writes a message through the standard logger
func Log(args ...interface{}) {
	log.Println(args...)
}

// Logf writes a formatted message through the standard logger
func Logf(format string, args ...interface{}) {
	log.Print(fmt.Sprintf(format, args...))
}
