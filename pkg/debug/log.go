//go:build js && wasm
// +build js,wasm

package debug

import (
	"fmt"
	"syscall/js"
)

// Log logs a message to the browser console.
func Log(args ...interface{}) {
	js.Global().Get("console").Call("log", args...)
}

// Logf logs a formatted message to the browser console.
func Logf(format string, args ...interface{}) {
	js.Global().Get("console").Call("log", fmt.Sprintf(format, args...))
}

// Warnf logs a formatted warning to the browser console. Used for
// best-effort setup diagnostics like a missing viewport host; the engine
// never throws from inside event handlers.
func Warnf(format string, args ...interface{}) {
	js.Global().Get("console").Call("warn", fmt.Sprintf(format, args...))
}
