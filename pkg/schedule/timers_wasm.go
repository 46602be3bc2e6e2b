//go:build js && wasm
// +build js,wasm

package schedule

import (
	"syscall/js"
	"time"
)

// JSTimers implements Timers on the browser's setTimeout and
// requestAnimationFrame. The js.Func is released exactly once, whether
// the callback fires or the handle is cancelled first.
type JSTimers struct{}

// Default returns the platform's timer implementation: JSTimers in the
// browser.
func Default() Timers { return JSTimers{} }

// SetTimeout implements Timers.
func (JSTimers) SetTimeout(d time.Duration, fn func()) (cancel func()) {
	done := false
	var cb js.Func
	cb = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if done {
			return nil
		}
		done = true
		cb.Release()
		fn()
		return nil
	})
	id := js.Global().Call("setTimeout", cb, d.Milliseconds())
	return func() {
		if done {
			return
		}
		done = true
		js.Global().Call("clearTimeout", id)
		cb.Release()
	}
}

// RequestFrame implements Timers.
func (JSTimers) RequestFrame(fn func()) (cancel func()) {
	done := false
	var cb js.Func
	cb = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if done {
			return nil
		}
		done = true
		cb.Release()
		fn()
		return nil
	})
	id := js.Global().Call("requestAnimationFrame", cb)
	return func() {
		if done {
			return
		}
		done = true
		js.Global().Call("cancelAnimationFrame", id)
		cb.Release()
	}
}
