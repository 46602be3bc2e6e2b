//go:build !js || !wasm
// +build !js !wasm

package schedule

// Default returns the platform's timer implementation: StdTimers on
// native targets.
func Default() Timers { return StdTimers{} }
