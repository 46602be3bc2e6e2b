//go:build !js || !wasm
// +build !js !wasm

package viewport

// Mount is only available in WASM builds; natively the engine is driven
// through Boot and an injected measure function.
func (e *Engine) Mount(selector string) bool {
	return false
}

// Unmount mirrors the WASM lifecycle on native builds.
func (e *Engine) Unmount() {
	e.Close()
}
