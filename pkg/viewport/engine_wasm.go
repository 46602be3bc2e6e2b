//go:build js && wasm
// +build js,wasm

package viewport

import (
	"fmt"
	"syscall/js"

	"github.com/recera/inkview/pkg/camera"
	"github.com/recera/inkview/pkg/debug"
	"github.com/recera/inkview/pkg/geom"
	"github.com/recera/inkview/pkg/input"
)

// domMount holds the DOM-side resources for one mounted engine.
type domMount struct {
	host     js.Value
	binding  *input.Binding
	unsubCSS func()
	dprFunc  js.Func
	dprQuery js.Value
}

var mount *domMount

// Mount binds the engine to the host element matching selector: measures
// it, attaches the capture-phase listener set, publishes the camera as
// CSS custom properties, and starts watching devicePixelRatio. Returns
// false (after a console warning) when the host is missing, in which case
// the engine no-ops until a valid mount.
func (e *Engine) Mount(selector string) bool {
	doc := js.Global().Get("document")
	host := doc.Call("querySelector", selector)
	if !host.Truthy() {
		debug.Warnf("viewport: host %q not found, engine disabled", selector)
		return false
	}

	e.SetMeasureFunc(func() Measurement {
		if !host.Truthy() {
			return Measurement{}
		}
		rect := host.Call("getBoundingClientRect")
		return Measurement{
			Origin: geom.Point{X: rect.Get("left").Float(), Y: rect.Get("top").Float()},
			Size:   geom.Size{W: rect.Get("width").Float(), H: rect.Get("height").Float()},
			OK:     true,
		}
	})

	m := &domMount{host: host}

	// The camera reaches the DOM through custom properties only; the
	// transform is computed once here and consumed declaratively by CSS.
	m.unsubCSS = e.store.Subscribe(func(st camera.State) {
		applyCSSVars(host, st)
	})
	applyCSSVars(host, e.store.Get())

	m.binding = input.Bind(host, e.arb, e.HandleResize)

	if dpr := js.Global().Get("devicePixelRatio"); dpr.Truthy() {
		e.SetDevicePixelRatio(dpr.Float())
	}
	e.watchDPR(m)

	mount = m
	e.Boot()
	return true
}

// Unmount detaches listeners, cancels pending resize work, and releases
// DOM resources.
func (e *Engine) Unmount() {
	e.Close()
	if mount == nil {
		return
	}
	if mount.binding != nil {
		mount.binding.Detach()
	}
	if mount.unsubCSS != nil {
		mount.unsubCSS()
	}
	if mount.dprQuery.Truthy() {
		mount.dprQuery.Call("removeEventListener", "change", mount.dprFunc)
		mount.dprFunc.Release()
	}
	mount = nil
}

// watchDPR re-arms a matchMedia query at the current DPR; zooming the OS
// or dragging the window across monitors fires it once, after which we
// republish and re-arm at the new ratio.
func (e *Engine) watchDPR(m *domMount) {
	query := fmt.Sprintf("(resolution: %.2fdppx)", js.Global().Get("devicePixelRatio").Float())
	mq := js.Global().Call("matchMedia", query)
	if !mq.Truthy() {
		return
	}
	m.dprFunc = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		mq.Call("removeEventListener", "change", m.dprFunc)
		m.dprFunc.Release()
		e.SetDevicePixelRatio(js.Global().Get("devicePixelRatio").Float())
		e.watchDPR(m)
		return nil
	})
	mq.Call("addEventListener", "change", m.dprFunc)
	m.dprQuery = mq
}

// applyCSSVars publishes the camera transform to the host's custom
// properties. Offsets are in CSS pixels: world scroll × scale, negated so
// the page content translates opposite the camera.
func applyCSSVars(host js.Value, st camera.State) {
	style := host.Get("style")
	style.Call("setProperty", "--scale", fmt.Sprintf("%.5f", st.Scale))
	style.Call("setProperty", "--offset-x", fmt.Sprintf("%.2fpx", -st.ScrollX*st.Scale))
	style.Call("setProperty", "--offset-y", fmt.Sprintf("%.2fpx", -st.ScrollY*st.Scale))
}
