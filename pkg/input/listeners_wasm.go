//go:build js && wasm
// +build js,wasm

package input

import "syscall/js"

// Binding is the attached DOM listener set for one viewport host.
// Detach removes every listener and releases the js.Funcs.
type Binding struct {
	host    js.Value
	window  js.Value
	funcs   []js.Func
	removes []func()
}

// Bind attaches the capture-phase listener set to host: wheel, Safari
// gesture events, pointer events, window keydown, and window resize.
// Capture phase so native zoom/scroll can be cancelled before descendant
// handlers (including the drawing engine's DOM) see the event.
func Bind(host js.Value, arb *Arbiter, onResize func()) *Binding {
	b := &Binding{host: host, window: js.Global().Get("window")}

	captureActive := map[string]interface{}{"capture": true, "passive": false}
	capture := map[string]interface{}{"capture": true}

	b.listen(host, "wheel", captureActive, func(ev js.Value) {
		e := Event{
			Kind:      EvWheel,
			ClientX:   ev.Get("clientX").Float(),
			ClientY:   ev.Get("clientY").Float(),
			DeltaY:    ev.Get("deltaY").Float(),
			DeltaMode: DeltaMode(ev.Get("deltaMode").Int()),
			Ctrl:      ev.Get("ctrlKey").Bool(),
			Meta:      ev.Get("metaKey").Bool(),
		}
		// Browser page-zoom must never fire for a modifier wheel, so the
		// decision keys on the pure classification, not on whether the
		// arbiter applied a write (constraints or the significance filter
		// may swallow it).
		if ResolveIntent(e, arb.PanTool()).Kind == IntentZoomWheel {
			ev.Call("preventDefault")
		}
		arb.Handle(e)
	})

	// Safari-only trackpad pinch. Always cancelled: the browser's own
	// pinch zoom fights the camera.
	gesture := func(kind EventKind) func(js.Value) {
		return func(ev js.Value) {
			ge := Event{Kind: kind}
			if kind != EvGestureEnd {
				ge.ClientX = ev.Get("clientX").Float()
				ge.ClientY = ev.Get("clientY").Float()
			}
			if kind == EvGestureChange {
				ge.GestureScale = ev.Get("scale").Float()
			}
			arb.Handle(ge)
			ev.Call("preventDefault")
		}
	}
	b.listen(host, "gesturestart", captureActive, gesture(EvGestureStart))
	b.listen(host, "gesturechange", captureActive, gesture(EvGestureChange))
	b.listen(host, "gestureend", captureActive, gesture(EvGestureEnd))

	b.listen(host, "pointerdown", capture, func(ev js.Value) {
		kind := arb.Handle(pointerEvent(EvPointerDown, ev))
		if kind == IntentPanBegin {
			host.Call("setPointerCapture", ev.Get("pointerId"))
			ev.Call("preventDefault")
		}
	})
	b.listen(host, "pointermove", capture, func(ev js.Value) {
		arb.Handle(pointerEvent(EvPointerMove, ev))
	})
	release := func(kind EventKind) func(js.Value) {
		return func(ev js.Value) {
			handled := arb.Handle(pointerEvent(kind, ev))
			if handled == IntentPanEnd {
				pid := ev.Get("pointerId")
				if host.Call("hasPointerCapture", pid).Truthy() {
					host.Call("releasePointerCapture", pid)
				}
			}
		}
	}
	b.listen(host, "pointerup", capture, release(EvPointerUp))
	b.listen(host, "pointercancel", capture, release(EvPointerCancel))

	// Keyboard at the window so shortcuts work without viewport focus.
	b.listen(b.window, "keydown", capture, func(ev js.Value) {
		e := Event{
			Kind:     EvKeyDown,
			Key:      ev.Get("key").String(),
			Ctrl:     ev.Get("ctrlKey").Bool(),
			Meta:     ev.Get("metaKey").Bool(),
			Editable: isEditableTarget(ev.Get("target")),
		}
		// Same rule as wheel: a zoom-shaped shortcut cancels the native
		// binding even when the arbiter declines to act on it.
		if k := ResolveIntent(e, arb.PanTool()).Kind; k == IntentZoomStep || k == IntentZoomReset {
			ev.Call("preventDefault")
			ev.Call("stopPropagation")
		}
		arb.Handle(e)
	})

	b.listen(b.window, "resize", capture, func(js.Value) {
		onResize()
	})

	return b
}

// Detach removes all listeners and releases their js.Funcs.
func (b *Binding) Detach() {
	for _, rm := range b.removes {
		rm()
	}
	b.removes = nil
	for _, f := range b.funcs {
		f.Release()
	}
	b.funcs = nil
}

func (b *Binding) listen(target js.Value, name string, opts map[string]interface{}, fn func(js.Value)) {
	cb := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) > 0 {
			fn(args[0])
		}
		return nil
	})
	optVal := js.ValueOf(opts)
	target.Call("addEventListener", name, cb, optVal)
	b.funcs = append(b.funcs, cb)
	b.removes = append(b.removes, func() {
		target.Call("removeEventListener", name, cb, optVal)
	})
}

func pointerEvent(kind EventKind, ev js.Value) Event {
	return Event{
		Kind:    kind,
		ClientX: ev.Get("clientX").Float(),
		ClientY: ev.Get("clientY").Float(),
	}
}

// isEditableTarget reports whether the event target is a text-editing
// element, in which case zoom shortcuts must not steal the keystroke.
func isEditableTarget(target js.Value) bool {
	if !target.Truthy() {
		return false
	}
	tag := target.Get("tagName")
	if tag.Truthy() {
		switch tag.String() {
		case "INPUT", "TEXTAREA", "SELECT":
			return true
		}
	}
	if ce := target.Get("isContentEditable"); ce.Truthy() {
		return true
	}
	return false
}
