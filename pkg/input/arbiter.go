package input

import (
	"github.com/recera/inkview/pkg/camera"
	"github.com/recera/inkview/pkg/fitmode"
	"github.com/recera/inkview/pkg/geom"
)

// scaleEpsilon is the significance filter for zoom writes; candidate
// scales closer than this to the current scale are dropped so wheel noise
// doesn't trigger redundant re-renders.
const scaleEpsilon = 0.002

// GestureBaseline is captured on gesturestart and consumed on every
// gesturechange. The anchor is frozen at the start point: re-measuring
// the anchor mid-pinch jitters the zoom.
type GestureBaseline struct {
	Scale         float64
	ScrollX       float64
	ScrollY       float64
	AnchorClientX float64
	AnchorClientY float64
}

// dragBaseline is the last pointer position during a pan drag. Panning is
// incremental against the previous move, not anchored to the start, so it
// never "catches up" after a pause.
type dragBaseline struct {
	lastClientX float64
	lastClientY float64
}

// Arbiter owns gesture/drag lifecycle state and converts resolved intents
// into camera writes. Every zoom source funnels through the same
// anchoring call and the same significance filter, and reports to the fit
// controller's hysteresis identically, regardless of where the event came
// from.
type Arbiter struct {
	store *camera.Store
	fit   *fitmode.Controller

	// viewport origin in client coordinates, updated on every measure
	origin geom.Point

	panTool bool
	pinch   *GestureBaseline
	drag    *dragBaseline

	// ScaleEpsilon overrides the default significance filter when > 0.
	ScaleEpsilon float64
}

// NewArbiter wires an arbiter to the store and fit controller.
func NewArbiter(store *camera.Store, fit *fitmode.Controller) *Arbiter {
	return &Arbiter{store: store, fit: fit}
}

// SetOrigin records the viewport's client-space origin.
func (a *Arbiter) SetOrigin(p geom.Point) { a.origin = p }

// SetPanTool switches the dedicated pan tool on or off. Turning it off
// mid-drag ends the drag.
func (a *Arbiter) SetPanTool(active bool) {
	a.panTool = active
	if !active {
		a.drag = nil
	}
}

// PanTool reports whether the pan tool is active.
func (a *Arbiter) PanTool() bool { return a.panTool }

// MidGesture reports whether a pinch or drag is in flight; the resize
// pipeline skips auto-refit while one is.
func (a *Arbiter) MidGesture() bool { return a.pinch != nil || a.drag != nil }

// Reset discards any in-flight baselines, unconditionally. Called on
// unmount.
func (a *Arbiter) Reset() {
	a.pinch = nil
	a.drag = nil
}

// Handle classifies ev and applies it to the camera. It returns the
// resolved intent kind so the DOM layer can decide preventDefault
// behavior from the same classification.
func (a *Arbiter) Handle(ev Event) IntentKind {
	intent := ResolveIntent(ev, a.panTool)
	st := a.store.Get()

	switch intent.Kind {
	case IntentZoomWheel:
		if !st.Constraints.EnableZoom {
			return IntentIgnore
		}
		a.store.Suspend()
		sens := geom.AdaptiveZoomSensitivity(st.Scale)
		a.zoomAnchored(st, st.Scale*(1-intent.Delta*sens), intent.AnchorX, intent.AnchorY)

	case IntentPinchBegin:
		if !st.Constraints.EnableZoom {
			return IntentIgnore
		}
		a.store.Suspend()
		a.pinch = &GestureBaseline{
			Scale:         st.Scale,
			ScrollX:       st.ScrollX,
			ScrollY:       st.ScrollY,
			AnchorClientX: intent.AnchorX,
			AnchorClientY: intent.AnchorY,
		}

	case IntentPinchUpdate:
		if a.pinch == nil {
			return IntentIgnore
		}
		factor := intent.Factor
		if factor <= 0 {
			factor = 1
		}
		a.zoomAnchored(st, a.pinch.Scale*factor, a.pinch.AnchorClientX, a.pinch.AnchorClientY)

	case IntentPinchEnd:
		a.pinch = nil

	case IntentZoomStep:
		if !st.Constraints.EnableZoom {
			return IntentIgnore
		}
		a.store.Suspend()
		step := geom.AdaptiveZoomStep(st.Scale) * float64(intent.Direction)
		cx := a.origin.X + st.ViewportSize.W/2
		cy := a.origin.Y + st.ViewportSize.H/2
		a.zoomAnchored(st, st.Scale+step, cx, cy)

	case IntentZoomReset:
		a.store.Suspend()
		a.fit.Recenter()

	case IntentPanBegin:
		if !st.Constraints.EnablePan {
			return IntentIgnore
		}
		a.store.Suspend()
		a.drag = &dragBaseline{lastClientX: intent.AnchorX, lastClientY: intent.AnchorY}

	case IntentPanUpdate:
		if a.drag == nil {
			return IntentIgnore
		}
		scale := geom.SafeScale(st.Scale)
		dx := (intent.AnchorX - a.drag.lastClientX) / scale
		dy := (intent.AnchorY - a.drag.lastClientY) / scale
		// Content follows the pointer: dragging right scrolls left.
		a.store.Pan(-dx, -dy)
		a.drag.lastClientX = intent.AnchorX
		a.drag.lastClientY = intent.AnchorY

	case IntentPanEnd:
		a.drag = nil
	}

	return intent.Kind
}

// ZoomToScale zooms programmatically to newScale, anchored at the
// viewport center. Programmatic zoom is user intent (buttons, chrome UI),
// so it suspends like any other input.
func (a *Arbiter) ZoomToScale(newScale float64) {
	st := a.store.Get()
	if !st.Constraints.EnableZoom {
		return
	}
	a.store.Suspend()
	cx := a.origin.X + st.ViewportSize.W/2
	cy := a.origin.Y + st.ViewportSize.H/2
	a.zoomAnchored(st, newScale, cx, cy)
}

// zoomAnchored is the single write path for every zoom source: clamp,
// significance-filter, feed the hysteresis, then solve the anchored
// scroll and write.
func (a *Arbiter) zoomAnchored(st camera.State, newScale, anchorX, anchorY float64) {
	newScale = geom.ClampScale(newScale, st.Constraints.MinScale, st.Constraints.MaxScale)

	eps := a.ScaleEpsilon
	if eps <= 0 {
		eps = scaleEpsilon
	}
	if !geom.IsSignificantScaleChange(st.Scale, newScale, eps) {
		return
	}

	a.fit.ObserveZoom(newScale)

	next := geom.ZoomAtClientPoint(
		anchorX, anchorY, newScale,
		st.Camera(), a.origin, st.ViewportSize, &st.VirtualSize, st.Gutter,
	)
	a.store.Set(camera.Patch{
		Scale:   camera.Float(next.Scale),
		ScrollX: camera.Float(next.ScrollX),
		ScrollY: camera.Float(next.ScrollY),
	}, true)
}
