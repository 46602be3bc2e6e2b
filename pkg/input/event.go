// Package input owns event arbitration for the viewport: it classifies
// raw wheel/gesture/keyboard/pointer events into a closed intent set and
// turns each intent into a camera write through the shared anchoring
// math. Classification is pure and happens exactly once at the boundary,
// so wheel, pinch, and keyboard zoom cannot drift apart behaviorally.
package input

// EventKind tags the raw event variant captured at the DOM boundary.
type EventKind int

const (
	EvWheel EventKind = iota
	EvGestureStart
	EvGestureChange
	EvGestureEnd
	EvKeyDown
	EvPointerDown
	EvPointerMove
	EvPointerUp
	EvPointerCancel
)

// DeltaMode mirrors WheelEvent.deltaMode.
type DeltaMode int

const (
	DeltaPixel DeltaMode = iota
	DeltaLine
	DeltaPage
)

// Event is the tagged-variant input event. Only the fields relevant to
// the Kind are populated.
type Event struct {
	Kind EventKind

	ClientX float64
	ClientY float64

	// wheel
	DeltaY    float64
	DeltaMode DeltaMode

	// Safari gesture events: cumulative scale factor since gesturestart
	GestureScale float64

	// keyboard
	Key      string
	Ctrl     bool
	Meta     bool
	Editable bool // focus is inside a text-editing target
}

// IntentKind is the closed set of things an event can mean to the camera.
type IntentKind int

const (
	// IntentIgnore: not ours; no side effects at all.
	IntentIgnore IntentKind = iota
	// IntentNativeScroll: explicitly left to the browser/container;
	// the listener must not preventDefault.
	IntentNativeScroll
	// IntentZoomWheel: continuous zoom from a modifier+wheel event.
	IntentZoomWheel
	// IntentZoomStep: discrete zoom from keyboard +/-, anchored at the
	// viewport center.
	IntentZoomStep
	// IntentZoomReset: keyboard 0 / recenter command.
	IntentZoomReset
	// IntentPinchBegin/Update/End: Safari trackpad pinch lifecycle.
	IntentPinchBegin
	IntentPinchUpdate
	IntentPinchEnd
	// IntentPanBegin/Update/End: pointer drag while the pan tool is
	// active.
	IntentPanBegin
	IntentPanUpdate
	IntentPanEnd
)

// Intent is the resolved meaning of one event.
type Intent struct {
	Kind IntentKind

	// Anchor is the client point the zoom is pinned to (wheel/pinch).
	AnchorX float64
	AnchorY float64

	// Delta is the normalized wheel delta (pixels) for IntentZoomWheel.
	Delta float64

	// Factor is the cumulative pinch factor for IntentPinchUpdate.
	Factor float64

	// Direction is +1 (in) or -1 (out) for IntentZoomStep.
	Direction int
}

// Wheel delta normalization. deltaMode line and page events report counts
// rather than pixels; convert so the sensitivity curve sees one unit.
const (
	wheelLinePixels = 16
	wheelPagePixels = 800
)

// NormalizeWheelDelta converts a wheel delta to pixels across deltaMode
// units.
func NormalizeWheelDelta(delta float64, mode DeltaMode) float64 {
	switch mode {
	case DeltaLine:
		return delta * wheelLinePixels
	case DeltaPage:
		return delta * wheelPagePixels
	default:
		return delta
	}
}

// ResolveIntent classifies one event. panTool says whether the dedicated
// pan tool is active (pointer events pan only then). The function is pure:
// all gesture/drag lifecycle state lives in the Arbiter.
func ResolveIntent(ev Event, panTool bool) Intent {
	switch ev.Kind {
	case EvWheel:
		if !(ev.Ctrl || ev.Meta) {
			// Plain wheel scroll stays native; breaking normal
			// scrolling is worse than any zoom feature.
			return Intent{Kind: IntentNativeScroll}
		}
		return Intent{
			Kind:    IntentZoomWheel,
			AnchorX: ev.ClientX,
			AnchorY: ev.ClientY,
			Delta:   NormalizeWheelDelta(ev.DeltaY, ev.DeltaMode),
		}

	case EvGestureStart:
		return Intent{Kind: IntentPinchBegin, AnchorX: ev.ClientX, AnchorY: ev.ClientY}
	case EvGestureChange:
		return Intent{Kind: IntentPinchUpdate, Factor: ev.GestureScale}
	case EvGestureEnd:
		return Intent{Kind: IntentPinchEnd}

	case EvKeyDown:
		if ev.Editable {
			// Typing wins: exit before any side effect.
			return Intent{Kind: IntentIgnore}
		}
		if !(ev.Ctrl || ev.Meta) {
			return Intent{Kind: IntentIgnore}
		}
		switch ev.Key {
		case "+", "=":
			return Intent{Kind: IntentZoomStep, Direction: 1}
		case "-", "_":
			return Intent{Kind: IntentZoomStep, Direction: -1}
		case "0":
			return Intent{Kind: IntentZoomReset}
		}
		return Intent{Kind: IntentIgnore}

	case EvPointerDown:
		if !panTool {
			return Intent{Kind: IntentIgnore}
		}
		return Intent{Kind: IntentPanBegin, AnchorX: ev.ClientX, AnchorY: ev.ClientY}
	case EvPointerMove:
		if !panTool {
			return Intent{Kind: IntentIgnore}
		}
		return Intent{Kind: IntentPanUpdate, AnchorX: ev.ClientX, AnchorY: ev.ClientY}
	case EvPointerUp, EvPointerCancel:
		if !panTool {
			return Intent{Kind: IntentIgnore}
		}
		return Intent{Kind: IntentPanEnd}
	}
	return Intent{Kind: IntentIgnore}
}
