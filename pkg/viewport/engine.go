// Package viewport assembles the camera store, coordinate math, input
// arbitration, fit controller, and resolution publisher into one engine
// owned by the viewport's lifetime. The portable core here has no DOM
// dependency; engine_wasm.go binds it to a browser host element.
package viewport

import (
	"time"

	"github.com/recera/inkview/pkg/camera"
	"github.com/recera/inkview/pkg/fitmode"
	"github.com/recera/inkview/pkg/geom"
	"github.com/recera/inkview/pkg/input"
	"github.com/recera/inkview/pkg/resolution"
	"github.com/recera/inkview/pkg/schedule"
)

// Options configures an Engine. Zero values fall back to the shipped
// defaults.
type Options struct {
	// PageSize is the fixed logical page, e.g. 1200×2200.
	PageSize geom.Size
	// VirtualSize is the page plus padding/gutter for scroll clamping;
	// defaults to PageSize.
	VirtualSize geom.Size
	// Constraints bound the camera.
	Constraints camera.Constraints
	// Tuning holds the fit-mode hysteresis constants.
	Tuning fitmode.Tuning
	// ScaleEpsilon overrides the arbiter's zoom significance filter;
	// zero keeps the shipped default.
	ScaleEpsilon float64
	// Limits are the backing-store device ceilings.
	Limits resolution.Limits
	// Gutter is the scroll slack past the content edge, in page units.
	Gutter float64
	// ResizeDebounce is the quiet period before a resize recompute.
	ResizeDebounce time.Duration
	// Timers drives the resize debounce/frame chain.
	Timers schedule.Timers
	// Clock is the hysteresis time source; nil means time.Now.
	Clock func() time.Time
	// OnResolution receives backing-store sizes for the drawing engine.
	OnResolution resolution.Listener
}

func (o Options) withDefaults() Options {
	if o.PageSize.W <= 0 || o.PageSize.H <= 0 {
		o.PageSize = geom.Size{W: 1200, H: 2200}
	}
	if o.VirtualSize.W <= 0 || o.VirtualSize.H <= 0 {
		o.VirtualSize = o.PageSize
	}
	if o.Constraints == (camera.Constraints{}) {
		o.Constraints = camera.DefaultConstraints()
	}
	if o.Limits == (resolution.Limits{}) {
		o.Limits = resolution.DefaultLimits()
	}
	if o.ResizeDebounce <= 0 {
		o.ResizeDebounce = 120 * time.Millisecond
	}
	if o.Timers == nil {
		o.Timers = schedule.Default()
	}
	return o
}

// Measurement is one reading of the viewport host's client geometry.
type Measurement struct {
	Origin geom.Point
	Size   geom.Size
	OK     bool
}

// Snapshot is the read-only camera view exposed to chrome UI.
type Snapshot struct {
	Scale   float64
	ScrollX float64
	ScrollY float64
	FitMode camera.FitMode
}

// Engine is the viewport transform and zoom-coordination engine. All
// camera mutation funnels through it; it never touches document content.
type Engine struct {
	opts    Options
	store   *camera.Store
	fit     *fitmode.Controller
	arb     *input.Arbiter
	res     *resolution.Publisher
	resize  *schedule.Coalescer
	measure func() Measurement
}

// New builds an engine. Call Boot (or the WASM Mount) to apply the
// initial fit and start publishing resolutions.
func New(opts Options) *Engine {
	opts = opts.withDefaults()

	store := camera.NewStore(opts.PageSize, opts.Constraints, opts.Gutter)
	if opts.VirtualSize != opts.PageSize {
		store.Set(camera.Patch{VirtualSize: camera.SizePtr(opts.VirtualSize)}, true)
	}
	fit := fitmode.New(store, opts.Tuning, opts.Clock)
	arb := input.NewArbiter(store, fit)
	arb.ScaleEpsilon = opts.ScaleEpsilon
	res := resolution.NewPublisher(store, opts.Limits, opts.OnResolution)

	e := &Engine{
		opts:  opts,
		store: store,
		fit:   fit,
		arb:   arb,
		res:   res,
	}
	e.resize = schedule.NewCoalescer(opts.Timers, opts.ResizeDebounce, e.applyResize)
	e.measure = func() Measurement { return Measurement{} }
	return e
}

// SetMeasureFunc injects how the engine reads the host geometry. The WASM
// mount sets this to getBoundingClientRect; tests inject fixed values.
func (e *Engine) SetMeasureFunc(fn func() Measurement) {
	if fn != nil {
		e.measure = fn
	}
}

// Store exposes the camera store for subscribers.
func (e *Engine) Store() *camera.Store { return e.store }

// Arbiter exposes the input arbiter, e.g. to feed synthetic events or to
// toggle the pan tool from the active-tool state.
func (e *Engine) Arbiter() *input.Arbiter { return e.arb }

// Boot takes the first measurement, applies the mount-time fit (once),
// and starts resolution publishing.
func (e *Engine) Boot() {
	if m := e.measure(); m.OK {
		e.arb.SetOrigin(m.Origin)
		e.store.Set(camera.Patch{ViewportSize: camera.SizePtr(m.Size)}, true)
	}
	e.fit.ApplyInitialFit()
	e.res.Start()
}

// Close cancels pending resize work and detaches the publisher. In-flight
// gesture baselines are discarded unconditionally.
func (e *Engine) Close() {
	e.resize.Cancel()
	e.res.Stop()
	e.arb.Reset()
}

// Snapshot returns the current camera for display chrome.
func (e *Engine) Snapshot() Snapshot {
	st := e.store.Get()
	return Snapshot{Scale: st.Scale, ScrollX: st.ScrollX, ScrollY: st.ScrollY, FitMode: st.FitMode}
}

// Subscribe registers fn for camera changes; returns unsubscribe.
func (e *Engine) Subscribe(fn func(Snapshot)) func() {
	return e.store.Subscribe(func(st camera.State) {
		fn(Snapshot{Scale: st.Scale, ScrollX: st.ScrollX, ScrollY: st.ScrollY, FitMode: st.FitMode})
	})
}

// --- command surface -------------------------------------------------

// SetScale zooms programmatically to the given scale, anchored at the
// viewport center like every other non-pointer zoom.
func (e *Engine) SetScale(scale float64) {
	e.arb.ZoomToScale(scale)
}

// ZoomIn steps the scale up by the adaptive step.
func (e *Engine) ZoomIn() {
	st := e.store.Get()
	e.arb.ZoomToScale(st.Scale + geom.AdaptiveZoomStep(st.Scale))
}

// ZoomOut steps the scale down by the adaptive step.
func (e *Engine) ZoomOut() {
	st := e.store.Get()
	e.arb.ZoomToScale(st.Scale - geom.AdaptiveZoomStep(st.Scale))
}

// Pan translates the camera by a world-space delta.
func (e *Engine) Pan(dx, dy float64) {
	e.store.Pan(dx, dy)
}

// SetViewState applies an explicit camera, clamped, leaving fit-mode
// handling to the caller's intent (the write is forced).
func (e *Engine) SetViewState(scale, scrollX, scrollY float64) {
	mode := camera.Free
	e.store.Set(camera.Patch{
		Scale:   camera.Float(scale),
		ScrollX: camera.Float(scrollX),
		ScrollY: camera.Float(scrollY),
		FitMode: camera.ModePtr(mode),
	}, true)
}

// FitWidth is the explicit recenter command: re-enters fit-width mode and
// snaps the camera to the fit target.
func (e *Engine) FitWidth() {
	e.fit.Recenter()
}

// Suspend gates automatic fit writes until Resume. Any user input also
// suspends; nothing auto-resumes.
func (e *Engine) Suspend() { e.store.Suspend() }

// Resume clears the suspension gate.
func (e *Engine) Resume() { e.store.Resume() }

// SetDevicePixelRatio feeds DPR changes to the resolution publisher.
func (e *Engine) SetDevicePixelRatio(dpr float64) {
	e.res.SetDPR(dpr)
}

// SetPanTool reflects the externally owned active-tool state.
func (e *Engine) SetPanTool(active bool) {
	e.arb.SetPanTool(active)
}

// HandleResize coalesces a resize storm into one recompute: debounce,
// then a single animation frame, then applyResize. Any pending chain is
// cancelled first.
func (e *Engine) HandleResize() {
	e.resize.Trigger()
}

// applyResize runs on the coalesced frame: re-measure, record the new
// viewport, then let the fit controller re-fit (fit-width mode only; the
// suspension gate and mid-gesture check keep it from yanking the camera).
// In free mode the viewport write alone re-clamps scroll.
func (e *Engine) applyResize() {
	m := e.measure()
	if !m.OK {
		return
	}
	e.arb.SetOrigin(m.Origin)
	e.store.Set(camera.Patch{ViewportSize: camera.SizePtr(m.Size)}, true)
	if !e.arb.MidGesture() {
		e.fit.Refit()
	}
}
