// Package fitmode implements the fit-width/free state machine that decides
// when the camera is driven automatically and when the user owns it.
//
// The controller's job is to get out of the user's way cleanly: a single
// stray wheel tick while in fit-width mode must not flip the camera into
// free mode (the next resize just snaps it back), but a deliberate run of
// zoom gestures must. That is the hysteresis: a qualifying deviation has to
// happen NudgeThreshold times inside a rolling NudgeWindow before the mode
// changes. Naive one-shot deviation checks made the auto-fit recompute
// visibly fight the user's gesture.
package fitmode

import (
	"time"

	"github.com/recera/inkview/pkg/camera"
	"github.com/recera/inkview/pkg/geom"
)

// Tuning holds the empirically-chosen hysteresis constants. They are
// configurable defaults, not invariants; inkview.yml can override them.
type Tuning struct {
	// DeviationEpsilon is the relative distance from the live fit scale
	// beyond which a zoom counts as a nudge away from fit.
	DeviationEpsilon float64
	// NudgeThreshold is how many qualifying nudges inside NudgeWindow it
	// takes to leave fit-width mode.
	NudgeThreshold int
	// NudgeWindow is the rolling window the nudge counter lives in.
	NudgeWindow time.Duration
	// FitPaddingPx is the horizontal breathing room used when computing
	// the fit scale.
	FitPaddingPx float64
}

// DefaultTuning returns the shipped defaults.
func DefaultTuning() Tuning {
	return Tuning{
		DeviationEpsilon: 0.02,
		NudgeThreshold:   3,
		NudgeWindow:      2000 * time.Millisecond,
		FitPaddingPx:     80,
	}
}

func (t Tuning) sanitize() Tuning {
	d := DefaultTuning()
	if t.DeviationEpsilon <= 0 {
		t.DeviationEpsilon = d.DeviationEpsilon
	}
	if t.NudgeThreshold <= 0 {
		t.NudgeThreshold = d.NudgeThreshold
	}
	if t.NudgeWindow <= 0 {
		t.NudgeWindow = d.NudgeWindow
	}
	return t
}

// Controller runs the fit-width/free state machine against a camera store.
// It is the only writer of automatic camera updates; all of those go
// through the store non-forced so the suspension gate applies to them and
// to nothing else.
type Controller struct {
	store  *camera.Store
	tuning Tuning
	now    func() time.Time

	appliedOnce bool

	// hysteresis counter; reset on re-entering fit mode or when more
	// than NudgeWindow elapses between nudges
	nudgeCount int
	lastNudge  time.Time
}

// New creates a controller. now is the time source for the hysteresis
// window; pass nil for time.Now.
func New(store *camera.Store, tuning Tuning, now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	return &Controller{store: store, tuning: tuning.sanitize(), now: now}
}

// fitScale computes the live fit scale for the current store state.
func (c *Controller) fitScale(st camera.State) float64 {
	return geom.ComputeFitScale(
		st.ViewportSize, st.PageSize, c.tuning.FitPaddingPx,
		st.Constraints.MinScale, st.Constraints.MaxScale,
	)
}

// centeredScroll returns the scroll offset that horizontally centers the
// page at the given scale, top-aligned vertically. The store's clamp pulls
// it back in range when the page is wider than the viewport.
func centeredScroll(st camera.State, scale float64) (float64, float64) {
	scale = geom.SafeScale(scale)
	return -(st.ViewportSize.W/scale - st.PageSize.W) / 2, 0
}

// ApplyInitialFit computes and applies the mount-time fit camera exactly
// once. Remounts and hot reloads hit the applied-once guard and leave the
// camera alone.
func (c *Controller) ApplyInitialFit() {
	if c.appliedOnce {
		return
	}
	c.appliedOnce = true
	c.applyFit(true)
}

// Recenter is the explicit "reset to fit" command (Ctrl/Cmd+0 or chrome
// UI). It re-enters fit-width mode, resets the hysteresis counter, and
// applies the fit camera regardless of suspension. It does not clear the
// suspension flag; only Resume does that.
func (c *Controller) Recenter() {
	c.nudgeCount = 0
	c.lastNudge = time.Time{}
	c.applyFit(true)
}

// Refit is the automatic resize path: recompute the fit camera and apply
// it non-forced, so the store's suspension gate can drop it. Only runs in
// fit-width mode; in free mode a resize never changes scale.
func (c *Controller) Refit() {
	if c.store.Get().FitMode != camera.FitWidth {
		return
	}
	c.applyFit(false)
}

func (c *Controller) applyFit(force bool) {
	st := c.store.Get()
	scale := c.fitScale(st)
	sx, sy := centeredScroll(st, scale)
	mode := camera.FitWidth
	c.store.Set(camera.Patch{
		Scale:   camera.Float(scale),
		ScrollX: camera.Float(sx),
		ScrollY: camera.Float(sy),
		FitMode: camera.ModePtr(mode),
	}, force)
}

// ObserveZoom feeds the hysteresis with a user zoom that is about to be
// written. While in fit-width mode, a scale that deviates from the live
// fit scale by more than the epsilon counts as a nudge; once
// NudgeThreshold nudges land inside the rolling window the mode flips to
// free. Below the threshold the deviation is absorbed: the camera may show
// the off-fit scale, but the mode stays fit-width and the next resize
// snaps it back.
func (c *Controller) ObserveZoom(newScale float64) {
	st := c.store.Get()
	if st.FitMode != camera.FitWidth {
		return
	}
	if !geom.HasDeviatedFromFit(newScale, c.fitScale(st), c.tuning.DeviationEpsilon) {
		return
	}

	now := c.now()
	if !c.lastNudge.IsZero() && now.Sub(c.lastNudge) > c.tuning.NudgeWindow {
		c.nudgeCount = 0
	}
	c.nudgeCount++
	c.lastNudge = now

	if c.nudgeCount >= c.tuning.NudgeThreshold {
		c.nudgeCount = 0
		c.lastNudge = time.Time{}
		mode := camera.Free
		c.store.Set(camera.Patch{FitMode: camera.ModePtr(mode)}, true)
	}
}

// NudgeCount exposes the current hysteresis count for diagnostics.
func (c *Controller) NudgeCount() int { return c.nudgeCount }
