// Package geom holds the pure coordinate math for the viewport engine:
// screen↔world conversion, scroll clamping, anchored zoom, fit-scale
// computation, and the epsilon filters that keep noisy input from turning
// into redundant camera writes. Everything here is stateless and safe to
// call from any build target.
package geom

import "math"

// Point is a 2D coordinate. Whether it is in screen (CSS pixel) or world
// (unscaled page unit) space depends on the function consuming it.
type Point struct {
	X float64
	Y float64
}

// Size is a 2D extent in the same unit conventions as Point.
type Size struct {
	W float64
	H float64
}

// Camera is the scale + scroll triple that maps world space onto the
// viewport. ScrollX/ScrollY are the world coordinates at the viewport's
// top-left corner, in unscaled page units.
type Camera struct {
	Scale   float64
	ScrollX float64
	ScrollY float64
}

// zeroSnap is the on-screen distance from zero, in CSS pixels, under
// which a clamped scroll value snaps to exactly zero, so repeated
// clamping can't accumulate sub-pixel drift. Scroll is stored in page
// units, so the comparison multiplies by scale.
const zeroSnap = 0.5

// SafeScale returns s if it is a usable magnification, and 1 otherwise.
// A scale of zero, NaN, or ±Inf would corrupt every downstream division,
// so it is substituted rather than propagated.
func SafeScale(s float64) float64 {
	if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return 1
	}
	return s
}

// SafeOffset returns v if finite and 0 otherwise.
func SafeOffset(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ClampScale clamps s into [min, max], falling back to 1 first if s is not
// a usable scale. min and max are assumed to satisfy 0 < min <= max.
func ClampScale(s, min, max float64) float64 {
	s = SafeScale(s)
	if s < min {
		return min
	}
	if s > max {
		return max
	}
	return s
}

// ScreenToWorld converts a client-space point to world space given the
// viewport's client-space origin and the current camera.
//
//	world = scroll + (client − origin) / scale
func ScreenToWorld(client, viewportOrigin Point, cam Camera) Point {
	scale := SafeScale(cam.Scale)
	return Point{
		X: cam.ScrollX + (client.X-viewportOrigin.X)/scale,
		Y: cam.ScrollY + (client.Y-viewportOrigin.Y)/scale,
	}
}

// ClampScroll clamps a scroll offset so the viewport stays on the scaled
// content, allowing gutter units of slack past either edge. When the scaled
// content is smaller than the viewport the only valid offset is zero (plus
// gutter slack). Values within half a CSS pixel of zero on screen snap to
// exactly zero.
func ClampScroll(scrollX, scrollY, scale float64, viewport, content Size, gutter float64) (float64, float64) {
	scale = SafeScale(scale)
	return clampAxis(scrollX, scale, viewport.W, content.W, gutter),
		clampAxis(scrollY, scale, viewport.H, content.H, gutter)
}

func clampAxis(scroll, scale, viewport, content, gutter float64) float64 {
	scroll = SafeOffset(scroll)
	maxScroll := math.Max(0, content*scale-viewport)
	if scroll < -gutter {
		scroll = -gutter
	}
	if scroll > maxScroll+gutter {
		scroll = maxScroll + gutter
	}
	if math.Abs(scroll)*scale < zeroSnap {
		return 0
	}
	return scroll
}

// ZoomAtClientPoint rescales the camera so that the world point currently
// under (clientX, clientY) stays under that same screen point afterwards.
// This is the single anchoring algorithm: wheel, pinch, keyboard, and
// programmatic zoom must all route through it so anchoring behaves
// identically regardless of trigger.
//
// If content is non-nil the resulting scroll is clamped against it.
func ZoomAtClientPoint(clientX, clientY, newScale float64, cam Camera, viewportOrigin Point, viewport Size, content *Size, gutter float64) Camera {
	oldScale := SafeScale(cam.Scale)
	newScale = SafeScale(newScale)

	localX := clientX - viewportOrigin.X
	localY := clientY - viewportOrigin.Y

	// World point under the anchor before rescaling.
	anchorX := SafeOffset(cam.ScrollX) + localX/oldScale
	anchorY := SafeOffset(cam.ScrollY) + localY/oldScale

	next := Camera{
		Scale:   newScale,
		ScrollX: anchorX - localX/newScale,
		ScrollY: anchorY - localY/newScale,
	}
	if content != nil {
		next.ScrollX, next.ScrollY = ClampScroll(next.ScrollX, next.ScrollY, newScale, viewport, *content, gutter)
	}
	return next
}

// ComputeFitScale returns the scale that fits the page width into the
// viewport width with paddingPx of horizontal breathing room, clamped to
// [minScale, maxScale].
func ComputeFitScale(viewport, page Size, paddingPx, minScale, maxScale float64) float64 {
	if page.W <= 0 {
		return 1
	}
	avail := viewport.W - paddingPx
	if avail <= 0 {
		avail = viewport.W
	}
	return ClampScale(avail/page.W, minScale, maxScale)
}

// HasDeviatedFromFit reports whether current has moved away from fitScale
// by more than epsilon, relative to fitScale. Used by the fit controller's
// hysteresis so a single stray wheel tick doesn't flip the mode.
func HasDeviatedFromFit(current, fitScale, epsilon float64) bool {
	fitScale = SafeScale(fitScale)
	return math.Abs(SafeScale(current)-fitScale)/fitScale > epsilon
}

// IsSignificantScaleChange reports whether moving from old to new scale is
// worth a camera write. Callers skip the write when this is false so
// sub-threshold wheel noise doesn't trigger re-renders.
func IsSignificantScaleChange(old, new, epsilon float64) bool {
	return math.Abs(SafeScale(new)-SafeScale(old)) > epsilon
}
