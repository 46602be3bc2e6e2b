// Package camera is the single source of truth for the viewport camera:
// scale, scroll offset, viewport/page geometry, fit mode, and constraints.
// The Store enforces the numeric invariants on every write and notifies
// subscribers synchronously, so every consumer observes the same clamped
// state in the same tick as the write that produced it.
package camera

import "github.com/recera/inkview/pkg/geom"

// FitMode says whether the camera is currently driven automatically.
type FitMode string

const (
	// FitWidth means the fit controller owns the scale: the page width is
	// fitted to the viewport on mount and on resize.
	FitWidth FitMode = "fit-width"
	// Free means the user owns scale and scroll directly.
	Free FitMode = "free"
)

// Constraints are the invariant bounds on the camera. MinScale and
// MaxScale must both be > 0 with MinScale <= MaxScale.
type Constraints struct {
	MinScale   float64
	MaxScale   float64
	EnablePan  bool
	EnableZoom bool
}

// DefaultConstraints returns the bounds used when a caller supplies none.
func DefaultConstraints() Constraints {
	return Constraints{
		MinScale:   0.1,
		MaxScale:   8.0,
		EnablePan:  true,
		EnableZoom: true,
	}
}

// sanitize repairs a constraints value so the store can always clamp
// against it. Non-positive or inverted bounds degrade to defaults rather
// than poisoning every subsequent write.
func (c Constraints) sanitize() Constraints {
	d := DefaultConstraints()
	if c.MinScale <= 0 {
		c.MinScale = d.MinScale
	}
	if c.MaxScale <= 0 {
		c.MaxScale = d.MaxScale
	}
	if c.MinScale > c.MaxScale {
		c.MinScale, c.MaxScale = c.MaxScale, c.MinScale
	}
	return c
}

// State is a snapshot of the camera. Scroll offsets are the world
// coordinates at the viewport's top-left, in unscaled page units.
// VirtualSize is the page plus any padding/gutter and is what scroll
// clamping runs against.
type State struct {
	Scale        float64
	ScrollX      float64
	ScrollY      float64
	ViewportSize geom.Size
	PageSize     geom.Size
	VirtualSize  geom.Size
	FitMode      FitMode
	Constraints  Constraints
	Gutter       float64
}

// Camera returns the scale+scroll triple as a geom.Camera for the math
// layer.
func (s State) Camera() geom.Camera {
	return geom.Camera{Scale: s.Scale, ScrollX: s.ScrollX, ScrollY: s.ScrollY}
}

// Patch is a partial State for Store.Set. Nil fields are left unchanged.
type Patch struct {
	Scale        *float64
	ScrollX      *float64
	ScrollY      *float64
	ViewportSize *geom.Size
	PageSize     *geom.Size
	VirtualSize  *geom.Size
	FitMode      *FitMode
	Constraints  *Constraints
}

// Float is a convenience for building patches from literals.
func Float(v float64) *float64 { return &v }

// SizePtr is a convenience for building patches from literals.
func SizePtr(s geom.Size) *geom.Size { return &s }

// ModePtr is a convenience for building patches from literals.
func ModePtr(m FitMode) *FitMode { return &m }
