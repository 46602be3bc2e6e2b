// Package resolution translates the logical camera into a physical
// backing-store size for the external drawing engine. The size is always
// derived from the logical page dimensions, never read back from the
// engine's DOM, so engine-reported sizes can't drift the camera through a
// feedback loop.
package resolution

import (
	"math"

	"github.com/recera/inkview/pkg/geom"
)

// Limits are the device ceilings a backing store must respect. When a
// computed size exceeds any of them, both axes are scaled down
// proportionally so the aspect ratio survives the clamp.
type Limits struct {
	MaxWidth  int
	MaxHeight int
	MaxPixels int
}

// DefaultLimits returns conservative ceilings for current GPUs/browsers.
func DefaultLimits() Limits {
	return Limits{
		MaxWidth:  16384,
		MaxHeight: 32768,
		MaxPixels: 256_000_000,
	}
}

// Resolution is the published backing-store size.
type Resolution struct {
	PhysicalWidth  int
	PhysicalHeight int
	Scale          float64
	EffectiveDPR   float64
	Clamped        bool
}

// Compute derives the physical backing-store size for a page rendered at
// the given scale and device pixel ratio.
func Compute(page geom.Size, scale, dpr float64, limits Limits) Resolution {
	scale = geom.SafeScale(scale)
	if dpr <= 0 || math.IsNaN(dpr) || math.IsInf(dpr, 0) {
		dpr = 1
	}

	w := page.W * scale * dpr
	h := page.H * scale * dpr
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	// Proportional scale-down factor honoring all three ceilings.
	ratio := 1.0
	if limits.MaxWidth > 0 && w > float64(limits.MaxWidth) {
		ratio = math.Min(ratio, float64(limits.MaxWidth)/w)
	}
	if limits.MaxHeight > 0 && h > float64(limits.MaxHeight) {
		ratio = math.Min(ratio, float64(limits.MaxHeight)/h)
	}
	if limits.MaxPixels > 0 && w*h > float64(limits.MaxPixels) {
		ratio = math.Min(ratio, math.Sqrt(float64(limits.MaxPixels)/(w*h)))
	}

	return Resolution{
		PhysicalWidth:  int(math.Round(w * ratio)),
		PhysicalHeight: int(math.Round(h * ratio)),
		Scale:          scale,
		EffectiveDPR:   dpr * scale * ratio,
		Clamped:        ratio < 1,
	}
}
