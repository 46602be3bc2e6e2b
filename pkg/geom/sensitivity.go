package geom

// Adaptive zoom curves. A fixed wheel sensitivity that feels right at 100%
// is far too coarse at 400% and far too sluggish at 20%, so both the
// continuous (wheel/pinch) sensitivity and the discrete (keyboard/button)
// step shrink as the scale grows. Tier boundaries are perceptual tuning
// values, not derived constants.

// AdaptiveZoomSensitivity returns the per-unit wheel-delta multiplier to
// use at the given scale. Larger when zoomed far out, smaller when zoomed
// far in, so zooming feels roughly linear across the whole range.
func AdaptiveZoomSensitivity(scale float64) float64 {
	scale = SafeScale(scale)
	switch {
	case scale < 0.25:
		return 0.004
	case scale < 0.5:
		return 0.003
	case scale < 2.0:
		return 0.002
	case scale < 4.0:
		return 0.0012
	default:
		return 0.0008
	}
}

// AdaptiveZoomStep returns the discrete zoom increment for keyboard
// shortcuts and zoom buttons at the given scale.
func AdaptiveZoomStep(scale float64) float64 {
	scale = SafeScale(scale)
	switch {
	case scale < 0.25:
		return 0.05
	case scale < 0.5:
		return 0.1
	case scale < 2.0:
		return 0.25
	case scale < 4.0:
		return 0.5
	default:
		return 1.0
	}
}
