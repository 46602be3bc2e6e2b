package geom

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSafeScale(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.5, 1.5},
		{0, 1},
		{-2, 1},
		{math.NaN(), 1},
		{math.Inf(1), 1},
		{math.Inf(-1), 1},
		{0.001, 0.001},
	}
	for _, c := range cases {
		if got := SafeScale(c.in); got != c.want {
			t.Errorf("SafeScale(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestClampScale(t *testing.T) {
	if got := ClampScale(5, 0.1, 4); got != 4 {
		t.Errorf("expected clamp to max 4, got %v", got)
	}
	if got := ClampScale(0.05, 0.1, 4); got != 0.1 {
		t.Errorf("expected clamp to min 0.1, got %v", got)
	}
	if got := ClampScale(math.NaN(), 0.1, 4); got != 1 {
		t.Errorf("expected NaN to fall back to 1, got %v", got)
	}
}

func TestScreenToWorld(t *testing.T) {
	cam := Camera{Scale: 2, ScrollX: 100, ScrollY: 50}
	w := ScreenToWorld(Point{X: 340, Y: 220}, Point{X: 40, Y: 20}, cam)
	if w.X != 250 || w.Y != 150 {
		t.Errorf("got %+v, want {250 150}", w)
	}

	// Zero scale must not divide by zero; it substitutes 1.
	cam.Scale = 0
	w = ScreenToWorld(Point{X: 140, Y: 120}, Point{X: 40, Y: 20}, cam)
	if w.X != 200 || w.Y != 150 {
		t.Errorf("zero-scale guard: got %+v, want {200 150}", w)
	}
}

func TestClampScrollBounds(t *testing.T) {
	viewport := Size{W: 800, H: 600}
	content := Size{W: 1200, H: 2200}

	cases := []struct {
		name           string
		sx, sy, scale  float64
		gutter         float64
	}{
		{"inside", 100, 200, 1, 0},
		{"negative", -500, -500, 1, 0},
		{"past max", 99999, 99999, 1, 0},
		{"zoomed out", 50, 50, 0.25, 0},
		{"zoomed in", 3000, 3000, 4, 0},
		{"with gutter", -100, 99999, 1, 24},
		{"nan input", math.NaN(), math.Inf(1), 1, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			gx, gy := ClampScroll(c.sx, c.sy, c.scale, viewport, content, c.gutter)
			scale := SafeScale(c.scale)
			maxX := math.Max(0, content.W*scale-viewport.W)
			maxY := math.Max(0, content.H*scale-viewport.H)
			if gx < -c.gutter || gx > maxX+c.gutter {
				t.Errorf("scrollX %v outside [%v, %v]", gx, -c.gutter, maxX+c.gutter)
			}
			if gy < -c.gutter || gy > maxY+c.gutter {
				t.Errorf("scrollY %v outside [%v, %v]", gy, -c.gutter, maxY+c.gutter)
			}
		})
	}
}

func TestClampScrollZeroSnap(t *testing.T) {
	viewport := Size{W: 800, H: 600}
	content := Size{W: 1200, H: 2200}

	gx, gy := ClampScroll(0.3, -0.4, 1, viewport, content, 1)
	if gx != 0 || gy != 0 {
		t.Errorf("sub-pixel scroll should snap to zero, got %v, %v", gx, gy)
	}

	// The snap radius is half a CSS pixel on screen, not half a page
	// unit: 0.3 page units at scale 4 is 1.2 on-screen pixels and must
	// survive, while 0.1 page units (0.4px) still snaps.
	gx, _ = ClampScroll(0.3, 0, 4, viewport, content, 1)
	if gx != 0.3 {
		t.Errorf("1.2px scroll at scale 4 should not snap, got %v", gx)
	}
	gx, _ = ClampScroll(0.1, 0, 4, viewport, content, 1)
	if gx != 0 {
		t.Errorf("0.4px scroll at scale 4 should snap to zero, got %v", gx)
	}

	// Zoomed far out the radius widens: 1.5 page units at scale 0.25 is
	// 0.375 on-screen pixels.
	gx, _ = ClampScroll(-1.5, 0, 0.25, viewport, content, 2)
	if gx != 0 {
		t.Errorf("sub-pixel scroll at scale 0.25 should snap to zero, got %v", gx)
	}
}

func TestZoomAtClientPointRoundTrip(t *testing.T) {
	origin := Point{X: 10, Y: 30}
	viewport := Size{W: 800, H: 600}

	cases := []struct {
		name       string
		cam        Camera
		client     Point
		newScale   float64
	}{
		{"zoom in at cursor", Camera{Scale: 1, ScrollX: 40, ScrollY: 80}, Point{X: 400, Y: 300}, 2},
		{"zoom out at cursor", Camera{Scale: 2, ScrollX: 100, ScrollY: 150}, Point{X: 200, Y: 500}, 0.5},
		{"zoom at corner", Camera{Scale: 0.6, ScrollX: 0, ScrollY: 0}, Point{X: 10, Y: 30}, 3},
		{"tiny change", Camera{Scale: 1.3, ScrollX: 12, ScrollY: 7}, Point{X: 600, Y: 100}, 1.31},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			before := ScreenToWorld(c.client, origin, c.cam)
			next := ZoomAtClientPoint(c.client.X, c.client.Y, c.newScale, c.cam, origin, viewport, nil, 0)
			after := ScreenToWorld(c.client, origin, next)
			if !almostEqual(before.X, after.X, 1e-9) || !almostEqual(before.Y, after.Y, 1e-9) {
				t.Errorf("anchor drifted: before %+v after %+v", before, after)
			}
			if next.Scale != c.newScale {
				t.Errorf("scale = %v, want %v", next.Scale, c.newScale)
			}
		})
	}
}

func TestZoomAtClientPointClampsWhenContentGiven(t *testing.T) {
	origin := Point{}
	viewport := Size{W: 800, H: 600}
	content := Size{W: 1200, H: 2200}
	cam := Camera{Scale: 4, ScrollX: 1000, ScrollY: 2000}

	next := ZoomAtClientPoint(0, 0, 0.5, cam, origin, viewport, &content, 0)
	maxX := math.Max(0, content.W*0.5-viewport.W)
	if next.ScrollX < 0 || next.ScrollX > maxX {
		t.Errorf("scrollX %v not clamped into [0, %v]", next.ScrollX, maxX)
	}
}

func TestComputeFitScale(t *testing.T) {
	got := ComputeFitScale(Size{W: 800, H: 600}, Size{W: 1200, H: 2200}, 80, 0.1, 8)
	if !almostEqual(got, 0.6, 1e-12) {
		t.Errorf("ComputeFitScale = %v, want 0.6", got)
	}

	// Clamped against constraints.
	got = ComputeFitScale(Size{W: 100, H: 100}, Size{W: 1200, H: 2200}, 80, 0.5, 8)
	if got != 0.5 {
		t.Errorf("expected clamp to minScale 0.5, got %v", got)
	}

	// Degenerate page falls back to 1.
	if got := ComputeFitScale(Size{W: 800, H: 600}, Size{}, 80, 0.1, 8); got != 1 {
		t.Errorf("degenerate page: got %v, want 1", got)
	}
}

func TestHasDeviatedFromFit(t *testing.T) {
	if HasDeviatedFromFit(0.61, 0.6, 0.02) {
		t.Error("1.7% deviation should be under a 2% epsilon")
	}
	if !HasDeviatedFromFit(0.65, 0.6, 0.02) {
		t.Error("8% deviation should exceed a 2% epsilon")
	}
}

func TestIsSignificantScaleChange(t *testing.T) {
	if IsSignificantScaleChange(1.0, 1.0005, 0.002) {
		t.Error("0.0005 should be under the 0.002 threshold")
	}
	if !IsSignificantScaleChange(1.0, 1.01, 0.002) {
		t.Error("0.01 should exceed the 0.002 threshold")
	}
}

func TestAdaptiveCurvesShrinkWithScale(t *testing.T) {
	scales := []float64{0.1, 0.3, 1.0, 3.0, 6.0}
	for i := 1; i < len(scales); i++ {
		lo, hi := scales[i-1], scales[i]
		if AdaptiveZoomSensitivity(hi) > AdaptiveZoomSensitivity(lo) {
			t.Errorf("sensitivity should not grow with scale: f(%v) > f(%v)", hi, lo)
		}
		if AdaptiveZoomStep(hi) < AdaptiveZoomStep(lo) {
			t.Errorf("step should not shrink with scale: f(%v) < f(%v)", hi, lo)
		}
	}
}

func BenchmarkZoomAtClientPoint(b *testing.B) {
	cam := Camera{Scale: 1.2, ScrollX: 300, ScrollY: 800}
	viewport := Size{W: 1400, H: 900}
	content := Size{W: 1200, H: 2200}
	for i := 0; i < b.N; i++ {
		cam = ZoomAtClientPoint(700, 450, 1.2+float64(i%7)*0.01, cam, Point{}, viewport, &content, 0)
	}
}

func BenchmarkClampScroll(b *testing.B) {
	viewport := Size{W: 1400, H: 900}
	content := Size{W: 1200, H: 2200}
	for i := 0; i < b.N; i++ {
		ClampScroll(float64(i%5000), float64(i%9000), 1.5, viewport, content, 24)
	}
}
