package viewport

import (
	"math"
	"testing"
	"time"

	"github.com/recera/inkview/pkg/camera"
	"github.com/recera/inkview/pkg/geom"
	"github.com/recera/inkview/pkg/input"
	"github.com/recera/inkview/pkg/resolution"
	"github.com/recera/inkview/pkg/schedule"
)

type fixture struct {
	engine *Engine
	timers *schedule.ManualTimers
	size   geom.Size
	resos  []resolution.Resolution
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		timers: schedule.NewManualTimers(),
		size:   geom.Size{W: 800, H: 600},
	}
	f.engine = New(Options{
		PageSize: geom.Size{W: 1200, H: 2200},
		Timers:   f.timers,
		OnResolution: func(r resolution.Resolution) {
			f.resos = append(f.resos, r)
		},
	})
	f.engine.SetMeasureFunc(func() Measurement {
		return Measurement{Size: f.size, OK: true}
	})
	return f
}

// pumpResize drives the debounce+frame chain to completion.
func (f *fixture) pumpResize() {
	f.timers.Advance(500 * time.Millisecond)
	f.timers.PumpFrame()
}

func TestBootAppliesFitAndPublishesResolution(t *testing.T) {
	f := newFixture(t)
	f.engine.Boot()

	snap := f.engine.Snapshot()
	want := (800.0 - 80.0) / 1200.0
	if math.Abs(snap.Scale-want) > 1e-12 {
		t.Errorf("boot scale = %v, want %v", snap.Scale, want)
	}
	if snap.FitMode != camera.FitWidth {
		t.Errorf("boot mode = %v, want fit-width", snap.FitMode)
	}
	if len(f.resos) == 0 {
		t.Fatal("no resolution published on boot")
	}
	last := f.resos[len(f.resos)-1]
	if last.PhysicalWidth != int(math.Round(1200*want)) {
		t.Errorf("physical width = %d, want %d", last.PhysicalWidth, int(math.Round(1200*want)))
	}
}

func TestResizeStormCollapsesToOneRecompute(t *testing.T) {
	f := newFixture(t)
	f.engine.Boot()

	recomputes := 0
	prev := f.engine.Snapshot().Scale
	f.engine.Subscribe(func(s Snapshot) {
		if s.Scale != prev {
			prev = s.Scale
			recomputes++
		}
	})

	f.size = geom.Size{W: 1000, H: 700}
	for i := 0; i < 20; i++ {
		f.engine.HandleResize()
	}
	f.pumpResize()

	if recomputes != 1 {
		t.Errorf("expected one scale recompute for the storm, got %d", recomputes)
	}
	want := (1000.0 - 80.0) / 1200.0
	if got := f.engine.Snapshot().Scale; math.Abs(got-want) > 1e-12 {
		t.Errorf("refit scale = %v, want %v", got, want)
	}
}

func TestResizeInFreeModeKeepsScale(t *testing.T) {
	f := newFixture(t)
	f.engine.Boot()
	f.engine.SetViewState(2, 1500, 3000)

	f.size = geom.Size{W: 400, H: 300}
	f.engine.HandleResize()
	f.pumpResize()

	snap := f.engine.Snapshot()
	if snap.Scale != 2 {
		t.Errorf("free-mode resize changed scale to %v", snap.Scale)
	}
	// Scroll is re-clamped against the new viewport.
	st := f.engine.Store().Get()
	maxX := st.VirtualSize.W*st.Scale - st.ViewportSize.W
	if snap.ScrollX > maxX {
		t.Errorf("scrollX %v not re-clamped to %v", snap.ScrollX, maxX)
	}
}

func TestResizeSkipsRefitWhileSuspended(t *testing.T) {
	f := newFixture(t)
	f.engine.Boot()

	// User zoom suspends; camera sits off-fit.
	f.engine.SetScale(2)
	if !f.engine.Store().Suspended() {
		t.Fatal("SetScale should suspend")
	}

	f.size = geom.Size{W: 1000, H: 700}
	f.engine.HandleResize()
	f.pumpResize()

	if got := f.engine.Snapshot().Scale; got != 2 {
		t.Errorf("suspended resize re-fit the camera: scale %v", got)
	}

	// Explicit resume re-enables the automatic path.
	f.engine.Resume()
	f.engine.HandleResize()
	f.pumpResize()
	want := (1000.0 - 80.0) / 1200.0
	if got := f.engine.Snapshot().Scale; math.Abs(got-want) > 1e-12 {
		t.Errorf("post-resume resize: scale %v, want %v", got, want)
	}
}

func TestResizeSkipsRefitMidGesture(t *testing.T) {
	f := newFixture(t)
	f.engine.Boot()

	f.engine.Arbiter().Handle(input.Event{Kind: input.EvGestureStart, ClientX: 100, ClientY: 100})
	f.engine.Resume() // gesture suspended the store; isolate the mid-gesture check

	f.size = geom.Size{W: 1000, H: 700}
	f.engine.HandleResize()
	f.pumpResize()

	want := (800.0 - 80.0) / 1200.0
	if got := f.engine.Snapshot().Scale; math.Abs(got-want) > 1e-12 {
		t.Errorf("mid-gesture resize re-fit the camera: scale %v", got)
	}

	f.engine.Arbiter().Handle(input.Event{Kind: input.EvGestureEnd})
}

func TestCloseCancelsPendingResize(t *testing.T) {
	f := newFixture(t)
	f.engine.Boot()

	fitScale := f.engine.Snapshot().Scale
	f.size = geom.Size{W: 1000, H: 700}
	f.engine.HandleResize()
	f.engine.Close()
	f.pumpResize()

	if got := f.engine.Snapshot().Scale; got != fitScale {
		t.Errorf("resize fired after Close: scale %v", got)
	}
}

func TestZoomCommands(t *testing.T) {
	f := newFixture(t)
	f.engine.Boot()
	f.engine.FitWidth()
	base := f.engine.Snapshot().Scale

	f.engine.ZoomIn()
	in := f.engine.Snapshot().Scale
	if in <= base {
		t.Errorf("ZoomIn did not increase scale: %v -> %v", base, in)
	}
	f.engine.ZoomOut()
	out := f.engine.Snapshot().Scale
	if out >= in {
		t.Errorf("ZoomOut did not decrease scale: %v -> %v", in, out)
	}
}

func TestSetViewStateEntersFreeMode(t *testing.T) {
	f := newFixture(t)
	f.engine.Boot()
	f.engine.SetViewState(1.5, 100, 200)

	snap := f.engine.Snapshot()
	if snap.FitMode != camera.Free {
		t.Errorf("SetViewState mode = %v, want free", snap.FitMode)
	}
	if snap.Scale != 1.5 {
		t.Errorf("SetViewState scale = %v, want 1.5", snap.Scale)
	}
}

func TestFitWidthRestoresFitFromFree(t *testing.T) {
	f := newFixture(t)
	f.engine.Boot()
	f.engine.SetViewState(3, 500, 800)
	f.engine.FitWidth()

	snap := f.engine.Snapshot()
	if snap.FitMode != camera.FitWidth {
		t.Errorf("mode = %v, want fit-width", snap.FitMode)
	}
	want := (800.0 - 80.0) / 1200.0
	if math.Abs(snap.Scale-want) > 1e-12 {
		t.Errorf("scale = %v, want %v", snap.Scale, want)
	}
}

func TestDPRChangeRepublishesResolution(t *testing.T) {
	f := newFixture(t)
	f.engine.Boot()
	n := len(f.resos)

	f.engine.SetDevicePixelRatio(2)
	if len(f.resos) != n+1 {
		t.Fatalf("expected one republish on DPR change, got %d", len(f.resos)-n)
	}
	scale := f.engine.Snapshot().Scale
	want := int(math.Round(1200 * scale * 2))
	if got := f.resos[len(f.resos)-1].PhysicalWidth; got != want {
		t.Errorf("physical width at DPR 2 = %d, want %d", got, want)
	}
}

func TestDefaultsFillIn(t *testing.T) {
	e := New(Options{})
	st := e.Store().Get()
	if st.PageSize.W != 1200 || st.PageSize.H != 2200 {
		t.Errorf("default page size = %+v", st.PageSize)
	}
	if st.Constraints.MinScale <= 0 || st.Constraints.MaxScale < st.Constraints.MinScale {
		t.Errorf("default constraints invalid: %+v", st.Constraints)
	}
}

func TestScaleEpsilonOptionReachesTheArbiter(t *testing.T) {
	coarse := New(Options{
		PageSize:     geom.Size{W: 1200, H: 2200},
		Timers:       schedule.NewManualTimers(),
		ScaleEpsilon: 0.5,
	})
	coarse.SetMeasureFunc(func() Measurement {
		return Measurement{Size: geom.Size{W: 800, H: 600}, OK: true}
	})
	coarse.Boot()

	base := coarse.Snapshot().Scale
	coarse.SetScale(base + 0.3)
	if got := coarse.Snapshot().Scale; got != base {
		t.Errorf("zoom under the configured epsilon was applied: %v -> %v", base, got)
	}
	coarse.SetScale(base + 0.9)
	if got := coarse.Snapshot().Scale; got == base {
		t.Error("zoom past the configured epsilon was dropped")
	}

	// The same nudge passes under the shipped default.
	f := newFixture(t)
	f.engine.Boot()
	base = f.engine.Snapshot().Scale
	f.engine.SetScale(base + 0.3)
	if got := f.engine.Snapshot().Scale; got == base {
		t.Error("default epsilon rejected a 0.3 scale change")
	}
}
