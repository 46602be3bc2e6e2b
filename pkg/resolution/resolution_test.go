package resolution

import (
	"math"
	"testing"

	"github.com/recera/inkview/pkg/camera"
	"github.com/recera/inkview/pkg/geom"
)

var page = geom.Size{W: 1200, H: 2200}

func TestComputeUnclamped(t *testing.T) {
	res := Compute(page, 1, 3, DefaultLimits())
	if res.PhysicalWidth != 3600 || res.PhysicalHeight != 6600 {
		t.Errorf("got %dx%d, want 3600x6600", res.PhysicalWidth, res.PhysicalHeight)
	}
	if res.Clamped {
		t.Error("3600x6600 should not be clamped")
	}
	if res.EffectiveDPR != 3 {
		t.Errorf("effective DPR = %v, want 3", res.EffectiveDPR)
	}
}

func TestComputePixelCeilingPreservesAspect(t *testing.T) {
	// 12000x22000 = 264 MP, over the 256 MP ceiling.
	res := Compute(page, 1, 10, DefaultLimits())
	if !res.Clamped {
		t.Fatal("264 MP result should be clamped")
	}
	total := res.PhysicalWidth * res.PhysicalHeight
	if total > DefaultLimits().MaxPixels {
		t.Errorf("total %d exceeds ceiling %d", total, DefaultLimits().MaxPixels)
	}
	wantAspect := page.W / page.H
	gotAspect := float64(res.PhysicalWidth) / float64(res.PhysicalHeight)
	if math.Abs(gotAspect-wantAspect)/wantAspect > 0.01 {
		t.Errorf("aspect ratio drifted: got %v, want %v", gotAspect, wantAspect)
	}
}

func TestComputeAxisCeilings(t *testing.T) {
	limits := Limits{MaxWidth: 1000, MaxHeight: 32768, MaxPixels: 256_000_000}
	res := Compute(page, 1, 1, limits)
	if res.PhysicalWidth > 1000 {
		t.Errorf("width %d exceeds axis ceiling", res.PhysicalWidth)
	}
	if !res.Clamped {
		t.Error("axis-limited result should report Clamped")
	}
}

func TestComputeDegenerateInputs(t *testing.T) {
	res := Compute(page, math.NaN(), 0, DefaultLimits())
	if res.PhysicalWidth <= 0 || res.PhysicalHeight <= 0 {
		t.Errorf("degenerate inputs produced %dx%d", res.PhysicalWidth, res.PhysicalHeight)
	}
}

func TestPublisherEmitsOnScaleChange(t *testing.T) {
	store := camera.NewStore(page, camera.DefaultConstraints(), 0)
	store.Set(camera.Patch{ViewportSize: camera.SizePtr(geom.Size{W: 800, H: 600})}, true)

	var got []Resolution
	pub := NewPublisher(store, DefaultLimits(), func(r Resolution) { got = append(got, r) })
	pub.Start()
	defer pub.Stop()

	if len(got) != 1 {
		t.Fatalf("expected initial publish, got %d", len(got))
	}

	store.Set(camera.Patch{Scale: camera.Float(2)}, true)
	if len(got) != 2 {
		t.Fatalf("expected publish after scale change, got %d", len(got))
	}
	if got[1].PhysicalWidth != 2400 {
		t.Errorf("width = %d, want 2400", got[1].PhysicalWidth)
	}
}

func TestPublisherSkipsSubEpsilonScaleChanges(t *testing.T) {
	store := camera.NewStore(page, camera.DefaultConstraints(), 0)
	var count int
	pub := NewPublisher(store, DefaultLimits(), func(Resolution) { count++ })
	pub.Start()
	defer pub.Stop()

	store.Set(camera.Patch{Scale: camera.Float(1.0005)}, true)
	if count != 1 {
		t.Errorf("sub-epsilon scale change republished: %d emits", count)
	}
}

func TestPublisherIgnoresScrollOnlyWrites(t *testing.T) {
	store := camera.NewStore(page, camera.DefaultConstraints(), 0)
	store.Set(camera.Patch{ViewportSize: camera.SizePtr(geom.Size{W: 800, H: 600})}, true)
	var count int
	pub := NewPublisher(store, DefaultLimits(), func(Resolution) { count++ })
	pub.Start()
	defer pub.Stop()

	store.Pan(40, 40)
	if count != 1 {
		t.Errorf("scroll-only write republished the resolution: %d emits", count)
	}
}

func TestPublisherRepublishesOnDPRChange(t *testing.T) {
	store := camera.NewStore(page, camera.DefaultConstraints(), 0)
	var got []Resolution
	pub := NewPublisher(store, DefaultLimits(), func(r Resolution) { got = append(got, r) })
	pub.Start()
	defer pub.Stop()

	pub.SetDPR(2)
	if len(got) != 2 {
		t.Fatalf("expected republish on DPR change, got %d emits", len(got))
	}
	if got[1].PhysicalWidth != 2400 {
		t.Errorf("width at DPR 2 = %d, want 2400", got[1].PhysicalWidth)
	}

	// Same DPR again: nothing new.
	pub.SetDPR(2)
	if len(got) != 2 {
		t.Errorf("same-DPR SetDPR republished: %d emits", len(got))
	}
}
