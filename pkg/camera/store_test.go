package camera

import (
	"math"
	"testing"

	"github.com/recera/inkview/pkg/geom"
)

func newTestStore() *Store {
	s := NewStore(geom.Size{W: 1200, H: 2200}, DefaultConstraints(), 0)
	s.Set(Patch{ViewportSize: SizePtr(geom.Size{W: 800, H: 600})}, true)
	return s
}

func TestStoreDefaults(t *testing.T) {
	s := newTestStore()
	st := s.Get()
	if st.Scale != 1 {
		t.Errorf("initial scale = %v, want 1", st.Scale)
	}
	if st.FitMode != FitWidth {
		t.Errorf("initial mode = %v, want fit-width", st.FitMode)
	}
	if st.ScrollX != 0 || st.ScrollY != 0 {
		t.Errorf("initial scroll = %v,%v, want 0,0", st.ScrollX, st.ScrollY)
	}
}

func TestStoreClampsScaleToConstraints(t *testing.T) {
	s := newTestStore()
	s.Set(Patch{Scale: Float(100)}, false)
	if got := s.Get().Scale; got != DefaultConstraints().MaxScale {
		t.Errorf("scale = %v, want clamp to %v", got, DefaultConstraints().MaxScale)
	}
	s.Set(Patch{Scale: Float(0.0001)}, false)
	if got := s.Get().Scale; got != DefaultConstraints().MinScale {
		t.Errorf("scale = %v, want clamp to %v", got, DefaultConstraints().MinScale)
	}
}

func TestStoreRepairsNonFiniteScale(t *testing.T) {
	s := newTestStore()
	s.Set(Patch{Scale: Float(math.NaN())}, false)
	st := s.Get()
	if math.IsNaN(st.Scale) || st.Scale <= 0 {
		t.Errorf("NaN scale leaked into state: %v", st.Scale)
	}
}

func TestStoreClampsScrollAgainstVirtualSize(t *testing.T) {
	s := newTestStore()
	s.Set(Patch{Scale: Float(1), ScrollX: Float(99999), ScrollY: Float(99999)}, false)
	st := s.Get()
	maxX := st.VirtualSize.W*st.Scale - st.ViewportSize.W
	maxY := st.VirtualSize.H*st.Scale - st.ViewportSize.H
	if st.ScrollX > maxX || st.ScrollY > maxY {
		t.Errorf("scroll %v,%v exceeds max %v,%v", st.ScrollX, st.ScrollY, maxX, maxY)
	}
}

func TestStoreIdempotentWrites(t *testing.T) {
	s := newTestStore()
	notifies := 0
	s.Subscribe(func(State) { notifies++ })

	patch := Patch{Scale: Float(2), ScrollX: Float(50)}
	s.Set(patch, false)
	if notifies != 1 {
		t.Fatalf("expected 1 notification, got %d", notifies)
	}
	// Same already-clamped patch again: no observable change, no
	// duplicate notification.
	s.Set(patch, false)
	if notifies != 1 {
		t.Errorf("duplicate write notified subscribers: %d notifications", notifies)
	}
}

func TestStoreNotifiesInRegistrationOrder(t *testing.T) {
	s := newTestStore()
	var order []int
	s.Subscribe(func(State) { order = append(order, 1) })
	s.Subscribe(func(State) { order = append(order, 2) })
	s.Subscribe(func(State) { order = append(order, 3) })

	s.Set(Patch{Scale: Float(1.5)}, false)
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("subscribers ran out of order: %v", order)
	}
}

func TestStoreUnsubscribe(t *testing.T) {
	s := newTestStore()
	calls := 0
	unsub := s.Subscribe(func(State) { calls++ })
	s.Set(Patch{Scale: Float(1.5)}, false)
	unsub()
	s.Set(Patch{Scale: Float(2)}, false)
	if calls != 1 {
		t.Errorf("expected 1 call after unsubscribe, got %d", calls)
	}
	// Double unsubscribe is harmless.
	unsub()
}

func TestStoreSuspensionGatesNonForcedWrites(t *testing.T) {
	s := newTestStore()
	s.Suspend()

	s.Set(Patch{Scale: Float(2)}, false)
	if got := s.Get().Scale; got != 1 {
		t.Errorf("non-forced write applied while suspended: scale %v", got)
	}

	s.Set(Patch{Scale: Float(2)}, true)
	if got := s.Get().Scale; got != 2 {
		t.Errorf("forced write blocked while suspended: scale %v", got)
	}

	// Pan is user input and always lands.
	s.Pan(10, 20)
	st := s.Get()
	if st.ScrollX != 10 || st.ScrollY != 20 {
		t.Errorf("pan blocked while suspended: %v,%v", st.ScrollX, st.ScrollY)
	}

	s.Resume()
	s.Set(Patch{Scale: Float(3)}, false)
	if got := s.Get().Scale; got != 3 {
		t.Errorf("write blocked after resume: scale %v", got)
	}
}

func TestConstraintsSanitize(t *testing.T) {
	s := NewStore(geom.Size{W: 1200, H: 2200}, Constraints{MinScale: 4, MaxScale: 0.5}, 0)
	st := s.Get()
	if st.Constraints.MinScale > st.Constraints.MaxScale {
		t.Errorf("inverted bounds survived sanitize: %+v", st.Constraints)
	}

	s = NewStore(geom.Size{W: 1200, H: 2200}, Constraints{MinScale: -1, MaxScale: -2}, 0)
	st = s.Get()
	if st.Constraints.MinScale <= 0 || st.Constraints.MaxScale <= 0 {
		t.Errorf("non-positive bounds survived sanitize: %+v", st.Constraints)
	}
}
