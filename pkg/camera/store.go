package camera

import (
	"sync"

	"github.com/recera/inkview/pkg/geom"
)

// Subscriber receives the camera state after a write changed it.
type Subscriber func(State)

// Store owns the mutable camera state. Writes merge a Patch, re-clamp
// scale against the constraints and scroll against the virtual size, and
// notify subscribers synchronously in registration order. A write that
// changes nothing after clamping notifies nobody.
//
// The store also carries the "suspended" flag the fit controller gates
// its automatic writes on: while suspended, non-forced writes are
// dropped. User-initiated paths always write with force=true, so manual
// zoom and pan keep working while suspended; force never bypasses the
// numeric invariants, only the gate.
//
// The engine is single-threaded in the browser, but the store is
// mutex-guarded anyway so native tests can exercise it freely.
type Store struct {
	mu        sync.Mutex
	state     State
	suspended bool

	subsMu sync.Mutex
	subs   []subscription
	nextID uint32
}

type subscription struct {
	id uint32
	fn Subscriber
}

// NewStore creates a store with the given page size, constraints, and
// scroll gutter. The camera starts at scale 1, scroll 0, fit-width mode;
// the fit controller replaces that on mount.
func NewStore(page geom.Size, constraints Constraints, gutter float64) *Store {
	return &Store{
		state: State{
			Scale:       1,
			FitMode:     FitWidth,
			PageSize:    page,
			VirtualSize: page,
			Constraints: constraints.sanitize(),
			Gutter:      gutter,
		},
		nextID: 1,
	}
}

// Get returns a snapshot of the current state.
func (s *Store) Get() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Suspend gates non-forced writes until Resume. Set by any user-initiated
// interaction; never cleared automatically.
func (s *Store) Suspend() {
	s.mu.Lock()
	s.suspended = true
	s.mu.Unlock()
}

// Resume clears the suspension gate.
func (s *Store) Resume() {
	s.mu.Lock()
	s.suspended = false
	s.mu.Unlock()
}

// Suspended reports whether automatic writes are currently gated.
func (s *Store) Suspended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suspended
}

// Subscribe registers fn to run synchronously after every state-changing
// write, and returns an unsubscribe function. Subscribers run in
// registration order; no ordering guarantee beyond that.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.subsMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Set merges patch into the state, re-clamps, and notifies subscribers if
// anything changed. Non-forced writes are dropped while suspended.
func (s *Store) Set(patch Patch, force bool) {
	s.mu.Lock()
	if s.suspended && !force {
		s.mu.Unlock()
		return
	}

	next := s.state
	if patch.Constraints != nil {
		next.Constraints = patch.Constraints.sanitize()
	}
	if patch.PageSize != nil {
		next.PageSize = *patch.PageSize
	}
	if patch.VirtualSize != nil {
		next.VirtualSize = *patch.VirtualSize
	}
	if patch.ViewportSize != nil {
		next.ViewportSize = *patch.ViewportSize
	}
	if patch.Scale != nil {
		next.Scale = *patch.Scale
	}
	if patch.ScrollX != nil {
		next.ScrollX = *patch.ScrollX
	}
	if patch.ScrollY != nil {
		next.ScrollY = *patch.ScrollY
	}
	if patch.FitMode != nil {
		next.FitMode = *patch.FitMode
	}

	next.Scale = geom.ClampScale(next.Scale, next.Constraints.MinScale, next.Constraints.MaxScale)
	next.ScrollX, next.ScrollY = geom.ClampScroll(
		next.ScrollX, next.ScrollY, next.Scale,
		next.ViewportSize, next.VirtualSize, next.Gutter,
	)

	if next == s.state {
		s.mu.Unlock()
		return
	}
	s.state = next
	s.mu.Unlock()

	s.notify(next)
}

// Pan translates the camera by a world-space delta. Panning is always a
// user action, so it writes forced.
func (s *Store) Pan(dx, dy float64) {
	cur := s.Get()
	s.Set(Patch{
		ScrollX: Float(cur.ScrollX + dx),
		ScrollY: Float(cur.ScrollY + dy),
	}, true)
}

func (s *Store) notify(state State) {
	s.subsMu.Lock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.subsMu.Unlock()

	for _, sub := range subs {
		sub.fn(state)
	}
}
