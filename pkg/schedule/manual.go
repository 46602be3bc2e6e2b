package schedule

import (
	"sync"
	"time"
)

// ManualTimers is a deterministic Timers for tests: nothing fires until
// the test advances the clock or pumps a frame.
type ManualTimers struct {
	mu       sync.Mutex
	now      time.Duration
	nextID   int
	timeouts map[int]manualTimeout
	frames   map[int]func()
}

type manualTimeout struct {
	due time.Duration
	fn  func()
}

// NewManualTimers creates an empty manual timer set.
func NewManualTimers() *ManualTimers {
	return &ManualTimers{
		timeouts: make(map[int]manualTimeout),
		frames:   make(map[int]func()),
	}
}

// SetTimeout implements Timers.
func (m *ManualTimers) SetTimeout(d time.Duration, fn func()) (cancel func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.timeouts[id] = manualTimeout{due: m.now + d, fn: fn}
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.timeouts, id)
		m.mu.Unlock()
	}
}

// RequestFrame implements Timers.
func (m *ManualTimers) RequestFrame(fn func()) (cancel func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.frames[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.frames, id)
		m.mu.Unlock()
	}
}

// Advance moves the manual clock forward and fires every timeout that
// came due, in due order.
func (m *ManualTimers) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += d
	var ready []func()
	for id, t := range m.timeouts {
		if t.due <= m.now {
			ready = append(ready, t.fn)
			delete(m.timeouts, id)
		}
	}
	m.mu.Unlock()
	for _, fn := range ready {
		fn()
	}
}

// PumpFrame fires all pending animation-frame callbacks once.
func (m *ManualTimers) PumpFrame() {
	m.mu.Lock()
	var ready []func()
	for id, fn := range m.frames {
		ready = append(ready, fn)
		delete(m.frames, id)
	}
	m.mu.Unlock()
	for _, fn := range ready {
		fn()
	}
}

// PendingTimeouts reports how many timeouts are armed.
func (m *ManualTimers) PendingTimeouts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timeouts)
}

// PendingFrames reports how many frame callbacks are armed.
func (m *ManualTimers) PendingFrames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.frames)
}
