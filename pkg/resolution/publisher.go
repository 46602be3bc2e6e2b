package resolution

import (
	"github.com/recera/inkview/pkg/camera"
	"github.com/recera/inkview/pkg/geom"
)

// Listener receives each newly published resolution.
type Listener func(Resolution)

// scaleEpsilon filters republishes for scale changes too small to alter
// the rounded physical size meaningfully.
const scaleEpsilon = 0.002

// Publisher watches a camera store and republishes the physical
// backing-store size whenever the scale or the device pixel ratio
// changes. Identical consecutive results are not re-emitted.
type Publisher struct {
	store    *camera.Store
	limits   Limits
	listener Listener

	dpr       float64
	lastScale float64
	last      Resolution
	published bool

	unsubscribe func()
}

// NewPublisher creates a publisher delivering to fn. Call Start to begin
// observing the store; the initial DPR is 1 until SetDPR is called.
func NewPublisher(store *camera.Store, limits Limits, fn Listener) *Publisher {
	return &Publisher{store: store, limits: limits, listener: fn, dpr: 1}
}

// Start subscribes to the store and publishes the current resolution
// immediately so the drawing engine has a size before the first input.
func (p *Publisher) Start() {
	p.unsubscribe = p.store.Subscribe(func(st camera.State) {
		if p.published && !geom.IsSignificantScaleChange(p.lastScale, st.Scale, scaleEpsilon) {
			return
		}
		p.publish(st)
	})
	p.publish(p.store.Get())
}

// Stop detaches from the store.
func (p *Publisher) Stop() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

// SetDPR updates the device pixel ratio and republishes if it changed.
func (p *Publisher) SetDPR(dpr float64) {
	if dpr <= 0 || dpr == p.dpr {
		return
	}
	p.dpr = dpr
	p.publish(p.store.Get())
}

// Current returns the last published resolution.
func (p *Publisher) Current() Resolution { return p.last }

func (p *Publisher) publish(st camera.State) {
	res := Compute(st.PageSize, st.Scale, p.dpr, p.limits)
	if p.published && res == p.last {
		return
	}
	p.last = res
	p.lastScale = st.Scale
	p.published = true
	if p.listener != nil {
		p.listener(res)
	}
}
