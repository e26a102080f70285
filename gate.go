package framegraph

import (
	"sync"

	"github.com/zclconf/go-cty/cty"

	"github.com/phanxgames/framegraph/settings"
)

// ConditionGate caches a node's activation condition. Settings listeners
// only mark the gate dirty; the condition is evaluated at most once per
// change, on the render thread, the next time IsActive is asked.
//
// A gate is safe for concurrent use. Listeners may fire from any goroutine.
type ConditionGate struct {
	mu          sync.Mutex
	cond        Condition
	reader      settings.Reader
	cached      bool
	dirty       bool
	evaluations uint64
	subs        []*settings.Subscription
}

// NewConditionGate returns a dirty gate for c. Until Subscribe supplies a
// reader, conditions that read settings see every key unset.
func NewConditionGate(c Condition) *ConditionGate {
	return &ConditionGate{cond: c, dirty: true}
}

// Attach replaces the condition and marks the gate dirty.
func (g *ConditionGate) Attach(c Condition) {
	g.mu.Lock()
	g.cond = c
	g.dirty = true
	g.mu.Unlock()
}

// Condition returns the attached condition.
func (g *ConditionGate) Condition() Condition {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cond
}

// Subscribe uses bus as the gate's reader and marks the gate dirty whenever
// one of keys changes. With no keys the condition's own keys are used.
func (g *ConditionGate) Subscribe(bus *settings.Bus, keys ...string) {
	g.mu.Lock()
	g.reader = bus
	g.dirty = true
	if len(keys) == 0 {
		keys = g.cond.Keys()
	}
	g.mu.Unlock()

	subs := make([]*settings.Subscription, 0, len(keys))
	for _, k := range keys {
		subs = append(subs, bus.Subscribe(k, g.onChange))
	}

	g.mu.Lock()
	g.subs = append(g.subs, subs...)
	g.mu.Unlock()
}

func (g *ConditionGate) onChange(string, cty.Value) {
	g.Invalidate()
}

// Invalidate forces re-evaluation on the next IsActive.
func (g *ConditionGate) Invalidate() {
	g.mu.Lock()
	g.dirty = true
	g.mu.Unlock()
}

// IsActive reports whether the condition holds, evaluating it only if a
// subscribed setting changed since the last call.
func (g *ConditionGate) IsActive() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.dirty {
		return g.cached
	}
	r := g.reader
	if r == nil {
		r = emptyReader{}
	}
	g.cached = g.cond.Eval(r)
	g.dirty = false
	g.evaluations++
	return g.cached
}

// Evaluations returns how many times the condition has been evaluated.
func (g *ConditionGate) Evaluations() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.evaluations
}

// Close cancels every subscription. The gate keeps answering IsActive from
// its cache.
func (g *ConditionGate) Close() {
	g.mu.Lock()
	subs := g.subs
	g.subs = nil
	g.mu.Unlock()
	for _, s := range subs {
		s.Cancel()
	}
}

type emptyReader struct{}

func (emptyReader) Get(string) cty.Value { return cty.NilVal }
