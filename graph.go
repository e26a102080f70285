package framegraph

import (
	"errors"
	"fmt"
	"time"

	"github.com/phanxgames/framegraph/gpu"
	"github.com/phanxgames/framegraph/settings"
)

// Config controls optional graph behavior.
type Config struct {
	// Profiler receives one scope per executed node. Nil disables profiling.
	Profiler Profiler
	// ReleaseInactive evicts framebuffers that only inactive nodes use and
	// recreates them when such a node activates again. By default gated-off
	// nodes keep their framebuffers resident.
	ReleaseInactive bool
	// Debug logs per-frame pass timings at debug level.
	Debug bool
}

// entry is a node placed in execution order.
type entry struct {
	node    RenderNode
	gate    *ConditionGate
	uses    []ResourceUse
	handles []ResourceHandle
	// seen holds the generation of each handle at the last successful Setup.
	seen     []uint32
	declared map[ResourceID]bool
}

// Graph is a render graph: a fixed set of nodes executed once per frame in
// resource dependency order.
//
// A Graph belongs to the render thread. Only the settings bus it observes
// may be mutated from other goroutines.
type Graph struct {
	dev   gpu.Device
	bus   *settings.Bus
	mats  gpu.MaterialLibrary
	cfg   Config
	prof  Profiler
	res   Resolution
	pool  *FramebufferPool
	order []*entry

	built    bool
	disposed bool
	running  bool
	frame    uint64
	stats    FrameStats
}

// NewGraph creates an unbuilt graph. bus and mats may be nil for graphs
// whose nodes read no settings or use no materials.
func NewGraph(dev gpu.Device, bus *settings.Bus, mats gpu.MaterialLibrary, res Resolution, cfg Config) *Graph {
	prof := cfg.Profiler
	if prof == nil {
		prof = nopProfiler{}
	}
	return &Graph{
		dev:  dev,
		bus:  bus,
		mats: mats,
		cfg:  cfg,
		prof: prof,
		res:  res,
	}
}

// Build validates and orders nodes, allocates their framebuffers and runs
// every Setup. On error nothing is kept and the graph stays unbuilt.
func (g *Graph) Build(nodes ...RenderNode) error {
	if g.disposed {
		return ErrDisposed
	}
	if g.built {
		return ErrAlreadyBuilt
	}
	if !g.res.Valid() {
		return ErrInvalidResolution
	}

	names := make(map[string]bool, len(nodes))
	uses := make([][]ResourceUse, len(nodes))
	for i, n := range nodes {
		name := n.Name()
		if name == "" {
			return fmt.Errorf("%w (index %d)", ErrUnnamedNode, i)
		}
		if names[name] {
			return fmt.Errorf("%w: %s", ErrDuplicateNode, name)
		}
		names[name] = true
		uses[i] = n.DeclareResources()
		for _, u := range uses[i] {
			if _, err := ParseResourceID(string(u.Spec.ID)); err != nil {
				return fmt.Errorf("node %s: %w", name, err)
			}
		}
	}

	idx, err := topoSort(nodes, uses)
	if err != nil {
		return err
	}

	g.pool = NewFramebufferPool(g.dev, g.res)
	g.order = make([]*entry, 0, len(nodes))
	for _, i := range idx {
		n := nodes[i]
		gate := NewConditionGate(n.Condition())
		if g.bus != nil {
			gate.Subscribe(g.bus)
		}
		e := &entry{
			node:     n,
			gate:     gate,
			uses:     uses[i],
			declared: make(map[ResourceID]bool, len(uses[i])),
		}
		g.order = append(g.order, e)
	}

	for _, e := range g.order {
		for _, u := range e.uses {
			fb, err := g.pool.Request(u.Spec)
			if err != nil {
				g.rollback()
				return fmt.Errorf("node %s: %w", e.node.Name(), err)
			}
			if !e.declared[u.Spec.ID] {
				e.declared[u.Spec.ID] = true
				e.handles = append(e.handles, fb.Handle())
			}
		}
		e.seen = make([]uint32, len(e.handles))
	}

	for _, e := range g.order {
		if err := g.setup(e); err != nil {
			g.rollback()
			return err
		}
	}

	g.built = true
	Logger().Info("render graph built",
		"nodes", len(g.order), "resources", g.pool.Len(), "resolution", g.res.String())
	return nil
}

func (g *Graph) rollback() {
	for _, e := range g.order {
		e.gate.Close()
	}
	g.order = nil
	if g.pool != nil {
		g.pool.Dispose()
		g.pool = nil
	}
}

// setup runs the node's Setup and records the framebuffer generations it
// saw.
func (g *Graph) setup(e *entry) error {
	sc := &SetupContext{
		node:     e.node.Name(),
		declared: e.declared,
		pool:     g.pool,
		mats:     g.mats,
		bus:      g.bus,
		dev:      g.dev,
	}
	if err := e.node.Setup(sc); err != nil {
		return &SetupError{Node: e.node.Name(), Err: err}
	}
	for i, h := range e.handles {
		e.seen[i], _ = g.pool.generationOf(h)
	}
	Logger().Debug("node setup", "node", e.node.Name())
	return nil
}

// stale reports whether any of the node's framebuffers was recreated or
// released since its last Setup.
func (g *Graph) stale(e *entry) bool {
	for i, h := range e.handles {
		gen, resident := g.pool.generationOf(h)
		if !resident || gen != e.seen[i] {
			return true
		}
	}
	return false
}

// refresh re-materializes the node's framebuffers and re-runs Setup.
func (g *Graph) refresh(e *entry) error {
	for _, h := range e.handles {
		if _, err := g.pool.Lookup(h); err != nil {
			return err
		}
	}
	return g.setup(e)
}

// RunFrame executes every active node once, in order. A node error stops
// the frame and is returned as a FrameAbortedError; the graph stays usable
// and the next frame starts from the first node again.
func (g *Graph) RunFrame() error {
	if g.disposed {
		return ErrDisposed
	}
	if !g.built {
		return ErrNotBuilt
	}
	if g.running {
		return ErrFrameInProgress
	}
	g.running = true
	defer func() { g.running = false }()

	g.frame++
	start := time.Now()
	w, h := g.dev.DisplaySize()
	display := DisplayState{Width: w, Height: h}
	stats := FrameStats{Frame: g.frame}
	if fm, ok := g.prof.(FrameMarker); ok {
		fm.BeginFrame(g.frame)
	}

	active := make([]bool, len(g.order))
	for i, e := range g.order {
		active[i] = e.gate.IsActive()
	}
	if g.cfg.ReleaseInactive {
		stats.Evicted = g.releaseInactive(active)
	}

	rc := &RenderContext{
		Device:   g.dev,
		Profiler: g.prof,
		Settings: g.bus,
		Frame:    g.frame,
		Display:  display,
	}
	for i, e := range g.order {
		name := e.node.Name()
		if !active[i] {
			stats.Skipped++
			continue
		}
		if g.stale(e) {
			if err := g.refresh(e); err != nil {
				return g.abort(&stats, start, name, display, err)
			}
		}

		g.prof.StartScope(name)
		passStart := time.Now()
		got, err := e.node.Execute(rc, display)
		elapsed := time.Since(passStart)
		g.prof.EndScope()

		if err == nil && !got.Equal(display) {
			Logger().Warn("node leaked display state",
				"node", name, "frame", g.frame, "width", got.Width, "height", got.Height)
			err = ErrStateLeak
		}
		if err != nil {
			return g.abort(&stats, start, name, display, err)
		}
		stats.Executed++
		stats.Passes = append(stats.Passes, PassTiming{Node: name, Duration: elapsed})
	}

	stats.Duration = time.Since(start)
	g.stats = stats
	if g.cfg.Debug {
		g.debugLog(stats)
	}
	return nil
}

func (g *Graph) abort(stats *FrameStats, start time.Time, node string, display DisplayState, err error) error {
	BindDisplay(g.dev, display)
	stats.Aborted = node
	stats.Duration = time.Since(start)
	g.stats = *stats
	Logger().Warn("frame aborted", "frame", g.frame, "node", node, "error", err)
	return &FrameAbortedError{Node: node, Frame: g.frame, Err: err}
}

// releaseInactive evicts every resident framebuffer no active node uses.
func (g *Graph) releaseInactive(active []bool) int {
	needed := make(map[ResourceHandle]bool)
	for i, e := range g.order {
		if !active[i] {
			continue
		}
		for _, h := range e.handles {
			needed[h] = true
		}
	}
	evicted := 0
	for _, id := range g.pool.IDs() {
		h, _ := g.pool.Handle(id)
		if needed[h] || !g.pool.Resident(id) {
			continue
		}
		if err := g.pool.Evict(id); err == nil {
			evicted++
		}
	}
	return evicted
}

// Resize resizes every framebuffer for res and re-runs Setup on the nodes
// whose framebuffers were recreated. It must not be called from inside a
// frame.
//
// If a framebuffer cannot be allocated the error is returned and the
// affected nodes are set up again, and the allocation retried, before
// their next Execute.
func (g *Graph) Resize(res Resolution) error {
	if g.disposed {
		return ErrDisposed
	}
	if g.running {
		return ErrFrameInProgress
	}
	if !res.Valid() {
		return ErrInvalidResolution
	}
	g.res = res
	if !g.built {
		return nil
	}

	affected, poolErr := g.pool.Resize(res)
	if len(affected) == 0 {
		return poolErr
	}
	hit := make(map[ResourceID]bool, len(affected))
	for _, id := range affected {
		hit[id] = true
	}

	errs := []error{poolErr}
	for _, e := range g.order {
		if !e.usesAny(hit) {
			continue
		}
		if g.stale(e) && g.allResident(e) {
			if err := g.setup(e); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (e *entry) usesAny(ids map[ResourceID]bool) bool {
	for id := range e.declared {
		if ids[id] {
			return true
		}
	}
	return false
}

func (g *Graph) allResident(e *entry) bool {
	for _, h := range e.handles {
		if _, resident := g.pool.generationOf(h); !resident {
			return false
		}
	}
	return true
}

// Order returns the node names in execution order.
func (g *Graph) Order() []string {
	names := make([]string, len(g.order))
	for i, e := range g.order {
		names[i] = e.node.Name()
	}
	return names
}

// Gate returns the condition gate of the named node.
func (g *Graph) Gate(name string) (*ConditionGate, bool) {
	for _, e := range g.order {
		if e.node.Name() == name {
			return e.gate, true
		}
	}
	return nil, false
}

// Pool returns the framebuffer pool. It is nil until Build succeeds.
func (g *Graph) Pool() *FramebufferPool { return g.pool }

// Settings returns the settings bus the graph observes.
func (g *Graph) Settings() *settings.Bus { return g.bus }

// Resolution returns the current display resolution.
func (g *Graph) Resolution() Resolution { return g.res }

// Frame returns the number of frames started so far.
func (g *Graph) Frame() uint64 { return g.frame }

// Stats returns the summary of the most recent frame.
func (g *Graph) Stats() FrameStats { return g.stats }

// Dispose tears the graph down: nodes are disposed in reverse order, their
// subscriptions cancelled and every framebuffer destroyed. A disposed graph
// cannot be built again.
func (g *Graph) Dispose() {
	if g.disposed {
		return
	}
	g.disposed = true
	for i := len(g.order) - 1; i >= 0; i-- {
		e := g.order[i]
		if d, ok := e.node.(Disposer); ok {
			d.Dispose()
		}
	}
	g.rollback()
	g.built = false
}
