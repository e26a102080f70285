package framegraph

import (
	"github.com/phanxgames/framegraph/gpu"
)

// Framebuffer is a live GPU framebuffer owned by a FramebufferPool.
//
// Nodes hold Framebuffers only between Setup calls. When the pool recreates
// a resource (display resize, eviction) the old Framebuffer is invalidated
// and a new one takes its place under the same ResourceID and handle.
type Framebuffer struct {
	id         ResourceID
	handle     ResourceHandle
	width      int
	height     int
	format     gpu.Format
	target     gpu.Target
	generation uint32
	released   bool
}

// ID returns the resource identity.
func (fb *Framebuffer) ID() ResourceID { return fb.id }

// Handle returns the pool handle. It is stable across recreation.
func (fb *Framebuffer) Handle() ResourceHandle { return fb.handle }

// Width returns the width in pixels.
func (fb *Framebuffer) Width() int { return fb.width }

// Height returns the height in pixels.
func (fb *Framebuffer) Height() int { return fb.height }

// Size returns the dimensions in pixels.
func (fb *Framebuffer) Size() (int, int) { return fb.width, fb.height }

// Format returns the color format.
func (fb *Framebuffer) Format() gpu.Format { return fb.format }

// Target returns the device-side framebuffer.
func (fb *Framebuffer) Target() gpu.Target { return fb.target }

// Generation counts how many times this resource has been (re)created.
func (fb *Framebuffer) Generation() uint32 { return fb.generation }

// Valid reports whether the pool still owns this framebuffer. A node that
// observes an invalid Framebuffer kept a handle across a resize.
func (fb *Framebuffer) Valid() bool { return !fb.released }

// poolEntry tracks one resource identity. fb is nil while the resource is
// evicted or after a failed allocation.
type poolEntry struct {
	spec       ResourceSpec
	handle     ResourceHandle
	fb         *Framebuffer
	generation uint32
}

// FramebufferPool owns every framebuffer of a render graph, keyed by
// ResourceID and sized from the display resolution.
//
// The pool is not safe for concurrent use; it belongs to the render thread.
type FramebufferPool struct {
	dev      gpu.Device
	res      Resolution
	entries  []*poolEntry // index = handle-1
	byID     map[ResourceID]ResourceHandle
	disposed bool
}

// NewFramebufferPool creates an empty pool for the given display resolution.
func NewFramebufferPool(dev gpu.Device, res Resolution) *FramebufferPool {
	return &FramebufferPool{
		dev:  dev,
		res:  res,
		byID: make(map[ResourceID]ResourceHandle),
	}
}

// Resolution returns the display resolution the pool is sized for.
func (p *FramebufferPool) Resolution() Resolution { return p.res }

// Len returns the number of tracked resource identities.
func (p *FramebufferPool) Len() int { return len(p.entries) }

// IDs returns the tracked identities in request order.
func (p *FramebufferPool) IDs() []ResourceID {
	ids := make([]ResourceID, len(p.entries))
	for i, e := range p.entries {
		ids[i] = e.spec.ID
	}
	return ids
}

// Request returns the framebuffer for spec, creating it on first request.
// Repeated requests with the same spec return the same Framebuffer until a
// resize or eviction recreates it. Requesting a tracked identity with a
// different spec fails with a SpecConflictError.
func (p *FramebufferPool) Request(spec ResourceSpec) (*Framebuffer, error) {
	if p.disposed {
		return nil, ErrPoolDisposed
	}
	if _, err := ParseResourceID(string(spec.ID)); err != nil {
		return nil, err
	}
	if h, ok := p.byID[spec.ID]; ok {
		e := p.entries[h-1]
		if e.spec != spec {
			return nil, &SpecConflictError{ID: spec.ID, Existing: e.spec, Incoming: spec}
		}
		return p.materialize(e)
	}

	e := &poolEntry{spec: spec, handle: ResourceHandle(len(p.entries) + 1)}
	fb, err := p.allocate(e)
	if err != nil {
		return nil, err
	}
	p.entries = append(p.entries, e)
	p.byID[spec.ID] = e.handle
	return fb, nil
}

// Get returns the current framebuffer for id. It fails with a
// NotFoundError if id was never requested. An evicted resource is
// recreated.
func (p *FramebufferPool) Get(id ResourceID) (*Framebuffer, error) {
	if p.disposed {
		return nil, ErrPoolDisposed
	}
	h, ok := p.byID[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return p.materialize(p.entries[h-1])
}

// Lookup is Get by handle.
func (p *FramebufferPool) Lookup(h ResourceHandle) (*Framebuffer, error) {
	if p.disposed {
		return nil, ErrPoolDisposed
	}
	if h == 0 || int(h) > len(p.entries) {
		return nil, &NotFoundError{Handle: h}
	}
	return p.materialize(p.entries[h-1])
}

// Handle returns the handle assigned to id.
func (p *FramebufferPool) Handle(id ResourceID) (ResourceHandle, bool) {
	h, ok := p.byID[id]
	return h, ok
}

// Spec returns the spec tracked for id.
func (p *FramebufferPool) Spec(id ResourceID) (ResourceSpec, bool) {
	h, ok := p.byID[id]
	if !ok {
		return ResourceSpec{}, false
	}
	return p.entries[h-1].spec, true
}

// Resident reports whether id currently has a live framebuffer.
func (p *FramebufferPool) Resident(id ResourceID) bool {
	h, ok := p.byID[id]
	return ok && p.entries[h-1].fb != nil
}

// generationOf returns the generation of the live framebuffer behind h.
func (p *FramebufferPool) generationOf(h ResourceHandle) (uint32, bool) {
	if h == 0 || int(h) > len(p.entries) {
		return 0, false
	}
	e := p.entries[h-1]
	if e.fb == nil {
		return 0, false
	}
	return e.fb.generation, true
}

// Resize recomputes every tracked resource's size for res. Resources whose
// size changed are destroyed and recreated; resources whose size did not
// change are left untouched. It returns the identities whose framebuffer
// was replaced (or is due to be replaced after an allocation failure), in
// request order.
//
// Evicted resources are not allocated; they pick up the new size when next
// requested. If any allocation fails the remaining resources are still
// processed, the failed ones stay unallocated for a later retry, and the
// first AllocationError is returned.
func (p *FramebufferPool) Resize(res Resolution) ([]ResourceID, error) {
	if p.disposed {
		return nil, ErrPoolDisposed
	}
	if !res.Valid() {
		return nil, ErrInvalidResolution
	}
	if res == p.res {
		return nil, nil
	}
	old := p.res
	p.res = res

	var (
		affected []ResourceID
		firstErr error
	)
	for _, e := range p.entries {
		if e.fb == nil {
			continue
		}
		w, h := e.spec.Scale.Size(res)
		if w == e.fb.width && h == e.fb.height {
			continue
		}
		affected = append(affected, e.spec.ID)
		p.release(e)
		if _, err := p.allocate(e); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	Logger().Info("framebuffer pool resized",
		"from", old.String(), "to", res.String(), "recreated", len(affected))
	return affected, firstErr
}

// Evict destroys the framebuffer for id but keeps its spec tracked. The
// next Get or Request recreates it at the current size.
func (p *FramebufferPool) Evict(id ResourceID) error {
	if p.disposed {
		return ErrPoolDisposed
	}
	h, ok := p.byID[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	e := p.entries[h-1]
	if e.fb != nil {
		p.release(e)
		Logger().Debug("framebuffer evicted", "id", string(id))
	}
	return nil
}

// Dispose destroys every framebuffer. The pool cannot be used afterwards.
func (p *FramebufferPool) Dispose() {
	if p.disposed {
		return
	}
	for _, e := range p.entries {
		if e.fb != nil {
			p.release(e)
		}
	}
	p.entries = nil
	p.byID = nil
	p.disposed = true
}

// materialize returns the live framebuffer, allocating it if needed.
func (p *FramebufferPool) materialize(e *poolEntry) (*Framebuffer, error) {
	if e.fb != nil {
		return e.fb, nil
	}
	return p.allocate(e)
}

func (p *FramebufferPool) allocate(e *poolEntry) (*Framebuffer, error) {
	w, h := e.spec.Scale.Size(p.res)
	target, err := p.dev.CreateFramebuffer(gpu.FramebufferDesc{
		Label:  string(e.spec.ID),
		Format: e.spec.Format,
		Width:  w,
		Height: h,
		Depth:  e.spec.Depth,
	})
	if err != nil {
		return nil, &AllocationError{ID: e.spec.ID, Width: w, Height: h, Err: err}
	}
	e.generation++
	e.fb = &Framebuffer{
		id:         e.spec.ID,
		handle:     e.handle,
		width:      w,
		height:     h,
		format:     e.spec.Format,
		target:     target,
		generation: e.generation,
	}
	Logger().Debug("framebuffer created",
		"id", string(e.spec.ID), "width", w, "height", h, "generation", e.generation)
	return e.fb, nil
}

func (p *FramebufferPool) release(e *poolEntry) {
	p.dev.DestroyFramebuffer(e.fb.target)
	e.fb.released = true
	e.fb = nil
}
