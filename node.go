package framegraph

import (
	"reflect"

	"github.com/phanxgames/framegraph/gpu"
	"github.com/phanxgames/framegraph/settings"
)

// RenderNode is one pass of the render graph.
//
// The graph calls DeclareResources and Condition once, at Build. Setup runs
// at Build and again whenever a framebuffer the node declared is recreated;
// it is the only place a node may fetch framebuffers and materials. Execute
// runs once per frame while the node's condition holds.
type RenderNode interface {
	Name() string
	DeclareResources() []ResourceUse
	Condition() Condition
	Setup(sc *SetupContext) error
	// Execute draws the pass. It receives the display state current at entry
	// and must return it unchanged: a node that binds its own framebuffer
	// rebinds the display before returning.
	Execute(rc *RenderContext, prev DisplayState) (DisplayState, error)
}

// Disposer is implemented by nodes that hold resources outside the pool.
// Dispose is called once when the graph is disposed.
type Disposer interface {
	Dispose()
}

// DisplayState is the render target and viewport a node must leave behind.
// A nil Target is the display.
type DisplayState struct {
	Target        gpu.Target
	Width, Height int
}

// Equal reports whether s and o name the same target and viewport. Targets
// of a type that cannot be compared with == are compared deeply.
func (s DisplayState) Equal(o DisplayState) bool {
	return s.Width == o.Width && s.Height == o.Height && sameTarget(s.Target, o.Target)
}

func sameTarget(a, b gpu.Target) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	t := reflect.TypeOf(a)
	if t != reflect.TypeOf(b) {
		return false
	}
	if !t.Comparable() {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}

// BaseNode implements the declarative half of RenderNode. Embed it and
// call RequiresFBO and RequiresCondition from the constructor.
type BaseNode struct {
	name string
	uses []ResourceUse
	cond Condition
}

// NewBaseNode returns a BaseNode with no resources and an Always condition.
func NewBaseNode(name string) BaseNode {
	return BaseNode{name: name, cond: Always()}
}

// Name implements RenderNode.
func (b *BaseNode) Name() string { return b.name }

// DeclareResources implements RenderNode.
func (b *BaseNode) DeclareResources() []ResourceUse {
	return append([]ResourceUse(nil), b.uses...)
}

// Condition implements RenderNode.
func (b *BaseNode) Condition() Condition { return b.cond }

// RequiresFBO declares a framebuffer the node uses.
func (b *BaseNode) RequiresFBO(spec ResourceSpec, access Access) {
	b.uses = append(b.uses, ResourceUse{Spec: spec, Access: access})
}

// RequiresCondition sets the activation condition. Calling it again
// replaces the previous condition.
func (b *BaseNode) RequiresCondition(c Condition) {
	b.cond = c
}

// SetupContext gives a node access to its framebuffers and materials
// during Setup.
type SetupContext struct {
	node     string
	declared map[ResourceID]bool
	pool     *FramebufferPool
	mats     gpu.MaterialLibrary
	bus      *settings.Bus
	dev      gpu.Device
}

// Framebuffer returns the current framebuffer for a resource the node
// declared. Asking for anything else is a NotFoundError.
func (sc *SetupContext) Framebuffer(id ResourceID) (*Framebuffer, error) {
	if !sc.declared[id] {
		return nil, &NotFoundError{ID: id, Node: sc.node}
	}
	return sc.pool.Get(id)
}

// Material resolves a material by name.
func (sc *SetupContext) Material(name string) (gpu.Material, error) {
	if sc.mats == nil {
		return nil, &MaterialError{Node: sc.node, Material: name, Err: errNoMaterials}
	}
	m, err := sc.mats.Material(name)
	if err != nil {
		return nil, &MaterialError{Node: sc.node, Material: name, Err: err}
	}
	return m, nil
}

// Settings returns the graph's settings bus. It may be nil.
func (sc *SetupContext) Settings() *settings.Bus { return sc.bus }

// Device returns the graph's device.
func (sc *SetupContext) Device() gpu.Device { return sc.dev }

// Resolution returns the current display resolution.
func (sc *SetupContext) Resolution() Resolution { return sc.pool.Resolution() }

// RenderContext is passed to Execute.
type RenderContext struct {
	Device   gpu.Device
	Profiler Profiler
	Settings *settings.Bus
	// Frame is the 1-based number of the running frame.
	Frame uint64
	// Display is the state every node must restore.
	Display DisplayState
}

// BindFramebuffer binds fb as the render target, sets the viewport to its
// size and returns the resulting state.
func BindFramebuffer(dev gpu.Device, fb *Framebuffer) DisplayState {
	dev.Bind(fb.Target())
	SetViewportToSizeOf(dev, fb)
	return DisplayState{Target: fb.Target(), Width: fb.Width(), Height: fb.Height()}
}

// BindDisplay rebinds the display and its viewport and returns display.
func BindDisplay(dev gpu.Device, display DisplayState) DisplayState {
	dev.Bind(display.Target)
	dev.SetViewport(display.Width, display.Height)
	return display
}

// SetViewportToSizeOf sets the viewport to the full size of fb.
func SetViewportToSizeOf(dev gpu.Device, fb *Framebuffer) {
	dev.SetViewport(fb.Width(), fb.Height())
}
