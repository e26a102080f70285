package framegraph

import (
	"github.com/phanxgames/framegraph/gpu"
	"github.com/phanxgames/framegraph/internal/gpurecord"
)

// passNode is a fullscreen pass used by the graph tests. It samples every
// resource it reads and draws into the resource it writes.
type passNode struct {
	BaseNode
	out   ResourceID
	reads []ResourceID

	mat      gpu.Material
	outFB    *Framebuffer
	inFBs    []*Framebuffer
	setups   int
	executes int
	// execErr is returned from Execute instead of drawing.
	execErr error
	// leak skips restoring the display.
	leak     bool
	disposed bool
	trace    *[]string
}

func newPass(name string, out ResourceSpec, reads ...ResourceSpec) *passNode {
	n := &passNode{BaseNode: NewBaseNode(name), out: out.ID}
	for _, r := range reads {
		n.RequiresFBO(r, Read)
		n.reads = append(n.reads, r.ID)
	}
	n.RequiresFBO(out, Write)
	return n
}

func (n *passNode) Setup(sc *SetupContext) error {
	n.setups++
	m, err := sc.Material("test:prog")
	if err != nil {
		return err
	}
	n.mat = m
	n.outFB, err = sc.Framebuffer(n.out)
	if err != nil {
		return err
	}
	n.inFBs = n.inFBs[:0]
	for _, id := range n.reads {
		fb, err := sc.Framebuffer(id)
		if err != nil {
			return err
		}
		n.inFBs = append(n.inFBs, fb)
	}
	return nil
}

func (n *passNode) Execute(rc *RenderContext, prev DisplayState) (DisplayState, error) {
	n.executes++
	if n.trace != nil {
		*n.trace = append(*n.trace, n.Name())
	}
	dev := rc.Device
	dev.UseMaterial(n.mat)
	for i, fb := range n.inFBs {
		dev.BindTexture(i, fb.Target())
	}
	state := BindFramebuffer(dev, n.outFB)
	dev.Clear(gpu.ClearColor | gpu.ClearDepth)
	if n.execErr != nil {
		return state, n.execErr
	}
	if err := dev.SubmitFullscreenQuad(); err != nil {
		return state, err
	}
	for i := range n.inFBs {
		dev.BindTexture(i, nil)
	}
	if n.leak {
		return state, nil
	}
	return BindDisplay(dev, prev), nil
}

func (n *passNode) Dispose() { n.disposed = true }

// newTestGraph returns a graph over a recording device of the given size.
func newTestGraph(w, h int, cfg Config) (*Graph, *gpurecord.Device) {
	dev := gpurecord.NewDevice(w, h)
	mats := gpurecord.NewMaterials("test:prog")
	return NewGraph(dev, nil, mats, Resolution{Width: w, Height: h}, cfg), dev
}
