package framegraph

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/phanxgames/framegraph/gpu"
	"github.com/phanxgames/framegraph/internal/gpurecord"
)

var (
	r1 = ResourceSpec{ID: "engine:ssao", Scale: FullScale}
	r2 = ResourceSpec{ID: "engine:ssaoBlurred", Scale: FullScale}
)

// ssaoGraph builds the Generate -> Blur scenario, both gated on
// rendering.ssao.
func ssaoGraph(t *testing.T, cfg Config, ssao bool) (*Graph, *gpurecord.Device, *passNode, *passNode) {
	t.Helper()
	bus := newTestBus(t, map[string]any{"rendering.ssao": ssao})
	dev := gpurecord.NewDevice(800, 600)
	mats := gpurecord.NewMaterials("test:prog")
	g := NewGraph(dev, bus, mats, Resolution{800, 600}, cfg)

	gen := newPass("generate", r1)
	gen.RequiresCondition(Flag("rendering.ssao"))
	blur := newPass("blur", r2, r1)
	blur.RequiresCondition(Flag("rendering.ssao"))

	// Declared out of order on purpose.
	if err := g.Build(blur, gen); err != nil {
		t.Fatal(err)
	}
	return g, dev, gen, blur
}

func TestGraphOrdersWritersBeforeReaders(t *testing.T) {
	g, dev, gen, blur := ssaoGraph(t, Config{}, true)
	if got, want := g.Order(), []string{"generate", "blur"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Order = %v, want %v", got, want)
	}

	var trace []string
	gen.trace, blur.trace = &trace, &trace
	dev.Reset()
	if err := g.RunFrame(); err != nil {
		t.Fatal(err)
	}
	if want := []string{"generate", "blur"}; !reflect.DeepEqual(trace, want) {
		t.Errorf("executed %v, want %v", trace, want)
	}
	if got, want := dev.Filter("quad"), []string{"quad engine:ssao", "quad engine:ssaoBlurred"}; !reflect.DeepEqual(got, want) {
		t.Errorf("quads = %v, want %v", got, want)
	}
	for _, id := range []ResourceID{r1.ID, r2.ID} {
		fb, _ := g.Pool().Get(id)
		if w, h := fb.Size(); w != 800 || h != 600 {
			t.Errorf("%s size = %dx%d, want 800x600", id, w, h)
		}
	}
	if dev.BoundLabel() != "display" {
		t.Errorf("bound after frame = %s, want display", dev.BoundLabel())
	}
	stats := g.Stats()
	if stats.Executed != 2 || stats.Skipped != 0 || stats.Frame != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestGraphSkipsInactiveNodes(t *testing.T) {
	g, dev, gen, blur := ssaoGraph(t, Config{}, false)
	dev.Reset()
	if err := g.RunFrame(); err != nil {
		t.Fatal(err)
	}
	if gen.executes != 0 || blur.executes != 0 {
		t.Errorf("executes = %d/%d, want 0/0", gen.executes, blur.executes)
	}
	if len(dev.Filter("quad", "bind")) != 0 {
		t.Errorf("unexpected device calls: %v", dev.Calls)
	}
	for _, id := range []ResourceID{r1.ID, r2.ID} {
		fb, err := g.Pool().Get(id)
		if err != nil || !fb.Valid() {
			t.Errorf("Get(%s) = %v, %v; want a valid framebuffer", id, fb, err)
		}
	}
	if g.Stats().Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", g.Stats().Skipped)
	}

	g.Settings().Set("rendering.ssao", true)
	if err := g.RunFrame(); err != nil {
		t.Fatal(err)
	}
	if gen.executes != 1 || blur.executes != 1 {
		t.Errorf("executes = %d/%d after enabling, want 1/1", gen.executes, blur.executes)
	}
}

func TestGraphResizeRecreatesAndRerunsSetup(t *testing.T) {
	g, dev, gen, blur := ssaoGraph(t, Config{}, false)
	old := gen.outFB

	dev.DisplayWidth, dev.DisplayHeight = 1600, 900
	if err := g.Resize(Resolution{1600, 900}); err != nil {
		t.Fatal(err)
	}
	if old.Valid() {
		t.Error("framebuffer from before the resize should be invalid")
	}
	if gen.setups != 2 || blur.setups != 2 {
		t.Errorf("setups = %d/%d, want 2/2", gen.setups, blur.setups)
	}
	for _, fb := range []*Framebuffer{gen.outFB, blur.outFB, blur.inFBs[0]} {
		if !fb.Valid() {
			t.Errorf("%s not valid after Setup", fb.ID())
		}
		if w, h := fb.Size(); w != 1600 || h != 900 {
			t.Errorf("%s size = %dx%d, want 1600x900", fb.ID(), w, h)
		}
	}
	if got := dev.Live(); len(got) != 2 {
		t.Errorf("Live = %v, want 2 framebuffers", got)
	}

	g.Settings().Set("rendering.ssao", true)
	dev.Reset()
	if err := g.RunFrame(); err != nil {
		t.Fatal(err)
	}
	if vw, vh := dev.Viewport(); vw != 1600 || vh != 900 {
		t.Errorf("viewport after frame = %dx%d, want 1600x900", vw, vh)
	}
	// Same size again is a no-op.
	if err := g.Resize(Resolution{1600, 900}); err != nil {
		t.Fatal(err)
	}
	if gen.setups != 2 {
		t.Errorf("setups = %d after no-op resize, want 2", gen.setups)
	}
}

func TestGraphFrameAbortKeepsEarlierOutput(t *testing.T) {
	g, dev, gen, blur := ssaoGraph(t, Config{}, true)
	blur.execErr = &AllocationError{ID: r2.ID, Width: 800, Height: 600, Err: gpu.ErrOutOfMemory}

	err := g.RunFrame()
	var fa *FrameAbortedError
	if !errors.As(err, &fa) {
		t.Fatalf("err = %v, want FrameAbortedError", err)
	}
	if fa.Node != "blur" || fa.Frame != 1 {
		t.Errorf("aborted = %+v", fa)
	}
	var ae *AllocationError
	if !errors.As(err, &ae) {
		t.Error("FrameAbortedError should unwrap to the node's error")
	}
	if dev.BoundLabel() != "display" {
		t.Errorf("bound after abort = %s, want display", dev.BoundLabel())
	}
	if vw, vh := dev.Viewport(); vw != 800 || vh != 600 {
		t.Errorf("viewport after abort = %dx%d, want 800x600", vw, vh)
	}
	genTarget := gen.outFB.Target().(*gpurecord.Target)
	if genTarget.Draws != 1 {
		t.Errorf("generate draws = %d, want 1", genTarget.Draws)
	}
	if g.Stats().Aborted != "blur" {
		t.Errorf("Stats.Aborted = %q", g.Stats().Aborted)
	}

	blur.execErr = nil
	var trace []string
	gen.trace, blur.trace = &trace, &trace
	if err := g.RunFrame(); err != nil {
		t.Fatal(err)
	}
	if want := []string{"generate", "blur"}; !reflect.DeepEqual(trace, want) {
		t.Errorf("next frame executed %v, want %v", trace, want)
	}
	if g.Frame() != 2 {
		t.Errorf("Frame = %d, want 2", g.Frame())
	}
}

func TestGraphStateLeakAbortsFrame(t *testing.T) {
	g, dev, gen, blur := ssaoGraph(t, Config{}, true)
	gen.leak = true

	err := g.RunFrame()
	if !errors.Is(err, ErrStateLeak) {
		t.Fatalf("err = %v, want ErrStateLeak", err)
	}
	if blur.executes != 0 {
		t.Error("nodes after a leak should not run")
	}
	if dev.BoundLabel() != "display" {
		t.Errorf("bound = %s, want display restored", dev.BoundLabel())
	}
}

func TestGraphBuildErrors(t *testing.T) {
	newG := func() *Graph {
		g, _ := newTestGraph(800, 600, Config{})
		return g
	}

	t.Run("duplicate", func(t *testing.T) {
		err := newG().Build(newPass("a", r1), newPass("a", r2))
		if !errors.Is(err, ErrDuplicateNode) {
			t.Errorf("err = %v, want ErrDuplicateNode", err)
		}
	})
	t.Run("unnamed", func(t *testing.T) {
		err := newG().Build(newPass("", r1))
		if !errors.Is(err, ErrUnnamedNode) {
			t.Errorf("err = %v, want ErrUnnamedNode", err)
		}
	})
	t.Run("invalid id", func(t *testing.T) {
		err := newG().Build(newPass("a", ResourceSpec{ID: "bad", Scale: FullScale}))
		if !errors.Is(err, ErrInvalidResourceID) {
			t.Errorf("err = %v, want ErrInvalidResourceID", err)
		}
	})
	t.Run("cycle", func(t *testing.T) {
		a := newPass("a", r1, r2)
		b := newPass("b", r2, r1)
		c := newPass("c", ResourceSpec{ID: "engine:other", Scale: FullScale})
		err := newG().Build(c, a, b)
		var ce *CycleError
		if !errors.As(err, &ce) {
			t.Fatalf("err = %v, want CycleError", err)
		}
		if want := []string{"a", "b"}; !reflect.DeepEqual(ce.Nodes, want) {
			t.Errorf("cycle nodes = %v, want %v", ce.Nodes, want)
		}
	})
	t.Run("spec conflict", func(t *testing.T) {
		half := r1
		half.Scale = HalfScale
		g, dev := newTestGraph(800, 600, Config{})
		err := g.Build(newPass("a", r1), newPass("b", r2, half))
		var sc *SpecConflictError
		if !errors.As(err, &sc) {
			t.Fatalf("err = %v, want SpecConflictError", err)
		}
		if len(dev.Live()) != 0 {
			t.Errorf("Live = %v after failed build", dev.Live())
		}
	})
	t.Run("material", func(t *testing.T) {
		dev := gpurecord.NewDevice(800, 600)
		g := NewGraph(dev, nil, gpurecord.NewMaterials(), Resolution{800, 600}, Config{})
		err := g.Build(newPass("a", r1))
		var me *MaterialError
		if !errors.As(err, &me) {
			t.Fatalf("err = %v, want MaterialError", err)
		}
		if me.Node != "a" || me.Material != "test:prog" {
			t.Errorf("MaterialError = %+v", me)
		}
		var se *SetupError
		if !errors.As(err, &se) || se.Node != "a" {
			t.Errorf("err = %v, want SetupError for a", err)
		}
		if !errors.Is(g.RunFrame(), ErrNotBuilt) {
			t.Error("graph should stay unbuilt after a failed build")
		}
		if len(dev.Live()) != 0 {
			t.Errorf("Live = %v after failed build", dev.Live())
		}
	})
	t.Run("allocation", func(t *testing.T) {
		g, dev := newTestGraph(800, 600, Config{})
		dev.FailCreate = func(desc gpu.FramebufferDesc) error {
			if desc.Label == string(r2.ID) {
				return gpu.ErrOutOfMemory
			}
			return nil
		}
		err := g.Build(newPass("a", r1), newPass("b", r2, r1))
		if !errors.Is(err, gpu.ErrOutOfMemory) {
			t.Errorf("err = %v, want ErrOutOfMemory", err)
		}
		if len(dev.Live()) != 0 {
			t.Errorf("Live = %v after failed build", dev.Live())
		}
	})
	t.Run("twice", func(t *testing.T) {
		g := newG()
		if err := g.Build(newPass("a", r1)); err != nil {
			t.Fatal(err)
		}
		if err := g.Build(newPass("b", r2)); !errors.Is(err, ErrAlreadyBuilt) {
			t.Errorf("err = %v, want ErrAlreadyBuilt", err)
		}
	})
}

func TestGraphTieBreaksByDeclarationOrder(t *testing.T) {
	g, _ := newTestGraph(800, 600, Config{})
	shared := ResourceSpec{ID: "engine:gbuffer", Scale: FullScale}
	out := ResourceSpec{ID: "engine:out", Scale: FullScale}
	// Two independent writers of different resources, a second writer of
	// gbuffer and a reader of both.
	nodes := []RenderNode{
		newPass("present", out, shared, r1),
		newPass("opaque", shared),
		newPass("ssao", r1),
		newPass("decals", shared),
	}
	// decals writes gbuffer after opaque.
	if err := g.Build(nodes...); err != nil {
		t.Fatal(err)
	}
	want := []string{"opaque", "ssao", "decals", "present"}
	if got := g.Order(); !reflect.DeepEqual(got, want) {
		t.Errorf("Order = %v, want %v", got, want)
	}
}

func TestGraphReadWriteRunsAfterWriter(t *testing.T) {
	g, _ := newTestGraph(800, 600, Config{})
	accumulate := func(name string) *passNode {
		n := &passNode{BaseNode: NewBaseNode(name), out: r1.ID}
		n.RequiresFBO(r1, ReadWrite)
		return n
	}
	present := newPass("present", r2, r1)
	acc := accumulate("accumulate")
	gen := newPass("generate", r1)
	acc2 := accumulate("accumulate2")

	if err := g.Build(present, acc, gen, acc2); err != nil {
		t.Fatal(err)
	}
	want := []string{"generate", "accumulate", "accumulate2", "present"}
	if got := g.Order(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Order = %v, want %v", got, want)
	}

	var trace []string
	for _, n := range []*passNode{present, acc, gen, acc2} {
		n.trace = &trace
	}
	if err := g.RunFrame(); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(trace, want) {
		t.Errorf("executed %v, want %v", trace, want)
	}
}

func TestGraphResizeSequence(t *testing.T) {
	g, dev := newTestGraph(800, 600, Config{})
	half := ResourceSpec{ID: "engine:ssaoHalf", Scale: HalfScale}
	gen := newPass("generate", r1)
	down := newPass("downsample", half, r1)
	blur := newPass("blur", r2, half)
	if err := g.Build(gen, down, blur); err != nil {
		t.Fatal(err)
	}

	for _, res := range []Resolution{{1600, 900}, {1024, 768}, {333, 201}, {640, 480}} {
		dev.DisplayWidth, dev.DisplayHeight = res.Width, res.Height
		if err := g.Resize(res); err != nil {
			t.Fatalf("Resize(%s): %v", res, err)
		}
		if err := g.RunFrame(); err != nil {
			t.Fatalf("RunFrame at %s: %v", res, err)
		}
		specs := map[ResourceID]ResourceSpec{r1.ID: r1, r2.ID: r2, half.ID: half}
		for _, n := range []*passNode{gen, down, blur} {
			for _, fb := range append([]*Framebuffer{n.outFB}, n.inFBs...) {
				if !fb.Valid() {
					t.Errorf("at %s %s: %s not valid", res, n.Name(), fb.ID())
				}
				ww, wh := specs[fb.ID()].Scale.Size(res)
				if w, h := fb.Size(); w != ww || h != wh {
					t.Errorf("at %s %s: %s = %dx%d, want %dx%d", res, n.Name(), fb.ID(), w, h, ww, wh)
				}
			}
		}
		for id, spec := range specs {
			fb, err := g.Pool().Get(id)
			if err != nil {
				t.Fatal(err)
			}
			ww, wh := spec.Scale.Size(res)
			if w, h := fb.Size(); w != ww || h != wh {
				t.Errorf("at %s pool %s = %dx%d, want %dx%d", res, id, w, h, ww, wh)
			}
		}
	}
	if w, h := down.outFB.Size(); w != 320 || h != 240 {
		t.Errorf("final half size = %dx%d, want 320x240", w, h)
	}
}

// sliceTarget is a Target type that cannot be compared with ==.
type sliceTarget struct{ dims []int }

func (t sliceTarget) Size() (int, int) { return t.dims[0], t.dims[1] }

func TestDisplayStateEqual(t *testing.T) {
	a := DisplayState{Target: sliceTarget{[]int{4, 4}}, Width: 4, Height: 4}
	b := DisplayState{Target: sliceTarget{[]int{4, 4}}, Width: 4, Height: 4}
	c := DisplayState{Target: sliceTarget{[]int{8, 8}}, Width: 4, Height: 4}
	if !a.Equal(b) {
		t.Error("equal slice targets should compare equal")
	}
	if a.Equal(c) {
		t.Error("different slice targets should not compare equal")
	}
	if a.Equal(DisplayState{Width: 4, Height: 4}) {
		t.Error("a target should not equal the display")
	}
	rt := &gpurecord.Target{Label: "x"}
	if !(DisplayState{Target: rt}).Equal(DisplayState{Target: rt}) {
		t.Error("same pointer target should compare equal")
	}
	if (DisplayState{Target: rt}).Equal(DisplayState{Target: &gpurecord.Target{Label: "x"}}) {
		t.Error("distinct pointer targets should not compare equal")
	}
	if (DisplayState{Width: 800, Height: 600}).Equal(DisplayState{Width: 800, Height: 599}) {
		t.Error("viewport sizes differ")
	}
}

func TestGraphRunFrameNotReentrant(t *testing.T) {
	g, _ := newTestGraph(800, 600, Config{})
	n := &reentrantNode{BaseNode: NewBaseNode("reenter"), g: g}
	if err := g.Build(n); err != nil {
		t.Fatal(err)
	}
	if err := g.RunFrame(); err != nil {
		t.Fatal(err)
	}
	if !errors.Is(n.runErr, ErrFrameInProgress) {
		t.Errorf("nested RunFrame err = %v, want ErrFrameInProgress", n.runErr)
	}
	if !errors.Is(n.resizeErr, ErrFrameInProgress) {
		t.Errorf("nested Resize err = %v, want ErrFrameInProgress", n.resizeErr)
	}
}

type reentrantNode struct {
	BaseNode
	g         *Graph
	runErr    error
	resizeErr error
}

func (n *reentrantNode) Setup(*SetupContext) error { return nil }

func (n *reentrantNode) Execute(_ *RenderContext, prev DisplayState) (DisplayState, error) {
	n.runErr = n.g.RunFrame()
	n.resizeErr = n.g.Resize(Resolution{10, 10})
	return prev, nil
}

func TestGraphReleaseInactive(t *testing.T) {
	g, dev, gen, blur := ssaoGraph(t, Config{ReleaseInactive: true}, true)
	if err := g.RunFrame(); err != nil {
		t.Fatal(err)
	}

	g.Settings().Set("rendering.ssao", false)
	if err := g.RunFrame(); err != nil {
		t.Fatal(err)
	}
	if got := dev.Live(); len(got) != 0 {
		t.Errorf("Live = %v, want framebuffers released", got)
	}
	if g.Stats().Evicted != 2 {
		t.Errorf("Evicted = %d, want 2", g.Stats().Evicted)
	}

	// Resize while released: nothing to recreate yet.
	dev.DisplayWidth, dev.DisplayHeight = 1024, 768
	if err := g.Resize(Resolution{1024, 768}); err != nil {
		t.Fatal(err)
	}

	g.Settings().Set("rendering.ssao", true)
	if err := g.RunFrame(); err != nil {
		t.Fatal(err)
	}
	if gen.setups != 2 || blur.setups != 2 {
		t.Errorf("setups = %d/%d, want 2/2", gen.setups, blur.setups)
	}
	if w, h := blur.inFBs[0].Size(); w != 1024 || h != 768 {
		t.Errorf("re-materialized size = %dx%d, want 1024x768", w, h)
	}
	if got := dev.Live(); len(got) != 2 {
		t.Errorf("Live = %v, want 2", got)
	}
}

func TestGraphKeepsResidentByDefault(t *testing.T) {
	g, dev, _, _ := ssaoGraph(t, Config{}, false)
	for i := 0; i < 3; i++ {
		if err := g.RunFrame(); err != nil {
			t.Fatal(err)
		}
	}
	if len(dev.Live()) != 2 || dev.Destroyed != 0 {
		t.Errorf("Live = %v, Destroyed = %d", dev.Live(), dev.Destroyed)
	}
}

func TestGraphResizeFailureRetriesSetup(t *testing.T) {
	g, dev, gen, blur := ssaoGraph(t, Config{}, true)
	dev.FailCreate = func(desc gpu.FramebufferDesc) error {
		if desc.Label == string(r2.ID) {
			return gpu.ErrOutOfMemory
		}
		return nil
	}
	dev.DisplayWidth, dev.DisplayHeight = 1600, 900
	err := g.Resize(Resolution{1600, 900})
	var ae *AllocationError
	if !errors.As(err, &ae) || ae.ID != r2.ID {
		t.Fatalf("err = %v, want AllocationError for %s", err, r2.ID)
	}
	if gen.setups != 2 {
		t.Errorf("generate setups = %d, want 2", gen.setups)
	}
	if blur.setups != 1 {
		t.Errorf("blur setups = %d, want 1 (deferred)", blur.setups)
	}

	dev.FailCreate = nil
	if err := g.RunFrame(); err != nil {
		t.Fatal(err)
	}
	if blur.setups != 2 {
		t.Errorf("blur setups = %d, want 2 after retry", blur.setups)
	}
	if w, _ := blur.outFB.Size(); w != 1600 {
		t.Errorf("blur width = %d, want 1600", w)
	}
}

func TestGraphProfilerScopes(t *testing.T) {
	prof := NewFrameProfiler()
	g, _, _, _ := ssaoGraph(t, Config{Profiler: prof, Debug: true}, true)
	if err := g.RunFrame(); err != nil {
		t.Fatal(err)
	}
	samples := prof.Samples()
	if len(samples) != 2 {
		t.Fatalf("samples = %+v, want 2", samples)
	}
	if samples[0].Name != "generate" || samples[1].Name != "blur" {
		t.Errorf("sample names = %s, %s", samples[0].Name, samples[1].Name)
	}
	if prof.Frame() != 1 {
		t.Errorf("profiler frame = %d, want 1", prof.Frame())
	}
	if len(g.Stats().Passes) != 2 {
		t.Errorf("Passes = %+v", g.Stats().Passes)
	}
}

func TestGraphDispose(t *testing.T) {
	g, dev, gen, blur := ssaoGraph(t, Config{}, true)
	bus := g.Settings()
	g.Dispose()
	if !gen.disposed || !blur.disposed {
		t.Error("nodes should be disposed")
	}
	if len(dev.Live()) != 0 {
		t.Errorf("Live = %v after Dispose", dev.Live())
	}
	if bus.ListenerCount("rendering.ssao") != 0 {
		t.Errorf("ListenerCount = %d after Dispose", bus.ListenerCount("rendering.ssao"))
	}
	if err := g.RunFrame(); !errors.Is(err, ErrDisposed) {
		t.Errorf("RunFrame after Dispose = %v, want ErrDisposed", err)
	}
	if err := g.Resize(Resolution{1024, 768}); !errors.Is(err, ErrDisposed) {
		t.Errorf("Resize after Dispose = %v, want ErrDisposed", err)
	}
	g.Dispose()
}

func TestGraphBuildAfterDispose(t *testing.T) {
	g, dev := newTestGraph(800, 600, Config{})
	if err := g.Build(newPass("p", r1)); err != nil {
		t.Fatal(err)
	}
	g.Dispose()
	if err := g.Build(newPass("p", r1)); !errors.Is(err, ErrDisposed) {
		t.Fatalf("Build after Dispose = %v, want ErrDisposed", err)
	}
	g.Dispose()
	if got := dev.Live(); len(got) != 0 {
		t.Errorf("Live = %v, want none", got)
	}
	if dev.Created != 1 {
		t.Errorf("Created = %d, want 1", dev.Created)
	}
}

func TestGraphNotBuilt(t *testing.T) {
	g, _ := newTestGraph(800, 600, Config{})
	if err := g.RunFrame(); !errors.Is(err, ErrNotBuilt) {
		t.Errorf("err = %v, want ErrNotBuilt", err)
	}
	if err := g.Resize(Resolution{1024, 768}); err != nil {
		t.Errorf("Resize before Build: %v", err)
	}
	if g.Resolution() != (Resolution{1024, 768}) {
		t.Errorf("Resolution = %s", g.Resolution())
	}
}

func TestUndeclaredFramebufferIsNotFound(t *testing.T) {
	g, _ := newTestGraph(800, 600, Config{})
	n := &sneakyNode{BaseNode: NewBaseNode("sneaky")}
	n.RequiresFBO(r1, Write)
	other := newPass("other", r2)
	err := g.Build(other, n)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if nf.Node != "sneaky" || nf.ID != r2.ID {
		t.Errorf("NotFoundError = %+v", nf)
	}
	if !strings.Contains(err.Error(), "did not declare") {
		t.Errorf("message = %q", err.Error())
	}
}

type sneakyNode struct{ BaseNode }

func (n *sneakyNode) Setup(sc *SetupContext) error {
	_, err := sc.Framebuffer(r2.ID)
	return err
}

func (n *sneakyNode) Execute(_ *RenderContext, prev DisplayState) (DisplayState, error) {
	return prev, nil
}
