package main

import (
	_ "embed"

	"github.com/phanxgames/framegraph"
	"github.com/phanxgames/framegraph/gpu"
)

const materialScene = "demo:prog.scene"

//go:embed scene.kage
var sceneShader []byte

var sceneOpaque = framegraph.ResourceSpec{
	ID:     framegraph.MustResourceID("engine:sceneOpaque"),
	Scale:  framegraph.FullScale,
	Format: gpu.FormatDefault,
	Depth:  true,
}

// sceneNode draws the procedural test scene into engine:sceneOpaque.
type sceneNode struct {
	framegraph.BaseNode
	time float64

	material gpu.Material
	fbo      *framegraph.Framebuffer
}

func newSceneNode() *sceneNode {
	n := &sceneNode{BaseNode: framegraph.NewBaseNode("opaqueObjects")}
	n.RequiresFBO(sceneOpaque, framegraph.Write)
	return n
}

func (n *sceneNode) Setup(sc *framegraph.SetupContext) error {
	var err error
	if n.material, err = sc.Material(materialScene); err != nil {
		return err
	}
	n.fbo, err = sc.Framebuffer(sceneOpaque.ID)
	return err
}

func (n *sceneNode) Execute(rc *framegraph.RenderContext, prev framegraph.DisplayState) (framegraph.DisplayState, error) {
	rc.Profiler.StartScope("rendering/opaqueObjects")
	defer rc.Profiler.EndScope()

	dev := rc.Device
	dev.UseMaterial(n.material)
	n.material.SetFloat2("Resolution", float32(n.fbo.Width()), float32(n.fbo.Height()))
	n.material.SetFloat("Time", float32(n.time))

	state := framegraph.BindFramebuffer(dev, n.fbo)
	dev.Clear(gpu.ClearColor | gpu.ClearDepth)
	if err := dev.SubmitFullscreenQuad(); err != nil {
		return state, err
	}
	return framegraph.BindDisplay(dev, prev), nil
}
