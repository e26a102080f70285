package nodes

import (
	"github.com/phanxgames/framegraph"
	"github.com/phanxgames/framegraph/gpu"
	"github.com/phanxgames/framegraph/settings"
)

// PresentNode draws the scene to the display, darkened by the blurred
// occlusion while SSAO is enabled. It always runs.
type PresentNode struct {
	framegraph.BaseNode
	scene framegraph.ResourceID

	material gpu.Material
	sceneFBO *framegraph.Framebuffer
	aoFBO    *framegraph.Framebuffer
}

// NewPresentNode returns the combine pass for scene.
func NewPresentNode(scene framegraph.ResourceSpec) *PresentNode {
	n := &PresentNode{BaseNode: framegraph.NewBaseNode(NamePresent), scene: scene.ID}
	n.RequiresFBO(scene, framegraph.Read)
	n.RequiresFBO(SSAOBlurred, framegraph.Read)
	return n
}

// Setup implements framegraph.RenderNode.
func (n *PresentNode) Setup(sc *framegraph.SetupContext) error {
	var err error
	if n.material, err = sc.Material(MaterialCombine); err != nil {
		return err
	}
	if n.sceneFBO, err = sc.Framebuffer(n.scene); err != nil {
		return err
	}
	n.aoFBO, err = sc.Framebuffer(SSAOBlurred.ID)
	return err
}

// Execute implements framegraph.RenderNode.
func (n *PresentNode) Execute(rc *framegraph.RenderContext, prev framegraph.DisplayState) (framegraph.DisplayState, error) {
	rc.Profiler.StartScope("rendering/present")
	defer rc.Profiler.EndScope()

	enabled := float32(0)
	if rc.Settings != nil && settings.BoolValue(rc.Settings.Get(SettingSSAO)) {
		enabled = 1
	}

	dev := rc.Device
	dev.UseMaterial(n.material)
	n.material.SetFloat("SSAOEnabled", enabled)
	dev.BindTexture(0, n.sceneFBO.Target())
	dev.BindTexture(1, n.aoFBO.Target())

	framegraph.BindDisplay(dev, prev)
	dev.Clear(gpu.ClearColor | gpu.ClearDepth)
	err := dev.SubmitFullscreenQuad()
	dev.BindTexture(0, nil)
	dev.BindTexture(1, nil)
	return prev, err
}
