// Package nodes provides the screen-space ambient occlusion passes and the
// final combine pass of the demo renderer.
//
// AmbientOcclusionPasses returns two nodes. The first renders raw
// occlusion into engine:ssao; the second blurs it into engine:ssaoBlurred.
// Both run only while the rendering.ssao setting is true. PresentNode
// multiplies the scene by the blurred occlusion and draws to the display.
package nodes

import (
	"github.com/phanxgames/framegraph"
	"github.com/phanxgames/framegraph/gpu"
)

// Settings keys read by the passes.
const (
	SettingSSAO          = "rendering.ssao"
	SettingSSAOIntensity = "rendering.ssaoIntensity"
)

// Material names.
const (
	MaterialSSAO     = "engine:prog.ssao"
	MaterialSSAOBlur = "engine:prog.ssaoBlur"
	MaterialCombine  = "engine:prog.combine"
)

// Node names.
const (
	NameSSAO     = "ambientOcclusionPasses/ssao"
	NameSSAOBlur = "ambientOcclusionPasses/ssaoBlur"
	NamePresent  = "present"
)

const profileScope = "rendering/ambientOcclusionPasses"

// noiseTileSize is the side of the rotation noise tile in pixels.
const noiseTileSize = 4

var (
	// SSAO holds raw occlusion.
	SSAO = framegraph.ResourceSpec{
		ID:     framegraph.MustResourceID("engine:ssao"),
		Scale:  framegraph.FullScale,
		Format: gpu.FormatDefault,
	}
	// SSAOBlurred holds blurred occlusion.
	SSAOBlurred = framegraph.ResourceSpec{
		ID:     framegraph.MustResourceID("engine:ssaoBlurred"),
		Scale:  framegraph.FullScale,
		Format: gpu.FormatDefault,
	}
)

// AmbientOcclusionPasses returns the generate and blur passes, in order.
// input is the scene the occlusion is estimated from; a zero spec means
// the generate pass samples nothing.
func AmbientOcclusionPasses(input framegraph.ResourceSpec) []framegraph.RenderNode {
	return []framegraph.RenderNode{NewSSAONode(input), NewSSAOBlurNode()}
}

// SSAONode renders ambient occlusion into engine:ssao.
type SSAONode struct {
	framegraph.BaseNode
	input framegraph.ResourceID

	material gpu.Material
	ssaoFBO  *framegraph.Framebuffer
	inputFBO *framegraph.Framebuffer
}

// NewSSAONode returns the generate pass. A zero input spec disables the
// scene input.
func NewSSAONode(input framegraph.ResourceSpec) *SSAONode {
	n := &SSAONode{BaseNode: framegraph.NewBaseNode(NameSSAO), input: input.ID}
	if input.ID != "" {
		n.RequiresFBO(input, framegraph.Read)
	}
	n.RequiresFBO(SSAO, framegraph.Write)
	n.RequiresCondition(framegraph.Flag(SettingSSAO))
	return n
}

// Setup implements framegraph.RenderNode.
func (n *SSAONode) Setup(sc *framegraph.SetupContext) error {
	var err error
	if n.material, err = sc.Material(MaterialSSAO); err != nil {
		return err
	}
	if n.ssaoFBO, err = sc.Framebuffer(SSAO.ID); err != nil {
		return err
	}
	n.inputFBO = nil
	if n.input != "" {
		if n.inputFBO, err = sc.Framebuffer(n.input); err != nil {
			return err
		}
	}
	return nil
}

// Execute implements framegraph.RenderNode.
func (n *SSAONode) Execute(rc *framegraph.RenderContext, prev framegraph.DisplayState) (framegraph.DisplayState, error) {
	rc.Profiler.StartScope(profileScope + "/ssao")
	defer rc.Profiler.EndScope()

	intensity := 1.0
	if rc.Settings != nil {
		intensity = rc.Settings.FloatOr(SettingSSAOIntensity, 1)
	}

	dev := rc.Device
	dev.UseMaterial(n.material)
	n.material.SetFloat2("TexelSize", 1/float32(n.ssaoFBO.Width()), 1/float32(n.ssaoFBO.Height()))
	n.material.SetFloat2("NoiseTexelSize", 1.0/noiseTileSize, 1.0/noiseTileSize)
	n.material.SetFloat("Intensity", float32(intensity))
	if n.inputFBO != nil {
		dev.BindTexture(0, n.inputFBO.Target())
	}

	state := framegraph.BindFramebuffer(dev, n.ssaoFBO)
	dev.Clear(gpu.ClearColor | gpu.ClearDepth)
	if err := dev.SubmitFullscreenQuad(); err != nil {
		return state, err
	}
	if n.inputFBO != nil {
		dev.BindTexture(0, nil)
	}
	return framegraph.BindDisplay(dev, prev), nil
}

// SSAOBlurNode blurs engine:ssao into engine:ssaoBlurred.
type SSAOBlurNode struct {
	framegraph.BaseNode

	material gpu.Material
	ssaoFBO  *framegraph.Framebuffer
	blurFBO  *framegraph.Framebuffer
}

// NewSSAOBlurNode returns the blur pass.
func NewSSAOBlurNode() *SSAOBlurNode {
	n := &SSAOBlurNode{BaseNode: framegraph.NewBaseNode(NameSSAOBlur)}
	n.RequiresFBO(SSAO, framegraph.Read)
	n.RequiresFBO(SSAOBlurred, framegraph.Write)
	n.RequiresCondition(framegraph.Flag(SettingSSAO))
	return n
}

// Setup implements framegraph.RenderNode.
func (n *SSAOBlurNode) Setup(sc *framegraph.SetupContext) error {
	var err error
	if n.material, err = sc.Material(MaterialSSAOBlur); err != nil {
		return err
	}
	if n.ssaoFBO, err = sc.Framebuffer(SSAO.ID); err != nil {
		return err
	}
	n.blurFBO, err = sc.Framebuffer(SSAOBlurred.ID)
	return err
}

// Execute implements framegraph.RenderNode.
func (n *SSAOBlurNode) Execute(rc *framegraph.RenderContext, prev framegraph.DisplayState) (framegraph.DisplayState, error) {
	rc.Profiler.StartScope(profileScope + "/ssaoBlur")
	defer rc.Profiler.EndScope()

	dev := rc.Device
	dev.UseMaterial(n.material)
	n.material.SetFloat2("TexelSize", 1/float32(n.blurFBO.Width()), 1/float32(n.blurFBO.Height()))
	dev.BindTexture(0, n.ssaoFBO.Target())

	state := framegraph.BindFramebuffer(dev, n.blurFBO)
	dev.Clear(gpu.ClearColor | gpu.ClearDepth)
	if err := dev.SubmitFullscreenQuad(); err != nil {
		return state, err
	}
	dev.BindTexture(0, nil)
	return framegraph.BindDisplay(dev, prev), nil
}
