// Package framegraph is a render graph for real-time deferred renderers.
//
// A render graph is a set of passes ([RenderNode]) that read and write
// offscreen framebuffers. The graph orders the passes by their resource
// dependencies, owns every framebuffer in a [FramebufferPool], switches
// passes on and off from runtime settings, and recreates framebuffers when
// the display is resized.
//
// The GPU is reached only through the interfaces in package gpu. Package
// ebitengpu implements them on [Ebitengine]; internal/gpurecord records
// calls for tests.
//
// # Quick start
//
//	bus, _ := settings.Init(map[string]any{"rendering.ssao": true})
//	g := framegraph.NewGraph(dev, bus, shaders, framegraph.Resolution{Width: 1280, Height: 720}, framegraph.Config{})
//	if err := g.Build(nodes.AmbientOcclusionPasses(scene)...); err != nil {
//		return err
//	}
//	for running {
//		if err := g.RunFrame(); err != nil {
//			log.Println(err) // the next frame starts over
//		}
//	}
//
// # Resources
//
// A framebuffer is named by a [ResourceID] ("engine:ssao") and sized by a
// [ScalingPolicy] relative to the display. Every node declares the
// resources it reads and writes; nodes naming the same ID share one
// framebuffer. Writers of a resource run before its readers.
//
// Nodes fetch framebuffers in Setup, never in Execute. When a resize (or
// [Config.ReleaseInactive]) recreates a framebuffer, the graph runs Setup
// again before the node's next Execute. A [Framebuffer] kept across that
// boundary reports Valid() == false.
//
// # Conditions
//
// A node's [Condition] decides whether it runs in a frame:
//
//	n.RequiresCondition(framegraph.All(
//		framegraph.Flag("rendering.ssao"),
//		framegraph.Not(framegraph.Equals("rendering.quality", "low")),
//	))
//
// Each node gets a [ConditionGate] subscribed to the settings the condition
// reads, so the condition is evaluated once per change instead of once per
// frame. Settings may change from any goroutine.
//
// # Display state
//
// Execute receives the [DisplayState] and must return it. Nodes bind their
// own framebuffer with [BindFramebuffer] and restore the display with
// [BindDisplay]. A node that returns anything else aborts the frame with
// [ErrStateLeak].
//
// [Ebitengine]: https://ebitengine.org
package framegraph
