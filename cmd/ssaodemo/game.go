package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween/ease"
	"github.com/urfave/cli"

	"github.com/phanxgames/framegraph"
	"github.com/phanxgames/framegraph/ebitengpu"
	"github.com/phanxgames/framegraph/nodes"
	"github.com/phanxgames/framegraph/settings"
)

// Intensity targets the I key tweens between.
const (
	intensityLow  = 0.35
	intensityHigh = 1.5
)

type game struct {
	log     *slog.Logger
	dev     *ebitengpu.Device
	shaders *ebitengpu.ShaderLibrary
	graph   *framegraph.Graph
	prof    *framegraph.FrameProfiler
	bus     *settings.Bus
	shots   *ebitengpu.Screenshotter
	scene   *sceneNode
	overlay *overlay

	res            framegraph.Resolution
	script         *framegraph.FrameScript
	exitOnDone     bool
	intensityTween *settings.Tween
	pendingWindow  *framegraph.Resolution
}

func run(ctx *cli.Context) error {
	log := setupLogging(ctx)

	bus, err := settings.Init(map[string]any{
		nodes.SettingSSAO:          true,
		nodes.SettingSSAOIntensity: 1.0,
	})
	if err != nil {
		return err
	}
	if path := ctx.String("settings"); path != "" {
		if err := bus.LoadFile(path); err != nil {
			return err
		}
		if ctx.Bool("watch") {
			w, err := settings.Watch(bus, path)
			if err != nil {
				return err
			}
			defer w.Close()
		}
	} else if ctx.Bool("watch") {
		return errors.New("--watch needs --settings")
	}

	res := framegraph.Resolution{Width: ctx.Int("width"), Height: ctx.Int("height")}
	if !res.Valid() {
		return fmt.Errorf("invalid resolution %s", res)
	}

	g := &game{
		log:        log,
		dev:        ebitengpu.NewDevice(res.Width, res.Height),
		shaders:    ebitengpu.NewShaderLibrary(nodes.ShaderSources()),
		bus:        bus,
		shots:      ebitengpu.NewScreenshotter(ctx.String("screenshot-dir")),
		scene:      newSceneNode(),
		overlay:    newOverlay(),
		prof:       framegraph.NewFrameProfiler(),
		res:        res,
		exitOnDone: ctx.Bool("exit-after-script"),
	}
	g.shaders.Add(materialScene, sceneShader)
	defer g.shaders.Dispose()

	if path := ctx.String("script"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if g.script, err = framegraph.LoadFrameScript(data); err != nil {
			return err
		}
	}

	g.graph = framegraph.NewGraph(g.dev, bus, g.shaders, res, framegraph.Config{
		Profiler:        g.prof,
		ReleaseInactive: ctx.Bool("release-inactive"),
		Debug:           ctx.Bool("debug"),
	})
	passes := []framegraph.RenderNode{g.scene}
	passes = append(passes, nodes.AmbientOcclusionPasses(sceneOpaque)...)
	passes = append(passes, nodes.NewPresentNode(sceneOpaque))
	if err := g.graph.Build(passes...); err != nil {
		return err
	}
	defer g.graph.Dispose()

	ebiten.SetWindowTitle("framegraph: SSAO")
	ebiten.SetWindowSize(res.Width, res.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}

func (g *game) Update() error {
	dt := 1.0 / float64(ebiten.TPS())

	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		if err := g.bus.Set(nodes.SettingSSAO, !g.bus.Bool(nodes.SettingSSAO)); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		to := intensityHigh
		if g.bus.FloatOr(nodes.SettingSSAOIntensity, 1) >= intensityHigh {
			to = intensityLow
		}
		g.intensityTween = settings.NewTween(g.bus, nodes.SettingSSAOIntensity, to, 0.6, ease.InOutQuad)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.overlay.toggle()
	}

	if g.intensityTween != nil {
		if err := g.intensityTween.Update(float32(dt)); err != nil {
			return err
		}
		if g.intensityTween.Done {
			g.intensityTween = nil
		}
	}

	if g.script != nil {
		if err := g.script.Step(g); err != nil {
			return err
		}
		if g.script.Done() && g.exitOnDone && g.shots.Pending() == 0 {
			return ebiten.Termination
		}
	}

	g.scene.time += dt
	g.overlay.update(dt, g.graph.Stats(), g.prof.Samples(),
		g.bus.Bool(nodes.SettingSSAO), g.bus.FloatOr(nodes.SettingSSAOIntensity, 1))
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.dev.SetScreen(screen)
	if err := g.graph.RunFrame(); err != nil {
		g.log.Warn("frame failed", "frame", g.graph.Frame(), "err", err)
	}
	if g.shots.Pending() > 0 {
		paths, err := g.shots.Flush(screen)
		for _, p := range paths {
			g.log.Info("screenshot saved", "path", p)
		}
		if err != nil {
			g.log.Error("screenshot failed", "err", err)
		}
	}
	g.overlay.draw(screen)
}

// Layout follows the window size. After a scripted resize the window
// catches up over a few frames; sizes reported until then are ignored.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	out := framegraph.Resolution{Width: outsideWidth, Height: outsideHeight}
	switch {
	case g.pendingWindow != nil:
		if out == *g.pendingWindow {
			g.pendingWindow = nil
		}
	case out != g.res && out.Valid():
		if err := g.resize(out); err != nil {
			g.log.Warn("resize failed", "resolution", out.String(), "err", err)
		}
	}
	return g.res.Width, g.res.Height
}

func (g *game) resize(res framegraph.Resolution) error {
	err := g.graph.Resize(res)
	g.res = g.graph.Resolution()
	g.dev.SetDisplaySize(g.res.Width, g.res.Height)
	return err
}

// Settings implements framegraph.ScriptTarget.
func (g *game) Settings() *settings.Bus { return g.bus }

// Resize implements framegraph.ScriptTarget. The new resolution takes
// effect from the next Draw.
func (g *game) Resize(res framegraph.Resolution) error {
	err := g.resize(res)
	g.pendingWindow = &res
	ebiten.SetWindowSize(res.Width, res.Height)
	return err
}

// Screenshot implements framegraph.ScriptTarget.
func (g *game) Screenshot(label string) error {
	g.shots.Queue(label)
	return nil
}
