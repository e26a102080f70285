package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/framegraph"
)

// overlayRefresh is how often the overlay text is rebuilt, in seconds.
const overlayRefresh = 0.5

// overlay shows FPS, the SSAO settings and the last frame's profiler
// scopes, nested by depth.
type overlay struct {
	img     *ebiten.Image
	elapsed float64
	text    string
	visible bool
}

func newOverlay() *overlay {
	// 300x208 fits the header lines plus four passes and their sub-scopes.
	return &overlay{img: ebiten.NewImage(300, 208), visible: true, elapsed: overlayRefresh}
}

func (o *overlay) toggle() { o.visible = !o.visible }

func (o *overlay) update(dt float64, stats framegraph.FrameStats, samples []framegraph.ScopeSample, ssao bool, intensity float64) {
	o.elapsed += dt
	if o.elapsed < overlayRefresh {
		return
	}
	o.elapsed = 0
	o.text = formatStats(ebiten.ActualFPS(), ebiten.ActualTPS(), stats, samples, ssao, intensity)

	o.img.Clear()
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, o.text)
}

func (o *overlay) draw(screen *ebiten.Image) {
	if !o.visible {
		return
	}
	screen.DrawImage(o.img, nil)
}

func formatStats(fps, tps float64, stats framegraph.FrameStats, samples []framegraph.ScopeSample, ssao bool, intensity float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.1f  TPS: %.1f\n", fps, tps)
	state := "off"
	if ssao {
		state = "on"
	}
	fmt.Fprintf(&b, "SSAO: %s  intensity %.2f\n", state, intensity)
	fmt.Fprintf(&b, "passes %d/%d", stats.Executed, stats.Executed+stats.Skipped)
	if stats.Aborted != "" {
		fmt.Fprintf(&b, "  aborted at %s", stats.Aborted)
	}
	for _, s := range samples {
		name := strings.Repeat("  ", s.Depth) + s.Name
		fmt.Fprintf(&b, "\n %-40s %6.2fms", name, float64(s.Duration.Microseconds())/1000)
	}
	return b.String()
}
