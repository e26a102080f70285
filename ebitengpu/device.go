// Package ebitengpu implements the render graph's gpu.Device and
// gpu.MaterialLibrary on Ebitengine.
//
// Framebuffers are unmanaged offscreen images. Materials are Kage shaders
// drawn with DrawRectShader; a fullscreen quad covers the current viewport.
// Ebitengine has no depth buffers and a single 8-bit RGBA format, so depth
// requests and depth clears are accepted and ignored, and every format is
// stored as RGBA8.
//
// All methods must be called from the Ebitengine game loop.
package ebitengpu

import (
	"errors"
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/framegraph/gpu"
)

// MaxImageSize is the largest framebuffer dimension the device creates.
const MaxImageSize = 16384

// textureUnits matches the number of source images DrawRectShader takes.
const textureUnits = len(ebiten.DrawRectShaderOptions{}.Images)

var (
	// ErrNoScreen is returned when drawing to the display before SetScreen.
	ErrNoScreen = errors.New("ebitengpu: no screen image")
	// ErrNoMaterial is returned when drawing without UseMaterial.
	ErrNoMaterial = errors.New("ebitengpu: no material in use")
	// ErrDeallocated is returned when drawing with a destroyed framebuffer.
	ErrDeallocated = errors.New("ebitengpu: framebuffer was destroyed")
	// ErrSizeMismatch is returned when a bound texture does not cover the
	// viewport exactly. DrawRectShader samples sources in destination
	// pixels, so sizes must agree.
	ErrSizeMismatch = errors.New("ebitengpu: texture size does not match viewport")
)

// Framebuffer is an offscreen image created by Device.
type Framebuffer struct {
	label       string
	img         *ebiten.Image
	w, h        int
	format      gpu.Format
	deallocated bool
}

// Size implements gpu.Target.
func (fb *Framebuffer) Size() (int, int) { return fb.w, fb.h }

// Image returns the underlying image, e.g. to display a debug view.
func (fb *Framebuffer) Image() *ebiten.Image { return fb.img }

// Label returns the label given at creation.
func (fb *Framebuffer) Label() string { return fb.label }

var _ gpu.Device = (*Device)(nil)

// Device is a gpu.Device drawing with Ebitengine.
type Device struct {
	screen         *ebiten.Image
	displayW       int
	displayH       int
	bound          *Framebuffer
	viewW, viewH   int
	material       *Material
	textures       [textureUnits]*Framebuffer
	shaderOp       ebiten.DrawRectShaderOptions
	live           int
	quadsThisFrame int
}

// NewDevice creates a device reporting the given display size until the
// first SetScreen.
func NewDevice(displayW, displayH int) *Device {
	return &Device{displayW: displayW, displayH: displayH, viewW: displayW, viewH: displayH}
}

// SetScreen installs the screen image for the current frame. Call it at
// the start of Game.Draw.
func (d *Device) SetScreen(screen *ebiten.Image) {
	d.screen = screen
	b := screen.Bounds()
	d.displayW, d.displayH = b.Dx(), b.Dy()
	d.quadsThisFrame = 0
}

// SetDisplaySize overrides the display size, e.g. from Game.Layout before
// the next Draw.
func (d *Device) SetDisplaySize(w, h int) {
	d.displayW, d.displayH = w, h
}

// DisplaySize implements gpu.Device.
func (d *Device) DisplaySize() (int, int) {
	return d.displayW, d.displayH
}

// Live returns the number of framebuffers created and not yet destroyed.
func (d *Device) Live() int { return d.live }

// Quads returns the number of fullscreen quads drawn since SetScreen.
func (d *Device) Quads() int { return d.quadsThisFrame }

// CreateFramebuffer implements gpu.Device.
func (d *Device) CreateFramebuffer(desc gpu.FramebufferDesc) (gpu.Target, error) {
	if desc.Width <= 0 || desc.Height <= 0 || desc.Width > MaxImageSize || desc.Height > MaxImageSize {
		return nil, fmt.Errorf("ebitengpu: %s: size %dx%d: %w", desc.Label, desc.Width, desc.Height, gpu.ErrOutOfMemory)
	}
	img := ebiten.NewImageWithOptions(image.Rect(0, 0, desc.Width, desc.Height), &ebiten.NewImageOptions{
		Unmanaged: true,
	})
	d.live++
	return &Framebuffer{
		label:  desc.Label,
		img:    img,
		w:      desc.Width,
		h:      desc.Height,
		format: desc.Format,
	}, nil
}

// DestroyFramebuffer implements gpu.Device.
func (d *Device) DestroyFramebuffer(t gpu.Target) {
	fb, ok := t.(*Framebuffer)
	if !ok || fb == nil || fb.deallocated {
		return
	}
	fb.img.Deallocate()
	fb.deallocated = true
	d.live--
	for i, tex := range d.textures {
		if tex == fb {
			d.textures[i] = nil
		}
	}
}

// Bind implements gpu.Device. A nil target binds the display.
func (d *Device) Bind(t gpu.Target) {
	if t == nil {
		d.bound = nil
		return
	}
	d.bound = t.(*Framebuffer)
}

// SetViewport implements gpu.Device.
func (d *Device) SetViewport(w, h int) {
	d.viewW, d.viewH = w, h
}

// Clear implements gpu.Device. Only the viewport is cleared.
func (d *Device) Clear(flags gpu.ClearFlags) {
	if flags&gpu.ClearColor == 0 {
		return
	}
	dst, err := d.target()
	if err != nil {
		return
	}
	dst.Clear()
}

// UseMaterial implements gpu.Device.
func (d *Device) UseMaterial(m gpu.Material) {
	if m == nil {
		d.material = nil
		return
	}
	d.material = m.(*Material)
}

// BindTexture implements gpu.Device. Units outside the supported range are
// ignored.
func (d *Device) BindTexture(unit int, t gpu.Target) {
	if unit < 0 || unit >= textureUnits {
		return
	}
	if t == nil {
		d.textures[unit] = nil
		return
	}
	d.textures[unit] = t.(*Framebuffer)
}

// SubmitFullscreenQuad implements gpu.Device.
func (d *Device) SubmitFullscreenQuad() error {
	if err := d.validate(); err != nil {
		return err
	}
	dst, err := d.target()
	if err != nil {
		return err
	}
	for i, tex := range d.textures {
		if tex != nil {
			d.shaderOp.Images[i] = tex.img
		} else {
			d.shaderOp.Images[i] = nil
		}
	}
	d.shaderOp.Uniforms = d.material.uniforms
	dst.DrawRectShader(d.viewW, d.viewH, d.material.shader, &d.shaderOp)
	d.quadsThisFrame++
	return nil
}

// validate checks the draw state before a quad is submitted.
func (d *Device) validate() error {
	if d.material == nil {
		return ErrNoMaterial
	}
	if d.bound != nil && d.bound.deallocated {
		return fmt.Errorf("%w: render target %s", ErrDeallocated, d.bound.label)
	}
	if d.viewW <= 0 || d.viewH <= 0 {
		return fmt.Errorf("ebitengpu: empty viewport %dx%d", d.viewW, d.viewH)
	}
	for i, tex := range d.textures {
		if tex == nil {
			continue
		}
		if tex.deallocated {
			return fmt.Errorf("%w: texture unit %d (%s)", ErrDeallocated, i, tex.label)
		}
		if tex.w != d.viewW || tex.h != d.viewH {
			return fmt.Errorf("%w: unit %d (%s) is %dx%d, viewport %dx%d",
				ErrSizeMismatch, i, tex.label, tex.w, tex.h, d.viewW, d.viewH)
		}
	}
	return nil
}

// target returns the viewport region of the bound framebuffer or screen.
func (d *Device) target() (*ebiten.Image, error) {
	img := d.screen
	if d.bound != nil {
		img = d.bound.img
	} else if img == nil {
		return nil, ErrNoScreen
	}
	return img.SubImage(image.Rect(0, 0, d.viewW, d.viewH)).(*ebiten.Image), nil
}
