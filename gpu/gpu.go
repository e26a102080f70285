// Package gpu defines the boundary between the render graph and the
// graphics API that actually owns GPU memory and issues draw calls.
//
// The graph never talks to a driver directly. It allocates framebuffers,
// binds targets, sets viewports, clears and submits fullscreen quads through
// [Device], and resolves named shaders through [MaterialLibrary]. The
// ebitengpu package provides an Ebitengine implementation; tests use a
// recording fake.
package gpu

import (
	"errors"
	"fmt"
)

// ErrOutOfMemory is returned by CreateFramebuffer when the device cannot
// satisfy the requested size or format.
var ErrOutOfMemory = errors.New("gpu: out of memory")

// Format is the pixel format tag of a framebuffer's color attachment.
type Format uint8

const (
	FormatDefault Format = iota // 8-bit RGBA color
	FormatHDR                   // 16-bit float RGBA color
	FormatNoColor               // no color attachment (depth only)
)

// String returns a short name for the format.
func (f Format) String() string {
	switch f {
	case FormatDefault:
		return "default"
	case FormatHDR:
		return "hdr"
	case FormatNoColor:
		return "no-color"
	default:
		return fmt.Sprintf("format(%d)", uint8(f))
	}
}

// ClearFlags selects which attachments Clear affects.
// Values can be combined with bitwise OR (e.g. ClearColor | ClearDepth).
type ClearFlags uint8

const (
	ClearColor ClearFlags = 1 << iota // color attachment
	ClearDepth                        // depth attachment
)

// String returns "color", "depth", "color|depth" or "none".
func (c ClearFlags) String() string {
	switch c & (ClearColor | ClearDepth) {
	case ClearColor:
		return "color"
	case ClearDepth:
		return "depth"
	case ClearColor | ClearDepth:
		return "color|depth"
	default:
		return "none"
	}
}

// Target is an opaque device-side framebuffer (color and optional depth
// attachments). A nil Target passed to Device.Bind means the display.
// Implementations are expected to be pointer types.
type Target interface {
	// Size returns the target dimensions in pixels.
	Size() (width, height int)
}

// FramebufferDesc describes a framebuffer to allocate.
type FramebufferDesc struct {
	// Label is a debug label, normally the resource identity.
	Label string
	// Format selects the color attachment format.
	Format Format
	// Width and Height are the attachment dimensions in pixels.
	Width, Height int
	// Depth requests a depth attachment alongside the color attachment.
	Depth bool
}

// Device is the graphics API layer the render graph drives.
//
// Devices are stateful in the classic immediate-mode sense: Bind, SetViewport,
// UseMaterial and BindTexture change the current state that Clear and
// SubmitFullscreenQuad operate on. All methods are called from the render
// thread only.
type Device interface {
	// CreateFramebuffer allocates a new framebuffer. Implementations should
	// wrap ErrOutOfMemory when the allocation cannot be satisfied.
	CreateFramebuffer(desc FramebufferDesc) (Target, error)
	// DestroyFramebuffer releases a framebuffer. Using a destroyed target
	// afterwards makes SubmitFullscreenQuad fail.
	DestroyFramebuffer(t Target)
	// Bind makes t the current render target. nil binds the display.
	Bind(t Target)
	// SetViewport restricts drawing to the top-left (w x h) pixels of the
	// current target.
	SetViewport(width, height int)
	// Clear clears the current viewport of the bound target.
	Clear(flags ClearFlags)
	// UseMaterial selects the shader program for subsequent draws.
	UseMaterial(m Material)
	// BindTexture binds t as the sampled input at the given unit. A nil
	// target unbinds the unit.
	BindTexture(unit int, t Target)
	// SubmitFullscreenQuad draws a quad covering the current viewport with
	// the current material and textures.
	SubmitFullscreenQuad() error
	// DisplaySize returns the current display dimensions in pixels.
	DisplaySize() (width, height int)
}

// Material is a compiled shader program with its uniform values.
type Material interface {
	Name() string
	SetFloat(name string, v float32)
	SetFloat2(name string, x, y float32)
}

// MaterialLibrary resolves materials by name. Failing to resolve a name
// is a build-time error for the render graph.
type MaterialLibrary interface {
	Material(name string) (Material, error)
}
