// Package gpurecord provides a gpu.Device and gpu.MaterialLibrary that
// record every call instead of talking to a GPU. Tests assert on the
// recorded call log.
package gpurecord

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/phanxgames/framegraph/gpu"
)

// ErrDestroyedTarget is returned by SubmitFullscreenQuad when the bound
// render target or a bound texture was destroyed.
var ErrDestroyedTarget = errors.New("gpurecord: use of destroyed framebuffer")

// Target is a recorded framebuffer.
type Target struct {
	ID        int
	Label     string
	Width     int
	Height    int
	Format    gpu.Format
	Depth     bool
	Destroyed bool
	// Draws counts fullscreen quads submitted while bound.
	Draws int
}

// Size implements gpu.Target.
func (t *Target) Size() (int, int) { return t.Width, t.Height }

// Device records calls made by the render graph.
type Device struct {
	// Calls is the ordered call log, e.g. "bind engine:ssao", "viewport 800x600".
	Calls []string

	// FailCreate, when set, is consulted before each allocation.
	FailCreate func(desc gpu.FramebufferDesc) error
	// FailSubmit, when set, is consulted before each draw with the bound
	// target's label ("display" for the display).
	FailSubmit func(target string) error

	DisplayWidth, DisplayHeight int

	nextID    int
	live      map[*Target]bool
	bound     *Target
	viewportW int
	viewportH int
	material  gpu.Material
	textures  map[int]*Target
	Created   int
	Destroyed int
}

// NewDevice creates a recording device with the given display size.
func NewDevice(displayWidth, displayHeight int) *Device {
	return &Device{
		DisplayWidth:  displayWidth,
		DisplayHeight: displayHeight,
		live:          make(map[*Target]bool),
		textures:      make(map[int]*Target),
	}
}

func (d *Device) record(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

// Reset clears the call log but keeps live targets.
func (d *Device) Reset() {
	d.Calls = d.Calls[:0]
}

// CreateFramebuffer implements gpu.Device.
func (d *Device) CreateFramebuffer(desc gpu.FramebufferDesc) (gpu.Target, error) {
	if d.FailCreate != nil {
		if err := d.FailCreate(desc); err != nil {
			d.record("create-failed %s %dx%d", desc.Label, desc.Width, desc.Height)
			return nil, err
		}
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("gpurecord: invalid size %dx%d: %w", desc.Width, desc.Height, gpu.ErrOutOfMemory)
	}
	d.nextID++
	t := &Target{
		ID:     d.nextID,
		Label:  desc.Label,
		Width:  desc.Width,
		Height: desc.Height,
		Format: desc.Format,
		Depth:  desc.Depth,
	}
	d.live[t] = true
	d.Created++
	d.record("create %s %dx%d", desc.Label, desc.Width, desc.Height)
	return t, nil
}

// DestroyFramebuffer implements gpu.Device.
func (d *Device) DestroyFramebuffer(t gpu.Target) {
	rt, ok := t.(*Target)
	if !ok || rt == nil {
		return
	}
	if rt.Destroyed {
		d.record("destroy-twice %s", rt.Label)
		return
	}
	rt.Destroyed = true
	delete(d.live, rt)
	// Deleting a bound texture unbinds it, as in OpenGL.
	for unit, bound := range d.textures {
		if bound == rt {
			delete(d.textures, unit)
		}
	}
	d.Destroyed++
	d.record("destroy %s", rt.Label)
}

// Bind implements gpu.Device.
func (d *Device) Bind(t gpu.Target) {
	if t == nil {
		d.bound = nil
		d.record("bind display")
		return
	}
	d.bound = t.(*Target)
	d.record("bind %s", d.bound.Label)
}

// SetViewport implements gpu.Device.
func (d *Device) SetViewport(w, h int) {
	d.viewportW, d.viewportH = w, h
	d.record("viewport %dx%d", w, h)
}

// Clear implements gpu.Device.
func (d *Device) Clear(flags gpu.ClearFlags) {
	d.record("clear %s", flags)
}

// UseMaterial implements gpu.Device.
func (d *Device) UseMaterial(m gpu.Material) {
	d.material = m
	d.record("material %s", m.Name())
}

// BindTexture implements gpu.Device.
func (d *Device) BindTexture(unit int, t gpu.Target) {
	if t == nil {
		delete(d.textures, unit)
		d.record("texture %d none", unit)
		return
	}
	rt := t.(*Target)
	d.textures[unit] = rt
	d.record("texture %d %s", unit, rt.Label)
}

// SubmitFullscreenQuad implements gpu.Device.
func (d *Device) SubmitFullscreenQuad() error {
	label := d.BoundLabel()
	if d.FailSubmit != nil {
		if err := d.FailSubmit(label); err != nil {
			d.record("quad-failed %s", label)
			return err
		}
	}
	if d.bound != nil && d.bound.Destroyed {
		return fmt.Errorf("%w: render target %s", ErrDestroyedTarget, d.bound.Label)
	}
	for unit, t := range d.textures {
		if t.Destroyed {
			return fmt.Errorf("%w: texture unit %d (%s)", ErrDestroyedTarget, unit, t.Label)
		}
	}
	if d.material == nil {
		return errors.New("gpurecord: no material bound")
	}
	if d.bound != nil {
		d.bound.Draws++
	}
	d.record("quad %s", label)
	return nil
}

// DisplaySize implements gpu.Device.
func (d *Device) DisplaySize() (int, int) {
	return d.DisplayWidth, d.DisplayHeight
}

// BoundLabel returns the label of the bound target or "display".
func (d *Device) BoundLabel() string {
	if d.bound == nil {
		return "display"
	}
	return d.bound.Label
}

// Viewport returns the current viewport size.
func (d *Device) Viewport() (int, int) {
	return d.viewportW, d.viewportH
}

// Live returns the labels of all live targets, sorted.
func (d *Device) Live() []string {
	out := make([]string, 0, len(d.live))
	for t := range d.live {
		out = append(out, t.Label)
	}
	sort.Strings(out)
	return out
}

// Filter returns the recorded calls that start with any of the prefixes.
func (d *Device) Filter(prefixes ...string) []string {
	var out []string
	for _, c := range d.Calls {
		for _, p := range prefixes {
			if strings.HasPrefix(c, p) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Material is a recorded material. Uniform values are kept for assertions.
type Material struct {
	name     string
	Uniforms map[string][]float32
}

// Name implements gpu.Material.
func (m *Material) Name() string { return m.name }

// SetFloat implements gpu.Material.
func (m *Material) SetFloat(name string, v float32) {
	m.Uniforms[name] = []float32{v}
}

// SetFloat2 implements gpu.Material.
func (m *Material) SetFloat2(name string, x, y float32) {
	m.Uniforms[name] = []float32{x, y}
}

// Materials is a gpu.MaterialLibrary over a fixed set of names.
type Materials struct {
	known    map[string]bool
	resolved map[string]*Material
}

// NewMaterials creates a library that resolves exactly the given names.
func NewMaterials(names ...string) *Materials {
	m := &Materials{
		known:    make(map[string]bool, len(names)),
		resolved: make(map[string]*Material),
	}
	for _, n := range names {
		m.known[n] = true
	}
	return m
}

// Material implements gpu.MaterialLibrary. The same *Material is returned
// for repeated lookups of a name.
func (m *Materials) Material(name string) (gpu.Material, error) {
	if !m.known[name] {
		return nil, fmt.Errorf("gpurecord: unknown material %q", name)
	}
	if mat, ok := m.resolved[name]; ok {
		return mat, nil
	}
	mat := &Material{name: name, Uniforms: make(map[string][]float32)}
	m.resolved[name] = mat
	return mat, nil
}

// Get returns a previously resolved material, or nil.
func (m *Materials) Get(name string) *Material {
	return m.resolved[name]
}
