package ebitengpu

import (
	"fmt"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/framegraph/gpu"
)

// Material is a compiled Kage shader plus its uniform values.
type Material struct {
	name     string
	shader   *ebiten.Shader
	uniforms map[string]any
}

// Name implements gpu.Material.
func (m *Material) Name() string { return m.name }

// SetFloat implements gpu.Material.
func (m *Material) SetFloat(name string, v float32) {
	m.uniforms[name] = v
}

// SetFloat2 implements gpu.Material.
func (m *Material) SetFloat2(name string, x, y float32) {
	if s, ok := m.uniforms[name].([]float32); ok && len(s) == 2 {
		s[0], s[1] = x, y
		return
	}
	m.uniforms[name] = []float32{x, y}
}

// Uniform returns the current value of a uniform, or nil.
func (m *Material) Uniform(name string) any {
	return m.uniforms[name]
}

// ShaderLibrary resolves material names to Kage shaders. Shaders are
// compiled on first use and shared by every node asking for the same name.
type ShaderLibrary struct {
	sources   map[string][]byte
	materials map[string]*Material
}

// NewShaderLibrary creates a library over Kage sources keyed by material
// name. All sources must use //kage:unit pixels.
func NewShaderLibrary(sources map[string][]byte) *ShaderLibrary {
	lib := &ShaderLibrary{
		sources:   make(map[string][]byte, len(sources)),
		materials: make(map[string]*Material),
	}
	for name, src := range sources {
		lib.sources[name] = src
	}
	return lib
}

// Add registers or replaces a source. A previously compiled shader of the
// same name is kept until Dispose.
func (l *ShaderLibrary) Add(name string, src []byte) {
	l.sources[name] = src
}

// Names returns the registered material names, sorted.
func (l *ShaderLibrary) Names() []string {
	names := make([]string, 0, len(l.sources))
	for n := range l.sources {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Material implements gpu.MaterialLibrary. The result is a *Material.
func (l *ShaderLibrary) Material(name string) (gpu.Material, error) {
	if m, ok := l.materials[name]; ok {
		return m, nil
	}
	src, ok := l.sources[name]
	if !ok {
		return nil, fmt.Errorf("ebitengpu: no shader source for material %q", name)
	}
	shader, err := ebiten.NewShader(src)
	if err != nil {
		return nil, fmt.Errorf("ebitengpu: compile %q: %w", name, err)
	}
	m := &Material{name: name, shader: shader, uniforms: make(map[string]any)}
	l.materials[name] = m
	return m, nil
}

var _ gpu.MaterialLibrary = (*ShaderLibrary)(nil)

// Dispose deallocates every compiled shader.
func (l *ShaderLibrary) Dispose() {
	for name, m := range l.materials {
		m.shader.Deallocate()
		delete(l.materials, name)
	}
}
