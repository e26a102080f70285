package framegraph

import (
	"fmt"
	"math"
	"strings"

	"github.com/phanxgames/framegraph/gpu"
)

// ResourceID is the logical name of a framebuffer resource, of the form
// "domain:name" (e.g. "engine:ssao"). Two nodes naming the same ResourceID
// share one framebuffer.
type ResourceID string

// ParseResourceID validates s and returns it as a ResourceID.
func ParseResourceID(s string) (ResourceID, error) {
	domain, name, ok := strings.Cut(s, ":")
	if !ok || domain == "" || name == "" || strings.Contains(name, ":") {
		return "", fmt.Errorf("%w: %q", ErrInvalidResourceID, s)
	}
	if strings.TrimSpace(s) != s {
		return "", fmt.Errorf("%w: %q", ErrInvalidResourceID, s)
	}
	return ResourceID(s), nil
}

// MustResourceID is like ParseResourceID but panics on error. Intended for
// package-level declarations.
func MustResourceID(s string) ResourceID {
	id, err := ParseResourceID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Domain returns the part before the colon.
func (id ResourceID) Domain() string {
	d, _, _ := strings.Cut(string(id), ":")
	return d
}

// Name returns the part after the colon.
func (id ResourceID) Name() string {
	_, n, _ := strings.Cut(string(id), ":")
	return n
}

// ResourceHandle is the pool's index for a resource. Handles are assigned
// on first request, never reused, and stay valid across resizes. The zero
// handle is invalid.
type ResourceHandle uint32

// Resolution is a display size in pixels.
type Resolution struct {
	Width, Height int
}

// Valid reports whether both dimensions are positive.
func (r Resolution) Valid() bool {
	return r.Width > 0 && r.Height > 0
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// ScalingPolicy maps the display resolution to a framebuffer size.
type ScalingPolicy struct {
	Factor float64
}

// Predefined scaling policies.
var (
	FullScale            = ScalingPolicy{Factor: 1}
	HalfScale            = ScalingPolicy{Factor: 1.0 / 2}
	QuarterScale         = ScalingPolicy{Factor: 1.0 / 4}
	OneEighthScale       = ScalingPolicy{Factor: 1.0 / 8}
	OneSixteenthScale    = ScalingPolicy{Factor: 1.0 / 16}
	OneThirtySecondScale = ScalingPolicy{Factor: 1.0 / 32}
)

// Size returns the framebuffer size for res. Each dimension is at least 1.
func (p ScalingPolicy) Size(res Resolution) (width, height int) {
	return scaleDim(res.Width, p.Factor), scaleDim(res.Height, p.Factor)
}

func scaleDim(dim int, factor float64) int {
	v := int(math.Floor(float64(dim) * factor))
	if v < 1 {
		return 1
	}
	return v
}

func (p ScalingPolicy) String() string {
	return fmt.Sprintf("x%g", p.Factor)
}

// ResourceSpec fully describes a framebuffer resource. Specs are created
// once by the declaring node and never change.
type ResourceSpec struct {
	ID     ResourceID
	Scale  ScalingPolicy
	Format gpu.Format
	// Depth requests a depth attachment.
	Depth bool
}

func (s ResourceSpec) String() string {
	depth := ""
	if s.Depth {
		depth = "+depth"
	}
	return fmt.Sprintf("%s[%s %s%s]", s.ID, s.Scale, s.Format, depth)
}

// Access describes how a node uses a declared resource. It determines the
// ordering edges between nodes.
type Access uint8

const (
	Read      Access = 1 << iota // sampled as input
	Write                        // rendered into
	ReadWrite = Read | Write     // read, then rendered into
)

// Reads reports whether a includes Read.
func (a Access) Reads() bool { return a&Read != 0 }

// Writes reports whether a includes Write.
func (a Access) Writes() bool { return a&Write != 0 }

func (a Access) String() string {
	switch a {
	case Read:
		return "read"
	case Write:
		return "write"
	case ReadWrite:
		return "read-write"
	default:
		return fmt.Sprintf("access(%d)", uint8(a))
	}
}

// ResourceUse pairs a spec with the way a node uses it.
type ResourceUse struct {
	Spec   ResourceSpec
	Access Access
}

// Reads declares spec as an input.
func Reads(spec ResourceSpec) ResourceUse { return ResourceUse{Spec: spec, Access: Read} }

// Writes declares spec as an output.
func Writes(spec ResourceSpec) ResourceUse { return ResourceUse{Spec: spec, Access: Write} }

// ReadsWrites declares spec as both input and output.
func ReadsWrites(spec ResourceSpec) ResourceUse { return ResourceUse{Spec: spec, Access: ReadWrite} }
