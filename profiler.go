package framegraph

import (
	"time"
)

// Profiler receives nested timing scopes. The graph opens one scope per
// executed node; nodes may open sub-scopes inside it. Profilers are purely
// observational.
type Profiler interface {
	StartScope(name string)
	EndScope()
}

// FrameMarker is implemented by profilers that want to know where frames
// begin. The graph calls BeginFrame before the first node runs.
type FrameMarker interface {
	BeginFrame(frame uint64)
}

type nopProfiler struct{}

func (nopProfiler) StartScope(string) {}
func (nopProfiler) EndScope()         {}

// ScopeSample is one closed profiling scope.
type ScopeSample struct {
	Name     string
	Depth    int
	Duration time.Duration
}

// FrameProfiler records the scopes of the most recent frame. Samples are
// kept in the order their scopes were opened.
type FrameProfiler struct {
	frame   uint64
	samples []ScopeSample
	open    []openScope
	now     func() time.Time
}

type openScope struct {
	index int
	start time.Time
}

// NewFrameProfiler returns an empty profiler.
func NewFrameProfiler() *FrameProfiler {
	return &FrameProfiler{now: time.Now}
}

// BeginFrame discards the previous frame's samples.
func (p *FrameProfiler) BeginFrame(frame uint64) {
	p.frame = frame
	p.samples = p.samples[:0]
	p.open = p.open[:0]
}

// StartScope opens a scope nested in the currently open one.
func (p *FrameProfiler) StartScope(name string) {
	p.samples = append(p.samples, ScopeSample{Name: name, Depth: len(p.open)})
	p.open = append(p.open, openScope{index: len(p.samples) - 1, start: p.now()})
}

// EndScope closes the innermost open scope. Unbalanced calls are ignored.
func (p *FrameProfiler) EndScope() {
	if len(p.open) == 0 {
		return
	}
	top := p.open[len(p.open)-1]
	p.open = p.open[:len(p.open)-1]
	p.samples[top.index].Duration = p.now().Sub(top.start)
}

// Frame returns the frame the samples belong to.
func (p *FrameProfiler) Frame() uint64 { return p.frame }

// Samples returns a copy of the recorded samples.
func (p *FrameProfiler) Samples() []ScopeSample {
	return append([]ScopeSample(nil), p.samples...)
}

// Total returns the summed duration of every scope called name.
func (p *FrameProfiler) Total(name string) time.Duration {
	var d time.Duration
	for _, s := range p.samples {
		if s.Name == name {
			d += s.Duration
		}
	}
	return d
}

// PassTiming is the wall time of one executed node.
type PassTiming struct {
	Node     string
	Duration time.Duration
}

// FrameStats summarizes the most recent frame.
type FrameStats struct {
	Frame    uint64
	Executed int
	Skipped  int
	// Evicted counts framebuffers released under Config.ReleaseInactive.
	Evicted int
	// Aborted names the node that failed, or is empty.
	Aborted  string
	Duration time.Duration
	Passes   []PassTiming
}

// debugLog writes pass timings at debug level. Only called when
// Config.Debug is set.
func (g *Graph) debugLog(stats FrameStats) {
	log := Logger()
	for _, p := range stats.Passes {
		log.Debug("pass", "frame", stats.Frame, "node", p.Node, "duration", p.Duration)
	}
	log.Debug("frame",
		"frame", stats.Frame,
		"executed", stats.Executed,
		"skipped", stats.Skipped,
		"evicted", stats.Evicted,
		"duration", stats.Duration)
}
