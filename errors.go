package framegraph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidResourceID is returned for identities not of the form "domain:name".
	ErrInvalidResourceID = errors.New("framegraph: invalid resource id")
	// ErrInvalidResolution is returned for non-positive display resolutions.
	ErrInvalidResolution = errors.New("framegraph: invalid resolution")
	// ErrNotBuilt is returned when a frame is run on a graph that was never
	// successfully built.
	ErrNotBuilt = errors.New("framegraph: graph not built")
	// ErrDisposed is returned by Build, RunFrame and Resize once the graph
	// has been disposed.
	ErrDisposed = errors.New("framegraph: graph disposed")
	// ErrAlreadyBuilt is returned by a second call to Build.
	ErrAlreadyBuilt = errors.New("framegraph: graph already built")
	// ErrFrameInProgress is returned by RunFrame or Resize when called from
	// inside a running frame.
	ErrFrameInProgress = errors.New("framegraph: frame in progress")
	// ErrDuplicateNode is returned by Build when two nodes share a name.
	ErrDuplicateNode = errors.New("framegraph: duplicate node name")
	// ErrUnnamedNode is returned by Build for a node with an empty name.
	ErrUnnamedNode = errors.New("framegraph: node has no name")
	// ErrStateLeak is the cause of a FrameAbortedError when a node returns a
	// display state other than the one it was given.
	ErrStateLeak = errors.New("framegraph: node did not restore display state")
	// ErrPoolDisposed is returned by pool operations after Dispose.
	ErrPoolDisposed = errors.New("framegraph: framebuffer pool disposed")

	errNoMaterials = errors.New("no material library")
)

// AllocationError reports that the device could not create a framebuffer.
type AllocationError struct {
	ID            ResourceID
	Width, Height int
	Err           error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("framegraph: allocate %s (%dx%d): %v", e.ID, e.Width, e.Height, e.Err)
}

func (e *AllocationError) Unwrap() error { return e.Err }

// NotFoundError reports a lookup of an identity that was never requested
// from the pool, or that the asking node never declared.
type NotFoundError struct {
	ID ResourceID
	// Handle is set instead of ID for lookups by handle.
	Handle ResourceHandle
	// Node is set when a node asked for a resource it did not declare.
	Node string
}

func (e *NotFoundError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("framegraph: node %s did not declare resource %s", e.Node, e.ID)
	}
	if e.ID == "" {
		return fmt.Sprintf("framegraph: resource handle %d was never requested", e.Handle)
	}
	return fmt.Sprintf("framegraph: resource %s was never requested", e.ID)
}

// SpecConflictError reports two different specs for the same identity.
type SpecConflictError struct {
	ID       ResourceID
	Existing ResourceSpec
	Incoming ResourceSpec
}

func (e *SpecConflictError) Error() string {
	return fmt.Sprintf("framegraph: resource %s requested as %s, already tracked as %s",
		e.ID, e.Incoming, e.Existing)
}

// CycleError reports that the resource dependencies between nodes have no
// topological order. Nodes lists the nodes left unordered, in declaration
// order.
type CycleError struct {
	Nodes []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("framegraph: dependency cycle among nodes [%s]", strings.Join(e.Nodes, ", "))
}

// MaterialError reports a material that could not be resolved while a
// node was being set up.
type MaterialError struct {
	Node     string
	Material string
	Err      error
}

func (e *MaterialError) Error() string {
	return fmt.Sprintf("framegraph: node %s: material %q: %v", e.Node, e.Material, e.Err)
}

func (e *MaterialError) Unwrap() error { return e.Err }

// SetupError wraps any error returned by a node's Setup.
type SetupError struct {
	Node string
	Err  error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("framegraph: setup %s: %v", e.Node, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// FrameAbortedError reports that a node failed during a frame. The rest of
// the frame was skipped; the graph is intact and the next frame starts from
// the first node.
type FrameAbortedError struct {
	Node  string
	Frame uint64
	Err   error
}

func (e *FrameAbortedError) Error() string {
	return fmt.Sprintf("framegraph: frame %d aborted at node %s: %v", e.Frame, e.Node, e.Err)
}

func (e *FrameAbortedError) Unwrap() error { return e.Err }
