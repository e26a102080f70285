package framegraph

import (
	"encoding/json"
	"fmt"

	"github.com/phanxgames/framegraph/settings"
)

// scriptStep is a single action in a frame script.
type scriptStep struct {
	Action string          `json:"action"`
	Key    string          `json:"key,omitempty"`
	Value  json.RawMessage `json:"value,omitempty"`
	Width  int             `json:"width,omitempty"`
	Height int             `json:"height,omitempty"`
	Frames int             `json:"frames,omitempty"`
	Label  string          `json:"label,omitempty"`
}

// frameScript is the top-level JSON structure for a frame script.
type frameScript struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptTarget is what a frame script drives. Graph provides Settings and
// Resize; the host adds Screenshot.
type ScriptTarget interface {
	Settings() *settings.Bus
	Resize(res Resolution) error
	Screenshot(label string) error
}

// FrameScript sequences settings changes, resizes and screenshots across
// frames for automated visual checks.
//
//	{"steps": [
//	  {"action": "screenshot", "label": "ssao-on"},
//	  {"action": "toggle", "key": "rendering.ssao"},
//	  {"action": "wait", "frames": 2},
//	  {"action": "resize", "width": 1600, "height": 900},
//	  {"action": "set", "key": "rendering.ssaoIntensity", "value": 0.5},
//	  {"action": "screenshot", "label": "ssao-off"}
//	]}
type FrameScript struct {
	steps     []scriptStep
	values    []any
	cursor    int
	waitCount int
	done      bool
}

// LoadFrameScript parses a JSON frame script.
func LoadFrameScript(data []byte) (*FrameScript, error) {
	var script frameScript
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse frame script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse frame script: no steps")
	}
	values := make([]any, len(script.Steps))
	for i, st := range script.Steps {
		switch st.Action {
		case "set":
			if st.Key == "" || len(st.Value) == 0 {
				return nil, fmt.Errorf("parse frame script: step %d: set needs key and value", i)
			}
			if err := json.Unmarshal(st.Value, &values[i]); err != nil {
				return nil, fmt.Errorf("parse frame script: step %d: %w", i, err)
			}
		case "toggle":
			if st.Key == "" {
				return nil, fmt.Errorf("parse frame script: step %d: toggle needs key", i)
			}
		case "resize":
			if st.Width <= 0 || st.Height <= 0 {
				return nil, fmt.Errorf("parse frame script: step %d: %w", i, ErrInvalidResolution)
			}
		case "wait", "screenshot":
		default:
			return nil, fmt.Errorf("parse frame script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &FrameScript{steps: script.Steps, values: values}, nil
}

// Done reports whether every step has been executed.
func (s *FrameScript) Done() bool {
	return s.done
}

// Step advances the script by one frame. Call it once per frame before
// RunFrame. At most one action runs per frame.
func (s *FrameScript) Step(target ScriptTarget) error {
	if s.done {
		return nil
	}
	if s.waitCount > 0 {
		s.waitCount--
		return nil
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return nil
	}

	i := s.cursor
	st := s.steps[i]
	s.cursor++

	var err error
	switch st.Action {
	case "set":
		err = target.Settings().Set(st.Key, s.values[i])
	case "toggle":
		bus := target.Settings()
		err = bus.Set(st.Key, !bus.Bool(st.Key))
	case "resize":
		err = target.Resize(Resolution{Width: st.Width, Height: st.Height})
	case "screenshot":
		err = target.Screenshot(st.Label)
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if s.cursor >= len(s.steps) && s.waitCount == 0 {
		s.done = true
	}
	if err != nil {
		return fmt.Errorf("frame script step %d (%s): %w", i, st.Action, err)
	}
	return nil
}
