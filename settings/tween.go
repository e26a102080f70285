package settings

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tween animates a numeric setting from its current value to a target.
// Call Update(dt) once per tick; each step is written through the bus so
// subscribers see every intermediate value.
//
// There is no global animation manager; callers drive Update themselves.
type Tween struct {
	bus   *Bus
	key   string
	tween *gween.Tween
	Done  bool
}

// NewTween creates a tween for key from its current value (0 if unset) to
// the given target over duration seconds.
func NewTween(bus *Bus, key string, to float64, duration float32, fn ease.TweenFunc) *Tween {
	from := bus.Float(key)
	return &Tween{
		bus:   bus,
		key:   key,
		tween: gween.New(float32(from), float32(to), duration, fn),
	}
}

// Key returns the animated setting key.
func (t *Tween) Key() string { return t.key }

// Update advances the tween by dt seconds and writes the new value.
func (t *Tween) Update(dt float32) error {
	if t.Done {
		return nil
	}
	val, finished := t.tween.Update(dt)
	t.Done = finished
	return t.bus.SetValue(t.key, numberValue(float64(val)))
}
