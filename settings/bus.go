// Package settings holds the process-wide, subscribable rendering
// configuration.
//
// Values are stored as [cty.Value] so that settings loaded from HCL files,
// set from Go code, or animated by tweens share one type system. A key keeps
// the type of its first value; later writes are converted to that type or
// rejected.
//
// Listeners are invoked synchronously on the goroutine performing the
// mutation, outside the bus lock, and only when the stored value actually
// changes. Consumers that are read from another goroutine (the render
// thread's condition gates) must guard their own state.
package settings

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

var (
	// ErrEmptyKey is returned when a setting key is empty.
	ErrEmptyKey = errors.New("settings: empty key")
	// ErrInvalidValue is returned for null or unknown values.
	ErrInvalidValue = errors.New("settings: value must be known and non-null")
)

// TypeError reports a write whose value cannot be converted to the type the
// key was first set with.
type TypeError struct {
	Key  string
	Want cty.Type
	Got  cty.Type
	Err  error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("settings: %s: cannot convert %s to %s: %v",
		e.Key, e.Got.FriendlyName(), e.Want.FriendlyName(), e.Err)
}

func (e *TypeError) Unwrap() error { return e.Err }

// Reader is the read side of a Bus. Condition predicates only ever see a
// Reader.
type Reader interface {
	// Get returns the current value or cty.NilVal if the key is unset.
	Get(key string) cty.Value
}

// Listener is called with the new value after a key changes.
type Listener func(key string, value cty.Value)

type listenerEntry struct {
	id uint64
	fn Listener
}

// Subscription is a registered listener. Cancel it when the subscriber is
// torn down so the bus never calls into a destroyed object.
type Subscription struct {
	bus *Bus
	key string
	id  uint64
}

// Key returns the subscribed key.
func (s *Subscription) Key() string { return s.key }

// Cancel removes the listener. Safe to call more than once.
func (s *Subscription) Cancel() {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.unsubscribe(s.key, s.id)
	s.bus = nil
}

// Bus is a set of named settings with change notification.
type Bus struct {
	mu        sync.RWMutex
	values    map[string]cty.Value
	listeners map[string][]listenerEntry
	nextID    uint64
}

// NewBus creates an empty bus. Most programs use the process-wide bus
// created by Init instead.
func NewBus() *Bus {
	return &Bus{
		values:    make(map[string]cty.Value),
		listeners: make(map[string][]listenerEntry),
	}
}

var defaultBus atomic.Pointer[Bus]

// Init creates the process-wide bus, seeds it with defaults and makes it
// available through Default. Call it once at program start.
func Init(defaults map[string]any) (*Bus, error) {
	b := NewBus()
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := b.Set(k, defaults[k]); err != nil {
			return nil, err
		}
	}
	defaultBus.Store(b)
	return b, nil
}

// Default returns the bus created by Init. It panics if Init was never
// called.
func Default() *Bus {
	b := defaultBus.Load()
	if b == nil {
		panic("settings: Default called before Init")
	}
	return b
}

// Get returns the current value of key, or cty.NilVal when unset.
func (b *Bus) Get(key string) cty.Value {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.values[key]
}

// Lookup returns the current value of key and whether it is set.
func (b *Bus) Lookup(key string) (cty.Value, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.values[key]
	return v, ok
}

// Bool returns the value of a boolean setting. Unset or non-boolean keys
// read as false.
func (b *Bus) Bool(key string) bool {
	return BoolValue(b.Get(key))
}

// Float returns the value of a numeric setting, or 0 when unset.
func (b *Bus) Float(key string) float64 {
	return b.FloatOr(key, 0)
}

// FloatOr returns the value of a numeric setting, or def when unset or not
// a number.
func (b *Bus) FloatOr(key string, def float64) float64 {
	v := b.Get(key)
	if v.IsNull() || !v.IsKnown() || v.Type() != cty.Number {
		return def
	}
	f, _ := v.AsBigFloat().Float64()
	return f
}

// String returns the value of a string setting, or "" when unset.
func (b *Bus) String(key string) string {
	v := b.Get(key)
	if v.IsNull() || !v.IsKnown() || v.Type() != cty.String {
		return ""
	}
	return v.AsString()
}

// Keys returns all set keys in sorted order.
func (b *Bus) Keys() []string {
	b.mu.RLock()
	keys := make([]string, 0, len(b.values))
	for k := range b.values {
		keys = append(keys, k)
	}
	b.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of all current values.
func (b *Bus) Snapshot() map[string]cty.Value {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]cty.Value, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}
	return out
}

// Set stores a Go value (bool, numeric, string, or a cty.Value) under key.
func (b *Bus) Set(key string, v any) error {
	cv, err := ToValue(v)
	if err != nil {
		return fmt.Errorf("settings: %s: %w", key, err)
	}
	return b.SetValue(key, cv)
}

// ToValue converts a Go value to its cty equivalent. A cty.Value is
// returned unchanged.
func ToValue(v any) (cty.Value, error) {
	if cv, ok := v.(cty.Value); ok {
		return cv, nil
	}
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, err
	}
	return gocty.ToCtyValue(v, ty)
}

// SetValue stores v under key and notifies listeners if the value changed.
func (b *Bus) SetValue(key string, v cty.Value) error {
	if key == "" {
		return ErrEmptyKey
	}
	if v.IsNull() || !v.IsWhollyKnown() {
		return fmt.Errorf("%w: %s", ErrInvalidValue, key)
	}

	b.mu.Lock()
	old, exists := b.values[key]
	if exists && !old.Type().Equals(v.Type()) {
		conv, err := convert.Convert(v, old.Type())
		if err != nil {
			b.mu.Unlock()
			return &TypeError{Key: key, Want: old.Type(), Got: v.Type(), Err: err}
		}
		v = conv
	}
	if exists && old.RawEquals(v) {
		b.mu.Unlock()
		return nil
	}
	b.values[key] = v
	entries := append([]listenerEntry(nil), b.listeners[key]...)
	b.mu.Unlock()

	slogger().Debug("setting changed", "key", key, "value", FormatValue(v), "listeners", len(entries))
	for _, e := range entries {
		e.fn(key, v)
	}
	return nil
}

// Apply writes a batch of values in sorted key order. Every value is
// attempted; the returned error joins all failures.
func (b *Bus) Apply(values map[string]cty.Value) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var errs []error
	for _, k := range keys {
		if err := b.SetValue(k, values[k]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Subscribe registers fn to be called whenever key changes.
func (b *Bus) Subscribe(key string, fn Listener) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.listeners[key] = append(b.listeners[key], listenerEntry{id: id, fn: fn})
	return &Subscription{bus: b, key: key, id: id}
}

// ListenerCount returns the number of listeners registered for key.
func (b *Bus) ListenerCount(key string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[key])
}

func (b *Bus) unsubscribe(key string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := b.listeners[key]
	for i, e := range entries {
		if e.id == id {
			b.listeners[key] = append(entries[:i:i], entries[i+1:]...)
			break
		}
	}
	if len(b.listeners[key]) == 0 {
		delete(b.listeners, key)
	}
}

// BoolValue reports whether v is a known boolean true.
func BoolValue(v cty.Value) bool {
	if v.IsNull() || !v.IsKnown() || v.Type() != cty.Bool {
		return false
	}
	return v.True()
}

// FormatValue renders a primitive value for logs and overlays.
func FormatValue(v cty.Value) string {
	if v.IsNull() {
		return "null"
	}
	if !v.IsKnown() {
		return "unknown"
	}
	switch v.Type() {
	case cty.Bool:
		if v.True() {
			return "true"
		}
		return "false"
	case cty.Number:
		return v.AsBigFloat().Text('g', -1)
	case cty.String:
		return fmt.Sprintf("%q", v.AsString())
	default:
		return v.Type().FriendlyName()
	}
}

// numberValue converts a float to a cty number without going through gocty.
func numberValue(f float64) cty.Value {
	return cty.NumberVal(new(big.Float).SetFloat64(f))
}
