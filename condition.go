package framegraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/phanxgames/framegraph/settings"
)

// ConditionKind identifies the shape of a Condition.
type ConditionKind uint8

const (
	CondAlways ConditionKind = iota
	CondNever
	CondFlag
	CondEquals
	CondAll
	CondAny
	CondNot
)

var conditionKindNames = [...]string{
	CondAlways: "always",
	CondNever:  "never",
	CondFlag:   "flag",
	CondEquals: "equals",
	CondAll:    "all",
	CondAny:    "any",
	CondNot:    "not",
}

func (k ConditionKind) String() string {
	if int(k) < len(conditionKindNames) {
		return conditionKindNames[k]
	}
	return fmt.Sprintf("ConditionKind(%d)", uint8(k))
}

// Condition is a predicate over settings that decides whether a node runs
// in a frame. The zero Condition is Always.
//
// Conditions are plain values. Keys reports the settings they read so a
// gate can subscribe to exactly those keys.
type Condition struct {
	Kind  ConditionKind
	Key   string
	Value cty.Value
	Terms []Condition
}

// Always is true in every frame.
func Always() Condition { return Condition{Kind: CondAlways} }

// Never is false in every frame.
func Never() Condition { return Condition{Kind: CondNever} }

// Flag is true while the boolean setting key is true. An unset or
// non-boolean key is false.
func Flag(key string) Condition { return Condition{Kind: CondFlag, Key: key} }

// Equals is true while setting key equals v. v is converted with gocty
// rules, so Equals("quality", "high") and Equals("taps", 8) work as
// expected. It panics if v has no cty equivalent.
func Equals(key string, v any) Condition {
	val, err := settings.ToValue(v)
	if err != nil {
		panic(fmt.Sprintf("framegraph: Equals(%q): %v", key, err))
	}
	return Condition{Kind: CondEquals, Key: key, Value: val}
}

// All is true when every term is true. All() is true.
func All(terms ...Condition) Condition { return Condition{Kind: CondAll, Terms: terms} }

// Any is true when at least one term is true. Any() is false.
func Any(terms ...Condition) Condition { return Condition{Kind: CondAny, Terms: terms} }

// Not negates c.
func Not(c Condition) Condition { return Condition{Kind: CondNot, Terms: []Condition{c}} }

// Eval evaluates the condition against r.
func (c Condition) Eval(r settings.Reader) bool {
	switch c.Kind {
	case CondAlways:
		return true
	case CondNever:
		return false
	case CondFlag:
		return settings.BoolValue(r.Get(c.Key))
	case CondEquals:
		return valueEquals(r.Get(c.Key), c.Value)
	case CondAll:
		for _, t := range c.Terms {
			if !t.Eval(r) {
				return false
			}
		}
		return true
	case CondAny:
		for _, t := range c.Terms {
			if t.Eval(r) {
				return true
			}
		}
		return false
	case CondNot:
		return len(c.Terms) == 1 && !c.Terms[0].Eval(r)
	}
	return false
}

func valueEquals(got, want cty.Value) bool {
	if got.IsNull() || !got.IsKnown() || want.IsNull() {
		return false
	}
	conv, err := convert.Convert(want, got.Type())
	if err != nil {
		return false
	}
	return got.RawEquals(conv)
}

// Keys returns the settings keys the condition reads, sorted and
// deduplicated.
func (c Condition) Keys() []string {
	seen := make(map[string]struct{})
	c.collectKeys(seen)
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c Condition) collectKeys(seen map[string]struct{}) {
	if c.Kind == CondFlag || c.Kind == CondEquals {
		seen[c.Key] = struct{}{}
	}
	for _, t := range c.Terms {
		t.collectKeys(seen)
	}
}

func (c Condition) String() string {
	switch c.Kind {
	case CondAlways, CondNever:
		return c.Kind.String()
	case CondFlag:
		return "flag(" + c.Key + ")"
	case CondEquals:
		return fmt.Sprintf("equals(%s, %s)", c.Key, settings.FormatValue(c.Value))
	}
	parts := make([]string, len(c.Terms))
	for i, t := range c.Terms {
		parts[i] = t.String()
	}
	return c.Kind.String() + "(" + strings.Join(parts, ", ") + ")"
}
