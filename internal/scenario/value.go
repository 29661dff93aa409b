package scenario

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/vortex/internal/timeline"
	"github.com/ivlev/vortex/internal/value"
)

// ErrInvalidValue is returned for property values of an unsupported shape
var ErrInvalidValue = errors.New("scenario: invalid property value")

// Value is a property value in one of four YAML shapes:
//
//	value: 300                                  # constant, written every tick
//	value: [0, 300]                             # range
//	value: {from: 0, to: 300}                   # explicit, either side optional ({to: 300} tweens from current)
//	value: {keyframes: [{at: 0, value: 0}, ...]}
type Value struct {
	Kind      value.Kind
	From      any
	To        any
	Value     any
	Keyframes []Keyframe
}

// Keyframe is one stop of a keyframed value
type Keyframe struct {
	At    float64 `yaml:"at"`
	Value float64 `yaml:"value"`
}

type explicitValue struct {
	From      *yaml.Node `yaml:"from"`
	To        *yaml.Node `yaml:"to"`
	Value     *yaml.Node `yaml:"value"`
	Keyframes []Keyframe `yaml:"keyframes"`
}

// Fixed builds a constant value written on every tick. Use Explicit(nil, v)
// to tween from the current value.
func Fixed(v any) Value { return Value{Kind: value.KindFixed, Value: v} }

// Range builds a two-point value
func Range(from, to any) Value { return Value{Kind: value.KindRange, From: from, To: to} }

// Explicit builds a value with optional endpoints; pass nil to omit one
func Explicit(from, to any) Value {
	return Value{Kind: value.KindExplicit, From: from, To: to}
}

func (v *Value) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		s, err := scalar(n)
		if err != nil {
			return err
		}
		*v = Fixed(s)
		return nil

	case yaml.SequenceNode:
		if len(n.Content) != 2 {
			return fmt.Errorf("%w: line %d: a range needs exactly 2 items, got %d", ErrInvalidValue, n.Line, len(n.Content))
		}
		from, err := scalar(n.Content[0])
		if err != nil {
			return err
		}
		to, err := scalar(n.Content[1])
		if err != nil {
			return err
		}
		*v = Range(from, to)
		return nil

	case yaml.MappingNode:
		var raw explicitValue
		if err := n.Decode(&raw); err != nil {
			return err
		}
		if len(raw.Keyframes) > 0 {
			*v = Value{Kind: value.KindKeyframes, Keyframes: raw.Keyframes}
			return nil
		}
		out := Value{Kind: value.KindExplicit}
		for _, f := range []struct {
			node *yaml.Node
			dst  *any
		}{{raw.From, &out.From}, {raw.To, &out.To}, {raw.Value, &out.Value}} {
			if f.node == nil {
				continue
			}
			s, err := scalar(f.node)
			if err != nil {
				return err
			}
			*f.dst = s
		}
		*v = out
		return nil
	}
	return fmt.Errorf("%w: line %d: unsupported node", ErrInvalidValue, n.Line)
}

func (v Value) MarshalYAML() (any, error) {
	switch v.Kind {
	case value.KindFixed:
		return v.Value, nil
	case value.KindRange:
		return []any{v.From, v.To}, nil
	case value.KindKeyframes:
		return map[string]any{"keyframes": v.Keyframes}, nil
	}
	m := map[string]any{}
	if v.From != nil {
		m["from"] = v.From
	}
	if v.To != nil {
		m["to"] = v.To
	}
	if v.Value != nil {
		m["value"] = v.Value
	}
	return m, nil
}

// Descriptor converts v for the animation engine
func (v Value) Descriptor() value.Descriptor {
	switch v.Kind {
	case value.KindRange:
		return value.Range(toValue(v.From), toValue(v.To))
	case value.KindExplicit:
		return value.Explicit(toValue(v.From), toValue(v.To), toValue(v.Value))
	case value.KindKeyframes:
		stops := make([]value.Keyframe, len(v.Keyframes))
		for i, k := range v.Keyframes {
			stops[i] = value.Keyframe{At: k.At, Value: k.Value}
		}
		return value.Keyframes(stops...)
	}
	return value.Fixed(toValue(v.Value))
}

// scalar decodes numbers as float64 and everything else as its native type
func scalar(n *yaml.Node) (any, error) {
	if n.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("%w: line %d: expected a scalar", ErrInvalidValue, n.Line)
	}
	switch n.ShortTag() {
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	case "!!null":
		return nil, nil
	}
	var out any
	if err := n.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// toValue maps a decoded YAML scalar onto the engine's value model
func toValue(x any) value.Value {
	switch v := x.(type) {
	case nil:
		return value.Value{}
	case float64:
		return value.Number(v)
	case int:
		return value.Number(float64(v))
	case int64:
		return value.Number(float64(v))
	}
	return value.Opaque(x)
}

// Position is a timeline placement expression such as "-=500" or "<"
type Position string

func (p *Position) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: position must be a scalar", timeline.ErrInvalidPosition, n.Line)
	}
	if _, err := timeline.ParsePosition(n.Value); err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*p = Position(n.Value)
	return nil
}

// Resolve parses the expression; empty means "+=0"
func (p Position) Resolve() (timeline.Position, error) {
	return timeline.ParsePosition(string(p))
}
