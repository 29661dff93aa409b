// Package target defines the write boundary between the animation engine and
// whatever presents the values.
package target

import (
	"sort"

	"github.com/ivlev/vortex/internal/value"
)

// Target is an addressable entity with named properties
type Target interface {
	ID() string
	// Read reports the current value; ok is false when the property is unknown
	Read(property string) (v value.Value, ok bool)
	Write(property string, v value.Value)
}

// Map is an in-memory Target. Not safe for concurrent use.
type Map struct {
	id     string
	props  map[string]value.Value
	writes int
}

// NewMap creates a target with optional initial properties
func NewMap(id string, initial map[string]value.Value) *Map {
	m := &Map{id: id, props: make(map[string]value.Value, len(initial))}
	for k, v := range initial {
		m.props[k] = v
	}
	return m
}

func (m *Map) ID() string { return m.id }

func (m *Map) Read(property string) (value.Value, bool) {
	v, ok := m.props[property]
	return v, ok
}

func (m *Map) Write(property string, v value.Value) {
	m.props[property] = v
	m.writes++
}

// Float returns a numeric property, or 0 when missing or non-numeric
func (m *Map) Float(property string) float64 {
	f, _ := m.props[property].Float()
	return f
}

// Writes counts every Write call
func (m *Map) Writes() int { return m.writes }

// Properties returns a copy of the property set keyed by name
func (m *Map) Properties() map[string]any {
	out := make(map[string]any, len(m.props))
	for k, v := range m.props {
		out[k] = v.Raw()
	}
	return out
}

// Keys lists property names in sorted order
func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.props))
	for k := range m.props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
