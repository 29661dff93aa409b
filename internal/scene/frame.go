package scene

import (
	"github.com/ivlev/vortex/internal/particles"
)

// Frame is a serializable snapshot of one tick
type Frame struct {
	Index   int           `json:"frame"`
	Time    float64       `json:"time"`
	Width   int           `json:"width"`
	Height  int           `json:"height"`
	Targets []TargetState `json:"targets"`
	Bodies  []Body        `json:"bodies,omitempty"`
	Springs []Link        `json:"springs,omitempty"`
	Sprites []Sprite      `json:"sprites,omitempty"`
}

// TargetState is the property set of one target
type TargetState struct {
	ID    string         `json:"id"`
	Props map[string]any `json:"props"`
}

// Body is a physics particle
type Body struct {
	ID    int     `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Mass  float64 `json:"mass"`
	Fixed bool    `json:"fixed,omitempty"`
}

// Link is a spring between two bodies
type Link struct {
	A  int     `json:"a"`
	B  int     `json:"b"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Sprite is an emitted particle with its faded alpha
type Sprite struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Size     float64 `json:"size"`
	Rotation float64 `json:"rotation"`
	Alpha    float64 `json:"alpha"`
	Color    string  `json:"color"`
}

// Snapshot copies the current state. The Frame shares nothing with the
// scene and may be handed to another goroutine.
func (s *Scene) Snapshot() Frame {
	f := Frame{
		Index:   s.frame,
		Time:    s.time,
		Width:   s.Width,
		Height:  s.Height,
		Targets: make([]TargetState, 0, len(s.order)),
	}
	for _, id := range s.order {
		f.Targets = append(f.Targets, TargetState{ID: id, Props: s.targets[id].Properties()})
	}

	if s.physics != nil {
		for _, p := range s.physics.Particles() {
			f.Bodies = append(f.Bodies, Body{ID: p.ID(), X: p.Pos.X, Y: p.Pos.Y, Mass: p.Mass, Fixed: p.Fixed})
		}
		for _, sp := range s.physics.Springs() {
			f.Springs = append(f.Springs, Link{
				A: sp.A.ID(), B: sp.B.ID(),
				X1: sp.A.Pos.X, Y1: sp.A.Pos.Y,
				X2: sp.B.Pos.X, Y2: sp.B.Pos.Y,
			})
		}
	}

	if s.particles != nil {
		f.Sprites = make([]Sprite, 0, s.particles.Live())
		s.particles.Each(func(_ particles.Handle, p *particles.Particle) {
			f.Sprites = append(f.Sprites, Sprite{
				X:        p.Pos.X,
				Y:        p.Pos.Y,
				Size:     p.Size,
				Rotation: p.Rotation,
				Alpha:    particles.Alpha(p),
				Color:    HexColor(p.Color),
			})
		})
	}
	return f
}

// Float reads a numeric property, falling back to def
func (t TargetState) Float(name string, def float64) float64 {
	switch v := t.Props[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

// String reads a textual property, falling back to def
func (t TargetState) String(name, def string) string {
	if v, ok := t.Props[name].(string); ok {
		return v
	}
	return def
}
