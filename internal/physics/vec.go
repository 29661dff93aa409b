package physics

import "math"

// Vec2 is a 2D vector in scene units
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64 { return o.Sub(v).Len() }
func (v Vec2) Approx(o Vec2, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps
}

// Rect is an axis-aligned box from Min to Max inclusive
type Rect struct {
	Min Vec2 `json:"min" yaml:"min"`
	Max Vec2 `json:"max" yaml:"max"`
}

// R builds a Rect from corner coordinates
func R(x1, y1, x2, y2 float64) Rect {
	return Rect{Min: Vec2{x1, y1}, Max: Vec2{x2, y2}}
}

// Empty reports whether the box has no area
func (r Rect) Empty() bool { return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y }

// Clamp keeps pos inside r and reflects vel with damping on every clamped axis.
// Shared by the physics engine and the particle system.
func Clamp(pos, vel *Vec2, r Rect, bounce float64) bool {
	hit := false
	if pos.X < r.Min.X {
		pos.X = r.Min.X
		vel.X *= -bounce
		hit = true
	} else if pos.X > r.Max.X {
		pos.X = r.Max.X
		vel.X *= -bounce
		hit = true
	}

	if pos.Y < r.Min.Y {
		pos.Y = r.Min.Y
		vel.Y *= -bounce
		hit = true
	} else if pos.Y > r.Max.Y {
		pos.Y = r.Max.Y
		vel.Y *= -bounce
		hit = true
	}
	return hit
}
