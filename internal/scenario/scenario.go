package scenario

import (
	"github.com/ivlev/vortex/internal/physics"
)

// Scenario is a complete scene description loaded from YAML
type Scenario struct {
	Version string `yaml:"version"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	// Duration is the render length in milliseconds; 0 lets the scene decide
	Duration float64 `yaml:"duration,omitempty"`

	Targets    []Target        `yaml:"targets"`
	Animations []Animation     `yaml:"animations,omitempty"`
	Timeline   *Timeline       `yaml:"timeline,omitempty"`
	Physics    *Physics        `yaml:"physics,omitempty"`
	Particles  *ParticleSystem `yaml:"particles,omitempty"`
}

// Target is one addressable entity with its initial properties
type Target struct {
	ID    string         `yaml:"id"`
	Props map[string]any `yaml:"props,omitempty"`
}

// Animation describes an animation and its property bindings
type Animation struct {
	Duration  float64    `yaml:"duration"`
	Delay     float64    `yaml:"delay,omitempty"`
	Easing    string     `yaml:"easing,omitempty"`
	Loop      bool       `yaml:"loop,omitempty"`
	Direction string     `yaml:"direction,omitempty"`
	Autoplay  bool       `yaml:"autoplay,omitempty"`
	Props     []Property `yaml:"props"`
}

// Property binds a target property to a value
type Property struct {
	Target string `yaml:"target"`
	Name   string `yaml:"name"`
	Value  Value  `yaml:"value"`
}

// Timeline is a sequence of placed children
type Timeline struct {
	Loop      bool    `yaml:"loop,omitempty"`
	Direction string  `yaml:"direction,omitempty"`
	Autoplay  bool    `yaml:"autoplay,omitempty"`
	Children  []Child `yaml:"children"`
}

// Child is exactly one of Animation or Timeline placed at Position
type Child struct {
	Position  Position   `yaml:"position,omitempty"`
	Animation *Animation `yaml:"animation,omitempty"`
	Timeline  *Timeline  `yaml:"timeline,omitempty"`
}

// Physics configures the Verlet engine
type Physics struct {
	Gravity  *physics.Vec2 `yaml:"gravity,omitempty"`
	Friction *float64      `yaml:"friction,omitempty"`
	TimeStep float64       `yaml:"timeStep,omitempty"`
	Bounds   *physics.Rect `yaml:"bounds,omitempty"`
	Bounce   float64       `yaml:"bounce,omitempty"`
	Bodies   []Body        `yaml:"bodies"`
	Springs  []Spring      `yaml:"springs,omitempty"`
}

// Body is a physics particle, optionally mirrored into a target's x and y
type Body struct {
	ID     string  `yaml:"id"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Mass   float64 `yaml:"mass,omitempty"`
	Fixed  bool    `yaml:"fixed,omitempty"`
	Target string  `yaml:"target,omitempty"`
}

// Spring links two bodies by ID. A nil Length uses their start distance.
type Spring struct {
	A         string   `yaml:"a"`
	B         string   `yaml:"b"`
	Length    *float64 `yaml:"length,omitempty"`
	Stiffness *float64 `yaml:"stiffness,omitempty"`
}

// ParticleSystem configures pooled particles
type ParticleSystem struct {
	Max        int           `yaml:"max,omitempty"`
	Gravity    *physics.Vec2 `yaml:"gravity,omitempty"`
	Wind       physics.Vec2  `yaml:"wind,omitempty"`
	Friction   *float64      `yaml:"friction,omitempty"`
	Bounce     *float64      `yaml:"bounce,omitempty"`
	Bounds     *physics.Rect `yaml:"bounds,omitempty"`
	Emitters   []Emitter     `yaml:"emitters,omitempty"`
	Attractors []Attractor   `yaml:"attractors,omitempty"`
}

// Emitter sprays particles at Rate per second
type Emitter struct {
	X      float64   `yaml:"x"`
	Y      float64   `yaml:"y"`
	Rate   float64   `yaml:"rate"`
	Seed   int64     `yaml:"seed,omitempty"`
	Angle  float64   `yaml:"angle,omitempty"`
	Spread float64   `yaml:"spread,omitempty"`
	Speed  []float64 `yaml:"speed,omitempty,flow"`
	Life   []float64 `yaml:"life,omitempty,flow"`
	Size   []float64 `yaml:"size,omitempty,flow"`
	Colors []string  `yaml:"colors,omitempty,flow"`
}

// Attractor pulls particles toward a point
type Attractor struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Strength float64 `yaml:"strength"`
	Radius   float64 `yaml:"radius,omitempty"`
}
