// Package physics is a small fixed-step Verlet integrator with spring
// constraints. Clocks are in seconds.
package physics

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrInvalidConfig is returned for invalid step, friction, mass or stiffness values
	ErrInvalidConfig = errors.New("physics: invalid configuration")
	// ErrUnresolvedReference is returned when a particle or spring is not owned
	// by the engine or is still referenced by a spring
	ErrUnresolvedReference = errors.New("physics: unresolved reference")
)

const (
	DefaultTimeStep      = 1.0 / 60
	DefaultMaxFrameDelta = 0.1
	DefaultFriction      = 0.98
	DefaultStiffness     = 0.5
	DefaultBounce        = 0.5

	// accumulator slack so a frame of exactly k steps runs k steps
	stepEpsilon = 1e-9
)

// DefaultGravity points down the screen
var DefaultGravity = Vec2{X: 0, Y: 0.5}

// Config holds engine parameters
type Config struct {
	Gravity  Vec2
	Friction float64
	TimeStep float64
	// MaxFrameDelta caps one Tick so a stalled host does not explode the simulation
	MaxFrameDelta float64
}

// DefaultConfig returns the stock engine parameters
func DefaultConfig() Config {
	return Config{
		Gravity:       DefaultGravity,
		Friction:      DefaultFriction,
		TimeStep:      DefaultTimeStep,
		MaxFrameDelta: DefaultMaxFrameDelta,
	}
}

func (c Config) validate() error {
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
	switch {
	case !finite(c.TimeStep) || c.TimeStep <= 0:
		return fmt.Errorf("%w: time step %v must be > 0", ErrInvalidConfig, c.TimeStep)
	case !finite(c.MaxFrameDelta) || c.MaxFrameDelta <= 0:
		return fmt.Errorf("%w: max frame delta %v must be > 0", ErrInvalidConfig, c.MaxFrameDelta)
	case !finite(c.Friction) || c.Friction < 0 || c.Friction > 1:
		return fmt.Errorf("%w: friction %v must be in [0, 1]", ErrInvalidConfig, c.Friction)
	case !finite(c.Gravity.X) || !finite(c.Gravity.Y):
		return fmt.Errorf("%w: gravity %v is not finite", ErrInvalidConfig, c.Gravity)
	}
	return nil
}

// Engine owns particles and springs. It is not safe for concurrent use.
type Engine struct {
	cfg Config

	particles []*Particle
	springs   []*Spring
	nextID    int

	running     bool
	accumulator float64
	steps       uint64
}

// New creates a stopped engine
func New(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine parameters
func (e *Engine) Config() Config { return e.cfg }

// SetGravity replaces the gravity vector
func (e *Engine) SetGravity(g Vec2) { e.cfg.Gravity = g }

// Start lets Tick consume frame time. Idempotent.
func (e *Engine) Start() {
	if e.running {
		return
	}
	e.running = true
	e.accumulator = 0
}

// Stop halts integration immediately. Idempotent.
func (e *Engine) Stop() { e.running = false }

// Running reports whether Tick integrates
func (e *Engine) Running() bool { return e.running }

// Steps returns the number of fixed steps run so far
func (e *Engine) Steps() uint64 { return e.steps }

// Tick feeds dt seconds of wall time into the accumulator and runs as many
// fixed steps as fit. The remainder carries to the next call. It returns the
// number of steps run.
func (e *Engine) Tick(dt float64) int {
	if !e.running || math.IsNaN(dt) || dt <= 0 {
		return 0
	}
	e.accumulator += math.Min(dt, e.cfg.MaxFrameDelta)

	n := 0
	for e.accumulator+stepEpsilon >= e.cfg.TimeStep {
		e.Step()
		e.accumulator -= e.cfg.TimeStep
		n++
	}
	if e.accumulator < 0 {
		e.accumulator = 0
	}
	return n
}

// Step runs exactly one fixed step whether or not the engine is running
func (e *Engine) Step() {
	dt := e.cfg.TimeStep
	g := e.cfg.Gravity.Scale(dt)
	for _, p := range e.particles {
		if p.pinned() {
			continue
		}
		p.Prev = p.Pos
		p.Vel = p.Vel.Add(g).Scale(e.cfg.Friction)
		p.Pos = p.Pos.Add(p.Vel.Scale(dt))
	}
	for _, s := range e.springs {
		s.solve()
	}
	e.steps++
}

// AddParticle creates a particle at rest. Mass must be > 0.
func (e *Engine) AddParticle(x, y, mass float64, fixed bool) (*Particle, error) {
	if math.IsNaN(mass) || math.IsInf(mass, 0) || mass <= 0 {
		return nil, fmt.Errorf("%w: mass %v must be > 0", ErrInvalidConfig, mass)
	}
	pos := Vec2{X: x, Y: y}
	p := &Particle{id: e.nextID, Pos: pos, Prev: pos, Mass: mass, Fixed: fixed, engine: e}
	e.nextID++
	e.particles = append(e.particles, p)
	return p, nil
}

// AddSpring links a and b. A negative restLength uses their current distance.
// Both particles must belong to this engine.
func (e *Engine) AddSpring(a, b *Particle, restLength, stiffness float64) (*Spring, error) {
	if !e.owns(a) || !e.owns(b) {
		return nil, fmt.Errorf("%w: spring endpoint is not an engine particle", ErrUnresolvedReference)
	}
	if a == b {
		return nil, fmt.Errorf("%w: spring endpoints must differ", ErrInvalidConfig)
	}
	if math.IsNaN(stiffness) || stiffness < 0 || stiffness > 1 {
		return nil, fmt.Errorf("%w: stiffness %v must be in [0, 1]", ErrInvalidConfig, stiffness)
	}
	if math.IsNaN(restLength) || math.IsInf(restLength, 0) {
		return nil, fmt.Errorf("%w: rest length %v", ErrInvalidConfig, restLength)
	}
	if restLength < 0 {
		restLength = a.Pos.Dist(b.Pos)
	}

	s := &Spring{A: a, B: b, RestLength: restLength, Stiffness: stiffness}
	e.springs = append(e.springs, s)
	return s, nil
}

// RemoveParticle detaches p. Springs must be removed first.
func (e *Engine) RemoveParticle(p *Particle) error {
	i := slices.Index(e.particles, p)
	if i < 0 {
		return fmt.Errorf("%w: particle is not owned by this engine", ErrUnresolvedReference)
	}
	for _, s := range e.springs {
		if s.A == p || s.B == p {
			return fmt.Errorf("%w: particle %d is still referenced by a spring", ErrUnresolvedReference, p.id)
		}
	}
	e.particles = slices.Delete(e.particles, i, i+1)
	p.engine = nil
	return nil
}

// RemoveSpring detaches s
func (e *Engine) RemoveSpring(s *Spring) error {
	i := slices.Index(e.springs, s)
	if i < 0 {
		return fmt.Errorf("%w: spring is not owned by this engine", ErrUnresolvedReference)
	}
	e.springs = slices.Delete(e.springs, i, i+1)
	return nil
}

// Particles returns the live particles in insertion order
func (e *Engine) Particles() []*Particle { return slices.Clone(e.particles) }

// Springs returns the live springs in insertion order
func (e *Engine) Springs() []*Spring { return slices.Clone(e.springs) }

// ApplyForce adds F/mass to the velocity of a non-fixed particle
func (e *Engine) ApplyForce(p *Particle, fx, fy float64) {
	if p.pinned() {
		return
	}
	p.Vel = p.Vel.Add(Vec2{X: fx, Y: fy}.Scale(1 / p.Mass))
}

// ConstrainToBounds clamps p into r and reflects the clamped velocity
// components scaled by bounce. Hosts call it once per frame per particle.
func (e *Engine) ConstrainToBounds(p *Particle, r Rect, bounce float64) bool {
	return Clamp(&p.Pos, &p.Vel, r, bounce)
}

func (e *Engine) owns(p *Particle) bool {
	return p != nil && p.engine == e
}
