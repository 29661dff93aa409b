// Package scene hosts every engine component behind one frame clock. It owns
// the targets and advances animations, the timeline, physics and particles in
// a fixed order each tick.
package scene

import (
	"errors"
	"fmt"

	"github.com/ivlev/vortex/internal/anim"
	"github.com/ivlev/vortex/internal/particles"
	"github.com/ivlev/vortex/internal/physics"
	"github.com/ivlev/vortex/internal/target"
	"github.com/ivlev/vortex/internal/timeline"
	"github.com/ivlev/vortex/internal/value"
)

// ErrDuplicateTarget is returned when two targets share an ID
var ErrDuplicateTarget = errors.New("scene: duplicate target id")

// Bounds keeps physics particles inside a box after every tick
type Bounds struct {
	Rect   physics.Rect
	Bounce float64
}

type attachment struct {
	particle *physics.Particle
	target   *target.Map
}

// Scene is the root of one simulation. Not safe for concurrent use.
type Scene struct {
	Width, Height int

	targets map[string]*target.Map
	order   []string

	animations []*anim.Animation
	timeline   *timeline.Timeline

	physics  *physics.Engine
	bounds   *Bounds
	attached []attachment

	particles *particles.System

	time  float64
	frame int
}

// New creates an empty scene of the given canvas size
func New(width, height int) *Scene {
	return &Scene{
		Width:   width,
		Height:  height,
		targets: make(map[string]*target.Map),
	}
}

// AddTarget registers t under its ID
func (s *Scene) AddTarget(t *target.Map) error {
	if _, ok := s.targets[t.ID()]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateTarget, t.ID())
	}
	s.targets[t.ID()] = t
	s.order = append(s.order, t.ID())
	return nil
}

// Target looks up a target by ID
func (s *Scene) Target(id string) (*target.Map, bool) {
	t, ok := s.targets[id]
	return t, ok
}

// Targets returns the targets in registration order
func (s *Scene) Targets() []*target.Map {
	out := make([]*target.Map, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.targets[id])
	}
	return out
}

// AddAnimation adds a root animation ticked on its own clock
func (s *Scene) AddAnimation(a *anim.Animation) { s.animations = append(s.animations, a) }

// Animations returns the root animations
func (s *Scene) Animations() []*anim.Animation { return s.animations }

// SetTimeline sets the root timeline
func (s *Scene) SetTimeline(tl *timeline.Timeline) { s.timeline = tl }

// Timeline returns the root timeline, if any
func (s *Scene) Timeline() *timeline.Timeline { return s.timeline }

// SetPhysics installs a physics engine. A non-nil b is applied to every
// particle after each tick.
func (s *Scene) SetPhysics(e *physics.Engine, b *Bounds) {
	s.physics = e
	s.bounds = b
}

// Physics returns the physics engine, if any
func (s *Scene) Physics() *physics.Engine { return s.physics }

// Attach mirrors p's position into t's x and y after every physics tick
func (s *Scene) Attach(p *physics.Particle, t *target.Map) {
	s.attached = append(s.attached, attachment{particle: p, target: t})
	s.sync()
}

// SetParticles installs a particle system
func (s *Scene) SetParticles(ps *particles.System) { s.particles = ps }

// Particles returns the particle system, if any
func (s *Scene) Particles() *particles.System { return s.particles }

// Time returns the scene clock in milliseconds
func (s *Scene) Time() float64 { return s.time }

// Frame returns the number of ticks so far
func (s *Scene) Frame() int { return s.frame }

// Tick advances everything by dtMs milliseconds: root animations in
// insertion order, the timeline, physics with bounds, then particles.
func (s *Scene) Tick(dtMs float64) {
	if dtMs < 0 {
		return
	}
	for _, a := range s.animations {
		a.Tick(dtMs)
	}
	if s.timeline != nil {
		s.timeline.Tick(dtMs)
	}

	dt := dtMs / 1000
	if s.physics != nil {
		s.physics.Tick(dt)
		if s.bounds != nil {
			for _, p := range s.physics.Particles() {
				s.physics.ConstrainToBounds(p, s.bounds.Rect, s.bounds.Bounce)
			}
		}
		s.sync()
	}
	if s.particles != nil {
		s.particles.Update(dt)
	}

	s.time += dtMs
	s.frame++
}

func (s *Scene) sync() {
	for _, a := range s.attached {
		a.target.Write("x", value.Number(a.particle.Pos.X))
		a.target.Write("y", value.Number(a.particle.Pos.Y))
	}
}

// Duration is the time after which no root animation or timeline changes
// any more. Looping components are ignored; 0 means open-ended.
func (s *Scene) Duration() float64 {
	d := 0.0
	for _, a := range s.animations {
		if cfg := a.Config(); !cfg.Loop && a.Duration() > d {
			d = a.Duration()
		}
	}
	if s.timeline != nil && !s.timeline.Looping() && s.timeline.Duration() > d {
		d = s.timeline.Duration()
	}
	return d
}

// Play starts every root animation and the timeline
func (s *Scene) Play() {
	for _, a := range s.animations {
		a.Play()
	}
	if s.timeline != nil {
		s.timeline.Play()
	}
	if s.physics != nil {
		s.physics.Start()
	}
}
