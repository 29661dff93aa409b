package scenario

import (
	"errors"
	"fmt"

	"github.com/ivlev/vortex/internal/anim"
	"github.com/ivlev/vortex/internal/particles"
	"github.com/ivlev/vortex/internal/physics"
	"github.com/ivlev/vortex/internal/scene"
	"github.com/ivlev/vortex/internal/target"
	"github.com/ivlev/vortex/internal/timeline"
	"github.com/ivlev/vortex/internal/value"
)

var (
	// ErrUnknownTarget is returned when a binding names a target that was never declared
	ErrUnknownTarget = errors.New("scenario: unknown target")
	// ErrUnknownBody is returned when a spring names a body that was never declared
	ErrUnknownBody = errors.New("scenario: unknown body")
	// ErrInvalidChild is returned for timeline children that are not exactly one of animation or timeline
	ErrInvalidChild = errors.New("scenario: timeline child needs exactly one of animation or timeline")
)

const (
	DefaultWidth  = 640
	DefaultHeight = 360
)

// Build turns a scenario into a ready-to-tick scene
func Build(sc *Scenario) (*scene.Scene, error) {
	w, h := sc.Width, sc.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	s := scene.New(w, h)

	for _, t := range sc.Targets {
		initial := make(map[string]value.Value, len(t.Props))
		for k, v := range t.Props {
			initial[k] = toValue(v)
		}
		if err := s.AddTarget(target.NewMap(t.ID, initial)); err != nil {
			return nil, err
		}
	}

	// Physics first so attached bodies seed target positions before
	// animations capture their initial values.
	if sc.Physics != nil {
		if err := buildPhysics(s, sc.Physics); err != nil {
			return nil, fmt.Errorf("physics: %w", err)
		}
	}

	for i := range sc.Animations {
		a, err := buildAnimation(s, &sc.Animations[i])
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		s.AddAnimation(a)
	}

	if sc.Timeline != nil {
		tl, err := buildTimeline(s, sc.Timeline)
		if err != nil {
			return nil, fmt.Errorf("timeline: %w", err)
		}
		s.SetTimeline(tl)
	}

	if sc.Particles != nil {
		ps, err := buildParticles(sc.Particles)
		if err != nil {
			return nil, fmt.Errorf("particles: %w", err)
		}
		s.SetParticles(ps)
	}

	return s, nil
}

func buildAnimation(s *scene.Scene, def *Animation) (*anim.Animation, error) {
	dir, err := anim.ParseDirection(def.Direction)
	if err != nil {
		return nil, err
	}

	props := make([]anim.Property, 0, len(def.Props))
	for _, p := range def.Props {
		t, ok := s.Target(p.Target)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, p.Target)
		}
		props = append(props, anim.Property{Target: t, Name: p.Name, Value: p.Value.Descriptor()})
	}

	return anim.New(anim.Config{
		Duration:  def.Duration,
		Delay:     def.Delay,
		Easing:    def.Easing,
		Loop:      def.Loop,
		Direction: dir,
		Autoplay:  def.Autoplay,
	}, props...)
}

func buildTimeline(s *scene.Scene, def *Timeline) (*timeline.Timeline, error) {
	dir, err := anim.ParseDirection(def.Direction)
	if err != nil {
		return nil, err
	}
	tl, err := timeline.New(timeline.Config{Loop: def.Loop, Direction: dir})
	if err != nil {
		return nil, err
	}

	for i, c := range def.Children {
		pos, err := c.Position.Resolve()
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}

		var child timeline.Child
		switch {
		case c.Animation != nil && c.Timeline == nil:
			child, err = buildAnimation(s, c.Animation)
		case c.Timeline != nil && c.Animation == nil:
			child, err = buildTimeline(s, c.Timeline)
		default:
			err = ErrInvalidChild
		}
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		tl.Add(child, pos)
	}

	// Autoplay last so children exist when begin fires.
	if def.Autoplay {
		tl.Play()
	}
	return tl, nil
}

func buildPhysics(s *scene.Scene, def *Physics) error {
	cfg := physics.DefaultConfig()
	if def.Gravity != nil {
		cfg.Gravity = *def.Gravity
	}
	if def.Friction != nil {
		cfg.Friction = *def.Friction
	}
	if def.TimeStep > 0 {
		cfg.TimeStep = def.TimeStep
	}

	e, err := physics.New(cfg)
	if err != nil {
		return err
	}

	bodies := make(map[string]*physics.Particle, len(def.Bodies))
	for i, b := range def.Bodies {
		mass := b.Mass
		if mass == 0 {
			mass = 1
		}
		p, err := e.AddParticle(b.X, b.Y, mass, b.Fixed)
		if err != nil {
			return fmt.Errorf("body %d: %w", i, err)
		}
		if b.ID != "" {
			bodies[b.ID] = p
		}
		if b.Target != "" {
			t, ok := s.Target(b.Target)
			if !ok {
				return fmt.Errorf("body %d: %w: %q", i, ErrUnknownTarget, b.Target)
			}
			s.Attach(p, t)
		}
	}

	for i, sp := range def.Springs {
		a, okA := bodies[sp.A]
		b, okB := bodies[sp.B]
		if !okA || !okB {
			return fmt.Errorf("spring %d: %w: %q or %q", i, ErrUnknownBody, sp.A, sp.B)
		}
		length, stiffness := -1.0, physics.DefaultStiffness
		if sp.Length != nil {
			length = *sp.Length
		}
		if sp.Stiffness != nil {
			stiffness = *sp.Stiffness
		}
		if _, err := e.AddSpring(a, b, length, stiffness); err != nil {
			return fmt.Errorf("spring %d: %w", i, err)
		}
	}

	var bounds *scene.Bounds
	if def.Bounds != nil {
		bounce := def.Bounce
		if bounce == 0 {
			bounce = physics.DefaultBounce
		}
		bounds = &scene.Bounds{Rect: *def.Bounds, Bounce: bounce}
	}
	s.SetPhysics(e, bounds)
	e.Start()
	return nil
}

func buildParticles(def *ParticleSystem) (*particles.System, error) {
	cfg := particles.DefaultConfig()
	if def.Max > 0 {
		cfg.MaxParticles = def.Max
	}
	if def.Gravity != nil {
		cfg.Gravity = *def.Gravity
	}
	cfg.Wind = def.Wind
	if def.Friction != nil {
		cfg.Friction = *def.Friction
	}
	if def.Bounce != nil {
		cfg.Bounce = *def.Bounce
	}
	cfg.Bounds = def.Bounds

	ps, err := particles.New(cfg)
	if err != nil {
		return nil, err
	}

	for i, em := range def.Emitters {
		spray := particles.SprayConfig{Angle: em.Angle, Spread: em.Spread}
		spray.SpeedMin, spray.SpeedMax = span(em.Speed)
		spray.LifeMin, spray.LifeMax = span(em.Life)
		spray.SizeMin, spray.SizeMax = span(em.Size)
		for _, c := range em.Colors {
			col, err := scene.ParseColor(c)
			if err != nil {
				return nil, fmt.Errorf("emitter %d: %w", i, err)
			}
			spray.Colors = append(spray.Colors, col)
		}
		pos := physics.Vec2{X: em.X, Y: em.Y}
		ps.AddEmitter(particles.NewRateEmitter(pos, em.Rate, em.Seed, particles.Spray(spray)))
	}

	for _, a := range def.Attractors {
		ps.AddForce(&particles.Attractor{
			Pos:      physics.Vec2{X: a.X, Y: a.Y},
			Strength: a.Strength,
			Radius:   a.Radius,
		})
	}
	return ps, nil
}

// span reads [min, max] or [value]; empty leaves both zero for defaults
func span(v []float64) (lo, hi float64) {
	switch len(v) {
	case 0:
		return 0, 0
	case 1:
		return v[0], v[0]
	}
	return v[0], v[1]
}
