// Package particles is a pooled, fire-and-forget particle system for visual
// effects. Particles live in a fixed arena addressed by stable handles; expired
// slots go back to a free list and are handed out again before new slots.
// Clocks are in seconds.
package particles

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/ivlev/vortex/internal/physics"
)

// ErrInvalidConfig is returned for a non-positive capacity or invalid coefficients
var ErrInvalidConfig = errors.New("particles: invalid configuration")

const (
	DefaultMaxParticles = 1000
	DefaultFriction     = 0.98
	DefaultBounce       = 0.6
	DefaultLife         = 1.0
	DefaultSize         = 10.0
)

var (
	DefaultGravity = physics.Vec2{X: 0, Y: 0.1}
	White          = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Config holds system-wide parameters
type Config struct {
	MaxParticles int
	Gravity      physics.Vec2
	Wind         physics.Vec2
	Friction     float64
	Bounce       float64
	// Bounds enables box collision when non-nil
	Bounds *physics.Rect
}

// DefaultConfig returns the stock system parameters
func DefaultConfig() Config {
	return Config{
		MaxParticles: DefaultMaxParticles,
		Gravity:      DefaultGravity,
		Friction:     DefaultFriction,
		Bounce:       DefaultBounce,
	}
}

// Particle is one live sprite
type Particle struct {
	Pos      physics.Vec2
	Vel      physics.Vec2
	Age      float64
	Life     float64
	Size     float64
	Color    color.NRGBA
	Alpha    float64
	Rotation float64
	Data     any
}

// Options seeds a particle. Zero Life and Size, a nil Alpha and a transparent
// Color take the package defaults.
type Options struct {
	Pos      physics.Vec2
	Vel      physics.Vec2
	Life     float64
	Size     float64
	Color    color.NRGBA
	Alpha    *float64
	Rotation float64
	Data     any
}

// Opacity returns a for Options.Alpha
func Opacity(a float64) *float64 { return &a }

func (p *Particle) reset(o Options) {
	*p = Particle{
		Pos:      o.Pos,
		Vel:      o.Vel,
		Life:     o.Life,
		Size:     o.Size,
		Color:    o.Color,
		Alpha:    1,
		Rotation: o.Rotation,
		Data:     o.Data,
	}
	if p.Life <= 0 {
		p.Life = DefaultLife
	}
	if p.Size <= 0 {
		p.Size = DefaultSize
	}
	if p.Color.A == 0 {
		p.Color = White
	}
	if o.Alpha != nil {
		p.Alpha = *o.Alpha
	}
}

// Alpha is the particle's opacity faded linearly over its life
func Alpha(p *Particle) float64 {
	return math.Max(0, p.Alpha*(1-p.Age/p.Life))
}

// Handle addresses an arena slot. A handle goes stale once its particle
// expires, even if the slot is reused.
type Handle struct {
	slot int32
	gen  uint32
}

type slot struct {
	p       Particle
	gen     uint32
	live    bool
	liveIdx int
}

// System owns the arena, emitters and force fields. It is not safe for
// concurrent use.
type System struct {
	cfg Config

	slots []slot
	live  []int32
	free  []int32

	emitters []Emitter
	forces   []Force
}

// New creates an empty system with room for cfg.MaxParticles
func New(cfg Config) (*System, error) {
	if cfg.MaxParticles <= 0 {
		return nil, fmt.Errorf("%w: max particles %d must be > 0", ErrInvalidConfig, cfg.MaxParticles)
	}
	if math.IsNaN(cfg.Friction) || cfg.Friction < 0 || cfg.Friction > 1 {
		return nil, fmt.Errorf("%w: friction %v must be in [0, 1]", ErrInvalidConfig, cfg.Friction)
	}
	if math.IsNaN(cfg.Bounce) || cfg.Bounce < 0 {
		return nil, fmt.Errorf("%w: bounce %v must be >= 0", ErrInvalidConfig, cfg.Bounce)
	}
	if cfg.Bounds != nil && cfg.Bounds.Empty() {
		return nil, fmt.Errorf("%w: empty bounds %+v", ErrInvalidConfig, *cfg.Bounds)
	}

	return &System{
		cfg:   cfg,
		slots: make([]slot, 0, cfg.MaxParticles),
		live:  make([]int32, 0, cfg.MaxParticles),
		free:  make([]int32, 0, cfg.MaxParticles),
	}, nil
}

// Config returns the system parameters
func (s *System) Config() Config { return s.cfg }

// SetWind replaces the wind vector
func (s *System) SetWind(w physics.Vec2) { s.cfg.Wind = w }

// AddEmitter registers an emitter; emitters run in registration order
func (s *System) AddEmitter(e Emitter) Emitter {
	s.emitters = append(s.emitters, e)
	return e
}

// AddForce registers a force field
func (s *System) AddForce(f Force) Force {
	s.forces = append(s.forces, f)
	return f
}

// Create takes a pooled slot, or a fresh one while under capacity. It reports
// false when the system is full; live particles are never evicted.
func (s *System) Create(o Options) (Handle, bool) {
	var idx int32
	switch {
	case len(s.free) > 0:
		idx = s.free[len(s.free)-1]
		s.free = s.free[:len(s.free)-1]
	case len(s.slots) < s.cfg.MaxParticles:
		idx = int32(len(s.slots))
		s.slots = append(s.slots, slot{})
	default:
		return Handle{}, false
	}

	sl := &s.slots[idx]
	sl.p.reset(o)
	sl.live = true
	sl.liveIdx = len(s.live)
	s.live = append(s.live, idx)
	return Handle{slot: idx, gen: sl.gen}, true
}

// Get returns the live particle behind h
func (s *System) Get(h Handle) (*Particle, bool) {
	if h.slot < 0 || int(h.slot) >= len(s.slots) {
		return nil, false
	}
	sl := &s.slots[h.slot]
	if !sl.live || sl.gen != h.gen {
		return nil, false
	}
	return &sl.p, true
}

// Kill returns the particle behind h to the pool early
func (s *System) Kill(h Handle) bool {
	if _, ok := s.Get(h); !ok {
		return false
	}
	s.release(s.slots[h.slot].liveIdx)
	return true
}

// Live returns the number of live particles
func (s *System) Live() int { return len(s.live) }

// Pooled returns the number of recycled slots waiting for reuse
func (s *System) Pooled() int { return len(s.free) }

// Allocated returns the number of slots ever handed out
func (s *System) Allocated() int { return len(s.slots) }

// Cap returns the particle limit
func (s *System) Cap() int { return s.cfg.MaxParticles }

// Each visits live particles. The visit order is unspecified and fn must not
// create or kill particles.
func (s *System) Each(fn func(h Handle, p *Particle)) {
	for _, idx := range s.live {
		sl := &s.slots[idx]
		fn(Handle{slot: idx, gen: sl.gen}, &sl.p)
	}
}

// Update runs emitters, then integrates, collides and ages every live
// particle. Particles reaching their life go back to the pool.
func (s *System) Update(dt float64) {
	if math.IsNaN(dt) || dt <= 0 {
		return
	}
	for _, e := range s.emitters {
		e.Emit(s, dt)
	}

	accel := s.cfg.Gravity.Add(s.cfg.Wind).Scale(dt)
	// Walk backwards so swap-remove only moves already visited particles.
	for i := len(s.live) - 1; i >= 0; i-- {
		p := &s.slots[s.live[i]].p

		for _, f := range s.forces {
			f.Apply(p, dt)
		}
		p.Vel = p.Vel.Add(accel).Scale(s.cfg.Friction)
		p.Pos = p.Pos.Add(p.Vel.Scale(dt))

		if s.cfg.Bounds != nil {
			physics.Clamp(&p.Pos, &p.Vel, *s.cfg.Bounds, s.cfg.Bounce)
		}

		p.Age += dt
		if p.Age >= p.Life {
			s.release(i)
		}
	}
}

// Clear returns every live particle to the pool
func (s *System) Clear() {
	for i := len(s.live) - 1; i >= 0; i-- {
		s.release(i)
	}
}

// release swap-removes live[i] and pushes its slot onto the free list
func (s *System) release(i int) {
	idx := s.live[i]
	last := len(s.live) - 1
	if i != last {
		moved := s.live[last]
		s.live[i] = moved
		s.slots[moved].liveIdx = i
	}
	s.live = s.live[:last]

	sl := &s.slots[idx]
	sl.live = false
	sl.gen++
	sl.p.Data = nil
	s.free = append(s.free, idx)
}
