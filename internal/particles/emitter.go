package particles

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/ivlev/vortex/internal/physics"
)

// Emitter decides each update whether to create particles
type Emitter interface {
	Emit(s *System, dt float64)
}

// EmitterFunc adapts a function to Emitter
type EmitterFunc func(s *System, dt float64)

func (f EmitterFunc) Emit(s *System, dt float64) { f(s, dt) }

// Factory produces the initial fields of one particle emitted at origin
type Factory func(rng *rand.Rand, origin physics.Vec2) Options

// RateEmitter emits Rate particles per second from Pos. Fractional
// particles carry over between updates.
type RateEmitter struct {
	Pos     physics.Vec2
	Rate    float64
	Factory Factory
	Active  bool

	// Dropped counts emissions refused because the system was full
	Dropped int

	acc float64
	rng *rand.Rand
}

// NewRateEmitter returns an active emitter with a deterministic random source
func NewRateEmitter(pos physics.Vec2, rate float64, seed int64, factory Factory) *RateEmitter {
	if factory == nil {
		factory = Spray(SprayConfig{})
	}
	return &RateEmitter{
		Pos:     pos,
		Rate:    rate,
		Factory: factory,
		Active:  true,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (e *RateEmitter) Emit(s *System, dt float64) {
	if !e.Active || e.Rate <= 0 {
		return
	}
	e.acc += e.Rate * dt
	n := int(math.Floor(e.acc))
	e.acc -= float64(n)
	e.Burst(s, n)
}

// Burst emits n particles immediately
func (e *RateEmitter) Burst(s *System, n int) int {
	created := 0
	for i := 0; i < n; i++ {
		if _, ok := s.Create(e.Factory(e.rng, e.Pos)); !ok {
			e.Dropped += n - i
			break
		}
		created++
	}
	return created
}

// SprayConfig describes a cone of particles. Zero ranges take defaults.
type SprayConfig struct {
	// Angle and Spread are in radians; particles leave within Angle ± Spread/2
	Angle  float64
	Spread float64

	SpeedMin, SpeedMax float64
	LifeMin, LifeMax   float64
	SizeMin, SizeMax   float64

	Colors []color.NRGBA
}

// Spray builds a Factory that scatters particles in a cone
func Spray(cfg SprayConfig) Factory {
	if cfg.Spread == 0 {
		cfg.Spread = 2 * math.Pi
	}
	if cfg.SpeedMax < cfg.SpeedMin {
		cfg.SpeedMax = cfg.SpeedMin
	}
	if cfg.LifeMin <= 0 {
		cfg.LifeMin = DefaultLife
	}
	if cfg.LifeMax < cfg.LifeMin {
		cfg.LifeMax = cfg.LifeMin
	}
	if cfg.SizeMin <= 0 {
		cfg.SizeMin = DefaultSize
	}
	if cfg.SizeMax < cfg.SizeMin {
		cfg.SizeMax = cfg.SizeMin
	}

	between := func(rng *rand.Rand, lo, hi float64) float64 {
		return lo + (hi-lo)*rng.Float64()
	}
	return func(rng *rand.Rand, origin physics.Vec2) Options {
		angle := cfg.Angle + (rng.Float64()-0.5)*cfg.Spread
		speed := between(rng, cfg.SpeedMin, cfg.SpeedMax)
		o := Options{
			Pos:      origin,
			Vel:      physics.Vec2{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed},
			Life:     between(rng, cfg.LifeMin, cfg.LifeMax),
			Size:     between(rng, cfg.SizeMin, cfg.SizeMax),
			Rotation: rng.Float64() * 2 * math.Pi,
		}
		if len(cfg.Colors) > 0 {
			o.Color = cfg.Colors[rng.Intn(len(cfg.Colors))]
		}
		return o
	}
}
