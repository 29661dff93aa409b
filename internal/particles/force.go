package particles

import "github.com/ivlev/vortex/internal/physics"

// Force changes a particle before the system integrates it
type Force interface {
	Apply(p *Particle, dt float64)
}

// ForceFunc adapts a function to Force
type ForceFunc func(p *Particle, dt float64)

func (f ForceFunc) Apply(p *Particle, dt float64) { f(p, dt) }

// Attractor pulls particles toward Pos with constant Strength (units/s²).
// Negative Strength repels. Radius 0 means unlimited reach.
type Attractor struct {
	Pos      physics.Vec2
	Strength float64
	Radius   float64
}

// minReach keeps particles sitting on the attractor from blowing up
const minReach = 1.0

func (a *Attractor) Apply(p *Particle, dt float64) {
	d := a.Pos.Sub(p.Pos)
	dist := d.Len()
	if dist < minReach || (a.Radius > 0 && dist > a.Radius) {
		return
	}
	p.Vel = p.Vel.Add(d.Scale(a.Strength * dt / dist))
}
