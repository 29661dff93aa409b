package physics

import "fmt"

// ReleaseDamping scales the throw velocity computed on Release
const ReleaseDamping = 0.5

// Grab pins p at (x, y) until Release. Integration and springs leave it alone
// while held.
func (e *Engine) Grab(p *Particle, x, y float64) error {
	if !e.owns(p) {
		return fmt.Errorf("%w: cannot grab a foreign particle", ErrUnresolvedReference)
	}
	p.grabbed = true
	p.Vel = Vec2{}
	p.Prev = p.Pos
	p.Pos = Vec2{X: x, Y: y}
	return nil
}

// DragTo moves a held particle, remembering the previous position for the throw
func (e *Engine) DragTo(p *Particle, x, y float64) {
	if !p.grabbed {
		return
	}
	p.Prev = p.Pos
	p.Pos = Vec2{X: x, Y: y}
}

// Release lets go of p and throws it with the last drag motion
func (e *Engine) Release(p *Particle) {
	if !p.grabbed {
		return
	}
	p.grabbed = false
	p.Vel = p.Pos.Sub(p.Prev).Scale(ReleaseDamping)
}

// Nearest returns the non-fixed particle closest to (x, y) within radius,
// or nil
func (e *Engine) Nearest(x, y, radius float64) *Particle {
	at := Vec2{X: x, Y: y}
	var best *Particle
	bestDist := radius
	for _, p := range e.particles {
		if p.Fixed {
			continue
		}
		if d := p.Pos.Dist(at); d <= bestDist {
			best, bestDist = p, d
		}
	}
	return best
}
