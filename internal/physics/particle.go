package physics

// Particle is a point mass. Fixed particles are skipped by integration and
// spring correction but may still be moved by the host.
type Particle struct {
	id int

	Pos  Vec2
	Prev Vec2
	Vel  Vec2
	Mass float64

	Fixed bool

	grabbed bool
	engine  *Engine
}

// ID is unique within the owning engine
func (p *Particle) ID() int { return p.id }

// Grabbed reports whether a drag currently holds the particle
func (p *Particle) Grabbed() bool { return p.grabbed }

func (p *Particle) pinned() bool { return p.Fixed || p.grabbed }

// Spring pulls two particles toward RestLength apart
type Spring struct {
	A, B       *Particle
	RestLength float64
	Stiffness  float64
}

// solve moves both free endpoints by half the scaled correction
func (s *Spring) solve() {
	delta := s.B.Pos.Sub(s.A.Pos)
	dist := delta.Len()
	if dist == 0 {
		return
	}

	diff := (s.RestLength - dist) / dist * s.Stiffness
	offset := delta.Scale(diff * 0.5)

	if !s.A.pinned() {
		s.A.Pos = s.A.Pos.Sub(offset)
	}
	if !s.B.pinned() {
		s.B.Pos = s.B.Pos.Add(offset)
	}
}

// Length returns the current endpoint distance
func (s *Spring) Length() float64 { return s.A.Pos.Dist(s.B.Pos) }
