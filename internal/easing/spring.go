package easing

import (
	"github.com/charmbracelet/harmonica"
)

const (
	DefaultSpringFrequency = 8.0
	DefaultSpringDamping   = 0.45

	springSamples = 240
	springFPS     = 120
)

// Spring samples a damped harmonic spring moving from 0 to 1 over two
// simulated seconds into a lookup table. The curve overshoots when damping < 1.
func Spring(frequency, damping float64) Func {
	s := harmonica.NewSpring(harmonica.FPS(springFPS), frequency, damping)

	lut := make([]float64, springSamples+1)
	pos, vel := 0.0, 0.0
	for i := 1; i <= springSamples; i++ {
		pos, vel = s.Update(pos, vel, 1.0)
		lut[i] = pos
	}
	lut[springSamples] = 1

	return pin(func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		x := t * springSamples
		i := int(x)
		frac := x - float64(i)
		return lut[i] + (lut[i+1]-lut[i])*frac
	})
}
