// Package easing maps normalized time to normalized progress.
//
// Every function is pure and pinned at the boundaries: f(0) == 0 and f(1) == 1.
// Back and elastic curves may leave [0,1] between the endpoints.
package easing

import (
	"math"
	"sort"
)

// Func maps t in [0,1] to eased progress
type Func func(t float64) float64

const (
	// DefaultOvershoot is the classic back easing constant (10% overshoot)
	DefaultOvershoot = 1.70158

	elasticPeriod = 0.3
)

// StepPolicy selects where a stepped curve jumps within each interval
type StepPolicy int

const (
	StepStart StepPolicy = iota
	StepEnd
	StepBoth
)

var registry = map[string]Func{
	"linear": Linear,

	"easeInQuad":    pin(func(t float64) float64 { return t * t }),
	"easeOutQuad":   pin(func(t float64) float64 { return t * (2 - t) }),
	"easeInOutQuad": pin(inOutPoly(2)),

	"easeInCubic":    pin(func(t float64) float64 { return t * t * t }),
	"easeOutCubic":   pin(outPoly(3)),
	"easeInOutCubic": pin(inOutPoly(3)),

	"easeInQuart":    pin(func(t float64) float64 { return t * t * t * t }),
	"easeOutQuart":   pin(outPoly(4)),
	"easeInOutQuart": pin(inOutPoly(4)),

	"easeInQuint":    pin(func(t float64) float64 { return t * t * t * t * t }),
	"easeOutQuint":   pin(outPoly(5)),
	"easeInOutQuint": pin(inOutPoly(5)),

	"easeInSine":    pin(func(t float64) float64 { return 1 - math.Cos(t*math.Pi/2) }),
	"easeOutSine":   pin(func(t float64) float64 { return math.Sin(t * math.Pi / 2) }),
	"easeInOutSine": pin(func(t float64) float64 { return -(math.Cos(math.Pi*t) - 1) / 2 }),

	"easeInExpo":    pin(func(t float64) float64 { return math.Pow(2, 10*(t-1)) }),
	"easeOutExpo":   pin(func(t float64) float64 { return 1 - math.Pow(2, -10*t) }),
	"easeInOutExpo": pin(inOutExpo),

	"easeInCirc":    pin(func(t float64) float64 { return 1 - math.Sqrt(nonNeg(1-t*t)) }),
	"easeOutCirc":   pin(func(t float64) float64 { return math.Sqrt(nonNeg(1 - (t-1)*(t-1))) }),
	"easeInOutCirc": pin(inOutCirc),

	"easeInElastic":    pin(inElastic),
	"easeOutElastic":   pin(outElastic),
	"easeInOutElastic": pin(inOutElastic),

	"easeInBack":    BackIn(DefaultOvershoot),
	"easeOutBack":   BackOut(DefaultOvershoot),
	"easeInOutBack": BackInOut(DefaultOvershoot),

	"steps": Steps(10, StepStart),
}

// Linear is the identity curve and the fallback for unknown names
func Linear(t float64) float64 { return t }

// Get returns the registered function for name
func Get(name string) (Func, bool) {
	f, ok := registry[name]
	return f, ok
}

// Lookup resolves a plain or parameterized easing name; unknown names give Linear
func Lookup(name string) Func {
	if f, ok := registry[name]; ok {
		return f
	}
	if f, ok := parse(name); ok {
		return f
	}
	return Linear
}

// Names lists the registered plain names in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BackIn overshoots below zero at the start by s
func BackIn(s float64) Func {
	return pin(func(t float64) float64 {
		return t * t * ((s+1)*t - s)
	})
}

// BackOut overshoots above one before settling
func BackOut(s float64) Func {
	return pin(func(t float64) float64 {
		t--
		return t*t*((s+1)*t+s) + 1
	})
}

// BackInOut overshoots on both ends; s is scaled by 1.525 like the standard curve
func BackInOut(s float64) Func {
	s *= 1.525
	return pin(func(t float64) float64 {
		t *= 2
		if t < 1 {
			return 0.5 * (t * t * ((s+1)*t - s))
		}
		t -= 2
		return 0.5 * (t*t*((s+1)*t+s) + 2)
	})
}

// Steps quantizes progress into n equal jumps
func Steps(n int, policy StepPolicy) Func {
	if n < 1 {
		n = 1
	}
	steps := float64(n)
	return pin(func(t float64) float64 {
		t = math.Min(math.Max(t, 0), 1)
		step := math.Floor(t * steps)
		switch policy {
		case StepEnd:
			return math.Min(step+1, steps) / steps
		case StepBoth:
			if math.Mod(t*steps, 1) == 0 {
				return step / steps
			}
			return (step + 0.5) / steps
		default:
			return step / steps
		}
	})
}

// pin fixes both boundaries exactly; formulas like 2^(10(t-1)) miss them
func pin(f Func) Func {
	return func(t float64) float64 {
		switch t {
		case 0:
			return 0
		case 1:
			return 1
		}
		return f(t)
	}
}

func outPoly(n int) Func {
	return func(t float64) float64 {
		u := 1 - t
		v := 1.0
		for i := 0; i < n; i++ {
			v *= u
		}
		return 1 - v
	}
}

func inOutPoly(n int) Func {
	scale := math.Pow(2, float64(n-1))
	return func(t float64) float64 {
		if t < 0.5 {
			return scale * math.Pow(t, float64(n))
		}
		return 1 - math.Pow(-2*t+2, float64(n))/2
	}
}

func inOutExpo(t float64) float64 {
	t *= 2
	if t < 1 {
		return 0.5 * math.Pow(2, 10*(t-1))
	}
	t--
	return 0.5 * (-math.Pow(2, -10*t) + 2)
}

func inOutCirc(t float64) float64 {
	t *= 2
	if t < 1 {
		return -0.5 * (math.Sqrt(nonNeg(1-t*t)) - 1)
	}
	t -= 2
	return 0.5 * (math.Sqrt(nonNeg(1-t*t)) + 1)
}

func inElastic(t float64) float64 {
	s := elasticPeriod / 4
	t--
	return -(math.Pow(2, 10*t) * math.Sin((t-s)*(2*math.Pi)/elasticPeriod))
}

func outElastic(t float64) float64 {
	s := elasticPeriod / 4
	return math.Pow(2, -10*t)*math.Sin((t-s)*(2*math.Pi)/elasticPeriod) + 1
}

func inOutElastic(t float64) float64 {
	p := elasticPeriod * 1.5
	s := p / 4
	t *= 2
	if t < 1 {
		t--
		return -0.5 * (math.Pow(2, 10*t) * math.Sin((t-s)*(2*math.Pi)/p))
	}
	t--
	return math.Pow(2, -10*t)*math.Sin((t-s)*(2*math.Pi)/p)*0.5 + 1
}

// nonNeg keeps circular curves real when t drifts past the unit range
func nonNeg(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}
