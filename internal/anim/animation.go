// Package anim drives property bindings on targets from a virtual clock.
//
// Times are in milliseconds. The host advances an Animation by calling Tick;
// nothing here schedules itself.
package anim

import (
	"errors"
	"fmt"
	"math"

	"github.com/ivlev/vortex/internal/easing"
	"github.com/ivlev/vortex/internal/target"
	"github.com/ivlev/vortex/internal/value"
)

// ErrInvalidConfig is returned for structurally invalid animations
var ErrInvalidConfig = errors.New("anim: invalid configuration")

// Callback receives the animation that fired it
type Callback func(a *Animation)

// Config holds the construction options of an Animation
type Config struct {
	Duration float64
	Delay    float64
	// Easing is a registry name; unknown names fall back to linear
	Easing string
	// Ease overrides Easing when set
	Ease      easing.Func
	Loop      bool
	Direction Direction
	Autoplay  bool

	OnBegin    Callback
	OnUpdate   Callback
	OnComplete Callback
	// OnLoop fires once for every cycle boundary the clock crosses
	OnLoop Callback
}

// Property binds one target property to a value descriptor
type Property struct {
	Target target.Target
	Name   string
	Value  value.Descriptor
}

type binding struct {
	target   target.Target
	name     string
	resolved value.Resolved
}

type propKey struct {
	target target.Target
	name   string
}

type captured struct {
	propKey
	initial value.Value
}

// Animation owns its bindings and a playback state machine
type Animation struct {
	cfg      Config
	ease     easing.Func
	bindings []binding
	initial  []captured

	elapsed  float64
	rate     float64
	state    State
	progress float64
	cycle    int

	// begun and completed track lifecycle when a parent timeline drives us
	begun     bool
	completed bool
}

// New validates cfg, captures initial values and resolves every binding.
// Targets must be comparable (pointer types in practice).
func New(cfg Config, props ...Property) (*Animation, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	a := &Animation{
		cfg:  cfg,
		ease: cfg.Ease,
		rate: 1,
	}
	if a.ease == nil {
		a.ease = easing.Lookup(cfg.Easing)
	}

	seen := make(map[propKey]bool, len(props))
	for i, p := range props {
		if p.Target == nil {
			return nil, fmt.Errorf("%w: property %d (%q) has no target", ErrInvalidConfig, i, p.Name)
		}
		current, ok := p.Target.Read(p.Name)
		if !ok {
			current = value.Neutral
		}

		key := propKey{target: p.Target, name: p.Name}
		if !seen[key] {
			seen[key] = true
			a.initial = append(a.initial, captured{propKey: key, initial: current})
		}

		a.bindings = append(a.bindings, binding{
			target:   p.Target,
			name:     p.Name,
			resolved: value.Resolve(p.Value, current),
		})
	}

	if cfg.Autoplay {
		a.Play()
	}
	return a, nil
}

func validate(cfg Config) error {
	switch {
	case math.IsNaN(cfg.Duration) || math.IsInf(cfg.Duration, 0) || cfg.Duration < 0:
		return fmt.Errorf("%w: duration %v must be a finite value >= 0", ErrInvalidConfig, cfg.Duration)
	case math.IsNaN(cfg.Delay) || math.IsInf(cfg.Delay, 0) || cfg.Delay < 0:
		return fmt.Errorf("%w: delay %v must be a finite value >= 0", ErrInvalidConfig, cfg.Delay)
	case cfg.Direction < Normal || cfg.Direction > Alternate:
		return fmt.Errorf("%w: unknown direction %d", ErrInvalidConfig, cfg.Direction)
	}
	return nil
}

// Config returns the construction options
func (a *Animation) Config() Config { return a.cfg }

// Duration is the full span the animation occupies: delay plus duration
func (a *Animation) Duration() float64 { return a.cfg.Delay + a.cfg.Duration }

// Elapsed returns the virtual clock
func (a *Animation) Elapsed() float64 { return a.elapsed }

// Progress returns the last computed progress before easing
func (a *Animation) Progress() float64 { return a.progress }

// State returns the playback state
func (a *Animation) State() State { return a.state }

// IsPlaying reports whether Tick advances the clock
func (a *Animation) IsPlaying() bool { return a.state == Playing }

// PlaybackRate returns the signed clock multiplier
func (a *Animation) PlaybackRate() float64 { return a.rate }

// SetPlaybackRate changes the clock multiplier; negative values play backwards
func (a *Animation) SetPlaybackRate(r float64) { a.rate = r }

// Play starts or resumes the clock and fires begin. No-op while playing.
func (a *Animation) Play() {
	if a.state == Playing {
		return
	}
	if a.state == Completed {
		a.cycle = 0
		if a.rate < 0 {
			a.elapsed = a.Duration()
		} else {
			a.elapsed = 0
		}
	}
	a.state = Playing
	a.fire(a.cfg.OnBegin)
}

// Pause stops the clock
func (a *Animation) Pause() {
	if a.state == Playing {
		a.state = Paused
	}
}

// Restart rewinds to zero, restores captured initial values and plays
func (a *Animation) Restart() {
	a.Reset()
	a.state = Idle
	a.Play()
}

// Reverse flips the playback direction without touching the clock
func (a *Animation) Reverse() {
	a.rate = -a.rate
}

// Seek jumps to t (clamped to [0, Duration]) and applies values.
// It neither changes the playing state nor fires callbacks.
func (a *Animation) Seek(t float64) {
	a.elapsed = clamp(t, 0, a.Duration())
	a.apply()
}

// Tick advances the clock by dt milliseconds and applies values
func (a *Animation) Tick(dt float64) {
	if a.state != Playing {
		return
	}

	a.elapsed += dt * a.rate
	reverseDone := false
	shift := 0
	if a.rate < 0 {
		if a.cfg.Loop && a.cfg.Duration > 0 {
			shift = a.rewind()
		} else if a.elapsed <= 0 {
			a.elapsed = 0
			reverseDone = true
		}
	}

	prevCycle := a.cycle
	done := a.apply()
	a.fire(a.cfg.OnUpdate)

	crossed := a.cycle - shift - prevCycle
	if crossed < 0 {
		crossed = -crossed
	}
	for ; crossed > 0; crossed-- {
		a.fire(a.cfg.OnLoop)
	}
	if done || reverseDone {
		a.state = Completed
		a.fire(a.cfg.OnComplete)
	}
}

// rewind moves a looping clock that ran backwards past the start forward by
// an even number of cycles, keeping alternate parity. It returns the cycles added.
func (a *Animation) rewind() int {
	local := a.elapsed - a.cfg.Delay
	if local >= 0 {
		return 0
	}
	d := a.cfg.Duration
	n := int(math.Ceil(-local / d))
	n += n % 2
	a.elapsed += float64(n) * d
	return n
}

// Drive renders the animation at local time t of a parent clock and fires
// begin/complete as t crosses the animation's span. Before the start
// (t < 0) the start values are held without callbacks.
func (a *Animation) Drive(t float64) { a.drive(t, true) }

// Scrub is Drive without callbacks, used when a parent timeline seeks
func (a *Animation) Scrub(t float64) { a.drive(t, false) }

// Hold renders at t without callbacks and leaves the animation unbegun, so a
// later Drive still fires begin
func (a *Animation) Hold(t float64) {
	a.begun = false
	a.completed = false
	a.elapsed = clamp(t, 0, a.Duration())
	a.apply()
}

func (a *Animation) drive(t float64, notify bool) {
	if t < 0 {
		a.Hold(0)
		return
	}

	end := a.Duration()
	if t > end {
		t = end
	}
	if !a.begun {
		a.begun = true
		if notify {
			a.fire(a.cfg.OnBegin)
		}
	}

	a.elapsed = t
	a.apply()
	if notify {
		a.fire(a.cfg.OnUpdate)
	}

	if t >= end {
		if !a.completed {
			a.completed = true
			if notify {
				a.fire(a.cfg.OnComplete)
			}
		}
	} else {
		a.completed = false
	}
}

// Reset restores every bound property to its captured initial value and
// rewinds the clock. Playing state is kept; Completed returns to Idle.
func (a *Animation) Reset() {
	a.elapsed = 0
	a.cycle = 0
	a.progress = 0
	a.begun = false
	a.completed = false
	if a.state == Completed {
		a.state = Idle
	}
	for _, c := range a.initial {
		c.target.Write(c.name, c.initial)
	}
}

// apply computes progress for the current clock and writes every binding in
// insertion order. It reports whether the non-looping end was reached.
func (a *Animation) apply() bool {
	p, cycle, done := a.progressAt(a.elapsed)
	a.progress = p
	a.cycle = cycle

	eased := a.ease(p)
	for _, b := range a.bindings {
		b.target.Write(b.name, b.resolved.At(eased))
	}
	return done
}

func (a *Animation) progressAt(elapsed float64) (p float64, cycle int, done bool) {
	local := math.Max(0, elapsed-a.cfg.Delay)
	d := a.cfg.Duration

	switch {
	case d == 0:
		p, done = 1, true
	case local >= d && a.cfg.Loop:
		cycle = int(math.Floor(local / d))
		p = math.Mod(local, d) / d
	case local >= d:
		p, done = 1, true
	default:
		p = local / d
	}

	switch a.cfg.Direction {
	case Reverse:
		p = 1 - p
	case Alternate:
		if cycle%2 == 1 {
			p = 1 - p
		}
	}
	return p, cycle, done
}

func (a *Animation) fire(cb Callback) {
	if cb != nil {
		cb(a)
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
