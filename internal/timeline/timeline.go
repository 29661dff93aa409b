// Package timeline composes animations and nested timelines at resolved
// start offsets and drives them from one clock (milliseconds).
package timeline

import (
	"fmt"
	"math"

	"github.com/ivlev/vortex/internal/anim"
)

// Child is anything a timeline can place: *anim.Animation or *Timeline
type Child interface {
	// Duration is the span the child occupies on the parent clock
	Duration() float64
	// Drive renders the child at local time t and fires its lifecycle callbacks
	Drive(t float64)
	// Scrub renders like Drive without callbacks
	Scrub(t float64)
	// Hold renders at t without callbacks while the parent has not reached
	// the child, leaving its lifecycle unstarted
	Hold(t float64)
	// Reset restores captured initial values and rewinds the child
	Reset()
}

// Callback receives the timeline that fired it
type Callback func(tl *Timeline)

// Config holds timeline playback options
type Config struct {
	Loop      bool
	Direction anim.Direction
	Autoplay  bool

	OnBegin    Callback
	OnUpdate   Callback
	OnComplete Callback
	OnLoop     Callback
}

type entry struct {
	child Child
	start float64
}

// Timeline places children on its own clock
type Timeline struct {
	cfg     Config
	entries []entry

	// cursor is the end of the most recently added child
	cursor    float64
	lastStart float64

	position float64
	duration float64
	rate     float64
	state    anim.State
	cycle    int

	begun     bool
	completed bool
}

var _ Child = (*Timeline)(nil)
var _ Child = (*anim.Animation)(nil)

// New creates an empty timeline. Autoplay only marks it playing; nothing
// moves until the host calls Tick.
func New(cfg Config) (*Timeline, error) {
	if cfg.Direction < anim.Normal || cfg.Direction > anim.Alternate {
		return nil, fmt.Errorf("%w: unknown direction %d", anim.ErrInvalidConfig, cfg.Direction)
	}
	tl := &Timeline{cfg: cfg, rate: 1}
	if cfg.Autoplay {
		tl.Play()
	}
	return tl, nil
}

// Add places child at pos and returns its resolved start offset.
// Offsets are fixed at insertion; later additions never move earlier children.
func (tl *Timeline) Add(child Child, pos Position) float64 {
	start := tl.resolve(pos)
	tl.entries = append(tl.entries, entry{child: child, start: start})

	tl.lastStart = start
	tl.cursor = start + child.Duration()
	tl.updateDuration()
	return start
}

// Append places child right after the previous one ends
func (tl *Timeline) Append(child Child) float64 {
	return tl.Add(child, Position{})
}

func (tl *Timeline) resolve(pos Position) float64 {
	switch pos.kind {
	case posAbsolute:
		return pos.n
	case posWithPrevious:
		if len(tl.entries) == 0 {
			return 0
		}
		return tl.lastStart
	case posAfterPrevious:
		if len(tl.entries) == 0 {
			return 0
		}
		return tl.cursor
	}
	return tl.cursor + pos.n
}

func (tl *Timeline) updateDuration() {
	d := 0.0
	for _, e := range tl.entries {
		d = math.Max(d, e.start+e.child.Duration())
	}
	tl.duration = d
}

// Offsets returns the resolved start offset of every child in insertion order
func (tl *Timeline) Offsets() []float64 {
	out := make([]float64, len(tl.entries))
	for i, e := range tl.entries {
		out[i] = e.start
	}
	return out
}

// Len returns the number of children
func (tl *Timeline) Len() int { return len(tl.entries) }

// Duration is the end of the latest-ending child
func (tl *Timeline) Duration() float64 {
	tl.updateDuration()
	return tl.duration
}

// Position returns the timeline clock
func (tl *Timeline) Position() float64 { return tl.position }

// State returns the playback state
func (tl *Timeline) State() anim.State { return tl.state }

// IsPlaying reports whether Tick advances the clock
func (tl *Timeline) IsPlaying() bool { return tl.state == anim.Playing }

// Looping reports whether the timeline wraps at its end
func (tl *Timeline) Looping() bool { return tl.cfg.Loop }

// PlaybackRate returns the signed clock multiplier
func (tl *Timeline) PlaybackRate() float64 { return tl.rate }

// SetPlaybackRate changes the clock multiplier
func (tl *Timeline) SetPlaybackRate(r float64) { tl.rate = r }

// Play starts or resumes the clock. No-op while playing.
func (tl *Timeline) Play() {
	if tl.state == anim.Playing {
		return
	}
	if tl.state == anim.Completed {
		tl.cycle = 0
		if tl.rate < 0 {
			tl.position = tl.Duration()
		} else {
			tl.position = 0
		}
	}
	tl.state = anim.Playing
	tl.fire(tl.cfg.OnBegin)
}

// Pause stops the clock
func (tl *Timeline) Pause() {
	if tl.state == anim.Playing {
		tl.state = anim.Paused
	}
}

// Restart rewinds to zero, restores every child's initial values and plays
func (tl *Timeline) Restart() {
	tl.Reset()
	tl.state = anim.Idle
	tl.Play()
}

// Reverse flips the playback direction without touching the clock
func (tl *Timeline) Reverse() { tl.rate = -tl.rate }

// Seek jumps to t (clamped to [0, Duration]) and renders children silently
func (tl *Timeline) Seek(t float64) {
	tl.position = math.Min(math.Max(t, 0), tl.Duration())
	tl.render(scrub)
}

// Tick advances the clock by dt milliseconds
func (tl *Timeline) Tick(dt float64) {
	if tl.state != anim.Playing {
		return
	}

	d := tl.Duration()
	tl.position += dt * tl.rate

	forwardEnd := tl.rate >= 0 && tl.position >= d
	reverseEnd := tl.rate < 0 && tl.position <= 0
	if !forwardEnd && !reverseEnd {
		tl.render(live)
		tl.fire(tl.cfg.OnUpdate)
		return
	}

	if !tl.cfg.Loop || d <= 0 {
		tl.position = math.Min(math.Max(tl.position, 0), d)
		tl.render(live)
		tl.fire(tl.cfg.OnUpdate)
		tl.state = anim.Completed
		tl.fire(tl.cfg.OnComplete)
		return
	}

	// Finish the cycle so trailing children complete, then wrap.
	overshoot := tl.position
	if forwardEnd {
		tl.position = d
	} else {
		tl.position = 0
	}
	tl.render(live)

	var wraps float64
	if forwardEnd {
		wraps = math.Floor(overshoot / d)
		tl.position = overshoot - wraps*d
	} else {
		wraps = math.Floor(-overshoot/d) + 1
		tl.position = overshoot + wraps*d
	}
	tl.cycle += int(wraps)
	tl.resetChildren()
	tl.fire(tl.cfg.OnLoop)

	tl.render(live)
	tl.fire(tl.cfg.OnUpdate)
}

// Drive renders the timeline at local time t of a parent clock
func (tl *Timeline) Drive(t float64) { tl.drive(t, true) }

// Scrub is Drive without callbacks
func (tl *Timeline) Scrub(t float64) { tl.drive(t, false) }

// Hold renders at t (clamped) without callbacks and leaves the timeline and
// its children unbegun
func (tl *Timeline) Hold(t float64) {
	tl.begun = false
	tl.completed = false
	tl.position = math.Min(math.Max(t, 0), tl.Duration())
	tl.render(hold)
}

func (tl *Timeline) drive(t float64, notify bool) {
	d := tl.Duration()
	if t < 0 {
		tl.Hold(0)
		return
	}

	tl.position = math.Min(t, d)
	if !tl.begun {
		tl.begun = true
		if notify {
			tl.fire(tl.cfg.OnBegin)
		}
	}
	if notify {
		tl.render(live)
		tl.fire(tl.cfg.OnUpdate)
	} else {
		tl.render(scrub)
	}

	if tl.position >= d {
		if !tl.completed {
			tl.completed = true
			if notify {
				tl.fire(tl.cfg.OnComplete)
			}
		}
	} else {
		tl.completed = false
	}
}

// Reset rewinds the clock and restores children in reverse insertion order,
// so the earliest capture of a shared property wins.
func (tl *Timeline) Reset() {
	tl.position = 0
	tl.cycle = 0
	tl.begun = false
	tl.completed = false
	if tl.state == anim.Completed {
		tl.state = anim.Idle
	}
	tl.resetChildren()
}

func (tl *Timeline) resetChildren() {
	for i := len(tl.entries) - 1; i >= 0; i-- {
		tl.entries[i].child.Reset()
	}
}

type renderMode uint8

const (
	live renderMode = iota
	scrub
	hold
)

// render drives every child in insertion order at its local time. Children
// the clock has not reached yet hold their start values; the last write to a
// shared property wins.
func (tl *Timeline) render(mode renderMode) {
	local := tl.position
	d := tl.duration
	switch tl.cfg.Direction {
	case anim.Reverse:
		local = d - local
	case anim.Alternate:
		if tl.cfg.Loop && tl.cycle%2 == 1 {
			local = d - local
		}
	}

	for _, e := range tl.entries {
		switch mode {
		case live:
			e.child.Drive(local - e.start)
		case scrub:
			e.child.Scrub(local - e.start)
		default:
			e.child.Hold(local - e.start)
		}
	}
}

func (tl *Timeline) fire(cb Callback) {
	if cb != nil {
		cb(tl)
	}
}
