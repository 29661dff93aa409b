package anim

import (
	"fmt"
	"strings"
)

// Direction controls how progress maps onto each cycle
type Direction int

const (
	Normal Direction = iota
	Reverse
	// Alternate inverts every odd cycle of a looping animation
	Alternate
)

// ParseDirection accepts "normal", "reverse" and "alternate"; empty means normal
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return Normal, nil
	case "reverse":
		return Reverse, nil
	case "alternate":
		return Alternate, nil
	}
	return Normal, fmt.Errorf("%w: unknown direction %q", ErrInvalidConfig, s)
}

func (d Direction) String() string {
	switch d {
	case Normal:
		return "normal"
	case Reverse:
		return "reverse"
	case Alternate:
		return "alternate"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// State is the playback state of an Animation
type State int

const (
	Idle State = iota
	Playing
	Paused
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	}
	return "unknown"
}
