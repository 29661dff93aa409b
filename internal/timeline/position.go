package timeline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPosition is returned when a position expression cannot be parsed
var ErrInvalidPosition = errors.New("timeline: invalid position")

type posKind uint8

const (
	posRelative posKind = iota
	posAbsolute
	posWithPrevious
	posAfterPrevious
)

// Position places a child relative to the timeline's placement cursor.
// The zero value is "+=0": right after the previous child ends.
type Position struct {
	kind posKind
	n    float64
}

// At places a child at an absolute offset
func At(t float64) Position { return Position{kind: posAbsolute, n: t} }

// Offset places a child n after the end of the previous child ("+=n", or "-=|n|" when negative)
func Offset(n float64) Position { return Position{kind: posRelative, n: n} }

// WithPrevious starts a child together with the previous child ("<")
func WithPrevious() Position { return Position{kind: posWithPrevious} }

// AfterPrevious starts a child when the previous child ends (">")
func AfterPrevious() Position { return Position{kind: posAfterPrevious} }

// ParsePosition reads "N", "+=N", "-=N", "<", ">" or "" (same as "+=0")
func ParsePosition(s string) (Position, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Position{}, nil
	case s == "<":
		return WithPrevious(), nil
	case s == ">":
		return AfterPrevious(), nil
	case strings.HasPrefix(s, "+="), strings.HasPrefix(s, "-="):
		n, err := strconv.ParseFloat(strings.TrimSpace(s[2:]), 64)
		if err != nil {
			return Position{}, fmt.Errorf("%w: %q: %v", ErrInvalidPosition, s, err)
		}
		if s[0] == '-' {
			n = -n
		}
		return Offset(n), nil
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}
	return At(n), nil
}

func (p Position) String() string {
	switch p.kind {
	case posAbsolute:
		return strconv.FormatFloat(p.n, 'g', -1, 64)
	case posWithPrevious:
		return "<"
	case posAfterPrevious:
		return ">"
	}
	if p.n < 0 {
		return "-=" + strconv.FormatFloat(-p.n, 'g', -1, 64)
	}
	return "+=" + strconv.FormatFloat(p.n, 'g', -1, 64)
}
