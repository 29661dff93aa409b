package value

import "sort"

// Kind tags the shape of a Descriptor
type Kind uint8

const (
	KindFixed Kind = iota
	KindRange
	KindExplicit
	KindKeyframes
)

func (k Kind) String() string {
	switch k {
	case KindFixed:
		return "fixed"
	case KindRange:
		return "range"
	case KindExplicit:
		return "explicit"
	case KindKeyframes:
		return "keyframes"
	}
	return "unknown"
}

// Keyframe is a value stop at normalized offset At in [0,1]
type Keyframe struct {
	At    float64
	Value float64
}

// Descriptor describes how a property moves over one animation
type Descriptor struct {
	kind  Kind
	from  Value
	to    Value
	value Value
	keys  []Keyframe
}

// Fixed writes v on every tick without interpolating. Use Explicit with
// only to set for a tween from the current value.
func Fixed(v Value) Descriptor {
	return Descriptor{kind: KindFixed, value: v}
}

// Range animates between two explicit endpoints
func Range(from, to Value) Descriptor {
	return Descriptor{kind: KindRange, from: from, to: to}
}

// Explicit takes optional endpoints; pass an unset Value to omit one.
// Missing from is read from the target; missing to falls back to val, then to from.
func Explicit(from, to, val Value) Descriptor {
	return Descriptor{kind: KindExplicit, from: from, to: to, value: val}
}

// Keyframes interpolates piecewise through stops sorted by offset
func Keyframes(stops ...Keyframe) Descriptor {
	keys := make([]Keyframe, len(stops))
	copy(keys, stops)
	sort.SliceStable(keys, func(i, j int) bool { return keys[i].At < keys[j].At })
	return Descriptor{kind: KindKeyframes, keys: keys}
}

// Kind reports the descriptor shape
func (d Descriptor) Kind() Kind { return d.kind }

// Resolved is a descriptor bound to a target, with both endpoints populated
type Resolved struct {
	From Value
	To   Value
	keys []Keyframe
}

// Resolve binds d against the property's current value. An unset current
// resolves to Neutral.
func Resolve(d Descriptor, current Value) Resolved {
	current = current.Or(Neutral)

	switch d.kind {
	case KindRange:
		from := d.from.Or(current)
		return Resolved{From: from, To: d.to.Or(from)}

	case KindExplicit:
		from := d.from.Or(current)
		to := d.to.Or(d.value).Or(from)
		return Resolved{From: from, To: to}

	case KindKeyframes:
		if len(d.keys) == 0 {
			return Resolved{From: current, To: current}
		}
		return Resolved{
			From: Number(d.keys[0].Value),
			To:   Number(d.keys[len(d.keys)-1].Value),
			keys: d.keys,
		}
	}

	v := d.value.Or(current)
	return Resolved{From: v, To: v}
}

// At evaluates the resolved binding at eased progress p
func (r Resolved) At(p float64) Value {
	if len(r.keys) > 0 {
		return Number(interpolateKeyframes(r.keys, p))
	}
	return Interpolate(r.From, r.To, p)
}

// Interpolate blends two values. Numbers blend linearly with exact endpoints;
// anything else holds from until p reaches 1 and then snaps to to.
func Interpolate(from, to Value, p float64) Value {
	a, okA := from.Float()
	b, okB := to.Float()
	if !okA || !okB {
		if p >= 1 {
			return to
		}
		return from
	}
	return Number(Lerp(a, b, p))
}

// Lerp performs linear interpolation between a and b with exact endpoints
func Lerp(a, b, t float64) float64 {
	switch t {
	case 0:
		return a
	case 1:
		return b
	}
	return a + (b-a)*t
}
