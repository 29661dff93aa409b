package value

import (
	"math"
	"testing"
)

func TestInterpolateRoundTrip(t *testing.T) {
	pairs := [][2]float64{{0, 1}, {0.1, 0.7}, {-3.3, 1e9}, {100, -100}, {1.0 / 3, 2.0 / 3}}
	for _, p := range pairs {
		a, b := Number(p[0]), Number(p[1])
		r := Resolve(Range(a, b), Value{})

		if got := r.At(0); !got.Equal(a) {
			t.Errorf("Expected interpolate(%v,%v,0) = %v, got %v", a, b, a, got)
		}
		if got := r.At(1); !got.Equal(b) {
			t.Errorf("Expected interpolate(%v,%v,1) = %v, got %v", a, b, b, got)
		}
	}
}

func TestResolve(t *testing.T) {
	current := Number(42)

	tests := []struct {
		name     string
		desc     Descriptor
		current  Value
		wantFrom Value
		wantTo   Value
	}{
		{"fixed", Fixed(Number(10)), current, Number(10), Number(10)},
		{"fixed with unreadable current", Fixed(Number(10)), Value{}, Number(10), Number(10)},
		{"fixed unset keeps current", Fixed(Value{}), current, current, current},
		{"range", Range(Number(1), Number(2)), current, Number(1), Number(2)},
		{"explicit from and to", Explicit(Number(5), Number(6), Value{}), current, Number(5), Number(6)},
		{"explicit missing from", Explicit(Value{}, Number(6), Value{}), current, current, Number(6)},
		{"explicit value as to", Explicit(Number(1), Value{}, Number(9)), current, Number(1), Number(9)},
		{"explicit to falls back to from", Explicit(Number(3), Value{}, Value{}), current, Number(3), Number(3)},
		{"explicit empty", Explicit(Value{}, Value{}, Value{}), Value{}, Neutral, Neutral},
		{"keyframes", Keyframes(Keyframe{At: 1, Value: 8}, Keyframe{At: 0, Value: 2}), current, Number(2), Number(8)},
		{"opaque fixed", Fixed(Opaque("open")), Opaque("closed"), Opaque("open"), Opaque("open")},
		{"opaque to", Explicit(Value{}, Opaque("open"), Value{}), Opaque("closed"), Opaque("closed"), Opaque("open")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Resolve(tt.desc, tt.current)
			if !r.From.IsSet() || !r.To.IsSet() {
				t.Fatalf("Expected both endpoints populated, got %v -> %v", r.From, r.To)
			}
			if !r.From.Equal(tt.wantFrom) {
				t.Errorf("Expected from %v, got %v", tt.wantFrom, r.From)
			}
			if !r.To.Equal(tt.wantTo) {
				t.Errorf("Expected to %v, got %v", tt.wantTo, r.To)
			}
		})
	}
}

func TestOpaqueSnaps(t *testing.T) {
	r := Resolve(Range(Opaque("idle"), Opaque("done")), Value{})
	for _, p := range []float64{0, 0.5, 0.999} {
		if got := r.At(p); !got.Equal(Opaque("idle")) {
			t.Errorf("At(%v): expected idle, got %v", p, got)
		}
	}
	if got := r.At(1); !got.Equal(Opaque("done")) {
		t.Errorf("At(1): expected done, got %v", got)
	}
	if got := r.At(1.2); !got.Equal(Opaque("done")) {
		t.Errorf("At(1.2): expected done, got %v", got)
	}
}

func TestKeyframeInterpolation(t *testing.T) {
	r := Resolve(Keyframes(
		Keyframe{At: 0, Value: 0},
		Keyframe{At: 0.5, Value: 100},
		Keyframe{At: 1, Value: 50},
	), Value{})

	tests := []struct {
		p    float64
		want float64
	}{
		{-0.1, 0},
		{0, 0},
		{0.25, 50},
		{0.5, 100},
		{0.75, 75},
		{1, 50},
		{1.1, 50},
	}
	for _, tt := range tests {
		got, _ := r.At(tt.p).Float()
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("At(%v): expected %v, got %v", tt.p, tt.want, got)
		}
	}
}

func TestOvershootProgressExtrapolates(t *testing.T) {
	got, _ := Interpolate(Number(0), Number(100), 1.1).Float()
	if math.Abs(got-110) > 1e-9 {
		t.Errorf("Expected 110, got %v", got)
	}
}
