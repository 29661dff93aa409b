package easing

import (
	"math"
	"testing"
)

func TestBoundaryLaw(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			f := Lookup(name)
			if got := f(0); got != 0 {
				t.Errorf("Expected f(0) = 0, got %v", got)
			}
			if got := f(1); got != 1 {
				t.Errorf("Expected f(1) = 1, got %v", got)
			}
		})
	}
}

func TestParameterizedBoundaryLaw(t *testing.T) {
	names := []string{
		"steps(4)", "steps(4,end)", "steps(3, both)",
		"backIn(2.5)", "backOut(1)", "backInOut()",
		"spring(6,0.3)", "spring()",
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			f := Lookup(name)
			if f(0) != 0 || f(1) != 1 {
				t.Errorf("Boundary law broken: f(0)=%v f(1)=%v", f(0), f(1))
			}
		})
	}
}

func TestKnownValues(t *testing.T) {
	tests := []struct {
		name string
		t    float64
		want float64
	}{
		{"linear", 0.5, 0.5},
		{"easeInQuad", 0.5, 0.25},
		{"easeInQuad", 0.75, 0.5625},
		{"easeOutQuad", 0.5, 0.75},
		{"easeInOutQuad", 0.75, 0.875},
		{"easeInCubic", 0.5, 0.125},
		{"easeOutCubic", 0.5, 0.875},
		{"easeInOutCubic", 0.25, 0.0625},
		{"easeInOutQuart", 0.25, 0.03125},
		{"easeInOutQuint", 0.75, 0.984375},
		{"easeInOutSine", 0.5, 0.5},
		{"easeInOutExpo", 0.5, 0.5},
		{"easeInOutCirc", 0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lookup(tt.name)(tt.t)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Expected %s(%v) = %v, got %v", tt.name, tt.t, tt.want, got)
			}
		})
	}
}

func TestOvershootCurves(t *testing.T) {
	if v := Lookup("easeOutElastic")(0.5); v <= 1 {
		t.Errorf("Expected easeOutElastic(0.5) > 1, got %v", v)
	}
	if v := Lookup("easeOutBack")(0.5); v <= 1 {
		t.Errorf("Expected easeOutBack(0.5) > 1, got %v", v)
	}
	if v := Lookup("easeInBack")(0.1); v >= 0 {
		t.Errorf("Expected easeInBack(0.1) < 0, got %v", v)
	}
	if v := Lookup("easeInElastic")(0.5); v >= 0 {
		t.Errorf("Expected easeInElastic(0.5) < 0, got %v", v)
	}

	// Standard overshoot magnitude is about 10%.
	peak := 0.0
	f := Lookup("easeOutBack")
	for i := 0; i <= 1000; i++ {
		peak = math.Max(peak, f(float64(i)/1000))
	}
	if peak < 1.09 || peak > 1.11 {
		t.Errorf("Expected easeOutBack peak near 1.1, got %v", peak)
	}

	// Evaluating outside the unit range must stay finite.
	for _, name := range Names() {
		for _, x := range []float64{-0.05, 1.05} {
			if v := Lookup(name)(x); math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("%s(%v) is not finite: %v", name, x, v)
			}
		}
	}
}

func TestSteps(t *testing.T) {
	tests := []struct {
		policy StepPolicy
		t      float64
		want   float64
	}{
		{StepStart, 0.1, 0},
		{StepStart, 0.3, 0.25},
		{StepStart, 0.99, 0.75},
		{StepEnd, 0.1, 0.25},
		{StepEnd, 0.3, 0.5},
		{StepEnd, 0.99, 1},
		{StepBoth, 0.1, 0.125},
		{StepBoth, 0.5, 0.5},
	}
	for _, tt := range tests {
		got := Steps(4, tt.policy)(tt.t)
		if got != tt.want {
			t.Errorf("Steps(4,%d)(%v): expected %v, got %v", tt.policy, tt.t, tt.want, got)
		}
	}
}

func TestUnknownFallsBackToLinear(t *testing.T) {
	for _, name := range []string{"", "bogus", "steps(x)", "steps(0)", "backIn(a)", "spring(1,2,3)", "steps(2,sideways)"} {
		f := Lookup(name)
		if got := f(0.3); got != 0.3 {
			t.Errorf("Expected %q to behave like linear, got %v", name, got)
		}
	}
	if _, ok := Get("bogus"); ok {
		t.Error("Expected Get to report unknown name")
	}
}

func TestSpringSettles(t *testing.T) {
	f := Spring(DefaultSpringFrequency, 0.3)
	overshoot := false
	for i := 1; i < 100; i++ {
		if f(float64(i)/100) > 1 {
			overshoot = true
			break
		}
	}
	if !overshoot {
		t.Error("Expected underdamped spring to overshoot")
	}
	if v := f(0.999); math.Abs(v-1) > 0.05 {
		t.Errorf("Expected spring to settle near 1, got %v", v)
	}
}
