package anim

import (
	"errors"
	"math"
	"testing"

	"github.com/ivlev/vortex/internal/target"
	"github.com/ivlev/vortex/internal/value"
)

func newBox(x float64) *target.Map {
	return target.NewMap("box", map[string]value.Value{"x": value.Number(x)})
}

func TestProgressMonotonic(t *testing.T) {
	box := newBox(0)
	a, err := New(Config{Duration: 1000, Delay: 200, Autoplay: true},
		Property{Target: box, Name: "x", Value: value.Range(value.Number(0), value.Number(100))})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	prev := -1.0
	steps := []float64{50, 100, 16.7, 300, 0, 250, 400, 33, 500}
	for i, dt := range steps {
		a.Tick(dt)
		p := a.Progress()
		if p < prev {
			t.Errorf("Step %d: progress went backwards %v -> %v", i, prev, p)
		}
		prev = p
	}

	if a.Elapsed() < 1200 {
		t.Fatalf("Expected elapsed past end, got %v", a.Elapsed())
	}
	if a.Progress() != 1 {
		t.Errorf("Expected progress exactly 1 after end, got %v", a.Progress())
	}
	if got := box.Float("x"); got != 100 {
		t.Errorf("Expected x = 100, got %v", got)
	}
	if a.State() != Completed {
		t.Errorf("Expected completed state, got %s", a.State())
	}
}

func TestAlternateLoopScenario(t *testing.T) {
	box := newBox(0)
	a, err := New(Config{Duration: 1000, Loop: true, Direction: Alternate, Autoplay: true},
		Property{Target: box, Name: "x", Value: value.Range(value.Number(0), value.Number(10))})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	a.Tick(1500)
	if a.Progress() != 0.5 {
		t.Errorf("Expected progress 0.5 at elapsed 1500, got %v", a.Progress())
	}

	a.Tick(250)
	if math.Abs(a.Progress()-0.25) > 1e-12 {
		t.Errorf("Expected progress 0.25 at elapsed 1750, got %v", a.Progress())
	}
	if !a.IsPlaying() {
		t.Error("Looping animation must keep playing")
	}
}

func TestDirections(t *testing.T) {
	tests := []struct {
		dir  Direction
		loop bool
		at   float64
		want float64
	}{
		{Normal, false, 250, 0.25},
		{Reverse, false, 250, 0.75},
		{Alternate, true, 250, 0.25},
		{Alternate, true, 1250, 0.75},
		{Alternate, true, 2250, 0.25},
		{Normal, true, 1250, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			a, _ := New(Config{Duration: 1000, Loop: tt.loop, Direction: tt.dir, Autoplay: true})
			a.Tick(tt.at)
			if math.Abs(a.Progress()-tt.want) > 1e-12 {
				t.Errorf("At %v: expected %v, got %v", tt.at, tt.want, a.Progress())
			}
		})
	}
}

func TestZeroDuration(t *testing.T) {
	box := newBox(0)
	completes := 0
	a, err := New(Config{Duration: 0, Autoplay: true, OnComplete: func(*Animation) { completes++ }},
		Property{Target: box, Name: "x", Value: value.Fixed(value.Number(42))})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	a.Tick(16)
	if a.Progress() != 1 {
		t.Errorf("Expected progress 1 on first tick, got %v", a.Progress())
	}
	if box.Float("x") != 42 {
		t.Errorf("Expected x = 42, got %v", box.Float("x"))
	}
	a.Tick(16)
	if completes != 1 {
		t.Errorf("Expected exactly one completion, got %d", completes)
	}
}

func TestCallbacks(t *testing.T) {
	var begins, updates, completes int
	a, _ := New(Config{
		Duration:   100,
		OnBegin:    func(*Animation) { begins++ },
		OnUpdate:   func(*Animation) { updates++ },
		OnComplete: func(*Animation) { completes++ },
	})

	if a.State() != Idle {
		t.Fatalf("Expected idle without autoplay, got %s", a.State())
	}
	a.Tick(50)
	if updates != 0 {
		t.Errorf("Idle animation must not update, got %d updates", updates)
	}

	a.Play()
	a.Play()
	if begins != 1 {
		t.Errorf("Expected one begin for repeated Play, got %d", begins)
	}

	a.Tick(50)
	a.Pause()
	a.Pause()
	a.Tick(50)
	if a.Elapsed() != 50 {
		t.Errorf("Paused clock moved: elapsed %v", a.Elapsed())
	}

	a.Play()
	if begins != 2 {
		t.Errorf("Expected begin on resume from pause, got %d", begins)
	}
	a.Tick(60)
	a.Tick(60)
	if completes != 1 {
		t.Errorf("Expected one completion, got %d", completes)
	}
	if updates != 2 {
		t.Errorf("Expected 2 updates, got %d", updates)
	}
}

func TestRestartRestoresConstructionValues(t *testing.T) {
	box := newBox(5)
	a, _ := New(Config{Duration: 100, Autoplay: true},
		Property{Target: box, Name: "x", Value: value.Explicit(value.Value{}, value.Number(100), value.Value{})})

	a.Tick(100)
	if box.Float("x") != 100 {
		t.Fatalf("Expected x = 100, got %v", box.Float("x"))
	}

	box.Write("x", value.Number(77))
	a.Restart()
	if box.Float("x") != 5 {
		t.Errorf("Expected restart to restore 5, got %v", box.Float("x"))
	}
	if a.Elapsed() != 0 || !a.IsPlaying() {
		t.Errorf("Expected rewound and playing, got elapsed %v playing %v", a.Elapsed(), a.IsPlaying())
	}

	a.Tick(50)
	if got := box.Float("x"); got != 52.5 {
		t.Errorf("Expected x = 52.5 midway, got %v", got)
	}
}

func TestReverseAndSeek(t *testing.T) {
	box := newBox(0)
	completes := 0
	a, _ := New(Config{Duration: 1000, Autoplay: true, OnComplete: func(*Animation) { completes++ }},
		Property{Target: box, Name: "x", Value: value.Range(value.Number(0), value.Number(1000))})

	a.Tick(600)
	a.Reverse()
	if a.PlaybackRate() != -1 {
		t.Errorf("Expected rate -1, got %v", a.PlaybackRate())
	}
	if a.Elapsed() != 600 {
		t.Errorf("Reverse must not touch elapsed, got %v", a.Elapsed())
	}

	a.Tick(200)
	if box.Float("x") != 400 {
		t.Errorf("Expected x = 400 after reversing, got %v", box.Float("x"))
	}
	a.Tick(1000)
	if box.Float("x") != 0 || a.State() != Completed || completes != 1 {
		t.Errorf("Expected reverse completion at 0, got x=%v state=%s completes=%d", box.Float("x"), a.State(), completes)
	}

	a.Seek(5000)
	if a.Elapsed() != 1000 || box.Float("x") != 1000 {
		t.Errorf("Seek must clamp to duration, got elapsed %v x %v", a.Elapsed(), box.Float("x"))
	}
	a.Seek(-10)
	if a.Elapsed() != 0 || box.Float("x") != 0 {
		t.Errorf("Seek must clamp to 0, got elapsed %v x %v", a.Elapsed(), box.Float("x"))
	}
	if a.State() != Completed || completes != 1 {
		t.Errorf("Seek must not change state or fire callbacks")
	}
}

func TestUnreadableFromDefaultsToZero(t *testing.T) {
	box := target.NewMap("empty", nil)
	a, err := New(Config{Duration: 100, Autoplay: true},
		Property{Target: box, Name: "width", Value: value.Explicit(value.Value{}, value.Number(10), value.Value{})})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	a.Tick(50)
	if got := box.Float("width"); got != 5 {
		t.Errorf("Expected width 5 from a neutral start, got %v", got)
	}
}

func TestOpaqueBinding(t *testing.T) {
	box := target.NewMap("door", map[string]value.Value{"state": value.Opaque("closed")})
	a, _ := New(Config{Duration: 100, Autoplay: true},
		Property{Target: box, Name: "state", Value: value.Explicit(value.Value{}, value.Opaque("open"), value.Value{})})

	a.Tick(99)
	if v, _ := box.Read("state"); !v.Equal(value.Opaque("closed")) {
		t.Errorf("Expected closed before the end, got %v", v)
	}
	a.Tick(1)
	if v, _ := box.Read("state"); !v.Equal(value.Opaque("open")) {
		t.Errorf("Expected open at the end, got %v", v)
	}
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		props []Property
	}{
		{"negative duration", Config{Duration: -1}, nil},
		{"negative delay", Config{Duration: 1, Delay: -5}, nil},
		{"nan duration", Config{Duration: math.NaN()}, nil},
		{"bad direction", Config{Duration: 1, Direction: Direction(9)}, nil},
		{"nil target", Config{Duration: 1}, []Property{{Name: "x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, tt.props...)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoopCallback(t *testing.T) {
	loops := 0
	a, _ := New(Config{Duration: 100, Loop: true, Autoplay: true, OnLoop: func(*Animation) { loops++ }})
	for i := 0; i < 10; i++ {
		a.Tick(35)
	}
	if loops != 3 {
		t.Errorf("Expected 3 loops after 350ms, got %d", loops)
	}
}

func TestDrive(t *testing.T) {
	box := newBox(0)
	var begins, completes int
	a, _ := New(Config{
		Duration:   100,
		OnBegin:    func(*Animation) { begins++ },
		OnComplete: func(*Animation) { completes++ },
	}, Property{Target: box, Name: "x", Value: value.Range(value.Number(10), value.Number(20))})

	a.Drive(-50)
	if box.Float("x") != 10 || begins != 0 {
		t.Errorf("Expected the start value held without begin, got x %v begins %d", box.Float("x"), begins)
	}

	a.Drive(50)
	a.Drive(150)
	a.Drive(200)
	if begins != 1 || completes != 1 {
		t.Errorf("Expected one begin and one complete, got %d and %d", begins, completes)
	}
	if box.Float("x") != 20 {
		t.Errorf("Expected x clamped at 20, got %v", box.Float("x"))
	}

	a.Drive(-1)
	if box.Float("x") != 10 {
		t.Errorf("Expected rewind to start value, got %v", box.Float("x"))
	}
	a.Drive(100)
	if begins != 2 || completes != 2 {
		t.Errorf("Expected lifecycle to fire again after rewind, got %d and %d", begins, completes)
	}
}

func TestFixedWritesConstant(t *testing.T) {
	box := newBox(0)
	a, _ := New(Config{Duration: 1000, Autoplay: true},
		Property{Target: box, Name: "x", Value: value.Fixed(value.Number(100))})

	a.Tick(500)
	if got := box.Float("x"); got != 100 {
		t.Errorf("Expected x = 100 midway, got %v", got)
	}
}

func TestLoopCallbackPerCycle(t *testing.T) {
	loops := 0
	a, _ := New(Config{Duration: 100, Loop: true, Autoplay: true, OnLoop: func(*Animation) { loops++ }})
	a.Tick(550)
	if loops != 5 {
		t.Errorf("Expected 5 loops for one 550ms tick, got %d", loops)
	}
}

func TestReverseLoopWraps(t *testing.T) {
	box := newBox(0)
	loops, completes := 0, 0
	a, _ := New(Config{
		Duration:   100,
		Loop:       true,
		Direction:  Alternate,
		OnLoop:     func(*Animation) { loops++ },
		OnComplete: func(*Animation) { completes++ },
	}, Property{Target: box, Name: "x", Value: value.Range(value.Number(0), value.Number(100))})

	a.Seek(50)
	a.Reverse()
	a.Play()
	a.Tick(75)
	if a.State() != Playing || completes != 0 {
		t.Fatalf("Expected a looping animation to keep playing in reverse, got %s", a.State())
	}
	if loops != 1 {
		t.Errorf("Expected one loop, got %d", loops)
	}
	// 25ms before the start lands in an odd cycle, so alternate inverts it
	if a.Progress() != 0.25 || box.Float("x") != 25 {
		t.Errorf("Expected progress 0.25 and x = 25, got %v and %v", a.Progress(), box.Float("x"))
	}
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{"": Normal, "normal": Normal, "Reverse": Reverse, "alternate": Alternate} {
		got, err := ParseDirection(in)
		if err != nil || got != want {
			t.Errorf("ParseDirection(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseDirection("sideways"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}
