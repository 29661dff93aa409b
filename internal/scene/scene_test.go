package scene

import (
	"encoding/json"
	"errors"
	"image/color"
	"testing"

	"github.com/ivlev/vortex/internal/anim"
	"github.com/ivlev/vortex/internal/particles"
	"github.com/ivlev/vortex/internal/physics"
	"github.com/ivlev/vortex/internal/target"
	"github.com/ivlev/vortex/internal/timeline"
	"github.com/ivlev/vortex/internal/value"
)

func TestTickOrderAndSnapshot(t *testing.T) {
	s := New(320, 240)
	box := target.NewMap("box", map[string]value.Value{"x": value.Number(0), "fill": value.Opaque("#ff0000")})
	if err := s.AddTarget(box); err != nil {
		t.Fatalf("AddTarget failed: %v", err)
	}
	if err := s.AddTarget(target.NewMap("box", nil)); !errors.Is(err, ErrDuplicateTarget) {
		t.Errorf("Expected ErrDuplicateTarget, got %v", err)
	}

	a, _ := anim.New(anim.Config{Duration: 100}, anim.Property{Target: box, Name: "x", Value: value.Range(value.Number(0), value.Number(10))})
	s.AddAnimation(a)

	cfg := physics.DefaultConfig()
	cfg.Gravity = physics.Vec2{X: 0, Y: 1000}
	e, _ := physics.New(cfg)
	ball, _ := e.AddParticle(50, 200, 1, false)
	anchor, _ := e.AddParticle(50, 0, 1, true)
	e.AddSpring(anchor, ball, -1, 0.1)
	bob := target.NewMap("bob", nil)
	s.AddTarget(bob)
	s.SetPhysics(e, &Bounds{Rect: physics.R(0, 0, 100, 210), Bounce: 0.5})
	s.Attach(ball, bob)

	ps, _ := particles.New(particles.Config{MaxParticles: 10, Friction: 1})
	ps.Create(particles.Options{Life: 1, Color: color.NRGBA{R: 1, G: 2, B: 3, A: 255}})
	s.SetParticles(ps)

	s.Play()
	for i := 0; i < 30; i++ {
		s.Tick(1000.0 / 60)
	}

	if box.Float("x") != 10 {
		t.Errorf("Expected the animation to finish at 10, got %v", box.Float("x"))
	}
	if ball.Pos.Y > 210 {
		t.Errorf("Bounds not applied, y = %v", ball.Pos.Y)
	}
	if bob.Float("y") != ball.Pos.Y {
		t.Errorf("Attached target out of sync: %v vs %v", bob.Float("y"), ball.Pos.Y)
	}
	if s.Frame() != 30 {
		t.Errorf("Expected 30 frames, got %d", s.Frame())
	}

	f := s.Snapshot()
	if len(f.Targets) != 2 || f.Targets[0].ID != "box" {
		t.Fatalf("Unexpected targets: %+v", f.Targets)
	}
	if f.Targets[0].Float("x", -1) != 10 || f.Targets[0].String("fill", "") != "#ff0000" {
		t.Errorf("Unexpected box state: %+v", f.Targets[0].Props)
	}
	if len(f.Bodies) != 2 || len(f.Springs) != 1 || len(f.Sprites) != 1 {
		t.Errorf("Expected 2 bodies, 1 spring and 1 sprite, got %d, %d, %d", len(f.Bodies), len(f.Springs), len(f.Sprites))
	}
	if f.Sprites[0].Color != "#010203" {
		t.Errorf("Expected sprite color #010203, got %s", f.Sprites[0].Color)
	}

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var back Frame
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back.Targets[0].Float("x", -1) != 10 {
		t.Errorf("Expected x to survive JSON, got %v", back.Targets[0].Props["x"])
	}
}

func TestDuration(t *testing.T) {
	s := New(10, 10)
	a, _ := anim.New(anim.Config{Duration: 300, Delay: 100})
	looping, _ := anim.New(anim.Config{Duration: 5000, Loop: true})
	s.AddAnimation(a)
	s.AddAnimation(looping)

	tl, _ := timeline.New(timeline.Config{})
	child, _ := anim.New(anim.Config{Duration: 700})
	tl.Append(child)
	s.SetTimeline(tl)

	if s.Duration() != 700 {
		t.Errorf("Expected 700, got %v", s.Duration())
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#fff", color.NRGBA{255, 255, 255, 255}},
		{"#102030", color.NRGBA{0x10, 0x20, 0x30, 0xff}},
		{"10203040", color.NRGBA{0x10, 0x20, 0x30, 0x40}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseColor(%q) = %v, %v", tt.in, got, err)
		}
		if back, _ := ParseColor(HexColor(got)); back != got {
			t.Errorf("HexColor(%v) does not parse back", got)
		}
	}
	for _, bad := range []string{"", "#12", "#zzzzzz"} {
		if _, err := ParseColor(bad); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("Expected ErrInvalidColor for %q, got %v", bad, err)
		}
	}
}
