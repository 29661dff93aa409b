package preview

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ivlev/vortex/internal/physics"
	"github.com/ivlev/vortex/internal/render"
	"github.com/ivlev/vortex/internal/scene"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(40, 11)
	t.Cleanup(screen.Fini)
	return screen
}

func physicsScene(t *testing.T) (*scene.Scene, *physics.Particle) {
	s := scene.New(200, 100)
	cfg := physics.DefaultConfig()
	cfg.Gravity = physics.Vec2{}
	e, err := physics.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	body, err := e.AddParticle(100, 50, 1, false)
	if err != nil {
		t.Fatal(err)
	}
	s.SetPhysics(e, nil)
	return s, body
}

func TestDraw(t *testing.T) {
	screen := newScreen(t)
	s, _ := physicsScene(t)
	p := New(screen, s, render.New(nil), 30)
	p.draw()

	cells, w, h := screen.GetContents()
	if w != 40 || h != 11 {
		t.Fatalf("Expected a 40x11 screen, got %dx%d", w, h)
	}
	if r := cells[0].Runes; len(r) == 0 || r[0] != '▀' {
		t.Errorf("Expected half blocks on the canvas, got %q", r)
	}

	var status strings.Builder
	for x := 0; x < w; x++ {
		if r := cells[(h-1)*w+x].Runes; len(r) > 0 {
			status.WriteRune(r[0])
		}
	}
	if !strings.Contains(status.String(), "playing") {
		t.Errorf("Expected the status line, got %q", status.String())
	}
}

func TestKeys(t *testing.T) {
	screen := newScreen(t)
	s, _ := physicsScene(t)
	p := New(screen, s, render.New(nil), 10)

	p.handleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	if !p.Paused() {
		t.Error("Expected space to pause")
	}
	p.handleEvent(tcell.NewEventKey(tcell.KeyRune, '.', tcell.ModNone))
	if s.Time() != 100 {
		t.Errorf("Expected one 100ms step, got %vms", s.Time())
	}
	p.handleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	if !p.quit {
		t.Error("Expected Esc to quit")
	}
}

func TestMouseDrag(t *testing.T) {
	screen := newScreen(t)
	s, body := physicsScene(t)
	p := New(screen, s, render.New(nil), 30)

	// 40x10 canvas cells over a 200x100 scene: 5x10 pixels per cell
	p.handleEvent(tcell.NewEventMouse(19, 5, tcell.Button1, tcell.ModNone))
	if !body.Grabbed() {
		t.Fatal("Expected the click to grab the body")
	}
	if body.Pos != (physics.Vec2{X: 97.5, Y: 55}) {
		t.Errorf("Expected the body under the cursor, got %+v", body.Pos)
	}

	p.handleEvent(tcell.NewEventMouse(21, 5, tcell.Button1, tcell.ModNone))
	p.handleEvent(tcell.NewEventMouse(21, 5, tcell.ButtonNone, tcell.ModNone))
	if body.Grabbed() {
		t.Error("Expected the body released")
	}
	if body.Vel != (physics.Vec2{X: 5, Y: 0}) {
		t.Errorf("Expected throw velocity (5, 0), got %+v", body.Vel)
	}
}

func TestRunQuits(t *testing.T) {
	screen := newScreen(t)
	s, _ := physicsScene(t)
	p := New(screen, s, render.New(nil), 30)

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.Run(ctx); err != nil {
		t.Errorf("Expected a clean quit, got %v", err)
	}
}
