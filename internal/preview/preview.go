// Package preview plays a scene in the terminal. Each cell shows two pixels
// with the upper half block, and the mouse can grab physics bodies.
package preview

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ivlev/vortex/internal/monitor"
	"github.com/ivlev/vortex/internal/physics"
	"github.com/ivlev/vortex/internal/render"
	"github.com/ivlev/vortex/internal/scene"
)

// GrabRadius is how close (in scene pixels) a click must land to a body
const GrabRadius = 24.0

type Preview struct {
	screen   tcell.Screen
	scene    *scene.Scene
	renderer *render.Renderer
	monitor  *monitor.Monitor
	fps      int

	paused bool
	held   *physics.Particle
	quit   bool
	cols   int
	rows   int
}

// New wraps an initialized screen
func New(screen tcell.Screen, s *scene.Scene, r *render.Renderer, fps int) *Preview {
	if fps <= 0 {
		fps = 30
	}
	p := &Preview{
		screen:   screen,
		scene:    s,
		renderer: r,
		monitor:  monitor.New(),
		fps:      fps,
	}
	p.cols, p.rows = screen.Size()
	return p
}

// Paused reports whether ticking is suspended
func (p *Preview) Paused() bool { return p.paused }

// Run ticks and draws until q, Esc or ctx ends
func (p *Preview) Run(ctx context.Context) error {
	p.screen.EnableMouse()
	defer p.screen.DisableMouse()

	ticker := time.NewTicker(time.Second / time.Duration(p.fps))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	p.draw()
	for !p.quit {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-eventChan:
			p.handleEvent(ev)
		case now := <-ticker.C:
			if !p.paused {
				p.scene.Tick(1000 / float64(p.fps))
			}
			p.monitor.Mark(now)
			p.draw()
		}
	}
	return nil
}

func (p *Preview) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			p.quit = true
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			p.quit = true
		case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
			p.paused = !p.paused
		case ev.Key() == tcell.KeyRune && ev.Rune() == '.' && p.paused:
			// Single step while paused
			p.scene.Tick(1000 / float64(p.fps))
			p.draw()
		}

	case *tcell.EventMouse:
		p.handleMouse(ev)

	case *tcell.EventResize:
		p.cols, p.rows = p.screen.Size()
		p.screen.Sync()
	}
}

func (p *Preview) handleMouse(ev *tcell.EventMouse) {
	e := p.scene.Physics()
	if e == nil {
		return
	}
	cx, cy := ev.Position()
	x, y := p.cellToScene(cx, cy)

	if ev.Buttons()&tcell.Button1 == 0 {
		if p.held != nil {
			e.Release(p.held)
			p.held = nil
		}
		return
	}
	if p.held != nil {
		e.DragTo(p.held, x, y)
		return
	}
	if body := e.Nearest(x, y, GrabRadius); body != nil {
		if err := e.Grab(body, x, y); err == nil {
			p.held = body
		}
	}
}

// cellToScene maps the center of a cell to scene coordinates
func (p *Preview) cellToScene(cx, cy int) (float64, float64) {
	cols, rows := p.canvasSize()
	x := (float64(cx) + 0.5) * float64(p.scene.Width) / float64(cols)
	y := (float64(cy) + 0.5) * float64(p.scene.Height) / float64(rows)
	return x, y
}

// canvasSize is the cell area used for the picture; the last row holds the status line
func (p *Preview) canvasSize() (cols, rows int) {
	cols, rows = p.cols, p.rows-1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

func (p *Preview) draw() {
	cols, rows := p.canvasSize()

	img := p.renderer.Render(p.scene.Snapshot())
	small := render.Thumbnail(img, cols, rows*2)
	p.renderer.Release(img)

	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			top := small.RGBAAt(cx, cy*2)
			bottom := small.RGBAAt(cx, cy*2+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			p.screen.SetContent(cx, cy, '▀', nil, style)
		}
	}
	p.drawStatus(rows)
	p.screen.Show()
}

func (p *Preview) drawStatus(row int) {
	state := "playing"
	if p.paused {
		state = "paused"
	}
	line := fmt.Sprintf(" %s | t=%.0fms | %s | space pause  . step  q quit", state, p.scene.Time(), p.monitor.Stats())
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for x := 0; x < p.cols; x++ {
		ch := ' '
		if x < len(line) {
			ch = rune(line[x])
		}
		p.screen.SetContent(x, row, ch, nil, style)
	}
}
