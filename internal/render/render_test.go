package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/ivlev/vortex/internal/scene"
	"github.com/ivlev/vortex/internal/system"
)

func frame(targets ...scene.TargetState) scene.Frame {
	return scene.Frame{Width: 100, Height: 80, Targets: targets}
}

func near(got color.RGBA, want color.RGBA, tol int) bool {
	d := func(a, b uint8) bool {
		x := int(a) - int(b)
		return x <= tol && x >= -tol
	}
	return d(got.R, want.R) && d(got.G, want.G) && d(got.B, want.B) && d(got.A, want.A)
}

func TestRenderRect(t *testing.T) {
	r := New(nil)
	img := r.Render(frame(scene.TargetState{ID: "box", Props: map[string]any{
		"x": 50.0, "y": 40.0, "width": 20.0, "height": 10.0, "fill": "#ff0000",
	}}))

	if got := img.RGBAAt(50, 40); !near(got, color.RGBA{255, 0, 0, 255}, 2) {
		t.Errorf("Expected red inside the rect, got %v", got)
	}
	bg := color.RGBA{Background.R, Background.G, Background.B, 255}
	if got := img.RGBAAt(5, 5); got != bg {
		t.Errorf("Expected background outside, got %v", got)
	}
	if got := img.RGBAAt(50, 48); got != bg {
		t.Errorf("Expected the rect to stop at y=45, got %v at y=48", got)
	}
}

func TestRenderScaleAndOpacity(t *testing.T) {
	r := New(nil)
	r.Background = color.NRGBA{A: 255}

	img := r.Render(frame(scene.TargetState{ID: "dot", Props: map[string]any{
		"x": 50.0, "y": 40.0, "radius": 10.0, "scale": 0.5, "opacity": 0.5, "fill": "#ffffff",
	}}))

	center := img.RGBAAt(50, 40)
	if center.R < 120 || center.R > 135 {
		t.Errorf("Expected half-bright center, got %v", center)
	}
	if got := img.RGBAAt(58, 40); got.R != 0 {
		t.Errorf("Expected scale to shrink the circle to radius 5, got %v at x=58", got)
	}

	hidden := r.Render(frame(scene.TargetState{ID: "dot", Props: map[string]any{
		"x": 50.0, "y": 40.0, "radius": 10.0, "opacity": 0.0,
	}}))
	if got := hidden.RGBAAt(50, 40); got.R != 0 {
		t.Errorf("Expected transparent target to be skipped, got %v", got)
	}
}

func TestRenderPhysicsAndSprites(t *testing.T) {
	r := New(nil)
	r.Background = color.NRGBA{A: 255}
	f := scene.Frame{
		Width: 100, Height: 80,
		Bodies:  []scene.Body{{X: 10, Y: 10, Fixed: true}, {X: 90, Y: 10}},
		Springs: []scene.Link{{X1: 10, Y1: 10, X2: 90, Y2: 10}},
		Sprites: []scene.Sprite{{X: 50, Y: 60, Size: 8, Alpha: 1, Color: "#00ff00"}},
	}
	img := r.Render(f)

	if got := img.RGBAAt(10, 10); got.R < 200 || got.G > 120 {
		t.Errorf("Expected fixed body color, got %v", got)
	}
	if got := img.RGBAAt(50, 10); got.B == 0 {
		t.Errorf("Expected the spring line at the midpoint, got %v", got)
	}
	if got := img.RGBAAt(50, 60); got.G < 250 {
		t.Errorf("Expected a green sprite, got %v", got)
	}
}

func TestRenderOffCanvas(t *testing.T) {
	r := New(nil)
	f := frame(
		scene.TargetState{ID: "edge", Props: map[string]any{"x": -5.0, "y": 40.0, "width": 30.0, "height": 30.0}},
		scene.TargetState{ID: "gone", Props: map[string]any{"x": 500.0, "y": 500.0, "radius": 10.0}},
	)
	f.Sprites = []scene.Sprite{{X: 99, Y: 79, Size: 40, Alpha: 1, Color: "bogus"}}

	img := r.Render(f)
	if got := img.RGBAAt(0, 40); got.R < 250 {
		t.Errorf("Expected the clipped rect on the left edge, got %v", got)
	}
}

func TestRenderPool(t *testing.T) {
	pool := system.NewImagePool()
	r := New(pool)
	r.Debug = true

	for i := 0; i < 5; i++ {
		img := r.Render(scene.Frame{Index: i, Width: 120, Height: 40})
		if img.Bounds() != image.Rect(0, 0, 120, 40) {
			t.Fatalf("Unexpected bounds %v", img.Bounds())
		}
		r.Release(img)
	}

	gets, allocs := pool.Stats()
	t.Logf("Pool: %d gets, %d allocs", gets, allocs)
	if gets != 5 {
		t.Errorf("Expected 5 gets, got %d", gets)
	}

	img := r.Render(scene.Frame{Width: 120, Height: 40})
	lit := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 120; x++ {
			if img.RGBAAt(x, y).R > 200 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("Expected the debug label to light some pixels")
	}
}

func TestThumbnail(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 20))
	th := Thumbnail(src, 10, 5)
	if th.Bounds().Dx() != 10 || th.Bounds().Dy() != 5 {
		t.Errorf("Expected 10x5, got %v", th.Bounds())
	}
}
