package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/ivlev/vortex/internal/scene"
	"github.com/ivlev/vortex/internal/system"
)

// Default colors for shapes that do not carry their own
var (
	Background  = color.NRGBA{R: 0x12, G: 0x14, B: 0x1c, A: 0xff}
	DefaultFill = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	BodyColor   = color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
	FixedColor  = color.NRGBA{R: 0xff, G: 0x55, B: 0x55, A: 0xff}
	SpringColor = color.NRGBA{R: 0x88, G: 0x99, B: 0xaa, A: 0xff}
)

const (
	BodyRadius  = 4.0
	SpringWidth = 1.5
)

// Renderer turns frames into RGBA images. It is safe for concurrent use;
// each call borrows its own rasterizer.
type Renderer struct {
	Background color.NRGBA
	// Debug overlays the frame index, scene time and sprite count
	Debug bool

	pool        *system.ImagePool
	rasterizers sync.Pool
}

// New creates a Renderer drawing into buffers from pool. A nil pool
// allocates a fresh image per frame.
func New(pool *system.ImagePool) *Renderer {
	return &Renderer{
		Background: Background,
		pool:       pool,
		rasterizers: sync.Pool{
			New: func() any { return vector.NewRasterizer(0, 0) },
		},
	}
}

// Render paints f. Hand the result back with Release when done.
func (r *Renderer) Render(f scene.Frame) *image.RGBA {
	rect := image.Rect(0, 0, f.Width, f.Height)
	var dst *image.RGBA
	if r.pool != nil {
		dst = r.pool.Get(rect)
	} else {
		dst = image.NewRGBA(rect)
	}
	r.Draw(dst, f)
	return dst
}

// Release returns img to the pool
func (r *Renderer) Release(img *image.RGBA) {
	if r.pool != nil {
		r.pool.Put(img)
	}
}

// Draw paints f over the whole of dst
func (r *Renderer) Draw(dst *image.RGBA, f scene.Frame) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(r.Background), image.Point{}, draw.Src)

	z := r.rasterizers.Get().(*vector.Rasterizer)
	defer r.rasterizers.Put(z)
	c := &canvas{dst: dst, z: z}

	for _, t := range f.Targets {
		c.target(t)
	}
	for _, s := range f.Springs {
		c.line(s.X1, s.Y1, s.X2, s.Y2, SpringWidth, SpringColor)
	}
	for _, b := range f.Bodies {
		col := BodyColor
		if b.Fixed {
			col = FixedColor
		}
		c.circle(b.X, b.Y, BodyRadius, col)
	}
	for _, s := range f.Sprites {
		col, err := scene.ParseColor(s.Color)
		if err != nil {
			col = DefaultFill
		}
		col.A = uint8(float64(col.A) * clamp01(s.Alpha))
		if col.A == 0 {
			continue
		}
		c.circle(s.X, s.Y, s.Size/2, col)
	}

	if r.Debug {
		label := fmt.Sprintf("#%d  %.0fms  sprites %d", f.Index, f.Time, len(f.Sprites))
		d := font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(DefaultFill),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(6, 16),
		}
		d.DrawString(label)
	}
}

// Thumbnail scales img down to w×h
func Thumbnail(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// target draws one animated target. A "radius" property makes a circle,
// "width" and "height" a rectangle; anything else is not visible.
func (c *canvas) target(t scene.TargetState) {
	col, err := scene.ParseColor(t.String("fill", ""))
	if err != nil {
		col = DefaultFill
	}
	col.A = uint8(float64(col.A) * clamp01(t.Float("opacity", 1)))
	if col.A == 0 {
		return
	}

	x, y := t.Float("x", 0), t.Float("y", 0)
	scale := t.Float("scale", 1)
	if scale <= 0 {
		return
	}

	if radius := t.Float("radius", 0); radius > 0 {
		c.circle(x, y, radius*scale, col)
		return
	}
	w, h := t.Float("width", 0)*scale, t.Float("height", 0)*scale
	if w <= 0 || h <= 0 {
		return
	}
	c.rect(x, y, w, h, t.Float("rotation", 0)*math.Pi/180, col)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
