package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"
)

// kappa places cubic control points for a quarter circle
const kappa = 0.5522847498

type point struct{ x, y float64 }

// canvas rasterizes one shape at a time, sizing the rasterizer to the
// shape's clipped bounding box.
type canvas struct {
	dst *image.RGBA
	z   *vector.Rasterizer
	// origin of the current box in dst coordinates
	ox, oy float64
}

// begin prepares the rasterizer for a shape spanning the given box.
// It reports false when the box misses the canvas.
func (c *canvas) begin(minX, minY, maxX, maxY float64) (image.Rectangle, bool) {
	box := image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1,
	).Intersect(c.dst.Bounds())
	if box.Empty() {
		return box, false
	}
	c.z.Reset(box.Dx(), box.Dy())
	c.ox, c.oy = float64(box.Min.X), float64(box.Min.Y)
	return box, true
}

func (c *canvas) moveTo(x, y float64) { c.z.MoveTo(float32(x-c.ox), float32(y-c.oy)) }
func (c *canvas) lineTo(x, y float64) { c.z.LineTo(float32(x-c.ox), float32(y-c.oy)) }

func (c *canvas) fill(box image.Rectangle, col color.NRGBA) {
	c.z.Draw(c.dst, box, image.NewUniform(col), image.Point{})
}

func (c *canvas) polygon(pts []point, col color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	minX, minY, maxX, maxY := pts[0].x, pts[0].y, pts[0].x, pts[0].y
	for _, p := range pts[1:] {
		minX, maxX = math.Min(minX, p.x), math.Max(maxX, p.x)
		minY, maxY = math.Min(minY, p.y), math.Max(maxY, p.y)
	}
	box, ok := c.begin(minX, minY, maxX, maxY)
	if !ok {
		return
	}
	c.moveTo(pts[0].x, pts[0].y)
	for _, p := range pts[1:] {
		c.lineTo(p.x, p.y)
	}
	c.z.ClosePath()
	c.fill(box, col)
}

// rect draws a w×h rectangle centered on (cx, cy), rotated by angle radians
func (c *canvas) rect(cx, cy, w, h, angle float64, col color.NRGBA) {
	sin, cos := math.Sincos(angle)
	hw, hh := w/2, h/2
	corners := []point{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	for i, p := range corners {
		corners[i] = point{cx + p.x*cos - p.y*sin, cy + p.x*sin + p.y*cos}
	}
	c.polygon(corners, col)
}

func (c *canvas) circle(cx, cy, r float64, col color.NRGBA) {
	if r <= 0 {
		return
	}
	box, ok := c.begin(cx-r, cy-r, cx+r, cy+r)
	if !ok {
		return
	}
	k := r * kappa
	z, ox, oy := c.z, c.ox, c.oy
	p := func(x, y float64) (float32, float32) { return float32(x - ox), float32(y - oy) }

	z.MoveTo(p(cx+r, cy))
	cube := func(x1, y1, x2, y2, x3, y3 float64) {
		ax, ay := p(x1, y1)
		bx, by := p(x2, y2)
		ex, ey := p(x3, y3)
		z.CubeTo(ax, ay, bx, by, ex, ey)
	}
	cube(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	cube(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	cube(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	cube(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	z.ClosePath()
	c.fill(box, col)
}

// line draws a segment of the given width as a quad
func (c *canvas) line(x1, y1, x2, y2, width float64, col color.NRGBA) {
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2
	c.polygon([]point{
		{x1 + nx, y1 + ny},
		{x2 + nx, y2 + ny},
		{x2 - nx, y2 - ny},
		{x1 - nx, y1 - ny},
	}, col)
}
