package analyzer

import (
	"image"
	"math"
	"sort"
)

// EdgeDetector finds regions with a Sobel gradient threshold, closes gaps
// by dilation and returns the bounding boxes of connected components
type EdgeDetector struct {
	MinArea   int     // Minimum bounding box area in pixels²
	Threshold float64 // Gradient magnitude threshold
	Dilate    int     // Dilation radius in pixels
}

// NewEdgeDetector creates a detector with default settings
func NewEdgeDetector() *EdgeDetector {
	return &EdgeDetector{
		MinArea:   500, // ~22x22 pixels minimum
		Threshold: 30.0,
		Dilate:    4,
	}
}

// Detect returns regions sorted top to bottom, then left to right
func (d *EdgeDetector) Detect(img image.Image) ([]Region, error) {
	gray := toGray(img)
	w, h := gray.Rect.Dx(), gray.Rect.Dy()

	mask := sobel(gray, d.Threshold)
	mask = dilate(mask, w, h, d.Dilate)

	b := img.Bounds()
	var regions []Region
	for _, reg := range components(mask, w, h) {
		if reg.Rect.Dx()*reg.Rect.Dy() < d.MinArea {
			continue
		}
		reg.Rect = reg.Rect.Add(b.Min)
		regions = append(regions, reg)
	}

	sort.Slice(regions, func(i, j int) bool {
		a, b := regions[i].Rect.Min, regions[j].Rect.Min
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return regions, nil
}

// sobel marks pixels whose gradient magnitude exceeds threshold
func sobel(gray *image.Gray, threshold float64) []bool {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	mask := make([]bool, w*h)
	px := func(x, y int) float64 { return float64(gray.Pix[y*gray.Stride+x]) }

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := -px(x-1, y-1) + px(x+1, y-1) -
				2*px(x-1, y) + 2*px(x+1, y) -
				px(x-1, y+1) + px(x+1, y+1)
			gy := -px(x-1, y-1) - 2*px(x, y-1) - px(x+1, y-1) +
				px(x-1, y+1) + 2*px(x, y+1) + px(x+1, y+1)
			mask[y*w+x] = math.Hypot(gx, gy) > threshold
		}
	}
	return mask
}

// dilate grows every set pixel into a square of the given radius.
// Runs as two 1D passes.
func dilate(mask []bool, w, h, radius int) []bool {
	if radius <= 0 {
		return mask
	}
	horiz := make([]bool, len(mask))
	for y := 0; y < h; y++ {
		last := -radius - 1 // x of the last set pixel seen
		for x := 0; x < w+radius; x++ {
			if x < w && mask[y*w+x] {
				last = x
			}
			if c := x - radius; c >= 0 && c < w && x-last <= 2*radius {
				horiz[y*w+c] = true
			}
		}
	}

	out := make([]bool, len(mask))
	for x := 0; x < w; x++ {
		last := -radius - 1
		for y := 0; y < h+radius; y++ {
			if y < h && horiz[y*w+x] {
				last = y
			}
			if c := y - radius; c >= 0 && c < h && y-last <= 2*radius {
				out[c*w+x] = true
			}
		}
	}
	return out
}

// components flood-fills 4-connected set pixels
func components(mask []bool, w, h int) []Region {
	visited := make([]bool, len(mask))
	var regions []Region
	var stack []int

	for start := range mask {
		if !mask[start] || visited[start] {
			continue
		}
		minX, minY := start%w, start/w
		maxX, maxY := minX, minY
		area := 0

		stack = append(stack[:0], start)
		visited[start] = true
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%w, i/w
			area++
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)

			for _, n := range [4]int{i - 1, i + 1, i - w, i + w} {
				if n < 0 || n >= len(mask) || visited[n] || !mask[n] {
					continue
				}
				// No wrapping across row ends
				if (n == i-1 && x == 0) || (n == i+1 && x == w-1) {
					continue
				}
				visited[n] = true
				stack = append(stack, n)
			}
		}
		regions = append(regions, Region{Rect: image.Rect(minX, minY, maxX+1, maxY+1), Area: area})
	}
	return regions
}
