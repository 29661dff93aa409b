// Package analyzer finds content regions in a layout image so a reveal
// scenario can be generated from it.
package analyzer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/ivlev/vortex/internal/scenario"
	"github.com/ivlev/vortex/internal/scene"
)

// ErrUnknownDetector is returned by NewDetector
var ErrUnknownDetector = errors.New("analyzer: unknown detector")

// Region is a detected area of interest in image pixels
type Region struct {
	Rect image.Rectangle
	Area int // Number of edge pixels after dilation
}

// Detector is the interface for layout analysis strategies
type Detector interface {
	Detect(img image.Image) ([]Region, error)
}

// NewDetector creates a detector by name
func NewDetector(name string) (Detector, error) {
	switch name {
	case "edges", "":
		return NewEdgeDetector(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDetector, name)
}

// LoadImage decodes a PNG or JPEG file. For a PDF the first page is
// rendered at LayoutDPI.
func LoadImage(path string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return LoadPage(path, 0, LayoutDPI)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// AverageColor is the mean color of img inside r
func AverageColor(img image.Image, r image.Rectangle) color.NRGBA {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return color.NRGBA{}
	}
	var sr, sg, sb, n uint64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			sr += uint64(c.R)
			sg += uint64(c.G)
			sb += uint64(c.B)
			n++
		}
	}
	return color.NRGBA{R: uint8(sr / n), G: uint8(sg / n), B: uint8(sb / n), A: 0xff}
}

// Blocks detects regions and maps them onto a width×height canvas,
// colored by their average fill
func Blocks(img image.Image, det Detector, width, height int) ([]scenario.Block, error) {
	regions, err := det.Detect(img)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	sx := float64(width) / float64(b.Dx())
	sy := float64(height) / float64(b.Dy())

	blocks := make([]scenario.Block, 0, len(regions))
	for _, reg := range regions {
		r := reg.Rect.Sub(b.Min)
		blocks = append(blocks, scenario.Block{
			Rect: image.Rect(
				int(float64(r.Min.X)*sx), int(float64(r.Min.Y)*sy),
				int(float64(r.Max.X)*sx), int(float64(r.Max.Y)*sy),
			),
			Color: scene.HexColor(AverageColor(img, reg.Rect)),
		})
	}
	return blocks, nil
}

// toGray converts img to grayscale with its origin at (0, 0)
func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}
