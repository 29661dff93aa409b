package scenario

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/ivlev/vortex/internal/physics"
)

// Block is a rectangle to reveal, in canvas pixels
type Block struct {
	Rect  image.Rectangle
	Color string
}

// Generator builds reveal scenarios: blocks fly in one after another in
// reading order on a single timeline.
type Generator struct {
	Width, Height int
	MinDwell      float64 // Minimum time per block (ms)
	MaxDwell      float64 // Maximum time per block (ms)
	Easing        string
	// Overlap is the share of a block's dwell that the next block starts early
	Overlap float64
}

// NewGenerator creates a Generator with default settings
func NewGenerator(width, height int) *Generator {
	return &Generator{
		Width:    width,
		Height:   height,
		MinDwell: 300,
		MaxDwell: 1200,
		Easing:   "easeOutBack",
		Overlap:  0.5,
	}
}

// Generate creates a scenario revealing blocks within totalDuration ms
func (g *Generator) Generate(blocks []Block, totalDuration float64) (*Scenario, error) {
	if len(blocks) == 0 {
		return nil, fmt.Errorf("no blocks to reveal")
	}

	sorted := g.sortBlocks(blocks)
	dwell := g.calculateDwellTime(totalDuration, len(sorted))

	sc := &Scenario{
		Version:  "1.0",
		Width:    g.Width,
		Height:   g.Height,
		Duration: totalDuration,
		Timeline: &Timeline{Autoplay: true},
	}

	overlap := fmt.Sprintf("-=%g", math.Round(dwell*g.Overlap))
	for i, b := range sorted {
		id := fmt.Sprintf("block_%d", i+1)
		cx, cy := g.calculateCenter(b.Rect)
		color := b.Color
		if color == "" {
			color = "#4f8cff"
		}

		sc.Targets = append(sc.Targets, Target{
			ID: id,
			Props: map[string]any{
				"x":       cx,
				"y":       cy,
				"width":   float64(b.Rect.Dx()),
				"height":  float64(b.Rect.Dy()),
				"opacity": 0.0,
				"scale":   1.0,
				"fill":    color,
			},
		})

		child := Child{
			Animation: &Animation{
				Duration: dwell,
				Easing:   g.Easing,
				Props: []Property{
					{Target: id, Name: "opacity", Value: Range(0.0, 1.0)},
					{Target: id, Name: "y", Value: Range(cy+40, cy)},
					{Target: id, Name: "scale", Value: Range(g.calculateZoom(b.Rect), 1.0)},
				},
			},
		}
		if i > 0 {
			child.Position = Position(overlap)
		}
		sc.Timeline.Children = append(sc.Timeline.Children, child)
	}

	return sc, nil
}

// sortBlocks sorts blocks in reading order (top-to-bottom, left-to-right)
func (g *Generator) sortBlocks(blocks []Block) []Block {
	sorted := make([]Block, len(blocks))
	copy(sorted, blocks)

	sort.SliceStable(sorted, func(i, j int) bool {
		// Threshold for "same row" (20 pixels)
		threshold := 20

		yDiff := sorted[i].Rect.Min.Y - sorted[j].Rect.Min.Y
		if abs(yDiff) > threshold {
			return sorted[i].Rect.Min.Y < sorted[j].Rect.Min.Y
		}

		// Same row, sort by X
		return sorted[i].Rect.Min.X < sorted[j].Rect.Min.X
	})

	return sorted
}

// calculateDwellTime spreads the total over the blocks, keeping the overlap in mind
func (g *Generator) calculateDwellTime(totalDuration float64, blockCount int) float64 {
	// n blocks overlapping by Overlap span (1 + (n-1)(1-Overlap)) dwells
	spans := 1 + float64(blockCount-1)*(1-g.Overlap)
	dwell := totalDuration / spans

	return math.Min(math.Max(dwell, g.MinDwell), g.MaxDwell)
}

// calculateZoom is the starting scale: small blocks pop in from further away
func (g *Generator) calculateZoom(block image.Rectangle) float64 {
	if block.Dx() == 0 || block.Dy() == 0 {
		return 1.0
	}
	share := float64(block.Dx()*block.Dy()) / float64(g.Width*g.Height)

	// Clamp zoom to reasonable range
	return math.Min(math.Max(0.5+share, 0.5), 0.9)
}

// calculateCenter finds the center point of a rectangle
func (g *Generator) calculateCenter(rect image.Rectangle) (float64, float64) {
	return float64(rect.Min.X) + float64(rect.Dx())/2, float64(rect.Min.Y) + float64(rect.Dy())/2
}

// Grid lays out rows × cols equal blocks with a margin
func Grid(width, height, rows, cols, margin int, palette []string) []Block {
	cw := (width - margin*(cols+1)) / cols
	ch := (height - margin*(rows+1)) / rows
	blocks := make([]Block, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			x := margin + c*(cw+margin)
			y := margin + r*(ch+margin)
			b := Block{Rect: image.Rect(x, y, x+cw, y+ch)}
			if len(palette) > 0 {
				b.Color = palette[(r*cols+c)%len(palette)]
			}
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// Demo is the starter scenario: a reveal grid, a spring chain and a fountain
func Demo(width, height int) (*Scenario, error) {
	g := NewGenerator(width, height)
	palette := []string{"#4f8cff", "#ff6b6b", "#ffd166", "#06d6a0"}
	blocks := Grid(width, height/2, 2, 4, 16, palette)
	sc, err := g.Generate(blocks, 3000)
	if err != nil {
		return nil, err
	}
	sc.Duration = 5000

	anchorX, anchorY := float64(width)*0.25, float64(height)*0.55
	stiffness := 0.6
	sc.Physics = &Physics{
		Gravity: &physics.Vec2{X: 0, Y: 600},
		Bounds:  &physics.Rect{Max: physics.Vec2{X: float64(width), Y: float64(height)}},
		Bodies:  []Body{{ID: "anchor", X: anchorX, Y: anchorY, Fixed: true}},
	}
	prev := "anchor"
	for i := 1; i <= 4; i++ {
		id := fmt.Sprintf("link_%d", i)
		sc.Physics.Bodies = append(sc.Physics.Bodies, Body{ID: id, X: anchorX + float64(i)*30, Y: anchorY})
		sc.Physics.Springs = append(sc.Physics.Springs, Spring{A: prev, B: id, Stiffness: &stiffness})
		prev = id
	}
	sc.Physics.Bodies[len(sc.Physics.Bodies)-1].Target = "bob"
	sc.Targets = append(sc.Targets, Target{ID: "bob", Props: map[string]any{"radius": 10.0, "fill": "#ffffff"}})

	sc.Particles = &ParticleSystem{
		Max:     400,
		Gravity: &physics.Vec2{X: 0, Y: 220},
		Emitters: []Emitter{{
			X: float64(width) * 0.75, Y: float64(height) - 20,
			Rate: 90, Seed: 1,
			Angle: -math.Pi / 2, Spread: 0.6,
			Speed: []float64{160, 260}, Life: []float64{0.8, 1.6}, Size: []float64{2, 5},
			Colors: []string{"#ffd166", "#ff6b6b"},
		}},
	}
	return sc, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
