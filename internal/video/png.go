package video

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// PNGSequence writes every frame as frame_00000.png, frame_00001.png, ...
type PNGSequence struct {
	Dir    string
	frames int
	enc    png.Encoder
}

// NewPNGSequence creates dir if needed
func NewPNGSequence(dir string) (*PNGSequence, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	return &PNGSequence{Dir: dir, enc: png.Encoder{CompressionLevel: png.BestSpeed}}, nil
}

// FramePath returns the file name of frame i
func (s *PNGSequence) FramePath(i int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("frame_%05d.png", i))
}

func (s *PNGSequence) WriteFrame(img image.Image) error {
	path := s.FramePath(s.frames)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := s.enc.Encode(w, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	s.frames++
	return f.Close()
}

// Frames reports how many frames were written
func (s *PNGSequence) Frames() int { return s.frames }

func (s *PNGSequence) Close() error { return nil }
