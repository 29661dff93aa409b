package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"
	"strings"
)

// ErrUnknownFormat is returned by Open for formats other than mp4 and png
var ErrUnknownFormat = errors.New("video: unknown output format")

// FrameWriter receives rendered frames in order
type FrameWriter interface {
	WriteFrame(img image.Image) error
	Close() error
}

// Options describe the output stream
type Options struct {
	Path    string // File for mp4, directory for png
	Width   int
	Height  int
	FPS     int
	Encoder string
	Quality int
}

// Open starts a writer for format ("mp4" or "png")
func Open(ctx context.Context, format string, opts Options) (FrameWriter, error) {
	switch format {
	case "mp4":
		return NewFFmpegEncoder(ctx, opts)
	case "png":
		return NewPNGSequence(opts.Path)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// FFmpegEncoder pipes raw RGBA frames into a single ffmpeg process
type FFmpegEncoder struct {
	opts   Options
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	out    bytes.Buffer
	frames int
}

// NewFFmpegEncoder starts ffmpeg; frames go to its stdin
func NewFFmpegEncoder(ctx context.Context, opts Options) (*FFmpegEncoder, error) {
	e := &FFmpegEncoder{opts: opts}
	e.cmd = exec.CommandContext(ctx, "ffmpeg", buildFFmpegArgs(opts)...)
	e.cmd.Stdout = &e.out
	e.cmd.Stderr = &e.out

	stdin, err := e.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}
	e.stdin = stdin

	if err := e.cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}
	return e, nil
}

func buildFFmpegArgs(opts Options) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"-framerate", fmt.Sprintf("%d", opts.FPS),
		"-i", "-",
		"-pix_fmt", "yuv420p",
		"-c:v", opts.Encoder,
	}

	// Quality depends on the encoder
	switch opts.Encoder {
	case "h264_videotoolbox":
		// VideoToolbox does not take -q:v everywhere, so use a bitrate. 75 -> 7.5 Mbit/s
		bitrate := opts.Quality * 100
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", opts.Quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", opts.Quality), "-preset", "medium")
	}

	args = append(args, opts.Path)
	return args
}

// WriteFrame sends one frame. Frames must match the configured size.
func (e *FFmpegEncoder) WriteFrame(img image.Image) error {
	if b := img.Bounds(); b.Dx() != e.opts.Width || b.Dy() != e.opts.Height {
		return fmt.Errorf("frame %d is %dx%d, expected %dx%d", e.frames, b.Dx(), b.Dy(), e.opts.Width, e.opts.Height)
	}
	if err := writeRawRGBA(e.stdin, img); err != nil {
		return fmt.Errorf("write raw error at frame %d: %w", e.frames, err)
	}
	e.frames++
	return nil
}

// Frames reports how many frames were written
func (e *FFmpegEncoder) Frames() int { return e.frames }

// Close flushes stdin and waits for ffmpeg to finish the file
func (e *FFmpegEncoder) Close() error {
	e.stdin.Close()
	if err := e.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w\nLog: %s", err, strings.TrimSpace(e.out.String()))
	}
	return nil
}

func writeRawRGBA(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	_, err := w.Write(rgba.Pix)
	return err
}
