package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("config: invalid value")

type Config struct {
	Mode         string // render, preview or serve
	ScenarioPath string
	ScenarioDir  string
	OutputPath   string
	Format       string  // mp4 or png
	Duration     float64 // Render length in ms; 0 uses the scene's own length
	Width        int
	Height       int
	FPS          int
	Workers      int
	Preset       string
	VideoEncoder string
	Quality      int
	Addr         string
	ShowStats    bool
	Debug        bool
	BuildVersion string
}

// EnvPrefix is prepended to every environment override
const EnvPrefix = "VORTEX_"

// DefaultRenderLength is used when neither the flag nor the scene gives one (ms)
const DefaultRenderLength = 5000

// Default returns the settings used when no flag is given
func Default() *Config {
	return &Config{
		Mode:        "render",
		ScenarioDir: "scenarios",
		Format:      "mp4",
		Width:       1280,
		Height:      720,
		FPS:         30,
		Workers:     4,
		Addr:        ":8080",
	}
}

// ApplyPreset swaps Width and Height for a named aspect preset
func (c *Config) ApplyPreset() error {
	switch c.Preset {
	case "":
	case "16:9":
		c.Width, c.Height = 1280, 720
	case "9:16":
		c.Width, c.Height = 720, 1280
	case "4:5":
		c.Width, c.Height = 1080, 1350
	case "1:1":
		c.Width, c.Height = 1080, 1080
	default:
		return fmt.Errorf("%w: unknown preset %q", ErrInvalidConfig, c.Preset)
	}
	return nil
}

// LoadEnvFile reads KEY=VALUE pairs from a dotenv file. A missing file
// yields an empty map.
func LoadEnvFile(path string) (map[string]string, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return env, nil
}

// ApplyEnv overrides fields from VORTEX_* variables. lookup is usually
// os.LookupEnv; file holds values from a dotenv file, which the real
// environment beats.
func (c *Config) ApplyEnv(lookup func(string) (string, bool), file map[string]string) error {
	get := func(key string) (string, bool) {
		if v, ok := lookup(EnvPrefix + key); ok {
			return v, true
		}
		v, ok := file[EnvPrefix+key]
		return v, ok
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"FPS", &c.FPS},
		{"WIDTH", &c.Width},
		{"HEIGHT", &c.Height},
		{"WORKERS", &c.Workers},
		{"QUALITY", &c.Quality},
	}
	for _, f := range ints {
		v, ok := get(f.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q", ErrInvalidConfig, EnvPrefix, f.key, v)
		}
		*f.dst = n
	}

	if v, ok := get("ADDR"); ok {
		c.Addr = v
	}
	if v, ok := get("SCENARIOS"); ok {
		c.ScenarioDir = v
	}
	if v, ok := get("DEBUG"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %sDEBUG=%q", ErrInvalidConfig, EnvPrefix, v)
		}
		c.Debug = b
	}
	return nil
}

// Validate checks the final settings
func (c *Config) Validate() error {
	switch {
	case c.Mode != "render" && c.Mode != "preview" && c.Mode != "serve":
		return fmt.Errorf("%w: mode %q", ErrInvalidConfig, c.Mode)
	case c.Format != "mp4" && c.Format != "png":
		return fmt.Errorf("%w: format %q", ErrInvalidConfig, c.Format)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.FPS <= 0 || c.FPS > 240:
		return fmt.Errorf("%w: fps %d", ErrInvalidConfig, c.FPS)
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	case c.Duration < 0:
		return fmt.Errorf("%w: duration %v", ErrInvalidConfig, c.Duration)
	}
	return nil
}

// FrameDelta is the scene time between two frames in ms
func (c *Config) FrameDelta() float64 { return 1000 / float64(c.FPS) }

// FrameCount returns how many frames to render. An explicit Duration wins,
// then the scene's own length, then DefaultRenderLength.
func (c *Config) FrameCount(sceneDuration float64) int {
	d := c.Duration
	if d <= 0 {
		d = sceneDuration
	}
	if d <= 0 {
		d = DefaultRenderLength
	}
	// +1 so the last frame lands on the end state
	return int(d*float64(c.FPS)/1000+0.5) + 1
}

// DefaultQuality picks a quality value suited to the encoder
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75 // Bitrate Q*100 kbit/s
	case "h264_nvenc":
		return 28 // Close to x264 CRF
	default:
		return 23 // Standard x264 CRF
	}
}
