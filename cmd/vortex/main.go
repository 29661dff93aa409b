package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ivlev/vortex/internal/analyzer"
	"github.com/ivlev/vortex/internal/config"
	"github.com/ivlev/vortex/internal/engine"
	"github.com/ivlev/vortex/internal/preview"
	"github.com/ivlev/vortex/internal/render"
	"github.com/ivlev/vortex/internal/scenario"
	"github.com/ivlev/vortex/internal/scene"
	"github.com/ivlev/vortex/internal/stream"
	"github.com/ivlev/vortex/internal/system"
	"github.com/ivlev/vortex/internal/video"
)

// Set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Raise the open file limit (macOS/Linux)
	system.InitResourceLimits()

	cfg := config.Default()
	cfg.Workers = runtime.NumCPU()
	cfg.BuildVersion = version

	// Environment first, so flags win
	envFile, err := config.LoadEnvFile(".env")
	if err != nil {
		log.Printf("[!] %v", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv, envFile); err != nil {
		log.Fatalf("[-] Environment: %v", err)
	}

	flag.StringVar(&cfg.Mode, "mode", cfg.Mode, "render, preview or serve")
	flag.StringVar(&cfg.ScenarioPath, "scenario", "", "Scenario YAML (default: newest file in -scenarios)")
	flag.StringVar(&cfg.ScenarioDir, "scenarios", cfg.ScenarioDir, "Directory searched for scenarios")
	flag.StringVar(&cfg.OutputPath, "output", "", "Output video or PNG directory (default: generated in output/)")
	flag.StringVar(&cfg.Format, "format", cfg.Format, "Render output: mp4 or png")
	flag.Float64Var(&cfg.Duration, "duration", 0, "Render length in ms (0: scenario or scene length)")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "Canvas width when the scenario sets none")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "Canvas height when the scenario sets none")
	flag.StringVar(&cfg.Preset, "preset", "", "Canvas preset: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram), 1:1")
	flag.IntVar(&cfg.FPS, "fps", cfg.FPS, "FPS")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "Rasterizer workers")
	flag.IntVar(&cfg.Quality, "quality", cfg.Quality, "Video quality (0: auto; x264: CRF 1-51, VideoToolbox: bitrate = Q*100 kbit/s)")
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address for -mode serve")
	flag.BoolVar(&cfg.ShowStats, "stats", false, "Print a performance report and append it to benchmark.log")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Overlay frame info and log progress")
	initPtr := flag.Bool("init", false, "Write a demo scenario to -scenarios and exit")
	fromPtr := flag.String("from", "", "With -init: generate the scenario from a layout image (PNG, JPEG or the first PDF page)")
	detectorPtr := flag.String("detector", "edges", "Layout detector for -from")

	flag.Parse()

	if err := cfg.ApplyPreset(); err != nil {
		log.Fatalf("[-] %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] %v", err)
	}

	for _, d := range []string{cfg.ScenarioDir, "output"} {
		os.MkdirAll(d, 0755)
	}

	if *initPtr {
		sc, err := initScenario(cfg, *fromPtr, *detectorPtr)
		if err != nil {
			log.Fatalf("[-] Scenario generation: %v", err)
		}
		path := scenario.GeneratePath(cfg.ScenarioDir)
		if err := scenario.Write(sc, path); err != nil {
			log.Fatalf("[-] Could not save scenario: %v", err)
		}
		fmt.Printf("[+++] Success! Scenario saved: %s\n", path)
		return
	}

	scenarioPath := cfg.ScenarioPath
	if scenarioPath == "" {
		latest, err := scenario.FindLatest(cfg.ScenarioDir)
		if err != nil {
			log.Fatalf("[-] Error: %v. Put a scenario in %s/ or run with -init", err, cfg.ScenarioDir)
		}
		scenarioPath = latest
		fmt.Printf("[*] Selected scenario: %s\n", scenarioPath)
	}

	sc, err := scenario.Read(scenarioPath)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}
	if sc.Width <= 0 {
		sc.Width = cfg.Width
	}
	if sc.Height <= 0 {
		sc.Height = cfg.Height
	}
	if cfg.Mode == "render" && cfg.Format == "mp4" && (sc.Width%2 != 0 || sc.Height%2 != 0) {
		// yuv420p needs even dimensions
		sc.Width += sc.Width % 2
		sc.Height += sc.Height % 2
		fmt.Printf("[!] Canvas rounded up to %dx%d for yuv420p\n", sc.Width, sc.Height)
	}

	s, err := scenario.Build(sc)
	if err != nil {
		log.Fatalf("[-] Scenario error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderer := render.New(system.NewImagePool())
	renderer.Debug = cfg.Debug

	switch cfg.Mode {
	case "render":
		err = runRender(ctx, cfg, s, sc, renderer, scenarioPath)
	case "preview":
		err = runPreview(ctx, cfg, s, renderer)
	case "serve":
		err = runServe(ctx, cfg, s)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("[-] Project error: %v", err)
	}
}

// initScenario builds the demo, or a reveal of the blocks found in a
// layout image
func initScenario(cfg *config.Config, from, detector string) (*scenario.Scenario, error) {
	if from == "" {
		return scenario.Demo(cfg.Width, cfg.Height)
	}

	det, err := analyzer.NewDetector(detector)
	if err != nil {
		return nil, err
	}
	img, err := analyzer.LoadImage(from)
	if err != nil {
		return nil, err
	}
	blocks, err := analyzer.Blocks(img, det, cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("no blocks found in %s", from)
	}
	fmt.Printf("[*] Found %d blocks in %s\n", len(blocks), from)

	total := cfg.Duration
	if total <= 0 {
		total = config.DefaultRenderLength
	}
	return scenario.NewGenerator(cfg.Width, cfg.Height).Generate(blocks, total)
}

func runRender(ctx context.Context, cfg *config.Config, s *scene.Scene, sc *scenario.Scenario, r *render.Renderer, scenarioPath string) error {
	finalOutput := cfg.OutputPath
	if finalOutput == "" {
		baseName := filepath.Base(scenarioPath)
		nameOnly := strings.TrimSuffix(baseName, filepath.Ext(baseName))
		cleanName := strings.ReplaceAll(nameOnly, " ", "_")
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		finalOutput = filepath.Join("output", fmt.Sprintf("%s_%s", cleanName, timestamp))
		if cfg.Format == "mp4" {
			finalOutput += ".mp4"
		}
	}

	if cfg.Format == "mp4" {
		cfg.VideoEncoder = system.BestH264Encoder()
		if cfg.VideoEncoder != "libx264" {
			fmt.Printf("[*] Hardware acceleration detected: %s\n", cfg.VideoEncoder)
		}
		if cfg.Quality == 0 {
			cfg.Quality = config.DefaultQuality(cfg.VideoEncoder)
		}
	}

	w, err := video.Open(ctx, cfg.Format, video.Options{
		Path:    finalOutput,
		Width:   s.Width,
		Height:  s.Height,
		FPS:     cfg.FPS,
		Encoder: cfg.VideoEncoder,
		Quality: cfg.Quality,
	})
	if err != nil {
		return err
	}

	project := engine.NewProject(cfg, s, r, w)
	project.Duration = sc.Duration
	project.Name = scenarioPath
	if _, err := project.Run(ctx); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	fmt.Printf("[+++] Success! Result: %s\n", finalOutput)
	return nil
}

func runPreview(ctx context.Context, cfg *config.Config, s *scene.Scene, r *render.Renderer) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	return preview.New(screen, s, r, cfg.FPS).Run(ctx)
}

func runServe(ctx context.Context, cfg *config.Config, s *scene.Scene) error {
	srv := stream.NewServer(s, cfg.FPS)
	httpServer := &http.Server{Addr: cfg.Addr, Handler: srv.Handler()}

	loopErr := make(chan error, 1)
	go func() {
		loopErr <- srv.Loop(ctx)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Printf("[*] Streaming frames on ws://%s/ws", cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-loopErr
}
