package engine

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/vortex/internal/config"
	"github.com/ivlev/vortex/internal/monitor"
	"github.com/ivlev/vortex/internal/render"
	"github.com/ivlev/vortex/internal/scene"
	"github.com/ivlev/vortex/internal/video"
)

// BenchmarkLog collects one line per run when stats are on
const BenchmarkLog = "benchmark.log"

// Project renders one scene to a frame writer.
//
// The scene is ticked sequentially on one goroutine; snapshots fan out to
// Config.Workers rasterizers and are written back in frame order.
type Project struct {
	Config   *config.Config
	Scene    *scene.Scene
	Renderer *render.Renderer
	Writer   video.FrameWriter
	Monitor  *monitor.Monitor
	// Duration is a length hint in ms, used when Config.Duration is unset.
	// Zero falls back to the scene's own length.
	Duration float64
	Name     string
}

// Report is the outcome of Run
type Report struct {
	Frames   int
	Total    time.Duration
	Simulate time.Duration
	Render   time.Duration // Summed over workers
	Write    time.Duration
	Frame    monitor.Stats
	Usage    monitor.Usage
}

type renderJob struct {
	index int
	frame scene.Frame
}

type renderResult struct {
	index int
	img   *image.RGBA
}

func NewProject(cfg *config.Config, s *scene.Scene, r *render.Renderer, w video.FrameWriter) *Project {
	return &Project{
		Config:   cfg,
		Scene:    s,
		Renderer: r,
		Writer:   w,
		Monitor:  monitor.New(),
	}
}

// FrameCount is the number of frames Run will produce
func (p *Project) FrameCount() int {
	d := p.Duration
	if d <= 0 {
		d = p.Scene.Duration()
	}
	return p.Config.FrameCount(d)
}

// Run simulates, rasterizes and writes every frame. The writer is not
// closed.
func (p *Project) Run(ctx context.Context) (Report, error) {
	startTime := time.Now()
	frameCount := p.FrameCount()
	delta := p.Config.FrameDelta()

	workers := p.Config.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > frameCount {
		workers = frameCount
	}

	fmt.Println("--- [VORTEX: RENDER] ---")
	fmt.Printf("[*] Scene: %s | Frames: %d\n", p.Name, frameCount)
	fmt.Printf("[*] Resolution: %dx%d @ %d FPS | Workers: %d\n", p.Scene.Width, p.Scene.Height, p.Config.FPS, workers)
	fmt.Println("------------------------")

	var simNanos, renderNanos, writeNanos atomic.Int64

	// jobs -> render pool -> results -> ordered writer
	jobs := make(chan renderJob, workers*2)
	results := make(chan renderResult, workers*2)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(runCtx)

	// 1. Simulation (sequential, the scene is not thread-safe)
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < frameCount; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			t := time.Now()
			if i > 0 {
				p.Scene.Tick(delta)
			}
			job := renderJob{index: i, frame: p.Scene.Snapshot()}
			simNanos.Add(int64(time.Since(t)))

			select {
			case jobs <- job:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	// 2. Render pool (CPU bound)
	pool, poolCtx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		pool.Go(func() error {
			for job := range jobs {
				t := time.Now()
				img := p.Renderer.Render(job.frame)
				renderNanos.Add(int64(time.Since(t)))

				select {
				case results <- renderResult{index: job.index, img: img}:
				case <-poolCtx.Done():
					p.Renderer.Release(img)
					return poolCtx.Err()
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(results)
		return pool.Wait()
	})

	// 3. Writer (frames arrive out of order)
	g.Go(func() error {
		pending := make(map[int]*image.RGBA)
		next := 0
		for res := range results {
			pending[res.index] = res.img
			for {
				img, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)

				t := time.Now()
				err := p.Writer.WriteFrame(img)
				writeNanos.Add(int64(time.Since(t)))
				p.Renderer.Release(img)
				if err != nil {
					// Stop the pipeline and hand back every buffer still in flight
					cancel()
					p.release(pending, results)
					return fmt.Errorf("frame %d: %w", next, err)
				}

				p.Monitor.Mark(time.Now())
				next++
				if p.Config.Debug && next%p.Config.FPS == 0 {
					log.Printf("[>] Ready: %d/%d", next, frameCount)
				}
			}
		}
		p.release(pending, nil)
		if next != frameCount && ctx.Err() == nil {
			return fmt.Errorf("wrote %d of %d frames", next, frameCount)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	report := Report{
		Frames:   frameCount,
		Total:    time.Since(startTime),
		Simulate: time.Duration(simNanos.Load()),
		Render:   time.Duration(renderNanos.Load()),
		Write:    time.Duration(writeNanos.Load()),
		Frame:    p.Monitor.Stats(),
	}
	if u, err := p.Monitor.Sample(); err == nil {
		report.Usage = u
	} else {
		log.Printf("[!] Could not sample resource usage: %v", err)
	}

	if p.Config.ShowStats {
		fmt.Print(report.String(p.Config.BuildVersion))
		if err := report.AppendLog(BenchmarkLog, p.Config.BuildVersion, p.Name); err != nil {
			fmt.Printf("[!] Could not write %s: %v\n", BenchmarkLog, err)
		}
	}
	return report, nil
}

// release returns pending frames and everything still arriving on results
// (if non-nil) to the renderer's pool
func (p *Project) release(pending map[int]*image.RGBA, results <-chan renderResult) {
	for i, img := range pending {
		p.Renderer.Release(img)
		delete(pending, i)
	}
	if results == nil {
		return
	}
	for res := range results {
		p.Renderer.Release(res.img)
	}
}

// EffectiveFPS is frames written per wall-clock second
func (r Report) EffectiveFPS() float64 {
	if r.Total <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Total.Seconds()
}

func (r Report) String(build string) string {
	return fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Simulation: %.2fs\n"+
			"Rasterizing (CPU): %.2fs\n"+
			"Encoding: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"Write pace: %s\n"+
			"%s\n"+
			"----------------------------\n",
		build, r.Total.Seconds(), r.Simulate.Seconds(), r.Render.Seconds(), r.Write.Seconds(),
		r.EffectiveFPS(), r.Frame, r.Usage,
	)
}

// AppendLog adds a one-line summary to path
func (r Report) AppendLog(path, build, name string) error {
	entry := fmt.Sprintf("[%s] Build: %s | Scene: %s | Frames: %d | Total: %.2fs | Render: %.2fs | Encode: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		build,
		filepath.Base(name),
		r.Frames,
		r.Total.Seconds(),
		r.Render.Seconds(),
		r.Write.Seconds(),
		r.EffectiveFPS(),
	)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(entry); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
