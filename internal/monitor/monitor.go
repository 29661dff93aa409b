// Package monitor tracks frame times over a sliding window and samples the
// process's CPU and memory use.
package monitor

import (
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Window is the number of frames averaged for FPS
const Window = 60

// Stats summarizes the recorded frame times
type Stats struct {
	Frames int
	FPS    float64
	Avg    time.Duration // Over the last Window frames
	Min    time.Duration // Over all frames
	Max    time.Duration
}

func (s Stats) String() string {
	return fmt.Sprintf("FPS: %.0f | Avg: %.1fms | Min: %.1fms | Max: %.1fms",
		s.FPS, ms(s.Avg), ms(s.Min), ms(s.Max))
}

// Usage is a resource sample
type Usage struct {
	CPUPercent     float64
	RSS            uint64
	HostMemPercent float64
}

func (u Usage) String() string {
	return fmt.Sprintf("CPU: %.1f%% | RSS: %.1f MB | Host memory: %.1f%%",
		u.CPUPercent, float64(u.RSS)/(1<<20), u.HostMemPercent)
}

// Monitor is safe for concurrent use
type Monitor struct {
	mu     sync.Mutex
	window []time.Duration
	next   int
	frames int
	min    time.Duration
	max    time.Duration
	last   time.Time

	proc *process.Process
}

func New() *Monitor {
	return &Monitor{window: make([]time.Duration, 0, Window)}
}

// Record adds one frame time
func (m *Monitor) Record(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.window) < Window {
		m.window = append(m.window, d)
	} else {
		m.window[m.next] = d
		m.next = (m.next + 1) % Window
	}
	if m.frames == 0 || d < m.min {
		m.min = d
	}
	if d > m.max {
		m.max = d
	}
	m.frames++
}

// Mark records the time since the previous Mark. The first call only
// starts the clock.
func (m *Monitor) Mark(now time.Time) {
	m.mu.Lock()
	last := m.last
	m.last = now
	m.mu.Unlock()

	if !last.IsZero() {
		m.Record(now.Sub(last))
	}
}

func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Stats{Frames: m.frames, Min: m.min, Max: m.max}
	if len(m.window) == 0 {
		return s
	}
	var sum time.Duration
	for _, d := range m.window {
		sum += d
	}
	s.Avg = sum / time.Duration(len(m.window))
	if s.Avg > 0 {
		s.FPS = float64(time.Second) / float64(s.Avg)
	} else {
		s.FPS = math.Inf(1)
	}
	return s
}

// Sample reads CPU and memory use of this process. CPU is averaged since
// the process started.
func (m *Monitor) Sample() (Usage, error) {
	m.mu.Lock()
	if m.proc == nil {
		p, err := process.NewProcess(int32(os.Getpid()))
		if err != nil {
			m.mu.Unlock()
			return Usage{}, fmt.Errorf("process handle: %w", err)
		}
		m.proc = p
	}
	p := m.proc
	m.mu.Unlock()

	var u Usage
	cpu, err := p.CPUPercent()
	if err != nil {
		return u, fmt.Errorf("cpu: %w", err)
	}
	u.CPUPercent = cpu

	info, err := p.MemoryInfo()
	if err != nil {
		return u, fmt.Errorf("memory: %w", err)
	}
	u.RSS = info.RSS

	vm, err := mem.VirtualMemory()
	if err != nil {
		return u, fmt.Errorf("host memory: %w", err)
	}
	u.HostMemPercent = vm.UsedPercent
	return u, nil
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
