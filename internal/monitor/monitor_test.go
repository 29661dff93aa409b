package monitor

import (
	"math"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestStatsWindow(t *testing.T) {
	m := New()
	m.Record(40 * time.Millisecond)
	for i := 0; i < Window; i++ {
		m.Record(10 * time.Millisecond)
	}

	s := m.Stats()
	if s.Frames != Window+1 {
		t.Errorf("Expected %d frames, got %d", Window+1, s.Frames)
	}
	// The slow first frame has left the window but is still the max
	if s.Avg != 10*time.Millisecond {
		t.Errorf("Expected avg 10ms, got %v", s.Avg)
	}
	if math.Abs(s.FPS-100) > 1e-9 {
		t.Errorf("Expected 100 FPS, got %v", s.FPS)
	}
	if s.Max != 40*time.Millisecond || s.Min != 10*time.Millisecond {
		t.Errorf("Expected min 10ms max 40ms, got %v %v", s.Min, s.Max)
	}
	if !strings.Contains(s.String(), "FPS: 100") {
		t.Errorf("Unexpected summary %q", s.String())
	}
}

func TestMark(t *testing.T) {
	m := New()
	start := time.Unix(100, 0)
	m.Mark(start)
	m.Mark(start.Add(20 * time.Millisecond))
	m.Mark(start.Add(50 * time.Millisecond))

	s := m.Stats()
	if s.Frames != 2 {
		t.Fatalf("Expected 2 frames, got %d", s.Frames)
	}
	if s.Avg != 25*time.Millisecond {
		t.Errorf("Expected avg 25ms, got %v", s.Avg)
	}
}

func TestEmptyStats(t *testing.T) {
	if s := New().Stats(); s.Frames != 0 || s.FPS != 0 {
		t.Errorf("Expected zero stats, got %+v", s)
	}
}

func TestSample(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("process stats not checked on " + runtime.GOOS)
	}
	u, err := New().Sample()
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	t.Logf("Usage: %s", u)
	if u.RSS == 0 {
		t.Error("Expected a non-zero RSS")
	}
}
