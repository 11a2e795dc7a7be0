package telemetry

import (
	"math"
	"testing"
)

func TestSpeedStats(t *testing.T) {
	values := []float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1}
	mean, std, p10, p50, p90 := SpeedStats(values)

	if math.Abs(mean-0.55) > 1e-9 {
		t.Errorf("mean = %v, want 0.55", mean)
	}
	// Population std of 0.1..1.0 step 0.1.
	if want := math.Sqrt(0.0825); math.Abs(std-want) > 1e-9 {
		t.Errorf("std = %v, want %v", std, want)
	}
	if !(0.1 <= p10 && p10 <= p50 && p50 <= p90 && p90 <= 1.0) {
		t.Errorf("percentiles out of order: p10=%v p50=%v p90=%v", p10, p50, p90)
	}
	if p10 > 0.2 || p90 < 0.9 {
		t.Errorf("percentiles too narrow: p10=%v p90=%v", p10, p90)
	}
	if values[0] != 0.1 {
		t.Error("expected values to be sorted in place")
	}
}

func TestSpeedStatsEmpty(t *testing.T) {
	mean, std, p10, p50, p90 := SpeedStats(nil)
	if mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(1.0, 10)

	if c.WindowFrames() != 10 {
		t.Fatalf("WindowFrames = %d, want 10", c.WindowFrames())
	}

	for frame := int64(1); frame < 10; frame++ {
		c.RecordFrame(2, 1, frame%2 == 0)
		if c.ShouldFlush(frame) {
			t.Fatalf("flushed early at frame %d", frame)
		}
	}
	c.RecordFrame(2, 1, true)
	c.RecordSkipped()
	if !c.ShouldFlush(10) {
		t.Fatal("expected flush at frame 10")
	}

	s := c.Flush(10, 0.05, []float64{3, 1, 2})
	if s.WindowStartFrame != 0 || s.WindowEndFrame != 10 {
		t.Errorf("window = [%d, %d], want [0, 10]", s.WindowStartFrame, s.WindowEndFrame)
	}
	if s.Particles != 3 || s.Wraps != 20 || s.Respawns != 10 || s.SkippedFrames != 1 {
		t.Errorf("unexpected counters %+v", s)
	}
	if math.Abs(s.PointerFraction-0.5) > 1e-9 {
		t.Errorf("pointer fraction = %v, want 0.5", s.PointerFraction)
	}
	if s.SpeedMean != 2 {
		t.Errorf("speed mean = %v, want 2", s.SpeedMean)
	}

	// Counters reset for the next window.
	if c.ShouldFlush(15) {
		t.Error("expected new window to start at frame 10")
	}
	s = c.Flush(20, 0.1, nil)
	if s.Wraps != 0 || s.WindowStartFrame != 10 || s.PointerFraction != 0 {
		t.Errorf("expected reset counters, got %+v", s)
	}
}

func TestCollectorMinimumWindow(t *testing.T) {
	c := NewCollector(0, 60)
	if c.WindowFrames() != 1 {
		t.Errorf("WindowFrames = %d, want 1", c.WindowFrames())
	}
}
