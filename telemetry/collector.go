package telemetry

// Collector accumulates frame events within windows and produces WindowStats.
type Collector struct {
	windowFrames int64

	// Current window tracking
	windowStartFrame int64

	// Event counters for current window
	frames        int
	wraps         int
	respawns      int
	skipped       int
	pointerFrames int
}

// NewCollector creates a new stats collector.
// windowSec: how long each stats window lasts in wall seconds
// fps: expected frames per second (used for second-to-frame conversion)
func NewCollector(windowSec float64, fps int) *Collector {
	frames := int64(windowSec * float64(fps))
	if frames < 1 {
		frames = 1
	}
	return &Collector{windowFrames: frames}
}

// WindowFrames returns the window length in frames.
func (c *Collector) WindowFrames() int64 {
	return c.windowFrames
}

// RecordFrame records the outcome of one simulated frame.
func (c *Collector) RecordFrame(wraps, respawns int, pointerActive bool) {
	c.frames++
	c.wraps += wraps
	c.respawns += respawns
	if pointerActive {
		c.pointerFrames++
	}
}

// RecordSkipped records a frame skipped because the surface had no size.
func (c *Collector) RecordSkipped() {
	c.skipped++
}

// ShouldFlush reports whether the current window has ended.
func (c *Collector) ShouldFlush(frame int64) bool {
	return frame-c.windowStartFrame >= c.windowFrames
}

// Flush produces stats for the current window and starts a new one.
// speeds is sorted in place.
func (c *Collector) Flush(frame int64, simTime float64, speeds []float64) WindowStats {
	mean, std, p10, p50, p90 := SpeedStats(speeds)

	var pointerFraction float64
	if c.frames > 0 {
		pointerFraction = float64(c.pointerFrames) / float64(c.frames)
	}

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   frame,
		SimTime:          simTime,
		Particles:        len(speeds),
		SpeedMean:        mean,
		SpeedStd:         std,
		SpeedP10:         p10,
		SpeedP50:         p50,
		SpeedP90:         p90,
		Wraps:            c.wraps,
		Respawns:         c.respawns,
		SkippedFrames:    c.skipped,
		PointerFraction:  pointerFraction,
	}

	c.windowStartFrame = frame
	c.frames = 0
	c.wraps = 0
	c.respawns = 0
	c.skipped = 0
	c.pointerFrames = 0

	return stats
}
