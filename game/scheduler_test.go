package game

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestManualSchedulerRunsOnlyQueuedCallbacks(t *testing.T) {
	s := NewManualScheduler()

	var order []int
	s.ScheduleNextFrame(func() {
		order = append(order, 1)
		// Scheduled during a run: waits for the next RunPending.
		s.ScheduleNextFrame(func() { order = append(order, 3) })
	})
	s.ScheduleNextFrame(func() { order = append(order, 2) })

	if n := s.RunPending(); n != 2 {
		t.Fatalf("RunPending ran %d callbacks, want 2", n)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("order = %v, want [1 2]", order)
	}
	if s.Pending() != 1 {
		t.Fatalf("Pending = %d, want 1", s.Pending())
	}

	s.RunPending()
	if len(order) != 3 || order[2] != 3 {
		t.Fatalf("order = %v, want [1 2 3]", order)
	}
}

func TestManualSchedulerCancel(t *testing.T) {
	s := NewManualScheduler()

	ran := false
	h := s.ScheduleNextFrame(func() { ran = true })
	if h == 0 {
		t.Fatal("expected non-zero handle")
	}
	s.CancelScheduledFrame(h)
	s.CancelScheduledFrame(h)     // second cancel is a no-op
	s.CancelScheduledFrame(h + 7) // unknown handle is ignored

	if n := s.RunPending(); n != 0 || ran {
		t.Fatalf("cancelled callback ran (n=%d)", n)
	}
}

func TestManualSchedulerHandlesUnique(t *testing.T) {
	s := NewManualScheduler()
	seen := make(map[FrameHandle]bool)
	for i := 0; i < 100; i++ {
		h := s.ScheduleNextFrame(func() {})
		if seen[h] {
			t.Fatalf("handle %d issued twice", h)
		}
		seen[h] = true
	}
}

func TestTickerSchedulerRunsAndStops(t *testing.T) {
	s := NewTickerScheduler(200)

	var count atomic.Int32
	var tick func()
	tick = func() {
		count.Add(1)
		s.ScheduleNextFrame(tick)
	}
	s.ScheduleNextFrame(tick)

	deadline := time.Now().Add(2 * time.Second)
	for count.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if count.Load() < 3 {
		t.Fatalf("expected at least 3 ticks, got %d", count.Load())
	}

	s.Stop()
	s.Stop() // idempotent
	after := count.Load()
	time.Sleep(30 * time.Millisecond)
	if count.Load() != after {
		t.Errorf("callbacks ran after Stop: %d -> %d", after, count.Load())
	}
}
