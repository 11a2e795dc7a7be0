package game

import (
	"sync"
	"time"
)

// FrameHandle identifies a scheduled frame callback. The zero handle is never issued.
type FrameHandle uint64

// Scheduler runs frame callbacks once per display refresh.
type Scheduler interface {
	ScheduleNextFrame(fn func()) FrameHandle
	CancelScheduledFrame(h FrameHandle)
}

type scheduled struct {
	handle FrameHandle
	fn     func()
}

// callbackQueue is the pending list shared by both schedulers.
type callbackQueue struct {
	mu      sync.Mutex
	next    FrameHandle
	pending []scheduled
}

func (q *callbackQueue) schedule(fn func()) FrameHandle {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.next++
	q.pending = append(q.pending, scheduled{handle: q.next, fn: fn})
	return q.next
}

func (q *callbackQueue) cancel(h FrameHandle) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, s := range q.pending {
		if s.handle == h {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// take removes and returns everything scheduled so far.
func (q *callbackQueue) take() []scheduled {
	q.mu.Lock()
	defer q.mu.Unlock()
	batch := q.pending
	q.pending = nil
	return batch
}

func (q *callbackQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// ManualScheduler is pumped by its host once per refresh (raylib loop, headless loop, tests).
type ManualScheduler struct {
	queue callbackQueue
}

// NewManualScheduler creates an empty scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// ScheduleNextFrame queues fn for the next RunPending.
func (s *ManualScheduler) ScheduleNextFrame(fn func()) FrameHandle {
	return s.queue.schedule(fn)
}

// CancelScheduledFrame drops a queued callback. Unknown handles are ignored.
func (s *ManualScheduler) CancelScheduledFrame(h FrameHandle) {
	s.queue.cancel(h)
}

// RunPending runs the callbacks queued before the call and returns how many ran.
// Callbacks scheduled while running wait for the next call.
func (s *ManualScheduler) RunPending() int {
	batch := s.queue.take()
	for _, cb := range batch {
		cb.fn()
	}
	return len(batch)
}

// Pending returns the number of queued callbacks.
func (s *ManualScheduler) Pending() int {
	return s.queue.len()
}

// TickerScheduler runs queued callbacks at a fixed rate on a single goroutine.
type TickerScheduler struct {
	queue  callbackQueue
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewTickerScheduler starts a scheduler firing fps times per second.
func NewTickerScheduler(fps int) *TickerScheduler {
	if fps < 1 {
		fps = 30
	}
	s := &TickerScheduler{
		ticker: time.NewTicker(time.Second / time.Duration(fps)),
		stop:   make(chan struct{}),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

func (s *TickerScheduler) run() {
	defer s.wg.Done()
	for {
		select {
		case <-s.stop:
			return
		case <-s.ticker.C:
			for _, cb := range s.queue.take() {
				cb.fn()
			}
		}
	}
}

// ScheduleNextFrame queues fn for the next tick.
func (s *TickerScheduler) ScheduleNextFrame(fn func()) FrameHandle {
	return s.queue.schedule(fn)
}

// CancelScheduledFrame drops a queued callback. Unknown handles are ignored.
func (s *TickerScheduler) CancelScheduledFrame(h FrameHandle) {
	s.queue.cancel(h)
}

// Stop halts the ticker and waits for a running callback to return.
// Must not be called from a callback.
func (s *TickerScheduler) Stop() {
	s.once.Do(func() {
		s.ticker.Stop()
		close(s.stop)
		s.wg.Wait()
	})
}
