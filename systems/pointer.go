package systems

import "sync"

// PointerState is one consistent reading of the pointer.
type PointerState struct {
	X, Y   float64
	Active bool
}

// Pointer holds the latest pointer state written by input handlers.
// Input may arrive on another goroutine; Snapshot never observes a torn (x, y, active) triple.
type Pointer struct {
	mu    sync.Mutex
	state PointerState
}

// Move records a pointer or touch position and marks the pointer active.
func (p *Pointer) Move(x, y float64) {
	p.mu.Lock()
	p.state = PointerState{X: x, Y: y, Active: true}
	p.mu.Unlock()
}

// Leave marks the pointer inactive, keeping the last position.
func (p *Pointer) Leave() {
	p.mu.Lock()
	p.state.Active = false
	p.mu.Unlock()
}

// Snapshot returns the current pointer state.
func (p *Pointer) Snapshot() PointerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}
