package systems

import "sync"

// parallelThreshold is the minimum particle count to use parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 512

// workChunk represents a range of particles for a worker to process.
type workChunk struct {
	start, end int
	fn         func(start, end int) int
}

// workerPool is a set of persistent goroutines that process particle chunks.
type workerPool struct {
	numWorkers int

	workChan chan workChunk // sends work to workers
	doneChan chan int       // workers report chunk results
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
}

func newWorkerPool(numWorkers int) *workerPool {
	p := &workerPool{
		numWorkers: numWorkers,
		workChan:   make(chan workChunk, numWorkers),
		doneChan:   make(chan int, numWorkers),
		stopChan:   make(chan struct{}),
	}
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *workerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case chunk := <-p.workChan:
			p.doneChan <- chunk.fn(chunk.start, chunk.end)
		}
	}
}

// run splits [0, n) into one chunk per worker and blocks until every chunk is done.
// Returns the sum of the chunk results.
func (p *workerPool) run(n int, fn func(start, end int) int) int {
	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end, fn: fn}
		dispatched++
	}

	total := 0
	for i := 0; i < dispatched; i++ {
		total += <-p.doneChan
	}
	return total
}

// stop signals all workers to exit and waits for them.
func (p *workerPool) stop() {
	close(p.stopChan)
	p.wg.Wait()
}
