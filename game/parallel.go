package game

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/tinsel/components"
	"github.com/pthm-cable/tinsel/systems"
)

// defaultParallelThreshold is the minimum population size to split across
// workers. Below this, single-threaded is faster due to goroutine overhead.
const defaultParallelThreshold = 256

// frame is the read-only input every evaluation in a tick shares.
type frame struct {
	ps      components.ProgressState
	elapsed float32
	dt      float32
}

// workChunk represents a range of instances for a worker to evaluate.
type workChunk struct {
	pop        *systems.Population
	start, end int
	f          frame
}

// parallelState holds the worker pool for instance evaluation.
type parallelState struct {
	numWorkers int
	threshold  int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState(threshold int) *parallelState {
	if threshold <= 0 {
		threshold = defaultParallelThreshold
	}
	return &parallelState{
		numWorkers: runtime.GOMAXPROCS(0),
		threshold:  threshold,
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(m systems.MotionConfig) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(m)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker(m systems.MotionConfig) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.pop.EvaluateRange(chunk.start, chunk.end, chunk.f.ps, chunk.f.elapsed, chunk.f.dt, m)
			p.doneChan <- struct{}{}
		}
	}
}

// evaluate runs every population against the same frame. Each instance is
// written by exactly one goroutine, so ranges need no locking.
func (g *Game) evaluate(f frame) {
	for _, pop := range g.pops {
		n := pop.Len()
		if n == 0 {
			continue
		}
		if g.serial || g.parallel.numWorkers < 2 || n < g.parallel.threshold {
			pop.EvaluateRange(0, n, f.ps, f.elapsed, f.dt, g.motion)
			continue
		}
		g.evaluateParallel(pop, f)
	}
}

// evaluateParallel dispatches one population to the worker pool.
func (g *Game) evaluateParallel(pop *systems.Population, f frame) {
	// Ensure workers are running
	if !g.parallel.running {
		g.parallel.startWorkers(g.motion)
	}

	n := pop.Len()
	numWorkers := g.parallel.numWorkers
	chunkSize := (n + numWorkers - 1) / numWorkers

	// Dispatch chunks to workers
	chunksDispatched := 0
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}

		g.parallel.workChan <- workChunk{pop: pop, start: start, end: end, f: f}
		chunksDispatched++
	}

	// Wait for all chunks to complete
	for i := 0; i < chunksDispatched; i++ {
		<-g.parallel.doneChan
	}
}

// stopParallelWorkers should be called when shutting down the game.
func (g *Game) stopParallelWorkers() {
	if g.parallel != nil {
		g.parallel.stopWorkers()
	}
}
