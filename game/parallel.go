package game

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/antsim/systems"
)

// parallelThreshold is the minimum roster size to use parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// workChunk represents a range of agents for a worker to process.
type workChunk struct {
	index int
	ants  []*systems.Agent
	foods systems.FoodSource
}

// chunkResult reports the first error of a chunk, if any.
type chunkResult struct {
	index int
	err   error
}

// parallelState runs the decision phase on a persistent worker pool. Agents
// only write their own pending state; shared writes (field deposits, colony
// food, food takes, counters) are serialized by their owners.
type parallelState struct {
	numWorkers int

	// Worker pool channels
	workChan chan workChunk   // sends work to workers
	doneChan chan chunkResult // workers signal completion
	stopChan chan struct{}    // signals workers to exit
	wg       sync.WaitGroup   // tracks active workers
	running  bool             // true if workers are running
}

func newParallelState(workers int) *parallelState {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &parallelState{numWorkers: workers}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan chunkResult, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
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
func (p *parallelState) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			res := chunkResult{index: chunk.index}
			for _, a := range chunk.ants {
				if err := a.Do(chunk.foods); err != nil {
					res.err = err
					break
				}
			}
			p.doneChan <- res
		}
	}
}

// decide splits ants into one chunk per worker and waits for all of them.
// When several chunks fail, the error of the lowest chunk is returned.
func (p *parallelState) decide(ants []*systems.Agent, foods systems.FoodSource) error {
	if !p.running {
		p.startWorkers()
	}

	n := len(ants)
	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	chunksDispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		p.workChan <- workChunk{index: w, ants: ants[start:end], foods: foods}
		chunksDispatched++
	}

	var firstErr error
	firstIdx := -1
	for i := 0; i < chunksDispatched; i++ {
		res := <-p.doneChan
		if res.err != nil && (firstIdx < 0 || res.index < firstIdx) {
			firstErr, firstIdx = res.err, res.index
		}
	}
	return firstErr
}
