package sim

import (
	"fmt"
	"sync"

	"github.com/san-kum/gravsim/internal/physics"
)

// WorkerPool runs batches of tasks on a fixed set of goroutines that live
// for the lifetime of the pool.
type WorkerPool struct {
	jobs    chan job
	wg      sync.WaitGroup
	size    int
	once    sync.Once
	closing chan struct{}
}

type job struct {
	fn    func() error
	batch *Batch
}

// Batch is a set of tasks submitted together. Wait blocks until all of them
// have finished.
type Batch struct {
	wg   sync.WaitGroup
	mu   sync.Mutex
	errs []error
}

func NewWorkerPool(size, queue int) *WorkerPool {
	if size < 1 {
		size = 1
	}
	if queue < size {
		queue = size
	}
	p := &WorkerPool{
		jobs:    make(chan job, queue),
		size:    size,
		closing: make(chan struct{}),
	}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}
	return p
}

func (p *WorkerPool) Size() int { return p.size }

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for j := range p.jobs {
		j.batch.record(run(j.fn))
		j.batch.wg.Done()
	}
}

func run(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrWorkerPanic, r)
		}
	}()
	return fn()
}

// Submit queues tasks and returns immediately. Submitting to a closed pool
// returns a batch that fails with ErrClosed.
func (p *WorkerPool) Submit(tasks ...func() error) *Batch {
	b := &Batch{}
	select {
	case <-p.closing:
		b.errs = append(b.errs, ErrClosed)
		return b
	default:
	}
	b.wg.Add(len(tasks))
	for _, fn := range tasks {
		p.jobs <- job{fn: fn, batch: b}
	}
	return b
}

// Run submits tasks and waits for them.
func (p *WorkerPool) Run(tasks ...func() error) error {
	return p.Submit(tasks...).Wait()
}

// Close stops the workers after queued jobs drain. Callers must not submit
// concurrently with Close.
func (p *WorkerPool) Close() {
	p.once.Do(func() {
		close(p.closing)
		close(p.jobs)
		p.wg.Wait()
	})
}

func (b *Batch) record(err error) {
	if err == nil {
		return
	}
	b.mu.Lock()
	b.errs = append(b.errs, err)
	b.mu.Unlock()
}

// Wait returns the first error recorded by the batch.
func (b *Batch) Wait() error {
	b.wg.Wait()
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.errs) == 0 {
		return nil
	}
	return b.errs[0]
}

// BodyPool recycles partition buffers between ticks.
type BodyPool struct {
	pool sync.Pool
}

func NewBodyPool() *BodyPool {
	return &BodyPool{
		pool: sync.Pool{
			New: func() interface{} {
				s := make([]physics.Body, 0, 64)
				return &s
			},
		},
	}
}

// Get returns an empty slice with at least capHint capacity.
func (p *BodyPool) Get(capHint int) []physics.Body {
	s := *p.pool.Get().(*[]physics.Body)
	if cap(s) < capHint {
		return make([]physics.Body, 0, capHint)
	}
	return s[:0]
}

func (p *BodyPool) Put(s []physics.Body) {
	if cap(s) == 0 {
		return
	}
	s = s[:0]
	p.pool.Put(&s)
}
