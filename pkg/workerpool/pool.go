// Package workerpool bounds the goroutines spent on background work, such
// as the fire-and-forget cart sync pushes the gateway schedules on every
// authenticated cart mutation.
//
// Submit never blocks: when every worker is busy and the queue is full it
// returns ErrPoolFull and the caller decides what the task is worth. Cart
// pushes are dropped on backpressure since the next mutation pushes the
// full line list again.
//
//	pool := workerpool.New(16)
//	defer pool.Shutdown()
//
//	if err := pool.Submit(push); errors.Is(err, workerpool.ErrPoolFull) {
//	    // shed the task
//	}
package workerpool

import (
	"errors"
	"sync"
)

// ErrPoolFull is returned by Submit when the queue is at capacity.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed is returned by Submit and SubmitWait after Shutdown.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Pool runs submitted tasks on a fixed set of worker goroutines.
type Pool struct {
	queue chan func()
	wg    sync.WaitGroup
	once  sync.Once
	done  chan struct{}
}

// New starts a Pool with size workers. A size below 1 is treated as 1.
// The queue buffers twice the worker count so short bursts are absorbed.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}

	p := &Pool{
		queue: make(chan func(), size*2),
		done:  make(chan struct{}),
	}

	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.work()
	}

	return p
}

// Submit enqueues task without blocking. ErrPoolFull when the queue is at
// capacity, ErrPoolClosed after Shutdown.
func (p *Pool) Submit(task func()) error {
	select {
	case <-p.done:
		return ErrPoolClosed
	default:
	}

	select {
	case p.queue <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait blocks until the task is queued or the pool shuts down.
func (p *Pool) SubmitWait(task func()) error {
	select {
	case <-p.done:
		return ErrPoolClosed
	case p.queue <- task:
		return nil
	}
}

// Shutdown stops intake, drains the queue, and joins the workers. Safe to
// call more than once.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		close(p.done)
		close(p.queue)
		p.wg.Wait()
	})
}

func (p *Pool) work() {
	defer p.wg.Done()
	for task := range p.queue {
		run(task)
	}
}

// run isolates task panics so one bad task cannot take a worker down.
func run(task func()) {
	defer func() { recover() }() //nolint:errcheck
	task()
}
