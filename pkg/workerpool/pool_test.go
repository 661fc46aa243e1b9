package workerpool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRunsTasks(t *testing.T) {
	p := New(4)
	defer p.Shutdown()

	var n atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(func() {
			defer wg.Done()
			n.Add(1)
		}))
	}
	wg.Wait()

	assert.EqualValues(t, 20, n.Load())
}

func TestSubmitReturnsErrPoolFullWhenSaturated(t *testing.T) {
	p := New(1)
	defer p.Shutdown()

	block := make(chan struct{})
	defer close(block)

	// Occupy the worker, then fill the queue buffer.
	require.NoError(t, p.Submit(func() { <-block }))
	for {
		if err := p.Submit(func() { <-block }); err != nil {
			assert.ErrorIs(t, err, ErrPoolFull)
			return
		}
	}
}

func TestSubmitAfterShutdownReturnsErrPoolClosed(t *testing.T) {
	p := New(1)
	p.Shutdown()

	assert.ErrorIs(t, p.Submit(func() {}), ErrPoolClosed)
}

func TestPanickingTaskDoesNotKillWorker(t *testing.T) {
	p := New(1)
	defer p.Shutdown()

	require.NoError(t, p.Submit(func() { panic("boom") }))

	require.Eventually(t, func() bool {
		done := make(chan struct{})
		if err := p.Submit(func() { close(done) }); err != nil {
			return false
		}
		select {
		case <-done:
			return true
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestShutdownWaitsForInFlightTasks(t *testing.T) {
	p := New(2)

	var n atomic.Int64
	for i := 0; i < 10; i++ {
		require.NoError(t, p.SubmitWait(func() {
			time.Sleep(5 * time.Millisecond)
			n.Add(1)
		}))
	}
	p.Shutdown()

	assert.EqualValues(t, 10, n.Load())
}
