package queue

import (
	"context"
	"sync"
)

// Future is the eventual result of an enqueued job.
// It settles exactly once: with the job's result, with its error,
// with ErrCancelled or with ErrQueueStopped.
type Future struct {
	once  sync.Once
	done  chan struct{}
	value any
	err   error

	// queue is the queue that settles the future, nil for none
	queue *Queue
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// settle reports whether this call was the one that settled the future.
func (f *Future) settle(value any, err error) bool {
	settled := false
	f.once.Do(func() {
		f.value = value
		f.err = err
		settled = true
		close(f.done)
	})
	return settled
}

func (f *Future) settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done is closed once the future has settled.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future settles or ctx is done.
// Giving up on ctx does not cancel the job.
//
// Called from a job's work with the work's ctx, Wait releases that job's
// in-flight slot until it returns.
func (f *Future) Wait(ctx context.Context) (any, error) {
	if j, ok := ctx.Value(runningJobKey{}).(*job); ok && f.queue != nil && j.owner == f.queue && j.future != f {
		if f.queue.suspend(j) {
			defer f.queue.resume(j)
		}
	}

	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result blocks until the future settles.
func (f *Future) Result() (any, error) {
	<-f.done
	return f.value, f.err
}
