package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/block/amocrm-go/logger"
	"github.com/block/amocrm-go/rate"
)

// Work is a unit of deferred work. ctx is done when the job is cancelled
// (a newer job with the same key arrived, Queue.Cancel was called) or when
// the context passed to Enqueue is done. Work should hand ctx to every
// request it makes.
//
// Work may enqueue dependent jobs on the same queue and wait for them
// with Future.Wait or Do, as long as it passes its own ctx: while it
// waits, the job does not count against the in-flight limit, so the
// dependent job can start even when the queue has a single permit.
type Work func(ctx context.Context) (any, error)

// Queue keeps outbound amoCRM calls under a fixed rate.
//
// Jobs wait in FIFO order until a permit is available in a token bucket
// of PermitsPerSecond permits which regains one permit every
// 1s/PermitsPerSecond. At most PermitsPerSecond unsettled jobs run at a
// time; a job waiting on another job of the queue is not counted, nor is
// a cancelled job whose work has not returned yet. Work that ignores ctx
// can therefore still be running next to the job that replaced it.
// A job enqueued with a key cancels the job that is running under the
// same key, so a stale lookup never outlives the one that replaced it.
//
// Usage Example:
//
//	q, err := queue.New(queue.Config{PermitsPerSecond: 2})
//	if err != nil {
//	    return err
//	}
//	q.Start()
//	defer q.Stop()
//
//	f := q.Enqueue(ctx, func(ctx context.Context) (any, error) {
//	    return client.Tasks().ByLead(ctx, leadId)
//	}, queue.WithKey(strconv.FormatInt(leadId, 10)))
//
//	res, err := f.Wait(ctx)
//	if queue.IsCancelled(err) {
//	    // a newer lookup for the same lead replaced this one
//	}
type Queue struct {
	config Config
	logger logger.Logger
	clock  clock.Clock
	bucket *rate.TokenBucket

	// lifecycle serialises Start and Stop
	lifecycle sync.Mutex
	stopCh    chan struct{}
	stoppedCh chan struct{}
	jobs      errgroup.Group

	mu       sync.Mutex
	pending  []*job
	registry *registry
	inFlight int
	running  bool
	closed   bool
}

type job struct {
	id     string
	key    string
	work   Work
	ctx    context.Context
	cancel context.CancelCauseFunc
	future *Future
	owner  *Queue

	// guarded by Queue.mu
	started bool
	// waiting counts nested Future.Wait calls made by the job's work;
	// a waiting job has given its in-flight slot back.
	waiting int
}

type runningJobKey struct{}

type enqueueOptions struct {
	key string
}

type EnqueueOption func(o *enqueueOptions)

// WithKey makes the job cancel whatever job is running under key.
// An empty key is the same as no key.
func WithKey(key string) EnqueueOption {
	return func(o *enqueueOptions) {
		o.key = key
	}
}

// New validates the config and returns a queue with a full bucket.
// The queue accepts jobs right away; Start begins refilling the bucket.
func New(config Config) (*Queue, error) {
	config, err := applyConfig(config)
	if err != nil {
		return nil, err
	}
	bucket, err := rate.NewTokenBucket(config.PermitsPerSecond)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCapacity, err)
	}

	return &Queue{
		config:   config,
		logger:   config.Logger,
		clock:    config.Clock,
		bucket:   bucket,
		registry: newRegistry(),
	}, nil
}

// Start runs the refill ticker. Calling Start on a running queue does nothing.
// A stopped queue can be started again.
func (q *Queue) Start() {
	q.lifecycle.Lock()
	defer q.lifecycle.Unlock()

	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return
	}
	q.running = true
	q.closed = false
	q.mu.Unlock()

	q.stopCh = make(chan struct{})
	q.stoppedCh = make(chan struct{})
	ticker := q.clock.Ticker(q.bucket.Interval())
	go q.refillLoop(ticker, q.stopCh, q.stoppedCh)

	q.logger.Debugf("queue: started, %d permits/s, refill every %v",
		q.bucket.Capacity(), q.bucket.Interval())
}

// Stop halts the refill ticker, fails every pending job with
// ErrQueueStopped and waits for running jobs to finish.
// Jobs enqueued afterwards fail with ErrQueueStopped until Start is called.
func (q *Queue) Stop() {
	q.lifecycle.Lock()
	defer q.lifecycle.Unlock()

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	wasRunning := q.running
	q.running = false
	pending := q.pending
	q.pending = nil
	for _, j := range pending {
		q.finishLocked(j, nil, ErrQueueStopped)
	}
	q.mu.Unlock()

	if wasRunning {
		close(q.stopCh)
		<-q.stoppedCh
	}

	if err := q.jobs.Wait(); err != nil {
		q.logger.Errorf("queue: failed to wait for in-flight jobs: %v", err)
	}
	q.logger.Debugf("queue: stopped, %d pending jobs dropped", len(pending))
}

// Enqueue adds work to the back of the queue and tries to dispatch right away.
// It never fails by itself: every outcome, including ErrQueueStopped,
// comes through the returned Future.
//
// With WithKey, the job running under the same key (if any) is cancelled
// before this job is queued. Jobs with that key which are still waiting
// are left alone.
func (q *Queue) Enqueue(ctx context.Context, work Work, opts ...EnqueueOption) *Future {
	o := enqueueOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	f := newFuture()
	f.queue = q

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		f.settle(nil, ErrQueueStopped)
		return f
	}

	jobCtx, cancel := context.WithCancelCause(ctx)
	j := &job{
		id:     uuid.NewString(),
		key:    o.key,
		work:   work,
		cancel: cancel,
		future: f,
		owner:  q,
	}
	j.ctx = context.WithValue(jobCtx, runningJobKey{}, j)
	if j.key != "" {
		q.evictLocked(j.key)
	}
	q.pending = append(q.pending, j)
	q.mu.Unlock()

	q.drain()
	return f
}

// Cancel cancels the job running under key.
// It reports false if no job was running under key.
func (q *Queue) Cancel(key string) bool {
	q.mu.Lock()
	evicted := q.evictLocked(key)
	q.mu.Unlock()

	if evicted {
		q.drain()
	}
	return evicted
}

// Tick returns one permit to the bucket and dispatches what it can.
// The refill ticker calls it every 1s/PermitsPerSecond.
func (q *Queue) Tick() {
	q.bucket.Refill()
	q.drain()
}

func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *Queue) InFlight() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.inFlight
}

// Available is the number of permits left in the bucket.
func (q *Queue) Available() int {
	return q.bucket.Available()
}

func (q *Queue) Capacity() int {
	return q.bucket.Capacity()
}

// Active reports whether a job is running under key.
func (q *Queue) Active(key string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.registry.get(key) != nil
}

func (q *Queue) refillLoop(ticker *clock.Ticker, stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			q.Tick()
		}
	}
}

// drain is the only place jobs get started. Timer ticks, enqueues and
// settled jobs all call it; the mutex makes concurrent calls take turns,
// so a permit is never spent twice. Jobs are handed to the errgroup under
// the mutex so Stop never waits on a group that is still growing.
func (q *Queue) drain() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.pending) > 0 && q.inFlight < q.bucket.Capacity() {
		j := q.pending[0]
		if err := j.ctx.Err(); err != nil {
			// the caller gave up while the job was waiting; no permit spent
			q.pending[0] = nil
			q.pending = q.pending[1:]
			q.finishLocked(j, nil, context.Cause(j.ctx))
			continue
		}
		if !q.bucket.TryConsume() {
			break
		}
		q.pending[0] = nil
		q.pending = q.pending[1:]

		if j.key != "" {
			q.evictLocked(j.key)
			q.registry.put(j)
		}
		j.started = true
		q.inFlight++
		q.run(j)
	}
	if len(q.pending) == 0 {
		q.pending = nil
	}
}

// run starts j in its own goroutine. Called with q.mu held.
func (q *Queue) run(j *job) {
	q.logger.Debugf("queue: dispatching job %s key=%q", j.id, j.key)

	q.jobs.Go(func() error {
		value, err := q.call(j)
		if err != nil && errors.Is(context.Cause(j.ctx), ErrCancelled) {
			err = context.Cause(j.ctx)
		}
		q.finish(j, value, err)
		return nil
	})
}

func (q *Queue) call(j *job) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = fmt.Errorf("%w: %v", ErrJobPanicked, r)
		}
	}()
	return j.work(j.ctx)
}

func (q *Queue) finish(j *job, value any, err error) {
	q.mu.Lock()
	settled := q.finishLocked(j, value, err)
	q.mu.Unlock()

	if !settled {
		return
	}
	if err != nil && !IsCancelled(err) {
		q.logger.Warnf("queue: job %s key=%q failed: %v", j.id, j.key, err)
	}
	q.drain()
}

// finishLocked settles j and releases what it held: its registry entry,
// its in-flight slot and its context. It reports false if j had already
// settled, e.g. a cancelled job whose work returned late.
func (q *Queue) finishLocked(j *job, value any, err error) bool {
	if !j.future.settle(value, err) {
		return false
	}
	if j.key != "" {
		q.registry.release(j.key, j.id)
	}
	if j.started && j.waiting == 0 {
		q.inFlight--
	}
	j.cancel(err)
	return true
}

// suspend gives the in-flight slot of j back while its work waits on
// another job of this queue. It reports false if j holds no slot.
func (q *Queue) suspend(j *job) bool {
	q.mu.Lock()
	if !j.started || j.future.settled() {
		q.mu.Unlock()
		return false
	}
	j.waiting++
	if j.waiting == 1 {
		q.inFlight--
	}
	q.mu.Unlock()

	q.drain()
	return true
}

// resume takes the slot back once the wait is over. The in-flight count
// may briefly go above capacity; drain starts nothing until it is below.
func (q *Queue) resume(j *job) {
	q.mu.Lock()
	defer q.mu.Unlock()

	j.waiting--
	if j.waiting == 0 && !j.future.settled() {
		q.inFlight++
	}
}

// evictLocked cancels the job running under key and settles it with ErrCancelled.
func (q *Queue) evictLocked(key string) bool {
	prev := q.registry.get(key)
	if prev == nil {
		return false
	}
	q.finishLocked(prev, nil, cancelledErr(key))
	q.logger.Debugf("queue: cancelled job %s key=%q", prev.id, key)
	return true
}

// Do enqueues work and waits for its typed result.
func Do[T any](
	ctx context.Context,
	q *Queue,
	work func(ctx context.Context) (T, error),
	opts ...EnqueueOption,
) (T, error) {
	var zero T
	f := q.Enqueue(ctx, func(ctx context.Context) (any, error) {
		return work(ctx)
	}, opts...)

	value, err := f.Wait(ctx)
	if err != nil {
		return zero, err
	}
	res, ok := value.(T)
	if !ok {
		return zero, nil
	}
	return res, nil
}
