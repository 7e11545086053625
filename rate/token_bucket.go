package rate

import (
	"errors"
	"sync"
	"time"
)

var ErrInvalidCapacity = errors.New("token bucket capacity must be >= 1")

// TokenBucket holds up to capacity permits. It starts full and regains
// exactly one permit per Refill call, never more than capacity.
// Whoever owns the bucket is expected to call Refill every Interval().
//
// Unlike golang.org/x/time/rate the bucket is not tied to the wall clock:
// permits only come back through Refill, which keeps the owner in charge
// of timing (see queue.Queue, which drives it from an injectable clock).
type TokenBucket struct {
	mu        sync.Mutex
	capacity  int
	available int
}

func NewTokenBucket(capacity int) (*TokenBucket, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	return &TokenBucket{
		capacity:  capacity,
		available: capacity,
	}, nil
}

// TryConsume takes one permit if there is any.
func (b *TokenBucket) TryConsume() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.available <= 0 {
		return false
	}
	b.available--
	return true
}

// Refill returns one permit to the bucket.
// It reports false if the bucket was already full.
func (b *TokenBucket) Refill() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.available >= b.capacity {
		return false
	}
	b.available++
	return true
}

func (b *TokenBucket) Available() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.available
}

func (b *TokenBucket) Capacity() int {
	return b.capacity
}

// Interval is the refill period: capacity permits per second.
func (b *TokenBucket) Interval() time.Duration {
	return time.Second / time.Duration(b.capacity)
}
