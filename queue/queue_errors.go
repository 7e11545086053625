package queue

import (
	"errors"
	"fmt"
)

const (
	ErrStrCancelled       = "job cancelled"
	ErrStrQueueStopped    = "queue stopped"
	ErrStrInvalidCapacity = "queue permits per second must be >= 1"
	ErrStrJobPanicked     = "job panicked"
)

var (
	// ErrCancelled settles a job that was replaced by a newer job with the
	// same key, or cancelled with Queue.Cancel. It is not a failure of the job.
	ErrCancelled = errors.New(ErrStrCancelled)

	// ErrQueueStopped settles jobs that were still pending when the queue
	// was stopped, and every job enqueued after that.
	ErrQueueStopped = errors.New(ErrStrQueueStopped)

	// ErrInvalidCapacity is returned by New for PermitsPerSecond < 1.
	ErrInvalidCapacity = errors.New(ErrStrInvalidCapacity)

	ErrJobPanicked = errors.New(ErrStrJobPanicked)
)

func cancelledErr(key string) error {
	return fmt.Errorf("%w: key %q", ErrCancelled, key)
}

// IsCancelled reports whether err means the job was cancelled rather than failed.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
