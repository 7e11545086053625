package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/block/amocrm-go/logger"
)

type expoConfig struct {
	sleep    time.Duration
	maxSleep time.Duration
	logger   logger.Logger
}

func defaultExpoConfig() expoConfig {
	return expoConfig{
		sleep:    100 * time.Millisecond,
		maxSleep: 5 * time.Second,
		logger:   logger.Noop{},
	}
}

type ExpoConfigOption func(c *expoConfig)

func WithLogger(log logger.Logger) ExpoConfigOption {
	return func(c *expoConfig) {
		c.logger = log
	}
}

func WithInitialDuration(d time.Duration) ExpoConfigOption {
	return func(c *expoConfig) {
		c.sleep = d
	}
}

// WithMaxDuration caps the backoff. Zero or negative disables the cap.
func WithMaxDuration(d time.Duration) ExpoConfigOption {
	return func(c *expoConfig) {
		c.maxSleep = d
	}
}

type expoRetry struct {
	config expoConfig
}

var _ Retry = &expoRetry{}

func NewExponentialRetry(opts ...ExpoConfigOption) Retry {
	var config = defaultExpoConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return &expoRetry{config}
}

// Do runs provided function repeatedly until:
// * the RetriableFn returns no error
// * or attempts is reached
// * or RetriableFn returns StopNow
// * or ctx is done while waiting between attempts
// Examples:
// Do(ctx, 3, "my-func", func(attempt int) (error, retry.ExitStrategy) {})
// ^ will run the function up to 3 times, sleeping 100ms, then 200ms between runs.
//
// Do(ctx, 0, "my-func", func(attempt int) (error, retry.ExitStrategy) {})
// ^ will NOT run
func (r *expoRetry) Do(
	ctx context.Context,
	attempts int,
	fnName string,
	fn RetriableFn,
) error {
	if attempts < 1 {
		return fmt.Errorf("attempts must be > 0")
	}

	var err error
	var i int

	sleep := r.config.sleep
	for i < attempts {
		var exitNow ExitStrategy
		if err, exitNow = fn(i); err == nil {
			return nil
		}
		if exitNow {
			return err
		}
		i++
		if i == attempts {
			break
		}

		r.config.logger.Warnf(
			"Error during retry %s; retrying. attempt=%d, maxAttempt=%d, backoff=%v, error=%v",
			fnName, i, attempts, sleep, err,
		)

		if waitErr := wait(ctx, sleep); waitErr != nil {
			return err
		}

		sleep = sleep * 2
		if r.config.maxSleep > 0 && sleep > r.config.maxSleep {
			sleep = r.config.maxSleep
		}
	}

	r.config.logger.Warnf(
		"Exhausted all retry attempts for %s; giving up. attempt=%d, maxAttempt=%d, error=%v",
		fnName, i, attempts, err,
	)

	return err
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
