package dashboard

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/block/amocrm-go/logger"
	"github.com/block/amocrm-go/retry"
	"github.com/block/amocrm-go/state"
)

type FetcherConfig struct {
	// PermitsPerSecond is the request budget of the fetcher's queue.
	// It is also the number of lead pages requested per round.
	// 0 means the default; a negative value makes NewFetcher fail.
	// default: 2
	PermitsPerSecond int

	// PageLimit is the "limit" query parameter of lead page requests
	// default: 50
	PageLimit int

	// MaxRetries is the number of attempts for one lead page
	// default: 3
	MaxRetries int

	// Retry configures the backoff between lead page attempts
	// default: retry.NewExponentialRetry with 500ms initial backoff
	Retry retry.Retry

	// TaskCacheSize is how many looked-up tasks OpenCard remembers
	// default: 3
	TaskCacheSize int

	// Clock drives the queue's refill ticker
	// default: clock.New()
	Clock clock.Clock

	// Logger provides logging for pagination, degraded lookups and the queue
	// default: logger.Noop
	Logger logger.Logger
}

func defaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		PermitsPerSecond: 2,
		PageLimit:        50,
		MaxRetries:       3,
		Retry: retry.NewExponentialRetry(
			retry.WithInitialDuration(500*time.Millisecond),
		),
		TaskCacheSize: state.DefaultTaskCacheSize,
		Clock:         clock.New(),
		Logger:        logger.Noop{},
	}
}

func applyFetcherConfig(inConfig FetcherConfig) FetcherConfig {
	outConfig := defaultFetcherConfig()
	if inConfig.PermitsPerSecond != 0 {
		// negative values are passed on so that queue.New rejects them
		outConfig.PermitsPerSecond = inConfig.PermitsPerSecond
	}
	if inConfig.PageLimit > 0 {
		outConfig.PageLimit = inConfig.PageLimit
	}
	if inConfig.MaxRetries > 0 {
		outConfig.MaxRetries = inConfig.MaxRetries
	}
	if inConfig.Retry != nil {
		outConfig.Retry = inConfig.Retry
	}
	if inConfig.TaskCacheSize > 0 {
		outConfig.TaskCacheSize = inConfig.TaskCacheSize
	}
	if inConfig.Clock != nil {
		outConfig.Clock = inConfig.Clock
	}
	if inConfig.Logger != nil {
		outConfig.Logger = inConfig.Logger
		if inConfig.Retry == nil {
			outConfig.Retry = retry.NewExponentialRetry(
				retry.WithInitialDuration(500*time.Millisecond),
				retry.WithLogger(inConfig.Logger),
			)
		}
	}

	return outConfig
}
