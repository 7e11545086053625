package amocrm_go

import (
	"github.com/benbjohnson/clock"

	"github.com/block/amocrm-go/logger"
	"github.com/block/amocrm-go/retry"
	"github.com/block/amocrm-go/state"
)

type dashboardConfig struct {
	// permitsPerSecond caps the requests the dashboard sends to amoCRM.
	// amoCRM allows integrations about 7 requests per second,
	// the dashboard stays well below that.
	// (maps to FetcherConfig.PermitsPerSecond)
	// default: 2
	permitsPerSecond int

	// pageLimit is the number of leads per page request
	// (maps to FetcherConfig.PageLimit)
	// default: 50
	pageLimit int

	// retryTimes sets the number of attempts for one lead page
	// (maps to FetcherConfig.MaxRetries)
	// default: 3
	retryTimes int

	// retry configures the backoff between lead page attempts
	// If nil - the fetcher's default is used, which logs through logger.
	// (maps to FetcherConfig.Retry)
	// default: nil
	retry retry.Retry

	// taskCacheSize is how many recently opened tasks are kept
	// (maps to FetcherConfig.TaskCacheSize)
	// default: 3
	taskCacheSize int

	// clock drives the queue's refill ticker
	// (maps to FetcherConfig.Clock)
	// default: clock.New()
	clock clock.Clock

	// store receives every state change.
	// If nil - the dashboard creates its own, see Dashboard.Store.
	// default: nil
	store *state.Store

	// logger provides logging for the dashboard and its queue
	// (maps to FetcherConfig.Logger)
	// default: logger.Noop
	logger logger.Logger
}

func defaultDashboardConfig() dashboardConfig {
	return dashboardConfig{
		permitsPerSecond: 2,
		pageLimit:        50,
		retryTimes:       3,
		taskCacheSize:    state.DefaultTaskCacheSize,
		clock:            clock.New(),
		logger:           logger.Noop{},
	}
}

type DashboardConfigOption func(c *dashboardConfig)

func WithDashboardPermitsPerSecond(permits int) DashboardConfigOption {
	return func(c *dashboardConfig) {
		c.permitsPerSecond = permits
	}
}

func WithDashboardPageLimit(limit int) DashboardConfigOption {
	return func(c *dashboardConfig) {
		c.pageLimit = limit
	}
}

func WithDashboardRetryTimes(times int) DashboardConfigOption {
	return func(c *dashboardConfig) {
		c.retryTimes = times
	}
}

func WithDashboardRetry(retry retry.Retry) DashboardConfigOption {
	return func(c *dashboardConfig) {
		c.retry = retry
	}
}

func WithDashboardTaskCacheSize(size int) DashboardConfigOption {
	return func(c *dashboardConfig) {
		c.taskCacheSize = size
	}
}

func WithDashboardClock(clock clock.Clock) DashboardConfigOption {
	return func(c *dashboardConfig) {
		c.clock = clock
	}
}

func WithDashboardStore(store *state.Store) DashboardConfigOption {
	return func(c *dashboardConfig) {
		c.store = store
	}
}

func WithDashboardLogger(logger logger.Logger) DashboardConfigOption {
	return func(c *dashboardConfig) {
		c.logger = logger
	}
}
