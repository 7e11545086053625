package queue

import (
	"github.com/benbjohnson/clock"

	"github.com/block/amocrm-go/logger"
)

type Config struct {
	// PermitsPerSecond is the token bucket capacity: how many jobs may
	// start per second, and how many may be in flight at once.
	// One permit comes back every 1s/PermitsPerSecond.
	// Must be >= 1, New fails otherwise.
	// default (DefaultConfig): 2
	PermitsPerSecond int

	// Clock drives the refill ticker. Tests pass clock.NewMock()
	// default: clock.New()
	Clock clock.Clock

	// Logger provides logging for dispatch, refill and job failures
	// default: logger.Noop
	Logger logger.Logger
}

// DefaultConfig matches amoCRM's advice for integrations: 2 requests per second.
func DefaultConfig() Config {
	return Config{
		PermitsPerSecond: 2,
		Clock:            clock.New(),
		Logger:           logger.Noop{},
	}
}

func applyConfig(inConfig Config) (Config, error) {
	if inConfig.PermitsPerSecond < 1 {
		return Config{}, ErrInvalidCapacity
	}

	outConfig := DefaultConfig()
	outConfig.PermitsPerSecond = inConfig.PermitsPerSecond
	if inConfig.Clock != nil {
		outConfig.Clock = inConfig.Clock
	}
	if inConfig.Logger != nil {
		outConfig.Logger = inConfig.Logger
	}
	return outConfig, nil
}
