package amocrm_go

import (
	"net/http"
	"time"

	"github.com/block/amocrm-go/logger"
	"github.com/block/amocrm-go/rate"
)

type config struct {
	// baseUrl is the address of the amoCRM account,
	// e.g. https://example.amocrm.ru
	// default: empty, NewClient callers are expected to set it
	baseUrl string

	// transport specifies the HTTP transport mechanism
	// for making requests.
	// It's useful for mocking or if customers
	// want to add extra logging, headers, etc.
	// default: http.DefaultTransport
	transport http.RoundTripper

	// timeout sets the maximum duration for HTTP requests
	// before they are cancelled
	// default: 10 seconds
	timeout time.Duration

	// limiter is consulted before every HTTP request.
	// The dashboard has its own queue, so most callers keep the default.
	// default: rate.NoopLimiter
	limiter rate.Limiter

	// logger provides logging functionality for all internal
	// amocrm-go client operations
	// default: logger.Noop
	logger logger.Logger
}

func defaultConfig() *config {
	return &config{
		transport: http.DefaultTransport,
		timeout:   10 * time.Second,
		limiter:   rate.NoopLimiter{},
		logger:    logger.Noop{},
	}
}

type ConfigOption func(c *config)

func WithBaseUrl(baseUrl string) ConfigOption {
	return func(c *config) {
		c.baseUrl = baseUrl
	}
}

func WithTransport(transport http.RoundTripper) ConfigOption {
	return func(c *config) {
		c.transport = transport
	}
}

func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *config) {
		c.timeout = timeout
	}
}

func WithRateLimiter(limiter rate.Limiter) ConfigOption {
	return func(c *config) {
		c.limiter = limiter
	}
}

func WithLogger(logger logger.Logger) ConfigOption {
	return func(c *config) {
		c.logger = logger
	}
}
