package rate

import (
	"net/http"

	"golang.org/x/time/rate"
)

// Limiter throttles individual HTTP requests to the amoCRM API.
//
// The api package calls Limit before every request it sends. It is the
// low-level guard for code that talks to the api package directly; the
// dashboard sends everything through queue.Queue, which rate limits whole
// jobs with a TokenBucket, so its client usually keeps the NoopLimiter.
//
// Example usage:
//
//	client := amocrm_go.NewClient(token,
//	    amocrm_go.WithRateLimiter(rate.NewWaitLimiter(2, 1)),
//	)
type Limiter interface {
	// Limit blocks until the request may be sent. It returns an error
	// if the request's context is done before that happens.
	Limit(req *http.Request) error
}

type waitLimiter struct {
	limiter *rate.Limiter
}

var _ Limiter = &waitLimiter{}

// NewWaitLimiter returns a Limiter allowing perSecond requests per second
// with bursts of up to burst requests. burst < 1 is treated as 1.
func NewWaitLimiter(perSecond float64, burst int) Limiter {
	if burst < 1 {
		burst = 1
	}
	return &waitLimiter{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (w *waitLimiter) Limit(req *http.Request) error {
	return w.limiter.Wait(req.Context())
}
