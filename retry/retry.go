package retry

import "context"

// Retry runs an operation until it succeeds, asks to stop, runs out of
// attempts or the context is done.
//
// The dashboard uses it around lead page requests: transport errors,
// 429 and 5xx responses are retried, anything else stops right away.
//
// Usage Example:
//
//	r := retry.NewExponentialRetry(
//	    retry.WithInitialDuration(200*time.Millisecond),
//	    retry.WithLogger(myLogger),
//	)
//
//	err := r.Do(ctx, 3, "leads-page", func(attempt int) (error, retry.ExitStrategy) {
//	    page, err := leads.Page(ctx, 1, 50)
//	    if err != nil {
//	        if errors.IsRetryable(err) {
//	            return err, retry.Continue
//	        }
//	        return err, retry.StopNow
//	    }
//	    return nil, retry.StopNow
//	})
//
// The RetriableFn receives the current attempt number (0-based).
//
// NOTE: if attempts is 0, the fn is never called.
type Retry interface {
	Do(ctx context.Context, attempts int, fnName string, fn RetriableFn) error
}

type RetriableFn func(attempt int) (error, ExitStrategy)

type ExitStrategy bool

var StopNow ExitStrategy = true
var Continue ExitStrategy = false
