package logger

// Logger is the logging contract used by every package of the amoCRM client:
// the api layer, the request queue, retries and the dashboard fetcher.
// Plug in any implementation (slog, zap, logrus, ...) or keep the default
// Noop logger to silence the library entirely.
//
// What gets logged:
// - request/response failures of the amoCRM API
// - queue dispatch, refill ticks and job failures (debug/warn)
// - retry attempts
// - placeholders substituted for failed contact and task lookups
//
// Usage Example:
//
//	client := amocrm_go.NewClient(token, amocrm_go.WithLogger(logger.NewStdOut()))
//
//	// or route everything into log/slog
//	client := amocrm_go.NewClient(token, amocrm_go.WithLogger(logger.NewSlog(slog.Default())))
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
