package logger

// Noop discards everything. It is the default Logger of the client, the queue and the dashboard.
type Noop struct{}

var _ Logger = Noop{}

func (Noop) Debugf(_ string, _ ...any) {}

func (Noop) Infof(_ string, _ ...any) {}

func (Noop) Warnf(_ string, _ ...any) {}

func (Noop) Errorf(_ string, _ ...any) {}
