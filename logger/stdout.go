package logger

import (
	"fmt"
	"io"
	"os"
	"time"
)

const stdOutTimeLayout = "15:04:05.000"

type stdOut struct {
	print func(level string, msg string)
}

var _ Logger = &stdOut{}

// NewStdOut returns a Logger printing one line per message to stdout:
//
//	12:04:05.120 amocrm WARN  queue: job 3f2a... key="lead:42" failed: ...
//
// Milliseconds are kept so queue refill ticks can be told apart.
func NewStdOut() Logger {
	return newWriter(os.Stdout)
}

func newWriter(w io.Writer) *stdOut {
	return &stdOut{
		print: func(level string, msg string) {
			_, _ = fmt.Fprintf(w, "%s amocrm %-5s %s\n", time.Now().Format(stdOutTimeLayout), level, msg)
		},
	}
}

func (p *stdOut) Debugf(format string, args ...any) {
	p.print("DEBUG", fmt.Sprintf(format, args...))
}

func (p *stdOut) Infof(format string, args ...any) {
	p.print("INFO", fmt.Sprintf(format, args...))
}

func (p *stdOut) Warnf(format string, args ...any) {
	p.print("WARN", fmt.Sprintf(format, args...))
}

func (p *stdOut) Errorf(format string, args ...any) {
	p.print("ERROR", fmt.Sprintf(format, args...))
}
