package choice

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

// Logger returns the choice package's logger. It is a no-op logger
// unless SetLogger was called.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// SetLogger installs l for read and write tracing. Safe for concurrent use.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}
