package proxy

import (
	"go.uber.org/zap"

	"github.com/wippyai/scriptbridge/internal/logging"
)

var pkgLogger logging.Var

// Logger returns the proxy package's logger. It logs nothing until
// SetLogger is called.
func Logger() *zap.Logger {
	return pkgLogger.Get()
}

// SetLogger configures the proxy package's logger.
func SetLogger(l *zap.Logger) {
	pkgLogger.Set(l)
}
