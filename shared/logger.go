package shared

import (
	"go.uber.org/zap"

	"github.com/wippyai/sharedptr/internal/control"
)

// Logger returns the logger used for handle lifecycle tracing.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	return control.Logger()
}

// SetLogger configures the logger used for handle lifecycle tracing.
// Block adoption, disposal and destruction are logged at debug level.
// This must be called before any handles are created.
func SetLogger(l *zap.Logger) {
	control.SetLogger(l)
}
