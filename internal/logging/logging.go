package logging

import "go.uber.org/zap"

// New builds the process logger. Production encoding; callers own Sync.
func New() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		// No logger to report with yet.
		panic(err)
	}
	return logger
}
