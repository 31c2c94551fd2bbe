package logging

import (
	"go.uber.org/zap"
)

// InitLogger builds the application logger for the given environment.
// Development environments get human-readable console output at debug
// level; everything else gets production JSON logging.
func InitLogger(env string) (*zap.Logger, error) {
	switch env {
	case "dev", "test", "local":
		return zap.NewDevelopment()
	default:
		return zap.NewProduction()
	}
}
