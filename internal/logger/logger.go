package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New builds a logger for mode: "prod"/"production" logs JSON at info level,
// anything else logs human-readable output at debug level.
func New(mode string) (*zap.Logger, error) {
	var cfg zap.Config

	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	// stdout carries the command's output
	cfg.OutputPaths = []string{"stderr"}

	return cfg.Build()
}
