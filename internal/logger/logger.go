package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New builds a zap logger for the given mode and installs it as the global
// logger, so packages can log through zap.S() / zap.L().
func New(mode string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(log)
	return log, nil
}
