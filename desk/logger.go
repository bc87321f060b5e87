package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the desk logger. The terminal belongs to the UI, so all
// output goes to cfg.LogFile.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	var zc zap.Config

	if cfg.IsProduction() {
		zc = zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	zc.OutputPaths = []string{cfg.LogFile}
	zc.ErrorOutputPaths = []string{cfg.LogFile}

	return zc.Build()
}
