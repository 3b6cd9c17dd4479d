package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/secureworks/trackable/trackzap"
)

// Build returns a logger writing to stderr, so that logs never mix with
// converted reports.
func (c logCfg) Build(opts ...zap.Option) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = c.Encoding
	cfg.Sampling = nil
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	return cfg.Build(append(opts, zap.WrapCore(trackzap.NewHistoryCore))...)
}
