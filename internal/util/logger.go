package util

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 全局日志对象，InitLogger 之前为 no-op
var Logger = zap.NewNop()

func InitLogger(logLevel string) {
	config := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	config.Level.SetLevel(level)
	logger, err := config.Build()
	if err != nil {
		return
	}
	Logger = logger
	zap.ReplaceGlobals(logger)
}
