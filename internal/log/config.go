package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// BuildLogger returns a zap logger configured for production (JSON,
// stderr) or local development (colorized console), matching the pod's
// IsDev setting.
func BuildLogger(isDev bool) *zap.Logger {
	logger, _ := zapConfig(isDev).Build()
	return logger
}

func zapConfig(isDev bool) zap.Config {
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zap.InfoLevel),
		Development:      false,
		Encoding:         "json",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "lvl",
			NameKey:        "svc",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "trace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
	}

	if isDev {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.Development = true
		cfg.Encoding = "console"
		cfg.EncoderConfig = zapcore.EncoderConfig{
			NameKey:      "log",
			MessageKey:   "message",
			TimeKey:      "time",
			LevelKey:     "level",
			CallerKey:    "file",
			EncodeTime:   customTimeEncoder,
			EncodeLevel:  customLevelEncoder,
			EncodeCaller: customCallerEncoder,
			EncodeName:   customNameEncoder,
		}
	}

	return cfg
}
