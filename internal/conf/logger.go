package conf

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// GetLogger builds the logger for a profile. "test" discards everything,
// "local" writes coloured console output, anything else writes sampled JSON.
// All output goes to stderr so command output on stdout stays parseable.
func GetLogger(profile string, level zapcore.Level) *zap.SugaredLogger {
	var slogger *zap.SugaredLogger
	switch profile {
	case ProfileTest:
		slogger = zap.NewNop().Sugar()
	case ProfileLocal:
		cfg := zap.Config{
			Level:            zap.NewAtomicLevelAt(level),
			Development:      true,
			Encoding:         "console",
			EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
			OutputPaths:      []string{"stderr"},
			ErrorOutputPaths: []string{"stderr"},
		}
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, _ := cfg.Build()
		slogger = logger.Sugar()
	default:
		cfg := zap.Config{
			Level:       zap.NewAtomicLevelAt(level),
			Development: false,
			Sampling: &zap.SamplingConfig{
				Initial:    100,
				Thereafter: 100,
			},
			Encoding:         "json",
			EncoderConfig:    zap.NewProductionEncoderConfig(),
			OutputPaths:      []string{"stderr"},
			ErrorOutputPaths: []string{"stderr"},
		}

		logger, _ := cfg.Build()
		slogger = logger.With(zap.String("service", "rtikit")).Sugar()
	}

	return slogger
}

// LogLevel parses a level name case-insensitively. Unknown names are INFO.
func LogLevel(level string) zapcore.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "INFO":
		return zapcore.InfoLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
