// Package logging builds the process-wide zap logger from configuration.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum level: debug, info, warn, error.
	Level string `koanf:"level"`
	// Format selects the console encoder: json or console.
	Format string `koanf:"format"`
	// File, when set, adds a rotating JSON file sink alongside the
	// console output.
	File string `koanf:"file"`
	// MaxSizeMB is the rotation threshold for the file sink.
	MaxSizeMB int `koanf:"max_size_mb"`
	// MaxBackups is the number of rotated files kept.
	MaxBackups int `koanf:"max_backups"`
	// MaxAgeDays is the retention for rotated files.
	MaxAgeDays int `koanf:"max_age_days"`
}

// Validate checks level and format values.
func (c Config) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Level)
	}
	switch c.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid log format %q", c.Format)
	}
	return nil
}

// New builds a zap logger from config. The console core always writes
// to stdout; when File is set, a rotating JSON sink is teed in.
func New(cfg Config) (*zap.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logging config: %w", err)
	}

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.Set(cfg.Level); err != nil {
			return nil, fmt.Errorf("parsing log level: %w", err)
		}
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var consoleEncoder zapcore.Encoder
	if cfg.Format == "console" {
		devCfg := zap.NewDevelopmentEncoderConfig()
		devCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleEncoder = zapcore.NewConsoleEncoder(devCfg)
	} else {
		consoleEncoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), level),
	}

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefault(cfg.MaxSizeMB, 10),
			MaxBackups: orDefault(cfg.MaxBackups, 5),
			MaxAge:     orDefault(cfg.MaxAgeDays, 30),
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			zapcore.AddSync(rotator),
			level,
		))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}

// Nop returns a logger that discards everything. For tests.
func Nop() *zap.Logger {
	return zap.NewNop()
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
