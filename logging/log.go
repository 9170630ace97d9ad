// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// A Level is a logging priority. Higher levels are more important.
type Level int8

// Logging levels (matching zap core internals).
const (
	// DebugLevel logs are typically voluminous, and are usually disabled in
	// production.
	DebugLevel Level = -1
	// InfoLevel is the default logging priority.
	InfoLevel Level = 0
	// WarnLevel logs are more important than Info, but don't need individual
	// human review.
	WarnLevel Level = 1
	// ErrorLevel logs are high-priority. If an application is running smoothly,
	// it shouldn't generate any error-level logs.
	ErrorLevel Level = 2
	// PanicLevel logs a message, then panics.
	PanicLevel Level = 4
	// FatalLevel logs a message, then calls os.Exit(1).
	FatalLevel Level = 5
)

// ParseLevel parses a level from its textual representation.
func ParseLevel(l string) (Level, error) {
	switch strings.ToLower(l) {
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warning", "warn":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "panic":
		return PanicLevel, nil
	case "fatal":
		return FatalLevel, nil
	default:
		return Level(100), fmt.Errorf("log level %q is not supported", l)
	}
}

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "Debug"
	case InfoLevel:
		return "Info"
	case WarnLevel:
		return "Warning"
	case ErrorLevel:
		return "Error"
	case PanicLevel:
		return "Panic"
	case FatalLevel:
		return "Fatal"
	default:
		return "Unknown"
	}
}

func (l *Level) ZapLevel() zapcore.Level {
	return zapcore.Level(*l)
}

type Logger struct {
	*zap.Logger
	config *zap.Config
	core   zapcore.Core
	level  zap.AtomicLevel
	name   string
}

func (log *Logger) GetLevel() Level {
	return (Level)(log.level.Level())
}

func (log *Logger) GetLevelString() string {
	return log.level.String()
}

func (log *Logger) GetName() string {
	return log.name
}

// Named returns a child logger with its own level, so a package can be made
// more or less verbose without affecting its parent.
func (log *Logger) Named(name string) *Logger {
	newName := name
	if log.name != "" {
		newName = fmt.Sprintf("%s.%s", log.name, name)
	}
	level := zap.NewAtomicLevelAt(log.level.Level())
	core := &leveledCore{Core: log.core, level: level}
	return &Logger{
		Logger: zap.New(core, zap.AddCaller()).Named(newName),
		config: log.config,
		core:   log.core,
		level:  level,
		name:   newName,
	}
}

func newLogger(core zapcore.Core, cfg *zap.Config) *Logger {
	level := cfg.Level
	return &Logger{
		Logger: zap.New(&leveledCore{Core: core, level: level}, zap.AddCaller()),
		config: cfg,
		core:   core,
		level:  level,
	}
}

func (log *Logger) SetLevel(level Level) {
	lvl := (zapcore.Level)(level)
	if log.level.Level() == lvl {
		return
	}
	log.level.SetLevel(lvl)
}

func (log *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{
		Logger: log.Logger.With(fields...),
		config: log.config,
		core:   log.core.With(fields),
		level:  log.level,
		name:   log.name,
	}
}

// AtExit flushes the logs before exiting the process. Useful when an
// app shuts down so we store all logging possible. This is meant to be used
// with defer when initializing your logger
func (log *Logger) AtExit() {
	if log.Logger != nil {
		_ = log.Logger.Sync()
	}
}

// NewLoggerFromConfig builds the root logger of the node.
func NewLoggerFromConfig(cfg Config) *Logger {
	log := NewLoggerFromEnv(cfg.Environment)
	if cfg.File.Enabled && cfg.File.Path != "" {
		log = log.withFileOutput(cfg.File)
	}
	if cfg.Level != "" {
		if lvl, err := ParseLevel(cfg.Level); err == nil {
			log.SetLevel(lvl)
		}
	}
	return log
}

// NewTestLogger is a development logger writing to stdout, to be used in tests.
func NewTestLogger() *Logger {
	return NewLoggerFromEnv("dev")
}

func NewLoggerFromEnv(env string) *Logger {
	var encoderConfig zapcore.EncoderConfig
	var encoder zapcore.Encoder
	var config zap.Config
	var level zapcore.Level

	switch env {
	case "dev":
		encoderConfig = zapcore.EncoderConfig{
			CallerKey:      "C",
			EncodeCaller:   zapcore.ShortCallerEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			LevelKey:       "L",
			LineEnding:     "\n",
			MessageKey:     "M",
			NameKey:        "N",
			TimeKey:        "T",
		}
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
		level = zapcore.Level(DebugLevel)
		config = zap.Config{
			Level:            zap.NewAtomicLevelAt(level),
			Development:      true,
			Encoding:         "console",
			EncoderConfig:    encoderConfig,
			OutputPaths:      []string{"stdout"},
			ErrorOutputPaths: []string{"stderr"},
		}
	default:
		encoderConfig = zapcore.EncoderConfig{
			CallerKey:      "caller",
			EncodeCaller:   zapcore.ShortCallerEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeName:     zapcore.FullNameEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			LevelKey:       "level",
			LineEnding:     "\n",
			MessageKey:     "message",
			NameKey:        "logger",
			StacktraceKey:  "stacktrace",
			TimeKey:        "@timestamp",
		}
		encoder = zapcore.NewJSONEncoder(encoderConfig)
		level = zapcore.Level(InfoLevel)
		config = zap.Config{
			Level:            zap.NewAtomicLevelAt(level),
			Development:      false,
			Encoding:         "json",
			EncoderConfig:    encoderConfig,
			OutputPaths:      []string{"stdout"},
			ErrorOutputPaths: []string{"stderr"},
		}
	}

	// the core accepts everything, filtering is done by the leveled core of
	// each logger
	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), zapcore.Level(DebugLevel))
	return newLogger(core, &config)
}

// withFileOutput tees the logs into a rotating JSON file.
func (log *Logger) withFileOutput(cfg FileConfig) *Logger {
	fileEncoderCfg := log.config.EncoderConfig
	fileEncoderCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	})
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderCfg), writer, zapcore.Level(DebugLevel))
	core := zapcore.NewTee(log.core, fileCore)
	return newLogger(core, log.config)
}

// Errorf logs with a printf-like interface.
func (log *Logger) Errorf(s string, args ...interface{}) {
	log.Logger.WithOptions(zap.AddCallerSkip(1)).Sugar().Errorf(strings.TrimSpace(s), args...)
}

func (log *Logger) Warningf(s string, args ...interface{}) {
	log.Logger.WithOptions(zap.AddCallerSkip(1)).Sugar().Warnf(strings.TrimSpace(s), args...)
}

func (log *Logger) Infof(s string, args ...interface{}) {
	log.Logger.WithOptions(zap.AddCallerSkip(1)).Sugar().Infof(strings.TrimSpace(s), args...)
}

func (log *Logger) Debugf(s string, args ...interface{}) {
	log.Logger.WithOptions(zap.AddCallerSkip(1)).Sugar().Debugf(strings.TrimSpace(s), args...)
}

// leveledCore gates a shared core behind a per logger level.
type leveledCore struct {
	zapcore.Core
	level zap.AtomicLevel
}

func (c *leveledCore) Enabled(l zapcore.Level) bool {
	return c.level.Enabled(l)
}

func (c *leveledCore) With(fields []zapcore.Field) zapcore.Core {
	return &leveledCore{Core: c.Core.With(fields), level: c.level}
}

func (c *leveledCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}
