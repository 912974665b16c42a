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
)

// A Level is a logging priority. Higher levels are more important.
type Level int8

// Logging levels (matching zap core internals).
const (
	DebugLevel Level = -1
	InfoLevel  Level = 0
	WarnLevel  Level = 1
	ErrorLevel Level = 2
	PanicLevel Level = 4
	FatalLevel Level = 5
)

// ParseLevel parses a level string ("debug", "info", "warning", ...) into a Level.
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
		return Level(100), fmt.Errorf("log level \"%s\" is not supported", l)
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

// Logger is a zap logger carrying its own atomic level, so every named
// child can be tuned independently by its service configuration.
type Logger struct {
	*zap.Logger
	level   zap.AtomicLevel
	encoder zapcore.Encoder
	name    string
}

func newLogger(encoder zapcore.Encoder, lvl zapcore.Level, name string) *Logger {
	level := zap.NewAtomicLevelAt(lvl)
	core := zapcore.NewCore(encoder.Clone(), zapcore.Lock(os.Stdout), level)
	l := zap.New(core, zap.AddCaller())
	if name != "" {
		l = l.Named(name)
	}
	return &Logger{
		Logger:  l,
		level:   level,
		encoder: encoder,
		name:    name,
	}
}

func (log *Logger) GetLevel() Level {
	return Level(log.level.Level())
}

func (log *Logger) SetLevel(level Level) {
	if log.GetLevel() == level {
		return
	}
	log.level.SetLevel(zapcore.Level(level))
}

func (log *Logger) GetName() string {
	return log.name
}

// Named returns a child logger, its name is appended to the parent's one
// with a dot separator. The child starts at the parent's level.
func (log *Logger) Named(name string) *Logger {
	if log.name != "" {
		name = log.name + "." + name
	}
	return newLogger(log.encoder, log.level.Level(), name)
}

// AtExit flushes the logs before exiting the process. This is meant to be
// used with defer when initializing your logger.
func (log *Logger) AtExit() {
	if log.Logger != nil {
		_ = log.Logger.Sync()
	}
}

// NewLoggerFromConfig builds the root logger for the configured environment.
// An unknown level falls back to the environment's default.
func NewLoggerFromConfig(cfg Config) *Logger {
	log := newLoggerFromEnv(cfg.Environment)
	if len(cfg.Level) > 0 {
		if lvl, err := ParseLevel(cfg.Level); err == nil {
			log.SetLevel(lvl)
		}
	}
	return log
}

// NewTestLogger returns a development logger at debug level, for tests.
func NewTestLogger() *Logger {
	return newLoggerFromEnv("dev")
}

func newLoggerFromEnv(env string) *Logger {
	if env == "dev" {
		return newLogger(zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			CallerKey:      "C",
			EncodeCaller:   zapcore.ShortCallerEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeName:     zapcore.FullNameEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			LevelKey:       "L",
			LineEnding:     "\n",
			MessageKey:     "M",
			NameKey:        "N",
			TimeKey:        "T",
		}), zapcore.DebugLevel, "")
	}

	return newLogger(zapcore.NewJSONEncoder(zapcore.EncoderConfig{
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
	}), zapcore.InfoLevel, "")
}
