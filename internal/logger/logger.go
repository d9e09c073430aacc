// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger provides a thin wrapper around zerolog.Logger that adds
// convenience constructors used throughout go-conf-vault.
//
// The Logger type embeds zerolog.Logger so all standard zerolog methods
// (Debug, Info, Warn, Error, Fatal, etc.) are available directly on *Logger.
// Components receive a *Logger at construction; nothing logs through a global.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

func init() {
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"
}

// NewLogger constructs a *Logger for the given role label (e.g. "vaultctl",
// "store") writing JSON to os.Stderr at the given level, keeping stdout
// free for command output.
//
// Every entry carries a "role" field, a timestamp and a "func" caller field
// with the fully-qualified function name.
func NewLogger(role string, level zerolog.Level) *Logger {
	logger := zerolog.New(os.Stderr).Level(level).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{logger}
}

// NewFileLogger is NewLogger writing to <dir>/<role>.log instead of stderr.
// dir is created with mode 0700 and the file with 0600: log lines may name
// sections and options of the protected document.
func NewFileLogger(role, dir string, level zerolog.Level) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(dir, role+".log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	logger := zerolog.New(f).Level(level).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{logger}, nil
}

// Nop returns a *Logger that discards all log output.
// It is intended for use in tests and other contexts where logging is
// undesirable or would produce noise.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// WithComponent returns a child logger tagged with a "component" field.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{l.With().Str("component", name).Logger()}
}

// SetLevel changes the minimum level of l in place. Child loggers created
// earlier keep their level. Not safe for use while other goroutines log
// through l.
func (l *Logger) SetLevel(level zerolog.Level) {
	l.Logger = l.Logger.Level(level)
}

// LevelFromNumeric maps the numeric levels stored in App/log_level
// (10 debug, 20 info, 30 warning, 40 error, 50 critical) to zerolog levels.
// Values in between round down; anything below 10 enables trace.
func LevelFromNumeric(n int64) zerolog.Level {
	switch {
	case n >= 50:
		return zerolog.FatalLevel
	case n >= 40:
		return zerolog.ErrorLevel
	case n >= 30:
		return zerolog.WarnLevel
	case n >= 20:
		return zerolog.InfoLevel
	case n >= 10:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}
