// Package logging is a small level filter wrapping the standard library's
// log package, gated by the LOG_LEVEL environment variable (spec.md §6,
// SPEC_FULL.md §10.1). At the default info level it suppresses debug-level
// detail; raising the level to warn or error also suppresses Infof (and, at
// error, Warnf). Errorf always logs. Output goes to stderr via log.Printf, matching
// the teacher's own plain log.Printf/log.Fatalf call sites throughout
// internal/server.
package logging

import (
	"log"
	"strings"
)

// Level is a logging verbosity threshold.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps LOG_LEVEL's accepted values to a Level, defaulting to
// LevelInfo for an empty or unrecognized string.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	case "info", "":
		return LevelInfo
	default:
		return LevelInfo
	}
}

// Logger gates log.Printf calls below its configured Level.
type Logger struct {
	level Level
}

// New creates a Logger at the given level.
func New(level Level) *Logger {
	return &Logger{level: level}
}

// Debugf logs only if the logger's level is LevelDebug.
func (l *Logger) Debugf(format string, args ...any) {
	if l.level <= LevelDebug {
		log.Printf("DEBUG "+format, args...)
	}
}

// Infof logs unless the logger's level is above LevelInfo.
func (l *Logger) Infof(format string, args ...any) {
	if l.level <= LevelInfo {
		log.Printf("INFO "+format, args...)
	}
}

// Warnf logs unless the logger's level is above LevelWarn.
func (l *Logger) Warnf(format string, args ...any) {
	if l.level <= LevelWarn {
		log.Printf("WARN "+format, args...)
	}
}

// Errorf always logs: error is the highest level callers can configure.
func (l *Logger) Errorf(format string, args ...any) {
	log.Printf("ERROR "+format, args...)
}
