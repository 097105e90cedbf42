// Package logger provides leveled diagnostics for the simulator.
// Player-facing output does not go through here.
package logger

import (
	"io"
	"log"
)

// Logger writes prefixed lines per level
type Logger struct {
	debugLogger *log.Logger
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	debug       bool
}

// New creates a logger writing every level to w. Debug lines are dropped unless verbose.
func New(w io.Writer, verbose bool) *Logger {
	flags := log.Ldate | log.Ltime
	if verbose {
		flags |= log.Lshortfile
	}
	return &Logger{
		debugLogger: log.New(w, "[SIM-DEBUG] ", flags),
		infoLogger:  log.New(w, "[SIM-INFO] ", flags),
		warnLogger:  log.New(w, "[SIM-WARN] ", flags),
		errorLogger: log.New(w, "[SIM-ERROR] ", flags),
		debug:       verbose,
	}
}

// Discard returns a logger that writes nowhere
func Discard() *Logger {
	return New(io.Discard, false)
}

// Debugf logs a message only in verbose mode
func (l *Logger) Debugf(format string, args ...any) {
	if l == nil || !l.debug {
		return
	}
	l.debugLogger.Printf(format, args...)
}

// Infof logs informational messages
func (l *Logger) Infof(format string, args ...any) {
	if l == nil {
		return
	}
	l.infoLogger.Printf(format, args...)
}

// Warnf logs warning messages
func (l *Logger) Warnf(format string, args ...any) {
	if l == nil {
		return
	}
	l.warnLogger.Printf(format, args...)
}

// Errorf logs error messages
func (l *Logger) Errorf(format string, args ...any) {
	if l == nil {
		return
	}
	l.errorLogger.Printf(format, args...)
}

// Event logs a game event with the turn it happened on
func (l *Logger) Event(kind string, turn int, details string) {
	if l == nil {
		return
	}
	l.infoLogger.Printf("[EVENT:%s] turn=%d | %s", kind, turn, details)
}
