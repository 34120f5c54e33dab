// Package logger provides structured JSON logging for the seat monitor.
//
// Logs go to a single writer as one JSON object per line, with a level, a
// message, optional structured fields, and an optional error. A package
// default logger backs the convenience functions; the CLI swaps it for a
// debug-level logger when --verbose is set.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Level represents log severity.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// Fields holds structured log fields.
type Fields map[string]interface{}

// Logger writes structured log entries at or above a minimum level.
type Logger struct {
	minLevel Level
	out      io.Writer
}

type entry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Fields    Fields `json:"fields,omitempty"`
	Error     string `json:"error,omitempty"`
}

var defaultLogger = New(LevelInfo, os.Stdout)

// New creates a logger that discards messages below the given level.
func New(level Level, out io.Writer) *Logger {
	return &Logger{minLevel: level, out: out}
}

// SetDefault replaces the package-level logger used by the convenience
// functions.
func SetDefault(l *Logger) {
	defaultLogger = l
}

func (l *Logger) log(level Level, message string, fields Fields, err error) {
	if levelRank[level] < levelRank[l.minLevel] {
		return
	}

	e := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     string(level),
		Message:   message,
		Fields:    fields,
	}
	if err != nil {
		e.Error = err.Error()
	}

	data, marshalErr := json.Marshal(e)
	if marshalErr != nil {
		fmt.Fprintf(l.out, "[%s] %s: %s (marshal error: %v)\n",
			e.Timestamp, e.Level, e.Message, marshalErr)
		return
	}
	fmt.Fprintln(l.out, string(data))
}

// Debug logs a debug message with optional structured fields.
func (l *Logger) Debug(message string, fields Fields) {
	l.log(LevelDebug, message, fields, nil)
}

// Info logs an informational message with optional structured fields.
func (l *Logger) Info(message string, fields Fields) {
	l.log(LevelInfo, message, fields, nil)
}

// Warn logs a warning with optional structured fields.
func (l *Logger) Warn(message string, fields Fields) {
	l.log(LevelWarn, message, fields, nil)
}

// Error logs a failure with optional structured fields and an error.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// Debug logs a debug message with the default logger.
func Debug(message string, fields Fields) {
	defaultLogger.Debug(message, fields)
}

// Info logs an info message with the default logger.
func Info(message string, fields Fields) {
	defaultLogger.Info(message, fields)
}

// Warn logs a warning with the default logger.
func Warn(message string, fields Fields) {
	defaultLogger.Warn(message, fields)
}

// Error logs an error with the default logger.
func Error(message string, fields Fields, err error) {
	defaultLogger.Error(message, fields, err)
}
