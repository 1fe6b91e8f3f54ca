package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// VerboseChecker interface for checking verbose state
type VerboseChecker interface {
	IsVerbose() bool
}

// Logger provides component-scoped logging with verbose support
type Logger struct {
	component      string
	verboseChecker VerboseChecker
	base           *logrus.Logger
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

var (
	stdOnce sync.Once
	std     *logrus.Logger
)

// standard returns the process-wide logrus instance shared by all components
func standard() *logrus.Logger {
	stdOnce.Do(func() {
		std = newBase(os.Stderr)
	})
	return std
}

func newBase(w io.Writer) *logrus.Logger {
	base := logrus.New()
	base.SetOutput(w)
	// verbosity is decided per call, so the backend passes everything through
	base.SetLevel(logrus.DebugLevel)
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
		DisableQuote:    true,
	})
	return base
}

// SetOutput redirects every logger sharing the standard backend.
// The interactive UI points it at io.Discard while the alt screen is active.
func SetOutput(w io.Writer) {
	standard().SetOutput(w)
}

// New creates a new logger instance
func New(component string, verboseChecker VerboseChecker) *Logger {
	return &Logger{
		component:      component,
		verboseChecker: verboseChecker,
		base:           standard(),
	}
}

// NewWithCallback creates a new logger instance with a callback function
func NewWithCallback(component string, verboseCheck func() bool) *Logger {
	return New(component, &callbackChecker{callback: verboseCheck})
}

// NewWithWriter creates a logger with its own backend writing to w
func NewWithWriter(component string, verboseChecker VerboseChecker, w io.Writer) *Logger {
	return &Logger{
		component:      component,
		verboseChecker: verboseChecker,
		base:           newBase(w),
	}
}

// Nop returns a logger that drops everything
func Nop() *Logger {
	return NewWithWriter("", nil, io.Discard)
}

// WithComponent creates a logger with a specific component name
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		component:      component,
		verboseChecker: l.verboseChecker,
		base:           l.base,
	}
}

// callbackChecker implements VerboseChecker with a callback function
type callbackChecker struct {
	callback func() bool
}

func (c *callbackChecker) IsVerbose() bool {
	if c.callback == nil {
		return false
	}
	return c.callback()
}

func (l *Logger) verbose() bool {
	return l.verboseChecker != nil && l.verboseChecker.IsVerbose()
}

// Debug logs debug messages (only when verbose=true)
func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.verbose() {
		l.entry(nil).Debug(fmt.Sprintf(msg, args...))
	}
}

// Info logs informational messages (only when verbose=true)
func (l *Logger) Info(msg string, args ...interface{}) {
	if l.verbose() {
		l.entry(nil).Info(fmt.Sprintf(msg, args...))
	}
}

// Warn logs warning messages (always shown)
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.entry(nil).Warn(fmt.Sprintf(msg, args...))
}

// Error logs error messages (always shown)
func (l *Logger) Error(msg string, args ...interface{}) {
	l.entry(nil).Error(fmt.Sprintf(msg, args...))
}

// DebugWithFields logs debug message with structured fields
func (l *Logger) DebugWithFields(msg string, fields []Field, args ...interface{}) {
	if l.verbose() {
		l.entry(fields).Debug(fmt.Sprintf(msg, args...))
	}
}

// InfoWithFields logs info message with structured fields
func (l *Logger) InfoWithFields(msg string, fields []Field, args ...interface{}) {
	if l.verbose() {
		l.entry(fields).Info(fmt.Sprintf(msg, args...))
	}
}

// WarnWithFields logs warning message with structured fields
func (l *Logger) WarnWithFields(msg string, fields []Field, args ...interface{}) {
	l.entry(fields).Warn(fmt.Sprintf(msg, args...))
}

func (l *Logger) entry(fields []Field) *logrus.Entry {
	component := l.component
	if component == "" {
		component = "main"
	}
	data := make(logrus.Fields, len(fields)+1)
	data["component"] = component
	for _, field := range fields {
		data[field.Key] = field.Value
	}
	return l.base.WithFields(data)
}

// Helper functions for common field types
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

func Count(value int) Field {
	return Field{Key: "count", Value: value}
}

func Duration(d time.Duration) Field {
	return Field{Key: "duration", Value: d}
}

func Error(err error) Field {
	return Field{Key: "error", Value: err}
}
