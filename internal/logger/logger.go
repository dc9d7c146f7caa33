package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) logrus() logrus.Level {
	switch l {
	case DEBUG:
		return logrus.DebugLevel
	case WARN:
		return logrus.WarnLevel
	case ERROR:
		return logrus.ErrorLevel
	case FATAL:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

var levelNames = map[string]LogLevel{
	"debug":   DEBUG,
	"info":    INFO,
	"warn":    WARN,
	"warning": WARN,
	"error":   ERROR,
	"fatal":   FATAL,
}

// ParseLevel parses a log level name, returning -1 when unknown
func ParseLevel(level string) LogLevel {
	if l, ok := levelNames[strings.ToLower(level)]; ok {
		return l
	}
	return -1
}

// LogFormat represents the output format for logs
type LogFormat int

const (
	JSONFormat LogFormat = iota
	TextFormat
)

// ParseFormat parses "json" or "text", returning -1 otherwise
func ParseFormat(format string) LogFormat {
	switch strings.ToLower(format) {
	case "json":
		return JSONFormat
	case "text":
		return TextFormat
	}
	return -1
}

func (f LogFormat) formatter() logrus.Formatter {
	if f == TextFormat {
		return &logrus.TextFormatter{
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		}
	}
	return &logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "timestamp",
			logrus.FieldKeyMsg:  "message",
		},
	}
}

// Config holds logger configuration
type Config struct {
	Level     LogLevel
	Format    LogFormat
	Output    io.Writer
	Component string
}

// Logger is a component-scoped structured logger
type Logger struct {
	base  *logrus.Logger
	entry *logrus.Entry
}

// New creates a new logger with the given configuration
func New(config Config) *Logger {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	base := logrus.New()
	base.SetOutput(config.Output)
	base.SetLevel(config.Level.logrus())
	base.SetFormatter(config.Format.formatter())

	l := &Logger{base: base, entry: logrus.NewEntry(base)}
	if config.Component != "" {
		l.entry = l.entry.WithField("component", config.Component)
	}
	return l
}

// NewDefault creates a logger with default configuration
func NewDefault() *Logger {
	return New(Config{
		Level:  INFO,
		Format: JSONFormat,
		Output: os.Stdout,
	})
}

// WithComponent creates a logger sharing output and level, tagged with component
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		base:  l.base,
		entry: logrus.NewEntry(l.base).WithField("component", component),
	}
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level LogLevel) {
	l.base.SetLevel(level.logrus())
}

// SetFormat sets the log output format
func (l *Logger) SetFormat(format LogFormat) {
	l.base.SetFormatter(format.formatter())
}

func (l *Logger) with(fields []map[string]interface{}, err error) *logrus.Entry {
	e := l.entry
	if len(fields) > 0 && len(fields[0]) > 0 {
		e = e.WithFields(logrus.Fields(fields[0]))
	}
	if err != nil {
		e = e.WithError(err)
	}
	return e
}

// Debug logs a debug message
func (l *Logger) Debug(message string, fields ...map[string]interface{}) {
	l.with(fields, nil).Debug(message)
}

// Info logs an info message
func (l *Logger) Info(message string, fields ...map[string]interface{}) {
	l.with(fields, nil).Info(message)
}

// Warn logs a warning message
func (l *Logger) Warn(message string, fields ...map[string]interface{}) {
	l.with(fields, nil).Warn(message)
}

// Error logs an error message
func (l *Logger) Error(message string, err error, fields ...map[string]interface{}) {
	l.with(fields, err).Error(message)
}

// Fatal logs a fatal message and exits the program
func (l *Logger) Fatal(message string, err error, fields ...map[string]interface{}) {
	l.with(fields, err).Fatal(message)
}
