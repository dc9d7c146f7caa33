package logger

import "os"

// std backs the package-level helpers. LOG_LEVEL and LOG_FORMAT apply
// until a caller installs its own logger with SetGlobalLogger.
var std = fromEnv(NewDefault())

func fromEnv(l *Logger) *Logger {
	if level := ParseLevel(os.Getenv("LOG_LEVEL")); level != -1 {
		l.SetLevel(level)
	}
	if format := ParseFormat(os.Getenv("LOG_FORMAT")); format != -1 {
		l.SetFormat(format)
	}
	return l
}

// GetGlobalLogger returns the package-level logger
func GetGlobalLogger() *Logger { return std }

// SetGlobalLogger replaces the package-level logger
func SetGlobalLogger(l *Logger) { std = l }

func Debug(message string, fields ...map[string]interface{}) { std.Debug(message, fields...) }

func Info(message string, fields ...map[string]interface{}) { std.Info(message, fields...) }

func Warn(message string, fields ...map[string]interface{}) { std.Warn(message, fields...) }

func Error(message string, err error, fields ...map[string]interface{}) {
	std.Error(message, err, fields...)
}

// Fatal logs and exits with status 1
func Fatal(message string, err error, fields ...map[string]interface{}) {
	std.Fatal(message, err, fields...)
}
