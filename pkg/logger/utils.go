package logger

import (
	"sort"

	"go.uber.org/zap"
)

// convertToZapFields converts an error and field maps into zap fields. Keys
// repeated across maps keep the value of the last map; fields are emitted in
// key order so entries are stable.
func convertToZapFields(err error, fields ...map[string]interface{}) []zap.Field {
	merged := make(map[string]interface{})
	for _, fieldMap := range fields {
		for key, value := range fieldMap {
			merged[key] = value
		}
	}

	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	zapFields := make([]zap.Field, 0, len(keys)+1)
	if err != nil {
		zapFields = append(zapFields, zap.Error(err))
	}
	for _, key := range keys {
		zapFields = append(zapFields, zap.Any(key, merged[key]))
	}
	return zapFields
}

// Info logs an informational message, along with an optional error and structured fields.
// Use Info for connection changes and other lifecycle events.
//
// Example:
//
//	logger.Info("Successfully connected to database", nil, map[string]interface{}{
//	    "driver": "mysql",
//	    "dsn":    "mysql:host=localhost;dbname=app;charset=utf8",
//	})
func (l *Logger) Info(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Info(msg, convertToZapFields(err, fields...)...)
}

// Debug logs a debug-level message. The facade logs every executed statement here.
func (l *Logger) Debug(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Debug(msg, convertToZapFields(err, fields...)...)
}

// Warn logs a warning, for failures that did not stop the current operation,
// such as a statement that could not be released.
func (l *Logger) Warn(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Warn(msg, convertToZapFields(err, fields...)...)
}

// Error logs an error message, including details of the error and additional context fields.
//
// Example:
//
//	if _, err := db.Execute(ctx); err != nil {
//	    logger.Error("statement failed", err, map[string]interface{}{
//	        "table": "users",
//	    })
//	}
func (l *Logger) Error(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Error(msg, convertToZapFields(err, fields...)...)
}

// Fatal logs a critical error message and terminates the application with os.Exit(1).
func (l *Logger) Fatal(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Fatal(msg, convertToZapFields(err, fields...)...)
}

// With returns a child logger that adds fields to every entry.
func (l *Logger) With(fields map[string]interface{}) *Logger {
	return &Logger{Zap: l.Zap.With(convertToZapFields(nil, fields)...)}
}
