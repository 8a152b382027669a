package interfaces

// Logger is the structured logging contract every seolens component writes
// to: the fetcher, the checkers, the history store and the HTTP server all
// take one and derive a child via With for their component field. Keeping
// the interface here and the implementation in internal/logging lets tests
// inject a recording logger without pulling in any output machinery.
type Logger interface {
	// Debug logs a debug-level message.
	Debug(msg string, fields ...Field)

	// Info logs an informational message.
	Info(msg string, fields ...Field)

	// Warn logs a warning.
	Warn(msg string, fields ...Field)

	// Error logs an error.
	Error(msg string, fields ...Field)

	// With returns a child logger with persistent fields.
	With(fields ...Field) Logger
}

// Field is a key/value pair attached to a log line, like the component name
// or the URL under analysis.
type Field struct {
	Key   string
	Value interface{}
}
