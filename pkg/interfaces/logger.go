package interfaces

import "context"

// Logger is the leveled logging contract threaded through the merge passes.
// The method set matches github.com/goliatone/go-logger, so hosts already on
// that stack can hand their loggers straight in.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out named loggers. The pipeline requests one per pass
// (docmerge.registry, docmerge.validate, docmerge.merge); a provider is free
// to return the same instance for every name.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is the optional extension for persistent structured fields.
// WithFields returns a logger that carries the fields on every entry.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
