package logging

import (
	"maps"

	"github.com/goliatone/go-docmerge/pkg/interfaces"
)

// WithFields returns logger with fields attached when the implementation
// opts into the FieldsLogger extension; otherwise logger comes back as-is.
// The map is copied before handoff so callers may keep mutating theirs.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}

	copied := make(map[string]any, len(fields))
	maps.Copy(copied, fields)
	return fieldsLogger.WithFields(copied)
}
