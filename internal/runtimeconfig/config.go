// Package runtimeconfig carries the pipeline configuration and its
// validation rules.
package runtimeconfig

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrInputsRequired indicates an invocation without input files.
var ErrInputsRequired = errors.New("docmerge config: at least one input file is required")

// ErrOutputRequired indicates a missing output path.
var ErrOutputRequired = errors.New("docmerge config: output path is required")

// ErrOutputCollidesWithInput guards against truncating an input in place.
var ErrOutputCollidesWithInput = errors.New("docmerge config: output path collides with an input file")

// ErrLoggingLevelInvalid flags an unsupported logging level.
var ErrLoggingLevelInvalid = errors.New("docmerge config: logging level is invalid")

// ErrLoggingFormatInvalid flags an unsupported logging format.
var ErrLoggingFormatInvalid = errors.New("docmerge config: logging format is invalid")

// DefaultPageBreak is the fragment separator handed to the downstream
// document compiler.
const DefaultPageBreak = `\newpage`

// Config aggregates the merge pipeline settings. Fields intentionally use
// simple types so host applications can extend them later.
type Config struct {
	// Inputs are the markdown fragments, in final document order.
	Inputs []string
	// Output is the merged document path, truncated before writing.
	Output string
	// PageBreak is emitted between fragments; empty selects DefaultPageBreak.
	PageBreak string
	// CheckOnly stops after validation; no output is written.
	CheckOnly bool
	// Verify re-parses the merged output and checks anchor integrity.
	Verify bool
	// Logging configures the go-logger provider.
	Logging LoggingConfig
}

// LoggingConfig mirrors the options exposed by the go-logger adapter.
type LoggingConfig struct {
	Level     string
	Format    string
	AddSource bool
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	return Config{
		PageBreak: DefaultPageBreak,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate ensures the configuration can drive a run.
func (c Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrInputsRequired
	}
	if strings.TrimSpace(c.Output) == "" && !c.CheckOnly {
		return ErrOutputRequired
	}

	if !c.CheckOnly {
		output := filepath.Clean(c.Output)
		for _, input := range c.Inputs {
			if filepath.Clean(input) == output {
				return ErrOutputCollidesWithInput
			}
		}
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return ErrLoggingLevelInvalid
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json", "pretty":
	default:
		return ErrLoggingFormatInvalid
	}

	return nil
}
