package runtimeconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// configSchema constrains the optional JSON config file. Unknown keys are
// rejected so typos fail loudly instead of silently falling back to defaults.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "inputs": {
      "type": "array",
      "items": {"type": "string", "minLength": 1}
    },
    "output": {"type": "string"},
    "page_break": {"type": "string"},
    "verify": {"type": "boolean"},
    "logging": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "level": {"type": "string", "enum": ["trace", "debug", "info", "warn", "warning", "error", "fatal"]},
        "format": {"type": "string", "enum": ["console", "json", "pretty"]},
        "add_source": {"type": "boolean"}
      }
    }
  }
}`

type fileConfig struct {
	Inputs    []string `json:"inputs"`
	Output    string   `json:"output"`
	PageBreak string   `json:"page_break"`
	Verify    bool     `json:"verify"`
	Logging   struct {
		Level     string `json:"level"`
		Format    string `json:"format"`
		AddSource bool   `json:"add_source"`
	} `json:"logging"`
}

// LoadFile reads a JSON config file, validates it against the embedded
// schema, and layers it over DefaultConfig. Flags are expected to take
// precedence over file values; callers apply them afterwards.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("docmerge config: read %s: %w", path, err)
	}

	compiled, err := jsonschema.CompileString("docmerge-config.json", configSchema)
	if err != nil {
		return cfg, fmt.Errorf("docmerge config: compile schema: %w", err)
	}

	var payload any
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return cfg, fmt.Errorf("docmerge config: parse %s: %w", path, err)
	}
	if err := compiled.Validate(payload); err != nil {
		return cfg, fmt.Errorf("docmerge config: validate %s: %w", path, err)
	}

	var file fileConfig
	if err := json.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("docmerge config: decode %s: %w", path, err)
	}

	if len(file.Inputs) > 0 {
		cfg.Inputs = append([]string(nil), file.Inputs...)
	}
	if file.Output != "" {
		cfg.Output = file.Output
	}
	if file.PageBreak != "" {
		cfg.PageBreak = file.PageBreak
	}
	cfg.Verify = file.Verify
	if file.Logging.Level != "" {
		cfg.Logging.Level = file.Logging.Level
	}
	if file.Logging.Format != "" {
		cfg.Logging.Format = file.Logging.Format
	}
	if file.Logging.AddSource {
		cfg.Logging.AddSource = true
	}

	return cfg, nil
}
