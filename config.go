package docmerge

import "github.com/goliatone/go-docmerge/internal/runtimeconfig"

var (
	ErrInputsRequired          = runtimeconfig.ErrInputsRequired
	ErrOutputRequired          = runtimeconfig.ErrOutputRequired
	ErrOutputCollidesWithInput = runtimeconfig.ErrOutputCollidesWithInput
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config        = runtimeconfig.Config
	LoggingConfig = runtimeconfig.LoggingConfig
)

// DefaultPageBreak is the marker separating fragments in merged output.
const DefaultPageBreak = runtimeconfig.DefaultPageBreak

// DefaultConfig returns the baseline pipeline configuration.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfigFile reads and validates a JSON config file, layered over the
// defaults. Command-line flags take precedence over file values.
func LoadConfigFile(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}
