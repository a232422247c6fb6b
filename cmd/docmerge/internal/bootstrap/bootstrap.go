package bootstrap

import (
	"fmt"
	"io"
	"strings"

	docmerge "github.com/goliatone/go-docmerge"
	mergecmd "github.com/goliatone/go-docmerge/internal/commands/merge"
	"github.com/goliatone/go-docmerge/internal/logging"
	"github.com/goliatone/go-docmerge/internal/logging/gologger"
	"github.com/goliatone/go-docmerge/pkg/interfaces"
)

// Options captures configuration for the docmerge CLI bootstrap.
type Options struct {
	// ConfigPath points at an optional JSON config file.
	ConfigPath string
	// PageBreak overrides the fragment separator when non-empty.
	PageBreak string
	// Verify enables the post-merge anchor integrity check.
	Verify bool
	// LogLevel and LogFormat override the logging configuration.
	LogLevel  string
	LogFormat string
	// Diagnostics receives the human-readable report stream.
	Diagnostics io.Writer
}

// Module wraps the configured command handler and its collaborators.
type Module struct {
	Config  docmerge.Config
	Handler *mergecmd.MergeDocumentHandler
	Logger  interfaces.Logger
}

// BuildModule assembles the pipeline handler from file config plus overrides.
func BuildModule(opts Options) (*Module, error) {
	cfg := docmerge.DefaultConfig()
	if path := strings.TrimSpace(opts.ConfigPath); path != "" {
		loaded, err := docmerge.LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if trimmed := strings.TrimSpace(opts.PageBreak); trimmed != "" {
		cfg.PageBreak = trimmed
	}
	if opts.Verify {
		cfg.Verify = true
	}
	if trimmed := strings.TrimSpace(opts.LogLevel); trimmed != "" {
		cfg.Logging.Level = trimmed
	}
	if trimmed := strings.TrimSpace(opts.LogFormat); trimmed != "" {
		cfg.Logging.Format = trimmed
	}

	provider, err := gologger.NewProvider(gologger.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
	})
	if err != nil {
		return nil, fmt.Errorf("bootstrap logger: %w", err)
	}

	builder := func(cfg docmerge.Config) (*docmerge.Pipeline, error) {
		pipelineOpts := []docmerge.Option{
			docmerge.WithLoggerProvider(provider),
		}
		if opts.Diagnostics != nil {
			pipelineOpts = append(pipelineOpts, docmerge.WithDiagnostics(opts.Diagnostics))
		}
		return docmerge.New(cfg, pipelineOpts...)
	}

	logger := logging.RootLogger(provider)

	return &Module{
		Config:  cfg,
		Handler: mergecmd.NewMergeDocumentHandler(cfg, builder, logger),
		Logger:  logger,
	}, nil
}
