// Package docmerge validates and merges markdown fragments that reference
// each other through relative-path anchor links, producing a single document
// with globally-unique anchors for a downstream document compiler.
//
// A run is three strictly sequential passes: build the label registry over
// all inputs, validate every cross-file link against it, and only then stream
// the rewritten fragments into the output file. Any validation error aborts
// the run before the output is touched.
package docmerge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-docmerge/internal/identity"
	"github.com/goliatone/go-docmerge/internal/logging"
	"github.com/goliatone/go-docmerge/internal/markdown"
	"github.com/goliatone/go-docmerge/internal/merge"
	"github.com/goliatone/go-docmerge/internal/registry"
	"github.com/goliatone/go-docmerge/internal/validate"
	"github.com/goliatone/go-docmerge/pkg/interfaces"
)

// ErrValidationFailed is returned by Run when link validation rejected the
// document set. The per-link details have already been written to the
// diagnostics writer by then.
var ErrValidationFailed = errors.New("docmerge: link validation failed")

const validationFailedCode = "LINK_VALIDATION_FAILED"

// Pipeline wires the three passes around one shared identity resolver.
type Pipeline struct {
	cfg         Config
	resolver    interfaces.IdentityResolver
	provider    interfaces.LoggerProvider
	logger      interfaces.Logger
	diagnostics io.Writer
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithLoggerProvider injects the logging provider used for pass-scoped loggers.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(p *Pipeline) {
		p.provider = provider
	}
}

// WithDiagnostics redirects the human-readable report stream (context dump,
// warnings, validation errors). Defaults to standard output.
func WithDiagnostics(w io.Writer) Option {
	return func(p *Pipeline) {
		if w != nil {
			p.diagnostics = w
		}
	}
}

// WithResolver swaps the identity resolver. Intended for tests; production
// runs use the filesystem-backed resolver.
func WithResolver(resolver interfaces.IdentityResolver) Option {
	return func(p *Pipeline) {
		if resolver != nil {
			p.resolver = resolver
		}
	}
}

// New validates cfg and assembles a Pipeline.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid configuration").
			WithTextCode("CONFIG_INVALID")
	}

	p := &Pipeline{
		cfg:         cfg,
		resolver:    identity.NewResolver(),
		diagnostics: os.Stdout,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.RootLogger(p.provider)

	return p, nil
}

// Run executes the pipeline. It returns a CategoryValidation error when links
// were rejected and plain errors for I/O or internal identity failures. No
// output file is produced unless validation passed.
func (p *Pipeline) Run(ctx context.Context) error {
	fragments, err := markdown.LoadFragments(ctx, p.cfg.Inputs)
	if err != nil {
		return err
	}

	reg, err := p.buildRegistry(fragments)
	if err != nil {
		return err
	}
	p.reportRegistry(reg)

	report, err := validate.New(p.resolver, reg, logging.ValidateLogger(p.provider)).Run(ctx, fragments)
	if err != nil {
		return err
	}
	if !report.Empty() {
		report.Write(p.diagnostics)
		p.logger.Error("docmerge.validation.failed", "errors", report.Len(), "files", len(report.Sources()))
		return goerrors.Wrap(ErrValidationFailed, goerrors.CategoryValidation,
			fmt.Sprintf("%d invalid links across %d files", report.Len(), len(report.Sources()))).
			WithTextCode(validationFailedCode)
	}
	p.logger.Info("docmerge.validation.passed", "files", len(fragments))

	if p.cfg.CheckOnly {
		p.logger.Info("docmerge.check_only", "files", len(fragments))
		return nil
	}

	merger := merge.New(p.resolver, logging.MergeLogger(p.provider), merge.Config{
		PageBreak: p.cfg.PageBreak,
	})
	if err := merger.Run(ctx, fragments, p.cfg.Output); err != nil {
		return err
	}

	if p.cfg.Verify {
		if err := markdown.VerifyMergedFile(p.cfg.Output); err != nil {
			return err
		}
		p.logger.Info("docmerge.verify.passed", "output", p.cfg.Output)
	}

	return nil
}

func (p *Pipeline) buildRegistry(fragments []*markdown.Fragment) (*registry.Registry, error) {
	builder := registry.NewBuilder(p.resolver, logging.RegistryLogger(p.provider))
	for _, fragment := range fragments {
		if err := builder.AddFile(fragment); err != nil {
			return nil, err
		}
	}
	return builder.Build(), nil
}

// reportRegistry emits the context dump and the within-file clash warnings.
// Clashes alone never abort a run; they only matter once a link targets one.
func (p *Pipeline) reportRegistry(reg *registry.Registry) {
	reg.Dump(p.diagnostics)
	for _, warning := range reg.Warnings() {
		fmt.Fprintf(p.diagnostics, "warning: duplicate labels in %s: %s\n",
			warning.Path, strings.Join(warning.Labels, ", "))
		p.logger.Warn("docmerge.registry.clash", "path", warning.Path, "labels", warning.Labels)
	}
}
