package mergecmd

import (
	"context"

	command "github.com/goliatone/go-command"

	docmerge "github.com/goliatone/go-docmerge"
	"github.com/goliatone/go-docmerge/internal/commands"
	"github.com/goliatone/go-docmerge/internal/logging"
	"github.com/goliatone/go-docmerge/pkg/interfaces"
)

const mergeOperation = "docmerge.merge_document"

var _ command.Commander[MergeDocumentCommand] = (*MergeDocumentHandler)(nil)

// PipelineBuilder constructs a pipeline for the resolved configuration.
// Injected so tests can substitute a recording builder.
type PipelineBuilder func(cfg docmerge.Config) (*docmerge.Pipeline, error)

// MergeDocumentHandler orchestrates merge runs via the shared command handler
// foundation.
type MergeDocumentHandler struct {
	inner *commands.Handler[MergeDocumentCommand]
}

// NewMergeDocumentHandler creates a handler that layers command fields over
// the supplied base configuration and executes the resulting pipeline.
func NewMergeDocumentHandler(base docmerge.Config, builder PipelineBuilder, logger interfaces.Logger, opts ...commands.HandlerOption[MergeDocumentCommand]) *MergeDocumentHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}
	if builder == nil {
		builder = func(cfg docmerge.Config) (*docmerge.Pipeline, error) {
			return docmerge.New(cfg)
		}
	}

	exec := func(ctx context.Context, msg MergeDocumentCommand) error {
		cfg := base
		cfg.Inputs = append([]string(nil), msg.Inputs...)
		if msg.Output != "" {
			cfg.Output = msg.Output
		}
		if msg.PageBreak != "" {
			cfg.PageBreak = msg.PageBreak
		}
		cfg.CheckOnly = msg.CheckOnly
		if msg.Verify {
			cfg.Verify = true
		}

		pipeline, err := builder(cfg)
		if err != nil {
			return err
		}
		if err := pipeline.Run(ctx); err != nil {
			return err
		}

		logging.WithFields(baseLogger, map[string]any{
			"inputs":     len(cfg.Inputs),
			"output":     cfg.Output,
			"check_only": cfg.CheckOnly,
		}).Info("docmerge.command.merge_document.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[MergeDocumentCommand]{
		commands.WithLogger[MergeDocumentCommand](baseLogger),
		commands.WithOperation[MergeDocumentCommand](mergeOperation),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &MergeDocumentHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[MergeDocumentCommand].
func (h *MergeDocumentHandler) Execute(ctx context.Context, msg MergeDocumentCommand) error {
	return h.inner.Execute(ctx, msg)
}
