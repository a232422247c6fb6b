// Package merge performs the final pass: it streams validated fragments into
// one output document, pinning every heading to a globally-unique anchor and
// retargeting cross-file links at those anchors.
package merge

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-docmerge/internal/label"
	"github.com/goliatone/go-docmerge/internal/links"
	"github.com/goliatone/go-docmerge/internal/logging"
	"github.com/goliatone/go-docmerge/internal/markdown"
	"github.com/goliatone/go-docmerge/pkg/interfaces"
)

// DefaultPageBreak separates fragments in the merged document. The downstream
// document compiler treats it as a page boundary.
const DefaultPageBreak = `\newpage`

// Config tunes the merge pass.
type Config struct {
	// PageBreak is the marker emitted after each fragment. Empty selects
	// DefaultPageBreak.
	PageBreak string
}

// Merger rewrites and concatenates fragments. It must only run after link
// validation succeeded; it assumes every cross-file link resolves.
type Merger struct {
	resolver  interfaces.IdentityResolver
	logger    interfaces.Logger
	pageBreak string
}

// New constructs a Merger sharing the pipeline's identity resolver.
func New(resolver interfaces.IdentityResolver, logger interfaces.Logger, cfg Config) *Merger {
	if logger == nil {
		logger = logging.NoOp()
	}
	pageBreak := cfg.PageBreak
	if pageBreak == "" {
		pageBreak = DefaultPageBreak
	}
	return &Merger{resolver: resolver, logger: logger, pageBreak: pageBreak}
}

// Run writes the merged document to outputPath, truncating any previous file.
// Output is written incrementally, so a failure mid-stream leaves a partial
// file behind; the destination handle is closed on every exit path and the
// partial file should be considered invalid.
func (m *Merger) Run(ctx context.Context, fragments []*markdown.Fragment, outputPath string) (err error) {
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("merge: create output %s: %w", outputPath, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("merge: close output %s: %w", outputPath, closeErr)
		}
	}()

	w := bufio.NewWriter(out)

	for _, fragment := range fragments {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.writeFragment(w, fragment); err != nil {
			return err
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("merge: flush output %s: %w", outputPath, err)
	}

	m.logger.Info("merge.completed", "output", outputPath, "fragments", len(fragments))
	return nil
}

func (m *Merger) writeFragment(w *bufio.Writer, fragment *markdown.Fragment) error {
	prefix, err := m.resolver.Resolve(fragment.Path)
	if err != nil {
		return fmt.Errorf("merge: identity for %s: %w", fragment.Path, err)
	}

	sourceDir := filepath.Dir(fragment.Path)

	for _, line := range fragment.Lines {
		rewritten, err := m.rewriteLine(sourceDir, prefix, line)
		if err != nil {
			return fmt.Errorf("merge: rewrite line in %s: %w", fragment.Path, err)
		}
		if _, err := w.WriteString(rewritten + "\n"); err != nil {
			return fmt.Errorf("merge: write output: %w", err)
		}
	}

	// Page break after every fragment, padded so the marker stays its own block.
	if _, err := w.WriteString("\n" + m.pageBreak + "\n\n"); err != nil {
		return fmt.Errorf("merge: write page break: %w", err)
	}

	return nil
}

// rewriteLine retargets the line's cross-file links and, when the line is a
// heading, appends its explicit anchor. The label is recomputed from the
// original heading text so the anchor matches the registry's view exactly.
func (m *Merger) rewriteLine(sourceDir string, prefix interfaces.FileIdentity, line string) (string, error) {
	heading, isHeading := label.ParseHeading(line)

	var rewriteErr error
	rewritten := links.RewriteLine(line, func(link links.Link) (string, bool) {
		if rewriteErr != nil || !link.HasLabel() {
			// Direct links never survive validation; leaving one untouched
			// here only happens when the merger runs on unvalidated input.
			return "", false
		}
		target, err := m.resolver.Resolve(filepath.Join(sourceDir, link.Path))
		if err != nil {
			rewriteErr = err
			return "", false
		}
		return "#" + target.String() + "-" + link.Label, true
	})
	if rewriteErr != nil {
		return "", rewriteErr
	}

	if isHeading {
		rewritten = strings.TrimRight(rewritten, " \t") +
			" {#" + prefix.String() + "-" + heading.Label + "}"
	}

	return rewritten, nil
}
