// Package validate checks every cross-file link against the completed label
// registry, grouping failures per source file.
package validate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/goliatone/go-docmerge/internal/identity"
	"github.com/goliatone/go-docmerge/internal/links"
	"github.com/goliatone/go-docmerge/internal/logging"
	"github.com/goliatone/go-docmerge/internal/markdown"
	"github.com/goliatone/go-docmerge/internal/registry"
	"github.com/goliatone/go-docmerge/pkg/interfaces"
)

// Kind classifies a link validation failure.
type Kind int

const (
	// KindDirectLink flags a cross-file link with no section anchor. Whole-file
	// links have no defined merge target, so they are forbidden outright.
	KindDirectLink Kind = iota
	// KindDeadFileLink flags a target file that is not among the inputs.
	KindDeadFileLink
	// KindDeadLabelLink flags a known target file lacking the referenced label.
	KindDeadLabelLink
	// KindLabelClash flags a referenced label the target defines more than once.
	KindLabelClash
)

// String renders the kind for the diagnostics report.
func (k Kind) String() string {
	switch k {
	case KindDirectLink:
		return "direct link"
	case KindDeadFileLink:
		return "dead file link"
	case KindDeadLabelLink:
		return "dead label link"
	case KindLabelClash:
		return "label clash"
	default:
		return "unknown"
	}
}

// LinkError is one invalid link, reported under its source file.
type LinkError struct {
	Kind   Kind
	Target string
	Label  string
}

// Error renders a single report line naming the kind, file, and label.
func (e LinkError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Target)
	}
	return fmt.Sprintf("%s: %s#%s", e.Kind, e.Target, e.Label)
}

// Report accumulates link errors grouped by source file. Files without errors
// never appear.
type Report struct {
	sources []string
	errors  map[string][]LinkError
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{errors: map[string][]LinkError{}}
}

// Add records an error under the given source file.
func (r *Report) Add(source string, err LinkError) {
	if _, ok := r.errors[source]; !ok {
		r.sources = append(r.sources, source)
	}
	r.errors[source] = append(r.errors[source], err)
}

// Empty reports whether validation found no errors.
func (r *Report) Empty() bool {
	return len(r.sources) == 0
}

// Len counts every recorded error.
func (r *Report) Len() int {
	total := 0
	for _, errs := range r.errors {
		total += len(errs)
	}
	return total
}

// Sources lists the offending files in input order.
func (r *Report) Sources() []string {
	return append([]string(nil), r.sources...)
}

// Errors returns the errors recorded under one source file.
func (r *Report) Errors(source string) []LinkError {
	return append([]LinkError(nil), r.errors[source]...)
}

// Write renders the report grouped by source file, one line per error.
func (r *Report) Write(w io.Writer) {
	for _, source := range r.sources {
		fmt.Fprintf(w, "%s:\n", source)
		for _, err := range r.errors[source] {
			fmt.Fprintf(w, "  %s\n", err.Error())
		}
	}
}

// Validator resolves extracted links against the registry.
type Validator struct {
	resolver interfaces.IdentityResolver
	reg      *registry.Registry
	logger   interfaces.Logger
}

// New constructs a Validator over a completed registry.
func New(resolver interfaces.IdentityResolver, reg *registry.Registry, logger interfaces.Logger) *Validator {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Validator{resolver: resolver, reg: reg, logger: logger}
}

// Run validates every fragment's links. The returned report is non-nil even
// when empty. A non-nil error signals an internal inconsistency (identity
// ambiguity), never an ordinary validation failure.
func (v *Validator) Run(ctx context.Context, fragments []*markdown.Fragment) (*Report, error) {
	report := NewReport()

	for _, fragment := range fragments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for _, link := range links.Extract(fragment.Lines) {
			linkErr, err := v.classify(fragment.Path, link)
			if err != nil {
				return nil, err
			}
			if linkErr != nil {
				logging.WithLinkContext(v.logger, fragment.Path, link.Path, link.Label).
					Debug("validate.link.rejected", "kind", linkErr.Kind.String())
				report.Add(fragment.Path, *linkErr)
			}
		}
	}

	return report, nil
}

// classify applies the validation order from the design: direct links first,
// then file existence, then label existence, then ambiguity. Identity lookup
// failures for a link target count as "file unknown to the document"; only
// resolver-internal ambiguity escapes as a hard error.
func (v *Validator) classify(sourcePath string, link links.Link) (*LinkError, error) {
	if !link.HasLabel() {
		return &LinkError{Kind: KindDirectLink, Target: link.Path}, nil
	}

	targetPath := filepath.Join(filepath.Dir(sourcePath), link.Path)

	id, err := v.resolver.Resolve(targetPath)
	if err != nil {
		if errors.Is(err, identity.ErrIdentityAmbiguous) {
			return nil, err
		}
		return &LinkError{Kind: KindDeadFileLink, Target: link.Path, Label: link.Label}, nil
	}

	file, ok := v.reg.Lookup(id)
	if !ok {
		return &LinkError{Kind: KindDeadFileLink, Target: link.Path, Label: link.Label}, nil
	}
	if !file.HasLabel(link.Label) {
		return &LinkError{Kind: KindDeadLabelLink, Target: link.Path, Label: link.Label}, nil
	}
	if file.IsClash(link.Label) {
		return &LinkError{Kind: KindLabelClash, Target: link.Path, Label: link.Label}, nil
	}

	return nil, nil
}
