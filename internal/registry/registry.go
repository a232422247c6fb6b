// Package registry aggregates per-file label sets and within-file clashes.
package registry

import (
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-docmerge/internal/label"
	"github.com/goliatone/go-docmerge/internal/logging"
	"github.com/goliatone/go-docmerge/internal/markdown"
	"github.com/goliatone/go-docmerge/pkg/interfaces"
)

// File is the registry record for one input file: the set of first-seen
// labels and the subset that occurred more than once. The first occurrence of
// a clashing label stays in the label set as the canonical one; repeats are
// flagged, never stored again.
type File struct {
	ID    interfaces.FileIdentity
	Path  string
	Title string

	labels   []string
	labelSet map[string]struct{}
	clashes  []string
	clashSet map[string]struct{}
}

// addLabel records one heading label. It reports whether the label was newly
// inserted; false means the label was already present and has been flagged as
// a clash (idempotently).
func (f *File) addLabel(value string) bool {
	if _, exists := f.labelSet[value]; !exists {
		f.labelSet[value] = struct{}{}
		f.labels = append(f.labels, value)
		return true
	}
	if _, flagged := f.clashSet[value]; !flagged {
		f.clashSet[value] = struct{}{}
		f.clashes = append(f.clashes, value)
	}
	return false
}

// HasLabel reports whether value is among the file's first-seen labels.
func (f *File) HasLabel(value string) bool {
	_, ok := f.labelSet[value]
	return ok
}

// IsClash reports whether value occurred more than once in the file.
func (f *File) IsClash(value string) bool {
	_, ok := f.clashSet[value]
	return ok
}

// Labels returns the first-seen labels in file order.
func (f *File) Labels() []string {
	return append([]string(nil), f.labels...)
}

// Clashes returns the clashing labels in the order they were first flagged.
func (f *File) Clashes() []string {
	return append([]string(nil), f.clashes...)
}

// Registry maps file identities to their label bookkeeping. It is built once
// over all inputs and treated as read-only by the validation and merge passes.
type Registry struct {
	files []*File
	byID  map[interfaces.FileIdentity]*File
}

// Lookup returns the record for id, if the file is part of the document.
func (r *Registry) Lookup(id interfaces.FileIdentity) (*File, bool) {
	file, ok := r.byID[id]
	return file, ok
}

// Files returns the records in input order.
func (r *Registry) Files() []*File {
	return append([]*File(nil), r.files...)
}

// Warning names a file whose labels collided and the offending labels.
// Warnings never abort a run on their own; a clash only becomes an error when
// a cross-file link actually targets it.
type Warning struct {
	Path   string
	Labels []string
}

// Warnings lists every file with a non-empty clash set, in input order.
func (r *Registry) Warnings() []Warning {
	var warnings []Warning
	for _, file := range r.files {
		if len(file.clashes) == 0 {
			continue
		}
		warnings = append(warnings, Warning{
			Path:   file.Path,
			Labels: file.Clashes(),
		})
	}
	return warnings
}

// Dump writes the file-to-labels mapping to w, in input order.
func (r *Registry) Dump(w io.Writer) {
	for _, file := range r.files {
		header := fmt.Sprintf("%s (%s)", file.Path, file.ID)
		if file.Title != "" {
			header += fmt.Sprintf(" %q", file.Title)
		}
		fmt.Fprintln(w, header)
		fmt.Fprintf(w, "  labels: %s\n", strings.Join(file.labels, ", "))
	}
}

// Builder accumulates files into a Registry. Build hands out the completed
// value; the builder is not reusable afterwards.
type Builder struct {
	resolver interfaces.IdentityResolver
	logger   interfaces.Logger
	reg      *Registry
}

// NewBuilder constructs a Builder around the shared identity resolver.
func NewBuilder(resolver interfaces.IdentityResolver, logger interfaces.Logger) *Builder {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Builder{
		resolver: resolver,
		logger:   logger,
		reg: &Registry{
			byID: map[interfaces.FileIdentity]*File{},
		},
	}
}

// AddFile extracts the fragment's heading labels in order and records them.
// Identity resolution failure for an input file is fatal: the registry cannot
// be keyed without it.
func (b *Builder) AddFile(fragment *markdown.Fragment) error {
	id, err := b.resolver.Resolve(fragment.Path)
	if err != nil {
		return fmt.Errorf("registry: identity for input %s: %w", fragment.Path, err)
	}

	file, ok := b.reg.byID[id]
	if !ok {
		file = &File{
			ID:       id,
			Path:     fragment.Path,
			Title:    fragment.Title,
			labelSet: map[string]struct{}{},
			clashSet: map[string]struct{}{},
		}
		b.reg.byID[id] = file
		b.reg.files = append(b.reg.files, file)
	}

	for _, heading := range label.ExtractHeadings(fragment.Lines) {
		if !label.IsConventional(heading.Label) {
			logging.WithFields(b.logger, map[string]any{
				"path":  fragment.Path,
				"label": heading.Label,
			}).Warn("registry.label.unconventional")
		}
		if !file.addLabel(heading.Label) {
			b.logger.Debug("registry.label.duplicate", "path", fragment.Path, "label", heading.Label)
		}
	}

	return nil
}

// Build returns the completed registry.
func (b *Builder) Build() *Registry {
	reg := b.reg
	b.reg = nil
	return reg
}
