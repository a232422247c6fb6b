// Package markdown loads document fragments and verifies merged output.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/adrg/frontmatter"
)

// Fragment is one markdown input file, with YAML frontmatter split off so the
// scanning passes only ever see body lines.
type Fragment struct {
	// Path is the file path exactly as supplied on input; diagnostics use it.
	Path string
	// Title comes from frontmatter when present, empty otherwise.
	Title string
	// Meta holds the raw frontmatter mapping.
	Meta map[string]any
	// Lines are the body lines in file order, without trailing newlines.
	Lines []string
}

type frontMatterEnvelope struct {
	Title  string         `yaml:"title"`
	Custom map[string]any `yaml:",inline"`
}

// LoadFragment reads and splits a single markdown file.
func LoadFragment(ctx context.Context, path string) (*Fragment, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("markdown fragment read %s: %w", path, err)
	}

	var meta frontMatterEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return nil, fmt.Errorf("markdown fragment frontmatter %s: %w", path, err)
	}

	custom := meta.Custom
	if custom == nil {
		custom = map[string]any{}
	}
	if meta.Title != "" {
		custom["title"] = meta.Title
	}

	return &Fragment{
		Path:  path,
		Title: meta.Title,
		Meta:  custom,
		Lines: splitLines(body),
	}, nil
}

// LoadFragments reads every path in order. Input order is preserved; it
// determines the final document order.
func LoadFragments(ctx context.Context, paths []string) ([]*Fragment, error) {
	fragments := make([]*Fragment, 0, len(paths))
	for _, path := range paths {
		fragment, err := LoadFragment(ctx, path)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, fragment)
	}
	return fragments, nil
}

func splitLines(body []byte) []string {
	text := strings.ReplaceAll(string(body), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	// A trailing newline produces one empty trailing element, not a real line.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
