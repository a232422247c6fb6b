package markdown

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-docmerge/internal/identity"
)

// ErrAnchorMissing is returned when a merged document contains an in-document
// link whose target anchor was never emitted.
var ErrAnchorMissing = errors.New("merged output: link target anchor missing")

// VerifyMerged parses merged output and checks that every rewritten link
// destination resolves to a heading carrying that explicit anchor attribute.
// Only destinations bearing a file-identity prefix are checked: local
// `(#label)` links pass through the merge untouched, so their targets are the
// author's concern, not the merger's. It is a parse-only integrity check on
// the artifact handed to the downstream document compiler; no rendering
// happens here.
func VerifyMerged(source []byte) error {
	engine := goldmark.New(
		goldmark.WithParserOptions(parser.WithAttribute()),
	)
	doc := engine.Parser().Parse(text.NewReader(source))

	anchors := map[string]struct{}{}
	var targets []string

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if id, ok := node.AttributeString("id"); ok {
				anchors[attributeValue(id)] = struct{}{}
			}
		case *ast.Link:
			dest := string(node.Destination)
			if !strings.HasPrefix(dest, "#") {
				break
			}
			if target := strings.TrimPrefix(dest, "#"); identity.HasTokenPrefix(target) {
				targets = append(targets, target)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return fmt.Errorf("merged output: walk document: %w", err)
	}

	var missing []string
	seen := map[string]struct{}{}
	for _, target := range targets {
		if _, ok := anchors[target]; ok {
			continue
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		missing = append(missing, target)
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: %s", ErrAnchorMissing, strings.Join(missing, ", "))
	}
	return nil
}

// VerifyMergedFile runs VerifyMerged against a file on disk.
func VerifyMergedFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("merged output read %s: %w", path, err)
	}
	return VerifyMerged(data)
}

func attributeValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
