// Package links extracts cross-file markdown links of the form
// (./relative-path#label) from raw document lines.
package links

import (
	"regexp"
	"strings"
)

// Link is one cross-file reference found in a source file. Path is the target
// exactly as written, relative to the directory of the referencing file.
// Label is empty when the link carries no section anchor; such links are
// classified as direct links at validation time.
type Link struct {
	Path  string
	Label string
}

// HasLabel reports whether the link names a section in the target file.
func (l Link) HasLabel() bool {
	return l.Label != ""
}

// String renders the link the way it was written in the source.
func (l Link) String() string {
	if !l.HasLabel() {
		return l.Path
	}
	return l.Path + "#" + l.Label
}

// linkPattern matches `](./PATH#LABEL)` and `](./PATH)`. PATH must carry the
// explicit `./` relative prefix, contain neither `)` nor `#`, and end in a
// markdown suffix. Links without the prefix are local to their own file and
// out of scope here.
var linkPattern = regexp.MustCompile(`\]\((\./[^)#]*\.(?:md|markdown))(#[^)]*)?\)`)

// Extract returns every cross-file link in lines, in file order. Lines with
// multiple links contribute one entry per match.
func Extract(lines []string) []Link {
	var found []Link
	for _, line := range lines {
		for _, match := range linkPattern.FindAllStringSubmatch(line, -1) {
			found = append(found, linkFromMatch(match))
		}
	}
	return found
}

// ExtractLine returns the cross-file links present on a single line.
func ExtractLine(line string) []Link {
	var found []Link
	for _, match := range linkPattern.FindAllStringSubmatch(line, -1) {
		found = append(found, linkFromMatch(match))
	}
	return found
}

// RewriteLine replaces every cross-file link target on line using rewrite.
// The callback receives the parsed link and returns the replacement target
// (the full parenthesised destination, without surrounding parentheses) plus
// an ok flag; when ok is false the original text is preserved. Rewriting and
// extraction share one pattern so the merge pass can never touch a link the
// validator did not see.
func RewriteLine(line string, rewrite func(Link) (string, bool)) string {
	return linkPattern.ReplaceAllStringFunc(line, func(matched string) string {
		parts := linkPattern.FindStringSubmatch(matched)
		if parts == nil {
			return matched
		}
		replacement, ok := rewrite(linkFromMatch(parts))
		if !ok {
			return matched
		}
		return "](" + replacement + ")"
	})
}

func linkFromMatch(match []string) Link {
	link := Link{Path: match[1]}
	if fragment := match[2]; fragment != "" {
		// A bare trailing "#" still counts as a missing label.
		link.Label = strings.TrimPrefix(fragment, "#")
	}
	return link
}
