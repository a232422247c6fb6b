// Package label derives anchor labels from markdown heading lines.
package label

import (
	"strings"
	"unicode"

	slug "github.com/goliatone/go-slug"
)

// Heading is a single markdown heading line in file order.
type Heading struct {
	// Level counts the leading '#' characters.
	Level int
	// Text is the heading text with the marker and surrounding whitespace removed.
	Text string
	// Label is the normalized anchor key derived from Text.
	Label string
}

// IsHeadingLine reports whether line is a markdown heading. A line qualifies
// when it begins with one or more '#' characters.
func IsHeadingLine(line string) bool {
	return strings.HasPrefix(line, "#")
}

// ParseHeading splits a heading line into its level, text, and label. The
// second return value is false when line is not a heading.
func ParseHeading(line string) (Heading, bool) {
	if !IsHeadingLine(line) {
		return Heading{}, false
	}

	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}

	text := strings.TrimSpace(line[level:])
	return Heading{
		Level: level,
		Text:  text,
		Label: Normalize(text),
	}, true
}

// ExtractHeadings scans lines in order and returns every heading found.
// Duplicates are preserved; deduplication is the registry's concern.
func ExtractHeadings(lines []string) []Heading {
	var headings []Heading
	for _, line := range lines {
		if heading, ok := ParseHeading(line); ok {
			headings = append(headings, heading)
		}
	}
	return headings
}

// Normalize derives an anchor label from heading text: lowercase, with runs
// of whitespace, '/', and '-' collapsed into a single '-', and with ',', '.',
// and backtick deleted outright. Leading and trailing separators are dropped.
// The transform is idempotent: normalizing a label yields the label itself.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	pendingSep := false
	for _, r := range strings.ToLower(text) {
		switch {
		case r == ',' || r == '.' || r == '`':
			// Deleted, not replaced: no separator is introduced.
		case r == '-' || r == '/' || unicode.IsSpace(r):
			pendingSep = true
		default:
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		}
	}

	return b.String()
}

// IsConventional reports whether a derived label fits the conventional slug
// alphabet. Labels that fail are still legal anchors; callers surface this as
// an advisory warning because exotic characters tend to upset downstream
// document compilers.
func IsConventional(value string) bool {
	if value == "" {
		return false
	}
	return slug.IsValid(value)
}
