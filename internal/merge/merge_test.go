package merge

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-docmerge/internal/identity"
	"github.com/goliatone/go-docmerge/internal/markdown"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func mergeFiles(t *testing.T, resolver *identity.Resolver, cfg Config, paths ...string) string {
	t.Helper()

	fragments, err := markdown.LoadFragments(context.Background(), paths)
	if err != nil {
		t.Fatalf("LoadFragments: %v", err)
	}

	out := filepath.Join(t.TempDir(), "merged.md")
	if err := New(resolver, nil, cfg).Run(context.Background(), fragments, out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	return string(data)
}

func TestHeadingGainsExplicitAnchor(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, "a.md", "## Some Section\nbody\n")

	resolver := identity.NewResolver()
	out := mergeFiles(t, resolver, Config{}, a)

	idA, err := resolver.Resolve(a)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	want := "## Some Section {#" + idA.String() + "-some-section}"
	if !strings.Contains(out, want) {
		t.Fatalf("output missing %q:\n%s", want, out)
	}
}

func TestCrossFileLinkRewrittenToAnchor(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, "a.md", "## Some Section\n")
	b := writeFixture(t, dir, "b.md", "see [intro](./a.md#some-section)\n")

	resolver := identity.NewResolver()
	out := mergeFiles(t, resolver, Config{}, a, b)

	idA, err := resolver.Resolve(a)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	want := "see [intro](#" + idA.String() + "-some-section)"
	if !strings.Contains(out, want) {
		t.Fatalf("output missing %q:\n%s", want, out)
	}
	if strings.Contains(out, "./a.md") {
		t.Fatalf("merged output still references a file path:\n%s", out)
	}
}

func TestOutputPreservesInputOrder(t *testing.T) {
	dir := t.TempDir()
	first := writeFixture(t, dir, "z-first.md", "# Alpha\n")
	second := writeFixture(t, dir, "a-second.md", "# Beta\n")

	out := mergeFiles(t, identity.NewResolver(), Config{}, first, second)

	if strings.Index(out, "Alpha") > strings.Index(out, "Beta") {
		t.Fatalf("fragments out of order:\n%s", out)
	}
}

func TestSameHeadingTextInDifferentFilesGetsDistinctAnchors(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, "a.md", "# Intro\n")
	b := writeFixture(t, dir, "b.md", "# Intro\n")

	resolver := identity.NewResolver()
	out := mergeFiles(t, resolver, Config{}, a, b)

	idA, _ := resolver.Resolve(a)
	idB, _ := resolver.Resolve(b)
	if idA == idB {
		t.Fatalf("expected distinct identities")
	}

	if !strings.Contains(out, "{#"+idA.String()+"-intro}") {
		t.Fatalf("missing anchor for first file:\n%s", out)
	}
	if !strings.Contains(out, "{#"+idB.String()+"-intro}") {
		t.Fatalf("missing anchor for second file:\n%s", out)
	}
}

func TestPageBreakAfterEveryFragment(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, "a.md", "# One\n")
	b := writeFixture(t, dir, "b.md", "# Two\n")

	out := mergeFiles(t, identity.NewResolver(), Config{}, a, b)

	if got := strings.Count(out, DefaultPageBreak); got != 2 {
		t.Fatalf("expected 2 page breaks, got %d:\n%s", got, out)
	}
}

func TestCustomPageBreak(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, "a.md", "# One\n")

	out := mergeFiles(t, identity.NewResolver(), Config{PageBreak: "<!-- break -->"}, a)

	if !strings.Contains(out, "<!-- break -->") {
		t.Fatalf("custom page break missing:\n%s", out)
	}
	if strings.Contains(out, DefaultPageBreak) {
		t.Fatalf("default page break should not appear:\n%s", out)
	}
}

func TestLocalLinksPassThroughUnchanged(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, "a.md", "# Intro\njump [here](#intro)\n")

	out := mergeFiles(t, identity.NewResolver(), Config{}, a)

	if !strings.Contains(out, "[here](#intro)") {
		t.Fatalf("local link should pass through untouched:\n%s", out)
	}
}

func TestOutputTruncatedOnRerun(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, "a.md", "# One\n")

	fragments, err := markdown.LoadFragments(context.Background(), []string{a})
	if err != nil {
		t.Fatalf("LoadFragments: %v", err)
	}

	out := filepath.Join(dir, "merged.md")
	if err := os.WriteFile(out, []byte(strings.Repeat("stale\n", 100)), 0o644); err != nil {
		t.Fatalf("seed stale output: %v", err)
	}

	if err := New(identity.NewResolver(), nil, Config{}).Run(context.Background(), fragments, out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if strings.Contains(string(data), "stale") {
		t.Fatalf("output was not truncated:\n%s", data)
	}
}
