package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/goliatone/go-docmerge/cmd/docmerge/internal/bootstrap"
)

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestSplitArgs(t *testing.T) {
	cases := []struct {
		name       string
		positional []string
		outputFlag string
		checkOnly  bool
		wantInputs []string
		wantOutput string
		wantErr    bool
	}{
		{
			name:       "last positional is output",
			positional: []string{"a.md", "b.md", "out.md"},
			wantInputs: []string{"a.md", "b.md"},
			wantOutput: "out.md",
		},
		{
			name:       "output flag keeps positionals as inputs",
			positional: []string{"a.md", "b.md"},
			outputFlag: "out.md",
			wantInputs: []string{"a.md", "b.md"},
			wantOutput: "out.md",
		},
		{
			name:       "check only needs no output",
			positional: []string{"a.md"},
			checkOnly:  true,
			wantInputs: []string{"a.md"},
		},
		{
			name:       "single positional is ambiguous",
			positional: []string{"a.md"},
			wantErr:    true,
		},
		{
			name: "empty falls through to config",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inputs, output, err := splitArgs(tc.positional, tc.outputFlag, tc.checkOnly)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("splitArgs: %v", err)
			}
			if !reflect.DeepEqual(inputs, tc.wantInputs) {
				t.Fatalf("inputs = %#v, want %#v", inputs, tc.wantInputs)
			}
			if output != tc.wantOutput {
				t.Fatalf("output = %q, want %q", output, tc.wantOutput)
			}
		})
	}
}

func TestRunMergesAndExitsZero(t *testing.T) {
	dir := t.TempDir()
	a := writeInput(t, dir, "a.md", "## Some Section\n")
	b := writeInput(t, dir, "b.md", "see [intro](./a.md#some-section)\n")
	out := filepath.Join(dir, "merged.md")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-log-level", "error", a, b, out}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("merged output missing: %v", err)
	}
}

func TestRunValidationFailureExitsOne(t *testing.T) {
	dir := t.TempDir()
	a := writeInput(t, dir, "a.md", "## Some Section\n")
	b := writeInput(t, dir, "b.md", "see [gone](./a.md#missing)\n")
	out := filepath.Join(dir, "merged.md")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-log-level", "error", a, b, out}, &stdout, &stderr)
	if code != exitValidation {
		t.Fatalf("exit code = %d, want %d", code, exitValidation)
	}
	if !strings.Contains(stdout.String(), "dead label link") {
		t.Fatalf("report missing from stdout:\n%s", stdout.String())
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("no output may exist after a validation failure")
	}
}

func TestRunCheckFlagWritesNothing(t *testing.T) {
	dir := t.TempDir()
	a := writeInput(t, dir, "a.md", "## Some Section\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-log-level", "error", "-check", a}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("check run created files: %v", entries)
	}
}

func TestRunUsageErrors(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{name: "unknown flag", args: []string{"-bogus"}},
		{name: "single positional", args: []string{"a.md"}},
		{name: "no inputs at all", args: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tc.args, &stdout, &stderr); code != exitUsage {
				t.Fatalf("exit code = %d, want %d", code, exitUsage)
			}
		})
	}
}

func TestRunBuilderFailureExitsUsage(t *testing.T) {
	original := moduleBuilder
	moduleBuilder = func(bootstrap.Options) (*bootstrap.Module, error) {
		return nil, errors.New("config file unreadable")
	}
	defer func() { moduleBuilder = original }()

	var stdout, stderr bytes.Buffer
	if code := run([]string{"a.md", "b.md", "out.md"}, &stdout, &stderr); code != exitUsage {
		t.Fatalf("exit code = %d, want %d", code, exitUsage)
	}
	if !strings.Contains(stderr.String(), "config file unreadable") {
		t.Fatalf("builder error missing from stderr:\n%s", stderr.String())
	}
}
