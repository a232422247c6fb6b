package mergecmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	docmerge "github.com/goliatone/go-docmerge"
)

func TestMergeDocumentCommandType(t *testing.T) {
	if got := (MergeDocumentCommand{}).Type(); got != "docmerge.merge_document" {
		t.Fatalf("unexpected message type %q", got)
	}
	if got := command.GetMessageType(MergeDocumentCommand{}); got != "docmerge.merge_document" {
		t.Fatalf("GetMessageType = %q", got)
	}
}

func TestMergeDocumentCommandValidate(t *testing.T) {
	cases := []struct {
		name    string
		cmd     MergeDocumentCommand
		wantErr bool
	}{
		{
			name:    "valid",
			cmd:     MergeDocumentCommand{Inputs: []string{"a.md"}, Output: "out.md"},
			wantErr: false,
		},
		{
			name:    "no inputs",
			cmd:     MergeDocumentCommand{Output: "out.md"},
			wantErr: true,
		},
		{
			name:    "blank input",
			cmd:     MergeDocumentCommand{Inputs: []string{"a.md", "  "}, Output: "out.md"},
			wantErr: true,
		},
		{
			name:    "missing output",
			cmd:     MergeDocumentCommand{Inputs: []string{"a.md"}},
			wantErr: true,
		},
		{
			name:    "check only without output",
			cmd:     MergeDocumentCommand{Inputs: []string{"a.md"}, CheckOnly: true},
			wantErr: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cmd.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestMergeDocumentHandlerRejectsInvalidMessage(t *testing.T) {
	builderCalled := false
	handler := NewMergeDocumentHandler(docmerge.DefaultConfig(), func(cfg docmerge.Config) (*docmerge.Pipeline, error) {
		builderCalled = true
		return docmerge.New(cfg)
	}, nil)

	err := handler.Execute(context.Background(), MergeDocumentCommand{})
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if builderCalled {
		t.Fatalf("builder must not run for invalid messages")
	}
}

func TestMergeDocumentHandlerLayersMessageOverBase(t *testing.T) {
	base := docmerge.DefaultConfig()
	base.PageBreak = "---"

	var got docmerge.Config
	handler := NewMergeDocumentHandler(base, func(cfg docmerge.Config) (*docmerge.Pipeline, error) {
		got = cfg
		return docmerge.New(cfg)
	}, nil)

	dir := t.TempDir()
	input := filepath.Join(dir, "a.md")
	if err := os.WriteFile(input, []byte("# Intro\n"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	msg := MergeDocumentCommand{
		Inputs: []string{input},
		Output: filepath.Join(dir, "out.md"),
	}
	if err := handler.Execute(context.Background(), msg); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if got.PageBreak != "---" {
		t.Fatalf("base page break dropped, got %q", got.PageBreak)
	}
	if len(got.Inputs) != 1 || got.Inputs[0] != input {
		t.Fatalf("inputs not layered: %#v", got.Inputs)
	}
	if got.Output != msg.Output {
		t.Fatalf("output not layered: %q", got.Output)
	}
}

func TestMergeDocumentHandlerPropagatesBuilderError(t *testing.T) {
	boom := errors.New("builder failed")
	handler := NewMergeDocumentHandler(docmerge.DefaultConfig(), func(docmerge.Config) (*docmerge.Pipeline, error) {
		return nil, boom
	}, nil)

	msg := MergeDocumentCommand{Inputs: []string{"a.md"}, Output: "out.md"}
	err := handler.Execute(context.Background(), msg)
	if err == nil || !errors.Is(err, boom) {
		t.Fatalf("expected builder error, got %v", err)
	}
}
