package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	goerrors "github.com/goliatone/go-errors"

	docmerge "github.com/goliatone/go-docmerge"
	"github.com/goliatone/go-docmerge/cmd/docmerge/internal/bootstrap"
	mergecmd "github.com/goliatone/go-docmerge/internal/commands/merge"
)

const (
	exitOK         = 0
	exitValidation = 1
	exitUsage      = 2
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("docmerge", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to a JSON config file")
	output := fs.String("output", "", "Merged document path (defaults to the last positional argument)")
	pageBreak := fs.String("page-break", "", "Fragment separator emitted between files")
	check := fs.Bool("check", false, "Validate links only; write no output")
	verify := fs.Bool("verify", false, "Re-parse the merged output and check anchor integrity")
	logLevel := fs.String("log-level", "", "Logging level (trace|debug|info|warn|error|fatal)")
	logFormat := fs.String("log-format", "", "Logging format (console|json|pretty)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: docmerge [flags] INPUT.md [INPUT.md ...] OUTPUT.md")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	inputs, outPath, err := splitArgs(fs.Args(), *output, *check)
	if err != nil {
		fmt.Fprintf(stderr, "docmerge: %v\n", err)
		fs.Usage()
		return exitUsage
	}

	module, err := moduleBuilder(bootstrap.Options{
		ConfigPath:  *configPath,
		PageBreak:   *pageBreak,
		Verify:      *verify,
		LogLevel:    *logLevel,
		LogFormat:   *logFormat,
		Diagnostics: stdout,
	})
	if err != nil {
		fmt.Fprintf(stderr, "docmerge: %v\n", err)
		return exitUsage
	}

	if len(inputs) == 0 {
		inputs = module.Config.Inputs
	}
	if outPath == "" {
		outPath = module.Config.Output
	}
	if len(inputs) == 0 {
		fmt.Fprintln(stderr, "docmerge: no input files")
		fs.Usage()
		return exitUsage
	}

	cmd := mergecmd.MergeDocumentCommand{
		Inputs:    inputs,
		Output:    outPath,
		CheckOnly: *check,
	}

	if err := module.Handler.Execute(context.Background(), cmd); err != nil {
		fmt.Fprintf(stderr, "docmerge: %v\n", err)
		if goerrors.IsCategory(err, goerrors.CategoryValidation) && !errors.Is(err, docmerge.ErrValidationFailed) {
			return exitUsage
		}
		return exitValidation
	}

	return exitOK
}

// splitArgs distributes the positional arguments between inputs and output.
// Without -output, the last positional names the merged document, matching
// the classic "in1 in2 ... out" invocation.
func splitArgs(positional []string, outputFlag string, checkOnly bool) ([]string, string, error) {
	if outputFlag != "" || checkOnly {
		return positional, outputFlag, nil
	}
	if len(positional) == 0 {
		return nil, "", nil
	}
	if len(positional) < 2 {
		return nil, "", fmt.Errorf("expected at least one input and one output path")
	}
	last := len(positional) - 1
	return positional[:last], positional[last], nil
}
