package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to errors leaving the command layer. Hosts that mount
// docmerge handlers on their own dispatcher match on these instead of on
// error text.
const (
	CodeMessageRejected = "DOCMERGE_COMMAND_MESSAGE_REJECTED"
	CodeRunCanceled     = "DOCMERGE_COMMAND_CANCELED"
	CodeRunTimedOut     = "DOCMERGE_COMMAND_TIMED_OUT"
	CodeRunFailed       = "DOCMERGE_COMMAND_FAILED"
)

// tagError categorizes err exactly once. Errors that already carry a category
// pass through untouched, so pipeline codes (LINK_VALIDATION_FAILED and
// friends) survive to the CLI's exit-code mapping.
func tagError(err error, category goerrors.Category, code, msg string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, msg).WithTextCode(code)
}

func wrapValidationError(err error) error {
	return tagError(err, goerrors.CategoryValidation, CodeMessageRejected,
		"merge command message rejected")
}

func wrapContextError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return tagError(err, goerrors.CategoryCommand, CodeRunTimedOut,
			"merge command timed out")
	case errors.Is(err, context.Canceled):
		return tagError(err, goerrors.CategoryCommand, CodeRunCanceled,
			"merge command canceled")
	default:
		return tagError(err, goerrors.CategoryCommand, CodeRunFailed,
			"merge command context error")
	}
}

func wrapExecuteError(err error) error {
	// A handler surfacing its context's error is a cancellation, not a failure.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return wrapContextError(err)
	}
	return tagError(err, goerrors.CategoryCommand, CodeRunFailed,
		"merge command failed")
}
