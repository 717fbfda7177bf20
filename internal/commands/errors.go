package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to errors returned by Handler.Execute.
const (
	CodeInvalidCommand = "DOCS_COMMAND_INVALID"
	CodeCanceled       = "DOCS_COMMAND_CANCELED"
	CodeTimedOut       = "DOCS_COMMAND_TIMED_OUT"
	CodeFailed         = "DOCS_COMMAND_FAILED"
)

type failureKind int

const (
	failureInvalid failureKind = iota
	failureContext
	failureExec
)

// tag attaches a category and text code to err. Errors that already carry
// go-errors metadata pass through untouched.
func tag(kind failureKind, err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	if kind == failureInvalid {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid command").WithTextCode(CodeInvalidCommand)
	}
	code, msg := CodeFailed, "command failed"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		code, msg = CodeTimedOut, "command timed out"
	case errors.Is(err, context.Canceled):
		code, msg = CodeCanceled, "command canceled"
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, msg).WithTextCode(code)
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
