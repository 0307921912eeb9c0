package commands

import (
	"context"
	"errors"
	"io/fs"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-l10n/internal/csvtransfer"
	"github.com/goliatone/go-l10n/internal/projects"
	"github.com/goliatone/go-l10n/internal/users"
)

// Text codes attached to command failures. Import validation failures keep
// the CSV_* codes set by csvtransfer.
const (
	TextCodeInvalidCommand  = "L10N_COMMAND_INVALID"
	TextCodeCanceled        = "L10N_COMMAND_CANCELED"
	TextCodeTimeout         = "L10N_COMMAND_TIMEOUT"
	TextCodeFailed          = "L10N_COMMAND_FAILED"
	TextCodeUserNotFound    = "L10N_USER_NOT_FOUND"
	TextCodeCatalogNotFound = "L10N_CATALOG_NOT_FOUND"
	TextCodeSourceNotFound  = "L10N_SOURCE_NOT_FOUND"
)

// TextCode returns the text code carried by err, or "" when it has none.
func TextCode(err error) string {
	var typed *goerrors.Error
	if errors.As(err, &typed) {
		return typed.TextCode
	}
	return ""
}

// wrapValidationError keeps the field messages from ozzo-validation so the
// caller sees which command field was rejected.
func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid command: "+err.Error()).
		WithTextCode(TextCodeInvalidCommand)
}

func wrapContextError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command timed out").
			WithTextCode(TextCodeTimeout)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command cancelled").
		WithTextCode(TextCodeCanceled)
}

// classifyError maps failures raised while running an l10n command to a
// go-errors category and text code.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}

	var rowErr *csvtransfer.RowError
	var userMissing *users.NotFoundError
	switch {
	case errors.As(err, &rowErr):
		return goerrors.Wrap(err, goerrors.CategoryValidation, csvtransfer.Message(err)).
			WithTextCode(csvtransfer.TextCodeRow)
	case errors.As(err, &userMissing):
		return goerrors.Wrap(err, goerrors.CategoryNotFound, err.Error()).
			WithTextCode(TextCodeUserNotFound)
	case projects.IsNotFound(err):
		return goerrors.Wrap(err, goerrors.CategoryNotFound, err.Error()).
			WithTextCode(TextCodeCatalogNotFound)
	case errors.Is(err, fs.ErrNotExist):
		return goerrors.Wrap(err, goerrors.CategoryNotFound, "import file not found").
			WithTextCode(TextCodeSourceNotFound)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return wrapContextError(err)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command failed").
			WithTextCode(TextCodeFailed)
	}
}
