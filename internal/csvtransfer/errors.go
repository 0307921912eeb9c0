package csvtransfer

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	ErrEmptyFile       = errors.New("csvtransfer: file is empty")
	ErrMalformedFile   = errors.New("csvtransfer: file is not valid CSV")
	ErrTooFewColumns   = errors.New("csvtransfer: header has too few columns")
	ErrUnknownLocales  = errors.New("csvtransfer: unknown locale columns")
	ErrDuplicateLocale = errors.New("csvtransfer: locale column repeated")
	ErrUnknownProject  = errors.New("csvtransfer: project not found")
	ErrUnknownResource = errors.New("csvtransfer: resource not found")
	ErrUnknownEntity   = errors.New("csvtransfer: translation key not found")
	ErrProjectRequired = errors.New("csvtransfer: project is required")
	ErrSourceRequired  = errors.New("csvtransfer: source is required")
)

// Text codes attached to validation errors.
const (
	TextCodeMalformed      = "CSV_MALFORMED"
	TextCodeHeader         = "CSV_HEADER_INVALID"
	TextCodeUnknownLocales = "CSV_UNKNOWN_LOCALES"
	TextCodeRow            = "CSV_ROW_INVALID"
)

// RowError reports a reference that could not be resolved on a data row.
// Line is the 1-based line number in the uploaded file.
type RowError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("line %d: %s %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

func validationError(err error, code, message string) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, message).WithTextCode(code)
}

// Message returns the user-facing text of an import error.
func Message(err error) string {
	var typed *goerrors.Error
	if errors.As(err, &typed) && typed.Message != "" {
		return typed.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
