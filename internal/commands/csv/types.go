package csvcmd

import (
	"context"
	"io"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-l10n/internal/csvtransfer"
	"github.com/goliatone/go-l10n/internal/projects"
	"github.com/goliatone/go-l10n/internal/users"
)

const (
	importTranslationsMessageType = "l10n.csv.import"
	exportTranslationsMessageType = "l10n.csv.export"
)

// ReportCallback receives the outcome of an import.
type ReportCallback func(*csvtransfer.ImportReport)

// ProjectLookup resolves projects by slug.
type ProjectLookup interface {
	Get(ctx context.Context, slug string) (*projects.Project, error)
}

// UserLookup resolves the acting user.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*users.User, error)
}

// ImportTranslationsCommand imports a spreadsheet. With ProjectSlug set the
// file uses the project layout and the user's grants decide activation.
// Without it the file carries a Project column and is applied as a trusted
// operator.
type ImportTranslationsCommand struct {
	ProjectSlug    string         `json:"project_slug,omitempty"`
	UserEmail      string         `json:"user_email"`
	FilePath       string         `json:"file_path,omitempty"`
	Source         io.Reader      `json:"-"`
	OnRowError     string         `json:"on_row_error,omitempty"`
	ResultCallback ReportCallback `json:"-"`
}

// Type implements command.Message.
func (ImportTranslationsCommand) Type() string { return importTranslationsMessageType }

// LogFields names the project, user and source in handler logs.
func (m ImportTranslationsCommand) LogFields() map[string]any {
	mode := "project"
	if strings.TrimSpace(m.ProjectSlug) == "" {
		mode = "operator"
	}
	return map[string]any{
		"project":      m.ProjectSlug,
		"user_email":   m.UserEmail,
		"file":         m.FilePath,
		"on_row_error": m.OnRowError,
		"mode":         mode,
	}
}

// Validate ensures a user and a source are present.
func (m ImportTranslationsCommand) Validate() error {
	errs := validation.Errors{}
	email := strings.TrimSpace(m.UserEmail)
	if email == "" {
		errs["user_email"] = validation.NewError("l10n.csv.import.user_required", "user_email is required")
	} else if !strings.Contains(email, "@") {
		errs["user_email"] = validation.NewError("l10n.csv.import.user_invalid", "user_email must be an email address")
	}
	if m.Source == nil && strings.TrimSpace(m.FilePath) == "" {
		errs["file_path"] = validation.NewError("l10n.csv.import.source_required", "file_path or source is required")
	}
	if err := validation.Validate(strings.ToLower(strings.TrimSpace(m.OnRowError)),
		validation.In(csvtransfer.OnRowErrorAbort, csvtransfer.OnRowErrorSkip),
	); err != nil {
		errs["on_row_error"] = validation.NewError("l10n.csv.import.policy_invalid", "on_row_error must be abort or skip")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ExportTranslationsCommand writes a project's status spreadsheet to Writer.
type ExportTranslationsCommand struct {
	ProjectSlug string    `json:"project_slug"`
	Writer      io.Writer `json:"-"`
}

// Type implements command.Message.
func (ExportTranslationsCommand) Type() string { return exportTranslationsMessageType }

// LogFields names the exported project.
func (m ExportTranslationsCommand) LogFields() map[string]any {
	return map[string]any{"project": m.ProjectSlug}
}

// Validate ensures the project and destination are present.
func (m ExportTranslationsCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.ProjectSlug) == "" {
		errs["project_slug"] = validation.NewError("l10n.csv.export.project_required", "project_slug is required")
	}
	if m.Writer == nil {
		errs["writer"] = validation.NewError("l10n.csv.export.writer_required", "writer is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
