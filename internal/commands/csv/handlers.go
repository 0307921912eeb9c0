package csvcmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-l10n/internal/commands"
	"github.com/goliatone/go-l10n/internal/csvtransfer"
	"github.com/goliatone/go-l10n/pkg/interfaces"
)

// ImportTranslationsHandler runs spreadsheet imports through the shared
// command handler.
type ImportTranslationsHandler struct {
	inner *commands.Handler[ImportTranslationsCommand]
}

// NewImportTranslationsHandler wires the importer with project and user
// lookups.
func NewImportTranslationsHandler(importer *csvtransfer.Importer, projects ProjectLookup, users UserLookup, logger interfaces.Logger, opts ...commands.HandlerOption[ImportTranslationsCommand]) *ImportTranslationsHandler {
	exec := func(ctx context.Context, msg ImportTranslationsCommand) error {
		user, err := users.GetByEmail(ctx, strings.TrimSpace(msg.UserEmail))
		if err != nil {
			return fmt.Errorf("resolve user %q: %w", msg.UserEmail, err)
		}

		source := msg.Source
		if source == nil {
			file, err := os.Open(msg.FilePath)
			if err != nil {
				return err
			}
			defer file.Close()
			source = file
		}
		options := csvtransfer.ImportOptions{OnRowError: strings.ToLower(strings.TrimSpace(msg.OnRowError))}

		var report *csvtransfer.ImportReport
		if slug := strings.TrimSpace(msg.ProjectSlug); slug != "" {
			project, err := projects.Get(ctx, slug)
			if err != nil {
				return err
			}
			report, err = importer.Import(ctx, csvtransfer.ImportRequest{Project: project, User: user, Source: source, Options: options})
			if err != nil {
				return err
			}
		} else {
			report, err = importer.ImportOperator(ctx, csvtransfer.OperatorImportRequest{User: user, Source: source, Options: options})
			if err != nil {
				return err
			}
		}
		commands.Logger(ctx).Info("csv.import.report",
			"rows", report.Rows,
			"activated", report.Activated,
			"suggested", report.Suggested,
			"unchanged", report.Unchanged,
			"notified", report.Notified,
			"skipped", len(report.Errors),
		)
		if msg.ResultCallback != nil {
			msg.ResultCallback(report)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportTranslationsCommand]{
		commands.WithLogger[ImportTranslationsCommand](logger),
		commands.WithOperation[ImportTranslationsCommand]("csv.import"),
	}
	handlerOpts = append(handlerOpts, opts...)
	return &ImportTranslationsHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ImportTranslationsCommand].
func (h *ImportTranslationsHandler) Execute(ctx context.Context, msg ImportTranslationsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ExportTranslationsHandler streams project exports.
type ExportTranslationsHandler struct {
	inner *commands.Handler[ExportTranslationsCommand]
}

// NewExportTranslationsHandler wires the exporter with a project lookup.
func NewExportTranslationsHandler(exporter *csvtransfer.Exporter, projects ProjectLookup, logger interfaces.Logger, opts ...commands.HandlerOption[ExportTranslationsCommand]) *ExportTranslationsHandler {
	exec := func(ctx context.Context, msg ExportTranslationsCommand) error {
		project, err := projects.Get(ctx, strings.TrimSpace(msg.ProjectSlug))
		if err != nil {
			return err
		}
		return exporter.Export(ctx, project, msg.Writer)
	}

	handlerOpts := []commands.HandlerOption[ExportTranslationsCommand]{
		commands.WithLogger[ExportTranslationsCommand](logger),
		commands.WithOperation[ExportTranslationsCommand]("csv.export"),
	}
	handlerOpts = append(handlerOpts, opts...)
	return &ExportTranslationsHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ExportTranslationsCommand].
func (h *ExportTranslationsHandler) Execute(ctx context.Context, msg ExportTranslationsCommand) error {
	return h.inner.Execute(ctx, msg)
}
