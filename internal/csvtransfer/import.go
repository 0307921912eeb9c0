package csvtransfer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-l10n/internal/domain"
	"github.com/goliatone/go-l10n/internal/logging"
	"github.com/goliatone/go-l10n/internal/notifications"
	"github.com/goliatone/go-l10n/internal/permissions"
	"github.com/goliatone/go-l10n/internal/projects"
	"github.com/goliatone/go-l10n/internal/translations"
	"github.com/goliatone/go-l10n/internal/users"
	"github.com/goliatone/go-l10n/pkg/interfaces"
)

const byteOrderMark = "\ufeff"

// Row error policies.
const (
	OnRowErrorAbort = "abort"
	OnRowErrorSkip  = "skip"
)

// ProjectCatalog resolves projects and locales referenced by a spreadsheet.
type ProjectCatalog interface {
	Locales(ctx context.Context, projectID uuid.UUID) ([]*projects.Locale, error)
	GetByName(ctx context.Context, name string) (*projects.Project, error)
	GetLocaleByName(ctx context.Context, name string) (*projects.Locale, error)
}

// TranslationWriter is the subset of translations.Service used by imports.
type TranslationWriter interface {
	Resource(ctx context.Context, projectID uuid.UUID, path string) (*translations.Resource, error)
	FindEntity(ctx context.Context, resource *translations.Resource, key string) (*translations.Entity, error)
	ListFor(ctx context.Context, entityID, localeID uuid.UUID) ([]*translations.Translation, error)
	Submit(ctx context.Context, req translations.SubmitRequest) (*translations.Translation, error)
}

// Authorizer decides whether an import activates or suggests a string.
type Authorizer interface {
	CanTranslate(ctx context.Context, user *users.User, projectID, localeID uuid.UUID) (bool, error)
}

// ImportNotifier tells project managers about new suggestions.
type ImportNotifier interface {
	NotifyImport(ctx context.Context, req notifications.ImportNotice) (int, error)
}

// ImportOptions tune row handling.
type ImportOptions struct {
	// OnRowError is OnRowErrorAbort (default) or OnRowErrorSkip.
	OnRowError string
}

// ImportRequest describes a project-scoped upload.
type ImportRequest struct {
	Project *projects.Project
	User    *users.User
	Source  io.Reader
	Options ImportOptions
}

// OperatorImportRequest describes a multi-project upload run by a trusted
// operator. Every new string is activated and approved.
type OperatorImportRequest struct {
	User    *users.User
	Source  io.Reader
	Options ImportOptions
}

// ImportReport summarizes an import.
type ImportReport struct {
	Rows      int
	Activated int
	Suggested int
	Unchanged int
	Notified  int
	Errors    []RowError
}

// Importer reconciles uploaded spreadsheets with stored translations.
type Importer struct {
	catalog      ProjectCatalog
	translations TranslationWriter
	auth         Authorizer
	notifier     ImportNotifier
	logger       interfaces.Logger
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithImportLogger sets the logger used for import events.
func WithImportLogger(logger interfaces.Logger) ImporterOption {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithNotifier enables manager notifications after imports with suggestions.
func WithNotifier(notifier ImportNotifier) ImporterOption {
	return func(i *Importer) {
		i.notifier = notifier
	}
}

func NewImporter(catalog ProjectCatalog, writer TranslationWriter, auth Authorizer, opts ...ImporterOption) *Importer {
	i := &Importer{
		catalog:      catalog,
		translations: writer,
		auth:         auth,
		logger:       logging.NoOp(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// column binds a header cell to a locale.
type column struct {
	index  int
	name   string
	locale *projects.Locale
}

// run carries the state of one import.
type run struct {
	user      *users.User
	options   ImportOptions
	report    *ImportReport
	allowed   map[[2]uuid.UUID]bool
	logger    interfaces.Logger
	projects  map[uuid.UUID]*projects.Project
	suggested map[uuid.UUID]int
}

// Import applies a spreadsheet laid out as
// Resource, Translation Key, Translation Source String, <locale name>...
func (i *Importer) Import(ctx context.Context, req ImportRequest) (*ImportReport, error) {
	if req.Project == nil {
		return nil, ErrProjectRequired
	}
	if req.Source == nil {
		return nil, ErrSourceRequired
	}
	logger := logging.WithProjectContext(i.logger, req.Project.Slug, "", userID(req.User))
	logger.Info("csv.import.start")

	reader := newReader(req.Source)
	header, err := readHeader(reader)
	if err != nil {
		logger.Warn("csv.import.rejected", "error", err)
		return nil, err
	}
	columns, err := i.projectColumns(ctx, req.Project, header)
	if err != nil {
		logger.Warn("csv.import.rejected", "error", err)
		return nil, err
	}

	state := i.newRun(req.User, req.Options, logger)
	state.projects[req.Project.ID] = req.Project
	err = eachRow(ctx, reader, func(line int, record []string) error {
		return i.applyRow(ctx, state, req.Project, line, record, 0, columns)
	})
	return i.finish(ctx, state, err)
}

// ImportOperator applies a spreadsheet laid out as
// Project, Resource, Translation Key, Translation Source String, <language>...
// with the project resolved by name on every row.
func (i *Importer) ImportOperator(ctx context.Context, req OperatorImportRequest) (*ImportReport, error) {
	if req.Source == nil {
		return nil, ErrSourceRequired
	}
	ctx = permissions.WithPermissions(ctx, permissions.TranslationsTranslate)
	logger := logging.WithProjectContext(i.logger, "", "", userID(req.User))
	logger.Info("csv.import.start", "mode", "operator")

	reader := newReader(req.Source)
	header, err := readHeader(reader)
	if err != nil {
		logger.Warn("csv.import.rejected", "error", err)
		return nil, err
	}
	columns, err := i.operatorColumns(ctx, header)
	if err != nil {
		logger.Warn("csv.import.rejected", "error", err)
		return nil, err
	}

	state := i.newRun(req.User, req.Options, logger)
	byName := map[string]*projects.Project{}
	err = eachRow(ctx, reader, func(line int, record []string) error {
		if isBlank(record) {
			return nil
		}
		name := cell(record, 0)
		project, ok := byName[name]
		if !ok {
			found, lookupErr := i.catalog.GetByName(ctx, name)
			if lookupErr != nil {
				if !projects.IsNotFound(lookupErr) {
					return lookupErr
				}
				return state.rowFailed(&RowError{Line: line, Column: "Project", Value: name, Err: ErrUnknownProject})
			}
			byName[name] = found
			project = found
		}
		state.projects[project.ID] = project
		return i.applyRow(ctx, state, project, line, record, 1, columns)
	})
	return i.finish(ctx, state, err)
}

func (i *Importer) newRun(user *users.User, options ImportOptions, logger interfaces.Logger) *run {
	return &run{
		user:      user,
		options:   options,
		report:    &ImportReport{},
		allowed:   map[[2]uuid.UUID]bool{},
		logger:    logger,
		projects:  map[uuid.UUID]*projects.Project{},
		suggested: map[uuid.UUID]int{},
	}
}

func (i *Importer) projectColumns(ctx context.Context, project *projects.Project, header []string) ([]column, error) {
	if len(header) < len(baseColumns)+1 {
		return nil, validationError(ErrTooFewColumns, TextCodeHeader,
			fmt.Sprintf("Expected at least %d columns (Resource, Translation Key, Translation Source String and one locale), got %d.", len(baseColumns)+1, len(header)))
	}
	enabled, err := i.catalog.Locales(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*projects.Locale, len(enabled))
	for _, locale := range enabled {
		byName[locale.Name] = locale
	}

	var columns []column
	var unknown []string
	for idx := len(baseColumns); idx < len(header); idx++ {
		name := strings.TrimSpace(header[idx])
		locale, ok := byName[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		columns = append(columns, column{index: idx, name: name, locale: locale})
	}
	if len(unknown) > 0 {
		return nil, validationError(ErrUnknownLocales, TextCodeUnknownLocales,
			fmt.Sprintf("The following locales are not enabled for project %s: %s.", project.Name, strings.Join(unknown, ", ")))
	}
	if err := checkDuplicateColumns(columns); err != nil {
		return nil, err
	}
	return columns, nil
}

// checkDuplicateColumns rejects headers that name the same locale twice.
func checkDuplicateColumns(columns []column) error {
	seen := make(map[uuid.UUID]bool, len(columns))
	var repeated []string
	for _, col := range columns {
		if seen[col.locale.ID] {
			repeated = append(repeated, col.name)
			continue
		}
		seen[col.locale.ID] = true
	}
	if len(repeated) == 0 {
		return nil
	}
	return validationError(ErrDuplicateLocale, TextCodeHeader,
		fmt.Sprintf("Each locale may appear only once in the header, repeated: %s.", strings.Join(repeated, ", ")))
}

func (i *Importer) operatorColumns(ctx context.Context, header []string) ([]column, error) {
	offset := len(baseColumns) + 1
	if len(header) < offset+1 {
		return nil, validationError(ErrTooFewColumns, TextCodeHeader,
			fmt.Sprintf("Expected at least %d columns (Project, Resource, Translation Key, Translation Source String and one language), got %d.", offset+1, len(header)))
	}
	var columns []column
	var unknown []string
	for idx := offset; idx < len(header); idx++ {
		name := strings.TrimSpace(header[idx])
		if _, ok := LanguageCode(name); !ok {
			unknown = append(unknown, name)
			continue
		}
		locale, err := i.catalog.GetLocaleByName(ctx, name)
		if err != nil {
			if !projects.IsNotFound(err) {
				return nil, err
			}
			unknown = append(unknown, name)
			continue
		}
		columns = append(columns, column{index: idx, name: name, locale: locale})
	}
	if len(unknown) > 0 {
		return nil, validationError(ErrUnknownLocales, TextCodeUnknownLocales,
			fmt.Sprintf("Unknown languages: %s. Accepted languages are %s.", strings.Join(unknown, ", "), strings.Join(LanguageNames(), ", ")))
	}
	if err := checkDuplicateColumns(columns); err != nil {
		return nil, err
	}
	return columns, nil
}

// applyRow resolves every reference on the row before writing anything, so a
// failing row leaves storage untouched.
func (i *Importer) applyRow(ctx context.Context, state *run, project *projects.Project, line int, record []string, offset int, columns []column) error {
	if isBlank(record) {
		return nil
	}
	path := cell(record, offset)
	key := rawCell(record, offset+1)

	resource, err := i.translations.Resource(ctx, project.ID, path)
	if err != nil {
		if !isNotFound(err) {
			return err
		}
		return state.rowFailed(&RowError{Line: line, Column: "Resource", Value: path, Err: ErrUnknownResource})
	}
	entity, err := i.translations.FindEntity(ctx, resource, key)
	if err != nil {
		switch {
		case errors.Is(err, translations.ErrUnsupportedFormat):
			return state.rowFailed(&RowError{Line: line, Column: "Translation Key", Value: key, Err: err})
		case isNotFound(err):
			return state.rowFailed(&RowError{Line: line, Column: "Translation Key", Value: key, Err: ErrUnknownEntity})
		default:
			return err
		}
	}

	state.report.Rows++
	for _, col := range columns {
		value := rawCell(record, col.index)
		if strings.TrimSpace(value) == "" || domain.IsReservedMark(value) {
			continue
		}
		if err := i.applyCell(ctx, state, project, entity, col.locale, value); err != nil {
			return err
		}
	}
	return nil
}

func (i *Importer) applyCell(ctx context.Context, state *run, project *projects.Project, entity *translations.Entity, locale *projects.Locale, value string) error {
	existing, err := i.translations.ListFor(ctx, entity.ID, locale.ID)
	if err != nil {
		return err
	}
	for _, tr := range existing {
		if tr.String == value {
			state.report.Unchanged++
			return nil
		}
	}

	allowed, err := i.canTranslate(ctx, state, project.ID, locale.ID)
	if err != nil {
		return err
	}
	req := translations.SubmitRequest{
		EntityID: entity.ID,
		LocaleID: locale.ID,
		String:   value,
		Approved: allowed,
	}
	if state.user != nil {
		id := state.user.ID
		req.UserID = &id
	}
	if _, err := i.translations.Submit(ctx, req); err != nil {
		return err
	}
	if allowed {
		state.report.Activated++
	} else {
		state.report.Suggested++
		state.suggested[project.ID]++
	}
	return nil
}

func (i *Importer) canTranslate(ctx context.Context, state *run, projectID, localeID uuid.UUID) (bool, error) {
	key := [2]uuid.UUID{projectID, localeID}
	if allowed, ok := state.allowed[key]; ok {
		return allowed, nil
	}
	allowed, err := i.auth.CanTranslate(ctx, state.user, projectID, localeID)
	if err != nil {
		return false, err
	}
	state.allowed[key] = allowed
	return allowed, nil
}

// finish notifies managers about committed suggestions, including those
// written before an abort, and logs the outcome.
func (i *Importer) finish(ctx context.Context, state *run, err error) (*ImportReport, error) {
	report := state.report
	i.notify(ctx, state)
	if err != nil {
		state.logger.Error("csv.import.aborted",
			"rows", report.Rows,
			"activated", report.Activated,
			"suggested", report.Suggested,
			"notified", report.Notified,
			"error", err,
		)
		return report, err
	}
	state.logger.Info("csv.import.completed",
		"rows", report.Rows,
		"activated", report.Activated,
		"suggested", report.Suggested,
		"unchanged", report.Unchanged,
		"row_errors", len(report.Errors),
	)
	return report, nil
}

func (i *Importer) notify(ctx context.Context, state *run) {
	report := state.report
	if i.notifier == nil || report.Suggested == 0 {
		return
	}
	for _, project := range state.projects {
		if state.suggested[project.ID] == 0 {
			continue
		}
		notified, err := i.notifier.NotifyImport(ctx, notifications.ImportNotice{
			Project:   project,
			Actor:     state.user,
			Suggested: state.suggested[project.ID],
			Activated: report.Activated,
		})
		if err != nil {
			state.logger.Warn("csv.import.notify_failed", "project", project.Slug, "error", err)
			continue
		}
		report.Notified += notified
	}
}

// rowFailed applies the row error policy: skip records and continues, abort
// returns the error wrapped as a validation error.
func (s *run) rowFailed(rowErr *RowError) error {
	s.logger.Warn("csv.import.row_failed", "line", rowErr.Line, "column", rowErr.Column, "value", rowErr.Value, "error", rowErr.Err)
	if strings.EqualFold(strings.TrimSpace(s.options.OnRowError), OnRowErrorSkip) {
		s.report.Errors = append(s.report.Errors, *rowErr)
		return nil
	}
	return validationError(rowErr, TextCodeRow, rowMessage(rowErr))
}

func rowMessage(rowErr *RowError) string {
	switch {
	case errors.Is(rowErr.Err, ErrUnknownResource):
		return fmt.Sprintf("Line %d: resource %q does not exist in this project.", rowErr.Line, rowErr.Value)
	case errors.Is(rowErr.Err, ErrUnknownEntity):
		return fmt.Sprintf("Line %d: translation key %q does not exist in this resource.", rowErr.Line, rowErr.Value)
	case errors.Is(rowErr.Err, ErrUnknownProject):
		return fmt.Sprintf("Line %d: project %q does not exist.", rowErr.Line, rowErr.Value)
	case errors.Is(rowErr.Err, translations.ErrUnsupportedFormat):
		return fmt.Sprintf("Line %d: keys of this resource format cannot be imported.", rowErr.Line)
	default:
		return fmt.Sprintf("Line %d: %v.", rowErr.Line, rowErr.Err)
	}
}

func newReader(source io.Reader) *csv.Reader {
	reader := csv.NewReader(source)
	reader.FieldsPerRecord = -1
	return reader
}

func readHeader(reader *csv.Reader) ([]string, error) {
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, validationError(ErrEmptyFile, TextCodeHeader, "The uploaded file is empty.")
	}
	if err != nil {
		return nil, malformed(err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], byteOrderMark)
	}
	return header, nil
}

func eachRow(ctx context.Context, reader *csv.Reader, fn func(line int, record []string) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return malformed(err)
		}
		line, _ := reader.FieldPos(0)
		if err := fn(line, record); err != nil {
			return err
		}
	}
}

func malformed(err error) error {
	return validationError(fmt.Errorf("%w: %v", ErrMalformedFile, err), TextCodeMalformed, "The uploaded file is not a valid CSV file.")
}

func cell(record []string, idx int) string {
	return strings.TrimSpace(rawCell(record, idx))
}

// rawCell keeps surrounding whitespace, which is significant in strings.
func rawCell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func isBlank(record []string) bool {
	for _, value := range record {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

func isNotFound(err error) bool {
	var target *translations.NotFoundError
	return errors.As(err, &target)
}

func userID(user *users.User) string {
	if user == nil {
		return ""
	}
	return user.ID.String()
}
