package csvtransfer

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"

	"github.com/goliatone/go-l10n/internal/domain"
	"github.com/goliatone/go-l10n/internal/logging"
	"github.com/goliatone/go-l10n/internal/projects"
	"github.com/goliatone/go-l10n/internal/translations"
	"github.com/goliatone/go-l10n/pkg/interfaces"
)

var baseColumns = []string{"Resource", "Translation Key", "Translation Source String"}

// LocaleSource lists the locales enabled for a project.
type LocaleSource interface {
	Locales(ctx context.Context, projectID uuid.UUID) ([]*projects.Locale, error)
}

// TranslationReader is the read side of translations.Service used by exports.
type TranslationReader interface {
	Resources(ctx context.Context, projectID uuid.UUID) ([]*translations.Resource, error)
	Entities(ctx context.Context, projectID uuid.UUID) ([]*translations.Entity, error)
	ActiveTranslations(ctx context.Context, projectID uuid.UUID) ([]*translations.Translation, error)
}

// Exporter renders a project's translation status as a spreadsheet.
type Exporter struct {
	locales      LocaleSource
	translations TranslationReader
	logger       interfaces.Logger
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithExportLogger sets the logger used for export events.
func WithExportLogger(logger interfaces.Logger) ExporterOption {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func NewExporter(locales LocaleSource, reader TranslationReader, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		locales:      locales,
		translations: reader,
		logger:       logging.NoOp(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Filename returns the download name for a project export.
func (e *Exporter) Filename(project *projects.Project) string {
	return fmt.Sprintf("%s_translations_stats.csv", project.Slug)
}

type cellKey struct {
	entity uuid.UUID
	locale uuid.UUID
}

// Export writes one row per non-obsolete entity with one column per project
// locale. Cells hold the approved string or a status mark.
func (e *Exporter) Export(ctx context.Context, project *projects.Project, w io.Writer) error {
	if project == nil {
		return ErrProjectRequired
	}
	logger := logging.WithProjectContext(e.logger, project.Slug, "", "")

	locales, err := e.locales.Locales(ctx, project.ID)
	if err != nil {
		return err
	}
	sort.SliceStable(locales, func(i, j int) bool {
		return locales[i].Name < locales[j].Name
	})

	resources, err := e.translations.Resources(ctx, project.ID)
	if err != nil {
		return err
	}
	resourcesByID := make(map[uuid.UUID]*translations.Resource, len(resources))
	for _, resource := range resources {
		resourcesByID[resource.ID] = resource
	}

	entities, err := e.translations.Entities(ctx, project.ID)
	if err != nil {
		return err
	}
	sort.SliceStable(entities, func(i, j int) bool {
		left, right := resourcesByID[entities[i].ResourceID], resourcesByID[entities[j].ResourceID]
		if left != nil && right != nil && left.Path != right.Path {
			return left.Path < right.Path
		}
		if entities[i].Order != entities[j].Order {
			return entities[i].Order < entities[j].Order
		}
		return entities[i].Key < entities[j].Key
	})

	active, err := e.translations.ActiveTranslations(ctx, project.ID)
	if err != nil {
		return err
	}
	cells := make(map[cellKey]*translations.Translation, len(active))
	for _, tr := range active {
		cells[cellKey{entity: tr.EntityID, locale: tr.LocaleID}] = tr
	}

	out := newQuoteAllWriter(w)
	header := append([]string{}, baseColumns...)
	for _, locale := range locales {
		header = append(header, locale.Name)
	}
	if err := out.Write(header); err != nil {
		return err
	}

	rows := 0
	for _, entity := range entities {
		if entity.Obsolete {
			continue
		}
		resource := resourcesByID[entity.ResourceID]
		if resource == nil {
			continue
		}
		record := make([]string, 0, len(header))
		record = append(record, resource.Path, translations.ExportKey(resource.Format, entity.Key), entity.String)
		for _, locale := range locales {
			record = append(record, cellValue(cells[cellKey{entity: entity.ID, locale: locale.ID}]))
		}
		if err := out.Write(record); err != nil {
			return err
		}
		rows++
	}
	if err := out.Flush(); err != nil {
		return err
	}
	logger.Info("csv.export.completed", "rows", rows, "locales", len(locales))
	return nil
}

func cellValue(tr *translations.Translation) string {
	switch {
	case tr == nil:
		return string(domain.MarkMissing)
	case tr.Approved:
		return tr.String
	default:
		return string(tr.Mark())
	}
}
