package csvtransfer_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-l10n/internal/csvtransfer"
	"github.com/goliatone/go-l10n/internal/domain"
	"github.com/goliatone/go-l10n/internal/notifications"
	"github.com/goliatone/go-l10n/internal/permissions"
	"github.com/goliatone/go-l10n/internal/projects"
	"github.com/goliatone/go-l10n/internal/translations"
	"github.com/goliatone/go-l10n/internal/users"
	"github.com/goliatone/go-l10n/pkg/testsupport"
)

type fixture struct {
	projects      projects.Service
	translations  translations.Service
	auth          *permissions.Authorizer
	notifications notifications.Service
	exporter      *csvtransfer.Exporter
	importer      *csvtransfer.Importer

	project    *projects.Project
	fr, de     *projects.Locale
	hello, bye *translations.Entity
	title      *translations.Entity
	manager    *users.User
	translator *users.User
	visitor    *users.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{}

	locales := projects.NewMemoryLocaleRepository()
	f.projects = projects.NewService(projects.NewMemoryProjectRepository(locales), locales)
	for code, name := range map[string]string{"fr": "French", "de": "German", "es": "Spanish"} {
		if _, err := f.projects.CreateLocale(ctx, code, name); err != nil {
			t.Fatalf("create locale %s: %v", code, err)
		}
	}
	var err error
	if f.fr, err = f.projects.GetLocale(ctx, "fr"); err != nil {
		t.Fatalf("get locale: %v", err)
	}
	if f.de, err = f.projects.GetLocale(ctx, "de"); err != nil {
		t.Fatalf("get locale: %v", err)
	}
	f.project, err = f.projects.Create(ctx, projects.CreateProjectRequest{Name: "Monitor", Locales: []string{"fr", "de"}})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	resources := translations.NewMemoryResourceRepository()
	entities := translations.NewMemoryEntityRepository(resources)
	f.translations = translations.NewService(resources, entities, translations.NewMemoryTranslationRepository(entities))

	po := f.createResource(t, "app.po", domain.FormatPO)
	jsonResource := f.createResource(t, "strings.json", domain.FormatJSON)
	f.createResource(t, "strings.xliff", domain.FormatXLIFF)
	f.hello = f.createEntity(t, po.ID, "hello", "Hello", 0)
	f.bye = f.createEntity(t, po.ID, "bye", "Goodbye", 1)
	f.title = f.createEntity(t, jsonResource.ID, `["menu", "title"]`, "Title", 0)
	if _, err := f.translations.CreateEntity(ctx, translations.CreateEntityRequest{ResourceID: po.ID, Key: "retired", String: "Old", Obsolete: true}); err != nil {
		t.Fatalf("create obsolete entity: %v", err)
	}

	f.manager = &users.User{ID: uuid.New(), Email: "pm@example.com", Name: "Pat"}
	f.translator = &users.User{ID: uuid.New(), Email: "fr@example.com"}
	f.visitor = &users.User{ID: uuid.New(), Email: "visitor@example.com"}

	f.auth = permissions.NewAuthorizer(permissions.NewMemoryGrantRepository())
	if _, err := f.auth.Grant(ctx, permissions.GrantRequest{UserID: f.manager.ID, Role: domain.RoleManager, ProjectID: &f.project.ID}); err != nil {
		t.Fatalf("grant manager: %v", err)
	}
	if _, err := f.auth.Grant(ctx, permissions.GrantRequest{UserID: f.translator.ID, Role: domain.RoleTranslator, LocaleID: &f.fr.ID}); err != nil {
		t.Fatalf("grant translator: %v", err)
	}

	f.submit(t, translations.SubmitRequest{EntityID: f.hello.ID, LocaleID: f.fr.ID, String: "Bonjour", Approved: true})
	f.submit(t, translations.SubmitRequest{EntityID: f.bye.ID, LocaleID: f.fr.ID, String: "Au revoir", Active: true, Fuzzy: true})
	f.submit(t, translations.SubmitRequest{EntityID: f.bye.ID, LocaleID: f.de.ID, String: "Tschüss", Active: true, Pretranslated: true})
	f.submit(t, translations.SubmitRequest{EntityID: f.title.ID, LocaleID: f.fr.ID, String: "Titre", Approved: true})

	f.notifications = notifications.NewService(notifications.NewMemoryRepository(), f.auth, f.projects, f.translations)
	f.exporter = csvtransfer.NewExporter(f.projects, f.translations)
	f.importer = csvtransfer.NewImporter(f.projects, f.translations, f.auth, csvtransfer.WithNotifier(f.notifications))
	return f
}

func (f *fixture) createResource(t *testing.T, path string, format domain.Format) *translations.Resource {
	t.Helper()
	resource, err := f.translations.CreateResource(context.Background(), translations.CreateResourceRequest{ProjectID: f.project.ID, Path: path, Format: format})
	if err != nil {
		t.Fatalf("create resource %s: %v", path, err)
	}
	return resource
}

func (f *fixture) createEntity(t *testing.T, resourceID uuid.UUID, key, source string, order int) *translations.Entity {
	t.Helper()
	entity, err := f.translations.CreateEntity(context.Background(), translations.CreateEntityRequest{ResourceID: resourceID, Key: key, String: source, Order: order})
	if err != nil {
		t.Fatalf("create entity %s: %v", key, err)
	}
	return entity
}

func (f *fixture) submit(t *testing.T, req translations.SubmitRequest) {
	t.Helper()
	if _, err := f.translations.Submit(context.Background(), req); err != nil {
		t.Fatalf("submit: %v", err)
	}
}

func (f *fixture) translationCount(t *testing.T) int {
	t.Helper()
	all, err := f.translations.ProjectTranslations(context.Background(), f.project.ID)
	if err != nil {
		t.Fatalf("project translations: %v", err)
	}
	return len(all)
}

func (f *fixture) active(t *testing.T, entityID, localeID uuid.UUID) *translations.Translation {
	t.Helper()
	list, err := f.translations.ListFor(context.Background(), entityID, localeID)
	if err != nil {
		t.Fatalf("list translations: %v", err)
	}
	var active *translations.Translation
	for _, tr := range list {
		if tr.Active {
			if active != nil {
				t.Fatalf("more than one active translation for %s/%s", entityID, localeID)
			}
			active = tr
		}
	}
	return active
}

func (f *fixture) importCSV(user *users.User, body string, opts csvtransfer.ImportOptions) (*csvtransfer.ImportReport, error) {
	return f.importer.Import(context.Background(), csvtransfer.ImportRequest{
		Project: f.project,
		User:    user,
		Source:  strings.NewReader(body),
		Options: opts,
	})
}

func TestExportRendersApprovedStringsAndMarks(t *testing.T) {
	f := newFixture(t)
	var buf bytes.Buffer
	if err := f.exporter.Export(context.Background(), f.project, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	want := `"Resource","Translation Key","Translation Source String","French","German"
"app.po","hello","Hello","Bonjour","MISSING"
"app.po","bye","Goodbye","FUZZY","PRETRANSLATED"
"strings.json","menu.title","Title","Titre","MISSING"
`
	if buf.String() != want {
		t.Fatalf("unexpected export:\n%s\nwant:\n%s", buf.String(), want)
	}
	if name := f.exporter.Filename(f.project); name != "monitor_translations_stats.csv" {
		t.Fatalf("unexpected filename %q", name)
	}
}

func TestExportEscapesQuotes(t *testing.T) {
	f := newFixture(t)
	f.submit(t, translations.SubmitRequest{EntityID: f.hello.ID, LocaleID: f.de.ID, String: `Sag "Hallo", bitte`, Approved: true})
	var buf bytes.Buffer
	if err := f.exporter.Export(context.Background(), f.project, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(buf.String(), `"Bonjour","Sag ""Hallo"", bitte"`) {
		t.Fatalf("expected doubled quotes, got:\n%s", buf.String())
	}
}

func TestExportHeaderMatchesUploadTemplate(t *testing.T) {
	f := newFixture(t)
	records, err := testsupport.LoadRecords("testdata/suggestions.csv")
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	var buf bytes.Buffer
	if err := f.exporter.Export(context.Background(), f.project, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	header, _, _ := strings.Cut(buf.String(), "\n")
	want := `"` + strings.Join(records[0], `","`) + `"`
	if header != want {
		t.Fatalf("expected header %s, got %s", want, header)
	}
}

func TestExportThenImportChangesNothing(t *testing.T) {
	f := newFixture(t)
	f.submit(t, translations.SubmitRequest{EntityID: f.hello.ID, LocaleID: f.de.ID, String: "  Hallo ", Approved: true})
	var buf bytes.Buffer
	if err := f.exporter.Export(context.Background(), f.project, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	before := f.translationCount(t)

	report, err := f.importCSV(f.manager, buf.String(), csvtransfer.ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Activated != 0 || report.Suggested != 0 {
		t.Fatalf("expected no new translations, got %+v", report)
	}
	if report.Rows != 3 || report.Unchanged != 3 {
		t.Fatalf("expected 3 rows with 3 unchanged cells, got %+v", report)
	}
	if after := f.translationCount(t); after != before {
		t.Fatalf("translation count changed from %d to %d", before, after)
	}
}

func TestImportAuthorizedUserActivatesAndApproves(t *testing.T) {
	f := newFixture(t)
	previous := f.active(t, f.hello.ID, f.fr.ID)

	body := "Resource,Translation Key,Translation Source String,French\napp.po,hello,Hello,Salut\n"
	report, err := f.importCSV(f.translator, body, csvtransfer.ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Activated != 1 || report.Suggested != 0 {
		t.Fatalf("unexpected report %+v", report)
	}

	active := f.active(t, f.hello.ID, f.fr.ID)
	if active == nil || active.String != "Salut" || !active.Approved {
		t.Fatalf("expected approved active Salut, got %+v", active)
	}
	if active.ApprovedUserID == nil || *active.ApprovedUserID != f.translator.ID || active.ApprovedDate == nil {
		t.Fatalf("expected approval stamped by translator, got %+v", active)
	}
	if active.ID == previous.ID {
		t.Fatalf("expected a new translation record")
	}
}

func TestImportUnauthorizedUserSuggestsAndNotifiesManagers(t *testing.T) {
	f := newFixture(t)
	raw, err := testsupport.LoadFixture("testdata/suggestions.csv")
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}

	report, err := f.importCSV(f.visitor, string(raw), csvtransfer.ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Suggested != 3 || report.Activated != 0 || report.Rows != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.Notified != 1 {
		t.Fatalf("expected the manager to be notified, got %d", report.Notified)
	}

	if active := f.active(t, f.hello.ID, f.fr.ID); active == nil || active.String != "Bonjour" {
		t.Fatalf("expected Bonjour to stay active, got %+v", active)
	}
	if active := f.active(t, f.title.ID, f.de.ID); active != nil {
		t.Fatalf("expected no active German title, got %+v", active)
	}
	list, err := f.translations.ListFor(context.Background(), f.title.ID, f.de.ID)
	if err != nil || len(list) != 1 || list[0].String != "Titel" || list[0].Approved {
		t.Fatalf("expected one unapproved suggestion, got %+v %v", list, err)
	}

	inbox, err := f.notifications.List(context.Background(), f.manager.ID, true)
	if err != nil || len(inbox) != 1 || inbox[0].Verb != notifications.VerbImported {
		t.Fatalf("expected an import notification, got %+v %v", inbox, err)
	}
}

func TestImportTranslatorOnlyActivatesGrantedLocale(t *testing.T) {
	f := newFixture(t)
	body := "Resource,Translation Key,Translation Source String,French,German\napp.po,hello,Hello,Salut,Hallo\n"
	report, err := f.importCSV(f.translator, body, csvtransfer.ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Activated != 1 || report.Suggested != 1 {
		t.Fatalf("expected one activation and one suggestion, got %+v", report)
	}
	if active := f.active(t, f.hello.ID, f.de.ID); active != nil {
		t.Fatalf("expected German to stay missing, got %+v", active)
	}
}

func TestImportIgnoresReservedMarks(t *testing.T) {
	f := newFixture(t)
	before := f.translationCount(t)
	body := "Resource,Translation Key,Translation Source String,French,German\n" +
		"app.po,hello,Hello,UNREVIEWED,MISSING\n" +
		"app.po,bye,Goodbye,REJECTED,FUZZY\n"
	report, err := f.importCSV(f.manager, body, csvtransfer.ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Activated != 0 || report.Suggested != 0 || report.Unchanged != 0 {
		t.Fatalf("expected marks to be ignored, got %+v", report)
	}
	if after := f.translationCount(t); after != before {
		t.Fatalf("translation count changed from %d to %d", before, after)
	}
}

func TestImportSkipsStringMatchingInactiveTranslation(t *testing.T) {
	f := newFixture(t)
	f.submit(t, translations.SubmitRequest{EntityID: f.hello.ID, LocaleID: f.fr.ID, String: "Coucou"})
	before := f.translationCount(t)

	body := "Resource,Translation Key,Translation Source String,French\napp.po,hello,Hello,Coucou\n"
	report, err := f.importCSV(f.manager, body, csvtransfer.ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Unchanged != 1 || f.translationCount(t) != before {
		t.Fatalf("expected the existing suggestion to be reused, got %+v", report)
	}
}

func TestImportStructuralErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want error
	}{
		{name: "empty", body: "", want: csvtransfer.ErrEmptyFile},
		{name: "too few columns", body: "Resource,Translation Key,Translation Source String\n", want: csvtransfer.ErrTooFewColumns},
		{name: "locale not enabled", body: "Resource,Translation Key,Translation Source String,Spanish\napp.po,hello,Hello,Hola\n", want: csvtransfer.ErrUnknownLocales},
		{name: "unknown locale", body: "Resource,Translation Key,Translation Source String,Klingon\n", want: csvtransfer.ErrUnknownLocales},
		{name: "malformed", body: "Resource,Translation Key,Translation Source String,French\n\"app.po,hello\n", want: csvtransfer.ErrMalformedFile},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			before := f.translationCount(t)
			_, err := f.importCSV(f.manager, tc.body, csvtransfer.ImportOptions{})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
				t.Fatalf("expected validation category, got %v", err)
			}
			if after := f.translationCount(t); after != before {
				t.Fatalf("translation count changed from %d to %d", before, after)
			}
		})
	}
}

func TestImportUnknownLocaleMessageNamesColumns(t *testing.T) {
	f := newFixture(t)
	_, err := f.importCSV(f.manager, "Resource,Translation Key,Translation Source String,French,Spanish,Klingon\n", csvtransfer.ImportOptions{})
	msg := csvtransfer.Message(err)
	if !strings.Contains(msg, "Spanish, Klingon") || !strings.Contains(msg, "Monitor") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestImportAbortsOnUnknownKeyWithLineNumber(t *testing.T) {
	f := newFixture(t)
	body := "Resource,Translation Key,Translation Source String,French\n" +
		"app.po,hello,Hello,Salut\n" +
		"app.po,missing,Missing,Manquant\n" +
		"app.po,bye,Goodbye,Adieu\n"

	report, err := f.importCSV(f.manager, body, csvtransfer.ImportOptions{})
	if !errors.Is(err, csvtransfer.ErrUnknownEntity) {
		t.Fatalf("expected ErrUnknownEntity, got %v", err)
	}
	var rowErr *csvtransfer.RowError
	if !errors.As(err, &rowErr) || rowErr.Line != 3 || rowErr.Value != "missing" {
		t.Fatalf("expected row error on line 3, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if report == nil || report.Activated != 1 {
		t.Fatalf("expected the first row to be applied, got %+v", report)
	}
	if active := f.active(t, f.bye.ID, f.fr.ID); active.String != "Au revoir" {
		t.Fatalf("expected rows after the failure to be untouched, got %+v", active)
	}
}

func TestImportSkipPolicyCollectsRowErrors(t *testing.T) {
	f := newFixture(t)
	body := "Resource,Translation Key,Translation Source String,French\n" +
		"missing.po,hello,Hello,Salut\n" +
		"strings.xliff,title,Title,Titre\n" +
		"app.po,bye,Goodbye,Adieu\n"

	report, err := f.importCSV(f.manager, body, csvtransfer.ImportOptions{OnRowError: csvtransfer.OnRowErrorSkip})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Activated != 1 || len(report.Errors) != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.Errors[0].Line != 2 || !errors.Is(&report.Errors[0], csvtransfer.ErrUnknownResource) {
		t.Fatalf("unexpected first row error %+v", report.Errors[0])
	}
	if report.Errors[1].Line != 3 || !errors.Is(&report.Errors[1], translations.ErrUnsupportedFormat) {
		t.Fatalf("unexpected second row error %+v", report.Errors[1])
	}
}

func TestImportJSONKeyRoundTrip(t *testing.T) {
	f := newFixture(t)
	body := "Resource,Translation Key,Translation Source String,German\nstrings.json,menu.title,Title,Titel\n"
	report, err := f.importCSV(f.manager, body, csvtransfer.ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Activated != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if active := f.active(t, f.title.ID, f.de.ID); active == nil || active.String != "Titel" {
		t.Fatalf("expected Titel active, got %+v", active)
	}
}

func TestOperatorImportActivatesWithoutGrants(t *testing.T) {
	f := newFixture(t)
	body := "Project,Resource,Translation Key,Translation Source String,French,German\n" +
		"Monitor,app.po,hello,Hello,Salut,Hallo\n"

	report, err := f.importer.ImportOperator(context.Background(), csvtransfer.OperatorImportRequest{
		User:   f.visitor,
		Source: strings.NewReader(body),
	})
	if err != nil {
		t.Fatalf("operator import: %v", err)
	}
	if report.Activated != 2 || report.Suggested != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	if active := f.active(t, f.hello.ID, f.de.ID); active == nil || active.String != "Hallo" || !active.Approved {
		t.Fatalf("expected Hallo approved, got %+v", active)
	}
}

func TestOperatorImportValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.importer.ImportOperator(context.Background(), csvtransfer.OperatorImportRequest{
		Source: strings.NewReader("Project,Resource,Translation Key,Translation Source String,Klingon\n"),
	})
	if !errors.Is(err, csvtransfer.ErrUnknownLocales) {
		t.Fatalf("expected ErrUnknownLocales, got %v", err)
	}

	_, err = f.importer.ImportOperator(context.Background(), csvtransfer.OperatorImportRequest{
		Source: strings.NewReader("Resource,Translation Key,Translation Source String,French\n"),
	})
	if !errors.Is(err, csvtransfer.ErrTooFewColumns) {
		t.Fatalf("expected ErrTooFewColumns, got %v", err)
	}

	_, err = f.importer.ImportOperator(context.Background(), csvtransfer.OperatorImportRequest{
		Source: strings.NewReader("Project,Resource,Translation Key,Translation Source String,French\nUnknown,app.po,hello,Hello,Salut\n"),
	})
	var rowErr *csvtransfer.RowError
	if !errors.Is(err, csvtransfer.ErrUnknownProject) || !errors.As(err, &rowErr) || rowErr.Line != 2 {
		t.Fatalf("expected unknown project on line 2, got %v", err)
	}
}

func TestLanguageTable(t *testing.T) {
	if code, ok := csvtransfer.LanguageCode("Irish"); !ok || code != "ga" {
		t.Fatalf("expected ga for Irish, got %q %v", code, ok)
	}
	if _, ok := csvtransfer.LanguageCode("Klingon"); ok {
		t.Fatalf("expected Klingon to be rejected")
	}
	names := csvtransfer.LanguageNames()
	if len(names) != 24 || names[0] != "Bulgarian" {
		t.Fatalf("unexpected language names %v", names)
	}
}

func TestImportAbortStillNotifiesCommittedSuggestions(t *testing.T) {
	f := newFixture(t)
	body := "Resource,Translation Key,Translation Source String,French\n" +
		"app.po,hello,Hello,Salut\n" +
		"app.po,missing,Missing,Manquant\n"

	report, err := f.importCSV(f.visitor, body, csvtransfer.ImportOptions{})
	if !errors.Is(err, csvtransfer.ErrUnknownEntity) {
		t.Fatalf("expected ErrUnknownEntity, got %v", err)
	}
	if report == nil || report.Suggested != 1 || report.Notified != 1 {
		t.Fatalf("expected the committed suggestion to be announced, got %+v", report)
	}
	inbox, err := f.notifications.List(context.Background(), f.manager.ID, true)
	if err != nil || len(inbox) != 1 || inbox[0].Verb != notifications.VerbImported {
		t.Fatalf("expected an import notification, got %+v %v", inbox, err)
	}
}

func TestImportAbortBeforeAnySuggestionSendsNothing(t *testing.T) {
	f := newFixture(t)
	body := "Resource,Translation Key,Translation Source String,French\n" +
		"app.po,missing,Missing,Manquant\n"

	report, err := f.importCSV(f.visitor, body, csvtransfer.ImportOptions{})
	if err == nil {
		t.Fatalf("expected the import to abort")
	}
	if report.Notified != 0 {
		t.Fatalf("expected no notification, got %+v", report)
	}
	inbox, err := f.notifications.List(context.Background(), f.manager.ID, true)
	if err != nil || len(inbox) != 0 {
		t.Fatalf("expected an empty inbox, got %+v %v", inbox, err)
	}
}

func TestImportRejectsRepeatedLocaleColumns(t *testing.T) {
	f := newFixture(t)
	before := f.translationCount(t)

	_, err := f.importCSV(f.manager, "Resource,Translation Key,Translation Source String,French,French\napp.po,hello,Hello,Salut,Coucou\n", csvtransfer.ImportOptions{})
	if !errors.Is(err, csvtransfer.ErrDuplicateLocale) {
		t.Fatalf("expected ErrDuplicateLocale, got %v", err)
	}
	var typed *goerrors.Error
	if !errors.As(err, &typed) || typed.TextCode != csvtransfer.TextCodeHeader || typed.Category != goerrors.CategoryValidation {
		t.Fatalf("expected a header validation error, got %v", err)
	}
	if !strings.Contains(csvtransfer.Message(err), "French") {
		t.Fatalf("expected the message to name the column, got %q", csvtransfer.Message(err))
	}

	_, err = f.importer.ImportOperator(context.Background(), csvtransfer.OperatorImportRequest{
		User:   f.visitor,
		Source: strings.NewReader("Project,Resource,Translation Key,Translation Source String,German,French,German\nMonitor,app.po,hello,Hello,Hallo,Salut,Servus\n"),
	})
	if !errors.Is(err, csvtransfer.ErrDuplicateLocale) {
		t.Fatalf("expected ErrDuplicateLocale from operator import, got %v", err)
	}
	if after := f.translationCount(t); after != before {
		t.Fatalf("translation count changed from %d to %d", before, after)
	}
}
