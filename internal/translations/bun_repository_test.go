package translations_test

import (
	"context"
	"errors"
	"testing"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"

	"github.com/goliatone/go-l10n/internal/domain"
	"github.com/goliatone/go-l10n/internal/storage"
	"github.com/goliatone/go-l10n/internal/translations"
)

func TestBunTranslationRepositoryActivateSwapsActive(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(storage.ProviderSQLite, "file:translations_bun?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := storage.CreateSchema(ctx, db); err != nil {
		t.Fatalf("schema: %v", err)
	}

	resources := translations.NewBunResourceRepository(db)
	entities := translations.NewBunEntityRepository(db)
	repo := translations.NewBunTranslationRepository(db)
	svc := translations.NewService(resources, entities, repo)

	projectID := uuid.New()
	localeID := uuid.New()
	resource, err := svc.CreateResource(ctx, translations.CreateResourceRequest{ProjectID: projectID, Path: "strings.json", Format: domain.FormatJSON})
	if err != nil {
		t.Fatalf("resource: %v", err)
	}
	entity, err := svc.CreateEntity(ctx, translations.CreateEntityRequest{ResourceID: resource.ID, Key: `["menu", "open"]`, String: "Open"})
	if err != nil {
		t.Fatalf("entity: %v", err)
	}
	if _, err := svc.CreateEntity(ctx, translations.CreateEntityRequest{ResourceID: resource.ID, Key: `["gone"]`, String: "Gone", Obsolete: true}); err != nil {
		t.Fatalf("obsolete entity: %v", err)
	}

	found, err := svc.FindEntity(ctx, resource, "menu.open")
	if err != nil {
		t.Fatalf("find entity: %v", err)
	}
	if found.ID != entity.ID {
		t.Fatalf("expected entity %s, got %s", entity.ID, found.ID)
	}

	userID := uuid.New()
	if _, err := svc.Submit(ctx, translations.SubmitRequest{EntityID: entity.ID, LocaleID: localeID, UserID: &userID, String: "Ouvrir", Approved: true}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := svc.Submit(ctx, translations.SubmitRequest{EntityID: entity.ID, LocaleID: localeID, UserID: &userID, String: "Ouvrir le menu", Approved: true}); err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if _, err := svc.Submit(ctx, translations.SubmitRequest{EntityID: entity.ID, LocaleID: localeID, String: "Suggestion"}); err != nil {
		t.Fatalf("suggestion: %v", err)
	}

	all, err := svc.ListFor(ctx, entity.ID, localeID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 translations, got %d", len(all))
	}
	active := 0
	for _, tr := range all {
		if tr.Active {
			active++
			if tr.String != "Ouvrir le menu" || !tr.Approved || tr.ApprovedDate == nil {
				t.Fatalf("unexpected active translation %+v", tr)
			}
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active translation, got %d", active)
	}

	activeByProject, err := svc.ActiveTranslations(ctx, projectID)
	if err != nil {
		t.Fatalf("active by project: %v", err)
	}
	if len(activeByProject) != 1 {
		t.Fatalf("expected 1 active translation for project, got %d", len(activeByProject))
	}
	listed, err := svc.Entities(ctx, projectID)
	if err != nil {
		t.Fatalf("entities: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected obsolete entity excluded, got %d", len(listed))
	}
}

func TestBunResourceRepositoryWithCacheLooksUpEachPath(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(storage.ProviderSQLite, "file:translations_bun_cache?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := storage.CreateSchema(ctx, db); err != nil {
		t.Fatalf("schema: %v", err)
	}

	cacheService, err := repocache.NewCacheService(repocache.DefaultConfig())
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	resources := translations.NewBunResourceRepositoryWithCache(db, cacheService, repocache.NewDefaultKeySerializer())

	monitor, other := uuid.New(), uuid.New()
	app, err := resources.Create(ctx, &translations.Resource{ProjectID: monitor, Path: "app.po", Format: domain.FormatPO})
	if err != nil {
		t.Fatalf("create app.po: %v", err)
	}
	menu, err := resources.Create(ctx, &translations.Resource{ProjectID: monitor, Path: "menu.po", Format: domain.FormatPO})
	if err != nil {
		t.Fatalf("create menu.po: %v", err)
	}
	if _, err := resources.Create(ctx, &translations.Resource{ProjectID: other, Path: "other.po", Format: domain.FormatPO}); err != nil {
		t.Fatalf("create other.po: %v", err)
	}

	for path, want := range map[string]uuid.UUID{"app.po": app.ID, "menu.po": menu.ID} {
		got, err := resources.GetByPath(ctx, monitor, path)
		if err != nil {
			t.Fatalf("GetByPath(%s): %v", path, err)
		}
		if got.ID != want {
			t.Fatalf("GetByPath(%s) returned %s", path, got.Path)
		}
	}
	var notFound *translations.NotFoundError
	if got, err := resources.GetByPath(ctx, monitor, "missing.po"); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError for missing.po, got %v %v", got, err)
	}
	if _, err := resources.GetByPath(ctx, monitor, "other.po"); !errors.As(err, &notFound) {
		t.Fatalf("expected other project's resource to stay hidden, got %v", err)
	}

	listed, err := resources.ListByProject(ctx, monitor)
	if err != nil {
		t.Fatalf("ListByProject: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 resources for project, got %d", len(listed))
	}
	otherListed, err := resources.ListByProject(ctx, other)
	if err != nil {
		t.Fatalf("ListByProject(other): %v", err)
	}
	if len(otherListed) != 1 || otherListed[0].Path != "other.po" {
		t.Fatalf("expected other.po only, got %+v", otherListed)
	}

	cached, err := resources.GetByID(ctx, menu.ID)
	if err != nil || cached.Path != "menu.po" {
		t.Fatalf("GetByID: %v %v", cached, err)
	}
}
