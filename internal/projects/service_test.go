package projects_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-l10n/internal/domain"
	"github.com/goliatone/go-l10n/internal/projects"
	"github.com/goliatone/go-l10n/internal/users"
)

func newMemoryService(t *testing.T) projects.Service {
	t.Helper()
	locales := projects.NewMemoryLocaleRepository()
	svc := projects.NewService(
		projects.NewMemoryProjectRepository(locales),
		locales,
		projects.WithTagRepository(projects.NewMemoryTagRepository()),
	)
	ctx := context.Background()
	for code, name := range map[string]string{"fr": "French", "de": "German", "es": "Spanish"} {
		if _, err := svc.CreateLocale(ctx, code, name); err != nil {
			t.Fatalf("create locale %s: %v", code, err)
		}
	}
	return svc
}

func TestServiceCreateNormalizesSlugAndLinksLocales(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryService(t)

	project, err := svc.Create(ctx, projects.CreateProjectRequest{
		Name:    "Firefox Monitor",
		Locales: []string{"fr", "de"},
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if project.Slug != "firefox-monitor" {
		t.Fatalf("expected normalized slug, got %q", project.Slug)
	}
	if project.Visibility != domain.VisibilityPublic {
		t.Fatalf("expected public default visibility, got %q", project.Visibility)
	}

	locales, err := svc.Locales(ctx, project.ID)
	if err != nil {
		t.Fatalf("locales: %v", err)
	}
	if len(locales) != 2 || locales[0].Code != "fr" || locales[1].Code != "de" {
		t.Fatalf("expected French then German, got %+v", locales)
	}

	ok, err := svc.HasLocale(ctx, project.ID, "es")
	if err != nil || ok {
		t.Fatalf("expected es not enabled, got %v %v", ok, err)
	}

	if _, err := svc.Create(ctx, projects.CreateProjectRequest{Name: "Firefox Monitor"}); !errors.Is(err, projects.ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}
	if _, err := svc.Create(ctx, projects.CreateProjectRequest{Name: "Other", Locales: []string{"xx"}}); !errors.Is(err, projects.ErrUnknownLocale) {
		t.Fatalf("expected ErrUnknownLocale, got %v", err)
	}
}

func TestServiceChangeSlugRedirectsOldSlug(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryService(t)

	project, err := svc.Create(ctx, projects.CreateProjectRequest{Slug: "old-name", Name: "Old"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if _, err := svc.ChangeSlug(ctx, project.ID, "new-name"); err != nil {
		t.Fatalf("change slug: %v", err)
	}

	_, err = svc.Get(ctx, "old-name")
	var redirect *projects.SlugRedirectError
	if !errors.As(err, &redirect) {
		t.Fatalf("expected SlugRedirectError, got %v", err)
	}
	if redirect.Slug != "new-name" {
		t.Fatalf("expected redirect to new-name, got %q", redirect.Slug)
	}

	current, err := svc.Get(ctx, "new-name")
	if err != nil || current.ID != project.ID {
		t.Fatalf("expected project under new slug, got %v %v", current, err)
	}

	if _, err := svc.Get(ctx, "never-existed"); !projects.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceVisibility(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryService(t)

	if _, err := svc.Create(ctx, projects.CreateProjectRequest{Name: "Public"}); err != nil {
		t.Fatalf("create public: %v", err)
	}
	if _, err := svc.Create(ctx, projects.CreateProjectRequest{Name: "Secret", Visibility: domain.VisibilityPrivate}); err != nil {
		t.Fatalf("create private: %v", err)
	}
	if _, err := svc.Create(ctx, projects.CreateProjectRequest{Name: "Terminology", SystemProject: true}); err != nil {
		t.Fatalf("create system: %v", err)
	}

	anonymous, err := svc.ListVisible(ctx, nil)
	if err != nil {
		t.Fatalf("list anonymous: %v", err)
	}
	if len(anonymous) != 1 || anonymous[0].Slug != "public" {
		t.Fatalf("expected only public project, got %+v", anonymous)
	}

	admin := &users.User{Email: "admin@example.com", IsSuperuser: true}
	all, err := svc.ListVisible(ctx, admin)
	if err != nil {
		t.Fatalf("list admin: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected superuser to see 3 projects, got %d", len(all))
	}

	if _, err := svc.GetVisible(ctx, "secret", nil); !projects.IsNotFound(err) {
		t.Fatalf("expected hidden project to be not found, got %v", err)
	}
}

func TestServiceTagsCountResources(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryService(t)

	project, err := svc.Create(ctx, projects.CreateProjectRequest{Name: "Tagged", TagsEnabled: true})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	low, err := svc.CreateTag(ctx, projects.CreateTagRequest{ProjectID: project.ID, Name: "Release Notes", Priority: 1})
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	high, err := svc.CreateTag(ctx, projects.CreateTagRequest{ProjectID: project.ID, Name: "Onboarding", Priority: 5})
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	if err := svc.TagResource(ctx, low.ID, project.ID); err != nil {
		t.Fatalf("tag resource: %v", err)
	}

	tags, err := svc.Tags(ctx, project.ID)
	if err != nil {
		t.Fatalf("tags: %v", err)
	}
	if len(tags) != 2 || tags[0].ID != high.ID {
		t.Fatalf("expected priority ordering, got %+v", tags)
	}
	if tags[1].Slug != "release-notes" || tags[1].ResourceCount != 1 {
		t.Fatalf("unexpected tag %+v", tags[1])
	}
}
