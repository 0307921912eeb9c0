package users_test

import (
	"context"
	"testing"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"

	"github.com/goliatone/go-l10n/internal/storage"
	"github.com/goliatone/go-l10n/internal/users"
)

func TestBunRepositoryWithCacheListsRequestedIDs(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(storage.ProviderSQLite, "file:users_bun_cache?mode=memory&cache=shared")
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
	repo := users.NewBunRepositoryWithCache(db, cacheService, repocache.NewDefaultKeySerializer())

	manager, err := repo.Create(ctx, &users.User{ID: uuid.New(), Email: "Manager@Example.com", Name: "Manager"})
	if err != nil {
		t.Fatalf("create manager: %v", err)
	}
	translator, err := repo.Create(ctx, &users.User{ID: uuid.New(), Email: "translator@example.com", Name: "Translator"})
	if err != nil {
		t.Fatalf("create translator: %v", err)
	}

	first, err := repo.ListByIDs(ctx, []uuid.UUID{manager.ID})
	if err != nil {
		t.Fatalf("ListByIDs(manager): %v", err)
	}
	if len(first) != 1 || first[0].ID != manager.ID {
		t.Fatalf("expected manager only, got %+v", first)
	}
	second, err := repo.ListByIDs(ctx, []uuid.UUID{translator.ID})
	if err != nil {
		t.Fatalf("ListByIDs(translator): %v", err)
	}
	if len(second) != 1 || second[0].ID != translator.ID {
		t.Fatalf("expected translator only, got %+v", second)
	}

	found, err := repo.GetByEmail(ctx, "manager@example.com")
	if err != nil || found.ID != manager.ID {
		t.Fatalf("GetByEmail: %v %v", found, err)
	}
	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); err == nil {
		t.Fatalf("expected unknown email to miss")
	}
}
