package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-l10n"
)

func TestConfigMapsOptions(t *testing.T) {
	cfg := Config(Options{
		Provider:   "postgres",
		DSN:        "postgres://localhost/l10n",
		OnRowError: "skip",
		BaseURL:    "https://l10n.example.com/",
		LogLevel:   "debug",
	})
	if cfg.Storage.Provider != "postgres" || cfg.Storage.DSN != "postgres://localhost/l10n" {
		t.Fatalf("unexpected storage config %+v", cfg.Storage)
	}
	if cfg.Import.OnRowError != l10n.RowErrorSkip {
		t.Fatalf("expected skip policy, got %q", cfg.Import.OnRowError)
	}
	if !cfg.Features.Logger || cfg.Logging.Provider != "gologger" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config %+v %+v", cfg.Features, cfg.Logging)
	}
	if cfg.Routes.BaseURL != "https://l10n.example.com/" {
		t.Fatalf("unexpected base url %q", cfg.Routes.BaseURL)
	}
}

func TestBuildModuleRejectsInvalidOptions(t *testing.T) {
	_, err := BuildModule(context.Background(), Options{OnRowError: "retry"})
	if !errors.Is(err, l10n.ErrImportRowPolicyInvalid) {
		t.Fatalf("expected ErrImportRowPolicyInvalid, got %v", err)
	}
}

func TestBuildModuleSeedsLocales(t *testing.T) {
	ctx := context.Background()
	module, err := BuildModule(ctx, Options{
		DSN:         "file:bootstrap_seed?mode=memory&cache=shared&_fk=1",
		LogLevel:    "error",
		SeedLocales: true,
	})
	if err != nil {
		t.Fatalf("BuildModule returned error: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })

	locales, err := module.Module.Projects().ListLocales(ctx)
	if err != nil {
		t.Fatalf("ListLocales returned error: %v", err)
	}
	if len(locales) == 0 {
		t.Fatal("expected seeded locales")
	}
}
