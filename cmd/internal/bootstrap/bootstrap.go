package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-l10n"
	"github.com/goliatone/go-l10n/internal/di"
	"github.com/goliatone/go-l10n/internal/logging"
	"github.com/goliatone/go-l10n/pkg/interfaces"
)

// Options captures configuration shared by the l10n binaries.
type Options struct {
	Provider       string
	DSN            string
	LogLevel       string
	LogFormat      string
	OnRowError     string
	BaseURL        string
	TemplateDir    string
	SeedLocales    bool
	LoggerProvider interfaces.LoggerProvider
}

// Module bundles the l10n module with the database it runs on.
type Module struct {
	Module *l10n.Module
	DB     *bun.DB
	Logger interfaces.Logger
}

// Close releases the database.
func (m *Module) Close() error {
	if m == nil || m.DB == nil {
		return nil
	}
	return m.DB.Close()
}

// Config maps CLI options onto the runtime configuration.
func Config(opts Options) l10n.Config {
	cfg := l10n.DefaultConfig()
	if trimmed := strings.TrimSpace(opts.Provider); trimmed != "" {
		cfg.Storage.Provider = trimmed
	}
	if trimmed := strings.TrimSpace(opts.DSN); trimmed != "" {
		cfg.Storage.DSN = trimmed
	}
	if trimmed := strings.TrimSpace(opts.OnRowError); trimmed != "" {
		cfg.Import.OnRowError = trimmed
	}
	if trimmed := strings.TrimSpace(opts.BaseURL); trimmed != "" {
		cfg.Routes.BaseURL = trimmed
	}
	cfg.Views.TemplateDir = strings.TrimSpace(opts.TemplateDir)
	if opts.LoggerProvider == nil {
		cfg.Features.Logger = true
		cfg.Logging.Provider = "gologger"
		if trimmed := strings.TrimSpace(opts.LogLevel); trimmed != "" {
			cfg.Logging.Level = trimmed
		}
		if trimmed := strings.TrimSpace(opts.LogFormat); trimmed != "" {
			cfg.Logging.Format = trimmed
		}
	}
	return cfg
}

// BuildModule opens the database, creates the schema and wires the module.
func BuildModule(ctx context.Context, opts Options) (*Module, error) {
	cfg := Config(opts)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := l10n.OpenDatabase(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	diOpts := []di.Option{di.WithBunDB(db)}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}
	module, err := l10n.New(cfg, diOpts...)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialise l10n module: %w", err)
	}

	if opts.SeedLocales {
		if _, err := module.SeedLocales(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("seed locales: %w", err)
		}
	}

	return &Module{
		Module: module,
		DB:     db,
		Logger: logging.ModuleLogger(module.Container().LoggerProvider(), "l10n.cli"),
	}, nil
}
