package l10n

import (
	"context"

	"github.com/goliatone/go-l10n/internal/dashboard"
	"github.com/goliatone/go-l10n/internal/di"
	l10nhttp "github.com/goliatone/go-l10n/internal/http"
	"github.com/goliatone/go-l10n/internal/notifications"
	"github.com/goliatone/go-l10n/internal/projects"
	"github.com/goliatone/go-l10n/internal/storage"
	"github.com/goliatone/go-l10n/internal/translations"
	"github.com/goliatone/go-l10n/internal/users"
	"github.com/uptrace/bun"
)

// ProjectService exports the project service contract.
type ProjectService = projects.Service

// TranslationService exports the translation service contract.
type TranslationService = translations.Service

// DashboardService exports the dashboard view contract.
type DashboardService = dashboard.Service

// NotificationService exports the notification contract.
type NotificationService = notifications.Service

// UserRepository exports the account store contract.
type UserRepository = users.Repository

// Module is the entry point for hosts embedding the l10n runtime.
type Module struct {
	container *di.Container
}

// New wires a module from cfg. Pass di.WithBunDB to persist through bun.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying container for advanced wiring.
func (m *Module) Container() *di.Container {
	return m.container
}

func (m *Module) Projects() ProjectService {
	return m.container.ProjectService()
}

func (m *Module) Translations() TranslationService {
	return m.container.TranslationService()
}

func (m *Module) Dashboard() DashboardService {
	return m.container.DashboardService()
}

func (m *Module) Notifications() NotificationService {
	return m.container.NotificationService()
}

func (m *Module) Users() UserRepository {
	return m.container.Users()
}

// HTTP returns the HTTP API. Mount it behind l10nhttp.IdentityHeader or pass
// di.WithAuth to resolve the current user.
func (m *Module) HTTP() *l10nhttp.API {
	return m.container.HTTPHandler()
}

// SubscribeCommands registers the CSV and notification command handlers
// with the go-command dispatcher.
func (m *Module) SubscribeCommands() func() {
	return m.container.SubscribeCommands()
}

// SeedLocales creates the locales accepted by operator imports.
func (m *Module) SeedLocales(ctx context.Context) (int, error) {
	return m.container.SeedLocales(ctx)
}

// OpenDatabase connects using cfg.Storage and creates the schema.
func OpenDatabase(ctx context.Context, cfg Config) (*bun.DB, error) {
	db, err := storage.Open(cfg.Storage.Provider, cfg.Storage.DSN)
	if err != nil {
		return nil, err
	}
	if err := storage.CreateSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
