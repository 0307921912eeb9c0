package di

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-command/dispatcher"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-l10n/internal/adapters/gocache"
	"github.com/goliatone/go-l10n/internal/adapters/htmltemplate"
	"github.com/goliatone/go-l10n/internal/adapters/noop"
	"github.com/goliatone/go-l10n/internal/adapters/usersactivity"
	"github.com/goliatone/go-l10n/internal/commands"
	csvcmd "github.com/goliatone/go-l10n/internal/commands/csv"
	notificationscmd "github.com/goliatone/go-l10n/internal/commands/notifications"
	"github.com/goliatone/go-l10n/internal/csvtransfer"
	"github.com/goliatone/go-l10n/internal/dashboard"
	l10nhttp "github.com/goliatone/go-l10n/internal/http"
	"github.com/goliatone/go-l10n/internal/logging"
	"github.com/goliatone/go-l10n/internal/logging/gologger"
	"github.com/goliatone/go-l10n/internal/markdown"
	"github.com/goliatone/go-l10n/internal/notifications"
	"github.com/goliatone/go-l10n/internal/permissions"
	"github.com/goliatone/go-l10n/internal/projects"
	"github.com/goliatone/go-l10n/internal/runtimeconfig"
	"github.com/goliatone/go-l10n/internal/translations"
	"github.com/goliatone/go-l10n/internal/users"
	"github.com/goliatone/go-l10n/pkg/interfaces"
)

// Container wires module dependencies. Without a database every repository
// is in memory.
type Container struct {
	Config runtimeconfig.Config

	bunDB         *bun.DB
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger
	viewCache      interfaces.CacheProvider
	template       interfaces.TemplateRenderer
	auth           interfaces.AuthProvider
	activity       interfaces.ActivitySink

	projectRepo      projects.ProjectRepository
	localeRepo       projects.LocaleRepository
	tagRepo          projects.TagRepository
	resourceRepo     translations.ResourceRepository
	entityRepo       translations.EntityRepository
	translationRepo  translations.TranslationRepository
	grantRepo        permissions.GrantRepository
	notificationRepo notifications.Repository
	userRepo         users.Repository

	authorizer      *permissions.Authorizer
	projectSvc      projects.Service
	translationSvc  translations.Service
	notificationSvc notifications.Service
	dashboardSvc    dashboard.Service
	importer        *csvtransfer.Importer
	exporter        *csvtransfer.Exporter

	importHandler *csvcmd.ImportTranslationsHandler
	exportHandler *csvcmd.ExportTranslationsHandler
	sendHandler   *notificationscmd.SendNotificationHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB switches every repository to bun. The caller owns the database.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the go-repository-cache service used for cached
// repositories.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithViewCache overrides the cache backing computed dashboard views.
func WithViewCache(provider interfaces.CacheProvider) Option {
	return func(c *Container) {
		c.viewCache = provider
	}
}

// WithTemplate overrides the view renderer.
func WithTemplate(tr interfaces.TemplateRenderer) Option {
	return func(c *Container) {
		c.template = tr
	}
}

// WithAuth overrides the identity source used by the HTTP API. The default
// reads the user stored by the identity header middleware.
func WithAuth(ap interfaces.AuthProvider) Option {
	return func(c *Container) {
		c.auth = ap
	}
}

// WithActivitySink records notification deliveries in a go-users activity log.
// Without it, bun-backed containers write to the user_activity table and
// memory containers drop the records.
func WithActivitySink(sink interfaces.ActivitySink) Option {
	return func(c *Container) {
		c.activity = sink
	}
}

// WithLoggerProvider overrides the logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithUserRepository overrides the account store.
func WithUserRepository(repo users.Repository) Option {
	return func(c *Container) {
		c.userRepo = repo
	}
}

// NewContainer validates cfg and wires every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogger(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	if err := c.configureViews(); err != nil {
		return nil, err
	}
	c.configureServices()
	c.configureCommands()

	c.logger.Info("container.configured",
		"storage", c.storageLabel(),
		"repository_cache", c.cacheService != nil,
		"insights", cfg.Features.Insights,
		"notifications", cfg.Features.Notifications,
	)
	return c, nil
}

func (c *Container) configureLogger() error {
	if c.loggerProvider == nil && c.Config.Features.Logger {
		switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
		case "gologger":
			provider, err := gologger.NewProvider(gologger.Config{
				Level:     c.Config.Logging.Level,
				Format:    c.Config.Logging.Format,
				AddSource: c.Config.Logging.AddSource,
				Focus:     c.Config.Logging.Focus,
			})
			if err != nil {
				return err
			}
			c.loggerProvider = provider
		}
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "l10n.container")
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled || c.bunDB == nil {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.DefaultTTL > 0 {
			cfg.TTL = c.Config.Cache.DefaultTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			c.logger.Warn("container.cache.disabled", "error", err)
		} else {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

// configureRepositories binds bun repositories when a database is present.
// Projects stay uncached so renamed slugs resolve immediately. Cached
// repositories route filtered listings to the database and cache only ID and
// identifier lookups.
func (c *Container) configureRepositories() {
	if c.bunDB == nil {
		if c.activity == nil {
			c.activity = noop.Activity()
		}
		locales := projects.NewMemoryLocaleRepository()
		resources := translations.NewMemoryResourceRepository()
		entities := translations.NewMemoryEntityRepository(resources)
		c.localeRepo = locales
		c.projectRepo = projects.NewMemoryProjectRepository(locales)
		c.tagRepo = projects.NewMemoryTagRepository()
		c.resourceRepo = resources
		c.entityRepo = entities
		c.translationRepo = translations.NewMemoryTranslationRepository(entities)
		c.grantRepo = permissions.NewMemoryGrantRepository()
		c.notificationRepo = notifications.NewMemoryRepository()
		if c.userRepo == nil {
			c.userRepo = users.NewMemoryRepository()
		}
		return
	}

	c.projectRepo = projects.NewBunProjectRepository(c.bunDB)
	c.localeRepo = projects.NewBunLocaleRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.tagRepo = projects.NewBunTagRepository(c.bunDB)
	c.resourceRepo = translations.NewBunResourceRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.entityRepo = translations.NewBunEntityRepository(c.bunDB)
	c.translationRepo = translations.NewBunTranslationRepository(c.bunDB)
	c.grantRepo = permissions.NewBunGrantRepository(c.bunDB)
	c.notificationRepo = notifications.NewBunRepository(c.bunDB)
	if c.userRepo == nil {
		c.userRepo = users.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	}
	if c.activity == nil {
		c.activity = usersactivity.NewSink(c.bunDB)
	}
}

func (c *Container) configureViews() error {
	if c.viewCache == nil {
		c.viewCache = gocache.New(c.Config.Views.CacheTimeout)
	}
	if c.template == nil {
		renderer, err := htmltemplate.NewFromDir(c.Config.Views.TemplateDir)
		if err != nil {
			return err
		}
		c.template = renderer
	}
	return nil
}

func (c *Container) configureServices() {
	c.authorizer = permissions.NewAuthorizer(c.grantRepo)
	c.projectSvc = projects.NewService(c.projectRepo, c.localeRepo,
		projects.WithTagRepository(c.tagRepo),
		projects.WithVisibilityPolicy(c.authorizer),
		projects.WithDeterministicIDs(true),
	)
	c.translationSvc = translations.NewService(c.resourceRepo, c.entityRepo, c.translationRepo,
		translations.WithDeterministicIDs(true),
	)

	c.notificationSvc = notifications.NewService(c.notificationRepo, c.authorizer, c.projectSvc, c.translationSvc,
		notifications.WithEnabled(c.Config.Features.Notifications),
		notifications.WithActivitySink(c.activity),
		notifications.WithLogger(logging.NotificationsLogger(c.loggerProvider)),
	)

	csvLogger := logging.CSVLogger(c.loggerProvider)
	c.importer = csvtransfer.NewImporter(c.projectSvc, c.translationSvc, c.authorizer,
		csvtransfer.WithImportLogger(csvLogger),
		csvtransfer.WithNotifier(c.notificationSvc),
	)
	c.exporter = csvtransfer.NewExporter(c.projectSvc, c.translationSvc, csvtransfer.WithExportLogger(csvLogger))

	c.dashboardSvc = dashboard.NewService(c.projectSvc, c.translationSvc, c.userRepo,
		dashboard.WithCache(c.viewCache, c.Config.Views.CacheTimeout),
		dashboard.WithInsights(c.Config.Features.Insights),
		dashboard.WithInfoRenderer(markdown.NewRenderer(markdown.Options{})),
		dashboard.WithLogger(logging.DashboardLogger(c.loggerProvider)),
	)
}

func (c *Container) configureCommands() {
	c.importHandler = csvcmd.NewImportTranslationsHandler(c.importer, c.projectSvc, c.userRepo,
		commands.CommandLogger(c.loggerProvider, csvcmd.ImportTranslationsCommand{}.Type()))
	c.exportHandler = csvcmd.NewExportTranslationsHandler(c.exporter, c.projectSvc,
		commands.CommandLogger(c.loggerProvider, csvcmd.ExportTranslationsCommand{}.Type()))
	c.sendHandler = notificationscmd.NewSendNotificationHandler(c.notificationSvc, c.projectSvc, c.userRepo,
		commands.CommandLogger(c.loggerProvider, notificationscmd.SendNotificationCommand{}.Type()))
}

// SubscribeCommands registers the command handlers with the go-command
// dispatcher. The returned func removes them.
func (c *Container) SubscribeCommands() func() {
	unsubscribe := []func(){
		dispatcher.SubscribeCommand(c.importHandler).Unsubscribe,
		dispatcher.SubscribeCommand(c.exportHandler).Unsubscribe,
		dispatcher.SubscribeCommand(c.sendHandler).Unsubscribe,
	}
	return func() {
		for _, fn := range unsubscribe {
			fn()
		}
	}
}

// HTTPHandler builds the HTTP API over the container's services.
func (c *Container) HTTPHandler() *l10nhttp.API {
	routes := l10nhttp.NewRoutes(c.Config.Routes.BaseURL)
	if c.Config.Routes.Config != nil {
		routes = l10nhttp.NewRoutesFromConfig(c.Config.Routes.Config, l10nhttp.DefaultRouteGroup)
	}
	return l10nhttp.NewAPI(
		l10nhttp.WithRoutes(routes),
		l10nhttp.WithDashboard(c.dashboardSvc),
		l10nhttp.WithProjects(c.projectSvc),
		l10nhttp.WithUsers(c.userRepo),
		l10nhttp.WithAuth(c.auth),
		l10nhttp.WithRenderer(c.template),
		l10nhttp.WithImporter(c.importer, c.Config.Import.MaxUploadBytes, c.Config.Import.OnRowError),
		l10nhttp.WithExport(c.exporter, c.exportHandler),
		l10nhttp.WithNotifications(c.sendHandler, c.notificationSvc),
		l10nhttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
	)
}

// SeedLocales creates the locales of the operator language table. Existing
// codes are left untouched.
func (c *Container) SeedLocales(ctx context.Context) (int, error) {
	created := 0
	for _, name := range csvtransfer.LanguageNames() {
		code, _ := csvtransfer.LanguageCode(name)
		if _, err := c.projectSvc.GetLocale(ctx, code); err == nil {
			continue
		} else if !projects.IsNotFound(err) {
			return created, err
		}
		if _, err := c.projectSvc.CreateLocale(ctx, code, name); err != nil {
			return created, fmt.Errorf("seed locale %s: %w", code, err)
		}
		created++
	}
	c.logger.Info("container.locales.seeded", "created", created)
	return created, nil
}

func (c *Container) storageLabel() string {
	if c.bunDB == nil {
		return "memory"
	}
	return strings.ToLower(strings.TrimSpace(c.Config.Storage.Provider))
}

// BunDB exposes the bound database, nil in memory mode.
func (c *Container) BunDB() *bun.DB { return c.bunDB }

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// TemplateRenderer exposes the configured view renderer.
func (c *Container) TemplateRenderer() interfaces.TemplateRenderer { return c.template }

// Authorizer exposes the grant based authorizer.
func (c *Container) Authorizer() *permissions.Authorizer { return c.authorizer }

// ProjectService returns the configured project service.
func (c *Container) ProjectService() projects.Service { return c.projectSvc }

// TranslationService returns the configured translation service.
func (c *Container) TranslationService() translations.Service { return c.translationSvc }

// NotificationService returns the configured notification service.
func (c *Container) NotificationService() notifications.Service { return c.notificationSvc }

// DashboardService returns the configured dashboard service.
func (c *Container) DashboardService() dashboard.Service { return c.dashboardSvc }

// Users returns the account repository.
func (c *Container) Users() users.Repository { return c.userRepo }

// Importer returns the CSV importer.
func (c *Container) Importer() *csvtransfer.Importer { return c.importer }

// Exporter returns the CSV exporter.
func (c *Container) Exporter() *csvtransfer.Exporter { return c.exporter }

// ImportHandler returns the CSV import command handler.
func (c *Container) ImportHandler() *csvcmd.ImportTranslationsHandler { return c.importHandler }

// SendHandler returns the notification command handler.
func (c *Container) SendHandler() *notificationscmd.SendNotificationHandler { return c.sendHandler }
