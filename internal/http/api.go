package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	csvcmd "github.com/goliatone/go-l10n/internal/commands/csv"
	notificationscmd "github.com/goliatone/go-l10n/internal/commands/notifications"
	"github.com/goliatone/go-l10n/internal/csvtransfer"
	"github.com/goliatone/go-l10n/internal/dashboard"
	"github.com/goliatone/go-l10n/internal/logging"
	"github.com/goliatone/go-l10n/internal/notifications"
	"github.com/goliatone/go-l10n/internal/projects"
	"github.com/goliatone/go-l10n/internal/users"
	"github.com/goliatone/go-l10n/pkg/interfaces"
)

const defaultMaxUploadBytes int64 = 10 << 20

// ProjectLookup resolves projects honouring visibility.
type ProjectLookup interface {
	GetVisible(ctx context.Context, slug string, user *users.User) (*projects.Project, error)
}

// Importer applies uploaded spreadsheets.
type Importer interface {
	Import(ctx context.Context, req csvtransfer.ImportRequest) (*csvtransfer.ImportReport, error)
}

// ExportCommand runs the CSV export command.
type ExportCommand interface {
	Execute(ctx context.Context, msg csvcmd.ExportTranslationsCommand) error
}

// ExportNamer names export downloads.
type ExportNamer interface {
	Filename(project *projects.Project) string
}

// SendCommand runs the notification send command.
type SendCommand interface {
	Execute(ctx context.Context, msg notificationscmd.SendNotificationCommand) error
}

// Inbox lists and clears the current user's notifications.
type Inbox interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*notifications.Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error)
}

// API registers the l10n endpoints.
type API struct {
	routes         *Routes
	dashboard      dashboard.Service
	projects       ProjectLookup
	users          UserDirectory
	auth           interfaces.AuthProvider
	renderer       interfaces.TemplateRenderer
	importer       Importer
	exportNamer    ExportNamer
	export         ExportCommand
	send           SendCommand
	inbox          Inbox
	logger         interfaces.Logger
	maxUploadBytes int64
	onRowError     string
}

// Option mutates the API configuration.
type Option func(*API)

// NewAPI constructs an API instance.
func NewAPI(opts ...Option) *API {
	api := &API{
		routes:         NewRoutes(""),
		auth:           ContextAuth{},
		logger:         logging.NoOp(),
		maxUploadBytes: defaultMaxUploadBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithRoutes overrides the reverse router used for redirects.
func WithRoutes(routes *Routes) Option {
	return func(api *API) {
		if routes != nil {
			api.routes = routes
		}
	}
}

// WithDashboard wires the dashboard views.
func WithDashboard(service dashboard.Service) Option {
	return func(api *API) {
		api.dashboard = service
	}
}

// WithProjects wires project lookups for CSV and notification endpoints.
func WithProjects(lookup ProjectLookup) Option {
	return func(api *API) {
		api.projects = lookup
	}
}

// WithUsers wires the account directory used to resolve the current user.
func WithUsers(directory UserDirectory) Option {
	return func(api *API) {
		api.users = directory
	}
}

// WithAuth overrides the identity source (defaults to ContextAuth).
func WithAuth(provider interfaces.AuthProvider) Option {
	return func(api *API) {
		if provider != nil {
			api.auth = provider
		}
	}
}

// WithRenderer wires the HTML view renderer. Without one every view is JSON.
func WithRenderer(renderer interfaces.TemplateRenderer) Option {
	return func(api *API) {
		api.renderer = renderer
	}
}

// WithImporter wires CSV uploads.
func WithImporter(importer Importer, maxUploadBytes int64, onRowError string) Option {
	return func(api *API) {
		api.importer = importer
		if maxUploadBytes > 0 {
			api.maxUploadBytes = maxUploadBytes
		}
		api.onRowError = strings.TrimSpace(onRowError)
	}
}

// WithExport wires CSV downloads.
func WithExport(namer ExportNamer, handler ExportCommand) Option {
	return func(api *API) {
		api.exportNamer = namer
		api.export = handler
	}
}

// WithNotifications wires notification sending and the inbox.
func WithNotifications(send SendCommand, inbox Inbox) Option {
	return func(api *API) {
		api.send = send
		api.inbox = inbox
	}
}

// WithLogger sets the request logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(api *API) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// Register attaches the endpoints to the provided mux.
func (api *API) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: api is nil")
	}

	mux.HandleFunc("GET /project/{$}", api.handleLegacyProjects)
	mux.HandleFunc("GET /project/{slug}/{$}", api.handleLegacyProject)

	api.registerDashboardRoutes(mux)
	api.registerTransferRoutes(mux)
	api.registerNotificationRoutes(mux)
	return nil
}

// Handler returns a mux with every endpoint registered.
func (api *API) Handler() http.Handler {
	mux := http.NewServeMux()
	_ = api.Register(mux)
	return mux
}

func (api *API) handleLegacyProjects(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, api.routes.MustURL(RouteProjects, nil), http.StatusMovedPermanently)
}

func (api *API) handleLegacyProject(w http.ResponseWriter, r *http.Request) {
	target := api.routes.MustURL(RouteProject, map[string]string{"slug": r.PathValue("slug")})
	http.Redirect(w, r, target, http.StatusMovedPermanently)
}
