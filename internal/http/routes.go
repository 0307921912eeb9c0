package http

import (
	"fmt"
	"net/url"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

// DefaultRouteGroup is the urlkit group holding the l10n routes.
const DefaultRouteGroup = "l10n"

// Route names understood by Routes.URL.
const (
	RouteProjects             = "projects"
	RouteProject              = "project"
	RouteProjectTags          = "project.tags"
	RouteProjectContributors  = "project.contributors"
	RouteProjectInsights      = "project.insights"
	RouteProjectInfo          = "project.info"
	RouteAjaxTeams            = "ajax.teams"
	RouteAjaxTags             = "ajax.tags"
	RouteAjaxContributors     = "ajax.contributors"
	RouteAjaxInsights         = "ajax.insights"
	RouteAjaxInfo             = "ajax.info"
	RouteExportCSV            = "export_csv"
	RouteImportCSV            = "import_csv"
	RouteProjectNotifications = "project.notifications"
	RouteNotifications        = "notifications"
	RouteNotificationsRead    = "notifications.mark_all_read"
)

// RoutePaths maps route names to urlkit path templates.
var RoutePaths = map[string]string{
	RouteProjects:             "/projects/",
	RouteProject:              "/projects/:slug/",
	RouteProjectTags:          "/projects/:slug/tags/",
	RouteProjectContributors:  "/projects/:slug/contributors/",
	RouteProjectInsights:      "/projects/:slug/insights/",
	RouteProjectInfo:          "/projects/:slug/info/",
	RouteAjaxTeams:            "/projects/:slug/ajax/",
	RouteAjaxTags:             "/projects/:slug/ajax/tags/",
	RouteAjaxContributors:     "/projects/:slug/ajax/contributors/",
	RouteAjaxInsights:         "/projects/:slug/ajax/insights/",
	RouteAjaxInfo:             "/projects/:slug/ajax/info/",
	RouteExportCSV:            "/projects/:slug/export-csv/",
	RouteImportCSV:            "/projects/:slug/import-csv/",
	RouteProjectNotifications: "/projects/:slug/notifications/",
	RouteNotifications:        "/notifications/",
	RouteNotificationsRead:    "/notifications/mark-all-read/",
}

// Routes builds reverse URLs through a go-urlkit route manager.
type Routes struct {
	manager *urlkit.RouteManager
	group   string
}

// NewRoutes registers RoutePaths under DefaultRouteGroup rooted at baseURL.
// An empty or "/" base yields host-relative URLs.
func NewRoutes(baseURL string) *Routes {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	paths := make(map[string]string, len(RoutePaths))
	for name, path := range RoutePaths {
		paths[name] = path
	}
	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    DefaultRouteGroup,
				BaseURL: base,
				Paths:   paths,
			},
		},
	})
	return &Routes{manager: manager, group: DefaultRouteGroup}
}

// NewRoutesFromConfig uses a host supplied urlkit configuration. The group
// must define every name in RoutePaths that the server redirects to.
func NewRoutesFromConfig(cfg *urlkit.Config, group string) *Routes {
	if strings.TrimSpace(group) == "" {
		group = DefaultRouteGroup
	}
	return &Routes{manager: urlkit.NewRouteManager(cfg), group: group}
}

// URL builds the named route. Params fill the :placeholders.
func (r *Routes) URL(route string, params map[string]string, query url.Values) (string, error) {
	if r == nil || r.manager == nil {
		return "", fmt.Errorf("http: routes not configured")
	}
	group, err := r.lookupGroup()
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, route)
	if err != nil {
		return "", err
	}
	for key, value := range params {
		builder.WithParam(key, value)
	}
	for key, values := range query {
		for _, value := range values {
			builder.WithQuery(key, value)
		}
	}
	built, err := builder.Build()
	if err != nil {
		return "", err
	}
	return normalizeBuilt(built, RoutePaths[route]), nil
}

// MustURL is URL for routes known to exist. Failures yield "/".
func (r *Routes) MustURL(route string, params map[string]string) string {
	built, err := r.URL(route, params, nil)
	if err != nil {
		return "/"
	}
	return built
}

func (r *Routes) lookupGroup() (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("http: route group %q not found", r.group)
		}
	}()
	group = r.manager.Group(r.group)
	if group == nil {
		return nil, fmt.Errorf("http: route group %q not found", r.group)
	}
	return group, nil
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			builder = nil
			err = fmt.Errorf("http: route %q not found", route)
		}
	}()
	return group.Builder(route), nil
}

// normalizeBuilt keeps the trailing slash of the template and makes
// host-relative results absolute paths.
func normalizeBuilt(built, template string) string {
	path, query, hasQuery := strings.Cut(built, "?")
	if strings.HasSuffix(template, "/") && !strings.HasSuffix(path, "/") {
		path += "/"
	}
	if !strings.Contains(path, "://") && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if hasQuery {
		return path + "?" + query
	}
	return path
}
