package http

import (
	"net/http"

	"github.com/goliatone/go-l10n/internal/dashboard"
	"github.com/goliatone/go-l10n/internal/users"
)

func (api *API) registerDashboardRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /projects/{$}", api.handleProjects)
	mux.HandleFunc("GET /projects/{slug}/{$}", api.projectPage(RouteProject))
	mux.HandleFunc("GET /projects/{slug}/tags/{$}", api.projectPage(RouteProjectTags))
	mux.HandleFunc("GET /projects/{slug}/contributors/{$}", api.projectPage(RouteProjectContributors))
	mux.HandleFunc("GET /projects/{slug}/insights/{$}", api.projectPage(RouteProjectInsights))
	mux.HandleFunc("GET /projects/{slug}/info/{$}", api.projectPage(RouteProjectInfo))

	mux.HandleFunc("GET /projects/{slug}/ajax/{$}", api.handleAjaxTeams)
	mux.HandleFunc("GET /projects/{slug}/ajax/tags/{$}", api.handleAjaxTags)
	mux.HandleFunc("GET /projects/{slug}/ajax/contributors/{$}", api.handleAjaxContributors)
	mux.HandleFunc("GET /projects/{slug}/ajax/insights/{$}", api.handleAjaxInsights)
	mux.HandleFunc("GET /projects/{slug}/ajax/info/{$}", api.handleAjaxInfo)
}

func (api *API) handleProjects(w http.ResponseWriter, r *http.Request) {
	if api.dashboard == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	user, err := api.currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}
	list, err := api.dashboard.Projects(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []dashboard.ProjectSummary{}
	}
	if len(list) == 0 && !wantsJSON(r) {
		api.render(w, r, "no_projects", list)
		return
	}
	api.render(w, r, "projects", list)
}

// projectPage serves the dashboard shell. Every tab shares it and loads its
// content from the matching ajax endpoint.
func (api *API) projectPage(route string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if api.dashboard == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
			return
		}
		user, err := api.currentUser(r)
		if err != nil {
			writeError(w, err)
			return
		}
		teams := dashboard.ParseTeams(r.URL.Query().Get("teams"))
		view, err := api.dashboard.Project(r.Context(), r.PathValue("slug"), user, teams)
		if err != nil {
			api.fail(w, r, route, err)
			return
		}
		api.render(w, r, "project", view)
	}
}

func (api *API) handleAjaxTeams(w http.ResponseWriter, r *http.Request) {
	api.ajax(w, r, RouteAjaxTeams, "teams", func(user *users.User) (any, error) {
		teams := dashboard.ParseTeams(r.URL.Query().Get("teams"))
		return api.dashboard.Teams(r.Context(), r.PathValue("slug"), user, teams)
	})
}

func (api *API) handleAjaxTags(w http.ResponseWriter, r *http.Request) {
	api.ajax(w, r, RouteAjaxTags, "tags", func(user *users.User) (any, error) {
		return api.dashboard.Tags(r.Context(), r.PathValue("slug"), user)
	})
}

func (api *API) handleAjaxContributors(w http.ResponseWriter, r *http.Request) {
	api.ajax(w, r, RouteAjaxContributors, "contributors", func(user *users.User) (any, error) {
		return api.dashboard.Contributors(r.Context(), r.PathValue("slug"), user)
	})
}

func (api *API) handleAjaxInsights(w http.ResponseWriter, r *http.Request) {
	api.ajax(w, r, RouteAjaxInsights, "insights", func(user *users.User) (any, error) {
		return api.dashboard.Insights(r.Context(), r.PathValue("slug"), user)
	})
}

func (api *API) handleAjaxInfo(w http.ResponseWriter, r *http.Request) {
	api.ajax(w, r, RouteAjaxInfo, "info", func(user *users.User) (any, error) {
		return api.dashboard.Info(r.Context(), r.PathValue("slug"), user)
	})
}

// ajax runs a tab fragment handler for XMLHttpRequest callers only.
func (api *API) ajax(w http.ResponseWriter, r *http.Request, route, view string, load func(user *users.User) (any, error)) {
	if !requireAJAX(w, r) {
		return
	}
	if api.dashboard == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	user, err := api.currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := load(user)
	if err != nil {
		api.fail(w, r, route, err)
		return
	}
	api.render(w, r, view, data)
}
