package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-l10n/internal/csvtransfer"
	"github.com/goliatone/go-l10n/internal/dashboard"
	"github.com/goliatone/go-l10n/internal/notifications"
	"github.com/goliatone/go-l10n/internal/permissions"
	"github.com/goliatone/go-l10n/internal/projects"
	"github.com/goliatone/go-l10n/internal/translations"
	"github.com/goliatone/go-l10n/internal/users"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	var moved *projects.SlugRedirectError
	if errors.As(err, &moved) {
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: moved.Error()}
	}

	var projectNotFound *projects.NotFoundError
	var translationNotFound *translations.NotFoundError
	var userNotFound *users.NotFoundError
	if errors.As(err, &projectNotFound) || errors.As(err, &translationNotFound) || errors.As(err, &userNotFound) {
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: err.Error()}
	}

	if errors.Is(err, dashboard.ErrTagsDisabled) ||
		errors.Is(err, dashboard.ErrInsightsDisabled) ||
		errors.Is(err, notifications.ErrDisabled) {
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: err.Error()}
	}

	if errors.Is(err, permissions.ErrPermissionDenied) {
		return http.StatusForbidden, errorResponse{Error: "forbidden", Message: err.Error()}
	}

	if goerrors.IsCategory(err, goerrors.CategoryValidation) {
		return http.StatusBadRequest, errorResponse{Error: "validation_failed", Message: validationMessage(err)}
	}

	if errors.Is(err, notifications.ErrMessageRequired) ||
		errors.Is(err, notifications.ErrMessageTooLong) ||
		errors.Is(err, notifications.ErrSenderRequired) ||
		errors.Is(err, notifications.ErrNoRecipients) ||
		errors.Is(err, projects.ErrUnknownLocale) {
		return http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()}
	}

	return http.StatusInternalServerError, errorResponse{Error: "internal_error", Message: err.Error()}
}

// validationMessage prefers the field level ozzo message over the generic
// command wrapper text.
func validationMessage(err error) string {
	var fields validation.Errors
	if errors.As(err, &fields) {
		return fields.Error()
	}
	return csvtransfer.Message(err)
}

func isUserNotFound(err error) bool {
	var target *users.NotFoundError
	return errors.As(err, &target)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func isAJAX(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}

func requireAJAX(w http.ResponseWriter, r *http.Request) bool {
	if isAJAX(r) {
		return true
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:   "bad_request",
		Message: "This view only accepts AJAX requests.",
	})
	return false
}

// render writes data as JSON when the client asks for it and through the
// template renderer otherwise.
func (api *API) render(w http.ResponseWriter, r *http.Request, view string, data any) {
	if wantsJSON(r) || api.renderer == nil {
		writeJSON(w, http.StatusOK, data)
		return
	}
	var buf bytes.Buffer
	if _, err := api.renderer.Render(view, data, &buf); err != nil {
		api.logger.Error("http.render.failed", "view", view, "error", err)
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// fail redirects retired slugs to route and maps everything else. Non-GET
// requests get a 307 so the body is replayed.
func (api *API) fail(w http.ResponseWriter, r *http.Request, route string, err error) {
	var moved *projects.SlugRedirectError
	if errors.As(err, &moved) && route != "" {
		target, urlErr := api.routes.URL(route, map[string]string{"slug": moved.Slug}, r.URL.Query())
		if urlErr == nil {
			status := http.StatusFound
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				status = http.StatusTemporaryRedirect
			}
			http.Redirect(w, r, target, status)
			return
		}
		err = urlErr
	}
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		api.logger.Error("http.request.failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, payload)
}
