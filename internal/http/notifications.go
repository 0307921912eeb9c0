package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	notificationscmd "github.com/goliatone/go-l10n/internal/commands/notifications"
	notificationsvc "github.com/goliatone/go-l10n/internal/notifications"
	"github.com/goliatone/go-l10n/internal/users"
)

type sendPayload struct {
	Locales []string `json:"locales"`
	Message string   `json:"message"`
}

type sendResponse struct {
	Recipients int `json:"recipients"`
}

type markReadResponse struct {
	Updated int `json:"updated"`
}

func (api *API) registerNotificationRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /projects/{slug}/notifications/{$}", api.handleSendNotification)
	mux.HandleFunc("GET /notifications/{$}", api.handleNotifications)
	mux.HandleFunc("POST /notifications/mark-all-read/{$}", api.handleMarkAllRead)
}

func (api *API) handleSendNotification(w http.ResponseWriter, r *http.Request) {
	if api.send == nil || api.projects == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	user, ok := api.requireUser(w, r)
	if !ok {
		return
	}
	payload, err := decodeSendPayload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid request body"})
		return
	}
	project, err := api.projects.GetVisible(r.Context(), r.PathValue("slug"), user)
	if err != nil {
		api.fail(w, r, RouteProjectNotifications, err)
		return
	}

	var delivered int
	err = api.send.Execute(r.Context(), notificationscmd.SendNotificationCommand{
		ProjectSlug: project.Slug,
		SenderID:    user.ID,
		LocaleCodes: payload.Locales,
		Message:     payload.Message,
		ResultCallback: func(result *notificationsvc.SendResult) {
			if result != nil {
				delivered = len(result.Recipients)
			}
		},
	})
	if err != nil {
		api.fail(w, r, "", err)
		return
	}
	writeJSON(w, http.StatusOK, sendResponse{Recipients: delivered})
}

func (api *API) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if api.inbox == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	user, ok := api.requireUser(w, r)
	if !ok {
		return
	}
	unreadOnly := parseBoolQuery(r.URL.Query().Get("unread"), false)
	list, err := api.inbox.List(r.Context(), user.ID, unreadOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []*notificationsvc.Notification{}
	}
	api.render(w, r, "notifications", list)
}

func (api *API) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	if api.inbox == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	user, ok := api.requireUser(w, r)
	if !ok {
		return
	}
	updated, err := api.inbox.MarkAllRead(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, markReadResponse{Updated: updated})
}

func (api *API) requireUser(w http.ResponseWriter, r *http.Request) (*users.User, bool) {
	user, err := api.currentUser(r)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": messageLoginNeeded})
		return nil, false
	}
	return user, true
}

// decodeSendPayload accepts JSON bodies and form posts. Form locales may be
// repeated or comma separated.
func decodeSendPayload(r *http.Request) (sendPayload, error) {
	var payload sendPayload
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		defer r.Body.Close()
		decoder := json.NewDecoder(r.Body)
		if err := decoder.Decode(&payload); err != nil {
			return payload, err
		}
		return payload, nil
	}
	if err := r.ParseForm(); err != nil {
		return payload, err
	}
	payload.Message = r.PostForm.Get("message")
	for _, raw := range r.PostForm["locales"] {
		for _, code := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(code); trimmed != "" {
				payload.Locales = append(payload.Locales, trimmed)
			}
		}
	}
	return payload, nil
}

func parseBoolQuery(value string, defaultValue bool) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return defaultValue
	}
	return parsed
}
