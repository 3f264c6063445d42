package app

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/drivebrowse/drivebrowse/pkg/browse"
	"github.com/drivebrowse/drivebrowse/pkg/remote"
)

func (a *App) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Error("encode response failed", slog.String("error", err.Error()))
	}
}

func (a *App) renderError(w http.ResponseWriter, status int, message string) {
	a.writeJSON(w, status, map[string]string{"error": message})
}

// errorStatus maps a session error to an HTTP status: local validation
// failures are client errors, a busy session is a conflict, everything
// else is an upstream failure.
func errorStatus(err error) int {
	switch {
	case remote.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, browse.ErrOperationInFlight):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close() //nolint:errcheck
	return json.NewDecoder(r.Body).Decode(v)
}

// StateHandler returns the full session snapshot.
func (a *App) StateHandler(w http.ResponseWriter, _ *http.Request) {
	a.writeJSON(w, http.StatusOK, a.session.State())
}

// NotificationsHandler drains the pending notifications.
func (a *App) NotificationsHandler(w http.ResponseWriter, _ *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]any{
		"notifications": a.notices.Drain(),
	})
}

// OpenFolderHandler descends into a child folder.
func (a *App) OpenFolderHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DriveID string `json:"driveId"`
		ItemID  string `json:"itemId"`
		Name    string `json:"name"`
	}
	if err := decodeBody(r, &body); err != nil {
		a.renderError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.DriveID == "" || body.ItemID == "" {
		a.renderError(w, http.StatusBadRequest, "driveId and itemId are required")
		return
	}
	if err := a.session.GoToFolder(r.Context(), body.DriveID, body.ItemID, body.Name); err != nil {
		a.renderError(w, errorStatus(err), remote.Message(err))
		return
	}
	a.writeJSON(w, http.StatusOK, a.session.State())
}

// BreadcrumbHandler navigates to the crumb at the path index.
func (a *App) BreadcrumbHandler(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		a.renderError(w, http.StatusBadRequest, "invalid breadcrumb index")
		return
	}
	if err := a.session.GoToBreadcrumb(r.Context(), index); err != nil {
		a.renderError(w, errorStatus(err), remote.Message(err))
		return
	}
	a.writeJSON(w, http.StatusOK, a.session.State())
}

// BackHandler navigates one level up the trail.
func (a *App) BackHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.session.GoBack(r.Context()); err != nil {
		a.renderError(w, errorStatus(err), remote.Message(err))
		return
	}
	a.writeJSON(w, http.StatusOK, a.session.State())
}

// RefreshHandler re-fetches the current folder listing.
func (a *App) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.session.Refresh(r.Context()); err != nil {
		a.renderError(w, errorStatus(err), remote.Message(err))
		return
	}
	a.writeJSON(w, http.StatusOK, a.session.State())
}

// SearchHandler feeds one search-input keystroke into the debouncer. The
// search itself runs when the quiet window elapses, so the handler only
// acknowledges receipt.
func (a *App) SearchHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Term string `json:"term"`
	}
	if err := decodeBody(r, &body); err != nil {
		a.renderError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	a.session.SearchKeystroke(body.Term)
	a.writeJSON(w, http.StatusAccepted, map[string]string{"status": "pending"})
}

// PreviewHandler resolves a preview URL for an item.
func (a *App) PreviewHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	url, err := a.session.Preview(r.Context(), q.Get("driveId"), q.Get("itemId"), q.Get("href"))
	if err != nil {
		a.renderError(w, errorStatus(err), remote.Message(err))
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// HealthHandler reports the last store probe result, 503 when the store
// is unreachable.
func (a *App) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	info := a.monitor.GetHealthInfo()
	status := http.StatusOK
	if !info.IsConnected {
		status = http.StatusServiceUnavailable
	}
	a.writeJSON(w, status, info)
}
