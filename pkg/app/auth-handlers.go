package app

import (
	"log/slog"
	"net/http"

	"github.com/drivebrowse/drivebrowse/pkg/remote"
)

const callbackPage = `<!DOCTYPE html>
<html>
<body>
<p>Sign-in complete. You may close this window.</p>
<script>window.close();</script>
</body>
</html>`

// AuthCheckHandler runs the token check and returns the resulting state.
func (a *App) AuthCheckHandler(w http.ResponseWriter, r *http.Request) {
	state := a.session.CheckAuth(r.Context())
	a.writeJSON(w, http.StatusOK, map[string]string{"auth": state.String()})
}

// AuthLoginHandler starts a login attempt and returns the authorization
// URL the popup should open.
func (a *App) AuthLoginHandler(w http.ResponseWriter, r *http.Request) {
	attempt, err := a.session.BeginLogin(r.Context())
	if err != nil {
		a.renderError(w, http.StatusBadGateway, remote.Message(err))
		return
	}
	a.writeJSON(w, http.StatusOK, attempt)
}

// AuthCallbackHandler finishes the authorization code flow: it exchanges
// the code with the store, then delivers the completion signal to the
// session's current attempt.
func (a *App) AuthCallbackHandler(w http.ResponseWriter, r *http.Request) {
	exchanger, ok := a.store.(CodeExchanger)
	if !ok {
		a.renderError(w, http.StatusNotFound, "this backend has no code exchange")
		return
	}

	q := r.URL.Query()
	if errCode := q.Get("error"); errCode != "" {
		a.log.Warn("authorization denied", slog.String("error", errCode))
		a.renderError(w, http.StatusBadRequest, "authorization denied: "+errCode)
		return
	}
	code := q.Get("code")
	if code == "" {
		a.renderError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	if err := exchanger.ExchangeCode(r.Context(), q.Get("state"), code); err != nil {
		a.log.Error("code exchange failed", slog.String("error", err.Error()))
		a.renderError(w, http.StatusBadGateway, remote.Message(err))
		return
	}

	if !a.session.CompleteAuth(r.Context(), a.session.CurrentAttemptID(), remote.AuthCompletionSignal) {
		a.renderError(w, http.StatusConflict, "no matching login attempt")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(callbackPage)); err != nil {
		a.log.Error("write callback page failed", slog.String("error", err.Error()))
	}
}

// AuthCompleteHandler delivers an externally received completion signal,
// e.g. from a popup that posts back to the opener.
func (a *App) AuthCompleteHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AttemptID string `json:"attemptId"`
		Signal    string `json:"signal"`
	}
	if err := decodeBody(r, &body); err != nil {
		a.renderError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !a.session.CompleteAuth(r.Context(), body.AttemptID, body.Signal) {
		a.renderError(w, http.StatusConflict, "signal did not match the current login attempt")
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]string{"auth": a.session.AuthState().String()})
}

// AuthCancelHandler tears down a login attempt without completing it.
func (a *App) AuthCancelHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AttemptID string `json:"attemptId"`
	}
	if err := decodeBody(r, &body); err != nil {
		a.renderError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	a.session.CancelLogin(body.AttemptID)
	w.WriteHeader(http.StatusNoContent)
}
