package app

import (
	"log/slog"
	"net/http"

	"github.com/drivebrowse/drivebrowse/pkg/browse"
	"github.com/drivebrowse/drivebrowse/pkg/remote"
)

// MaxUploadSize is the upload request body limit (100 MB).
const MaxUploadSize = 100 << 20

// UploadHandler stores a multipart file in the current folder.
func (a *App) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if !a.cfg.EnableUpload {
		a.renderError(w, http.StatusForbidden, "uploads are disabled")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		a.renderError(w, http.StatusBadRequest, "file too large or malformed form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		a.renderError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close() //nolint:errcheck

	fileName := header.Filename
	if !browse.ExtensionAllowed(fileName) {
		a.renderError(w, http.StatusBadRequest, "File type is not allowed: "+fileName)
		return
	}

	a.log.Info("upload requested",
		slog.String("fileName", fileName),
		slog.Int64("size", header.Size))

	if err := a.session.Upload(r.Context(), file, header.Size, fileName); err != nil {
		a.renderError(w, errorStatus(err), remote.Message(err))
		return
	}
	a.writeJSON(w, http.StatusOK, a.session.State())
}

// CreateFolderHandler creates a child folder in the current location.
func (a *App) CreateFolderHandler(w http.ResponseWriter, r *http.Request) {
	if !a.cfg.EnableCreateFolder {
		a.renderError(w, http.StatusForbidden, "folder creation is disabled")
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &body); err != nil {
		a.renderError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := a.session.CreateFolder(r.Context(), body.Name); err != nil {
		a.renderError(w, errorStatus(err), remote.Message(err))
		return
	}
	a.writeJSON(w, http.StatusOK, a.session.State())
}

// DeletePromptHandler stages an item for the two-step delete confirmation.
func (a *App) DeletePromptHandler(w http.ResponseWriter, r *http.Request) {
	if !a.cfg.EnableDelete {
		a.renderError(w, http.StatusForbidden, "deletes are disabled")
		return
	}

	var body struct {
		ItemID string `json:"itemId"`
		Name   string `json:"name"`
	}
	if err := decodeBody(r, &body); err != nil {
		a.renderError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.ItemID == "" {
		a.renderError(w, http.StatusBadRequest, "itemId is required")
		return
	}
	a.session.PromptDelete(body.ItemID, body.Name)
	a.writeJSON(w, http.StatusOK, a.session.State())
}

// DeleteConfirmHandler executes the staged delete.
func (a *App) DeleteConfirmHandler(w http.ResponseWriter, r *http.Request) {
	if !a.cfg.EnableDelete {
		a.renderError(w, http.StatusForbidden, "deletes are disabled")
		return
	}
	if err := a.session.ConfirmDelete(r.Context()); err != nil {
		a.renderError(w, errorStatus(err), remote.Message(err))
		return
	}
	a.writeJSON(w, http.StatusOK, a.session.State())
}

// DeleteCancelHandler clears the staged delete.
func (a *App) DeleteCancelHandler(w http.ResponseWriter, _ *http.Request) {
	a.session.CancelDelete()
	w.WriteHeader(http.StatusNoContent)
}
