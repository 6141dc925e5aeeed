package handlers

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/rescuesim/rescue-engine/pkg/storage"
)

// maxBlobSize caps uploads at 16 MiB; scene backgrounds and icons are
// well under that.
const maxBlobSize = 16 << 20

// BlobHandler serves binary assets (scene backgrounds, trigger icons).
// Routes:
// PUT /v1/blobs/{path}     - upload an asset
// GET /v1/blobs/{path}     - download an asset
// DELETE /v1/blobs/{path}  - delete an asset
type BlobHandler struct {
	blobs  storage.BlobStore
	logger *slog.Logger
}

func NewBlobHandler(blobs storage.BlobStore, logger *slog.Logger) *BlobHandler {
	return &BlobHandler{blobs: blobs, logger: logger}
}

func (h *BlobHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/blobs"), "/")
	if path == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Blob path is required")
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.handleUpload(w, r, path)
	case http.MethodGet:
		h.handleDownload(w, r, path)
	case http.MethodDelete:
		h.handleDelete(w, r, path)
	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *BlobHandler) handleUpload(w http.ResponseWriter, r *http.Request, path string) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBlobSize+1))
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if len(data) > maxBlobSize {
		writeError(w, h.logger, http.StatusRequestEntityTooLarge, "Blob too large")
		return
	}
	if err := h.blobs.Upload(r.Context(), path, data); err != nil {
		h.logger.Error("Failed to upload blob", "path", path, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Failed to store blob")
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, map[string]string{"path": path})
}

func (h *BlobHandler) handleDownload(w http.ResponseWriter, r *http.Request, path string) {
	data, err := h.blobs.Download(r.Context(), path)
	if err != nil {
		h.logger.Error("Failed to download blob", "path", path, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load blob")
		return
	}
	if data == nil {
		writeError(w, h.logger, http.StatusNotFound, "Blob not found")
		return
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("Failed to write blob response", "path", path, "error", err)
	}
}

func (h *BlobHandler) handleDelete(w http.ResponseWriter, r *http.Request, path string) {
	if err := h.blobs.Delete(r.Context(), path); err != nil {
		h.logger.Error("Failed to delete blob", "path", path, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete blob")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
