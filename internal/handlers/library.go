package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rescuesim/rescue-engine/pkg/rescue"
	"github.com/rescuesim/rescue-engine/pkg/storage"
)

// LibraryHandler serves the content-library tree.
// Routes:
// GET /v1/library                 - list all items
// GET /v1/library?parent=root     - list root items
// GET /v1/library?parent={id}     - list children of a folder
// POST /v1/library                - create or replace an item
// GET /v1/library/{id}            - read one item
// PUT /v1/library/{id}            - update an item
// DELETE /v1/library/{id}         - delete an item
type LibraryHandler struct {
	store  storage.Store
	logger *slog.Logger
}

func NewLibraryHandler(store storage.Store, logger *slog.Logger) *LibraryHandler {
	return &LibraryHandler{store: store, logger: logger}
}

func (h *LibraryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/library"), "/")

	switch {
	case r.Method == http.MethodGet && id == "":
		h.handleList(w, r)
	case r.Method == http.MethodPost && id == "":
		h.handleSave(w, r, "")
	case r.Method == http.MethodGet:
		h.handleGet(w, r, id)
	case r.Method == http.MethodPut && id != "":
		h.handleSave(w, r, id)
	case r.Method == http.MethodDelete && id != "":
		h.handleDelete(w, r, id)
	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *LibraryHandler) handleList(w http.ResponseWriter, r *http.Request) {
	var (
		items []rescue.LibraryItem
		err   error
	)
	switch parent := r.URL.Query().Get("parent"); parent {
	case "":
		items, err = h.store.ListLibraryItems(r.Context())
	case "root":
		items, err = h.store.ListLibraryChildren(r.Context(), nil)
	default:
		items, err = h.store.ListLibraryChildren(r.Context(), &parent)
	}
	if err != nil {
		h.logger.Error("Failed to list library items", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to list library items")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, items)
}

func (h *LibraryHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	item, err := h.store.GetLibraryItem(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get library item", "item_id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load library item")
		return
	}
	if item == nil {
		writeError(w, h.logger, http.StatusNotFound, "Library item not found")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, item)
}

func (h *LibraryHandler) handleSave(w http.ResponseWriter, r *http.Request, id string) {
	var item rescue.LibraryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if id != "" {
		item.ID = id
	}
	if item.ID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Library item id is required")
		return
	}
	if item.Variant() == rescue.TypeTrigger && item.Trigger == nil {
		writeError(w, h.logger, http.StatusBadRequest, "Trigger items require trigger data")
		return
	}
	if err := h.store.SaveLibraryItem(r.Context(), &item); err != nil {
		h.logger.Error("Failed to save library item", "item_id", item.ID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save library item")
		return
	}
	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	writeJSON(w, h.logger, status, item)
}

func (h *LibraryHandler) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.DeleteLibraryItem(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete library item", "item_id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete library item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
