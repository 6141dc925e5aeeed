package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rescuesim/rescue-engine/pkg/rescue"
	"github.com/rescuesim/rescue-engine/pkg/storage"
)

// RescueHandler serves the authoring CRUD surface for rescue items.
// Routes:
// GET /v1/rescues           - list rescue items
// POST /v1/rescues          - create or replace a rescue item
// GET /v1/rescues/{id}      - read one rescue item
// PUT /v1/rescues/{id}      - update a rescue item
// DELETE /v1/rescues/{id}   - delete a rescue item
type RescueHandler struct {
	store  storage.Store
	logger *slog.Logger
}

func NewRescueHandler(store storage.Store, logger *slog.Logger) *RescueHandler {
	return &RescueHandler{store: store, logger: logger}
}

func (h *RescueHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/rescues"), "/")

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

func (h *RescueHandler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListRescues(r.Context())
	if err != nil {
		h.logger.Error("Failed to list rescues", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to list rescue items")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, items)
}

func (h *RescueHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	item, err := h.store.GetRescue(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get rescue", "rescue_id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load rescue item")
		return
	}
	if item == nil {
		writeError(w, h.logger, http.StatusNotFound, "Rescue item not found")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, item)
}

func (h *RescueHandler) handleSave(w http.ResponseWriter, r *http.Request, id string) {
	var item rescue.RescueItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if id != "" {
		item.ID = id
	}
	if item.ID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Rescue item id is required")
		return
	}
	for _, p := range item.Parameters {
		if p.Timer == nil {
			continue
		}
		if err := p.Timer.Validate(); err != nil {
			writeError(w, h.logger, http.StatusBadRequest, "Parameter "+p.ID+": "+err.Error())
			return
		}
	}
	if err := h.store.SaveRescue(r.Context(), &item); err != nil {
		h.logger.Error("Failed to save rescue", "rescue_id", item.ID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save rescue item")
		return
	}
	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	writeJSON(w, h.logger, status, item)
}

func (h *RescueHandler) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.DeleteRescue(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete rescue", "rescue_id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete rescue item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
