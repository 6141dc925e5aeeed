package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rescuesim/rescue-engine/pkg/rescue"
	"github.com/rescuesim/rescue-engine/pkg/storage"
)

// StoryHandler serves the scene (story) authoring surface.
// Routes:
// GET /v1/stories?rescue_id={id}  - list a scenario's scenes in order
// POST /v1/stories                - create or replace a scene
// GET /v1/stories/{id}            - read one scene
// PUT /v1/stories/{id}            - update a scene
// DELETE /v1/stories/{id}         - delete a scene
type StoryHandler struct {
	store  storage.Store
	logger *slog.Logger
}

func NewStoryHandler(store storage.Store, logger *slog.Logger) *StoryHandler {
	return &StoryHandler{store: store, logger: logger}
}

func (h *StoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/stories"), "/")

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

func (h *StoryHandler) handleList(w http.ResponseWriter, r *http.Request) {
	rescueID := r.URL.Query().Get("rescue_id")
	if rescueID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "rescue_id query parameter is required")
		return
	}
	stories, err := h.store.ListStories(r.Context(), rescueID)
	if err != nil {
		h.logger.Error("Failed to list stories", "rescue_id", rescueID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to list scenes")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, stories)
}

func (h *StoryHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	story, err := h.store.GetStory(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get story", "story_id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load scene")
		return
	}
	if story == nil {
		writeError(w, h.logger, http.StatusNotFound, "Scene not found")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, story)
}

func (h *StoryHandler) handleSave(w http.ResponseWriter, r *http.Request, id string) {
	var story rescue.Story
	if err := json.NewDecoder(r.Body).Decode(&story); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if id != "" {
		story.ID = id
	}
	if story.ID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Scene id is required")
		return
	}
	if story.RescueID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Scene rescue_id is required")
		return
	}
	if err := h.store.SaveStory(r.Context(), &story); err != nil {
		h.logger.Error("Failed to save story", "story_id", story.ID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save scene")
		return
	}
	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	writeJSON(w, h.logger, status, story)
}

func (h *StoryHandler) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.DeleteStory(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete story", "story_id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete scene")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
