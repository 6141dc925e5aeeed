package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/rescuesim/rescue-engine/internal/report"
	"github.com/rescuesim/rescue-engine/internal/session"
)

// CreateSessionRequest starts a playthrough of a scenario.
type CreateSessionRequest struct {
	RescueID string `json:"rescue_id"`
}

// PressRequest is a trigger press on the current scene.
type PressRequest struct {
	TriggerID string `json:"trigger_id"`
}

// FolderPressRequest is a press on a child of the open folder. TriggerID
// names the trigger that opened the folder; ItemID names the pressed child.
type FolderPressRequest struct {
	TriggerID string `json:"trigger_id"`
	ItemID    string `json:"item_id"`
}

// SessionHandler serves live playthrough sessions.
// Routes:
// POST /v1/sessions                     - start a session
// GET /v1/sessions/{id}                 - current render frame
// DELETE /v1/sessions/{id}              - end a session
// POST /v1/sessions/{id}/press          - press a scene trigger
// POST /v1/sessions/{id}/folder-press   - press a folder child
// GET /v1/sessions/{id}/report          - debrief PDF
type SessionHandler struct {
	manager *session.Manager
	logger  *slog.Logger
}

func NewSessionHandler(manager *session.Manager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{manager: manager, logger: logger}
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")

	if rest == "" {
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.handleCreate(w, r)
		return
	}

	idPart, action, _ := strings.Cut(rest, "/")
	id, err := uuid.Parse(idPart)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session id")
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.handleFrame(w, r, id)
	case action == "" && r.Method == http.MethodDelete:
		h.handleEnd(w, r, id)
	case action == "press" && r.Method == http.MethodPost:
		h.handlePress(w, r, id)
	case action == "folder-press" && r.Method == http.MethodPost:
		h.handleFolderPress(w, r, id)
	case action == "report" && r.Method == http.MethodGet:
		h.handleReport(w, r, id)
	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.RescueID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "rescue_id is required")
		return
	}
	s, err := h.manager.Start(r.Context(), req.RescueID)
	if err != nil {
		h.logger.Error("Failed to start session", "rescue_id", req.RescueID, "error", err)
		writeError(w, h.logger, http.StatusNotFound, "Failed to start session: "+err.Error())
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, s.Frame())
}

func (h *SessionHandler) handleFrame(w http.ResponseWriter, _ *http.Request, id uuid.UUID) {
	s := h.manager.Get(id)
	if s == nil {
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, s.Frame())
}

func (h *SessionHandler) handleEnd(w http.ResponseWriter, _ *http.Request, id uuid.UUID) {
	if !h.manager.End(id) {
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) handlePress(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	s := h.manager.Get(id)
	if s == nil {
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return
	}
	var req PressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TriggerID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "trigger_id is required")
		return
	}
	s.Press(req.TriggerID)
	writeJSON(w, h.logger, http.StatusOK, s.Frame())
}

func (h *SessionHandler) handleFolderPress(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	s := h.manager.Get(id)
	if s == nil {
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return
	}
	var req FolderPressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TriggerID == "" || req.ItemID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "trigger_id and item_id are required")
		return
	}
	s.SelectFolderChild(req.ItemID, req.TriggerID)
	writeJSON(w, h.logger, http.StatusOK, s.Frame())
}

func (h *SessionHandler) handleReport(w http.ResponseWriter, _ *http.Request, id uuid.UUID) {
	s := h.manager.Get(id)
	if s == nil {
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return
	}
	data, err := report.Debrief(s)
	if err != nil {
		h.logger.Error("Failed to build debrief", "session_id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to build debrief report")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="debrief-`+id.String()+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("Failed to write debrief response", "session_id", id, "error", err)
	}
}
