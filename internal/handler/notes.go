package handler

import (
	"encoding/json"
	"net/http"

	"github.com/cortexai/research-agent/internal/middleware"
	"github.com/cortexai/research-agent/internal/models"
	"github.com/cortexai/research-agent/internal/notes"
	"github.com/cortexai/research-agent/internal/service"
	"github.com/go-chi/chi/v5"
)

// NotesHandler handles /api/v1/notes/{topic}
type NotesHandler struct {
	svc *service.ResearchService
}

func NewNotesHandler(svc *service.ResearchService) *NotesHandler {
	return &NotesHandler{svc: svc}
}

// Save handles PUT /api/v1/notes/{topic}
func (h *NotesHandler) Save(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")
	middleware.SetNoteKey(r.Context(), notes.NormalizeKey(topic))

	var req models.NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.svc.SaveNote(r.Context(), topic, req.Content, middleware.ClientKey(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/notes/{topic}
func (h *NotesHandler) Get(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")
	middleware.SetNoteKey(r.Context(), notes.NormalizeKey(topic))

	resp, err := h.svc.GetNote(r.Context(), topic, middleware.ClientKey(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, resp)
}
