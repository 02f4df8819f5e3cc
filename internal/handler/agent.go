package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cortexai/research-agent/internal/middleware"
	"github.com/cortexai/research-agent/internal/models"
	"github.com/cortexai/research-agent/internal/service"
	"github.com/rs/zerolog/log"
)

// AgentHandler handles POST /api/v1/agent
type AgentHandler struct {
	svc            *service.ResearchService
	defaultTimeout int
}

func NewAgentHandler(svc *service.ResearchService, defaultTimeout int) *AgentHandler {
	return &AgentHandler{svc: svc, defaultTimeout: defaultTimeout}
}

// Ask handles POST /api/v1/agent
func (h *AgentHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req models.AgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	req.SetDefaults(h.defaultTimeout)

	if req.Prompt == "" {
		models.WriteError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	resp, err := h.svc.Ask(r.Context(), &req, middleware.ClientKey(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	middleware.SetRunID(r.Context(), resp.RunID)
	models.WriteJSON(w, http.StatusOK, resp)
}

// writeServiceError maps service errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrRejected):
		models.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNoteNotFound):
		models.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		models.WriteError(w, http.StatusGatewayTimeout, "agent run timed out")
	default:
		log.Error().Err(err).Msg("request failed")
		models.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
