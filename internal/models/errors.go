package models

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// RequestIDHeader carries the request id on every response.
const RequestIDHeader = "X-Request-ID"

// ErrorResponse is the body of every non-2xx answer. RequestID lets callers
// quote the id that appears in the server logs.
type ErrorResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Code      int    `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteError writes the error envelope, picking up the request id the
// middleware already set on the response headers.
func WriteError(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, ErrorResponse{
		Status:    "error",
		Message:   message,
		Code:      code,
		RequestID: w.Header().Get(RequestIDHeader),
	})
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Int("status", code).Msg("write response")
	}
}
