package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/cortexai/research-agent/internal/models"
)

// RequestInfo travels with a request through the chain. Auth records the
// client key, handlers record the agent run id or note key, and Logging
// writes all of it once the response is done.
type RequestInfo struct {
	ID      string
	Client  string
	RunID   string
	NoteKey string
}

type ctxKey struct{}

// RequestID propagates X-Request-ID or generates a new uuid, echoing it in
// the response and attaching a RequestInfo to the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(models.RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(models.RequestIDHeader, id)
		info := &RequestInfo{ID: id}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, info)))
	})
}

// Info returns the RequestInfo attached by RequestID, or nil.
func Info(ctx context.Context) *RequestInfo {
	info, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return info
}

// GetRequestID returns the request id, or "".
func GetRequestID(ctx context.Context) string {
	if info := Info(ctx); info != nil {
		return info.ID
	}
	return ""
}

// ClientKey returns the API key accepted by Auth, or "" on unauthenticated routes.
func ClientKey(ctx context.Context) string {
	if info := Info(ctx); info != nil {
		return info.Client
	}
	return ""
}

// SetRunID records the agent run served by this request.
func SetRunID(ctx context.Context, runID string) {
	if info := Info(ctx); info != nil {
		info.RunID = runID
	}
}

// SetNoteKey records the normalized note key touched by this request.
func SetNoteKey(ctx context.Context, key string) {
	if info := Info(ctx); info != nil {
		info.NoteKey = key
	}
}
