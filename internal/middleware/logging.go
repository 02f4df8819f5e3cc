package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cortexai/research-agent/internal/security"
)

type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// Logging writes one zerolog line per request. Agent and note routes add
// run_id / note_key; authenticated callers appear as a hashed client id.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		evt := log.Info()
		switch {
		case rw.status >= 500:
			evt = log.Error()
		case rw.status >= 400:
			evt = log.Warn()
		}
		if info := Info(r.Context()); info != nil {
			evt = evt.Str("request_id", info.ID)
			if info.Client != "" {
				evt = evt.Str("client", security.HashID(info.Client))
			}
			if info.RunID != "" {
				evt = evt.Str("run_id", info.RunID)
			}
			if info.NoteKey != "" {
				evt = evt.Str("note_key", info.NoteKey)
			}
		}
		evt.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.status).
			Int("size", rw.size).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("request")
	})
}
