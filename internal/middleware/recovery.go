package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/cortexai/research-agent/internal/models"
)

// Recovery turns a panicking handler into a 500 envelope. A panic during an
// agent run is logged with the run's request id so it can be matched to the
// request line written by Logging.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			evt := log.Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Str("path", r.URL.Path)
			if info := Info(r.Context()); info != nil {
				evt = evt.Str("request_id", info.ID).Str("run_id", info.RunID)
			}
			evt.Msg("panic recovered")
			models.WriteError(w, http.StatusInternalServerError, "internal server error")
		}()
		next.ServeHTTP(w, r)
	})
}
