package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/cortexai/research-agent/internal/config"
	"github.com/cortexai/research-agent/internal/models"
)

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string
	MaxAge         int
}

// CORSConfigFrom allows the configured origins to call the agent and notes
// routes and to read the request id and rate limit headers.
func CORSConfigFrom(cfg *config.Config) CORSConfig {
	return CORSConfig{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", cfg.APIKeyHeader, models.RequestIDHeader},
		ExposedHeaders: []string{models.RequestIDHeader, "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:         300,
	}
}

func CORS(cc CORSConfig) func(http.Handler) http.Handler {
	allowAll := slices.Contains(cc.AllowedOrigins, "*")
	methods := strings.Join(cc.AllowedMethods, ", ")
	headers := strings.Join(cc.AllowedHeaders, ", ")
	exposed := strings.Join(cc.ExposedHeaders, ", ")
	maxAge := strconv.Itoa(cc.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			w.Header().Add("Vary", "Origin")
			allowed := origin != "" && (allowAll || slices.Contains(cc.AllowedOrigins, origin))
			if allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Expose-Headers", exposed)
			}
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if allowed {
					w.Header().Set("Access-Control-Allow-Methods", methods)
					w.Header().Set("Access-Control-Allow-Headers", headers)
					w.Header().Set("Access-Control-Max-Age", maxAge)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
