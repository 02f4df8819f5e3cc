package middleware

import (
	"net/http"

	"github.com/cortexai/research-agent/internal/config"
	"github.com/cortexai/research-agent/internal/models"
)

// AuthConfig selects the accepted API keys, the header they arrive in and
// the paths that skip the check.
type AuthConfig struct {
	Keys        []string
	Header      string
	PublicPaths []string
}

func AuthConfigFrom(cfg *config.Config) AuthConfig {
	return AuthConfig{
		Keys:        cfg.APIKeys,
		Header:      cfg.APIKeyHeader,
		PublicPaths: cfg.PublicPaths,
	}
}

// Auth rejects requests without a known API key: 401 when none is sent,
// 403 when it is unknown. An accepted key is recorded on the RequestInfo so
// rate limiting and audit logging see the same caller.
func Auth(ac AuthConfig) func(http.Handler) http.Handler {
	keys := make(map[string]struct{}, len(ac.Keys))
	for _, k := range ac.Keys {
		if k != "" {
			keys[k] = struct{}{}
		}
	}
	public := make(map[string]struct{}, len(ac.PublicPaths))
	for _, p := range ac.PublicPaths {
		public[p] = struct{}{}
	}
	header := ac.Header
	if header == "" {
		header = "X-API-Key"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := public[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(header)
			if key == "" {
				models.WriteError(w, http.StatusUnauthorized, "API key required in "+header)
				return
			}
			if _, ok := keys[key]; !ok {
				models.WriteError(w, http.StatusForbidden, "invalid API key")
				return
			}
			if info := Info(r.Context()); info != nil {
				info.Client = key
			}
			next.ServeHTTP(w, r)
		})
	}
}
