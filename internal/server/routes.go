package server

import (
	"net/http"

	"github.com/cortexai/research-agent/internal/handler"
	"github.com/cortexai/research-agent/internal/middleware"
	"github.com/cortexai/research-agent/internal/security"
	"github.com/cortexai/research-agent/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func (s *Server) setupRoutes() http.Handler {
	cfg := s.cfg

	log.Info().
		Str("agent", s.runner.Model()).
		Str("note_store", cfg.NoteStore).
		Bool("auth_enabled", cfg.EnableAuth && len(cfg.APIKeys) > 0).
		Bool("audit_logging", cfg.EnableAuditLogging).
		Bool("pii_detection", cfg.EnablePIIDetection).
		Msg("service configuration")

	if cfg.EnableAuth && len(cfg.APIKeys) == 0 {
		log.Warn().Msg("WARNING: auth enabled but no API keys configured - all API requests will be rejected")
	}

	// ─── Security ───────────────────────────────────────────────────────────────
	var piiDetector *security.PIIDetector
	if cfg.EnablePIIDetection {
		piiDetector = security.NewPIIDetector(cfg.PIIKeywords)
	}
	promptVal := security.NewPromptValidator(cfg.MaxPromptLength)
	auditLogger := security.NewAuditLogger(cfg.EnableAuditLogging)
	usage := security.NewUsageTracker(cfg.MaxRunTokens)

	// ─── Handlers ────────────────────────────────────────────────────────────────
	svc := service.NewResearchService(s.runner, s.store, piiDetector, promptVal, auditLogger, usage)
	healthH := handler.NewHealthHandler(map[string]handler.Pinger{"notes": svc})
	agentH := handler.NewAgentHandler(svc, cfg.AgentTimeout)
	notesH := handler.NewNotesHandler(svc)

	// ─── Router ──────────────────────────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.CORSConfigFrom(cfg)))
	r.Use(chiMiddleware.RealIP)

	// Public routes
	r.Get("/health", healthH.Health)
	r.Get("/", healthH.Health)

	// Auth runs first so the rate limit counts per API key
	var apiMiddleware []func(http.Handler) http.Handler
	if cfg.EnableAuth {
		apiMiddleware = append(apiMiddleware, middleware.Auth(middleware.AuthConfigFrom(cfg)))
	}
	apiMiddleware = append(apiMiddleware, middleware.RateLimit(cfg.RateLimitPerMinute))

	r.Group(func(r chi.Router) {
		for _, m := range apiMiddleware {
			r.Use(m)
		}

		r.Route(cfg.APIPrefix, func(r chi.Router) {
			r.Post("/agent", agentH.Ask)
			r.Put("/notes/{topic}", notesH.Save)
			r.Get("/notes/{topic}", notesH.Get)
		})
	})

	return r
}
