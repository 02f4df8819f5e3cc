package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cortexai/research-agent/internal/config"
	"github.com/cortexai/research-agent/internal/notes"
	"github.com/cortexai/research-agent/internal/service"
	"github.com/rs/zerolog/log"
)

// Server exposes the research agent and its note store over HTTP.
type Server struct {
	cfg    *config.Config
	runner service.Runner
	store  notes.Store
	http   *http.Server
}

// New builds the server. The caller owns store and closes it after Run returns.
func New(cfg *config.Config, runner service.Runner, store notes.Store) *Server {
	s := &Server{cfg: cfg, runner: runner, store: store}

	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.setupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: time.Duration(cfg.AgentTimeout+30) * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.http.Addr).Msg("listening")
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("graceful shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
