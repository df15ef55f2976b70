// Package httpapi serves the operational HTTP endpoints: liveness and
// readiness probes plus a redirect into the companion web app.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Pinger reports whether the backing store is reachable. Satisfied by
// database.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wraps the ops HTTP listener.
type Server struct {
	logger *slog.Logger
	srv    *http.Server
}

// NewServer builds the ops server on the given address. appURL may be
// empty, in which case /app answers 404.
func NewServer(logger *slog.Logger, addr string, store Pinger, appURL string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "httpapi")

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			log.WarnContext(req.Context(), "Readiness check failed", "error", err)
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ready")
	})

	r.Get("/app", func(w http.ResponseWriter, req *http.Request) {
		if appURL == "" {
			http.NotFound(w, req)
			return
		}
		http.Redirect(w, req, appURL, http.StatusTemporaryRedirect)
	})

	return &Server{
		logger: log,
		srv: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("Ops HTTP server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Ops HTTP server shutdown failed", "error", err)
			return err
		}
		s.logger.Info("Ops HTTP server stopped")
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ops http server failed: %w", err)
		}
		return nil
	}
}
