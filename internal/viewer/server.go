// Package viewer serves generated analysis artifacts over HTTP so the
// interactive network page can be opened in a browser.
package viewer

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
)

// Server serves a directory of analysis artifacts.
type Server struct {
	dir    string
	port   int
	logger *slog.Logger
}

// Config holds configuration for the artifact server.
type Config struct {
	Dir    string
	Port   int
	Logger *slog.Logger
}

// NewServer creates a new artifact server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		dir:    cfg.Dir,
		port:   cfg.Port,
		logger: logger,
	}
}

// Handler returns the HTTP handler serving the artifact directory.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Recoverer,
		middleware.Compress(5),
	)
	r.Handle("/*", http.FileServer(http.Dir(s.dir)))
	return r
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("serving artifacts",
		"dir", s.dir,
		"addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down artifact server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
