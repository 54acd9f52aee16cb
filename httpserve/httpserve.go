// Package httpserve exposes the MCP server over streamable HTTP: the SDK
// handler mounted at /mcp behind the guard middleware stack, plus a health
// endpoint.
package httpserve

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/leynos/env-debug-mcp/guard"
)

// Config holds the HTTP transport settings.
type Config struct {
	Addr string
	// AuthTokenHash is a bcrypt hash; empty disables bearer auth.
	AuthTokenHash string
}

// Server hosts the streamable MCP handler.
type Server struct {
	httpSrv *http.Server
	handler http.Handler
	logger  *slog.Logger
}

// New builds the router and server. The MCP server is shared across requests;
// the SDK manages per-session state internally.
func New(mcpSrv *mcp.Server, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	for _, mw := range guard.DefaultStack() {
		r.Use(mw)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return mcpSrv
	}, nil)
	r.With(guard.BearerAuth(cfg.AuthTokenHash)).Handle("/mcp", streamable)

	return &Server{
		httpSrv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		handler: r,
		logger:  logger,
	}
}

// Handler returns the root handler, for tests.
func (s *Server) Handler() http.Handler { return s.handler }

// Serve listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP transport listening", "addr", s.httpSrv.Addr)
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
