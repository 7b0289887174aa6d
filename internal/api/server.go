// Copyright (c) 2026 StudyBuddy. All rights reserved.
// Author: arman@studybuddy.dev

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost presentation layer boundary.
  - It acts as the central composition root for the HTTP transport (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/arman/studybuddy/internal/auth"
	"github.com/arman/studybuddy/internal/chat"
	"github.com/arman/studybuddy/internal/platform/config"
	"github.com/arman/studybuddy/internal/platform/constants"
	"github.com/arman/studybuddy/internal/platform/middleware"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if the process is alive.
	Liveness http.HandlerFunc

	// Auth handles the login form, registration, and logout.
	Auth *auth.Handler

	// Chat handles the conversation view, sending turns, and clearing.
	Chat *chat.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all routes.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.RateLimit(ctx))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)

	// # Public Routes
	r.Get("/", h.Auth.Home)
	r.Post("/", h.Auth.Login)
	r.Post("/signup", h.Auth.Signup)
	r.Get("/logout", h.Auth.Logout)

	// # Authenticated Page Routes
	// Anonymous requests are redirected back to the login form.
	r.Group(func(pages chi.Router) {
		pages.Use(middleware.RequirePage)
		pages.Get("/bot", h.Chat.Bot)
		pages.Post("/send", h.Chat.Send)
	})

	// # Authenticated API Routes
	// Anonymous requests receive a structured 401, not a redirect.
	r.With(middleware.RequireJSON).Post("/clear", h.Chat.Clear)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Router exposes the composed handler, primarily for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
