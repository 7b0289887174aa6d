// Copyright (c) 2026 StudyBuddy. All rights reserved.
// Author: arman@studybuddy.dev

// Command api is the entry point for the StudyBuddy HTTP server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Load the credential file (fatal if unreadable or corrupt).
//  4. Generate the per-process session signing key.
//  5. Wire stores, services, and HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/arman/studybuddy/internal/api"
	"github.com/arman/studybuddy/internal/auth"
	"github.com/arman/studybuddy/internal/chat"
	"github.com/arman/studybuddy/internal/llm"
	"github.com/arman/studybuddy/internal/platform/config"
	"github.com/arman/studybuddy/internal/platform/constants"
	"github.com/arman/studybuddy/internal/platform/sec"
	"github.com/arman/studybuddy/internal/web"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("users_file", cfg.UsersFile),
		slog.String("model", cfg.OpenAIModel),
	)

	if cfg.OpenAIAPIKey == "" {
		log.Warn("openai_api_key_missing",
			slog.String("hint", "completions will fail inline until OPENAI_API_KEY is set"),
		)
	}

	// Root context for components that need to observe shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// ── 3. Credential Store ───────────────────────────────────────────────
	// An unreadable or corrupt credential file is fatal: the process must not
	// start with an unknown credential set.
	credentials, err := auth.NewFileCredentialStore(cfg.UsersFile)
	must(log, err, "load credential store")

	// ── 4. Session Signing ────────────────────────────────────────────────
	// Fresh key per process start: every session is invalidated on restart.
	signer, err := sec.NewSessionSigner(constants.SessionIssuer)
	must(log, err, "initialize session signer")

	// ── 5. Views ──────────────────────────────────────────────────────────
	renderer, err := web.NewRenderer()
	must(log, err, "parse templates")

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	completer := llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.CompletionTimeout)

	conversationStore := chat.NewMemoryStore(cfg.SystemPrompt)
	chatService := chat.NewService(conversationStore, completer, cfg.CompletionTimeout)
	chatHandler := chat.NewHandler(conversationStore, chatService, renderer)

	authService := auth.NewService(credentials)
	authHandler := auth.NewHandler(authService, signer, chatService, renderer)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness: api.NewHealthHandler(),
		Auth:     authHandler,
		Chat:     chatHandler,
	}

	server := api.NewServer(rootCtx, cfg, log, signer, handlers)

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
