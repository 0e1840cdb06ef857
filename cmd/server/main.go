// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

// Package main is the entry point for the Sociograph server.
//
// Sociograph is a self-hosted social graph backend: profiles, follows,
// communities, posts, ephemeral stories, and a "people you may know"
// recommendation engine that blends mutual connections, shared interests,
// shared communities, and account popularity.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered settings from defaults, config file, and
//     environment variables (Koanf v2)
//  2. Store: BadgerDB key-value store holding the social graph
//  3. Recommendation engine: concurrent candidate retrieval with circuit
//     breakers per branch
//  4. Authentication: JWT or no-auth development mode
//  5. Supervisor tree: HTTP server, store GC, and rate limiter sweep run
//     as supervised services with restart backoff
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables
//   - Config file (config.yaml, or the path in CONFIG_PATH)
//   - Built-in defaults
//
// For JWT authentication (default):
//   - JWT_SECRET: 32+ character secret for token signing
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
//   - Closes the store, flushing pending writes
//
// # Example Usage
//
// Development without authentication:
//
//	export AUTH_MODE=none
//	export STORE_IN_MEMORY=true
//	./sociograph
//
// Production:
//
//	export JWT_SECRET=$(openssl rand -base64 32)
//	export STORE_PATH=/data/sociograph
//	./sociograph
//
// Docker:
//
//	docker run -d \
//	  -e JWT_SECRET=your-secret \
//	  -v sociograph-data:/data/sociograph \
//	  -p 8642:8642 \
//	  ghcr.io/tomtom215/sociograph
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/sociograph/internal/api"
	"github.com/tomtom215/sociograph/internal/auth"
	"github.com/tomtom215/sociograph/internal/config"
	"github.com/tomtom215/sociograph/internal/logging"
	"github.com/tomtom215/sociograph/internal/recommend"
	"github.com/tomtom215/sociograph/internal/store"
	"github.com/tomtom215/sociograph/internal/supervisor"
	"github.com/tomtom215/sociograph/internal/supervisor/services"
)

// sweepInterval is how often idle rate limiter entries are evicted.
const sweepInterval = time.Minute

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logging.Info().
		Str("auth_mode", cfg.Security.AuthMode).
		Str("store_path", cfg.Store.Path).
		Bool("in_memory", cfg.Store.InMemory).
		Str("environment", cfg.Server.Environment).
		Msg("Configuration loaded")

	st, err := store.Open(store.Config{
		Dir:            cfg.Store.Path,
		InMemory:       cfg.Store.InMemory,
		GCInterval:     cfg.Store.GCInterval,
		GCDiscardRatio: cfg.Store.GCDiscardRatio,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()
	logging.Info().Msg("Store opened")

	engine, err := recommend.NewEngine(cfg.Recommend, st, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build recommendation engine")
	}

	var jwtManager *auth.JWTManager
	switch cfg.Security.AuthMode {
	case auth.ModeJWT:
		jwtManager, err = auth.NewJWTManager(&cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
		logging.Info().Msg("JWT authentication enabled")
	case auth.ModeNone:
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: Authentication is DISABLED (AUTH_MODE=none)")
		logging.Warn().Msg("  All endpoints trust the X-User-ID header without verification.")
		logging.Warn().Msg("  Use this mode only for local development and CI.")
		logging.Warn().Msg("============================================================")
	}

	hasher, err := auth.NewHasher(cfg.Security.BcryptCost)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize password hasher")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	server := api.NewServer(cfg, st, engine, jwtManager, hasher, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Routes(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for suture's event hook.
	tree := supervisor.NewTree(supervisor.DefaultTreeConfig(), logging.NewSlogLogger())

	tree.AddAPI(services.NewHTTPService(httpServer, httpServer.Addr, tree.ShutdownTimeout(), logger))
	tree.AddMaintenance(services.NewGCService(st, logger))
	if limiter := server.Limiter(); limiter != nil {
		tree.AddMaintenance(services.NewSweeperService(limiter, sweepInterval, logger))
	}
	logging.Info().Str("addr", httpServer.Addr).Msg("Services added to supervisor tree")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor closes the channel.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Server stopped gracefully")
}
