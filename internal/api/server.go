// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

// Package api provides HTTP routing and handlers using the Chi router.
// All responses use the APIResponse envelope; errors carry stable
// machine-readable codes.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tomtom215/sociograph/internal/auth"
	"github.com/tomtom215/sociograph/internal/config"
	"github.com/tomtom215/sociograph/internal/middleware"
	"github.com/tomtom215/sociograph/internal/ratelimit"
	"github.com/tomtom215/sociograph/internal/recommend"
	"github.com/tomtom215/sociograph/internal/store"
)

// Server holds handler dependencies.
type Server struct {
	cfg     *config.Config
	store   *store.Store
	engine  *recommend.Engine
	jwt     *auth.JWTManager
	hasher  *auth.Hasher
	authMW  *auth.Middleware
	limiter *ratelimit.Limiter
	logger  zerolog.Logger
}

// NewServer wires the API surface. The JWT manager may be nil when
// authentication is disabled.
func NewServer(
	cfg *config.Config,
	st *store.Store,
	engine *recommend.Engine,
	jwt *auth.JWTManager,
	hasher *auth.Hasher,
	logger zerolog.Logger,
) *Server {
	s := &Server{
		cfg:    cfg,
		store:  st,
		engine: engine,
		jwt:    jwt,
		hasher: hasher,
		authMW: auth.NewMiddleware(jwt, cfg.Security.AuthMode, logger),
		logger: logger,
	}
	if !cfg.Security.RateLimitDisabled {
		s.limiter = ratelimit.New(
			cfg.Security.RateLimitReqs,
			cfg.Security.RateLimitWindow,
			cfg.Security.LimiterTTL,
		)
	}
	return s
}

// Limiter exposes the per-identity limiter for the eviction sweeper.
// It is nil when rate limiting is disabled.
func (s *Server) Limiter() *ratelimit.Limiter {
	return s.limiter
}

// Routes builds the router with the full middleware stack.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.Compression)

	// Health and metrics stay unauthenticated with a generous IP
	// budget so monitoring keeps working when the app misbehaves.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(1000, time.Minute))
		r.Get("/", s.Health)
		r.Get("/live", s.HealthLive)
		r.Get("/ready", s.HealthReady)
	})
	r.Handle("/metrics", promhttp.Handler())

	// Credential endpoints get a strict IP budget against brute force.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Use(httprate.LimitByIP(10, time.Minute))
		r.Post("/register", s.Register)
		r.With(httprate.LimitByIP(5, 5*time.Minute)).Post("/login", s.Login)
	})

	// Everything else requires an identity.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Use(s.authMW.Authenticate)
		if s.limiter != nil {
			r.Use(middleware.RateLimit(s.limiter))
		}

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/me", s.GetOwnProfile)
			r.Put("/me", s.UpdateOwnProfile)
			r.Get("/{profileID}", s.GetProfile)
			r.Get("/{profileID}/followers", s.ListFollowers)
			r.Get("/{profileID}/following", s.ListFollowing)
			r.Post("/{profileID}/follow", s.Follow)
			r.Delete("/{profileID}/follow", s.Unfollow)
			r.Get("/{profileID}/posts", s.ListPosts)
			r.Get("/{profileID}/stories", s.ListStories)
		})

		r.Route("/communities", func(r chi.Router) {
			r.Post("/", s.CreateCommunity)
			r.Get("/{communityID}", s.GetCommunity)
			r.Get("/{communityID}/members", s.ListCommunityMembers)
			r.Post("/{communityID}/join", s.JoinCommunity)
			r.Delete("/{communityID}/join", s.LeaveCommunity)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Post("/", s.CreatePost)
			r.Get("/{postID}", s.GetPost)
			r.Delete("/{postID}", s.DeletePost)
			r.Put("/{postID}/reaction", s.React)
			r.Delete("/{postID}/reaction", s.Unreact)
		})

		r.Post("/stories", s.CreateStory)

		r.Get("/recommendations", s.Recommendations)
	})

	return r
}
