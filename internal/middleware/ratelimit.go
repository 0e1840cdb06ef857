// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/tomtom215/sociograph/internal/logging"
	"github.com/tomtom215/sociograph/internal/metrics"
	"github.com/tomtom215/sociograph/internal/models"
	"github.com/tomtom215/sociograph/internal/ratelimit"
)

// RateLimit enforces a per-identity request budget. Authenticated
// requests are keyed by identity; anonymous ones fall back to the
// client IP.
func RateLimit(limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := logging.IdentityFromContext(r.Context())
			if key == "" {
				key = clientIP(r)
			}

			if !limiter.Allow(key) {
				endpoint := r.URL.Path
				if rctx := chi.RouteContext(r.Context()); rctx != nil {
					if pattern := rctx.RoutePattern(); pattern != "" {
						endpoint = pattern
					}
				}
				metrics.APIRateLimitHits.WithLabelValues(endpoint).Inc()

				logging.Ctx(r.Context()).Warn().
					Str("endpoint", endpoint).
					Msg("Request rejected: rate limit exceeded")

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "60")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(models.APIResponse{
					Status: "error",
					Error: &models.APIError{
						Code:    models.ErrCodeRateLimited,
						Message: "Too many requests",
					},
					Metadata: &models.Metadata{Timestamp: time.Now().UTC()},
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
