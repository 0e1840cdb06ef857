// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

// Package middleware provides the HTTP middleware chain: request ID
// propagation, Prometheus instrumentation, per-identity rate limiting,
// and response compression.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tomtom215/sociograph/internal/logging"
)

// RequestID assigns each request a unique ID, honoring an upstream
// X-Request-ID when present, and propagates it through the response
// header and the logging context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)
		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
