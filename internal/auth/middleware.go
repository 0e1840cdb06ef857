// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package auth

import (
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/sociograph/internal/logging"
	"github.com/tomtom215/sociograph/internal/models"
)

// ModeNone disables authentication. Development use only; config
// validation rejects it in production.
const (
	ModeJWT  = "jwt"
	ModeNone = "none"
)

// devIdentityHeader carries the acting identity when authentication is
// disabled.
const devIdentityHeader = "X-User-ID"

// Middleware resolves the requesting identity and stores it in the
// request context. Handlers read it with logging.IdentityFromContext.
type Middleware struct {
	jwt    *JWTManager
	mode   string
	logger zerolog.Logger
}

// NewMiddleware returns authentication middleware for the given mode.
// The JWT manager may be nil only when mode is ModeNone.
func NewMiddleware(jwt *JWTManager, mode string, logger zerolog.Logger) *Middleware {
	return &Middleware{jwt: jwt, mode: mode, logger: logger}
}

// Authenticate requires a valid identity on every request it wraps.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.mode == ModeNone {
			if id := r.Header.Get(devIdentityHeader); id != "" {
				r = r.WithContext(logging.ContextWithIdentity(r.Context(), id))
			}
			next.ServeHTTP(w, r)
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			m.reject(w, r, "missing bearer token")
			return
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			m.reject(w, r, err.Error())
			return
		}

		ctx := logging.ContextWithIdentity(r.Context(), claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from an "Authorization: Bearer" header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

func (m *Middleware) reject(w http.ResponseWriter, r *http.Request, reason string) {
	logging.Ctx(r.Context()).Debug().
		Str("path", r.URL.Path).
		Str("reason", reason).
		Msg("Request rejected: unauthorized")

	resp := models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    models.ErrCodeUnauthorized,
			Message: "Authentication required",
		},
		Metadata: &models.Metadata{Timestamp: time.Now().UTC()},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		m.logger.Error().Err(err).Msg("Failed to encode unauthorized response")
	}
}
