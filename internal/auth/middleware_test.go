// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/sociograph/internal/logging"
)

// identityEcho records the identity the middleware resolved.
func identityEcho(got *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = logging.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	m := newTestManager(t, time.Hour)
	mw := NewMiddleware(m, ModeJWT, zerolog.Nop())

	var got string
	handler := mw.Authenticate(identityEcho(&got))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/profiles/me", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if got != "" {
		t.Errorf("handler ran with identity %q", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q, want application/json", ct)
	}
}

func TestAuthenticateRejectsBadToken(t *testing.T) {
	m := newTestManager(t, time.Hour)
	mw := NewMiddleware(m, ModeJWT, zerolog.Nop())

	var got string
	handler := mw.Authenticate(identityEcho(&got))

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateResolvesIdentity(t *testing.T) {
	m := newTestManager(t, time.Hour)
	mw := NewMiddleware(m, ModeJWT, zerolog.Nop())

	token, err := m.GenerateToken("user-7", "alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	var got string
	handler := mw.Authenticate(identityEcho(&got))

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got != "user-7" {
		t.Errorf("identity = %q, want user-7", got)
	}
}

func TestAuthenticateModeNone(t *testing.T) {
	mw := NewMiddleware(nil, ModeNone, zerolog.Nop())

	var got string
	handler := mw.Authenticate(identityEcho(&got))

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles/me", nil)
	req.Header.Set("X-User-ID", "dev-user")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got != "dev-user" {
		t.Errorf("identity = %q, want dev-user", got)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		got, ok := bearerToken(req)
		if got != tt.want || ok != tt.ok {
			t.Errorf("bearerToken(%q) = (%q, %t), want (%q, %t)", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}
