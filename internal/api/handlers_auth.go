// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/sociograph/internal/auth"
	"github.com/tomtom215/sociograph/internal/logging"
	"github.com/tomtom215/sociograph/internal/metrics"
	"github.com/tomtom215/sociograph/internal/models"
	"github.com/tomtom215/sociograph/internal/store"
)

// tokenResponse is the success payload for register and login.
type tokenResponse struct {
	Token   string          `json:"token"`
	Profile *models.Profile `json:"profile"`
}

// Register creates an account: a profile, its handle reservation, and
// the password hash, then issues a token.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}

	now := time.Now().UTC()
	profile := &models.Profile{
		ID:          uuid.New().String(),
		Handle:      req.Handle,
		DisplayName: req.DisplayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if profile.DisplayName == "" {
		profile.DisplayName = req.Handle
	}

	if err := s.store.CreateProfile(r.Context(), profile); err != nil {
		if errors.Is(err, store.ErrHandleTaken) {
			respondError(w, http.StatusConflict, models.ErrCodeConflict, "Handle is already taken", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to create profile", err)
		return
	}

	creds := &store.Credentials{UserID: profile.ID, PasswordHash: hash}
	if err := s.store.SetCredentials(r.Context(), req.Handle, creds); err != nil {
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to store credentials", err)
		return
	}

	token := ""
	if s.jwt != nil {
		if token, err = s.jwt.GenerateToken(profile.ID, profile.Handle); err != nil {
			respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to issue token", err)
			return
		}
	}

	logging.Ctx(r.Context()).Info().
		Str("profile_id", profile.ID).
		Str("handle", sanitizeLogValue(profile.Handle)).
		Msg("Account registered")

	respondData(w, http.StatusCreated, tokenResponse{Token: token, Profile: profile}, start)
}

// Login verifies credentials and issues a token. Unknown handles and
// wrong passwords produce the same response.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	creds, err := s.store.GetCredentials(r.Context(), req.Handle)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.rejectLogin(w, r)
			return
		}
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to load credentials", err)
		return
	}

	if err := s.hasher.Compare(creds.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.rejectLogin(w, r)
			return
		}
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to verify credentials", err)
		return
	}

	profile, err := s.store.GetProfile(r.Context(), creds.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to load profile", err)
		return
	}

	token := ""
	if s.jwt != nil {
		if token, err = s.jwt.GenerateToken(profile.ID, profile.Handle); err != nil {
			respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to issue token", err)
			return
		}
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	respondData(w, http.StatusOK, tokenResponse{Token: token, Profile: profile}, start)
}

func (s *Server) rejectLogin(w http.ResponseWriter, r *http.Request) {
	metrics.AuthAttempts.WithLabelValues("failure").Inc()
	logging.Ctx(r.Context()).Debug().Msg("Login rejected")
	respondError(w, http.StatusUnauthorized, models.ErrCodeUnauthorized, "Invalid handle or password", nil)
}
