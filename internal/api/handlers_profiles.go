// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/sociograph/internal/logging"
	"github.com/tomtom215/sociograph/internal/models"
	"github.com/tomtom215/sociograph/internal/store"
)

// identity returns the authenticated identity, or responds 401 and
// returns false. Mode "none" requests without a dev identity header
// land here too.
func (s *Server) identity(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := logging.IdentityFromContext(r.Context())
	if id == "" {
		respondError(w, http.StatusUnauthorized, models.ErrCodeUnauthorized, "Authentication required", nil)
		return "", false
	}
	return id, true
}

// GetOwnProfile returns the caller's profile.
func (s *Server) GetOwnProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := s.identity(w, r)
	if !ok {
		return
	}

	profile, err := s.store.GetProfile(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, err, "profile")
		return
	}
	respondData(w, http.StatusOK, profile, start)
}

// GetProfile returns a profile by identifier.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if _, ok := s.identity(w, r); !ok {
		return
	}

	profile, err := s.store.GetProfile(r.Context(), chi.URLParam(r, "profileID"))
	if err != nil {
		s.respondStoreError(w, err, "profile")
		return
	}
	respondData(w, http.StatusOK, profile, start)
}

// UpdateOwnProfile patches the caller's profile fields.
func (s *Server) UpdateOwnProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := s.identity(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	profile, err := s.store.UpdateProfile(r.Context(), id, func(p *models.Profile) {
		if req.DisplayName != nil {
			p.DisplayName = *req.DisplayName
		}
		if req.PhotoURL != nil {
			p.PhotoURL = *req.PhotoURL
		}
		if req.Bio != nil {
			p.Bio = *req.Bio
		}
		if req.Tags != nil {
			p.Tags = req.Tags
		}
		if req.RelationshipStatus != nil {
			p.RelationshipStatus = *req.RelationshipStatus
		}
	})
	if err != nil {
		s.respondStoreError(w, err, "profile")
		return
	}
	respondData(w, http.StatusOK, profile, start)
}

// respondStoreError maps store errors to API error codes.
func (s *Server) respondStoreError(w http.ResponseWriter, err error, noun string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "The requested "+noun+" does not exist", nil)
	case errors.Is(err, store.ErrSelfFollow):
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Cannot follow yourself", nil)
	case errors.Is(err, store.ErrAlreadyFollowing):
		respondError(w, http.StatusConflict, models.ErrCodeConflict, "Already following this profile", nil)
	case errors.Is(err, store.ErrNotFollowing):
		respondError(w, http.StatusConflict, models.ErrCodeConflict, "Not following this profile", nil)
	case errors.Is(err, store.ErrAlreadyMember):
		respondError(w, http.StatusConflict, models.ErrCodeConflict, "Already a member of this community", nil)
	case errors.Is(err, store.ErrNotMember):
		respondError(w, http.StatusConflict, models.ErrCodeConflict, "Not a member of this community", nil)
	case errors.Is(err, store.ErrHandleTaken):
		respondError(w, http.StatusConflict, models.ErrCodeConflict, "Handle is already taken", nil)
	default:
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Storage operation failed", err)
	}
}
