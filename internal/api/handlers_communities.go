// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/sociograph/internal/logging"
	"github.com/tomtom215/sociograph/internal/models"
)

// CreateCommunity creates a community with the caller as owner and
// first member.
func (s *Server) CreateCommunity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := s.identity(w, r)
	if !ok {
		return
	}

	var req CreateCommunityRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	community := &models.Community{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     id,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.CreateCommunity(r.Context(), community); err != nil {
		s.respondStoreError(w, err, "community")
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("community_id", community.ID).
		Str("name", sanitizeLogValue(community.Name)).
		Msg("Community created")
	respondData(w, http.StatusCreated, community, start)
}

// GetCommunity returns a community by identifier.
func (s *Server) GetCommunity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if _, ok := s.identity(w, r); !ok {
		return
	}

	community, err := s.store.GetCommunity(r.Context(), chi.URLParam(r, "communityID"))
	if err != nil {
		s.respondStoreError(w, err, "community")
		return
	}
	respondData(w, http.StatusOK, community, start)
}

// JoinCommunity adds the caller to a community.
func (s *Server) JoinCommunity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	communityID := chi.URLParam(r, "communityID")

	if err := s.store.JoinCommunity(r.Context(), communityID, id); err != nil {
		s.respondStoreError(w, err, "community")
		return
	}
	respondData(w, http.StatusCreated, map[string]string{"joined": communityID}, start)
}

// LeaveCommunity removes the caller from a community.
func (s *Server) LeaveCommunity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	communityID := chi.URLParam(r, "communityID")

	if err := s.store.LeaveCommunity(r.Context(), communityID, id); err != nil {
		s.respondStoreError(w, err, "community")
		return
	}
	respondData(w, http.StatusOK, map[string]string{"left": communityID}, start)
}

// ListCommunityMembers returns member identities for a community.
func (s *Server) ListCommunityMembers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if _, ok := s.identity(w, r); !ok {
		return
	}
	communityID := chi.URLParam(r, "communityID")

	if _, err := s.store.GetCommunity(r.Context(), communityID); err != nil {
		s.respondStoreError(w, err, "community")
		return
	}

	members, err := s.store.CommunityMembers(r.Context(), communityID, s.pageLimit(r))
	if err != nil {
		s.respondStoreError(w, err, "community")
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{"members": members}, start)
}
