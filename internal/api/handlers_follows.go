// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/sociograph/internal/logging"
)

// Follow creates a follow edge from the caller to the target profile.
func (s *Server) Follow(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	targetID := chi.URLParam(r, "profileID")

	if err := s.store.Follow(r.Context(), id, targetID); err != nil {
		s.respondStoreError(w, err, "profile")
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("target_id", targetID).
		Msg("Follow edge created")
	respondData(w, http.StatusCreated, map[string]string{"following": targetID}, start)
}

// Unfollow removes the caller's follow edge to the target profile.
func (s *Server) Unfollow(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	targetID := chi.URLParam(r, "profileID")

	if err := s.store.Unfollow(r.Context(), id, targetID); err != nil {
		s.respondStoreError(w, err, "profile")
		return
	}
	respondData(w, http.StatusOK, map[string]string{"unfollowed": targetID}, start)
}

// ListFollowing returns identities the profile follows.
func (s *Server) ListFollowing(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if _, ok := s.identity(w, r); !ok {
		return
	}
	profileID := chi.URLParam(r, "profileID")

	// Existence check so unknown profiles 404 instead of listing empty.
	if _, err := s.store.GetProfile(r.Context(), profileID); err != nil {
		s.respondStoreError(w, err, "profile")
		return
	}

	ids, err := s.store.Following(r.Context(), profileID, s.pageLimit(r))
	if err != nil {
		s.respondStoreError(w, err, "profile")
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{"following": ids}, start)
}

// ListFollowers returns identities following the profile.
func (s *Server) ListFollowers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if _, ok := s.identity(w, r); !ok {
		return
	}
	profileID := chi.URLParam(r, "profileID")

	if _, err := s.store.GetProfile(r.Context(), profileID); err != nil {
		s.respondStoreError(w, err, "profile")
		return
	}

	ids, err := s.store.Followers(r.Context(), profileID, s.pageLimit(r))
	if err != nil {
		s.respondStoreError(w, err, "profile")
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{"followers": ids}, start)
}
