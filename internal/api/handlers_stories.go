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

	"github.com/tomtom215/sociograph/internal/models"
	"github.com/tomtom215/sociograph/internal/store"
)

// CreateStory publishes an ephemeral story. The store expires it
// automatically after the story TTL.
func (s *Server) CreateStory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := s.identity(w, r)
	if !ok {
		return
	}

	var req CreateStoryRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	now := time.Now().UTC()
	story := &models.Story{
		ID:        uuid.New().String(),
		AuthorID:  id,
		MediaURL:  req.MediaURL,
		Caption:   req.Caption,
		CreatedAt: now,
		ExpiresAt: now.Add(store.StoryTTL),
	}
	if err := s.store.CreateStory(r.Context(), story); err != nil {
		s.respondStoreError(w, err, "story")
		return
	}
	respondData(w, http.StatusCreated, story, start)
}

// ListStories returns a profile's unexpired stories.
func (s *Server) ListStories(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if _, ok := s.identity(w, r); !ok {
		return
	}
	profileID := chi.URLParam(r, "profileID")

	if _, err := s.store.GetProfile(r.Context(), profileID); err != nil {
		s.respondStoreError(w, err, "profile")
		return
	}

	stories, err := s.store.ListStories(r.Context(), profileID)
	if err != nil {
		s.respondStoreError(w, err, "story")
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{"stories": stories}, start)
}
