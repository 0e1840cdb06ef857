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
)

// CreatePost publishes a post authored by the caller.
func (s *Server) CreatePost(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := s.identity(w, r)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	post := &models.Post{
		ID:        uuid.New().String(),
		AuthorID:  id,
		Body:      req.Body,
		MediaURL:  req.MediaURL,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreatePost(r.Context(), post); err != nil {
		s.respondStoreError(w, err, "post")
		return
	}
	respondData(w, http.StatusCreated, post, start)
}

// GetPost returns a post by identifier.
func (s *Server) GetPost(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if _, ok := s.identity(w, r); !ok {
		return
	}

	post, err := s.store.GetPost(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		s.respondStoreError(w, err, "post")
		return
	}
	respondData(w, http.StatusOK, post, start)
}

// DeletePost removes a post. Only the author may delete it.
func (s *Server) DeletePost(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	postID := chi.URLParam(r, "postID")

	post, err := s.store.GetPost(r.Context(), postID)
	if err != nil {
		s.respondStoreError(w, err, "post")
		return
	}
	if post.AuthorID != id {
		respondError(w, http.StatusForbidden, models.ErrCodeForbidden, "Only the author may delete a post", nil)
		return
	}

	if err := s.store.DeletePost(r.Context(), postID); err != nil {
		s.respondStoreError(w, err, "post")
		return
	}
	respondData(w, http.StatusOK, map[string]string{"deleted": postID}, start)
}

// ListPosts returns a profile's posts, newest first.
func (s *Server) ListPosts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if _, ok := s.identity(w, r); !ok {
		return
	}
	profileID := chi.URLParam(r, "profileID")

	if _, err := s.store.GetProfile(r.Context(), profileID); err != nil {
		s.respondStoreError(w, err, "profile")
		return
	}

	posts, err := s.store.ListPostsByAuthor(r.Context(), profileID, s.pageLimit(r))
	if err != nil {
		s.respondStoreError(w, err, "post")
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{"posts": posts}, start)
}

// React sets the caller's reaction on a post, replacing any previous
// reaction kind.
func (s *Server) React(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	postID := chi.URLParam(r, "postID")

	var req ReactRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	if err := s.store.React(r.Context(), postID, id, req.Kind); err != nil {
		s.respondStoreError(w, err, "post")
		return
	}
	respondData(w, http.StatusOK, map[string]string{"reaction": req.Kind}, start)
}

// Unreact removes the caller's reaction from a post.
func (s *Server) Unreact(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	postID := chi.URLParam(r, "postID")

	if err := s.store.Unreact(r.Context(), postID, id); err != nil {
		s.respondStoreError(w, err, "post")
		return
	}
	respondData(w, http.StatusOK, map[string]string{"reaction": ""}, start)
}
