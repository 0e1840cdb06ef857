// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/sociograph/internal/logging"
	"github.com/tomtom215/sociograph/internal/metrics"
	"github.com/tomtom215/sociograph/internal/models"
	"github.com/tomtom215/sociograph/internal/store"
)

// Recommendations runs the people-you-may-know pipeline for the
// caller. Degraded retrieval branches still produce a success response
// from the remaining sources; only a missing requester profile or an
// exclusion fetch failure fails the request.
func (s *Server) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := s.identity(w, r)
	if !ok {
		return
	}

	resp, err := s.engine.Recommend(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.RecordRecommendation("not_found", 0, 0)
			respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Requester profile does not exist", nil)
			return
		}
		metrics.RecordRecommendation("error", 0, 0)
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Recommendation pipeline failed", err)
		return
	}

	for branch, failed := range map[string]bool{
		"social":    resp.Metadata.SocialFailed,
		"interest":  resp.Metadata.InterestFailed,
		"community": resp.Metadata.CommunityFailed,
	} {
		if failed {
			metrics.RecordBranchFailure(branch)
		}
	}
	metrics.RecordRecommendation("success", time.Since(start), resp.TotalCandidates)

	logging.Ctx(r.Context()).Info().
		Int("results", len(resp.Recommendations)).
		Int("candidates", resp.TotalCandidates).
		Bool("social_failed", resp.Metadata.SocialFailed).
		Bool("interest_failed", resp.Metadata.InterestFailed).
		Bool("community_failed", resp.Metadata.CommunityFailed).
		Msg("Recommendations served")

	respondData(w, http.StatusOK, resp, start)
}
