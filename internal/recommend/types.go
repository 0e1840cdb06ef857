// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/sociograph/internal/models"
)

// DataProvider is the document-store contract the engine depends on.
// Implemented by the store package; mocked in tests.
//
// The engine requires only primitive read operations: point lookup,
// batched point lookup (the store may impose a max batch size, see
// Limits.ProfileBatchSize), set-membership index queries with a result
// limit, and enumeration of the per-owner following sub-collection.
type DataProvider interface {
	// GetProfile point-looks-up a profile by identity.
	GetProfile(ctx context.Context, id string) (*models.Profile, error)

	// GetProfiles batch-looks-up profiles. Callers must respect the
	// store's batch ceiling; unknown identities are skipped.
	GetProfiles(ctx context.Context, ids []string) ([]*models.Profile, error)

	// FindByTags returns profiles sharing at least one of the tags,
	// capped at limit.
	FindByTags(ctx context.Context, tags []string, limit int) ([]*models.Profile, error)

	// FindByCommunities returns profiles belonging to at least one of
	// the communities, capped at limit.
	FindByCommunities(ctx context.Context, communityIDs []string, limit int) ([]*models.Profile, error)

	// Following enumerates identities the user follows. limit <= 0
	// means the full list.
	Following(ctx context.Context, id string, limit int) ([]string, error)
}

// Candidate is a profile under consideration for one requester, with the
// retrieval paths that produced it. A candidate may arrive via several
// paths; the flags record every path independently.
type Candidate struct {
	Profile      *models.Profile
	ViaSocial    bool
	ViaInterest  bool
	ViaCommunity bool
}

// ScoredCandidate is the ranked output record. Reasons are diagnostic
// score-contribution strings; they play no part in ranking.
type ScoredCandidate struct {
	ID                 string   `json:"id"`
	Handle             string   `json:"handle"`
	DisplayName        string   `json:"display_name"`
	PhotoURL           string   `json:"photo_url,omitempty"`
	Tags               []string `json:"tags,omitempty"`
	Communities        []string `json:"communities,omitempty"`
	RelationshipStatus string   `json:"relationship_status,omitempty"`
	FollowerCount      int64    `json:"follower_count"`
	Score              float64  `json:"score"`
	Reasons            []string `json:"reasons,omitempty"`
}

// Response is the result of one recommendation request.
type Response struct {
	Recommendations []ScoredCandidate `json:"recommendations"`
	TotalCandidates int               `json:"total_candidates"`
	Metadata        ResponseMetadata  `json:"metadata"`
}

// ResponseMetadata carries observability fields for one request.
type ResponseMetadata struct {
	RequesterID     string    `json:"requester_id"`
	LatencyMS       int64     `json:"latency_ms"`
	SocialFailed    bool      `json:"social_failed,omitempty"`
	InterestFailed  bool      `json:"interest_failed,omitempty"`
	CommunityFailed bool      `json:"community_failed,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}
