// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package recommend

import (
	"context"
	"fmt"

	"github.com/tomtom215/sociograph/internal/models"
)

// retrieveByInterests fetches users sharing at least one interest tag with
// the requester. A requester with no tags short-circuits to an empty
// result without issuing a query.
func (e *Engine) retrieveByInterests(ctx context.Context, requester *models.Profile) ([]*models.Profile, error) {
	tags := firstN(requester.Tags, e.config.Limits.TagQueryLimit)
	if len(tags) == 0 {
		return nil, nil
	}

	profiles, err := e.provider.FindByTags(ctx, tags, e.config.Limits.InterestResultLimit)
	if err != nil {
		return nil, fmt.Errorf("interest query: %w", err)
	}
	return profiles, nil
}

// retrieveByCommunities fetches users belonging to at least one of the
// requester's communities. Symmetric to retrieveByInterests.
func (e *Engine) retrieveByCommunities(ctx context.Context, requester *models.Profile) ([]*models.Profile, error) {
	communities := firstN(requester.Communities, e.config.Limits.CommunityQueryLimit)
	if len(communities) == 0 {
		return nil, nil
	}

	profiles, err := e.provider.FindByCommunities(ctx, communities, e.config.Limits.CommunityResultLimit)
	if err != nil {
		return nil, fmt.Errorf("community query: %w", err)
	}
	return profiles, nil
}

// firstN returns at most the first n elements of s.
func firstN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
