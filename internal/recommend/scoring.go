// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package recommend

import (
	"fmt"
	"math"

	"github.com/tomtom215/sociograph/internal/models"
)

// scoreCandidates computes the weighted relevance score for every
// candidate. Terms are evaluated independently and summed; no term is
// ever negative, so scores are always >= 0.
//
// The social term is decided by identity membership in the raw
// social-branch output, not by the merged provenance flag: a candidate
// first seen via the interest branch still earns the social bonus when it
// is also two-hop reachable.
func (e *Engine) scoreCandidates(requester *models.Profile, candidates []*Candidate, socialRaw []*models.Profile) []ScoredCandidate {
	socialSet := make(map[string]struct{}, len(socialRaw))
	for _, p := range socialRaw {
		socialSet[p.ID] = struct{}{}
	}

	requesterTags := toSet(requester.Tags)
	requesterCommunities := toSet(requester.Communities)

	out := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, e.scoreOne(requester, c, socialSet, requesterTags, requesterCommunities))
	}
	return out
}

// scoreOne evaluates all scoring terms for a single candidate and records
// a diagnostic reason per non-zero term.
func (e *Engine) scoreOne(
	requester *models.Profile,
	c *Candidate,
	socialSet map[string]struct{},
	requesterTags, requesterCommunities map[string]struct{},
) ScoredCandidate {
	w := e.config.Weights
	p := c.Profile

	var score float64
	var reasons []string

	if _, ok := socialSet[p.ID]; ok {
		score += w.Social
		reasons = append(reasons, fmt.Sprintf("followed by people you follow (+%.0f)", w.Social))
	}

	if shared := intersectCount(p.Tags, requesterTags); shared > 0 {
		term := float64(shared) * w.Interest
		score += term
		reasons = append(reasons, fmt.Sprintf("%d shared interests (+%.0f)", shared, term))
	}

	if shared := intersectCount(p.Communities, requesterCommunities); shared > 0 {
		term := float64(shared) * w.Community
		score += term
		reasons = append(reasons, fmt.Sprintf("%d shared communities (+%.0f)", shared, term))
	}

	// Exact, case-sensitive match; an unset requester status never matches.
	if requester.RelationshipStatus != "" && requester.RelationshipStatus == p.RelationshipStatus {
		score += w.Status
		reasons = append(reasons, fmt.Sprintf("same relationship status (+%.0f)", w.Status))
	}

	if p.FollowerCount > 0 {
		term := math.Log10(float64(p.FollowerCount)) * w.Popularity
		score += term
		if term > 0 {
			reasons = append(reasons, fmt.Sprintf("%d followers (+%.1f)", p.FollowerCount, term))
		}
	}

	return ScoredCandidate{
		ID:                 p.ID,
		Handle:             p.Handle,
		DisplayName:        p.DisplayName,
		PhotoURL:           p.PhotoURL,
		Tags:               p.Tags,
		Communities:        p.Communities,
		RelationshipStatus: p.RelationshipStatus,
		FollowerCount:      p.FollowerCount,
		Score:              score,
		Reasons:            reasons,
	}
}

// toSet converts a string slice to a membership set.
func toSet(s []string) map[string]struct{} {
	set := make(map[string]struct{}, len(s))
	for _, v := range s {
		set[v] = struct{}{}
	}
	return set
}

// intersectCount counts how many elements of s are members of set.
func intersectCount(s []string, set map[string]struct{}) int {
	n := 0
	for _, v := range s {
		if _, ok := set[v]; ok {
			n++
		}
	}
	return n
}
