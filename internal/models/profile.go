// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

// Package models defines the document shapes stored in the document store
// and the API response envelope shared by all HTTP endpoints.
package models

import "time"

// Profile is the stored record describing a user account.
//
// Identity is an opaque unique string. FollowerCount is denormalized and
// maintained by the follow/unfollow operations. The set of identities a
// user follows is stored as a sub-collection of edges keyed by the owner
// identity, not embedded here.
type Profile struct {
	ID                 string    `json:"id"`
	Handle             string    `json:"handle"`
	DisplayName        string    `json:"display_name"`
	PhotoURL           string    `json:"photo_url,omitempty"`
	Bio                string    `json:"bio,omitempty"`
	Tags               []string  `json:"tags,omitempty"`
	Communities        []string  `json:"communities,omitempty"`
	RelationshipStatus string    `json:"relationship_status,omitempty"`
	FollowerCount      int64     `json:"follower_count"`
	FollowingCount     int64     `json:"following_count"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// HasTag reports whether the profile carries the given interest tag.
func (p *Profile) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// InCommunity reports whether the profile is a member of the given community.
func (p *Profile) InCommunity(id string) bool {
	for _, c := range p.Communities {
		if c == id {
			return true
		}
	}
	return false
}
