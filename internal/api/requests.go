// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package api

// RegisterRequest creates an account and its profile.
type RegisterRequest struct {
	Handle      string `json:"handle" validate:"required,handle"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"display_name" validate:"omitempty,max=80"`
}

// LoginRequest exchanges credentials for an access token.
type LoginRequest struct {
	Handle   string `json:"handle" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest patches the caller's own profile. Nil fields
// are left unchanged.
type UpdateProfileRequest struct {
	DisplayName        *string  `json:"display_name" validate:"omitempty,max=80"`
	PhotoURL           *string  `json:"photo_url" validate:"omitempty,url"`
	Bio                *string  `json:"bio" validate:"omitempty,max=500"`
	Tags               []string `json:"tags" validate:"omitempty,max=25,dive,min=1,max=40"`
	RelationshipStatus *string  `json:"relationship_status" validate:"omitempty,max=40"`
}

// CreateCommunityRequest creates a community owned by the caller.
type CreateCommunityRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=80"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

// CreatePostRequest publishes a post by the caller.
type CreatePostRequest struct {
	Body     string `json:"body" validate:"required,min=1,max=5000"`
	MediaURL string `json:"media_url" validate:"omitempty,url"`
}

// ReactRequest sets the caller's reaction on a post.
type ReactRequest struct {
	Kind string `json:"kind" validate:"required,oneof=like love laugh sad"`
}

// CreateStoryRequest publishes an ephemeral story by the caller.
type CreateStoryRequest struct {
	MediaURL string `json:"media_url" validate:"required,url"`
	Caption  string `json:"caption" validate:"omitempty,max=200"`
}
