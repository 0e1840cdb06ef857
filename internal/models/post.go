// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package models

import "time"

// Reaction kinds accepted on posts.
const (
	ReactionLike  = "like"
	ReactionLove  = "love"
	ReactionLaugh = "laugh"
	ReactionSad   = "sad"
)

// ValidReaction reports whether kind names a supported reaction.
func ValidReaction(kind string) bool {
	switch kind {
	case ReactionLike, ReactionLove, ReactionLaugh, ReactionSad:
		return true
	}
	return false
}

// Post is a user-authored post document.
//
// ReactionCounts is denormalized per reaction kind and maintained by the
// react/unreact operations.
type Post struct {
	ID             string           `json:"id"`
	AuthorID       string           `json:"author_id"`
	Body           string           `json:"body"`
	MediaURL       string           `json:"media_url,omitempty"`
	ReactionCounts map[string]int64 `json:"reaction_counts,omitempty"`
	CommentCount   int64            `json:"comment_count"`
	CreatedAt      time.Time        `json:"created_at"`
}

// Comment is a reply attached to a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
