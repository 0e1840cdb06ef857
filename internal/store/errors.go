// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package store

import "errors"

// Sentinel errors returned by store operations.
var (
	// ErrNotFound indicates the requested document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrHandleTaken indicates the requested handle is already reserved.
	ErrHandleTaken = errors.New("handle already taken")

	// ErrBatchTooLarge indicates a batched lookup exceeded MaxBatchSize.
	ErrBatchTooLarge = errors.New("batch exceeds maximum size")

	// ErrAlreadyFollowing indicates the follow edge already exists.
	ErrAlreadyFollowing = errors.New("already following")

	// ErrNotFollowing indicates the follow edge does not exist.
	ErrNotFollowing = errors.New("not following")

	// ErrSelfFollow indicates an attempt to follow one's own identity.
	ErrSelfFollow = errors.New("cannot follow self")

	// ErrAlreadyMember indicates the user already belongs to the community.
	ErrAlreadyMember = errors.New("already a member")

	// ErrNotMember indicates the user does not belong to the community.
	ErrNotMember = errors.New("not a member")
)
