// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package store

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/sociograph/internal/models"
)

// Follow creates a follow edge from followerID to targetID and maintains
// the denormalized counters on both profiles in the same transaction.
func (s *Store) Follow(ctx context.Context, followerID, targetID string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if followerID == targetID {
		return ErrSelfFollow
	}

	return s.db.Update(func(txn *badger.Txn) error {
		edgeKey := []byte(followKeyPrefix + followerID + ":" + targetID)
		if _, err := txn.Get(edgeKey); err == nil {
			return ErrAlreadyFollowing
		} else if err != badger.ErrKeyNotFound {
			return fmt.Errorf("check edge: %w", err)
		}

		var follower, target models.Profile
		if err := s.getJSON(txn, profileKeyPrefix+followerID, &follower); err != nil {
			return fmt.Errorf("load follower: %w", err)
		}
		if err := s.getJSON(txn, profileKeyPrefix+targetID, &target); err != nil {
			return fmt.Errorf("load target: %w", err)
		}

		if err := txn.Set(edgeKey, nil); err != nil {
			return fmt.Errorf("set edge: %w", err)
		}
		reverseKey := []byte(followerKeyPrefix + targetID + ":" + followerID)
		if err := txn.Set(reverseKey, nil); err != nil {
			return fmt.Errorf("set reverse edge: %w", err)
		}

		follower.FollowingCount++
		target.FollowerCount++
		if err := s.setJSON(txn, profileKeyPrefix+followerID, &follower); err != nil {
			return err
		}
		return s.setJSON(txn, profileKeyPrefix+targetID, &target)
	})
}

// Unfollow removes the follow edge and decrements the counters.
func (s *Store) Unfollow(ctx context.Context, followerID, targetID string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		edgeKey := []byte(followKeyPrefix + followerID + ":" + targetID)
		if _, err := txn.Get(edgeKey); err == badger.ErrKeyNotFound {
			return ErrNotFollowing
		} else if err != nil {
			return fmt.Errorf("check edge: %w", err)
		}

		var follower, target models.Profile
		if err := s.getJSON(txn, profileKeyPrefix+followerID, &follower); err != nil {
			return fmt.Errorf("load follower: %w", err)
		}
		if err := s.getJSON(txn, profileKeyPrefix+targetID, &target); err != nil {
			return fmt.Errorf("load target: %w", err)
		}

		if err := txn.Delete(edgeKey); err != nil {
			return fmt.Errorf("delete edge: %w", err)
		}
		reverseKey := []byte(followerKeyPrefix + targetID + ":" + followerID)
		if err := txn.Delete(reverseKey); err != nil {
			return fmt.Errorf("delete reverse edge: %w", err)
		}

		if follower.FollowingCount > 0 {
			follower.FollowingCount--
		}
		if target.FollowerCount > 0 {
			target.FollowerCount--
		}
		if err := s.setJSON(txn, profileKeyPrefix+followerID, &follower); err != nil {
			return err
		}
		return s.setJSON(txn, profileKeyPrefix+targetID, &target)
	})
}

// Following enumerates the identities that id follows, in key order.
// limit <= 0 means the full, exhaustive list; a positive limit caps the
// enumeration.
func (s *Store) Following(ctx context.Context, id string, limit int) ([]string, error) {
	return s.enumerateEdges(ctx, followKeyPrefix+id+":", limit)
}

// Followers enumerates the identities following id.
func (s *Store) Followers(ctx context.Context, id string, limit int) ([]string, error) {
	return s.enumerateEdges(ctx, followerKeyPrefix+id+":", limit)
}

// IsFollowing reports whether the follow edge exists.
func (s *Store) IsFollowing(ctx context.Context, followerID, targetID string) (bool, error) {
	if err := checkCtx(ctx); err != nil {
		return false, err
	}

	var exists bool
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(followKeyPrefix + followerID + ":" + targetID))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return fmt.Errorf("check edge: %w", err)
		}
		exists = true
		return nil
	})
	return exists, err
}

func (s *Store) enumerateEdges(ctx context.Context, prefix string, limit int) ([]string, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	var out []string
	err := s.db.View(func(txn *badger.Txn) error {
		out = s.keysWithPrefix(txn, prefix, limit)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
