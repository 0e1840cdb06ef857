// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/sociograph/internal/models"
)

// StoryTTL is how long a story stays visible. Expiry is enforced by badger
// entry TTL; expired stories vanish from reads without an application sweep.
const StoryTTL = 24 * time.Hour

// CreateStory stores a story with the standard TTL.
func (s *Store) CreateStory(ctx context.Context, st *models.Story) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}

	now := time.Now().UTC()
	st.CreatedAt = now
	st.ExpiresAt = now.Add(StoryTTL)

	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal story: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(profileKeyPrefix + st.AuthorID)); err == badger.ErrKeyNotFound {
			return ErrNotFound
		} else if err != nil {
			return fmt.Errorf("load author: %w", err)
		}

		key := []byte(storyKeyPrefix + st.AuthorID + ":" + st.ID)
		entry := badger.NewEntry(key, data).WithTTL(StoryTTL)
		if err := txn.SetEntry(entry); err != nil {
			return fmt.Errorf("set story: %w", err)
		}
		return nil
	})
}

// ListStories returns the author's unexpired stories.
func (s *Store) ListStories(ctx context.Context, authorID string) ([]*models.Story, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	var out []*models.Story
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(storyKeyPrefix + authorID + ":")

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var st models.Story
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &st)
			}); err != nil {
				return err
			}
			out = append(out, &st)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
