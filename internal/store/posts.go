// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package store

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/sociograph/internal/models"
)

// CreatePost stores a post and indexes it on the author's timeline.
func (s *Store) CreatePost(ctx context.Context, p *models.Post) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}

	p.CreatedAt = time.Now().UTC()
	if p.ReactionCounts == nil {
		p.ReactionCounts = make(map[string]int64)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		var author models.Profile
		if err := s.getJSON(txn, profileKeyPrefix+p.AuthorID, &author); err != nil {
			return fmt.Errorf("load author: %w", err)
		}

		if err := s.setJSON(txn, postKeyPrefix+p.ID, p); err != nil {
			return err
		}
		// Inverted sequence keeps the newest post first in key order.
		seq := fmt.Sprintf("%020d", math.MaxInt64-p.CreatedAt.UnixNano())
		timelineKey := []byte(postsByKeyPrefix + p.AuthorID + ":" + seq + ":" + p.ID)
		if err := txn.Set(timelineKey, nil); err != nil {
			return fmt.Errorf("index timeline: %w", err)
		}
		return nil
	})
}

// GetPost point-looks-up a post document.
func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	var p models.Post
	err := s.db.View(func(txn *badger.Txn) error {
		return s.getJSON(txn, postKeyPrefix+id, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePost removes a post, its timeline index entry, and its reactions.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		var p models.Post
		if err := s.getJSON(txn, postKeyPrefix+id, &p); err != nil {
			return err
		}

		if err := txn.Delete([]byte(postKeyPrefix + id)); err != nil {
			return fmt.Errorf("delete post: %w", err)
		}

		for _, suffix := range s.keysWithPrefix(txn, postsByKeyPrefix+p.AuthorID+":", 0) {
			if strings.HasSuffix(suffix, ":"+id) {
				key := []byte(postsByKeyPrefix + p.AuthorID + ":" + suffix)
				if err := txn.Delete(key); err != nil {
					return fmt.Errorf("unindex timeline: %w", err)
				}
			}
		}
		for _, uid := range s.keysWithPrefix(txn, reactionKeyPrefix+id+":", 0) {
			if err := txn.Delete([]byte(reactionKeyPrefix + id + ":" + uid)); err != nil {
				return fmt.Errorf("delete reaction: %w", err)
			}
		}
		return nil
	})
}

// ListPostsByAuthor returns the author's posts, newest first.
func (s *Store) ListPostsByAuthor(ctx context.Context, authorID string, limit int) ([]*models.Post, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	var out []*models.Post
	err := s.db.View(func(txn *badger.Txn) error {
		for _, suffix := range s.keysWithPrefix(txn, postsByKeyPrefix+authorID+":", limit) {
			i := strings.LastIndex(suffix, ":")
			if i < 0 {
				continue
			}
			var p models.Post
			err := s.getJSON(txn, postKeyPrefix+suffix[i+1:], &p)
			if err == ErrNotFound {
				continue
			}
			if err != nil {
				return err
			}
			out = append(out, &p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// React records userID's reaction on a post, replacing any previous
// reaction by the same user, and maintains the per-kind counters.
func (s *Store) React(ctx context.Context, postID, userID, kind string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		var p models.Post
		if err := s.getJSON(txn, postKeyPrefix+postID, &p); err != nil {
			return err
		}
		if p.ReactionCounts == nil {
			p.ReactionCounts = make(map[string]int64)
		}

		reactionKey := []byte(reactionKeyPrefix + postID + ":" + userID)
		item, err := txn.Get(reactionKey)
		if err == nil {
			var previous string
			if err := item.Value(func(val []byte) error {
				previous = string(val)
				return nil
			}); err != nil {
				return err
			}
			if previous == kind {
				return nil
			}
			if p.ReactionCounts[previous] > 0 {
				p.ReactionCounts[previous]--
			}
		} else if err != badger.ErrKeyNotFound {
			return fmt.Errorf("check reaction: %w", err)
		}

		if err := txn.Set(reactionKey, []byte(kind)); err != nil {
			return fmt.Errorf("set reaction: %w", err)
		}
		p.ReactionCounts[kind]++
		return s.setJSON(txn, postKeyPrefix+postID, &p)
	})
}

// Unreact removes userID's reaction from a post, if any.
func (s *Store) Unreact(ctx context.Context, postID, userID string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		var p models.Post
		if err := s.getJSON(txn, postKeyPrefix+postID, &p); err != nil {
			return err
		}

		reactionKey := []byte(reactionKeyPrefix + postID + ":" + userID)
		item, err := txn.Get(reactionKey)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return fmt.Errorf("check reaction: %w", err)
		}

		var kind string
		if err := item.Value(func(val []byte) error {
			kind = string(val)
			return nil
		}); err != nil {
			return err
		}

		if err := txn.Delete(reactionKey); err != nil {
			return fmt.Errorf("delete reaction: %w", err)
		}
		if p.ReactionCounts[kind] > 0 {
			p.ReactionCounts[kind]--
		}
		return s.setJSON(txn, postKeyPrefix+postID, &p)
	})
}
