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

	"github.com/tomtom215/sociograph/internal/models"
)

// CreateProfile stores a new profile and reserves its handle.
// Returns ErrHandleTaken when the handle is already reserved.
func (s *Store) CreateProfile(ctx context.Context, p *models.Profile) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	return s.db.Update(func(txn *badger.Txn) error {
		handleKey := []byte(handleKeyPrefix + p.Handle)
		if _, err := txn.Get(handleKey); err == nil {
			return ErrHandleTaken
		} else if err != badger.ErrKeyNotFound {
			return fmt.Errorf("check handle: %w", err)
		}

		if err := txn.Set(handleKey, []byte(p.ID)); err != nil {
			return fmt.Errorf("reserve handle: %w", err)
		}
		if err := s.setJSON(txn, profileKeyPrefix+p.ID, p); err != nil {
			return err
		}
		return s.writeTagIndex(txn, p.ID, nil, p.Tags)
	})
}

// GetProfile point-looks-up a profile by identity.
func (s *Store) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	var p models.Profile
	err := s.db.View(func(txn *badger.Txn) error {
		return s.getJSON(txn, profileKeyPrefix+id, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProfiles batch-looks-up profiles by identity. The batch is capped at
// MaxBatchSize; larger lists return ErrBatchTooLarge and callers must chunk.
// Identities with no profile document are silently skipped, so the result
// may be shorter than the input.
func (s *Store) GetProfiles(ctx context.Context, ids []string) ([]*models.Profile, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	if len(ids) > MaxBatchSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(ids), MaxBatchSize)
	}

	out := make([]*models.Profile, 0, len(ids))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			var p models.Profile
			err := s.getJSON(txn, profileKeyPrefix+id, &p)
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

// GetProfileByHandle resolves a handle to its profile.
func (s *Store) GetProfileByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	var p models.Profile
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(handleKeyPrefix + handle))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("resolve handle: %w", err)
		}
		var id string
		if err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		}); err != nil {
			return err
		}
		return s.getJSON(txn, profileKeyPrefix+id, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile rewrites the mutable profile fields and keeps the tag index
// in sync. Handle and counters are not updatable through this path.
func (s *Store) UpdateProfile(ctx context.Context, id string, update func(*models.Profile)) (*models.Profile, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	var p models.Profile
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := s.getJSON(txn, profileKeyPrefix+id, &p); err != nil {
			return err
		}

		oldTags := p.Tags
		update(&p)
		p.UpdatedAt = time.Now().UTC()

		if err := s.writeTagIndex(txn, id, oldTags, p.Tags); err != nil {
			return err
		}
		return s.setJSON(txn, profileKeyPrefix+id, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// writeTagIndex replaces tag index entries for a profile.
func (s *Store) writeTagIndex(txn *badger.Txn, id string, oldTags, newTags []string) error {
	removed := make(map[string]bool, len(oldTags))
	for _, t := range oldTags {
		removed[t] = true
	}
	for _, t := range newTags {
		if removed[t] {
			delete(removed, t)
			continue
		}
		if err := txn.Set([]byte(tagKeyPrefix+t+":"+id), nil); err != nil {
			return fmt.Errorf("index tag %q: %w", t, err)
		}
	}
	for t := range removed {
		if err := txn.Delete([]byte(tagKeyPrefix + t + ":" + id)); err != nil {
			return fmt.Errorf("unindex tag %q: %w", t, err)
		}
	}
	return nil
}

// FindByTags returns profiles whose tag set intersects any of the given
// tags, up to limit results. Tag matching is exact and case-sensitive.
// The result may include the querying user; callers filter.
func (s *Store) FindByTags(ctx context.Context, tags []string, limit int) ([]*models.Profile, error) {
	return s.findByIndex(ctx, tagKeyPrefix, tags, limit)
}

// FindByCommunities returns profiles belonging to any of the given
// communities, up to limit results.
func (s *Store) FindByCommunities(ctx context.Context, communityIDs []string, limit int) ([]*models.Profile, error) {
	return s.findByIndex(ctx, memberKeyPrefix, communityIDs, limit)
}

// findByIndex walks one secondary index prefix per value, deduplicating
// identities across values, then hydrates profiles.
func (s *Store) findByIndex(ctx context.Context, prefix string, values []string, limit int) ([]*models.Profile, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}

	var out []*models.Profile
	err := s.db.View(func(txn *badger.Txn) error {
		seen := make(map[string]bool)
		for _, v := range values {
			for _, id := range s.keysWithPrefix(txn, prefix+v+":", 0) {
				if seen[id] {
					continue
				}
				seen[id] = true

				var p models.Profile
				err := s.getJSON(txn, profileKeyPrefix+id, &p)
				if err == ErrNotFound {
					// Stale index entry; skip.
					continue
				}
				if err != nil {
					return err
				}
				out = append(out, &p)
				if limit > 0 && len(out) >= limit {
					return nil
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
