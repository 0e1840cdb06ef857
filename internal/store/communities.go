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

// CreateCommunity stores a new community and enrolls the owner as its
// first member.
func (s *Store) CreateCommunity(ctx context.Context, c *models.Community) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}

	c.CreatedAt = time.Now().UTC()
	c.MemberCount = 1

	return s.db.Update(func(txn *badger.Txn) error {
		var owner models.Profile
		if err := s.getJSON(txn, profileKeyPrefix+c.OwnerID, &owner); err != nil {
			return fmt.Errorf("load owner: %w", err)
		}

		if err := s.setJSON(txn, communityKeyPrefix+c.ID, c); err != nil {
			return err
		}
		if err := txn.Set([]byte(memberKeyPrefix+c.ID+":"+c.OwnerID), nil); err != nil {
			return fmt.Errorf("index owner membership: %w", err)
		}

		owner.Communities = append(owner.Communities, c.ID)
		owner.UpdatedAt = time.Now().UTC()
		return s.setJSON(txn, profileKeyPrefix+c.OwnerID, &owner)
	})
}

// GetCommunity point-looks-up a community document.
func (s *Store) GetCommunity(ctx context.Context, id string) (*models.Community, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	var c models.Community
	err := s.db.View(func(txn *badger.Txn) error {
		return s.getJSON(txn, communityKeyPrefix+id, &c)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// JoinCommunity adds userID to the community, maintaining the member index,
// the member counter, and the membership list on the profile document.
func (s *Store) JoinCommunity(ctx context.Context, communityID, userID string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		memberKey := []byte(memberKeyPrefix + communityID + ":" + userID)
		if _, err := txn.Get(memberKey); err == nil {
			return ErrAlreadyMember
		} else if err != badger.ErrKeyNotFound {
			return fmt.Errorf("check membership: %w", err)
		}

		var c models.Community
		if err := s.getJSON(txn, communityKeyPrefix+communityID, &c); err != nil {
			return err
		}
		var p models.Profile
		if err := s.getJSON(txn, profileKeyPrefix+userID, &p); err != nil {
			return err
		}

		if err := txn.Set(memberKey, nil); err != nil {
			return fmt.Errorf("index membership: %w", err)
		}

		c.MemberCount++
		if err := s.setJSON(txn, communityKeyPrefix+communityID, &c); err != nil {
			return err
		}

		p.Communities = append(p.Communities, communityID)
		p.UpdatedAt = time.Now().UTC()
		return s.setJSON(txn, profileKeyPrefix+userID, &p)
	})
}

// LeaveCommunity removes userID from the community.
func (s *Store) LeaveCommunity(ctx context.Context, communityID, userID string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		memberKey := []byte(memberKeyPrefix + communityID + ":" + userID)
		if _, err := txn.Get(memberKey); err == badger.ErrKeyNotFound {
			return ErrNotMember
		} else if err != nil {
			return fmt.Errorf("check membership: %w", err)
		}

		var c models.Community
		if err := s.getJSON(txn, communityKeyPrefix+communityID, &c); err != nil {
			return err
		}
		var p models.Profile
		if err := s.getJSON(txn, profileKeyPrefix+userID, &p); err != nil {
			return err
		}

		if err := txn.Delete(memberKey); err != nil {
			return fmt.Errorf("unindex membership: %w", err)
		}

		if c.MemberCount > 0 {
			c.MemberCount--
		}
		if err := s.setJSON(txn, communityKeyPrefix+communityID, &c); err != nil {
			return err
		}

		kept := p.Communities[:0]
		for _, id := range p.Communities {
			if id != communityID {
				kept = append(kept, id)
			}
		}
		p.Communities = kept
		p.UpdatedAt = time.Now().UTC()
		return s.setJSON(txn, profileKeyPrefix+userID, &p)
	})
}

// CommunityMembers enumerates member identities of a community.
func (s *Store) CommunityMembers(ctx context.Context, communityID string, limit int) ([]string, error) {
	return s.enumerateEdges(ctx, memberKeyPrefix+communityID+":", limit)
}
