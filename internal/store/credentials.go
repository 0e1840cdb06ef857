// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package store

import (
	"context"

	"github.com/dgraph-io/badger/v4"
)

// Credentials is the stored login record for a handle. The hash is a
// bcrypt digest produced by the auth package; the store never sees
// plaintext passwords.
type Credentials struct {
	UserID       string `json:"user_id"`
	PasswordHash []byte `json:"password_hash"`
}

// SetCredentials stores the login record for a handle.
func (s *Store) SetCredentials(ctx context.Context, handle string, creds *Credentials) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return s.setJSON(txn, credKeyPrefix+handle, creds)
	})
}

// GetCredentials retrieves the login record for a handle.
func (s *Store) GetCredentials(ctx context.Context, handle string) (*Credentials, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	var creds Credentials
	err := s.db.View(func(txn *badger.Txn) error {
		return s.getJSON(txn, credKeyPrefix+handle, &creds)
	})
	if err != nil {
		return nil, err
	}
	return &creds, nil
}
