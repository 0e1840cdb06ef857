// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestNewHasherBounds(t *testing.T) {
	if _, err := NewHasher(bcrypt.MinCost - 2); err == nil {
		t.Error("expected error below min cost")
	}
	if _, err := NewHasher(bcrypt.MaxCost + 1); err == nil {
		t.Error("expected error above max cost")
	}
	if _, err := NewHasher(bcrypt.MinCost); err != nil {
		t.Errorf("min cost rejected: %v", err)
	}
}

func TestHashAndCompare(t *testing.T) {
	h, err := NewHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("new hasher: %v", err)
	}

	hash, err := h.Hash("correct horse battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := h.Compare(hash, "correct horse battery"); err != nil {
		t.Errorf("matching password rejected: %v", err)
	}

	err = h.Compare(hash, "wrong password!")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("mismatch error = %v, want ErrInvalidCredentials", err)
	}
}

func TestHashRejectsBadLengths(t *testing.T) {
	h, err := NewHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("new hasher: %v", err)
	}

	if _, err := h.Hash("short"); err == nil {
		t.Error("expected error for password under minimum length")
	}
	if _, err := h.Hash(strings.Repeat("x", 73)); err == nil {
		t.Error("expected error for password over bcrypt's 72-byte limit")
	}
}
