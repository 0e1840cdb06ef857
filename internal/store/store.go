// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

// Package store implements the Sociograph document store on BadgerDB.
//
// Documents are JSON values under typed key prefixes; secondary indexes are
// empty-valued keys whose prefix encodes the lookup dimension:
//
//	profile:<id>            Profile document
//	handle:<handle>         handle -> profile ID (uniqueness reservation)
//	cred:<handle>           login credentials
//	follow:<id>:<target>    follow edge, enumerated by owner prefix
//	follower:<id>:<src>     reverse follow edge
//	tag:<tag>:<id>          interest index
//	member:<cid>:<id>       community member index
//	community:<cid>         Community document
//	post:<pid>              Post document
//	postsby:<id>:<seq>      author timeline index (seq inverts time)
//	reaction:<pid>:<id>     reaction kind by reacting user
//	story:<id>:<sid>        Story document, expires via entry TTL
//
// The store exposes only the primitive operations the rest of the system
// needs: point lookup, batched point lookup (capped at MaxBatchSize),
// set-membership index queries with a result limit, and prefix enumeration
// of per-owner sub-collections. There are no cross-document transactions
// beyond single badger transactions and no schema migrations.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/sociograph/internal/logging"
)

// MaxBatchSize is the largest identity list a single batched point lookup
// accepts. Callers with more identities must chunk.
const MaxBatchSize = 10

// Key prefixes for BadgerDB storage.
const (
	profileKeyPrefix   = "profile:"
	handleKeyPrefix    = "handle:"
	credKeyPrefix      = "cred:"
	followKeyPrefix    = "follow:"
	followerKeyPrefix  = "follower:"
	tagKeyPrefix       = "tag:"
	memberKeyPrefix    = "member:"
	communityKeyPrefix = "community:"
	postKeyPrefix      = "post:"
	postsByKeyPrefix   = "postsby:"
	reactionKeyPrefix  = "reaction:"
	storyKeyPrefix     = "story:"
)

// Config holds store configuration.
type Config struct {
	// Dir is the on-disk location of the badger database.
	// Ignored when InMemory is set.
	Dir string

	// InMemory runs the store without persistence. Used by tests and
	// throwaway dev environments.
	InMemory bool

	// GCInterval is how often the value-log garbage collector runs.
	// Default: 10m
	GCInterval time.Duration

	// GCDiscardRatio is the badger discard ratio for value-log GC.
	// Default: 0.5
	GCDiscardRatio float64
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Dir:            "./data",
		GCInterval:     10 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// Store is the BadgerDB-backed document store. Safe for concurrent use.
type Store struct {
	db     *badger.DB
	cfg    Config
	logger zerolog.Logger
}

// Open opens (or creates) the store at cfg.Dir.
func Open(cfg Config) (*Store, error) {
	if cfg.GCInterval <= 0 {
		cfg.GCInterval = 10 * time.Minute
	}
	if cfg.GCDiscardRatio <= 0 {
		cfg.GCDiscardRatio = 0.5
	}

	opts := badger.DefaultOptions(cfg.Dir).WithLogger(nil)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", cfg.Dir, err)
	}

	s := &Store{
		db:     db,
		cfg:    cfg,
		logger: logging.With().Str("component", "store").Logger(),
	}
	s.logger.Info().Str("dir", cfg.Dir).Bool("in_memory", cfg.InMemory).Msg("store opened")
	return s, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close badger: %w", err)
	}
	return nil
}

// Ping verifies the database answers a read. Used by health probes.
func (s *Store) Ping(ctx context.Context) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	return s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte("health:ping"))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
}

// RunGC runs one round of value-log garbage collection. Returns badger's
// ErrNoRewrite (wrapped) when there was nothing to collect; callers treat
// that as a clean no-op.
func (s *Store) RunGC() error {
	if s.cfg.InMemory {
		return nil
	}
	return s.db.RunValueLogGC(s.cfg.GCDiscardRatio)
}

// GCInterval exposes the configured GC cadence for the supervised GC service.
func (s *Store) GCInterval() time.Duration {
	return s.cfg.GCInterval
}

// getJSON reads a key and unmarshals its value into out.
// Returns ErrNotFound when the key does not exist.
func (s *Store) getJSON(txn *badger.Txn, key string, out interface{}) error {
	item, err := txn.Get([]byte(key))
	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %q: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, out)
	})
}

// setJSON marshals v and writes it under key.
func (s *Store) setJSON(txn *badger.Txn, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	if err := txn.Set([]byte(key), data); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// keysWithPrefix collects the suffix of every key under prefix, stopping at
// limit when limit > 0. Keys come back in badger's byte order.
func (s *Store) keysWithPrefix(txn *badger.Txn, prefix string, limit int) []string {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(prefix)

	it := txn.NewIterator(opts)
	defer it.Close()

	var out []string
	for it.Rewind(); it.Valid(); it.Next() {
		if limit > 0 && len(out) >= limit {
			break
		}
		key := string(it.Item().Key())
		out = append(out, key[len(prefix):])
	}
	return out
}

// checkCtx returns the context error, if any. Badger calls are synchronous,
// so cancellation is honored at operation boundaries.
func checkCtx(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("store operation aborted: %w", err)
	}
	return nil
}
