// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package services

import (
	"context"
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/sociograph/internal/metrics"
)

// GarbageCollector is the subset of *store.Store the GC service needs.
type GarbageCollector interface {
	RunGC() error
	GCInterval() time.Duration
}

// GCService periodically runs badger value-log garbage collection.
// Badger never reclaims value-log space on its own; something has to
// call RunValueLogGC on a timer.
type GCService struct {
	store  GarbageCollector
	logger zerolog.Logger
}

// NewGCService creates a GC service around the store.
func NewGCService(store GarbageCollector, logger zerolog.Logger) *GCService {
	return &GCService{
		store:  store,
		logger: logger.With().Str("service", "store-gc").Logger(),
	}
}

// Serve runs GC passes on the store's configured interval until ctx is
// cancelled. GC errors are logged, not returned: a failed pass should
// not crash-loop the service.
func (s *GCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.store.GCInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *GCService) runOnce() {
	start := time.Now()
	err := s.store.RunGC()
	metrics.StoreGCRuns.Inc()

	switch {
	case err == nil:
		s.logger.Debug().Dur("elapsed", time.Since(start)).Msg("GC pass reclaimed space")
	case errors.Is(err, badger.ErrNoRewrite):
		// Nothing worth rewriting this pass.
		s.logger.Debug().Msg("GC pass found nothing to reclaim")
	default:
		s.logger.Warn().Err(err).Msg("GC pass failed")
	}
}

// String names the service in supervisor logs.
func (s *GCService) String() string {
	return "store-gc"
}
