// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/sociograph/internal/metrics"
)

// Sweeper is the subset of *ratelimit.Limiter the sweeper service needs.
type Sweeper interface {
	Sweep() int
	Len() int
}

// SweeperService periodically evicts idle rate limiter entries so the
// per-identity bucket map does not grow without bound.
type SweeperService struct {
	limiter  Sweeper
	interval time.Duration
	logger   zerolog.Logger
}

// NewSweeperService creates a sweeper running on the given interval.
func NewSweeperService(limiter Sweeper, interval time.Duration, logger zerolog.Logger) *SweeperService {
	return &SweeperService{
		limiter:  limiter,
		interval: interval,
		logger:   logger.With().Str("service", "limiter-sweep").Logger(),
	}
}

// Serve sweeps until ctx is cancelled.
func (s *SweeperService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			evicted := s.limiter.Sweep()
			remaining := s.limiter.Len()
			metrics.RateLimiterEvictions.Add(float64(evicted))
			metrics.RateLimiterEntries.Set(float64(remaining))
			if evicted > 0 {
				s.logger.Debug().Int("evicted", evicted).Int("remaining", remaining).Msg("swept idle limiter entries")
			}
		}
	}
}

// String names the service in supervisor logs.
func (s *SweeperService) String() string {
	return "limiter-sweep"
}
