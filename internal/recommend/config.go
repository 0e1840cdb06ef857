// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package recommend

import (
	"fmt"
	"time"
)

// Weights holds the scoring term weights. They are hand-tuned constants
// exposed as configuration so they can be adjusted without code changes.
type Weights struct {
	// Social is the flat bonus for being reachable as a two-hop social
	// connection. Applied at most once per candidate.
	Social float64 `json:"social" koanf:"social"`

	// Interest is the per-shared-tag weight.
	Interest float64 `json:"interest" koanf:"interest"`

	// Community is the per-shared-community weight.
	Community float64 `json:"community" koanf:"community"`

	// Status is the flat bonus for an exact relationship-status match.
	Status float64 `json:"status" koanf:"status"`

	// Popularity is the weight per decade of followers (log10 scale).
	Popularity float64 `json:"popularity" koanf:"popularity"`
}

// DefaultWeights returns the tuned production weights.
func DefaultWeights() Weights {
	return Weights{
		Social:     40,
		Interest:   20,
		Community:  25,
		Status:     10,
		Popularity: 10,
	}
}

// Limits bounds retrieval fan-out and output size.
type Limits struct {
	// Hop1Limit caps how many first-degree followees are considered.
	Hop1Limit int `json:"hop1_limit" koanf:"hop1_limit"`

	// SampleSize is how many hop-1 followees are randomly sampled for
	// hop-2 expansion.
	SampleSize int `json:"sample_size" koanf:"sample_size"`

	// Hop2PerUser caps followees fetched per sampled hop-1 identity.
	Hop2PerUser int `json:"hop2_per_user" koanf:"hop2_per_user"`

	// Hop2Cap caps the unioned hop-2 identity set before hydration.
	Hop2Cap int `json:"hop2_cap" koanf:"hop2_cap"`

	// ProfileBatchSize is the store's batched-lookup ceiling; hydration
	// requests are chunked to this size.
	ProfileBatchSize int `json:"profile_batch_size" koanf:"profile_batch_size"`

	// TagQueryLimit caps how many of the requester's tags are queried.
	TagQueryLimit int `json:"tag_query_limit" koanf:"tag_query_limit"`

	// InterestResultLimit caps interest-graph results.
	InterestResultLimit int `json:"interest_result_limit" koanf:"interest_result_limit"`

	// CommunityQueryLimit caps how many communities are queried.
	CommunityQueryLimit int `json:"community_query_limit" koanf:"community_query_limit"`

	// CommunityResultLimit caps community-graph results.
	CommunityResultLimit int `json:"community_result_limit" koanf:"community_result_limit"`

	// MaxResults is the ranked output size.
	MaxResults int `json:"max_results" koanf:"max_results"`
}

// DefaultLimits returns production fan-out bounds.
func DefaultLimits() Limits {
	return Limits{
		Hop1Limit:            50,
		SampleSize:           5,
		Hop2PerUser:          10,
		Hop2Cap:              30,
		ProfileBatchSize:     10,
		TagQueryLimit:        10,
		InterestResultLimit:  20,
		CommunityQueryLimit:  10,
		CommunityResultLimit: 20,
		MaxResults:           20,
	}
}

// Config holds engine configuration.
type Config struct {
	Weights Weights `json:"weights" koanf:"weights"`
	Limits  Limits  `json:"limits" koanf:"limits"`

	// BranchTimeout bounds each retrieval branch. A timed-out soft branch
	// reads as an empty contribution; a timed-out exclusion fetch fails
	// the request.
	BranchTimeout time.Duration `json:"branch_timeout" koanf:"branch_timeout"`

	// Seed seeds the sampling random source. Zero selects a time-based
	// seed; tests pin a value for reproducibility.
	Seed int64 `json:"seed" koanf:"seed"`

	// BreakerFailureThreshold is how many consecutive branch failures trip
	// the branch circuit breaker.
	BreakerFailureThreshold uint32 `json:"breaker_failure_threshold" koanf:"breaker_failure_threshold"`

	// BreakerCooldown is how long a tripped breaker stays open.
	BreakerCooldown time.Duration `json:"breaker_cooldown" koanf:"breaker_cooldown"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Weights:                 DefaultWeights(),
		Limits:                  DefaultLimits(),
		BranchTimeout:           5 * time.Second,
		BreakerFailureThreshold: 5,
		BreakerCooldown:         30 * time.Second,
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Weights.Social < 0 || c.Weights.Interest < 0 || c.Weights.Community < 0 ||
		c.Weights.Status < 0 || c.Weights.Popularity < 0 {
		return fmt.Errorf("weights must be non-negative: %+v", c.Weights)
	}
	if c.Limits.Hop1Limit <= 0 {
		return fmt.Errorf("hop1_limit must be positive, got %d", c.Limits.Hop1Limit)
	}
	if c.Limits.SampleSize <= 0 {
		return fmt.Errorf("sample_size must be positive, got %d", c.Limits.SampleSize)
	}
	if c.Limits.Hop2PerUser <= 0 {
		return fmt.Errorf("hop2_per_user must be positive, got %d", c.Limits.Hop2PerUser)
	}
	if c.Limits.Hop2Cap <= 0 {
		return fmt.Errorf("hop2_cap must be positive, got %d", c.Limits.Hop2Cap)
	}
	if c.Limits.ProfileBatchSize <= 0 {
		return fmt.Errorf("profile_batch_size must be positive, got %d", c.Limits.ProfileBatchSize)
	}
	if c.Limits.MaxResults <= 0 {
		return fmt.Errorf("max_results must be positive, got %d", c.Limits.MaxResults)
	}
	if c.BranchTimeout <= 0 {
		return fmt.Errorf("branch_timeout must be positive, got %s", c.BranchTimeout)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
