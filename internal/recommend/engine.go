// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package recommend

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/sociograph/internal/models"
)

// Branch names used for breakers, logs, and failure metadata.
const (
	branchSocial    = "social"
	branchInterest  = "interest"
	branchCommunity = "community"
)

// Engine computes "people you may know" recommendations.
// It is safe for concurrent use.
type Engine struct {
	config   *Config
	provider DataProvider
	logger   zerolog.Logger

	// Random source for hop-1 sampling (protected by rngMu).
	rng   *rand.Rand
	rngMu sync.Mutex

	// One breaker per soft retrieval branch. An open breaker reads as a
	// soft failure, keeping a flapping store from slowing every request.
	breakers map[string]*gobreaker.CircuitBreaker[[]*models.Profile]
}

// NewEngine creates a recommendation engine.
//
///nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, provider DataProvider, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("data provider is required")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e := &Engine{
		config:   cfg,
		provider: provider,
		logger:   logger.With().Str("component", "recommend").Logger(),
		rng:      rand.New(rand.NewSource(seed)), //nolint:gosec // sampling, not crypto
		breakers: make(map[string]*gobreaker.CircuitBreaker[[]*models.Profile], 3),
	}

	for _, name := range []string{branchSocial, branchInterest, branchCommunity} {
		e.breakers[name] = e.newBranchBreaker(name)
	}
	return e, nil
}

// newBranchBreaker builds the circuit breaker guarding one soft branch.
func (e *Engine) newBranchBreaker(name string) *gobreaker.CircuitBreaker[[]*models.Profile] {
	threshold := e.config.BreakerFailureThreshold
	return gobreaker.NewCircuitBreaker[[]*models.Profile](gobreaker.Settings{
		Name:    "recommend-" + name,
		Timeout: e.config.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(cbName string, from, to gobreaker.State) {
			e.logger.Warn().
				Str("breaker", cbName).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("retrieval breaker state change")
		},
	})
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// branchResult is one concurrent retrieval branch's local output. Each
// branch writes only its own struct; results are read after the join.
type branchResult struct {
	profiles []*models.Profile
	failed   bool
}

// Recommend computes a ranked recommendation list for requesterID.
//
// The requester profile is loaded first; a missing profile is fatal.
// The three retrieval branches and the exclusion-set fetch then run
// concurrently. Retrieval branches fail soft; an exclusion failure
// aborts the request (spilling already-followed users into the output
// would be worse than failing).
func (e *Engine) Recommend(ctx context.Context, requesterID string) (*Response, error) {
	start := time.Now()
	logger := e.logger.With().Str("requester", requesterID).Logger()

	requester, err := e.provider.GetProfile(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("load requester profile: %w", err)
	}

	var (
		social, interest, community branchResult
		following                   []string
		exclusionErr                error
		wg                          sync.WaitGroup
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		social = e.runSoftBranch(ctx, branchSocial, func(ctx context.Context) ([]*models.Profile, error) {
			return e.sampleSocialGraph(ctx, requester)
		})
	}()
	go func() {
		defer wg.Done()
		interest = e.runSoftBranch(ctx, branchInterest, func(ctx context.Context) ([]*models.Profile, error) {
			return e.retrieveByInterests(ctx, requester)
		})
	}()
	go func() {
		defer wg.Done()
		community = e.runSoftBranch(ctx, branchCommunity, func(ctx context.Context) ([]*models.Profile, error) {
			return e.retrieveByCommunities(ctx, requester)
		})
	}()
	go func() {
		defer wg.Done()
		branchCtx, cancel := context.WithTimeout(ctx, e.config.BranchTimeout)
		defer cancel()
		// Exhaustive, uncapped: a partial exclusion set would let the
		// engine recommend someone already followed.
		following, exclusionErr = e.provider.Following(branchCtx, requesterID, 0)
	}()
	wg.Wait()

	if exclusionErr != nil {
		return nil, fmt.Errorf("fetch exclusion set: %w", exclusionErr)
	}

	exclusion := make(map[string]struct{}, len(following)+1)
	exclusion[requesterID] = struct{}{}
	for _, id := range following {
		exclusion[id] = struct{}{}
	}

	candidates := mergeCandidates(social.profiles, interest.profiles, community.profiles, exclusion)
	scored := e.scoreCandidates(requester, candidates, social.profiles)
	ranked := e.rank(scored)

	logger.Debug().
		Int("social", len(social.profiles)).
		Int("interest", len(interest.profiles)).
		Int("community", len(community.profiles)).
		Int("excluded", len(exclusion)).
		Int("returned", len(ranked)).
		Dur("elapsed", time.Since(start)).
		Msg("recommendation complete")

	return &Response{
		Recommendations: ranked,
		TotalCandidates: len(candidates),
		Metadata: ResponseMetadata{
			RequesterID:     requesterID,
			LatencyMS:       time.Since(start).Milliseconds(),
			SocialFailed:    social.failed,
			InterestFailed:  interest.failed,
			CommunityFailed: community.failed,
			Timestamp:       time.Now(),
		},
	}, nil
}

// runSoftBranch executes one retrieval branch behind its timeout and
// circuit breaker. Every failure mode, including a recovered panic, an
// open breaker, or a timeout, converts to an empty contribution.
func (e *Engine) runSoftBranch(ctx context.Context, name string, fn func(context.Context) ([]*models.Profile, error)) (result branchResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().
				Str("branch", name).
				Interface("panic", r).
				Msg("retrieval branch panicked")
			result = branchResult{failed: true}
		}
	}()

	branchCtx, cancel := context.WithTimeout(ctx, e.config.BranchTimeout)
	defer cancel()

	profiles, err := e.breakers[name].Execute(func() ([]*models.Profile, error) {
		return fn(branchCtx)
	})
	if err != nil {
		e.logger.Warn().
			Str("branch", name).
			Err(err).
			Msg("retrieval branch failed, continuing with partial pool")
		return branchResult{failed: true}
	}
	return branchResult{profiles: profiles}
}

// mergeCandidates unions the branch outputs in the order social, interest,
// community, deduplicating by identity (first-seen profile snapshot wins)
// and dropping everything in the exclusion set. Output order is first-seen
// order, deterministic given the branch outputs.
func mergeCandidates(social, interest, community []*models.Profile, exclusion map[string]struct{}) []*Candidate {
	byID := make(map[string]*Candidate)
	var order []string

	insert := func(profiles []*models.Profile, mark func(*Candidate)) {
		for _, p := range profiles {
			c, ok := byID[p.ID]
			if !ok {
				c = &Candidate{Profile: p}
				byID[p.ID] = c
				order = append(order, p.ID)
			}
			mark(c)
		}
	}

	insert(social, func(c *Candidate) { c.ViaSocial = true })
	insert(interest, func(c *Candidate) { c.ViaInterest = true })
	insert(community, func(c *Candidate) { c.ViaCommunity = true })

	out := make([]*Candidate, 0, len(order))
	for _, id := range order {
		if _, excluded := exclusion[id]; excluded {
			continue
		}
		out = append(out, byID[id])
	}
	return out
}

// rank sorts by score descending with an explicit identity tie-break so
// equal-score orderings do not depend on sort internals, then truncates
// to the configured output size.
func (e *Engine) rank(scored []ScoredCandidate) []ScoredCandidate {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ID < scored[j].ID
	})

	if len(scored) > e.config.Limits.MaxResults {
		scored = scored[:e.config.Limits.MaxResults]
	}
	return scored
}

// sampleIdentities returns a uniform random sample of up to n identities,
// taken as a prefix of a shuffled copy.
func (e *Engine) sampleIdentities(ids []string, n int) []string {
	if len(ids) <= n {
		shuffled := make([]string, len(ids))
		copy(shuffled, ids)
		return shuffled
	}

	shuffled := make([]string, len(ids))
	copy(shuffled, ids)

	e.rngMu.Lock()
	e.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	e.rngMu.Unlock()

	return shuffled[:n]
}
