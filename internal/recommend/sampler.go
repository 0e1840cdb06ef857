// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package recommend

import (
	"context"
	"fmt"
	"sync"

	"github.com/tomtom215/sociograph/internal/models"
)

// sampleSocialGraph approximates "friends of friends" without scanning the
// full graph:
//
//  1. fetch up to Hop1Limit first-degree followees
//  2. randomly sample SampleSize of them to bound fan-out
//  3. fetch up to Hop2PerUser followees of each sample, concurrently
//  4. union hop-2 identities in traversal order, capped at Hop2Cap
//  5. hydrate profiles in concurrent batches of ProfileBatchSize
//
// An empty hop-1 list is a normal empty result, not an error. Any error at
// any stage propagates to the caller, where the soft-branch wrapper turns
// it into an empty contribution.
func (e *Engine) sampleSocialGraph(ctx context.Context, requester *models.Profile) ([]*models.Profile, error) {
	hop1, err := e.provider.Following(ctx, requester.ID, e.config.Limits.Hop1Limit)
	if err != nil {
		return nil, fmt.Errorf("hop-1 fetch: %w", err)
	}
	if len(hop1) == 0 {
		return nil, nil
	}

	sampled := e.sampleIdentities(hop1, e.config.Limits.SampleSize)

	hop2Sets, err := e.fetchHop2(ctx, sampled)
	if err != nil {
		return nil, err
	}

	capped := unionCapped(hop2Sets, e.config.Limits.Hop2Cap)
	if len(capped) == 0 {
		return nil, nil
	}

	return e.hydrateProfiles(ctx, capped)
}

// fetchHop2 fetches the followees of each sampled hop-1 identity
// concurrently. Results keep the sample's slot order so the union stays
// deterministic for a fixed sample.
func (e *Engine) fetchHop2(ctx context.Context, sampled []string) ([][]string, error) {
	sets := make([][]string, len(sampled))
	errs := make([]error, len(sampled))

	var wg sync.WaitGroup
	for i, id := range sampled {
		wg.Add(1)
		go func(slot int, fid string) {
			defer wg.Done()
			ids, err := e.provider.Following(ctx, fid, e.config.Limits.Hop2PerUser)
			if err != nil {
				errs[slot] = fmt.Errorf("hop-2 fetch for %s: %w", fid, err)
				return
			}
			sets[slot] = ids
		}(i, id)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return sets, nil
}

// unionCapped unions identity lists preserving traversal order and
// dropping duplicates, stopping at cap.
func unionCapped(sets [][]string, limit int) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, set := range sets {
		for _, id := range set {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
			if len(out) >= limit {
				return out
			}
		}
	}
	return out
}

// hydrateProfiles fetches full profiles for the capped identity set in
// concurrent batches no larger than the store's batch-lookup ceiling.
// Batch results are flattened in batch order.
func (e *Engine) hydrateProfiles(ctx context.Context, ids []string) ([]*models.Profile, error) {
	batchSize := e.config.Limits.ProfileBatchSize
	numBatches := (len(ids) + batchSize - 1) / batchSize

	results := make([][]*models.Profile, numBatches)
	errs := make([]error, numBatches)

	var wg sync.WaitGroup
	for i := 0; i < numBatches; i++ {
		start := i * batchSize
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}

		wg.Add(1)
		go func(slot int, batch []string) {
			defer wg.Done()
			profiles, err := e.provider.GetProfiles(ctx, batch)
			if err != nil {
				errs[slot] = fmt.Errorf("hydrate batch %d: %w", slot, err)
				return
			}
			results[slot] = profiles
		}(i, ids[start:end])
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var out []*models.Profile
	for _, batch := range results {
		out = append(out, batch...)
	}
	return out, nil
}
