// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

// Package recommend implements the "people you may know" engine.
//
// For a requesting user the engine retrieves candidates from three
// independent relationship graphs, merges and deduplicates them, scores
// each survivor with a weighted linear formula, and returns a ranked
// top-N list:
//
//   - social graph: a bounded two-hop "follows of follows" sample
//   - interest graph: users sharing at least one interest tag
//   - community graph: users sharing at least one community
//
// The three retrievals plus the exclusion-set fetch (self and everyone
// already followed) run concurrently as a fork-join. The retrieval
// branches fail soft: any error, timeout, or open circuit breaker turns
// into an empty contribution and the request still succeeds with a
// partial candidate pool. The exclusion fetch fails hard: a partial
// exclusion set would surface already-followed users as recommendations,
// so its error aborts the request.
//
// The engine talks to storage only through the DataProvider interface and
// has no dependency on other internal packages besides models, so it can
// be tested with an in-memory mock and rewired to any document store.
//
// Results are non-deterministic across calls by design (the social branch
// samples hop-1 neighbors randomly); pin Config.Seed for reproducible
// tests.
package recommend
