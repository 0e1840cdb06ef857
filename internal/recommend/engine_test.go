// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/sociograph/internal/models"
)

var errStoreFault = errors.New("simulated store fault")

// mockProvider implements DataProvider for testing.
type mockProvider struct {
	mu        sync.Mutex
	profiles  map[string]*models.Profile
	following map[string][]string

	getProfileErr      error
	getProfilesErr     error
	findTagsErr        error
	findCommunitiesErr error

	// followingFn overrides Following when set.
	followingFn func(id string, limit int) ([]string, error)

	findTagsCalls int32
	maxBatchSize  int32
}

func newMockProvider() *mockProvider {
	return &mockProvider{
		profiles:  make(map[string]*models.Profile),
		following: make(map[string][]string),
	}
}

func (m *mockProvider) addProfile(p *models.Profile) {
	m.profiles[p.ID] = p
}

func (m *mockProvider) GetProfile(_ context.Context, id string) (*models.Profile, error) {
	if m.getProfileErr != nil {
		return nil, m.getProfileErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", id, errStoreFault)
	}
	return p, nil
}

func (m *mockProvider) GetProfiles(_ context.Context, ids []string) ([]*models.Profile, error) {
	if m.getProfilesErr != nil {
		return nil, m.getProfilesErr
	}

	for {
		seen := atomic.LoadInt32(&m.maxBatchSize)
		if int32(len(ids)) <= seen || atomic.CompareAndSwapInt32(&m.maxBatchSize, seen, int32(len(ids))) {
			break
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Profile, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProvider) FindByTags(_ context.Context, tags []string, limit int) ([]*models.Profile, error) {
	atomic.AddInt32(&m.findTagsCalls, 1)
	if m.findTagsErr != nil {
		return nil, m.findTagsErr
	}
	return m.findByMatch(limit, func(p *models.Profile) bool {
		for _, t := range tags {
			if p.HasTag(t) {
				return true
			}
		}
		return false
	}), nil
}

func (m *mockProvider) FindByCommunities(_ context.Context, ids []string, limit int) ([]*models.Profile, error) {
	if m.findCommunitiesErr != nil {
		return nil, m.findCommunitiesErr
	}
	return m.findByMatch(limit, func(p *models.Profile) bool {
		for _, id := range ids {
			if p.InCommunity(id) {
				return true
			}
		}
		return false
	}), nil
}

func (m *mockProvider) findByMatch(limit int, match func(*models.Profile) bool) []*models.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Deterministic iteration: sorted identity order.
	ids := make([]string, 0, len(m.profiles))
	for id := range m.profiles {
		ids = append(ids, id)
	}
	sortStrings(ids)

	var out []*models.Profile
	for _, id := range ids {
		if match(m.profiles[id]) {
			out = append(out, m.profiles[id])
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out
}

func (m *mockProvider) Following(_ context.Context, id string, limit int) ([]string, error) {
	if m.followingFn != nil {
		return m.followingFn(id, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.following[id]
	if limit > 0 && len(ids) > limit {
		return ids[:limit], nil
	}
	return ids, nil
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

// newTestEngine builds an engine with a pinned seed so sampling is
// reproducible.
func newTestEngine(t *testing.T, provider DataProvider) *Engine {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Seed = 1
	e, err := NewEngine(cfg, provider, zerolog.Nop())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func TestRecommendRequesterMissing(t *testing.T) {
	m := newMockProvider()
	e := newTestEngine(t, m)

	_, err := e.Recommend(context.Background(), "ghost")
	if err == nil {
		t.Fatal("expected error for missing requester profile")
	}
}

func TestExclusionInvariant(t *testing.T) {
	m := newMockProvider()
	// Requester shares a tag with itself and with u2 and u3, but follows u2.
	m.addProfile(&models.Profile{ID: "me", Handle: "me", Tags: []string{"chess"}})
	m.addProfile(&models.Profile{ID: "u2", Handle: "u2", Tags: []string{"chess"}})
	m.addProfile(&models.Profile{ID: "u3", Handle: "u3", Tags: []string{"chess"}})
	m.following["me"] = []string{"u2"}

	e := newTestEngine(t, m)
	resp, err := e.Recommend(context.Background(), "me")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}

	for _, rec := range resp.Recommendations {
		if rec.ID == "me" {
			t.Error("requester must never be recommended")
		}
		if rec.ID == "u2" {
			t.Error("already-followed identity must never be recommended")
		}
	}
	if len(resp.Recommendations) != 1 || resp.Recommendations[0].ID != "u3" {
		t.Errorf("expected exactly [u3], got %+v", resp.Recommendations)
	}
}

func TestDeduplicationInvariant(t *testing.T) {
	m := newMockProvider()
	// u2 arrives via both the interest and community branches.
	m.addProfile(&models.Profile{ID: "me", Handle: "me", Tags: []string{"chess"}, Communities: []string{"g1"}})
	m.addProfile(&models.Profile{ID: "u2", Handle: "u2", Tags: []string{"chess"}, Communities: []string{"g1"}})

	e := newTestEngine(t, m)
	resp, err := e.Recommend(context.Background(), "me")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}

	seen := make(map[string]int)
	for _, rec := range resp.Recommendations {
		seen[rec.ID]++
	}
	if seen["u2"] != 1 {
		t.Errorf("u2 appeared %d times, want exactly 1", seen["u2"])
	}
}

func TestScoringEndToEnd(t *testing.T) {
	m := newMockProvider()
	m.addProfile(&models.Profile{
		ID: "me", Handle: "me",
		Tags:        []string{"chess", "jazz"},
		Communities: []string{"g1"},
	})
	// A: both tags and the community, 100 followers.
	// 2*20 + 1*25 + log10(100)*10 = 40 + 25 + 20 = 85
	m.addProfile(&models.Profile{
		ID: "a", Handle: "a",
		Tags:          []string{"chess", "jazz"},
		Communities:   []string{"g1"},
		FollowerCount: 100,
	})
	// B: two-hop reachable, no shared tags or communities, 10 followers.
	// 40 + log10(10)*10 = 50
	m.addProfile(&models.Profile{ID: "b", Handle: "b", FollowerCount: 10})
	m.addProfile(&models.Profile{ID: "x", Handle: "x"})
	m.following["me"] = []string{"x"}
	m.following["x"] = []string{"b"}

	e := newTestEngine(t, m)
	resp, err := e.Recommend(context.Background(), "me")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}

	if len(resp.Recommendations) != 2 {
		t.Fatalf("got %d recommendations, want 2: %+v", len(resp.Recommendations), resp.Recommendations)
	}
	if resp.Recommendations[0].ID != "a" || resp.Recommendations[0].Score != 85 {
		t.Errorf("first = %s (%.1f), want a (85.0)", resp.Recommendations[0].ID, resp.Recommendations[0].Score)
	}
	if resp.Recommendations[1].ID != "b" || resp.Recommendations[1].Score != 50 {
		t.Errorf("second = %s (%.1f), want b (50.0)", resp.Recommendations[1].ID, resp.Recommendations[1].Score)
	}
	for _, rec := range resp.Recommendations {
		if len(rec.Reasons) == 0 {
			t.Errorf("candidate %s has no score reasons", rec.ID)
		}
	}
}

func TestStatusBonusRequiresRequesterStatus(t *testing.T) {
	tests := []struct {
		name            string
		requesterStatus string
		candidateStatus string
		wantBonus       bool
	}{
		{"both set and equal", "single", "single", true},
		{"case differs", "Single", "single", false},
		{"requester unset", "", "", false},
		{"candidate differs", "single", "married", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMockProvider()
			m.addProfile(&models.Profile{
				ID: "me", Handle: "me",
				Tags:               []string{"chess"},
				RelationshipStatus: tt.requesterStatus,
			})
			m.addProfile(&models.Profile{
				ID: "u2", Handle: "u2",
				Tags:               []string{"chess"},
				RelationshipStatus: tt.candidateStatus,
			})

			e := newTestEngine(t, m)
			resp, err := e.Recommend(context.Background(), "me")
			if err != nil {
				t.Fatalf("recommend: %v", err)
			}
			if len(resp.Recommendations) != 1 {
				t.Fatalf("got %d recommendations, want 1", len(resp.Recommendations))
			}

			want := 20.0 // one shared tag
			if tt.wantBonus {
				want += 10
			}
			if got := resp.Recommendations[0].Score; got != want {
				t.Errorf("score = %.1f, want %.1f", got, want)
			}
		})
	}
}

func TestMonotonicityInSharedTags(t *testing.T) {
	m := newMockProvider()
	m.addProfile(&models.Profile{ID: "me", Handle: "me", Tags: []string{"chess", "jazz", "golf"}})
	m.addProfile(&models.Profile{ID: "one", Handle: "one", Tags: []string{"chess"}})
	m.addProfile(&models.Profile{ID: "two", Handle: "two", Tags: []string{"chess", "jazz"}})

	e := newTestEngine(t, m)
	resp, err := e.Recommend(context.Background(), "me")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}

	scores := make(map[string]float64)
	for _, rec := range resp.Recommendations {
		scores[rec.ID] = rec.Score
		if rec.Score < 0 {
			t.Errorf("candidate %s has negative score %.1f", rec.ID, rec.Score)
		}
	}
	if scores["two"] < scores["one"] {
		t.Errorf("more shared tags scored lower: two=%.1f one=%.1f", scores["two"], scores["one"])
	}
}

func TestEmptyInterestShortCircuit(t *testing.T) {
	m := newMockProvider()
	m.addProfile(&models.Profile{ID: "me", Handle: "me", Communities: []string{"g1"}})
	m.addProfile(&models.Profile{ID: "u2", Handle: "u2", Communities: []string{"g1"}})

	e := newTestEngine(t, m)
	resp, err := e.Recommend(context.Background(), "me")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}

	if calls := atomic.LoadInt32(&m.findTagsCalls); calls != 0 {
		t.Errorf("interest query issued %d times for tagless requester, want 0", calls)
	}
	if len(resp.Recommendations) != 1 || resp.Recommendations[0].ID != "u2" {
		t.Errorf("expected community candidate u2, got %+v", resp.Recommendations)
	}
}

func TestSoftFailureSocialBranch(t *testing.T) {
	m := newMockProvider()
	m.addProfile(&models.Profile{ID: "me", Handle: "me", Tags: []string{"chess"}})
	m.addProfile(&models.Profile{ID: "u2", Handle: "u2", Tags: []string{"chess"}})
	m.addProfile(&models.Profile{ID: "x", Handle: "x"})
	m.following["me"] = []string{"x"}
	m.following["x"] = []string{"u2"}
	// Hydration inside the social branch faults; nothing else does.
	m.getProfilesErr = errStoreFault

	e := newTestEngine(t, m)
	resp, err := e.Recommend(context.Background(), "me")
	if err != nil {
		t.Fatalf("expected success despite social branch fault, got %v", err)
	}

	if !resp.Metadata.SocialFailed {
		t.Error("expected SocialFailed metadata flag")
	}
	if len(resp.Recommendations) != 1 || resp.Recommendations[0].ID != "u2" {
		t.Errorf("expected u2 via interest branch, got %+v", resp.Recommendations)
	}
	// The social bonus must not apply: the raw social output was empty.
	if resp.Recommendations[0].Score != 20 {
		t.Errorf("score = %.1f, want 20 (interest only)", resp.Recommendations[0].Score)
	}
}

func TestHardFailureExclusionFetch(t *testing.T) {
	m := newMockProvider()
	m.addProfile(&models.Profile{ID: "me", Handle: "me", Tags: []string{"chess"}})
	m.addProfile(&models.Profile{ID: "u2", Handle: "u2", Tags: []string{"chess"}})
	// The exclusion fetch is the only Following call with limit 0.
	m.followingFn = func(id string, limit int) ([]string, error) {
		if limit == 0 {
			return nil, errStoreFault
		}
		return nil, nil
	}

	e := newTestEngine(t, m)
	resp, err := e.Recommend(context.Background(), "me")
	if err == nil {
		t.Fatalf("expected hard failure, got response %+v", resp)
	}
	if !errors.Is(err, errStoreFault) {
		t.Errorf("expected wrapped store fault, got %v", err)
	}
}

func TestFirstSeenProfileWins(t *testing.T) {
	m := newMockProvider()
	m.addProfile(&models.Profile{ID: "me", Handle: "me", Tags: []string{"chess"}})
	// u2 is both two-hop reachable and an interest match; the social
	// branch inserts first, so its snapshot (and the social bonus) apply.
	m.addProfile(&models.Profile{ID: "u2", Handle: "u2", Tags: []string{"chess"}})
	m.addProfile(&models.Profile{ID: "x", Handle: "x"})
	m.following["me"] = []string{"x"}
	m.following["x"] = []string{"u2"}

	e := newTestEngine(t, m)
	resp, err := e.Recommend(context.Background(), "me")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}

	if len(resp.Recommendations) != 1 {
		t.Fatalf("got %d recommendations, want 1 (deduplicated)", len(resp.Recommendations))
	}
	// social 40 + 1 shared tag 20
	if resp.Recommendations[0].Score != 60 {
		t.Errorf("score = %.1f, want 60", resp.Recommendations[0].Score)
	}
}

func TestTruncationReturnsTopN(t *testing.T) {
	m := newMockProvider()
	me := &models.Profile{ID: "me", Handle: "me", Tags: []string{"chess"}, Communities: []string{"g1"}}
	m.addProfile(me)

	// 20 interest matches and 20 distinct community matches, follower
	// counts spread so scores are distinct.
	for i := 0; i < 20; i++ {
		m.addProfile(&models.Profile{
			ID:            fmt.Sprintf("i%02d", i),
			Handle:        fmt.Sprintf("i%02d", i),
			Tags:          []string{"chess"},
			FollowerCount: int64(10 + i*7),
		})
		m.addProfile(&models.Profile{
			ID:            fmt.Sprintf("c%02d", i),
			Handle:        fmt.Sprintf("c%02d", i),
			Communities:   []string{"g1"},
			FollowerCount: int64(12 + i*7),
		})
	}

	e := newTestEngine(t, m)
	resp, err := e.Recommend(context.Background(), "me")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}

	if resp.TotalCandidates != 40 {
		t.Errorf("total candidates = %d, want 40", resp.TotalCandidates)
	}
	if len(resp.Recommendations) != 20 {
		t.Fatalf("got %d recommendations, want exactly 20", len(resp.Recommendations))
	}

	returned := make(map[string]bool, len(resp.Recommendations))
	for i, rec := range resp.Recommendations {
		returned[rec.ID] = true
		if i > 0 && rec.Score > resp.Recommendations[i-1].Score {
			t.Errorf("scores not descending at %d: %.2f > %.2f", i, rec.Score, resp.Recommendations[i-1].Score)
		}
	}

	// Every omitted candidate must score no higher than the cut line.
	cutLine := resp.Recommendations[len(resp.Recommendations)-1].Score
	all := e.scoreCandidates(me,
		mergeCandidates(nil, mustFind(t, m, "chess"), mustFindCommunity(t, m, "g1"), map[string]struct{}{"me": {}}),
		nil)
	for _, sc := range all {
		if !returned[sc.ID] && sc.Score > cutLine {
			t.Errorf("omitted candidate %s scores %.2f above cut line %.2f", sc.ID, sc.Score, cutLine)
		}
	}
}

func mustFind(t *testing.T, m *mockProvider, tag string) []*models.Profile {
	t.Helper()
	out, err := m.FindByTags(context.Background(), []string{tag}, 20)
	if err != nil {
		t.Fatalf("find by tags: %v", err)
	}
	return out
}

func mustFindCommunity(t *testing.T, m *mockProvider, id string) []*models.Profile {
	t.Helper()
	out, err := m.FindByCommunities(context.Background(), []string{id}, 20)
	if err != nil {
		t.Fatalf("find by communities: %v", err)
	}
	return out
}

func TestTieBreakByIdentity(t *testing.T) {
	m := newMockProvider()
	m.addProfile(&models.Profile{ID: "me", Handle: "me", Tags: []string{"chess"}})
	// Identical scores; identity ascending decides.
	m.addProfile(&models.Profile{ID: "zeta", Handle: "zeta", Tags: []string{"chess"}})
	m.addProfile(&models.Profile{ID: "alpha", Handle: "alpha", Tags: []string{"chess"}})

	e := newTestEngine(t, m)
	resp, err := e.Recommend(context.Background(), "me")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}

	if len(resp.Recommendations) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(resp.Recommendations))
	}
	if resp.Recommendations[0].ID != "alpha" || resp.Recommendations[1].ID != "zeta" {
		t.Errorf("tie-break order = [%s, %s], want [alpha, zeta]",
			resp.Recommendations[0].ID, resp.Recommendations[1].ID)
	}
}

func TestSamplerRespectsCapsAndBatches(t *testing.T) {
	m := newMockProvider()
	me := &models.Profile{ID: "me", Handle: "me"}
	m.addProfile(me)

	// One hop-1 followee per sample slot, each with 10 followees: 50
	// hop-2 identities before the 30 cap.
	var hop1 []string
	for i := 0; i < 5; i++ {
		fid := fmt.Sprintf("f%d", i)
		hop1 = append(hop1, fid)
		m.addProfile(&models.Profile{ID: fid, Handle: fid})

		var hop2 []string
		for j := 0; j < 10; j++ {
			cid := fmt.Sprintf("cand-%d-%d", i, j)
			hop2 = append(hop2, cid)
			m.addProfile(&models.Profile{ID: cid, Handle: cid})
		}
		m.following[fid] = hop2
	}
	m.following["me"] = hop1

	e := newTestEngine(t, m)
	resp, err := e.Recommend(context.Background(), "me")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}

	// 30 hop-2 candidates survive the union cap; output truncates to 20.
	if resp.TotalCandidates != 30 {
		t.Errorf("total candidates = %d, want 30 (hop-2 cap)", resp.TotalCandidates)
	}
	if len(resp.Recommendations) != 20 {
		t.Errorf("got %d recommendations, want 20", len(resp.Recommendations))
	}
	if got := atomic.LoadInt32(&m.maxBatchSize); got > 10 {
		t.Errorf("hydration batch of %d exceeds store ceiling of 10", got)
	}
}

func TestEmptyFollowingSocialBranch(t *testing.T) {
	m := newMockProvider()
	m.addProfile(&models.Profile{ID: "me", Handle: "me"})

	e := newTestEngine(t, m)
	resp, err := e.Recommend(context.Background(), "me")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}

	if resp.Metadata.SocialFailed {
		t.Error("empty following list is not a branch failure")
	}
	if len(resp.Recommendations) != 0 {
		t.Errorf("expected empty recommendations, got %+v", resp.Recommendations)
	}
}

func TestSampleIdentitiesBounds(t *testing.T) {
	e := newTestEngine(t, newMockProvider())

	ids := []string{"a", "b", "c", "d", "e", "f", "g"}
	sample := e.sampleIdentities(ids, 3)
	if len(sample) != 3 {
		t.Errorf("sample size = %d, want 3", len(sample))
	}
	seen := make(map[string]bool)
	for _, id := range sample {
		if seen[id] {
			t.Errorf("duplicate %s in sample", id)
		}
		seen[id] = true
	}

	small := e.sampleIdentities([]string{"a", "b"}, 5)
	if len(small) != 2 {
		t.Errorf("sample of short list = %d, want 2", len(small))
	}
}
