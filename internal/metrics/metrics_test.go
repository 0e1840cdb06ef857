// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	RecordAPIRequest(http.MethodGet, "/v1/recommendations", http.StatusOK, 25*time.Millisecond)

	got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(http.MethodGet, "/v1/recommendations", "200"))
	if got < 1 {
		t.Errorf("request counter = %v, want >= 1", got)
	}
}

func TestRecordRecommendationOutcomes(t *testing.T) {
	RecordRecommendation("success", 10*time.Millisecond, 25)
	RecordRecommendation("not_found", 0, 0)
	RecordRecommendation("error", 0, 0)

	got := testutil.ToFloat64(RecommendRequests.WithLabelValues("not_found"))
	if got < 1 {
		t.Errorf("not_found counter = %v, want >= 1", got)
	}
}

func TestRecordBranchFailure(t *testing.T) {
	before := testutil.ToFloat64(RecommendBranchFailures.WithLabelValues("social"))
	RecordBranchFailure("social")
	after := testutil.ToFloat64(RecommendBranchFailures.WithLabelValues("social"))

	if after != before+1 {
		t.Errorf("social branch failures = %v, want %v", after, before+1)
	}
}

func TestRecordStoreOpErrorsOnlyOnFailure(t *testing.T) {
	before := testutil.ToFloat64(StoreOpErrors.WithLabelValues("get_profile"))
	RecordStoreOp("get_profile", time.Millisecond, nil)
	if got := testutil.ToFloat64(StoreOpErrors.WithLabelValues("get_profile")); got != before {
		t.Errorf("error counter moved on success: %v", got)
	}

	RecordStoreOp("get_profile", time.Millisecond, http.ErrServerClosed)
	if got := testutil.ToFloat64(StoreOpErrors.WithLabelValues("get_profile")); got != before+1 {
		t.Errorf("error counter = %v, want %v", got, before+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	base := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	TrackActiveRequest(false)

	if got := testutil.ToFloat64(APIActiveRequests); got != base+1 {
		t.Errorf("active requests = %v, want %v", got, base+1)
	}
}
