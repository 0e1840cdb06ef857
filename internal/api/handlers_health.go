// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package api

import (
	"net/http"
	"time"
)

// healthStatus is the health endpoint payload.
type healthStatus struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// Health reports overall service health including store reachability.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	status := healthStatus{Status: "ok", Store: "ok"}
	code := http.StatusOK
	if err := s.store.Ping(r.Context()); err != nil {
		status.Status = "degraded"
		status.Store = err.Error()
		code = http.StatusServiceUnavailable
	}
	respondData(w, code, status, start)
}

// HealthLive is the liveness probe: process is up.
func (s *Server) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "alive"}, time.Now())
}

// HealthReady is the readiness probe: the store answers reads.
func (s *Server) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := s.store.Ping(r.Context()); err != nil {
		respondData(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"}, start)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"status": "ready"}, start)
}
