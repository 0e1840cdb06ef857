// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

// Package supervisor builds the suture supervision tree that keeps the
// long-running services (HTTP server, store GC, limiter sweep) alive and
// restarts them with backoff on failure.
package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig holds restart and shutdown tuning for the supervision tree.
type TreeConfig struct {
	// FailureThreshold is the decayed failure count at which a supervisor
	// gives up restarting immediately and backs off.
	FailureThreshold float64

	// FailureDecay is the seconds over which failures halve.
	FailureDecay float64

	// FailureBackoff is how long a supervisor waits once the threshold
	// is crossed.
	FailureBackoff time.Duration

	// ShutdownTimeout bounds how long each service may take to stop.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns conservative restart settings suitable for
// production.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// Tree is the root supervisor plus its layer supervisors. Services are
// grouped so a crash-looping maintenance job cannot take down the API
// layer with it.
type Tree struct {
	root        *suture.Supervisor
	api         *suture.Supervisor
	maintenance *suture.Supervisor
	cfg         TreeConfig
}

// NewTree constructs the supervision tree. Events from suture are routed
// through the supplied slog logger (see logging.NewSlogLogger).
func NewTree(cfg TreeConfig, logger *slog.Logger) *Tree {
	eventHook := (&sutureslog.Handler{Logger: logger}).MustHook()

	rootSpec := suture.Spec{
		EventHook:        eventHook,
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	}
	childSpec := suture.Spec{
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	}

	root := suture.New("sociograph", rootSpec)
	api := suture.New("api", childSpec)
	maintenance := suture.New("maintenance", childSpec)

	root.Add(api)
	root.Add(maintenance)

	return &Tree{
		root:        root,
		api:         api,
		maintenance: maintenance,
		cfg:         cfg,
	}
}

// AddAPI registers a service under the API layer.
func (t *Tree) AddAPI(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// AddMaintenance registers a service under the maintenance layer.
func (t *Tree) AddMaintenance(svc suture.Service) suture.ServiceToken {
	return t.maintenance.Add(svc)
}

// ShutdownTimeout returns the per-service stop budget, for services that
// need their own shutdown deadline.
func (t *Tree) ShutdownTimeout() time.Duration {
	return t.cfg.ShutdownTimeout
}

// Serve runs the whole tree until ctx is cancelled, then stops every
// service and returns.
func (t *Tree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground starts the tree in a goroutine and returns a channel
// that yields the tree's terminal error.
func (t *Tree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that failed to stop within the
// shutdown timeout. Useful for logging at exit.
func (t *Tree) UnstoppedServiceReport() (suture.UnstoppedServiceReport, error) {
	return t.root.UnstoppedServiceReport()
}
