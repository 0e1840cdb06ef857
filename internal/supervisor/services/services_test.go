// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// Compile-time checks that every wrapper satisfies suture.Service.
var (
	_ suture.Service = (*HTTPService)(nil)
	_ suture.Service = (*GCService)(nil)
	_ suture.Service = (*SweeperService)(nil)
)

type mockServer struct {
	started   chan struct{}
	release   chan error
	shutdowns atomic.Int32
}

func newMockServer() *mockServer {
	return &mockServer{
		started: make(chan struct{}),
		release: make(chan error, 1),
	}
}

func (m *mockServer) ListenAndServe() error {
	close(m.started)
	return <-m.release
}

func (m *mockServer) Shutdown(_ context.Context) error {
	m.shutdowns.Add(1)
	m.release <- nil
	return nil
}

func TestHTTPServiceGracefulStop(t *testing.T) {
	srv := newMockServer()
	svc := NewHTTPService(srv, "127.0.0.1:0", time.Second, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	select {
	case <-srv.started:
	case <-time.After(time.Second):
		t.Fatal("server never started")
	}

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	if got := srv.shutdowns.Load(); got != 1 {
		t.Fatalf("Shutdown called %d times, want 1", got)
	}
}

func TestHTTPServiceListenError(t *testing.T) {
	srv := newMockServer()
	svc := NewHTTPService(srv, "127.0.0.1:0", time.Second, zerolog.Nop())

	done := make(chan error, 1)
	go func() { done <- svc.Serve(context.Background()) }()

	<-srv.started
	listenErr := errors.New("bind: address already in use")
	srv.release <- listenErr

	select {
	case err := <-done:
		if !errors.Is(err, listenErr) {
			t.Fatalf("Serve returned %v, want listen error", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return on listen failure")
	}

	if got := srv.shutdowns.Load(); got != 0 {
		t.Fatalf("Shutdown called %d times on listen failure, want 0", got)
	}
}

type mockGC struct {
	runs     atomic.Int32
	interval time.Duration
	err      error
}

func (m *mockGC) RunGC() error {
	m.runs.Add(1)
	return m.err
}

func (m *mockGC) GCInterval() time.Duration { return m.interval }

func TestGCServiceRunsOnInterval(t *testing.T) {
	gc := &mockGC{interval: 5 * time.Millisecond}
	svc := NewGCService(gc, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Serve returned %v, want deadline exceeded", err)
	}
	if gc.runs.Load() == 0 {
		t.Fatal("expected at least one GC pass")
	}
}

func TestGCServiceSurvivesErrors(t *testing.T) {
	// Neither "nothing to rewrite" nor a real failure should stop the loop.
	for _, err := range []error{badger.ErrNoRewrite, errors.New("disk full")} {
		gc := &mockGC{interval: 5 * time.Millisecond, err: err}
		svc := NewGCService(gc, zerolog.Nop())

		ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
		svc.Serve(ctx)
		cancel()

		if gc.runs.Load() < 2 {
			t.Fatalf("err=%v: GC loop stopped after %d passes", err, gc.runs.Load())
		}
	}
}

type mockSweeper struct {
	sweeps atomic.Int32
}

func (m *mockSweeper) Sweep() int {
	m.sweeps.Add(1)
	return 3
}

func (m *mockSweeper) Len() int { return 7 }

func TestSweeperServiceSweeps(t *testing.T) {
	sw := &mockSweeper{}
	svc := NewSweeperService(sw, 5*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Serve returned %v, want deadline exceeded", err)
	}
	if sw.sweeps.Load() == 0 {
		t.Fatal("expected at least one sweep")
	}
}
