package authgate

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestRefreshDisabledByDefault(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	if err := engine.RefreshCredential(context.Background()); !errors.Is(err, ErrRefreshDisabled) {
		t.Fatalf("expected ErrRefreshDisabled, got %v", err)
	}
}

func TestRefreshRotatesCredentialInPlace(t *testing.T) {
	engine, stub := newTestEngine(t, func(c *Config) {
		c.Refresh.Enabled = true
	})

	if _, err := engine.Login(context.Background(), "alice@example.com", "correct-horse"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	var transitions int
	defer engine.Subscribe(func(StateChange) { transitions++ })()

	if err := engine.RefreshCredential(context.Background()); err != nil {
		t.Fatalf("RefreshCredential failed: %v", err)
	}

	cred, ok := engine.Credentials().Get()
	if !ok || cred.Token != "refreshed-token" {
		t.Fatalf("expected rotated credential, got %q (ok=%v)", cred.Token, ok)
	}

	// Refresh is invisible to subscribers.
	if transitions != 0 {
		t.Fatalf("expected no state transitions on refresh, got %d", transitions)
	}
	if got := engine.State(); got != StateAuthenticated {
		t.Fatalf("expected StateAuthenticated, got %v", got)
	}

	_, _, _, refresh := stub.counts()
	if refresh != 1 {
		t.Fatalf("expected 1 refresh call, got %d", refresh)
	}
}

func TestRefreshWithoutCredential(t *testing.T) {
	engine, _ := newTestEngine(t, func(c *Config) {
		c.Refresh.Enabled = true
	})

	if err := engine.RefreshCredential(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestRefreshFailureSurfaces(t *testing.T) {
	engine, stub := newTestEngine(t, func(c *Config) {
		c.Refresh.Enabled = true
	})
	stub.set(func(s *stubIssuer) { s.refreshStatus = http.StatusUnauthorized })

	if _, err := engine.Login(context.Background(), "alice@example.com", "correct-horse"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := engine.RefreshCredential(context.Background()); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}

	// The old credential stays; the caller decides about forced expiry.
	cred, _ := engine.Credentials().Get()
	if cred.Token != "valid-token" {
		t.Fatalf("expected original credential retained, got %q", cred.Token)
	}
	if got := engine.MetricsSnapshot().Counters[MetricRefreshFailure]; got != 1 {
		t.Fatalf("expected 1 refresh failure metric, got %d", got)
	}
}
