package authgate

import (
	"context"
	"net/http"
	"testing"
)

func TestLogoutIsSynchronousAndLocal(t *testing.T) {
	engine, stub := newTestEngine(t, nil)

	if _, err := engine.Login(context.Background(), "alice@example.com", "correct-horse"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	engine.Logout(context.Background())

	// By the time Logout returns the local teardown is complete: the very
	// next navigation must be judged logged-out.
	if got := engine.State(); got != StateUnauthenticated {
		t.Fatalf("expected StateUnauthenticated, got %v", got)
	}
	if engine.HasCredential() {
		t.Fatal("expected credential cleared by logout")
	}

	_, _, logout, _ := stub.counts()
	if logout != 1 {
		t.Fatalf("expected 1 logout notification, got %d", logout)
	}
}

func TestLogoutNotifyFailureIsSwallowed(t *testing.T) {
	engine, stub := newTestEngine(t, nil)
	stub.set(func(s *stubIssuer) { s.logoutStatus = http.StatusInternalServerError })

	if _, err := engine.Login(context.Background(), "alice@example.com", "correct-horse"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	engine.Logout(context.Background())

	if got := engine.State(); got != StateUnauthenticated {
		t.Fatalf("expected StateUnauthenticated, got %v", got)
	}
	if got := engine.MetricsSnapshot().Counters[MetricLogoutNotifyFailed]; got != 1 {
		t.Fatalf("expected 1 failed notify metric, got %d", got)
	}
}

func TestLogoutWithoutSessionIsIdempotent(t *testing.T) {
	engine, stub := newTestEngine(t, nil)

	engine.Logout(context.Background())
	engine.Logout(context.Background())

	if got := engine.State(); got != StateUnauthenticated {
		t.Fatalf("expected StateUnauthenticated, got %v", got)
	}

	_, _, logout, _ := stub.counts()
	if logout != 0 {
		t.Fatalf("expected no logout notifications without a credential, got %d", logout)
	}
}

func TestForceExpireTransitionsOnce(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	if _, err := engine.Login(context.Background(), "alice@example.com", "correct-horse"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	var expiries int
	defer engine.Subscribe(func(c StateChange) {
		if c.To == StateExpired {
			expiries++
		}
	})()

	engine.ForceExpire("credential rejected with status 401")
	engine.ForceExpire("credential rejected with status 401")

	if expiries != 1 {
		t.Fatalf("expected exactly one expiry transition, got %d", expiries)
	}
	if got := engine.State(); got != StateExpired {
		t.Fatalf("expected StateExpired, got %v", got)
	}
	if engine.HasCredential() {
		t.Fatal("expected credential cleared by forced expiry")
	}
	if snap := engine.Snapshot(); snap.Reason != "credential rejected with status 401" {
		t.Fatalf("expected expiry reason preserved, got %q", snap.Reason)
	}
	if got := engine.MetricsSnapshot().Counters[MetricForcedExpiry]; got != 1 {
		t.Fatalf("expected 1 forced expiry metric, got %d", got)
	}
}

func TestForceExpireIgnoredWithoutSession(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	engine.ForceExpire("noise")

	// Expired is distinct from Unauthenticated; a session that never existed
	// cannot expire.
	if got := engine.State(); got != StateUnauthenticated {
		t.Fatalf("expected StateUnauthenticated, got %v", got)
	}
}

func TestExpiredStateDistinctFromUnauthenticated(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	if _, err := engine.Login(context.Background(), "alice@example.com", "correct-horse"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	engine.ForceExpire("session timed out")

	if got := engine.State(); got != StateExpired {
		t.Fatalf("expected StateExpired, got %v", got)
	}

	engine.Logout(context.Background())
	if got := engine.State(); got != StateUnauthenticated {
		t.Fatalf("expected StateUnauthenticated after explicit logout, got %v", got)
	}
}
