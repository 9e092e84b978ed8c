package authgate

import (
	"context"
	"errors"
	"testing"
)

func TestRefreshIdentityReplacesWholesale(t *testing.T) {
	engine, stub := newTestEngine(t, nil)

	if _, err := engine.Login(context.Background(), "alice@example.com", "correct-horse"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	stub.set(func(s *stubIssuer) {
		s.user = map[string]any{
			"id":        "user-1",
			"email":     "alice@example.com",
			"firstName": "Alicia",
			"lastName":  "Renamed",
		}
	})

	ident, err := engine.RefreshIdentity(context.Background())
	if err != nil {
		t.Fatalf("RefreshIdentity failed: %v", err)
	}
	if ident.FirstName != "Alicia" || ident.LastName != "Renamed" {
		t.Fatalf("expected replaced identity, got %+v", ident)
	}
	if got := engine.Identity(); got.FirstName != "Alicia" {
		t.Fatalf("expected engine identity replaced, got %+v", got)
	}
	if got := engine.State(); got != StateAuthenticated {
		t.Fatalf("expected StateAuthenticated, got %v", got)
	}
}

func TestRefreshIdentityRequiresSession(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	if _, err := engine.RefreshIdentity(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestRefreshIdentityRejectionForcesExpiry(t *testing.T) {
	engine, stub := newTestEngine(t, nil)

	if _, err := engine.Login(context.Background(), "alice@example.com", "correct-horse"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	// Invalidate the token server-side: the profile endpoint now rejects it.
	stub.set(func(s *stubIssuer) { s.token = "rotated-away" })

	_, err := engine.RefreshIdentity(context.Background())
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
	if got := engine.State(); got != StateExpired {
		t.Fatalf("expected StateExpired after mid-session rejection, got %v", got)
	}
	if engine.HasCredential() {
		t.Fatal("expected credential cleared")
	}
}
