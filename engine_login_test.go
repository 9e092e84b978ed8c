package authgate

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/MrEthical07/authgate/credential"
)

func TestLoginSuccessAuthenticatesDirectly(t *testing.T) {
	engine, stub := newTestEngine(t, nil)

	ident, err := engine.Login(context.Background(), "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if ident.ID != "user-1" || ident.Email != "alice@example.com" {
		t.Fatalf("unexpected identity: %+v", ident)
	}

	if got := engine.State(); got != StateAuthenticated {
		t.Fatalf("expected StateAuthenticated, got %v", got)
	}
	if !engine.HasCredential() {
		t.Fatal("expected credential stored after login")
	}

	// The login payload carries the identity; no resolution round-trip.
	_, profile, _, _ := stub.counts()
	if profile != 0 {
		t.Fatalf("expected no profile calls after login, got %d", profile)
	}

	if got := engine.MetricsSnapshot().Counters[MetricLoginSuccess]; got != 1 {
		t.Fatalf("expected 1 login success metric, got %d", got)
	}
}

func TestLoginRejectedLeavesStateUntouched(t *testing.T) {
	engine, stub := newTestEngine(t, nil)
	stub.set(func(s *stubIssuer) { s.loginStatus = http.StatusUnauthorized })

	_, err := engine.Login(context.Background(), "alice@example.com", "wrong")
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "invalid credentials") {
		t.Fatalf("expected server message preserved, got %q", err.Error())
	}

	if got := engine.State(); got != StateUnauthenticated {
		t.Fatalf("expected StateUnauthenticated, got %v", got)
	}
	if engine.HasCredential() {
		t.Fatal("expected no credential after rejected login")
	}
}

func TestLoginTransportFailure(t *testing.T) {
	engine, stub := newTestEngine(t, nil)
	stub.set(func(s *stubIssuer) { s.loginStatus = http.StatusInternalServerError })

	_, err := engine.Login(context.Background(), "alice@example.com", "correct-horse")
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if !IsRetryable(err) {
		t.Fatal("transport failures must be retryable")
	}
	if got := engine.State(); got != StateUnauthenticated {
		t.Fatalf("expected StateUnauthenticated, got %v", got)
	}
}

func TestRegisterBehavesLikeLogin(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	ident, err := engine.Register(context.Background(), RegisterRequest{
		Email:     "alice@example.com",
		Password:  "correct-horse",
		FirstName: "Alice",
		LastName:  "Example",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if ident.DisplayName() != "Alice Example" {
		t.Fatalf("unexpected display name %q", ident.DisplayName())
	}
	if got := engine.State(); got != StateAuthenticated {
		t.Fatalf("expected StateAuthenticated, got %v", got)
	}
	if !engine.HasCredential() {
		t.Fatal("expected credential stored after register")
	}
}

type failingStore struct{}

func (failingStore) Get() (credential.Credential, bool) { return credential.Credential{}, false }
func (failingStore) Set(credential.Credential) error    { return errors.New("disk full") }
func (failingStore) Clear() error                       { return nil }

func TestLoginCredentialWriteFailureSurfaces(t *testing.T) {
	stub := newStubIssuer()
	cfg := testConfig(stub.start(t))

	engine, err := New().
		WithConfig(cfg).
		WithCredentialStore(failingStore{}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	_, err = engine.Login(context.Background(), "alice@example.com", "correct-horse")
	if !errors.Is(err, ErrCredentialStore) {
		t.Fatalf("expected ErrCredentialStore, got %v", err)
	}

	// The session must not claim to be logged in when the guard would see an
	// empty store.
	if got := engine.State(); got != StateUnauthenticated {
		t.Fatalf("expected StateUnauthenticated, got %v", got)
	}
}

func TestSubscribersObserveLoginTransition(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	var changes []StateChange
	unsubscribe := engine.Subscribe(func(c StateChange) {
		changes = append(changes, c)
	})
	defer unsubscribe()

	if _, err := engine.Login(context.Background(), "alice@example.com", "correct-horse"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if len(changes) != 1 {
		t.Fatalf("expected 1 state change, got %d", len(changes))
	}
	if changes[0].From != StateUnauthenticated || changes[0].To != StateAuthenticated {
		t.Fatalf("unexpected transition %v -> %v", changes[0].From, changes[0].To)
	}
	if changes[0].Identity == nil || changes[0].Identity.ID != "user-1" {
		t.Fatalf("expected identity on authenticated transition, got %+v", changes[0].Identity)
	}

	unsubscribe()
	engine.Logout(context.Background())
	if len(changes) != 1 {
		t.Fatalf("expected no deliveries after unsubscribe, got %d", len(changes))
	}
}
