package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	authgate "github.com/MrEthical07/authgate"
)

// End-to-end shape: a real engine, a stub issuer, a resource API that starts
// rejecting the credential mid-session.
func TestMidSessionRejectionExpiresEngine(t *testing.T) {
	issuerSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "session-token",
			"user": map[string]string{
				"id":    "user-1",
				"email": "alice@example.com",
			},
		})
	}))
	t.Cleanup(issuerSrv.Close)

	reject := false
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if reject {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	t.Cleanup(apiSrv.Close)

	cfg := authgate.DefaultConfig()
	cfg.Issuer.BaseURL = issuerSrv.URL

	engine, err := authgate.New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	if _, err := engine.Login(context.Background(), "alice@example.com", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	client, err := New(apiSrv.URL, engine)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := client.Do(context.Background(), http.MethodGet, "/tasks", nil); err != nil {
		t.Fatalf("first call failed: %v", err)
	}

	reject = true
	_, err = client.Do(context.Background(), http.MethodGet, "/tasks", nil)
	if !errors.Is(err, authgate.ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}

	if got := engine.State(); got != authgate.StateExpired {
		t.Fatalf("expected StateExpired, got %v", got)
	}
	if engine.HasCredential() {
		t.Fatal("expected credential cleared by forced expiry")
	}

	// A follow-up call fails fast without reviving anything.
	if _, err := client.Do(context.Background(), http.MethodGet, "/tasks", nil); !errors.Is(err, authgate.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if got := engine.State(); got != authgate.StateExpired {
		t.Fatalf("expected state untouched by fail-fast call, got %v", got)
	}
}
