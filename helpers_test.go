package authgate

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/authgate/credential"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// stubIssuer is a configurable in-process issuer. Zero value behavior: one
// valid token, one user, every endpoint honest.
type stubIssuer struct {
	mu sync.Mutex

	token        string
	refreshed    string
	user         map[string]any
	loginStatus  int
	profileDelay time.Duration

	profileStatus int
	logoutStatus  int
	refreshStatus int

	loginCalls   int
	profileCalls int
	logoutCalls  int
	refreshCalls int

	srv *httptest.Server
}

func newStubIssuer() *stubIssuer {
	return &stubIssuer{
		token:     "valid-token",
		refreshed: "refreshed-token",
		user: map[string]any{
			"id":        "user-1",
			"email":     "alice@example.com",
			"firstName": "Alice",
			"lastName":  "Example",
		},
	}
}

func (s *stubIssuer) start(t *testing.T) string {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", s.handleAuth(&s.loginCalls, func() int { return s.loginStatus }, func() string { return s.token }))
	mux.HandleFunc("/auth/register", s.handleAuth(&s.loginCalls, func() int { return s.loginStatus }, func() string { return s.token }))
	mux.HandleFunc("/auth/refresh", s.handleAuth(&s.refreshCalls, func() int { return s.refreshStatus }, func() string { return s.refreshed }))
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		s.logoutCalls++
		status := s.logoutStatus
		s.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/users/profile", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.profileCalls++
		status := s.profileStatus
		delay := s.profileDelay
		valid := "Bearer " + s.token
		user := s.user
		s.mu.Unlock()

		if delay > 0 {
			time.Sleep(delay)
		}
		if status != 0 {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "profile unavailable"})
			return
		}
		if r.Header.Get("Authorization") != valid {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(user)
	})

	s.srv = httptest.NewServer(mux)
	t.Cleanup(s.srv.Close)
	return s.srv.URL
}

func (s *stubIssuer) handleAuth(calls *int, status func() int, token func() string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		*calls++
		st := status()
		tok := token()
		user := s.user
		s.mu.Unlock()

		if st != 0 {
			w.WriteHeader(st)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"token": tok, "user": user})
	}
}

func (s *stubIssuer) set(fn func(*stubIssuer)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

func (s *stubIssuer) counts() (login, profile, logout, refresh int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loginCalls, s.profileCalls, s.logoutCalls, s.refreshCalls
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis failed: %v", err)
	}
	t.Cleanup(mr.Close)

	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func testConfig(baseURL string) Config {
	cfg := DefaultConfig()
	cfg.Issuer.BaseURL = baseURL
	cfg.Resolver.Timeout = 2 * time.Second
	return cfg
}

func newTestEngine(t *testing.T, mutate func(*Config)) (*Engine, *stubIssuer) {
	t.Helper()

	stub := newStubIssuer()
	cfg := testConfig(stub.start(t))
	if mutate != nil {
		mutate(&cfg)
	}

	engine, err := New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, stub
}

func seedCredential(t *testing.T, e *Engine, token string) {
	t.Helper()
	if err := e.Credentials().Set(credential.Credential{Token: token}); err != nil {
		t.Fatalf("seed credential failed: %v", err)
	}
}
