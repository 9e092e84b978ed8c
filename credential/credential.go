package credential

import (
	"errors"
	"sync/atomic"
	"time"
)

// ErrStore is returned when a credential write or clear fails. Callers must
// surface it: a dropped write leaves the UI believing a login succeeded while
// the guard sees no credential.
var ErrStore = errors.New("credential store failure")

// Credential is the bearer value plus its known lifecycle metadata.
// RefreshToken is empty when the issuer hands out none; ExpiresAt is zero
// when the value carries no readable expiry. Only Token is persisted to the
// cookie — the refresh value never leaves process memory.
type Credential struct {
	Token        string
	RefreshToken string
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

// Expired reports whether the credential carries an expiry in the past. A
// zero expiry never reports expired; validity is the issuer's call.
func (c Credential) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(now)
}

// Store is the single place a credential lives. Implementations must be safe
// for concurrent use.
type Store interface {
	// Get returns the stored credential. ok is false when no credential is
	// stored.
	Get() (cred Credential, ok bool)
	// Set stores the credential, replacing any previous one.
	Set(cred Credential) error
	// Clear removes the stored credential. Clearing an empty store is not an
	// error.
	Clear() error
}

// MemoryStore keeps the credential in process memory behind an atomic
// pointer. Reads on the guard path are a single atomic load.
type MemoryStore struct {
	cred atomic.Pointer[Credential]
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get describes the get operation and its observable behavior.
//
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryStore) Get() (Credential, bool) {
	p := s.cred.Load()
	if p == nil {
		return Credential{}, false
	}
	return *p, true
}

// Set describes the set operation and its observable behavior.
//
// Set does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryStore) Set(cred Credential) error {
	if cred.Token == "" {
		return errors.New("empty credential token")
	}
	s.cred.Store(&cred)
	return nil
}

// Clear describes the clear operation and its observable behavior.
//
// Clear does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryStore) Clear() error {
	s.cred.Store(nil)
	return nil
}
