package authgate

import "time"

// SessionState is the authoritative enum describing the current auth status.
// It is derived state: it transitions only through [Engine] operations and is
// observed, never mutated, by UI consumers.
type SessionState uint8

const (
	// StateUnauthenticated means no credential is stored and no identity is
	// cached. Protected navigation redirects to login.
	StateUnauthenticated SessionState = iota
	// StateResolving means a stored credential is being exchanged for an
	// identity. Terminal within a bounded timeout.
	StateResolving
	// StateAuthenticated means a resolved Identity is cached.
	StateAuthenticated
	// StateExpired means the credential was present but rejected mid-session
	// (forced expiry). Distinct from StateUnauthenticated so the UI can say
	// "your session timed out" instead of "please log in".
	StateExpired
	// StateError means resolution failed for a transport-class reason. The
	// user is NOT treated as logged out; the UI shows a retry affordance.
	StateError
)

func (s SessionState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateResolving:
		return "resolving"
	case StateAuthenticated:
		return "authenticated"
	case StateExpired:
		return "expired"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Identity is the resolved user record cached by the [Engine]. It is owned
// exclusively by the engine once resolved and is always replaced wholesale on
// a successful resolution, never patched field by field.
type Identity struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	AvatarURL string
}

// DisplayName returns the best human-readable name for the identity.
func (i Identity) DisplayName() string {
	switch {
	case i.FirstName != "" && i.LastName != "":
		return i.FirstName + " " + i.LastName
	case i.FirstName != "":
		return i.FirstName
	default:
		return i.Email
	}
}

// RegisterRequest is the input for [Engine.Register].
type RegisterRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Snapshot is a point-in-time copy of the session state as observed by UI
// consumers. Identity is non-nil only in StateAuthenticated.
type Snapshot struct {
	State      SessionState
	Identity   *Identity
	Reason     string
	Generation uint64
	ChangedAt  time.Time
}

// StateChange describes one published transition. Every transition is
// delivered synchronously to subscribers exactly once, in transition order.
type StateChange struct {
	From SessionState
	To   SessionState
	// Identity is the identity after the transition (nil unless To is
	// StateAuthenticated).
	Identity *Identity
	// Reason carries the expiry or error reason for StateExpired/StateError.
	Reason     string
	Generation uint64
}

// Subscriber receives published state changes. Callbacks run synchronously
// inside the transition and must not call Engine mutators or block.
type Subscriber func(StateChange)
