package internaldefs

import (
	authgate "github.com/MrEthical07/authgate"
)

// CounterDef defines a public type used by authgate APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   authgate.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by authgate APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   authgate.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session core.
var CounterDefs = []CounterDef{
	{ID: authgate.MetricLoginSuccess, Name: "authgate_login_success_total", Help: "Successful login attempts."},
	{ID: authgate.MetricLoginFailure, Name: "authgate_login_failure_total", Help: "Failed login attempts."},
	{ID: authgate.MetricRegisterSuccess, Name: "authgate_register_success_total", Help: "Successful registrations."},
	{ID: authgate.MetricRegisterFailure, Name: "authgate_register_failure_total", Help: "Failed registrations."},
	{ID: authgate.MetricLogout, Name: "authgate_logout_total", Help: "Logout operations."},
	{ID: authgate.MetricLogoutNotifyFailed, Name: "authgate_logout_notify_failed_total", Help: "Best-effort logout notifications that failed."},
	{ID: authgate.MetricResolveSuccess, Name: "authgate_resolve_success_total", Help: "Successful identity resolutions."},
	{ID: authgate.MetricResolveNoSession, Name: "authgate_resolve_no_session_total", Help: "Resolutions short-circuited by an absent credential."},
	{ID: authgate.MetricResolveRejected, Name: "authgate_resolve_rejected_total", Help: "Resolutions where the issuer rejected the credential."},
	{ID: authgate.MetricResolveError, Name: "authgate_resolve_error_total", Help: "Resolutions ending in a transport-class error."},
	{ID: authgate.MetricResolveSuperseded, Name: "authgate_resolve_superseded_total", Help: "Resolutions discarded because the session moved on."},
	{ID: authgate.MetricForcedExpiry, Name: "authgate_forced_expiry_total", Help: "Sessions force-expired after a mid-session credential rejection."},
	{ID: authgate.MetricRefreshSuccess, Name: "authgate_refresh_success_total", Help: "Successful silent credential refreshes."},
	{ID: authgate.MetricRefreshFailure, Name: "authgate_refresh_failure_total", Help: "Failed silent credential refreshes."},
	{ID: authgate.MetricGuardAllowed, Name: "authgate_guard_allowed_total", Help: "Navigations allowed by the route guard."},
	{ID: authgate.MetricGuardRedirectLogin, Name: "authgate_guard_redirect_login_total", Help: "Guard redirects to the login page."},
	{ID: authgate.MetricGuardRedirectLanding, Name: "authgate_guard_redirect_landing_total", Help: "Guard redirects away from auth-only pages."},
	{ID: authgate.MetricAPIAuthFailure, Name: "authgate_api_auth_failure_total", Help: "API calls rejected as unauthenticated by the resource server."},
	{ID: authgate.MetricAPIRequestError, Name: "authgate_api_request_error_total", Help: "API calls failing with business-level 4xx responses."},
	{ID: authgate.MetricAPITransportError, Name: "authgate_api_transport_error_total", Help: "API calls failing at the transport level."},
	{ID: authgate.MetricIdentityCacheHit, Name: "authgate_identity_cache_hit_total", Help: "Identity cache hits during resolution."},
	{ID: authgate.MetricIdentityCacheMiss, Name: "authgate_identity_cache_miss_total", Help: "Identity cache misses during resolution."},
}

// HistogramDefs is an exported constant or variable used by the session core.
var HistogramDefs = []HistogramDef{
	{ID: authgate.MetricResolveLatency, Name: "authgate_resolve_latency_seconds", Help: "Identity resolution latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the session core.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the session core.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
