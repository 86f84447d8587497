package internaldefs

import (
	authgate "github.com/stormweyr/authgate"
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

// CounterDefs is an exported constant or variable used by the authentication engine.
var CounterDefs = []CounterDef{
	{ID: authgate.MetricLoginSuccess, Name: "authgate_login_success_total", Help: "Successful login attempts."},
	{ID: authgate.MetricLoginFailure, Name: "authgate_login_failure_total", Help: "Failed login attempts."},
	{ID: authgate.MetricLogout, Name: "authgate_logout_total", Help: "Logout operations."},
	{ID: authgate.MetricRegisterSuccess, Name: "authgate_register_success_total", Help: "Successful registrations."},
	{ID: authgate.MetricRegisterDuplicate, Name: "authgate_register_duplicate_total", Help: "Registrations rejected as duplicate."},
	{ID: authgate.MetricRegisterStorageFailure, Name: "authgate_register_storage_failure_total", Help: "Registrations that failed in the user store."},
	{ID: authgate.MetricRevokeAll, Name: "authgate_revoke_all_total", Help: "Revoke-all-sessions operations."},
	{ID: authgate.MetricRefreshValidated, Name: "authgate_refresh_validated_total", Help: "Refresh tokens accepted for renewal."},
	{ID: authgate.MetricRefreshRejected, Name: "authgate_refresh_rejected_total", Help: "Refresh tokens rejected."},
}

// HistogramDefs is an exported constant or variable used by the authentication engine.
var HistogramDefs = []HistogramDef{
	{ID: authgate.MetricValidateLatency, Name: "authgate_validate_latency_seconds", Help: "Validate latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the authentication engine.
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

// HistogramBoundSuffix is an exported constant or variable used by the authentication engine.
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
