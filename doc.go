// Package authgate provides a dual-token authentication engine: short-lived
// stateless JWT access tokens paired with long-lived refresh tokens that are
// revoked in bulk through a per-user token version counter.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authgate is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (LoginResult, AuthResult, MetricsSnapshot, etc.). The user
// database is an external collaborator behind the [UserStore] interface;
// reference implementations live under stores/. Token signing and parsing
// live in the jwt sub-package, refresh-token delivery in transport, and the
// HTTP gate in middleware.
//
// # What this package must NOT do
//
//   - Persist refresh tokens or any per-session server state. Revocation is
//     the store-side version counter, nothing else.
//   - Read or write HTTP requests. Refresh delivery goes through the
//     [RefreshChannel] interface; the Engine never sees a ResponseWriter.
//   - Import any sub-package that re-imports authgate (no import cycles).
//
// # Performance contract
//
// Validate is the hot path. It must not touch the user store and must
// complete with a single signature check plus claim decode. ValidateRefresh
// is allowed one store round-trip per call.
package authgate
