package authgate

import "errors"

var (
	// ErrUnauthenticated is an exported constant or variable used by the authentication engine.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidCredentials is an exported constant or variable used by the authentication engine.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is an exported constant or variable used by the authentication engine.
	ErrUserNotFound = errors.New("user not found")
	// ErrAccountExists is an exported constant or variable used by the authentication engine.
	ErrAccountExists = errors.New("account already exists")
	// ErrRegistrationInvalid is an exported constant or variable used by the authentication engine.
	ErrRegistrationInvalid = errors.New("invalid registration request")
	// ErrTokenInvalid is an exported constant or variable used by the authentication engine.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenRevoked is an exported constant or variable used by the authentication engine.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrListingUnsupported is an exported constant or variable used by the authentication engine.
	ErrListingUnsupported = errors.New("user store does not support listing")
	// ErrEngineNotReady is an exported constant or variable used by the authentication engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrStoreDuplicateEmail is an exported constant or variable used by the authentication engine.
	ErrStoreDuplicateEmail = errors.New("store duplicate email")
)
