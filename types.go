package authgate

import "context"

// UserRecord is the full account record returned by [UserStore]. It carries
// the credential hash and the token version counter that stamps every
// refresh token issued for the user.
type UserRecord struct {
	UserID       int64
	Email        string
	PasswordHash string
	TokenVersion int64
}

// CreateUserInput is the input for [UserStore.CreateUser]. The store assigns
// the user ID and initializes TokenVersion to zero.
type CreateUserInput struct {
	Email        string
	PasswordHash string
}

// UserStore is the interface that callers must implement to integrate
// authgate with their user database. It covers credential lookup, account
// creation, and the atomic token-version increment that invalidates all
// outstanding refresh tokens for a user.
//
// CreateUser must return [ErrStoreDuplicateEmail] (possibly wrapped) when the
// email is already taken, so the Engine can distinguish duplicates from
// storage failures. IncrementTokenVersion must not fail for unknown IDs.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (UserRecord, error)
	GetUserByID(ctx context.Context, userID int64) (UserRecord, error)
	CreateUser(ctx context.Context, input CreateUserInput) (UserRecord, error)
	IncrementTokenVersion(ctx context.Context, userID int64) error
}

// UserLister is an optional capability interface for stores that can
// enumerate accounts. [Engine.ListUsers] returns [ErrListingUnsupported]
// when the configured store does not implement it.
type UserLister interface {
	ListUsers(ctx context.Context) ([]UserRecord, error)
}

// RefreshChannel delivers a refresh token to the client out of band from the
// response body. Send with an empty token clears any previously delivered
// token (logout). Implementations live in the transport sub-package.
type RefreshChannel interface {
	Send(token string)
}

// LoginResult is returned by [Engine.Login]. The refresh token is also
// handed to the [RefreshChannel] when one is bound to the call.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         UserRecord
}

// AuthResult is returned by [Engine.Validate]. It contains the authenticated
// user's ID decoded from the access token.
type AuthResult struct {
	UserID int64
}
