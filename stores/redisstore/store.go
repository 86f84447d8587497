// Package redisstore is a Redis-backed reference implementation of the user
// store contract.
//
// Layout, under a configurable key prefix:
//
//	<prefix>:user:<id>      hash {email, password_hash, token_version}
//	<prefix>:email:<email>  string, the owning user id
//	<prefix>:next_id        counter for id allocation
//
// The email index is claimed with SETNX before the user hash is written, so
// two concurrent registrations for the same address cannot both succeed.
package redisstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/stormweyr/authgate"
)

const defaultPrefix = "authgate"

// Store defines a public type used by authgate APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	client *redis.Client
	prefix string
}

// New wraps an existing client. An empty prefix falls back to "authgate".
func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) userKey(userID int64) string {
	return fmt.Sprintf("%s:user:%d", s.prefix, userID)
}

func (s *Store) emailKey(email string) string {
	return s.prefix + ":email:" + email
}

func (s *Store) nextIDKey() string {
	return s.prefix + ":next_id"
}

// CreateUser describes the createuser operation and its observable behavior.
//
// CreateUser may return an error when input validation, dependency calls, or security checks fail.
// CreateUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) CreateUser(ctx context.Context, input authgate.CreateUserInput) (authgate.UserRecord, error) {
	userID, err := s.client.Incr(ctx, s.nextIDKey()).Result()
	if err != nil {
		return authgate.UserRecord{}, fmt.Errorf("allocate user id: %w", err)
	}

	claimed, err := s.client.SetNX(ctx, s.emailKey(input.Email), userID, 0).Result()
	if err != nil {
		return authgate.UserRecord{}, fmt.Errorf("claim email index: %w", err)
	}
	if !claimed {
		return authgate.UserRecord{}, authgate.ErrStoreDuplicateEmail
	}

	err = s.client.HSet(ctx, s.userKey(userID), map[string]any{
		"email":         input.Email,
		"password_hash": input.PasswordHash,
		"token_version": 0,
	}).Err()
	if err != nil {
		// Release the index claim so a retry after a transient failure is
		// not misreported as a duplicate account.
		s.client.Del(ctx, s.emailKey(input.Email))
		return authgate.UserRecord{}, fmt.Errorf("write user hash: %w", err)
	}

	return authgate.UserRecord{
		UserID:       userID,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		TokenVersion: 0,
	}, nil
}

// GetUserByEmail describes the getuserbyemail operation and its observable behavior.
//
// GetUserByEmail may return an error when input validation, dependency calls, or security checks fail.
// GetUserByEmail does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (authgate.UserRecord, error) {
	raw, err := s.client.Get(ctx, s.emailKey(email)).Result()
	if err == redis.Nil {
		return authgate.UserRecord{}, authgate.ErrUserNotFound
	}
	if err != nil {
		return authgate.UserRecord{}, fmt.Errorf("resolve email index: %w", err)
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return authgate.UserRecord{}, fmt.Errorf("parse indexed user id: %w", err)
	}

	return s.GetUserByID(ctx, userID)
}

// GetUserByID describes the getuserbyid operation and its observable behavior.
//
// GetUserByID may return an error when input validation, dependency calls, or security checks fail.
// GetUserByID does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) GetUserByID(ctx context.Context, userID int64) (authgate.UserRecord, error) {
	fields, err := s.client.HGetAll(ctx, s.userKey(userID)).Result()
	if err != nil {
		return authgate.UserRecord{}, fmt.Errorf("read user hash: %w", err)
	}
	if len(fields) == 0 {
		return authgate.UserRecord{}, authgate.ErrUserNotFound
	}

	version, err := strconv.ParseInt(fields["token_version"], 10, 64)
	if err != nil {
		return authgate.UserRecord{}, fmt.Errorf("parse token version: %w", err)
	}

	return authgate.UserRecord{
		UserID:       userID,
		Email:        fields["email"],
		PasswordHash: fields["password_hash"],
		TokenVersion: version,
	}, nil
}

// IncrementTokenVersion bumps the revocation counter with a single HINCRBY.
// Unknown ids are not an error; HINCRBY creates the hash and the orphaned
// counter is harmless because no credentials point at it.
func (s *Store) IncrementTokenVersion(ctx context.Context, userID int64) error {
	if err := s.client.HIncrBy(ctx, s.userKey(userID), "token_version", 1).Err(); err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}
	return nil
}

// ListUsers describes the listusers operation and its observable behavior.
//
// ListUsers may return an error when input validation, dependency calls, or security checks fail.
// ListUsers does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) ListUsers(ctx context.Context) ([]authgate.UserRecord, error) {
	pattern := s.prefix + ":user:*"
	idPrefix := s.prefix + ":user:"

	var out []authgate.UserRecord
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scan user keys: %w", err)
		}

		for _, key := range keys {
			userID, err := strconv.ParseInt(strings.TrimPrefix(key, idPrefix), 10, 64)
			if err != nil {
				continue
			}
			user, err := s.GetUserByID(ctx, userID)
			if err != nil {
				return nil, err
			}
			out = append(out, user)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}
	return out, nil
}
