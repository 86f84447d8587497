// Package sqlstore is a SQLite-backed reference implementation of the user
// store contract. The email column carries a UNIQUE constraint; constraint
// violations surface as the duplicate-email sentinel so the engine can tell
// duplicates apart from storage failures.
package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/stormweyr/authgate"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	token_version INTEGER NOT NULL DEFAULT 0
)`

type userRow struct {
	ID           int64  `db:"id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	TokenVersion int64  `db:"token_version"`
}

// Store defines a public type used by authgate APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	db *sqlx.DB
}

// Open connects to the SQLite database at dsn and ensures the users table
// exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return New(ctx, db)
}

// New wraps an existing connection and ensures the users table exists.
func New(ctx context.Context, db *sqlx.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("nil database handle")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create users table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close describes the close operation and its observable behavior.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetUserByEmail describes the getuserbyemail operation and its observable behavior.
//
// GetUserByEmail may return an error when input validation, dependency calls, or security checks fail.
// GetUserByEmail does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (authgate.UserRecord, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row,
		"SELECT id, email, password_hash, token_version FROM users WHERE email = ?", email)
	if err != nil {
		return authgate.UserRecord{}, fmt.Errorf("get user by email: %w", err)
	}
	return recordFromRow(row), nil
}

// GetUserByID describes the getuserbyid operation and its observable behavior.
//
// GetUserByID may return an error when input validation, dependency calls, or security checks fail.
// GetUserByID does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) GetUserByID(ctx context.Context, userID int64) (authgate.UserRecord, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row,
		"SELECT id, email, password_hash, token_version FROM users WHERE id = ?", userID)
	if err != nil {
		return authgate.UserRecord{}, fmt.Errorf("get user by id: %w", err)
	}
	return recordFromRow(row), nil
}

// CreateUser describes the createuser operation and its observable behavior.
//
// CreateUser may return an error when input validation, dependency calls, or security checks fail.
// CreateUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) CreateUser(ctx context.Context, input authgate.CreateUserInput) (authgate.UserRecord, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, token_version) VALUES (?, ?, 0)",
		input.Email, input.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return authgate.UserRecord{}, authgate.ErrStoreDuplicateEmail
		}
		return authgate.UserRecord{}, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return authgate.UserRecord{}, fmt.Errorf("resolve inserted id: %w", err)
	}

	return authgate.UserRecord{
		UserID:       id,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		TokenVersion: 0,
	}, nil
}

// IncrementTokenVersion bumps the revocation counter in a single UPDATE.
// An unknown id matches zero rows, which still counts as success.
func (s *Store) IncrementTokenVersion(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET token_version = token_version + 1 WHERE id = ?", userID)
	if err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}
	return nil
}

// ListUsers describes the listusers operation and its observable behavior.
//
// ListUsers may return an error when input validation, dependency calls, or security checks fail.
// ListUsers does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) ListUsers(ctx context.Context) ([]authgate.UserRecord, error) {
	var rows []userRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT id, email, password_hash, token_version FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]authgate.UserRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, recordFromRow(row))
	}
	return out, nil
}

func recordFromRow(row userRow) authgate.UserRecord {
	return authgate.UserRecord{
		UserID:       row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		TokenVersion: row.TokenVersion,
	}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
