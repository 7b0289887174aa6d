// Copyright (c) 2026 StudyBuddy. All rights reserved.
// Author: arman@studybuddy.dev

package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/arman/studybuddy/internal/platform/apperr"
	"github.com/arman/studybuddy/internal/platform/ctxutil"
	"github.com/arman/studybuddy/internal/platform/sec"
)

// Service implements the authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed carefully.
type Service struct {
	credentials CredentialStore
}

// NewService constructs a new [Service] with its store dependency.
func NewService(credentials CredentialStore) *Service {
	return &Service{credentials: credentials}
}

/*
Login validates credentials and establishes a fresh session identity.

Description: Looks up the account and performs a constant-time bcrypt
comparison against the stored hash.

Parameters:
  - ctx: context.Context
  - username: string
  - password: string

Returns:
  - *SessionIdentity: Fresh identity with a newly minted session ID
  - error: [apperr.InvalidCredentials] on unknown username OR wrong password
*/
func (service *Service) Login(ctx context.Context, username, password string) (*SessionIdentity, error) {
	hash, exists := service.credentials.Lookup(username)

	// Unknown user and wrong password produce the exact same error so the
	// response leaks nothing about which usernames exist.
	if !exists || !sec.CheckPasswordHash(password, hash) {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "login_rejected",
			slog.String("username", username),
		)
		return nil, apperr.InvalidCredentials()
	}

	return service.newIdentity(username)
}

/*
Register creates a new account, persists it durably, and logs it in.

Description: Hashes the password, performs an atomic check-then-insert on the
credential store, and on success behaves exactly like Login — no separate
login step is required after registration.

Parameters:
  - ctx: context.Context
  - username: string
  - password: string

Returns:
  - *SessionIdentity: Fresh identity for the new account
  - error: [apperr.UsernameTaken], [apperr.StorageFailure], or validation errors
*/
func (service *Service) Register(ctx context.Context, username, password string) (*SessionIdentity, error) {
	hash, err := sec.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("auth: register hash failed: %w", err)
	}

	// The store serializes check-then-insert, so of two racing registrations
	// for the same name exactly one reaches this point without an error.
	if err := service.credentials.Insert(username, hash); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "account_registered",
		slog.String("username", username),
	)

	return service.newIdentity(username)
}

// newIdentity mints a [SessionIdentity] with a time-sortable session ID.
func (service *Service) newIdentity(username string) (*SessionIdentity, error) {
	sessionID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("auth: failed to mint session id: %w", err)
	}

	return &SessionIdentity{
		SessionID: sessionID.String(),
		Username:  username,
	}, nil
}
