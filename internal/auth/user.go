// Copyright (c) 2026 StudyBuddy. All rights reserved.
// Author: arman@studybuddy.dev

// Package auth implements account credentials and the login-session lifecycle.
//
// # Architecture
//
//   - Service: Orchestrates business logic (Register, Login).
//   - CredentialStore: Abstracted interface over the durable username → hash mapping.
//   - Security: Bcrypt hashing and HS256-signed session cookies via [sec].
//
// The package ensures that credential data remains consistent and that no two
// accounts can ever collide on a username.
package auth

import "time"

// Account represents a registered StudyBuddy user.
//
// # Rules
//   - Username is unique and case-sensitive.
//   - PasswordHash is generated via bcrypt exclusively by [Service].
//   - An account, once created, is immutable (no password change flow yet).
type Account struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	CreatedAt    time.Time `json:"created_at"`
}

// SessionIdentity is the opaque handle correlating requests to one
// authenticated account for the lifetime of a single login.
//
// # Lifecycle
//
// A fresh SessionID is minted on every login or registration, so the
// conversation transcript keyed by it is per-login-session, not per-account.
// The identity travels as a signed cookie and dies on logout or restart.
type SessionIdentity struct {
	SessionID string `json:"session_id"`
	Username  string `json:"username"`
}
