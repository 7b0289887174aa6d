// Copyright (c) 2026 StudyBuddy. All rights reserved.
// Author: arman@studybuddy.dev

package auth

// CredentialStore defines the data access contract for account credentials.
//
// # Review Process
//
// This interface is placed in a separate file from user.go so entity changes
// and storage-contract changes can be reviewed independently.
//
// # Implementations
//
// The canonical implementation for StudyBuddy is the JSON-file-backed
// [FileCredentialStore].
type CredentialStore interface {
	// Lookup returns the stored password hash for the given username.
	//
	// The second return value reports whether the username exists. Callers
	// must not leak the distinction to clients (account enumeration).
	Lookup(username string) (string, bool)

	// Insert atomically performs check-then-insert for a new account and
	// persists the updated mapping durably before returning.
	//
	// Returns [apperr.UsernameTaken] if the username already exists. When two
	// registrations race on the same username, exactly one wins. Returns
	// [apperr.StorageFailure] if the durable write fails; in that case the
	// in-memory mapping is left unchanged.
	Insert(username, passwordHash string) error
}
