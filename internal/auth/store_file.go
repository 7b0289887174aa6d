// Copyright (c) 2026 StudyBuddy. All rights reserved.
// Author: arman@studybuddy.dev

package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/arman/studybuddy/internal/platform/apperr"
	"github.com/arman/studybuddy/internal/platform/sec"
)

// DemoUsername and DemoPassword seed the credential file so the system is
// usable out of the box when no durable state exists yet.
const (
	DemoUsername = "demo"
	DemoPassword = "pass"
)

// FileCredentialStore implements [CredentialStore] on top of a single JSON
// file mapping username → bcrypt hash.
//
// # Durability Model
//
// The file is read entirely at startup and rewritten entirely on every
// insert. Writes go to a temporary file in the same directory followed by a
// rename, so a reader never observes a partially written mapping.
//
// # Concurrency
//
// One mutex guards both the in-memory mapping and the file. Check-then-insert
// therefore happens atomically with respect to concurrent registrations.
type FileCredentialStore struct {
	mu    sync.RWMutex
	path  string
	users map[string]string
}

// NewFileCredentialStore loads the credential mapping from path.
//
// If the file does not exist, the store starts with a seeded demo account
// ("demo"/"pass") held in memory only; it is written through on the first
// insert. If the file exists but cannot be read or parsed, an error is
// returned — the process must not start with an unknown credential set.
func NewFileCredentialStore(path string) (*FileCredentialStore, error) {
	store := &FileCredentialStore{
		path:  path,
		users: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Fresh install: seed the demo account.
		demoHash, hashErr := sec.HashPassword(DemoPassword)
		if hashErr != nil {
			return nil, fmt.Errorf("auth: failed to seed demo account: %w", hashErr)
		}
		store.users[DemoUsername] = demoHash
		return store, nil

	case err != nil:
		return nil, fmt.Errorf("auth: failed to read credential file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &store.users); err != nil {
		return nil, fmt.Errorf("auth: credential file %s is corrupt: %w", path, err)
	}

	return store, nil
}

// Lookup returns the stored password hash for the given username.
func (store *FileCredentialStore) Lookup(username string) (string, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	hash, exists := store.users[username]
	return hash, exists
}

// Insert atomically registers a new username → hash pair and persists it.
func (store *FileCredentialStore) Insert(username, passwordHash string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, exists := store.users[username]; exists {
		return apperr.UsernameTaken()
	}

	// Persist on a copy first. The live mapping only changes after the file
	// write succeeds, so a failed persist leaves no un-durable account behind.
	next := make(map[string]string, len(store.users)+1)
	for name, hash := range store.users {
		next[name] = hash
	}
	next[username] = passwordHash

	if err := store.persist(next); err != nil {
		return apperr.StorageFailure(err)
	}

	store.users = next
	return nil
}

// persist rewrites the whole mapping atomically (temp file + rename).
// Callers must hold the write lock.
func (store *FileCredentialStore) persist(users map[string]string) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("auth: failed to encode credential file: %w", err)
	}

	directory := filepath.Dir(store.path)
	tmp, err := os.CreateTemp(directory, ".users-*.json")
	if err != nil {
		return fmt.Errorf("auth: failed to create temp credential file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("auth: failed to write credential file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("auth: failed to close credential file: %w", err)
	}

	if err := os.Rename(tmpName, store.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("auth: failed to replace credential file: %w", err)
	}

	return nil
}
