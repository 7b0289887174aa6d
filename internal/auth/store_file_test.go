// Copyright (c) 2026 StudyBuddy. All rights reserved.
// Author: arman@studybuddy.dev

package auth_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arman/studybuddy/internal/auth"
	"github.com/arman/studybuddy/internal/platform/apperr"
	"github.com/arman/studybuddy/internal/platform/sec"
)

/*
TestFileCredentialStore_SeedsDemoAccount verifies that a missing credential
file yields a usable store with the seeded demo account.
*/
func TestFileCredentialStore_SeedsDemoAccount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")

	store, err := auth.NewFileCredentialStore(path)
	require.NoError(t, err)

	hash, exists := store.Lookup(auth.DemoUsername)
	require.True(t, exists)
	assert.True(t, sec.CheckPasswordHash(auth.DemoPassword, hash))
}

/*
TestFileCredentialStore_CorruptFileIsFatal verifies that an unparseable
credential file is rejected at construction time.
*/
func TestFileCredentialStore_CorruptFileIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := auth.NewFileCredentialStore(path)
	assert.Error(t, err)
}

/*
TestFileCredentialStore_InsertPersists verifies that an insert survives a
reload from disk and that the written file is a plain username → hash mapping.
*/
func TestFileCredentialStore_InsertPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")

	store, err := auth.NewFileCredentialStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Insert("alice", "hash-for-alice"))

	// The durable file must be valid JSON of the expected shape.
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var onDisk map[string]string
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, "hash-for-alice", onDisk["alice"])

	// A second store loading the same file sees the account.
	reloaded, err := auth.NewFileCredentialStore(path)
	require.NoError(t, err)

	hash, exists := reloaded.Lookup("alice")
	require.True(t, exists)
	assert.Equal(t, "hash-for-alice", hash)
}

/*
TestFileCredentialStore_DuplicateInsert verifies the check-then-insert
contract: the second insert of a username always loses.
*/
func TestFileCredentialStore_DuplicateInsert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")

	store, err := auth.NewFileCredentialStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Insert("alice", "first-hash"))

	err = store.Insert("alice", "second-hash")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "USERNAME_TAKEN", ae.Code)

	// The original hash is untouched.
	hash, _ := store.Lookup("alice")
	assert.Equal(t, "first-hash", hash)
}

/*
TestFileCredentialStore_ConcurrentRegistrations verifies that of N racing
inserts for the same username exactly one succeeds.
*/
func TestFileCredentialStore_ConcurrentRegistrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")

	store, err := auth.NewFileCredentialStore(path)
	require.NoError(t, err)

	const racers = 8
	var wg sync.WaitGroup
	results := make(chan error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.Insert("contested", "hash")
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
		} else {
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "USERNAME_TAKEN", ae.Code)
		}
	}
	assert.Equal(t, 1, wins)
}
