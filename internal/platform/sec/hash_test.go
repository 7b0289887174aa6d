// Copyright (c) 2026 StudyBuddy. All rights reserved.
// Author: arman@studybuddy.dev

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arman/studybuddy/internal/platform/sec"
)

/*
TestHashPassword_RoundTrip verifies that a hashed password verifies against
the original and nothing else.
*/
func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("pass")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	// The hash must never equal the plain text.
	assert.NotEqual(t, "pass", hash)

	assert.True(t, sec.CheckPasswordHash("pass", hash))
	assert.False(t, sec.CheckPasswordHash("wrong", hash))
	assert.False(t, sec.CheckPasswordHash("", hash))
}

/*
TestHashPassword_UniqueSalts verifies that hashing the same password twice
produces different hashes (per-hash salt).
*/
func TestHashPassword_UniqueSalts(t *testing.T) {
	first, err := sec.HashPassword("pass")
	require.NoError(t, err)

	second, err := sec.HashPassword("pass")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

/*
TestCheckPasswordHash_GarbageHash verifies that a malformed stored hash never
verifies.
*/
func TestCheckPasswordHash_GarbageHash(t *testing.T) {
	assert.False(t, sec.CheckPasswordHash("pass", "not-a-bcrypt-hash"))
}
