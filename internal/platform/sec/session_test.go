// Copyright (c) 2026 StudyBuddy. All rights reserved.
// Author: arman@studybuddy.dev

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arman/studybuddy/internal/platform/sec"
)

/*
TestSessionSigner_RoundTrip verifies that a signed token carries its claims
back through verification.
*/
func TestSessionSigner_RoundTrip(t *testing.T) {
	signer, err := sec.NewSessionSigner("test-issuer")
	require.NoError(t, err)

	token, err := signer.Sign("sid-123", "alice", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "sid-123", claims.SessionID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "test-issuer", claims.Issuer)
}

/*
TestSessionSigner_KeyRotation verifies that a token signed by one process
incarnation is rejected by another — all sessions die on restart.
*/
func TestSessionSigner_KeyRotation(t *testing.T) {
	oldSigner, err := sec.NewSessionSigner("test-issuer")
	require.NoError(t, err)

	token, err := oldSigner.Sign("sid-123", "alice", time.Hour)
	require.NoError(t, err)

	newSigner, err := sec.NewSessionSigner("test-issuer")
	require.NoError(t, err)

	_, err = newSigner.Verify(token)
	assert.Error(t, err)
}

/*
TestSessionSigner_Expiry verifies that an expired token fails verification.
*/
func TestSessionSigner_Expiry(t *testing.T) {
	signer, err := sec.NewSessionSigner("test-issuer")
	require.NoError(t, err)

	token, err := signer.Sign("sid-123", "alice", -time.Minute)
	require.NoError(t, err)

	_, err = signer.Verify(token)
	assert.Error(t, err)
}

/*
TestSessionSigner_Tampered verifies that a modified token fails verification.
*/
func TestSessionSigner_Tampered(t *testing.T) {
	signer, err := sec.NewSessionSigner("test-issuer")
	require.NoError(t, err)

	token, err := signer.Sign("sid-123", "alice", time.Hour)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = signer.Verify(tampered)
	assert.Error(t, err)
}
