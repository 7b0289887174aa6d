// Copyright (c) 2026 StudyBuddy. All rights reserved.
// Author: arman@studybuddy.dev

package auth_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arman/studybuddy/internal/auth"
	"github.com/arman/studybuddy/internal/platform/apperr"
)

// newTestService builds a Service over a file store rooted in a temp dir.
func newTestService(t *testing.T) *auth.Service {
	t.Helper()

	store, err := auth.NewFileCredentialStore(filepath.Join(t.TempDir(), "users.json"))
	require.NoError(t, err)

	return auth.NewService(store)
}

/*
TestService_RegisterThenLogin verifies the core credential round trip:
login succeeds iff the supplied password matches the one used at registration.
*/
func TestService_RegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t)

	identity, err := service.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "alice", identity.Username)
	assert.NotEmpty(t, identity.SessionID)

	// Correct password logs in.
	loggedIn, err := service.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", loggedIn.Username)

	// A fresh session ID is minted per login.
	assert.NotEqual(t, identity.SessionID, loggedIn.SessionID)

	// Wrong password fails.
	_, err = service.Login(ctx, "alice", "wrong")
	require.Error(t, err)
	assert.Equal(t, "INVALID_CREDENTIALS", apperr.As(err).Code)
}

/*
TestService_LoginUnknownUser verifies that an unknown username fails with the
same error as a wrong password (no account enumeration).
*/
func TestService_LoginUnknownUser(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t)

	_, err := service.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	unknownErr := func() *apperr.AppError {
		_, err := service.Login(ctx, "nobody", "pw1")
		require.Error(t, err)
		return apperr.As(err)
	}()

	wrongPassErr := func() *apperr.AppError {
		_, err := service.Login(ctx, "alice", "wrong")
		require.Error(t, err)
		return apperr.As(err)
	}()

	assert.Equal(t, unknownErr.Code, wrongPassErr.Code)
	assert.Equal(t, unknownErr.Message, wrongPassErr.Message)
}

/*
TestService_RegisterDuplicate verifies that a second registration with the
same username always yields USERNAME_TAKEN, regardless of password.
*/
func TestService_RegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t)

	_, err := service.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
	}{
		{"same_password", "pw1"},
		{"different_password", "completely-different"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Register(ctx, "alice", tt.password)
			require.Error(t, err)
			assert.Equal(t, "USERNAME_TAKEN", apperr.As(err).Code)
		})
	}
}

/*
TestService_DemoAccountLogin verifies the out-of-the-box demo account works.
*/
func TestService_DemoAccountLogin(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t)

	identity, err := service.Login(ctx, auth.DemoUsername, auth.DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, auth.DemoUsername, identity.Username)
}
