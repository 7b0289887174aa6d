// Copyright (c) 2026 StudyBuddy. All rights reserved.
// Author: arman@studybuddy.dev

package chat_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arman/studybuddy/internal/chat"
)

const testPrompt = "You are a study buddy created by Arman."

/*
TestMemoryStore_GetOrInit verifies initialization and idempotency: two calls
without an intervening clear return the identical transcript.
*/
func TestMemoryStore_GetOrInit(t *testing.T) {
	store := chat.NewMemoryStore(testPrompt)

	first := store.GetOrInit("sid-1")
	require.Len(t, first, 1)
	assert.Equal(t, chat.RoleSystem, first[0].Role)
	assert.Equal(t, testPrompt, first[0].Content)

	second := store.GetOrInit("sid-1")
	assert.Equal(t, first, second)
}

/*
TestMemoryStore_AppendUser verifies the append and the blank-message guard.
*/
func TestMemoryStore_AppendUser(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"normal_text", "hello", false},
		{"empty", "", true},
		{"whitespace_only", "   \t", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := chat.NewMemoryStore(testPrompt)

			transcript, err := store.AppendUser("sid-1", tt.text)
			if tt.wantErr {
				require.ErrorIs(t, err, chat.ErrEmptyMessage)
				// No mutation: the next GetOrInit sees only the system message.
				assert.Len(t, store.GetOrInit("sid-1"), 1)
				return
			}

			require.NoError(t, err)
			require.Len(t, transcript, 2)
			assert.Equal(t, chat.Message{Role: chat.RoleUser, Content: tt.text}, transcript[1])
		})
	}
}

/*
TestMemoryStore_ClearThenInit verifies that clear removes the transcript
entirely and the next access reconstructs a fresh system message.
*/
func TestMemoryStore_ClearThenInit(t *testing.T) {
	store := chat.NewMemoryStore(testPrompt)

	_, err := store.AppendUser("sid-1", "hello")
	require.NoError(t, err)
	store.AppendAssistant("sid-1", "hi there")

	store.Clear("sid-1")

	fresh := store.GetOrInit("sid-1")
	require.Len(t, fresh, 1)
	assert.Equal(t, chat.RoleSystem, fresh[0].Role)
}

/*
TestMemoryStore_SessionIsolation verifies that transcripts are partitioned by
session: no mutation leaks across identities.
*/
func TestMemoryStore_SessionIsolation(t *testing.T) {
	store := chat.NewMemoryStore(testPrompt)

	_, err := store.AppendUser("sid-alice", "alice's secret")
	require.NoError(t, err)

	bob := store.GetOrInit("sid-bob")
	require.Len(t, bob, 1)
	for _, message := range bob {
		assert.NotContains(t, message.Content, "secret")
	}

	// Clearing bob must not touch alice.
	store.Clear("sid-bob")
	assert.Len(t, store.GetOrInit("sid-alice"), 2)
}

/*
TestMemoryStore_SnapshotIsolation verifies that a returned transcript is a
copy: mutating it does not corrupt the stored state.
*/
func TestMemoryStore_SnapshotIsolation(t *testing.T) {
	store := chat.NewMemoryStore(testPrompt)

	snapshot := store.GetOrInit("sid-1")
	snapshot[0].Content = "tampered"

	assert.Equal(t, testPrompt, store.GetOrInit("sid-1")[0].Content)
}

/*
TestMemoryStore_ConcurrentSessions hammers the store from many goroutines on
distinct sessions; the race detector guards the locking discipline and each
session must end with exactly its own turns.
*/
func TestMemoryStore_ConcurrentSessions(t *testing.T) {
	store := chat.NewMemoryStore(testPrompt)

	const sessions = 8
	const turns = 20

	var wg sync.WaitGroup
	for s := 0; s < sessions; s++ {
		wg.Add(1)
		go func(sid string) {
			defer wg.Done()
			for i := 0; i < turns; i++ {
				_, err := store.AppendUser(sid, "question")
				if err != nil && !errors.Is(err, chat.ErrEmptyMessage) {
					t.Error(err)
					return
				}
				store.AppendAssistant(sid, "answer")
			}
		}(string(rune('a' + s)))
	}
	wg.Wait()

	for s := 0; s < sessions; s++ {
		transcript := store.GetOrInit(string(rune('a' + s)))
		assert.Len(t, transcript, 1+2*turns)
	}
}
