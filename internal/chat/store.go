// Copyright (c) 2026 StudyBuddy. All rights reserved.
// Author: arman@studybuddy.dev

package chat

import (
	"errors"
	"strings"
	"sync"
)

// ErrEmptyMessage is returned by [Store.AppendUser] when the text is blank.
//
// Callers treat it as a silent no-op, not a user-visible error.
var ErrEmptyMessage = errors.New("chat: empty message")

// Store defines the transcript persistence contract.
//
// All operations are parameterized by the caller's session ID. Authentication
// is enforced one layer up (middleware), so implementations may assume the ID
// belongs to a valid session.
type Store interface {
	// GetOrInit returns the transcript for sessionID, creating it with exactly
	// one system message if it does not exist yet.
	GetOrInit(sessionID string) Transcript

	// AppendUser appends a user turn and returns the updated transcript.
	// Returns [ErrEmptyMessage] (and mutates nothing) if text is blank.
	AppendUser(sessionID, text string) (Transcript, error)

	// AppendAssistant appends an assistant turn and returns the updated transcript.
	AppendAssistant(sessionID, text string) Transcript

	// Clear removes the transcript entirely, so the next GetOrInit
	// reconstructs a fresh system message. Also used on logout.
	Clear(sessionID string)
}

// MemoryStore implements [Store] with an in-process map.
//
// # Concurrency
//
// One RWMutex guards the whole mapping; every method returns a snapshot copy,
// so no caller can observe (or race on) a transcript mid-mutation. Mutations
// for different sessions touch disjoint map entries, and the lock is never
// held across a blocking call.
//
// # Volatility
//
// Transcripts are deliberately process-local: they die with the login session
// or the process, matching the cookie-based session lifecycle.
type MemoryStore struct {
	mu           sync.RWMutex
	systemPrompt string
	transcripts  map[string]Transcript
}

// NewMemoryStore creates an empty [MemoryStore].
//
// systemPrompt becomes the content of the single system message that opens
// every transcript.
func NewMemoryStore(systemPrompt string) *MemoryStore {
	return &MemoryStore{
		systemPrompt: systemPrompt,
		transcripts:  make(map[string]Transcript),
	}
}

// GetOrInit returns the transcript for sessionID, initializing it if absent.
func (store *MemoryStore) GetOrInit(sessionID string) Transcript {
	store.mu.Lock()
	defer store.mu.Unlock()

	return store.snapshot(store.getOrInitLocked(sessionID))
}

// AppendUser appends a user turn, rejecting blank text without mutation.
func (store *MemoryStore) AppendUser(sessionID, text string) (Transcript, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	transcript := append(store.getOrInitLocked(sessionID), Message{Role: RoleUser, Content: text})
	store.transcripts[sessionID] = transcript
	return store.snapshot(transcript), nil
}

// AppendAssistant appends an assistant turn.
func (store *MemoryStore) AppendAssistant(sessionID, text string) Transcript {
	store.mu.Lock()
	defer store.mu.Unlock()

	transcript := append(store.getOrInitLocked(sessionID), Message{Role: RoleAssistant, Content: text})
	store.transcripts[sessionID] = transcript
	return store.snapshot(transcript)
}

// Clear removes the transcript for sessionID entirely.
func (store *MemoryStore) Clear(sessionID string) {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.transcripts, sessionID)
}

// getOrInitLocked returns the live transcript slice, creating it with the
// system message if needed. Callers must hold the write lock.
func (store *MemoryStore) getOrInitLocked(sessionID string) Transcript {
	transcript, exists := store.transcripts[sessionID]
	if !exists {
		transcript = Transcript{{Role: RoleSystem, Content: store.systemPrompt}}
		store.transcripts[sessionID] = transcript
	}
	return transcript
}

// snapshot returns a defensive copy so callers never alias the live slice.
func (store *MemoryStore) snapshot(transcript Transcript) Transcript {
	copied := make(Transcript, len(transcript))
	copy(copied, transcript)
	return copied
}
