// Copyright (c) 2026 StudyBuddy. All rights reserved.
// Author: arman@studybuddy.dev

package llm

import (
	"context"
	"sync"

	"github.com/arman/studybuddy/internal/chat"
)

// MockCompleter is a canned [chat.Completer] for tests and offline development.
type MockCompleter struct {
	// Reply is returned verbatim when Err is nil.
	Reply string

	// Err, when set, makes every call fail.
	Err error

	mu    sync.Mutex
	calls []chat.Transcript
}

// Complete records the transcript it was called with and returns the canned result.
func (mock *MockCompleter) Complete(_ context.Context, transcript chat.Transcript) (string, error) {
	mock.mu.Lock()
	defer mock.mu.Unlock()

	snapshot := make(chat.Transcript, len(transcript))
	copy(snapshot, transcript)
	mock.calls = append(mock.calls, snapshot)

	if mock.Err != nil {
		return "", mock.Err
	}
	return mock.Reply, nil
}

// Calls returns every transcript the mock has been invoked with.
func (mock *MockCompleter) Calls() []chat.Transcript {
	mock.mu.Lock()
	defer mock.mu.Unlock()

	return append([]chat.Transcript(nil), mock.calls...)
}
