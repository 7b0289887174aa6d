// Copyright (c) 2026 StudyBuddy. All rights reserved.
// Author: arman@studybuddy.dev

package chat

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/arman/studybuddy/internal/platform/ctxutil"
)

// Completer is the external completion capability: given an ordered
// transcript, return a reply or fail.
//
// Implementations must respect context cancellation; the orchestrator bounds
// every invocation with a timeout.
type Completer interface {
	Complete(ctx context.Context, transcript Transcript) (string, error)
}

// completionErrorPrefix opens the assistant turn synthesized when the
// completion capability fails. The failure is shown to the end user as if the
// assistant "said" it, keeping the transcript renderable.
const completionErrorPrefix = "Error: Failed to get response from the completion service. "

// sessionLock serializes transcript mutations for one session.
//
// holds and retired are guarded by [Service.turnMu], never by mu itself:
// holds counts goroutines between acquire and release, and retired marks a
// lock whose session has been destroyed. The map entry is dropped when the
// last holder releases a retired lock, so a waiter never ends up on a mutex
// that is no longer the one in the map.
type sessionLock struct {
	mu      sync.Mutex
	holds   int
	retired bool
}

// Service is the chat orchestrator: it mutates the transcript once per user
// turn, delegating the reply to the external completion capability.
type Service struct {
	store     Store
	completer Completer
	timeout   time.Duration

	// turnLocks serializes turns within one session. Two conflicting writes
	// from the same session resolve to last-complete-write-wins, never an
	// interleaved transcript. Other sessions are unaffected while a
	// completion call is in flight.
	turnMu    sync.Mutex
	turnLocks map[string]*sessionLock
}

// NewService constructs the orchestrator.
//
// timeout bounds each completion invocation; an exceeded deadline follows the
// same failure path as a remote error.
func NewService(store Store, completer Completer, timeout time.Duration) *Service {
	return &Service{
		store:     store,
		completer: completer,
		timeout:   timeout,
		turnLocks: make(map[string]*sessionLock),
	}
}

/*
HandleUserTurn executes one full user turn against the transcript.

Description: Appends the user message, invokes the completion capability with
the full transcript as context, and appends the reply. A failed or timed-out
completion does NOT propagate as an error — it is synthesized into an
assistant turn so every user turn is followed by exactly one assistant turn.

Parameters:
  - ctx: context.Context
  - sessionID: string
  - userText: string

Returns:
  - Transcript: The updated transcript (unchanged when userText is blank)
*/
func (service *Service) HandleUserTurn(ctx context.Context, sessionID, userText string) Transcript {

	// Blank input matches the UI affordance of "nothing to send": a no-op.
	if strings.TrimSpace(userText) == "" {
		return service.store.GetOrInit(sessionID)
	}

	// Serialize turns within this session only. DestroyTranscript takes the
	// same lock, so a clear can never land between the two appends of a turn.
	lock := service.acquire(sessionID)
	defer service.release(sessionID, lock, false)

	transcript, err := service.store.AppendUser(sessionID, userText)
	if err != nil {
		// Unreachable after the blank check above, but the contract holds:
		// an empty message never mutates the transcript.
		return service.store.GetOrInit(sessionID)
	}

	reply := service.complete(ctx, transcript)
	return service.store.AppendAssistant(sessionID, reply)
}

// complete invokes the completion capability with a bounded timeout and
// converts any failure into a user-visible reply string.
//
// There is no retry here: a failed call consumes the turn and surfaces once
// as an inline error message.
func (service *Service) complete(ctx context.Context, transcript Transcript) string {
	callCtx, cancel := context.WithTimeout(ctx, service.timeout)
	defer cancel()

	reply, err := service.completer.Complete(callCtx, transcript)
	if err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "completion_failed",
			slog.Any("error", err),
			slog.Int("transcript_len", len(transcript)),
		)
		return completionErrorPrefix + err.Error()
	}

	return strings.TrimSpace(reply)
}

// DestroyTranscript removes the session's transcript and retires its turn
// mutex (clear or logout).
//
// It waits for any in-flight turn on the session first, so a racing turn can
// never deposit an assistant reply into a just-cleared transcript. The mutex
// is dropped from the lock map once its last holder releases, keeping the map
// from growing with dead sessions.
func (service *Service) DestroyTranscript(sessionID string) {
	lock := service.acquire(sessionID)
	service.store.Clear(sessionID)
	service.release(sessionID, lock, true)
}

// acquire returns the session's turn lock, locked, creating it on first use.
func (service *Service) acquire(sessionID string) *sessionLock {
	service.turnMu.Lock()
	lock, exists := service.turnLocks[sessionID]
	if !exists {
		lock = &sessionLock{}
		service.turnLocks[sessionID] = lock
	}
	lock.holds++
	service.turnMu.Unlock()

	lock.mu.Lock()
	return lock
}

// release unlocks the session's turn lock. retire marks the session destroyed;
// the map entry is removed when the last holder of a retired lock releases.
func (service *Service) release(sessionID string, lock *sessionLock, retire bool) {
	lock.mu.Unlock()

	service.turnMu.Lock()
	defer service.turnMu.Unlock()

	lock.holds--
	if retire {
		lock.retired = true
	}
	if lock.retired && lock.holds == 0 {
		delete(service.turnLocks, sessionID)
	}
}
