// Copyright (c) 2026 StudyBuddy. All rights reserved.
// Author: arman@studybuddy.dev

// Package chat implements the session-scoped conversation state machine.
//
// # Architecture
//
//   - Store: Per-session transcript mapping with explicit lifecycle
//     (init, append, clear).
//   - Service: The chat orchestrator — composes the store with the external
//     completion capability and defines the failure contract for a user turn.
//
// Transcripts are keyed by session ID, never shared between sessions, and die
// with the login session (or the process).
package chat

// Role identifies the author of a transcript message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents one turn in a conversation transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Transcript is the ordered sequence of messages for one login session.
//
// # Invariants
//
//   - The first element is always the single system message, inserted exactly
//     once at initialization and never by user input.
//   - After the system message, user and assistant turns strictly alternate:
//     every user append is followed by exactly one assistant append, even when
//     the completion capability fails.
type Transcript []Message
