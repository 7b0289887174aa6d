// Copyright (c) 2026 StudyBuddy. All rights reserved.
// Author: arman@studybuddy.dev

// Package llm provides the client for the remote completion endpoint.
//
// The endpoint speaks the OpenAI-compatible chat completions protocol, so the
// client works unchanged against OpenAI, OpenRouter, or any local gateway
// exposing the same API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/arman/studybuddy/internal/chat"
)

// Configuration constants for the completions API.
const (
	// DefaultBaseURL is the base URL for the OpenAI API.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 45 * time.Second

	// maxResponseSize is the maximum allowed response body size.
	// A hard limit keeps a misbehaving endpoint from exhausting memory.
	maxResponseSize = 10 * 1024 * 1024
)

// ErrNotConfigured indicates the API key is not set.
var ErrNotConfigured = errors.New("llm: API key not configured")

// APIError represents an error response from the completions API.
type APIError struct {
	Code    string
	Message string
	Status  int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("completion error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("completion error (HTTP %d): %s", e.Status, e.Message)
}

// chatMessage is the wire representation of one transcript message.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the request payload for the chat completions endpoint.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// chatResponse is the response payload from the chat completions endpoint.
type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// apiErrorResponse is the error envelope returned by the API.
type apiErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client talks to an OpenAI-compatible chat completions endpoint.
//
// It implements [chat.Completer]. There is no retry logic: the orchestrator's
// failure contract consumes a failed call as a single inline error turn.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates a completion client.
//
// If the API key is empty the client is still created, but Complete fails
// with [ErrNotConfigured] — the rest of the app (login, transcript, clear)
// keeps working and the failure surfaces inline in the conversation.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Complete sends the full transcript as context and returns the reply text.
func (client *Client) Complete(ctx context.Context, transcript chat.Transcript) (string, error) {
	if client.apiKey == "" {
		return "", ErrNotConfigured
	}

	payload := chatRequest{
		Model:    client.model,
		Messages: make([]chatMessage, 0, len(transcript)),
	}
	for _, message := range transcript {
		payload.Messages = append(payload.Messages, chatMessage{
			Role:    string(message.Role),
			Content: message.Content,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("llm: failed to encode request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llm: failed to build request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+client.apiKey)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("llm: request failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("llm: failed to read response: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		return "", client.decodeError(response.StatusCode, responseBody)
	}

	var completion chatResponse
	if err := json.Unmarshal(responseBody, &completion); err != nil {
		return "", fmt.Errorf("llm: malformed response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("llm: response contained no choices")
	}

	return completion.Choices[0].Message.Content, nil
}

// decodeError converts a non-200 response into an [*APIError].
func (client *Client) decodeError(status int, body []byte) error {
	var envelope apiErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return &APIError{
			Code:    envelope.Error.Code,
			Message: envelope.Error.Message,
			Status:  status,
		}
	}

	return &APIError{
		Message: http.StatusText(status),
		Status:  status,
	}
}
