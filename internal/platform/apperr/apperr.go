// Copyright (c) 2026 StudyBuddy. All rights reserved.
// Author: arman@studybuddy.dev

/*
Package apperr defines the centralized error handling framework for StudyBuddy.

It provides a rich error type that bridges the gap between low-level domain/storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Taxonomy: Dedicated constructors for every failure the conversation core can hit
    (invalid credentials, username collisions, missing sessions).
  - Mapping: Explicit mapping from AppError to standard HTTP status codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent responses.
*/
package apperr

import (
	"errors"
	"net/http"
)

// AppError is the canonical error type for the StudyBuddy server.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional underlying cause.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "INVALID_CREDENTIALS").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Authentication Errors (4xx)

// InvalidCredentials creates a 401 [AppError] for failed logins.
//
// The message deliberately does not distinguish "user does not exist" from
// "wrong password" to prevent account enumeration.
func InvalidCredentials() *AppError {
	return &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Invalid username or password.",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// UsernameTaken creates a 409 [AppError] for registration collisions.
func UsernameTaken() *AppError {
	return &AppError{
		Code:       "USERNAME_TAKEN",
		Message:    "This user already exists. Please try another name.",
		HTTPStatus: http.StatusConflict,
	}
}

// Unauthenticated creates a 401 [AppError] for requests lacking a valid session.
func Unauthenticated() *AppError {
	return &AppError{
		Code:       "UNAUTHENTICATED",
		Message:    "Not logged in",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// # Generic Client Errors (4xx)

// ValidationError creates a 400 [AppError] with a client-safe message.
func ValidationError(msg string) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NotFound creates a 404 [AppError] for a named resource.
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// StorageFailure creates a 500 [AppError] for a failed credential persist.
//
// The in-memory credential state is considered stale until the next successful
// persist, so the caller must surface this as a failed registration.
func StorageFailure(cause error) *AppError {
	return &AppError{
		Code:       "STORAGE_FAILURE",
		Message:    "Could not save your account. Please try again.",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
