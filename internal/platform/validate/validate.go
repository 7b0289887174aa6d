// Copyright (c) 2026 StudyBuddy. All rights reserved.
// Author: arman@studybuddy.dev

// Package validate provides a chainable Validator that collects field-level
// failures before returning a single [apperr.AppError].
//
// # Architecture
//
// This package is used at the transport boundary to reject malformed form
// input before it reaches the service layer.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/arman/studybuddy/internal/platform/apperr"
)

// Validator collects field-level validation failures via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	failures []string
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("must be at most %d characters", max))
	}
	return v
}

// MinLen fails if the value is non-empty and its Unicode character count is below min.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if value != "" && utf8.RuneCountInString(value) < min {
		v.add(field, fmt.Sprintf("must be at least %d characters", min))
	}
	return v
}

// Custom adds a failure with a custom message if the condition is true.
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// This is the only output method — call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.failures) == 0 {
		return nil
	}
	return apperr.ValidationError(strings.Join(v.failures, "; "))
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.failures) > 0
}

// add appends a formatted failure to the internal slice.
func (v *Validator) add(field, message string) {
	v.failures = append(v.failures, field+" "+message)
}
