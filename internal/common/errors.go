// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Vocabulary errors.
	ErrNotFound        = errors.New("not found")
	ErrDuplicateWord   = errors.New("word already exists in another category")
	ErrInvalidWord     = errors.New("word cannot be empty")
	ErrInvalidWeight   = errors.New("weight outside allowed range")
	ErrInvalidCategory = errors.New("unknown category")

	// Scoring errors.
	ErrInvalidPolarity = errors.New("invalid polarity")

	// Store errors.
	ErrCorruptStore = errors.New("vocabulary store corrupted")
	ErrStorage      = errors.New("storage failure")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsConflict reports whether the error is a semantic conflict the caller
// must resolve rather than retry (duplicate word, missing word).
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateWord) || errors.Is(err, ErrNotFound)
}

// IsValidation reports whether the error was rejected before any write.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidWord) ||
		errors.Is(err, ErrInvalidWeight) ||
		errors.Is(err, ErrInvalidCategory) ||
		errors.Is(err, ErrInvalidPolarity)
}
