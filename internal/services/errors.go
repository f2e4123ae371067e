package services

import (
	"fmt"
	"strings"

	"github.com/tunride/ride-backend/internal/models"
)

// ValidationError reports a rejected input field
type ValidationError struct {
	Field   string
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, code, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Code: code, Message: fmt.Sprintf(format, args...)}
}

// AuthorizationError reports a viewer lacking the role for an action
type AuthorizationError struct {
	Action string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("not allowed to %s", e.Action)
}

// AuthenticationError reports bad credentials or an unconfirmed account
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// NotFoundError reports a missing or invisible entity
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// InvalidStateError reports an action the entity's current state forbids
type InvalidStateError struct {
	From    models.TripStatus
	Action  string
	Message string
}

func (e *InvalidStateError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("cannot %s a %s trip", e.Action, e.From)
}

// ProfileIncompleteError lists the profile fields required before acting
type ProfileIncompleteError struct {
	Missing []string
}

func (e *ProfileIncompleteError) Error() string {
	return fmt.Sprintf("profile incomplete: missing %s", strings.Join(e.Missing, ", "))
}

// ConflictError reports a write rejected by a uniqueness rule
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}
