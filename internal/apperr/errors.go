// Package apperr defines the error taxonomy shared across the service:
// validation, not-found, authorization and collaborator failures. Handlers
// map these onto HTTP statuses; nothing in the core uses errors for normal
// control flow.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input. Field names the offending field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Msg
	}
	return fmt.Sprintf("validation: field %q: %s", e.Field, e.Msg)
}

// NotFoundError reports an identifier that did not resolve.
type NotFoundError struct {
	Kind string // "quiz", "user", "video"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// AuthorizationError carries the guard's specific deny reason. It is never
// collapsed to a generic "forbidden".
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return "authorization denied: " + e.Reason
}

// CollaboratorError wraps a persistence or identity-provider failure. Write
// paths propagate it; read-aggregation paths may recover with safe defaults.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("collaborator: %s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

func Validation(field, msg string) error { return &ValidationError{Field: field, Msg: msg} }

func NotFound(kind, id string) error { return &NotFoundError{Kind: kind, ID: id} }

func Collaborator(op string, err error) error { return &CollaboratorError{Op: op, Err: err} }

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsCollaborator(err error) bool {
	var ce *CollaboratorError
	return errors.As(err, &ce)
}
