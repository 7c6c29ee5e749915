package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNoAssetSelected    = errors.New("no asset selected")
)

// ValidationError reports locally recoverable bad input. The presentation
// layer re-prompts; it is never a hard failure.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a missing record or value. Callers degrade to a
// fallback path or abort the current operation with a message.
type NotFoundError struct {
	Collection string
	What       string
}

func (e NotFoundError) Error() string {
	if e.Collection != "" {
		return fmt.Sprintf("%s not found in %s", e.What, e.Collection)
	}
	return e.What + " not found"
}

// StoreError wraps a failed record-store operation. The affected write is
// treated as not applied; there is no retry and no rollback of side effects
// already applied.
type StoreError struct {
	Op  string
	Err error
}

func (e StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e StoreError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
