package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidChoice is returned when a discrete input does not match any of
// the identifiers currently offered. The menu may simply be stale; callers
// should re-fetch the options and prompt again.
var ErrInvalidChoice = errors.New("choice is not among the current options")

// ErrUnexpectedText is returned when free text is supplied to a menu that
// only accepts discrete choices.
var ErrUnexpectedText = errors.New("free text is not accepted here")

// ErrUnexpectedChoice is returned when a discrete choice is supplied where
// only free text is meaningful.
var ErrUnexpectedChoice = errors.New("expected free text, not a choice")

// ErrMissingValue is returned by Finalize while at least one required value
// in the tree is still unset.
var ErrMissingValue = errors.New("at least one required value is missing")

// ErrSessionNotFound is returned by session hosts when the addressed
// session does not exist or was already finished.
var ErrSessionNotFound = errors.New("session not found")

// InvalidTextError reports that free text could not be converted into the
// scalar type of the focused cell. It carries the underlying parse error so
// adapters can show a meaningful message.
type InvalidTextError struct {
	Err error
}

func (e *InvalidTextError) Error() string {
	return fmt.Sprintf("invalid input: %v", e.Err)
}

func (e *InvalidTextError) Unwrap() error { return e.Err }

// InvalidText wraps a scalar conversion failure.
func InvalidText(err error) error {
	return &InvalidTextError{Err: err}
}
