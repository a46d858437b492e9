package evaluation

import (
	"errors"
	"fmt"
)

var (
	// ErrNoStore is returned by store-backed operations when no ProfileStore is configured
	ErrNoStore = errors.New("no profile store configured")
	// ErrProfileNotFound is returned when the store has no profile for a user
	ErrProfileNotFound = errors.New("profile not found")
)

// StoreError wraps a ProfileStore failure
type StoreError struct {
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}
