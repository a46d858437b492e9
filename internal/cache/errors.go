package cache

import "fmt"

// Error wraps a failure talking to the cache backend or encoding an entry
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
