package parsing

import (
	"errors"
	"fmt"
)

// Sentinels for the language model failure taxonomy. Every one of them is
// recoverable: callers fall back to the heuristic parser.
var (
	ErrLLMTimeout        = errors.New("llm timeout")
	ErrLLMInvalidJSON    = errors.New("llm invalid json")
	ErrLLMSchemaMismatch = errors.New("llm schema mismatch")
)

// LLMError carries one of the sentinels above as Kind plus the underlying cause
type LLMError struct {
	Kind    error
	Message string
	Cause   error
}

func (e *LLMError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As
func (e *LLMError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// APICallError represents a failure returned by the language model client
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}
