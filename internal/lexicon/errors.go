package lexicon

import "fmt"

// LoadError represents a failure reading a lexicon file
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load lexicon %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load lexicon %s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// ValidationError represents a lexicon that parsed but violates a constraint
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("lexicon validation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("lexicon validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}
