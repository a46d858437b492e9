// Package llm - extractor.go builds the structured profile extraction prompt.
package llm

import (
	"fmt"
	"strings"

	"github.com/jonathan/profile-evaluator/internal/prompts"
)

const (
	promptFile       = "parsing.json"
	extractPromptKey = "extract-profile"
	shapePromptKey   = "profile-shape"
)

// BuildExtractionPrompt renders the profile extraction prompt for text.
// Triple quotes in the input are softened so the text cannot close the
// quoted block early.
func BuildExtractionPrompt(profileText string) (string, error) {
	shape, err := prompts.Get(promptFile, shapePromptKey)
	if err != nil {
		return "", fmt.Errorf("failed to load profile shape: %w", err)
	}

	return prompts.Render(promptFile, extractPromptKey, map[string]string{
		"Schema":      shape,
		"ProfileText": strings.ReplaceAll(profileText, `"""`, `"'"`),
	})
}
