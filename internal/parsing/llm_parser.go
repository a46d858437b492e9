package parsing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/profile-evaluator/internal/lexicon"
	"github.com/jonathan/profile-evaluator/internal/llm"
	"github.com/jonathan/profile-evaluator/internal/schemas"
	"github.com/jonathan/profile-evaluator/internal/types"
)

// Source names the parser that produced a profile
type Source string

// Parser sources
const (
	SourceHeuristic Source = "heuristic"
	SourceLLM       Source = "llm"
)

// ParseOutcome describes which parser produced a profile. Err holds the
// language model failure that forced a fallback, if any.
type ParseOutcome struct {
	Source Source
	Stage  Stage
	Err    error
}

// Fallback reports whether the heuristic parser replaced a failed model call
func (o ParseOutcome) Fallback() bool {
	return o.Source == SourceHeuristic && o.Err != nil
}

type llmReply struct {
	text string
	err  error
}

// ParseViaLLM asks the model for a structured profile. The call is raced
// against timeout; a reply that arrives later is dropped. Failures are
// *LLMError values matching ErrLLMTimeout, ErrLLMInvalidJSON or
// ErrLLMSchemaMismatch. The returned Stage tells whether JSON repair was needed.
func ParseViaLLM(ctx context.Context, text string, client llm.Client, timeout time.Duration) (*types.NormalizedProfile, Stage, error) {
	if client == nil {
		return nil, "", &APICallError{Message: "no language model client configured"}
	}

	prompt, err := llm.BuildExtractionPrompt(text)
	if err != nil {
		return nil, "", &APICallError{Message: "failed to build extraction prompt", Cause: err}
	}

	if timeout <= 0 {
		timeout = llm.DefaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Buffered so the goroutine can always deliver and exit after a timeout
	replies := make(chan llmReply, 1)
	go func() {
		out, err := client.Generate(callCtx, prompt)
		replies <- llmReply{text: out, err: err}
	}()

	var reply llmReply
	select {
	case <-callCtx.Done():
		return nil, "", contextFailure(callCtx.Err(), timeout)
	case reply = <-replies:
	}

	if reply.err != nil {
		if errors.Is(reply.err, context.DeadlineExceeded) {
			return nil, "", contextFailure(reply.err, timeout)
		}
		return nil, "", &APICallError{Message: "failed to generate profile", Cause: reply.err}
	}

	return decodeProfile(reply.text)
}

func contextFailure(err error, timeout time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &LLMError{Kind: ErrLLMTimeout, Message: fmt.Sprintf("no reply within %s", timeout), Cause: err}
	}
	return &APICallError{Message: "request cancelled", Cause: err}
}

// decodeProfile runs repair, schema validation and the typed decode
func decodeProfile(reply string) (*types.NormalizedProfile, Stage, error) {
	result := DecodeWithRepair(reply)
	if result.Stage == StageFailed {
		return nil, StageFailed, &LLMError{
			Kind:    ErrLLMInvalidJSON,
			Message: "reply is not valid JSON after repair",
			Cause:   result.Err,
		}
	}

	if err := schemas.ValidateProfileJSON(result.JSON); err != nil {
		return nil, result.Stage, &LLMError{
			Kind:    ErrLLMSchemaMismatch,
			Message: "reply does not match the profile schema",
			Cause:   err,
		}
	}

	var profile types.NormalizedProfile
	if err := json.Unmarshal(result.JSON, &profile); err != nil {
		return nil, result.Stage, &LLMError{
			Kind:    ErrLLMSchemaMismatch,
			Message: "reply could not be decoded into a profile",
			Cause:   err,
		}
	}

	tidyProfile(&profile)
	return &profile, result.Stage, nil
}

// tidyProfile trims model output and replaces nil slices with empty ones so
// the profile serializes the same way as a heuristic one
func tidyProfile(profile *types.NormalizedProfile) {
	if profile.Education == nil {
		profile.Education = []types.Education{}
	}
	if profile.Roles == nil {
		profile.Roles = []types.Role{}
	}
	if profile.Extracurriculars == nil {
		profile.Extracurriculars = []types.Extracurricular{}
	}

	for i := range profile.Roles {
		role := &profile.Roles[i]
		role.Company = strings.TrimSpace(role.Company)
		role.Title = strings.TrimSpace(role.Title)
		role.Start = strings.TrimSpace(role.Start)
		role.End = strings.TrimSpace(role.End)

		bullets := make([]types.Bullet, 0, len(role.Bullets))
		for _, b := range role.Bullets {
			b.Text = strings.Join(strings.Fields(b.Text), " ")
			if b.Text != "" {
				bullets = append(bullets, b)
			}
		}
		role.Bullets = bullets
	}

	if profile.Tests != nil && profile.Tests.Type == "" && profile.Tests.Actual == nil &&
		profile.Tests.Target == nil && profile.Tests.Descriptor == "" {
		profile.Tests = nil
	}
}

// ParseWithFallback tries the model first and falls back to the heuristic
// parser on any failure, so it always returns a profile. A nil client goes
// straight to the heuristic parser.
func ParseWithFallback(ctx context.Context, text string, client llm.Client, timeout time.Duration) (*types.NormalizedProfile, ParseOutcome) {
	return ParseWithFallbackLexicon(ctx, text, client, timeout, lexicon.MustDefault())
}

// ParseWithFallbackLexicon is ParseWithFallback with an explicit lexicon for
// the heuristic parser
func ParseWithFallbackLexicon(ctx context.Context, text string, client llm.Client, timeout time.Duration, lex *lexicon.Lexicon) (*types.NormalizedProfile, ParseOutcome) {
	if client == nil {
		return ParseWithLexicon(text, lex), ParseOutcome{Source: SourceHeuristic}
	}

	profile, stage, err := ParseViaLLM(ctx, text, client, timeout)
	if err != nil {
		return ParseWithLexicon(text, lex), ParseOutcome{Source: SourceHeuristic, Stage: stage, Err: err}
	}
	return profile, ParseOutcome{Source: SourceLLM, Stage: stage}
}
