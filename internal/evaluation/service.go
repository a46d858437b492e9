// Package evaluation is the public core: it wires parsing, the detector
// suite, scoring and the gap composer together, with optional memoization,
// persistence, logging and metrics around them.
package evaluation

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/profile-evaluator/internal/cache"
	"github.com/jonathan/profile-evaluator/internal/detectors"
	"github.com/jonathan/profile-evaluator/internal/gaps"
	"github.com/jonathan/profile-evaluator/internal/ingestion"
	"github.com/jonathan/profile-evaluator/internal/lexicon"
	"github.com/jonathan/profile-evaluator/internal/llm"
	"github.com/jonathan/profile-evaluator/internal/observability"
	"github.com/jonathan/profile-evaluator/internal/parsing"
	"github.com/jonathan/profile-evaluator/internal/scoring"
	"github.com/jonathan/profile-evaluator/internal/types"
)

// RuleParserFallback is recorded when the heuristic parser replaced a failed model parse
const RuleParserFallback = "parser.fallback.heuristic"

// Progress steps
const (
	StepParse   = "parse"
	StepDetect  = "detect"
	StepScore   = "score"
	StepGaps    = "gaps"
	StepPersist = "persist"
)

// Options selects persona weights and keyword track
type Options = scoring.Options

// ProgressEvent represents a progress update during an evaluation
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

// ProgressCallback is called as an evaluation moves through its steps
type ProgressCallback func(event ProgressEvent)

// ServiceConfig holds the collaborators of a Service. Everything but Lexicon
// is optional.
type ServiceConfig struct {
	Lexicon    *lexicon.Lexicon
	LLM        llm.Client
	LLMTimeout time.Duration
	Store      ProfileStore
	Cache      Cache
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Now        func() time.Time
	OnProgress ProgressCallback
}

// Service runs evaluations. It is safe for concurrent use.
type Service struct {
	cfg ServiceConfig
}

// NewService creates a Service, filling in defaults for unset collaborators
func NewService(cfg ServiceConfig) *Service {
	if cfg.Lexicon == nil {
		cfg.Lexicon = lexicon.MustDefault()
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = llm.DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{cfg: cfg}
}

func (s *Service) progress(step, format string, args ...any) {
	if s.cfg.OnProgress != nil {
		s.cfg.OnProgress(ProgressEvent{Step: step, Message: fmt.Sprintf(format, args...)})
	}
}

// ParseText normalizes raw résumé text and parses it, through the language
// model when one is configured. It always returns a profile.
func (s *Service) ParseText(ctx context.Context, raw string) (*types.NormalizedProfile, parsing.ParseOutcome) {
	text := ingestion.Normalize(raw)
	profile, outcome := parsing.ParseWithFallbackLexicon(ctx, text, s.cfg.LLM, s.cfg.LLMTimeout, s.cfg.Lexicon)

	if outcome.Fallback() {
		s.cfg.Logger.Warn("language model parse failed, using heuristic parser",
			zap.String("stage", string(outcome.Stage)),
			zap.Error(outcome.Err))
	}
	s.cfg.Metrics.ObserveParse(string(outcome.Source), string(outcome.Stage))
	s.progress(StepParse, "parsed %d roles with the %s parser", len(profile.Roles), outcome.Source)
	return profile, outcome
}

// Analyze runs the detector suite and reports bullet quality without scoring
func (s *Service) Analyze(profile *types.NormalizedProfile, track types.Track) types.AnalyzeOutput {
	start := time.Now()
	if profile == nil {
		profile = types.NewNormalizedProfile()
	}

	analysis := s.detect(profile, track)
	out := types.AnalyzeOutput{
		Metrics:         analysis.Metrics,
		Verbs:           analysis.Verbs,
		Length:          analysis.Length,
		Keywords:        analysis.Keywords,
		Duplicates:      analysis.Duplicates,
		Consistency:     analysis.Consistency,
		TopBulletsToFix: gaps.PickTopFixes(profile, analysis, s.cfg.Lexicon),
	}
	s.cfg.Metrics.ObserveEvaluation("analyze", "", 0, time.Since(start))
	return out
}

// Evaluate scores a profile and composes its gaps. It always returns a
// complete output; cache failures are logged and ignored.
func (s *Service) Evaluate(ctx context.Context, profile *types.NormalizedProfile, opts Options) types.EvaluationOutput {
	start := time.Now()
	if profile == nil {
		profile = types.NewNormalizedProfile()
	}
	if opts.Persona == "" {
		opts.Persona = types.PersonaFullTime
	}
	if !s.cfg.Lexicon.HasPersona(opts.Persona) {
		s.cfg.Logger.Warn("unknown persona, using default weights", zap.String("persona", string(opts.Persona)))
	}

	key := s.cacheKey(profile, opts)
	if out, ok := s.cached(ctx, key); ok {
		s.cfg.Metrics.ObserveEvaluation("evaluate", string(opts.Persona), out.Readiness.Score, time.Since(start))
		return out
	}

	analysis := s.detect(profile, opts.Track)

	out := scoring.Score(profile, analysis, opts, s.cfg.Lexicon)
	s.progress(StepScore, "readiness %.1f (%s)", out.Readiness.Score, out.Readiness.Band)

	fixes := gaps.PickTopFixes(profile, analysis, s.cfg.Lexicon)
	out.Gaps = gaps.Compose(analysis, out.Dimensions, fixes, s.cfg.Lexicon)
	s.progress(StepGaps, "%d bullets to fix, %d weak dimensions", len(out.Gaps.TopBulletsToFix), len(out.Gaps.WeakestDimensions))

	if key != "" {
		if err := s.cfg.Cache.Set(ctx, key, &out); err != nil {
			s.cfg.Logger.Warn("cache write failed", zap.Error(err))
		}
	}

	s.cfg.Logger.Debug("evaluation complete",
		zap.String("persona", string(opts.Persona)),
		zap.String("track", string(opts.Track)),
		zap.Float64("score", out.Readiness.Score),
		zap.Duration("elapsed", time.Since(start)))
	s.cfg.Metrics.ObserveEvaluation("evaluate", string(opts.Persona), out.Readiness.Score, time.Since(start))
	return out
}

// EvaluateText parses raw text and evaluates the result. The trace records
// which parser produced the profile.
func (s *Service) EvaluateText(ctx context.Context, raw string, opts Options) (*types.NormalizedProfile, parsing.ParseOutcome, types.EvaluationOutput) {
	profile, outcome := s.ParseText(ctx, raw)
	out := s.Evaluate(ctx, profile, opts)

	out.Trace.ParserSource = string(outcome.Source)
	out.Trace.ParserStage = string(outcome.Stage)
	if outcome.Fallback() {
		// clip so a cached output's rule slice is never appended in place
		out.Trace.RulesFired = append(slices.Clip(out.Trace.RulesFired), types.RuleFired{
			ID:      RuleParserFallback,
			Summary: fmt.Sprintf("language model parse failed (%v); heuristic profile used", outcome.Err),
		})
	}
	return profile, outcome, out
}

// EvaluateUser evaluates the stored profile of a user and saves the result
func (s *Service) EvaluateUser(ctx context.Context, userID uuid.UUID, opts Options) (uuid.UUID, types.EvaluationOutput, error) {
	if s.cfg.Store == nil {
		return uuid.Nil, types.EvaluationOutput{}, ErrNoStore
	}

	profile, err := s.cfg.Store.GetProfile(ctx, userID)
	if err != nil {
		return uuid.Nil, types.EvaluationOutput{}, &StoreError{Message: "failed to load profile", Cause: err}
	}
	if profile == nil {
		return uuid.Nil, types.EvaluationOutput{}, fmt.Errorf("user %s: %w", userID, ErrProfileNotFound)
	}

	out := s.Evaluate(ctx, profile, opts)

	id, err := s.cfg.Store.SaveEvaluation(ctx, userID, &out)
	if err != nil {
		s.cfg.Logger.Error("failed to save evaluation", zap.String("user_id", userID.String()), zap.Error(err))
		return uuid.Nil, out, &StoreError{Message: "failed to save evaluation", Cause: err}
	}
	s.progress(StepPersist, "saved evaluation %s", id)
	return id, out, nil
}

func (s *Service) detect(profile *types.NormalizedProfile, track types.Track) types.Analysis {
	analysis := detectors.RunSuite(detectors.Input{
		Profile: profile,
		Track:   track,
		Lexicon: s.cfg.Lexicon,
		Now:     s.cfg.Now(),
	})
	for _, f := range analysis.Failures {
		s.cfg.Logger.Error("detector failed, neutral result used",
			zap.String("detector", f.Detector),
			zap.String("error", f.Error))
		s.cfg.Metrics.ObserveDetectorFailure(f.Detector)
	}
	s.progress(StepDetect, "%d detectors failed", len(analysis.Failures))
	return analysis
}

// cacheKey returns "" when caching is off or the key cannot be built
func (s *Service) cacheKey(profile *types.NormalizedProfile, opts Options) string {
	if s.cfg.Cache == nil {
		return ""
	}
	key, err := cache.Key(profile, opts.Persona, opts.Track, s.cfg.Lexicon.Digest())
	if err != nil {
		s.cfg.Logger.Warn("cache key failed", zap.Error(err))
		return ""
	}
	return key
}

func (s *Service) cached(ctx context.Context, key string) (types.EvaluationOutput, bool) {
	if key == "" {
		return types.EvaluationOutput{}, false
	}
	out, ok, err := s.cfg.Cache.Get(ctx, key)
	if err != nil {
		s.cfg.Logger.Warn("cache read failed", zap.Error(err))
		return types.EvaluationOutput{}, false
	}
	s.cfg.Metrics.ObserveCache(ok)
	if !ok {
		return types.EvaluationOutput{}, false
	}
	s.cfg.Logger.Debug("evaluation served from cache", zap.String("key", key))
	return *out, true
}
