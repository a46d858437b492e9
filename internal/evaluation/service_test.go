package evaluation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/profile-evaluator/internal/cache"
	"github.com/jonathan/profile-evaluator/internal/lexicon"
	"github.com/jonathan/profile-evaluator/internal/llm"
	"github.com/jonathan/profile-evaluator/internal/observability"
	"github.com/jonathan/profile-evaluator/internal/parsing"
	"github.com/jonathan/profile-evaluator/internal/scoring"
	"github.com/jonathan/profile-evaluator/internal/types"
)

const resumeText = `Product Manager | Acme Corp | Jan 2021 - Present
- Led a team of 5 engineers to launch a new AI resume product.
- Reduced latency by 60% across inference pipelines
- Responsible for weekly reporting and various meetings with many different stakeholders across the organization every week

Education
B.Tech in Mechanical Engineering, IIT Bombay, 2014 - 2018

Test Scores
GMAT 720`

const modelReply = `{
  "education": [{"school": "IIM Bangalore", "degree": "MBA", "tierHint": "tier1"}],
  "roles": [{
    "company": "Acme",
    "title": "Product Manager",
    "start": "2021-01",
    "bullets": [{"text": "Grew revenue by 30%", "metrics": {"pct": 30}}]
  }],
  "tests": {"type": "GMAT", "actual": 730}
}`

func intPtr(v int) *int { return &v }

func sampleProfile() *types.NormalizedProfile {
	profile := types.NewNormalizedProfile()
	profile.Education = []types.Education{{School: "IIT Bombay", Degree: "B.Tech", Discipline: "Mechanical Engineering", TierHint: types.TierHintTier1}}
	profile.Roles = []types.Role{{
		Company: "Acme",
		Title:   "Product Manager",
		Start:   "2021-01",
		Bullets: []types.Bullet{
			{Text: "Led a team of 5 engineers to launch a new AI resume product"},
			{Text: "Responsible for weekly reporting"},
		},
	}}
	profile.Tests = &types.Tests{Type: types.TestGMAT, Actual: intPtr(720)}
	return profile
}

func fixedNow() time.Time {
	return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
}

func ruleIDs(rules []types.RuleFired) []string {
	ids := make([]string, 0, len(rules))
	for _, r := range rules {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestEvaluate_CompleteOutput(t *testing.T) {
	svc := NewService(ServiceConfig{Now: fixedNow})

	out := svc.Evaluate(context.Background(), sampleProfile(), Options{Track: types.TrackProductManagement})

	assert.Equal(t, "2024.1", out.Version)
	assert.Equal(t, types.PersonaFullTime, out.Persona)
	assert.Equal(t, types.TrackProductManagement, out.Track)
	assert.NotEmpty(t, out.Readiness.Band)
	assert.Equal(t, 9, out.Dimensions.TestReadiness)
	assert.NotNil(t, out.Gaps.TopBulletsToFix)
	assert.LessOrEqual(t, len(out.Gaps.TopBulletsToFix), 5)
	assert.NotEmpty(t, out.Gaps.EssayAngles)
	assert.NotNil(t, out.Trace.Weights)
}

func TestEvaluate_NilProfile(t *testing.T) {
	svc := NewService(ServiceConfig{Now: fixedNow})

	out := svc.Evaluate(context.Background(), nil, Options{})

	assert.Equal(t, 0, out.Dimensions.Academics)
	assert.Equal(t, 0, out.Dimensions.WorkImpact)
	assert.Empty(t, out.Gaps.TopBulletsToFix)
	assert.NotNil(t, out.Gaps.TopBulletsToFix)
	assert.NotNil(t, out.Trace.RulesFired)
}

func TestEvaluate_TargetOnlyCap(t *testing.T) {
	svc := NewService(ServiceConfig{Now: fixedNow})
	profile := sampleProfile()
	profile.Tests = &types.Tests{Type: types.TestGMAT, Target: intPtr(720)}

	out := svc.Evaluate(context.Background(), profile, Options{})

	assert.LessOrEqual(t, out.Dimensions.TestReadiness, 6)
	assert.Contains(t, ruleIDs(out.Trace.RulesFired), scoring.RuleTestCap)
}

func TestEvaluate_PersonaChangesScoreNotSubscores(t *testing.T) {
	svc := NewService(ServiceConfig{Now: fixedNow})
	profile := sampleProfile()

	fullTime := svc.Evaluate(context.Background(), profile, Options{Persona: types.PersonaFullTime})
	executive := svc.Evaluate(context.Background(), profile, Options{Persona: types.PersonaExecutive})

	assert.Equal(t, fullTime.Dimensions, executive.Dimensions)
	assert.Contains(t, ruleIDs(executive.Trace.RulesFired), scoring.RulePersonaWeights+".executive")
}

func TestEvaluate_UnknownPersonaLogsWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	svc := NewService(ServiceConfig{Now: fixedNow, Logger: zap.New(core)})

	out := svc.Evaluate(context.Background(), sampleProfile(), Options{Persona: "astronaut"})

	assert.NotEmpty(t, out.Readiness.Band)
	require.Equal(t, 1, logs.FilterMessage("unknown persona, using default weights").Len())
}

func TestEvaluate_Cache(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	memo := cache.NewMemoryCache(8)
	svc := NewService(ServiceConfig{Now: fixedNow, Cache: memo, Metrics: metrics})
	profile := sampleProfile()

	first := svc.Evaluate(context.Background(), profile, Options{Track: types.TrackConsulting})
	second := svc.Evaluate(context.Background(), profile, Options{Track: types.TrackConsulting})

	assert.Equal(t, first, second)
	assert.Equal(t, 1, memo.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.EvaluationsTotal.WithLabelValues("evaluate", "full_time")))

	svc.Evaluate(context.Background(), profile, Options{Track: types.TrackFinance})
	assert.Equal(t, 2, memo.Len())
}

func TestEvaluate_CacheSeparatesLexiconsWithSameVersion(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "lexicon", "default.yaml"))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	custom := strings.Replace(string(data), "workImpact: 1.4", "workImpact: 3.0", 1)
	require.NoError(t, os.WriteFile(path, []byte(custom), 0644))
	customLex, err := lexicon.Load(path)
	require.NoError(t, err)
	require.Equal(t, lexicon.MustDefault().Version, customLex.Version)

	memo := cache.NewMemoryCache(8)
	profile := sampleProfile()
	opts := Options{Track: types.TrackConsulting}

	first := NewService(ServiceConfig{Now: fixedNow, Cache: memo}).Evaluate(context.Background(), profile, opts)
	second := NewService(ServiceConfig{Now: fixedNow, Cache: memo, Lexicon: customLex}).Evaluate(context.Background(), profile, opts)

	assert.Equal(t, 2, memo.Len())
	assert.Equal(t, 3.0, second.Trace.Weights[types.DimWorkImpact])
	assert.NotEqual(t, first.Trace.Weights, second.Trace.Weights)
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) (*types.EvaluationOutput, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (failingCache) Set(context.Context, string, *types.EvaluationOutput) error {
	return errors.New("connection refused")
}

func TestEvaluate_CacheFailuresAreIgnored(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	withCache := NewService(ServiceConfig{Now: fixedNow, Cache: failingCache{}, Logger: zap.New(core)})
	plain := NewService(ServiceConfig{Now: fixedNow})

	got := withCache.Evaluate(context.Background(), sampleProfile(), Options{})
	want := plain.Evaluate(context.Background(), sampleProfile(), Options{})

	assert.Equal(t, want, got)
	assert.Equal(t, 1, logs.FilterMessage("cache read failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("cache write failed").Len())
}

func TestEvaluate_ProgressEvents(t *testing.T) {
	var steps []string
	svc := NewService(ServiceConfig{
		Now:        fixedNow,
		OnProgress: func(e ProgressEvent) { steps = append(steps, e.Step) },
	})

	svc.Evaluate(context.Background(), sampleProfile(), Options{})

	assert.Equal(t, []string{StepDetect, StepScore, StepGaps}, steps)
}

func TestAnalyze(t *testing.T) {
	svc := NewService(ServiceConfig{Now: fixedNow})

	out := svc.Analyze(sampleProfile(), types.TrackProductManagement)

	require.Len(t, out.Metrics.Bullets, 2)
	assert.Equal(t, types.TrackProductManagement, out.Keywords.Track)
	require.NotEmpty(t, out.TopBulletsToFix)
	assert.Equal(t, "acme-2021-01", out.TopBulletsToFix[0].RoleID)

	empty := svc.Analyze(nil, "")
	assert.Empty(t, empty.TopBulletsToFix)
	assert.NotNil(t, empty.TopBulletsToFix)
}

func TestEvaluateText(t *testing.T) {
	tests := []struct {
		name         string
		client       llm.Client
		wantSource   parsing.Source
		wantFallback bool
		wantCompany  string
	}{
		{
			name:        "heuristic without model",
			client:      nil,
			wantSource:  parsing.SourceHeuristic,
			wantCompany: "Acme Corp",
		},
		{
			name:        "model reply",
			client:      &llm.StubClient{Response: modelReply},
			wantSource:  parsing.SourceLLM,
			wantCompany: "Acme",
		},
		{
			name:         "model error falls back",
			client:       &llm.StubClient{Err: errors.New("quota exceeded")},
			wantSource:   parsing.SourceHeuristic,
			wantFallback: true,
			wantCompany:  "Acme Corp",
		},
		{
			name:         "invalid json falls back",
			client:       &llm.StubClient{Response: "I could not read that resume"},
			wantSource:   parsing.SourceHeuristic,
			wantFallback: true,
			wantCompany:  "Acme Corp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			svc := NewService(ServiceConfig{Now: fixedNow, LLM: tt.client, LLMTimeout: time.Second, Logger: zap.New(core)})

			profile, outcome, out := svc.EvaluateText(context.Background(), resumeText, Options{})

			assert.Equal(t, tt.wantSource, outcome.Source)
			assert.Equal(t, tt.wantFallback, outcome.Fallback())
			assert.Equal(t, string(tt.wantSource), out.Trace.ParserSource)
			require.NotEmpty(t, profile.Roles)
			assert.Equal(t, tt.wantCompany, profile.Roles[0].Company)

			if tt.wantFallback {
				assert.Contains(t, ruleIDs(out.Trace.RulesFired), RuleParserFallback)
				assert.Equal(t, 1, logs.Len())
			} else {
				assert.NotContains(t, ruleIDs(out.Trace.RulesFired), RuleParserFallback)
				assert.Equal(t, 0, logs.Len())
			}
		})
	}
}

func TestEvaluateText_TimeoutFallsBack(t *testing.T) {
	client := &llm.StubClient{Response: modelReply, Delay: 200 * time.Millisecond}
	svc := NewService(ServiceConfig{Now: fixedNow, LLM: client, LLMTimeout: 10 * time.Millisecond})

	profile, outcome, _ := svc.EvaluateText(context.Background(), resumeText, Options{})

	require.Error(t, outcome.Err)
	assert.ErrorIs(t, outcome.Err, parsing.ErrLLMTimeout)
	assert.Equal(t, "Acme Corp", profile.Roles[0].Company)
}

func TestEvaluateText_CachedOutputNotMutated(t *testing.T) {
	memo := cache.NewMemoryCache(4)
	svc := NewService(ServiceConfig{Now: fixedNow, Cache: memo, LLM: &llm.StubClient{Err: errors.New("down")}})

	_, _, first := svc.EvaluateText(context.Background(), resumeText, Options{})
	_, _, second := svc.EvaluateText(context.Background(), resumeText, Options{})

	assert.Equal(t, first.Trace.RulesFired, second.Trace.RulesFired)
	profile, _ := svc.ParseText(context.Background(), resumeText)
	plain := svc.Evaluate(context.Background(), profile, Options{})
	assert.NotContains(t, ruleIDs(plain.Trace.RulesFired), RuleParserFallback)
}

type brokenStore struct {
	getErr  error
	saveErr error
	profile *types.NormalizedProfile
}

func (s brokenStore) GetProfile(context.Context, uuid.UUID) (*types.NormalizedProfile, error) {
	return s.profile, s.getErr
}

func (s brokenStore) SaveEvaluation(context.Context, uuid.UUID, *types.EvaluationOutput) (uuid.UUID, error) {
	return uuid.Nil, s.saveErr
}

func TestEvaluateUser(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("no store", func(t *testing.T) {
		svc := NewService(ServiceConfig{Now: fixedNow})
		_, _, err := svc.EvaluateUser(ctx, userID, Options{})
		assert.ErrorIs(t, err, ErrNoStore)
	})

	t.Run("missing profile", func(t *testing.T) {
		svc := NewService(ServiceConfig{Now: fixedNow, Store: NewMemoryStore()})
		_, _, err := svc.EvaluateUser(ctx, userID, Options{})
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})

	t.Run("saved", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.SaveProfile(ctx, userID, sampleProfile()))
		svc := NewService(ServiceConfig{Now: fixedNow, Store: store})

		id, out, err := svc.EvaluateUser(ctx, userID, Options{Persona: types.PersonaSwitcher})

		require.NoError(t, err)
		saved, ok := store.Evaluation(id)
		require.True(t, ok)
		assert.Equal(t, userID, saved.UserID)
		assert.Equal(t, out, saved.Output)
		assert.Equal(t, types.PersonaSwitcher, saved.Output.Persona)
	})

	t.Run("load error", func(t *testing.T) {
		svc := NewService(ServiceConfig{Now: fixedNow, Store: brokenStore{getErr: errors.New("db down")}})
		_, _, err := svc.EvaluateUser(ctx, userID, Options{})

		var storeErr *StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "failed to load profile", storeErr.Message)
	})

	t.Run("save error keeps output", func(t *testing.T) {
		svc := NewService(ServiceConfig{Now: fixedNow, Store: brokenStore{profile: sampleProfile(), saveErr: errors.New("db down")}})
		id, out, err := svc.EvaluateUser(ctx, userID, Options{})

		var storeErr *StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, uuid.Nil, id)
		assert.NotEmpty(t, out.Readiness.Band)
	})
}
