package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile-evaluator/internal/lexicon"
	"github.com/jonathan/profile-evaluator/internal/types"
)

func intPtr(v int) *int { return &v }

func ruleIDs(rules []types.RuleFired) []string {
	ids := make([]string, 0, len(rules))
	for _, r := range rules {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestTestReadiness(t *testing.T) {
	tests := []struct {
		name           string
		tests          *types.Tests
		wantScore      int
		wantTargetOnly bool
	}{
		{name: "no tests", tests: nil, wantScore: 0},
		{name: "gmat 720", tests: &types.Tests{Type: types.TestGMAT, Actual: intPtr(720)}, wantScore: 9},
		{name: "gmat 500", tests: &types.Tests{Type: types.TestGMAT, Actual: intPtr(500)}, wantScore: 0},
		{name: "gmat below base clamps", tests: &types.Tests{Type: types.TestGMAT, Actual: intPtr(420)}, wantScore: 0},
		{name: "gmat 800 clamps", tests: &types.Tests{Type: types.TestGMAT, Actual: intPtr(800)}, wantScore: 10},
		{name: "gre 330", tests: &types.Tests{Type: types.TestGRE, Actual: intPtr(330)}, wantScore: 8},
		{name: "gre 320", tests: &types.Tests{Type: types.TestGRE, Actual: intPtr(320)}, wantScore: 5},
		{name: "untyped high score read as gmat", tests: &types.Tests{Actual: intPtr(700)}, wantScore: 8},
		{name: "untyped low score read as gre", tests: &types.Tests{Actual: intPtr(324)}, wantScore: 6},
		{name: "descriptor only", tests: &types.Tests{Descriptor: "CAT 99.5"}, wantScore: 4},
		{name: "type without values", tests: &types.Tests{Type: types.TestGMAT}, wantScore: 0},
		{
			name:           "target only",
			tests:          &types.Tests{Type: types.TestGMAT, Target: intPtr(720)},
			wantScore:      9,
			wantTargetOnly: true,
		},
		{
			name:      "actual wins over target",
			tests:     &types.Tests{Type: types.TestGMAT, Actual: intPtr(650), Target: intPtr(740)},
			wantScore: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, targetOnly := testReadiness(tt.tests)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantTargetOnly, targetOnly)
		})
	}
}

func TestSubscores_TargetOnlyCap(t *testing.T) {
	profile := types.NewNormalizedProfile()
	profile.Tests = &types.Tests{Type: types.TestGMAT, Target: intPtr(720)}

	subs, rules := Subscores(profile, types.Analysis{})

	assert.LessOrEqual(t, subs.TestReadiness, 6)
	assert.Equal(t, 6, subs.TestReadiness)
	assert.Contains(t, ruleIDs(rules), RuleTestCap)
}

func TestSubscores_TargetBelowCapStillRecorded(t *testing.T) {
	profile := types.NewNormalizedProfile()
	profile.Tests = &types.Tests{Type: types.TestGMAT, Target: intPtr(600)}

	subs, rules := Subscores(profile, types.Analysis{})

	assert.Equal(t, 4, subs.TestReadiness)
	assert.Contains(t, ruleIDs(rules), RuleTestCap)
}

func TestSubscores_Academics(t *testing.T) {
	withEducation := types.NewNormalizedProfile()
	withEducation.Education = []types.Education{{School: "IIT Delhi"}}

	tests := []struct {
		name      string
		profile   *types.NormalizedProfile
		academics types.AcademicsAnalysis
		want      int
		wantRule  bool
	}{
		{
			name:      "no education",
			profile:   types.NewNormalizedProfile(),
			academics: types.AcademicsAnalysis{},
			want:      0,
		},
		{
			name:      "tier 1 full confidence without rigor",
			profile:   withEducation,
			academics: types.AcademicsAnalysis{BestTier: 1, Tier1: true, Confidence: 1},
			want:      7,
		},
		{
			name:      "tier 3 half confidence",
			profile:   withEducation,
			academics: types.AcademicsAnalysis{BestTier: 3, Confidence: 0.5},
			want:      4,
		},
		{
			name:      "tier 6 rigorous",
			profile:   withEducation,
			academics: types.AcademicsAnalysis{BestTier: 6, RigorousDegree: true, Confidence: 1},
			want:      3,
		},
		{
			name:      "tier 1 rigorous floored even at low confidence",
			profile:   withEducation,
			academics: types.AcademicsAnalysis{BestTier: 1, Tier1: true, RigorousDegree: true, Confidence: 0.2},
			want:      8,
			wantRule:  true,
		},
		{
			name:      "tier 1 rigorous full confidence",
			profile:   withEducation,
			academics: types.AcademicsAnalysis{BestTier: 1, Tier1: true, RigorousDegree: true, Confidence: 1},
			want:      8,
			wantRule:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subs, rules := Subscores(tt.profile, types.Analysis{Academics: tt.academics})
			assert.Equal(t, tt.want, subs.Academics)
			if tt.wantRule {
				assert.GreaterOrEqual(t, subs.Academics, 8)
				assert.Contains(t, ruleIDs(rules), RuleAcademicsFloor)
			} else {
				assert.NotContains(t, ruleIDs(rules), RuleAcademicsFloor)
			}
		})
	}
}

func TestSubscores_LeadershipFloor(t *testing.T) {
	profile := types.NewNormalizedProfile()

	tests := []struct {
		name       string
		leadership types.LeadershipAnalysis
		want       int
		wantRule   bool
	}{
		{
			name:       "cross functional with executive title",
			leadership: types.LeadershipAnalysis{Categories: []string{"cross_functional"}, ExecutiveSignal: true, Score: 0.2},
			want:       8,
			wantRule:   true,
		},
		{
			name:       "cross functional without executive title",
			leadership: types.LeadershipAnalysis{Categories: []string{"cross_functional"}, Score: 0.2},
			want:       2,
		},
		{
			name:       "executive without cross functional",
			leadership: types.LeadershipAnalysis{Categories: []string{"people"}, ExecutiveSignal: true, Score: 0.5},
			want:       5,
		},
		{
			name:       "high score stays above floor",
			leadership: types.LeadershipAnalysis{Categories: []string{"cross_functional"}, ExecutiveSignal: true, Score: 1},
			want:       10,
			wantRule:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subs, rules := Subscores(profile, types.Analysis{Leadership: tt.leadership})
			assert.Equal(t, tt.want, subs.Leadership)
			assert.Equal(t, tt.wantRule, contains(ruleIDs(rules), RuleLeadershipFloor))
		})
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestSubscores_LeadershipExtracurricularBonus(t *testing.T) {
	profile := types.NewNormalizedProfile()
	profile.Extracurriculars = []types.Extracurricular{{Text: "Captain, cricket team", Leadership: true}}

	subs, _ := Subscores(profile, types.Analysis{Leadership: types.LeadershipAnalysis{Score: 0.4}})
	assert.Equal(t, 5, subs.Leadership)
}

func TestWorkImpact(t *testing.T) {
	threeBullets := []types.BulletMetrics{{}, {}, {}}
	fourBullets := []types.BulletMetrics{{}, {}, {}, {}}

	tests := []struct {
		name     string
		analysis types.Analysis
		want     int
	}{
		{name: "no bullets", analysis: types.Analysis{Keywords: types.KeywordsAnalysis{Coverage: 1}}, want: 0},
		{
			name: "perfect signals",
			analysis: types.Analysis{
				Metrics:  types.MetricsAnalysis{Bullets: threeBullets, Density: 1, Confidence: 1},
				Verbs:    types.VerbsAnalysis{StrongShare: 1},
				Keywords: types.KeywordsAnalysis{Coverage: 1},
			},
			want: 10,
		},
		{
			name: "duplicate penalty capped at two",
			analysis: types.Analysis{
				Metrics:    types.MetricsAnalysis{Bullets: threeBullets, Density: 1, Confidence: 1},
				Verbs:      types.VerbsAnalysis{StrongShare: 1},
				Keywords:   types.KeywordsAnalysis{Coverage: 1},
				Duplicates: types.DuplicatesAnalysis{Pairs: make([]types.DuplicatePair, 6)},
			},
			want: 8,
		},
		{
			name: "tense and passive penalties",
			analysis: types.Analysis{
				Metrics:  types.MetricsAnalysis{Bullets: fourBullets, Density: 1, Confidence: 1},
				Verbs:    types.VerbsAnalysis{StrongShare: 1, MismatchCount: 2, PassiveCount: 4},
				Keywords: types.KeywordsAnalysis{Coverage: 1},
			},
			want: 9,
		},
		{
			name: "metrics only",
			analysis: types.Analysis{
				Metrics: types.MetricsAnalysis{Bullets: fourBullets, Density: 0.5, Confidence: 0.77},
			},
			want: 4,
		},
		{
			name: "penalties never go negative",
			analysis: types.Analysis{
				Metrics:    types.MetricsAnalysis{Bullets: fourBullets},
				Verbs:      types.VerbsAnalysis{PassiveCount: 4, MismatchCount: 4},
				Duplicates: types.DuplicatesAnalysis{Pairs: make([]types.DuplicatePair, 2)},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, workImpact(tt.analysis))
		})
	}
}

func TestExtracurricularsAndInternational(t *testing.T) {
	profile := types.NewNormalizedProfile()
	profile.Extracurriculars = []types.Extracurricular{
		{Text: "President, Debate Society", Leadership: true},
		{Text: "Volunteer teacher", Recency: types.RecencyCurrent},
		{Text: "Marathon runner"},
	}
	profile.Awards = []string{"Dean's list"}
	assert.Equal(t, 10, extracurriculars(profile))

	profile.Extracurriculars = profile.Extracurriculars[2:]
	profile.Awards = nil
	assert.Equal(t, 2, extracurriculars(profile))
	assert.Equal(t, 0, extracurriculars(types.NewNormalizedProfile()))

	tests := []struct {
		name string
		in   types.InternationalAnalysis
		want int
	}{
		{name: "none", in: types.InternationalAnalysis{}, want: 0},
		{name: "two regions and eighteen months", in: types.InternationalAnalysis{Regions: []string{"emea", "sea"}, Months: 18}, want: 7},
		{name: "months capped at four points", in: types.InternationalAnalysis{Regions: []string{"emea"}, Months: 60}, want: 6},
		{name: "many regions clamp", in: types.InternationalAnalysis{Regions: []string{"a", "b", "c", "d", "e", "f"}, Months: 24}, want: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, international(tt.in))
		})
	}
}

func TestAggregate(t *testing.T) {
	lex := lexicon.MustDefault()
	flat := types.Subscores{Academics: 5, TestReadiness: 5, WorkImpact: 5, Leadership: 5, Extracurriculars: 5, InternationalExposure: 5}

	assert.Equal(t, 5.0, Aggregate(flat, lex.WeightsFor(types.PersonaFullTime)))
	assert.Equal(t, 0.0, Aggregate(types.Subscores{}, lex.WeightsFor(types.PersonaFullTime)))
	assert.Equal(t, 0.0, Aggregate(flat, map[string]float64{}))

	top := types.Subscores{Academics: 10, TestReadiness: 10, WorkImpact: 10, Leadership: 10, Extracurriculars: 10, InternationalExposure: 10}
	assert.Equal(t, 10.0, Aggregate(top, lex.WeightsFor(types.PersonaExecutive)))

	// 10*1.4 / 1.4 for workImpact only
	assert.Equal(t, 10.0, Aggregate(types.Subscores{WorkImpact: 10}, map[string]float64{types.DimWorkImpact: 1.4}))

	skewed := types.Subscores{WorkImpact: 10, Leadership: 10}
	full := Aggregate(skewed, lex.WeightsFor(types.PersonaFullTime))
	exec := Aggregate(skewed, lex.WeightsFor(types.PersonaExecutive))
	assert.Greater(t, exec, full, "executive weights favour work impact and leadership")
	assert.Equal(t, 4.1, full)
}

func TestScore_Bands(t *testing.T) {
	lex := lexicon.MustDefault()

	tests := []struct {
		score float64
		want  string
	}{
		{0, "Needs Focus"},
		{3.9, "Needs Focus"},
		{4, "Emerging"},
		{5.9, "Emerging"},
		{6, "Competitive"},
		{7.4, "Competitive"},
		{7.5, "Strong"},
		{10, "Strong"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, lex.BandFor(tt.score), "band for %.1f", tt.score)
	}
}

func TestScore_Output(t *testing.T) {
	lex := lexicon.MustDefault()
	profile := types.NewNormalizedProfile()
	profile.Education = []types.Education{{School: "IIT Bombay", Discipline: "Mechanical Engineering"}}
	profile.Tests = &types.Tests{Type: types.TestGMAT, Target: intPtr(740)}

	analysis := types.Analysis{
		Metrics:    types.MetricsAnalysis{Bullets: []types.BulletMetrics{{}, {}}, Density: 0.5, Confidence: 0.77},
		Keywords:   types.KeywordsAnalysis{Coverage: 0.25},
		Length:     types.LengthAnalysis{LongShare: 0.5},
		Academics:  types.AcademicsAnalysis{BestTier: 1, Tier1: true, RigorousDegree: true, Confidence: 1},
		Leadership: types.LeadershipAnalysis{Categories: []string{"people"}, Score: 0.3},
		Failures:   []types.DetectorFailure{{Detector: "duplicates", Error: "boom"}},
	}

	out := Score(profile, analysis, Options{Persona: types.PersonaExecutive, Track: types.TrackConsulting}, lex)

	assert.Equal(t, "2024.1", out.Version)
	assert.Equal(t, types.PersonaExecutive, out.Persona)
	assert.Equal(t, types.TrackConsulting, out.Track)
	assert.Equal(t, 8, out.Dimensions.Academics)
	assert.Equal(t, 6, out.Dimensions.TestReadiness)
	assert.Equal(t, lex.BandFor(out.Readiness.Score), out.Readiness.Band)

	ids := ruleIDs(out.Trace.RulesFired)
	assert.Contains(t, ids, RuleAcademicsFloor)
	assert.Contains(t, ids, RuleTestCap)
	assert.Contains(t, ids, "weights.persona.executive")
	assert.Contains(t, ids, "detectors.neutral.duplicates")

	assert.Equal(t, 1, out.Trace.AcademicTier)
	assert.Equal(t, 0.25, out.Trace.Coverage)
	assert.Equal(t, 0.5, out.Trace.LongBulletShare)
	assert.Equal(t, 0.77, out.Trace.MetricsConfidence)
	assert.Equal(t, []string{"people"}, out.Trace.LeadershipCategories)
	assert.Equal(t, 1.6, out.Trace.Weights[types.DimWorkImpact])
	require.Len(t, out.Trace.DetectorFailures, 1)

	assert.NotNil(t, out.Gaps.TopBulletsToFix)
	assert.NotNil(t, out.Gaps.EssayAngles)
}

func TestScore_FullTimeHasNoPersonaRule(t *testing.T) {
	out := Score(nil, types.Analysis{}, Options{Persona: types.PersonaFullTime}, lexicon.MustDefault())

	assert.NotContains(t, ruleIDs(out.Trace.RulesFired), "weights.persona.full_time")
	assert.Equal(t, "Needs Focus", out.Readiness.Band)
	assert.Equal(t, 0.0, out.Readiness.Score)
	assert.Equal(t, []string{}, out.Trace.LeadershipCategories)
}
