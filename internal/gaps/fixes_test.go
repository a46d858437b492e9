package gaps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile-evaluator/internal/lexicon"
	"github.com/jonathan/profile-evaluator/internal/types"
)

// bulletSignals describes the detector verdicts for one bullet
type bulletSignals struct {
	text     string
	number   bool
	words    int
	tooShort bool
	tooLong  bool
	passive  bool
	strong   bool
	support  bool
}

// buildCase lays out bullets under one role per entry of roles and returns the
// profile with a matching analysis
func buildCase(roles map[string][]bulletSignals, order []string) (*types.NormalizedProfile, types.Analysis) {
	profile := types.NewNormalizedProfile()
	analysis := types.Analysis{Keywords: types.KeywordsAnalysis{Coverage: 1}}
	for _, company := range order {
		role := types.Role{Company: company}
		id := types.RoleID(role)
		for i, s := range roles[company] {
			role.Bullets = append(role.Bullets, types.Bullet{Text: s.text})
			ref := types.BulletRef{RoleID: id, Index: i}
			analysis.Metrics.Bullets = append(analysis.Metrics.Bullets, types.BulletMetrics{BulletRef: ref, HasNumber: s.number})
			analysis.Length.Bullets = append(analysis.Length.Bullets, types.BulletLength{BulletRef: ref, Words: s.words, TooShort: s.tooShort, TooLong: s.tooLong})
			analysis.Verbs.Bullets = append(analysis.Verbs.Bullets, types.BulletVerbs{BulletRef: ref, PassiveLikely: s.passive, StrongVerb: s.strong, SupportVerb: s.support})
		}
		profile.Roles = append(profile.Roles, role)
	}
	return profile, analysis
}

func TestPickTopFixes_Scoring(t *testing.T) {
	lex := lexicon.MustDefault()

	tests := []struct {
		name        string
		signals     bulletSignals
		wantScore   int
		wantReasons []string
	}{
		{
			name:      "clean bullet excluded",
			signals:   bulletSignals{text: "Grew revenue 40% in two quarters across India", number: true, words: 8, strong: true},
			wantScore: 0,
		},
		{
			name:        "no metric",
			signals:     bulletSignals{text: "Led the pricing redesign for the retail business", words: 8, strong: true},
			wantScore:   3,
			wantReasons: []string{ReasonNoMetric},
		},
		{
			name:        "short weak bullet",
			signals:     bulletSignals{text: "Built dashboards.", words: 2, tooShort: true, strong: true},
			wantScore:   4,
			wantReasons: []string{ReasonNoMetric, "too short (2 words)"},
		},
		{
			name:        "passive duty bullet",
			signals:     bulletSignals{text: "Responsible for vendor onboarding and weekly reporting to leadership", words: 9, passive: true},
			wantScore:   6,
			wantReasons: []string{ReasonNoMetric, ReasonPassive, ReasonWeakVerb},
		},
		{
			name:        "support verb is not penalized as weak",
			signals:     bulletSignals{text: "Helped the team ship 3 releases", number: true, words: 6, support: true},
			wantScore:   0,
			wantReasons: nil,
		},
		{
			name:        "long bullet with metric",
			signals:     bulletSignals{text: "long", number: true, words: 30, tooLong: true, strong: true},
			wantScore:   2,
			wantReasons: []string{"too long (30 words)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, analysis := buildCase(map[string][]bulletSignals{"Acme": {tt.signals}}, []string{"Acme"})
			fixes := PickTopFixes(profile, analysis, lex)

			if tt.wantScore == 0 {
				assert.Empty(t, fixes)
				return
			}
			require.Len(t, fixes, 1)
			assert.Equal(t, tt.wantScore, fixes[0].Score)
			assert.Equal(t, tt.wantReasons, fixes[0].Reasons)
			assert.Equal(t, tt.signals.text, fixes[0].Text)
			assert.Equal(t, types.BulletRef{RoleID: "acme", Index: 0}, fixes[0].BulletRef)
		})
	}
}

func TestPickTopFixes_OrderAndCap(t *testing.T) {
	// scores: weak 3, worse 5, short 1
	weak := bulletSignals{text: "weak", words: 8, strong: true}
	worse := bulletSignals{text: "worse", words: 8, passive: true, support: true}
	short := bulletSignals{text: "short", number: true, words: 3, tooShort: true, strong: true}

	profile, analysis := buildCase(map[string][]bulletSignals{
		"Zeta": {weak, worse, short},
		"Acme": {weak, short, weak, worse},
	}, []string{"Zeta", "Acme"})

	fixes := PickTopFixes(profile, analysis, lexicon.MustDefault())

	require.Len(t, fixes, MaxFixes)
	got := make([]types.BulletRef, len(fixes))
	for i, f := range fixes {
		got[i] = f.BulletRef
	}
	assert.Equal(t, []types.BulletRef{
		{RoleID: "acme", Index: 3},
		{RoleID: "zeta", Index: 1},
		{RoleID: "acme", Index: 0},
		{RoleID: "acme", Index: 2},
		{RoleID: "zeta", Index: 0},
	}, got)

	for i := 1; i < len(fixes); i++ {
		assert.GreaterOrEqual(t, fixes[i-1].Score, fixes[i].Score)
	}
}

func TestPickTopFixes_LowCoverage(t *testing.T) {
	lex := lexicon.MustDefault()
	clean := bulletSignals{text: "Grew revenue 40%", number: true, words: 8, strong: true}
	profile, analysis := buildCase(map[string][]bulletSignals{"Acme": {clean}}, []string{"Acme"})

	analysis.Keywords = types.KeywordsAnalysis{Want: []string{"roadmap", "launch"}, Coverage: 0}
	fixes := PickTopFixes(profile, analysis, lex)
	require.Len(t, fixes, 1)
	assert.Equal(t, 1, fixes[0].Score)
	assert.Equal(t, []string{ReasonLowCoverage}, fixes[0].Reasons)

	analysis.Keywords.Coverage = 0.5
	assert.Empty(t, PickTopFixes(profile, analysis, lex))

}

func TestPickTopFixes_UnknownTrackCountsAsZeroCoverage(t *testing.T) {
	lex := lexicon.MustDefault()
	clean := bulletSignals{text: "Grew revenue 40%", number: true, words: 8, strong: true}
	profile, analysis := buildCase(map[string][]bulletSignals{"Acme": {clean}}, []string{"Acme"})

	analysis.Keywords = types.KeywordsAnalysis{Want: []string{}, Coverage: 0}
	fixes := PickTopFixes(profile, analysis, lex)
	require.Len(t, fixes, 1)
	assert.Equal(t, 1, fixes[0].Score)
	assert.Equal(t, []string{ReasonLowCoverage}, fixes[0].Reasons)
	assert.Equal(t, "Grew revenue 40%", fixes[0].Text)
}

func TestPickTopFixes_MissingDetectorOutput(t *testing.T) {
	lex := lexicon.MustDefault()
	profile, analysis := buildCase(map[string][]bulletSignals{
		"Acme": {{text: "Responsible for reporting", words: 3, tooShort: true, passive: true}},
	}, []string{"Acme"})

	// a failed verbs detector leaves its slice empty
	analysis.Verbs = types.VerbsAnalysis{}
	fixes := PickTopFixes(profile, analysis, lex)
	require.Len(t, fixes, 1)
	assert.Equal(t, 4, fixes[0].Score)

	assert.Empty(t, PickTopFixes(nil, analysis, lex))
	assert.NotNil(t, PickTopFixes(types.NewNormalizedProfile(), types.Analysis{}, lex))
}
