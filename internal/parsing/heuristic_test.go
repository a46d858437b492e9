package parsing

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile-evaluator/internal/schemas"
	"github.com/jonathan/profile-evaluator/internal/types"
)

const sampleResume = `Jane Doe
Product Manager | Acme Corp | Jan 2021 - Present
- Led a team of 5 engineers to launch a new AI resume product.
- Reduced latency by 60% across inference pipelines
  and cut infra cost by $200k
Senior Analyst at Beta Capital, Mumbai
Jun 2018 - Dec 2020
- Built dashboards.

Education
B.Tech in Mechanical Engineering, IIT Bombay, 2014 - 2018

Extracurricular Activities
Captain, university cricket team
Volunteer teacher at Teach For India (ongoing)

Test Scores
GMAT 720`

func TestParse_SampleResume(t *testing.T) {
	profile := Parse(sampleResume)

	require.Len(t, profile.Roles, 2)

	pm := profile.Roles[0]
	assert.Equal(t, "Product Manager", pm.Title)
	assert.Equal(t, "Acme Corp", pm.Company)
	assert.Equal(t, "2021-01", pm.Start)
	assert.Equal(t, "", pm.End)
	require.Len(t, pm.Bullets, 2)
	assert.Equal(t, "Led a team of 5 engineers to launch a new AI resume product.", pm.Bullets[0].Text)
	assert.Equal(t, "Reduced latency by 60% across inference pipelines and cut infra cost by $200k", pm.Bullets[1].Text)

	analyst := profile.Roles[1]
	assert.Equal(t, "Senior Analyst", analyst.Title)
	assert.Equal(t, "Beta Capital", analyst.Company)
	assert.Equal(t, "Mumbai", analyst.Location)
	assert.Equal(t, "2018-06", analyst.Start)
	assert.Equal(t, "2020-12", analyst.End)
	require.Len(t, analyst.Bullets, 1)
	assert.Equal(t, "Built dashboards.", analyst.Bullets[0].Text)

	require.Len(t, profile.Education, 1)
	assert.Equal(t, types.Education{
		School:     "IIT Bombay",
		Degree:     "B.Tech",
		Discipline: "Mechanical Engineering",
		TierHint:   types.TierHintTier1,
	}, profile.Education[0])

	require.Len(t, profile.Extracurriculars, 2)
	assert.True(t, profile.Extracurriculars[0].Leadership)
	assert.Equal(t, types.RecencyPast, profile.Extracurriculars[0].Recency)
	assert.False(t, profile.Extracurriculars[1].Leadership)
	assert.Equal(t, types.RecencyCurrent, profile.Extracurriculars[1].Recency)

	require.NotNil(t, profile.Tests)
	assert.Equal(t, types.TestGMAT, profile.Tests.Type)
	require.NotNil(t, profile.Tests.Actual)
	assert.Equal(t, 720, *profile.Tests.Actual)
	assert.Nil(t, profile.Tests.Target)

	assert.Nil(t, profile.International)
}

func TestParse_BulletsWithoutHeaderOpenImplicitRole(t *testing.T) {
	text := "Led a team of 5 engineers to launch a new AI resume product.\n" +
		"Reduced latency by 60% across inference pipelines.\n" +
		"Built dashboards."

	profile := Parse(text)

	require.Len(t, profile.Roles, 1)
	assert.Equal(t, "role", types.RoleID(profile.Roles[0]))
	require.Len(t, profile.Roles[0].Bullets, 3)
	assert.Equal(t, "Built dashboards.", profile.Roles[0].Bullets[2].Text)
}

func TestParse_LineClassification(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantRoles   int
		wantBullets []int
	}{
		{
			name:        "glyph bullets",
			text:        "Analyst - Acme\n• Grew revenue\n* Cut costs\n1. Hired a team",
			wantRoles:   1,
			wantBullets: []int{3},
		},
		{
			name:        "capitalized wrap joins previous bullet",
			text:        "Consultant | BCG | 2019 - 2021\n- Advised a retail client on pricing\nAcross 3 markets in India",
			wantRoles:   1,
			wantBullets: []int{1},
		},
		{
			name:        "blank line stops continuation",
			text:        "Consultant | BCG | 2019 - 2021\n- Advised a retail client\n\n40 stores audited",
			wantRoles:   1,
			wantBullets: []int{2},
		},
		{
			name:        "verb line with separator is a bullet",
			text:        "Led a squad of 8 at Flipkart - payments",
			wantRoles:   1,
			wantBullets: []int{1},
		},
		{
			name:        "title-only header then company line",
			text:        "Associate Consultant\nMcKinsey & Company, Delhi\n- Built a pricing model",
			wantRoles:   1,
			wantBullets: []int{1},
		},
		{
			name:        "contact line is not a role",
			text:        "Jane Doe\nMumbai | jane",
			wantRoles:   0,
			wantBullets: []int{},
		},
		{
			name:        "two roles",
			text:        "Engineer | Infosys | 2015 - 2017\n- Built APIs\nSenior Engineer | Google | 2017 - 2020\n- Scaled search",
			wantRoles:   2,
			wantBullets: []int{1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := Parse(tt.text)
			require.Len(t, profile.Roles, tt.wantRoles, "roles for %q", tt.text)
			got := make([]int, 0, len(profile.Roles))
			for _, role := range profile.Roles {
				got = append(got, len(role.Bullets))
			}
			assert.Equal(t, tt.wantBullets, got)
		})
	}
}

func TestParse_TitleOnlyHeaderThenCompany(t *testing.T) {
	profile := Parse("Associate Consultant\nMcKinsey & Company, Delhi\n- Built a pricing model")

	require.Len(t, profile.Roles, 1)
	assert.Equal(t, "Associate Consultant", profile.Roles[0].Title)
	assert.Equal(t, "McKinsey & Company", profile.Roles[0].Company)
	assert.Equal(t, "Delhi", profile.Roles[0].Location)
}

func TestParse_EducationCapAndTier(t *testing.T) {
	text := strings.Join([]string{
		"Education",
		"IIM Ahmedabad, PGP, 2022",
		"Delhi University, B.Com",
		"St. Xavier's College",
		"Some Institute of Design",
		"Another University",
	}, "\n")

	profile := Parse(text)

	require.Len(t, profile.Education, 4)
	assert.Equal(t, "IIM Ahmedabad", profile.Education[0].School)
	assert.Equal(t, "PGP", profile.Education[0].Degree)
	assert.Equal(t, types.TierHintTier1, profile.Education[0].TierHint)
	assert.Equal(t, "B.Com", profile.Education[1].Degree)
	assert.Empty(t, profile.Education[1].TierHint)
}

func TestParse_DegreeLineAfterSchool(t *testing.T) {
	profile := Parse("Education\nNational Institute of Technology, Trichy\nBachelor of Engineering in Electronics")

	require.Len(t, profile.Education, 1)
	assert.Equal(t, "Bachelor of Engineering", profile.Education[0].Degree)
	assert.Equal(t, "Electronics", profile.Education[0].Discipline)
}

func TestParse_ExtracurricularCapAndLeftovers(t *testing.T) {
	text := strings.Join([]string{
		"Activities",
		"President, Debate Society",
		"Organized a city marathon",
		"Member, choir",
		"Quiz club member",
	}, "\n")
	profile := Parse(text)
	assert.Len(t, profile.Extracurriculars, 3)

	leftover := Parse("Volunteer with a local NGO\nCFA charterholder")
	require.Len(t, leftover.Extracurriculars, 1)
	assert.Equal(t, "Volunteer with a local NGO", leftover.Extracurriculars[0].Text)
	assert.Equal(t, []string{"CFA charterholder"}, leftover.Certifications)
}

func TestParse_AwardsAndCertificationSections(t *testing.T) {
	text := "Awards\n- Dean's list 2016\n\nCertifications\n- CFA Level 1"
	profile := Parse(text)

	assert.Equal(t, []string{"Dean's list 2016"}, profile.Awards)
	assert.Equal(t, []string{"CFA Level 1"}, profile.Certifications)
	assert.Empty(t, profile.Roles)
}

func TestParse_InternationalStub(t *testing.T) {
	profile := Parse("- Launched in 5+ countries across SEA and EMEA")

	require.NotNil(t, profile.International)
	assert.Equal(t, []string{"global"}, profile.International.Regions)
	assert.Equal(t, 6, profile.International.Months)
	assert.Equal(t, []string{"emea"}, profile.International.Evidence)

	assert.Nil(t, Parse("- Grew revenue").International)
}

func TestParse_EmptyInputIsSchemaValid(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\n", "just some words"} {
		profile := Parse(text)
		require.NotNil(t, profile)

		data, err := json.Marshal(profile)
		require.NoError(t, err)
		assert.NoError(t, schemas.ValidateProfileJSON(data), "profile for %q should be schema valid", text)
	}
}

func TestParseWithLexicon_RecoversFromPanic(t *testing.T) {
	// A nil lexicon panics on first lookup
	profile := ParseWithLexicon("- Led a team of 5", nil)

	require.NotNil(t, profile)
	assert.Empty(t, profile.Roles)
	assert.NotNil(t, profile.Education)
}

func TestParse_Deterministic(t *testing.T) {
	first, err := json.Marshal(Parse(sampleResume))
	require.NoError(t, err)
	second, err := json.Marshal(Parse(sampleResume))
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}
