// Package scoring maps detector output to the six 0-10 dimension subscores,
// applies the calibration floors and caps, and bands the weighted aggregate.
package scoring

import (
	"fmt"
	"math"

	"github.com/jonathan/profile-evaluator/internal/lexicon"
	"github.com/jonathan/profile-evaluator/internal/types"
)

// Calibration rule identifiers recorded in the trace
const (
	RuleAcademicsFloor  = "academics.floor.tier1_rigorous"
	RuleLeadershipFloor = "leadership.floor.crossfunctional_exec"
	RuleTestCap         = "testReadiness.cap.target_only"
	RulePersonaWeights  = "weights.persona"
	RuleDetectorNeutral = "detectors.neutral"
)

const (
	maxScore        = 10
	academicsFloor  = 8
	leadershipFloor = 8
	targetOnlyCap   = 6
	descriptorScore = 4

	gmatBase, gmatStep = 500, 25
	greBase, greStep   = 300, 4
	// largest GRE total; anything above is read as a GMAT score
	greMax = 340
)

// tierBase is the academics base score by institution tier
var tierBase = map[int]float64{1: 7, 2: 6, 3: 5, 4: 4, 5: 3, 6: 2}

// Options selects the persona weights and keyword track for an evaluation
type Options struct {
	Persona types.Persona `json:"persona"`
	Track   types.Track   `json:"track"`
}

// Score computes subscores, readiness and trace for an analyzed profile.
// Gaps are left empty for the gap composer.
func Score(profile *types.NormalizedProfile, analysis types.Analysis, opts Options, lex *lexicon.Lexicon) types.EvaluationOutput {
	if profile == nil {
		profile = types.NewNormalizedProfile()
	}

	subs, rules := Subscores(profile, analysis)

	weights := lex.WeightsFor(opts.Persona)
	if p, ok := lex.Personas[opts.Persona]; ok && len(p.Weights) > 0 {
		rules = append(rules, types.RuleFired{
			ID:      fmt.Sprintf("%s.%s", RulePersonaWeights, opts.Persona),
			Summary: fmt.Sprintf("%d weight overrides for persona %s", len(p.Weights), opts.Persona),
		})
	}
	for _, f := range analysis.Failures {
		rules = append(rules, types.RuleFired{
			ID:      fmt.Sprintf("%s.%s", RuleDetectorNeutral, f.Detector),
			Summary: "detector failed; neutral result used",
		})
	}

	score := Aggregate(subs, weights)
	return types.EvaluationOutput{
		Version:    lex.Version,
		Persona:    opts.Persona,
		Track:      opts.Track,
		Readiness:  types.Readiness{Band: lex.BandFor(score), Score: score},
		Dimensions: subs,
		Gaps: types.Gaps{
			TopBulletsToFix:   []types.BulletFix{},
			WeakestDimensions: []string{},
			Next6Weeks:        []string{},
			Next90Days:        []string{},
			EssayAngles:       []string{},
		},
		Trace: types.Trace{
			RulesFired:           rules,
			Density:              analysis.Metrics.Density,
			Coverage:             analysis.Keywords.Coverage,
			LongBulletShare:      analysis.Length.LongShare,
			MetricsConfidence:    analysis.Metrics.Confidence,
			AcademicTier:         analysis.Academics.BestTier,
			LeadershipCategories: nonNil(analysis.Leadership.Categories),
			Weights:              weights,
			DetectorFailures:     analysis.Failures,
		},
	}
}

// Subscores maps detector output to the six dimension scores and returns the
// calibration rules that fired
func Subscores(profile *types.NormalizedProfile, analysis types.Analysis) (types.Subscores, []types.RuleFired) {
	rules := []types.RuleFired{}
	var subs types.Subscores

	subs.Academics = academics(profile, analysis.Academics)
	if analysis.Academics.Tier1 && analysis.Academics.RigorousDegree {
		rules = append(rules, types.RuleFired{
			ID:      RuleAcademicsFloor,
			Summary: fmt.Sprintf("tier-1 school with rigorous discipline; academics %d floored at %d", subs.Academics, academicsFloor),
		})
		subs.Academics = max(subs.Academics, academicsFloor)
	}

	var targetOnly bool
	subs.TestReadiness, targetOnly = testReadiness(profile.Tests)
	if targetOnly {
		rules = append(rules, types.RuleFired{
			ID:      RuleTestCap,
			Summary: fmt.Sprintf("target score without an actual score; testReadiness %d capped at %d", subs.TestReadiness, targetOnlyCap),
		})
		subs.TestReadiness = min(subs.TestReadiness, targetOnlyCap)
	}

	subs.WorkImpact = workImpact(analysis)

	subs.Leadership = leadership(profile, analysis.Leadership)
	if analysis.Leadership.HasCategory("cross_functional") && analysis.Leadership.ExecutiveSignal {
		rules = append(rules, types.RuleFired{
			ID:      RuleLeadershipFloor,
			Summary: fmt.Sprintf("cross-functional leadership with executive title; leadership %d floored at %d", subs.Leadership, leadershipFloor),
		})
		subs.Leadership = max(subs.Leadership, leadershipFloor)
	}

	subs.Extracurriculars = extracurriculars(profile)
	subs.InternationalExposure = international(analysis.International)
	return subs, rules
}

// Aggregate is the weighted mean of the clamped subscores, rounded to 0.1.
// Dimensions without a weight count with weight 0.
func Aggregate(subs types.Subscores, weights map[string]float64) float64 {
	total, weightSum := 0.0, 0.0
	for _, dim := range types.Dimensions {
		w := weights[dim]
		if w <= 0 {
			continue
		}
		total += clamp(float64(subs.Get(dim))) * w
		weightSum += w
	}
	if weightSum == 0 {
		return 0
	}
	return math.Round(clamp(total/weightSum)*10) / 10
}

func academics(profile *types.NormalizedProfile, a types.AcademicsAnalysis) int {
	if len(profile.Education) == 0 || a.BestTier == 0 {
		return 0
	}
	base, ok := tierBase[a.BestTier]
	if !ok {
		base = tierBase[6]
	}
	score := base * (0.6 + 0.4*a.Confidence)
	if a.RigorousDegree {
		score++
	}
	return toScore(score)
}

// testReadiness scores the test block; targetOnly reports that only a goal
// score was given
func testReadiness(tests *types.Tests) (score int, targetOnly bool) {
	if tests == nil {
		return 0, false
	}

	value := tests.Actual
	if value == nil && tests.Target != nil {
		value = tests.Target
		targetOnly = true
	}
	if value == nil {
		if tests.Descriptor != "" {
			return descriptorScore, false
		}
		return 0, false
	}

	testType := tests.Type
	if testType == "" {
		testType = types.TestGRE
		if *value > greMax {
			testType = types.TestGMAT
		}
	}

	v := float64(*value)
	switch testType {
	case types.TestGRE:
		return toScore((v - greBase) / greStep), targetOnly
	default:
		return toScore((v - gmatBase) / gmatStep), targetOnly
	}
}

func workImpact(a types.Analysis) int {
	bulletCount := len(a.Metrics.Bullets)
	if bulletCount == 0 {
		return 0
	}
	mismatchShare := float64(a.Verbs.MismatchCount) / float64(bulletCount)
	passiveShare := float64(a.Verbs.PassiveCount) / float64(bulletCount)
	dupPenalty := math.Min(2, 0.5*float64(len(a.Duplicates.Pairs)))

	score := 10*(0.4*a.Metrics.Density+0.25*a.Metrics.Confidence+0.2*a.Verbs.StrongShare+0.15*a.Keywords.Coverage) -
		dupPenalty - mismatchShare - 0.5*passiveShare
	return toScore(score)
}

func leadership(profile *types.NormalizedProfile, a types.LeadershipAnalysis) int {
	score := 10 * a.Score
	for _, ec := range profile.Extracurriculars {
		if ec.Leadership {
			score++
			break
		}
	}
	return toScore(score)
}

func extracurriculars(profile *types.NormalizedProfile) int {
	score := 2 * len(profile.Extracurriculars)
	leader, current := false, false
	for _, ec := range profile.Extracurriculars {
		leader = leader || ec.Leadership
		current = current || ec.Recency == types.RecencyCurrent
	}
	if leader {
		score += 2
	}
	if current {
		score++
	}
	if len(profile.Awards) > 0 || len(profile.Certifications) > 0 {
		score++
	}
	return toScore(float64(score))
}

func international(a types.InternationalAnalysis) int {
	return toScore(float64(2*len(a.Regions) + min(4, a.Months/6)))
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(maxScore, v))
}

func toScore(v float64) int {
	return int(clamp(math.Round(v)))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
