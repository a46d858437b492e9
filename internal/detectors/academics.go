package detectors

import (
	"strings"

	"github.com/jonathan/profile-evaluator/internal/lexicon"
	"github.com/jonathan/profile-evaluator/internal/types"
)

const (
	// fallbackTier is assigned to schools missing from the tier list
	fallbackTier = 6
	// hintConfidence applies when a tier2 hint is the only evidence
	hintConfidence = 0.5
)

// AnalyzeAcademics resolves each education entry to an institution tier and
// flags quantitative or technical disciplines. A tier1 hint short-circuits
// to tier 1; unknown schools get the fallback tier with zero confidence.
func AnalyzeAcademics(profile *types.NormalizedProfile, lex *lexicon.Lexicon) types.AcademicsAnalysis {
	result := types.AcademicsAnalysis{Entries: []types.AcademicMatch{}}
	if profile == nil || len(profile.Education) == 0 {
		return result
	}

	result.BestTier = fallbackTier + 1
	for _, edu := range profile.Education {
		match := academicMatch(edu, lex)
		result.Entries = append(result.Entries, match)

		if match.RigorousDegree {
			result.RigorousDegree = true
		}
		if match.Tier < result.BestTier || (match.Tier == result.BestTier && match.Confidence > result.Confidence) {
			result.BestTier = match.Tier
			result.Confidence = match.Confidence
		}
	}
	result.Tier1 = result.BestTier == 1
	return result
}

func academicMatch(edu types.Education, lex *lexicon.Lexicon) types.AcademicMatch {
	match := types.AcademicMatch{
		School:         edu.School,
		Tier:           fallbackTier,
		RigorousDegree: lex.RigorousDiscipline(strings.TrimSpace(edu.Discipline + " " + edu.Degree)),
	}

	if edu.TierHint == types.TierHintTier1 {
		match.Tier = 1
		match.Confidence = 1
		match.FromHint = true
		return match
	}

	if inst, ok := lex.MatchInstitution(edu.School); ok {
		match.MatchedName = inst.Name
		match.Tier = inst.Tier
		match.Confidence = inst.Similarity
		return match
	}

	if edu.TierHint == types.TierHintTier2 {
		match.Tier = 2
		match.Confidence = hintConfidence
		match.FromHint = true
	}
	return match
}
