package detectors

import (
	"math"
	"strings"

	"github.com/jonathan/profile-evaluator/internal/lexicon"
	"github.com/jonathan/profile-evaluator/internal/types"
)

// AnalyzeLeadership walks the weighted leadership categories over bullets,
// role titles and extracurriculars. Each category counts once; bonus
// heuristics count only when the category they stand in for did not match.
// The score is the weight sum capped at 1.
func AnalyzeLeadership(profile *types.NormalizedProfile, lex *lexicon.Lexicon) types.LeadershipAnalysis {
	result := types.LeadershipAnalysis{
		Categories: []string{},
		Evidence:   []string{},
	}
	if profile == nil {
		return result
	}

	var texts, titles []string
	for _, role := range profile.Roles {
		if role.Title != "" {
			titles = append(titles, role.Title)
		}
		for _, b := range role.Bullets {
			texts = append(texts, b.Text)
		}
	}
	texts = append(texts, titles...)
	for _, ec := range profile.Extracurriculars {
		texts = append(texts, ec.Text)
	}
	corpus := strings.Join(texts, "\n")

	matched := make(map[string]bool)
	total := 0.0
	for _, m := range lex.MatchLeadership(corpus) {
		matched[m.Name] = true
		total += m.Weight
		result.Categories = append(result.Categories, m.Name)
		result.Evidence = appendUnique(result.Evidence, m.Evidence)
	}
	for _, b := range lex.MatchBonuses(corpus, matched) {
		total += b.Weight
		result.Bonuses = append(result.Bonuses, b.Name)
		result.Evidence = appendUnique(result.Evidence, b.Evidence)
	}

	result.Score = math.Min(1, total)
	result.ExecutiveSignal = lex.ExecutiveTitle(strings.Join(titles, "\n"))
	return result
}
