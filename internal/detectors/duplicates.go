package detectors

import (
	"strings"

	"github.com/jonathan/profile-evaluator/internal/lexicon"
	"github.com/jonathan/profile-evaluator/internal/types"
)

// AnalyzeDuplicates compares every pair of bullets by word-set Jaccard
// similarity and reports pairs at or above the configured threshold. Bullets
// with the same non-empty text (ignoring case and spacing) always score 1.0,
// even when they hold no words.
func AnalyzeDuplicates(profile *types.NormalizedProfile, lex *lexicon.Lexicon) types.DuplicatesAnalysis {
	views := bullets(profile)
	result := types.DuplicatesAnalysis{Pairs: []types.DuplicatePair{}}

	sets := make([]map[string]bool, len(views))
	texts := make([]string, len(views))
	for i, v := range views {
		sets[i] = wordSet(v.bullet.Text)
		texts[i] = foldText(v.bullet.Text)
	}

	threshold := lex.Thresholds.DuplicateSimilarity
	for i := 0; i < len(views); i++ {
		for j := i + 1; j < len(views); j++ {
			sim := 1.0
			if texts[i] == "" || texts[i] != texts[j] {
				sim = lexicon.Jaccard(sets[i], sets[j])
			}
			if sim >= threshold {
				result.Pairs = append(result.Pairs, types.DuplicatePair{
					A:          views[i].ref,
					B:          views[j].ref,
					Similarity: sim,
				})
			}
		}
	}
	return result
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range lexicon.Words(text) {
		set[w] = true
	}
	return set
}

// foldText lowercases text and collapses its whitespace
func foldText(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}
