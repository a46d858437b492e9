package detectors

import (
	"github.com/jonathan/profile-evaluator/internal/lexicon"
	"github.com/jonathan/profile-evaluator/internal/types"
)

// AnalyzeKeywords reports which track keywords appear across all bullets.
// An unknown track has no keywords and yields zero coverage.
func AnalyzeKeywords(profile *types.NormalizedProfile, track types.Track, lex *lexicon.Lexicon) types.KeywordsAnalysis {
	want := lex.TrackKeywords(track)
	if want == nil {
		want = []string{}
	}

	result := types.KeywordsAnalysis{
		Track:   track,
		Want:    want,
		Present: []string{},
		Missing: []string{},
		Roles:   []types.RoleKeywords{},
	}

	views := bullets(profile)
	present := make(map[string]bool)
	for _, kw := range lex.MatchKeywords(track, joinBullets(views)) {
		present[kw] = true
	}
	for _, kw := range want {
		if present[kw] {
			result.Present = append(result.Present, kw)
		} else {
			result.Missing = append(result.Missing, kw)
		}
	}
	result.Coverage = share(len(result.Present), len(want))

	if profile == nil {
		return result
	}
	for _, role := range profile.Roles {
		hits := 0
		for _, b := range role.Bullets {
			hits += len(lex.MatchKeywords(track, b.Text))
		}
		result.Roles = append(result.Roles, types.RoleKeywords{
			RoleID:  types.RoleID(role),
			Hits:    hits,
			Density: share(hits, len(role.Bullets)),
		})
	}
	return result
}
